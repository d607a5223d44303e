package sim

import (
	"container/heap"
	"math/rand"
)

// CallSubmitter hands a CallRequest off to the elevator controller's
// pending queue. Implemented by sim/controller.ElevatorController; kept
// as a narrow interface here so the sim package never imports the
// controller package.
type CallSubmitter interface {
	SubmitCall(call CallRequest)
}

// FloorRange bounds destination sampling for a passenger type.
type FloorRange struct {
	Min, Max int
}

// SecondsRange bounds planned-stay sampling for a passenger type.
type SecondsRange struct {
	Min, Max float64
}

// PassengerTypeConfig groups the per-type arrival curve and sampling
// ranges (spec.md §4.5).
type PassengerTypeConfig struct {
	Curve             RateCurve
	DestinationRange  FloorRange
	StayRange         SecondsRange
}

// PassengerControllerConfig groups all tunables for PassengerController.
type PassengerControllerConfig struct {
	StartOfDaySeconds     float64
	ArrivalHorizonSeconds float64
	Types                 map[PersonType]PassengerTypeConfig
}

func defaultDestinationRange(personType PersonType, floorCount int) FloorRange {
	max := floorCount - 1
	if max < 1 {
		max = 1
	}
	switch personType {
	case PersonTypeShopper:
		upper := max / 3
		if upper < 1 {
			upper = 1
		}
		return FloorRange{Min: 1, Max: upper}
	case PersonTypeOfficeWorker:
		return FloorRange{Min: 1, Max: max}
	default: // Resident
		return FloorRange{Min: 1, Max: max}
	}
}

func defaultStayRange(personType PersonType) SecondsRange {
	switch personType {
	case PersonTypeOfficeWorker:
		return SecondsRange{Min: 4 * 3600, Max: 8 * 3600}
	case PersonTypeShopper:
		return SecondsRange{Min: 15 * 60, Max: 60 * 60}
	default: // Resident
		return SecondsRange{Min: 30 * 60, Max: 2 * 3600}
	}
}

// DefaultPassengerControllerConfig builds the built-in Resident,
// OfficeWorker, and Shopper curves and sampling ranges for a building of
// the given floor count.
func DefaultPassengerControllerConfig(floorCount int) PassengerControllerConfig {
	types := make(map[PersonType]PassengerTypeConfig, 3)
	for _, pt := range []PersonType{PersonTypeResident, PersonTypeOfficeWorker, PersonTypeShopper} {
		types[pt] = PassengerTypeConfig{
			Curve:            DefaultRateCurve(pt),
			DestinationRange: defaultDestinationRange(pt, floorCount),
			StayRange:        defaultStayRange(pt),
		}
	}
	return PassengerControllerConfig{
		StartOfDaySeconds:     8 * 3600,
		ArrivalHorizonSeconds: 3600,
		Types:                 types,
	}
}

// scheduledReturn is a pending return-trip call waiting in the
// PassengerController's due-time min-heap.
type scheduledReturn struct {
	DueT        float64
	PersonID    int
	Origin      int
	Destination int
}

// returnHeap orders scheduledReturns by due time, tie-broken by person id
// for determinism, following the teacher's EventHeap pattern
// (sim/cluster/event_heap.go): timestamp primary, deterministic
// tie-breaker secondary.
type returnHeap []scheduledReturn

func (h returnHeap) Len() int { return len(h) }
func (h returnHeap) Less(i, j int) bool {
	if h[i].DueT != h[j].DueT {
		return h[i].DueT < h[j].DueT
	}
	return h[i].PersonID < h[j].PersonID
}
func (h returnHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *returnHeap) Push(x any)   { *h = append(*h, x.(scheduledReturn)) }
func (h *returnHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// PassengerController owns arrival generation and return-trip scheduling
// for every passenger type (spec.md §4.5, C6). It holds the single
// seeded RNG for the run: the thinning sampler and route sampling both
// draw from it, so a fixed seed reproduces the exact sequence of spawns
// and routes (spec.md §9).
type PassengerController struct {
	building  *Building
	bus       *EventBus
	submitter CallSubmitter
	rng       *rand.Rand
	config    PassengerControllerConfig

	nextArrival     map[PersonType]float64
	nextArrivalSet  map[PersonType]bool
	scheduled       returnHeap
	people          map[int]*Person
	callOwner       map[int]int // callID -> personID
	nextPersonID    int
	nextCallID      int
	completedCalls  int
}

// NewPassengerController constructs a PassengerController seeded
// deterministically from seed, and subscribes to the bus to drive
// person lifecycle transitions on board/alight.
func NewPassengerController(building *Building, bus *EventBus, submitter CallSubmitter, seed int64, config PassengerControllerConfig) *PassengerController {
	pc := &PassengerController{
		building:       building,
		bus:            bus,
		submitter:      submitter,
		rng:            rand.New(rand.NewSource(seed)),
		config:         config,
		nextArrival:    make(map[PersonType]float64),
		nextArrivalSet: make(map[PersonType]bool),
		people:         make(map[int]*Person),
		callOwner:      make(map[int]int),
		nextPersonID:   1,
		nextCallID:     1,
	}
	bus.Subscribe(pc.onEvent)
	return pc
}

func (pc *PassengerController) onEvent(e DomainEvent) {
	switch ev := e.(type) {
	case PersonBoardedEvent:
		pc.handleBoarded(ev)
	case PersonAlightedEvent:
		pc.handleAlighted(ev)
	}
}

func (pc *PassengerController) handleBoarded(ev PersonBoardedEvent) {
	p, ok := pc.people[ev.PersonID]
	if !ok {
		return
	}
	old := p.State
	p.State = LifecycleRiding
	pc.bus.Publish(NewPersonStateChangedEvent(ev.T, "passenger-controller", p.ID, old, p.State))
}

func (pc *PassengerController) handleAlighted(ev PersonAlightedEvent) {
	p, ok := pc.people[ev.PersonID]
	if !ok {
		return
	}
	p.CurrentFloor = ev.Floor
	if p.HasNextLeg() {
		old := p.State
		p.State = LifecycleStaying
		pc.bus.Publish(NewPersonStateChangedEvent(ev.T, "passenger-controller", p.ID, old, p.State))

		stay := p.CurrentDestination().PlannedStaySecs
		p.AdvanceLeg()
		next := p.CurrentDestination()
		heap.Push(&pc.scheduled, scheduledReturn{
			DueT:        ev.T + stay,
			PersonID:    p.ID,
			Origin:      ev.Floor,
			Destination: next.Floor,
		})
	} else {
		old := p.State
		p.State = LifecycleCompleted
		pc.bus.Publish(NewPersonStateChangedEvent(ev.T, "passenger-controller", p.ID, old, p.State))
		pc.completedCalls++
	}
}

// CompletedCalls returns the number of calls that ended in person-alighted
// at the final leg of their route.
func (pc *PassengerController) CompletedCalls() int { return pc.completedCalls }

// PeopleSpawned returns the number of people spawned so far.
func (pc *PassengerController) PeopleSpawned() int { return pc.nextPersonID - 1 }

// Tick drains due scheduled returns and generates new arrivals for sim
// time t, using the configured ArrivalHorizonSeconds as the thinning
// lookahead window (spec.md §4.5).
func (pc *PassengerController) Tick(t float64) {
	pc.drainScheduled(t)
	for personType, cfg := range pc.config.Types {
		pc.advanceArrivals(personType, cfg, t)
	}
}

func (pc *PassengerController) drainScheduled(t float64) {
	for pc.scheduled.Len() > 0 && pc.scheduled[0].DueT <= t {
		entry := heap.Pop(&pc.scheduled).(scheduledReturn)
		p := pc.people[entry.PersonID]

		old := p.State
		p.State = LifecycleWaiting
		pc.bus.Publish(NewPersonStateChangedEvent(t, "passenger-controller", p.ID, old, p.State))

		call := NewCallRequest(pc.nextCallID, p.ID, p.Type, entry.Origin, entry.Destination, t)
		pc.nextCallID++
		pc.callOwner[call.CallID] = p.ID
		pc.submitCall(call, t)
	}
}

func (pc *PassengerController) advanceArrivals(personType PersonType, cfg PassengerTypeConfig, t float64) {
	if !pc.nextArrivalSet[personType] {
		pc.nextArrival[personType] = NextArrivalViaThinning(pc.rng, cfg.Curve, pc.config.StartOfDaySeconds, t, pc.config.ArrivalHorizonSeconds)
		pc.nextArrivalSet[personType] = true
	}
	for pc.nextArrival[personType] <= t {
		pc.spawn(personType, cfg, pc.nextArrival[personType])
		pc.nextArrival[personType] = NextArrivalViaThinning(pc.rng, cfg.Curve, pc.config.StartOfDaySeconds, pc.nextArrival[personType], pc.config.ArrivalHorizonSeconds)
	}
}

func (pc *PassengerController) spawn(personType PersonType, cfg PassengerTypeConfig, t float64) {
	destFloor := cfg.DestinationRange.Min
	span := cfg.DestinationRange.Max - cfg.DestinationRange.Min
	if span > 0 {
		destFloor += pc.rng.Intn(span + 1)
	}
	if destFloor >= pc.building.FloorCount() {
		destFloor = pc.building.FloorCount() - 1
	}
	stay := cfg.StayRange.Min + pc.rng.Float64()*(cfg.StayRange.Max-cfg.StayRange.Min)

	id := pc.nextPersonID
	pc.nextPersonID++
	route := NewRoute([]Destination{
		{Floor: destFloor, PlannedStaySecs: stay},
		{Floor: 0, PlannedStaySecs: 0},
	})
	p := NewPerson(id, personType, 0, route)
	pc.people[id] = p
	pc.bus.Publish(NewPersonSpawnedEvent(t, "passenger-controller", p.ID, p.Type, 0))

	old := p.State
	p.State = LifecycleWaiting
	pc.bus.Publish(NewPersonStateChangedEvent(t, "passenger-controller", p.ID, old, p.State))

	call := NewCallRequest(pc.nextCallID, p.ID, p.Type, 0, destFloor, t)
	pc.nextCallID++
	pc.callOwner[call.CallID] = p.ID
	pc.submitCall(call, t)
}

func (pc *PassengerController) submitCall(call CallRequest, t float64) {
	pc.bus.Publish(NewCallRequestedEvent(t, "passenger-controller", call))
	pc.submitter.SubmitCall(call)

	floor := pc.building.GetFloor(call.Origin)
	dir := call.Direction.ToDirection()
	switch dir {
	case DirectionUp:
		floor.EnqueueUp(call.PersonID)
		pc.bus.Publish(NewQueueSizeChangedEvent(t, "passenger-controller", call.Origin, DirectionUp, floor.WaitingUp()))
	case DirectionDown:
		floor.EnqueueDown(call.PersonID)
		pc.bus.Publish(NewQueueSizeChangedEvent(t, "passenger-controller", call.Origin, DirectionDown, floor.WaitingDown()))
	}
}
