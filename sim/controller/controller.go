// Package controller implements the elevator controller (spec.md §4.4, C5):
// it owns the pending-call queue and one ActiveAssignment per busy vehicle,
// and steers every assignment through its pickup-to-dropoff phase machine
// each tick.
package controller

import (
	"math"

	"github.com/Holosim/ElevatorTrafficSim/sim"
	"github.com/Holosim/ElevatorTrafficSim/sim/dispatch"
)

// Phase is a stage of an ActiveAssignment's pickup-to-dropoff lifecycle.
type Phase int

const (
	PhaseGoingToPickup Phase = iota
	PhaseDoorDwellAtPickup
	PhaseBoarding
	PhaseGoingToDropoff
	PhaseDoorDwellAtDropoff
	PhaseUnloading
	PhaseComplete
)

const (
	doorDwellSeconds = 2.0 // door_open (1.0s) + door_close (1.0s)
)

// ActiveAssignment binds a call (and any co-directional batch boarded with
// it) to a specific vehicle for the duration of pickup-to-dropoff.
type ActiveAssignment struct {
	Primary    sim.CallRequest
	Phase      Phase
	Boarded    []sim.CallRequest
	NextTarget int
	hasTarget  bool
	dwellArmed bool
}

// nowSetter is implemented by dispatch.Cooldown; satisfied structurally so
// this package never imports a concrete decorator type.
type nowSetter interface {
	SetNow(t float64)
}

// departureNotifier is implemented by dispatch.Cooldown.
type departureNotifier interface {
	NotifyDeparture(vehicleID int)
}

// ElevatorController assigns pending calls to vehicles and drives every
// active assignment's phase machine (spec.md §4.4).
type ElevatorController struct {
	building *sim.Building
	bus      *sim.EventBus
	policy   dispatch.Policy
	fleet    []*sim.Vehicle
	byID     map[int]*sim.Vehicle

	pending []sim.CallRequest
	active  map[int]*ActiveAssignment // vehicle id -> assignment
}

// NewElevatorController constructs a controller over fleet, using policy to
// select vehicles for pending calls.
func NewElevatorController(building *sim.Building, bus *sim.EventBus, policy dispatch.Policy, fleet []*sim.Vehicle) *ElevatorController {
	byID := make(map[int]*sim.Vehicle, len(fleet))
	for _, v := range fleet {
		byID[v.ID] = v
	}
	return &ElevatorController{
		building: building,
		bus:      bus,
		policy:   policy,
		fleet:    fleet,
		byID:     byID,
		active:   make(map[int]*ActiveAssignment),
	}
}

// SubmitCall enqueues call at the tail of the pending queue. Implements
// sim.CallSubmitter, so the passenger controller never imports this
// package directly.
func (c *ElevatorController) SubmitCall(call sim.CallRequest) {
	c.pending = append(c.pending, call)
}

// PendingCount returns the number of calls not yet assigned to a vehicle.
func (c *ElevatorController) PendingCount() int { return len(c.pending) }

// Tick runs one controller step at sim time t: assign pending calls, then
// advance every active assignment.
func (c *ElevatorController) Tick(t float64) {
	if ns, ok := c.policy.(nowSetter); ok {
		ns.SetNow(t)
	}
	c.assignPending(t)
	for _, v := range c.fleet {
		a, ok := c.active[v.ID]
		if !ok {
			continue
		}
		c.stepAssignment(v, a, t)
		if a.Phase == PhaseComplete {
			delete(c.active, v.ID)
		}
	}
}

func (c *ElevatorController) fleetView() dispatch.FleetView {
	view := make(dispatch.FleetView, len(c.fleet))
	for i, v := range c.fleet {
		view[i] = dispatch.VehicleView{ID: v.ID, CurrentFloor: v.CurrentFloor(), State: v.State()}
	}
	return view
}

// assignPending implements spec.md §4.4 step 1: while pending is non-empty,
// peek the head call and ask the policy for a vehicle. If that vehicle is
// already active, stop entirely rather than starve the head call.
func (c *ElevatorController) assignPending(t float64) {
	for len(c.pending) > 0 {
		call := c.pending[0]
		vehicleID := c.policy.SelectElevator(c.fleetView(), call)
		if _, busy := c.active[vehicleID]; busy {
			break
		}
		c.pending = c.pending[1:]
		c.active[vehicleID] = &ActiveAssignment{Primary: call, Phase: PhaseGoingToPickup}
		c.bus.Publish(sim.NewCallAssignedEvent(t, "elevator-controller", call.CallID, vehicleID, math.NaN()))
		c.byID[vehicleID].SetTarget(call.Origin)
	}
}

func (c *ElevatorController) stepAssignment(v *sim.Vehicle, a *ActiveAssignment, t float64) {
	switch a.Phase {
	case PhaseGoingToPickup:
		c.stepGoingToPickup(v, a, t)
	case PhaseDoorDwellAtPickup:
		c.stepDoorDwell(v, a, t, PhaseBoarding)
	case PhaseBoarding:
		c.stepBoarding(v, a, t)
	case PhaseGoingToDropoff:
		c.stepGoingToDropoff(v, a, t)
	case PhaseDoorDwellAtDropoff:
		c.stepDoorDwell(v, a, t, PhaseUnloading)
	case PhaseUnloading:
		c.stepUnloading(v, a, t)
	}
}

func (c *ElevatorController) stepGoingToPickup(v *sim.Vehicle, a *ActiveAssignment, t float64) {
	if v.CurrentFloor() == a.Primary.Origin && v.State() == sim.VehicleDoorsOpen {
		a.Phase = PhaseDoorDwellAtPickup
		a.dwellArmed = false
		c.bus.Publish(sim.NewElevatorArrivedEvent(t, "elevator-controller", v.ID, a.Primary.Origin))
		c.bus.Publish(sim.NewDoorsOpenedEvent(t, "elevator-controller", v.ID, a.Primary.Origin))
	}
}

// stepDoorDwell arms the 2.0s dwell once, then waits for the timer to reach
// zero before advancing to next. Shared by door-dwell-at-pickup and
// door-dwell-at-dropoff (spec.md §4.4).
func (c *ElevatorController) stepDoorDwell(v *sim.Vehicle, a *ActiveAssignment, t float64, next Phase) {
	if !a.dwellArmed {
		v.BeginDoorDwell(doorDwellSeconds)
		a.dwellArmed = true
		return
	}
	if v.TimeRemaining() == 0 {
		a.Phase = next
		if next == PhaseUnloading {
			a.dwellArmed = false
		}
	}
}

func (c *ElevatorController) stepBoarding(v *sim.Vehicle, a *ActiveAssignment, t float64) {
	if v.State() == sim.VehicleLoading {
		if v.TimeRemaining() > 0 {
			return
		}
		// Loading finished this tick.
		if a.hasTarget {
			v.CloseDoorsToIdle()
			c.bus.Publish(sim.NewDoorsClosedEvent(t, "elevator-controller", v.ID, a.Primary.Origin))
			if dn, ok := c.policy.(departureNotifier); ok {
				dn.NotifyDeparture(v.ID)
			}
			v.SetTarget(a.NextTarget)
			a.Phase = PhaseGoingToDropoff
		}
		return
	}

	// First entry to boarding this tick.
	remaining := v.CapacityRemaining()
	if remaining <= 0 {
		c.bus.Publish(sim.NewVehicleAtCapacityAtPickupEvent(t, "elevator-controller", a.Primary.CallID, a.Primary.PersonID, v.ID, a.Primary.Origin, v.OccupantCount(), v.Capacity))
		c.pending = append(c.pending, a.Primary)
		v.CloseDoorsToIdle()
		c.bus.Publish(sim.NewDoorsClosedEvent(t, "elevator-controller", v.ID, a.Primary.Origin))
		a.Phase = PhaseComplete
		return
	}

	batch := c.collectBatch(a.Primary, remaining)
	c.dequeueBatch(batch, t)

	boarded := make([]sim.CallRequest, 0, len(batch))
	for _, call := range batch {
		if v.CapacityRemaining() <= 0 {
			c.pending = append(c.pending, call)
			continue
		}
		v.AddPassenger(call.PersonID)
		boarded = append(boarded, call)
		c.bus.Publish(sim.NewPersonBoardedEvent(t, "elevator-controller", call.PersonID, call.CallID, v.ID, a.Primary.Origin, v.OccupantCount()))
	}

	v.BeginBoarding(len(boarded))
	a.Boarded = append(a.Boarded, boarded...)
	target, ok := nearestDestination(boarded, a.Primary.Origin)
	if ok {
		a.NextTarget = target
		a.hasTarget = true
	}
}

// collectBatch gathers the primary call plus any pending calls sharing its
// (origin, direction), up to limit total, preserving FIFO order of the
// calls left behind in pending.
func (c *ElevatorController) collectBatch(primary sim.CallRequest, limit int) []sim.CallRequest {
	batch := []sim.CallRequest{primary}
	remaining := make([]sim.CallRequest, 0, len(c.pending))
	for _, call := range c.pending {
		if len(batch) >= limit {
			remaining = append(remaining, call)
			continue
		}
		if call.Origin == primary.Origin && call.Direction == primary.Direction {
			batch = append(batch, call)
			continue
		}
		remaining = append(remaining, call)
	}
	c.pending = remaining
	return batch
}

// dequeueBatch pops each batched call's person off the matching floor
// queue, defensively skipping an already-empty queue, and publishes the
// resulting queue-size-changed event.
func (c *ElevatorController) dequeueBatch(batch []sim.CallRequest, t float64) {
	for _, call := range batch {
		floor := c.building.GetFloor(call.Origin)
		dir := call.Direction.ToDirection()
		switch dir {
		case sim.DirectionUp:
			if floor.WaitingUp() > 0 {
				floor.DequeueUp()
			}
			c.bus.Publish(sim.NewQueueSizeChangedEvent(t, "elevator-controller", call.Origin, sim.DirectionUp, floor.WaitingUp()))
		case sim.DirectionDown:
			if floor.WaitingDown() > 0 {
				floor.DequeueDown()
			}
			c.bus.Publish(sim.NewQueueSizeChangedEvent(t, "elevator-controller", call.Origin, sim.DirectionDown, floor.WaitingDown()))
		}
	}
}

func (c *ElevatorController) stepGoingToDropoff(v *sim.Vehicle, a *ActiveAssignment, t float64) {
	if v.State() != sim.VehicleDoorsOpen {
		return
	}
	for _, call := range a.Boarded {
		if call.Destination == v.CurrentFloor() {
			a.Phase = PhaseDoorDwellAtDropoff
			a.dwellArmed = false
			c.bus.Publish(sim.NewElevatorArrivedEvent(t, "elevator-controller", v.ID, v.CurrentFloor()))
			c.bus.Publish(sim.NewDoorsOpenedEvent(t, "elevator-controller", v.ID, v.CurrentFloor()))
			return
		}
	}
}

func (c *ElevatorController) stepUnloading(v *sim.Vehicle, a *ActiveAssignment, t float64) {
	if v.State() == sim.VehicleUnloading {
		if v.TimeRemaining() > 0 {
			return
		}
		// Unloading finished this tick.
		floor := v.CurrentFloor()
		if len(a.Boarded) == 0 {
			v.CloseDoorsToIdle()
			c.bus.Publish(sim.NewDoorsClosedEvent(t, "elevator-controller", v.ID, floor))
			a.Phase = PhaseComplete
			return
		}
		target, _ := nearestDestination(a.Boarded, floor)
		v.CloseDoorsToIdle()
		c.bus.Publish(sim.NewDoorsClosedEvent(t, "elevator-controller", v.ID, floor))
		v.SetTarget(target)
		a.NextTarget = target
		a.hasTarget = true
		a.dwellArmed = false
		a.Phase = PhaseGoingToDropoff
		return
	}

	// First entry to unloading this tick: alight everyone bound here.
	floor := v.CurrentFloor()
	remaining := a.Boarded[:0]
	alighted := 0
	for _, call := range a.Boarded {
		if call.Destination == floor {
			v.RemovePassenger(call.PersonID)
			alighted++
			c.bus.Publish(sim.NewPersonAlightedEvent(t, "elevator-controller", call.PersonID, call.CallID, v.ID, floor, v.OccupantCount()))
		} else {
			remaining = append(remaining, call)
		}
	}
	a.Boarded = remaining
	v.BeginUnloading(alighted)
}

// nearestDestination returns the boarded call's destination nearest to
// refFloor, ties broken by first encounter in boarded-calls order.
func nearestDestination(boarded []sim.CallRequest, refFloor int) (int, bool) {
	if len(boarded) == 0 {
		return 0, false
	}
	best := boarded[0].Destination
	bestDist := distance(best, refFloor)
	for _, call := range boarded[1:] {
		d := distance(call.Destination, refFloor)
		if d < bestDist {
			best = call.Destination
			bestDist = d
		}
	}
	return best, true
}

func distance(a, b int) int {
	if a < b {
		return b - a
	}
	return a - b
}
