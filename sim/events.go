package sim

// EventKind tags the variant of a DomainEvent. Values match the wire-level
// Type tags of the NDJSON event record schema (spec.md §6) exactly, so the
// publication adapter can use Kind() directly as the JSON "Type" field.
type EventKind string

const (
	EventRunStarted          EventKind = "RunStarted"
	EventRunEnded            EventKind = "RunEnded"
	EventPersonSpawned       EventKind = "PersonSpawned"
	EventPersonStateChanged  EventKind = "PersonStateChanged"
	EventCallRequested       EventKind = "CallRequested"
	EventCallAssigned        EventKind = "CallAssigned"
	EventElevatorArrived     EventKind = "ElevatorArrived"
	EventDoorsOpened         EventKind = "DoorsOpened"
	EventDoorsClosed         EventKind = "DoorsClosed"
	EventPersonBoarded       EventKind = "PersonBoarded"
	EventPersonAlighted      EventKind = "PersonAlighted"
	EventCapacityHit         EventKind = "CapacityHit"
	EventVehicleStateChanged EventKind = "VehicleStateChanged"
	EventQueueSizeChanged    EventKind = "QueueSizeChanged"
)

// DomainEvent is the common interface implemented by every event variant
// published on the EventBus (spec.md §3, "Domain event").
type DomainEvent interface {
	Time() float64
	Source() string
	Kind() EventKind
}

type base struct {
	T   float64
	Src string
}

func (b base) Time() float64   { return b.T }
func (b base) Source() string  { return b.Src }

// RunStartedEvent marks the beginning of a simulation run.
type RunStartedEvent struct {
	base
	FloorCount             int
	ElevatorCount          int
	RandomSeed             int64
	PlannedDurationSeconds float64
	ScenarioName           string
	ContractVersion        string
}

func (e RunStartedEvent) Kind() EventKind { return EventRunStarted }

// NewRunStartedEvent constructs a RunStartedEvent.
func NewRunStartedEvent(t float64, source string, floorCount, elevatorCount int, seed int64, plannedDuration float64, scenarioName, contractVersion string) RunStartedEvent {
	return RunStartedEvent{
		base:                   base{T: t, Src: source},
		FloorCount:             floorCount,
		ElevatorCount:          elevatorCount,
		RandomSeed:             seed,
		PlannedDurationSeconds: plannedDuration,
		ScenarioName:           scenarioName,
		ContractVersion:        contractVersion,
	}
}

// RunEndedEvent marks the end of a simulation run.
type RunEndedEvent struct {
	base
	TotalPeople         int
	TotalCallsCompleted int
}

func (e RunEndedEvent) Kind() EventKind { return EventRunEnded }

func NewRunEndedEvent(t float64, source string, totalPeople, totalCallsCompleted int) RunEndedEvent {
	return RunEndedEvent{base: base{T: t, Src: source}, TotalPeople: totalPeople, TotalCallsCompleted: totalCallsCompleted}
}

// PersonSpawnedEvent marks a new person entering the system.
type PersonSpawnedEvent struct {
	base
	PersonID   int
	PersonType PersonType
	Floor      int
}

func (e PersonSpawnedEvent) Kind() EventKind { return EventPersonSpawned }

func NewPersonSpawnedEvent(t float64, source string, personID int, personType PersonType, floor int) PersonSpawnedEvent {
	return PersonSpawnedEvent{base: base{T: t, Src: source}, PersonID: personID, PersonType: personType, Floor: floor}
}

// PersonStateChangedEvent marks a lifecycle transition for a person.
type PersonStateChangedEvent struct {
	base
	PersonID int
	OldState LifecycleState
	NewState LifecycleState
}

func (e PersonStateChangedEvent) Kind() EventKind { return EventPersonStateChanged }

func NewPersonStateChangedEvent(t float64, source string, personID int, oldState, newState LifecycleState) PersonStateChangedEvent {
	return PersonStateChangedEvent{base: base{T: t, Src: source}, PersonID: personID, OldState: oldState, NewState: newState}
}

// CallRequestedEvent marks a new CallRequest entering the pending queue.
type CallRequestedEvent struct {
	base
	CallID      int
	PersonID    int
	PersonType  PersonType
	Origin      int
	Destination int
	Direction   CallDirection
}

func (e CallRequestedEvent) Kind() EventKind { return EventCallRequested }

func NewCallRequestedEvent(t float64, source string, call CallRequest) CallRequestedEvent {
	return CallRequestedEvent{
		base:        base{T: t, Src: source},
		CallID:      call.CallID,
		PersonID:    call.PersonID,
		PersonType:  call.PersonType,
		Origin:      call.Origin,
		Destination: call.Destination,
		Direction:   call.Direction,
	}
}

// CallAssignedEvent marks a CallRequest bound to a vehicle for pickup.
// EstimatedPickupT is always NaN (spec.md §9, Open Question d): the
// estimated pickup time is "unknown" until a travel-time estimator
// exists, which is out of scope.
type CallAssignedEvent struct {
	base
	CallID           int
	VehicleID        int
	EstimatedPickupT float64
}

func (e CallAssignedEvent) Kind() EventKind { return EventCallAssigned }

func NewCallAssignedEvent(t float64, source string, callID, vehicleID int, estimatedPickupT float64) CallAssignedEvent {
	return CallAssignedEvent{base: base{T: t, Src: source}, CallID: callID, VehicleID: vehicleID, EstimatedPickupT: estimatedPickupT}
}

// ElevatorArrivedEvent marks a vehicle arriving at a floor.
type ElevatorArrivedEvent struct {
	base
	VehicleID int
	Floor     int
}

func (e ElevatorArrivedEvent) Kind() EventKind { return EventElevatorArrived }

func NewElevatorArrivedEvent(t float64, source string, vehicleID, floor int) ElevatorArrivedEvent {
	return ElevatorArrivedEvent{base: base{T: t, Src: source}, VehicleID: vehicleID, Floor: floor}
}

// DoorsOpenedEvent marks a vehicle's doors opening at a floor.
type DoorsOpenedEvent struct {
	base
	VehicleID int
	Floor     int
}

func (e DoorsOpenedEvent) Kind() EventKind { return EventDoorsOpened }

func NewDoorsOpenedEvent(t float64, source string, vehicleID, floor int) DoorsOpenedEvent {
	return DoorsOpenedEvent{base: base{T: t, Src: source}, VehicleID: vehicleID, Floor: floor}
}

// DoorsClosedEvent marks a vehicle's doors closing at a floor.
type DoorsClosedEvent struct {
	base
	VehicleID int
	Floor     int
}

func (e DoorsClosedEvent) Kind() EventKind { return EventDoorsClosed }

func NewDoorsClosedEvent(t float64, source string, vehicleID, floor int) DoorsClosedEvent {
	return DoorsClosedEvent{base: base{T: t, Src: source}, VehicleID: vehicleID, Floor: floor}
}

// PersonBoardedEvent marks a person boarding a vehicle.
type PersonBoardedEvent struct {
	base
	PersonID                  int
	CallID                    int
	VehicleID                 int
	Floor                     int
	VehicleOccupantCountAfter int
}

func (e PersonBoardedEvent) Kind() EventKind { return EventPersonBoarded }

func NewPersonBoardedEvent(t float64, source string, personID, callID, vehicleID, floor, occupantsAfter int) PersonBoardedEvent {
	return PersonBoardedEvent{
		base: base{T: t, Src: source}, PersonID: personID, CallID: callID,
		VehicleID: vehicleID, Floor: floor, VehicleOccupantCountAfter: occupantsAfter,
	}
}

// PersonAlightedEvent marks a person alighting from a vehicle.
type PersonAlightedEvent struct {
	base
	PersonID                  int
	CallID                    int
	VehicleID                 int
	Floor                     int
	VehicleOccupantCountAfter int
}

func (e PersonAlightedEvent) Kind() EventKind { return EventPersonAlighted }

func NewPersonAlightedEvent(t float64, source string, personID, callID, vehicleID, floor, occupantsAfter int) PersonAlightedEvent {
	return PersonAlightedEvent{
		base: base{T: t, Src: source}, PersonID: personID, CallID: callID,
		VehicleID: vehicleID, Floor: floor, VehicleOccupantCountAfter: occupantsAfter,
	}
}

// VehicleAtCapacityAtPickupEvent marks a boarding attempt blocked by
// vehicle capacity (wire tag "CapacityHit").
type VehicleAtCapacityAtPickupEvent struct {
	base
	CallID            int
	PersonID          int
	VehicleID         int
	Floor             int
	VehicleOccupantCount int
	VehicleCapacity   int
}

func (e VehicleAtCapacityAtPickupEvent) Kind() EventKind { return EventCapacityHit }

func NewVehicleAtCapacityAtPickupEvent(t float64, source string, callID, personID, vehicleID, floor, occupants, capacity int) VehicleAtCapacityAtPickupEvent {
	return VehicleAtCapacityAtPickupEvent{
		base: base{T: t, Src: source}, CallID: callID, PersonID: personID, VehicleID: vehicleID,
		Floor: floor, VehicleOccupantCount: occupants, VehicleCapacity: capacity,
	}
}

// VehicleStateChangedEvent marks a vehicle's mechanical state transition.
type VehicleStateChangedEvent struct {
	base
	VehicleID int
	OldState  VehicleState
	NewState  VehicleState
}

func (e VehicleStateChangedEvent) Kind() EventKind { return EventVehicleStateChanged }

func NewVehicleStateChangedEvent(t float64, source string, vehicleID int, oldState, newState VehicleState) VehicleStateChangedEvent {
	return VehicleStateChangedEvent{base: base{T: t, Src: source}, VehicleID: vehicleID, OldState: oldState, NewState: newState}
}

// QueueSizeChangedEvent marks a floor call queue's size changing.
type QueueSizeChangedEvent struct {
	base
	Floor        int
	Direction    Direction
	NewQueueSize int
}

func (e QueueSizeChangedEvent) Kind() EventKind { return EventQueueSizeChanged }

func NewQueueSizeChangedEvent(t float64, source string, floor int, direction Direction, newSize int) QueueSizeChangedEvent {
	return QueueSizeChangedEvent{base: base{T: t, Src: source}, Floor: floor, Direction: direction, NewQueueSize: newSize}
}
