// Package publish implements the asynchronous publication pipeline
// (spec.md §4.9, C10): an adapter from sim.DomainEvent to the NDJSON wire
// schema, a no-drop event batcher, a drop-oldest snapshot coalescer, and a
// line-oriented file sink.
package publish

import (
	"encoding/json"
	"math"

	"github.com/Holosim/ElevatorTrafficSim/sim"
)

// NullableFloat serializes NaN as JSON null. encoding/json has no native
// representation for NaN, and spec.md §6 requires CallAssigned's
// EstimatedPickupT ("may be NaN") to round-trip through NDJSON.
type NullableFloat struct {
	value float64
	valid bool
}

// Float wraps v, treating NaN as the absent/null case.
func Float(v float64) NullableFloat {
	if math.IsNaN(v) {
		return NullableFloat{}
	}
	return NullableFloat{value: v, valid: true}
}

func (n NullableFloat) MarshalJSON() ([]byte, error) {
	if !n.valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.value)
}

// EventRecord is the NDJSON event-stream wire schema (spec.md §6).
type EventRecord struct {
	RunId    int    `json:"RunId"`
	Sequence int64  `json:"Sequence"`
	T        float64 `json:"T"`
	Type     string `json:"Type"`
	Source   string `json:"Source"`
	Message  string `json:"Message"`
	Payload  any    `json:"Payload"`
}

// SnapshotRecord is the NDJSON snapshot-stream wire schema (spec.md §6).
type SnapshotRecord struct {
	RunId    int                `json:"RunId"`
	Tick     int64              `json:"Tick"`
	T        float64            `json:"T"`
	Elevators []ElevatorSnapshot `json:"Elevators"`
	Floors   []FloorQueueSnapshot `json:"Floors"`
}

// ElevatorSnapshot is one vehicle's entry in a SnapshotRecord.
type ElevatorSnapshot struct {
	VehicleId       int     `json:"VehicleId"`
	PositionFloor   float64 `json:"PositionFloor"`
	CurrentFloor    int     `json:"CurrentFloor"`
	TargetFloor     *int    `json:"TargetFloor"`
	Direction       string  `json:"Direction"`
	State           string  `json:"State"`
	Capacity        int     `json:"Capacity"`
	OccupantCount   int     `json:"OccupantCount"`
	StopQueueFloors []int   `json:"StopQueueFloors"`
}

// FloorQueueSnapshot is one floor's entry in a SnapshotRecord.
type FloorQueueSnapshot struct {
	Floor                   int `json:"Floor"`
	WaitingUp               int `json:"WaitingUp"`
	WaitingDown             int `json:"WaitingDown"`
	CurrentOccupantsOnFloor int `json:"CurrentOccupantsOnFloor"`
}

// ToRecord adapts a domain event into an EventRecord. Sequence is left
// zero; the batcher assigns it at enqueue time.
func ToRecord(e sim.DomainEvent, runID int) EventRecord {
	kind := e.Kind()
	return EventRecord{
		RunId:   runID,
		T:       e.Time(),
		Type:    string(kind),
		Source:  e.Source(),
		Message: string(kind),
		Payload: payloadFor(e),
	}
}

func payloadFor(e sim.DomainEvent) any {
	switch ev := e.(type) {
	case sim.RunStartedEvent:
		return struct {
			FloorCount             int
			ElevatorCount          int
			RandomSeed             int64
			PlannedDurationSeconds float64
			ScenarioName           string
			ContractVersion        string
		}{ev.FloorCount, ev.ElevatorCount, ev.RandomSeed, ev.PlannedDurationSeconds, ev.ScenarioName, ev.ContractVersion}
	case sim.RunEndedEvent:
		return struct {
			TotalPeople         int
			TotalCallsCompleted int
		}{ev.TotalPeople, ev.TotalCallsCompleted}
	case sim.PersonSpawnedEvent:
		return struct {
			PersonId   int
			PersonType string
			Floor      int
		}{ev.PersonID, personTypeName(ev.PersonType), ev.Floor}
	case sim.PersonStateChangedEvent:
		return struct {
			PersonId int
			OldState string
			NewState string
		}{ev.PersonID, string(ev.OldState), string(ev.NewState)}
	case sim.CallRequestedEvent:
		return struct {
			CallId      int
			PersonId    int
			PersonType  string
			Origin      int
			Destination int
			Direction   string
		}{ev.CallID, ev.PersonID, personTypeName(ev.PersonType), ev.Origin, ev.Destination, ev.Direction.ToDirection().String()}
	case sim.CallAssignedEvent:
		return struct {
			CallId           int
			VehicleId        int
			EstimatedPickupT NullableFloat
		}{ev.CallID, ev.VehicleID, Float(ev.EstimatedPickupT)}
	case sim.ElevatorArrivedEvent:
		return struct {
			VehicleId int
			Floor     int
		}{ev.VehicleID, ev.Floor}
	case sim.DoorsOpenedEvent:
		return struct {
			VehicleId int
			Floor     int
		}{ev.VehicleID, ev.Floor}
	case sim.DoorsClosedEvent:
		return struct {
			VehicleId int
			Floor     int
		}{ev.VehicleID, ev.Floor}
	case sim.PersonBoardedEvent:
		return struct {
			PersonId                  int
			CallId                    int
			VehicleId                 int
			Floor                     int
			VehicleOccupantCountAfter int
		}{ev.PersonID, ev.CallID, ev.VehicleID, ev.Floor, ev.VehicleOccupantCountAfter}
	case sim.PersonAlightedEvent:
		return struct {
			PersonId                  int
			CallId                    int
			VehicleId                 int
			Floor                     int
			VehicleOccupantCountAfter int
		}{ev.PersonID, ev.CallID, ev.VehicleID, ev.Floor, ev.VehicleOccupantCountAfter}
	case sim.VehicleAtCapacityAtPickupEvent:
		return struct {
			CallId               int
			PersonId             int
			VehicleId            int
			Floor                int
			VehicleOccupantCount int
			VehicleCapacity      int
		}{ev.CallID, ev.PersonID, ev.VehicleID, ev.Floor, ev.VehicleOccupantCount, ev.VehicleCapacity}
	case sim.VehicleStateChangedEvent:
		return struct {
			VehicleId int
			OldState  string
			NewState  string
		}{ev.VehicleID, string(ev.OldState), string(ev.NewState)}
	case sim.QueueSizeChangedEvent:
		return struct {
			Floor        int
			Direction    string
			NewQueueSize int
		}{ev.Floor, ev.Direction.String(), ev.NewQueueSize}
	default:
		return nil
	}
}

func personTypeName(t sim.PersonType) string { return string(t) }

// ToSnapshotRecord adapts a sim.TickSnapshot into the wire schema.
func ToSnapshotRecord(snap sim.TickSnapshot, runID int) SnapshotRecord {
	elevators := make([]ElevatorSnapshot, len(snap.Vehicles))
	for i, v := range snap.Vehicles {
		var target *int
		if v.HasTarget {
			t := v.TargetFloor
			target = &t
		}
		elevators[i] = ElevatorSnapshot{
			VehicleId:       v.VehicleID,
			PositionFloor:   v.Position,
			CurrentFloor:    v.CurrentFloor,
			TargetFloor:     target,
			Direction:       v.Direction.String(),
			State:           string(v.State),
			Capacity:        v.Capacity,
			OccupantCount:   v.OccupantCount,
			StopQueueFloors: append([]int(nil), v.StopQueueFloors...),
		}
	}
	floors := make([]FloorQueueSnapshot, len(snap.Floors))
	for i, f := range snap.Floors {
		floors[i] = FloorQueueSnapshot{
			Floor:                   f.Floor,
			WaitingUp:               f.WaitingUp,
			WaitingDown:             f.WaitingDown,
			CurrentOccupantsOnFloor: f.OccupantsOnFloor,
		}
	}
	return SnapshotRecord{RunId: runID, Tick: snap.Tick, T: snap.T, Elevators: elevators, Floors: floors}
}
