package sim

// VehicleSnapshot is an immutable, aliasing-free view of one vehicle at a
// tick (spec.md §3, §4.8).
type VehicleSnapshot struct {
	VehicleID        int
	Position         float64
	CurrentFloor     int
	TargetFloor      int
	HasTarget        bool
	Direction        Direction
	State            VehicleState
	Capacity         int
	OccupantCount    int
	StopQueueFloors  []int
}

// FloorSnapshot is an immutable view of one floor's queue sizes and
// occupancy at a tick.
type FloorSnapshot struct {
	Floor           int
	WaitingUp       int
	WaitingDown     int
	OccupantsOnFloor int
}

// TickSnapshot is the full per-tick state view handed to the publication
// pipeline (spec.md §3, §4.8).
type TickSnapshot struct {
	Tick     int64
	T        float64
	Vehicles []VehicleSnapshot
	Floors   []FloorSnapshot
}

// SnapshotAssembler builds TickSnapshots from the live Building and fleet.
// Every contained sequence is a fresh copy: the consumer may retain the
// result indefinitely without aliasing live simulation state.
type SnapshotAssembler struct {
	building *Building
	fleet    []*Vehicle
}

// NewSnapshotAssembler constructs an assembler over building and fleet.
func NewSnapshotAssembler(building *Building, fleet []*Vehicle) *SnapshotAssembler {
	return &SnapshotAssembler{building: building, fleet: fleet}
}

// Assemble builds one TickSnapshot at sim time t.
func (s *SnapshotAssembler) Assemble(tick int64, t float64) TickSnapshot {
	vehicles := make([]VehicleSnapshot, len(s.fleet))
	for i, v := range s.fleet {
		target, hasTarget := v.Target()
		stopQueue := make([]int, 0, 1)
		if hasTarget {
			stopQueue = append(stopQueue, target)
		}
		vehicles[i] = VehicleSnapshot{
			VehicleID:       v.ID,
			Position:        v.Position(),
			CurrentFloor:    v.CurrentFloor(),
			TargetFloor:     target,
			HasTarget:       hasTarget,
			Direction:       v.Direction(),
			State:           v.State(),
			Capacity:        v.Capacity,
			OccupantCount:   v.OccupantCount(),
			StopQueueFloors: stopQueue,
		}
	}

	floors := s.building.Floors()
	floorSnaps := make([]FloorSnapshot, len(floors))
	for i, f := range floors {
		floorSnaps[i] = FloorSnapshot{
			Floor:            f.Index,
			WaitingUp:        f.WaitingUp(),
			WaitingDown:      f.WaitingDown(),
			OccupantsOnFloor: f.Occupants(),
		}
	}

	return TickSnapshot{Tick: tick, T: t, Vehicles: vehicles, Floors: floorSnaps}
}
