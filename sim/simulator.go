// sim/simulator.go
package sim

import "math"

// Simulator wires the sim-owned components (Building, fleet, passenger
// controller, metrics aggregator, snapshot assembler) together and drives
// the fixed-step tick loop's ordering (spec.md §2): arrivals, then an
// injected elevator-controller step (sim cannot import sim/controller
// directly, see DESIGN.md), then vehicle mechanics, then snapshot assembly.
// The driver in cmd/ constructs a Simulator alongside a
// sim/controller.ElevatorController and supplies the latter's Tick method
// as the step function.
type Simulator struct {
	Building   *Building
	Bus        *EventBus
	Fleet      []*Vehicle
	Passengers *PassengerController
	Metrics    *MetricsAggregator
	Snapshots  *SnapshotAssembler

	DT    float64
	Speed float64

	t    float64
	tick int64
}

// NewSimulator constructs a Simulator over an already-built Building and
// fleet (the caller builds these first because sim/controller also needs
// them to construct its ElevatorController before the Simulator exists).
// bus and submitter are shared with that controller: the PassengerController
// publishes call-requested on bus and hands calls to submitter.
func NewSimulator(cfg SimulatorConfig, building *Building, fleet []*Vehicle, bus *EventBus, submitter CallSubmitter) *Simulator {
	passengers := NewPassengerController(building, bus, submitter, cfg.Run.Seed, cfg.Passengers)
	return &Simulator{
		Building:   building,
		Bus:        bus,
		Fleet:      fleet,
		Passengers: passengers,
		Metrics:    NewMetricsAggregator(bus),
		Snapshots:  NewSnapshotAssembler(building, fleet),
		DT:         cfg.Timing.DT,
		Speed:      cfg.Fleet.SpeedFloorsPerSecond,
		t:          0,
	}
}

// NewFleet constructs a fleet of cfg.VehicleCount identical vehicles, ids
// 1..VehicleCount.
func NewFleet(cfg FleetConfig) []*Vehicle {
	fleet := make([]*Vehicle, cfg.VehicleCount)
	for i := range fleet {
		fleet[i] = NewVehicle(i+1, cfg.Capacity, cfg.StartFloor)
	}
	return fleet
}

// Time returns the current sim-time, in seconds elapsed since the run
// began (t=0 at construction, not a time-of-day). Arrival curves are
// evaluated against time-of-day separately, by adding
// Passengers.StartOfDaySeconds onto this value (see
// NextArrivalViaThinning).
func (s *Simulator) Time() float64 { return s.t }

// Tick returns the current tick number (0-based, incremented by Step).
func (s *Simulator) Tick() int64 { return s.tick }

// Step advances the simulation by one dt: passenger arrivals and due
// returns, then stepController (the elevator controller's own Tick),
// then vehicle mechanics, then snapshot assembly — in that order, per
// spec.md §2's per-tick control flow. Returns the snapshot built from the
// post-motion state, and advances sim time/tick for the next call.
//
// VehicleStateChangedEvent is published here, centrally, rather than from
// sim/controller: a vehicle's mechanical state can change either because
// the controller drove a transition (SetTarget, BeginBoarding, ...) or
// because Vehicle.Update itself detects an arrival, and this is the one
// point downstream of both.
func (s *Simulator) Step(stepController func(t float64)) TickSnapshot {
	before := make([]VehicleState, len(s.Fleet))
	for i, v := range s.Fleet {
		before[i] = v.State()
	}

	s.Passengers.Tick(s.t)
	stepController(s.t)
	for _, v := range s.Fleet {
		v.Update(s.DT, s.Speed)
	}

	for i, v := range s.Fleet {
		if after := v.State(); after != before[i] {
			s.Bus.Publish(NewVehicleStateChangedEvent(s.t, "simulator", v.ID, before[i], after))
		}
	}

	snap := s.Snapshots.Assemble(s.tick, s.t)
	s.t += s.DT
	s.tick++
	return snap
}

// Elapsed returns how much sim-time has advanced since the run began,
// useful for comparing against a planned run duration. s.t is already
// zero-based at construction, so this is s.t itself, floored at zero,
// rather than an offset subtraction.
func (s *Simulator) Elapsed() float64 {
	return math.Max(0, s.t)
}
