package sim

// BuildingConfig groups building construction parameters.
type BuildingConfig struct {
	FloorCount int // number of floors, indices 0..FloorCount-1 (must be >= 1)
}

// FleetConfig groups fleet construction parameters: every vehicle in the
// fleet shares the same capacity, start floor, and travel speed.
type FleetConfig struct {
	VehicleCount         int
	Capacity             int
	StartFloor           int
	SpeedFloorsPerSecond float64 // must be > 0
}

// TimingConfig groups the fixed-step loop's temporal parameters.
type TimingConfig struct {
	DT                float64 // tick size in seconds (must be > 0)
	DurationSeconds   float64 // total planned sim duration (must be > 0)
	StartOfDaySeconds float64 // time-of-day, seconds since midnight, that sim-time t=0 corresponds to; must be propagated into Passengers.StartOfDaySeconds, the arrival-curve anchor
}

// RunConfig groups run-identity metadata carried into RunStarted/RunEnded
// events and the publication pipeline's record schema.
type RunConfig struct {
	RunID           int
	Seed            int64
	ScenarioName    string
	ContractVersion string // "Major.Minor", e.g. "1.0"
}

// DispatchConfig groups dispatch policy selection.
type DispatchConfig struct {
	Policy          string  // "basic" (default) or "cooldown"
	CooldownSeconds float64 // used only when Policy == "cooldown"
}

// SimulatorConfig groups everything the run driver needs to assemble a run:
// building, fleet, timing, run identity, dispatch policy selection, and
// passenger arrival configuration. Grouped the way the teacher's
// sim/config.go groups KVCacheConfig/BatchConfig/ModelHardwareConfig —
// one struct per concern, composed by the caller.
type SimulatorConfig struct {
	Building   BuildingConfig
	Fleet      FleetConfig
	Timing     TimingConfig
	Run        RunConfig
	Dispatch   DispatchConfig
	Passengers PassengerControllerConfig
}

// DefaultSimulatorConfig returns a SimulatorConfig with the built-in
// passenger curves for a building of floorCount floors and otherwise
// reasonable defaults, suitable as a starting point for CLI flag overrides.
func DefaultSimulatorConfig(floorCount int) SimulatorConfig {
	return SimulatorConfig{
		Building: BuildingConfig{FloorCount: floorCount},
		Fleet: FleetConfig{
			VehicleCount:         4,
			Capacity:             10,
			StartFloor:           0,
			SpeedFloorsPerSecond: 1.0,
		},
		Timing: TimingConfig{
			DT:                0.2,
			DurationSeconds:   3600,
			StartOfDaySeconds: 8 * 3600,
		},
		Run: RunConfig{
			RunID:           1,
			Seed:            42,
			ScenarioName:    "default",
			ContractVersion: "1.0",
		},
		Dispatch:   DispatchConfig{Policy: "basic"},
		Passengers: DefaultPassengerControllerConfig(floorCount),
	}
}
