package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Holosim/ElevatorTrafficSim/sim"
)

// ScenarioFile is the YAML shape of a --scenario override file. Every field
// is a pointer so that an absent key leaves the corresponding
// sim.SimulatorConfig field untouched. Grounded on the teacher's
// defaults.yaml Config/Workload structs (cmd/default_config.go) and its
// strict KnownFields(true) parsing discipline.
type ScenarioFile struct {
	Floors          *int     `yaml:"floors"`
	FleetSize       *int     `yaml:"fleet_size"`
	Capacity        *int     `yaml:"capacity"`
	FloorSpeed      *float64 `yaml:"floor_speed"`
	DT              *float64 `yaml:"dt"`
	DurationSeconds *float64 `yaml:"duration_seconds"`
	StartOfDay      *float64 `yaml:"start_of_day"`
	Seed            *int64   `yaml:"seed"`
	ScenarioName    *string  `yaml:"scenario_name"`
	DispatchPolicy  *string  `yaml:"dispatch_policy"`
	CooldownSeconds *float64 `yaml:"cooldown_seconds"`
}

// LoadScenario reads path as a strict YAML ScenarioFile and applies every
// field it sets on top of base, returning the merged config. Unknown keys
// are a hard error, matching the teacher's defaults.yaml loader.
func LoadScenario(path string, base sim.SimulatorConfig) (sim.SimulatorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("cmd: reading scenario file %s: %w", path, err)
	}

	var sf ScenarioFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sf); err != nil {
		return base, fmt.Errorf("cmd: parsing scenario file %s: %w", path, err)
	}

	cfg := base
	if sf.Floors != nil {
		cfg.Building.FloorCount = *sf.Floors
		cfg.Passengers = sim.DefaultPassengerControllerConfig(*sf.Floors)
	}
	if sf.FleetSize != nil {
		cfg.Fleet.VehicleCount = *sf.FleetSize
	}
	if sf.Capacity != nil {
		cfg.Fleet.Capacity = *sf.Capacity
	}
	if sf.FloorSpeed != nil {
		cfg.Fleet.SpeedFloorsPerSecond = *sf.FloorSpeed
	}
	if sf.DT != nil {
		cfg.Timing.DT = *sf.DT
	}
	if sf.DurationSeconds != nil {
		cfg.Timing.DurationSeconds = *sf.DurationSeconds
	}
	if sf.StartOfDay != nil {
		cfg.Timing.StartOfDaySeconds = *sf.StartOfDay
	}
	if sf.Seed != nil {
		cfg.Run.Seed = *sf.Seed
	}
	if sf.ScenarioName != nil {
		cfg.Run.ScenarioName = *sf.ScenarioName
	}
	if sf.DispatchPolicy != nil {
		cfg.Dispatch.Policy = *sf.DispatchPolicy
	}
	if sf.CooldownSeconds != nil {
		cfg.Dispatch.CooldownSeconds = *sf.CooldownSeconds
	}

	// Re-anchor the arrival curves on the resolved start-of-day last: a
	// Floors override above already reset cfg.Passengers to its defaults
	// (start-of-day 08:00), which would otherwise silently undo a
	// start_of_day key set earlier in the same file.
	cfg.Passengers.StartOfDaySeconds = cfg.Timing.StartOfDaySeconds

	return cfg, nil
}
