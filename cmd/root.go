// Package cmd holds the Cobra root command and its run subcommand; the run
// command wires the full engine and drives it to completion.
package cmd

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Holosim/ElevatorTrafficSim/sim"
	"github.com/Holosim/ElevatorTrafficSim/sim/controller"
	"github.com/Holosim/ElevatorTrafficSim/sim/dispatch"
	"github.com/Holosim/ElevatorTrafficSim/sim/publish"
)

var (
	floorCount      int
	fleetSize       int
	vehicleCapacity int
	seed            int64
	durationSeconds float64
	startOfDay      float64
	tickDT          float64
	floorSpeed      float64
	outputDir       string
	logLevel        string
	dispatchPolicy  string
	cooldownSeconds float64
	scenarioName    string
	scenarioPath    string
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "elevatorsim",
	Short: "Discrete-event elevator-traffic simulator",
}

// runCmd executes the simulation using parameters from CLI flags, optionally
// overridden by a YAML scenario file.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the elevator simulation",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := sim.DefaultSimulatorConfig(floorCount)
		cfg.Building.FloorCount = floorCount
		cfg.Fleet.VehicleCount = fleetSize
		cfg.Fleet.Capacity = vehicleCapacity
		cfg.Fleet.SpeedFloorsPerSecond = floorSpeed
		cfg.Timing.DT = tickDT
		cfg.Timing.DurationSeconds = durationSeconds
		cfg.Timing.StartOfDaySeconds = startOfDay
		cfg.Run.Seed = seed
		cfg.Run.ScenarioName = scenarioName
		cfg.Dispatch.Policy = dispatchPolicy
		cfg.Dispatch.CooldownSeconds = cooldownSeconds

		if scenarioPath != "" {
			cfg, err = LoadScenario(scenarioPath, cfg)
			if err != nil {
				logrus.Fatalf("Failed to load scenario %s: %v", scenarioPath, err)
			}
		}
		// The arrival-curve anchor tracks Timing.StartOfDaySeconds, whether
		// it came from the --start-of-day flag or a scenario override.
		cfg.Passengers.StartOfDaySeconds = cfg.Timing.StartOfDaySeconds

		if err := validateConfig(cfg); err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			logrus.Fatalf("Failed to create output directory %s: %v", outputDir, err)
		}

		logrus.Infof("Starting run %q: floors=%d fleet=%d cap=%d dt=%.2fs duration=%.0fs seed=%d policy=%s",
			cfg.Run.ScenarioName, cfg.Building.FloorCount, cfg.Fleet.VehicleCount, cfg.Fleet.Capacity,
			cfg.Timing.DT, cfg.Timing.DurationSeconds, cfg.Run.Seed, cfg.Dispatch.Policy)

		start := time.Now()
		result := runSimulation(cfg)
		elapsed := time.Since(start)

		logrus.Infof("Simulation complete in %s. People=%d Completed=%d OverallWaitMean=%.1fs OverallWaitP95=%.1fs",
			elapsed, result.peopleSpawned, result.callsCompleted, result.report.OverallWait.Mean, result.report.OverallWait.P95)
	},
}

type runResult struct {
	peopleSpawned  int
	callsCompleted int
	report         sim.Report
}

// runSimulation wires Building, fleet, dispatch policy, ElevatorController,
// Simulator, and the publication pipeline (event batcher + snapshot
// coalescer + NDJSON file sink) together, then drives the fixed-step loop
// for the configured duration.
func runSimulation(cfg sim.SimulatorConfig) runResult {
	bus := sim.NewEventBus()
	building := sim.NewBuilding(cfg.Building.FloorCount)
	fleet := sim.NewFleet(cfg.Fleet)

	policy := dispatch.NewPolicy(cfg.Dispatch.Policy, cfg.Dispatch.CooldownSeconds)
	ec := controller.NewElevatorController(building, bus, policy, fleet)

	s := sim.NewSimulator(cfg, building, fleet, bus, ec)

	sink, err := publish.NewFileSink(outputDir)
	if err != nil {
		logrus.Fatalf("Failed to open output sink: %v", err)
	}
	batcher := publish.NewEventBatcher(sink, cfg.Run.RunID, publish.DefaultChannelCap, publish.DefaultMaxBatch, publish.DefaultFlushInterval)
	coalescer := publish.NewSnapshotCoalescer(sink, cfg.Run.RunID, 250*time.Millisecond)

	bus.Subscribe(func(e sim.DomainEvent) { batcher.Offer(e) })

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(2)
	go batcher.Run(ctx, &wg)
	go coalescer.Run(ctx, &wg)

	bus.Publish(sim.NewRunStartedEvent(s.Time(), "run-driver", cfg.Building.FloorCount, cfg.Fleet.VehicleCount,
		cfg.Run.Seed, cfg.Timing.DurationSeconds, cfg.Run.ScenarioName, cfg.Run.ContractVersion))

	// s.Time() is elapsed sim-time from 0, not a time-of-day (see
	// sim.Simulator.Time), so the run simply lasts DurationSeconds.
	endT := cfg.Timing.DurationSeconds
	for s.Time() < endT {
		snap := s.Step(ec.Tick)
		coalescer.Offer(snap)
	}

	bus.Publish(sim.NewRunEndedEvent(s.Time(), "run-driver", s.Passengers.PeopleSpawned(), s.Passengers.CompletedCalls()))

	cancel()
	wg.Wait()
	if err := sink.Close(); err != nil {
		logrus.Warnf("Error closing output sink: %v", err)
	}

	return runResult{
		peopleSpawned:  s.Passengers.PeopleSpawned(),
		callsCompleted: s.Passengers.CompletedCalls(),
		report:         s.Metrics.BuildReport(sim.DefaultWaitTargetSeconds),
	}
}

func validateConfig(cfg sim.SimulatorConfig) error {
	if cfg.Building.FloorCount < 1 {
		return fmt.Errorf("floor count must be >= 1, got %d", cfg.Building.FloorCount)
	}
	if cfg.Fleet.VehicleCount < 1 {
		return fmt.Errorf("fleet size must be >= 1, got %d", cfg.Fleet.VehicleCount)
	}
	if cfg.Fleet.Capacity <= 0 {
		return fmt.Errorf("vehicle capacity must be > 0, got %d", cfg.Fleet.Capacity)
	}
	if cfg.Timing.DT <= 0 {
		return fmt.Errorf("tick dt must be > 0, got %v", cfg.Timing.DT)
	}
	if cfg.Timing.DurationSeconds <= 0 {
		return fmt.Errorf("duration must be > 0, got %v", cfg.Timing.DurationSeconds)
	}
	if cfg.Fleet.SpeedFloorsPerSecond <= 0 {
		return fmt.Errorf("floor speed must be > 0, got %v", cfg.Fleet.SpeedFloorsPerSecond)
	}
	return nil
}

// Execute runs the CLI root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands.
func init() {
	runCmd.Flags().IntVar(&floorCount, "floors", 20, "Number of floors in the building")
	runCmd.Flags().IntVar(&fleetSize, "fleet-size", 4, "Number of vehicles in the fleet")
	runCmd.Flags().IntVar(&vehicleCapacity, "capacity", 10, "Passenger capacity per vehicle")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for the passenger arrival RNG")
	runCmd.Flags().Float64Var(&durationSeconds, "duration", 3600, "Simulated run duration, in seconds")
	runCmd.Flags().Float64Var(&startOfDay, "start-of-day", 8*3600, "Sim-time of day the run begins at, in seconds since midnight")
	runCmd.Flags().Float64Var(&tickDT, "dt", 0.2, "Fixed tick size, in seconds")
	runCmd.Flags().Float64Var(&floorSpeed, "floor-speed", 1.0, "Vehicle travel speed, in floors per second")
	runCmd.Flags().StringVar(&outputDir, "output-dir", "./out", "Directory for events.ndjson and snapshots.ndjson")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&dispatchPolicy, "dispatch-policy", "basic", "Dispatch policy (basic, cooldown)")
	runCmd.Flags().Float64Var(&cooldownSeconds, "cooldown-seconds", dispatch.DefaultCooldownSeconds, "Cooldown duration for the cooldown dispatch policy")
	runCmd.Flags().StringVar(&scenarioName, "scenario-name", "default", "Scenario name recorded in RunStarted")
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Optional YAML scenario file overriding any subset of the above")

	rootCmd.AddCommand(runCmd)
}
