package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aegis-robotics/swarm-coord/cmd/swarm-core-sim/democatalog"
	"github.com/aegis-robotics/swarm-coord/pkg/catalog"
	"github.com/aegis-robotics/swarm-coord/pkg/config"
	"github.com/aegis-robotics/swarm-coord/pkg/constraint"
	"github.com/aegis-robotics/swarm-coord/pkg/coordinator"
	"github.com/aegis-robotics/swarm-coord/pkg/logger"
	"github.com/aegis-robotics/swarm-coord/pkg/roleassign"
	"github.com/aegis-robotics/swarm-coord/pkg/simcomms"
	"github.com/aegis-robotics/swarm-coord/pkg/swarmtypes"
)

var (
	runDroneCount int
	runTicks      int
	runRadiusM    float64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the coordination core against an in-process simulated swarm",
	Long: `Run builds the demo pattern catalog, spins up a simulated comms layer
and flight-dynamics model, registers a fleet of drones against it, and
drives the coordinator's tick loop to completion or until interrupted.`,
	RunE: runDemo,
}

func init() {
	runCmd.Flags().IntVarP(&runDroneCount, "drones", "n", 0, "number of drones to simulate (0 prompts interactively)")
	runCmd.Flags().IntVarP(&runTicks, "ticks", "t", 500, "number of coordinator ticks to run")
	runCmd.Flags().Float64Var(&runRadiusM, "spawn-radius", 8.0, "radius (meters) drones are scattered within at spawn")
}

func runDemo(_ *cobra.Command, _ []string) error {
	sessionID := uuid.New().String()
	log := logger.New().WithField("session", sessionID[:8])

	var cat *catalog.CatalogIndex
	if err := logger.WithSpinner("building demo catalog", func() error {
		built, buildErr := democatalog.Build()
		if buildErr != nil {
			return buildErr
		}
		cat = built
		return nil
	}); err != nil {
		return fmt.Errorf("build demo catalog: %w", err)
	}
	logger.Successf("loaded demo catalog: %d patterns", cat.Size())

	cfg, err := config.LoadConfigOrDefault(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	droneCount, hardware, err := resolveFleetParameters()
	if err != nil {
		return fmt.Errorf("resolve fleet parameters: %w", err)
	}

	comms := simcomms.New(log)
	coord := coordinator.New(comms, cat, cfg, log)
	fleet := newFleetSimulator(42)

	droneIDs := make([]string, 0, droneCount)
	for i := 0; i < droneCount; i++ {
		id := fmt.Sprintf("drone-%02d", i+1)
		droneIDs = append(droneIDs, id)

		sensors := fleet.spawn(id, hardware, swarmtypes.TraitsBare, runRadiusM)

		mode := swarmtypes.ModeGrounded
		traits := swarmtypes.TraitsBare
		candidates := cat.FilterByCore(catalog.PartialCore{Mode: &mode, Hardware: &hardware, Traits: &traits})
		if len(candidates) == 0 {
			return fmt.Errorf("no grounded pattern for hardware %s/traits %s", hardware, traits)
		}

		coord.RegisterDrone(id, hardware, traits, candidates[0].ID, sensors)
	}
	logger.Successf("registered %d drones (%s)", droneCount, hardware)

	coord.Objectives = []constraint.Objective{{Type: constraint.ObjectiveHover}}
	coord.Formation = roleassign.FormationSpec{MinPerformers: droneCount / 2, NeedsLeader: droneCount > 1}
	coord.Coverage = roleassign.CoverageSpec{CoverageRadius: runRadiusM * 2, NeedsRelay: droneCount > 3}

	printableWidth := terminalWidth()
	coord.OnTick = func(tick uint64, assignments []constraint.Assignment) {
		if len(assignments) == 0 {
			return
		}
		printTickSummary(tick, assignments, printableWidth)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Warn("interrupt received, landing fleet and shutting down...")
		cancel()
	}()

	if err := coord.Start(ctx, droneIDs); err != nil {
		return fmt.Errorf("start coordinator: %w", err)
	}

	logger.LogSection(fmt.Sprintf("running %d steps", runTicks))

	tickInterval := cfg.TickInterval()
	patternToID := map[string]uint16{}
	idToPattern := map[uint16]string{}
	for i, id := range cat.OrderedIDs() {
		patternToID[id] = uint16(i)
		idToPattern[uint16(i)] = id
	}

stepLoop:
	for i := 0; i < runTicks; i++ {
		select {
		case <-ctx.Done():
			break stepLoop
		default:
		}

		fleet.step(comms, patternToID, idToPattern, tickInterval.Seconds())

		if i == runTicks/3 && droneCount > 0 {
			fleet.drainBattery(droneIDs[0], 0.08)
			logger.Infof("forcing %s battery to 8%% to exercise the forced-exit path", droneIDs[0])
		}

		time.Sleep(tickInterval)
	}

	if err := coord.Stop(ctx); err != nil {
		return fmt.Errorf("stop coordinator: %w", err)
	}

	logger.Success("run complete")
	printFinalStates(coord, droneIDs)
	return nil
}

// resolveFleetParameters returns the swarm size and hardware target to
// simulate, prompting interactively when --drones was not given.
func resolveFleetParameters() (int, swarmtypes.HardwareTarget, error) {
	if runDroneCount > 0 {
		return runDroneCount, swarmtypes.HardwareSimGazebo, nil
	}

	var countStr string
	if err := survey.AskOne(&survey.Input{
		Message: "How many drones should the demo simulate?",
		Default: "6",
	}, &countStr); err != nil {
		return 0, "", err
	}
	var count int
	if _, err := fmt.Sscanf(countStr, "%d", &count); err != nil || count <= 0 {
		return 0, "", fmt.Errorf("invalid drone count %q", countStr)
	}

	var hardwareStr string
	if err := survey.AskOne(&survey.Select{
		Message: "Hardware target for the fleet:",
		Options: []string{string(swarmtypes.HardwareSimGazebo), string(swarmtypes.HardwareCrazyflie21)},
		Default: string(swarmtypes.HardwareSimGazebo),
	}, &hardwareStr); err != nil {
		return 0, "", err
	}

	return count, swarmtypes.HardwareTarget(hardwareStr), nil
}

func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

func printTickSummary(tick uint64, assignments []constraint.Assignment, width int) {
	sort.Slice(assignments, func(i, j int) bool { return assignments[i].DroneID < assignments[j].DroneID })

	t := logger.NewTable("TICK", "DRONE", "PATTERN")
	for _, a := range assignments {
		pattern := a.PatternID
		if width < 100 && len(pattern) > 40 {
			pattern = pattern[:37] + "..."
		}
		t.AddRow(fmt.Sprintf("%d", tick), a.DroneID, pattern)
	}
	t.Print()
}

func printFinalStates(coord *coordinator.Coordinator, droneIDs []string) {
	t := logger.NewTable("DRONE", "PATTERN", "BATTERY", "STALE")
	for _, id := range droneIDs {
		state, ok := coord.DroneState(id)
		if !ok {
			continue
		}
		t.AddRow(id, state.CurrentPattern,
			fmt.Sprintf("%.0f%%", state.Coordinate.Sensors.Battery.Percentage*100),
			fmt.Sprintf("%t", state.Stale))
	}
	t.Print()
}
