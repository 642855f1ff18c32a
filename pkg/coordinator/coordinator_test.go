package coordinator_test

import (
	"context"
	"testing"

	"github.com/aegis-robotics/swarm-coord/pkg/catalog"
	"github.com/aegis-robotics/swarm-coord/pkg/config"
	"github.com/aegis-robotics/swarm-coord/pkg/constraint"
	"github.com/aegis-robotics/swarm-coord/pkg/coordinator"
	"github.com/aegis-robotics/swarm-coord/pkg/roleassign"
	"github.com/aegis-robotics/swarm-coord/pkg/simcomms"
	"github.com/aegis-robotics/swarm-coord/pkg/swarmtypes"
)

const hoverID = "hover-autonomous-performer-bare.crazyflie-2.1"
const landEmergencyID = "land-emergency-reserve-bare.crazyflie-2.1"

func basicPattern(id string, mode swarmtypes.BehavioralMode, role swarmtypes.FormationRole) *catalog.BehavioralPattern {
	return &catalog.BehavioralPattern{
		ID: id,
		Core: swarmtypes.CorePattern{
			Mode:      mode,
			Autonomy:  swarmtypes.AutonomyAutonomous,
			Role:      role,
			Ownership: swarmtypes.RoleOwnership[role],
			Traits:    swarmtypes.TraitsBare,
			Hardware:  swarmtypes.HardwareCrazyflie21,
		},
		Preconditions: catalog.Preconditions{ValidFrom: []string{id}},
		Postconditions: catalog.Postconditions{
			ValidTo: []string{id},
		},
	}
}

func testCatalog() *catalog.CatalogIndex {
	hover := basicPattern(hoverID, swarmtypes.ModeHover, swarmtypes.RolePerformer)
	hover.Postconditions.ForcedExits = []catalog.ForcedExit{
		{Condition: "battery < 0.10", TargetPattern: landEmergencyID},
	}
	land := basicPattern(landEmergencyID, swarmtypes.ModeLand, swarmtypes.RoleReserve)

	return catalog.NewCatalogIndex(map[string]*catalog.BehavioralPattern{
		hover.ID: hover,
		land.ID:  land,
	}, []string{hover.ID, land.ID}, nil, catalog.DefaultTransitionRules())
}

func testConfig() *config.CoordinatorConfig {
	return config.GetDefaultConfig()
}

func testConfigWithRoleReassignmentEveryTick() *config.CoordinatorConfig {
	cfg := config.GetDefaultConfig()
	cfg.Tick.RoleReassignmentTicks = 1
	return cfg
}

func TestTickAppliesForcedExit(t *testing.T) {
	ctx := context.Background()
	sim := simcomms.New(nil)
	coord := coordinator.New(sim, testCatalog(), testConfig(), nil)

	if err := sim.Connect(ctx, []string{"d0"}); err != nil {
		t.Fatalf("connect: %v", err)
	}

	coord.RegisterDrone("d0", swarmtypes.HardwareCrazyflie21, swarmtypes.TraitsBare, hoverID, swarmtypes.SensorState{
		Battery:         swarmtypes.BatteryState{Percentage: 0.05},
		PositionQuality: 0.9,
	})

	assignments := coord.Tick(ctx)
	if len(assignments) != 1 || assignments[0].PatternID != landEmergencyID {
		t.Fatalf("expected a forced exit to %s, got %+v", landEmergencyID, assignments)
	}

	cmd, ok := sim.LastCommand("d0")
	if !ok {
		t.Fatal("expected a command to have been sent to d0")
	}
	if cmd.PatternID != 1 { // land is index 1 in testCatalog's explicit order
		t.Errorf("expected numeric pattern id 1, got %d", cmd.PatternID)
	}
	if cmd.Flags&coordinator.FlagForcePattern == 0 {
		t.Error("expected FlagForcePattern to be set on a pattern change")
	}

	state, ok := coord.DroneState("d0")
	if !ok || state.CurrentPattern != landEmergencyID {
		t.Errorf("expected world model to reflect the new pattern, got %+v (ok=%v)", state, ok)
	}
}

func TestTickNoOpWithoutForcedExit(t *testing.T) {
	ctx := context.Background()
	sim := simcomms.New(nil)
	coord := coordinator.New(sim, testCatalog(), testConfig(), nil)
	_ = sim.Connect(ctx, []string{"d0"})

	coord.RegisterDrone("d0", swarmtypes.HardwareCrazyflie21, swarmtypes.TraitsBare, hoverID, swarmtypes.SensorState{
		Battery:         swarmtypes.BatteryState{Percentage: 0.8},
		PositionQuality: 0.9,
	})

	assignments := coord.Tick(ctx)
	for _, a := range assignments {
		if a.DroneID == "d0" && a.PatternID != hoverID {
			t.Errorf("expected d0 to keep %s, got %s", hoverID, a.PatternID)
		}
	}
}

func TestTickRunsRoleReassignmentAndAppliesSafetyOverride(t *testing.T) {
	ctx := context.Background()
	sim := simcomms.New(nil)
	coord := coordinator.New(sim, testCatalog(), testConfigWithRoleReassignmentEveryTick(), nil)
	_ = sim.Connect(ctx, []string{"d0", "d1"})

	coord.RegisterDrone("d0", swarmtypes.HardwareCrazyflie21, swarmtypes.TraitsBare, hoverID, swarmtypes.SensorState{
		Battery:         swarmtypes.BatteryState{Percentage: 0.05},
		PositionQuality: 0.9,
	})
	coord.RegisterDrone("d1", swarmtypes.HardwareCrazyflie21, swarmtypes.TraitsBare, hoverID, swarmtypes.SensorState{
		Battery:         swarmtypes.BatteryState{Percentage: 0.8},
		PositionQuality: 0.9,
	})

	coord.Formation = roleassign.FormationSpec{MinPerformers: 1}
	coord.Coverage = roleassign.CoverageSpec{}

	coord.Tick(ctx)

	state, ok := coord.DroneState("d0")
	if !ok {
		t.Fatal("expected d0 to be registered")
	}
	if state.Coordinate.Core.Role != swarmtypes.RoleChargerInbound {
		t.Errorf("expected d0's low battery to force charger-inbound, got %s", state.Coordinate.Core.Role)
	}
}

func TestOnTickHookFires(t *testing.T) {
	ctx := context.Background()
	sim := simcomms.New(nil)
	coord := coordinator.New(sim, testCatalog(), testConfig(), nil)
	_ = sim.Connect(ctx, []string{"d0"})

	coord.RegisterDrone("d0", swarmtypes.HardwareCrazyflie21, swarmtypes.TraitsBare, hoverID, swarmtypes.SensorState{
		Battery:         swarmtypes.BatteryState{Percentage: 0.05},
		PositionQuality: 0.9,
	})

	var gotTick uint64
	fired := false
	coord.OnTick = func(tick uint64, assignments []constraint.Assignment) {
		fired = true
		gotTick = tick
	}

	coord.Tick(ctx)

	if !fired {
		t.Error("expected OnTick to fire")
	}
	if gotTick != 1 {
		t.Errorf("expected tick 1, got %d", gotTick)
	}
}
