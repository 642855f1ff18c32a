package roleassign

import (
	"testing"
	"time"

	"github.com/aegis-robotics/swarm-coord/pkg/swarmtypes"
	"github.com/aegis-robotics/swarm-coord/pkg/worldmodel"
)

func addDroneWithRole(t *testing.T, wm *worldmodel.WorldModel, id string, role swarmtypes.FormationRole, mode swarmtypes.BehavioralMode, battery, positionQuality float64, pos swarmtypes.Vector3) {
	t.Helper()
	wm.AddDrone(id, swarmtypes.HardwareCrazyflie21, swarmtypes.TraitsBare, "pattern-"+id, swarmtypes.SensorState{
		Position:        pos,
		Battery:         swarmtypes.BatteryState{Percentage: battery},
		PositionQuality: positionQuality,
	})
	if _, ok := wm.UpdatePattern(id, "pattern-"+id, mode, swarmtypes.AutonomyAutonomous, role, swarmtypes.RoleOwnership[role]); !ok {
		t.Fatalf("failed to set up drone %s", id)
	}
}

func defaultCfg() Config {
	return Config{
		BatteryChargeThreshold:  0.15,
		BatteryReturnThreshold:  0.90,
		RoleHysteresisTickCount: 10,
	}
}

// TestRoleRotationUnderSafety is scenario 5: a critically low drone is
// pulled for charging regardless of hysteresis, while the remaining drones
// fill relay, leader, and performer roles.
func TestRoleRotationUnderSafety(t *testing.T) {
	wm := worldmodel.New(5.0, 500*time.Millisecond, nil)

	addDroneWithRole(t, wm, "d0", swarmtypes.RolePerformer, swarmtypes.ModeHover, 0.9, 0.9, swarmtypes.Vector3{X: 5, Y: 0, Z: 1})
	addDroneWithRole(t, wm, "d1", swarmtypes.RolePerformer, swarmtypes.ModeHover, 0.8, 0.9, swarmtypes.Vector3{X: 0, Y: 5, Z: 1})
	addDroneWithRole(t, wm, "d2", swarmtypes.RoleReserve, swarmtypes.ModeHover, 0.7, 0.9, swarmtypes.Vector3{X: 3, Y: 0, Z: 1})
	addDroneWithRole(t, wm, "d3", swarmtypes.RoleReserve, swarmtypes.ModeHover, 0.6, 0.9, swarmtypes.Vector3{X: 0, Y: 3, Z: 1})
	addDroneWithRole(t, wm, "d4", swarmtypes.RolePerformer, swarmtypes.ModeHover, 0.10, 0.9, swarmtypes.Vector3{X: 1, Y: 0, Z: 1})

	tickCounts := map[string]int{"d0": 50, "d1": 50, "d2": 50, "d3": 50, "d4": 50}

	engine := New(nil)
	formation := FormationSpec{MinPerformers: 2, NeedsLeader: true}
	coverage := CoverageSpec{CoverageRadius: 5, NeedsRelay: true}

	changes := engine.Assign(wm, formation, coverage, defaultCfg(), tickCounts)

	if got := changes["d4"]; got != swarmtypes.RoleChargerInbound {
		t.Errorf("expected d4 to be pulled to charger-inbound, got %q", got)
	}

	// d0 and d1 are equally close to the radius-5 boundary (both sqrt(26)
	// from center) and d2/d3 are farther from it; d0's higher battery breaks
	// the tie, so relay must land on d0.
	if got := changes["d0"]; got != swarmtypes.RoleRelay {
		t.Errorf("expected d0 (on the coverage boundary) to become relay, got %q", got)
	}

	// Highest remaining battery among the non-relay eligible set is d1.
	if got := changes["d1"]; got != swarmtypes.RoleLeader {
		t.Errorf("expected d1 (highest remaining battery) to become leader, got %q", got)
	}

	seen := make(map[string]int)
	for _, role := range changes {
		seen[string(role)]++
	}
	if seen[string(swarmtypes.RoleChargerInbound)] != 1 {
		t.Errorf("expected exactly one charger-inbound assignment, got %+v", changes)
	}
}

// TestNoOutputWhenRoleUnchanged enforces the universal invariant: the
// engine never reports a drone whose proposed role equals its stored role.
func TestNoOutputWhenRoleUnchanged(t *testing.T) {
	wm := worldmodel.New(5.0, 500*time.Millisecond, nil)
	addDroneWithRole(t, wm, "d0", swarmtypes.RolePerformer, swarmtypes.ModeHover, 0.9, 0.9, swarmtypes.Vector3{X: 0, Y: 0, Z: 1})
	addDroneWithRole(t, wm, "d1", swarmtypes.RolePerformer, swarmtypes.ModeHover, 0.9, 0.9, swarmtypes.Vector3{X: 1, Y: 0, Z: 1})

	engine := New(nil)
	formation := FormationSpec{MinPerformers: 2}
	coverage := CoverageSpec{}

	changes := engine.Assign(wm, formation, coverage, defaultCfg(), nil)

	for id, role := range changes {
		st, _ := wm.GetDrone(id)
		if role == st.Coordinate.Core.Role {
			t.Errorf("drone %s reported unchanged role %q", id, role)
		}
	}
}

// TestHysteresisBlocksNonSafetyChanges verifies that a proposed non-safety
// role change is suppressed until the drone has held its current role for
// at least the configured tick count, while the safety override always
// applies regardless of tick count.
func TestHysteresisBlocksNonSafetyChanges(t *testing.T) {
	wm := worldmodel.New(5.0, 500*time.Millisecond, nil)
	addDroneWithRole(t, wm, "d0", swarmtypes.RoleReserve, swarmtypes.ModeHover, 0.9, 0.9, swarmtypes.Vector3{X: 5, Y: 0, Z: 1})
	addDroneWithRole(t, wm, "d1", swarmtypes.RolePerformer, swarmtypes.ModeHover, 0.05, 0.9, swarmtypes.Vector3{X: 0, Y: 0, Z: 1})

	tickCounts := map[string]int{"d0": 1, "d1": 1}

	engine := New(nil)
	formation := FormationSpec{MinPerformers: 2}
	coverage := CoverageSpec{NeedsRelay: true, CoverageRadius: 5}

	changes := engine.Assign(wm, formation, coverage, defaultCfg(), tickCounts)

	if got, ok := changes["d1"]; !ok || got != swarmtypes.RoleChargerInbound {
		t.Errorf("expected d1 safety override regardless of hysteresis, got %q (ok=%v)", got, ok)
	}
	if _, ok := changes["d0"]; ok {
		t.Errorf("expected d0's promotion to be suppressed by hysteresis, got a change")
	}
}

func TestRelayAssignmentPrefersClosestToRadius(t *testing.T) {
	wm := worldmodel.New(5.0, 500*time.Millisecond, nil)
	addDroneWithRole(t, wm, "near", swarmtypes.RolePerformer, swarmtypes.ModeHover, 0.8, 0.9, swarmtypes.Vector3{X: 5.0, Y: 0, Z: 1})
	addDroneWithRole(t, wm, "far", swarmtypes.RolePerformer, swarmtypes.ModeHover, 0.8, 0.9, swarmtypes.Vector3{X: 1.0, Y: 0, Z: 1})

	engine := New(nil)
	formation := FormationSpec{MinPerformers: 2}
	coverage := CoverageSpec{CoverageRadius: 5, NeedsRelay: true}

	changes := engine.Assign(wm, formation, coverage, defaultCfg(), nil)

	if got := changes["near"]; got != swarmtypes.RoleRelay {
		t.Errorf("expected drone at the radius boundary to become relay, got changes=%+v", changes)
	}
	if _, ok := changes["far"]; ok {
		t.Errorf("did not expect the far drone to change role, got %+v", changes)
	}
}
