package worldmodel

import (
	"testing"
	"time"

	"github.com/aegis-robotics/swarm-coord/pkg/swarmtypes"
)

func telemetryAt(x, y, z float64) swarmtypes.SensorState {
	return swarmtypes.SensorState{
		Position: swarmtypes.Vector3{X: x, Y: y, Z: z},
		Battery:  swarmtypes.BatteryState{Percentage: 0.8},
	}
}

func TestAddDroneInitializesDefaults(t *testing.T) {
	wm := New(5.0, 500*time.Millisecond, nil)
	wm.AddDrone("d0", swarmtypes.HardwareCrazyflie21, swarmtypes.TraitsBare, "grounded-pattern", telemetryAt(0, 0, 1))

	st, ok := wm.GetDrone("d0")
	if !ok {
		t.Fatalf("expected d0 to be registered")
	}
	if st.Coordinate.Core.Mode != swarmtypes.ModeGrounded {
		t.Errorf("expected initial mode grounded, got %s", st.Coordinate.Core.Mode)
	}
	if st.Coordinate.Core.Role != swarmtypes.RoleReserve {
		t.Errorf("expected initial role reserve, got %s", st.Coordinate.Core.Role)
	}
	if st.Coordinate.Core.Autonomy != swarmtypes.AutonomyAutonomous {
		t.Errorf("expected initial autonomy autonomous, got %s", st.Coordinate.Core.Autonomy)
	}
	if st.Coordinate.Core.Ownership != swarmtypes.OwnershipSharedCorridor {
		t.Errorf("expected initial ownership shared-corridor, got %s", st.Coordinate.Core.Ownership)
	}
}

func TestRemoveDrone(t *testing.T) {
	wm := New(5.0, 500*time.Millisecond, nil)
	wm.AddDrone("d0", swarmtypes.HardwareCrazyflie21, swarmtypes.TraitsBare, "p", telemetryAt(0, 0, 1))

	if !wm.RemoveDrone("d0") {
		t.Errorf("expected RemoveDrone to succeed for a known drone")
	}
	if wm.RemoveDrone("d0") {
		t.Errorf("expected RemoveDrone to no-op for an already-removed drone")
	}
	if _, ok := wm.GetDrone("d0"); ok {
		t.Errorf("expected d0 to be gone after removal")
	}
}

func TestUpdateTelemetryUnknownDroneIsNoOp(t *testing.T) {
	wm := New(5.0, 500*time.Millisecond, nil)
	wm.UpdateTelemetry("ghost", telemetryAt(1, 1, 1))
	if _, ok := wm.GetDrone("ghost"); ok {
		t.Errorf("expected unknown drone telemetry update to remain a no-op")
	}
}

func TestNeighborGraphSymmetricWithinCommRange(t *testing.T) {
	wm := New(3.0, 500*time.Millisecond, nil)
	wm.AddDrone("d0", swarmtypes.HardwareCrazyflie21, swarmtypes.TraitsBare, "p", telemetryAt(0, 0, 1))
	wm.AddDrone("d1", swarmtypes.HardwareCrazyflie21, swarmtypes.TraitsBare, "p", telemetryAt(1, 0, 1))

	wm.UpdateTelemetry("d0", telemetryAt(0, 0, 1))
	wm.UpdateTelemetry("d1", telemetryAt(1, 0, 1))

	g0, _ := wm.GetNeighborGraph("d0")
	g1, _ := wm.GetNeighborGraph("d1")

	if len(g0.Neighbors) != 1 || g0.Neighbors[0] != "d1" {
		t.Errorf("expected d0 to see d1 as a neighbor, got %v", g0.Neighbors)
	}
	if len(g1.Neighbors) != 1 || g1.Neighbors[0] != "d0" {
		t.Errorf("expected d1 to see d0 as a neighbor, got %v", g1.Neighbors)
	}
}

func TestNeighborGraphOutOfRange(t *testing.T) {
	wm := New(3.0, 500*time.Millisecond, nil)
	wm.AddDrone("d0", swarmtypes.HardwareCrazyflie21, swarmtypes.TraitsBare, "p", telemetryAt(0, 0, 1))
	wm.AddDrone("d1", swarmtypes.HardwareCrazyflie21, swarmtypes.TraitsBare, "p", telemetryAt(50, 0, 1))

	g0, _ := wm.GetNeighborGraph("d0")
	if len(g0.Neighbors) != 0 {
		t.Errorf("expected d0 to have no neighbors across a 50m gap, got %v", g0.Neighbors)
	}
}

func TestMarkStaleDrones(t *testing.T) {
	wm := New(5.0, 100*time.Millisecond, nil)
	fixed := time.Now()
	wm.now = func() time.Time { return fixed }

	wm.AddDrone("d0", swarmtypes.HardwareCrazyflie21, swarmtypes.TraitsBare, "p", telemetryAt(0, 0, 1))

	newlyStale := wm.MarkStaleDrones(fixed.Add(50 * time.Millisecond))
	if len(newlyStale) != 0 {
		t.Errorf("expected no drones stale before threshold, got %v", newlyStale)
	}

	newlyStale = wm.MarkStaleDrones(fixed.Add(200 * time.Millisecond))
	if len(newlyStale) != 1 || newlyStale[0] != "d0" {
		t.Errorf("expected d0 to become newly stale, got %v", newlyStale)
	}

	// Second call shouldn't re-report the already-stale drone.
	newlyStale = wm.MarkStaleDrones(fixed.Add(300 * time.Millisecond))
	if len(newlyStale) != 0 {
		t.Errorf("expected no re-report of already-stale drones, got %v", newlyStale)
	}

	active := wm.GetActiveDroneIDs()
	if len(active) != 0 {
		t.Errorf("expected active drone list empty once all stale, got %v", active)
	}
}

func TestUpdatePatternClassifiesStructuralDelta(t *testing.T) {
	wm := New(5.0, 500*time.Millisecond, nil)
	wm.AddDrone("d0", swarmtypes.HardwareCrazyflie21, swarmtypes.TraitsBare, "grounded-pattern", telemetryAt(0, 0, 1))

	delta, ok := wm.UpdatePattern("d0", "hover-pattern", swarmtypes.ModeHover, swarmtypes.AutonomyAutonomous, swarmtypes.RolePerformer, swarmtypes.OwnershipSharedCorridor)
	if !ok {
		t.Fatalf("expected UpdatePattern to succeed for a known drone")
	}
	if !delta.Structural {
		t.Errorf("expected mode+role change to be structural")
	}
	if len(delta.Changed) != 2 {
		t.Errorf("expected exactly 2 changed dims (mode, role), got %v", delta.Changed)
	}

	// Re-applying the identical core should report no structural change.
	delta2, ok := wm.UpdatePattern("d0", "hover-pattern", swarmtypes.ModeHover, swarmtypes.AutonomyAutonomous, swarmtypes.RolePerformer, swarmtypes.OwnershipSharedCorridor)
	if !ok || delta2.Structural {
		t.Errorf("expected no structural delta on an identical re-application, got %+v", delta2)
	}
}

func TestUpdatePatternUnknownDroneIsNoOp(t *testing.T) {
	wm := New(5.0, 500*time.Millisecond, nil)
	_, ok := wm.UpdatePattern("ghost", "p", swarmtypes.ModeHover, swarmtypes.AutonomyAutonomous, swarmtypes.RolePerformer, swarmtypes.OwnershipSharedCorridor)
	if ok {
		t.Errorf("expected UpdatePattern on an unknown drone to report ok=false")
	}
}

func TestLeaderFollowerGraphDerivation(t *testing.T) {
	wm := New(5.0, 500*time.Millisecond, nil)
	wm.AddDrone("leader", swarmtypes.HardwareCrazyflie21, swarmtypes.TraitsBare, "p", telemetryAt(0, 0, 1))
	wm.AddDrone("follower", swarmtypes.HardwareCrazyflie21, swarmtypes.TraitsBare, "p", telemetryAt(1, 0, 1))

	wm.UpdatePattern("leader", "p", swarmtypes.ModeHover, swarmtypes.AutonomyAutonomous, swarmtypes.RoleLeader, swarmtypes.OwnershipExclusiveVolume)
	wm.UpdatePattern("follower", "p", swarmtypes.ModeHover, swarmtypes.AutonomyAutonomous, swarmtypes.RoleFollower, swarmtypes.OwnershipSharedCorridor)

	// Trigger a graph recompute under the updated roles.
	wm.UpdateTelemetry("leader", telemetryAt(0, 0, 1))
	wm.UpdateTelemetry("follower", telemetryAt(1, 0, 1))

	gLeader, _ := wm.GetNeighborGraph("leader")
	if len(gLeader.Followers) != 1 || gLeader.Followers[0] != "follower" {
		t.Errorf("expected leader to see follower in Followers, got %v", gLeader.Followers)
	}

	gFollower, _ := wm.GetNeighborGraph("follower")
	if gFollower.Leader != "leader" {
		t.Errorf("expected follower to resolve leader id, got %q", gFollower.Leader)
	}
}
