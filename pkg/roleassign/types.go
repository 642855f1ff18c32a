// Package roleassign implements the priority-ordered rule system that
// reassigns formation roles across the active drone set every N ticks,
// with a hysteresis window the safety rule always overrides.
package roleassign

import "github.com/aegis-robotics/swarm-coord/pkg/swarmtypes"

// FormationSpec describes the swarm's formation-level objectives.
type FormationSpec struct {
	MinPerformers int
	NeedsLeader   bool
	Center        swarmtypes.Vector3
}

// CoverageSpec describes the swarm's area-coverage objectives.
type CoverageSpec struct {
	CoverageRadius float64
	NeedsRelay     bool
}

// Config holds the role engine's safety and hysteresis thresholds.
type Config struct {
	BatteryChargeThreshold  float64
	BatteryReturnThreshold  float64
	RoleHysteresisTickCount int
}
