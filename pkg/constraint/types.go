// Package constraint implements the per-drone catalog selection pipeline:
// forced-exit checks, hardware/precondition/transition filtering, pairwise
// neighbor compatibility, scoring, and the hover/emergency/self fallback
// chain. It is the coordination core's heaviest component and the one
// invoked on every structural state change.
package constraint

import "github.com/aegis-robotics/swarm-coord/pkg/swarmtypes"

// ObjectiveType names a swarm-level goal that biases candidate scoring.
type ObjectiveType string

const (
	ObjectiveFormation ObjectiveType = "formation"
	ObjectiveOrbit     ObjectiveType = "orbit"
	ObjectiveTranslate ObjectiveType = "translate"
	ObjectiveHover     ObjectiveType = "hover"
	ObjectiveLandAll   ObjectiveType = "land-all"
)

// Objective is one swarm-level goal the constraint engine scores
// candidates against.
type Objective struct {
	Type      ObjectiveType
	TargetPos *swarmtypes.Vector3
	Shape     map[string]float64
}

// objectiveSigmaMatches maps an objective type to the BehavioralMode it
// rewards, per the component design's scoring rule.
func objectiveSigmaMatches(objType ObjectiveType, mode swarmtypes.BehavioralMode) bool {
	switch objType {
	case ObjectiveFormation:
		return mode == swarmtypes.ModeFormationHold
	case ObjectiveOrbit:
		return mode == swarmtypes.ModeOrbit
	case ObjectiveTranslate:
		return mode == swarmtypes.ModeTranslate
	case ObjectiveHover:
		return mode == swarmtypes.ModeHover
	case ObjectiveLandAll:
		return mode == swarmtypes.ModeLand
	default:
		return false
	}
}

// Assignment is the engine's output for one drone: the pattern it should
// assume, plus any target position/velocity the generator needs.
type Assignment struct {
	DroneID   string
	PatternID string
	TargetPos *swarmtypes.Vector3
	TargetVel *swarmtypes.Vector3
}
