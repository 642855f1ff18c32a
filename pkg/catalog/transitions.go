package catalog

import "github.com/aegis-robotics/swarm-coord/pkg/swarmtypes"

// DefaultTransitionRules returns a baseline sigma-transition matrix
// satisfying the required rules named in the component design: grounded
// only reaches airborne modes via takeoff, any mode may transition to
// avoid, and takeoff/land bridge the ground/air boundary. Callers building
// a real catalog are expected to extend this list with their own
// patterns' specific transitions; this is a starting matrix, not an
// exhaustive one.
func DefaultTransitionRules() []TransitionRule {
	return []TransitionRule{
		{From: swarmtypes.ModeGrounded, To: swarmtypes.ModeTakeoff, Valid: true},
		{From: swarmtypes.ModeGrounded, To: swarmtypes.ModeHover, Valid: false, Via: swarmtypes.ModeTakeoff, Reason: "must take off first"},
		{From: swarmtypes.ModeGrounded, To: swarmtypes.ModeTranslate, Valid: false, Via: swarmtypes.ModeTakeoff, Reason: "must take off first"},
		{From: swarmtypes.ModeGrounded, To: swarmtypes.ModeOrbit, Valid: false, Via: swarmtypes.ModeTakeoff, Reason: "must take off first"},
		{From: swarmtypes.ModeTakeoff, To: swarmtypes.ModeHover, Valid: true},
		{From: swarmtypes.ModeTakeoff, To: swarmtypes.ModeClimb, Valid: true},
		{From: swarmtypes.ModeHover, To: swarmtypes.ModeTranslate, Valid: true},
		{From: swarmtypes.ModeTranslate, To: swarmtypes.ModeHover, Valid: true},
		{From: swarmtypes.ModeHover, To: swarmtypes.ModeOrbit, Valid: true},
		{From: swarmtypes.ModeOrbit, To: swarmtypes.ModeHover, Valid: true},
		{From: swarmtypes.ModeHover, To: swarmtypes.ModeLand, Valid: true},
		{From: swarmtypes.ModeLand, To: swarmtypes.ModeGrounded, Valid: true},
		{From: swarmtypes.ModeHover, To: swarmtypes.ModeFormationHold, Valid: true},
		{From: swarmtypes.ModeFormationHold, To: swarmtypes.ModeHover, Valid: true},
		{From: swarmtypes.ModeFormationHold, To: swarmtypes.ModeFormationTransition, Valid: true},
		{From: swarmtypes.ModeFormationTransition, To: swarmtypes.ModeFormationHold, Valid: true},
		{From: swarmtypes.ModeHover, To: swarmtypes.ModeRelayHold, Valid: true},
		{From: swarmtypes.ModeRelayHold, To: swarmtypes.ModeHover, Valid: true},
		{From: swarmtypes.ModeGrounded, To: swarmtypes.ModeDock, Valid: false, Via: swarmtypes.ModeTakeoff},
		{From: swarmtypes.ModeDock, To: swarmtypes.ModeDocked, Valid: true},
		{From: swarmtypes.ModeDocked, To: swarmtypes.ModeUndock, Valid: true},
		{From: swarmtypes.ModeUndock, To: swarmtypes.ModeHover, Valid: true},
		{From: WildcardMode, To: swarmtypes.ModeAvoid, Valid: true},
		{From: swarmtypes.ModeAvoid, To: swarmtypes.ModeHover, Valid: true},
		{From: swarmtypes.ModeHover, To: swarmtypes.ModeClimb, Valid: true},
		{From: swarmtypes.ModeClimb, To: swarmtypes.ModeHover, Valid: true},
		{From: swarmtypes.ModeHover, To: swarmtypes.ModeDescend, Valid: true},
		{From: swarmtypes.ModeDescend, To: swarmtypes.ModeHover, Valid: true},
		{From: swarmtypes.ModeDescend, To: swarmtypes.ModeLand, Valid: true},
	}
}
