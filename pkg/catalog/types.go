// Package catalog provides the read-only, indexed collection of
// pre-verified behavioral patterns and compatibility/transition rules the
// constraint engine and world model query against.
package catalog

import "github.com/aegis-robotics/swarm-coord/pkg/swarmtypes"

// VerificationStatus is the offline verification outcome recorded against a
// pattern. Catalog verification itself happens externally; the core only
// reads this field.
type VerificationStatus string

const (
	VerificationVerified   VerificationStatus = "verified"
	VerificationUnverified VerificationStatus = "unverified"
	VerificationFailed     VerificationStatus = "failed"
)

// ForcedExit is a pattern-embedded rule that overrides normal selection
// when its condition evaluates true against live sensor state. The
// condition grammar is exactly "<field> < <number>" with
// field ∈ {battery, position_quality}.
type ForcedExit struct {
	Condition     string
	TargetPattern string
}

// Preconditions gate whether a pattern is a legal candidate for a drone.
type Preconditions struct {
	BatteryFloor         float64
	PositionQualityFloor float64
	MinReferences        int
	ValidFrom            []string
	HardwareRequirements []string
}

// Postconditions describe what a pattern may transition to, and under what
// forced conditions it must exit.
type Postconditions struct {
	ValidTo     []string
	ForcedExits []ForcedExit
}

// Bounds is a named scalar range used by a pattern's generator.
type Bounds struct {
	Min float64
	Max float64
}

// Generator describes the motor-command generator a pattern drives.
type Generator struct {
	Type     swarmtypes.GeneratorType
	Defaults map[string][]float64
	Bounds   map[string]Bounds
}

// Verification records the offline verification outcome for a pattern.
type Verification struct {
	Status              VerificationStatus
	CollisionClearanceM float64
	MaxVelocityMS       float64
	MaxAccelerationMS2  float64
	EnergyRateJS        float64
	MaxDurationS        float64
	VerifiedTransitions []string
}

// BehavioralPattern is one catalog entry: a pre-verified, parameterized
// behavior keyed by its canonical CorePattern key.
type BehavioralPattern struct {
	ID             string
	Core           swarmtypes.CorePattern
	Description    string
	Preconditions  Preconditions
	Postconditions Postconditions
	Generator      Generator
	Verification   Verification
}

// CompatibilityRule declares whether two (possibly globbed) pattern ids may
// be held by neighboring drones simultaneously, and the minimum separation
// required if so. Rules are bidirectional.
type CompatibilityRule struct {
	PatternAGlob   string
	PatternBGlob   string
	Compatible     bool
	MinSeparationM float64
	Reason         string
}

// TransitionRule declares whether a sigma-to-sigma transition is valid.
// From/To may be "*" to match any BehavioralMode.
type TransitionRule struct {
	From            swarmtypes.BehavioralMode
	To              swarmtypes.BehavioralMode
	Valid           bool
	Via             swarmtypes.BehavioralMode
	TransitionTimeS float64
	Reason          string
}

// WildcardMode matches any BehavioralMode in a TransitionRule's From/To.
const WildcardMode swarmtypes.BehavioralMode = "*"

// PartialCore is a partial-key filter for FilterByCore: every non-nil
// field must equal the candidate pattern's corresponding field; nil fields
// are unconstrained.
type PartialCore struct {
	Mode     *swarmtypes.BehavioralMode
	Autonomy *swarmtypes.AutonomyLevel
	Role     *swarmtypes.FormationRole
	Traits   *swarmtypes.PhysicalTraits
	Hardware *swarmtypes.HardwareTarget
}

func (p PartialCore) matches(c swarmtypes.CorePattern) bool {
	if p.Mode != nil && *p.Mode != c.Mode {
		return false
	}
	if p.Autonomy != nil && *p.Autonomy != c.Autonomy {
		return false
	}
	if p.Role != nil && *p.Role != c.Role {
		return false
	}
	if p.Traits != nil && *p.Traits != c.Traits {
		return false
	}
	if p.Hardware != nil && *p.Hardware != c.Hardware {
		return false
	}
	return true
}
