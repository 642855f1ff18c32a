package worldmodel

import "github.com/aegis-robotics/swarm-coord/pkg/swarmtypes"

// StructuralDimension names one of the six structural coordinates of a
// CorePattern. Only these six ever participate in a structural delta; ε, δ,
// and Σ changes are never structural.
type StructuralDimension string

const (
	DimensionMode      StructuralDimension = "mode"
	DimensionAutonomy  StructuralDimension = "autonomy"
	DimensionRole      StructuralDimension = "role"
	DimensionOwnership StructuralDimension = "ownership"
	DimensionTraits    StructuralDimension = "traits"
	DimensionHardware  StructuralDimension = "hardware"
)

// DeltaResult is the outcome of classifying the change between two
// CorePatterns.
type DeltaResult struct {
	Changed    []StructuralDimension
	Structural bool
}

// classifyDelta returns the set of structural dimensions that differ
// between oldCore and newCore. All six structural dimensions are treated
// identically — no further distinction is drawn within the core.
func classifyDelta(oldCore, newCore swarmtypes.CorePattern) DeltaResult {
	var changed []StructuralDimension

	if oldCore.Mode != newCore.Mode {
		changed = append(changed, DimensionMode)
	}
	if oldCore.Autonomy != newCore.Autonomy {
		changed = append(changed, DimensionAutonomy)
	}
	if oldCore.Role != newCore.Role {
		changed = append(changed, DimensionRole)
	}
	if oldCore.Ownership != newCore.Ownership {
		changed = append(changed, DimensionOwnership)
	}
	if oldCore.Traits != newCore.Traits {
		changed = append(changed, DimensionTraits)
	}
	if oldCore.Hardware != newCore.Hardware {
		changed = append(changed, DimensionHardware)
	}

	return DeltaResult{Changed: changed, Structural: len(changed) > 0}
}
