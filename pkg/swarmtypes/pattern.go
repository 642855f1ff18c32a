package swarmtypes

import "fmt"

// CorePattern is the tuple of six structural coordinates that forms the
// finite catalog key. In catalog patterns ResourceOwnership is derived from
// FormationRole via RoleOwnership; the world model's registration default
// (reserve with shared-corridor) is the one core not derived that way.
type CorePattern struct {
	Mode      BehavioralMode
	Autonomy  AutonomyLevel
	Role      FormationRole
	Ownership ResourceOwnership
	Traits    PhysicalTraits
	Hardware  HardwareTarget
}

// CanonicalKey returns the pattern's id in the catalog's canonical form:
// {σ}-{κ}-{χ}-{τ}.{ρ}. λ is omitted; it is derivable from χ.
func (c CorePattern) CanonicalKey() string {
	return fmt.Sprintf("%s-%s-%s-%s.%s", c.Mode, c.Autonomy, c.Role, c.Traits, c.Hardware)
}

// WithOwnership returns a copy of the pattern with Ownership set from the
// role-ownership table.
func (c CorePattern) WithOwnership() CorePattern {
	c.Ownership = RoleOwnership[c.Role]
	return c
}
