package catalog

import (
	"fmt"

	"github.com/aegis-robotics/swarm-coord/pkg/swarmtypes"
)

// Validate checks the catalog-level invariants the core assumes its inputs
// already satisfy (spec's "dependency violation detected at catalog
// validation time: emitted as validation error; the core assumes its
// inputs are pre-validated"). It is meant to run once, at construction
// time, before the catalog is handed to the coordinator — never on the
// runtime hot path.
func (c *CatalogIndex) Validate() error {
	for id, p := range c.patterns {
		if p.ID != id {
			return fmt.Errorf("catalog: pattern stored under %q has id %q", id, p.ID)
		}
		if p.ID != p.Core.CanonicalKey() {
			return fmt.Errorf("catalog: pattern %q id does not equal its canonical key %q", p.ID, p.Core.CanonicalKey())
		}
		if err := swarmtypes.ValidateCore(p.Core); err != nil {
			return fmt.Errorf("catalog: pattern %q core invalid: %w", p.ID, err)
		}

		for _, ref := range p.Postconditions.ValidTo {
			if _, ok := c.patterns[ref]; !ok {
				return fmt.Errorf("catalog: pattern %q valid_to references missing id %q", p.ID, ref)
			}
		}
		for _, ref := range p.Preconditions.ValidFrom {
			if _, ok := c.patterns[ref]; !ok {
				return fmt.Errorf("catalog: pattern %q valid_from references missing id %q", p.ID, ref)
			}
		}
		for _, fe := range p.Postconditions.ForcedExits {
			if _, ok := c.patterns[fe.TargetPattern]; !ok {
				return fmt.Errorf("catalog: pattern %q forced_exit references missing id %q", p.ID, fe.TargetPattern)
			}
		}
		for _, ref := range p.Postconditions.ValidTo {
			target := c.patterns[ref]
			if !c.isSigmaTransitionValid(p.Core.Mode, target.Core.Mode) {
				return fmt.Errorf("catalog: pattern %q valid_to %q implies an invalid sigma transition %s->%s", p.ID, ref, p.Core.Mode, target.Core.Mode)
			}
		}

		if p.Core.Autonomy == swarmtypes.AutonomyEmergency {
			if p.Preconditions.BatteryFloor != 0 {
				return fmt.Errorf("catalog: emergency pattern %q must have battery_floor = 0", p.ID)
			}
			if p.Preconditions.PositionQualityFloor != 0 {
				return fmt.Errorf("catalog: emergency pattern %q must have position_quality_floor = 0", p.ID)
			}
		}

		isolated := len(p.Postconditions.ValidTo) == 0 && len(p.Preconditions.ValidFrom) == 0 && len(p.Postconditions.ForcedExits) == 0
		if isolated {
			return fmt.Errorf("catalog: pattern %q is completely isolated", p.ID)
		}
	}

	for id, p := range c.patterns {
		if p.Core.Mode == swarmtypes.ModeGrounded {
			continue
		}
		if !c.hasPathToGrounded(id, make(map[string]bool)) {
			return fmt.Errorf("catalog: pattern %q has no path to a grounded pattern", id)
		}
	}

	return nil
}

func (c *CatalogIndex) hasPathToGrounded(id string, visited map[string]bool) bool {
	if visited[id] {
		return false
	}
	visited[id] = true

	p, ok := c.patterns[id]
	if !ok {
		return false
	}
	if p.Core.Mode == swarmtypes.ModeGrounded {
		return true
	}

	for _, next := range p.Postconditions.ValidTo {
		if c.hasPathToGrounded(next, visited) {
			return true
		}
	}
	for _, fe := range p.Postconditions.ForcedExits {
		if c.hasPathToGrounded(fe.TargetPattern, visited) {
			return true
		}
	}
	return false
}
