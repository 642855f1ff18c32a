package catalog

import (
	"sort"

	"github.com/aegis-robotics/swarm-coord/pkg/swarmtypes"
)

// CatalogIndex is the read-only, indexed collection of behavioral
// patterns, compatibility rules, and sigma-transition rules. It is
// immutable after construction. Lookup is O(1); FilterByCore scans every
// pattern in order, and the compatibility and transition queries scan their
// rule lists.
type CatalogIndex struct {
	patterns        map[string]*BehavioralPattern
	orderedIDs      []string // insertion order, for deterministic iteration
	compatRules     []CompatibilityRule
	transitionRules []TransitionRule
}

// NewCatalogIndex builds an index over the given patterns and rules.
// Pattern insertion order is preserved from the iteration order of the ids
// slice, giving FilterByCore and scoring callers a documented, stable
// ordering to break ties against.
func NewCatalogIndex(patterns map[string]*BehavioralPattern, ids []string, compatRules []CompatibilityRule, transitionRules []TransitionRule) *CatalogIndex {
	ordered := make([]string, 0, len(ids))
	if len(ids) > 0 {
		ordered = append(ordered, ids...)
	} else {
		// No explicit order given; fall back to a sorted id list so
		// iteration is at least deterministic across runs.
		for id := range patterns {
			ordered = append(ordered, id)
		}
		sort.Strings(ordered)
	}

	return &CatalogIndex{
		patterns:        patterns,
		orderedIDs:      ordered,
		compatRules:     compatRules,
		transitionRules: transitionRules,
	}
}

// Lookup returns the pattern for id, if present.
func (c *CatalogIndex) Lookup(id string) (*BehavioralPattern, bool) {
	p, ok := c.patterns[id]
	return p, ok
}

// OrderedIDs returns the catalog's patterns ids in their documented stable
// order (insertion order, or sorted if none was given).
func (c *CatalogIndex) OrderedIDs() []string {
	return c.orderedIDs
}

// Size returns the number of patterns in the catalog.
func (c *CatalogIndex) Size() int {
	return len(c.patterns)
}

// FilterByCore returns every pattern whose core matches every non-nil
// field of partial, in the catalog's documented stable order.
func (c *CatalogIndex) FilterByCore(partial PartialCore) []*BehavioralPattern {
	var out []*BehavioralPattern
	for _, id := range c.orderedIDs {
		p, ok := c.patterns[id]
		if !ok {
			continue
		}
		if partial.matches(p.Core) {
			out = append(out, p)
		}
	}
	return out
}

// IsTransitionValid reports whether a pattern transition from fromID to
// toID is valid: toID must be in fromPattern.valid_to, fromID must be in
// toPattern.valid_from, and the sigma-to-sigma transition must be valid
// per the transition matrix. Missing patterns make this false. A
// self-transition is always valid.
func (c *CatalogIndex) IsTransitionValid(fromID, toID string) bool {
	if fromID == toID {
		return true
	}

	from, ok := c.patterns[fromID]
	if !ok {
		return false
	}
	to, ok := c.patterns[toID]
	if !ok {
		return false
	}

	if !containsString(from.Postconditions.ValidTo, toID) {
		return false
	}
	if !containsString(to.Preconditions.ValidFrom, fromID) {
		return false
	}

	return c.isSigmaTransitionValid(from.Core.Mode, to.Core.Mode)
}

// isSigmaTransitionValid looks up the transition matrix in order: exact
// (from,to); wildcard (*,to); wildcard (from,*); otherwise no rule exists
// and the transition is invalid. Self-transitions are always valid.
func (c *CatalogIndex) isSigmaTransitionValid(from, to swarmtypes.BehavioralMode) bool {
	if from == to {
		return true
	}

	if rule, ok := c.findTransitionRule(from, to); ok {
		return rule.Valid
	}
	if rule, ok := c.findTransitionRule(WildcardMode, to); ok {
		return rule.Valid
	}
	if rule, ok := c.findTransitionRule(from, WildcardMode); ok {
		return rule.Valid
	}
	return false
}

func (c *CatalogIndex) findTransitionRule(from, to swarmtypes.BehavioralMode) (TransitionRule, bool) {
	for _, r := range c.transitionRules {
		if r.From == from && r.To == to {
			return r, true
		}
	}
	return TransitionRule{}, false
}

// IsCompatible reports whether two patterns may be held by neighboring
// drones separated by separationM. Every matching rule (by glob, in
// either order) is scored for specificity; the most specific wins. With
// no matching rule, the open-world default is true.
func (c *CatalogIndex) IsCompatible(idA, idB string, separationM float64) bool {
	var winner *CompatibilityRule
	var winnerScore = -1

	for i := range c.compatRules {
		rule := &c.compatRules[i]

		var score int
		matched := false

		if matchGlob(rule.PatternAGlob, idA) && matchGlob(rule.PatternBGlob, idB) {
			matched = true
			score = globSpecificity(rule.PatternAGlob) + globSpecificity(rule.PatternBGlob)
		}
		if matchGlob(rule.PatternAGlob, idB) && matchGlob(rule.PatternBGlob, idA) {
			reverseScore := globSpecificity(rule.PatternAGlob) + globSpecificity(rule.PatternBGlob)
			if !matched || reverseScore > score {
				matched = true
				score = reverseScore
			}
		}

		if matched && score > winnerScore {
			winnerScore = score
			winner = rule
		}
	}

	if winner == nil {
		return true
	}
	if !winner.Compatible {
		return false
	}
	return separationM >= winner.MinSeparationM
}

func containsString(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
