package blastradius

import (
	"github.com/aegis-robotics/swarm-coord/pkg/swarmtypes"
	"github.com/aegis-robotics/swarm-coord/pkg/worldmodel"
)

// droneLookup is the minimal world-model surface this package depends on,
// letting tests substitute a fixture without a full WorldModel.
type droneLookup interface {
	GetDrone(id string) (worldmodel.DroneState, bool)
}

// Single computes the blast radius for one changed drone: itself, its
// spatial neighbors, and its role-dependent relationships (leader's
// followers, a follower's leader, a relay's target, and its own relay
// source, whatever its role). If the drone is not in the world model, the
// result is just {id} — still including self.
func Single(wm droneLookup, id string) Set {
	result := NewSet(id)

	st, ok := wm.GetDrone(id)
	if !ok {
		return result
	}

	g := st.Coordinate.Neighbors
	for _, n := range g.Neighbors {
		result.Add(n)
	}

	switch st.Coordinate.Core.Role {
	case swarmtypes.RoleLeader:
		for _, f := range g.Followers {
			result.Add(f)
		}
	case swarmtypes.RoleFollower:
		if g.Leader != "" {
			result.Add(g.Leader)
		}
	case swarmtypes.RoleRelay:
		if g.RelayTarget != "" {
			result.Add(g.RelayTarget)
		}
	}

	if g.RelaySource != "" {
		result.Add(g.RelaySource)
	}

	return result
}

// Cascading computes the closure of blast radii over an initial set of
// changed drone ids. With no predicate, it returns the union of each
// changed drone's single blast radius. With a predicate, it expands the
// frontier: any newly-affected drone for which predicate returns true has
// its own blast radius folded in, and the process repeats until the
// frontier is empty. Each drone enters `evaluated` at most once, bounding
// the work at O(N) predicate evaluations for N active drones.
func Cascading(wm droneLookup, changed []string, predicate func(id string) bool) Set {
	affected := NewSet()
	for _, id := range changed {
		affected.Union(Single(wm, id))
	}

	if predicate == nil {
		return affected
	}

	evaluated := NewSet(changed...)

	frontier := NewSet()
	for id := range affected {
		if !evaluated.Contains(id) {
			frontier.Add(id)
		}
	}

	for len(frontier) > 0 {
		next := NewSet()

		for _, j := range frontier.Sorted() {
			evaluated.Add(j)

			if !predicate(j) {
				continue
			}

			radius := Single(wm, j)
			affected.Union(radius)

			for id := range radius {
				if !evaluated.Contains(id) && !frontier.Contains(id) {
					next.Add(id)
				}
			}
		}

		frontier = next
	}

	return affected
}
