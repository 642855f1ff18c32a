package worldmodel

import (
	"sort"

	"github.com/aegis-robotics/swarm-coord/pkg/swarmtypes"
)

// computeNeighborGraph recomputes ε for self given every other drone's
// current position and role. No staleness filter is applied at this
// level — spec leaves staleness to the coordinator's separate
// mark-stale-drones pass.
//
// Open question resolution: the source spec leaves "first neighbor" for
// relay/leader selection underspecified when several neighbors qualify.
// This implementation resolves it deterministically by keeping Neighbors
// sorted ascending by drone id and always taking the first qualifying
// entry in that order, rather than an arbitrary map-iteration order.
func computeNeighborGraph(selfID string, selfPos swarmtypes.Vector3, selfRole swarmtypes.FormationRole, all map[string]*DroneState, commRangeM float64) swarmtypes.NeighborGraph {
	var neighborIDs []string
	for id, st := range all {
		if id == selfID {
			continue
		}
		if euclideanDistance(selfPos, st.Coordinate.Sensors.Position) <= commRangeM {
			neighborIDs = append(neighborIDs, id)
		}
	}
	sort.Strings(neighborIDs)

	g := swarmtypes.NeighborGraph{Neighbors: neighborIDs}

	switch selfRole {
	case swarmtypes.RoleFollower:
		for _, id := range neighborIDs {
			if all[id].Coordinate.Core.Role == swarmtypes.RoleLeader {
				g.Leader = id
				break
			}
		}
	case swarmtypes.RoleLeader:
		for _, id := range neighborIDs {
			if all[id].Coordinate.Core.Role == swarmtypes.RoleFollower {
				g.Followers = append(g.Followers, id)
			}
		}
	case swarmtypes.RoleRelay:
		if len(neighborIDs) > 0 {
			g.RelayTarget = neighborIDs[0]
		}
	}

	for _, id := range neighborIDs {
		if all[id].Coordinate.Core.Role == swarmtypes.RoleRelay {
			g.RelaySource = id
			break
		}
	}

	return g
}
