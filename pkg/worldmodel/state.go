// Package worldmodel holds the coordination core's single mutable shared
// resource: the authoritative per-drone state, derived neighbor graphs, and
// structural-delta classification. It is the only write point for δ, ε,
// and χ (see coordinator for the tick discipline that serializes access).
package worldmodel

import (
	"math"
	"time"

	"github.com/aegis-robotics/swarm-coord/pkg/swarmtypes"
)

// DroneState is one drone's record in the world model.
type DroneState struct {
	ID             string
	Coordinate     swarmtypes.DroneCoordinate
	CurrentPattern string
	LastTelemetry  time.Time
	LastUpdate     time.Time
	Stale          bool
}

func euclideanDistance(a, b swarmtypes.Vector3) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
