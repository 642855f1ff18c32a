package constraint

import (
	"math"
	"sort"

	"github.com/aegis-robotics/swarm-coord/pkg/catalog"
	"github.com/aegis-robotics/swarm-coord/pkg/logger"
	"github.com/aegis-robotics/swarm-coord/pkg/swarmtypes"
	"github.com/aegis-robotics/swarm-coord/pkg/worldmodel"
)

// droneLookup is the minimal world-model surface the engine depends on.
type droneLookup interface {
	GetDrone(id string) (worldmodel.DroneState, bool)
}

// Engine runs the per-drone catalog selection pipeline described in the
// component design: forced exits, hardware filter, preconditions,
// transition validity, pairwise neighbor compatibility, scoring, and the
// hover/emergency/self fallback chain. It never returns an error; failures
// degrade via the documented fallback chain or a missing assignment.
type Engine struct {
	catalog *catalog.CatalogIndex
	log     logger.Logger
}

// New builds a constraint engine over a fixed, immutable catalog.
func New(cat *catalog.CatalogIndex, log logger.Logger) *Engine {
	if log == nil {
		log = logger.New()
	}
	return &Engine{catalog: cat, log: log.WithPrefix("constraint")}
}

// Solve produces one assignment per affected drone that can be resolved,
// iterating droneIDs in the given order so later drones see the
// assignments already made to their neighbors this call. Drones missing
// from the world model are silently skipped.
func (e *Engine) Solve(wm droneLookup, droneIDs []string, objectives []Objective) []Assignment {
	assignedNow := make(map[string]string, len(droneIDs))
	var out []Assignment

	for _, id := range droneIDs {
		drone, ok := wm.GetDrone(id)
		if !ok {
			continue
		}

		patternID, targetPos, targetVel := e.selectForDrone(wm, drone, objectives, assignedNow)
		if patternID == "" {
			continue
		}

		assignedNow[id] = patternID
		out = append(out, Assignment{
			DroneID:   id,
			PatternID: patternID,
			TargetPos: targetPos,
			TargetVel: targetVel,
		})
	}

	return out
}

func (e *Engine) selectForDrone(wm droneLookup, drone worldmodel.DroneState, objectives []Objective, assignedNow map[string]string) (string, *swarmtypes.Vector3, *swarmtypes.Vector3) {
	sensors := drone.Coordinate.Sensors

	// Step 1: forced-exit check overrides everything, including land-all.
	if current, ok := e.catalog.Lookup(drone.CurrentPattern); ok {
		for _, fe := range current.Postconditions.ForcedExits {
			if !EvaluateForcedExitCondition(fe.Condition, sensors) {
				continue
			}
			if _, ok := e.catalog.Lookup(fe.TargetPattern); ok {
				e.log.Infof("drone %s forced exit -> %s (%s)", drone.ID, fe.TargetPattern, fe.Condition)
				return fe.TargetPattern, nil, nil
			}
		}
	}

	hardware := drone.Coordinate.Core.Hardware
	traits := drone.Coordinate.Core.Traits

	// Step 2: hardware filter.
	candidates := e.catalog.FilterByCore(catalog.PartialCore{Hardware: &hardware, Traits: &traits})

	// Step 3: preconditions.
	candidates = filterPreconditions(candidates, sensors, drone.Coordinate.Neighbors)

	// Step 4: transition validity.
	candidates = e.filterTransitionValidity(candidates, drone.CurrentPattern)

	// Step 5: pairwise compatibility with neighbors.
	candidates = e.filterCompatibility(wm, candidates, drone, assignedNow)

	// Step 6: scoring and selection.
	if best := e.bestCandidate(candidates, drone, objectives); best != nil {
		return best.ID, nil, nil
	}

	e.log.Warnf("drone %s: no candidate survived filtering, falling back", drone.ID)

	// Step 7: fallback 1 - hover.
	if id, ok := e.fallbackHover(hardware, traits); ok {
		return id, nil, nil
	}

	// Step 8: fallback 2 - emergency.
	if id, ok := e.fallbackEmergency(hardware, traits); ok {
		return id, nil, nil
	}

	// Step 9: fallback 3 - self.
	if drone.CurrentPattern != "" {
		return drone.CurrentPattern, nil, nil
	}
	return "", nil, nil
}

func filterPreconditions(candidates []*catalog.BehavioralPattern, sensors swarmtypes.SensorState, neighbors swarmtypes.NeighborGraph) []*catalog.BehavioralPattern {
	refCount := len(neighbors.Neighbors) + len(neighbors.BaseStations)

	var out []*catalog.BehavioralPattern
	for _, p := range candidates {
		if p.Preconditions.BatteryFloor > sensors.Battery.Percentage {
			continue
		}
		if p.Preconditions.PositionQualityFloor > sensors.PositionQuality {
			continue
		}
		if p.Preconditions.MinReferences > refCount {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (e *Engine) filterTransitionValidity(candidates []*catalog.BehavioralPattern, currentPatternID string) []*catalog.BehavioralPattern {
	if currentPatternID == "" {
		return candidates
	}
	if _, ok := e.catalog.Lookup(currentPatternID); !ok {
		// Unknown current pattern: treat as initial state, accept all.
		return candidates
	}

	var out []*catalog.BehavioralPattern
	for _, p := range candidates {
		if p.ID == currentPatternID || e.catalog.IsTransitionValid(currentPatternID, p.ID) {
			out = append(out, p)
		}
	}
	return out
}

func (e *Engine) filterCompatibility(wm droneLookup, candidates []*catalog.BehavioralPattern, drone worldmodel.DroneState, assignedNow map[string]string) []*catalog.BehavioralPattern {
	neighborIDs := drone.Coordinate.Neighbors.Neighbors
	if len(neighborIDs) == 0 {
		return candidates
	}

	var out []*catalog.BehavioralPattern
	for _, p := range candidates {
		if e.compatibleWithAllNeighbors(wm, p.ID, drone, neighborIDs, assignedNow) {
			out = append(out, p)
		}
	}
	return out
}

func (e *Engine) compatibleWithAllNeighbors(wm droneLookup, candidateID string, drone worldmodel.DroneState, neighborIDs []string, assignedNow map[string]string) bool {
	for _, nid := range neighborIDs {
		neighborPattern, ok := assignedNow[nid]
		if !ok {
			nstate, ok := wm.GetDrone(nid)
			if !ok {
				continue // unknown neighbor: skipped
			}
			neighborPattern = nstate.CurrentPattern
		}

		nstate, ok := wm.GetDrone(nid)
		if !ok {
			continue
		}

		sep := euclideanDistance(drone.Coordinate.Sensors.Position, nstate.Coordinate.Sensors.Position)
		if !e.catalog.IsCompatible(candidateID, neighborPattern, sep) {
			return false
		}
	}
	return true
}

func (e *Engine) bestCandidate(candidates []*catalog.BehavioralPattern, drone worldmodel.DroneState, objectives []Objective) *catalog.BehavioralPattern {
	if len(candidates) == 0 {
		return nil
	}

	ordered := make([]*catalog.BehavioralPattern, len(candidates))
	copy(ordered, candidates)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	var best *catalog.BehavioralPattern
	bestScore := math.Inf(-1)

	for _, p := range ordered {
		score := scoreCandidate(p, drone, objectives)
		if score > bestScore {
			bestScore = score
			best = p
		}
	}
	return best
}

func scoreCandidate(p *catalog.BehavioralPattern, drone worldmodel.DroneState, objectives []Objective) float64 {
	var score float64

	if p.ID == drone.CurrentPattern {
		score += 10
	}

	for _, obj := range objectives {
		if objectiveSigmaMatches(obj.Type, p.Core.Mode) {
			score += 5
		}
	}

	if p.Core.Role == drone.Coordinate.Core.Role {
		score += 2
	}

	if p.Preconditions.BatteryFloor > 0.3 && drone.Coordinate.Sensors.Battery.Percentage < 0.5 {
		score -= 5
	}

	return score
}

func (e *Engine) fallbackHover(hardware swarmtypes.HardwareTarget, traits swarmtypes.PhysicalTraits) (string, bool) {
	mode := swarmtypes.ModeHover
	candidates := e.catalog.FilterByCore(catalog.PartialCore{Mode: &mode, Hardware: &hardware, Traits: &traits})
	if len(candidates) == 0 {
		return "", false
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Preconditions.BatteryFloor < best.Preconditions.BatteryFloor {
			best = c
		}
	}
	return best.ID, true
}

func (e *Engine) fallbackEmergency(hardware swarmtypes.HardwareTarget, traits swarmtypes.PhysicalTraits) (string, bool) {
	candidates := e.catalog.FilterByCore(catalog.PartialCore{Hardware: &hardware, Traits: &traits})

	var zeroFloor []*catalog.BehavioralPattern
	for _, p := range candidates {
		if p.Preconditions.BatteryFloor == 0 {
			zeroFloor = append(zeroFloor, p)
		}
	}
	if len(zeroFloor) == 0 {
		return "", false
	}
	sort.Slice(zeroFloor, func(i, j int) bool { return zeroFloor[i].ID < zeroFloor[j].ID })

	for _, p := range zeroFloor {
		if p.Core.Mode == swarmtypes.ModeLand || p.Core.Mode == swarmtypes.ModeGrounded {
			return p.ID, true
		}
	}
	return zeroFloor[0].ID, true
}

func euclideanDistance(a, b swarmtypes.Vector3) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
