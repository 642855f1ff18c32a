package worldmodel

import (
	"sort"
	"sync"
	"time"

	"github.com/aegis-robotics/swarm-coord/pkg/logger"
	"github.com/aegis-robotics/swarm-coord/pkg/swarmtypes"
)

// WorldModel is the single authoritative, mutable store of the swarm's
// per-drone state. It is the only writer of δ, ε, and χ; the catalog and
// configuration stay immutable and unrelated to this struct. All exported
// methods are safe for concurrent use.
type WorldModel struct {
	mu             sync.RWMutex
	drones         map[string]*DroneState
	order          []string // insertion order
	commRangeM     float64
	staleThreshold time.Duration
	log            logger.Logger
	now            func() time.Time
}

// New creates a world model with the given comm range and staleness
// threshold.
func New(commRangeM float64, staleThreshold time.Duration, log logger.Logger) *WorldModel {
	if log == nil {
		log = logger.New()
	}
	return &WorldModel{
		drones:         make(map[string]*DroneState),
		commRangeM:     commRangeM,
		staleThreshold: staleThreshold,
		log:            log.WithPrefix("worldmodel"),
		now:            time.Now,
	}
}

// AddDrone registers a new drone, initialized to σ=grounded,
// κ=autonomous, χ=reserve, λ=shared-corridor, computes its initial ε, and
// recomputes every other drone's ε so the new drone appears among their
// neighbors.
func (w *WorldModel) AddDrone(id string, hardware swarmtypes.HardwareTarget, traits swarmtypes.PhysicalTraits, initialPatternID string, telemetry swarmtypes.SensorState) {
	w.mu.Lock()
	defer w.mu.Unlock()

	core := swarmtypes.CorePattern{
		Mode:      swarmtypes.ModeGrounded,
		Autonomy:  swarmtypes.AutonomyAutonomous,
		Role:      swarmtypes.RoleReserve,
		Ownership: swarmtypes.OwnershipSharedCorridor,
		Traits:    traits,
		Hardware:  hardware,
	}

	now := w.now()
	st := &DroneState{
		ID: id,
		Coordinate: swarmtypes.DroneCoordinate{
			Core:    core,
			Sensors: telemetry,
		},
		CurrentPattern: initialPatternID,
		LastTelemetry:  now,
		LastUpdate:     now,
		Stale:          false,
	}

	if _, exists := w.drones[id]; !exists {
		w.order = append(w.order, id)
	}
	w.drones[id] = st

	st.Coordinate.Neighbors = computeNeighborGraph(id, telemetry.Position, core.Role, w.drones, w.commRangeM)
	for _, oid := range w.order {
		if oid == id {
			continue
		}
		other := w.drones[oid]
		other.Coordinate.Neighbors = computeNeighborGraph(oid, other.Coordinate.Sensors.Position, other.Coordinate.Core.Role, w.drones, w.commRangeM)
	}
	w.log.Debugf("registered drone %s pattern=%s", id, initialPatternID)
}

// RemoveDrone deregisters a drone. Returns false if it was unknown.
func (w *WorldModel) RemoveDrone(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.drones[id]; !ok {
		return false
	}
	delete(w.drones, id)
	for i, oid := range w.order {
		if oid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	return true
}

// UpdateTelemetry applies a fresh sensor reading to a known drone: updates
// δ, clears staleness, and recomputes ε for this drone against current
// neighbor positions and roles. Unknown drone ids are a silent no-op.
func (w *WorldModel) UpdateTelemetry(id string, telemetry swarmtypes.SensorState) {
	w.mu.Lock()
	defer w.mu.Unlock()

	st, ok := w.drones[id]
	if !ok {
		return
	}

	st.Coordinate.Sensors = telemetry
	st.LastTelemetry = w.now()
	st.LastUpdate = st.LastTelemetry
	st.Stale = false

	st.Coordinate.Neighbors = computeNeighborGraph(id, telemetry.Position, st.Coordinate.Core.Role, w.drones, w.commRangeM)
}

// UpdatePattern applies a pattern/core change to a known drone and returns
// the classified delta. Unknown drone ids are a silent no-op (ok=false).
func (w *WorldModel) UpdatePattern(id, patternID string, mode swarmtypes.BehavioralMode, autonomy swarmtypes.AutonomyLevel, role swarmtypes.FormationRole, ownership swarmtypes.ResourceOwnership) (DeltaResult, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	st, ok := w.drones[id]
	if !ok {
		return DeltaResult{}, false
	}

	oldCore := st.Coordinate.Core
	newCore := oldCore
	newCore.Mode = mode
	newCore.Autonomy = autonomy
	newCore.Role = role
	newCore.Ownership = ownership

	delta := classifyDelta(oldCore, newCore)

	st.Coordinate.Core = newCore
	st.CurrentPattern = patternID
	st.Coordinate.Neighbors = computeNeighborGraph(id, st.Coordinate.Sensors.Position, newCore.Role, w.drones, w.commRangeM)

	if delta.Structural {
		w.log.Debugf("drone %s structural delta -> pattern=%s dims=%v", id, patternID, delta.Changed)
	}

	return delta, true
}

// MarkStaleDrones marks every drone whose telemetry is older than the
// configured staleness threshold as of now, and returns the ids that
// newly became stale (already-stale drones are not re-reported).
func (w *WorldModel) MarkStaleDrones(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var newlyStale []string
	for _, id := range w.order {
		st := w.drones[id]
		if st.Stale {
			continue
		}
		if now.Sub(st.LastUpdate) > w.staleThreshold {
			st.Stale = true
			newlyStale = append(newlyStale, id)
		}
	}
	return newlyStale
}

// GetActiveDroneIDs returns every non-stale drone id, in insertion order.
func (w *WorldModel) GetActiveDroneIDs() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var active []string
	for _, id := range w.order {
		if !w.drones[id].Stale {
			active = append(active, id)
		}
	}
	return active
}

// GetNeighborGraph returns a known drone's current ε.
func (w *WorldModel) GetNeighborGraph(id string) (swarmtypes.NeighborGraph, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	st, ok := w.drones[id]
	if !ok {
		return swarmtypes.NeighborGraph{}, false
	}
	return st.Coordinate.Neighbors, true
}

// GetDrone returns a copy of a known drone's full state.
func (w *WorldModel) GetDrone(id string) (DroneState, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	st, ok := w.drones[id]
	if !ok {
		return DroneState{}, false
	}
	return *st, true
}

// AllDroneIDs returns every registered drone id (stale or not), in
// insertion order — used by components that need the full population,
// such as the coordinator's land-all on shutdown.
func (w *WorldModel) AllDroneIDs() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]string, len(w.order))
	copy(out, w.order)
	return out
}

// SortedDroneIDs returns every registered drone id sorted ascending, a
// convenience for callers that want a deterministic order independent of
// registration sequence.
func (w *WorldModel) SortedDroneIDs() []string {
	ids := w.AllDroneIDs()
	sort.Strings(ids)
	return ids
}
