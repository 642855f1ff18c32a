// Package coordinator implements the tick-driven main loop that composes
// the world model, blast-radius engine, constraint engine, and role
// engine into the ground-station coordination core.
package coordinator

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aegis-robotics/swarm-coord/pkg/blastradius"
	"github.com/aegis-robotics/swarm-coord/pkg/catalog"
	"github.com/aegis-robotics/swarm-coord/pkg/config"
	"github.com/aegis-robotics/swarm-coord/pkg/constraint"
	"github.com/aegis-robotics/swarm-coord/pkg/logger"
	"github.com/aegis-robotics/swarm-coord/pkg/roleassign"
	"github.com/aegis-robotics/swarm-coord/pkg/swarmtypes"
	"github.com/aegis-robotics/swarm-coord/pkg/worldmodel"
)

// Coordinator is the ground-station coordination core: it owns the world
// model, drives the constraint and role engines on a fixed tick interval,
// and talks to the swarm exclusively through the injected Comms.
type Coordinator struct {
	comms   Comms
	catalog *catalog.CatalogIndex
	cfg     *config.CoordinatorConfig
	log     logger.Logger

	wm               *worldmodel.WorldModel
	constraintEngine *constraint.Engine
	roleEngine       *roleassign.Engine

	patternToID map[string]uint16
	idToPattern map[uint16]string

	// Objectives, Formation, and Coverage are mutable fields the caller
	// may update between ticks; per the single-logical-thread scheduling
	// model, they should not be mutated concurrently with a running tick.
	Objectives []constraint.Objective
	Formation  roleassign.FormationSpec
	Coverage   roleassign.CoverageSpec

	// OnTick, if set, is invoked at the end of every tick for operator
	// observability.
	OnTick func(tick uint64, assignments []constraint.Assignment)
	// OnShutdown, if set, is invoked once Stop has finished landing
	// every drone and disconnecting.
	OnShutdown func()

	mu         sync.Mutex
	tickNum    uint64
	tickCounts map[string]int

	running  atomic.Bool
	ticker   *time.Ticker
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New builds a coordinator over a fixed, immutable catalog and an injected
// Comms implementation. The pattern-id numeric mapping is built once here,
// from the catalog's documented stable order, and never changes.
func New(comms Comms, cat *catalog.CatalogIndex, cfg *config.CoordinatorConfig, log logger.Logger) *Coordinator {
	if log == nil {
		log = logger.New()
	}
	log = log.WithPrefix("coordinator")

	patternToID := make(map[string]uint16)
	idToPattern := make(map[uint16]string)
	for i, id := range cat.OrderedIDs() {
		numeric := uint16(i)
		patternToID[id] = numeric
		idToPattern[numeric] = id
	}

	c := &Coordinator{
		comms:            comms,
		catalog:          cat,
		cfg:              cfg,
		log:              log,
		wm:               worldmodel.New(cfg.WorldModel.CommRangeM, cfg.StaleThreshold(), log),
		constraintEngine: constraint.New(cat, log),
		roleEngine:       roleassign.New(log),
		patternToID:      patternToID,
		idToPattern:      idToPattern,
		tickCounts:       make(map[string]int),
	}

	comms.OnTelemetry(c.handleTelemetry)
	return c
}

// RegisterDrone registers a new drone with the world model and initializes
// its hysteresis tick counter. If initialPatternID names a catalog entry,
// the drone's structural dimensions are synchronized to that pattern's
// core; otherwise it is left at the world model's grounded/reserve default.
func (c *Coordinator) RegisterDrone(id string, hardware swarmtypes.HardwareTarget, traits swarmtypes.PhysicalTraits, initialPatternID string, telemetry swarmtypes.SensorState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.wm.AddDrone(id, hardware, traits, initialPatternID, telemetry)
	c.tickCounts[id] = 0

	if p, ok := c.catalog.Lookup(initialPatternID); ok {
		c.wm.UpdatePattern(id, initialPatternID, p.Core.Mode, p.Core.Autonomy, p.Core.Role, p.Core.Ownership)
	}
}

// DroneState returns a registered drone's current world-model state, for
// inspection by the demo CLI and by tests.
func (c *Coordinator) DroneState(id string) (worldmodel.DroneState, bool) {
	return c.wm.GetDrone(id)
}

// handleTelemetry is the callback Comms invokes on every inbound telemetry
// frame. Per spec, callbacks arriving after Stop are ignored, and unknown
// drone ids are silently dropped by UpdateTelemetry itself.
func (c *Coordinator) handleTelemetry(droneID string, sensors swarmtypes.SensorState, _ uint16, _ TelemetryFlags) {
	if !c.running.Load() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.wm.UpdateTelemetry(droneID, sensors)
}

// Start connects the comms layer for the given drone ids and begins the
// tick loop at the configured interval.
func (c *Coordinator) Start(ctx context.Context, droneIDs []string) error {
	if err := c.comms.Connect(ctx, droneIDs); err != nil {
		return fmt.Errorf("coordinator: connect: %w", err)
	}

	c.running.Store(true)
	c.stopChan = make(chan struct{})
	c.ticker = time.NewTicker(c.cfg.TickInterval())

	c.wg.Add(1)
	go c.runTickLoop(ctx)

	return nil
}

func (c *Coordinator) runTickLoop(ctx context.Context) {
	defer c.wg.Done()
	defer c.ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopChan:
			return
		case <-c.ticker.C:
			c.Tick(ctx)
		}
	}
}

// Stop cancels the tick timer, lands every registered drone best-effort,
// disconnects, and fires OnShutdown. Telemetry callbacks arriving after
// Stop returns are ignored.
func (c *Coordinator) Stop(ctx context.Context) error {
	c.running.Store(false)

	if c.stopChan != nil {
		close(c.stopChan)
	}
	c.wg.Wait()

	c.landAllBestEffort(ctx)

	if err := c.comms.Disconnect(ctx); err != nil {
		c.log.Errorf("disconnect: %v", err)
	}

	if c.OnShutdown != nil {
		c.OnShutdown()
	}
	return nil
}

func (c *Coordinator) landAllBestEffort(ctx context.Context) {
	for _, id := range c.wm.AllDroneIDs() {
		drone, ok := c.wm.GetDrone(id)
		if !ok {
			continue
		}
		hardware := drone.Coordinate.Core.Hardware
		mode := swarmtypes.ModeLand
		candidates := c.catalog.FilterByCore(catalog.PartialCore{Mode: &mode, Hardware: &hardware})
		if len(candidates) == 0 {
			mode = swarmtypes.ModeGrounded
			candidates = c.catalog.FilterByCore(catalog.PartialCore{Mode: &mode, Hardware: &hardware})
		}
		if len(candidates) == 0 {
			continue
		}

		numeric, ok := c.patternToID[candidates[0].ID]
		if !ok {
			continue
		}
		cmd := DroneCommand{PatternID: numeric, Flags: FlagEmergency}
		if err := c.comms.SendCommand(ctx, id, cmd); err != nil {
			c.log.Errorf("land command to %s: %v", id, err)
		}
	}
}

// Tick runs exactly one iteration of the coordinator loop and returns the
// assignments applied during it. It is exported so tests can drive the
// loop synchronously without the ticker.
func (c *Coordinator) Tick(ctx context.Context) []constraint.Assignment {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tickNum++
	now := time.Now()

	c.wm.MarkStaleDrones(now)

	changed := c.scanForcedExits()

	var assignments []constraint.Assignment
	if len(changed) > 0 {
		affected := blastradius.Cascading(c.wm, changed, nil).Sorted()
		assignments = append(assignments, c.solveAndApply(ctx, affected)...)
	}

	if c.cfg.Tick.RoleReassignmentTicks > 0 && c.tickNum%uint64(c.cfg.Tick.RoleReassignmentTicks) == 0 {
		assignments = append(assignments, c.runRoleReassignment(ctx)...)
	}

	if c.OnTick != nil {
		c.OnTick(c.tickNum, assignments)
	}

	return assignments
}

// scanForcedExits walks every non-stale drone and returns the ids whose
// current pattern has a forced-exit condition evaluating true against live
// sensor state.
func (c *Coordinator) scanForcedExits() []string {
	var changed []string
	for _, id := range c.wm.GetActiveDroneIDs() {
		drone, ok := c.wm.GetDrone(id)
		if !ok || drone.CurrentPattern == "" {
			continue
		}
		pattern, ok := c.catalog.Lookup(drone.CurrentPattern)
		if !ok {
			continue
		}
		for _, fe := range pattern.Postconditions.ForcedExits {
			if constraint.EvaluateForcedExitCondition(fe.Condition, drone.Coordinate.Sensors) {
				changed = append(changed, id)
				break
			}
		}
	}
	return changed
}

func (c *Coordinator) solveAndApply(ctx context.Context, affected []string) []constraint.Assignment {
	assignments := c.constraintEngine.Solve(c.wm, affected, c.Objectives)
	for _, a := range assignments {
		c.applyAssignment(ctx, a)
	}
	return assignments
}

func (c *Coordinator) applyAssignment(ctx context.Context, a constraint.Assignment) {
	drone, ok := c.wm.GetDrone(a.DroneID)
	if !ok {
		return
	}

	changed := a.PatternID != drone.CurrentPattern

	pattern, ok := c.catalog.Lookup(a.PatternID)
	if ok {
		c.wm.UpdatePattern(a.DroneID, a.PatternID, pattern.Core.Mode, pattern.Core.Autonomy, pattern.Core.Role, pattern.Core.Ownership)
	}

	numeric, ok := c.patternToID[a.PatternID]
	if !ok {
		// Fallback-to-self against an unknown pattern id: nothing to
		// transmit numerically, so skip the wire command.
		return
	}

	cmd := DroneCommand{PatternID: numeric}
	if a.TargetPos != nil {
		cmd.TargetPosition = *a.TargetPos
	}
	if a.TargetVel != nil {
		cmd.TargetVelocity = *a.TargetVel
	}
	if changed {
		cmd.Flags |= FlagForcePattern
	}

	if err := c.comms.SendCommand(ctx, a.DroneID, cmd); err != nil {
		c.log.Errorf("send command to %s: %v", a.DroneID, err)
	}
}

func (c *Coordinator) runRoleReassignment(ctx context.Context) []constraint.Assignment {
	roleChanges := c.roleEngine.Assign(c.wm, c.Formation, c.Coverage, roleassign.Config{
		BatteryChargeThreshold:  c.cfg.Roles.BatteryChargeThreshold,
		BatteryReturnThreshold:  c.cfg.Roles.BatteryReturnThreshold,
		RoleHysteresisTickCount: c.cfg.Roles.RoleHysteresisTickCount,
	}, c.tickCounts)

	var assignments []constraint.Assignment
	if len(roleChanges) > 0 {
		changedIDs := make([]string, 0, len(roleChanges))
		for id, newRole := range roleChanges {
			changedIDs = append(changedIDs, id)
			if drone, ok := c.wm.GetDrone(id); ok {
				c.wm.UpdatePattern(id, drone.CurrentPattern, drone.Coordinate.Core.Mode, drone.Coordinate.Core.Autonomy, newRole, swarmtypes.RoleOwnership[newRole])
			}
		}

		affected := blastradius.Cascading(c.wm, changedIDs, nil).Sorted()
		assignments = c.solveAndApply(ctx, affected)
	}

	for _, id := range c.wm.GetActiveDroneIDs() {
		c.tickCounts[id]++
	}
	for id := range roleChanges {
		c.tickCounts[id] = 0
	}

	return assignments
}
