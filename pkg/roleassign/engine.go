package roleassign

import (
	"math"
	"sort"

	"github.com/aegis-robotics/swarm-coord/pkg/logger"
	"github.com/aegis-robotics/swarm-coord/pkg/swarmtypes"
	"github.com/aegis-robotics/swarm-coord/pkg/worldmodel"
)

// worldView is the minimal world-model surface the role engine depends on.
type worldView interface {
	GetActiveDroneIDs() []string
	GetDrone(id string) (worldmodel.DroneState, bool)
}

type droneInfo struct {
	id              string
	originalRole    swarmtypes.FormationRole
	effectiveRole   swarmtypes.FormationRole
	battery         float64
	positionQuality float64
	mode            swarmtypes.BehavioralMode
	position        swarmtypes.Vector3
}

// Engine runs the priority-ordered role-assignment rules over the active
// drone set.
type Engine struct {
	log logger.Logger
}

// New builds a role-assignment engine.
func New(log logger.Logger) *Engine {
	if log == nil {
		log = logger.New()
	}
	return &Engine{log: log.WithPrefix("roleassign")}
}

// Assign runs the full rule sequence and returns only the drones whose
// newly proposed role differs from their currently stored role. tickCounts
// may be nil, in which case hysteresis is not applied (every rule 1-7
// proposal stands).
func (e *Engine) Assign(wm worldView, formation FormationSpec, coverage CoverageSpec, cfg Config, tickCounts map[string]int) map[string]swarmtypes.FormationRole {
	order, infos := e.snapshot(wm)

	applySafetyRule(order, infos, cfg)
	applyChargingCompleteRule(order, infos, cfg)
	applyChargerOutboundRule(order, infos, formation)
	applyRelayRule(order, infos, coverage, cfg)
	if formation.NeedsLeader {
		applyLeaderRule(order, infos, cfg)
	}
	fillPerformers(order, infos, formation.MinPerformers)
	demoteExcessPerformers(order, infos, formation.MinPerformers)

	out := make(map[string]swarmtypes.FormationRole)
	for _, id := range order {
		d := infos[id]
		if d.effectiveRole == d.originalRole {
			continue
		}
		if tickCounts != nil && d.effectiveRole != swarmtypes.RoleChargerInbound {
			if tickCounts[id] < cfg.RoleHysteresisTickCount {
				continue
			}
		}
		e.log.Infof("drone %s role %s -> %s", id, d.originalRole, d.effectiveRole)
		out[id] = d.effectiveRole
	}
	return out
}

func (e *Engine) snapshot(wm worldView) ([]string, map[string]*droneInfo) {
	ids := wm.GetActiveDroneIDs()
	infos := make(map[string]*droneInfo, len(ids))
	order := make([]string, 0, len(ids))

	for _, id := range ids {
		st, ok := wm.GetDrone(id)
		if !ok {
			continue
		}
		infos[id] = &droneInfo{
			id:              id,
			originalRole:    st.Coordinate.Core.Role,
			effectiveRole:   st.Coordinate.Core.Role,
			battery:         st.Coordinate.Sensors.Battery.Percentage,
			positionQuality: st.Coordinate.Sensors.PositionQuality,
			mode:            st.Coordinate.Core.Mode,
			position:        st.Coordinate.Sensors.Position,
		}
		order = append(order, id)
	}
	return order, infos
}

func inChargingLifecycle(role swarmtypes.FormationRole) bool {
	switch role {
	case swarmtypes.RoleCharging, swarmtypes.RoleChargerInbound, swarmtypes.RoleChargerOutbound:
		return true
	default:
		return false
	}
}

// applySafetyRule is rule 1: low battery always routes to charger-inbound,
// regardless of any other rule or hysteresis.
func applySafetyRule(order []string, infos map[string]*droneInfo, cfg Config) {
	for _, id := range order {
		d := infos[id]
		if d.battery < cfg.BatteryChargeThreshold && !inChargingLifecycle(d.effectiveRole) {
			d.effectiveRole = swarmtypes.RoleChargerInbound
		}
	}
}

// applyChargingCompleteRule is rule 2.
func applyChargingCompleteRule(order []string, infos map[string]*droneInfo, cfg Config) {
	for _, id := range order {
		d := infos[id]
		if d.effectiveRole == swarmtypes.RoleCharging && d.battery >= cfg.BatteryReturnThreshold {
			d.effectiveRole = swarmtypes.RoleChargerOutbound
		}
	}
}

// applyChargerOutboundRule is rule 3.
func applyChargerOutboundRule(order []string, infos map[string]*droneInfo, formation FormationSpec) {
	for _, id := range order {
		d := infos[id]
		if d.effectiveRole != swarmtypes.RoleChargerOutbound {
			continue
		}
		if d.mode == swarmtypes.ModeGrounded || d.mode == swarmtypes.ModeDocked {
			continue
		}
		if countRole(order, infos, swarmtypes.RolePerformer) < formation.MinPerformers {
			d.effectiveRole = swarmtypes.RolePerformer
		} else {
			d.effectiveRole = swarmtypes.RoleReserve
		}
	}
}

// applyRelayRule is rule 4.
func applyRelayRule(order []string, infos map[string]*droneInfo, coverage CoverageSpec, cfg Config) {
	if !coverage.NeedsRelay || countRole(order, infos, swarmtypes.RoleRelay) > 0 {
		return
	}

	candidates := eligibleFor(order, infos, cfg)
	if len(candidates) == 0 {
		return
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := infos[candidates[i]], infos[candidates[j]]
		scoreA := math.Abs(vectorNorm(a.position)-coverage.CoverageRadius) - 0.01*a.battery
		scoreB := math.Abs(vectorNorm(b.position)-coverage.CoverageRadius) - 0.01*b.battery
		if scoreA != scoreB {
			return scoreA < scoreB
		}
		return candidates[i] < candidates[j]
	})

	infos[candidates[0]].effectiveRole = swarmtypes.RoleRelay
}

// applyLeaderRule is rule 5; Assign runs it only when the formation needs a
// leader.
func applyLeaderRule(order []string, infos map[string]*droneInfo, cfg Config) {
	if countRole(order, infos, swarmtypes.RoleLeader) > 0 {
		return
	}

	candidates := eligibleFor(order, infos, cfg)
	if len(candidates) == 0 {
		return
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := infos[candidates[i]], infos[candidates[j]]
		if math.Abs(a.battery-b.battery) > 0.001 {
			return a.battery > b.battery
		}
		if a.positionQuality != b.positionQuality {
			return a.positionQuality > b.positionQuality
		}
		return candidates[i] < candidates[j]
	})

	infos[candidates[0]].effectiveRole = swarmtypes.RoleLeader
}

// eligibleFor returns ids with role in {performer, reserve} and battery at
// or above the charge threshold, the shared eligibility rule for relay and
// leader assignment.
func eligibleFor(order []string, infos map[string]*droneInfo, cfg Config) []string {
	var out []string
	for _, id := range order {
		d := infos[id]
		if d.effectiveRole != swarmtypes.RolePerformer && d.effectiveRole != swarmtypes.RoleReserve {
			continue
		}
		if d.battery < cfg.BatteryChargeThreshold {
			continue
		}
		out = append(out, id)
	}
	return out
}

// fillPerformers is rule 6: promote reserves in descending battery order
// until the minimum performer count is met or reserves run out.
func fillPerformers(order []string, infos map[string]*droneInfo, minPerformers int) {
	for countRole(order, infos, swarmtypes.RolePerformer) < minPerformers {
		var reserves []string
		for _, id := range order {
			if infos[id].effectiveRole == swarmtypes.RoleReserve {
				reserves = append(reserves, id)
			}
		}
		if len(reserves) == 0 {
			return
		}
		sort.Slice(reserves, func(i, j int) bool {
			a, b := infos[reserves[i]], infos[reserves[j]]
			if a.battery != b.battery {
				return a.battery > b.battery
			}
			return reserves[i] < reserves[j]
		})
		infos[reserves[0]].effectiveRole = swarmtypes.RolePerformer
	}
}

// demoteExcessPerformers is rule 7: demote the lowest-battery excess
// performers (below the 0.50 fairness floor only) back to reserve.
func demoteExcessPerformers(order []string, infos map[string]*droneInfo, minPerformers int) {
	excess := countRole(order, infos, swarmtypes.RolePerformer) - minPerformers
	if excess <= 0 {
		return
	}

	var lowBattery []string
	for _, id := range order {
		if infos[id].effectiveRole == swarmtypes.RolePerformer && infos[id].battery < 0.50 {
			lowBattery = append(lowBattery, id)
		}
	}
	sort.Slice(lowBattery, func(i, j int) bool {
		a, b := infos[lowBattery[i]], infos[lowBattery[j]]
		if a.battery != b.battery {
			return a.battery < b.battery
		}
		return lowBattery[i] < lowBattery[j]
	})

	for i := 0; i < excess && i < len(lowBattery); i++ {
		infos[lowBattery[i]].effectiveRole = swarmtypes.RoleReserve
	}
}

func countRole(order []string, infos map[string]*droneInfo, role swarmtypes.FormationRole) int {
	n := 0
	for _, id := range order {
		if infos[id].effectiveRole == role {
			n++
		}
	}
	return n
}

func vectorNorm(v swarmtypes.Vector3) float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}
