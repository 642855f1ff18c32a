// Package democatalog builds a small, self-consistent in-memory pattern
// catalog for the swarm-core-sim demo harness. Catalog loading from disk is
// out of the coordination core's scope (spec.md section 1); this package
// stands in for that external loader with a fixture a demo operator can
// register drones against.
package democatalog

import (
	"github.com/aegis-robotics/swarm-coord/pkg/catalog"
	"github.com/aegis-robotics/swarm-coord/pkg/swarmtypes"
)

// patternBuilder collects the patterns and ordered ids as they're declared,
// so Build() can hand NewCatalogIndex a stable insertion order without a
// second bookkeeping pass.
type patternBuilder struct {
	patterns map[string]*catalog.BehavioralPattern
	order    []string
}

func (b *patternBuilder) add(
	mode swarmtypes.BehavioralMode,
	autonomy swarmtypes.AutonomyLevel,
	role swarmtypes.FormationRole,
	traits swarmtypes.PhysicalTraits,
	hardware swarmtypes.HardwareTarget,
	description string,
	genType swarmtypes.GeneratorType,
	batteryFloor, positionQualityFloor float64,
	minReferences int,
	validFrom, validTo []string,
	forcedExits []catalog.ForcedExit,
) string {
	core := swarmtypes.CorePattern{
		Mode:     mode,
		Autonomy: autonomy,
		Role:     role,
		Traits:   traits,
		Hardware: hardware,
	}.WithOwnership()

	id := core.CanonicalKey()
	b.patterns[id] = &catalog.BehavioralPattern{
		ID:          id,
		Core:        core,
		Description: description,
		Preconditions: catalog.Preconditions{
			BatteryFloor:         batteryFloor,
			PositionQualityFloor: positionQualityFloor,
			MinReferences:        minReferences,
			ValidFrom:            validFrom,
		},
		Postconditions: catalog.Postconditions{
			ValidTo:     validTo,
			ForcedExits: forcedExits,
		},
		Generator: catalog.Generator{
			Type: genType,
			Defaults: map[string][]float64{
				"velocity": {0, 0, 0},
			},
			Bounds: map[string]catalog.Bounds{
				"velocity_ms": {Min: 0, Max: 8},
			},
		},
		Verification: catalog.Verification{
			Status:              catalog.VerificationVerified,
			CollisionClearanceM: 0.5,
			MaxVelocityMS:       8,
			MaxAccelerationMS2:  4,
			EnergyRateJS:        20,
			MaxDurationS:        600,
		},
	}
	b.order = append(b.order, id)
	return id
}

// Build constructs the demo catalog: a sim-gazebo/bare fleet cycling through
// the full grounded/takeoff/hover/translate/orbit/climb/descend/land cycle
// plus formation-hold, relay-hold, the charger dock/docked/undock
// lifecycle, an emergency-land forced-exit target, and a smaller
// crazyflie-2.1/bare subset to exercise hardware-scoped filtering.
func Build() (*catalog.CatalogIndex, error) {
	b := &patternBuilder{patterns: make(map[string]*catalog.BehavioralPattern)}

	const (
		sim  = swarmtypes.HardwareSimGazebo
		cf21 = swarmtypes.HardwareCrazyflie21
		bare = swarmtypes.TraitsBare
		auto = swarmtypes.AutonomyAutonomous
		emer = swarmtypes.AutonomyEmergency
	)

	// --- sim-gazebo / bare fleet -------------------------------------------------

	grounded := b.add(swarmtypes.ModeGrounded, auto, swarmtypes.RoleReserve, bare, sim,
		"landed, motors off", swarmtypes.GeneratorIdle, 0, 0, 0, nil, nil, nil)

	takeoff := b.add(swarmtypes.ModeTakeoff, auto, swarmtypes.RoleReserve, bare, sim,
		"vertical ascent to hover altitude", swarmtypes.GeneratorPositionHold, 0.1, 0.2, 0,
		[]string{grounded}, nil, nil)

	hoverReserve := b.add(swarmtypes.ModeHover, auto, swarmtypes.RoleReserve, bare, sim,
		"idle hover, unassigned to formation duty", swarmtypes.GeneratorPositionHold, 0.1, 0.3, 0,
		[]string{takeoff}, nil, nil)

	hoverPerformer := b.add(swarmtypes.ModeHover, auto, swarmtypes.RolePerformer, bare, sim,
		"hover, active formation performer", swarmtypes.GeneratorPositionHold, 0.15, 0.3, 1,
		nil, nil, []catalog.ForcedExit{{Condition: "battery < 0.10", TargetPattern: ""}})

	hoverLeader := b.add(swarmtypes.ModeHover, auto, swarmtypes.RoleLeader, bare, sim,
		"hover, formation leader", swarmtypes.GeneratorPositionHold, 0.2, 0.4, 0, nil, nil, nil)

	hoverFollower := b.add(swarmtypes.ModeHover, auto, swarmtypes.RoleFollower, bare, sim,
		"hover, following an in-range leader", swarmtypes.GeneratorRelativeOffset, 0.15, 0.3, 1, nil, nil, nil)

	hoverChargerInbound := b.add(swarmtypes.ModeHover, auto, swarmtypes.RoleChargerInbound, bare, sim,
		"hover, holding for dock clearance", swarmtypes.GeneratorPositionHold, 0, 0.2, 0, nil, nil, nil)

	hoverChargerOutbound := b.add(swarmtypes.ModeHover, auto, swarmtypes.RoleChargerOutbound, bare, sim,
		"hover, departed charger, awaiting reassignment", swarmtypes.GeneratorPositionHold, 0.85, 0.3, 0, nil, nil, nil)

	hoverScout := b.add(swarmtypes.ModeHover, auto, swarmtypes.RoleScout, bare, sim,
		"hover, scouting position", swarmtypes.GeneratorWaypointSequence, 0.2, 0.4, 0, nil, nil, nil)

	hoverAnchor := b.add(swarmtypes.ModeHover, auto, swarmtypes.RoleAnchor, bare, sim,
		"hover, anchoring formation geometry", swarmtypes.GeneratorPositionHold, 0.2, 0.4, 0, nil, nil, nil)

	translate := b.add(swarmtypes.ModeTranslate, auto, swarmtypes.RolePerformer, bare, sim,
		"lateral transit toward a target position", swarmtypes.GeneratorWaypointSequence, 0.15, 0.3, 1, nil, nil, nil)

	orbit := b.add(swarmtypes.ModeOrbit, auto, swarmtypes.RolePerformer, bare, sim,
		"circling a fixed center point", swarmtypes.GeneratorOrbitCenter, 0.2, 0.4, 1, nil, nil, nil)

	climb := b.add(swarmtypes.ModeClimb, auto, swarmtypes.RolePerformer, bare, sim,
		"vertical ascent to a new altitude band", swarmtypes.GeneratorVelocityTrack, 0.15, 0.3, 0, nil, nil, nil)

	descend := b.add(swarmtypes.ModeDescend, auto, swarmtypes.RolePerformer, bare, sim,
		"vertical descent to a lower altitude band", swarmtypes.GeneratorVelocityTrack, 0.1, 0.3, 0, nil, nil, nil)

	formationHold := b.add(swarmtypes.ModeFormationHold, auto, swarmtypes.RolePerformer, bare, sim,
		"holding an assigned formation slot", swarmtypes.GeneratorRelativeOffset, 0.2, 0.4, 2, nil, nil, nil)

	formationTransition := b.add(swarmtypes.ModeFormationTransition, auto, swarmtypes.RolePerformer, bare, sim,
		"reshaping between two formation geometries", swarmtypes.GeneratorTrajectorySpline, 0.2, 0.4, 2, nil, nil, nil)

	relayHold := b.add(swarmtypes.ModeRelayHold, auto, swarmtypes.RoleRelay, bare, sim,
		"holding position as a communications relay", swarmtypes.GeneratorPositionHold, 0.25, 0.3, 0, nil, nil, nil)

	avoid := b.add(swarmtypes.ModeAvoid, auto, swarmtypes.RoleReserve, bare, sim,
		"collision-avoidance maneuver, overrides all objectives", swarmtypes.GeneratorVelocityTrack, 0, 0, 0, nil, nil, nil)

	land := b.add(swarmtypes.ModeLand, auto, swarmtypes.RoleReserve, bare, sim,
		"controlled descent to ground", swarmtypes.GeneratorPositionHold, 0, 0, 0, nil, []string{grounded}, nil)

	emergencyLand := b.add(swarmtypes.ModeLand, emer, swarmtypes.RoleReserve, bare, sim,
		"unconditional emergency descent, operator-guided override cleared", swarmtypes.GeneratorEmergencyStop, 0, 0, 0, nil, []string{grounded}, nil)

	dockChargerInbound := b.add(swarmtypes.ModeDock, auto, swarmtypes.RoleChargerInbound, bare, sim,
		"final approach into a charging dock", swarmtypes.GeneratorWaypointSequence, 0, 0.3, 0,
		[]string{hoverChargerInbound}, nil, nil)

	dockedCharging := b.add(swarmtypes.ModeDocked, auto, swarmtypes.RoleCharging, bare, sim,
		"docked and drawing charge", swarmtypes.GeneratorIdle, 0, 0, 0,
		[]string{dockChargerInbound}, nil, nil)

	undockChargerOutbound := b.add(swarmtypes.ModeUndock, auto, swarmtypes.RoleChargerOutbound, bare, sim,
		"departing the charging dock", swarmtypes.GeneratorWaypointSequence, 0.85, 0.3, 0,
		[]string{dockedCharging}, nil, nil)

	// --- wire the valid_to edges whose sigma transitions the custom matrix allows ---

	b.patterns[grounded].Postconditions.ValidTo = []string{takeoff}
	b.patterns[takeoff].Postconditions.ValidTo = []string{hoverReserve, climb}
	b.patterns[hoverReserve].Postconditions.ValidTo = []string{
		hoverPerformer, hoverLeader, hoverFollower, hoverChargerInbound,
		hoverScout, hoverAnchor, land, avoid,
	}
	b.patterns[hoverPerformer].Postconditions.ValidTo = []string{
		translate, orbit, climb, descend, formationHold, relayHold, land, avoid, hoverReserve,
	}
	b.patterns[hoverPerformer].Postconditions.ForcedExits[0].TargetPattern = emergencyLand
	b.patterns[hoverLeader].Postconditions.ValidTo = []string{hoverReserve, land, avoid}
	b.patterns[hoverFollower].Postconditions.ValidTo = []string{hoverReserve, land, avoid}
	b.patterns[hoverChargerInbound].Postconditions.ValidTo = []string{dockChargerInbound, avoid}
	b.patterns[hoverChargerOutbound].Postconditions.ValidTo = []string{hoverPerformer, hoverReserve, avoid}
	b.patterns[hoverScout].Postconditions.ValidTo = []string{hoverReserve, land, avoid}
	b.patterns[hoverAnchor].Postconditions.ValidTo = []string{hoverReserve, land, avoid}
	b.patterns[translate].Postconditions.ValidTo = []string{hoverPerformer, avoid}
	b.patterns[orbit].Postconditions.ValidTo = []string{hoverPerformer, avoid}
	b.patterns[climb].Postconditions.ValidTo = []string{hoverPerformer, hoverReserve, avoid}
	b.patterns[descend].Postconditions.ValidTo = []string{hoverPerformer, land, avoid}
	b.patterns[formationHold].Postconditions.ValidTo = []string{formationTransition, hoverPerformer, avoid}
	b.patterns[formationTransition].Postconditions.ValidTo = []string{formationHold, avoid}
	b.patterns[relayHold].Postconditions.ValidTo = []string{hoverReserve, avoid}
	b.patterns[avoid].Postconditions.ValidTo = []string{hoverReserve}
	b.patterns[dockChargerInbound].Postconditions.ValidTo = []string{dockedCharging}
	b.patterns[dockedCharging].Postconditions.ValidTo = []string{undockChargerOutbound}
	b.patterns[undockChargerOutbound].Postconditions.ValidTo = []string{hoverChargerOutbound}

	// ValidFrom back-references for every ValidTo edge declared above, kept
	// in lockstep so IsTransitionValid's bidirectional check holds.
	addBack := map[string][]string{
		takeoff:              {grounded},
		hoverReserve:         {takeoff, hoverPerformer, hoverLeader, hoverFollower, hoverScout, hoverAnchor, climb, avoid, relayHold, hoverChargerOutbound},
		hoverPerformer:       {hoverReserve, translate, orbit, climb, descend, formationHold, hoverChargerOutbound},
		hoverLeader:          {hoverReserve},
		hoverFollower:        {hoverReserve},
		hoverChargerInbound:  {hoverReserve},
		hoverScout:           {hoverReserve},
		hoverAnchor:          {hoverReserve},
		hoverChargerOutbound: {undockChargerOutbound},
		translate:            {hoverPerformer},
		orbit:                {hoverPerformer},
		climb:                {takeoff, hoverPerformer},
		descend:              {hoverPerformer},
		formationHold:        {hoverPerformer, formationTransition},
		formationTransition:  {formationHold},
		relayHold:            {hoverPerformer},
		avoid:                {hoverReserve, hoverPerformer, hoverLeader, hoverFollower, hoverChargerInbound, hoverChargerOutbound, hoverScout, hoverAnchor, translate, orbit, climb, descend, formationHold, formationTransition, relayHold},
		land:                 {hoverReserve, hoverLeader, hoverFollower, hoverPerformer, hoverScout, hoverAnchor, descend},
		grounded:             {land, emergencyLand},
		dockChargerInbound:   {hoverChargerInbound},
		dockedCharging:       {dockChargerInbound},
		undockChargerOutbound: {dockedCharging},
	}
	for id, from := range addBack {
		b.patterns[id].Preconditions.ValidFrom = append(b.patterns[id].Preconditions.ValidFrom, from...)
	}

	// --- crazyflie-2.1 / bare subset, for hardware-scoped filtering demos ---

	cfGrounded := b.add(swarmtypes.ModeGrounded, auto, swarmtypes.RoleReserve, bare, cf21,
		"landed, motors off (physical hardware)", swarmtypes.GeneratorIdle, 0, 0, 0, nil, nil, nil)
	cfTakeoff := b.add(swarmtypes.ModeTakeoff, auto, swarmtypes.RoleReserve, bare, cf21,
		"vertical ascent to hover altitude (physical hardware)", swarmtypes.GeneratorPositionHold, 0.2, 0.3, 0,
		[]string{cfGrounded}, nil, nil)
	cfHover := b.add(swarmtypes.ModeHover, auto, swarmtypes.RolePerformer, bare, cf21,
		"hover, active formation performer (physical hardware)", swarmtypes.GeneratorPositionHold, 0.25, 0.4, 0,
		[]string{cfTakeoff}, nil, []catalog.ForcedExit{{Condition: "battery < 0.15", TargetPattern: ""}})
	cfLand := b.add(swarmtypes.ModeLand, auto, swarmtypes.RoleReserve, bare, cf21,
		"controlled descent to ground (physical hardware)", swarmtypes.GeneratorPositionHold, 0, 0, 0, nil, []string{cfGrounded}, nil)
	cfEmergencyLand := b.add(swarmtypes.ModeLand, emer, swarmtypes.RoleReserve, bare, cf21,
		"unconditional emergency descent (physical hardware)", swarmtypes.GeneratorEmergencyStop, 0, 0, 0, nil, []string{cfGrounded}, nil)

	b.patterns[cfGrounded].Postconditions.ValidTo = []string{cfTakeoff}
	b.patterns[cfTakeoff].Postconditions.ValidTo = []string{cfHover}
	b.patterns[cfHover].Postconditions.ValidTo = []string{cfLand}
	b.patterns[cfHover].Postconditions.ForcedExits[0].TargetPattern = cfEmergencyLand
	b.patterns[cfLand].Preconditions.ValidFrom = append(b.patterns[cfLand].Preconditions.ValidFrom, cfHover)
	b.patterns[cfGrounded].Preconditions.ValidFrom = append(b.patterns[cfGrounded].Preconditions.ValidFrom, cfLand, cfEmergencyLand)

	rules := catalog.DefaultTransitionRules()
	rules = append(rules,
		catalog.TransitionRule{From: swarmtypes.ModeHover, To: swarmtypes.ModeDock, Valid: true},
	)

	compat := []catalog.CompatibilityRule{
		{PatternAGlob: "*", PatternBGlob: "*", Compatible: true, MinSeparationM: 0.5},
		{PatternAGlob: "avoid-*", PatternBGlob: "avoid-*", Compatible: true, MinSeparationM: 1.0},
		{PatternAGlob: "orbit-*", PatternBGlob: "orbit-*", Compatible: true, MinSeparationM: 2.0,
			Reason: "concentric orbits need extra clearance"},
	}

	idx := catalog.NewCatalogIndex(b.patterns, b.order, compat, rules)
	if err := idx.Validate(); err != nil {
		return nil, err
	}
	return idx, nil
}
