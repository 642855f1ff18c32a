package swarmtypes

import "fmt"

// AllTraits lists every physical trait; simulated hardware targets support
// all of them.
var AllTraits = []PhysicalTraits{
	TraitsBare, TraitsSolarEquipped, TraitsBatteryCarrier,
	TraitsCameraEquipped, TraitsSensorExtended, TraitsDualDeck,
}

// ValidTraits maps each non-simulated hardware target to the physical
// traits it supports. Every hardware target supports bare; simulated
// targets (see HardwareTarget.IsSimulated) support every trait and are not
// listed here.
var ValidTraits = map[HardwareTarget][]PhysicalTraits{
	HardwareCrazyflie21: {TraitsBare},
	HardwareCrazyflieBL: {TraitsBare},
	HardwareESPDrone:    {TraitsBare},
}

// ExcludedModes maps each physical trait to the behavioral modes it cannot
// enter.
var ExcludedModes = map[PhysicalTraits][]BehavioralMode{
	TraitsSolarEquipped:  {ModeOrbit},
	TraitsBatteryCarrier: {ModeOrbit},
	TraitsDualDeck:       {ModeOrbit},
}

// ExcludedModesByHardware maps each hardware target to the behavioral modes
// it cannot enter (e.g. dock/undock/docked require a physical docking bay
// the lightweight targets lack).
var ExcludedModesByHardware = map[HardwareTarget][]BehavioralMode{
	HardwareESPDrone:  {ModeDock, ModeUndock, ModeDocked},
	HardwareSimSimple: {ModeDock, ModeUndock, ModeDocked},
}

// ExcludedRoles maps each physical trait to the formation roles it cannot
// hold.
var ExcludedRoles = map[PhysicalTraits][]FormationRole{
	TraitsSolarEquipped:  {RoleScout},
	TraitsBatteryCarrier: {RoleScout},
	TraitsDualDeck:       {RoleScout},
}

// RoleOwnership maps each formation role to the resource-ownership class it
// implies. ValidateCore checks every catalog pattern's Ownership against it.
var RoleOwnership = map[FormationRole]ResourceOwnership{
	RoleLeader:          OwnershipExclusiveVolume,
	RoleFollower:        OwnershipSharedCorridor,
	RoleRelay:           OwnershipCommBridge,
	RolePerformer:       OwnershipSharedCorridor,
	RoleChargerInbound:  OwnershipYielding,
	RoleCharging:        OwnershipEnergyConsumer,
	RoleChargerOutbound: OwnershipSharedCorridor,
	RoleScout:           OwnershipExclusiveVolume,
	RoleAnchor:          OwnershipExclusiveVolume,
	RoleReserve:         OwnershipYielding,
}

func containsMode(list []BehavioralMode, m BehavioralMode) bool {
	for _, x := range list {
		if x == m {
			return true
		}
	}
	return false
}

func containsRole(list []FormationRole, r FormationRole) bool {
	for _, x := range list {
		if x == r {
			return true
		}
	}
	return false
}

func containsTrait(list []PhysicalTraits, t PhysicalTraits) bool {
	for _, x := range list {
		if x == t {
			return true
		}
	}
	return false
}

// ValidateCore runs the composite fiber-bundle validator over a CorePattern
// and returns the first violating rule, or nil if the pattern is
// consistent. This check is meant to run once at catalog load time, never
// on the runtime hot path.
func ValidateCore(c CorePattern) error {
	if !c.Hardware.IsSimulated() {
		traits, ok := ValidTraits[c.Hardware]
		if !ok || !containsTrait(traits, c.Traits) {
			return fmt.Errorf("trait %s not valid for hardware %s", c.Traits, c.Hardware)
		}
	}

	if modes, ok := ExcludedModes[c.Traits]; ok && containsMode(modes, c.Mode) {
		return fmt.Errorf("mode %s excluded for traits %s", c.Mode, c.Traits)
	}

	if modes, ok := ExcludedModesByHardware[c.Hardware]; ok && containsMode(modes, c.Mode) {
		return fmt.Errorf("mode %s excluded for hardware %s", c.Mode, c.Hardware)
	}

	if roles, ok := ExcludedRoles[c.Traits]; ok && containsRole(roles, c.Role) {
		return fmt.Errorf("role %s excluded for traits %s", c.Role, c.Traits)
	}

	want, ok := RoleOwnership[c.Role]
	if !ok {
		return fmt.Errorf("role %s has no ownership mapping", c.Role)
	}
	if c.Ownership != want {
		return fmt.Errorf("ownership %s inconsistent with role %s (expected %s)", c.Ownership, c.Role, want)
	}

	return nil
}
