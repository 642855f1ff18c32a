// Package swarmtypes defines the closed enums, the nine-dimensional drone
// coordinate, and the fiber-bundle dependency rules that every higher-level
// package (catalog, worldmodel, constraint, roleassign) builds on.
package swarmtypes

// BehavioralMode is sigma (σ): the drone's current behavior category.
type BehavioralMode string

const (
	ModeHover               BehavioralMode = "hover"
	ModeTranslate           BehavioralMode = "translate"
	ModeOrbit               BehavioralMode = "orbit"
	ModeAvoid               BehavioralMode = "avoid"
	ModeClimb               BehavioralMode = "climb"
	ModeDescend             BehavioralMode = "descend"
	ModeLand                BehavioralMode = "land"
	ModeTakeoff             BehavioralMode = "takeoff"
	ModeDock                BehavioralMode = "dock"
	ModeUndock              BehavioralMode = "undock"
	ModeGrounded            BehavioralMode = "grounded"
	ModeDocked              BehavioralMode = "docked"
	ModeFormationHold       BehavioralMode = "formation-hold"
	ModeFormationTransition BehavioralMode = "formation-transition"
	ModeRelayHold           BehavioralMode = "relay-hold"
)

// AutonomyLevel is kappa (κ): the level of operator involvement.
type AutonomyLevel string

const (
	AutonomyAutonomous     AutonomyLevel = "autonomous"
	AutonomyOperatorGuided AutonomyLevel = "operator-guided"
	AutonomyEmergency      AutonomyLevel = "emergency"
	AutonomyManual         AutonomyLevel = "manual"
)

// FormationRole is chi (χ): the drone's current role in the swarm formation.
type FormationRole string

const (
	RoleLeader          FormationRole = "leader"
	RoleFollower        FormationRole = "follower"
	RoleRelay           FormationRole = "relay"
	RolePerformer       FormationRole = "performer"
	RoleChargerInbound  FormationRole = "charger-inbound"
	RoleCharging        FormationRole = "charging"
	RoleChargerOutbound FormationRole = "charger-outbound"
	RoleScout           FormationRole = "scout"
	RoleAnchor          FormationRole = "anchor"
	RoleReserve         FormationRole = "reserve"
)

// ResourceOwnership is lambda (λ): the resource-contention class a role
// implies. Catalog patterns derive it from FormationRole via RoleOwnership
// (ValidateCore checks this); the world model's registration default for a
// newly added reserve drone is shared-corridor.
type ResourceOwnership string

const (
	OwnershipExclusiveVolume ResourceOwnership = "exclusive-volume"
	OwnershipSharedCorridor  ResourceOwnership = "shared-corridor"
	OwnershipYielding        ResourceOwnership = "yielding"
	OwnershipEnergySource    ResourceOwnership = "energy-source"
	OwnershipEnergyStore     ResourceOwnership = "energy-store"
	OwnershipEnergyConsumer  ResourceOwnership = "energy-consumer"
	OwnershipCommBridge      ResourceOwnership = "comm-bridge"
)

// PhysicalTraits is tau (τ): the drone's physical equipment class.
type PhysicalTraits string

const (
	TraitsBare           PhysicalTraits = "bare"
	TraitsSolarEquipped  PhysicalTraits = "solar-equipped"
	TraitsBatteryCarrier PhysicalTraits = "battery-carrier"
	TraitsCameraEquipped PhysicalTraits = "camera-equipped"
	TraitsSensorExtended PhysicalTraits = "sensor-extended"
	TraitsDualDeck       PhysicalTraits = "dual-deck"
)

// HardwareTarget is rho (ρ): the physical or simulated hardware platform.
type HardwareTarget string

const (
	HardwareCrazyflie21 HardwareTarget = "crazyflie-2.1"
	HardwareCrazyflieBL HardwareTarget = "crazyflie-bl"
	HardwareESPDrone    HardwareTarget = "esp-drone"
	HardwareSimGazebo   HardwareTarget = "sim-gazebo"
	HardwareSimSimple   HardwareTarget = "sim-simple"
)

// GeneratorType names the motor-command generator a pattern drives.
type GeneratorType string

const (
	GeneratorPositionHold     GeneratorType = "position-hold"
	GeneratorVelocityTrack    GeneratorType = "velocity-track"
	GeneratorWaypointSequence GeneratorType = "waypoint-sequence"
	GeneratorRelativeOffset   GeneratorType = "relative-offset"
	GeneratorOrbitCenter      GeneratorType = "orbit-center"
	GeneratorTrajectorySpline GeneratorType = "trajectory-spline"
	GeneratorEmergencyStop    GeneratorType = "emergency-stop"
	GeneratorIdle             GeneratorType = "idle"
)

// IsSimulated reports whether a hardware target is a simulator, which is
// exempted from several trait/mode exclusion rules.
func (h HardwareTarget) IsSimulated() bool {
	return h == HardwareSimGazebo || h == HardwareSimSimple
}
