package cmd

import (
	"math"
	"math/rand"

	"github.com/aegis-robotics/swarm-coord/pkg/coordinator"
	"github.com/aegis-robotics/swarm-coord/pkg/simcomms"
	"github.com/aegis-robotics/swarm-coord/pkg/swarmtypes"
)

// maxSpeedMS bounds how fast a simulated drone closes on its commanded
// target position per step, standing in for a real flight controller's
// velocity limit.
const maxSpeedMS = 2.0

// batteryDrainPerStep models steady hover/flight power draw; forced exits
// in the demo catalog trigger well before a drone reaches empty.
const batteryDrainPerStep = 0.0006

// droneState is the flight-dynamics side of one simulated drone: the
// physical truth the coordinator's world model is built from telemetry
// snapshots of, not the coordinator's own bookkeeping.
type droneState struct {
	hardware swarmtypes.HardwareTarget
	traits   swarmtypes.PhysicalTraits
	sensors  swarmtypes.SensorState
}

// fleetSimulator advances a small flight-dynamics model for every demo
// drone once per step: it reads the last command the coordinator sent,
// steers simulated position/velocity toward the commanded target, drains
// battery, and feeds the result back in as telemetry exactly as a real
// radio link would deliver it.
type fleetSimulator struct {
	drones map[string]*droneState
	rng    *rand.Rand
}

func newFleetSimulator(seed int64) *fleetSimulator {
	return &fleetSimulator{
		drones: make(map[string]*droneState),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// spawn registers a drone's initial physical state, scattered around the
// origin so the world model's neighbor graph has interesting structure
// from tick one.
func (f *fleetSimulator) spawn(id string, hardware swarmtypes.HardwareTarget, traits swarmtypes.PhysicalTraits, radiusM float64) swarmtypes.SensorState {
	angle := f.rng.Float64() * 2 * math.Pi
	r := f.rng.Float64() * radiusM

	sensors := swarmtypes.SensorState{
		Position: swarmtypes.Vector3{
			X: r * math.Cos(angle),
			Y: r * math.Sin(angle),
			Z: 0,
		},
		Battery: swarmtypes.BatteryState{
			VoltageV:         12.6,
			Percentage:       0.75 + f.rng.Float64()*0.2,
			DischargeRateW:   8,
			EstimatedRemainS: 1800,
		},
		PositionQuality: 0.9,
	}

	f.drones[id] = &droneState{hardware: hardware, traits: traits, sensors: sensors}
	return sensors
}

// drainBattery forces a specific drone's battery down to frac, used by the
// demo to trigger the battery-forced-exit and safety-override scenarios on
// demand instead of waiting out a long simulated flight.
func (f *fleetSimulator) drainBattery(id string, frac float64) {
	d, ok := f.drones[id]
	if !ok {
		return
	}
	d.sensors.Battery.Percentage = frac
}

// step advances every drone one physical tick: it steers toward the last
// commanded target (falling back to holding position if none was ever
// sent), drains battery proportional to the emergency flag, and delivers
// the resulting sensor state as inbound telemetry.
func (f *fleetSimulator) step(sim *simcomms.Simulator, patternToID map[string]uint16, idToPattern map[uint16]string, dtS float64) {
	for id, d := range f.drones {
		cmd, ok := sim.LastCommand(id)

		target := d.sensors.Position
		emergency := false
		if ok {
			target = cmd.TargetPosition
			emergency = cmd.Flags&coordinator.FlagEmergency != 0
		}

		d.sensors.Velocity = steerToward(d.sensors.Position, target, maxSpeedMS)
		d.sensors.Position = advance(d.sensors.Position, d.sensors.Velocity, dtS)

		drain := batteryDrainPerStep
		if emergency {
			drain *= 3
		}
		d.sensors.Battery.Percentage -= drain
		if d.sensors.Battery.Percentage < 0 {
			d.sensors.Battery.Percentage = 0
		}

		var numeric uint16
		var flags coordinator.TelemetryFlags = coordinator.TelemetryAirborne | coordinator.TelemetryPatternActive
		if ok {
			numeric = cmd.PatternID
		}
		if d.sensors.Battery.Percentage < 0.15 {
			flags |= coordinator.TelemetryLowBattery
		}
		if emergency {
			flags |= coordinator.TelemetryEmergency
		}

		sim.Deliver(id, d.sensors, numeric, flags)
	}
}

func steerToward(from, to swarmtypes.Vector3, maxSpeed float64) swarmtypes.Vector3 {
	dx, dy, dz := to.X-from.X, to.Y-from.Y, to.Z-from.Z
	dist := math.Sqrt(dx*dx + dy*dy + dz*dz)
	if dist < 1e-6 {
		return swarmtypes.Vector3{}
	}
	speed := math.Min(maxSpeed, dist)
	return swarmtypes.Vector3{X: dx / dist * speed, Y: dy / dist * speed, Z: dz / dist * speed}
}

func advance(pos, vel swarmtypes.Vector3, dtS float64) swarmtypes.Vector3 {
	return swarmtypes.Vector3{
		X: pos.X + vel.X*dtS,
		Y: pos.Y + vel.Y*dtS,
		Z: pos.Z + vel.Z*dtS,
	}
}
