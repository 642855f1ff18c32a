package coordinator

import (
	"encoding/binary"
	"fmt"

	"github.com/aegis-robotics/swarm-coord/pkg/swarmtypes"
)

// CommandFlags is the DroneCommand bitfield (offset 14, 1 byte).
type CommandFlags uint8

const (
	FlagEmergency    CommandFlags = 1 << 0
	FlagStyleUpdate  CommandFlags = 1 << 1
	FlagForcePattern CommandFlags = 1 << 2
)

// TelemetryFlags is the TelemetryPacket status bitfield (offset 15, 1 byte).
type TelemetryFlags uint8

const (
	TelemetryAirborne      TelemetryFlags = 1 << 0
	TelemetryPatternActive TelemetryFlags = 1 << 1
	TelemetryEmergency     TelemetryFlags = 1 << 2
	TelemetryLowBattery    TelemetryFlags = 1 << 3
	TelemetryCommLost      TelemetryFlags = 1 << 4
)

// DroneCommandSize is the packed wire size of a DroneCommand, in bytes.
const DroneCommandSize = 20

// TelemetryPacketSize is the packed wire size of a TelemetryPacket, in
// bytes.
const TelemetryPacketSize = 18

// DroneCommand is the decoded form of the 20-byte firmware command: a
// numeric pattern id plus target position/velocity in meters and the
// command flags.
type DroneCommand struct {
	PatternID      uint16
	TargetPosition swarmtypes.Vector3 // meters
	TargetVelocity swarmtypes.Vector3 // meters/second
	Flags          CommandFlags
}

// TelemetryPacket is the decoded form of the 18-byte telemetry frame a
// drone reports: position/velocity in meters, battery and position quality
// as [0,1] fractions, the drone's own numeric pattern id, and status
// flags.
type TelemetryPacket struct {
	Position        swarmtypes.Vector3
	Velocity        swarmtypes.Vector3
	BatteryPercent  float64
	PatternID       uint16
	StatusFlags     TelemetryFlags
	PositionQuality float64
}

// metersToMM clamps to the int16 millimeter range and rounds, per spec:
// clamp(x, -32.767, +32.767) * 1000, round to int16.
func metersToMM(v float64) int16 {
	const limit = 32.767
	if v > limit {
		v = limit
	}
	if v < -limit {
		v = -limit
	}
	mm := v * 1000
	if mm >= 0 {
		return int16(mm + 0.5)
	}
	return int16(mm - 0.5)
}

func mmToMeters(mm int16) float64 {
	return float64(mm) / 1000.0
}

// EncodeDroneCommand packs a DroneCommand into its 20-byte wire form.
func EncodeDroneCommand(cmd DroneCommand) [DroneCommandSize]byte {
	var buf [DroneCommandSize]byte

	binary.LittleEndian.PutUint16(buf[0:2], cmd.PatternID)
	binary.LittleEndian.PutUint16(buf[2:4], uint16(metersToMM(cmd.TargetPosition.X)))
	binary.LittleEndian.PutUint16(buf[4:6], uint16(metersToMM(cmd.TargetPosition.Y)))
	binary.LittleEndian.PutUint16(buf[6:8], uint16(metersToMM(cmd.TargetPosition.Z)))
	binary.LittleEndian.PutUint16(buf[8:10], uint16(metersToMM(cmd.TargetVelocity.X)))
	binary.LittleEndian.PutUint16(buf[10:12], uint16(metersToMM(cmd.TargetVelocity.Y)))
	binary.LittleEndian.PutUint16(buf[12:14], uint16(metersToMM(cmd.TargetVelocity.Z)))
	buf[14] = byte(cmd.Flags)
	// bytes 15-19 stay zero (reserved).

	return buf
}

// DecodeDroneCommand unpacks a 20-byte wire frame into a DroneCommand. It
// exists for test/inspection symmetry; firmware targets perform the
// equivalent decode themselves.
func DecodeDroneCommand(data []byte) (DroneCommand, error) {
	if len(data) != DroneCommandSize {
		return DroneCommand{}, fmt.Errorf("drone command: want %d bytes, got %d", DroneCommandSize, len(data))
	}

	return DroneCommand{
		PatternID: binary.LittleEndian.Uint16(data[0:2]),
		TargetPosition: swarmtypes.Vector3{
			X: mmToMeters(int16(binary.LittleEndian.Uint16(data[2:4]))),
			Y: mmToMeters(int16(binary.LittleEndian.Uint16(data[4:6]))),
			Z: mmToMeters(int16(binary.LittleEndian.Uint16(data[6:8]))),
		},
		TargetVelocity: swarmtypes.Vector3{
			X: mmToMeters(int16(binary.LittleEndian.Uint16(data[8:10]))),
			Y: mmToMeters(int16(binary.LittleEndian.Uint16(data[10:12]))),
			Z: mmToMeters(int16(binary.LittleEndian.Uint16(data[12:14]))),
		},
		Flags: CommandFlags(data[14]),
	}, nil
}

// EncodeTelemetryPacket packs a TelemetryPacket into its 18-byte wire form.
func EncodeTelemetryPacket(pkt TelemetryPacket) [TelemetryPacketSize]byte {
	var buf [TelemetryPacketSize]byte

	binary.LittleEndian.PutUint16(buf[0:2], uint16(metersToMM(pkt.Position.X)))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(metersToMM(pkt.Position.Y)))
	binary.LittleEndian.PutUint16(buf[4:6], uint16(metersToMM(pkt.Position.Z)))
	binary.LittleEndian.PutUint16(buf[6:8], uint16(metersToMM(pkt.Velocity.X)))
	binary.LittleEndian.PutUint16(buf[8:10], uint16(metersToMM(pkt.Velocity.Y)))
	binary.LittleEndian.PutUint16(buf[10:12], uint16(metersToMM(pkt.Velocity.Z)))
	buf[12] = fractionToByte(pkt.BatteryPercent, 200)
	binary.LittleEndian.PutUint16(buf[13:15], pkt.PatternID)
	buf[15] = byte(pkt.StatusFlags)
	buf[16] = fractionToByte(pkt.PositionQuality, 255)
	// byte 17 stays zero (reserved).

	return buf
}

// DecodeTelemetryPacket unpacks an 18-byte wire frame into a
// TelemetryPacket.
func DecodeTelemetryPacket(data []byte) (TelemetryPacket, error) {
	if len(data) != TelemetryPacketSize {
		return TelemetryPacket{}, fmt.Errorf("telemetry packet: want %d bytes, got %d", TelemetryPacketSize, len(data))
	}

	return TelemetryPacket{
		Position: swarmtypes.Vector3{
			X: mmToMeters(int16(binary.LittleEndian.Uint16(data[0:2]))),
			Y: mmToMeters(int16(binary.LittleEndian.Uint16(data[2:4]))),
			Z: mmToMeters(int16(binary.LittleEndian.Uint16(data[4:6]))),
		},
		Velocity: swarmtypes.Vector3{
			X: mmToMeters(int16(binary.LittleEndian.Uint16(data[6:8]))),
			Y: mmToMeters(int16(binary.LittleEndian.Uint16(data[8:10]))),
			Z: mmToMeters(int16(binary.LittleEndian.Uint16(data[10:12]))),
		},
		BatteryPercent:  byteToFraction(data[12], 200),
		PatternID:       binary.LittleEndian.Uint16(data[13:15]),
		StatusFlags:     TelemetryFlags(data[15]),
		PositionQuality: byteToFraction(data[16], 255),
	}, nil
}

func fractionToByte(v float64, scale float64) byte {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	scaled := v*scale + 0.5
	if scaled > 255 {
		scaled = 255
	}
	return byte(scaled)
}

func byteToFraction(b byte, scale float64) float64 {
	return float64(b) / scale
}
