package coordinator

import (
	"testing"

	"github.com/aegis-robotics/swarm-coord/pkg/swarmtypes"
)

func TestDroneCommandRoundTrip(t *testing.T) {
	cmd := DroneCommand{
		PatternID:      42,
		TargetPosition: swarmtypes.Vector3{X: 1.234, Y: -2.5, Z: 0.0},
		TargetVelocity: swarmtypes.Vector3{X: -0.5, Y: 0.1, Z: 3.0},
		Flags:          FlagEmergency | FlagForcePattern,
	}

	wire := EncodeDroneCommand(cmd)
	if len(wire) != DroneCommandSize {
		t.Fatalf("expected %d bytes, got %d", DroneCommandSize, len(wire))
	}

	got, err := DecodeDroneCommand(wire[:])
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got.PatternID != cmd.PatternID {
		t.Errorf("pattern id: got %d, want %d", got.PatternID, cmd.PatternID)
	}
	if got.Flags != cmd.Flags {
		t.Errorf("flags: got %d, want %d", got.Flags, cmd.Flags)
	}
	if diff := got.TargetPosition.X - cmd.TargetPosition.X; diff > 0.001 || diff < -0.001 {
		t.Errorf("position X: got %v, want %v", got.TargetPosition.X, cmd.TargetPosition.X)
	}

	// Reserved bytes 15-19 must stay zero.
	for i := 15; i < DroneCommandSize; i++ {
		if wire[i] != 0 {
			t.Errorf("reserved byte %d: got %d, want 0", i, wire[i])
		}
	}
}

func TestDroneCommandClampsOutOfRangePositions(t *testing.T) {
	cmd := DroneCommand{TargetPosition: swarmtypes.Vector3{X: 100.0, Y: -100.0, Z: 0}}
	wire := EncodeDroneCommand(cmd)
	got, _ := DecodeDroneCommand(wire[:])

	if diff := got.TargetPosition.X - 32.767; diff > 0.001 || diff < -0.001 {
		t.Errorf("expected clamp to +32.767, got %v", got.TargetPosition.X)
	}
	if diff := got.TargetPosition.Y - (-32.767); diff > 0.001 || diff < -0.001 {
		t.Errorf("expected clamp to -32.767, got %v", got.TargetPosition.Y)
	}
}

func TestTelemetryPacketRoundTrip(t *testing.T) {
	pkt := TelemetryPacket{
		Position:        swarmtypes.Vector3{X: 1.0, Y: 2.0, Z: 3.0},
		Velocity:        swarmtypes.Vector3{X: 0.1, Y: 0.2, Z: 0.3},
		BatteryPercent:  0.75,
		PatternID:       7,
		StatusFlags:     TelemetryAirborne | TelemetryPatternActive,
		PositionQuality: 0.9,
	}

	wire := EncodeTelemetryPacket(pkt)
	if len(wire) != TelemetryPacketSize {
		t.Fatalf("expected %d bytes, got %d", TelemetryPacketSize, len(wire))
	}

	got, err := DecodeTelemetryPacket(wire[:])
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got.PatternID != pkt.PatternID {
		t.Errorf("pattern id: got %d, want %d", got.PatternID, pkt.PatternID)
	}
	if got.StatusFlags != pkt.StatusFlags {
		t.Errorf("status flags: got %d, want %d", got.StatusFlags, pkt.StatusFlags)
	}
	if diff := got.BatteryPercent - pkt.BatteryPercent; diff > 0.01 || diff < -0.01 {
		t.Errorf("battery: got %v, want %v", got.BatteryPercent, pkt.BatteryPercent)
	}
	if diff := got.PositionQuality - pkt.PositionQuality; diff > 0.01 || diff < -0.01 {
		t.Errorf("position quality: got %v, want %v", got.PositionQuality, pkt.PositionQuality)
	}

	// Reserved byte 17 must stay zero.
	if wire[17] != 0 {
		t.Errorf("reserved byte 17: got %d, want 0", wire[17])
	}
}

func TestDecodeRejectsWrongLength(t *testing.T) {
	if _, err := DecodeDroneCommand(make([]byte, 10)); err == nil {
		t.Error("expected an error decoding a short DroneCommand buffer")
	}
	if _, err := DecodeTelemetryPacket(make([]byte, 10)); err == nil {
		t.Error("expected an error decoding a short TelemetryPacket buffer")
	}
}
