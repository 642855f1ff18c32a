package simcomms

import (
	"context"
	"testing"

	"github.com/aegis-robotics/swarm-coord/pkg/coordinator"
	"github.com/aegis-robotics/swarm-coord/pkg/swarmtypes"
)

func TestSendCommandRequiresConnection(t *testing.T) {
	sim := New(nil)
	if err := sim.SendCommand(context.Background(), "d0", coordinator.DroneCommand{PatternID: 1}); err == nil {
		t.Error("expected an error sending before Connect")
	}
}

func TestSendCommandRecordsMailboxAndHistory(t *testing.T) {
	sim := New(nil)
	ctx := context.Background()
	if err := sim.Connect(ctx, []string{"d0"}); err != nil {
		t.Fatalf("connect: %v", err)
	}

	for i := uint16(1); i <= 3; i++ {
		if err := sim.SendCommand(ctx, "d0", coordinator.DroneCommand{PatternID: i}); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}

	last, ok := sim.LastCommand("d0")
	if !ok || last.PatternID != 3 {
		t.Errorf("expected last command pattern id 3, got %+v (ok=%v)", last, ok)
	}

	hist := sim.History("d0")
	if len(hist) != 3 {
		t.Errorf("expected 3 history entries, got %d", len(hist))
	}
}

func TestDeliverInvokesRegisteredCallback(t *testing.T) {
	sim := New(nil)
	ctx := context.Background()
	_ = sim.Connect(ctx, []string{"d0"})

	var gotID string
	var gotPattern uint16
	sim.OnTelemetry(func(droneID string, sensors swarmtypes.SensorState, patternID uint16, flags coordinator.TelemetryFlags) {
		gotID = droneID
		gotPattern = patternID
	})

	sim.Deliver("d0", swarmtypes.SensorState{Battery: swarmtypes.BatteryState{Percentage: 0.5}}, 9, 0)

	if gotID != "d0" || gotPattern != 9 {
		t.Errorf("callback not invoked as expected: id=%q pattern=%d", gotID, gotPattern)
	}
}

func TestDeliverIgnoredWhenDisconnected(t *testing.T) {
	sim := New(nil)
	invoked := false
	sim.OnTelemetry(func(string, swarmtypes.SensorState, uint16, coordinator.TelemetryFlags) {
		invoked = true
	})

	sim.Deliver("d0", swarmtypes.SensorState{}, 0, 0)

	if invoked {
		t.Error("expected Deliver to be a no-op before Connect")
	}
}
