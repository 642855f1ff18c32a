package coordinator

import (
	"context"

	"github.com/aegis-robotics/swarm-coord/pkg/swarmtypes"
)

// TelemetryCallback is invoked by a Comms implementation whenever a drone
// reports fresh telemetry. currentPatternID and statusFlags are the
// numeric/bitfield values straight off the wire; the coordinator's handler
// applies only droneID and sensors to the world model and ignores both.
type TelemetryCallback func(droneID string, sensors swarmtypes.SensorState, currentPatternID uint16, statusFlags TelemetryFlags)

// Comms is the outbound transport the coordinator is injected with. The
// coordination core treats wire transport, radio scheduling, and firmware
// decode as external collaborators; Comms is the seam. Sends are
// fire-and-forget from the coordinator's point of view: send failures are
// swallowed by the caller, never surfaced as a crash. A Connect failure is
// returned from Coordinator.Start.
type Comms interface {
	// Connect establishes the transport for the given drone ids.
	Connect(ctx context.Context, droneIDs []string) error
	// Disconnect tears the transport down.
	Disconnect(ctx context.Context) error
	// Connected reports whether the transport is currently up.
	Connected() bool
	// SendCommand transmits one command to one drone. Errors are
	// considered non-fatal by the coordinator: the drone simply retains
	// its last pattern until the next successful command.
	SendCommand(ctx context.Context, droneID string, cmd DroneCommand) error
	// OnTelemetry registers the callback invoked on every inbound
	// telemetry frame. Only one callback is active at a time; a later
	// registration replaces an earlier one.
	OnTelemetry(callback TelemetryCallback)
}
