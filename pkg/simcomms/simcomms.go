// Package simcomms is an in-process simulator implementation of
// coordinator.Comms: the test substrate and CLI demo harness use it in
// place of a real radio link.
package simcomms

import (
	"context"
	"fmt"
	"sync"

	"github.com/aegis-robotics/swarm-coord/pkg/coordinator"
	"github.com/aegis-robotics/swarm-coord/pkg/logger"
	"github.com/aegis-robotics/swarm-coord/pkg/swarmtypes"
)

// defaultInFlightLimit bounds how many SendCommand calls this simulator
// will process concurrently, mirroring the teacher's batched-flush
// discipline without an unbounded goroutine fan-out.
const defaultInFlightLimit = 16

// Simulator is a goroutine-safe fake radio: SendCommand writes into a
// per-drone mailbox instead of any real transport, and test code or a demo
// CLI drives inbound telemetry by calling Deliver.
type Simulator struct {
	log logger.Logger

	mu        sync.Mutex
	connected bool
	mailbox   map[string]coordinator.DroneCommand
	history   map[string][]coordinator.DroneCommand
	callback  coordinator.TelemetryCallback

	inFlight chan struct{}
}

// New builds a simulator comms layer. log may be nil.
func New(log logger.Logger) *Simulator {
	if log == nil {
		log = logger.New()
	}
	return &Simulator{
		log:      log.WithPrefix("simcomms"),
		mailbox:  make(map[string]coordinator.DroneCommand),
		history:  make(map[string][]coordinator.DroneCommand),
		inFlight: make(chan struct{}, defaultInFlightLimit),
	}
}

// Connect marks the simulator connected and seeds an empty mailbox entry
// for each drone id.
func (s *Simulator) Connect(_ context.Context, droneIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connected = true
	for _, id := range droneIDs {
		if _, ok := s.mailbox[id]; !ok {
			s.mailbox[id] = coordinator.DroneCommand{}
		}
	}
	s.log.Debugf("connected, %d drones", len(droneIDs))
	return nil
}

// Disconnect marks the simulator disconnected. Mailbox contents are kept
// so a test can inspect the last command each drone received.
func (s *Simulator) Disconnect(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.connected = false
	s.log.Debug("disconnected")
	return nil
}

// Connected reports whether Connect has been called more recently than
// Disconnect.
func (s *Simulator) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// SendCommand writes cmd into droneID's mailbox. It returns an error if the
// simulator is not connected, matching a real transport's behavior; the
// coordinator treats this as non-fatal and swallows it.
func (s *Simulator) SendCommand(_ context.Context, droneID string, cmd coordinator.DroneCommand) error {
	s.inFlight <- struct{}{}
	defer func() { <-s.inFlight }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return fmt.Errorf("simcomms: not connected")
	}

	s.mailbox[droneID] = cmd
	s.history[droneID] = append(s.history[droneID], cmd)
	return nil
}

// OnTelemetry registers the callback Deliver invokes.
func (s *Simulator) OnTelemetry(callback coordinator.TelemetryCallback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callback = callback
}

// Deliver synthesizes an inbound telemetry frame for droneID, invoking the
// registered callback exactly as a real radio link would on packet
// receipt. It is a no-op if the simulator is disconnected or no callback
// is registered.
func (s *Simulator) Deliver(droneID string, sensors swarmtypes.SensorState, patternID uint16, flags coordinator.TelemetryFlags) {
	s.mu.Lock()
	callback := s.callback
	connected := s.connected
	s.mu.Unlock()

	if !connected || callback == nil {
		return
	}
	callback(droneID, sensors, patternID, flags)
}

// LastCommand returns the most recent command delivered to droneID's
// mailbox.
func (s *Simulator) LastCommand(droneID string) (coordinator.DroneCommand, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cmd, ok := s.mailbox[droneID]
	return cmd, ok
}

// History returns every command ever sent to droneID, oldest first.
func (s *Simulator) History(droneID string) []coordinator.DroneCommand {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]coordinator.DroneCommand, len(s.history[droneID]))
	copy(out, s.history[droneID])
	return out
}
