package swarmtypes

// Vector3 is a simple 3-axis float triple, used for position, velocity, and
// angular velocity alike.
type Vector3 struct {
	X, Y, Z float64
}

// BatteryState describes a drone's electrical reserves.
type BatteryState struct {
	VoltageV         float64
	Percentage       float64 // 0..1
	DischargeRateW   float64
	EstimatedRemainS float64
}

// SensorState is delta (δ): the live telemetry snapshot for one drone.
type SensorState struct {
	Position          Vector3
	Velocity          Vector3
	Orientation     Vector3 // roll, pitch, yaw, radians
	AngularVelocity Vector3
	Battery         BatteryState
	PositionQuality float64 // 0..1
	WindEstimate    Vector3
}

// NeighborGraph is epsilon (ε): the derived relationship graph for one
// drone as of its last recomputation. All fields here are derived from
// neighbor positions and roles; none are independently stored ground
// truth. Neighbors is kept in ascending-ID order so relay/leader selection
// has a documented, deterministic tie-break (see worldmodel's
// computeNeighborGraph).
type NeighborGraph struct {
	Neighbors    []string
	Leader       string // empty if none
	Followers    []string
	RelayTarget  string // empty if none
	RelaySource  string // empty if none
	DockTarget   string // empty if none; populated externally
	BaseStations []string
}

// HasLeader reports whether this graph has an assigned leader.
func (g NeighborGraph) HasLeader() bool { return g.Leader != "" }

// DroneCoordinate is the full 9D coordinate: the CorePattern plus the
// derived neighbor graph, live sensor state, and an opaque intent hash.
type DroneCoordinate struct {
	Core       CorePattern
	Neighbors  NeighborGraph
	Sensors    SensorState
	IntentHash string
}
