package constraint

import (
	"strconv"
	"strings"

	"github.com/aegis-robotics/swarm-coord/pkg/swarmtypes"
)

// EvaluateForcedExitCondition evaluates a forced-exit condition string
// against live sensor state. The grammar is exactly "<field> < <number>"
// with field in {battery, position_quality}; anything else (unknown
// field, malformed syntax, wrong comparator) evaluates to false rather
// than erroring — a malformed forced-exit condition never throws. The
// coordinator's own forced-exit scan uses this same evaluator so the
// per-drone selection pipeline and the tick loop's changed-set scan never
// disagree on what counts as a forced exit.
func EvaluateForcedExitCondition(condition string, sensors swarmtypes.SensorState) bool {
	parts := strings.Fields(condition)
	if len(parts) != 3 || parts[1] != "<" {
		return false
	}

	threshold, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return false
	}

	switch parts[0] {
	case "battery":
		return sensors.Battery.Percentage < threshold
	case "position_quality":
		return sensors.PositionQuality < threshold
	default:
		return false
	}
}
