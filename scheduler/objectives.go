package scheduler

import (
	"math"

	"github.com/courtside-dev/ref-scheduler/types"
)

// maxTravelForBonus caps the travel term so the bonus stays in [0, 20].
const maxTravelForBonus = 50.0

// objectiveScore grades a finished result for the optimization driver:
// satisfaction plus a bonus term favoring the objective the run was asked to
// optimize. maxCost is the highest total cost among the competing results,
// used to normalize the cost bonus.
func objectiveScore(result *types.SchedulingResult, objective types.OptimizationObjective, maxCost float64) float64 {
	score := result.Metrics.SatisfactionScore

	switch objective {
	case types.ObjectiveMaximizeCoverage:
		score += result.Metrics.CoverageRate * 20
	case types.ObjectiveBalanceWorkload:
		score += result.Metrics.WorkloadBalance * 20
	case types.ObjectiveMinimizeCost:
		if maxCost > 0 {
			score += (1 - result.Metrics.TotalCost/maxCost) * 20
		}
	case types.ObjectiveMinimizeTravel:
		travel := math.Min(result.Metrics.AverageTravelMiles, maxTravelForBonus)
		score += (1 - travel/maxTravelForBonus) * 20
	}

	return score
}
