package scheduler

import (
	"math"
	"sort"

	"github.com/courtside-dev/ref-scheduler/types"
)

// suitabilityScore ranks a candidate for a slot, higher is better. The score
// never filters anyone out; it only decides which candidates the solver tries
// first.
func (r *run) suitabilityScore(ref *types.Referee, game *types.Game) float64 {
	w := r.cfg.Weights

	score := float64(ref.Experience.Rank()) * w.ExperienceTierStep
	score += ref.PerformanceRating / 5 * w.PerformanceRating
	score += ref.Reliability / 100 * w.Reliability
	score += ref.Punctuality / 100 * w.Punctuality
	score += math.Min(w.GamesOfficiatedCap, float64(ref.GamesOfficiated)/100)

	if ref.PrefersVenue(game.VenueID) {
		score += w.PreferredVenueBonus
	}

	switch ref.Specializations[game.DivisionID] {
	case types.SpecializationExpert:
		score += w.ExpertDivisionBonus
	case types.SpecializationProficient:
		score += w.ProficientDivisionBonus
	case types.SpecializationFamiliar:
		score += w.FamiliarDivisionBonus
	}

	return score
}

// orderCandidates sorts a domain so the solver tries the most promising
// referees first. The primary order depends on the active objective; ties are
// broken by referee id so identical inputs always search identically.
func (r *run) orderCandidates(candidates []*types.Referee, game *types.Game) {
	keys := make(map[*types.Referee]float64, len(candidates))

	switch r.objective {
	case types.ObjectiveMinimizeCost:
		// Ascending projected pay: cheaper referees first.
		for _, ref := range candidates {
			keys[ref] = -projectedPayRate(ref, game)
		}
	case types.ObjectiveMinimizeTravel:
		// Ascending home-to-venue distance.
		for _, ref := range candidates {
			miles, _ := r.homeToVenueMiles(ref, game)
			keys[ref] = -miles
		}
	default:
		for _, ref := range candidates {
			keys[ref] = r.suitabilityScore(ref, game)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		ki, kj := keys[candidates[i]], keys[candidates[j]]
		if ki != kj {
			return ki > kj
		}
		return candidates[i].ID.String() < candidates[j].ID.String()
	})
}

// projectedPayRate is the base pay a referee would earn for a game, before
// bonuses. Used for cost-biased candidate ordering and cost metrics.
func projectedPayRate(ref *types.Referee, game *types.Game) float64 {
	multiplier := ref.ExperienceMultiplier
	if multiplier <= 0 {
		multiplier = 1
	}
	return ref.BaseRate * multiplier * game.Importance.PayMultiplier()
}
