package scheduler

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/courtside-dev/ref-scheduler/types"
)

// computeMetrics evaluates a finished (possibly partial) assignment set:
// coverage, cost, travel, workload balance and the satisfaction score.
func (r *run) computeMetrics(assignments []types.Assignment, unassigned []types.UnassignedGame, conflicts []types.Conflict) types.SchedulingMetrics {
	totalSlots := r.input.TotalSlots()

	metrics := types.SchedulingMetrics{
		TotalSlots:    totalSlots,
		AssignedSlots: len(assignments),
	}
	if totalSlots > 0 {
		metrics.CoverageRate = float64(len(assignments)) / float64(totalSlots)
	}

	var travelTotal float64
	for _, a := range assignments {
		metrics.TotalCost += a.TotalPay
		ref := r.referee(a.RefereeID)
		game := r.game(a.GameID)
		if ref != nil && game != nil {
			if miles, ok := r.homeToVenueMiles(ref, game); ok {
				travelTotal += miles
			}
		}
	}
	if len(assignments) > 0 {
		metrics.AverageTravelMiles = travelTotal / float64(len(assignments))
	}

	metrics.WorkloadBalance = r.workloadBalance(assignments)
	metrics.SatisfactionScore = r.satisfactionScore(metrics, unassigned, conflicts)
	return metrics
}

// workloadBalance is 1 minus the Gini coefficient of per-referee utilization,
// where utilization is assignment count over the referee's weekly cap. 1.0
// means perfectly even load.
func (r *run) workloadBalance(assignments []types.Assignment) float64 {
	if len(r.input.Referees) == 0 {
		return 0
	}

	counts := make(map[uuid.UUID]int)
	for _, a := range assignments {
		counts[a.RefereeID]++
	}

	utilization := make([]float64, 0, len(r.input.Referees))
	for i := range r.input.Referees {
		ref := &r.input.Referees[i]
		weeklyCap := r.maxGamesPerWeek(ref)
		utilization = append(utilization, float64(counts[ref.ID])/float64(weeklyCap))
	}

	if stat.Mean(utilization, nil) == 0 {
		// Nobody assigned: trivially balanced.
		return 1
	}
	return 1 - gini(utilization)
}

// gini computes the Gini coefficient of non-negative values, 0 = perfectly
// equal, approaching 1 = maximally concentrated.
func gini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mean := stat.Mean(sorted, nil)
	if mean == 0 {
		return 0
	}

	var weighted float64
	for i, v := range sorted {
		weighted += float64(2*(i+1)-n-1) * v
	}
	return weighted / (float64(n) * float64(n) * mean)
}

// satisfactionScore starts at 100, loses 5 per fully-unassigned game and a
// severity-weighted penalty per conflict, and earns up to 10 points back for
// workload balance.
func (r *run) satisfactionScore(metrics types.SchedulingMetrics, unassigned []types.UnassignedGame, conflicts []types.Conflict) float64 {
	score := 100.0

	score -= 5 * float64(r.fullyUnassignedGames(unassigned))
	for _, c := range conflicts {
		score -= c.Severity.SatisfactionPenalty()
	}
	score += metrics.WorkloadBalance * 10

	return math.Max(0, math.Min(100, score))
}

// fullyUnassignedGames counts games for which not a single slot was filled.
func (r *run) fullyUnassignedGames(unassigned []types.UnassignedGame) int {
	missing := make(map[uuid.UUID]int)
	for _, u := range unassigned {
		missing[u.GameID]++
	}
	count := 0
	for gameID, n := range missing {
		game := r.game(gameID)
		if game != nil && n >= game.TotalSlots() {
			count++
		}
	}
	return count
}

// evaluateConflicts inspects the final assignment set for residual problems
// and produces the conflict records the caller acts on.
func (r *run) evaluateConflicts(assignments []types.Assignment, unassigned []types.UnassignedGame) []types.Conflict {
	var conflicts []types.Conflict

	// Unfilled slots, grouped per game.
	missing := make(map[uuid.UUID][]types.UnassignedGame)
	for _, u := range unassigned {
		missing[u.GameID] = append(missing[u.GameID], u)
	}
	gameIDs := make([]uuid.UUID, 0, len(missing))
	for id := range missing {
		gameIDs = append(gameIDs, id)
	}
	sort.Slice(gameIDs, func(i, j int) bool { return gameIDs[i].String() < gameIDs[j].String() })

	for _, gameID := range gameIDs {
		slots := missing[gameID]
		game := r.game(gameID)
		severity := types.SeverityMedium
		if game != nil {
			if len(slots) >= game.TotalSlots() {
				severity = types.SeverityHigh
			}
			if game.Importance == types.ImportanceCritical {
				severity = types.SeverityCritical
			}
		}
		conflicts = append(conflicts, types.Conflict{
			Type:          types.ConflictUnfilledSlot,
			Severity:      severity,
			Description:   fmt.Sprintf("%d official slot(s) unfilled", len(slots)),
			AffectedGames: []uuid.UUID{gameID},
			Resolution:    "assign manually or recruit additional referees",
		})
	}

	// Sweep for under-qualified assignments. The filter keeps these out of
	// the domains, so any hit means an upstream record changed mid-run.
	for _, a := range assignments {
		req := r.requirements[slotKey{GameID: a.GameID, Role: a.Role, SlotIndex: a.SlotIndex}]
		ref := r.referee(a.RefereeID)
		if ref == nil || ref.Experience.Meets(req.MinExperience) {
			continue
		}
		conflicts = append(conflicts, types.Conflict{
			Type:             types.ConflictExperienceMismatch,
			Severity:         types.SeverityHigh,
			Description:      fmt.Sprintf("referee holds %s but the slot requires %s", ref.Experience, req.MinExperience),
			AffectedGames:    []uuid.UUID{a.GameID},
			AffectedReferees: []uuid.UUID{a.RefereeID},
			Resolution:       "reassign a referee meeting the experience requirement",
		})
	}

	// Defensive sweep: the solver must never double-book, but a conflict
	// record beats a silent inconsistency if it ever does.
	byReferee := make(map[uuid.UUID][]types.Assignment)
	for _, a := range assignments {
		byReferee[a.RefereeID] = append(byReferee[a.RefereeID], a)
	}
	for refID, list := range byReferee {
		for i := 0; i < len(list); i++ {
			for j := i + 1; j < len(list); j++ {
				g1, g2 := r.game(list[i].GameID), r.game(list[j].GameID)
				if g1 != nil && g2 != nil && g1.ID != g2.ID && g1.Overlaps(g2) {
					conflicts = append(conflicts, types.Conflict{
						Type:             types.ConflictDoubleBooking,
						Severity:         types.SeverityCritical,
						Description:      "referee assigned to overlapping games",
						AffectedGames:    []uuid.UUID{g1.ID, g2.ID},
						AffectedReferees: []uuid.UUID{refID},
						Resolution:       "manual intervention required",
					})
				}
			}
		}
	}

	return conflicts
}

// buildSuggestions produces human-actionable recommendations for degraded
// results.
func (r *run) buildSuggestions(metrics types.SchedulingMetrics, unassigned []types.UnassignedGame) []types.Suggestion {
	var suggestions []types.Suggestion

	if metrics.TotalSlots > 0 && metrics.CoverageRate < r.cfg.CoverageSuggestionThreshold {
		suggestions = append(suggestions, types.Suggestion{
			Type:        types.SuggestAddReferees,
			Description: fmt.Sprintf("coverage is %.0f%%; recruit more referees or widen travel radii", metrics.CoverageRate*100),
			Priority:    1,
		})
	}
	if n := r.fullyUnassignedGames(unassigned); n > 0 {
		suggestions = append(suggestions, types.Suggestion{
			Type:        types.SuggestRescheduleGames,
			Description: fmt.Sprintf("%d game(s) have no officials at all; consider rescheduling", n),
			Priority:    2,
		})
	}
	if len(r.input.Referees) > 1 && metrics.WorkloadBalance < 0.5 && metrics.AssignedSlots > 0 {
		suggestions = append(suggestions, types.Suggestion{
			Type:        types.SuggestBalanceWorkload,
			Description: "assignments are concentrated on few referees; review availability rules",
			Priority:    3,
		})
	}
	for _, u := range unassigned {
		if u.Reason == reasonNoConsistent {
			suggestions = append(suggestions, types.Suggestion{
				Type:        types.SuggestRelaxConstraints,
				Description: "eligible referees exist but rest, travel or game-cap limits block them; consider relaxing constraints",
				Priority:    4,
			})
			break
		}
	}

	return suggestions
}
