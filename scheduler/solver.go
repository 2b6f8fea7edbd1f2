package scheduler

import (
	"context"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/courtside-dev/ref-scheduler/types"
)

// solveOutcome is what the search hands back to the service layer: the best
// assignment map found (complete or not) and how the search ended.
type solveOutcome struct {
	assignments      assignmentMap
	complete         bool
	budgetExhausted  bool
	deadlineExceeded bool
}

func cloneAssignments(in assignmentMap) assignmentMap {
	out := make(assignmentMap, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// solve runs recursive backtracking over the variables in domains. Variable
// selection uses minimum-remaining-values with deterministic tie-breaks;
// candidate order inside a domain was fixed by the domain builder. After every
// binding the remaining domains are forward-checked, so a branch dies as soon
// as any variable runs dry. The search keeps the deepest partial assignment
// seen, which becomes the best-effort result when the backtrack budget or the
// deadline expires.
func (r *run) solve(ctx context.Context, domains domainMap) solveOutcome {
	out := solveOutcome{assignments: assignmentMap{}}
	total := len(domains)
	if total == 0 {
		out.complete = true
		return out
	}

	bound := make(assignmentMap, total)
	bestCount := 0

	aborted := func() bool {
		if r.backtracks >= r.cfg.MaxBacktracks {
			out.budgetExhausted = true
			return true
		}
		if !r.deadline.IsZero() && time.Now().After(r.deadline) {
			out.deadlineExceeded = true
			return true
		}
		if ctx.Err() != nil {
			out.deadlineExceeded = true
			return true
		}
		return false
	}

	var search func(domains domainMap) bool
	search = func(domains domainMap) bool {
		if len(bound) > bestCount {
			bestCount = len(bound)
			out.assignments = cloneAssignments(bound)
		}
		if len(bound) == total {
			return true
		}
		if aborted() {
			return false
		}

		key, domain := selectMRV(domains, bound)
		if len(domain) == 0 {
			return false
		}

		for _, candidate := range domain {
			ok, reason := r.consistent(candidate, key, bound)
			if !ok {
				r.log.WithFields(logrus.Fields{
					"variable": key.String(),
					"referee":  candidate.ID,
					"reason":   reason,
				}).Debug("Candidate rejected")
				continue
			}

			bound[key] = r.buildAssignment(key, candidate)
			narrowed := r.forwardCheck(domains, key, candidate)

			if search(narrowed) {
				return true
			}

			delete(bound, key)
			r.backtracks++
			if aborted() {
				return false
			}
		}
		return false
	}

	start := time.Now()
	out.complete = search(domains)
	if !out.complete {
		// out.assignments already holds the deepest partial found.
		r.log.WithFields(logrus.Fields{
			"bound_variables":   bestCount,
			"total_variables":   total,
			"backtracks":        r.backtracks,
			"budget_exhausted":  out.budgetExhausted,
			"deadline_exceeded": out.deadlineExceeded,
		}).Warn("Search ended without a complete assignment")
	} else {
		out.assignments = cloneAssignments(bound)
	}

	r.logPhase("solve", logrus.Fields{
		"complete":   out.complete,
		"assigned":   len(out.assignments),
		"variables":  total,
		"backtracks": r.backtracks,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return out
}

// selectMRV picks the unbound variable with the fewest remaining candidates.
// Ties fall to the lexicographically smallest key so search order is
// reproducible.
func selectMRV(domains domainMap, bound assignmentMap) (slotKey, []*types.Referee) {
	var bestKey slotKey
	var bestDomain []*types.Referee
	bestSize := math.MaxInt
	found := false

	for key, domain := range domains {
		if _, isBound := bound[key]; isBound {
			continue
		}
		size := len(domain)
		if size < bestSize || (size == bestSize && key.less(bestKey)) {
			bestKey, bestDomain, bestSize = key, domain, size
			found = true
		}
	}
	if !found {
		return slotKey{}, nil
	}
	return bestKey, bestDomain
}

// forwardCheck returns a narrowed copy of domains after binding ref to key:
// the referee disappears from every other unbound variable whose game it can
// no longer serve. The copy shares unchanged slices with the parent branch,
// so backtracking just drops the copy.
func (r *run) forwardCheck(domains domainMap, boundKey slotKey, ref *types.Referee) domainMap {
	boundGame := r.game(boundKey.GameID)
	narrowed := domains.clone()

	for key, domain := range narrowed {
		if key == boundKey {
			continue
		}
		game := r.game(key.GameID)
		if game == nil || !r.cannotServeBoth(ref, boundGame, game) {
			continue
		}
		if pruned, removed := without(domain, ref); removed {
			narrowed[key] = pruned
		}
	}
	return narrowed
}

// cannotServeBoth mirrors the pairwise checks of the consistency predicate:
// a referee bound to boundGame is ruled out of game when the windows overlap,
// the rest gap is too short, or the travel gap cannot be covered. Co-slots of
// the same game always conflict. Day and week caps stay with the predicate
// since they depend on the whole partial assignment.
func (r *run) cannotServeBoth(ref *types.Referee, boundGame, game *types.Game) bool {
	if boundGame.ID == game.ID {
		return true
	}
	if game.Overlaps(boundGame) {
		return true
	}
	earlier, later := boundGame, game
	if game.ScheduledTime.Before(boundGame.ScheduledTime) {
		earlier, later = game, boundGame
	}
	if later.ScheduledTime.Sub(earlier.EndTime()).Minutes() < float64(r.minRestMinutes(ref)) {
		return true
	}
	return !r.travelFeasible(game, boundGame)
}
