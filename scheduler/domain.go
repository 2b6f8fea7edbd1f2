package scheduler

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/courtside-dev/ref-scheduler/types"
)

// domainMap holds the remaining candidates of every unbound variable.
// Forward checking copies it with structural sharing: only slices that lose a
// candidate are rebuilt, the rest are shared with the parent branch.
type domainMap map[slotKey][]*types.Referee

func (d domainMap) clone() domainMap {
	out := make(domainMap, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// without returns the domain slice with ref removed, or the original slice
// (and false) when ref is not present.
func without(domain []*types.Referee, id *types.Referee) ([]*types.Referee, bool) {
	for i, ref := range domain {
		if ref == id {
			pruned := make([]*types.Referee, 0, len(domain)-1)
			pruned = append(pruned, domain[:i]...)
			pruned = append(pruned, domain[i+1:]...)
			return pruned, true
		}
	}
	return domain, false
}

// buildDomains expands every (game, role, slot-index) into a decision
// variable and attaches its filtered, score-ordered candidate list.
func (r *run) buildDomains() domainMap {
	domains := make(domainMap)

	for gi := range r.input.Games {
		game := &r.input.Games[gi]
		for _, req := range game.RequiredOfficials {
			candidates := r.eligibleReferees(game, req)
			r.orderCandidates(candidates, game)
			for slot := 0; slot < req.Quantity; slot++ {
				key := slotKey{GameID: game.ID, Role: req.Role, SlotIndex: slot}
				r.requirements[key] = req
				// Slots of the same requirement share one ordered list;
				// forward checking copies on shrink, so sharing is safe.
				domains[key] = candidates
			}
		}
	}

	r.logPhase("build_domains", logrus.Fields{
		"variables": len(domains),
		"games":     len(r.input.Games),
	})
	return domains
}

// propagateUnary shrinks every domain with the unary constraints that depend
// only on the game's date and time: availability rules and blackout windows.
// It loops to a fixed point; with unary constraints one pass suffices, but the
// loop keeps the invariant explicit and the operation idempotent.
func (r *run) propagateUnary(domains domainMap) {
	removedTotal := 0
	passes := 0
	for {
		passes++
		changed := false
		for key, domain := range domains {
			game := r.game(key.GameID)
			if game == nil {
				continue
			}
			kept := domain[:0:0]
			for _, ref := range domain {
				if !ref.AvailableAt(game.ScheduledTime) {
					removedTotal++
					continue
				}
				if ref.BlackedOut(game.ScheduledTime) {
					removedTotal++
					continue
				}
				kept = append(kept, ref)
			}
			if len(kept) != len(domain) {
				domains[key] = kept
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	r.logPhase("propagate", logrus.Fields{
		"passes":  passes,
		"removed": removedTotal,
	})
}

// sortedKeys returns every variable key in deterministic order.
func sortedKeys(domains domainMap) []slotKey {
	keys := make([]slotKey, 0, len(domains))
	for k := range domains {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
	return keys
}
