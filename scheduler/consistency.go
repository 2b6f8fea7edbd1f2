package scheduler

import (
	"time"

	"github.com/courtside-dev/ref-scheduler/types"
)

// assignmentMap is the partial assignment of the current search branch.
type assignmentMap map[slotKey]types.Assignment

// consistent reports whether binding ref to the variable identified by key is
// compatible with every hard constraint given the current partial assignment.
// The returned reason names the first violated constraint, for logging.
func (r *run) consistent(ref *types.Referee, key slotKey, bound assignmentMap) (bool, string) {
	game := r.game(key.GameID)
	if game == nil {
		return false, "unknown game"
	}

	if !ref.AvailableAt(game.ScheduledTime) {
		return false, "not available at game time"
	}
	if ref.BlackedOut(game.ScheduledTime) {
		return false, "blackout date"
	}
	req := r.requirements[key]
	if !ref.Experience.Meets(req.MinExperience) {
		return false, "experience below requirement"
	}
	if miles, ok := r.homeToVenueMiles(ref, game); !ok || (ref.TravelRadiusMiles > 0 && miles > ref.TravelRadiusMiles) {
		return false, "outside travel radius"
	}

	sameDay, sameWeek := 0, 0
	gameYear, gameWeek := game.ScheduledTime.ISOWeek()

	for _, assignment := range bound {
		other := r.game(assignment.GameID)
		if other == nil {
			continue
		}

		// Partner avoidance applies to co-officials of the same game.
		if assignment.GameID == game.ID {
			partner := r.referee(assignment.RefereeID)
			if assignment.RefereeID == ref.ID {
				return false, "already assigned to this game"
			}
			if ref.Avoids(assignment.RefereeID) || (partner != nil && partner.Avoids(ref.ID)) {
				return false, "avoided partner on same game"
			}
			continue
		}

		if assignment.RefereeID != ref.ID {
			continue
		}

		// No double booking.
		if game.Overlaps(other) {
			return false, "double booking"
		}

		// Rest period: the earlier game's end to the later game's start
		// must cover the referee's minimum rest, whichever was bound first.
		earlier, later := game, other
		if other.ScheduledTime.Before(game.ScheduledTime) {
			earlier, later = other, game
		}
		restGap := later.ScheduledTime.Sub(earlier.EndTime()).Minutes()
		if restGap < float64(r.minRestMinutes(ref)) {
			return false, "insufficient rest"
		}

		// Travel feasibility between consecutive venues.
		if !r.travelFeasible(game, other) {
			return false, "travel time infeasible"
		}

		if sameCalendarDay(game.ScheduledTime, other.ScheduledTime) {
			sameDay++
		}
		if y, w := other.ScheduledTime.ISOWeek(); y == gameYear && w == gameWeek {
			sameWeek++
		}
	}

	if sameDay+1 > r.maxGamesPerDay(ref) {
		return false, "daily game cap reached"
	}
	if sameWeek+1 > r.maxGamesPerWeek(ref) {
		return false, "weekly game cap reached"
	}

	return true, ""
}

// travelFeasible checks that the idle time between two games covers the
// estimated venue-to-venue travel.
func (r *run) travelFeasible(a, b *types.Game) bool {
	earlier, later := a, b
	if b.ScheduledTime.Before(a.ScheduledTime) {
		earlier, later = b, a
	}
	gap := later.ScheduledTime.Sub(earlier.EndTime()).Minutes()
	return gap >= r.travelMinutes(earlier.VenueID, later.VenueID)
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
