package scheduler

import (
	"github.com/sirupsen/logrus"

	"github.com/courtside-dev/ref-scheduler/types"
)

// eligibleReferees filters the pool down to referees passing every unary
// constraint for one required-official slot: active status, experience tier,
// role capability and travel radius. An empty result is valid and marks the
// slot as uncoverable.
func (r *run) eligibleReferees(game *types.Game, req types.RequiredOfficial) []*types.Referee {
	eligible := make([]*types.Referee, 0, len(r.input.Referees))
	inactive, underTier, incapable, tooFar := 0, 0, 0, 0

	for i := range r.input.Referees {
		ref := &r.input.Referees[i]
		if !ref.IsActive() {
			inactive++
			continue
		}
		if !ref.Experience.Meets(req.MinExperience) {
			underTier++
			continue
		}
		if !ref.CanOfficiate(req.Role) {
			incapable++
			continue
		}
		miles, ok := r.homeToVenueMiles(ref, game)
		if !ok || (ref.TravelRadiusMiles > 0 && miles > ref.TravelRadiusMiles) {
			tooFar++
			continue
		}
		eligible = append(eligible, ref)
	}

	r.log.WithFields(logrus.Fields{
		"game_id":        game.ID,
		"role":           req.Role,
		"pool_size":      len(r.input.Referees),
		"eligible_count": len(eligible),
		"inactive":       inactive,
		"under_tier":     underTier,
		"incapable":      incapable,
		"too_far":        tooFar,
	}).Debug("Candidate filtering complete")

	return eligible
}
