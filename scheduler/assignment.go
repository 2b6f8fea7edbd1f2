package scheduler

import (
	"github.com/google/uuid"

	"github.com/courtside-dev/ref-scheduler/types"
)

// buildAssignment materializes the concrete assignment for a bound variable:
// payRate = baseRate x roleMultiplier x experienceMultiplier x importanceMultiplier,
// plus the bonus schedule, with totalPay = payRate + sum(bonuses).
func (r *run) buildAssignment(key slotKey, ref *types.Referee) types.Assignment {
	game := r.game(key.GameID)

	experienceMultiplier := ref.ExperienceMultiplier
	if experienceMultiplier <= 0 {
		experienceMultiplier = 1
	}
	payRate := ref.BaseRate * key.Role.PayMultiplier() * experienceMultiplier * game.Importance.PayMultiplier()

	var bonuses []types.Bonus
	if game.Type == types.GameTournament || game.Type == types.GameChampionship {
		bonuses = append(bonuses, types.Bonus{
			Amount: ref.BaseRate * r.cfg.TournamentBonusPct,
			Reason: "tournament game",
		})
	}
	if game.ScheduledTime.Sub(r.now) < r.cfg.LateWindow {
		bonuses = append(bonuses, types.Bonus{
			Amount: ref.BaseRate * r.cfg.LateBonusPct,
			Reason: "late assignment",
		})
	}
	if r.cfg.IsHoliday(game.ScheduledTime) {
		bonuses = append(bonuses, types.Bonus{
			Amount: ref.BaseRate * r.cfg.HolidayBonusPct,
			Reason: "holiday game",
		})
	}

	totalPay := payRate
	for _, bonus := range bonuses {
		totalPay += bonus.Amount
	}

	return types.Assignment{
		ID:           uuid.New(),
		GameID:       key.GameID,
		RefereeID:    ref.ID,
		Role:         key.Role,
		SlotIndex:    key.SlotIndex,
		Status:       types.AssignmentPending,
		PayRate:      payRate,
		Bonuses:      bonuses,
		TotalPay:     totalPay,
		AutoAssigned: true,
		AssignedAt:   r.now,
	}
}
