package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside-dev/ref-scheduler/types"
)

func TestScheduleRefereesEmptyInput(t *testing.T) {
	s := newTestService()

	result := s.ScheduleReferees(context.Background(), &types.SchedulingContext{})
	require.NotNil(t, result)
	assert.False(t, result.Success)

	seen := map[types.ConflictType]bool{}
	for _, c := range result.Conflicts {
		seen[c.Type] = true
	}
	assert.True(t, seen[types.ConflictNoGames])
	assert.True(t, seen[types.ConflictNoReferees])
	assert.True(t, seen[types.ConflictNoVenues])
}

func TestScheduleRefereesNilInput(t *testing.T) {
	s := newTestService()
	result := s.ScheduleReferees(context.Background(), nil)
	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Conflicts)
}

func TestScheduleRefereesFullCoverage(t *testing.T) {
	games := []types.Game{
		testGame(gameOne, venueDowntown, saturdayEvening),
		testGame(gameTwo, venueSuburb, saturdayEvening.AddDate(0, 0, 1)),
	}
	referees := []types.Referee{
		testReferee(refAlice, "Alice", types.ExperienceCertified),
		testReferee(refBob, "Bob", types.ExperienceExperienced),
	}

	s := newTestService()
	result := s.ScheduleReferees(context.Background(), testContext(games, referees))

	require.True(t, result.Success)
	require.Len(t, result.Assignments, 2)
	assert.Empty(t, result.UnassignedGames)
	assert.Empty(t, result.Conflicts)
	assert.InDelta(t, 1.0, result.Metrics.CoverageRate, 1e-9)
	assert.Greater(t, result.Metrics.TotalCost, 0.0)
	assert.Greater(t, result.Metrics.SatisfactionScore, 90.0)

	for _, a := range result.Assignments {
		assert.Equal(t, types.AssignmentPending, a.Status)
		assert.True(t, a.AutoAssigned)
		var bonusTotal float64
		for _, b := range a.Bonuses {
			bonusTotal += b.Amount
		}
		assert.InDelta(t, a.PayRate+bonusTotal, a.TotalPay, 1e-9)
	}
}

func TestScheduleRefereesPrefersHigherScored(t *testing.T) {
	games := []types.Game{testGame(gameOne, venueDowntown, saturdayEvening)}

	strong := testReferee(refAlice, "Alice", types.ExperienceExperienced)
	strong.PerformanceRating = 4.8
	weak := testReferee(refBob, "Bob", types.ExperienceBeginner)
	weak.PerformanceRating = 3.0

	s := newTestService()
	result := s.ScheduleReferees(context.Background(), testContext(games, []types.Referee{weak, strong}))

	require.True(t, result.Success)
	require.Len(t, result.Assignments, 1)
	assert.Equal(t, refAlice, result.Assignments[0].RefereeID)
}

func TestScheduleRefereesBlackoutLeavesSlotUnfilled(t *testing.T) {
	games := []types.Game{testGame(gameOne, venueDowntown, saturdayEvening)}

	only := testReferee(refAlice, "Alice", types.ExperienceCertified)
	only.BlackoutDates = []types.BlackoutWindow{
		{From: saturdayEvening.AddDate(0, 0, -3), Until: saturdayEvening.AddDate(0, 0, 3), Reason: "out of town"},
	}

	s := newTestService()
	result := s.ScheduleReferees(context.Background(), testContext(games, []types.Referee{only}))

	assert.False(t, result.Success)
	assert.Empty(t, result.Assignments)
	require.Len(t, result.UnassignedGames, 1)
	assert.Equal(t, "no eligible referees after filtering", result.UnassignedGames[0].Reason)

	require.NotEmpty(t, result.Conflicts)
	assert.Equal(t, types.ConflictUnfilledSlot, result.Conflicts[0].Type)
	assert.Equal(t, types.SeverityHigh, result.Conflicts[0].Severity)
}

func TestScheduleRefereesTightTurnaround(t *testing.T) {
	// Back-to-back games at venues over fifty miles apart: one referee can
	// cover at most one of them.
	games := []types.Game{
		testGame(gameOne, venueDowntown, saturdayEvening),
		testGame(gameTwo, venueFar, saturdayEvening.Add(90*time.Minute)),
	}
	only := testReferee(refAlice, "Alice", types.ExperienceCertified)

	s := newTestService()
	result := s.ScheduleReferees(context.Background(), testContext(games, []types.Referee{only}))

	assert.False(t, result.Success, "half coverage misses the success threshold")
	assert.Len(t, result.Assignments, 1)
	assert.Len(t, result.UnassignedGames, 1)
}

func TestScheduleRefereesRestAfterLongGame(t *testing.T) {
	// One referee needing an hour of rest; a two-hour game ending 20:00 and a
	// one-hour game starting 20:30. The short game's id sorts first, so the
	// solver binds it first; the rest rule must still block the second slot.
	short := testGame(gameOne, venueDowntown, saturdayEvening.Add(150*time.Minute))
	long := testGame(gameTwo, venueDowntown, saturdayEvening)
	long.DurationMinutes = 120

	only := testReferee(refAlice, "Alice", types.ExperienceCertified)
	only.MinRestMinutes = 60

	s := newTestService()
	result := s.ScheduleReferees(context.Background(), testContext([]types.Game{short, long}, []types.Referee{only}))

	assert.False(t, result.Success)
	assert.Len(t, result.Assignments, 1, "only one of the two games fits the rest requirement")
	assert.Len(t, result.UnassignedGames, 1)
}

func TestScheduleRefereesNoOverlapInvariant(t *testing.T) {
	games := []types.Game{
		testGame(gameOne, venueDowntown, saturdayEvening,
			types.RequiredOfficial{Role: types.RoleHeadReferee, Quantity: 1, MinExperience: types.ExperienceVolunteer},
			types.RequiredOfficial{Role: types.RoleAssistantReferee, Quantity: 1, MinExperience: types.ExperienceVolunteer}),
		testGame(gameTwo, venueDowntown, saturdayEvening.Add(30*time.Minute)),
		testGame(gameThree, venueSuburb, saturdayEvening.AddDate(0, 0, 1)),
	}
	referees := []types.Referee{
		testReferee(refAlice, "Alice", types.ExperienceCertified),
		testReferee(refBob, "Bob", types.ExperienceExperienced),
		testReferee(refCarol, "Carol", types.ExperienceIntermediate),
		testReferee(refDave, "Dave", types.ExperienceBeginner),
	}

	s := newTestService()
	input := testContext(games, referees)
	result := s.ScheduleReferees(context.Background(), input)

	byGame := map[uuid.UUID]*types.Game{}
	for i := range input.Games {
		byGame[input.Games[i].ID] = &input.Games[i]
	}

	perReferee := map[uuid.UUID][]*types.Game{}
	for _, a := range result.Assignments {
		perReferee[a.RefereeID] = append(perReferee[a.RefereeID], byGame[a.GameID])
	}
	for refID, assigned := range perReferee {
		for i := 0; i < len(assigned); i++ {
			for j := i + 1; j < len(assigned); j++ {
				if assigned[i].ID == assigned[j].ID {
					continue
				}
				assert.False(t, assigned[i].Overlaps(assigned[j]),
					"referee %s holds overlapping games", refID)
			}
		}
	}
}

func TestScheduleRefereesDeterministic(t *testing.T) {
	games := []types.Game{
		testGame(gameOne, venueDowntown, saturdayEvening),
		testGame(gameTwo, venueSuburb, saturdayEvening.Add(30*time.Minute)),
		testGame(gameThree, venueDowntown, saturdayEvening.AddDate(0, 0, 1)),
	}
	referees := []types.Referee{
		testReferee(refAlice, "Alice", types.ExperienceCertified),
		testReferee(refBob, "Bob", types.ExperienceCertified),
		testReferee(refCarol, "Carol", types.ExperienceCertified),
	}

	s := newTestService()
	first := s.ScheduleReferees(context.Background(), testContext(games, referees))
	second := s.ScheduleReferees(context.Background(), testContext(games, referees))

	require.Equal(t, len(first.Assignments), len(second.Assignments))
	for i := range first.Assignments {
		assert.Equal(t, first.Assignments[i].GameID, second.Assignments[i].GameID)
		assert.Equal(t, first.Assignments[i].RefereeID, second.Assignments[i].RefereeID)
		assert.Equal(t, first.Assignments[i].Role, second.Assignments[i].Role)
	}
	assert.Equal(t, first.UnassignedGames, second.UnassignedGames)
	assert.Equal(t, first.Metrics.CoverageRate, second.Metrics.CoverageRate)
}

func TestScheduleRefereesBudgetExhaustion(t *testing.T) {
	games := []types.Game{
		testGame(gameOne, venueDowntown, saturdayEvening),
		testGame(gameTwo, venueSuburb, saturdayEvening),
	}
	only := testReferee(refAlice, "Alice", types.ExperienceCertified)

	cfg := testConfig()
	cfg.MaxBacktracks = 1
	s := NewService(cfg, testLogger())
	s.nowFunc = func() time.Time { return testNow }

	result := s.ScheduleReferees(context.Background(), testContext(games, []types.Referee{only}))

	assert.False(t, result.Success)
	assert.Len(t, result.Assignments, 1, "best-effort partial result survives")

	var budgetConflict bool
	for _, c := range result.Conflicts {
		if c.Type == types.ConflictBudgetExhausted {
			budgetConflict = true
			assert.Equal(t, types.SeverityMedium, c.Severity)
		}
	}
	assert.True(t, budgetConflict)

	require.Len(t, result.UnassignedGames, 1)
	assert.Equal(t, "search budget exhausted", result.UnassignedGames[0].Reason)
}

func TestOptimizeScheduleReturnsBestObjective(t *testing.T) {
	games := []types.Game{
		testGame(gameOne, venueDowntown, saturdayEvening),
		testGame(gameTwo, venueSuburb, saturdayEvening.AddDate(0, 0, 1)),
		testGame(gameThree, venueDowntown, saturdayEvening.AddDate(0, 0, 2)),
	}
	referees := []types.Referee{
		testReferee(refAlice, "Alice", types.ExperienceCertified),
		testReferee(refBob, "Bob", types.ExperienceExperienced),
	}

	s := newTestService()
	result := s.OptimizeSchedule(context.Background(), testContext(games, referees))

	require.NotNil(t, result)
	assert.True(t, result.Success)
	assert.Len(t, result.Assignments, 3)
	assert.Contains(t, types.AllObjectives(), result.Objective)
}

func TestOptimizeScheduleEmptyInput(t *testing.T) {
	s := newTestService()
	result := s.OptimizeSchedule(context.Background(), nil)
	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Conflicts)
}

func TestScheduleRefereesObjectivePassedThrough(t *testing.T) {
	games := []types.Game{testGame(gameOne, venueDowntown, saturdayEvening)}
	referees := []types.Referee{testReferee(refAlice, "Alice", types.ExperienceCertified)}

	input := testContext(games, referees)
	input.Objective = types.ObjectiveMinimizeCost

	s := newTestService()
	result := s.ScheduleReferees(context.Background(), input)
	assert.Equal(t, types.ObjectiveMinimizeCost, result.Objective)
}

func BenchmarkScheduleReferees(b *testing.B) {
	var games []types.Game
	for i := 0; i < 12; i++ {
		id := uuid.New()
		start := saturdayEvening.AddDate(0, 0, i%6).Add(time.Duration(i%3) * 3 * time.Hour)
		venue := venueDowntown
		if i%2 == 1 {
			venue = venueSuburb
		}
		games = append(games, testGame(id, venue, start))
	}
	var referees []types.Referee
	for i := 0; i < 8; i++ {
		referees = append(referees, testReferee(uuid.New(), "Referee", types.ExperienceExperienced))
	}

	s := newTestService()
	input := testContext(games, referees)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.ScheduleReferees(context.Background(), input)
	}
}
