package scheduler

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/courtside-dev/ref-scheduler/pkg/config"
	"github.com/courtside-dev/ref-scheduler/types"
)

// Fixed IDs so assertions on deterministic ordering are stable.
var (
	venueDowntown = uuid.MustParse("aaaaaaaa-0000-0000-0000-00000000000a")
	venueSuburb   = uuid.MustParse("aaaaaaaa-0000-0000-0000-00000000000b")
	venueFar      = uuid.MustParse("aaaaaaaa-0000-0000-0000-00000000000c")

	divisionU12 = uuid.MustParse("dddddddd-0000-0000-0000-000000000001")

	gameOne   = uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000001")
	gameTwo   = uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000002")
	gameThree = uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000003")

	refAlice = uuid.MustParse("cccccccc-0000-0000-0000-000000000001")
	refBob   = uuid.MustParse("cccccccc-0000-0000-0000-000000000002")
	refCarol = uuid.MustParse("cccccccc-0000-0000-0000-000000000003")
	refDave  = uuid.MustParse("cccccccc-0000-0000-0000-000000000004")
)

// testNow pins pay-related calculations; Saturday games below are six days
// out, so no late-assignment bonus applies unless a test schedules closer.
var testNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

// saturdayEvening is 2026-03-07 18:00 UTC.
var saturdayEvening = time.Date(2026, time.March, 7, 18, 0, 0, 0, time.UTC)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testConfig() *config.EngineConfig {
	cfg := config.DefaultEngineConfig()
	// Tests pin the clock, so the wall-clock deadline is disabled.
	cfg.Deadline = 0
	return cfg
}

func newTestService() *Service {
	s := NewService(testConfig(), testLogger())
	s.nowFunc = func() time.Time { return testNow }
	return s
}

func newTestRun(input *types.SchedulingContext, objective types.OptimizationObjective) *run {
	entry := testLogger().WithField("component", "scheduler")
	return newRun(testConfig(), entry, input, objective, newDistanceCache(), testNow)
}

func allWeekAvailability() []types.AvailabilityRule {
	rules := make([]types.AvailabilityRule, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		rules = append(rules, types.AvailabilityRule{DayOfWeek: d, StartMinute: 0, EndMinute: 1440})
	}
	return rules
}

func testVenues() []types.Venue {
	return []types.Venue{
		{ID: venueDowntown, Name: "Downtown Gym", Location: types.Coordinates{Latitude: 44.9778, Longitude: -93.2650}},
		{ID: venueSuburb, Name: "Suburb Fieldhouse", Location: types.Coordinates{Latitude: 44.8848, Longitude: -93.2223}},
		{ID: venueFar, Name: "Lakeside Arena", Location: types.Coordinates{Latitude: 44.9778, Longitude: -92.1500}},
	}
}

func testReferee(id uuid.UUID, name string, experience types.ExperienceLevel) types.Referee {
	return types.Referee{
		ID:                   id,
		Name:                 name,
		Status:               types.RefereeActive,
		Experience:           experience,
		Roles:                []types.OfficialRole{types.RoleHeadReferee, types.RoleAssistantReferee, types.RoleScorekeeper},
		Availability:         allWeekAvailability(),
		HomeLocation:         types.Coordinates{Latitude: 44.9700, Longitude: -93.2600},
		TravelRadiusMiles:    100,
		BaseRate:             50,
		ExperienceMultiplier: 1.0,
		PerformanceRating:    4.0,
		Reliability:          90,
		Punctuality:          90,
		GamesOfficiated:      120,
	}
}

func testGame(id uuid.UUID, venueID uuid.UUID, start time.Time, officials ...types.RequiredOfficial) types.Game {
	if len(officials) == 0 {
		officials = []types.RequiredOfficial{
			{Role: types.RoleHeadReferee, Quantity: 1, MinExperience: types.ExperienceVolunteer},
		}
	}
	return types.Game{
		ID:                id,
		VenueID:           venueID,
		DivisionID:        divisionU12,
		ScheduledTime:     start,
		DurationMinutes:   60,
		Importance:        types.ImportanceNormal,
		Type:              types.GameRegular,
		RequiredOfficials: officials,
	}
}

func testContext(games []types.Game, referees []types.Referee) *types.SchedulingContext {
	return &types.SchedulingContext{
		Games:    games,
		Referees: referees,
		Venues:   testVenues(),
	}
}
