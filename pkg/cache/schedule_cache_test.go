package cache

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside-dev/ref-scheduler/types"
)

func sampleContext() *types.SchedulingContext {
	return &types.SchedulingContext{
		Games: []types.Game{
			{
				ID:              uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000001"),
				VenueID:         uuid.MustParse("aaaaaaaa-0000-0000-0000-00000000000a"),
				ScheduledTime:   time.Date(2026, time.March, 7, 18, 0, 0, 0, time.UTC),
				DurationMinutes: 60,
			},
		},
		Referees: []types.Referee{
			{ID: uuid.MustParse("cccccccc-0000-0000-0000-000000000001"), Name: "Alice"},
		},
	}
}

func TestContextFingerprintDeterministic(t *testing.T) {
	first, err := ContextFingerprint(sampleContext())
	require.NoError(t, err)
	second, err := ContextFingerprint(sampleContext())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64, "sha-256 hex digest")
}

func TestContextFingerprintSensitiveToInput(t *testing.T) {
	base, err := ContextFingerprint(sampleContext())
	require.NoError(t, err)

	changed := sampleContext()
	changed.Games[0].DurationMinutes = 90
	other, err := ContextFingerprint(changed)
	require.NoError(t, err)

	assert.NotEqual(t, base, other)

	reordered := sampleContext()
	reordered.Objective = types.ObjectiveMinimizeCost
	withObjective, err := ContextFingerprint(reordered)
	require.NoError(t, err)
	assert.NotEqual(t, base, withObjective, "objective is part of the cache identity")
}
