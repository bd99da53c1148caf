package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var plannerNow = time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)

func TestBuildLogEntryDefaultsStartToNow(t *testing.T) {
	entry, err := buildLogEntry(CreateLogInput{PlanID: 1, DurationMinutes: 25}, plannerNow)
	require.NoError(t, err)
	require.Equal(t, plannerNow, entry.StartedAt)
	require.NotNil(t, entry.EndedAt)
	require.Equal(t, plannerNow.Add(25*time.Minute), *entry.EndedAt)
	require.Equal(t, 25, entry.DurationMinutes)
}

func TestBuildLogEntryHonorsOccurredAt(t *testing.T) {
	occurred := plannerNow.Add(-2 * time.Hour)
	entry, err := buildLogEntry(CreateLogInput{PlanID: 1, OccurredAt: &occurred, DurationMinutes: 40}, plannerNow)
	require.NoError(t, err)
	require.Equal(t, occurred, entry.StartedAt)
	require.Equal(t, occurred.Add(40*time.Minute), *entry.EndedAt)
}

func TestBuildLogEntryZeroMinutesHasNoEnd(t *testing.T) {
	entry, err := buildLogEntry(CreateLogInput{PlanID: 1, DurationMinutes: 0}, plannerNow)
	require.NoError(t, err)
	require.Equal(t, plannerNow, entry.StartedAt)
	require.Nil(t, entry.EndedAt)
	require.Zero(t, entry.DurationMinutes)
}

func TestBuildLogEntryRejectsNegativeDuration(t *testing.T) {
	_, err := buildLogEntry(CreateLogInput{PlanID: 1, DurationMinutes: -5}, plannerNow)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestValidTaskStatus(t *testing.T) {
	require.True(t, validTaskStatus("pending"))
	require.True(t, validTaskStatus("in_progress"))
	require.True(t, validTaskStatus("done"))
	require.False(t, validTaskStatus("cancelled"))
	require.False(t, validTaskStatus(""))
}

func TestSameTime(t *testing.T) {
	a := plannerNow
	b := plannerNow.In(time.FixedZone("X", 3600))
	c := plannerNow.Add(time.Minute)

	require.True(t, sameTime(&a, &b))
	require.False(t, sameTime(&a, &c))
	require.True(t, sameTime(nil, nil))
	require.False(t, sameTime(&a, nil))
}
