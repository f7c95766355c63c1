package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestMissionAvailabilityEvergreen(t *testing.T) {
	m := Mission{Active: true}
	require.True(t, m.IsAvailableAt(time.Now()))
}

func TestMissionAvailabilityInactive(t *testing.T) {
	m := Mission{Active: false}
	require.False(t, m.IsAvailableAt(time.Now()))

	now := time.Now().UTC()
	m = Mission{Active: true, DeactivatedAt: &now}
	require.False(t, m.IsAvailableAt(now))
}

func TestMissionAvailabilityWindow(t *testing.T) {
	now := time.Now().UTC()
	start := now.Add(-time.Hour)
	end := now.Add(time.Hour)

	m := Mission{
		Active:        true,
		IsTimeLimited: true,
		StartDate:     &start,
		EndDate:       &end,
	}
	require.True(t, m.IsAvailableAt(now))
	require.False(t, m.IsAvailableAt(start.Add(-time.Minute)), "before the window opens")
	require.False(t, m.IsAvailableAt(end.Add(time.Minute)), "after the window closes")
}

func TestMissionAvailabilityDaysAvailable(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := Mission{
		Active:        true,
		IsTimeLimited: true,
		StartDate:     &start,
		DaysAvailable: intPtr(7),
	}

	require.True(t, m.IsAvailableAt(start.AddDate(0, 0, 3)))
	require.False(t, m.IsAvailableAt(start.AddDate(0, 0, 8)))
}

func TestMissionWindowEndExplicitEndDateWins(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)
	m := Mission{
		StartDate:     &start,
		EndDate:       &end,
		DaysAvailable: intPtr(30),
	}
	require.Equal(t, end, *m.WindowEnd())
}

func TestMissionWindowNeverCloses(t *testing.T) {
	m := Mission{Active: true, IsTimeLimited: true}
	require.Nil(t, m.WindowEnd())
	require.True(t, m.IsAvailableAt(time.Now().AddDate(10, 0, 0)))
}

func TestMissionAvailabilityCompletionCap(t *testing.T) {
	m := Mission{Active: true, MaxCompletions: intPtr(1), CurrentCompletions: 0}
	require.True(t, m.IsAvailableAt(time.Now()))

	m.CurrentCompletions = 1
	require.False(t, m.IsAvailableAt(time.Now()), "cap reached")

	m.MaxCompletions = nil
	m.CurrentCompletions = 10000
	require.True(t, m.IsAvailableAt(time.Now()), "nil cap means unlimited")
}
