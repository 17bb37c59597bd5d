package services

import (
	"fmt"
	"testing"
	"time"

	appErrors "github.com/architect/natural-teacher/internal/common/errors"
	"github.com/architect/natural-teacher/internal/gamification/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodBounds(t *testing.T) {
	// A Wednesday.
	now := time.Date(2025, 6, 18, 15, 30, 0, 0, time.UTC)

	from, to, err := PeriodBounds(models.PeriodDaily, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 6, 19, 0, 0, 0, 0, time.UTC), to)

	from, to, err = PeriodBounds(models.PeriodWeekly, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 6, 23, 0, 0, 0, 0, time.UTC), to)

	// Sunday belongs to the week that started the previous Monday.
	sunday := time.Date(2025, 6, 22, 9, 0, 0, 0, time.UTC)
	from, to, err = PeriodBounds(models.PeriodWeekly, sunday)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 6, 23, 0, 0, 0, 0, time.UTC), to)

	from, to, err = PeriodBounds(models.PeriodMonthly, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), to)

	from, to, err = PeriodBounds(models.PeriodAllTime, now)
	require.NoError(t, err)
	assert.True(t, from.IsZero())
	assert.True(t, to.IsZero())

	_, _, err = PeriodBounds("hourly", now)
	require.Error(t, err)
	appErr, ok := err.(*appErrors.AppError)
	require.True(t, ok)
	assert.Equal(t, appErrors.CodeBadRequest, appErr.Code)
}

func TestLeaderboard_AllTimeRanking(t *testing.T) {
	setupTestDB(t)
	alice := newStudentProfile(t, "alice@example.com", 2, 50)
	bob := newStudentProfile(t, "bob@example.com", 3, 80)
	carol := newStudentProfile(t, "carol@example.com", 1, 20)

	result, err := Leaderboard(carol.UserID, models.PeriodAllTime, 10)
	require.NoError(t, err)
	require.Len(t, result.Entries, 3)

	assert.Equal(t, bob.UserID, result.Entries[0].UserID)
	assert.Equal(t, 1, result.Entries[0].Rank)
	assert.Equal(t, alice.UserID, result.Entries[1].UserID)
	assert.Equal(t, 2, result.Entries[1].Rank)
	assert.Equal(t, carol.UserID, result.Entries[2].UserID)
	assert.Equal(t, 3, result.Entries[2].Rank)

	require.NotNil(t, result.CurrentUser)
	assert.Equal(t, carol.UserID, result.CurrentUser.UserID)
	assert.Equal(t, 3, result.CurrentUser.Rank)
}

func TestLeaderboard_TiesKeepStableOrder(t *testing.T) {
	setupTestDB(t)
	first := newStudentProfile(t, "first@example.com", 1, 30)
	second := newStudentProfile(t, "second@example.com", 1, 30)

	result, err := Leaderboard(first.UserID, models.PeriodAllTime, 10)
	require.NoError(t, err)
	require.Len(t, result.Entries, 2)
	assert.Equal(t, first.UserID, result.Entries[0].UserID)
	assert.Equal(t, second.UserID, result.Entries[1].UserID)
}

func TestLeaderboard_RequesterBelowCutoff(t *testing.T) {
	setupTestDB(t)

	var lastID uint
	for i := 0; i < 6; i++ {
		p := newStudentProfile(t, fmt.Sprintf("rank%d@example.com", i), 1, 100-i*10)
		lastID = p.UserID
	}

	result, err := Leaderboard(lastID, models.PeriodAllTime, 5)
	require.NoError(t, err)
	assert.Len(t, result.Entries, 5)

	require.NotNil(t, result.CurrentUser)
	assert.Equal(t, lastID, result.CurrentUser.UserID)
	assert.Equal(t, 6, result.CurrentUser.Rank)
}

func TestLeaderboard_WeeklyCountsWindowedPoints(t *testing.T) {
	setupTestDB(t)
	recent := newStudentProfile(t, "recent@example.com", 5, 900)
	steady := newStudentProfile(t, "steady@example.com", 1, 10)

	now := time.Now()
	// Lifetime totals say recent wins; this week says steady does.
	newCompletedSession(t, recent.UserID, 1, 5, now)
	newCompletedSession(t, steady.UserID, 1, 40, now)
	newCompletedSession(t, recent.UserID, 1, 200, now.AddDate(0, 0, -30))

	result, err := Leaderboard(recent.UserID, models.PeriodWeekly, 10)
	require.NoError(t, err)
	require.Len(t, result.Entries, 2)
	assert.Equal(t, steady.UserID, result.Entries[0].UserID)
	assert.Equal(t, 40, result.Entries[0].Points)
	assert.Equal(t, recent.UserID, result.Entries[1].UserID)
	assert.Equal(t, 5, result.Entries[1].Points)
}

func TestLeaderboard_InvalidLimitFallsBackToDefault(t *testing.T) {
	setupTestDB(t)
	profile := newStudentProfile(t, "solo@example.com", 1, 10)

	result, err := Leaderboard(profile.UserID, models.PeriodAllTime, 0)
	require.NoError(t, err)
	assert.Len(t, result.Entries, 1)
}
