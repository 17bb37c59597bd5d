package services

import (
	"testing"
	"time"

	"github.com/architect/natural-teacher/internal/common/database"
	appErrors "github.com/architect/natural-teacher/internal/common/errors"
	"github.com/architect/natural-teacher/internal/gamification/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunningChallenge(t *testing.T, name string, reward int) *models.Challenge {
	t.Helper()

	now := time.Now()
	challenge := &models.Challenge{
		Name:         name,
		StartDate:    now.Add(-24 * time.Hour),
		EndDate:      now.Add(24 * time.Hour),
		PointsReward: reward,
		IsActive:     true,
	}
	require.NoError(t, database.DB.Create(challenge).Error)
	return challenge
}

func TestUpdateChallengeProgress_CompletesOnce(t *testing.T) {
	setupTestDB(t)
	profile := newStudentProfile(t, "challenger@example.com", 1, 0)
	challenge := newRunningChallenge(t, "Weekly Warrior", 25)

	record, err := UpdateChallengeProgress(profile.UserID, challenge.ID, 60)
	require.NoError(t, err)
	assert.Equal(t, 60, record.Progress)
	assert.False(t, record.Completed)
	assert.Equal(t, 0, record.PointsEarned)

	record, err = UpdateChallengeProgress(profile.UserID, challenge.ID, 100)
	require.NoError(t, err)
	assert.True(t, record.Completed)
	require.NotNil(t, record.CompletedAt)
	assert.Equal(t, 25, record.PointsEarned)
	assert.Equal(t, 25, reloadProfile(t, profile.UserID).TotalPoints)

	// Repeating the update does not pay the reward again.
	record, err = UpdateChallengeProgress(profile.UserID, challenge.ID, 100)
	require.NoError(t, err)
	assert.True(t, record.Completed)
	assert.Equal(t, 25, reloadProfile(t, profile.UserID).TotalPoints)
}

func TestUpdateChallengeProgress_CosmeticAfterCompletion(t *testing.T) {
	setupTestDB(t)
	profile := newStudentProfile(t, "tinkerer@example.com", 1, 0)
	challenge := newRunningChallenge(t, "Math Sprint", 10)

	_, err := UpdateChallengeProgress(profile.UserID, challenge.ID, 100)
	require.NoError(t, err)

	record, err := UpdateChallengeProgress(profile.UserID, challenge.ID, 40)
	require.NoError(t, err)
	assert.Equal(t, 40, record.Progress)
	assert.True(t, record.Completed)
	assert.Equal(t, 10, reloadProfile(t, profile.UserID).TotalPoints)
}

func TestUpdateChallengeProgress_ClampsInput(t *testing.T) {
	setupTestDB(t)
	profile := newStudentProfile(t, "clamp@example.com", 1, 0)
	challenge := newRunningChallenge(t, "Reading Marathon", 0)

	record, err := UpdateChallengeProgress(profile.UserID, challenge.ID, -10)
	require.NoError(t, err)
	assert.Equal(t, 0, record.Progress)
	assert.False(t, record.Completed)

	// Overshooting clamps to 100 and counts as the first crossing.
	record, err = UpdateChallengeProgress(profile.UserID, challenge.ID, 130)
	require.NoError(t, err)
	assert.Equal(t, 100, record.Progress)
	assert.True(t, record.Completed)
}

func TestUpdateChallengeProgress_OutsideWindow(t *testing.T) {
	setupTestDB(t)
	profile := newStudentProfile(t, "late@example.com", 1, 0)

	now := time.Now()
	expired := &models.Challenge{
		Name:      "Last Month",
		StartDate: now.Add(-60 * 24 * time.Hour),
		EndDate:   now.Add(-30 * 24 * time.Hour),
		IsActive:  true,
	}
	require.NoError(t, database.DB.Create(expired).Error)

	_, err := UpdateChallengeProgress(profile.UserID, expired.ID, 50)
	require.Error(t, err)
	appErr, ok := err.(*appErrors.AppError)
	require.True(t, ok)
	assert.Equal(t, appErrors.CodeBadRequest, appErr.Code)
}

func TestCurrentChallenges_MergesProgress(t *testing.T) {
	setupTestDB(t)
	profile := newStudentProfile(t, "browser@example.com", 1, 0)
	started := newRunningChallenge(t, "Started", 10)
	newRunningChallenge(t, "Untouched", 10)

	_, err := UpdateChallengeProgress(profile.UserID, started.ID, 30)
	require.NoError(t, err)

	merged, err := CurrentChallenges(profile.UserID)
	require.NoError(t, err)
	require.Len(t, merged, 2)

	byName := make(map[string]models.UserChallenge, len(merged))
	for _, m := range merged {
		byName[m.Challenge.Name] = m
	}
	assert.Equal(t, 30, byName["Started"].Progress)
	assert.Equal(t, 0, byName["Untouched"].Progress)
	assert.Zero(t, byName["Untouched"].ID)
}
