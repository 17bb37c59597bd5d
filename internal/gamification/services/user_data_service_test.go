package services

import (
	"testing"

	"github.com/architect/natural-teacher/internal/common/database"
	"github.com/architect/natural-teacher/internal/gamification/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserProgress_AssemblesState(t *testing.T) {
	setupTestDB(t)
	profile := newStudentProfile(t, "complete@example.com", 2, 180)

	reward := &models.Reward{Name: "Poster", PointsCost: 50, IsActive: true}
	require.NoError(t, database.DB.Create(reward).Error)
	require.NoError(t, database.DB.Create(&models.Reward{
		Name: "Retired Reward", PointsCost: 10,
	}).Error)
	require.NoError(t, database.DB.Model(&models.Reward{}).
		Where("name = ?", "Retired Reward").
		Update("is_active", false).Error)
	challenge := newRunningChallenge(t, "Daily Dash", 5)

	_, err := RedeemReward(profile.UserID, reward.ID)
	require.NoError(t, err)
	_, err = UpdateChallengeProgress(profile.UserID, challenge.ID, 20)
	require.NoError(t, err)

	data, err := UserProgress(profile.UserID)
	require.NoError(t, err)

	assert.Equal(t, profile.UserID, data.Profile.UserID)
	assert.Equal(t, 200, data.NextLevelThreshold)
	assert.Equal(t, 60, data.LevelProgress)

	// Inactive rewards never show as available.
	require.Len(t, data.AvailableRewards, 1)
	assert.Equal(t, "Poster", data.AvailableRewards[0].Name)
	require.Len(t, data.ClaimedRewards, 1)
	assert.True(t, data.ClaimedRewards[0].Redeemed)

	require.Len(t, data.Challenges, 1)
	assert.Equal(t, 20, data.Challenges[0].Progress)
}

func TestUserProgress_UnknownUser(t *testing.T) {
	setupTestDB(t)

	_, err := UserProgress(12345)
	require.Error(t, err)
}
