package services

import (
	"testing"

	"github.com/architect/natural-teacher/internal/common/database"
	appErrors "github.com/architect/natural-teacher/internal/common/errors"
	"github.com/architect/natural-teacher/internal/gamification/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedeemReward_FirstRedemption(t *testing.T) {
	setupTestDB(t)
	profile := newStudentProfile(t, "spender@example.com", 2, 200)

	reward := &models.Reward{Name: "Extra Screen Time", PointsCost: 150, IsActive: true}
	require.NoError(t, database.DB.Create(reward).Error)

	claimed, err := RedeemReward(profile.UserID, reward.ID)
	require.NoError(t, err)
	assert.True(t, claimed.Redeemed)
	require.NotNil(t, claimed.RedeemedAt)
	assert.Equal(t, reward.ID, claimed.Reward.ID)

	// The cost gates redemption but is not deducted.
	assert.Equal(t, 200, reloadProfile(t, profile.UserID).TotalPoints)
}

func TestRedeemReward_InsufficientPoints(t *testing.T) {
	setupTestDB(t)
	profile := newStudentProfile(t, "broke@example.com", 1, 40)

	reward := &models.Reward{Name: "Sticker Pack", PointsCost: 50, IsActive: true}
	require.NoError(t, database.DB.Create(reward).Error)

	_, err := RedeemReward(profile.UserID, reward.ID)
	require.Error(t, err)
	appErr, ok := err.(*appErrors.AppError)
	require.True(t, ok)
	assert.Equal(t, appErrors.CodeInsufficientPoints, appErr.Code)
	assert.Equal(t, 403, appErr.Status)
}

func TestRedeemReward_AlreadyRedeemed(t *testing.T) {
	setupTestDB(t)
	profile := newStudentProfile(t, "double@example.com", 3, 500)

	reward := &models.Reward{Name: "Movie Night", PointsCost: 100, IsActive: true}
	require.NoError(t, database.DB.Create(reward).Error)

	_, err := RedeemReward(profile.UserID, reward.ID)
	require.NoError(t, err)

	_, err = RedeemReward(profile.UserID, reward.ID)
	require.Error(t, err)
	appErr, ok := err.(*appErrors.AppError)
	require.True(t, ok)
	assert.Equal(t, appErrors.CodeAlreadyRedeemed, appErr.Code)
}

func TestRedeemReward_UnknownReward(t *testing.T) {
	setupTestDB(t)
	profile := newStudentProfile(t, "lost@example.com", 1, 100)

	_, err := RedeemReward(profile.UserID, 999)
	require.Error(t, err)
	appErr, ok := err.(*appErrors.AppError)
	require.True(t, ok)
	assert.Equal(t, appErrors.CodeNotFound, appErr.Code)
}
