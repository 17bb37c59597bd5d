package repository

import (
	"time"

	"github.com/architect/natural-teacher/internal/common/database"
	"github.com/architect/natural-teacher/internal/common/errors"
	"github.com/architect/natural-teacher/internal/gamification/models"
	"gorm.io/gorm"
)

// GetChallengeByID retrieves an active challenge.
func GetChallengeByID(challengeID uint) (*models.Challenge, error) {
	var challenge models.Challenge
	result := database.DB.Where("is_active = ?", true).First(&challenge, challengeID)
	if result.Error != nil {
		return nil, errors.NotFound("challenge")
	}
	return &challenge, nil
}

// ListCurrentChallenges returns active challenges whose window covers now.
func ListCurrentChallenges(now time.Time) ([]models.Challenge, error) {
	var challenges []models.Challenge
	result := database.DB.
		Where("is_active = ? AND start_date <= ? AND end_date >= ?", true, now, now).
		Order("end_date").
		Find(&challenges)
	if result.Error != nil {
		return nil, errors.Internal("failed to list challenges", result.Error.Error())
	}
	return challenges, nil
}

// ListUserChallenges returns the user's challenge progress records.
func ListUserChallenges(userID uint) ([]models.UserChallenge, error) {
	var progress []models.UserChallenge
	result := database.DB.Preload("Challenge").
		Where("user_id = ?", userID).
		Find(&progress)
	if result.Error != nil {
		return nil, errors.Internal("failed to list user challenges", result.Error.Error())
	}
	return progress, nil
}

// FindUserChallenge returns the user's record for one challenge, or nil
// when the user has not started it.
func FindUserChallenge(tx *gorm.DB, userID, challengeID uint) (*models.UserChallenge, error) {
	var progress []models.UserChallenge
	result := tx.Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		Limit(1).
		Find(&progress)
	if result.Error != nil {
		return nil, errors.Internal("failed to load user challenge", result.Error.Error())
	}
	if len(progress) == 0 {
		return nil, nil
	}
	return &progress[0], nil
}

// CreateUserChallenge inserts a challenge progress record.
func CreateUserChallenge(tx *gorm.DB, uc *models.UserChallenge) error {
	if result := tx.Create(uc); result.Error != nil {
		return errors.Internal("failed to record challenge progress", result.Error.Error())
	}
	return nil
}

// SaveUserChallenge persists challenge progress mutations.
func SaveUserChallenge(tx *gorm.DB, uc *models.UserChallenge) error {
	if result := tx.Save(uc); result.Error != nil {
		return errors.Internal("failed to save challenge progress", result.Error.Error())
	}
	return nil
}
