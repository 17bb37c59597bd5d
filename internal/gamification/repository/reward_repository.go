package repository

import (
	"github.com/architect/natural-teacher/internal/common/database"
	"github.com/architect/natural-teacher/internal/common/errors"
	"github.com/architect/natural-teacher/internal/gamification/models"
	"gorm.io/gorm"
)

// GetRewardByID retrieves an active reward.
func GetRewardByID(rewardID uint) (*models.Reward, error) {
	var reward models.Reward
	result := database.DB.Where("is_active = ?", true).First(&reward, rewardID)
	if result.Error != nil {
		return nil, errors.NotFound("reward")
	}
	return &reward, nil
}

// ListActiveRewards returns active rewards ordered by cost.
func ListActiveRewards() ([]models.Reward, error) {
	var rewards []models.Reward
	result := database.DB.Where("is_active = ?", true).
		Order("points_cost").
		Find(&rewards)
	if result.Error != nil {
		return nil, errors.Internal("failed to list rewards", result.Error.Error())
	}
	return rewards, nil
}

// ListUserRewards returns the user's claimed rewards.
func ListUserRewards(userID uint) ([]models.UserReward, error) {
	var claimed []models.UserReward
	result := database.DB.Preload("Reward").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&claimed)
	if result.Error != nil {
		return nil, errors.Internal("failed to list user rewards", result.Error.Error())
	}
	return claimed, nil
}

// FindUserReward returns the user's record for one reward, or nil when the
// reward has never been claimed.
func FindUserReward(tx *gorm.DB, userID, rewardID uint) (*models.UserReward, error) {
	var claimed []models.UserReward
	result := tx.Where("user_id = ? AND reward_id = ?", userID, rewardID).
		Limit(1).
		Find(&claimed)
	if result.Error != nil {
		return nil, errors.Internal("failed to load user reward", result.Error.Error())
	}
	if len(claimed) == 0 {
		return nil, nil
	}
	return &claimed[0], nil
}

// CreateUserReward inserts a claimed reward record.
func CreateUserReward(tx *gorm.DB, ur *models.UserReward) error {
	if result := tx.Create(ur); result.Error != nil {
		return errors.Internal("failed to record reward", result.Error.Error())
	}
	return nil
}

// SaveUserReward persists reward record mutations.
func SaveUserReward(tx *gorm.DB, ur *models.UserReward) error {
	if result := tx.Save(ur); result.Error != nil {
		return errors.Internal("failed to save reward", result.Error.Error())
	}
	return nil
}
