package services

import (
	"time"

	"github.com/architect/natural-teacher/internal/common/database"
	"github.com/architect/natural-teacher/internal/common/errors"
	"github.com/architect/natural-teacher/internal/gamification/models"
	"github.com/architect/natural-teacher/internal/gamification/repository"
	identityRepository "github.com/architect/natural-teacher/internal/identity/repository"
	"github.com/architect/natural-teacher/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RedeemReward claims a reward for the student. Points gate the claim but
// are not deducted; redeeming the same reward twice is an error.
func RedeemReward(userID, rewardID uint) (*models.UserReward, error) {
	reward, err := repository.GetRewardByID(rewardID)
	if err != nil {
		return nil, err
	}

	var claimed *models.UserReward
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		existing, err := repository.FindUserReward(tx, userID, rewardID)
		if err != nil {
			return err
		}

		if existing == nil {
			profile, err := identityRepository.GetProfileForUpdate(tx, userID)
			if err != nil {
				return err
			}
			if profile.TotalPoints < reward.PointsCost {
				return errors.InsufficientPoints("not enough points to redeem this reward")
			}

			now := time.Now()
			claimed = &models.UserReward{
				UserID:     userID,
				RewardID:   rewardID,
				Redeemed:   true,
				RedeemedAt: &now,
			}
			return repository.CreateUserReward(tx, claimed)
		}

		if existing.Redeemed {
			return errors.AlreadyRedeemed("this reward has already been redeemed")
		}

		now := time.Now()
		existing.Redeemed = true
		existing.RedeemedAt = &now
		claimed = existing
		return repository.SaveUserReward(tx, existing)
	})
	if err != nil {
		return nil, err
	}

	claimed.Reward = *reward
	logger.Info("reward redeemed",
		zap.Uint("user_id", userID), zap.String("reward", reward.Name))
	return claimed, nil
}
