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

// UpdateChallengeProgress sets the student's progress through a challenge.
// Progress clamps to [0, 100]; the first time it reaches 100 the challenge
// completes and its points reward is paid. Later updates never pay again
// and never un-complete.
func UpdateChallengeProgress(userID, challengeID uint, progress int) (*models.UserChallenge, error) {
	challenge, err := repository.GetChallengeByID(challengeID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if now.Before(challenge.StartDate) || now.After(challenge.EndDate) {
		return nil, errors.BadRequest("challenge is not currently running")
	}

	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	var record *models.UserChallenge
	completedNow := false

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		existing, err := repository.FindUserChallenge(tx, userID, challengeID)
		if err != nil {
			return err
		}
		if existing == nil {
			existing = &models.UserChallenge{UserID: userID, ChallengeID: challengeID}
			if err := repository.CreateUserChallenge(tx, existing); err != nil {
				return err
			}
		}

		// Progress updates stay cosmetic after completion; only the
		// first crossing of 100 completes and pays out.
		existing.Progress = progress
		if !existing.Completed && progress == 100 {
			existing.Completed = true
			at := now
			existing.CompletedAt = &at
			existing.PointsEarned = challenge.PointsReward
			completedNow = true
		}
		if err := repository.SaveUserChallenge(tx, existing); err != nil {
			return err
		}

		if completedNow && challenge.PointsReward > 0 {
			profile, err := identityRepository.GetProfileForUpdate(tx, userID)
			if err != nil {
				return err
			}
			if _, err := AddPoints(tx, profile, challenge.PointsReward); err != nil {
				return err
			}
		}

		record = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	if completedNow {
		logger.Info("challenge completed",
			zap.Uint("user_id", userID), zap.String("challenge", challenge.Name))
		if err := CheckAndAward(userID); err != nil {
			logger.Warn("post-challenge award sweep failed",
				zap.Uint("user_id", userID), zap.Error(err))
		}
		InvalidateLeaderboards()
	}

	record.Challenge = *challenge
	return record, nil
}

// CurrentChallenges returns running challenges merged with the student's
// progress records.
func CurrentChallenges(userID uint) ([]models.UserChallenge, error) {
	challenges, err := repository.ListCurrentChallenges(time.Now())
	if err != nil {
		return nil, err
	}
	progress, err := repository.ListUserChallenges(userID)
	if err != nil {
		return nil, err
	}

	byChallenge := make(map[uint]models.UserChallenge, len(progress))
	for _, p := range progress {
		byChallenge[p.ChallengeID] = p
	}

	merged := make([]models.UserChallenge, 0, len(challenges))
	for _, ch := range challenges {
		record, started := byChallenge[ch.ID]
		if !started {
			record = models.UserChallenge{UserID: userID, ChallengeID: ch.ID}
		}
		record.Challenge = ch
		merged = append(merged, record)
	}
	return merged, nil
}
