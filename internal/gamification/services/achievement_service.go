package services

import (
	"time"

	"github.com/architect/natural-teacher/internal/common/database"
	"github.com/architect/natural-teacher/internal/gamification/models"
	"github.com/architect/natural-teacher/internal/gamification/repository"
	homeworkRepository "github.com/architect/natural-teacher/internal/homework/repository"
	identityRepository "github.com/architect/natural-teacher/internal/identity/repository"
	"github.com/architect/natural-teacher/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// buildSnapshot gathers the activity counts the achievement checkers need.
// Subject session counts are only fetched for subjects some achievement
// actually references.
func buildSnapshot(userID uint, achievements []models.Achievement) (*models.ActivitySnapshot, error) {
	profile, err := identityRepository.GetProfileByUserID(userID)
	if err != nil {
		return nil, err
	}

	completed, err := homeworkRepository.CountCompletedSessions(userID, 0)
	if err != nil {
		return nil, err
	}

	snap := &models.ActivitySnapshot{
		DailyStreak:       profile.DailyStreak,
		CompletedSessions: completed,
		SubjectSessions:   map[uint]int64{},
	}

	for _, ach := range achievements {
		if ach.Type != models.AchievementSubject {
			continue
		}
		checker, err := models.ParseRequirements(ach.Type, ach.Requirements)
		if err != nil {
			continue
		}
		req := checker.(models.SubjectRequirement)
		if _, seen := snap.SubjectSessions[req.SubjectID]; seen {
			continue
		}
		count, err := homeworkRepository.CountCompletedSessions(userID, req.SubjectID)
		if err != nil {
			return nil, err
		}
		snap.SubjectSessions[req.SubjectID] = count
	}
	return snap, nil
}

// CheckAndAward sweeps all active achievements and badges for the user,
// awarding any that are newly met. Safe to call repeatedly: already-earned
// entries are skipped, so each award happens once.
func CheckAndAward(userID uint) error {
	achievements, err := repository.ListActiveAchievements()
	if err != nil {
		return err
	}
	earned, err := repository.EarnedAchievementIDs(userID)
	if err != nil {
		return err
	}

	snap, err := buildSnapshot(userID, achievements)
	if err != nil {
		return err
	}

	for _, ach := range achievements {
		if earned[ach.ID] {
			continue
		}
		checker, err := models.ParseRequirements(ach.Type, ach.Requirements)
		if err != nil {
			logger.Warn("unparseable achievement requirements",
				zap.Uint("achievement_id", ach.ID), zap.Error(err))
			continue
		}
		if !checker.Met(snap) {
			continue
		}
		if err := awardAchievement(userID, &ach); err != nil {
			return err
		}
	}

	return unlockBadges(userID)
}

func awardAchievement(userID uint, ach *models.Achievement) error {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := repository.CreateUserAchievement(tx, &models.UserAchievement{
			UserID:        userID,
			AchievementID: ach.ID,
			EarnedAt:      time.Now(),
		}); err != nil {
			return err
		}
		if ach.PointsReward <= 0 {
			return nil
		}
		profile, err := identityRepository.GetProfileForUpdate(tx, userID)
		if err != nil {
			return err
		}
		_, err = AddPoints(tx, profile, ach.PointsReward)
		return err
	})
	if err != nil {
		return err
	}
	logger.Info("achievement earned",
		zap.Uint("user_id", userID), zap.String("achievement", ach.Name))
	return nil
}

// unlockBadges grants every active badge whose points threshold the
// student's lifetime points meet. Badges carry no points reward.
func unlockBadges(userID uint) error {
	profile, err := identityRepository.GetProfileByUserID(userID)
	if err != nil {
		return err
	}
	badges, err := repository.ListActiveBadges()
	if err != nil {
		return err
	}
	earned, err := repository.EarnedBadgeIDs(userID)
	if err != nil {
		return err
	}

	for _, badge := range badges {
		if earned[badge.ID] || profile.TotalPoints < badge.RequiredPoints {
			continue
		}
		if err := repository.CreateUserBadge(database.DB, &models.UserBadge{
			UserID:   userID,
			BadgeID:  badge.ID,
			EarnedAt: time.Now(),
		}); err != nil {
			return err
		}
		logger.Info("badge unlocked",
			zap.Uint("user_id", userID), zap.String("badge", badge.Name))
	}
	return nil
}
