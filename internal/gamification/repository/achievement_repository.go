package repository

import (
	"github.com/architect/natural-teacher/internal/common/database"
	"github.com/architect/natural-teacher/internal/common/errors"
	"github.com/architect/natural-teacher/internal/gamification/models"
	"gorm.io/gorm"
)

// ListActiveAchievements returns all active achievements.
func ListActiveAchievements() ([]models.Achievement, error) {
	var achievements []models.Achievement
	result := database.DB.Where("is_active = ?", true).Find(&achievements)
	if result.Error != nil {
		return nil, errors.Internal("failed to list achievements", result.Error.Error())
	}
	return achievements, nil
}

// ListUserAchievements returns the user's earned achievements, newest first.
func ListUserAchievements(userID uint) ([]models.UserAchievement, error) {
	var earned []models.UserAchievement
	result := database.DB.Preload("Achievement").
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&earned)
	if result.Error != nil {
		return nil, errors.Internal("failed to list user achievements", result.Error.Error())
	}
	return earned, nil
}

// EarnedAchievementIDs returns the set of achievement IDs the user holds.
func EarnedAchievementIDs(userID uint) (map[uint]bool, error) {
	var ids []uint
	result := database.DB.Model(&models.UserAchievement{}).
		Where("user_id = ?", userID).
		Pluck("achievement_id", &ids)
	if result.Error != nil {
		return nil, errors.Internal("failed to list earned achievements", result.Error.Error())
	}

	earned := make(map[uint]bool, len(ids))
	for _, id := range ids {
		earned[id] = true
	}
	return earned, nil
}

// CreateUserAchievement records an earned achievement.
func CreateUserAchievement(tx *gorm.DB, ua *models.UserAchievement) error {
	if result := tx.Create(ua); result.Error != nil {
		return errors.Internal("failed to record achievement", result.Error.Error())
	}
	return nil
}

// ListActiveBadges returns active badges ordered by their points threshold.
func ListActiveBadges() ([]models.Badge, error) {
	var badges []models.Badge
	result := database.DB.Where("is_active = ?", true).
		Order("required_points").
		Find(&badges)
	if result.Error != nil {
		return nil, errors.Internal("failed to list badges", result.Error.Error())
	}
	return badges, nil
}

// ListUserBadges returns the user's unlocked badges.
func ListUserBadges(userID uint) ([]models.UserBadge, error) {
	var earned []models.UserBadge
	result := database.DB.Preload("Badge").
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&earned)
	if result.Error != nil {
		return nil, errors.Internal("failed to list user badges", result.Error.Error())
	}
	return earned, nil
}

// EarnedBadgeIDs returns the set of badge IDs the user holds.
func EarnedBadgeIDs(userID uint) (map[uint]bool, error) {
	var ids []uint
	result := database.DB.Model(&models.UserBadge{}).
		Where("user_id = ?", userID).
		Pluck("badge_id", &ids)
	if result.Error != nil {
		return nil, errors.Internal("failed to list earned badges", result.Error.Error())
	}

	earned := make(map[uint]bool, len(ids))
	for _, id := range ids {
		earned[id] = true
	}
	return earned, nil
}

// CreateUserBadge records an unlocked badge.
func CreateUserBadge(tx *gorm.DB, ub *models.UserBadge) error {
	if result := tx.Create(ub); result.Error != nil {
		return errors.Internal("failed to record badge", result.Error.Error())
	}
	return nil
}
