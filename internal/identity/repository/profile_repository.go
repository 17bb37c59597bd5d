package repository

import (
	"github.com/architect/natural-teacher/internal/common/database"
	"github.com/architect/natural-teacher/internal/common/errors"
	"github.com/architect/natural-teacher/internal/identity/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetProfileByUserID retrieves the profile for a user.
func GetProfileByUserID(userID uint) (*models.Profile, error) {
	var profile models.Profile
	result := database.DB.Where("user_id = ?", userID).First(&profile)
	if result.Error != nil {
		return nil, errors.NotFound("profile")
	}
	return &profile, nil
}

// SaveProfile persists profile mutations within the given transaction.
// Pass database.DB when no transaction is in flight.
func SaveProfile(tx *gorm.DB, profile *models.Profile) error {
	result := tx.Save(profile)
	if result.Error != nil {
		return errors.Internal("failed to save profile", result.Error.Error())
	}
	return nil
}

// GetProfileForUpdate loads a profile with a row lock inside tx so that
// concurrent point awards for the same user serialize. SQLite serializes
// writers on its own, so the lock clause is Postgres-only.
func GetProfileForUpdate(tx *gorm.DB, userID uint) (*models.Profile, error) {
	query := tx.Where("user_id = ?", userID)
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var profile models.Profile
	result := query.First(&profile)
	if result.Error != nil {
		return nil, errors.NotFound("profile")
	}
	return &profile, nil
}

// ListStaleStreakProfiles returns profiles with a nonzero streak whose
// last login is before the given cutoff date.
func ListStaleStreakProfiles(cutoff string) ([]*models.Profile, error) {
	var profiles []*models.Profile
	result := database.DB.
		Where("daily_streak > 0").
		Where("last_login_date IS NULL OR date(last_login_date) < date(?)", cutoff).
		Find(&profiles)
	if result.Error != nil {
		return nil, errors.Internal("failed to list profiles", result.Error.Error())
	}
	return profiles, nil
}
