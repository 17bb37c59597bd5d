package database

import (
	catalogModels "github.com/architect/natural-teacher/internal/catalog/models"
	gamificationModels "github.com/architect/natural-teacher/internal/gamification/models"
	homeworkModels "github.com/architect/natural-teacher/internal/homework/models"
	identityModels "github.com/architect/natural-teacher/internal/identity/models"
	monitoringModels "github.com/architect/natural-teacher/internal/monitoring/models"
	settingsModels "github.com/architect/natural-teacher/internal/settings/models"
)

// AutoMigrate creates or updates the schema for every domain model.
func AutoMigrate() error {
	return DB.AutoMigrate(
		&identityModels.User{},
		&identityModels.Profile{},
		&identityModels.AgeGroup{},
		&catalogModels.Subject{},
		&catalogModels.Topic{},
		&homeworkModels.Session{},
		&homeworkModels.Question{},
		&homeworkModels.Response{},
		&gamificationModels.Achievement{},
		&gamificationModels.UserAchievement{},
		&gamificationModels.Badge{},
		&gamificationModels.UserBadge{},
		&gamificationModels.Reward{},
		&gamificationModels.UserReward{},
		&gamificationModels.Challenge{},
		&gamificationModels.UserChallenge{},
		&monitoringModels.Monitoring{},
		&monitoringModels.ProgressReport{},
		&settingsModels.SystemSetting{},
	)
}
