package services

import (
	"math"
	"time"

	"github.com/architect/natural-teacher/internal/common/database"
	"github.com/architect/natural-teacher/internal/common/errors"
	identityModels "github.com/architect/natural-teacher/internal/identity/models"
	identityRepository "github.com/architect/natural-teacher/internal/identity/repository"
	"github.com/architect/natural-teacher/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NextLevelThreshold is the lifetime points needed to move past a level.
// Levels below 1 are treated as level 1.
func NextLevelThreshold(level int) int {
	if level < 1 {
		level = 1
	}
	return 100 + level*50
}

// LevelProgress is the percentage of the way from the previous level
// threshold to the next, clamped to [0, 100].
func LevelProgress(profile *identityModels.Profile) int {
	level := profile.CurrentLevel
	if level < 1 {
		level = 1
	}
	prev := 100 + (level-1)*50
	next := 100 + level*50
	pct := math.Round(float64(profile.TotalPoints-prev) / float64(next-prev) * 100)
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return int(pct)
}

// AddPoints awards points to a profile and applies any level-ups, saving
// the profile inside tx. Negative awards are rejected. Returns whether at
// least one level was gained.
func AddPoints(tx *gorm.DB, profile *identityModels.Profile, points int) (bool, error) {
	if points < 0 {
		return false, errors.BadRequest("points award must not be negative")
	}

	profile.TotalPoints += points

	leveledUp := false
	for profile.TotalPoints >= NextLevelThreshold(profile.CurrentLevel) {
		profile.CurrentLevel++
		leveledUp = true
	}

	if err := identityRepository.SaveProfile(tx, profile); err != nil {
		return false, err
	}
	if leveledUp {
		logger.Info("student leveled up",
			zap.Uint("user_id", profile.UserID),
			zap.Int("level", profile.CurrentLevel))
	}
	return leveledUp, nil
}

// streakAfterLogin is the single authority for streak transitions on
// login: no history starts at 1, a login yesterday extends the streak, a
// second login today changes nothing, anything older restarts at 1.
func streakAfterLogin(lastLogin *time.Time, streak int, today time.Time) int {
	if lastLogin == nil {
		return 1
	}
	last := dateOf(*lastLogin)
	day := dateOf(today)
	switch {
	case last.Equal(day):
		if streak < 1 {
			return 1
		}
		return streak
	case last.Equal(day.AddDate(0, 0, -1)):
		return streak + 1
	default:
		return 1
	}
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// RecordLogin applies the streak transition for a login happening now and
// stamps the login date.
func RecordLogin(profile *identityModels.Profile, now time.Time) error {
	profile.DailyStreak = streakAfterLogin(profile.LastLoginDate, profile.DailyStreak, now)
	stamp := now
	profile.LastLoginDate = &stamp
	return identityRepository.SaveProfile(database.DB, profile)
}

// DecayStreaks resets the streak of every student who did not log in
// today or yesterday. Run periodically; reset streaks go to zero, which a
// later login restarts at one.
func DecayStreaks(now time.Time) (int, error) {
	cutoff := dateOf(now).AddDate(0, 0, -1).Format("2006-01-02")
	profiles, err := identityRepository.ListStaleStreakProfiles(cutoff)
	if err != nil {
		return 0, err
	}

	reset := 0
	for _, profile := range profiles {
		profile.DailyStreak = 0
		if err := identityRepository.SaveProfile(database.DB, profile); err != nil {
			logger.Warn("streak decay save failed",
				zap.Uint("user_id", profile.UserID), zap.Error(err))
			continue
		}
		reset++
	}
	if reset > 0 {
		logger.Info("streaks decayed", zap.Int("profiles", reset))
	}
	return reset, nil
}
