package models

import (
	"time"
)

// Achievement types. The type selects which requirement fields apply.
const (
	AchievementLogin   = "login"
	AchievementSession = "session"
	AchievementSubject = "subject"
)

// Achievement is an earnable milestone. Requirements holds a JSON object
// whose shape depends on Type; see ParseRequirements.
type Achievement struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:100;not null"`
	Description  string    `json:"description" gorm:"size:500"`
	Icon         string    `json:"icon" gorm:"size:255"`
	Type         string    `json:"type" gorm:"size:20;not null"`
	Requirements string    `json:"requirements" gorm:"type:text"`
	PointsReward int       `json:"points_reward" gorm:"default:0"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserAchievement records that a user earned an achievement. Write-once:
// the unique index rejects duplicates.
type UserAchievement struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_achievement"`
	AchievementID uint      `json:"achievement_id" gorm:"not null;uniqueIndex:idx_user_achievement"`
	EarnedAt      time.Time `json:"earned_at"`
	CreatedAt     time.Time `json:"created_at"`

	Achievement Achievement `json:"achievement,omitempty" gorm:"foreignKey:AchievementID"`
}

// Badge is a rank unlocked by lifetime points.
type Badge struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"size:100;not null"`
	Description    string    `json:"description" gorm:"size:500"`
	Icon           string    `json:"icon" gorm:"size:255"`
	RequiredPoints int       `json:"required_points" gorm:"not null"`
	IsActive       bool      `json:"is_active" gorm:"default:true"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserBadge records an unlocked badge. Write-once like UserAchievement.
type UserBadge struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_badge"`
	BadgeID   uint      `json:"badge_id" gorm:"not null;uniqueIndex:idx_user_badge"`
	EarnedAt  time.Time `json:"earned_at"`
	CreatedAt time.Time `json:"created_at"`

	Badge Badge `json:"badge,omitempty" gorm:"foreignKey:BadgeID"`
}

// Reward is something a student can spend points on.
type Reward struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Description string    `json:"description" gorm:"size:500"`
	Icon        string    `json:"icon" gorm:"size:255"`
	PointsCost  int       `json:"points_cost" gorm:"not null"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserReward tracks a claimed reward. Redeemed flips once; redeeming an
// already-redeemed reward is an error.
type UserReward struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	UserID     uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_user_reward"`
	RewardID   uint       `json:"reward_id" gorm:"not null;uniqueIndex:idx_user_reward"`
	Redeemed   bool       `json:"redeemed" gorm:"default:false"`
	RedeemedAt *time.Time `json:"redeemed_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	Reward Reward `json:"reward,omitempty" gorm:"foreignKey:RewardID"`
}

// Challenge is a time-boxed goal with a completion reward.
type Challenge struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:100;not null"`
	Description  string    `json:"description" gorm:"size:500"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	PointsReward int       `json:"points_reward" gorm:"default:0"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserChallenge tracks one student's progress through a challenge.
// Progress is a percentage clamped to [0, 100]; the completion reward is
// paid exactly once, when progress first reaches 100.
type UserChallenge struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	UserID       uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_user_challenge"`
	ChallengeID  uint       `json:"challenge_id" gorm:"not null;uniqueIndex:idx_user_challenge"`
	Progress     int        `json:"progress" gorm:"default:0"`
	Completed    bool       `json:"completed" gorm:"default:false"`
	CompletedAt  *time.Time `json:"completed_at"`
	PointsEarned int        `json:"points_earned" gorm:"default:0"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Challenge Challenge `json:"challenge,omitempty" gorm:"foreignKey:ChallengeID"`
}

// Leaderboard period types.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodAllTime = "all_time"
)

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Level  int    `json:"level"`
	Points int    `json:"points"`
}

// LeaderboardResult is the leaderboard response: the top entries plus the
// requester's own rank over the full standings.
type LeaderboardResult struct {
	Type        string             `json:"type"`
	Entries     []LeaderboardEntry `json:"entries"`
	CurrentUser *LeaderboardEntry  `json:"current_user,omitempty"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// ProgressRequest updates challenge progress. Out-of-range values are
// clamped to [0, 100] by the service rather than rejected.
type ProgressRequest struct {
	Progress int `json:"progress"`
}
