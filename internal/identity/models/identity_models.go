package models

import (
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleStudent Role = "student"
	RoleParent  Role = "parent"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// ParseRole maps a string onto the closed role set.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleStudent, RoleParent, RoleTeacher, RoleAdmin:
		return Role(s), true
	default:
		return "", false
	}
}

// LearningStyle is the closed set of preferred learning styles.
type LearningStyle string

const (
	StyleVisual      LearningStyle = "visual"
	StyleAuditory    LearningStyle = "auditory"
	StyleReading     LearningStyle = "reading"
	StyleKinesthetic LearningStyle = "kinesthetic"
	StyleMixed       LearningStyle = "mixed"
)

// User represents an account in the system
type User struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Name       string     `gorm:"not null" json:"name"`
	Email      string     `gorm:"unique;not null" json:"email"`
	Password   string     `gorm:"not null" json:"-"`
	Role       Role       `gorm:"not null;index" json:"role"`
	Age        *int       `json:"age,omitempty"`
	AgeGroupID *uint      `json:"age_group_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Profile    *Profile   `json:"profile,omitempty"`
	AgeGroup   *AgeGroup  `json:"age_group,omitempty"`
}

// Profile holds the gamified progress state for a user.
type Profile struct {
	ID                     uint          `gorm:"primaryKey" json:"id"`
	UserID                 uint          `gorm:"unique;not null;index" json:"user_id"`
	Avatar                 string        `json:"avatar"`
	PreferredLearningStyle LearningStyle `gorm:"default:mixed" json:"preferred_learning_style"`
	DifficultyLevel        int           `gorm:"default:1" json:"difficulty_level"`
	CurrentLevel           int           `gorm:"default:1" json:"current_level"`
	TotalPoints            int           `gorm:"default:0" json:"total_points"`
	DailyStreak            int           `gorm:"default:0" json:"daily_streak"`
	LastLoginDate          *time.Time    `json:"last_login_date,omitempty"`
	CreatedAt              time.Time     `json:"created_at"`
	UpdatedAt              time.Time     `json:"updated_at"`
}

// AgeGroup buckets students for age-appropriate content.
type AgeGroup struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"not null" json:"name"`
	MinAge          int       `gorm:"not null" json:"min_age"`
	MaxAge          int       `gorm:"not null" json:"max_age"`
	ComplexityLevel int       `gorm:"default:1" json:"complexity_level"`
	VocabularyLevel string    `gorm:"default:basic" json:"vocabulary_level"`
	CreatedAt       time.Time `json:"created_at"`
}

// Contains reports whether age falls inside the group's range.
func (g *AgeGroup) Contains(age int) bool {
	return age >= g.MinAge && age <= g.MaxAge
}

// RegisterRequest is the request body for user registration
type RegisterRequest struct {
	Name          string `json:"name" binding:"required,max=255"`
	Email         string `json:"email" binding:"required,email,max=255"`
	Password      string `json:"password" binding:"required,min=8"`
	Role          string `json:"role" binding:"required,oneof=student parent teacher"`
	Age           *int   `json:"age" binding:"omitempty,min=5,max=15"`
	LearningStyle string `json:"learning_style" binding:"omitempty,oneof=visual auditory reading kinesthetic mixed"`
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
