package models

import (
	"time"

	catalogModels "github.com/architect/natural-teacher/internal/catalog/models"
	identityModels "github.com/architect/natural-teacher/internal/identity/models"
)

// Session statuses.
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
)

// HelpfulRating values for response feedback.
const (
	RatingNotHelpful      = "not_helpful"
	RatingSomewhatHelpful = "somewhat_helpful"
	RatingVeryHelpful     = "very_helpful"
)

// Session is one homework help session for a student in a subject.
type Session struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	UserID       uint       `json:"user_id" gorm:"not null;index"`
	SubjectID    uint       `json:"subject_id" gorm:"not null;index"`
	TopicID      *uint      `json:"topic_id"`
	Status       string     `json:"status" gorm:"size:20;default:'active';index"`
	PointsEarned int        `json:"points_earned" gorm:"default:0"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	Duration     int        `json:"duration" gorm:"default:0"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	User      identityModels.User   `json:"-" gorm:"foreignKey:UserID"`
	Subject   catalogModels.Subject `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
	Topic     *catalogModels.Topic  `json:"topic,omitempty" gorm:"foreignKey:TopicID"`
	Questions []Question            `json:"questions,omitempty" gorm:"foreignKey:SessionID"`
}

// Question is one homework submission within a session.
type Question struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	SessionID       uint      `json:"session_id" gorm:"not null;index"`
	Content         string    `json:"content" gorm:"type:text;not null"`
	FileURL         string    `json:"file_url,omitempty" gorm:"size:500"`
	ComplexityLevel int       `json:"complexity_level" gorm:"default:1"`
	PointsValue     int       `json:"points_value" gorm:"default:0"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Responses []Response `json:"responses,omitempty" gorm:"foreignKey:QuestionID"`
}

// Response is the tutoring reply to a question, plus optional student feedback.
type Response struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	QuestionID       uint      `json:"question_id" gorm:"not null;index"`
	Content          string    `json:"content" gorm:"type:text;not null"`
	ExplanationLevel int       `json:"explanation_level" gorm:"default:1"`
	CreatedByAgent   string    `json:"created_by_agent" gorm:"size:100"`
	HelpfulRating    *string   `json:"helpful_rating" gorm:"size:20"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// SubmitRequest is the homework submission payload.
type SubmitRequest struct {
	SubjectID uint   `json:"subject_id" binding:"required"`
	TopicID   *uint  `json:"topic_id"`
	Content   string `json:"content" binding:"required"`
	FileURL   string `json:"file_url"`
}

// FeedbackRequest rates a tutoring response.
type FeedbackRequest struct {
	ResponseID uint   `json:"response_id" binding:"required"`
	Rating     string `json:"rating" binding:"required,oneof=not_helpful somewhat_helpful very_helpful"`
}

// ConversationRequest is one tutoring conversation turn, sent over HTTP
// or as a websocket frame.
type ConversationRequest struct {
	SessionID uint   `json:"session_id" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

// SubmitResult is returned from a homework submission.
type SubmitResult struct {
	Session      *Session  `json:"session"`
	Question     *Question `json:"question"`
	Response     *Response `json:"response"`
	PointsEarned int       `json:"points_earned"`
	LeveledUp    bool      `json:"leveled_up"`
	NewLevel     int       `json:"new_level"`
}
