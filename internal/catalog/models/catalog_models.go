package models

import (
	"time"
)

// Subject is a top-level curriculum area (mathematics, english, ...).
type Subject struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"unique;not null" json:"name"`
	Description  string    `json:"description"`
	Icon         string    `json:"icon"`
	DisplayOrder int       `gorm:"default:0" json:"display_order"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Topics       []Topic   `json:"topics,omitempty"`
}

// Topic is a unit of study inside a subject, bounded by an age range.
type Topic struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	SubjectID       uint      `gorm:"not null;index" json:"subject_id"`
	Name            string    `gorm:"not null" json:"name"`
	Description     string    `json:"description"`
	AgeGroupMin     int       `gorm:"default:5" json:"age_group_min"`
	AgeGroupMax     int       `gorm:"default:15" json:"age_group_max"`
	DifficultyLevel int       `gorm:"default:1" json:"difficulty_level"`
	PointsAvailable int       `gorm:"default:10" json:"points_available"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Subject         *Subject  `json:"subject,omitempty"`
}

// AppropriateFor reports whether the topic suits a student of the given age.
func (t *Topic) AppropriateFor(age int) bool {
	return age >= t.AgeGroupMin && age <= t.AgeGroupMax
}
