package models

import (
	"time"

	identityModels "github.com/architect/natural-teacher/internal/identity/models"
)

// PermissionLevel orders monitoring capabilities: each level includes
// everything below it.
type PermissionLevel string

const (
	PermissionView     PermissionLevel = "view"
	PermissionInteract PermissionLevel = "interact"
	PermissionManage   PermissionLevel = "manage"
)

var permissionRank = map[PermissionLevel]int{
	PermissionView:     1,
	PermissionInteract: 2,
	PermissionManage:   3,
}

// Valid reports whether the level is one of the known levels.
func (p PermissionLevel) Valid() bool {
	_, ok := permissionRank[p]
	return ok
}

// Covers reports whether the level grants at least the required level.
func (p PermissionLevel) Covers(required PermissionLevel) bool {
	return permissionRank[p] >= permissionRank[required]
}

// Monitoring links a parent or teacher to one student they oversee.
type Monitoring struct {
	ID                      uint            `json:"id" gorm:"primaryKey"`
	MonitorID               uint            `json:"monitor_id" gorm:"not null;uniqueIndex:idx_monitor_student"`
	StudentID               uint            `json:"student_id" gorm:"not null;uniqueIndex:idx_monitor_student"`
	PermissionLevel         PermissionLevel `json:"permission_level" gorm:"size:20;default:'view'"`
	NotificationPreferences string          `json:"notification_preferences,omitempty" gorm:"type:text"`
	CreatedAt               time.Time       `json:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at"`

	Monitor identityModels.User `json:"-" gorm:"foreignKey:MonitorID"`
	Student identityModels.User `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

// ProgressReport is a generated snapshot of a student's progress over a
// reporting window.
type ProgressReport struct {
	ID                  uint      `json:"id" gorm:"primaryKey"`
	UserID              uint      `json:"user_id" gorm:"not null;index"`
	SubjectID           *uint     `json:"subject_id"`
	GeneratedBy         uint      `json:"generated_by" gorm:"not null"`
	Strengths           string    `json:"strengths" gorm:"type:text"`
	AreasForImprovement string    `json:"areas_for_improvement" gorm:"type:text"`
	Recommendations     string    `json:"recommendations" gorm:"type:text"`
	PeriodStart         time.Time `json:"period_start"`
	PeriodEnd           time.Time `json:"period_end"`
	CreatedAt           time.Time `json:"created_at"`
}

// AddStudentRequest links a student to the requesting monitor.
type AddStudentRequest struct {
	StudentEmail    string `json:"student_email" binding:"required,email"`
	PermissionLevel string `json:"permission_level" binding:"omitempty,oneof=view interact manage"`
}

// ReportRequest scopes report generation.
type ReportRequest struct {
	SubjectID  *uint `json:"subject_id"`
	PeriodDays int   `json:"period_days" binding:"omitempty,min=1,max=365"`
}

// UpdatePermissionRequest changes the permission on an existing link.
type UpdatePermissionRequest struct {
	PermissionLevel string `json:"permission_level" binding:"required,oneof=view interact manage"`
}
