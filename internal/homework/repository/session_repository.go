package repository

import (
	"time"

	"github.com/architect/natural-teacher/internal/common/database"
	"github.com/architect/natural-teacher/internal/common/errors"
	"github.com/architect/natural-teacher/internal/homework/models"
	"gorm.io/gorm"
)

// CreateSession starts a new active session.
func CreateSession(tx *gorm.DB, session *models.Session) error {
	if result := tx.Create(session); result.Error != nil {
		return errors.Internal("failed to create session", result.Error.Error())
	}
	return nil
}

// GetSessionByID loads a session with its subject, topic and questions.
func GetSessionByID(sessionID uint) (*models.Session, error) {
	var session models.Session
	result := database.DB.
		Preload("Subject").
		Preload("Topic").
		Preload("Questions").
		Preload("Questions.Responses").
		First(&session, sessionID)
	if result.Error != nil {
		return nil, errors.NotFound("session")
	}
	return &session, nil
}

// CompleteSession marks a session completed, recording its points and
// duration.
func CompleteSession(tx *gorm.DB, session *models.Session, points int, at time.Time) error {
	session.Status = models.SessionCompleted
	session.PointsEarned = points
	session.CompletedAt = &at
	session.Duration = int(at.Sub(session.StartedAt).Seconds())
	if result := tx.Save(session); result.Error != nil {
		return errors.Internal("failed to complete session", result.Error.Error())
	}
	return nil
}

// ListSessions returns a page of the student's sessions, newest first.
// Monitoring uses this view, which includes active sessions.
func ListSessions(userID uint, page, pageSize int) ([]models.Session, int64, error) {
	return listSessions(database.DB.Model(&models.Session{}).
		Where("user_id = ?", userID), page, pageSize)
}

// ListCompletedSessions returns a page of the student's completed
// sessions, newest first. An active session left behind by a failed
// completion never shows up in history.
func ListCompletedSessions(userID uint, page, pageSize int) ([]models.Session, int64, error) {
	return listSessions(database.DB.Model(&models.Session{}).
		Where("user_id = ? AND status = ?", userID, models.SessionCompleted), page, pageSize)
}

func listSessions(query *gorm.DB, page, pageSize int) ([]models.Session, int64, error) {
	var sessions []models.Session
	var total int64

	if result := query.Count(&total); result.Error != nil {
		return nil, 0, errors.Internal("failed to count sessions", result.Error.Error())
	}

	result := query.
		Preload("Subject").
		Preload("Topic").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&sessions)
	if result.Error != nil {
		return nil, 0, errors.Internal("failed to list sessions", result.Error.Error())
	}
	return sessions, total, nil
}

// CountCompletedSessions counts the student's completed sessions, optionally
// restricted to one subject. A zero subjectID counts across all subjects.
func CountCompletedSessions(userID uint, subjectID uint) (int64, error) {
	var count int64
	query := database.DB.Model(&models.Session{}).
		Where("user_id = ? AND status = ?", userID, models.SessionCompleted)
	if subjectID != 0 {
		query = query.Where("subject_id = ?", subjectID)
	}
	if result := query.Count(&count); result.Error != nil {
		return 0, errors.Internal("failed to count sessions", result.Error.Error())
	}
	return count, nil
}

// SumPointsInWindow sums points earned from completed sessions per student
// within [from, to). Students with no completed sessions are absent from
// the returned map.
func SumPointsInWindow(userIDs []uint, from, to time.Time) (map[uint]int, error) {
	if len(userIDs) == 0 {
		return map[uint]int{}, nil
	}

	type row struct {
		UserID uint
		Total  int
	}
	var rows []row
	result := database.DB.Model(&models.Session{}).
		Select("user_id, COALESCE(SUM(points_earned), 0) AS total").
		Where("user_id IN ? AND status = ?", userIDs, models.SessionCompleted).
		Where("completed_at >= ? AND completed_at < ?", from, to).
		Group("user_id").
		Scan(&rows)
	if result.Error != nil {
		return nil, errors.Internal("failed to sum session points", result.Error.Error())
	}

	sums := make(map[uint]int, len(rows))
	for _, r := range rows {
		sums[r.UserID] = r.Total
	}
	return sums, nil
}

// SessionStats aggregates a student's session history for monitoring.
type SessionStats struct {
	TotalSessions     int64 `json:"total_sessions"`
	CompletedSessions int64 `json:"completed_sessions"`
	TotalPoints       int   `json:"total_points_earned"`
}

// GetSessionStats computes aggregate counts for one student.
func GetSessionStats(userID uint) (*SessionStats, error) {
	var stats SessionStats

	result := database.DB.Model(&models.Session{}).
		Where("user_id = ?", userID).
		Count(&stats.TotalSessions)
	if result.Error != nil {
		return nil, errors.Internal("failed to load session stats", result.Error.Error())
	}

	result = database.DB.Model(&models.Session{}).
		Where("user_id = ? AND status = ?", userID, models.SessionCompleted).
		Count(&stats.CompletedSessions)
	if result.Error != nil {
		return nil, errors.Internal("failed to load session stats", result.Error.Error())
	}

	result = database.DB.Model(&models.Session{}).
		Where("user_id = ? AND status = ?", userID, models.SessionCompleted).
		Select("COALESCE(SUM(points_earned), 0)").
		Scan(&stats.TotalPoints)
	if result.Error != nil {
		return nil, errors.Internal("failed to load session stats", result.Error.Error())
	}
	return &stats, nil
}

// SubjectActivity is a student's completed-session rollup for one subject.
type SubjectActivity struct {
	SubjectID   uint   `json:"subject_id"`
	SubjectName string `json:"subject_name"`
	Sessions    int64  `json:"sessions"`
	Points      int    `json:"points"`
}

// GetSubjectActivity rolls up the student's completed sessions by subject.
func GetSubjectActivity(userID uint) ([]SubjectActivity, error) {
	var rows []SubjectActivity
	result := database.DB.Model(&models.Session{}).
		Select("sessions.subject_id, subjects.name AS subject_name, COUNT(*) AS sessions, COALESCE(SUM(sessions.points_earned), 0) AS points").
		Joins("JOIN subjects ON subjects.id = sessions.subject_id").
		Where("sessions.user_id = ? AND sessions.status = ?", userID, models.SessionCompleted).
		Group("sessions.subject_id, subjects.name").
		Order("points DESC").
		Scan(&rows)
	if result.Error != nil {
		return nil, errors.Internal("failed to load subject activity", result.Error.Error())
	}
	return rows, nil
}

// TopicActivity is a student's completed-session rollup for one topic
// within a reporting window.
type TopicActivity struct {
	TopicID   uint   `json:"topic_id"`
	TopicName string `json:"topic_name"`
	Sessions  int64  `json:"sessions"`
	Points    int    `json:"points"`
}

// GetTopicActivityInWindow rolls up completed sessions by topic inside
// [from, to). Sessions without a topic are excluded; a zero subjectID
// covers all subjects.
func GetTopicActivityInWindow(userID, subjectID uint, from, to time.Time) ([]TopicActivity, error) {
	query := database.DB.Model(&models.Session{}).
		Select("sessions.topic_id, topics.name AS topic_name, COUNT(*) AS sessions, COALESCE(SUM(sessions.points_earned), 0) AS points").
		Joins("JOIN topics ON topics.id = sessions.topic_id").
		Where("sessions.user_id = ? AND sessions.status = ?", userID, models.SessionCompleted).
		Where("sessions.completed_at >= ? AND sessions.completed_at < ?", from, to)
	if subjectID != 0 {
		query = query.Where("sessions.subject_id = ?", subjectID)
	}

	var rows []TopicActivity
	result := query.
		Group("sessions.topic_id, topics.name").
		Order("points DESC").
		Scan(&rows)
	if result.Error != nil {
		return nil, errors.Internal("failed to load topic activity", result.Error.Error())
	}
	return rows, nil
}

// ListRecentSessions returns the student's newest sessions.
func ListRecentSessions(userID uint, limit int) ([]models.Session, error) {
	var sessions []models.Session
	result := database.DB.
		Preload("Subject").
		Preload("Topic").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&sessions)
	if result.Error != nil {
		return nil, errors.Internal("failed to list sessions", result.Error.Error())
	}
	return sessions, nil
}
