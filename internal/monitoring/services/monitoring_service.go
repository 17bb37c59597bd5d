package services

import (
	"strings"
	"time"

	"github.com/architect/natural-teacher/internal/common/errors"
	gamification "github.com/architect/natural-teacher/internal/gamification/services"
	homeworkModels "github.com/architect/natural-teacher/internal/homework/models"
	homeworkRepository "github.com/architect/natural-teacher/internal/homework/repository"
	identityRepository "github.com/architect/natural-teacher/internal/identity/repository"
	"github.com/architect/natural-teacher/internal/monitoring/models"
	"github.com/architect/natural-teacher/internal/monitoring/repository"
	"github.com/architect/natural-teacher/pkg/logger"
	"go.uber.org/zap"
)

// requireLink loads the monitor-student link and checks it grants at
// least the required permission.
func requireLink(monitorID, studentID uint, required models.PermissionLevel) (*models.Monitoring, error) {
	link, err := repository.FindMonitoring(monitorID, studentID)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, errors.Forbidden("you do not monitor this student")
	}
	if !link.PermissionLevel.Covers(required) {
		return nil, errors.Forbidden("your permission level does not allow this")
	}
	return link, nil
}

// Students lists the monitor's linked students.
func Students(monitorID uint) ([]models.Monitoring, error) {
	return repository.ListMonitoredStudents(monitorID)
}

// StudentProgress is the monitored view of a student: profile summary,
// per-subject activity, recent achievements, latest report and recent
// sessions. Requires view permission.
type StudentProgress struct {
	Gamification    *gamification.UserData               `json:"gamification"`
	Sessions        *homeworkRepository.SessionStats     `json:"sessions"`
	SubjectActivity []homeworkRepository.SubjectActivity `json:"subject_activity"`
	LatestReport    *models.ProgressReport               `json:"latest_report,omitempty"`
	RecentSessions  []homeworkModels.Session             `json:"recent_sessions"`
}

// GetStudentProgress assembles a student's progress for a monitor.
func GetStudentProgress(monitorID, studentID uint) (*StudentProgress, error) {
	if _, err := requireLink(monitorID, studentID, models.PermissionView); err != nil {
		return nil, err
	}

	data, err := gamification.UserProgress(studentID)
	if err != nil {
		return nil, err
	}
	stats, err := homeworkRepository.GetSessionStats(studentID)
	if err != nil {
		return nil, err
	}
	activity, err := homeworkRepository.GetSubjectActivity(studentID)
	if err != nil {
		return nil, err
	}
	latest, err := repository.LatestReport(studentID)
	if err != nil {
		return nil, err
	}
	recent, err := homeworkRepository.ListRecentSessions(studentID, 10)
	if err != nil {
		return nil, err
	}

	return &StudentProgress{
		Gamification:    data,
		Sessions:        stats,
		SubjectActivity: activity,
		LatestReport:    latest,
		RecentSessions:  recent,
	}, nil
}

// GetStudentSessions returns a page of the monitored student's sessions.
// Requires view permission.
func GetStudentSessions(monitorID, studentID uint, page, pageSize int) ([]homeworkModels.Session, int64, error) {
	if _, err := requireLink(monitorID, studentID, models.PermissionView); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return homeworkRepository.ListSessions(studentID, page, pageSize)
}

// GetStudentSession returns one of the monitored student's sessions with
// its full conversation. Requires view permission.
func GetStudentSession(monitorID, studentID, sessionID uint) (*homeworkModels.Session, error) {
	if _, err := requireLink(monitorID, studentID, models.PermissionView); err != nil {
		return nil, err
	}

	session, err := homeworkRepository.GetSessionByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != studentID {
		return nil, errors.NotFound("session")
	}
	return session, nil
}

const defaultReportDays = 30

// GenerateReport builds and stores a progress report over the last
// periodDays, optionally scoped to one subject. Returns nil when the
// window holds no completed sessions. Requires manage permission.
func GenerateReport(monitorID, studentID uint, subjectID *uint, periodDays int) (*models.ProgressReport, error) {
	if _, err := requireLink(monitorID, studentID, models.PermissionManage); err != nil {
		return nil, err
	}
	if periodDays < 1 {
		periodDays = defaultReportDays
	}

	end := time.Now()
	start := end.AddDate(0, 0, -periodDays)

	var scope uint
	if subjectID != nil {
		scope = *subjectID
	}
	topics, err := homeworkRepository.GetTopicActivityInWindow(studentID, scope, start, end)
	if err != nil {
		return nil, err
	}
	if len(topics) == 0 {
		return nil, nil
	}

	report := &models.ProgressReport{
		UserID:              studentID,
		SubjectID:           subjectID,
		GeneratedBy:         monitorID,
		Strengths:           strengthsFrom(topics),
		AreasForImprovement: improvementsFrom(topics),
		Recommendations:     recommendationsFor(topics),
		PeriodStart:         start,
		PeriodEnd:           end,
	}
	if err := repository.CreateReport(report); err != nil {
		return nil, err
	}

	logger.Info("progress report generated",
		zap.Uint("student_id", studentID), zap.Uint("monitor_id", monitorID))
	return report, nil
}

// strengthsFrom names the top three topics by points earned. The input is
// already sorted by points descending.
func strengthsFrom(topics []homeworkRepository.TopicActivity) string {
	names := make([]string, 0, 3)
	for _, t := range topics {
		names = append(names, t.TopicName)
		if len(names) == 3 {
			break
		}
	}
	return "Strong performance in: " + strings.Join(names, ", ")
}

// improvementsFrom names topics with fewer than two sessions in the window.
func improvementsFrom(topics []homeworkRepository.TopicActivity) string {
	var names []string
	for _, t := range topics {
		if t.Sessions < 2 {
			names = append(names, t.TopicName)
		}
	}
	if len(names) == 0 {
		return "Good coverage across all practiced topics."
	}
	return "Needs more practice in: " + strings.Join(names, ", ")
}

func recommendationsFor(topics []homeworkRepository.TopicActivity) string {
	for _, t := range topics {
		if t.Sessions < 2 {
			return "Encourage regular short sessions in the topics that need practice, and keep the daily streak going for bonus points."
		}
	}
	return "Keep up the steady routine; consider trying topics at the next difficulty level."
}

// GetReports lists a student's stored reports. Requires view permission.
func GetReports(monitorID, studentID uint) ([]models.ProgressReport, error) {
	if _, err := requireLink(monitorID, studentID, models.PermissionView); err != nil {
		return nil, err
	}
	return repository.ListReports(studentID)
}

// AddStudent links a student, found by email, to the monitor. The link
// defaults to view permission.
func AddStudent(monitorID uint, studentEmail, permissionLevel string) (*models.Monitoring, error) {
	student, err := identityRepository.GetStudentByEmail(studentEmail)
	if err != nil {
		return nil, err
	}

	existing, err := repository.FindMonitoring(monitorID, student.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.Conflict("you already monitor this student")
	}

	level := models.PermissionLevel(permissionLevel)
	if !level.Valid() {
		level = models.PermissionView
	}

	link := &models.Monitoring{
		MonitorID:       monitorID,
		StudentID:       student.ID,
		PermissionLevel: level,
	}
	if err := repository.CreateMonitoring(link); err != nil {
		return nil, err
	}
	link.Student = *student
	return link, nil
}

// UpdatePermission changes the permission on an existing link.
func UpdatePermission(monitorID, studentID uint, permissionLevel string) (*models.Monitoring, error) {
	link, err := repository.FindMonitoring(monitorID, studentID)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, errors.NotFound("monitoring link")
	}

	level := models.PermissionLevel(permissionLevel)
	if !level.Valid() {
		return nil, errors.BadRequest("invalid permission level")
	}

	link.PermissionLevel = level
	if err := repository.SaveMonitoring(link); err != nil {
		return nil, err
	}
	return link, nil
}

// RemoveStudent deletes the monitor's link to a student.
func RemoveStudent(monitorID, studentID uint) error {
	link, err := repository.FindMonitoring(monitorID, studentID)
	if err != nil {
		return err
	}
	if link == nil {
		return errors.NotFound("monitoring link")
	}
	return repository.DeleteMonitoring(link)
}
