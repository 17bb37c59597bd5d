package repository

import (
	"github.com/architect/natural-teacher/internal/common/database"
	"github.com/architect/natural-teacher/internal/common/errors"
	"github.com/architect/natural-teacher/internal/monitoring/models"
)

// ListMonitoredStudents returns the monitor's student links with the
// student accounts preloaded.
func ListMonitoredStudents(monitorID uint) ([]models.Monitoring, error) {
	var links []models.Monitoring
	result := database.DB.Preload("Student").Preload("Student.Profile").
		Where("monitor_id = ?", monitorID).
		Order("id").
		Find(&links)
	if result.Error != nil {
		return nil, errors.Internal("failed to list monitored students", result.Error.Error())
	}
	return links, nil
}

// FindMonitoring returns the link between a monitor and a student, or nil
// when none exists.
func FindMonitoring(monitorID, studentID uint) (*models.Monitoring, error) {
	var links []models.Monitoring
	result := database.DB.
		Where("monitor_id = ? AND student_id = ?", monitorID, studentID).
		Limit(1).
		Find(&links)
	if result.Error != nil {
		return nil, errors.Internal("failed to load monitoring link", result.Error.Error())
	}
	if len(links) == 0 {
		return nil, nil
	}
	return &links[0], nil
}

// CreateMonitoring inserts a monitor-student link.
func CreateMonitoring(link *models.Monitoring) error {
	if result := database.DB.Create(link); result.Error != nil {
		return errors.Internal("failed to create monitoring link", result.Error.Error())
	}
	return nil
}

// SaveMonitoring persists link mutations.
func SaveMonitoring(link *models.Monitoring) error {
	if result := database.DB.Save(link); result.Error != nil {
		return errors.Internal("failed to save monitoring link", result.Error.Error())
	}
	return nil
}

// DeleteMonitoring removes a monitor-student link.
func DeleteMonitoring(link *models.Monitoring) error {
	if result := database.DB.Delete(link); result.Error != nil {
		return errors.Internal("failed to delete monitoring link", result.Error.Error())
	}
	return nil
}

// CreateReport stores a generated progress report.
func CreateReport(report *models.ProgressReport) error {
	if result := database.DB.Create(report); result.Error != nil {
		return errors.Internal("failed to create report", result.Error.Error())
	}
	return nil
}

// ListReports returns a student's reports, newest first.
func ListReports(studentID uint) ([]models.ProgressReport, error) {
	var reports []models.ProgressReport
	result := database.DB.
		Where("user_id = ?", studentID).
		Order("created_at DESC").
		Find(&reports)
	if result.Error != nil {
		return nil, errors.Internal("failed to list reports", result.Error.Error())
	}
	return reports, nil
}

// LatestReport returns the student's newest report, or nil when none
// has been generated.
func LatestReport(studentID uint) (*models.ProgressReport, error) {
	var reports []models.ProgressReport
	result := database.DB.
		Where("user_id = ?", studentID).
		Order("created_at DESC").
		Limit(1).
		Find(&reports)
	if result.Error != nil {
		return nil, errors.Internal("failed to load latest report", result.Error.Error())
	}
	if len(reports) == 0 {
		return nil, nil
	}
	return &reports[0], nil
}
