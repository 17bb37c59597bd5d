package handlers

import (
	"net/http"
	"strconv"

	"github.com/architect/natural-teacher/internal/common/database"
	"github.com/architect/natural-teacher/internal/common/errors"
	"github.com/architect/natural-teacher/internal/common/middleware"
	"github.com/architect/natural-teacher/internal/monitoring/models"
	"github.com/architect/natural-teacher/internal/monitoring/services"
	"github.com/gin-gonic/gin"
)

// GetStudents handles GET /monitoring/students
func GetStudents(c *gin.Context) {
	links, err := services.Students(middleware.UserID(c))
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, links)
}

// AddStudent handles POST /monitoring/students
func AddStudent(c *gin.Context) {
	var req models.AddStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.Validation("invalid student payload", err.Error()))
		return
	}

	link, err := services.AddStudent(middleware.UserID(c), req.StudentEmail, req.PermissionLevel)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, link)
}

// UpdateStudent handles PUT /monitoring/student/:id
func UpdateStudent(c *gin.Context) {
	studentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.Validation("invalid permission payload", err.Error()))
		return
	}

	link, err := services.UpdatePermission(middleware.UserID(c), studentID, req.PermissionLevel)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, link)
}

// RemoveStudent handles DELETE /monitoring/student/:id
func RemoveStudent(c *gin.Context) {
	studentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := services.RemoveStudent(middleware.UserID(c), studentID); err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetStudentProgress handles GET /monitoring/student/:id/progress
func GetStudentProgress(c *gin.Context) {
	studentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	progress, err := services.GetStudentProgress(middleware.UserID(c), studentID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// GetStudentSessions handles GET /monitoring/student/:id/sessions
func GetStudentSessions(c *gin.Context) {
	studentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	sessions, total, err := services.GetStudentSessions(middleware.UserID(c), studentID, page, pageSize)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	result := database.PaginatedResult{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Data:     sessions,
	}
	result.Calculate()
	c.JSON(http.StatusOK, result)
}

// GetStudentSession handles GET /monitoring/student/:id/session/:session_id
func GetStudentSession(c *gin.Context) {
	studentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	sessionID, ok := pathID(c, "session_id")
	if !ok {
		return
	}

	session, err := services.GetStudentSession(middleware.UserID(c), studentID, sessionID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// GenerateReport handles POST /monitoring/student/:id/report
func GenerateReport(c *gin.Context) {
	studentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		middleware.JSONErrorResponse(c, errors.Validation("invalid report payload", err.Error()))
		return
	}

	report, err := services.GenerateReport(middleware.UserID(c), studentID, req.SubjectID, req.PeriodDays)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	if report == nil {
		c.JSON(http.StatusOK, gin.H{
			"report":  nil,
			"message": "no completed sessions in the reporting period",
		})
		return
	}

	c.JSON(http.StatusCreated, report)
}

// GetReports handles GET /monitoring/student/:id/reports
func GetReports(c *gin.Context) {
	studentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	reports, err := services.GetReports(middleware.UserID(c), studentID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, reports)
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		middleware.JSONErrorResponse(c, errors.BadRequest("invalid "+name+" parameter"))
		return 0, false
	}
	return uint(id), true
}
