package handlers

import (
	"net/http"
	"strconv"

	"github.com/architect/natural-teacher/internal/common/database"
	"github.com/architect/natural-teacher/internal/common/errors"
	"github.com/architect/natural-teacher/internal/common/middleware"
	"github.com/architect/natural-teacher/internal/homework/models"
	"github.com/architect/natural-teacher/internal/homework/services"
	"github.com/gin-gonic/gin"
)

// Submit handles POST /homework/submit
func Submit(c *gin.Context) {
	var req models.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.Validation("invalid homework payload", err.Error()))
		return
	}

	result, err := services.Submit(middleware.UserID(c), &req)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// History handles GET /homework/history
func History(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	sessions, total, err := services.History(middleware.UserID(c), page, pageSize)
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

// SessionDetail handles GET /homework/session/:id
func SessionDetail(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	session, err := services.SessionDetail(middleware.UserID(c), id)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// Feedback handles POST /homework/feedback
func Feedback(c *gin.Context) {
	var req models.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.Validation("invalid feedback payload", err.Error()))
		return
	}

	response, err := services.Feedback(middleware.UserID(c), req.ResponseID, req.Rating)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		middleware.JSONErrorResponse(c, errors.BadRequest("invalid "+name+" parameter"))
		return 0, false
	}
	return uint(id), true
}
