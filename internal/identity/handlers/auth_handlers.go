package handlers

import (
	"net/http"

	"github.com/architect/natural-teacher/internal/common/errors"
	"github.com/architect/natural-teacher/internal/common/middleware"
	"github.com/architect/natural-teacher/internal/identity/models"
	"github.com/architect/natural-teacher/internal/identity/services"
	"github.com/gin-gonic/gin"
)

// Register handles POST /register
func Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.Validation("invalid registration payload", err.Error()))
		return
	}

	resp, err := services.Register(&req)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /login
func Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.Validation("invalid login payload", err.Error()))
		return
	}

	resp, err := services.Login(&req)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout handles POST /logout
func Logout(c *gin.Context) {
	services.Logout(c.GetString(middleware.ContextToken))
	c.JSON(http.StatusOK, gin.H{"message": "successfully logged out"})
}

// CurrentUser handles GET /user
func CurrentUser(c *gin.Context) {
	user, err := services.CurrentUser(middleware.UserID(c))
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
