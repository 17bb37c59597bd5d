package handlers

import (
	"net/http"
	"strconv"

	"github.com/architect/natural-teacher/internal/common/errors"
	"github.com/architect/natural-teacher/internal/common/middleware"
	"github.com/architect/natural-teacher/internal/gamification/models"
	"github.com/architect/natural-teacher/internal/gamification/services"
	"github.com/gin-gonic/gin"
)

// GetUserData handles GET /gamification/user-data
func GetUserData(c *gin.Context) {
	data, err := services.UserProgress(middleware.UserID(c))
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, data)
}

// CheckAchievements handles POST /gamification/check-achievements, running
// an award sweep on demand and returning the refreshed state.
func CheckAchievements(c *gin.Context) {
	userID := middleware.UserID(c)
	if err := services.CheckAndAward(userID); err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	data, err := services.UserProgress(userID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, data)
}

// RedeemReward handles POST /gamification/redeem-reward/:id
func RedeemReward(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	claimed, err := services.RedeemReward(middleware.UserID(c), id)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, claimed)
}

// UpdateChallengeProgress handles POST /gamification/challenges/:id/progress
func UpdateChallengeProgress(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.Validation("invalid progress payload", err.Error()))
		return
	}

	record, err := services.UpdateChallengeProgress(middleware.UserID(c), id, req.Progress)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// GetLeaderboard handles GET /gamification/leaderboard?type=&limit=
func GetLeaderboard(c *gin.Context) {
	periodType := c.DefaultQuery("type", models.PeriodWeekly)
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		limit = 10
	}

	result, err := services.Leaderboard(middleware.UserID(c), periodType, limit)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		middleware.JSONErrorResponse(c, errors.BadRequest("invalid "+name+" parameter"))
		return 0, false
	}
	return uint(id), true
}
