package handlers

import (
	"net/http"
	"strconv"

	"github.com/architect/natural-teacher/internal/catalog/services"
	"github.com/architect/natural-teacher/internal/common/errors"
	"github.com/architect/natural-teacher/internal/common/middleware"
	identityServices "github.com/architect/natural-teacher/internal/identity/services"
	"github.com/gin-gonic/gin"
)

// GetSubjects handles GET /subjects. With ?for=me, students only see
// subjects carrying age-appropriate topics.
func GetSubjects(c *gin.Context) {
	user, err := identityServices.CurrentUser(middleware.UserID(c))
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	if c.Query("for") != "me" {
		user = nil
	}

	subjects, err := services.GetSubjects(user)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, subjects)
}

// GetSubject handles GET /subjects/:id
func GetSubject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	subject, err := services.GetSubject(id)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, subject)
}

// GetSubjectTopics handles GET /subjects/:id/topics
func GetSubjectTopics(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if _, err := services.GetSubject(id); err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	topics, err := services.GetTopics(id, nil)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, topics)
}

// GetTopics handles GET /topics. Supports ?difficulty= and ?for=me.
func GetTopics(c *gin.Context) {
	if difficulty := c.Query("difficulty"); difficulty != "" {
		level, err := strconv.Atoi(difficulty)
		if err != nil {
			middleware.JSONErrorResponse(c, errors.BadRequest("invalid difficulty level"))
			return
		}
		topics, err := services.GetTopicsByDifficulty(level)
		if err != nil {
			middleware.JSONErrorResponse(c, err)
			return
		}
		c.JSON(http.StatusOK, topics)
		return
	}

	var err error
	user, err := identityServices.CurrentUser(middleware.UserID(c))
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}
	if c.Query("for") != "me" {
		user = nil
	}

	topics, err := services.GetTopics(0, user)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, topics)
}

// GetTopic handles GET /topics/:id
func GetTopic(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	topic, err := services.GetTopic(id)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, topic)
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		middleware.JSONErrorResponse(c, errors.BadRequest("invalid "+name+" parameter"))
		return 0, false
	}
	return uint(id), true
}
