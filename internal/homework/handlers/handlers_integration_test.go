package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/architect/natural-teacher/internal/ai"
	catalogModels "github.com/architect/natural-teacher/internal/catalog/models"
	"github.com/architect/natural-teacher/internal/common/database"
	"github.com/architect/natural-teacher/internal/common/middleware"
	"github.com/architect/natural-teacher/internal/homework/models"
	identityModels "github.com/architect/natural-teacher/internal/identity/models"
	"github.com/architect/natural-teacher/internal/settings"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDBCounter atomic.Int64

func setupTestDB(t *testing.T) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:homework_handlers_test_%d?mode=memory&cache=shared", testDBCounter.Add(1))
	require.NoError(t, database.InitWithType("sqlite", dsn))
	require.NoError(t, database.AutoMigrate())
	settings.Default.InvalidateAll()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/real-time-conversation":
			w.Write([]byte(`{"reply":"Think about the remainder."}`))
		default:
			w.Write([]byte(`{"content":"Well reasoned.","explanation_level":2,"created_by_agent":"Math Tutor"}`))
		}
	}))
	ai.Init(server.URL, 2*time.Second)

	t.Cleanup(func() {
		server.Close()
		ai.Default = nil
		database.Close()
		settings.Default.InvalidateAll()
	})
}

// setupTestRouter creates a Gin router with homework handlers, with the
// authenticated user pinned to userID.
func setupTestRouter(userID uint) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
	})

	router.POST("/api/v1/homework/submit", Submit)
	router.GET("/api/v1/homework/history", History)
	router.GET("/api/v1/homework/session/:id", SessionDetail)
	router.POST("/api/v1/homework/feedback", Feedback)
	router.POST("/api/v1/homework/real-time-conversation", RealTimeConversation)

	return router
}

func newStudent(t *testing.T, email string) *identityModels.User {
	t.Helper()

	age := 9
	now := time.Now()
	user := &identityModels.User{
		Name:     "Test Student",
		Email:    email,
		Password: "x",
		Role:     identityModels.RoleStudent,
		Age:      &age,
		Profile: &identityModels.Profile{
			CurrentLevel:  1,
			DailyStreak:   1,
			LastLoginDate: &now,
		},
	}
	require.NoError(t, database.DB.Create(user).Error)
	return user
}

func newSubject(t *testing.T, name string) *catalogModels.Subject {
	t.Helper()
	subject := &catalogModels.Subject{Name: name, IsActive: true}
	require.NoError(t, database.DB.Create(subject).Error)
	return subject
}

func submitHomework(t *testing.T, router *gin.Engine, subjectID uint, content string) *models.SubmitResult {
	t.Helper()

	payload, _ := json.Marshal(models.SubmitRequest{SubjectID: subjectID, Content: content})
	req, _ := http.NewRequest("POST", "/api/v1/homework/submit", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var result models.SubmitResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	return &result
}

func TestSubmit_Success(t *testing.T) {
	setupTestDB(t)
	user := newStudent(t, "submit@example.com")
	subject := newSubject(t, "Mathematics")
	router := setupTestRouter(user.ID)

	result := submitHomework(t, router, subject.ID, "What is 12 / 4?")

	assert.Equal(t, models.SessionCompleted, result.Session.Status)
	assert.Equal(t, "Well reasoned.", result.Response.Content)
	assert.Equal(t, 10, result.PointsEarned)
}

func TestSubmit_MissingContent(t *testing.T) {
	setupTestDB(t)
	user := newStudent(t, "empty@example.com")
	subject := newSubject(t, "Mathematics")
	router := setupTestRouter(user.ID)

	payload := []byte(fmt.Sprintf(`{"subject_id":%d}`, subject.ID))
	req, _ := http.NewRequest("POST", "/api/v1/homework/submit", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmit_UnknownSubject(t *testing.T) {
	setupTestDB(t)
	user := newStudent(t, "nosubject@example.com")
	router := setupTestRouter(user.ID)

	payload := []byte(`{"subject_id":999,"content":"hello"}`)
	req, _ := http.NewRequest("POST", "/api/v1/homework/submit", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHistory_Paginated(t *testing.T) {
	setupTestDB(t)
	user := newStudent(t, "history@example.com")
	subject := newSubject(t, "Science")
	router := setupTestRouter(user.ID)

	submitHomework(t, router, subject.ID, "q1")
	submitHomework(t, router, subject.ID, "q2")

	req, _ := http.NewRequest("GET", "/api/v1/homework/history?page=1&page_size=1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 2, body["total"])
}

func TestSessionDetail_NotOwnSession(t *testing.T) {
	setupTestDB(t)
	owner := newStudent(t, "owner@example.com")
	intruder := newStudent(t, "intruder@example.com")
	subject := newSubject(t, "Reading")

	ownerRouter := setupTestRouter(owner.ID)
	result := submitHomework(t, ownerRouter, subject.ID, "my question")

	intruderRouter := setupTestRouter(intruder.ID)
	req, _ := http.NewRequest("GET", fmt.Sprintf("/api/v1/homework/session/%d", result.Session.ID), nil)
	w := httptest.NewRecorder()
	intruderRouter.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFeedback_Success(t *testing.T) {
	setupTestDB(t)
	user := newStudent(t, "rater@example.com")
	subject := newSubject(t, "Mathematics")
	router := setupTestRouter(user.ID)

	result := submitHomework(t, router, subject.ID, "rate this")

	payload, _ := json.Marshal(models.FeedbackRequest{
		ResponseID: result.Response.ID,
		Rating:     models.RatingVeryHelpful,
	})
	req, _ := http.NewRequest("POST", "/api/v1/homework/feedback", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFeedback_InvalidRating(t *testing.T) {
	setupTestDB(t)
	user := newStudent(t, "badrating@example.com")
	router := setupTestRouter(user.ID)

	req, _ := http.NewRequest("POST", "/api/v1/homework/feedback",
		bytes.NewReader([]byte(`{"response_id":1,"rating":"amazing"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRealTimeConversation(t *testing.T) {
	setupTestDB(t)
	user := newStudent(t, "chatter@example.com")
	subject := newSubject(t, "Mathematics")
	router := setupTestRouter(user.ID)

	result := submitHomework(t, router, subject.ID, "what is 17 mod 5?")

	payload, _ := json.Marshal(models.ConversationRequest{
		SessionID: result.Session.ID,
		Message:   "I got 2, is that right?",
	})
	req, _ := http.NewRequest("POST", "/api/v1/homework/real-time-conversation", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Think about the remainder.", body["reply"])
}
