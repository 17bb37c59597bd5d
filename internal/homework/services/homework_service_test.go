package services

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/architect/natural-teacher/internal/ai"
	catalogModels "github.com/architect/natural-teacher/internal/catalog/models"
	"github.com/architect/natural-teacher/internal/common/database"
	appErrors "github.com/architect/natural-teacher/internal/common/errors"
	"github.com/architect/natural-teacher/internal/homework/models"
	identityModels "github.com/architect/natural-teacher/internal/identity/models"
	"github.com/architect/natural-teacher/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDBCounter atomic.Int64

func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:homework_test_%d?mode=memory&cache=shared", testDBCounter.Add(1))
	require.NoError(t, database.InitWithType("sqlite", dsn))
	require.NoError(t, database.AutoMigrate())
	settings.Default.InvalidateAll()

	t.Cleanup(func() {
		database.Close()
		settings.Default.InvalidateAll()
	})
}

// setupTutorStub points the default tutoring client at a canned server.
func setupTutorStub(t *testing.T, handler http.HandlerFunc) {
	t.Helper()

	server := httptest.NewServer(handler)
	ai.Init(server.URL, 2*time.Second)
	t.Cleanup(func() {
		server.Close()
		ai.Default = nil
	})
}

func tutorAnalysis(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"content":%q,"explanation_level":2,"created_by_agent":"Math Tutor"}`, content)
	}
}

func newStudent(t *testing.T, email string, streak int) *identityModels.User {
	t.Helper()

	age := 10
	now := time.Now()
	user := &identityModels.User{
		Name:     "Test Student",
		Email:    email,
		Password: "x",
		Role:     identityModels.RoleStudent,
		Age:      &age,
		Profile: &identityModels.Profile{
			CurrentLevel:  1,
			DailyStreak:   streak,
			LastLoginDate: &now,
		},
	}
	require.NoError(t, database.DB.Create(user).Error)
	if streak == 0 {
		require.NoError(t, database.DB.Model(user.Profile).Update("daily_streak", 0).Error)
		user.Profile.DailyStreak = 0
	}
	return user
}

func newSubject(t *testing.T, name string) *catalogModels.Subject {
	t.Helper()
	subject := &catalogModels.Subject{Name: name, IsActive: true}
	require.NoError(t, database.DB.Create(subject).Error)
	return subject
}

func TestSubmit_FullFlow(t *testing.T) {
	setupTestDB(t)
	setupTutorStub(t, tutorAnalysis("Nice work, check step 3 again."))

	user := newStudent(t, "submit@example.com", 1)
	subject := newSubject(t, "Mathematics")

	result, err := Submit(user.ID, &models.SubmitRequest{
		SubjectID: subject.ID,
		Content:   "What is 7 x 8?",
	})
	require.NoError(t, err)

	assert.Equal(t, models.SessionCompleted, result.Session.Status)
	assert.Equal(t, 10, result.PointsEarned)
	assert.Equal(t, "Nice work, check step 3 again.", result.Response.Content)
	assert.Equal(t, "Math Tutor", result.Response.CreatedByAgent)

	var profile identityModels.Profile
	require.NoError(t, database.DB.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.Equal(t, 10, profile.TotalPoints)
}

func TestSubmit_StreakBonus(t *testing.T) {
	setupTestDB(t)
	setupTutorStub(t, tutorAnalysis("Good answer."))

	user := newStudent(t, "streak@example.com", 3)
	subject := newSubject(t, "Science")

	result, err := Submit(user.ID, &models.SubmitRequest{
		SubjectID: subject.ID,
		Content:   "Why is the sky blue?",
	})
	require.NoError(t, err)

	// 10 base points x 1.5 streak multiplier.
	assert.Equal(t, 15, result.PointsEarned)
	assert.Equal(t, 15, result.Session.PointsEarned)
}

func TestSubmit_TopicOverridesBasePoints(t *testing.T) {
	setupTestDB(t)
	setupTutorStub(t, tutorAnalysis("Correct."))

	user := newStudent(t, "topic@example.com", 1)
	subject := newSubject(t, "Reading")
	topic := &catalogModels.Topic{
		SubjectID:       subject.ID,
		Name:            "Comprehension",
		PointsAvailable: 24,
		IsActive:        true,
	}
	require.NoError(t, database.DB.Create(topic).Error)

	result, err := Submit(user.ID, &models.SubmitRequest{
		SubjectID: subject.ID,
		TopicID:   &topic.ID,
		Content:   "Summary of chapter one.",
	})
	require.NoError(t, err)
	assert.Equal(t, 24, result.PointsEarned)
}

func TestSubmit_TopicSubjectMismatch(t *testing.T) {
	setupTestDB(t)
	setupTutorStub(t, tutorAnalysis("Correct."))

	user := newStudent(t, "mismatch@example.com", 1)
	math := newSubject(t, "Mathematics")
	science := newSubject(t, "Science")
	topic := &catalogModels.Topic{SubjectID: science.ID, Name: "Plants", IsActive: true}
	require.NoError(t, database.DB.Create(topic).Error)

	_, err := Submit(user.ID, &models.SubmitRequest{
		SubjectID: math.ID,
		TopicID:   &topic.ID,
		Content:   "mixed up",
	})
	require.Error(t, err)
	appErr, ok := err.(*appErrors.AppError)
	require.True(t, ok)
	assert.Equal(t, appErrors.CodeBadRequest, appErr.Code)
}

func TestSubmit_TutorOutageStillCompletes(t *testing.T) {
	setupTestDB(t)
	ai.Init("http://127.0.0.1:1", 200*time.Millisecond)
	t.Cleanup(func() { ai.Default = nil })

	user := newStudent(t, "outage@example.com", 1)
	subject := newSubject(t, "Mathematics")

	result, err := Submit(user.ID, &models.SubmitRequest{
		SubjectID: subject.ID,
		Content:   "3+3?",
	})
	require.NoError(t, err)

	assert.Equal(t, models.SessionCompleted, result.Session.Status)
	assert.Equal(t, "Error Handler", result.Response.CreatedByAgent)
	assert.Equal(t, 10, result.PointsEarned)
}

func TestEffectivePoints(t *testing.T) {
	setupTestDB(t)

	assert.Equal(t, 10, EffectivePoints(10, 0))
	assert.Equal(t, 10, EffectivePoints(10, 2))
	assert.Equal(t, 15, EffectivePoints(10, 3))
	assert.Equal(t, 15, EffectivePoints(10, 9))
	// Rounding is always up.
	assert.Equal(t, 8, EffectivePoints(5, 3))
}

func TestHistoryAndSessionDetail(t *testing.T) {
	setupTestDB(t)
	setupTutorStub(t, tutorAnalysis("ok"))

	user := newStudent(t, "history@example.com", 1)
	other := newStudent(t, "other@example.com", 1)
	subject := newSubject(t, "Mathematics")

	first, err := Submit(user.ID, &models.SubmitRequest{SubjectID: subject.ID, Content: "q1"})
	require.NoError(t, err)
	_, err = Submit(user.ID, &models.SubmitRequest{SubjectID: subject.ID, Content: "q2"})
	require.NoError(t, err)

	sessions, total, err := History(user.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, sessions, 2)

	// An active session never shows up in history.
	require.NoError(t, database.DB.Create(&models.Session{
		UserID:    user.ID,
		SubjectID: subject.ID,
		Status:    models.SessionActive,
		StartedAt: time.Now(),
	}).Error)

	sessions, total, err = History(user.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, s := range sessions {
		assert.Equal(t, models.SessionCompleted, s.Status)
	}

	detail, err := SessionDetail(user.ID, first.Session.ID)
	require.NoError(t, err)
	require.Len(t, detail.Questions, 1)
	assert.Equal(t, "q1", detail.Questions[0].Content)

	// Other students cannot read the session.
	_, err = SessionDetail(other.ID, first.Session.ID)
	require.Error(t, err)
	appErr, ok := err.(*appErrors.AppError)
	require.True(t, ok)
	assert.Equal(t, appErrors.CodeForbidden, appErr.Code)
}

func TestFeedback_FirstVeryHelpfulPaysBonus(t *testing.T) {
	setupTestDB(t)
	setupTutorStub(t, tutorAnalysis("helpful answer"))

	user := newStudent(t, "feedback@example.com", 1)
	subject := newSubject(t, "Science")

	result, err := Submit(user.ID, &models.SubmitRequest{SubjectID: subject.ID, Content: "q"})
	require.NoError(t, err)
	pointsAfterSubmit := 10

	response, err := Feedback(user.ID, result.Response.ID, models.RatingVeryHelpful)
	require.NoError(t, err)
	require.NotNil(t, response.HelpfulRating)
	assert.Equal(t, models.RatingVeryHelpful, *response.HelpfulRating)

	var profile identityModels.Profile
	require.NoError(t, database.DB.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.Equal(t, pointsAfterSubmit+2, profile.TotalPoints)

	// Re-rating never pays again.
	_, err = Feedback(user.ID, result.Response.ID, models.RatingVeryHelpful)
	require.NoError(t, err)
	require.NoError(t, database.DB.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.Equal(t, pointsAfterSubmit+2, profile.TotalPoints)
}

func TestFeedback_OtherRatingsPayNothing(t *testing.T) {
	setupTestDB(t)
	setupTutorStub(t, tutorAnalysis("so-so answer"))

	user := newStudent(t, "meh@example.com", 1)
	subject := newSubject(t, "Science")

	result, err := Submit(user.ID, &models.SubmitRequest{SubjectID: subject.ID, Content: "q"})
	require.NoError(t, err)

	_, err = Feedback(user.ID, result.Response.ID, models.RatingNotHelpful)
	require.NoError(t, err)

	var profile identityModels.Profile
	require.NoError(t, database.DB.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.Equal(t, 10, profile.TotalPoints)
}

func TestConverse(t *testing.T) {
	setupTestDB(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/analyze-homework", tutorAnalysis("ok"))
	mux.HandleFunc("/real-time-conversation", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"reply":"Start by isolating x."}`))
	})
	setupTutorStub(t, mux.ServeHTTP)

	user := newStudent(t, "chat@example.com", 1)
	stranger := newStudent(t, "stranger@example.com", 1)
	subject := newSubject(t, "Mathematics")

	result, err := Submit(user.ID, &models.SubmitRequest{SubjectID: subject.ID, Content: "solve 2x=6"})
	require.NoError(t, err)

	reply, err := Converse(user.ID, result.Session.ID, "what next?")
	require.NoError(t, err)
	assert.Equal(t, "Start by isolating x.", reply)

	_, err = Converse(stranger.ID, result.Session.ID, "let me in")
	require.Error(t, err)
}
