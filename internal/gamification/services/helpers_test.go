package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/architect/natural-teacher/internal/common/database"
	homeworkModels "github.com/architect/natural-teacher/internal/homework/models"
	identityModels "github.com/architect/natural-teacher/internal/identity/models"
	"github.com/stretchr/testify/require"
)

var testDBCounter atomic.Int64

// setupTestDB points the global connection at a fresh in-memory database.
func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:gamification_test_%d?mode=memory&cache=shared", testDBCounter.Add(1))
	require.NoError(t, database.InitWithType("sqlite", dsn))
	require.NoError(t, database.AutoMigrate())

	t.Cleanup(func() {
		database.Close()
	})
}

// newStudentProfile creates a student with a profile and returns the profile.
func newStudentProfile(t *testing.T, email string, level, points int) *identityModels.Profile {
	t.Helper()

	now := time.Now()
	user := &identityModels.User{
		Name:     "Test Student",
		Email:    email,
		Password: "x",
		Role:     identityModels.RoleStudent,
		Profile: &identityModels.Profile{
			CurrentLevel:  level,
			TotalPoints:   points,
			DailyStreak:   1,
			LastLoginDate: &now,
		},
	}
	require.NoError(t, database.DB.Create(user).Error)
	return user.Profile
}

// newCompletedSession records a completed session for the student.
func newCompletedSession(t *testing.T, userID, subjectID uint, points int, completedAt time.Time) {
	t.Helper()

	session := &homeworkModels.Session{
		UserID:       userID,
		SubjectID:    subjectID,
		Status:       homeworkModels.SessionCompleted,
		PointsEarned: points,
		StartedAt:    completedAt.Add(-10 * time.Minute),
		CompletedAt:  &completedAt,
	}
	require.NoError(t, database.DB.Create(session).Error)
}
