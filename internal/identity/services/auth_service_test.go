package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/architect/natural-teacher/internal/common/database"
	appErrors "github.com/architect/natural-teacher/internal/common/errors"
	"github.com/architect/natural-teacher/internal/identity/models"
	"github.com/architect/natural-teacher/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDBCounter atomic.Int64

func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:identity_test_%d?mode=memory&cache=shared", testDBCounter.Add(1))
	require.NoError(t, database.InitWithType("sqlite", dsn))
	require.NoError(t, database.AutoMigrate())
	Init(auth.NewTokenManager("test-secret", time.Hour, "natural-teacher-test"))

	t.Cleanup(func() {
		database.Close()
	})
}

func registerStudent(t *testing.T, email string, age int) *models.AuthResponse {
	t.Helper()

	resp, err := Register(&models.RegisterRequest{
		Name:     "Test Student",
		Email:    email,
		Password: "password123",
		Role:     "student",
		Age:      &age,
	})
	require.NoError(t, err)
	return resp
}

func TestRegister_Student(t *testing.T) {
	setupTestDB(t)

	resp := registerStudent(t, "newkid@example.com", 8)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleStudent, resp.User.Role)
	require.NotNil(t, resp.User.Profile)
	assert.Equal(t, 1, resp.User.Profile.CurrentLevel)
	assert.Equal(t, 1, resp.User.Profile.DailyStreak)
	require.NotNil(t, resp.User.AgeGroupID)

	// Passwords are stored hashed.
	assert.NotEqual(t, "password123", resp.User.Password)
}

func TestRegister_StudentWithoutAge(t *testing.T) {
	setupTestDB(t)

	_, err := Register(&models.RegisterRequest{
		Name:     "Ageless",
		Email:    "ageless@example.com",
		Password: "password123",
		Role:     "student",
	})
	require.Error(t, err)
	appErr, ok := err.(*appErrors.AppError)
	require.True(t, ok)
	assert.Equal(t, appErrors.CodeValidation, appErr.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	setupTestDB(t)
	registerStudent(t, "taken@example.com", 9)

	_, err := Register(&models.RegisterRequest{
		Name:     "Imposter",
		Email:    "taken@example.com",
		Password: "password123",
		Role:     "parent",
	})
	require.Error(t, err)
	appErr, ok := err.(*appErrors.AppError)
	require.True(t, ok)
	assert.Equal(t, appErrors.CodeConflict, appErr.Code)
}

func TestRegister_RejectsAdminRole(t *testing.T) {
	setupTestDB(t)

	_, err := Register(&models.RegisterRequest{
		Name:     "Sneaky",
		Email:    "sneaky@example.com",
		Password: "password123",
		Role:     "admin",
	})
	require.Error(t, err)
}

func TestLogin_Success(t *testing.T) {
	setupTestDB(t)
	registerStudent(t, "returning@example.com", 10)

	resp, err := Login(&models.LoginRequest{
		Email:    "returning@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "returning@example.com", resp.User.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	setupTestDB(t)
	registerStudent(t, "victim@example.com", 10)

	_, err := Login(&models.LoginRequest{
		Email:    "victim@example.com",
		Password: "wrong-password",
	})
	require.Error(t, err)
	appErr, ok := err.(*appErrors.AppError)
	require.True(t, ok)
	assert.Equal(t, appErrors.CodeUnauthorized, appErr.Code)
}

func TestLogin_UnknownEmail(t *testing.T) {
	setupTestDB(t)

	_, err := Login(&models.LoginRequest{
		Email:    "ghost@example.com",
		Password: "password123",
	})
	require.Error(t, err)
}

func TestLogin_ExtendsStreakAfterYesterday(t *testing.T) {
	setupTestDB(t)
	registered := registerStudent(t, "streaker@example.com", 10)

	yesterday := time.Now().AddDate(0, 0, -1)
	require.NoError(t, database.DB.Model(&models.Profile{}).
		Where("user_id = ?", registered.User.ID).
		Updates(map[string]interface{}{"daily_streak": 3, "last_login_date": yesterday}).Error)

	resp, err := Login(&models.LoginRequest{
		Email:    "streaker@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.User.Profile.DailyStreak)
}

func TestLogin_SameDayKeepsStreak(t *testing.T) {
	setupTestDB(t)
	registerStudent(t, "today@example.com", 10)

	resp, err := Login(&models.LoginRequest{Email: "today@example.com", Password: "password123"})
	require.NoError(t, err)
	first := resp.User.Profile.DailyStreak

	resp, err = Login(&models.LoginRequest{Email: "today@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, first, resp.User.Profile.DailyStreak)
}

func TestCurrentUser(t *testing.T) {
	setupTestDB(t)
	registered := registerStudent(t, "me@example.com", 10)

	user, err := CurrentUser(registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", user.Email)
	require.NotNil(t, user.Profile)
}
