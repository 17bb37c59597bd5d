package services

import (
	"time"

	"github.com/architect/natural-teacher/internal/common/cache"
	"github.com/architect/natural-teacher/internal/common/errors"
	gamification "github.com/architect/natural-teacher/internal/gamification/services"
	"github.com/architect/natural-teacher/internal/identity/models"
	"github.com/architect/natural-teacher/internal/identity/repository"
	"github.com/architect/natural-teacher/pkg/auth"
)

var tokenManager *auth.TokenManager

// Init wires the token manager used for issuing credentials.
func Init(tm *auth.TokenManager) {
	tokenManager = tm
}

// Register creates a user plus their role-specific profile and issues a token.
func Register(req *models.RegisterRequest) (*models.AuthResponse, error) {
	role, ok := models.ParseRole(req.Role)
	if !ok || role == models.RoleAdmin {
		return nil, errors.Validation("invalid role", "role must be student, parent or teacher")
	}

	if role == models.RoleStudent && req.Age == nil {
		return nil, errors.Validation("age is required for students", "")
	}

	if repository.EmailTaken(req.Email) {
		return nil, errors.Conflict("an account with this email already exists")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, errors.Internal("failed to hash password", err.Error())
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hash,
		Role:     role,
		Age:      req.Age,
	}

	if role == models.RoleStudent {
		group, err := ageGroupFor(*req.Age)
		if err != nil {
			return nil, err
		}
		user.AgeGroupID = &group.ID

		style := models.LearningStyle(req.LearningStyle)
		if style == "" {
			style = models.StyleMixed
		}
		now := time.Now()
		user.Profile = &models.Profile{
			PreferredLearningStyle: style,
			CurrentLevel:           1,
			TotalPoints:            0,
			DailyStreak:            1,
			LastLoginDate:          &now,
		}
	} else {
		user.Profile = &models.Profile{
			CurrentLevel: 1,
			TotalPoints:  0,
		}
	}

	if err := repository.CreateUser(user); err != nil {
		return nil, err
	}

	token, err := tokenManager.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, errors.Internal("failed to issue token", err.Error())
	}

	return &models.AuthResponse{User: user, Token: token}, nil
}

// Login verifies credentials, updates the student streak and issues a token.
func Login(req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := repository.GetUserByEmail(req.Email)
	if err != nil || !auth.CheckPassword(user.Password, req.Password) {
		return nil, errors.Unauthorized("the provided credentials are incorrect")
	}

	if user.Role == models.RoleStudent && user.Profile != nil {
		if err := gamification.RecordLogin(user.Profile, time.Now()); err != nil {
			return nil, err
		}
	}

	token, err := tokenManager.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, errors.Internal("failed to issue token", err.Error())
	}

	return &models.AuthResponse{User: user, Token: token}, nil
}

// Logout revokes the presented token for the remainder of its lifetime.
func Logout(token string) {
	claims, err := tokenManager.ValidateToken(token)
	if err != nil {
		// Expired or malformed tokens need no blacklisting.
		return
	}
	if claims.ExpiresAt != nil {
		cache.BlacklistToken(token, time.Until(claims.ExpiresAt.Time))
	}
}

// CurrentUser loads the authenticated user with profile.
func CurrentUser(userID uint) (*models.User, error) {
	return repository.GetUserByID(userID)
}

// ageGroupFor finds the bucket covering the age, creating the standard
// bucket when seeding left a gap.
func ageGroupFor(age int) (*models.AgeGroup, error) {
	group, err := repository.FindAgeGroupFor(age)
	if err == nil {
		return group, nil
	}

	group = defaultAgeGroup(age)
	if err := repository.CreateAgeGroup(group); err != nil {
		return nil, err
	}
	return group, nil
}

func defaultAgeGroup(age int) *models.AgeGroup {
	switch {
	case age >= 5 && age <= 7:
		return &models.AgeGroup{Name: "Early Elementary", MinAge: 5, MaxAge: 7, ComplexityLevel: 1, VocabularyLevel: "basic"}
	case age >= 8 && age <= 10:
		return &models.AgeGroup{Name: "Elementary", MinAge: 8, MaxAge: 10, ComplexityLevel: 2, VocabularyLevel: "intermediate"}
	default:
		return &models.AgeGroup{Name: "Middle School", MinAge: 11, MaxAge: 15, ComplexityLevel: 3, VocabularyLevel: "advanced"}
	}
}
