package repository

import (
	"github.com/architect/natural-teacher/internal/common/database"
	"github.com/architect/natural-teacher/internal/common/errors"
	"github.com/architect/natural-teacher/internal/identity/models"
)

// CreateUser inserts a user together with any preloaded associations.
func CreateUser(user *models.User) error {
	result := database.DB.Create(user)
	if result.Error != nil {
		return errors.Internal("failed to create user", result.Error.Error())
	}
	return nil
}

// GetUserByID retrieves a user with their profile
func GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	result := database.DB.Preload("Profile").Preload("AgeGroup").First(&user, userID)
	if result.Error != nil {
		return nil, errors.NotFound("user")
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email with their profile
func GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	result := database.DB.Preload("Profile").Where("email = ?", email).First(&user)
	if result.Error != nil {
		return nil, errors.NotFound("user")
	}
	return &user, nil
}

// EmailTaken reports whether an account already uses the email.
func EmailTaken(email string) bool {
	var count int64
	database.DB.Model(&models.User{}).Where("email = ?", email).Count(&count)
	return count > 0
}

// GetStudentByEmail retrieves a student account by email.
func GetStudentByEmail(email string) (*models.User, error) {
	var user models.User
	result := database.DB.Preload("Profile").
		Where("email = ? AND role = ?", email, models.RoleStudent).
		First(&user)
	if result.Error != nil {
		return nil, errors.NotFound("student")
	}
	return &user, nil
}

// FindAgeGroupFor returns the age group covering the given age.
func FindAgeGroupFor(age int) (*models.AgeGroup, error) {
	var group models.AgeGroup
	result := database.DB.
		Where("min_age <= ? AND max_age >= ?", age, age).
		First(&group)
	if result.Error != nil {
		return nil, errors.NotFound("age group")
	}
	return &group, nil
}

// CreateAgeGroup inserts a new age group.
func CreateAgeGroup(group *models.AgeGroup) error {
	result := database.DB.Create(group)
	if result.Error != nil {
		return errors.Internal("failed to create age group", result.Error.Error())
	}
	return nil
}

// ListStudents returns all student accounts that have a profile, in
// insertion order.
func ListStudents() ([]models.User, error) {
	var students []models.User
	result := database.DB.Preload("Profile").
		Where("role = ?", models.RoleStudent).
		Order("id").
		Find(&students)
	if result.Error != nil {
		return nil, errors.Internal("failed to list students", result.Error.Error())
	}

	withProfiles := students[:0]
	for _, s := range students {
		if s.Profile != nil {
			withProfiles = append(withProfiles, s)
		}
	}
	return withProfiles, nil
}
