package repository

import (
	"github.com/architect/natural-teacher/internal/common/database"
	"github.com/architect/natural-teacher/internal/common/errors"
	"github.com/architect/natural-teacher/internal/homework/models"
	"gorm.io/gorm"
)

// CreateQuestion stores a submitted question.
func CreateQuestion(tx *gorm.DB, question *models.Question) error {
	if result := tx.Create(question); result.Error != nil {
		return errors.Internal("failed to create question", result.Error.Error())
	}
	return nil
}

// CreateResponse stores a tutoring response.
func CreateResponse(tx *gorm.DB, response *models.Response) error {
	if result := tx.Create(response); result.Error != nil {
		return errors.Internal("failed to create response", result.Error.Error())
	}
	return nil
}

// GetResponseWithSession loads a response together with the session it
// belongs to, used to verify ownership before accepting feedback.
func GetResponseWithSession(responseID uint) (*models.Response, *models.Session, error) {
	var response models.Response
	if result := database.DB.First(&response, responseID); result.Error != nil {
		return nil, nil, errors.NotFound("response")
	}

	var question models.Question
	if result := database.DB.First(&question, response.QuestionID); result.Error != nil {
		return nil, nil, errors.NotFound("question")
	}

	var session models.Session
	if result := database.DB.First(&session, question.SessionID); result.Error != nil {
		return nil, nil, errors.NotFound("session")
	}
	return &response, &session, nil
}

// SaveResponse persists response mutations.
func SaveResponse(response *models.Response) error {
	if result := database.DB.Save(response); result.Error != nil {
		return errors.Internal("failed to save response", result.Error.Error())
	}
	return nil
}
