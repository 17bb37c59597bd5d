package services

import (
	"github.com/architect/natural-teacher/internal/catalog/models"
	"github.com/architect/natural-teacher/internal/catalog/repository"
	"github.com/architect/natural-teacher/internal/common/errors"
	identityModels "github.com/architect/natural-teacher/internal/identity/models"
)

// GetSubjects lists active subjects. When forUser is a student, only
// subjects with at least one age-appropriate topic are returned.
func GetSubjects(forUser *identityModels.User) ([]*models.Subject, error) {
	subjects, err := repository.ListSubjects()
	if err != nil {
		return nil, err
	}

	if forUser == nil || forUser.Role != identityModels.RoleStudent || forUser.Age == nil {
		return subjects, nil
	}

	topics, err := repository.ListTopics(0, *forUser.Age)
	if err != nil {
		return nil, err
	}

	withTopics := make(map[uint]bool, len(topics))
	for _, t := range topics {
		withTopics[t.SubjectID] = true
	}

	filtered := make([]*models.Subject, 0, len(subjects))
	for _, s := range subjects {
		if withTopics[s.ID] {
			filtered = append(filtered, s)
		}
	}
	return filtered, nil
}

// GetSubject retrieves one subject.
func GetSubject(subjectID uint) (*models.Subject, error) {
	if subjectID == 0 {
		return nil, errors.BadRequest("invalid subject ID")
	}
	return repository.GetSubjectByID(subjectID)
}

// GetTopics lists active topics, age-filtered for students.
func GetTopics(subjectID uint, forUser *identityModels.User) ([]*models.Topic, error) {
	age := 0
	if forUser != nil && forUser.Role == identityModels.RoleStudent && forUser.Age != nil {
		age = *forUser.Age
	}
	return repository.ListTopics(subjectID, age)
}

// GetTopicsByDifficulty lists active topics at a difficulty level.
func GetTopicsByDifficulty(level int) ([]*models.Topic, error) {
	if level < 1 || level > 5 {
		return nil, errors.BadRequest("difficulty level must be between 1 and 5")
	}
	return repository.ListTopicsByDifficulty(level)
}

// GetTopic retrieves one topic.
func GetTopic(topicID uint) (*models.Topic, error) {
	if topicID == 0 {
		return nil, errors.BadRequest("invalid topic ID")
	}
	return repository.GetTopicByID(topicID)
}
