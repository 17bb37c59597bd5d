package repository

import (
	"github.com/architect/natural-teacher/internal/catalog/models"
	"github.com/architect/natural-teacher/internal/common/database"
	"github.com/architect/natural-teacher/internal/common/errors"
)

// ListSubjects returns active subjects in display order.
func ListSubjects() ([]*models.Subject, error) {
	var subjects []*models.Subject
	result := database.DB.
		Where("is_active = ?", true).
		Order("display_order").
		Find(&subjects)
	if result.Error != nil {
		return nil, errors.Internal("failed to list subjects", result.Error.Error())
	}
	return subjects, nil
}

// GetSubjectByID retrieves a subject.
func GetSubjectByID(subjectID uint) (*models.Subject, error) {
	var subject models.Subject
	result := database.DB.First(&subject, subjectID)
	if result.Error != nil {
		return nil, errors.NotFound("subject")
	}
	return &subject, nil
}

// ListTopics returns active topics, optionally restricted to a subject
// and an age. Zero values skip the corresponding filter.
func ListTopics(subjectID uint, age int) ([]*models.Topic, error) {
	query := database.DB.Preload("Subject").Where("is_active = ?", true)
	if subjectID != 0 {
		query = query.Where("subject_id = ?", subjectID)
	}
	if age != 0 {
		query = query.Where("age_group_min <= ? AND age_group_max >= ?", age, age)
	}

	var topics []*models.Topic
	result := query.Order("subject_id").Order("name").Find(&topics)
	if result.Error != nil {
		return nil, errors.Internal("failed to list topics", result.Error.Error())
	}
	return topics, nil
}

// ListTopicsByDifficulty returns active topics at a difficulty level.
func ListTopicsByDifficulty(level int) ([]*models.Topic, error) {
	var topics []*models.Topic
	result := database.DB.Preload("Subject").
		Where("is_active = ? AND difficulty_level = ?", true, level).
		Order("subject_id").Order("name").
		Find(&topics)
	if result.Error != nil {
		return nil, errors.Internal("failed to list topics", result.Error.Error())
	}
	return topics, nil
}

// GetTopicByID retrieves a topic with its subject.
func GetTopicByID(topicID uint) (*models.Topic, error) {
	var topic models.Topic
	result := database.DB.Preload("Subject").First(&topic, topicID)
	if result.Error != nil {
		return nil, errors.NotFound("topic")
	}
	return &topic, nil
}
