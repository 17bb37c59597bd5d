package services

import (
	"math"
	"time"

	"github.com/architect/natural-teacher/internal/ai"
	catalogRepository "github.com/architect/natural-teacher/internal/catalog/repository"
	"github.com/architect/natural-teacher/internal/common/database"
	"github.com/architect/natural-teacher/internal/common/errors"
	gamification "github.com/architect/natural-teacher/internal/gamification/services"
	"github.com/architect/natural-teacher/internal/homework/models"
	"github.com/architect/natural-teacher/internal/homework/repository"
	identityModels "github.com/architect/natural-teacher/internal/identity/models"
	identityRepository "github.com/architect/natural-teacher/internal/identity/repository"
	"github.com/architect/natural-teacher/internal/settings"
	"github.com/architect/natural-teacher/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Submit runs the whole homework flow: open a session, store the question,
// obtain the tutoring response, award points and complete the session.
func Submit(userID uint, req *models.SubmitRequest) (*models.SubmitResult, error) {
	user, err := identityRepository.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user.Role != identityModels.RoleStudent || user.Profile == nil {
		return nil, errors.Forbidden("only students can submit homework")
	}

	subject, err := catalogRepository.GetSubjectByID(req.SubjectID)
	if err != nil {
		return nil, err
	}

	basePoints := settings.Default.GetInt("base_session_points", 10)
	if req.TopicID != nil {
		topic, err := catalogRepository.GetTopicByID(*req.TopicID)
		if err != nil {
			return nil, err
		}
		if topic.SubjectID != subject.ID {
			return nil, errors.BadRequest("topic does not belong to the subject")
		}
		basePoints = topic.PointsAvailable
	}

	session := &models.Session{
		UserID:    userID,
		SubjectID: subject.ID,
		TopicID:   req.TopicID,
		Status:    models.SessionActive,
		StartedAt: time.Now(),
	}
	question := &models.Question{
		Content:         req.Content,
		FileURL:         req.FileURL,
		ComplexityLevel: user.Profile.DifficultyLevel,
		PointsValue:     basePoints,
	}

	if err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := repository.CreateSession(tx, session); err != nil {
			return err
		}
		question.SessionID = session.ID
		return repository.CreateQuestion(tx, question)
	}); err != nil {
		return nil, err
	}

	age := 0
	if user.Age != nil {
		age = *user.Age
	}
	analysis := ai.Default.AnalyzeHomework(&ai.AnalyzeRequest{
		Content:       req.Content,
		FileURL:       req.FileURL,
		SubjectID:     subject.ID,
		SessionID:     session.ID,
		StudentAge:    age,
		StudentLevel:  user.Profile.CurrentLevel,
		LearningStyle: string(user.Profile.PreferredLearningStyle),
	})

	response := &models.Response{
		QuestionID:       question.ID,
		Content:          analysis.Content,
		ExplanationLevel: analysis.ExplanationLevel,
		CreatedByAgent:   analysis.CreatedByAgent,
	}

	points := EffectivePoints(basePoints, user.Profile.DailyStreak)
	var leveledUp bool

	if err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := repository.CreateResponse(tx, response); err != nil {
			return err
		}

		profile, err := identityRepository.GetProfileForUpdate(tx, userID)
		if err != nil {
			return err
		}
		leveledUp, err = gamification.AddPoints(tx, profile, points)
		if err != nil {
			return err
		}
		user.Profile = profile

		return repository.CompleteSession(tx, session, points, time.Now())
	}); err != nil {
		return nil, err
	}

	// Awards depend on session counts that only exist after the commit.
	if err := gamification.CheckAndAward(userID); err != nil {
		logger.Warn("post-session award sweep failed",
			zap.Uint("user_id", userID), zap.Error(err))
	}
	gamification.InvalidateLeaderboards()

	return &models.SubmitResult{
		Session:      session,
		Question:     question,
		Response:     response,
		PointsEarned: points,
		LeveledUp:    leveledUp,
		NewLevel:     user.Profile.CurrentLevel,
	}, nil
}

// EffectivePoints applies the streak bonus to a base award. Students on a
// streak at or past the threshold earn the multiplied value, rounded up.
func EffectivePoints(basePoints, dailyStreak int) int {
	threshold := settings.Default.GetInt("streak_bonus_threshold", 3)
	if dailyStreak < threshold {
		return basePoints
	}
	multiplier := settings.Default.GetFloat("streak_bonus_multiplier", 1.5)
	return int(math.Ceil(float64(basePoints) * multiplier))
}

// History returns a page of the student's completed sessions.
func History(userID uint, page, pageSize int) ([]models.Session, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return repository.ListCompletedSessions(userID, page, pageSize)
}

// SessionDetail loads one session, enforcing ownership.
func SessionDetail(userID, sessionID uint) (*models.Session, error) {
	session, err := repository.GetSessionByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, errors.Forbidden("session belongs to another student")
	}
	return session, nil
}

// Feedback records a helpfulness rating on a response. The first
// very_helpful rating on a response awards bonus points.
func Feedback(userID, responseID uint, rating string) (*models.Response, error) {
	response, session, err := repository.GetResponseWithSession(responseID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, errors.Forbidden("response belongs to another student")
	}

	firstRating := response.HelpfulRating == nil
	response.HelpfulRating = &rating
	if err := repository.SaveResponse(response); err != nil {
		return nil, err
	}

	if firstRating && rating == models.RatingVeryHelpful {
		bonus := settings.Default.GetInt("feedback_bonus_points", 2)
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			profile, err := identityRepository.GetProfileForUpdate(tx, userID)
			if err != nil {
				return err
			}
			_, err = gamification.AddPoints(tx, profile, bonus)
			return err
		})
		if err != nil {
			logger.Warn("feedback bonus award failed",
				zap.Uint("user_id", userID), zap.Error(err))
		} else {
			gamification.InvalidateLeaderboards()
		}
	}
	return response, nil
}

// Converse relays one conversation turn to the tutoring service after
// checking session ownership. Used by both the HTTP relay and the
// websocket channel.
func Converse(userID, sessionID uint, message string) (string, error) {
	session, err := SessionDetail(userID, sessionID)
	if err != nil {
		return "", err
	}

	user, err := identityRepository.GetUserByID(userID)
	if err != nil {
		return "", err
	}

	age := 0
	if user.Age != nil {
		age = *user.Age
	}
	level := 1
	learningStyle := ""
	if user.Profile != nil {
		level = user.Profile.CurrentLevel
		learningStyle = string(user.Profile.PreferredLearningStyle)
	}

	return ai.Default.ContinueConversation(&ai.ConversationRequest{
		Message:       message,
		SessionID:     session.ID,
		SubjectID:     session.SubjectID,
		StudentAge:    age,
		StudentLevel:  level,
		LearningStyle: learningStyle,
	}), nil
}
