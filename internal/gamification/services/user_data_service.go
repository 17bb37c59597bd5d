package services

import (
	"github.com/architect/natural-teacher/internal/gamification/models"
	"github.com/architect/natural-teacher/internal/gamification/repository"
	identityModels "github.com/architect/natural-teacher/internal/identity/models"
	identityRepository "github.com/architect/natural-teacher/internal/identity/repository"
)

// UserData is the full gamification state for one student.
type UserData struct {
	Profile            *identityModels.Profile  `json:"profile"`
	NextLevelThreshold int                      `json:"next_level_threshold"`
	LevelProgress      int                      `json:"level_progress"`
	Achievements       []models.UserAchievement `json:"achievements"`
	Badges             []models.UserBadge       `json:"badges"`
	AvailableRewards   []models.Reward          `json:"available_rewards"`
	ClaimedRewards     []models.UserReward      `json:"claimed_rewards"`
	Challenges         []models.UserChallenge   `json:"challenges"`
}

// UserProgress assembles the student's complete gamification state.
func UserProgress(userID uint) (*UserData, error) {
	profile, err := identityRepository.GetProfileByUserID(userID)
	if err != nil {
		return nil, err
	}

	achievements, err := repository.ListUserAchievements(userID)
	if err != nil {
		return nil, err
	}
	badges, err := repository.ListUserBadges(userID)
	if err != nil {
		return nil, err
	}
	rewards, err := repository.ListActiveRewards()
	if err != nil {
		return nil, err
	}
	claimed, err := repository.ListUserRewards(userID)
	if err != nil {
		return nil, err
	}
	challenges, err := CurrentChallenges(userID)
	if err != nil {
		return nil, err
	}

	return &UserData{
		Profile:            profile,
		NextLevelThreshold: NextLevelThreshold(profile.CurrentLevel),
		LevelProgress:      LevelProgress(profile),
		Achievements:       achievements,
		Badges:             badges,
		AvailableRewards:   rewards,
		ClaimedRewards:     claimed,
		Challenges:         challenges,
	}, nil
}
