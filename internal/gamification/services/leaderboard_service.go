package services

import (
	"sort"
	"time"

	"github.com/architect/natural-teacher/internal/common/cache"
	"github.com/architect/natural-teacher/internal/common/errors"
	"github.com/architect/natural-teacher/internal/gamification/models"
	homeworkRepository "github.com/architect/natural-teacher/internal/homework/repository"
	identityRepository "github.com/architect/natural-teacher/internal/identity/repository"
)

const (
	leaderboardKeyPrefix = "leaderboard:"
	leaderboardCacheTTL  = 5 * time.Minute
)

// PeriodBounds returns the [from, to) window for a leaderboard period.
// Weekly weeks run Monday to Monday. The all_time period has no window and
// returns zero times.
func PeriodBounds(periodType string, now time.Time) (time.Time, time.Time, error) {
	day := dateOf(now)
	switch periodType {
	case models.PeriodDaily:
		return day, day.AddDate(0, 0, 1), nil
	case models.PeriodWeekly:
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		monday := day.AddDate(0, 0, -(weekday - 1))
		return monday, monday.AddDate(0, 0, 7), nil
	case models.PeriodMonthly:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return first, first.AddDate(0, 1, 0), nil
	case models.PeriodAllTime:
		return time.Time{}, time.Time{}, nil
	default:
		return time.Time{}, time.Time{}, errors.BadRequest("invalid leaderboard type")
	}
}

// Leaderboard ranks all students for the period and returns the top limit
// entries plus the requester's rank over the full standings. Full
// standings are cached per period; ties keep student insertion order.
func Leaderboard(requesterID uint, periodType string, limit int) (*models.LeaderboardResult, error) {
	if limit < 5 || limit > 100 {
		limit = 10
	}

	standings, err := fullStandings(periodType)
	if err != nil {
		return nil, err
	}

	result := &models.LeaderboardResult{
		Type:        periodType,
		Entries:     standings[:min(limit, len(standings))],
		GeneratedAt: time.Now(),
	}
	for i := range standings {
		if standings[i].UserID == requesterID {
			entry := standings[i]
			result.CurrentUser = &entry
			break
		}
	}
	return result, nil
}

func fullStandings(periodType string) ([]models.LeaderboardEntry, error) {
	cacheKey := leaderboardKeyPrefix + periodType

	var cached []models.LeaderboardEntry
	if cache.Get(cacheKey, &cached) {
		return cached, nil
	}

	from, to, err := PeriodBounds(periodType, time.Now())
	if err != nil {
		return nil, err
	}

	students, err := identityRepository.ListStudents()
	if err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(students))
	if periodType == models.PeriodAllTime {
		for _, s := range students {
			entries = append(entries, models.LeaderboardEntry{
				UserID: s.ID,
				Name:   s.Name,
				Avatar: s.Profile.Avatar,
				Level:  s.Profile.CurrentLevel,
				Points: s.Profile.TotalPoints,
			})
		}
	} else {
		ids := make([]uint, len(students))
		for i, s := range students {
			ids[i] = s.ID
		}
		sums, err := homeworkRepository.SumPointsInWindow(ids, from, to)
		if err != nil {
			return nil, err
		}
		for _, s := range students {
			entries = append(entries, models.LeaderboardEntry{
				UserID: s.ID,
				Name:   s.Name,
				Avatar: s.Profile.Avatar,
				Level:  s.Profile.CurrentLevel,
				Points: sums[s.ID],
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	cache.Set(cacheKey, entries, leaderboardCacheTTL)
	return entries, nil
}

// InvalidateLeaderboards drops all cached leaderboard standings. Called
// after any points award; stale entries also age out via the TTL.
func InvalidateLeaderboards() {
	cache.DeleteByPrefix(leaderboardKeyPrefix)
}
