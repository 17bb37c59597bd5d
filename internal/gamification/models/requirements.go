package models

import (
	"encoding/json"
	"fmt"
)

// ActivitySnapshot is the student activity a requirement is judged
// against. SubjectSessions maps subject ID to the student's completed
// session count in that subject.
type ActivitySnapshot struct {
	DailyStreak       int
	CompletedSessions int64
	SubjectSessions   map[uint]int64
}

// RequirementChecker decides whether a snapshot satisfies one
// achievement's requirements.
type RequirementChecker interface {
	Met(snap *ActivitySnapshot) bool
}

// LoginRequirement is satisfied by a daily streak of the given length.
type LoginRequirement struct {
	StreakDays int `json:"streak_days"`
}

func (r LoginRequirement) Met(snap *ActivitySnapshot) bool {
	return snap.DailyStreak >= r.StreakDays
}

// SessionRequirement is satisfied by a total completed session count.
type SessionRequirement struct {
	SessionCount int64 `json:"session_count"`
}

func (r SessionRequirement) Met(snap *ActivitySnapshot) bool {
	return snap.CompletedSessions >= r.SessionCount
}

// SubjectRequirement is satisfied by completed sessions in one subject.
type SubjectRequirement struct {
	SubjectID         uint  `json:"subject_id"`
	SessionsCompleted int64 `json:"sessions_completed"`
}

func (r SubjectRequirement) Met(snap *ActivitySnapshot) bool {
	return snap.SubjectSessions[r.SubjectID] >= r.SessionsCompleted
}

// ParseRequirements decodes an achievement's requirements into the checker
// matching its type. Unknown types are an error; callers treat them as
// never met.
func ParseRequirements(achType, raw string) (RequirementChecker, error) {
	switch achType {
	case AchievementLogin:
		var req LoginRequirement
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			return nil, fmt.Errorf("login requirements: %w", err)
		}
		return req, nil
	case AchievementSession:
		var req SessionRequirement
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			return nil, fmt.Errorf("session requirements: %w", err)
		}
		return req, nil
	case AchievementSubject:
		var req SubjectRequirement
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			return nil, fmt.Errorf("subject requirements: %w", err)
		}
		return req, nil
	default:
		return nil, fmt.Errorf("unknown achievement type %q", achType)
	}
}
