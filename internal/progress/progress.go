// Package progress aggregates watch history into learner-facing stats
package progress

import (
	"time"

	"github.com/jonathan/commute-coach/internal/db"
)

const dayFormat = "2006-01-02"

// Summary is the aggregate view returned by the progress endpoint
type Summary struct {
	TotalMinutes      int              `json:"total_minutes"`
	TotalVideos       int              `json:"total_videos"`
	Topics            []db.TopicMinutes `json:"topics"`
	CurrentStreakDays int              `json:"current_streak_days"`
	LongestStreakDays int              `json:"longest_streak_days"`
}

// BuildSummary folds per-topic totals and watch days into a Summary
// Days must be distinct "YYYY-MM-DD" strings sorted descending
func BuildSummary(topics []db.TopicMinutes, days []string, now time.Time) Summary {
	s := Summary{Topics: topics}
	if s.Topics == nil {
		s.Topics = []db.TopicMinutes{}
	}
	for _, t := range topics {
		s.TotalMinutes += t.Minutes
		s.TotalVideos += t.Videos
	}
	s.CurrentStreakDays, s.LongestStreakDays = Streaks(days, now)
	return s
}

// Streaks computes the current and longest run of consecutive watch days
// The current streak survives a not-yet-watched today but breaks after that
func Streaks(days []string, now time.Time) (current, longest int) {
	if len(days) == 0 {
		return 0, 0
	}

	parsed := make([]time.Time, 0, len(days))
	for _, d := range days {
		t, err := time.Parse(dayFormat, d)
		if err != nil {
			continue
		}
		parsed = append(parsed, t)
	}
	if len(parsed) == 0 {
		return 0, 0
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	// Walk descending; runs are broken by gaps larger than one day
	run := 1
	longest = 1
	for i := 1; i < len(parsed); i++ {
		gap := parsed[i-1].Sub(parsed[i])
		if gap == 24*time.Hour {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}

	// The most recent run only counts as current if it reaches today or yesterday
	head := parsed[0]
	if today.Sub(head) > 24*time.Hour {
		return 0, longest
	}
	current = 1
	for i := 1; i < len(parsed); i++ {
		if parsed[i-1].Sub(parsed[i]) != 24*time.Hour {
			break
		}
		current++
	}
	return current, longest
}
