package progress

import (
	"testing"
	"time"

	"github.com/jonathan/commute-coach/internal/db"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestStreaks(t *testing.T) {
	tests := []struct {
		name        string
		days        []string
		now         time.Time
		wantCurrent int
		wantLongest int
	}{
		{
			name: "empty history",
		},
		{
			name:        "single day today",
			days:        []string{"2026-08-30"},
			now:         day("2026-08-30"),
			wantCurrent: 1,
			wantLongest: 1,
		},
		{
			name:        "run ending today",
			days:        []string{"2026-08-30", "2026-08-29", "2026-08-28"},
			now:         day("2026-08-30"),
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name:        "run ending yesterday still current",
			days:        []string{"2026-08-29", "2026-08-28"},
			now:         day("2026-08-30"),
			wantCurrent: 2,
			wantLongest: 2,
		},
		{
			name:        "stale run is not current",
			days:        []string{"2026-08-20", "2026-08-19", "2026-08-18"},
			now:         day("2026-08-30"),
			wantCurrent: 0,
			wantLongest: 3,
		},
		{
			name:        "gap splits runs",
			days:        []string{"2026-08-30", "2026-08-29", "2026-08-25", "2026-08-24", "2026-08-23", "2026-08-22"},
			now:         day("2026-08-30"),
			wantCurrent: 2,
			wantLongest: 4,
		},
		{
			name:        "unparseable days are skipped",
			days:        []string{"2026-08-30", "not-a-date", "2026-08-29"},
			now:         day("2026-08-30"),
			wantCurrent: 2,
			wantLongest: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, longest := Streaks(tt.days, tt.now)
			if current != tt.wantCurrent {
				t.Errorf("current = %d, want %d", current, tt.wantCurrent)
			}
			if longest != tt.wantLongest {
				t.Errorf("longest = %d, want %d", longest, tt.wantLongest)
			}
		})
	}
}

func TestBuildSummary(t *testing.T) {
	topics := []db.TopicMinutes{
		{Topic: "python", Minutes: 45, Videos: 5},
		{Topic: "go", Minutes: 30, Videos: 3},
	}
	s := BuildSummary(topics, []string{"2026-08-30", "2026-08-29"}, day("2026-08-30"))

	if s.TotalMinutes != 75 {
		t.Errorf("TotalMinutes = %d, want 75", s.TotalMinutes)
	}
	if s.TotalVideos != 8 {
		t.Errorf("TotalVideos = %d, want 8", s.TotalVideos)
	}
	if s.CurrentStreakDays != 2 {
		t.Errorf("CurrentStreakDays = %d, want 2", s.CurrentStreakDays)
	}
}

func TestBuildSummaryEmpty(t *testing.T) {
	s := BuildSummary(nil, nil, day("2026-08-30"))
	if s.Topics == nil {
		t.Error("Topics should marshal as [], not null")
	}
	if s.TotalMinutes != 0 || s.CurrentStreakDays != 0 {
		t.Errorf("expected zero summary, got %+v", s)
	}
}

func TestBadges(t *testing.T) {
	s := Summary{
		TotalMinutes:      90,
		TotalVideos:       12,
		Topics:            []db.TopicMinutes{{Topic: "python", Minutes: 90, Videos: 12}},
		LongestStreakDays: 3,
	}
	badges := Badges(s)

	earned := map[string]bool{}
	for _, b := range badges {
		earned[b.ID] = b.Earned
	}

	for _, id := range []string{"first_ride", "ten_rides", "hour_in"} {
		if !earned[id] {
			t.Errorf("expected %s to be earned", id)
		}
	}
	for _, id := range []string{"ten_hours", "week_streak", "explorer", "specialist"} {
		if earned[id] {
			t.Errorf("expected %s to be locked", id)
		}
	}
}

func TestBadgesAllLocked(t *testing.T) {
	badges := Badges(Summary{})
	if len(badges) == 0 {
		t.Fatal("expected badge definitions")
	}
	for _, b := range badges {
		if b.Earned {
			t.Errorf("badge %s earned with empty summary", b.ID)
		}
	}
}
