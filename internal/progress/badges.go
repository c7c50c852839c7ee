package progress

// Badge is an earned achievement
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Earned      bool   `json:"earned"`
}

type badgeRule struct {
	id          string
	name        string
	description string
	earned      func(Summary) bool
}

var badgeRules = []badgeRule{
	{
		id:          "first_ride",
		name:        "First Ride",
		description: "Watch your first video",
		earned:      func(s Summary) bool { return s.TotalVideos >= 1 },
	},
	{
		id:          "ten_rides",
		name:        "Regular Commuter",
		description: "Watch 10 videos",
		earned:      func(s Summary) bool { return s.TotalVideos >= 10 },
	},
	{
		id:          "hour_in",
		name:        "Hour In",
		description: "Watch 60 minutes total",
		earned:      func(s Summary) bool { return s.TotalMinutes >= 60 },
	},
	{
		id:          "ten_hours",
		name:        "Long Hauler",
		description: "Watch 600 minutes total",
		earned:      func(s Summary) bool { return s.TotalMinutes >= 600 },
	},
	{
		id:          "week_streak",
		name:        "Week Streak",
		description: "Watch on 7 consecutive days",
		earned:      func(s Summary) bool { return s.LongestStreakDays >= 7 },
	},
	{
		id:          "month_streak",
		name:        "Month Streak",
		description: "Watch on 30 consecutive days",
		earned:      func(s Summary) bool { return s.LongestStreakDays >= 30 },
	},
	{
		id:          "explorer",
		name:        "Explorer",
		description: "Watch videos across 3 different topics",
		earned:      func(s Summary) bool { return len(s.Topics) >= 3 },
	},
	{
		id:          "specialist",
		name:        "Specialist",
		description: "Watch 300 minutes on a single topic",
		earned: func(s Summary) bool {
			for _, t := range s.Topics {
				if t.Minutes >= 300 {
					return true
				}
			}
			return false
		},
	},
}

// Badges evaluates every badge rule against the summary
// All badges are returned so clients can render locked ones
func Badges(s Summary) []Badge {
	out := make([]Badge, 0, len(badgeRules))
	for _, r := range badgeRules {
		out = append(out, Badge{
			ID:          r.id,
			Name:        r.name,
			Description: r.description,
			Earned:      r.earned(s),
		})
	}
	return out
}
