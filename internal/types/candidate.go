// Package types provides type definitions for structured data used throughout the commute-coach system.
package types

import "strings"

// Level is the difficulty level of a video.
type Level string

// Supported difficulty levels.
const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// ParseLevel normalizes a user-supplied level string.
// Returns the level and true, or "" and false if the value is not a known level.
func ParseLevel(s string) (Level, bool) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelBeginner:
		return LevelBeginner, true
	case LevelIntermediate:
		return LevelIntermediate, true
	case LevelAdvanced:
		return LevelAdvanced, true
	}
	return "", false
}

// Candidate is a video descriptor eligible for selection into a pack.
type Candidate struct {
	ID          string   `json:"id"`
	Title       string   `json:"title,omitempty"`
	DurationSec int      `json:"duration_sec"`
	TopicTags   []string `json:"topic_tags"`
	Level       Level    `json:"level,omitempty"` // empty means unlabeled
	SourceID    string   `json:"source_id,omitempty"`
	URL         string   `json:"url,omitempty"`
	Description string   `json:"description,omitempty"`
}

// HasTopic reports whether the candidate carries the given topic tag.
// Comparison is case-insensitive and exact per tag, never substring.
func (c *Candidate) HasTopic(topic string) bool {
	topic = NormalizeTag(topic)
	for _, tag := range c.TopicTags {
		if NormalizeTag(tag) == topic {
			return true
		}
	}
	return false
}

// NormalizeTag lowercases and trims a topic tag.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
