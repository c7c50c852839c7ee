package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/commute-coach/internal/types"
)

// User represents a user profile
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize to JSON
	PasswordSet  bool      `json:"password_set" db:"password_set"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// WatchedVideo is a row of a user's watch history. Watched ids feed the
// exclusion set for subsequent pack builds.
type WatchedVideo struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	VideoID     string    `json:"video_id"`
	Topic       string    `json:"topic"`
	Level       string    `json:"level,omitempty"`
	DurationSec int       `json:"duration_sec"`
	WatchedAt   time.Time `json:"watched_at"`
}

// SavedPack is a persisted pack build result.
type SavedPack struct {
	ID               uuid.UUID     `json:"id"`
	UserID           uuid.UUID     `json:"user_id"`
	Topic            string        `json:"topic"`
	Level            string        `json:"level,omitempty"`
	Items            CandidateList `json:"items"` // JSONB
	TotalDurationSec int           `json:"total_duration_sec"`
	UnderFilled      bool          `json:"under_filled"`
	CreatedAt        time.Time     `json:"created_at"`
}

// BlockedSource is a publisher/channel a user never wants content from.
type BlockedSource struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	SourceID  string    `json:"source_id"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TopicMinutes is an aggregate of watch time per topic.
type TopicMinutes struct {
	Topic   string `json:"topic"`
	Minutes int    `json:"minutes"`
	Videos  int    `json:"videos"`
}

// CandidateList handles JSONB arrays of candidates
type CandidateList []types.Candidate

// Scan implements the Scanner interface for CandidateList
func (l *CandidateList) Scan(src interface{}) error {
	if src == nil {
		*l = CandidateList{}
		return nil
	}
	source, ok := src.([]byte)
	if !ok {
		return errors.New("type assertion .([]byte) failed")
	}
	return json.Unmarshal(source, l)
}

// Value implements the Valuer interface for CandidateList
func (l CandidateList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}
