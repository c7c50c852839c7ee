package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// BuildPackRequest is the legacy pack-build API request.
// Candidates may be supplied inline; when omitted the server fetches them
// from the configured catalog sources.
type BuildPackRequest struct {
	Topic            string      `json:"topic" validate:"required,min=1"`
	Level            string      `json:"level,omitempty"`
	MinDurationSec   int         `json:"min_duration_sec" validate:"required,gt=0"`
	MaxDurationSec   int         `json:"max_duration_sec" validate:"required,gt=0,gtefield=MinDurationSec"`
	ExcludedIDs      []string    `json:"excluded_ids,omitempty"`
	BlockedSourceIDs []string    `json:"blocked_source_ids,omitempty"`
	Seed             int64       `json:"seed,omitempty"`
	Candidates       []Candidate `json:"candidates,omitempty"`
	Save             bool        `json:"save,omitempty"`
}

// BuildPackV2Request is the strict pack-build API request: level is
// mandatory and the window is a fixed band around target_seconds.
type BuildPackV2Request struct {
	Topic            string      `json:"topic" validate:"required,min=1"`
	Level            string      `json:"level" validate:"required,oneof=beginner intermediate advanced"`
	TargetSeconds    int         `json:"target_seconds" validate:"required,gt=60"`
	ExcludedIDs      []string    `json:"excluded_ids,omitempty"`
	BlockedSourceIDs []string    `json:"blocked_source_ids,omitempty"`
	Seed             int64       `json:"seed,omitempty"`
	Candidates       []Candidate `json:"candidates,omitempty"`
	Save             bool        `json:"save,omitempty"`
}

// PackResponse is the API shape of a built pack.
type PackResponse struct {
	ID               *uuid.UUID  `json:"id,omitempty"` // set when the pack was saved
	Topic            string      `json:"topic"`
	Level            string      `json:"level,omitempty"`
	Items            []Candidate `json:"items"`
	TotalDurationSec int         `json:"total_duration_sec"`
	UnderFilled      bool        `json:"under_filled"`
	Message          string      `json:"message,omitempty"`
	CreatedAt        *time.Time  `json:"created_at,omitempty"`
}

// Validate validates the BuildPackRequest using the validator.
func (r *BuildPackRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the BuildPackV2Request using the validator.
func (r *BuildPackV2Request) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
