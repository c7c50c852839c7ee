package types

import "github.com/go-playground/validator/v10"

// ChatRequest is a conversational pack request: free text from the user,
// optionally with a known commute length when the client already has it.
type ChatRequest struct {
	Message        string `json:"message" validate:"required,min=1"`
	CommuteMinutes int    `json:"commute_minutes,omitempty" validate:"omitempty,gt=0"`
}

// CommuteIntent is the structured intent extracted from a chat message.
type CommuteIntent struct {
	Topic          string `json:"topic"`
	Level          string `json:"level"`
	CommuteMinutes int    `json:"commute_minutes"`
}

// TargetSeconds returns the pack target window center for the intent.
func (i *CommuteIntent) TargetSeconds() int {
	return i.CommuteMinutes * 60
}

// ChatResponse carries the extracted intent alongside the built pack.
type ChatResponse struct {
	Intent CommuteIntent `json:"intent"`
	Pack   PackResponse  `json:"pack"`
}

// Validate validates the ChatRequest using the validator.
func (r *ChatRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
