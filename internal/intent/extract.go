package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/commute-coach/internal/llm"
	"github.com/jonathan/commute-coach/internal/types"
)

// Extract pulls a CommuteIntent out of a free-text chat message via the LLM.
// knownMinutes, when positive, overrides whatever commute length the model
// extracts (the client already knows the user's commute).
func Extract(ctx context.Context, client llm.Client, message string, knownMinutes int) (*types.CommuteIntent, error) {
	if strings.TrimSpace(message) == "" {
		return nil, &ValidationError{Field: "message", Message: "message is empty"}
	}

	prompt := llm.BuildExtractionPrompt(llm.CommuteIntentSchema(), message)

	responseText, err := client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, &APICallError{
			Message: "failed to generate intent from LLM",
			Cause:   err,
		}
	}

	intent, err := Parse(responseText)
	if err != nil {
		return nil, err
	}

	if knownMinutes > 0 {
		intent.CommuteMinutes = knownMinutes
	}

	return intent, nil
}

// Parse validates raw LLM output against the intent schema and decodes it.
// Exposed separately so callers (and tests) can exercise the validation path
// without an LLM round trip.
func Parse(raw string) (*types.CommuteIntent, error) {
	raw = llm.CleanJSONBlock(raw)

	if err := validateAgainstSchema(raw); err != nil {
		return nil, err
	}

	var intent types.CommuteIntent
	if err := json.Unmarshal([]byte(raw), &intent); err != nil {
		return nil, &ParseError{
			Message: "failed to parse intent JSON",
			Cause:   err,
		}
	}

	// Schema already enforced the enum; normalize casing/whitespace anyway.
	level, ok := types.ParseLevel(intent.Level)
	if !ok {
		return nil, &ValidationError{Field: "level", Message: fmt.Sprintf("unknown level %q", intent.Level)}
	}
	intent.Level = string(level)
	intent.Topic = types.NormalizeTag(intent.Topic)

	return &intent, nil
}

// validateAgainstSchema checks the raw JSON against the embedded schema.
func validateAgainstSchema(raw string) error {
	schemaLoader := gojsonschema.NewStringLoader(intentJSONSchema)
	docLoader := gojsonschema.NewStringLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return &ParseError{
			Message: "failed to validate intent JSON",
			Cause:   err,
		}
	}

	if !result.Valid() {
		var sb strings.Builder
		for i, desc := range result.Errors() {
			if i > 0 {
				sb.WriteString("; ")
			}
			sb.WriteString(desc.String())
		}
		return &ValidationError{Field: "intent", Message: sb.String()}
	}

	return nil
}
