package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/commute-coach/internal/intent"
	"github.com/jonathan/commute-coach/internal/llm"
	"github.com/jonathan/commute-coach/internal/observability"
)

var intentCmd = &cobra.Command{
	Use:   "intent",
	Short: "Extract commute intent from a free-text message",
	Long:  "Uses an LLM to extract {topic, level, commute_minutes} from a free-text commute description, validated against the intent schema.",
	RunE:  runIntent,
}

var (
	intentMessage string
	intentMinutes int
	intentOutput  string
	intentVerbose bool
)

func init() {
	intentCmd.Flags().StringVarP(&intentMessage, "message", "m", "", "Free-text message to extract intent from (required)")
	intentCmd.Flags().IntVar(&intentMinutes, "minutes", 0, "Known commute length in minutes (overrides the model's guess)")
	intentCmd.Flags().StringVarP(&intentOutput, "out", "o", "", "Path to output intent JSON file (default stdout)")
	intentCmd.Flags().BoolVarP(&intentVerbose, "verbose", "v", false, "Print a formatted intent summary to stderr")

	if err := intentCmd.MarkFlagRequired("message"); err != nil {
		panic(fmt.Sprintf("failed to mark message flag as required: %v", err))
	}

	rootCmd.AddCommand(intentCmd)
}

func runIntent(_ *cobra.Command, _ []string) error {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	ctx := context.Background()

	client, err := llm.NewClient(ctx, llm.DefaultGeminiConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	extracted, err := intent.Extract(ctx, client, intentMessage, intentMinutes)
	if err != nil {
		return fmt.Errorf("failed to extract intent: %w", err)
	}

	if intentVerbose {
		observability.NewPrinter(os.Stderr).PrintIntent(extracted)
	}

	return writeJSONOutput(extracted, intentOutput)
}
