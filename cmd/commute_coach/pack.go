// Package main implements the commute_coach CLI for commute-length playlist building.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/commute-coach/internal/catalog"
	"github.com/jonathan/commute-coach/internal/config"
	"github.com/jonathan/commute-coach/internal/fetch"
	"github.com/jonathan/commute-coach/internal/observability"
	"github.com/jonathan/commute-coach/internal/packer"
	"github.com/jonathan/commute-coach/internal/types"
)

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Build a pack from a candidates JSON file",
	Long:  "Deterministically builds a commute-length pack from a local candidates JSON file, without the server or database. Selection is ordered by (duration asc, id asc) and never exceeds the window maximum.",
	RunE:  runPack,
}

var (
	packConfigPath string
	packCandidates string
	packIndexURL   string
	packTopic      string
	packLevel      string
	packMinutes    int
	packMinSec     int
	packMaxSec     int
	packOutput     string
	packVerbose    bool
)

func init() {
	packCmd.Flags().StringVarP(&packConfigPath, "config", "c", "", "Path to JSON config file with defaults")
	packCmd.Flags().StringVar(&packCandidates, "candidates", "", "Path to candidates JSON file")
	packCmd.Flags().StringVar(&packIndexURL, "index-url", "", "Course index URL to scrape candidates from (alternative to --candidates)")
	packCmd.Flags().StringVarP(&packTopic, "topic", "t", "", "Topic tag to filter on")
	packCmd.Flags().StringVarP(&packLevel, "level", "l", "", "Difficulty level filter (beginner|intermediate|advanced)")
	packCmd.Flags().IntVarP(&packMinutes, "minutes", "m", 0, "Commute length in minutes (window is minutes*60 plus/minus 60 seconds)")
	packCmd.Flags().IntVar(&packMinSec, "min-sec", 0, "Explicit window minimum in seconds (overrides --minutes)")
	packCmd.Flags().IntVar(&packMaxSec, "max-sec", 0, "Explicit window maximum in seconds (overrides --minutes)")
	packCmd.Flags().StringVarP(&packOutput, "out", "o", "", "Path to output pack JSON file (default stdout)")
	packCmd.Flags().BoolVarP(&packVerbose, "verbose", "v", false, "Print the candidate pool and pack summary to stderr")

	rootCmd.AddCommand(packCmd)
}

func runPack(_ *cobra.Command, _ []string) error {
	cfg := &config.Config{
		Candidates:     packCandidates,
		IndexURL:       packIndexURL,
		Topic:          packTopic,
		Level:          packLevel,
		CommuteMinutes: packMinutes,
		Verbose:        packVerbose,
	}

	if packConfigPath != "" {
		fileCfg, err := config.LoadConfig(packConfigPath)
		if err != nil {
			return err
		}
		merged := cfg.MergeWithDefaults(*fileCfg)
		cfg = &merged
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Candidates == "" && cfg.IndexURL == "" {
		return fmt.Errorf("a candidate source is required (use --candidates or --index-url, or the config file)")
	}
	if cfg.Topic == "" {
		return fmt.Errorf("topic is required (use --topic or the config file)")
	}

	minSec, maxSec, err := packWindow(cfg.CommuteMinutes, packMinSec, packMaxSec)
	if err != nil {
		return err
	}

	var level types.Level
	if cfg.Level != "" {
		parsed, ok := types.ParseLevel(cfg.Level)
		if !ok {
			return fmt.Errorf("unknown level: %s", cfg.Level)
		}
		level = parsed
	}

	var printer *observability.Printer
	if cfg.Verbose {
		printer = observability.NewPrinter(os.Stderr)
	}

	candidates, err := resolveCandidates(cfg, level)
	if err != nil {
		return err
	}
	if printer != nil {
		printer.PrintCandidatePool(candidates)
	}

	result, err := packer.BuildPack(candidates, packer.Request{
		Topic:          cfg.Topic,
		Level:          level,
		MinDurationSec: minSec,
		MaxDurationSec: maxSec,
	})
	if err != nil {
		return err
	}

	resp := types.PackResponse{
		Topic:            cfg.Topic,
		Level:            cfg.Level,
		Items:            result.Items,
		TotalDurationSec: result.TotalDurationSec,
		UnderFilled:      result.UnderFilled,
	}
	if len(resp.Items) == 0 {
		resp.Items = []types.Candidate{}
		resp.Message = "No matching videos found for this window"
	}
	if printer != nil {
		printer.PrintPack(&resp, minSec, maxSec)
	}

	return writeJSONOutput(&resp, packOutput)
}

// resolveCandidates loads the pool from the candidates file or scrapes the
// configured course index.
func resolveCandidates(cfg *config.Config, level types.Level) ([]types.Candidate, error) {
	if cfg.Candidates != "" {
		return loadCandidates(cfg.Candidates)
	}

	fetcher := fetch.NewCachedFetcher(fetch.DefaultCachedFetcherConfig())
	source := catalog.NewIndexSource(cfg.IndexURL, fetcher, cfg.UseBrowser)
	candidates, err := source.Fetch(context.Background(), cfg.Topic, level)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidates from index: %w", err)
	}
	return candidates, nil
}

// packWindow resolves the acceptance window from either explicit bounds or a
// commute length in minutes.
func packWindow(minutes, minSec, maxSec int) (int, int, error) {
	if minSec > 0 || maxSec > 0 {
		if minSec <= 0 || maxSec <= 0 {
			return 0, 0, fmt.Errorf("both --min-sec and --max-sec are required when one is set")
		}
		return minSec, maxSec, nil
	}
	if minutes <= 1 {
		return 0, 0, fmt.Errorf("commute minutes must be greater than 1, got %d", minutes)
	}
	target := minutes * 60
	return target - 60, target + 60, nil
}

// loadCandidates reads a candidates JSON file (an array of candidates).
func loadCandidates(path string) ([]types.Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidates file %s: %w", path, err)
	}

	var candidates []types.Candidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, fmt.Errorf("failed to parse candidates JSON: %w", err)
	}

	return candidates, nil
}

// writeJSONOutput marshals v with indentation to the given path, or stdout
// when path is empty.
func writeJSONOutput(v any, path string) error {
	jsonOutput, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output to JSON: %w", err)
	}

	if path == "" {
		_, _ = fmt.Fprintln(os.Stdout, string(jsonOutput))
		return nil
	}

	outputDir := filepath.Dir(path)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
	}

	if err := os.WriteFile(path, jsonOutput, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}

	return nil
}
