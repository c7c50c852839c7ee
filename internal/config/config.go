// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Sources
	IndexURL   string `json:"index_url,omitempty"`  // Course index URL to scrape candidates from
	Candidates string `json:"candidates,omitempty"` // Path to a candidates JSON file

	// Defaults for pack building
	Topic          string `json:"topic,omitempty"`           // Default topic filter
	Level          string `json:"level,omitempty"`           // Default difficulty level
	CommuteMinutes int    `json:"commute_minutes,omitempty"` // Default commute length in minutes

	// Behavior
	APIKey        string `json:"api_key,omitempty"`         // Gemini API key
	YouTubeAPIKey string `json:"youtube_api_key,omitempty"` // YouTube Data API key
	UseBrowser    bool   `json:"use_browser,omitempty"`     // Use headless browser for SPA index pages
	Verbose       bool   `json:"verbose,omitempty"`         // Print detailed debug information
	DatabaseURL   string `json:"database_url,omitempty"`    // PostgreSQL connection URL
	ListenAddr    string `json:"listen_addr,omitempty"`     // Address for the HTTP server
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	// Validate mutually exclusive fields
	if c.IndexURL != "" && c.Candidates != "" {
		return fmt.Errorf("config error: 'index_url' and 'candidates' are mutually exclusive")
	}

	if c.CommuteMinutes < 0 {
		return fmt.Errorf("config error: 'commute_minutes' must be non-negative")
	}

	if c.Candidates != "" {
		if _, err := os.Stat(c.Candidates); os.IsNotExist(err) {
			return fmt.Errorf("config error: candidates file not found: %s", c.Candidates)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty string fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.IndexURL == "" {
		result.IndexURL = defaults.IndexURL
	}
	if result.Candidates == "" {
		result.Candidates = defaults.Candidates
	}
	if result.Topic == "" {
		result.Topic = defaults.Topic
	}
	if result.Level == "" {
		result.Level = defaults.Level
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.YouTubeAPIKey == "" {
		result.YouTubeAPIKey = defaults.YouTubeAPIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.ListenAddr == "" {
		result.ListenAddr = defaults.ListenAddr
	}

	// Int fields: use default if zero
	if result.CommuteMinutes == 0 {
		result.CommuteMinutes = defaults.CommuteMinutes
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
