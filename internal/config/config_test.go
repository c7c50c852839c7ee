package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	// Create temp config file
	content := `{
		"index_url": "https://example.com/courses",
		"topic": "python",
		"level": "beginner",
		"commute_minutes": 30,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "https://example.com/courses", cfg.IndexURL)
	assert.Equal(t, "python", cfg.Topic)
	assert.Equal(t, "beginner", cfg.Level)
	assert.Equal(t, 30, cfg.CommuteMinutes)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate_MutuallyExclusive(t *testing.T) {
	cfg := &Config{
		IndexURL:   "https://example.com/courses",
		Candidates: "candidates.json",
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestValidate_NegativeMinutes(t *testing.T) {
	cfg := &Config{
		CommuteMinutes: -1,
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must be non-negative")
}

func TestValidate_MissingCandidatesFile(t *testing.T) {
	cfg := &Config{
		Candidates: "/nonexistent/candidates.json",
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "candidates file not found")
}

func TestValidate_Empty(t *testing.T) {
	cfg := &Config{}
	assert.NoError(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{
		Topic:   "python",
		Verbose: true,
	}
	defaults := Config{
		Topic:          "go",
		Level:          "beginner",
		CommuteMinutes: 25,
		DatabaseURL:    "postgres://localhost/commute_coach",
		ListenAddr:     ":8080",
	}

	merged := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, "python", merged.Topic, "explicit value should win")
	assert.Equal(t, "beginner", merged.Level, "empty field should take default")
	assert.Equal(t, 25, merged.CommuteMinutes)
	assert.Equal(t, "postgres://localhost/commute_coach", merged.DatabaseURL)
	assert.Equal(t, ":8080", merged.ListenAddr)
	assert.True(t, merged.Verbose)
}
