package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withJWTEnv(t *testing.T, secret, expiration string) {
	t.Helper()
	originalSecret := os.Getenv("JWT_SECRET")
	originalExpiration := os.Getenv("JWT_EXPIRATION_HOURS")
	t.Cleanup(func() {
		if originalSecret != "" {
			os.Setenv("JWT_SECRET", originalSecret)
		} else {
			os.Unsetenv("JWT_SECRET")
		}
		if originalExpiration != "" {
			os.Setenv("JWT_EXPIRATION_HOURS", originalExpiration)
		} else {
			os.Unsetenv("JWT_EXPIRATION_HOURS")
		}
	})

	if secret != "" {
		os.Setenv("JWT_SECRET", secret)
	} else {
		os.Unsetenv("JWT_SECRET")
	}
	if expiration != "" {
		os.Setenv("JWT_EXPIRATION_HOURS", expiration)
	} else {
		os.Unsetenv("JWT_EXPIRATION_HOURS")
	}
}

func TestNewJWTConfig_DefaultValues(t *testing.T) {
	withJWTEnv(t, "test-secret-key", "")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "test-secret-key", cfg.Secret)
	assert.Equal(t, 24, cfg.ExpirationHours, "should use default expiration of 24 hours")
}

func TestNewJWTConfig_CustomExpiration(t *testing.T) {
	withJWTEnv(t, "test-secret-key", "48")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, 48, cfg.ExpirationHours)
}

func TestNewJWTConfig_MissingSecret(t *testing.T) {
	withJWTEnv(t, "", "")

	cfg, err := NewJWTConfig()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
}

func TestNewJWTConfig_InvalidExpiration(t *testing.T) {
	withJWTEnv(t, "test-secret-key", "not-a-number")

	cfg, err := NewJWTConfig()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "invalid JWT_EXPIRATION_HOURS")
}

func TestNewJWTConfig_ZeroExpiration(t *testing.T) {
	withJWTEnv(t, "test-secret-key", "0")

	cfg, err := NewJWTConfig()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "at least 1 hour")
}
