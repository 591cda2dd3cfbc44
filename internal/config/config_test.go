// internal/config/config_test.go

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:                "8080",
		Environment:         "production",
		DatabaseURL:         "postgresql://localhost:5432/uniroom",
		JWTSecret:           "a-real-secret",
		BCryptCost:          10,
		AccessTokenExpiry:   time.Hour,
		RefreshTokenExpiry:  168 * time.Hour,
		MinAge:              18,
		MaxAge:              100,
		MaxInterests:        10,
		CandidateLimit:      10,
		MessagePageSize:     50,
		LoginAttemptsMax:    5,
		LoginAttemptsWindow: 15 * time.Minute,
	}
}

func TestValidateRejectsDefaultSecretInProduction(t *testing.T) {
	cfg := validConfig()
	cfg.JWTSecret = "your-super-secret-key-change-this-in-production"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT secret")

	// the default secret is tolerated outside production
	cfg.Environment = "development"
	assert.NoError(t, cfg.Validate())
}

func TestValidateBounds(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	cfg := validConfig()
	cfg.MinAge = 16
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.CandidateLimit = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.BCryptCost = 2
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.DatabaseURL = ""
	assert.Error(t, cfg.Validate())
}

func TestEnvironmentHelpers(t *testing.T) {
	cfg := &Config{Environment: "production"}
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())

	cfg.Environment = "development"
	assert.False(t, cfg.IsProduction())
	assert.True(t, cfg.IsDevelopment())
}
