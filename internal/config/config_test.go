package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.ServerAddress())
	assert.Equal(t, 5, cfg.SignupRateLimit)
	assert.Equal(t, 60*time.Second, cfg.SignupRateWindow)
	assert.Equal(t, 720*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.StrictHeaders)
	assert.True(t, cfg.IsDevelopment())
	assert.NotEmpty(t, cfg.SessionSecret)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")

	t.Setenv("SESSION_SECRET", "prod-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "prod-secret", cfg.SessionSecret)
}

func TestLoad_RejectsUnknownEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "staging")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsNonPositiveRateLimit(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("SIGNUP_RATE_LIMIT", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ParsesLists(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("SCYLLA_NODES", "node-1:9042,node-2:9042")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"node-1:9042", "node-2:9042"}, cfg.ScyllaNodes)
	assert.Equal(t, []string{"broker-1:9092"}, cfg.KafkaBrokers)
}

func TestBcryptCost(t *testing.T) {
	assert.Equal(t, 12, (&Config{Environment: "production"}).BcryptCost())
	assert.Equal(t, 10, (&Config{Environment: "development"}).BcryptCost())
	assert.Equal(t, 10, (&Config{Environment: "test"}).BcryptCost())
}
