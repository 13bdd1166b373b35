package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"SERVER_PORT", "DB_DRIVER", "SESSION_TTL", "CONTENT_DIR", "KAFKA_BROKERS", "CSRF_ENABLED", "APP_ENV"} {
		t.Setenv(k, "")
	}

	cfg := Load("")

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "public/images", cfg.ContentDir)
	assert.Nil(t, cfg.KafkaBrokers)
	assert.True(t, cfg.CSRFEnabled)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_FromEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DB_DRIVER=SQLite\nSESSION_TTL=2h\nKAFKA_BROKERS= a:9092, ,b:9092\n"), 0o600))

	// godotenv never overrides variables that are already set.
	t.Setenv("DB_DRIVER", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("KAFKA_BROKERS", "")
	os.Unsetenv("DB_DRIVER")
	os.Unsetenv("SESSION_TTL")
	os.Unsetenv("KAFKA_BROKERS")

	cfg := Load(envFile)

	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
}

func TestEnvHelpers_FallBackOnGarbage(t *testing.T) {
	t.Setenv("X_INT", "nope")
	t.Setenv("X_BOOL", "maybe")
	t.Setenv("X_DUR", "-5m")

	assert.Equal(t, 7, EnvIntDefault("X_INT", 7))
	assert.False(t, EnvBoolDefault("X_BOOL", false))
	assert.Equal(t, time.Minute, EnvDurationDefault("X_DUR", time.Minute))
}
