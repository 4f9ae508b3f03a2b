package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadDotEnv_LoadsValuesAndIgnoresNoise(t *testing.T) {
	unsetEnv(t, "A", "B", "C")

	path := filepath.Join(t.TempDir(), ".env")
	content := []byte(`
# comment

A=one
export B=two
C="three"
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	require.NoError(t, loadDotEnv(path))

	assert.Equal(t, "one", os.Getenv("A"))
	assert.Equal(t, "two", os.Getenv("B"))
	assert.Equal(t, "three", os.Getenv("C"))
}

func TestLoadDotEnv_DoesNotOverwriteExistingEnv(t *testing.T) {
	t.Setenv("KEEP", "already")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("KEEP=fromfile\n"), 0o600))

	require.NoError(t, loadDotEnv(path))

	assert.Equal(t, "already", os.Getenv("KEEP"))
}

func TestLoadDotEnv_MissingFileIsNotAnError(t *testing.T) {
	assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), "nope.env")))
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	unsetEnv(t, "APP_ENV", "DB_PATH", "PORT", "LOG_LEVEL", "LOG_FORMAT",
		"SHUTDOWN_TIMEOUT", "API_RATE_LIMIT", "API_RATE_WINDOW",
		"ADMIN_EMAIL", "ADMIN_PASSWORD", "SESSION_SECRET")

	cfg := Load()

	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "./dev.db", cfg.DBPath)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 60, cfg.APIRateLimit)
	assert.Equal(t, time.Minute, cfg.APIRateWindow)
	assert.Len(t, cfg.Warnings(), 3)
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("API_RATE_LIMIT", "not-a-number")
	t.Setenv("ADMIN_EMAIL", "admin@artson.example")
	t.Setenv("ADMIN_PASSWORD", "secret")
	t.Setenv("SESSION_SECRET", "s3cr3t")

	cfg := Load()

	assert.False(t, cfg.IsDev())
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 60, cfg.APIRateLimit)
	assert.Empty(t, cfg.Warnings())
}
