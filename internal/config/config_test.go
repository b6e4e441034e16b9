package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every URL2KB variable so host configuration cannot
// leak into the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"URL2KB_SERVER_URL", "URL2KB_POLL_INTERVAL", "URL2KB_MAX_WAIT",
		"URL2KB_COLLECTION", "URL2KB_REPAIR_PROVIDER", "URL2KB_SUMMARIZE_PROVIDER",
		"URL2KB_EMBEDDING_PROVIDER", "URL2KB_CHUNK_SIZE", "URL2KB_CHUNK_OVERLAP",
		"URL2KB_LOG_FILE", "URL2KB_LOG_LEVEL", "URL2KB_CONFIG",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("URL2KB_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg := Load()
	assert.Equal(t, 3*time.Second, cfg.PollInterval)
	assert.Equal(t, time.Duration(0), cfg.MaxWait)
	assert.Equal(t, 0, cfg.ChunkSize)
	assert.Equal(t, -1, cfg.ChunkOverlap)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("URL2KB_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("URL2KB_SERVER_URL", "http://kb.internal:9000")
	t.Setenv("URL2KB_POLL_INTERVAL", "5s")
	t.Setenv("URL2KB_MAX_WAIT", "10m")
	t.Setenv("URL2KB_COLLECTION", "articles")
	t.Setenv("URL2KB_CHUNK_SIZE", "512")
	t.Setenv("URL2KB_CHUNK_OVERLAP", "0")
	t.Setenv("URL2KB_LOG_LEVEL", "debug")

	cfg := Load()
	assert.Equal(t, "http://kb.internal:9000", cfg.ServerURL)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, 10*time.Minute, cfg.MaxWait)
	assert.Equal(t, "articles", cfg.DefaultCollection)
	assert.Equal(t, 512, cfg.ChunkSize)
	assert.Equal(t, 0, cfg.ChunkOverlap)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server_url: http://kb.internal:9000
poll_interval: 2s
collection: notes
summarize_provider: prov-x
chunk_overlap: 16
log_level: warn
`), 0644))
	t.Setenv("URL2KB_CONFIG", path)

	cfg := Load()
	assert.Equal(t, "http://kb.internal:9000", cfg.ServerURL)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Equal(t, "notes", cfg.DefaultCollection)
	assert.Equal(t, "prov-x", cfg.SummarizeProviderID)
	assert.Equal(t, 16, cfg.ChunkOverlap)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: http://from-file\n"), 0644))
	t.Setenv("URL2KB_CONFIG", path)
	t.Setenv("URL2KB_SERVER_URL", "http://from-env")

	cfg := Load()
	assert.Equal(t, "http://from-env", cfg.ServerURL)
}

func TestLoadIgnoresMalformedFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0644))
	t.Setenv("URL2KB_CONFIG", path)

	cfg := Load()
	assert.Equal(t, 3*time.Second, cfg.PollInterval)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.in), "level %q", tt.in)
	}
}
