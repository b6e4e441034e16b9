// Package config loads url2kb configuration and sets up logging.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values.
type Config struct {
	// Conversion server
	ServerURL    string
	PollInterval time.Duration
	MaxWait      time.Duration // 0 = wait forever

	// Import defaults
	DefaultCollection   string
	RepairProviderID    string
	SummarizeProviderID string
	EmbeddingProviderID string
	ChunkSize           int // 0 = unset
	ChunkOverlap        int // -1 = unset

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// fileConfig mirrors the optional YAML config file.
type fileConfig struct {
	ServerURL         string `yaml:"server_url"`
	PollInterval      string `yaml:"poll_interval"`
	MaxWait           string `yaml:"max_wait"`
	Collection        string `yaml:"collection"`
	RepairProvider    string `yaml:"repair_provider"`
	SummarizeProvider string `yaml:"summarize_provider"`
	EmbeddingProvider string `yaml:"embedding_provider"`
	ChunkSize         *int   `yaml:"chunk_size"`
	ChunkOverlap      *int   `yaml:"chunk_overlap"`
	LogFile           string `yaml:"log_file"`
	LogLevel          string `yaml:"log_level"`
}

// Load builds the configuration from defaults, the optional YAML config
// file, and environment variables, in increasing precedence. A .env file
// in the working directory is loaded first and never overrides variables
// already set in the real environment.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		PollInterval: 3 * time.Second,
		ChunkOverlap: -1,
		LogFile:      "/tmp/url2kb.log",
		LogLevel:     slog.LevelInfo,
	}
	applyFile(&cfg)
	applyEnv(&cfg)
	return cfg
}

// configFilePath returns the YAML config path: URL2KB_CONFIG if set, else
// ~/.config/url2kb/config.yaml.
func configFilePath() string {
	if p := os.Getenv("URL2KB_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "url2kb", "config.yaml")
}

func applyFile(cfg *Config) {
	path := configFilePath()
	if path == "" {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		slog.Warn("ignoring malformed config file", "path", path, "error", err)
		return
	}

	if fc.ServerURL != "" {
		cfg.ServerURL = fc.ServerURL
	}
	if d, err := time.ParseDuration(fc.PollInterval); err == nil && d > 0 {
		cfg.PollInterval = d
	}
	if d, err := time.ParseDuration(fc.MaxWait); err == nil && d > 0 {
		cfg.MaxWait = d
	}
	if fc.Collection != "" {
		cfg.DefaultCollection = fc.Collection
	}
	if fc.RepairProvider != "" {
		cfg.RepairProviderID = fc.RepairProvider
	}
	if fc.SummarizeProvider != "" {
		cfg.SummarizeProviderID = fc.SummarizeProvider
	}
	if fc.EmbeddingProvider != "" {
		cfg.EmbeddingProviderID = fc.EmbeddingProvider
	}
	if fc.ChunkSize != nil {
		cfg.ChunkSize = *fc.ChunkSize
	}
	if fc.ChunkOverlap != nil {
		cfg.ChunkOverlap = *fc.ChunkOverlap
	}
	if fc.LogFile != "" {
		cfg.LogFile = fc.LogFile
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = parseLogLevel(fc.LogLevel)
	}
}

func applyEnv(cfg *Config) {
	setString(&cfg.ServerURL, "URL2KB_SERVER_URL")
	setDuration(&cfg.PollInterval, "URL2KB_POLL_INTERVAL")
	setDuration(&cfg.MaxWait, "URL2KB_MAX_WAIT")
	setString(&cfg.DefaultCollection, "URL2KB_COLLECTION")
	setString(&cfg.RepairProviderID, "URL2KB_REPAIR_PROVIDER")
	setString(&cfg.SummarizeProviderID, "URL2KB_SUMMARIZE_PROVIDER")
	setString(&cfg.EmbeddingProviderID, "URL2KB_EMBEDDING_PROVIDER")
	setInt(&cfg.ChunkSize, "URL2KB_CHUNK_SIZE")
	setInt(&cfg.ChunkOverlap, "URL2KB_CHUNK_OVERLAP")
	setString(&cfg.LogFile, "URL2KB_LOG_FILE")
	if v := os.Getenv("URL2KB_LOG_LEVEL"); v != "" {
		cfg.LogLevel = parseLogLevel(v)
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*dst = d
		}
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
