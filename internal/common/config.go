package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Source      SourceConfig    `toml:"source"`
	Sync        SyncConfig      `toml:"sync"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
	Scrape      ScrapeConfig    `toml:"scrape"`
	Logging     LoggingConfig   `toml:"logging"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"gt=0"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
	Blobs  BlobConfig   `toml:"blobs"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

// BlobConfig configures the filesystem blob store backing rehosted assets
// and workspace snapshots.
type BlobConfig struct {
	Path    string `toml:"path"`     // Base directory for stored blobs
	BaseURL string `toml:"base_url"` // Public URL prefix for retrieval, e.g. http://localhost:8085/data
}

// SourceConfig configures the remote hierarchical source client.
type SourceConfig struct {
	BaseURL           string        `toml:"base_url"`
	APIVersion        string        `toml:"api_version"`
	PageSize          int           `toml:"page_size" validate:"gt=0,lte=100"`
	RequestTimeout    time.Duration `toml:"request_timeout"`
	RequestsPerSecond float64       `toml:"requests_per_second" validate:"gt=0"` // Token bucket refill rate for paginated fetches
	Burst             int           `toml:"burst" validate:"gt=0"`
}

// SyncConfig configures the sync pipeline and work dispatch.
type SyncConfig struct {
	Concurrency    int           `toml:"concurrency" validate:"gt=0"` // Bounded fan-out for per-page record projection
	Timeout        time.Duration `toml:"timeout"`                     // Wall-clock budget for one full sync run
	PollInterval   time.Duration `toml:"poll_interval"`               // Work item poll interval
	Workers        int           `toml:"workers" validate:"gt=0"`     // Concurrent sync runs
	MaterializeURL string        `toml:"materialize_url"`             // Re-materialize endpoint, {workspaceId} placeholder
}

// SchedulerConfig configures periodic re-syncs.
type SchedulerConfig struct {
	Enabled bool         `toml:"enabled"`
	Targets []SyncTarget `toml:"targets"`
}

// SyncTarget is one workspace re-synced on a cron schedule.
type SyncTarget struct {
	Schedule     string `toml:"schedule" validate:"required"` // Cron expression
	WorkspaceID  string `toml:"workspace_id" validate:"required"`
	CollectionID string `toml:"collection_id" validate:"required"`
	Credential   string `toml:"credential" validate:"required"`
}

// ScrapeConfig configures the download-URL scraper.
type ScrapeConfig struct {
	EnableJavaScript bool          `toml:"enable_javascript"` // Use chromedp rendering; plain HTTP + goquery otherwise
	Timeout          time.Duration `toml:"timeout"`
	Selector         string        `toml:"selector"` // Default anchor selector
}

type LoggingConfig struct {
	Level      string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output     []string `toml:"output"` // "stdout", "file"
	TimeFormat string   `toml:"time_format"`
}

// NewDefaultConfig returns the baseline configuration before file and
// environment overrides are applied.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/speculo.db",
			},
			Blobs: BlobConfig{
				Path:    "./data/blobs",
				BaseURL: "http://localhost:8085/data",
			},
		},
		Source: SourceConfig{
			BaseURL:           "https://api.notion.com",
			APIVersion:        "2022-06-28",
			PageSize:          100,
			RequestTimeout:    30 * time.Second,
			RequestsPerSecond: 3,
			Burst:             1,
		},
		Sync: SyncConfig{
			Concurrency:    100,
			Timeout:        9 * time.Minute,
			PollInterval:   time.Second,
			Workers:        2,
			MaterializeURL: "http://localhost:8085/api/workspaces/{workspaceId}/materialize",
		},
		Scheduler: SchedulerConfig{
			Enabled: false,
		},
		Scrape: ScrapeConfig{
			EnableJavaScript: true,
			Timeout:          2 * time.Minute,
			Selector:         "a.input.popsok",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> file1 ->
// file2 -> ... -> env. Later files override earlier ones.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority).
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

func applyEnvOverrides(config *Config) {
	if env := os.Getenv("SPECULO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("SPECULO_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("SPECULO_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if path := os.Getenv("SPECULO_BADGER_PATH"); path != "" {
		config.Storage.Badger.Path = path
	}
	if path := os.Getenv("SPECULO_BLOBS_PATH"); path != "" {
		config.Storage.Blobs.Path = path
	}

	if baseURL := os.Getenv("SPECULO_SOURCE_BASE_URL"); baseURL != "" {
		config.Source.BaseURL = baseURL
	}

	if level := os.Getenv("SPECULO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}
