package common

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"

	"github.com/ternarybob/docqa/internal/interfaces"
)

// Config represents the application configuration
type Config struct {
	Environment string            `toml:"environment"` // "development" or "production"
	Server      ServerConfig      `toml:"server"`
	Storage     StorageConfig     `toml:"storage"`
	Logging     LoggingConfig     `toml:"logging"`
	Gemini      GeminiConfig      `toml:"gemini"`
	Upload      UploadConfig      `toml:"upload"`
	Search      SearchConfig      `toml:"search"`
	WebSocket   WebSocketConfig   `toml:"websocket"`
	Maintenance MaintenanceConfig `toml:"maintenance"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// StorageConfig selects the key/value backend standing in for the browser store
type StorageConfig struct {
	Type   string       `toml:"type"` // "badger" (default), "sqlite" or "memory"
	Badger BadgerConfig `toml:"badger"`
	SQLite SQLiteConfig `toml:"sqlite"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

// SQLiteConfig represents SQLite-specific configuration
type SQLiteConfig struct {
	Path          string `toml:"path"`
	BusyTimeoutMS int    `toml:"busy_timeout_ms"`
	WALMode       bool   `toml:"wal_mode"`
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Format     string   `toml:"format"`      // "json" or "text"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Go layout used by console and file writers
}

// GeminiConfig configures the remote answer service
type GeminiConfig struct {
	APIKey     string `toml:"api_key"`     // Lowest priority, see ResolveAPIKey
	Model      string `toml:"model"`       // e.g. "gemini-1.5-flash"
	BaseURL    string `toml:"base_url"`    // Empty uses the SDK default endpoint
	APIVersion string `toml:"api_version"` // e.g. "v1beta"
	Timeout    string `toml:"timeout"`     // Empty means no timeout beyond the transport default
}

// UploadConfig controls the simulated upload progress
type UploadConfig struct {
	Interval string `toml:"interval"` // Tick interval, e.g. "200ms"
	Step     int    `toml:"step"`     // Percentage added per tick
}

type SearchConfig struct {
	DebounceDelay string `toml:"debounce_delay"` // e.g. "300ms"
}

type WebSocketConfig struct {
	AllowedEvents     []string          `toml:"allowed_events"`     // Empty = broadcast all events
	ThrottleIntervals map[string]string `toml:"throttle_intervals"` // event type -> minimum interval, e.g. upload_progress = "500ms"
}

type MaintenanceConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // Cron schedule format
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8086,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Type: "badger",
			Badger: BadgerConfig{
				Path: "./data/docqa",
			},
			SQLite: SQLiteConfig{
				Path:          "./data/docqa.db",
				BusyTimeoutMS: 5000,
				WALMode:       true,
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05",
		},
		Gemini: GeminiConfig{
			Model:      "gemini-1.5-flash",
			APIVersion: "v1beta",
		},
		Upload: UploadConfig{
			Interval: "200ms",
			Step:     10,
		},
		Search: SearchConfig{
			DebounceDelay: "300ms",
		},
		WebSocket: WebSocketConfig{
			AllowedEvents: []string{},
			ThrottleIntervals: map[string]string{
				"upload_progress": "100ms",
			},
		},
		Maintenance: MaintenanceConfig{
			Enabled:  true,
			Schedule: "0 */6 * * *",
		},
	}
}

// LoadFromFile loads configuration from a single file
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority: defaults -> file1 -> file2 -> ... -> env
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Later files override earlier files
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

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func applyEnvOverrides(config *Config) {
	if env := os.Getenv("DOCQA_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("DOCQA_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("DOCQA_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if storageType := os.Getenv("DOCQA_STORAGE_TYPE"); storageType != "" {
		config.Storage.Type = storageType
	}
	if badgerPath := os.Getenv("DOCQA_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if sqlitePath := os.Getenv("DOCQA_SQLITE_PATH"); sqlitePath != "" {
		config.Storage.SQLite.Path = sqlitePath
	}

	// Logging configuration
	if level := os.Getenv("DOCQA_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("DOCQA_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if output := os.Getenv("DOCQA_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Gemini configuration (the API key itself is resolved by ResolveAPIKey)
	if model := os.Getenv("DOCQA_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
	if baseURL := os.Getenv("DOCQA_GEMINI_BASE_URL"); baseURL != "" {
		config.Gemini.BaseURL = baseURL
	}
	if timeout := os.Getenv("DOCQA_GEMINI_TIMEOUT"); timeout != "" {
		config.Gemini.Timeout = timeout
	}

	if delay := os.Getenv("DOCQA_SEARCH_DEBOUNCE_DELAY"); delay != "" {
		config.Search.DebounceDelay = delay
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	// Command-line flags have highest priority
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks values that would otherwise fail later at startup
func (c *Config) Validate() error {
	switch strings.ToLower(c.Storage.Type) {
	case "", "badger", "sqlite", "memory":
	default:
		return fmt.Errorf("unsupported storage type %q (expected badger, sqlite or memory)", c.Storage.Type)
	}

	for name, value := range map[string]string{
		"upload.interval":       c.Upload.Interval,
		"search.debounce_delay": c.Search.DebounceDelay,
		"gemini.timeout":        c.Gemini.Timeout,
	} {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid duration for %s '%s': %w", name, value, err)
		}
	}

	if c.Upload.Step <= 0 || c.Upload.Step > 100 {
		return fmt.Errorf("upload.step must be between 1 and 100, got %d", c.Upload.Step)
	}

	if c.Maintenance.Enabled {
		if err := ValidateSchedule(c.Maintenance.Schedule); err != nil {
			return fmt.Errorf("invalid maintenance.schedule: %w", err)
		}
	}

	return nil
}

// ResolveAPIKey resolves an API key by name with environment variable priority
// Resolution order: environment variables → KV store → config fallback → error
func ResolveAPIKey(ctx context.Context, kvStorage interfaces.KeyValueStorage, name string, configFallback string) (string, error) {
	// Order: project name first, then the name Google's own tooling reads
	keyToEnvMapping := map[string][]string{
		"gemini_api_key": {"DOCQA_GEMINI_API_KEY", "GOOGLE_API_KEY"},
		"google_api_key": {"DOCQA_GEMINI_API_KEY", "GOOGLE_API_KEY"},
	}

	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	if kvStorage != nil {
		apiKey, err := kvStorage.Get(ctx, name)
		if err == nil && apiKey != "" {
			return apiKey, nil
		}
	}

	if configFallback != "" {
		return configFallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment, KV store, or config", name)
}

// ValidateSchedule validates a five-field cron schedule expression
func ValidateSchedule(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}

// ParseDurationOr parses value, returning fallback when value is empty or invalid
func ParseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
