// Package config loads gitsage configuration from the environment and makes
// it available to the rest of the module. Settings come from GITSAGE_*
// variables, optionally seeded from a .env file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	globalConfig *Config
	configMutex  sync.RWMutex
)

// Get returns the global configuration instance, or an error if it has not
// been initialized yet.
func Get() (*Config, error) {
	configMutex.RLock()
	defer configMutex.RUnlock()

	if globalConfig == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}
	return globalConfig, nil
}

// Set replaces the global configuration instance.
func Set(cfg *Config) {
	configMutex.Lock()
	defer configMutex.Unlock()

	globalConfig = cfg
}

// Config is the complete gitsage configuration.
type Config struct {
	Database  DatabaseConfig
	Logging   LoggingConfig
	Analysis  AnalysisConfig
	Assistant AssistantConfig

	configDir string // directory the config was resolved against
}

// DatabaseConfig configures the SQLite store.
type DatabaseConfig struct {
	Path            string        // Path to the SQLite database file
	JournalMode     string        // Journal mode (WAL recommended)
	SynchronousMode string        // Synchronous mode
	BusyTimeout     int           // Busy timeout in milliseconds
	CacheSize       int           // Cache size in KiB (negative per SQLite convention)
	ForeignKeys     bool          // Whether to enforce foreign key constraints
	ConnMaxLife     time.Duration // Maximum connection lifetime
	QueryTimeout    time.Duration // Query timeout
}

// LoggingConfig configures the loggy logger.
type LoggingConfig struct {
	Level      string // debug, info, warn, error, none
	Format     string // text or json
	Output     string // stdout, stderr, or a file path
	AddSource  bool   // Include source position in records
	TimeFormat string // Time format for records (empty uses RFC3339)
}

// AnalysisConfig carries overrides for the analysis policy and the
// aggregator's collaborator-fetch behavior. Empty keyword lists mean "use
// the built-in defaults"; the exact membership of these lists is product
// policy, not part of the scoring contract.
type AnalysisConfig struct {
	CriticalPatterns []string // substrings marking a path as operationally risky
	ExcludedPaths    []string // substrings excluding a path from hotspots
	SourcePrefixes   []string // leading directories stripped for hotspot display
	HotspotLimit     int      // hotspots kept per author

	FetchConcurrency int     // concurrent per-commit file-list fetches
	FetchesPerSec    float64 // rate limit on collaborator fetches
	FetchBurst       int     // burst allowance for the fetch limiter
}

// AssistantConfig configures the generation pipeline's retry behavior.
type AssistantConfig struct {
	MaxAttempts    int           // attempts per request before giving up
	InitialBackoff time.Duration // first retry delay
	MaxElapsedTime time.Duration // total retry budget per request
}

// New returns an empty Config; LoadFromEnv fills in defaults.
func New() *Config {
	return &Config{}
}

// ConfigDir returns the directory configuration was resolved against.
func (c *Config) ConfigDir() string {
	return c.configDir
}

// Validate checks the configuration for values the module cannot run with.
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return fmt.Errorf("database config: %w", err)
	}
	if err := c.validateLogging(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	if err := c.validateAnalysis(); err != nil {
		return fmt.Errorf("analysis config: %w", err)
	}
	if err := c.validateAssistant(); err != nil {
		return fmt.Errorf("assistant config: %w", err)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	dir := filepath.Dir(c.Database.Path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating database directory: %w", err)
		}
	}
	if err := checkDirectoryWritable(dir); err != nil {
		return fmt.Errorf("database directory: %w", err)
	}

	if c.Database.BusyTimeout <= 0 {
		return fmt.Errorf("busy timeout must be positive")
	}
	if c.Database.ConnMaxLife <= 0 {
		return fmt.Errorf("connection max life must be positive")
	}
	if c.Database.QueryTimeout <= 0 {
		return fmt.Errorf("query timeout must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error", "none":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if c.Analysis.HotspotLimit <= 0 {
		return fmt.Errorf("hotspot limit must be positive")
	}
	if c.Analysis.FetchConcurrency <= 0 {
		return fmt.Errorf("fetch concurrency must be positive")
	}
	if c.Analysis.FetchesPerSec <= 0 {
		return fmt.Errorf("fetch rate must be positive")
	}
	return nil
}

func (c *Config) validateAssistant() error {
	if c.Assistant.MaxAttempts <= 0 {
		return fmt.Errorf("max attempts must be positive")
	}
	if c.Assistant.InitialBackoff <= 0 {
		return fmt.Errorf("initial backoff must be positive")
	}
	return nil
}

// ParseLogLevel maps a level name to its slog.Level. "none" disables output.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "none":
		return slog.Level(9999)
	default:
		return slog.LevelInfo
	}
}

// getEnvString returns a string from the environment variable
func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an int from the environment variable
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool returns a bool from the environment variable
func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration returns a time.Duration from the environment variable
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvFloat returns a float64 from the environment variable
func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvStringSlice returns a comma-separated list from the environment
// variable, trimming whitespace and dropping empty entries.
func getEnvStringSlice(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	if out == nil {
		return defaultValue
	}
	return out
}

// checkDirectoryWritable tests if a directory is writable
func checkDirectoryWritable(dir string) error {
	testFile := filepath.Join(dir, fmt.Sprintf("test_write_%d", time.Now().UnixNano()))
	f, err := os.Create(testFile)
	if err != nil {
		return fmt.Errorf("directory not writable: %w", err)
	}
	f.Close()
	os.Remove(testFile)
	return nil
}
