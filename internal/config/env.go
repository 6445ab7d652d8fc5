package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// LoadFromEnv builds a Config from GITSAGE_* environment variables,
// optionally seeded from a .env file. configDir is where the database and
// log files default to (empty means ~/.gitsage); envFilePath overrides the
// .env location.
func LoadFromEnv(configDir string, envFilePath string) (*Config, error) {
	cfg := New()

	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".gitsage")
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}
	cfg.configDir = configDir

	defaultDBPath := filepath.Join(configDir, "gitsage.db")
	defaultLogPath := filepath.Join(configDir, "gitsage.log")

	// GITSAGE_ENV_FILE points at an explicit .env; otherwise try the config
	// directory and then the working directory.
	if custom := getEnvString("GITSAGE_ENV_FILE", envFilePath); custom != "" {
		if err := godotenv.Load(custom); err != nil {
			return nil, fmt.Errorf("loading env file %s: %w", custom, err)
		}
	} else if err := godotenv.Load(filepath.Join(configDir, ".env")); err != nil {
		_ = godotenv.Load()
	}

	cfg.Database = DatabaseConfig{
		Path:            getEnvString("GITSAGE_DB_PATH", defaultDBPath),
		JournalMode:     getEnvString("GITSAGE_DB_JOURNAL_MODE", "WAL"),
		SynchronousMode: getEnvString("GITSAGE_DB_SYNCHRONOUS_MODE", "NORMAL"),
		BusyTimeout:     getEnvInt("GITSAGE_DB_BUSY_TIMEOUT", 5000),
		CacheSize:       getEnvInt("GITSAGE_DB_CACHE_SIZE", -64000), // ~64MB
		ForeignKeys:     getEnvBool("GITSAGE_DB_FOREIGN_KEYS", true),
		ConnMaxLife:     getEnvDuration("GITSAGE_DB_CONN_MAX_LIFE", 5*time.Minute),
		QueryTimeout:    getEnvDuration("GITSAGE_DB_QUERY_TIMEOUT", 30*time.Second),
	}

	cfg.Logging = LoggingConfig{
		Level:      getEnvString("GITSAGE_LOG_LEVEL", "info"),
		Format:     getEnvString("GITSAGE_LOG_FORMAT", "text"),
		Output:     getEnvString("GITSAGE_LOG_OUTPUT", defaultLogPath),
		AddSource:  getEnvBool("GITSAGE_LOG_ADD_SOURCE", false),
		TimeFormat: getEnvString("GITSAGE_LOG_TIME_FORMAT", time.RFC3339),
	}

	// Empty keyword lists fall through to the analysis package defaults.
	cfg.Analysis = AnalysisConfig{
		CriticalPatterns: getEnvStringSlice("GITSAGE_ANALYSIS_CRITICAL_PATTERNS", nil),
		ExcludedPaths:    getEnvStringSlice("GITSAGE_ANALYSIS_EXCLUDED_PATHS", nil),
		SourcePrefixes:   getEnvStringSlice("GITSAGE_ANALYSIS_SOURCE_PREFIXES", nil),
		HotspotLimit:     getEnvInt("GITSAGE_ANALYSIS_HOTSPOT_LIMIT", 3),
		FetchConcurrency: getEnvInt("GITSAGE_ANALYSIS_FETCH_CONCURRENCY", 4),
		FetchesPerSec:    getEnvFloat("GITSAGE_ANALYSIS_FETCHES_PER_SEC", 20),
		FetchBurst:       getEnvInt("GITSAGE_ANALYSIS_FETCH_BURST", 4),
	}

	cfg.Assistant = AssistantConfig{
		MaxAttempts:    getEnvInt("GITSAGE_ASSISTANT_MAX_ATTEMPTS", 3),
		InitialBackoff: getEnvDuration("GITSAGE_ASSISTANT_INITIAL_BACKOFF", 500*time.Millisecond),
		MaxElapsedTime: getEnvDuration("GITSAGE_ASSISTANT_MAX_ELAPSED_TIME", 15*time.Second),
	}

	return cfg, cfg.Validate()
}
