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

func TestGetEnvString(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue string
		expected     string
	}{
		{
			name:         "env not set, return default",
			envValue:     "",
			defaultValue: "default",
			expected:     "default",
		},
		{
			name:         "env set, return env value",
			envValue:     "custom",
			defaultValue: "default",
			expected:     "custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_STRING_VALUE"
			if tt.envValue != "" {
				os.Setenv(key, tt.envValue)
				defer os.Unsetenv(key)
			} else {
				os.Unsetenv(key)
			}

			assert.Equal(t, tt.expected, getEnvString(key, tt.defaultValue))
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue int
		expected     int
	}{
		{
			name:         "env not set, return default",
			envValue:     "",
			defaultValue: 100,
			expected:     100,
		},
		{
			name:         "env set to valid int, return int value",
			envValue:     "200",
			defaultValue: 100,
			expected:     200,
		},
		{
			name:         "env set to invalid int, return default",
			envValue:     "not_an_int",
			defaultValue: 100,
			expected:     100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_INT_VALUE"
			if tt.envValue != "" {
				os.Setenv(key, tt.envValue)
				defer os.Unsetenv(key)
			} else {
				os.Unsetenv(key)
			}

			assert.Equal(t, tt.expected, getEnvInt(key, tt.defaultValue))
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue bool
		expected     bool
	}{
		{
			name:         "env not set, return default",
			envValue:     "",
			defaultValue: true,
			expected:     true,
		},
		{
			name:         "env set to true, return true",
			envValue:     "true",
			defaultValue: false,
			expected:     true,
		},
		{
			name:         "env set to false, return false",
			envValue:     "false",
			defaultValue: true,
			expected:     false,
		},
		{
			name:         "env set to invalid bool, return default",
			envValue:     "not_a_bool",
			defaultValue: true,
			expected:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_BOOL_VALUE"
			if tt.envValue != "" {
				os.Setenv(key, tt.envValue)
				defer os.Unsetenv(key)
			} else {
				os.Unsetenv(key)
			}

			assert.Equal(t, tt.expected, getEnvBool(key, tt.defaultValue))
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue time.Duration
		expected     time.Duration
	}{
		{
			name:         "env not set, return default",
			envValue:     "",
			defaultValue: 1 * time.Second,
			expected:     1 * time.Second,
		},
		{
			name:         "env set to valid duration, return duration value",
			envValue:     "5s",
			defaultValue: 1 * time.Second,
			expected:     5 * time.Second,
		},
		{
			name:         "env set to invalid duration, return default",
			envValue:     "not_a_duration",
			defaultValue: 1 * time.Second,
			expected:     1 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_DURATION_VALUE"
			if tt.envValue != "" {
				os.Setenv(key, tt.envValue)
				defer os.Unsetenv(key)
			} else {
				os.Unsetenv(key)
			}

			assert.Equal(t, tt.expected, getEnvDuration(key, tt.defaultValue))
		})
	}
}

func TestGetEnvStringSlice(t *testing.T) {
	key := "TEST_SLICE_VALUE"

	t.Run("env not set, return default", func(t *testing.T) {
		os.Unsetenv(key)
		assert.Equal(t, []string{"a", "b"}, getEnvStringSlice(key, []string{"a", "b"}))
	})

	t.Run("env set, split and trim entries", func(t *testing.T) {
		os.Setenv(key, " config , schema ,, .env ")
		defer os.Unsetenv(key)
		assert.Equal(t, []string{"config", "schema", ".env"}, getEnvStringSlice(key, nil))
	})

	t.Run("env set to only separators, return default", func(t *testing.T) {
		os.Setenv(key, " , , ")
		defer os.Unsetenv(key)
		assert.Equal(t, []string{"fallback"}, getEnvStringSlice(key, []string{"fallback"}))
	})
}

func TestLoadFromEnv(t *testing.T) {
	vars := []string{
		"GITSAGE_DB_PATH", "GITSAGE_LOG_LEVEL", "GITSAGE_LOG_OUTPUT",
		"GITSAGE_ANALYSIS_CRITICAL_PATTERNS", "GITSAGE_ANALYSIS_HOTSPOT_LIMIT",
		"GITSAGE_ASSISTANT_MAX_ATTEMPTS",
	}
	for _, v := range vars {
		os.Unsetenv(v)
	}

	cfg, err := LoadFromEnv(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, "WAL", cfg.Database.JournalMode)
	assert.Equal(t, 5000, cfg.Database.BusyTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLife)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)

	assert.Nil(t, cfg.Analysis.CriticalPatterns, "policy lists default to the analysis package defaults")
	assert.Equal(t, 3, cfg.Analysis.HotspotLimit)
	assert.Equal(t, 4, cfg.Analysis.FetchConcurrency)

	assert.Equal(t, 3, cfg.Assistant.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Assistant.InitialBackoff)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	os.Setenv("GITSAGE_ANALYSIS_CRITICAL_PATTERNS", "config,secrets")
	os.Setenv("GITSAGE_ANALYSIS_HOTSPOT_LIMIT", "5")
	os.Setenv("GITSAGE_LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("GITSAGE_ANALYSIS_CRITICAL_PATTERNS")
		os.Unsetenv("GITSAGE_ANALYSIS_HOTSPOT_LIMIT")
		os.Unsetenv("GITSAGE_LOG_LEVEL")
	}()

	cfg, err := LoadFromEnv(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"config", "secrets"}, cfg.Analysis.CriticalPatterns)
	assert.Equal(t, 5, cfg.Analysis.HotspotLimit)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestSetGet(t *testing.T) {
	Set(nil)

	_, err := Get()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not initialized")

	testCfg := New()
	testCfg.Analysis.HotspotLimit = 7
	Set(testCfg)

	cfg, err := Get()
	assert.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, 7, cfg.Analysis.HotspotLimit)
}

func TestValidate(t *testing.T) {
	t.Run("config from LoadFromEnv passes", func(t *testing.T) {
		cfg, err := LoadFromEnv(t.TempDir(), "")
		require.NoError(t, err)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("empty database path fails", func(t *testing.T) {
		cfg := New()
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "database config")
	})

	t.Run("invalid log level fails", func(t *testing.T) {
		cfg, err := LoadFromEnv(t.TempDir(), "")
		require.NoError(t, err)
		cfg.Logging.Level = "verbose"
		err = cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "logging config")
	})

	t.Run("zero hotspot limit fails", func(t *testing.T) {
		cfg, err := LoadFromEnv(t.TempDir(), "")
		require.NoError(t, err)
		cfg.Analysis.HotspotLimit = 0
		err = cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "analysis config")
	})

	t.Run("zero assistant attempts fails", func(t *testing.T) {
		cfg, err := LoadFromEnv(t.TempDir(), "")
		require.NoError(t, err)
		cfg.Assistant.MaxAttempts = 0
		err = cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "assistant config")
	})
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level  string
		expect slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"none", slog.Level(9999)},
		{"invalid", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expect, ParseLogLevel(tt.level))
		})
	}
}

func TestCheckDirectoryWritable(t *testing.T) {
	assert.NoError(t, checkDirectoryWritable(t.TempDir()))
	assert.Error(t, checkDirectoryWritable(filepath.Join(string(os.PathSeparator), "path", "that", "does", "not", "exist")))
}
