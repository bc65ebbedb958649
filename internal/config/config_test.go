package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"VITE_API_URL",
		"ANALYSIS_API_URL",
		"CORTEXDASH_REQUEST_TIMEOUT",
		"CORTEXDASH_DEFAULT_INDICATOR_COUNT",
		"CORTEXDASH_LOG_LEVEL",
		"CORTEXDASH_LOG_FILE",
		"CORTEXDASH_DEBUG",
		"CORTEXDASH_STUB_ADDR",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, time.Duration(0), cfg.RequestTimeout)
	assert.Equal(t, 1, cfg.DefaultIndicatorCount)
	assert.Equal(t, "info", cfg.EffectiveLogLevel())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "cortexdash.yaml")
	content := []byte("api_base_url: http://analysis.internal:9000\nrequest_timeout: 45s\ndefault_indicator_count: 3\nlog_level: warn\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	t.Setenv("CORTEXDASH_DEFAULT_INDICATOR_COUNT", "2")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://analysis.internal:9000", cfg.APIBaseURL)
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 2, cfg.DefaultIndicatorCount, "environment wins over file")
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestAnalysisURLPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("VITE_API_URL", "http://vite:8000")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://vite:8000", cfg.APIBaseURL)

	t.Setenv("ANALYSIS_API_URL", "http://analysis:8000")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://analysis:8000", cfg.APIBaseURL)
}

func TestDebugForcesDebugLevel(t *testing.T) {
	clearEnv(t)
	t.Setenv("CORTEXDASH_DEBUG", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.EffectiveLogLevel())
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.APIBaseURL = "not a url"
	cfg.LogLevel = "chatty"
	cfg.DefaultIndicatorCount = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APIBaseURL")
	assert.Contains(t, err.Error(), "LogLevel")
	assert.Contains(t, err.Error(), "DefaultIndicatorCount")
}

func TestSaveThenLoad(t *testing.T) {
	clearEnv(t)

	cfg := DefaultConfig()
	cfg.APIBaseURL = "http://analysis:9000"
	cfg.RequestTimeout = 30 * time.Second

	path := filepath.Join(t.TempDir(), "nested", "cortexdash.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
