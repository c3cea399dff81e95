package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	yaml := `
upstream:
  base_url: http://old.example.test
  cdn_url: http://cdn.example.test
  timeout: 10s
  max_retries: 5
  min_request_interval: 250ms
fetch:
  concurrency: 4
  max_intraday_days: 10
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://old.example.test", cfg.Upstream.BaseURL)
	assert.Equal(t, "http://cdn.example.test", cfg.Upstream.CDNURL)
	assert.Equal(t, 10*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 5, cfg.Upstream.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.Upstream.MinRequestInterval)
	assert.Equal(t, 4, cfg.Fetch.Concurrency)
	assert.Equal(t, 10, cfg.Fetch.MaxIntradayDays)
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_BASE_URL", "http://env.example.test")

	yaml := `
upstream:
  base_url: ${TEST_BASE_URL}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env.example.test", cfg.Upstream.BaseURL)
}

func TestLoadWithDefaults(t *testing.T) {
	path := writeTempFile(t, "{}\n")

	cfg, err := LoadWithDefaults(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.Upstream.BaseURL)
	assert.Equal(t, DefaultCDNURL, cfg.Upstream.CDNURL)
	assert.Equal(t, DefaultTimeout, cfg.Upstream.Timeout)
	assert.Equal(t, DefaultMaxRetries, cfg.Upstream.MaxRetries)
	assert.Equal(t, DefaultMinRequestInterval, cfg.Upstream.MinRequestInterval)
	assert.Equal(t, DefaultConcurrency, cfg.Fetch.Concurrency)
	assert.Equal(t, DefaultMaxIntradayDays, cfg.Fetch.MaxIntradayDays)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	bad := Default()
	bad.Fetch.Concurrency = 0
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.Upstream.Timeout = 0
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.LogLevel = "loud"
	assert.Error(t, bad.Validate())
}

func TestLoadAndValidateRejectsBadConfig(t *testing.T) {
	path := writeTempFile(t, "fetch:\n  concurrency: -1\n")
	_, err := LoadAndValidate(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
