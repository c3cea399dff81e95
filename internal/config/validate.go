package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Upstream.BaseURL == "" {
		return errors.New("upstream.base_url is required")
	}
	if c.Upstream.CDNURL == "" {
		return errors.New("upstream.cdn_url is required")
	}
	if c.Upstream.Timeout <= 0 {
		return errors.New("upstream.timeout must be positive")
	}
	if c.Upstream.MaxRetries < 0 {
		return errors.New("upstream.max_retries must be >= 0")
	}
	if c.Upstream.RetryBackoff <= 0 {
		return errors.New("upstream.retry_backoff must be positive")
	}
	if c.Upstream.MinRequestInterval < 0 {
		return errors.New("upstream.min_request_interval must be >= 0")
	}

	if c.Fetch.Concurrency < 1 {
		return errors.New("fetch.concurrency must be >= 1")
	}
	if c.Fetch.Deadline < 0 {
		return errors.New("fetch.deadline must be >= 0")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error; got %q", c.LogLevel)
	}

	return nil
}
