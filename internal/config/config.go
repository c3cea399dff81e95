// Package config loads and validates the pipeline configuration.
//
// Configuration is deliberately flat: every setting is a scalar, loaded from
// a YAML file with ${VAR} environment expansion.
package config

import "time"

// Config holds all pipeline settings.
type Config struct {
	Upstream UpstreamConfig `yaml:"upstream"`
	Fetch    FetchConfig    `yaml:"fetch"`
	LogLevel string         `yaml:"log_level"`
}

// UpstreamConfig holds transport settings for the exchange endpoints.
type UpstreamConfig struct {
	BaseURL            string        `yaml:"base_url"`             // Legacy delimited-text feeds
	CDNURL             string        `yaml:"cdn_url"`              // JSON API feeds
	Timeout            time.Duration `yaml:"timeout"`              // Per-request timeout
	MaxRetries         int           `yaml:"max_retries"`          // Retry attempts after the first try
	RetryBackoff       time.Duration `yaml:"retry_backoff"`        // Base delay, doubled per attempt
	MinRequestInterval time.Duration `yaml:"min_request_interval"` // Global spacing between outbound calls
}

// FetchConfig bounds the fan-out orchestrator.
type FetchConfig struct {
	Concurrency int `yaml:"concurrency"` // Max units in flight

	// MaxIntradayDays caps per-day intraday fetches; the most recent days
	// within the requested range are kept. Negative disables the cap,
	// zero means the default.
	MaxIntradayDays int `yaml:"max_intraday_days"`

	Deadline time.Duration `yaml:"deadline"` // Overall batch deadline; 0 disables
}
