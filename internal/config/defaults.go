package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL            = "http://old.tsetmc.com"
	DefaultCDNURL             = "http://cdn.tsetmc.com"
	DefaultTimeout            = 30 * time.Second
	DefaultMaxRetries         = 3
	DefaultRetryBackoff       = 1 * time.Second
	DefaultMinRequestInterval = 100 * time.Millisecond
	DefaultConcurrency        = 10
	DefaultMaxIntradayDays    = 30
	DefaultLogLevel           = "info"
)

func (c *Config) applyDefaults() {
	if c.Upstream.BaseURL == "" {
		c.Upstream.BaseURL = DefaultBaseURL
	}
	if c.Upstream.CDNURL == "" {
		c.Upstream.CDNURL = DefaultCDNURL
	}
	if c.Upstream.Timeout == 0 {
		c.Upstream.Timeout = DefaultTimeout
	}
	if c.Upstream.MaxRetries == 0 {
		c.Upstream.MaxRetries = DefaultMaxRetries
	}
	if c.Upstream.RetryBackoff == 0 {
		c.Upstream.RetryBackoff = DefaultRetryBackoff
	}
	if c.Upstream.MinRequestInterval == 0 {
		c.Upstream.MinRequestInterval = DefaultMinRequestInterval
	}
	if c.Fetch.Concurrency == 0 {
		c.Fetch.Concurrency = DefaultConcurrency
	}
	if c.Fetch.MaxIntradayDays == 0 {
		c.Fetch.MaxIntradayDays = DefaultMaxIntradayDays
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}
