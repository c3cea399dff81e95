package transport

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/tsedata/tsetmc/internal/errs"
)

// The legacy host rejects requests without browser-like headers.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// Client fetches raw payloads from one upstream host.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger

	retry RetryPolicy
}

// Option configures a Client.
type Option func(*Client)

// New creates a client for the given host.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 1),
		logger:  slog.Default(),
		retry: RetryPolicy{
			MaxAttempts: 4,
			BaseDelay:   time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewLimiter builds a limiter enforcing the minimum spacing between
// outbound requests. Non-positive d disables spacing. Pass one limiter to
// every client via WithLimiter so the spacing holds process-wide, not per
// host.
func NewLimiter(d time.Duration) *rate.Limiter {
	if d <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(d), 1)
}

// WithMinInterval sets the minimum spacing between this client's requests.
func WithMinInterval(d time.Duration) Option {
	return func(c *Client) {
		c.limiter = NewLimiter(d)
	}
}

// WithLimiter sets a shared rate limiter, so two clients pointed at
// different hosts draw from one request budget.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithRetries sets the retry configuration. max counts attempts after the
// first try.
func WithRetries(max int, backoff time.Duration) Option {
	return func(c *Client) {
		c.retry = RetryPolicy{MaxAttempts: max + 1, BaseDelay: backoff}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// Get fetches path with retries and returns the raw response body.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	var body []byte
	err := c.retry.Do(ctx, c.logger, path, func() error {
		var err error
		body, err = c.doRequest(ctx, path, query)
		return err
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// GetJSON fetches path with retries and decodes the body into result.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, result any) error {
	body, err := c.Get(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return errs.Data("decode response from %s: %v", path, err)
	}
	return nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// doRequest performs a single GET, mapping failures onto the error taxonomy.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, errs.Network(err, "create request for %s", path)
	}

	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "fa,en;q=0.9")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.Network(err, "request %s", path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Network(err, "read response from %s", path)
	}

	c.logger.Debug("upstream request",
		"path", path,
		"status", resp.StatusCode,
		"bytes", len(body),
		"elapsed", time.Since(start),
	)

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errs.RateLimit(retryAfterHint(resp))
	}
	if resp.StatusCode >= 400 {
		return nil, errs.API(resp.StatusCode, "request %s failed", path)
	}

	return body, nil
}

// retryAfterHint parses the Retry-After header; zero means no hint and the
// retry policy falls back to its own backoff.
func retryAfterHint(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 0
}
