package transport

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/tsedata/tsetmc/internal/errs"
)

// RetryPolicy retries transient failures with exponential backoff.
type RetryPolicy struct {
	MaxAttempts int           // Total attempts, including the first
	BaseDelay   time.Duration // Initial backoff, doubled per attempt
}

// Do runs op until it succeeds, fails permanently, or attempts run out.
// Only errors classified retryable by the taxonomy are tried again; a rate
// limit hint longer than the computed backoff wins. When attempts run out
// the last error surfaces as-is, keeping its kind and payload.
func (p RetryPolicy) Do(ctx context.Context, logger *slog.Logger, label string, op func() error) error {
	var lastErr error
	backoff := p.BaseDelay

	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if attempt > 0 {
			// Jitter: backoff * (0.5 to 1.5)
			wait := backoff/2 + time.Duration(rand.Int63n(int64(backoff)))
			if hint := rateLimitHint(lastErr); hint > wait {
				wait = hint
			}
			logger.Debug("retrying request",
				"attempt", attempt,
				"backoff", wait,
				"path", label,
			)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}

			backoff *= 2
		}

		err := op()
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !errs.Retryable(err) {
			return err
		}
	}

	logger.Debug("retries exhausted", "path", label, "attempts", p.MaxAttempts, "err", lastErr)
	return lastErr
}

func rateLimitHint(err error) time.Duration {
	var e *errs.Error
	if errors.As(err, &e) && e.Kind == errs.KindRateLimit {
		return e.RetryAfter
	}
	return 0
}
