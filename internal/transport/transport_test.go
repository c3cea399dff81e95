package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsedata/tsetmc/internal/errs"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	base := []Option{
		WithMinInterval(0),
		WithRetries(2, 5*time.Millisecond),
	}
	return New(srv.URL, append(base, opts...)...)
}

func TestGet(t *testing.T) {
	var gotPath, gotQuery, gotUA string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("payload"))
	})
	defer c.Close()

	body, err := c.Get(context.Background(), "/tsev2/data/search.aspx", map[string][]string{"skey": {"abc"}})
	require.NoError(t, err)

	assert.Equal(t, "payload", string(body))
	assert.Equal(t, "/tsev2/data/search.aspx", gotPath)
	assert.Equal(t, "skey=abc", gotQuery)
	assert.NotEmpty(t, gotUA)
}

func TestGetRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	})
	defer c.Close()

	body, err := c.Get(context.Background(), "/x", nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetConnectionErrorIsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(srv.URL, WithMinInterval(0), WithRetries(1, time.Millisecond))
	_, err := c.Get(context.Background(), "/x", nil)
	require.Error(t, err)
	assert.Equal(t, errs.KindNetwork, errs.KindOf(err))
}

func TestGetDoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})
	defer c.Close()

	_, err := c.Get(context.Background(), "/x", nil)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindAPI))
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetRateLimitExhaustedKeepsKind(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	defer c.Close()

	_, err := c.Get(context.Background(), "/x", nil)
	require.Error(t, err)
	// The last rate-limit error surfaces with its kind intact.
	assert.True(t, errs.Is(err, errs.KindRateLimit))
}

func TestGetRateLimitSurfacesRetryAfterHint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	// No retries, so the hint never delays the test.
	c := New(srv.URL, WithMinInterval(0), WithRetries(0, time.Millisecond))
	defer c.Close()

	_, err := c.Get(context.Background(), "/x", nil)
	require.Error(t, err)

	var e *errs.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errs.KindRateLimit, e.Kind)
	assert.Equal(t, 7*time.Second, e.RetryAfter)
}

func TestSharedLimiterSpacesAcrossClients(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	t.Cleanup(srv.Close)

	limiter := NewLimiter(50 * time.Millisecond)
	a := New(srv.URL, WithLimiter(limiter), WithRetries(0, time.Millisecond))
	b := New(srv.URL, WithLimiter(limiter), WithRetries(0, time.Millisecond))
	defer a.Close()
	defer b.Close()

	start := time.Now()
	for i := 0; i < 2; i++ {
		_, err := a.Get(context.Background(), "/x", nil)
		require.NoError(t, err)
		_, err = b.Get(context.Background(), "/x", nil)
		require.NoError(t, err)
	}
	// Four calls across two clients share one budget: three gaps.
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}

func TestGetJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tradeHistory":[{"nTran":1}]}`))
	})
	defer c.Close()

	var out struct {
		TradeHistory []struct {
			NTran int64 `json:"nTran"`
		} `json:"tradeHistory"`
	}
	require.NoError(t, c.GetJSON(context.Background(), "/x", nil, &out))
	require.Len(t, out.TradeHistory, 1)
	assert.Equal(t, int64(1), out.TradeHistory[0].NTran)
}

func TestGetJSONDecodeFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	})
	defer c.Close()

	var out map[string]any
	err := c.GetJSON(context.Background(), "/x", nil, &out)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindData))
}

func TestMinIntervalSpacesRequests(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}, WithMinInterval(50*time.Millisecond))
	defer c.Close()

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := c.Get(context.Background(), "/x", nil)
		require.NoError(t, err)
	}
	// Two gaps between three requests.
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestContextCancelStopsRetries(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}, WithRetries(5, time.Hour))
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Get(ctx, "/x", nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRetryAfterHint(t *testing.T) {
	resp := &http.Response{Header: http.Header{"Retry-After": {"3"}}}
	assert.Equal(t, 3*time.Second, retryAfterHint(resp))

	resp = &http.Response{Header: http.Header{}}
	assert.Equal(t, time.Duration(0), retryAfterHint(resp))
}
