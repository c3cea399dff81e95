package fetch

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsedata/tsetmc/internal/errs"
	"github.com/tsedata/tsetmc/internal/jalali"
	"github.com/tsedata/tsetmc/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func day(d int) jalali.Date {
	return jalali.Date{Year: 1403, Month: 1, Day: d}
}

func unitsForDays(days ...int) []Unit {
	units := make([]Unit, 0, len(days))
	for _, d := range days {
		units = append(units, Unit{
			Ref: model.InstrumentRef{WebID: "46348559193224090"},
			Day: day(d),
		})
	}
	return units
}

func TestRunAllOrderIndependentOfCompletion(t *testing.T) {
	units := unitsForDays(5, 2, 4, 1, 3)

	var want []string
	for d := 1; d <= 5; d++ {
		want = append(want, day(d).String())
	}

	// Randomized latency must never show through in the output order.
	for run := 0; run < 5; run++ {
		got := RunAll(context.Background(), discardLogger(), Options{Concurrency: 5}, units,
			func(ctx context.Context, u Unit) (string, error) {
				time.Sleep(time.Duration(rand.Intn(20)) * time.Millisecond)
				return u.Day.String(), nil
			})
		assert.Equal(t, want, got)
	}
}

func TestRunAllIsolatesFailures(t *testing.T) {
	units := unitsForDays(1, 2, 3, 4, 5)

	got := RunAll(context.Background(), discardLogger(), Options{Concurrency: 2}, units,
		func(ctx context.Context, u Unit) (string, error) {
			if u.Day.Day == 3 {
				return "", errs.Network(context.DeadlineExceeded, "timed out")
			}
			return u.Day.String(), nil
		})

	require.Len(t, got, 4)
	assert.NotContains(t, got, day(3).String())
}

func TestRunAllMaxUnitsKeepsMostRecent(t *testing.T) {
	units := unitsForDays(1, 2, 3, 4, 5)

	got := RunAll(context.Background(), discardLogger(), Options{Concurrency: 2, MaxUnits: 2}, units,
		func(ctx context.Context, u Unit) (string, error) {
			return u.Day.String(), nil
		})

	assert.Equal(t, []string{day(4).String(), day(5).String()}, got)
}

func TestRunAllEmptyUnits(t *testing.T) {
	got := RunAll(context.Background(), discardLogger(), Options{Concurrency: 2}, nil,
		func(ctx context.Context, u Unit) (string, error) {
			return "", nil
		})
	assert.Empty(t, got)
}

func TestRunAllAllUnitsFail(t *testing.T) {
	units := unitsForDays(1, 2)
	got := RunAll(context.Background(), discardLogger(), Options{Concurrency: 2}, units,
		func(ctx context.Context, u Unit) (string, error) {
			return "", errs.Network(nil, "down")
		})
	assert.Empty(t, got)
}

func TestRunAllDeadlineKeepsCompletedResults(t *testing.T) {
	units := unitsForDays(1, 2, 3)

	got := RunAll(context.Background(), discardLogger(),
		Options{Concurrency: 3, Deadline: 100 * time.Millisecond}, units,
		func(ctx context.Context, u Unit) (string, error) {
			if u.Day.Day > 1 {
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-time.After(5 * time.Second):
				}
			}
			return u.Day.String(), nil
		})

	assert.Equal(t, []string{day(1).String()}, got)
}

func TestRunAllDistinctInstrumentsSameDay(t *testing.T) {
	units := []Unit{
		{Ref: model.InstrumentRef{WebID: "2"}, Day: day(1)},
		{Ref: model.InstrumentRef{WebID: "10"}, Day: day(1)},
		{Ref: model.InstrumentRef{WebID: "1"}, Day: day(1)},
	}

	got := RunAll(context.Background(), discardLogger(), Options{Concurrency: 3}, units,
		func(ctx context.Context, u Unit) (string, error) {
			return u.Ref.WebID, nil
		})

	// Web ids order lexically.
	assert.Equal(t, []string{"1", "10", "2"}, got)
}
