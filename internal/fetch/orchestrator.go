package fetch

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/tsedata/tsetmc/internal/jalali"
	"github.com/tsedata/tsetmc/internal/model"
)

// Unit is one independent fetch work item. Day is zero for per-instrument
// units.
type Unit struct {
	Ref model.InstrumentRef
	Day jalali.Date
}

// less orders units by their natural key: day first, then instrument.
func (u Unit) less(o Unit) bool {
	if c := u.Day.Compare(o.Day); c != 0 {
		return c < 0
	}
	return u.Ref.WebID < o.Ref.WebID
}

// Options bound one batch run.
type Options struct {
	// Concurrency is the maximum number of units in flight.
	Concurrency int

	// MaxUnits caps the batch after sorting; the most recent units are
	// kept and the dropped head is logged. Zero or negative means no cap.
	MaxUnits int

	// Deadline bounds the whole batch. In-flight units are abandoned on
	// expiry and already-completed results are still returned. Zero
	// disables the deadline.
	Deadline time.Duration
}

// RunAll executes fn once per unit with bounded concurrency and returns the
// successful results ordered by the units' natural key. A failing unit is
// logged at Warn and absent from the result; it never aborts its siblings.
// An empty result is not an error here, the caller decides what it means.
func RunAll[T any](ctx context.Context, logger *slog.Logger, opts Options, units []Unit, fn func(context.Context, Unit) (T, error)) []T {
	if len(units) == 0 {
		return nil
	}

	sorted := make([]Unit, len(units))
	copy(sorted, units)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].less(sorted[j]) })

	if opts.MaxUnits > 0 && len(sorted) > opts.MaxUnits {
		dropped := len(sorted) - opts.MaxUnits
		logger.Warn("capping fetch units, keeping the most recent",
			"requested", len(sorted),
			"kept", opts.MaxUnits,
			"dropped", dropped,
		)
		sorted = sorted[dropped:]
	}

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	if opts.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Deadline)
		defer cancel()
	}

	opID := uuid.NewString()
	start := time.Now()
	logger.Info("fetch batch started",
		"op_id", opID,
		"units", len(sorted),
		"concurrency", concurrency,
	)

	sem := semaphore.NewWeighted(int64(concurrency))
	results := make([]T, len(sorted))
	done := make([]bool, len(sorted))

	var wg sync.WaitGroup
	for i, unit := range sorted {
		wg.Add(1)
		go func(i int, unit Unit) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				logger.Warn("fetch unit abandoned",
					"op_id", opID,
					"web_id", unit.Ref.WebID,
					"day", unit.Day,
					"err", err,
				)
				return
			}
			defer sem.Release(1)

			res, err := fn(ctx, unit)
			if err != nil {
				logger.Warn("fetch unit failed",
					"op_id", opID,
					"web_id", unit.Ref.WebID,
					"day", unit.Day,
					"err", err,
				)
				return
			}

			results[i] = res
			done[i] = true
		}(i, unit)
	}
	wg.Wait()

	out := make([]T, 0, len(sorted))
	for i := range sorted {
		if done[i] {
			out = append(out, results[i])
		}
	}

	logger.Info("fetch batch complete",
		"op_id", opID,
		"units", len(sorted),
		"fetched", len(out),
		"failed", len(sorted)-len(out),
		"duration", time.Since(start),
	)

	return out
}
