package service

import (
	"context"
	"sort"

	"github.com/tsedata/tsetmc/internal/assemble"
	"github.com/tsedata/tsetmc/internal/errs"
	"github.com/tsedata/tsetmc/internal/fetch"
	"github.com/tsedata/tsetmc/internal/jalali"
	"github.com/tsedata/tsetmc/internal/model"
	"github.com/tsedata/tsetmc/internal/parse"
)

// StockList returns the identity columns of every instrument in the current
// market-watch snapshot, one row per ticker.
func (s *Service) StockList(ctx context.Context) (assemble.Table, error) {
	raw, err := s.legacy.Get(ctx, pathMarketWatch, nil)
	if err != nil {
		return assemble.Table{}, err
	}

	prices, _, err := parse.MarketWatch(s.logger, raw)
	if err != nil {
		return assemble.Table{}, err
	}
	if len(prices) == 0 {
		return assemble.Table{}, errs.Data("market-watch snapshot is empty")
	}

	b := assemble.NewBuilder("web_id", "ticker", "name", "ticker_code", "sector_code", "market_id")
	for _, p := range prices {
		b.Row(p.WebID, p.Ticker, p.Name, p.TickerCode, p.SectorCode, p.MarketID)
	}
	return b.Build(assemble.Options{KeyColumn: "ticker"}), nil
}

// stockPanel is one instrument's slice of a multi-stock batch.
type stockPanel struct {
	ref     model.InstrumentRef
	records []model.PriceRecord
}

// PricePanel returns the daily price history of several stocks over the
// local date range [start, end] in one long-format table, one fetch unit per
// instrument. A stock whose feed fails is logged and omitted; a stock that
// does not resolve is logged and skipped before fetching.
func (s *Service) PricePanel(ctx context.Context, stocks []string, start, end string, opts DisplayOptions) (assemble.Table, error) {
	// Range validation happens before any network call.
	from, to, err := jalali.ValidateRange(start, end)
	if err != nil {
		return assemble.Table{}, err
	}
	if len(stocks) == 0 {
		return assemble.Table{}, errs.Validation("stocks", "", "at least one stock is required")
	}

	units, err := s.resolveUnits(ctx, stocks)
	if err != nil {
		return assemble.Table{}, err
	}

	batches := fetch.RunAll(ctx, s.logger, s.fetchOptions(0), units,
		func(ctx context.Context, u fetch.Unit) (stockPanel, error) {
			records, err := s.priceRecords(ctx, u.Ref, false)
			if err != nil {
				return stockPanel{}, err
			}
			return stockPanel{ref: u.Ref, records: records}, nil
		})

	b := assemble.NewBuilder("ticker", "date", "open", "high", "low", "close", "last", "count", "volume", "value")
	for _, p := range batches {
		sort.Slice(p.records, func(i, j int) bool { return p.records[i].Date.Before(p.records[j].Date) })
		for _, r := range p.records {
			if r.Date.Before(from) || r.Date.After(to) {
				continue
			}
			b.Row(p.ref.Ticker, r.Date,
				assemble.FloatCell(r.Open),
				assemble.FloatCell(r.High),
				assemble.FloatCell(r.Low),
				assemble.FloatCell(r.Close),
				assemble.FloatCell(r.Last),
				assemble.IntCell(r.Count),
				assemble.IntCell(r.Volume),
				assemble.IntCell(r.Value),
			)
		}
	}
	if b.Len() == 0 {
		return assemble.Table{}, errs.Data("no price records for any requested stock between %s and %s", from, to)
	}

	// Rows arrive grouped by instrument and date-ordered within each group,
	// so no key column: a date key would collapse rows across instruments.
	return b.Build(assemble.Options{
		DateColumn: "date",
		Calendar:   opts.Calendar,
		Weekday:    opts.Weekday,
	}), nil
}

// resolveUnits resolves each requested stock to one per-instrument fetch
// unit, deduplicated by web id. A malformed query fails the whole batch; a
// query that merely finds nothing is logged and skipped.
func (s *Service) resolveUnits(ctx context.Context, stocks []string) ([]fetch.Unit, error) {
	seen := make(map[string]bool, len(stocks))
	units := make([]fetch.Unit, 0, len(stocks))
	for _, stock := range stocks {
		ref, err := s.Resolve(ctx, stock)
		if err != nil {
			if errs.Is(err, errs.KindValidation) {
				return nil, err
			}
			s.logger.Warn("skipping unresolved stock", "stock", stock, "err", err)
			continue
		}
		if seen[ref.WebID] {
			continue
		}
		seen[ref.WebID] = true
		units = append(units, fetch.Unit{Ref: ref})
	}
	if len(units) == 0 {
		return nil, errs.NotFound("none of the requested stocks resolved")
	}
	return units, nil
}
