package service

import (
	"context"
	"net/url"
	"sort"

	"github.com/tsedata/tsetmc/internal/assemble"
	"github.com/tsedata/tsetmc/internal/errs"
	"github.com/tsedata/tsetmc/internal/jalali"
	"github.com/tsedata/tsetmc/internal/model"
	"github.com/tsedata/tsetmc/internal/parse"
)

// The USD/RIAL exchange-rate series lives under a fixed instrument id.
const usdRialWebID = "46348559193224090"

// PriceHistory returns the daily price table for one stock over the local
// date range [start, end].
func (s *Service) PriceHistory(ctx context.Context, stock, start, end string, opts DisplayOptions) (assemble.Table, error) {
	return s.priceTable(ctx, stock, start, end, false, opts)
}

// RIHistory returns the return-index (dividend-adjusted) history for one
// stock, served by the adjusted variant of the price feed.
func (s *Service) RIHistory(ctx context.Context, stock, start, end string, opts DisplayOptions) (assemble.Table, error) {
	return s.priceTable(ctx, stock, start, end, true, opts)
}

// USDRialHistory returns the USD/RIAL exchange-rate history. No resolution
// step; the series has a fixed id.
func (s *Service) USDRialHistory(ctx context.Context, start, end string, opts DisplayOptions) (assemble.Table, error) {
	from, to, err := jalali.ValidateRange(start, end)
	if err != nil {
		return assemble.Table{}, err
	}

	ref := model.InstrumentRef{WebID: usdRialWebID, Ticker: "USD/RIAL"}
	records, err := s.priceRecords(ctx, ref, false)
	if err != nil {
		return assemble.Table{}, err
	}
	return s.assemblePrices(records, ref, from, to, opts)
}

func (s *Service) priceTable(ctx context.Context, stock, start, end string, adjusted bool, opts DisplayOptions) (assemble.Table, error) {
	// Range validation happens before any network call.
	from, to, err := jalali.ValidateRange(start, end)
	if err != nil {
		return assemble.Table{}, err
	}

	ref, err := s.Resolve(ctx, stock)
	if err != nil {
		return assemble.Table{}, err
	}

	records, err := s.priceRecords(ctx, ref, adjusted)
	if err != nil {
		return assemble.Table{}, err
	}
	return s.assemblePrices(records, ref, from, to, opts)
}

// priceRecords fetches and parses the full price feed for one instrument.
// adjusted selects the return-index variant.
func (s *Service) priceRecords(ctx context.Context, ref model.InstrumentRef, adjusted bool) ([]model.PriceRecord, error) {
	adjust := "0"
	if adjusted {
		adjust = "1"
	}
	raw, err := s.legacy.Get(ctx, pathPriceHistory, url.Values{
		"i":   {ref.WebID},
		"Top": {"999999"},
		"A":   {adjust},
	})
	if err != nil {
		return nil, err
	}
	return parse.PriceHistory(s.logger, raw), nil
}

func (s *Service) assemblePrices(records []model.PriceRecord, ref model.InstrumentRef, from, to jalali.Date, opts DisplayOptions) (assemble.Table, error) {
	b := assemble.NewBuilder("date", "open", "high", "low", "close", "last", "count", "volume", "value")
	for _, r := range records {
		if r.Date.Before(from) || r.Date.After(to) {
			continue
		}
		b.Row(r.Date,
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
	if b.Len() == 0 {
		return assemble.Table{}, errs.Data("no price records for %s between %s and %s", ref.Ticker, from, to)
	}

	return b.Build(assemble.Options{
		KeyColumn:  "date",
		DateColumn: "date",
		Calendar:   opts.Calendar,
		Weekday:    opts.Weekday,
	}), nil
}

// tradingDays lists the instrument's trading days inside [from, to], oldest
// first, derived from the daily price feed.
func (s *Service) tradingDays(ctx context.Context, ref model.InstrumentRef, from, to jalali.Date) ([]jalali.Date, error) {
	records, err := s.priceRecords(ctx, ref, false)
	if err != nil {
		return nil, err
	}

	seen := make(map[jalali.Date]bool, len(records))
	days := make([]jalali.Date, 0, len(records))
	for _, r := range records {
		if r.Date.Before(from) || r.Date.After(to) || seen[r.Date] {
			continue
		}
		seen[r.Date] = true
		days = append(days, r.Date)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days, nil
}
