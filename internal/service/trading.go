package service

import (
	"context"

	"github.com/tsedata/tsetmc/internal/assemble"
	"github.com/tsedata/tsetmc/internal/errs"
	"github.com/tsedata/tsetmc/internal/fetch"
	"github.com/tsedata/tsetmc/internal/jalali"
	"github.com/tsedata/tsetmc/internal/model"
	"github.com/tsedata/tsetmc/internal/parse"
)

// IntradayTrades returns every execution for one stock across the trading
// days inside [start, end], one fetch unit per day. Days beyond the
// configured intraday cap are dropped from the head, keeping the most
// recent.
func (s *Service) IntradayTrades(ctx context.Context, stock, start, end string, opts DisplayOptions) (assemble.Table, error) {
	ref, units, err := s.intradayUnits(ctx, stock, start, end)
	if err != nil {
		return assemble.Table{}, err
	}

	batches := fetch.RunAll(ctx, s.logger, s.fetchOptions(s.maxIntradayDays), units,
		func(ctx context.Context, u fetch.Unit) ([]model.Trade, error) {
			raw, err := s.cdn.Get(ctx, pathTradeHistory+u.Ref.WebID+"/"+u.Day.Gregorian8()+"/false", nil)
			if err != nil {
				return nil, err
			}
			return parse.TradeHistory(s.logger, raw, u.Day)
		})

	b := assemble.NewBuilder("date", "time", "price", "volume")
	for _, trades := range batches {
		for _, t := range trades {
			b.Row(t.Date, t.Time,
				assemble.FloatCell(t.Price),
				assemble.IntCell(t.Volume),
			)
		}
	}
	if b.Len() == 0 {
		return assemble.Table{}, errs.Data("no trades for %s between %s and %s", ref.Ticker, start, end)
	}

	// Units arrive day-ordered and each day is sequence-ordered, so no
	// key column: a date key would collapse every trade of a day.
	return b.Build(assemble.Options{
		DateColumn: "date",
		Calendar:   opts.Calendar,
		Weekday:    opts.Weekday,
	}), nil
}

// OrderBookHistory returns the intraday best-limits depth series for one
// stock across the trading days inside [start, end], annotated with the
// day's static price bands.
func (s *Service) OrderBookHistory(ctx context.Context, stock, start, end string, opts DisplayOptions) (assemble.Table, error) {
	ref, units, err := s.intradayUnits(ctx, stock, start, end)
	if err != nil {
		return assemble.Table{}, err
	}

	batches := fetch.RunAll(ctx, s.logger, s.fetchOptions(s.maxIntradayDays), units,
		func(ctx context.Context, u fetch.Unit) ([]model.OrderBookLevel, error) {
			return s.orderBookDay(ctx, u.Ref, u.Day)
		})

	b := assemble.NewBuilder("date", "time", "depth",
		"buy_count", "buy_volume", "buy_price",
		"sell_price", "sell_volume", "sell_count",
		"day_low", "day_high",
	)
	for _, levels := range batches {
		for _, l := range levels {
			b.Row(l.Date, l.Time, int64(l.Depth),
				assemble.IntCell(l.BuyCount),
				assemble.IntCell(l.BuyVolume),
				assemble.FloatCell(l.BuyPrice),
				assemble.FloatCell(l.SellPrice),
				assemble.IntCell(l.SellVol),
				assemble.IntCell(l.SellCount),
				assemble.FloatCell(l.DayLow),
				assemble.FloatCell(l.DayHigh),
			)
		}
	}
	if b.Len() == 0 {
		return assemble.Table{}, errs.Data("no order-book records for %s between %s and %s", ref.Ticker, start, end)
	}

	return b.Build(assemble.Options{
		DateColumn: "date",
		Calendar:   opts.Calendar,
		Weekday:    opts.Weekday,
	}), nil
}

// intradayUnits validates the range, resolves the stock and derives one
// fetch unit per trading day.
func (s *Service) intradayUnits(ctx context.Context, stock, start, end string) (model.InstrumentRef, []fetch.Unit, error) {
	from, to, err := jalali.ValidateRange(start, end)
	if err != nil {
		return model.InstrumentRef{}, nil, err
	}

	ref, err := s.Resolve(ctx, stock)
	if err != nil {
		return model.InstrumentRef{}, nil, err
	}

	days, err := s.tradingDays(ctx, ref, from, to)
	if err != nil {
		return model.InstrumentRef{}, nil, err
	}
	if len(days) == 0 {
		return model.InstrumentRef{}, nil, errs.Data("no trading days for %s between %s and %s", ref.Ticker, from, to)
	}

	units := make([]fetch.Unit, len(days))
	for i, day := range days {
		units[i] = fetch.Unit{Ref: ref, Day: day}
	}
	return ref, units, nil
}

// orderBookDay fetches one day's best-limits series plus its static price
// bands and stamps the bands onto every level.
func (s *Service) orderBookDay(ctx context.Context, ref model.InstrumentRef, day jalali.Date) ([]model.OrderBookLevel, error) {
	key := ref.WebID + "/" + day.Gregorian8()

	raw, err := s.cdn.Get(ctx, pathBestLimits+key, nil)
	if err != nil {
		return nil, err
	}
	levels, err := parse.BestLimits(s.logger, raw, day)
	if err != nil {
		return nil, err
	}

	rawBands, err := s.cdn.Get(ctx, pathStaticThreshold+key, nil)
	if err != nil {
		return nil, err
	}
	low, high, err := parse.StaticThreshold(rawBands)
	if err != nil {
		return nil, err
	}

	for i := range levels {
		levels[i].WebID = ref.WebID
		levels[i].DayLow = low
		levels[i].DayHigh = high
	}
	return levels, nil
}
