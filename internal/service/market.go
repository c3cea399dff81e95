package service

import (
	"context"
	"sync"

	"github.com/tsedata/tsetmc/internal/assemble"
	"github.com/tsedata/tsetmc/internal/errs"
	"github.com/tsedata/tsetmc/internal/model"
	"github.com/tsedata/tsetmc/internal/parse"
)

// MarketWatch returns the market-wide snapshot: one row per instrument,
// joined with the retail/institutional feed by web id, plus derived
// percent-change, market-cap and buy/sell-queue value columns.
func (s *Service) MarketWatch(ctx context.Context) (assemble.Table, error) {
	var (
		wg         sync.WaitGroup
		rawWatch   []byte
		rawClients []byte
		errWatch   error
		errClients error
	)

	// The two feeds describe the same snapshot and are fetched in parallel.
	wg.Add(2)
	go func() {
		defer wg.Done()
		rawWatch, errWatch = s.legacy.Get(ctx, pathMarketWatch, nil)
	}()
	go func() {
		defer wg.Done()
		rawClients, errClients = s.legacy.Get(ctx, pathClientType, nil)
	}()
	wg.Wait()

	if errWatch != nil {
		return assemble.Table{}, errWatch
	}
	if errClients != nil {
		return assemble.Table{}, errClients
	}

	prices, book, err := parse.MarketWatch(s.logger, rawWatch)
	if err != nil {
		return assemble.Table{}, err
	}
	if len(prices) == 0 {
		return assemble.Table{}, errs.Data("market-watch snapshot is empty")
	}
	clients := clientsByWebID(parse.ClientType(s.logger, rawClients))
	queues := queueValues(book)

	b := assemble.NewBuilder(
		"web_id", "ticker", "name", "time",
		"open", "final", "final_pct", "close", "close_pct",
		"count", "volume", "value", "low", "high",
		"y_final", "eps", "base_volume", "sector_code",
		"day_low", "day_high", "share_count", "market_cap", "market_id",
		"buy_count_retail", "buy_count_inst", "buy_vol_retail", "buy_vol_inst",
		"sell_count_retail", "sell_count_inst", "sell_vol_retail", "sell_vol_inst",
		"bq_value", "sq_value",
	)

	for _, p := range prices {
		ct := clients[p.WebID]
		q := queues[p.WebID]
		b.Row(
			p.WebID, p.Ticker, p.Name, p.Time,
			assemble.FloatCell(p.Open),
			assemble.FloatCell(p.Final),
			pctChange(p.Final, p.YFinal),
			assemble.FloatCell(p.Close),
			pctChange(p.Close, p.YFinal),
			assemble.IntCell(p.Count),
			assemble.IntCell(p.Volume),
			assemble.IntCell(p.Value),
			assemble.FloatCell(p.Low),
			assemble.FloatCell(p.High),
			assemble.FloatCell(p.YFinal),
			assemble.FloatCell(p.EPS),
			assemble.IntCell(p.BaseVolume),
			p.SectorCode,
			assemble.FloatCell(p.DayLow),
			assemble.FloatCell(p.DayHigh),
			assemble.IntCell(p.ShareCount),
			marketCap(p),
			p.MarketID,
			assemble.IntCell(ct.BuyCountRetail),
			assemble.IntCell(ct.BuyCountInst),
			assemble.IntCell(ct.BuyVolRetail),
			assemble.IntCell(ct.BuyVolInst),
			assemble.IntCell(ct.SellCountRetail),
			assemble.IntCell(ct.SellCountInst),
			assemble.IntCell(ct.SellVolRetail),
			assemble.IntCell(ct.SellVolInst),
			q.buy, q.sell,
		)
	}

	return b.Build(assemble.Options{KeyColumn: "web_id"}), nil
}

// OrderBookSnapshot returns the best-limits depth table embedded in the
// market-watch blob, every instrument and depth level.
func (s *Service) OrderBookSnapshot(ctx context.Context) (assemble.Table, error) {
	raw, err := s.legacy.Get(ctx, pathMarketWatch, nil)
	if err != nil {
		return assemble.Table{}, err
	}

	_, book, err := parse.MarketWatch(s.logger, raw)
	if err != nil {
		return assemble.Table{}, err
	}
	if len(book) == 0 {
		return assemble.Table{}, errs.Data("order-book snapshot is empty")
	}

	b := assemble.NewBuilder(
		"web_id", "depth",
		"buy_count", "buy_volume", "buy_price",
		"sell_price", "sell_volume", "sell_count",
	)
	for _, l := range book {
		b.Row(
			l.WebID, int64(l.Depth),
			assemble.IntCell(l.BuyCount),
			assemble.IntCell(l.BuyVolume),
			assemble.FloatCell(l.BuyPrice),
			assemble.FloatCell(l.SellPrice),
			assemble.IntCell(l.SellVol),
			assemble.IntCell(l.SellCount),
		)
	}

	return b.Build(assemble.Options{}), nil
}

func clientsByWebID(rows []model.ClientTypeRow) map[string]model.ClientTypeRow {
	m := make(map[string]model.ClientTypeRow, len(rows))
	for _, r := range rows {
		m[r.WebID] = r
	}
	return m
}

// pctChange is the percent change of v against the previous-day final.
func pctChange(v, prev model.Float) any {
	if !v.Valid || !prev.Valid || prev.Float64 == 0 {
		return nil
	}
	return (v.Float64 - prev.Float64) / prev.Float64 * 100
}

// marketCap is share count times the final price.
func marketCap(p model.MarketWatchRow) any {
	if !p.ShareCount.Valid || !p.Final.Valid {
		return nil
	}
	return float64(p.ShareCount.Int64) * p.Final.Float64
}

type queueValue struct {
	buy  any
	sell any
}

// queueValues derives the buy/sell queue value per instrument from the
// best depth level: volume times price on each side.
func queueValues(book []model.OrderBookLevel) map[string]queueValue {
	m := make(map[string]queueValue, len(book))
	for _, l := range book {
		if l.Depth != 1 {
			continue
		}
		q := queueValue{}
		if l.BuyVolume.Valid && l.BuyPrice.Valid {
			q.buy = float64(l.BuyVolume.Int64) * l.BuyPrice.Float64
		}
		if l.SellVol.Valid && l.SellPrice.Valid {
			q.sell = float64(l.SellVol.Int64) * l.SellPrice.Float64
		}
		m[l.WebID] = q
	}
	return m
}
