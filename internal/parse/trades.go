package parse

import (
	"encoding/json"
	"log/slog"
	"sort"
	"strconv"

	"github.com/tsedata/tsetmc/internal/errs"
	"github.com/tsedata/tsetmc/internal/jalali"
	"github.com/tsedata/tsetmc/internal/model"
)

// Intraday order-book snapshots outside the 08:45-12:30 trading session are
// pre-open and post-close noise.
const (
	sessionOpen  = 84500
	sessionClose = 123000
)

// TradeHistory parses the intraday trade feed for one instrument and day.
// The upstream does not guarantee arrival order, so records are sorted by
// the embedded sequence number.
func TradeHistory(logger *slog.Logger, raw []byte, day jalali.Date) ([]model.Trade, error) {
	var payload struct {
		TradeHistory []struct {
			HEven    int64   `json:"hEven"`
			QTitTran float64 `json:"qTitTran"`
			PTra     float64 `json:"pTra"`
			NTran    int64   `json:"nTran"`
		} `json:"tradeHistory"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errs.Data("decode trade-history feed: %v", err)
	}

	trades := make([]model.Trade, 0, len(payload.TradeHistory))
	for _, e := range payload.TradeHistory {
		t := clock(strconv.FormatInt(e.HEven, 10))
		if t == "" {
			logger.Debug("dropping trade with bad time", "hEven", e.HEven)
			continue
		}
		trades = append(trades, model.Trade{
			Date:   day,
			Time:   t,
			Price:  model.F(e.PTra),
			Volume: model.I(int64(e.QTitTran)),
			Seq:    e.NTran,
		})
	}

	sort.Slice(trades, func(i, j int) bool { return trades[i].Seq < trades[j].Seq })
	return trades, nil
}

// BestLimits parses the intraday order-book feed for one instrument and day,
// filtered to the trading session.
func BestLimits(logger *slog.Logger, raw []byte, day jalali.Date) ([]model.OrderBookLevel, error) {
	var payload struct {
		BestLimitsHistory []struct {
			HEven     int64   `json:"hEven"`
			Number    int     `json:"number"`
			QTitMeDem float64 `json:"qTitMeDem"`
			ZOrdMeDem float64 `json:"zOrdMeDem"`
			PMeDem    float64 `json:"pMeDem"`
			PMeOf     float64 `json:"pMeOf"`
			ZOrdMeOf  float64 `json:"zOrdMeOf"`
			QTitMeOf  float64 `json:"qTitMeOf"`
		} `json:"bestLimitsHistory"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errs.Data("decode best-limits feed: %v", err)
	}

	levels := make([]model.OrderBookLevel, 0, len(payload.BestLimitsHistory))
	for _, e := range payload.BestLimitsHistory {
		if e.HEven < sessionOpen || e.HEven >= sessionClose {
			continue
		}
		t := clock(strconv.FormatInt(e.HEven, 10))
		if t == "" {
			logger.Debug("dropping order-book entry with bad time", "hEven", e.HEven)
			continue
		}
		levels = append(levels, model.OrderBookLevel{
			Date:      day,
			Time:      t,
			Depth:     e.Number,
			BuyCount:  model.I(int64(e.ZOrdMeDem)),
			BuyVolume: model.I(int64(e.QTitMeDem)),
			BuyPrice:  model.F(e.PMeDem),
			SellPrice: model.F(e.PMeOf),
			SellVol:   model.I(int64(e.QTitMeOf)),
			SellCount: model.I(int64(e.ZOrdMeOf)),
		})
	}

	return levels, nil
}

// StaticThreshold parses the day price-band feed. The last element of the
// array carries the effective band for the day.
func StaticThreshold(raw []byte) (low, high model.Float, err error) {
	var payload struct {
		StaticThreshold []struct {
			PSGelStaMax float64 `json:"psGelStaMax"`
			PSGelStaMin float64 `json:"psGelStaMin"`
		} `json:"staticThreshold"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return model.Float{}, model.Float{}, errs.Data("decode static-threshold feed: %v", err)
	}
	if len(payload.StaticThreshold) == 0 {
		return model.Float{}, model.Float{}, nil
	}
	last := payload.StaticThreshold[len(payload.StaticThreshold)-1]
	return model.F(last.PSGelStaMin), model.F(last.PSGelStaMax), nil
}
