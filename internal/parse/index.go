package parse

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"github.com/tsedata/tsetmc/internal/errs"
	"github.com/tsedata/tsetmc/internal/model"
)

// indexOHLCFields is the fixed column order of the index OHLC feed:
// date, high, low, open, close, volume, flag. The flag column is ignored.
const indexOHLCFields = 7

// IndexOHLC parses the delimited index history feed. Dates are Gregorian and
// normalized to the 8-digit join key.
func IndexOHLC(logger *slog.Logger, raw []byte) []model.IndexOHLC {
	rows := splitRows(raw)
	records := make([]model.IndexOHLC, 0, len(rows))

	for _, row := range rows {
		fields := strings.Split(row, ",")
		if len(fields) < indexOHLCFields {
			logger.Debug("dropping short index row", "fields", len(fields), "row", row)
			continue
		}

		date8, ok := normalizeDate8(fields[0])
		if !ok {
			logger.Debug("dropping index row with bad date", "date", fields[0])
			continue
		}

		records = append(records, model.IndexOHLC{
			Date8:  date8,
			High:   num(fields[1]),
			Low:    num(fields[2]),
			Open:   num(fields[3]),
			Close:  num(fields[4]),
			Volume: count(fields[5]),
		})
	}

	return records
}

// IndexAdjClose parses the adjusted-close JSON feed. dEven is the 8-digit
// Gregorian date as an integer.
func IndexAdjClose(logger *slog.Logger, raw []byte) ([]model.IndexAdjClose, error) {
	var payload struct {
		IndexB2 []struct {
			DEven    int64   `json:"dEven"`
			AdjClose float64 `json:"xNivInuClMresIbs"`
		} `json:"indexB2"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errs.Data("decode adjusted-close feed: %v", err)
	}

	records := make([]model.IndexAdjClose, 0, len(payload.IndexB2))
	for _, e := range payload.IndexB2 {
		date8, ok := normalizeDate8(strconv.FormatInt(e.DEven, 10))
		if !ok {
			logger.Debug("dropping adjusted-close entry with bad date", "dEven", e.DEven)
			continue
		}
		records = append(records, model.IndexAdjClose{
			Date8:    date8,
			AdjClose: model.F(e.AdjClose),
		})
	}

	return records, nil
}

// JoinIndex inner joins the OHLC and adjusted-close feeds by date. A day
// present in only one feed does not produce a record.
func JoinIndex(ohlc []model.IndexOHLC, adj []model.IndexAdjClose) []model.IndexRecord {
	byDate := make(map[string]model.Float, len(adj))
	for _, a := range adj {
		byDate[a.Date8] = a.AdjClose
	}

	records := make([]model.IndexRecord, 0, len(ohlc))
	for _, o := range ohlc {
		adjClose, ok := byDate[o.Date8]
		if !ok {
			continue
		}
		day, ok := gregorian8(o.Date8)
		if !ok {
			continue
		}
		records = append(records, model.IndexRecord{
			Date:     day,
			Open:     o.Open,
			High:     o.High,
			Low:      o.Low,
			Close:    o.Close,
			AdjClose: adjClose,
			Volume:   o.Volume,
		})
	}

	return records
}
