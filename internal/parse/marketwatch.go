package parse

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/tsedata/tsetmc/internal/errs"
	"github.com/tsedata/tsetmc/internal/model"
	"github.com/tsedata/tsetmc/internal/persian"
)

// Market-watch blob layout: sections split by '@', rows by ';', fields by ','.
// Section 0 is a header, 1 is market settings, 2 is price rows, 3 is
// order-book rows.
const (
	marketWatchSections  = 4
	marketWatchPriceCols = 23
	marketWatchBookCols  = 8
	clientTypeCols       = 9
)

// MarketWatch parses the market-wide snapshot blob into price rows and
// best-limit order-book rows.
func MarketWatch(logger *slog.Logger, raw []byte) ([]model.MarketWatchRow, []model.OrderBookLevel, error) {
	sections := strings.Split(string(raw), "@")
	if len(sections) < marketWatchSections {
		return nil, nil, errs.Data("market-watch blob has %d sections, need %d", len(sections), marketWatchSections)
	}

	var prices []model.MarketWatchRow
	for _, row := range splitRows([]byte(sections[2])) {
		fields := strings.Split(row, ",")
		if len(fields) < marketWatchPriceCols {
			logger.Debug("dropping short market-watch row", "fields", len(fields))
			continue
		}
		if strings.TrimSpace(fields[0]) == "" {
			continue
		}

		// Columns 16 and 17 are unused upstream filler.
		prices = append(prices, model.MarketWatchRow{
			WebID:      strings.TrimSpace(fields[0]),
			TickerCode: strings.TrimSpace(fields[1]),
			Ticker:     persian.CleanText(fields[2]),
			Name:       persian.CleanText(fields[3]),
			Time:       clock(fields[4]),
			Open:       num(fields[5]),
			Final:      num(fields[6]),
			Close:      num(fields[7]),
			Count:      count(fields[8]),
			Volume:     count(fields[9]),
			Value:      count(fields[10]),
			Low:        num(fields[11]),
			High:       num(fields[12]),
			YFinal:     num(fields[13]),
			EPS:        num(fields[14]),
			BaseVolume: count(fields[15]),
			SectorCode: strings.TrimSpace(fields[18]),
			DayHigh:    num(fields[19]),
			DayLow:     num(fields[20]),
			ShareCount: count(fields[21]),
			MarketID:   strings.TrimSpace(fields[22]),
		})
	}

	var book []model.OrderBookLevel
	for _, row := range splitRows([]byte(sections[3])) {
		fields := strings.Split(row, ",")
		if len(fields) < marketWatchBookCols {
			logger.Debug("dropping short order-book row", "fields", len(fields))
			continue
		}
		depth, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			logger.Debug("dropping order-book row with bad depth", "depth", fields[1])
			continue
		}

		book = append(book, model.OrderBookLevel{
			WebID:     strings.TrimSpace(fields[0]),
			Depth:     depth,
			SellCount: count(fields[2]),
			BuyCount:  count(fields[3]),
			BuyPrice:  num(fields[4]),
			SellPrice: num(fields[5]),
			BuyVolume: count(fields[6]),
			SellVol:   count(fields[7]),
		})
	}

	return prices, book, nil
}

// ClientType parses the companion retail/institutional feed, one row per
// instrument, joined to the snapshot by web id.
func ClientType(logger *slog.Logger, raw []byte) []model.ClientTypeRow {
	rows := splitRows(raw)
	records := make([]model.ClientTypeRow, 0, len(rows))

	for _, row := range rows {
		fields := strings.Split(row, ",")
		if len(fields) < clientTypeCols {
			logger.Debug("dropping short client-type row", "fields", len(fields))
			continue
		}

		records = append(records, model.ClientTypeRow{
			WebID:           strings.TrimSpace(fields[0]),
			BuyCountRetail:  count(fields[1]),
			BuyCountInst:    count(fields[2]),
			BuyVolRetail:    count(fields[3]),
			BuyVolInst:      count(fields[4]),
			SellCountRetail: count(fields[5]),
			SellCountInst:   count(fields[6]),
			SellVolRetail:   count(fields[7]),
			SellVolInst:     count(fields[8]),
		})
	}

	return records
}
