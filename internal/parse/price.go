package parse

import (
	"log/slog"
	"strings"

	"github.com/tsedata/tsetmc/internal/model"
)

// priceHistoryFields is the fixed column order of the price-history feed.
const priceHistoryFields = 9

// PriceHistory parses the delimited price-history feed for one instrument.
// Field order: date(YYYYMMDD), high, low, close, last, count, volume, value,
// open. Dates are Gregorian on the wire.
func PriceHistory(logger *slog.Logger, raw []byte) []model.PriceRecord {
	rows := splitRows(raw)
	records := make([]model.PriceRecord, 0, len(rows))

	for _, row := range rows {
		fields := strings.Split(row, ",")
		if len(fields) < priceHistoryFields {
			logger.Debug("dropping short price row", "fields", len(fields), "row", row)
			continue
		}

		day, ok := gregorian8(fields[0])
		if !ok {
			logger.Debug("dropping price row with bad date", "date", fields[0])
			continue
		}

		records = append(records, model.PriceRecord{
			Date:   day,
			High:   num(fields[1]),
			Low:    num(fields[2]),
			Close:  num(fields[3]),
			Last:   num(fields[4]),
			Count:  count(fields[5]),
			Volume: count(fields[6]),
			Value:  count(fields[7]),
			Open:   num(fields[8]),
		})
	}

	return records
}
