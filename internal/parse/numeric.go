package parse

import (
	"strconv"
	"strings"
	"time"

	"github.com/tsedata/tsetmc/internal/jalali"
	"github.com/tsedata/tsetmc/internal/model"
)

// splitRows splits a legacy payload into rows on semicolons and newlines,
// dropping empties.
func splitRows(raw []byte) []string {
	fields := strings.FieldsFunc(string(raw), func(r rune) bool {
		return r == ';' || r == '\n' || r == '\r'
	})
	rows := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			rows = append(rows, f)
		}
	}
	return rows
}

// num parses a numeric field, absent on failure. The feeds mix integer and
// scientific notation for the same column.
func num(s string) model.Float {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.Float{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return model.Float{}
	}
	return model.F(v)
}

// count parses an integer field, absent on failure. Values above 2^53 do not
// occur in these feeds, so a float round-trip for scientific notation is safe.
func count(s string) model.Int {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.Int{}
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return model.I(v)
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return model.I(int64(v))
	}
	return model.Int{}
}

// clock formats an upstream time-of-day integer ("92359", "123000") as
// HH:MM:SS. The hour is not zero padded on the wire.
func clock(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 6 || s == "" {
		return ""
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return ""
		}
	}
	s = strings.Repeat("0", 6-len(s)) + s
	return s[0:2] + ":" + s[2:4] + ":" + s[4:6]
}

// gregorian8 converts an 8-digit Gregorian date to the local calendar.
func gregorian8(s string) (jalali.Date, bool) {
	s = strings.TrimSpace(s)
	if len(s) != 8 {
		return jalali.Date{}, false
	}
	t, err := time.Parse("20060102", s)
	if err != nil {
		return jalali.Date{}, false
	}
	return jalali.FromGregorian(t), true
}

// normalizeDate8 accepts the date shapes the index feeds emit, M/D/YYYY,
// YYYY-MM-DD or YYYYMMDD, and returns the canonical 8-digit form.
func normalizeDate8(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"20060102", "1/2/2006", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("20060102"), true
		}
	}
	return "", false
}
