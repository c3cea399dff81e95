package service

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/tsedata/tsetmc/internal/assemble"
	"github.com/tsedata/tsetmc/internal/errs"
	"github.com/tsedata/tsetmc/internal/jalali"
	"github.com/tsedata/tsetmc/internal/model"
	"github.com/tsedata/tsetmc/internal/parse"
)

// indexWebIDs maps the supported market indexes to their upstream ids.
var indexWebIDs = map[string]string{
	"CWI":   "32097828799138957", // Overall index
	"EWI":   "67130298613737946", // Equal-weighted index
	"CWPI":  "5798407779416661",  // Overall, price only
	"EWPI":  "8384385859414435",  // Equal-weighted, price only
	"FFI":   "49579049405614711", // Free-float index
	"MKT1I": "62752761908615603", // First market
	"MKT2I": "71704845530629737", // Second market
	"INDI":  "43754960038275285", // Industrials
	"LCI30": "10523825119011581", // 30 large caps
	"ACT50": "46342955726788357", // 50 most active
}

// IndexNames lists the supported index identifiers, sorted.
func IndexNames() []string {
	names := make([]string, 0, len(indexWebIDs))
	for name := range indexWebIDs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IndexOptions extend the display options for index requests.
type IndexOptions struct {
	DisplayOptions

	// JustAdjClose returns only the adjusted-close series, skipping the
	// OHLC feed and the join.
	JustAdjClose bool
}

// IndexHistory returns the history of one market index over the local date
// range. The OHLC feed and the adjusted-close feed are joined by exact
// Gregorian date; a day missing from either feed is dropped.
func (s *Service) IndexHistory(ctx context.Context, index, start, end string, opts IndexOptions) (assemble.Table, error) {
	from, to, err := jalali.ValidateRange(start, end)
	if err != nil {
		return assemble.Table{}, err
	}

	webID, ok := indexWebIDs[strings.ToUpper(strings.TrimSpace(index))]
	if !ok {
		return assemble.Table{}, errs.Validation("index", index,
			"unknown index, expected one of %s", strings.Join(IndexNames(), ", "))
	}

	rawAdj, err := s.cdn.Get(ctx, pathAdjClose+webID, nil)
	if err != nil {
		return assemble.Table{}, err
	}
	adj, err := parse.IndexAdjClose(s.logger, rawAdj)
	if err != nil {
		return assemble.Table{}, err
	}

	if opts.JustAdjClose {
		return s.assembleAdjClose(adj, index, from, to, opts.DisplayOptions)
	}

	rawOHLC, err := s.legacy.Get(ctx, pathIndexOHLC, url.Values{"i": {webID}, "t": {"ph"}})
	if err != nil {
		return assemble.Table{}, err
	}
	joined := parse.JoinIndex(parse.IndexOHLC(s.logger, rawOHLC), adj)

	b := assemble.NewBuilder("date", "open", "high", "low", "close", "adj_close", "volume")
	for _, r := range joined {
		if r.Date.Before(from) || r.Date.After(to) {
			continue
		}
		b.Row(r.Date,
			assemble.FloatCell(r.Open),
			assemble.FloatCell(r.High),
			assemble.FloatCell(r.Low),
			assemble.FloatCell(r.Close),
			assemble.FloatCell(r.AdjClose),
			assemble.IntCell(r.Volume),
		)
	}
	if b.Len() == 0 {
		return assemble.Table{}, errs.Data("no index records for %s between %s and %s", index, from, to)
	}

	return b.Build(assemble.Options{
		KeyColumn:  "date",
		DateColumn: "date",
		Calendar:   opts.Calendar,
		Weekday:    opts.Weekday,
	}), nil
}

func (s *Service) assembleAdjClose(adj []model.IndexAdjClose, index string, from, to jalali.Date, opts DisplayOptions) (assemble.Table, error) {
	b := assemble.NewBuilder("date", "adj_close")
	for _, a := range adj {
		t, err := time.Parse("20060102", a.Date8)
		if err != nil {
			continue
		}
		day := jalali.FromGregorian(t)
		if day.Before(from) || day.After(to) {
			continue
		}
		b.Row(day, assemble.FloatCell(a.AdjClose))
	}
	if b.Len() == 0 {
		return assemble.Table{}, errs.Data("no adjusted-close records for %s between %s and %s", index, from, to)
	}

	return b.Build(assemble.Options{
		KeyColumn:  "date",
		DateColumn: "date",
		Calendar:   opts.Calendar,
		Weekday:    opts.Weekday,
	}), nil
}
