package parse

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/tsedata/tsetmc/internal/errs"
	"github.com/tsedata/tsetmc/internal/model"
	"github.com/tsedata/tsetmc/internal/persian"
)

// The legacy search feed: rows by ';', comma fields in the order
// name, ticker, web id, market, sector, isin.
const searchLegacyCols = 6

// SearchResults parses the instrument search feed. The upstream serves two
// shapes for the same logical query, sniffed by the first non-space byte:
// a JSON document or the legacy delimited format.
func SearchResults(logger *slog.Logger, raw []byte) ([]model.InstrumentRef, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return searchJSON(trimmed)
	}
	return searchLegacy(logger, trimmed), nil
}

type searchEntry struct {
	Name    string `json:"lVal30"`
	Ticker  string `json:"lVal18AFC"`
	InsCode string `json:"insCode"`
	Sector  string `json:"lSecVal"`
	ISIN    string `json:"cIsin"`
	Flow    int    `json:"flow"`
}

func searchJSON(raw []byte) ([]model.InstrumentRef, error) {
	var entries []searchEntry
	if raw[0] == '{' {
		var payload struct {
			InstrumentSearch []searchEntry `json:"instrumentSearch"`
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, errs.Data("decode search feed: %v", err)
		}
		entries = payload.InstrumentSearch
	} else {
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, errs.Data("decode search feed: %v", err)
		}
	}

	refs := make([]model.InstrumentRef, 0, len(entries))
	for _, e := range entries {
		if e.InsCode == "" {
			continue
		}
		refs = append(refs, model.InstrumentRef{
			WebID:  e.InsCode,
			Ticker: persian.CleanText(e.Ticker),
			Name:   persian.CleanText(e.Name),
			Market: flowName(e.Flow),
			Sector: persian.CleanText(e.Sector),
			ISIN:   e.ISIN,
		})
	}
	return refs, nil
}

func searchLegacy(logger *slog.Logger, raw []byte) []model.InstrumentRef {
	rows := splitRows(raw)
	refs := make([]model.InstrumentRef, 0, len(rows))

	for _, row := range rows {
		fields := strings.Split(row, ",")
		if len(fields) < searchLegacyCols {
			logger.Debug("dropping short search row", "fields", len(fields))
			continue
		}
		webID := strings.TrimSpace(fields[2])
		if webID == "" {
			continue
		}
		refs = append(refs, model.InstrumentRef{
			Name:   persian.CleanText(fields[0]),
			Ticker: persian.CleanText(fields[1]),
			WebID:  webID,
			Market: persian.CleanText(fields[3]),
			Sector: persian.CleanText(fields[4]),
			ISIN:   strings.TrimSpace(fields[5]),
		})
	}
	return refs
}

// flowName maps the upstream flow code to a market name.
func flowName(flow int) string {
	switch flow {
	case 1:
		return "بورس"
	case 2:
		return "فرابورس"
	case 4:
		return "پایه فرابورس"
	default:
		return ""
	}
}
