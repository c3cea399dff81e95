package service

import (
	"context"
	"net/url"
	"unicode/utf8"

	"github.com/tsedata/tsetmc/internal/errs"
	"github.com/tsedata/tsetmc/internal/model"
	"github.com/tsedata/tsetmc/internal/parse"
	"github.com/tsedata/tsetmc/internal/persian"
)

// Search queries the instrument search feed with a cleaned symbol or name
// fragment and returns every match.
func (s *Service) Search(ctx context.Context, query string) ([]model.InstrumentRef, error) {
	cleaned, err := persian.NormalizeSymbol(query)
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(cleaned) < 2 {
		return nil, errs.Validation("query", query, "search query needs at least 2 characters")
	}

	raw, err := s.legacy.Get(ctx, pathSearch, url.Values{"skey": {cleaned}})
	if err != nil {
		return nil, err
	}
	return parse.SearchResults(s.logger, raw)
}

// Resolve returns the first instrument matching name. The first search hit
// is the upstream's best match for the query.
func (s *Service) Resolve(ctx context.Context, name string) (model.InstrumentRef, error) {
	refs, err := s.Search(ctx, name)
	if err != nil {
		return model.InstrumentRef{}, err
	}
	if len(refs) == 0 {
		return model.InstrumentRef{}, errs.NotFound("no instrument matches %q", name)
	}

	s.logger.Debug("resolved instrument",
		"query", name,
		"web_id", refs[0].WebID,
		"ticker", refs[0].Ticker,
	)
	return refs[0], nil
}
