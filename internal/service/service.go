package service

import (
	"log/slog"
	"time"

	"github.com/tsedata/tsetmc/internal/assemble"
	"github.com/tsedata/tsetmc/internal/config"
	"github.com/tsedata/tsetmc/internal/fetch"
	"github.com/tsedata/tsetmc/internal/transport"
)

// Legacy host paths.
const (
	pathSearch       = "/tsev2/data/search.aspx"
	pathPriceHistory = "/tsev2/data/InstTradeHistory.aspx"
	pathIndexOHLC    = "/tsev2/chart/data/IndexFinancial.aspx"
	pathMarketWatch  = "/tsev2/data/MarketWatchPlus.aspx"
	pathClientType   = "/tsev2/data/ClientTypeAll.aspx"
)

// CDN host path prefixes; instrument id and date are appended.
const (
	pathAdjClose        = "/api/Index/GetIndexB2History/"
	pathTradeHistory    = "/api/Trade/GetTradeHistory/"
	pathBestLimits      = "/api/BestLimits/"
	pathStaticThreshold = "/api/MarketData/GetStaticThreshold/"
)

// DisplayOptions select the presentation of assembled tables.
type DisplayOptions struct {
	Calendar assemble.CalendarMode
	Weekday  bool
}

// Service is the logical request layer over the two upstream hosts.
type Service struct {
	legacy *transport.Client
	cdn    *transport.Client
	logger *slog.Logger

	concurrency     int
	maxIntradayDays int
	deadline        time.Duration
}

// New creates a Service. legacy serves the delimited-text feeds, cdn the
// JSON feeds.
func New(legacy, cdn *transport.Client, cfg config.FetchConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		legacy:          legacy,
		cdn:             cdn,
		logger:          logger,
		concurrency:     cfg.Concurrency,
		maxIntradayDays: cfg.MaxIntradayDays,
		deadline:        cfg.Deadline,
	}
}

// Close releases both upstream clients.
func (s *Service) Close() {
	s.legacy.Close()
	s.cdn.Close()
}

// fetchOptions builds the orchestrator options for one batch. maxUnits <= 0
// leaves the batch uncapped.
func (s *Service) fetchOptions(maxUnits int) fetch.Options {
	return fetch.Options{
		Concurrency: s.concurrency,
		MaxUnits:    maxUnits,
		Deadline:    s.deadline,
	}
}
