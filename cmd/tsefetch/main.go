// Command tsefetch fetches and prints market data from the exchange feeds.
//
// Examples:
//
//	tsefetch -op search -query فولاد
//	tsefetch -op history -stock فولاد -start 1403-01-01 -end 1403-06-31
//	tsefetch -op panel -stocks فولاد,خودرو -start 1403-01-01 -end 1403-06-31
//	tsefetch -op index -index CWI -start 1403-01-01 -end 1403-06-31
//	tsefetch -op intraday -stock فولاد -start 1403-01-01 -end 1403-01-05
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/tsedata/tsetmc/internal/assemble"
	"github.com/tsedata/tsetmc/internal/config"
	"github.com/tsedata/tsetmc/internal/service"
	"github.com/tsedata/tsetmc/internal/transport"
	"github.com/tsedata/tsetmc/internal/version"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to config file (defaults apply when empty)")
		op          = flag.String("op", "", "operation: search, history, panel, ri-history, usd-rial, index, stock-list, market-watch, order-book, intraday, orderbook-history")
		query       = flag.String("query", "", "search query")
		stock       = flag.String("stock", "", "stock symbol or name")
		stocks      = flag.String("stocks", "", "comma-separated stock symbols (panel)")
		index       = flag.String("index", "CWI", "index name, one of "+strings.Join(service.IndexNames(), ", "))
		start       = flag.String("start", "", "start date, local calendar (1403-01-01)")
		end         = flag.String("end", "", "end date, local calendar")
		calendar    = flag.String("calendar", "local", "date display: local, gregorian, both")
		weekday     = flag.Bool("weekday", false, "append a weekday column")
		adjOnly     = flag.Bool("just-adj-close", false, "index: adjusted close only")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	svc := newService(cfg, logger)
	defer svc.Close()

	display, err := displayOptions(*calendar, *weekday)
	if err != nil {
		logger.Error("bad calendar option", "error", err)
		os.Exit(1)
	}

	table, err := run(ctx, svc, *op, runArgs{
		query:   *query,
		stock:   *stock,
		stocks:  splitStocks(*stocks),
		index:   *index,
		start:   *start,
		end:     *end,
		display: display,
		adjOnly: *adjOnly,
	})
	if err != nil {
		logger.Error("operation failed", "op", *op, "error", err)
		os.Exit(1)
	}

	printTable(table)
}

type runArgs struct {
	query   string
	stock   string
	stocks  []string
	index   string
	start   string
	end     string
	display service.DisplayOptions
	adjOnly bool
}

func run(ctx context.Context, svc *service.Service, op string, a runArgs) (assemble.Table, error) {
	switch op {
	case "search":
		return searchTable(ctx, svc, a.query)
	case "history":
		return svc.PriceHistory(ctx, a.stock, a.start, a.end, a.display)
	case "panel":
		return svc.PricePanel(ctx, a.stocks, a.start, a.end, a.display)
	case "ri-history":
		return svc.RIHistory(ctx, a.stock, a.start, a.end, a.display)
	case "usd-rial":
		return svc.USDRialHistory(ctx, a.start, a.end, a.display)
	case "index":
		return svc.IndexHistory(ctx, a.index, a.start, a.end,
			service.IndexOptions{DisplayOptions: a.display, JustAdjClose: a.adjOnly})
	case "stock-list":
		return svc.StockList(ctx)
	case "market-watch":
		return svc.MarketWatch(ctx)
	case "order-book":
		return svc.OrderBookSnapshot(ctx)
	case "intraday":
		return svc.IntradayTrades(ctx, a.stock, a.start, a.end, a.display)
	case "orderbook-history":
		return svc.OrderBookHistory(ctx, a.stock, a.start, a.end, a.display)
	case "":
		return assemble.Table{}, fmt.Errorf("missing -op flag")
	default:
		return assemble.Table{}, fmt.Errorf("unknown operation %q", op)
	}
}

func searchTable(ctx context.Context, svc *service.Service, query string) (assemble.Table, error) {
	refs, err := svc.Search(ctx, query)
	if err != nil {
		return assemble.Table{}, err
	}
	b := assemble.NewBuilder("web_id", "ticker", "name", "market", "sector", "isin")
	for _, r := range refs {
		b.Row(r.WebID, r.Ticker, r.Name, r.Market, r.Sector, r.ISIN)
	}
	return b.Build(assemble.Options{KeyColumn: "ticker"}), nil
}

func splitStocks(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadAndValidate(path)
}

func newService(cfg *config.Config, logger *slog.Logger) *service.Service {
	// One limiter for both hosts, so the request spacing holds across the
	// whole process rather than per host.
	limiter := transport.NewLimiter(cfg.Upstream.MinRequestInterval)
	opts := func(base string) *transport.Client {
		return transport.New(base,
			transport.WithTimeout(cfg.Upstream.Timeout),
			transport.WithLimiter(limiter),
			transport.WithRetries(cfg.Upstream.MaxRetries, cfg.Upstream.RetryBackoff),
			transport.WithLogger(logger),
		)
	}
	return service.New(opts(cfg.Upstream.BaseURL), opts(cfg.Upstream.CDNURL), cfg.Fetch, logger)
}

func displayOptions(calendar string, weekday bool) (service.DisplayOptions, error) {
	opts := service.DisplayOptions{Weekday: weekday}
	switch calendar {
	case "local":
		opts.Calendar = assemble.CalendarLocal
	case "gregorian":
		opts.Calendar = assemble.CalendarGregorian
	case "both":
		opts.Calendar = assemble.CalendarBoth
	default:
		return opts, fmt.Errorf("unknown calendar mode %q", calendar)
	}
	return opts, nil
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

func printTable(t assemble.Table) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(t.Columns, "\t"))
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			if c == nil {
				cells[i] = "-"
				continue
			}
			cells[i] = fmt.Sprint(c)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	w.Flush()
}
