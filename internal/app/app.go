package app

import (
	"context"
	"fmt"
	"time"

	"github.com/newthinker/pms/internal/analytics"
	"github.com/newthinker/pms/internal/benchmark"
	"github.com/newthinker/pms/internal/core"
	"github.com/newthinker/pms/internal/ledger"
	"github.com/newthinker/pms/internal/metrics"
	"github.com/newthinker/pms/internal/storage/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EmptyNotice is shown instead of metrics when the ledger has no trades.
const EmptyNotice = "No trades yet"

// Trade is a ledger record with its derived values, as shown to users.
type Trade struct {
	core.TradeRecord
	PnL    decimal.Decimal `json:"pnl"`
	Return float64         `json:"return"`
}

// Dashboard is everything the journal view shows at once.
// Benchmark is nil when comparison is disabled.
type Dashboard struct {
	Trades    []Trade           `json:"trades"`
	Report    analytics.Report  `json:"report"`
	Notice    string            `json:"notice,omitempty"`
	Benchmark *benchmark.Result `json:"benchmark,omitempty"`
}

// App is the journal service: ledger CRUD plus performance reporting.
type App struct {
	store    trade.Store
	comparer *benchmark.Comparer
	opts     analytics.Options
	metrics  *metrics.Registry
	logger   *zap.Logger
}

// New creates a journal over an injected store.
func New(store trade.Store, opts analytics.Options, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		store:  store,
		opts:   opts,
		logger: logger,
	}
}

// SetComparer enables benchmark comparison on the dashboard.
func (a *App) SetComparer(c *benchmark.Comparer) {
	a.comparer = c
	a.wireObserver()
}

// SetMetrics enables business metrics.
func (a *App) SetMetrics(reg *metrics.Registry) {
	a.metrics = reg
	a.wireObserver()
}

func (a *App) wireObserver() {
	if a.comparer == nil || a.metrics == nil {
		return
	}
	reg := a.metrics
	a.comparer.SetObserver(func(status string, d time.Duration) {
		reg.RecordBenchmarkFetch(status, d.Seconds())
	})
}

// Store exposes the underlying ledger.
func (a *App) Store() trade.Store {
	return a.store
}

// Close releases the store.
func (a *App) Close() error {
	return a.store.Close()
}

// ListTrades returns the ledger in chronological order.
func (a *App) ListTrades(ctx context.Context) ([]core.TradeRecord, error) {
	records, err := a.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if a.metrics != nil {
		a.metrics.SetLedgerSize(len(records))
	}
	return analytics.SortByDate(records), nil
}

// GetTrade returns one record.
func (a *App) GetTrade(ctx context.Context, id string) (*core.TradeRecord, error) {
	return a.store.Get(ctx, id)
}

// AddTrade validates and stores a new trade.
func (a *App) AddTrade(ctx context.Context, in ledger.Input) (*core.TradeRecord, error) {
	rec, err := in.Record()
	if err != nil {
		return nil, err
	}

	saved, err := a.store.Insert(ctx, rec)
	if err != nil {
		return nil, err
	}
	a.mutated("insert")

	a.logger.Info("trade added",
		zap.String("id", saved.ID),
		zap.String("symbol", saved.Symbol),
		zap.String("pnl", saved.PnL().String()),
	)
	return saved, nil
}

// EditTrade applies a partial edit to an existing trade.
func (a *App) EditTrade(ctx context.Context, id string, patch ledger.Patch) (*core.TradeRecord, error) {
	if patch.IsEmpty() {
		return nil, core.WrapError(core.ErrInvalidRecord, fmt.Errorf("no fields to update"))
	}

	current, err := a.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rec, err := patch.Apply(*current)
	if err != nil {
		return nil, err
	}

	saved, err := a.store.Update(ctx, rec)
	if err != nil {
		return nil, err
	}
	a.mutated("update")

	a.logger.Info("trade updated", zap.String("id", id))
	return saved, nil
}

// DeleteTrade removes a trade.
func (a *App) DeleteTrade(ctx context.Context, id string) error {
	if err := a.store.Delete(ctx, id); err != nil {
		return err
	}
	a.mutated("delete")

	a.logger.Info("trade deleted", zap.String("id", id))
	return nil
}

// Import validates every record, then inserts them all or none.
func (a *App) Import(ctx context.Context, records []core.TradeRecord) (int, error) {
	clean := make([]core.TradeRecord, 0, len(records))
	for i, rec := range records {
		norm, err := ledger.Normalize(rec)
		if err != nil {
			return 0, fmt.Errorf("record %d: %w", i+1, err)
		}
		clean = append(clean, norm)
	}

	saved, err := a.store.InsertAll(ctx, clean)
	if err != nil {
		return 0, err
	}
	for range saved {
		a.mutated("import")
	}

	a.logger.Info("trades imported", zap.Int("count", len(saved)))
	return len(saved), nil
}

// Report computes the performance metrics. It never touches market data.
func (a *App) Report(ctx context.Context) (*analytics.Report, error) {
	records, err := a.ListTrades(ctx)
	if err != nil {
		return nil, err
	}
	report := a.compute(records)
	return &report, nil
}

// Dashboard builds the full journal view. Benchmark failures are reported
// inside the result, never as an error.
func (a *App) Dashboard(ctx context.Context) (*Dashboard, error) {
	dash, err := a.Overview(ctx)
	if err != nil {
		return nil, err
	}
	if dash.Report.Empty {
		return dash, nil
	}

	if a.comparer != nil {
		res := a.comparer.Compare(ctx, dash.Report.Equity)
		dash.Benchmark = &res
	}
	return dash, nil
}

// Overview is the journal view without the benchmark comparison.
func (a *App) Overview(ctx context.Context) (*Dashboard, error) {
	records, err := a.ListTrades(ctx)
	if err != nil {
		return nil, err
	}

	report := a.compute(records)
	dash := &Dashboard{
		Trades: toTrades(records),
		Report: report,
	}
	if report.Empty {
		dash.Notice = EmptyNotice
	}
	return dash, nil
}

func (a *App) compute(records []core.TradeRecord) analytics.Report {
	start := time.Now()
	report := analytics.Compute(records, a.opts)
	if a.metrics != nil {
		a.metrics.RecordReport(time.Since(start).Seconds())
	}
	return report
}

func (a *App) mutated(op string) {
	if a.metrics != nil {
		a.metrics.RecordTradeMutation(op)
	}
}

// NewTrade attaches the derived values to a record.
func NewTrade(rec core.TradeRecord) Trade {
	return Trade{
		TradeRecord: rec,
		PnL:         rec.PnL(),
		Return:      rec.Return(),
	}
}

func toTrades(records []core.TradeRecord) []Trade {
	out := make([]Trade, 0, len(records))
	for _, rec := range records {
		out = append(out, NewTrade(rec))
	}
	return out
}
