package benchmark

import (
	"context"
	"errors"
	"time"

	"github.com/newthinker/pms/internal/analytics"
	"github.com/newthinker/pms/internal/core"
	"github.com/newthinker/pms/internal/marketdata"
	"go.uber.org/zap"
)

// DefaultSymbol is the NIFTY 50 index.
const DefaultSymbol = "^NSEI"

// UnavailableNotice is shown in place of the comparison when it cannot be built.
const UnavailableNotice = "benchmark temporarily unavailable"

const defaultTimeout = 10 * time.Second

// Result is the outcome of a benchmark comparison. It is never an error: an
// unavailable benchmark carries a notice instead of points.
type Result struct {
	Available  bool        `json:"available"`
	Symbol     string      `json:"symbol"`
	Notice     string      `json:"notice,omitempty"`
	Reason     string      `json:"reason,omitempty"`
	Comparison *Comparison `json:"comparison,omitempty"`
}

// Observer receives the outcome of each benchmark fetch.
type Observer func(status string, duration time.Duration)

// Config holds comparer settings
type Config struct {
	Symbol  string
	Timeout time.Duration
}

// Comparer fetches a benchmark series and aligns the equity curve onto it.
type Comparer struct {
	provider marketdata.Provider
	symbol   string
	timeout  time.Duration
	logger   *zap.Logger
	observe  Observer
}

// NewComparer creates a comparer for one benchmark symbol.
func NewComparer(provider marketdata.Provider, cfg Config, logger *zap.Logger) *Comparer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Symbol == "" {
		cfg.Symbol = DefaultSymbol
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Comparer{
		provider: provider,
		symbol:   cfg.Symbol,
		timeout:  cfg.Timeout,
		logger:   logger,
	}
}

// SetObserver registers a callback for fetch outcomes, e.g. metrics.
func (c *Comparer) SetObserver(o Observer) {
	c.observe = o
}

// Symbol returns the benchmark symbol.
func (c *Comparer) Symbol() string {
	return c.symbol
}

// Compare fetches closes covering the equity curve in a single attempt and
// normalizes both series. Failures degrade to an unavailable Result.
func (c *Comparer) Compare(ctx context.Context, equity []analytics.EquityPoint) Result {
	if len(equity) == 0 {
		return c.unavailable(core.WrapError(core.ErrDataUnavailable, errors.New("no trades")))
	}
	if c.provider == nil {
		return c.unavailable(core.WrapError(core.ErrDataUnavailable, errors.New("no market data provider")))
	}

	start := core.TruncateDate(equity[0].Date)
	end := core.TruncateDate(equity[len(equity)-1].Date).AddDate(0, 0, 1)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	began := time.Now()
	closes, err := c.provider.FetchDailyClose(ctx, c.symbol, start, end)
	elapsed := time.Since(began)
	if err != nil {
		c.record("error", elapsed)
		return c.unavailable(core.WrapError(core.ErrProviderFailed, err))
	}

	cmp, err := Normalize(equity, closes)
	if err != nil {
		c.record("empty", elapsed)
		return c.unavailable(err)
	}
	cmp.Symbol = c.symbol
	c.record("ok", elapsed)

	c.logger.Debug("benchmark aligned",
		zap.String("symbol", c.symbol),
		zap.Int("points", len(cmp.Points)),
		zap.Duration("fetch", elapsed),
	)

	return Result{
		Available:  true,
		Symbol:     c.symbol,
		Comparison: cmp,
	}
}

func (c *Comparer) unavailable(err error) Result {
	c.logger.Warn("benchmark unavailable",
		zap.String("symbol", c.symbol),
		zap.Error(err),
	)
	return Result{
		Available: false,
		Symbol:    c.symbol,
		Notice:    UnavailableNotice,
		Reason:    err.Error(),
	}
}

func (c *Comparer) record(status string, d time.Duration) {
	if c.observe != nil {
		c.observe(status, d)
	}
}
