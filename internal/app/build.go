package app

import (
	"fmt"

	"github.com/newthinker/pms/internal/analytics"
	"github.com/newthinker/pms/internal/benchmark"
	"github.com/newthinker/pms/internal/config"
	"github.com/newthinker/pms/internal/marketdata"
	"github.com/newthinker/pms/internal/marketdata/yahoo"
	"github.com/newthinker/pms/internal/storage/trade"
	"go.uber.org/zap"
)

// AnalyticsOptions maps the analytics config section to engine options.
func AnalyticsOptions(cfg config.AnalyticsConfig) analytics.Options {
	return analytics.Options{
		InitialCapital:      cfg.InitialCapital,
		ReturnBasis:         analytics.ReturnBasis(cfg.ReturnBasis),
		DownsideTarget:      cfg.DownsideTarget,
		AnnualizationFactor: cfg.Annualization,
		AggregateByDate:     cfg.AggregateByDate,
	}
}

// DefaultProviders returns the market data providers built into the binary.
func DefaultProviders() *marketdata.Registry {
	return marketdata.NewRegistry(yahoo.New())
}

// Build wires an App from configuration: it opens the configured store and,
// when enabled, a benchmark comparer over the configured provider.
func Build(cfg *config.Config, providers *marketdata.Registry, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := trade.Open(cfg.Store, logger)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	a := New(store, AnalyticsOptions(cfg.Analytics), logger)

	if cfg.Benchmark.Enabled {
		if providers == nil {
			providers = DefaultProviders()
		}
		provider, err := providers.Get(cfg.Benchmark.Provider)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("benchmark provider: %w", err)
		}
		a.SetComparer(benchmark.NewComparer(provider, benchmark.Config{
			Symbol:  cfg.Benchmark.Symbol,
			Timeout: cfg.Benchmark.Timeout,
		}, logger))
	}

	logger.Debug("journal ready",
		zap.String("store", cfg.Store.Driver),
		zap.Bool("benchmark", cfg.Benchmark.Enabled),
	)
	return a, nil
}
