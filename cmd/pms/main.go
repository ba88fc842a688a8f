package main

import (
	"fmt"
	"os"

	"github.com/newthinker/pms/internal/app"
	"github.com/newthinker/pms/internal/config"
	"github.com/newthinker/pms/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile  string
	debug    bool
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "pms",
	Short: "PMS - trade journal and performance analytics",
	Long: `PMS records closed trades in a ledger and reports on them: PnL, equity curve,
drawdown, hit ratio, Sharpe and Sortino, with an optional benchmark comparison.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger builds the process logger from the persistent flags.
func newLogger() (*zap.Logger, error) {
	level := logLevel
	if level == "" && !debug {
		// keep command output readable by default
		level = "warn"
	}
	return logger.Build(logger.Options{Development: debug, Level: level})
}

// loadConfig reads --config, or falls back to defaults with env overrides.
func loadConfig(log *zap.Logger) (*config.Config, error) {
	if cfgFile == "" {
		log.Debug("no config file specified, using defaults")
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// session is the state shared by commands that touch the ledger.
type session struct {
	cfg *config.Config
	log *zap.Logger
	app *app.App
}

func openSession() (*session, error) {
	log, err := newLogger()
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(log)
	if err != nil {
		return nil, err
	}
	a, err := app.Build(cfg, nil, log)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, log: log, app: a}, nil
}

func (s *session) Close() {
	if err := s.app.Close(); err != nil {
		s.log.Warn("closing store", zap.Error(err))
	}
	s.log.Sync()
}
