package main

import (
	"encoding/json"
	"fmt"

	"github.com/newthinker/pms/internal/app"
	"github.com/newthinker/pms/internal/render"
	"github.com/spf13/cobra"
)

var (
	reportBenchmark bool
	reportJSON      bool
	reportPlain     bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show performance statistics for the ledger",
	Long: `Computes PnL, equity, drawdown, hit ratio, Sharpe and Sortino over every trade.
With --benchmark the equity curve is compared against the configured index.`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportBenchmark, "benchmark", false, "compare against the benchmark index")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "print JSON")
	reportCmd.Flags().BoolVar(&reportPlain, "plain", false, "print markdown without terminal styling")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	dash, err := loadDashboard(cmd, s, reportBenchmark)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if reportJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(dash)
	}

	md, err := render.Markdown(dashboardView(s, dash, ""))
	if err != nil {
		return err
	}
	return printMarkdown(cmd, md, reportPlain)
}

// loadDashboard computes the report, with the benchmark only when asked for.
func loadDashboard(cmd *cobra.Command, s *session, withBenchmark bool) (*app.Dashboard, error) {
	if withBenchmark {
		if !s.cfg.Benchmark.Enabled {
			s.log.Warn("benchmark.enabled is false, skipping comparison")
		}
		return s.app.Dashboard(cmd.Context())
	}
	return s.app.Overview(cmd.Context())
}

func dashboardView(s *session, dash *app.Dashboard, review string) render.View {
	v := render.View{
		Currency:  s.cfg.Currency,
		Report:    dash.Report,
		Benchmark: dash.Benchmark,
		Notice:    dash.Notice,
		Review:    review,
	}
	for _, t := range dash.Trades {
		v.Trades = append(v.Trades, t.TradeRecord)
	}
	return v
}

func printMarkdown(cmd *cobra.Command, md string, plain bool) error {
	out := cmd.OutOrStdout()
	if !plain {
		styled, err := render.Terminal(md, 100)
		if err == nil {
			_, err = fmt.Fprint(out, styled)
			return err
		}
	}
	_, err := fmt.Fprint(out, md)
	return err
}
