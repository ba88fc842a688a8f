package main

import (
	"github.com/newthinker/pms/internal/llm/factory"
	"github.com/newthinker/pms/internal/render"
	"github.com/newthinker/pms/internal/review"
	"github.com/spf13/cobra"
)

var (
	reviewBenchmark bool
	reviewPlain     bool
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Ask the configured LLM to comment on the report",
	Args:  cobra.NoArgs,
	RunE:  runReview,
}

func init() {
	reviewCmd.Flags().BoolVar(&reviewBenchmark, "benchmark", true, "include the benchmark comparison in the prompt")
	reviewCmd.Flags().BoolVar(&reviewPlain, "plain", false, "print markdown without terminal styling")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	provider, err := factory.New(s.cfg.LLM)
	if err != nil {
		return err
	}

	dash, err := loadDashboard(cmd, s, reviewBenchmark)
	if err != nil {
		return err
	}

	text, err := review.New(provider, s.cfg.Currency, s.log).Review(cmd.Context(), dash.Report, dash.Benchmark)
	if err != nil {
		return err
	}

	md, err := render.Markdown(dashboardView(s, dash, text))
	if err != nil {
		return err
	}
	return printMarkdown(cmd, md, reviewPlain)
}
