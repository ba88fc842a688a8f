// Package review asks an LLM for a short written assessment of a performance report.
package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/newthinker/pms/internal/analytics"
	"github.com/newthinker/pms/internal/benchmark"
	"github.com/newthinker/pms/internal/core"
	"github.com/newthinker/pms/internal/llm"
	"go.uber.org/zap"
)

const systemPrompt = `You review the trading journal of a discretionary equity trader.
Write three short paragraphs: overall performance, risk (drawdown and ratios), and
comparison with the benchmark when one is given. Quote figures from the data. Do not
give investment advice or recommend specific securities.`

// Reviewer builds review prompts and sends them to a provider.
type Reviewer struct {
	provider  llm.Provider
	currency  string
	maxTokens int
	logger    *zap.Logger
}

// New creates a reviewer. Amounts in the prompt are labelled with currency.
func New(provider llm.Provider, currency string, logger *zap.Logger) *Reviewer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reviewer{
		provider:  provider,
		currency:  currency,
		maxTokens: 800,
		logger:    logger,
	}
}

// Review returns the provider's commentary on report. bench may be nil.
func (r *Reviewer) Review(ctx context.Context, report analytics.Report, bench *benchmark.Result) (string, error) {
	if report.Empty {
		return "", core.WrapError(core.ErrBadRequest, fmt.Errorf("no trades to review"))
	}

	resp, err := r.provider.Chat(ctx, llm.ChatRequest{
		SystemPrompt: systemPrompt,
		Messages:     []llm.Message{llm.UserMessage(Prompt(report, bench, r.currency))},
		MaxTokens:    r.maxTokens,
		Temperature:  0.3,
	})
	if err != nil {
		return "", core.WrapError(core.ErrLLMFailed, err)
	}

	r.logger.Info("review generated",
		zap.String("provider", r.provider.Name()),
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
	)

	content := strings.TrimSpace(resp.Content)
	if content == "" {
		return "", core.WrapError(core.ErrLLMFailed, fmt.Errorf("%s returned an empty review", r.provider.Name()))
	}
	return content, nil
}

// Prompt renders the figures the model is asked to comment on.
func Prompt(report analytics.Report, bench *benchmark.Result, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Performance summary (amounts in %s):\n", currency)
	fmt.Fprintf(&b, "- trades: %d (%d winners, %d losers, %d flat)\n",
		report.TradeCount, report.Winners, report.Losers, report.Flat)
	fmt.Fprintf(&b, "- total pnl: %.2f after %.2f fees\n", report.TotalPnL, report.TotalFees)
	fmt.Fprintf(&b, "- equity: %.2f -> %.2f\n", report.InitialCapital, report.FinalEquity)
	fmt.Fprintf(&b, "- hit ratio: %.2f%%\n", report.HitRatio)
	fmt.Fprintf(&b, "- max drawdown: %.2f%% (%.2f)\n", report.MaxDrawdown, report.MaxDrawdownAmount)
	fmt.Fprintf(&b, "- profit factor: %s\n", report.ProfitFactor)
	fmt.Fprintf(&b, "- sharpe: %s\n", report.Sharpe)
	fmt.Fprintf(&b, "- sortino: %s\n", report.Sortino)

	switch {
	case bench == nil:
	case bench.Available && bench.Comparison != nil:
		c := bench.Comparison
		fmt.Fprintf(&b, "\nBenchmark %s over the same period:\n", c.Symbol)
		fmt.Fprintf(&b, "- portfolio return: %.2f%%\n", c.PortfolioReturn*100)
		fmt.Fprintf(&b, "- benchmark return: %.2f%%\n", c.BenchmarkReturn*100)
		fmt.Fprintf(&b, "- excess: %.2f%%\n", c.Excess*100)
	default:
		fmt.Fprintf(&b, "\nBenchmark %s: %s\n", bench.Symbol, bench.Notice)
	}
	return b.String()
}
