package benchmark

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/newthinker/pms/internal/analytics"
	"github.com/newthinker/pms/internal/core"
)

// ComparisonPoint holds both normalized series on one benchmark date.
type ComparisonPoint struct {
	Date      time.Time `json:"date"`
	Portfolio float64   `json:"portfolio"`
	Benchmark float64   `json:"benchmark"`
}

// Comparison is the portfolio overlaid on a benchmark, both rebased to 1.0.
type Comparison struct {
	Symbol          string            `json:"symbol"`
	Points          []ComparisonPoint `json:"points"`
	PortfolioReturn float64           `json:"portfolio_return"`
	BenchmarkReturn float64           `json:"benchmark_return"`
	Excess          float64           `json:"excess"`
}

// Normalize rebases the equity curve and the benchmark closes to 1.0 at their
// first observation and forward-fills the portfolio onto the benchmark's dates.
// The portfolio base is the first equity point even when later points share
// its date; each benchmark date then takes the day's last equity value.
// Benchmark dates before the first portfolio observation are dropped.
func Normalize(equity []analytics.EquityPoint, closes []core.PricePoint) (*Comparison, error) {
	if len(equity) == 0 {
		return nil, core.WrapError(core.ErrDataUnavailable, errors.New("empty equity curve"))
	}
	base := equity[0].Value
	portfolio := lastPerDay(equity)
	if base <= 0 || math.IsNaN(base) || math.IsInf(base, 0) {
		return nil, core.WrapError(core.ErrDataUnavailable,
			fmt.Errorf("equity base %v cannot be normalized", base))
	}

	bench := cleanCloses(closes)
	if len(bench) == 0 {
		return nil, core.WrapError(core.ErrDataUnavailable, errors.New("empty benchmark series"))
	}
	benchBase := bench[0].Close

	points := make([]ComparisonPoint, 0, len(bench))
	next := 0
	last := math.NaN()
	for _, b := range bench {
		for next < len(portfolio) && !core.TruncateDate(portfolio[next].Date).After(core.TruncateDate(b.Date)) {
			last = portfolio[next].Value / base
			next++
		}
		if math.IsNaN(last) {
			continue
		}
		points = append(points, ComparisonPoint{
			Date:      b.Date,
			Portfolio: last,
			Benchmark: b.Close / benchBase,
		})
	}

	if len(points) == 0 {
		return nil, core.WrapError(core.ErrDataUnavailable, errors.New("no overlapping dates"))
	}

	end := points[len(points)-1]
	return &Comparison{
		Points:          points,
		PortfolioReturn: end.Portfolio - 1,
		BenchmarkReturn: end.Benchmark - 1,
		Excess:          end.Portfolio - end.Benchmark,
	}, nil
}

// lastPerDay collapses same-day equity points to the day's final value.
func lastPerDay(equity []analytics.EquityPoint) []analytics.EquityPoint {
	out := make([]analytics.EquityPoint, 0, len(equity))
	for _, p := range equity {
		if n := len(out); n > 0 && core.TruncateDate(out[n-1].Date).Equal(core.TruncateDate(p.Date)) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}

// cleanCloses returns the valid closes sorted by date.
func cleanCloses(closes []core.PricePoint) []core.PricePoint {
	out := make([]core.PricePoint, 0, len(closes))
	for _, c := range closes {
		if c.IsValid() && !math.IsInf(c.Close, 0) && !math.IsNaN(c.Close) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
