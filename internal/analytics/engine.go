package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/newthinker/pms/internal/core"
	"github.com/shopspring/decimal"
)

// Compute reduces a ledger to its performance report. The input slice is not
// modified; records are stable-sorted by date so equal dates keep their order.
func Compute(records []core.TradeRecord, opts Options) Report {
	opts = opts.withDefaults()
	if len(records) == 0 {
		return Report{
			Empty:        true,
			ProfitFactor: Undefined,
			Sharpe:       Undefined,
			Sortino:      Undefined,
		}
	}

	sorted := SortByDate(records)

	var winners, losers, flat int
	totalPnL := decimal.Zero
	totalFees := decimal.Zero
	grossProfit := decimal.Zero
	grossLoss := decimal.Zero
	observations := make([]float64, 0, len(sorted))

	initial := decimal.NewFromFloat(opts.InitialCapital)
	if opts.InitialCapital <= 0 {
		initial = sorted[0].Capital()
	}

	equity := make([]EquityPoint, 0, len(sorted))
	for _, t := range sorted {
		pnl := t.PnL()
		totalPnL = totalPnL.Add(pnl)
		totalFees = totalFees.Add(t.Fees)

		switch {
		case pnl.IsPositive():
			winners++
			grossProfit = grossProfit.Add(pnl)
		case pnl.IsNegative():
			losers++
			grossLoss = grossLoss.Add(pnl)
		default:
			flat++
		}

		if opts.ReturnBasis == BasisReturn {
			observations = append(observations, t.Return())
		} else {
			observations = append(observations, pnl.InexactFloat64())
		}

		point := EquityPoint{
			Date:  t.Date,
			Value: initial.Add(totalPnL).InexactFloat64(),
		}
		if opts.AggregateByDate && len(equity) > 0 && sameDay(equity[len(equity)-1].Date, t.Date) {
			equity[len(equity)-1] = point
			continue
		}
		equity = append(equity, point)
	}

	drawdown, maxDD, maxDDAmount := calculateDrawdown(equity)

	profitFactor := Undefined
	if !grossLoss.IsZero() {
		profitFactor = Defined(grossProfit.Div(grossLoss.Abs()).InexactFloat64())
	}

	return Report{
		TradeCount:        len(sorted),
		Winners:           winners,
		Losers:            losers,
		Flat:              flat,
		TotalPnL:          totalPnL.InexactFloat64(),
		TotalFees:         totalFees.InexactFloat64(),
		GrossProfit:       grossProfit.InexactFloat64(),
		GrossLoss:         grossLoss.InexactFloat64(),
		ProfitFactor:      profitFactor,
		InitialCapital:    initial.InexactFloat64(),
		FinalEquity:       initial.Add(totalPnL).InexactFloat64(),
		HitRatio:          float64(winners) / float64(len(sorted)) * 100,
		MaxDrawdown:       maxDD,
		MaxDrawdownAmount: maxDDAmount,
		Sharpe:            calculateSharpe(observations, opts.AnnualizationFactor),
		Sortino:           calculateSortino(observations, opts.DownsideTarget, opts.AnnualizationFactor),
		Equity:            equity,
		Drawdown:          drawdown,
	}
}

// SortByDate returns a date-ascending copy of records, keeping input order for ties.
func SortByDate(records []core.TradeRecord) []core.TradeRecord {
	sorted := make([]core.TradeRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// calculateDrawdown walks the equity curve tracking its running peak. It returns
// the percentage drawdown series, its minimum, and the minimum absolute gap.
func calculateDrawdown(equity []EquityPoint) ([]DrawdownPoint, float64, float64) {
	series := make([]DrawdownPoint, len(equity))
	var maxDD, maxDDAmount float64
	peak := math.Inf(-1)

	for i, p := range equity {
		if p.Value > peak {
			peak = p.Value
		}

		var pct float64
		if peak > 0 {
			pct = (p.Value - peak) / peak * 100
		}
		series[i] = DrawdownPoint{Date: p.Date, Percent: pct}

		if pct < maxDD {
			maxDD = pct
		}
		if gap := p.Value - peak; gap < maxDDAmount {
			maxDDAmount = gap
		}
	}

	return series, maxDD, maxDDAmount
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
