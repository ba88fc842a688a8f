package benchmark

import (
	"errors"
	"testing"
	"time"

	"github.com/newthinker/pms/internal/analytics"
	"github.com/newthinker/pms/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return day0.AddDate(0, 0, n)
}

func eq(d int, v float64) analytics.EquityPoint {
	return analytics.EquityPoint{Date: day(d), Value: v}
}

func px(d int, c float64) core.PricePoint {
	return core.PricePoint{Date: day(d), Close: c}
}

func TestNormalize_BaseIsOne(t *testing.T) {
	cmp, err := Normalize(
		[]analytics.EquityPoint{eq(1, 100), eq(2, 110)},
		[]core.PricePoint{px(1, 100), px(2, 105)},
	)
	require.NoError(t, err)
	require.Len(t, cmp.Points, 2)

	assert.Equal(t, 1.0, cmp.Points[0].Portfolio)
	assert.Equal(t, 1.0, cmp.Points[0].Benchmark)
	assert.InDelta(t, 1.10, cmp.Points[1].Portfolio, 1e-12)
	assert.InDelta(t, 1.05, cmp.Points[1].Benchmark, 1e-12)
	assert.InDelta(t, 0.10, cmp.PortfolioReturn, 1e-12)
	assert.InDelta(t, 0.05, cmp.BenchmarkReturn, 1e-12)
	assert.InDelta(t, 0.05, cmp.Excess, 1e-12)
}

func TestNormalize_ForwardFill(t *testing.T) {
	cmp, err := Normalize(
		[]analytics.EquityPoint{eq(1, 1000), eq(4, 1200)},
		[]core.PricePoint{px(1, 50), px(2, 51), px(3, 52), px(4, 53), px(5, 54)},
	)
	require.NoError(t, err)
	require.Len(t, cmp.Points, 5)

	want := []float64{1.0, 1.0, 1.0, 1.2, 1.2}
	for i, p := range cmp.Points {
		assert.InDelta(t, want[i], p.Portfolio, 1e-12, "point %d", i)
	}
	assert.InDelta(t, 54.0/50.0, cmp.Points[4].Benchmark, 1e-12)
}

func TestNormalize_DropsDatesBeforeFirstTrade(t *testing.T) {
	cmp, err := Normalize(
		[]analytics.EquityPoint{eq(3, 500), eq(5, 450)},
		[]core.PricePoint{px(1, 10), px(2, 11), px(3, 12), px(4, 13), px(5, 14)},
	)
	require.NoError(t, err)
	require.Len(t, cmp.Points, 3)

	assert.Equal(t, day(3), cmp.Points[0].Date)
	assert.Equal(t, 1.0, cmp.Points[0].Portfolio)
	// benchmark keeps its own first observation as base
	assert.InDelta(t, 12.0/10.0, cmp.Points[0].Benchmark, 1e-12)
	assert.InDelta(t, 0.9, cmp.Points[2].Portfolio, 1e-12)
}

func TestNormalize_NoBackfillOrInterpolation(t *testing.T) {
	cmp, err := Normalize(
		[]analytics.EquityPoint{eq(2, 100), eq(6, 200)},
		[]core.PricePoint{px(1, 1), px(3, 1), px(4, 1), px(5, 1), px(6, 1)},
	)
	require.NoError(t, err)

	for _, p := range cmp.Points {
		if p.Date.Before(day(6)) {
			assert.Equal(t, 1.0, p.Portfolio, "date %s", p.Date)
		}
	}
	assert.Equal(t, day(3), cmp.Points[0].Date)
}

func TestNormalize_SameDayUsesLastValue(t *testing.T) {
	cmp, err := Normalize(
		[]analytics.EquityPoint{eq(1, 100), eq(1, 90), eq(2, 120)},
		[]core.PricePoint{px(1, 10), px(2, 10)},
	)
	require.NoError(t, err)
	require.Len(t, cmp.Points, 2)

	// base stays on the first trade, the day shows its last value
	assert.InDelta(t, 0.9, cmp.Points[0].Portfolio, 1e-12)
	assert.InDelta(t, 1.2, cmp.Points[1].Portfolio, 1e-12)
	assert.InDelta(t, 0.2, cmp.PortfolioReturn, 1e-12)
}

func TestNormalize_SameDayTradesMatchEquityCurve(t *testing.T) {
	// two trades closed on the first date: +100 then -50 on 1000 capital
	cmp, err := Normalize(
		[]analytics.EquityPoint{eq(1, 1100), eq(1, 1050)},
		[]core.PricePoint{px(1, 10), px(2, 11)},
	)
	require.NoError(t, err)
	require.Len(t, cmp.Points, 2)

	assert.InDelta(t, 1050.0/1100.0, cmp.Points[0].Portfolio, 1e-12)
	assert.InDelta(t, 1050.0/1100.0, cmp.Points[1].Portfolio, 1e-12)
}

func TestNormalize_UnsortedBenchmark(t *testing.T) {
	cmp, err := Normalize(
		[]analytics.EquityPoint{eq(1, 100)},
		[]core.PricePoint{px(2, 20), px(1, 10), px(3, 0)},
	)
	require.NoError(t, err)
	require.Len(t, cmp.Points, 2)
	assert.Equal(t, 2.0, cmp.Points[1].Benchmark)
}

func TestNormalize_Unavailable(t *testing.T) {
	tests := []struct {
		name   string
		equity []analytics.EquityPoint
		closes []core.PricePoint
	}{
		{"empty benchmark", []analytics.EquityPoint{eq(1, 100)}, nil},
		{"empty equity", nil, []core.PricePoint{px(1, 10)}},
		{"zero base", []analytics.EquityPoint{eq(1, 0), eq(2, 10)}, []core.PricePoint{px(1, 10)}},
		{"no overlap", []analytics.EquityPoint{eq(10, 100)}, []core.PricePoint{px(1, 10), px(2, 11)}},
		{"only invalid closes", []analytics.EquityPoint{eq(1, 100)}, []core.PricePoint{px(1, 0), px(2, -3)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmp, err := Normalize(tt.equity, tt.closes)
			assert.Nil(t, cmp)
			assert.True(t, errors.Is(err, core.ErrDataUnavailable), "got %v", err)
		})
	}
}
