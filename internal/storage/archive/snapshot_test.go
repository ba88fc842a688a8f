// internal/storage/archive/snapshot_test.go
package archive

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/newthinker/pms/internal/analytics"
	"github.com/newthinker/pms/internal/benchmark"
	"github.com/newthinker/pms/internal/core"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTrades() []core.TradeRecord {
	return []core.TradeRecord{
		{
			ID:         "01A",
			Date:       time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			Symbol:     "INFY",
			Quantity:   10,
			EntryPrice: decimal.RequireFromString("100"),
			ExitPrice:  decimal.RequireFromString("110"),
			Fees:       decimal.RequireFromString("1.5"),
		},
		{
			ID:         "01B",
			Date:       time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
			Symbol:     "TCS",
			Quantity:   5,
			EntryPrice: decimal.RequireFromString("200"),
			ExitPrice:  decimal.RequireFromString("190"),
			Fees:       decimal.Zero,
			Note:       "stopped out",
		},
	}
}

func TestArchiver_SaveListLoad(t *testing.T) {
	fs, err := NewLocalFS(t.TempDir())
	require.NoError(t, err)
	a := NewArchiver(fs, nil)
	ctx := context.Background()

	trades := sampleTrades()
	report := analytics.Compute(trades, analytics.DefaultOptions())
	takenAt := time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)

	id, err := a.Save(ctx, Snapshot{
		TakenAt:   takenAt,
		Report:    report,
		Benchmark: &benchmark.Result{Symbol: "^NSEI", Notice: benchmark.UnavailableNotice},
		Trades:    trades,
	})
	require.NoError(t, err)
	assert.Equal(t, "20240201T093000Z", id)

	ids, err := a.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{id}, ids)

	snap, err := a.Load(ctx, id)
	require.NoError(t, err)
	assert.True(t, snap.TakenAt.Equal(takenAt))
	assert.Equal(t, report.TradeCount, snap.Report.TradeCount)
	assert.InDelta(t, report.TotalPnL, snap.Report.TotalPnL, 1e-9)
	require.NotNil(t, snap.Benchmark)
	assert.Equal(t, benchmark.UnavailableNotice, snap.Benchmark.Notice)

	require.Len(t, snap.Trades, 2)
	assert.Equal(t, "TCS", snap.Trades[1].Symbol)
	assert.True(t, snap.Trades[0].PnL().Equal(decimal.RequireFromString("98.5")))
	assert.Equal(t, "stopped out", snap.Trades[1].Note)
}

func TestArchiver_ListOrdersSnapshots(t *testing.T) {
	fs, _ := NewLocalFS(t.TempDir())
	a := NewArchiver(fs, nil)
	ctx := context.Background()

	later := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	earlier := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, ts := range []time.Time{later, earlier} {
		_, err := a.Save(ctx, Snapshot{TakenAt: ts})
		require.NoError(t, err)
	}

	ids, err := a.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"20240101T000000Z", "20240301T000000Z"}, ids)
}

func TestArchiver_SaveRefusesSameSecond(t *testing.T) {
	fs, _ := NewLocalFS(t.TempDir())
	a := NewArchiver(fs, nil)
	ctx := context.Background()
	first := time.Date(2024, 3, 1, 10, 0, 0, 100, time.UTC)

	id, err := a.Save(ctx, Snapshot{TakenAt: first, Trades: sampleTrades()})
	require.NoError(t, err)

	_, err = a.Save(ctx, Snapshot{TakenAt: first.Add(500 * time.Millisecond)})
	assert.True(t, errors.Is(err, core.ErrArchiveFailed))

	trades, err := a.LoadTrades(ctx, id)
	require.NoError(t, err)
	assert.Len(t, trades, len(sampleTrades()))
}

func TestArchiver_EmptyStore(t *testing.T) {
	fs, _ := NewLocalFS(t.TempDir())
	a := NewArchiver(fs, nil)

	ids, err := a.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestArchiver_InvalidID(t *testing.T) {
	fs, _ := NewLocalFS(t.TempDir())
	a := NewArchiver(fs, nil)

	_, err := a.LoadTrades(context.Background(), "../../etc")
	assert.True(t, errors.Is(err, core.ErrBadRequest))
}

func TestArchiver_MissingSnapshot(t *testing.T) {
	fs, _ := NewLocalFS(t.TempDir())
	a := NewArchiver(fs, nil)

	_, err := a.Load(context.Background(), "20240101T000000Z")
	assert.True(t, errors.Is(err, core.ErrArchiveFailed))
}
