package benchmark

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/newthinker/pms/internal/analytics"
	"github.com/newthinker/pms/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	data  []core.PricePoint
	err   error
	block bool

	calls       int
	symbol      string
	start, end  time.Time
	hadDeadline bool
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) FetchDailyClose(ctx context.Context, symbol string, start, end time.Time) ([]core.PricePoint, error) {
	m.calls++
	m.symbol = symbol
	m.start, m.end = start, end
	_, m.hadDeadline = ctx.Deadline()
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.data, m.err
}

func TestComparer_Compare(t *testing.T) {
	provider := &mockProvider{data: []core.PricePoint{px(1, 100), px(2, 102), px(3, 101)}}
	var statuses []string
	c := NewComparer(provider, Config{}, nil)
	c.SetObserver(func(status string, d time.Duration) { statuses = append(statuses, status) })

	res := c.Compare(context.Background(), []analytics.EquityPoint{eq(1, 1100), eq(3, 1050)})

	require.True(t, res.Available)
	assert.Equal(t, DefaultSymbol, res.Symbol)
	assert.Empty(t, res.Notice)
	require.NotNil(t, res.Comparison)
	assert.Equal(t, DefaultSymbol, res.Comparison.Symbol)
	assert.Len(t, res.Comparison.Points, 3)

	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, "^NSEI", provider.symbol)
	assert.Equal(t, day(1), provider.start)
	assert.Equal(t, day(4), provider.end, "end is exclusive, one day past the last trade")
	assert.True(t, provider.hadDeadline)
	assert.Equal(t, []string{"ok"}, statuses)
}

func TestComparer_ProviderError(t *testing.T) {
	provider := &mockProvider{err: errors.New("rate limited")}
	c := NewComparer(provider, Config{Symbol: "^GSPC"}, nil)

	res := c.Compare(context.Background(), []analytics.EquityPoint{eq(1, 100)})

	assert.False(t, res.Available)
	assert.Equal(t, "^GSPC", res.Symbol)
	assert.Equal(t, UnavailableNotice, res.Notice)
	assert.Contains(t, res.Reason, "rate limited")
	assert.Nil(t, res.Comparison)
	assert.Equal(t, 1, provider.calls, "single attempt, no retries")
}

func TestComparer_EmptySeries(t *testing.T) {
	c := NewComparer(&mockProvider{}, Config{}, nil)

	res := c.Compare(context.Background(), []analytics.EquityPoint{eq(1, 100)})

	assert.False(t, res.Available)
	assert.Equal(t, UnavailableNotice, res.Notice)
}

func TestComparer_Timeout(t *testing.T) {
	provider := &mockProvider{block: true}
	c := NewComparer(provider, Config{Timeout: 20 * time.Millisecond}, nil)

	began := time.Now()
	res := c.Compare(context.Background(), []analytics.EquityPoint{eq(1, 100)})

	assert.False(t, res.Available)
	assert.Less(t, time.Since(began), 2*time.Second)
}

func TestComparer_NoEquity(t *testing.T) {
	provider := &mockProvider{}
	c := NewComparer(provider, Config{}, nil)

	res := c.Compare(context.Background(), nil)

	assert.False(t, res.Available)
	assert.Equal(t, 0, provider.calls)
}

func TestComparer_NilProvider(t *testing.T) {
	c := NewComparer(nil, Config{}, nil)
	res := c.Compare(context.Background(), []analytics.EquityPoint{eq(1, 100)})
	assert.False(t, res.Available)
}
