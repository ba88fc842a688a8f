package ledger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/newthinker/pms/internal/core"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	input := `id,date,symbol,qty,entry,exit,fees,pnl,note
x1,2024-01-01,infy,10,100,110,0,100,first
x2,2024-01-02,TCS,5,50,40,,-50,
`
	records, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Empty(t, records[0].ID, "ids are assigned by the store")
	assert.Equal(t, "INFY", records[0].Symbol)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), records[0].Date)
	assert.Equal(t, "first", records[0].Note)
	assert.True(t, records[1].Fees.IsZero())
	assert.True(t, records[1].PnL().Equal(decimal.NewFromInt(-50)))
}

func TestReadCSV_IgnoresPnLColumn(t *testing.T) {
	input := "date,symbol,qty,entry,exit,fees,pnl\n2024-01-01,A,1,10,12,0,9999\n"
	records, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].PnL().Equal(decimal.NewFromInt(2)))
}

func TestReadCSV_OptionalColumns(t *testing.T) {
	input := "date,symbol,qty,entry,exit\n2024-01-01,A,1,10,12\n"
	records, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestReadCSV_Empty(t *testing.T) {
	records, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReadCSV_Rejects(t *testing.T) {
	tests := []struct {
		name string
		row  string
		line string
	}{
		{"bad qty", "2024-01-01,A,ten,10,12,0", "line 3"},
		{"negative qty", "2024-01-01,A,-1,10,12,0", "line 3"},
		{"bad price", "2024-01-01,A,1,abc,12,0", "line 3"},
		{"missing exit", "2024-01-01,A,1,10,,0", "line 3"},
		{"bad date", "01-01-2024,A,1,10,12,0", "line 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "date,symbol,qty,entry,exit,fees\n2024-01-01,OK,1,1,1,0\n" + tt.row + "\n"
			records, err := ReadCSV(strings.NewReader(input))
			require.Error(t, err)
			assert.Nil(t, records)
			assert.True(t, errors.Is(err, core.ErrInvalidRecord), "got %v", err)
			assert.Contains(t, err.Error(), tt.line)
		})
	}
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	in := []core.TradeRecord{
		{
			ID:         "01A",
			Date:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Symbol:     "INFY",
			Quantity:   10,
			EntryPrice: decimal.RequireFromString("100.25"),
			ExitPrice:  decimal.RequireFromString("110"),
			Fees:       decimal.RequireFromString("2.5"),
			Note:       "has, comma",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, in))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,date,symbol,qty,entry,exit,fees,pnl,note", lines[0])
	assert.Equal(t, `01A,2024-01-01,INFY,10,100.25,110,2.5,95,"has, comma"`, lines[1])

	out, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, in[0].Symbol, out[0].Symbol)
	assert.True(t, in[0].EntryPrice.Equal(out[0].EntryPrice))
	assert.Equal(t, in[0].Note, out[0].Note)
}
