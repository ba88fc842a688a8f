package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used on every external surface.
const DateLayout = "2006-01-02"

// TradeRecord is one entry of the trade ledger.
type TradeRecord struct {
	ID         string          `json:"id"`
	Date       time.Time       `json:"date"`
	Symbol     string          `json:"symbol"`
	Quantity   int64           `json:"qty"`
	EntryPrice decimal.Decimal `json:"entry"`
	ExitPrice  decimal.Decimal `json:"exit"`
	Fees       decimal.Decimal `json:"fees"`
	Note       string          `json:"note,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// PnL returns (exit - entry) * qty - fees.
func (t TradeRecord) PnL() decimal.Decimal {
	qty := decimal.NewFromInt(t.Quantity)
	return t.ExitPrice.Sub(t.EntryPrice).Mul(qty).Sub(t.Fees)
}

// Capital returns |entry * qty|.
func (t TradeRecord) Capital() decimal.Decimal {
	return t.EntryPrice.Mul(decimal.NewFromInt(t.Quantity)).Abs()
}

// Return returns PnL / Capital, or 0 when no capital was committed.
func (t TradeRecord) Return() float64 {
	capital := t.Capital()
	if capital.IsZero() {
		return 0
	}
	return t.PnL().Div(capital).InexactFloat64()
}

// IsWin returns true if the trade was profitable
func (t TradeRecord) IsWin() bool {
	return t.PnL().IsPositive()
}

// IsLoss returns true if the trade lost money
func (t TradeRecord) IsLoss() bool {
	return t.PnL().IsNegative()
}

// NormalizeSymbol trims and uppercases an instrument identifier.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// TruncateDate drops the time of day, keeping the calendar date in UTC.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// PricePoint is one daily close of a price series.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// IsValid checks the point carries a usable price.
func (p PricePoint) IsValid() bool {
	return !p.Date.IsZero() && p.Close > 0
}
