package render

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money formats amounts in a single currency.
type Money struct {
	currency *money.Currency
}

// NewMoney returns a formatter for the ISO 4217 code. Unknown codes fall back to INR.
func NewMoney(code string) Money {
	cur := money.GetCurrency(code)
	if cur == nil {
		cur = money.GetCurrency(money.INR)
	}
	return Money{currency: cur}
}

// Code returns the currency code in use.
func (m Money) Code() string {
	return m.currency.Code
}

// Decimal renders an exact amount, rounded to the currency's minor unit.
func (m Money) Decimal(amount decimal.Decimal) string {
	minor := amount.Shift(int32(m.currency.Fraction)).Round(0).IntPart()
	return m.currency.Formatter().Format(minor)
}

// Float renders a computed amount.
func (m Money) Float(amount float64) string {
	return m.Decimal(decimal.NewFromFloat(amount))
}
