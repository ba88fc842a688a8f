// Package ledger is the ingestion boundary of the trade ledger: it turns raw
// user input into validated, normalized records and moves records in and out
// of CSV.
package ledger

import (
	"fmt"
	"strings"

	"github.com/newthinker/pms/internal/core"
	"github.com/shopspring/decimal"
)

// FieldError names the field a record was rejected for.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

func invalid(field, format string, args ...any) error {
	return core.WrapError(core.ErrInvalidRecord, &FieldError{Field: field, Reason: fmt.Sprintf(format, args...)})
}

// Input is a new trade as entered by a user.
type Input struct {
	Date     string           `json:"date"`
	Symbol   string           `json:"symbol"`
	Quantity int64            `json:"qty"`
	Entry    *decimal.Decimal `json:"entry"`
	Exit     *decimal.Decimal `json:"exit"`
	Fees     *decimal.Decimal `json:"fees,omitempty"`
	Note     string           `json:"note,omitempty"`
}

// Record validates the input and returns the normalized record.
func (in Input) Record() (core.TradeRecord, error) {
	if strings.TrimSpace(in.Date) == "" {
		return core.TradeRecord{}, invalid("date", "is required")
	}
	date, err := core.ParseDate(in.Date)
	if err != nil {
		return core.TradeRecord{}, invalid("date", "%q is not YYYY-MM-DD", in.Date)
	}
	if in.Entry == nil {
		return core.TradeRecord{}, invalid("entry", "is required")
	}
	if in.Exit == nil {
		return core.TradeRecord{}, invalid("exit", "is required")
	}

	rec := core.TradeRecord{
		Date:       date,
		Symbol:     in.Symbol,
		Quantity:   in.Quantity,
		EntryPrice: *in.Entry,
		ExitPrice:  *in.Exit,
		Note:       in.Note,
	}
	if in.Fees != nil {
		rec.Fees = *in.Fees
	}
	return Normalize(rec)
}

// Patch is a partial edit of an existing trade. Nil fields are left unchanged.
type Patch struct {
	Date     *string          `json:"date,omitempty"`
	Symbol   *string          `json:"symbol,omitempty"`
	Quantity *int64           `json:"qty,omitempty"`
	Entry    *decimal.Decimal `json:"entry,omitempty"`
	Exit     *decimal.Decimal `json:"exit,omitempty"`
	Fees     *decimal.Decimal `json:"fees,omitempty"`
	Note     *string          `json:"note,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Date == nil && p.Symbol == nil && p.Quantity == nil &&
		p.Entry == nil && p.Exit == nil && p.Fees == nil && p.Note == nil
}

// Apply returns rec with the patch applied and validated. rec is not modified.
func (p Patch) Apply(rec core.TradeRecord) (core.TradeRecord, error) {
	if p.Date != nil {
		date, err := core.ParseDate(*p.Date)
		if err != nil {
			return rec, invalid("date", "%q is not YYYY-MM-DD", *p.Date)
		}
		rec.Date = date
	}
	if p.Symbol != nil {
		rec.Symbol = *p.Symbol
	}
	if p.Quantity != nil {
		rec.Quantity = *p.Quantity
	}
	if p.Entry != nil {
		rec.EntryPrice = *p.Entry
	}
	if p.Exit != nil {
		rec.ExitPrice = *p.Exit
	}
	if p.Fees != nil {
		rec.Fees = *p.Fees
	}
	if p.Note != nil {
		rec.Note = *p.Note
	}
	return Normalize(rec)
}

// Normalize canonicalizes a record and checks every field invariant.
func Normalize(rec core.TradeRecord) (core.TradeRecord, error) {
	rec.Symbol = core.NormalizeSymbol(rec.Symbol)
	rec.Note = strings.TrimSpace(rec.Note)
	if !rec.Date.IsZero() {
		rec.Date = core.TruncateDate(rec.Date)
	}
	return rec, Validate(rec)
}

// Validate checks a record without modifying it.
func Validate(rec core.TradeRecord) error {
	switch {
	case rec.Date.IsZero():
		return invalid("date", "is required")
	case rec.Symbol == "":
		return invalid("symbol", "is required")
	case rec.Quantity <= 0:
		return invalid("qty", "must be positive, got %d", rec.Quantity)
	case rec.EntryPrice.IsNegative():
		return invalid("entry", "must not be negative, got %s", rec.EntryPrice)
	case rec.ExitPrice.IsNegative():
		return invalid("exit", "must not be negative, got %s", rec.ExitPrice)
	case rec.Fees.IsNegative():
		return invalid("fees", "must not be negative, got %s", rec.Fees)
	}
	return nil
}
