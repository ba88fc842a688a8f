package ledger

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/newthinker/pms/internal/core"
	"github.com/shopspring/decimal"
)

// csvRow is one ledger line. pnl is written for readers of the file and
// ignored on import.
type csvRow struct {
	ID       string `csv:"id"`
	Date     string `csv:"date"`
	Symbol   string `csv:"symbol"`
	Quantity string `csv:"qty"`
	Entry    string `csv:"entry"`
	Exit     string `csv:"exit"`
	Fees     string `csv:"fees"`
	PnL      string `csv:"pnl"`
	Note     string `csv:"note"`
}

// ReadCSV parses and validates a ledger file. Either every row is valid or an
// error naming the first bad line is returned. IDs in the file are not kept.
func ReadCSV(r io.Reader) ([]core.TradeRecord, error) {
	var rows []csvRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return []core.TradeRecord{}, nil
		}
		return nil, core.WrapError(core.ErrInvalidRecord, fmt.Errorf("parse csv: %w", err))
	}

	records := make([]core.TradeRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := row.record()
		if err != nil {
			// header is line 1
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (row csvRow) record() (core.TradeRecord, error) {
	in := Input{
		Date:   row.Date,
		Symbol: row.Symbol,
		Note:   row.Note,
	}

	qty := strings.TrimSpace(row.Quantity)
	if qty != "" {
		n, err := strconv.ParseInt(qty, 10, 64)
		if err != nil {
			return core.TradeRecord{}, invalid("qty", "%q is not a whole number", row.Quantity)
		}
		in.Quantity = n
	}

	var err error
	if in.Entry, err = parseDecimal("entry", row.Entry); err != nil {
		return core.TradeRecord{}, err
	}
	if in.Exit, err = parseDecimal("exit", row.Exit); err != nil {
		return core.TradeRecord{}, err
	}
	if in.Fees, err = parseDecimal("fees", row.Fees); err != nil {
		return core.TradeRecord{}, err
	}
	return in.Record()
}

func parseDecimal(field, s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, invalid(field, "%q is not a number", s)
	}
	return &d, nil
}

// WriteCSV writes records with a header row.
func WriteCSV(w io.Writer, records []core.TradeRecord) error {
	rows := make([]csvRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, csvRow{
			ID:       rec.ID,
			Date:     rec.Date.Format(core.DateLayout),
			Symbol:   rec.Symbol,
			Quantity: strconv.FormatInt(rec.Quantity, 10),
			Entry:    rec.EntryPrice.String(),
			Exit:     rec.ExitPrice.String(),
			Fees:     rec.Fees.String(),
			PnL:      rec.PnL().String(),
			Note:     rec.Note,
		})
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
