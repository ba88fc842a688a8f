package trade

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/newthinker/pms/internal/core"
	"go.uber.org/zap"
)

const selectColumns = `id, trade_date, symbol, qty, entry_price, exit_price, fees, note, created_at, updated_at`

// dialect captures what differs between the SQL backends.
type dialect struct {
	name     string
	schema   string
	order    string
	numbered bool
}

// SQLStore is a trade store over database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	logger  *zap.Logger
}

func newSQLStore(db *sql.DB, d dialect, logger *zap.Logger) (*SQLStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := db.Exec(d.schema); err != nil {
		db.Close()
		return nil, core.WrapError(core.ErrStoreFailed, fmt.Errorf("apply %s schema: %w", d.name, err))
	}
	return &SQLStore{db: db, dialect: d, logger: logger.With(zap.String("store", d.name))}, nil
}

// rebind rewrites ? placeholders to $1..$n for drivers that need it.
func (s *SQLStore) rebind(query string) string {
	if !s.dialect.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// List returns all records in insertion order.
func (s *SQLStore) List(ctx context.Context) ([]core.TradeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM trades ORDER BY `+s.dialect.order)
	if err != nil {
		return nil, core.WrapError(core.ErrStoreFailed, fmt.Errorf("list trades: %w", err))
	}
	defer rows.Close()

	records := make([]core.TradeRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, core.WrapError(core.ErrStoreFailed, fmt.Errorf("scan trade: %w", err))
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, core.WrapError(core.ErrStoreFailed, fmt.Errorf("list trades: %w", err))
	}
	return records, nil
}

// Get retrieves a record by ID.
func (s *SQLStore) Get(ctx context.Context, id string) (*core.TradeRecord, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+selectColumns+` FROM trades WHERE id = ?`), id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, core.WrapError(core.ErrStoreFailed, fmt.Errorf("get trade %s: %w", id, err))
	}
	return &rec, nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Insert persists a record with a fresh ULID. The pnl column is derived here.
func (s *SQLStore) Insert(ctx context.Context, rec core.TradeRecord) (*core.TradeRecord, error) {
	saved, err := s.insert(ctx, s.db, rec)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("trade inserted", zap.String("id", saved.ID), zap.String("symbol", saved.Symbol))
	return saved, nil
}

// InsertAll inserts every record in one transaction.
func (s *SQLStore) InsertAll(ctx context.Context, recs []core.TradeRecord) ([]core.TradeRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, core.WrapError(core.ErrStoreFailed, fmt.Errorf("begin import: %w", err))
	}
	defer tx.Rollback()

	saved := make([]core.TradeRecord, 0, len(recs))
	for i, rec := range recs {
		out, err := s.insert(ctx, tx, rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		saved = append(saved, *out)
	}
	if err := tx.Commit(); err != nil {
		return nil, core.WrapError(core.ErrStoreFailed, fmt.Errorf("commit import: %w", err))
	}

	s.logger.Debug("trades inserted", zap.Int("count", len(saved)))
	return saved, nil
}

func (s *SQLStore) insert(ctx context.Context, ex execer, rec core.TradeRecord) (*core.TradeRecord, error) {
	rec.ID = NewID()
	rec.CreatedAt = now()
	rec.UpdatedAt = rec.CreatedAt

	_, err := ex.ExecContext(ctx, s.rebind(`
		INSERT INTO trades
		(id, trade_date, symbol, qty, entry_price, exit_price, fees, pnl, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		rec.ID, core.TruncateDate(rec.Date), rec.Symbol, rec.Quantity,
		rec.EntryPrice, rec.ExitPrice, rec.Fees, rec.PnL(), rec.Note,
		rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return nil, core.WrapError(core.ErrStoreFailed, fmt.Errorf("insert trade: %w", err))
	}
	return &rec, nil
}

// Update rewrites a record's fields and recomputes its pnl.
func (s *SQLStore) Update(ctx context.Context, rec core.TradeRecord) (*core.TradeRecord, error) {
	res, err := s.db.ExecContext(ctx, s.rebind(`
		UPDATE trades
		SET trade_date = ?, symbol = ?, qty = ?, entry_price = ?, exit_price = ?,
		    fees = ?, pnl = ?, note = ?, updated_at = ?
		WHERE id = ?`),
		core.TruncateDate(rec.Date), rec.Symbol, rec.Quantity,
		rec.EntryPrice, rec.ExitPrice, rec.Fees, rec.PnL(), rec.Note,
		now(), rec.ID,
	)
	if err != nil {
		return nil, core.WrapError(core.ErrStoreFailed, fmt.Errorf("update trade %s: %w", rec.ID, err))
	}
	if err := checkAffected(res, rec.ID); err != nil {
		return nil, err
	}
	return s.Get(ctx, rec.ID)
}

// Delete removes a record by ID.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM trades WHERE id = ?`), id)
	if err != nil {
		return core.WrapError(core.ErrStoreFailed, fmt.Errorf("delete trade %s: %w", id, err))
	}
	return checkAffected(res, id)
}

// Close closes the database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func checkAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return core.WrapError(core.ErrStoreFailed, err)
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (core.TradeRecord, error) {
	var (
		rec  core.TradeRecord
		date time.Time
	)
	err := sc.Scan(
		&rec.ID, &date, &rec.Symbol, &rec.Quantity,
		&rec.EntryPrice, &rec.ExitPrice, &rec.Fees, &rec.Note,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return rec, err
	}
	rec.Date = core.TruncateDate(date)
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return rec, nil
}
