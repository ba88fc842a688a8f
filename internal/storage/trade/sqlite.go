package trade

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/newthinker/pms/internal/core"
	"go.uber.org/zap"
)

// Prices are TEXT so decimals round-trip exactly.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS trades (
	id TEXT PRIMARY KEY,
	trade_date DATE NOT NULL,
	symbol TEXT NOT NULL,
	qty INTEGER NOT NULL CHECK (qty > 0),
	entry_price TEXT NOT NULL,
	exit_price TEXT NOT NULL,
	fees TEXT NOT NULL DEFAULT '0',
	pnl TEXT NOT NULL,
	note TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(trade_date);
`

// NewSQLiteStore opens (creating if needed) a SQLite ledger file.
func NewSQLiteStore(path string, logger *zap.Logger) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, core.WrapError(core.ErrStoreFailed, fmt.Errorf("open sqlite %s: %w", path, err))
	}
	// single writer
	db.SetMaxOpenConns(1)

	return newSQLStore(db, dialect{
		name:   "sqlite",
		schema: sqliteSchema,
		order:  "rowid",
	}, logger)
}
