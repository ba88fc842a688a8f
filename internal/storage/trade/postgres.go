package trade

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/newthinker/pms/internal/core"
	"go.uber.org/zap"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS trades (
	seq BIGSERIAL,
	id TEXT PRIMARY KEY,
	trade_date DATE NOT NULL,
	symbol TEXT NOT NULL,
	qty BIGINT NOT NULL CHECK (qty > 0),
	entry_price NUMERIC NOT NULL,
	exit_price NUMERIC NOT NULL,
	fees NUMERIC NOT NULL DEFAULT 0,
	pnl NUMERIC NOT NULL,
	note TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(trade_date);
`

// NewPostgresStore connects to a hosted Postgres ledger.
func NewPostgresStore(dsn string, logger *zap.Logger) (*SQLStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, core.WrapError(core.ErrStoreFailed, fmt.Errorf("open postgres: %w", err))
	}

	return newSQLStore(db, postgresDialect(), logger)
}

func postgresDialect() dialect {
	return dialect{
		name:     "postgres",
		schema:   postgresSchema,
		order:    "seq",
		numbered: true,
	}
}
