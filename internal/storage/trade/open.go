package trade

import (
	"fmt"

	"github.com/newthinker/pms/internal/config"
	"github.com/newthinker/pms/internal/core"
	"go.uber.org/zap"
)

// Open builds the store selected by configuration.
func Open(cfg config.StoreConfig, logger *zap.Logger) (Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		if cfg.Path == "" {
			return nil, core.WrapError(core.ErrConfigMissing, fmt.Errorf("store.path is required for sqlite"))
		}
		return NewSQLiteStore(cfg.Path, logger)
	case "postgres":
		if cfg.DSN == "" {
			return nil, core.WrapError(core.ErrConfigMissing, fmt.Errorf("store.dsn is required for postgres"))
		}
		return NewPostgresStore(cfg.DSN, logger)
	default:
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown store driver %q", cfg.Driver))
	}
}
