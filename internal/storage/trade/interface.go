// internal/storage/trade/interface.go
package trade

import (
	"context"
	"fmt"

	"github.com/newthinker/pms/internal/core"
)

// Store defines the interface for trade ledger persistence.
type Store interface {
	// List returns every record in insertion order.
	List(ctx context.Context) ([]core.TradeRecord, error)

	// Get retrieves a record by its ID.
	Get(ctx context.Context, id string) (*core.TradeRecord, error)

	// Insert persists a new record, assigns its ID and returns the stored copy.
	Insert(ctx context.Context, rec core.TradeRecord) (*core.TradeRecord, error)

	// InsertAll persists every record or none of them.
	InsertAll(ctx context.Context, recs []core.TradeRecord) ([]core.TradeRecord, error)

	// Update replaces the fields of an existing record, keeping its ID and CreatedAt.
	Update(ctx context.Context, rec core.TradeRecord) (*core.TradeRecord, error)

	// Delete removes a record by its ID.
	Delete(ctx context.Context, id string) error

	// Close releases the backend.
	Close() error
}

func notFound(id string) error {
	return core.WrapError(core.ErrTradeNotFound, fmt.Errorf("id %q", id))
}
