package marketdata

import (
	"context"
	"time"

	"github.com/newthinker/pms/internal/core"
)

// Provider supplies daily close prices for a symbol.
type Provider interface {
	Name() string

	// FetchDailyClose returns closes for trading days in [start, end).
	// An empty series with a nil error means the provider had no data.
	FetchDailyClose(ctx context.Context, symbol string, start, end time.Time) ([]core.PricePoint, error)
}
