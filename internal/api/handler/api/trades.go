// internal/api/handler/api/trades.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/newthinker/pms/internal/api/response"
	"github.com/newthinker/pms/internal/app"
	"github.com/newthinker/pms/internal/core"
	"github.com/newthinker/pms/internal/ledger"
)

const maxBodyBytes = 1 << 20

// TradesApp defines the ledger operations needed from app.App.
type TradesApp interface {
	ListTrades(ctx context.Context) ([]core.TradeRecord, error)
	GetTrade(ctx context.Context, id string) (*core.TradeRecord, error)
	AddTrade(ctx context.Context, in ledger.Input) (*core.TradeRecord, error)
	EditTrade(ctx context.Context, id string, patch ledger.Patch) (*core.TradeRecord, error)
	DeleteTrade(ctx context.Context, id string) error
}

// TradesHandler handles trade ledger API requests.
type TradesHandler struct {
	app TradesApp
}

// NewTradesHandler creates a new trades handler.
func NewTradesHandler(app TradesApp) *TradesHandler {
	return &TradesHandler{app: app}
}

// List returns the ledger, optionally filtered by symbol and date range.
func (h *TradesHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	symbol := core.NormalizeSymbol(q.Get("symbol"))
	from, err := parseDateParam(q.Get("from"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, core.WrapError(core.ErrBadRequest, err))
		return
	}
	to, err := parseDateParam(q.Get("to"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, core.WrapError(core.ErrBadRequest, err))
		return
	}

	records, err := h.app.ListTrades(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	trades := make([]app.Trade, 0, len(records))
	for _, rec := range records {
		if symbol != "" && rec.Symbol != symbol {
			continue
		}
		if !from.IsZero() && rec.Date.Before(from) {
			continue
		}
		if !to.IsZero() && rec.Date.After(to) {
			continue
		}
		trades = append(trades, app.NewTrade(rec))
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"trades": trades,
		"count":  len(trades),
	})
}

// Get returns a single trade.
func (h *TradesHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := h.app.GetTrade(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, app.NewTrade(*rec))
}

// Create adds a trade to the ledger.
func (h *TradesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in ledger.Input
	if err := decodeBody(w, r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	rec, err := h.app.AddTrade(r.Context(), in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, app.NewTrade(*rec))
}

// Update applies a partial edit to a trade.
func (h *TradesHandler) Update(w http.ResponseWriter, r *http.Request, id string) {
	var patch ledger.Patch
	if err := decodeBody(w, r, &patch); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	rec, err := h.app.EditTrade(r.Context(), id, patch)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, app.NewTrade(*rec))
}

// Delete removes a trade.
func (h *TradesHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.app.DeleteTrade(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{
		"id":      id,
		"deleted": true,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("request body is empty")
		}
		return core.WrapError(core.ErrBadRequest, err)
	}
	return nil
}

func parseDateParam(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := core.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q is not YYYY-MM-DD", s)
	}
	return t, nil
}
