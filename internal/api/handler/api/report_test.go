package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/newthinker/pms/internal/api/response"
)

func TestReportHandler_Empty(t *testing.T) {
	h := NewReportHandler(newApp())

	w := httptest.NewRecorder()
	h.Report(w, httptest.NewRequest("GET", "/api/v1/report", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp response.SuccessResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	data := resp.Data.(map[string]any)
	if data["empty"] != true {
		t.Errorf("expected empty report, got %v", data["empty"])
	}
	if data["notice"] != "No trades yet" {
		t.Errorf("expected notice, got %v", data["notice"])
	}
	if data["sharpe"] != nil {
		t.Errorf("expected null sharpe, got %v", data["sharpe"])
	}
}

func TestReportHandler_Metrics(t *testing.T) {
	a := newApp()
	trades := NewTradesHandler(a)
	createTrade(t, trades, `{"date":"2024-01-01","symbol":"INFY","qty":10,"entry":100,"exit":110}`)
	createTrade(t, trades, `{"date":"2024-01-02","symbol":"TCS","qty":5,"entry":50,"exit":40}`)

	h := NewReportHandler(a)
	w := httptest.NewRecorder()
	h.Report(w, httptest.NewRequest("GET", "/api/v1/report", nil))

	var resp response.SuccessResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	data := resp.Data.(map[string]any)

	if data["total_pnl"] != 50.0 {
		t.Errorf("expected total pnl 50, got %v", data["total_pnl"])
	}
	if data["hit_ratio"] != 50.0 {
		t.Errorf("expected hit ratio 50, got %v", data["hit_ratio"])
	}
	if _, ok := data["notice"]; ok {
		t.Error("expected no notice for a non-empty ledger")
	}
	equity := data["equity"].([]any)
	if len(equity) != 2 {
		t.Errorf("expected 2 equity points, got %d", len(equity))
	}
}

func TestReportHandler_Dashboard(t *testing.T) {
	a := newApp()
	createTrade(t, NewTradesHandler(a), `{"date":"2024-01-01","symbol":"INFY","qty":10,"entry":100,"exit":110}`)

	h := NewReportHandler(a)
	w := httptest.NewRecorder()
	h.Dashboard(w, httptest.NewRequest("GET", "/api/v1/dashboard", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp response.SuccessResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	data := resp.Data.(map[string]any)
	if len(data["trades"].([]any)) != 1 {
		t.Errorf("expected 1 trade, got %v", data["trades"])
	}
	if _, ok := data["benchmark"]; ok {
		t.Error("expected no benchmark without a comparer")
	}
}
