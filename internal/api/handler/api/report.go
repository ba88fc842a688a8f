// internal/api/handler/api/report.go
package api

import (
	"context"
	"net/http"

	"github.com/newthinker/pms/internal/analytics"
	"github.com/newthinker/pms/internal/api/response"
	"github.com/newthinker/pms/internal/app"
)

// ReportApp defines the reporting operations needed from app.App.
type ReportApp interface {
	Report(ctx context.Context) (*analytics.Report, error)
	Dashboard(ctx context.Context) (*app.Dashboard, error)
}

// ReportHandler serves performance reports.
type ReportHandler struct {
	app ReportApp
}

// NewReportHandler creates a new report handler.
func NewReportHandler(app ReportApp) *ReportHandler {
	return &ReportHandler{app: app}
}

type reportResponse struct {
	*analytics.Report
	Notice string `json:"notice,omitempty"`
}

// Report returns the metrics and series. It never calls market data.
func (h *ReportHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.app.Report(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	resp := reportResponse{Report: report}
	if report.Empty {
		resp.Notice = app.EmptyNotice
	}
	response.JSON(w, http.StatusOK, resp)
}

// Dashboard returns trades, report and benchmark comparison together.
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.app.Dashboard(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, dash)
}
