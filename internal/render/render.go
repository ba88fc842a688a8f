// Package render turns reports into markdown, for files and for the terminal.
package render

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/newthinker/pms/internal/analytics"
	"github.com/newthinker/pms/internal/benchmark"
	"github.com/newthinker/pms/internal/core"
)

//go:embed templates/*.md
var templates embed.FS

// View is everything a rendered report can show.
type View struct {
	Title     string
	Currency  string
	Report    analytics.Report
	Benchmark *benchmark.Result
	Trades    []core.TradeRecord
	// Notice replaces the statistics, e.g. for an empty ledger.
	Notice string
	Review string
}

var reportTemplate = template.Must(template.New("report.md").
	Funcs(template.FuncMap{
		"pct":  func(v float64) string { return fmt.Sprintf("%.2f%%", v) },
		"frac": func(v float64) string { return fmt.Sprintf("%.2f%%", v*100) },
		"date": func(t time.Time) string { return t.Format(core.DateLayout) },
		// replaced per render with the view's currency
		"money": func(float64) string { return "" },
		"price": func(any) string { return "" },
	}).
	ParseFS(templates, "templates/report.md"))

// Markdown renders v as a markdown document.
func Markdown(v View) (string, error) {
	if v.Title == "" {
		v.Title = "Performance Report"
	}
	m := NewMoney(v.Currency)

	tmpl, err := reportTemplate.Clone()
	if err != nil {
		return "", err
	}
	tmpl.Funcs(template.FuncMap{
		"money": m.Float,
		"price": func(t core.TradeRecord) priceRow {
			return priceRow{
				Entry: m.Decimal(t.EntryPrice),
				Exit:  m.Decimal(t.ExitPrice),
				Fees:  m.Decimal(t.Fees),
				PnL:   m.Decimal(t.PnL()),
			}
		},
	})

	var b strings.Builder
	if err := tmpl.Execute(&b, v); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return b.String(), nil
}

type priceRow struct {
	Entry, Exit, Fees, PnL string
}

// Terminal styles markdown for an ANSI terminal.
func Terminal(md string, width int) (string, error) {
	if width <= 0 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	out, err := r.Render(md)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out) + "\n", nil
}
