package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Business metrics
	tradesMutated     *prometheus.CounterVec
	reportsComputed   prometheus.Counter
	reportDuration    prometheus.Histogram
	benchmarkFetches  *prometheus.CounterVec
	benchmarkDuration prometheus.Histogram
	ledgerSize        prometheus.Gauge
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	// Business metrics
	r.tradesMutated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pms_trades_mutated_total",
			Help: "Total number of ledger mutations",
		},
		[]string{"op"},
	)
	r.reportsComputed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pms_reports_computed_total",
			Help: "Total number of performance reports computed",
		},
	)
	r.reportDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pms_report_duration_seconds",
			Help:    "Performance report computation time in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		},
	)
	r.benchmarkFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pms_benchmark_fetches_total",
			Help: "Total number of benchmark series fetches",
		},
		[]string{"status"},
	)
	r.benchmarkDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pms_benchmark_fetch_duration_seconds",
			Help:    "Benchmark fetch duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)
	r.ledgerSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pms_ledger_trades",
			Help: "Number of trades in the ledger",
		},
	)

	reg.MustRegister(r.tradesMutated)
	reg.MustRegister(r.reportsComputed)
	reg.MustRegister(r.reportDuration)
	reg.MustRegister(r.benchmarkFetches)
	reg.MustRegister(r.benchmarkDuration)
	reg.MustRegister(r.ledgerSize)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// RecordTradeMutation counts an insert, update, delete or import.
func (r *Registry) RecordTradeMutation(op string) {
	r.tradesMutated.WithLabelValues(op).Inc()
}

// RecordReport records a report computation.
func (r *Registry) RecordReport(duration float64) {
	r.reportsComputed.Inc()
	r.reportDuration.Observe(duration)
}

// RecordBenchmarkFetch records a benchmark fetch outcome.
func (r *Registry) RecordBenchmarkFetch(status string, duration float64) {
	r.benchmarkFetches.WithLabelValues(status).Inc()
	r.benchmarkDuration.Observe(duration)
}

// SetLedgerSize sets the number of trades in the ledger.
func (r *Registry) SetLedgerSize(size int) {
	r.ledgerSize.Set(float64(size))
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
