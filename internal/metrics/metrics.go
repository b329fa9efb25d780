// Package metrics exposes Prometheus instruments for the ledger processes.
//
// Every Metrics value owns its registry, so several servers can coexist in
// one process (tests do). All methods are safe on a nil *Metrics.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ledger/internal/core"
)

// Outcome labels.
const (
	StatusOK          = "ok"
	StatusRejected    = "rejected"
	StatusNotFound    = "not_found"
	StatusEmpty       = "empty"
	StatusPersistence = "persistence_error"
	StatusError       = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	mutations    *prometheus.CounterVec
	transactions prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	reports      *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		mutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_mutations_total",
				Help: "Total number of ledger mutations by operation and outcome",
			},
			[]string{"operation", "status"},
		),
		transactions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "ledger_transactions",
				Help: "Number of transactions currently held in the ledger",
			},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_http_requests_total",
				Help: "Total number of HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "code"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		reports: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_reports_total",
				Help: "Total number of rendered or exported month reports by kind and outcome",
			},
			[]string{"kind", "status"},
		),
	}
}

// Status maps an operation error to its outcome label.
func Status(err error) string {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, core.ErrValidation):
		return StatusRejected
	case errors.Is(err, core.ErrNotFound):
		return StatusNotFound
	case errors.Is(err, core.ErrEmptyExportSet):
		return StatusEmpty
	case errors.Is(err, core.ErrPersistence):
		return StatusPersistence
	default:
		return StatusError
	}
}

// ObserveMutation counts one create, update or delete.
func (m *Metrics) ObserveMutation(operation string, err error) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(operation, Status(err)).Inc()
}

// SetTransactions records the ledger size.
func (m *Metrics) SetTransactions(n int) {
	if m == nil {
		return
	}
	m.transactions.Set(float64(n))
}

// ObserveReport counts one rendered table, chart or sheet export.
func (m *Metrics) ObserveReport(kind string, err error) {
	if m == nil {
		return
	}
	m.reports.WithLabelValues(kind, Status(err)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency per route pattern. It must
// wrap the ServeMux directly so the matched pattern is visible afterwards.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
