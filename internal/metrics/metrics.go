// Package metrics exposes Prometheus metrics for uploads, queries and sessions.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	UploadsTotal    *prometheus.CounterVec
	UploadBytes     prometheus.Histogram
	QueriesTotal    *prometheus.CounterVec
	QueryDuration   prometheus.Histogram
	QueryRowsTotal  prometheus.Counter
	CleanupsTotal   *prometheus.CounterVec
	SessionsActive  prometheus.Gauge
	UploadsInFlight prometheus.Gauge
}

// New creates and registers all metrics on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		UploadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "csvsql_uploads_total",
				Help: "Total number of uploads by outcome",
			},
			[]string{"status"},
		),
		UploadBytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "csvsql_upload_bytes",
				Help:    "Size of accepted uploads in bytes",
				Buckets: prometheus.ExponentialBuckets(1024, 8, 8),
			},
		),
		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "csvsql_queries_total",
				Help: "Total number of queries by outcome",
			},
			[]string{"status"},
		),
		QueryDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "csvsql_query_duration_seconds",
				Help:    "Duration of query execution in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		QueryRowsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "csvsql_query_rows_total",
				Help: "Total number of rows returned by queries",
			},
		),
		CleanupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "csvsql_cleanups_total",
				Help: "Total number of cleanup requests by outcome",
			},
			[]string{"status"},
		),
		SessionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "csvsql_sessions_active",
				Help: "Number of sessions currently held in memory",
			},
		),
		UploadsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "csvsql_uploads_in_flight",
				Help: "Number of uploads currently being ingested",
			},
		),
	}

	registry.MustRegister(
		m.UploadsTotal,
		m.UploadBytes,
		m.QueriesTotal,
		m.QueryDuration,
		m.QueryRowsTotal,
		m.CleanupsTotal,
		m.SessionsActive,
		m.UploadsInFlight,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler returns the HTTP handler serving this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveUpload records an upload outcome; size is only recorded on success.
func (m *Metrics) ObserveUpload(status string, size int64) {
	if m == nil {
		return
	}
	m.UploadsTotal.WithLabelValues(status).Inc()
	if status == "ok" {
		m.UploadBytes.Observe(float64(size))
	}
}

// ObserveQuery records a query outcome.
func (m *Metrics) ObserveQuery(status string, d time.Duration, rows int) {
	if m == nil {
		return
	}
	m.QueriesTotal.WithLabelValues(status).Inc()
	m.QueryDuration.Observe(d.Seconds())
	m.QueryRowsTotal.Add(float64(rows))
}

// ObserveCleanup records a cleanup outcome.
func (m *Metrics) ObserveCleanup(status string) {
	if m == nil {
		return
	}
	m.CleanupsTotal.WithLabelValues(status).Inc()
}

// SetSessions sets the active session gauge.
func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.SessionsActive.Set(float64(n))
}

// UploadStarted increments the in-flight gauge; call the returned func when done.
func (m *Metrics) UploadStarted() func() {
	if m == nil {
		return func() {}
	}
	m.UploadsInFlight.Inc()
	return m.UploadsInFlight.Dec
}
