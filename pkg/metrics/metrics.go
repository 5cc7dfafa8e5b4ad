// Package metrics defines the Prometheus collectors used by the site server
// and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the server.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	ContentLoadedTotal   *prometheus.CounterVec
	ContentSkippedTotal  *prometheus.CounterVec
	ContactSubmissions   *prometheus.CounterVec
	FeedBuildsTotal      prometheus.Counter

	registry *prometheus.Registry
}

// New creates all collectors and registers them on a private registry.
func New() *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		ContentLoadedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "folio_content_loaded_total",
				Help: "Documents loaded into an index, by kind.",
			},
			[]string{"kind"},
		),
		ContentSkippedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "folio_content_skipped_total",
				Help: "Documents skipped while building an index, by kind.",
			},
			[]string{"kind"},
		),
		ContactSubmissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "folio_contact_submissions_total",
				Help: "Contact form submissions by outcome.",
			},
			[]string{"outcome"},
		),
		FeedBuildsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "folio_feed_builds_total",
				Help: "Number of times the RSS feed was generated.",
			},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.ContentLoadedTotal,
		m.ContentSkippedTotal,
		m.ContactSubmissions,
		m.FeedBuildsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordLoad adds loaded and skipped counts for an index kind ("posts", "projects").
func (m *Metrics) RecordLoad(kind string, loaded, skipped int) {
	if m == nil {
		return
	}
	m.ContentLoadedTotal.WithLabelValues(kind).Add(float64(loaded))
	m.ContentSkippedTotal.WithLabelValues(kind).Add(float64(skipped))
}
