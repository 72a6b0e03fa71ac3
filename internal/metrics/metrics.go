// Package metrics defines the Prometheus collectors for search and
// indexing and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result label values of SearchTotal.
const (
	ResultHit   = "hit"
	ResultEmpty = "zero_result"
	ResultError = "error"
	namespace   = "emojipick"
)

// Metrics holds all collectors. Each instance owns its registry so tests
// and multiple apps in one process do not collide.
type Metrics struct {
	SearchTotal    *prometheus.CounterVec
	SearchDuration *prometheus.HistogramVec
	SearchResults  *prometheus.HistogramVec
	DocsIndexed    *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates and registers all metrics.
func New() *Metrics {
	m := &Metrics{
		SearchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "search_total",
				Help:      "Total searches by backend and result type (hit, zero_result, error).",
			},
			[]string{"backend", "result"},
		),
		SearchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_duration_seconds",
				Help:      "Search latency in seconds.",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
			},
			[]string{"backend"},
		),
		SearchResults: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_results",
				Help:      "Number of results returned per search.",
				Buckets:   []float64{0, 1, 5, 10, 25, 50},
			},
			[]string{"backend"},
		),
		DocsIndexed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "docs_indexed_total",
				Help:      "Total entries indexed by backend.",
			},
			[]string{"backend"},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.SearchTotal,
		m.SearchDuration,
		m.SearchResults,
		m.DocsIndexed,
	)
	return m
}

// ObserveSearch records one search call.
func (m *Metrics) ObserveSearch(backend string, results int, err error, elapsed time.Duration) {
	result := ResultHit
	switch {
	case err != nil:
		result = ResultError
	case results == 0:
		result = ResultEmpty
	}
	m.SearchTotal.WithLabelValues(backend, result).Inc()
	m.SearchDuration.WithLabelValues(backend).Observe(elapsed.Seconds())
	if err == nil {
		m.SearchResults.WithLabelValues(backend).Observe(float64(results))
	}
}

// ObserveIndex records entries added to a backend.
func (m *Metrics) ObserveIndex(backend string, docs int) {
	m.DocsIndexed.WithLabelValues(backend).Add(float64(docs))
}

// Handler returns the scrape handler for this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
