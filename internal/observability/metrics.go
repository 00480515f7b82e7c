package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the ingest
// pipeline and the OpenWeatherMap client.
type Metrics struct {
	ObservationsIngested prometheus.Counter
	IngestErrors         prometheus.Counter
	LocationsDerived     prometheus.Counter
	IngestDuration       prometheus.Histogram

	// OpenWeatherMap API metrics.
	APIRequests *prometheus.CounterVec   // labels: endpoint={geocode,weather}, outcome={success,error}
	APIDuration *prometheus.HistogramVec // labels: endpoint={geocode,weather}
}

// NewMetrics creates and registers all metrics with the default Prometheus
// registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.ObservationsIngested,
		m.IngestErrors,
		m.LocationsDerived,
		m.IngestDuration,
		m.APIRequests,
		m.APIDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ObservationsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_ingest",
			Name:      "observations_ingested_total",
			Help:      "Total observations fetched, snapshotted, and loaded.",
		}),
		IngestErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_ingest",
			Name:      "ingest_errors_total",
			Help:      "Total per-location ingest failures.",
		}),
		LocationsDerived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_ingest",
			Name:      "locations_derived_total",
			Help:      "Total new locations inserted by dedup derivation.",
		}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_ingest",
			Name:      "ingest_duration_seconds",
			Help:      "Duration of one fetch-snapshot-load cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_ingest",
			Name:      "api_requests_total",
			Help:      "OpenWeatherMap API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		APIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weather_ingest",
			Name:      "api_request_duration_seconds",
			Help:      "OpenWeatherMap API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"endpoint"}),
	}
}
