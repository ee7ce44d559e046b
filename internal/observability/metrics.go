package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "facility_map"

// Metrics holds the Prometheus counters, histograms, and gauges for a map run.
type Metrics struct {
	RowsLoaded      prometheus.Counter
	PipelineRunning prometheus.Gauge
	RunDuration     prometheus.Histogram

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,not_found,error}
	GeocodeAPIDuration prometheus.Histogram

	// Rendering and sink metrics.
	MarkersRendered    *prometheus.CounterVec // labels: category
	FacilitiesExported *prometheus.CounterVec // labels: sink={geojson,pdf,kafka}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsLoaded,
		m.PipelineRunning,
		m.RunDuration,
		m.GeocodeRequests,
		m.GeocodeAPIDuration,
		m.MarkersRendered,
		m.FacilitiesExported,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_loaded_total",
			Help:      "Registry rows read by the loader.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 while a run is in progress, 0 otherwise.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete load-to-save run.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoding requests by outcome.",
		}, []string{"outcome"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Google Geocoding API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		MarkersRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "markers_rendered_total",
			Help:      "Markers placed on the map by category layer.",
		}, []string{"category"}),
		FacilitiesExported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "facilities_exported_total",
			Help:      "Geocoded facilities written to optional sinks.",
		}, []string{"sink"}),
	}
}

// ObserveGeocode implements domain.GeocodeObserver.
func (m *Metrics) ObserveGeocode(outcome string) {
	m.GeocodeRequests.WithLabelValues(outcome).Inc()
}
