package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "volcano_atlas"

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	PipelineRuns     *prometheus.CounterVec // labels: outcome={success,error}
	PipelineDuration prometheus.Histogram
	PipelineReady    prometheus.Gauge

	// Dataset shape after the last successful run.
	RecordsLoaded       prometheus.Gauge
	RecordsDropped      prometheus.Gauge
	CountriesAggregated prometheus.Gauge

	LoaderCache *prometheus.CounterVec // labels: kind={volcanoes,geometry}, result={hit,miss}

	RenderRequests *prometheus.CounterVec // labels: mode={points,continuous,threshold}
	RenderErrors   prometheus.Counter

	SnapshotMessagesProduced prometheus.Counter
	SnapshotExportErrors     prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.PipelineRuns,
		m.PipelineDuration,
		m.PipelineReady,
		m.RecordsLoaded,
		m.RecordsDropped,
		m.CountriesAggregated,
		m.LoaderCache,
		m.RenderRequests,
		m.RenderErrors,
		m.SnapshotMessagesProduced,
		m.SnapshotExportErrors,
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
		PipelineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Load-and-aggregate runs by outcome.",
		}, []string{"outcome"}),
		PipelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "Duration of a complete load-resolve-aggregate run.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		PipelineReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_ready",
			Help:      "1 once a snapshot is available, 0 otherwise.",
		}),
		RecordsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "volcano_records",
			Help:      "Volcano records in the current snapshot.",
		}),
		RecordsDropped: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "volcano_records_unmatched",
			Help:      "Volcano records excluded from aggregates because their country has no ISO code.",
		}),
		CountriesAggregated: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "countries_aggregated",
			Help:      "Country aggregate rows in the current snapshot.",
		}),
		LoaderCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loader_cache_total",
			Help:      "Input file cache lookups by kind and result.",
		}, []string{"kind", "result"}),
		RenderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_requests_total",
			Help:      "Rendered figures by mode.",
		}, []string{"mode"}),
		RenderErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_errors_total",
			Help:      "Rejected render requests.",
		}),
		SnapshotMessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_messages_produced_total",
			Help:      "Country aggregate messages written to the snapshot topic.",
		}),
		SnapshotExportErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_export_errors_total",
			Help:      "Failed snapshot exports.",
		}),
	}
}
