package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the calculation pipeline.
type Metrics struct {
	DocumentsConsumed prometheus.Counter
	ReportsProduced   prometheus.Counter
	CalculationErrors prometheus.Counter
	PipelineRunning   prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Climate resolution metrics.
	ClimateLookups     *prometheus.CounterVec // labels: outcome={success,error,empty}
	ClimateCache       *prometheus.CounterVec // labels: result={hit,miss}
	ClimateAPIDuration prometheus.Histogram
	ClimateEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		DocumentsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "heatload",
			Name:      "documents_consumed_total",
			Help:      "Total number of project documents consumed from the source topic.",
		}),
		ReportsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "heatload",
			Name:      "reports_produced_total",
			Help:      "Total number of load reports produced to the sink topic.",
		}),
		CalculationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "heatload",
			Name:      "calc_errors_total",
			Help:      "Total number of documents that failed validation or calculation.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "heatload",
			Name:      "pipeline_running",
			Help:      "Whether the pipeline loop is currently running (1) or stopped (0).",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "heatload",
			Name:      "batch_size",
			Help:      "Number of documents per consumed batch.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "heatload",
			Name:      "batch_processing_duration_seconds",
			Help:      "Time spent processing one batch end to end.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		ClimateLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "heatload",
			Name:      "climate_lookups_total",
			Help:      "Climate reference lookups by outcome.",
		}, []string{"outcome"}),
		ClimateCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "heatload",
			Name:      "climate_cache_total",
			Help:      "Climate cache hits and misses.",
		}, []string{"result"}),
		ClimateAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "heatload",
			Name:      "climate_api_duration_seconds",
			Help:      "Duration of climate service HTTP requests.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}),
		ClimateEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "heatload",
			Name:      "climate_enabled",
			Help:      "Whether remote climate resolution is enabled (1) or disabled (0).",
		}),
	}

	prometheus.MustRegister(
		m.DocumentsConsumed,
		m.ReportsProduced,
		m.CalculationErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.ClimateLookups,
		m.ClimateCache,
		m.ClimateAPIDuration,
		m.ClimateEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		DocumentsConsumed:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "heatload", Name: "documents_consumed_total"}),
		ReportsProduced:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "heatload", Name: "reports_produced_total"}),
		CalculationErrors:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "heatload", Name: "calc_errors_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "heatload", Name: "pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "heatload", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "heatload", Name: "batch_processing_duration_seconds"}),
		ClimateLookups:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "heatload", Name: "climate_lookups_total"}, []string{"outcome"}),
		ClimateCache:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "heatload", Name: "climate_cache_total"}, []string{"result"}),
		ClimateAPIDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "heatload", Name: "climate_api_duration_seconds"}),
		ClimateEnabled:          prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "heatload", Name: "climate_enabled"}),
	}
}
