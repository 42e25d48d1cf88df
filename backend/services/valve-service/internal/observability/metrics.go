package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "valve"

// Metrics holds the Prometheus counters and histograms for ingestion and queries.
type Metrics struct {
	Registry *prometheus.Registry

	RowsRead        prometheus.Counter
	RowsDropped     *prometheus.CounterVec // labels: reason={invalid_time,duplicate}
	RecordsImported prometheus.Counter
	RecordsFailed   *prometheus.CounterVec // labels: stage={construct,persist}
	Batches         *prometheus.CounterVec // labels: outcome={ok,fallback}
	ImportDuration  prometheus.Histogram
	ImportRuns      *prometheus.CounterVec // labels: outcome={completed,aborted}

	QueryDuration *prometheus.HistogramVec // labels: query={list_readings,hourly_heatmap,import_runs}
}

// NewMetrics creates the metric set on a fresh registry. Process and Go runtime
// collectors are added so /metrics matches the default registry's output.
func NewMetrics() *Metrics {
	m := newMetrics()
	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// NewMetricsForTesting creates Metrics without runtime collectors.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_rows_read_total",
			Help:      "Data rows read from CSV files.",
		}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_rows_dropped_total",
			Help:      "Rows dropped before record construction, by reason.",
		}, []string{"reason"}),
		RecordsImported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_records_imported_total",
			Help:      "Readings persisted to the store.",
		}),
		RecordsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_records_failed_total",
			Help:      "Readings that could not be built or persisted, by stage.",
		}, []string{"stage"}),
		Batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_batches_total",
			Help:      "Batch inserts attempted, by outcome.",
		}, []string{"outcome"}),
		ImportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "import_duration_seconds",
			Help:      "Wall time of a complete CSV import.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}),
		ImportRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_runs_total",
			Help:      "Import runs, by outcome.",
		}, []string{"outcome"}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Duration of read queries served by the API.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}, []string{"query"}),
	}

	m.Registry.MustRegister(
		m.RowsRead,
		m.RowsDropped,
		m.RecordsImported,
		m.RecordsFailed,
		m.Batches,
		m.ImportDuration,
		m.ImportRuns,
		m.QueryDuration,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
