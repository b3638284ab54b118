package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "flood_explorer"

// Metrics holds the Prometheus gauges, counters and histograms for one run.
type Metrics struct {
	RecordsLoaded   prometheus.Gauge
	ZeroFilledCells prometheus.Gauge
	MissingDates    prometheus.Gauge
	LocationsRanked prometheus.Gauge
	LoadDuration    prometheus.Histogram

	ChartsRendered prometheus.Counter
	InvalidInputs  *prometheus.CounterVec // labels: prompt={decision,index}
	SeriesCache    *prometheus.CounterVec // labels: result={hit,miss}

	gatherer prometheus.Gatherer
}

func newMetrics() *Metrics {
	return &Metrics{
		RecordsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records_loaded",
			Help:      "Rows read from the source sheet.",
		}),
		ZeroFilledCells: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "zero_filled_cells",
			Help:      "Empty source cells replaced with 0 at load time.",
		}),
		MissingDates: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "missing_dates",
			Help:      "Rows whose DATE did not parse to a calendar date.",
		}),
		LocationsRanked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "locations_ranked",
			Help:      "Distinct locations in the ranking.",
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Time to load, normalize and rank the source sheet.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ChartsRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charts_rendered_total",
			Help:      "Year charts rendered.",
		}),
		InvalidInputs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalid_inputs_total",
			Help:      "Operator answers rejected and re-prompted, by prompt.",
		}, []string{"prompt"}),
		SeriesCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "series_cache_total",
			Help:      "Yearly series cache lookups by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RecordsLoaded,
		m.ZeroFilledCells,
		m.MissingDates,
		m.LocationsRanked,
		m.LoadDuration,
		m.ChartsRendered,
		m.InvalidInputs,
		m.SeriesCache,
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	m.gatherer = prometheus.DefaultGatherer
	return m
}

// NewMetricsForTesting creates Metrics on a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	m := newMetrics()
	reg := prometheus.NewRegistry()
	reg.MustRegister(m.collectors()...)
	m.gatherer = reg
	return m
}

// WriteTextfile writes every gathered metric to path in the text exposition
// format, for node_exporter's textfile collector. An empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.gatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
