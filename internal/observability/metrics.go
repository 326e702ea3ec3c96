package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the aggregator.
type Metrics struct {
	SourceFetches       *prometheus.CounterVec   // labels: source={usgs,phivolcs,eonet}, outcome={success,error}
	SourceFetchDuration *prometheus.HistogramVec // labels: source
	RecordsRejected     *prometheus.CounterVec   // labels: source
	YearsSkipped        prometheus.Counter
	ScriptOutputBytes   prometheus.Histogram
	Requests            *prometheus.CounterVec // labels: endpoint={earthquakes,volcanoes}, outcome={success,error}
}

// NewMetrics creates and registers all aggregator metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SourceFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geoevents",
			Name:      "source_fetch_total",
			Help:      "Upstream catalog fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		SourceFetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "geoevents",
			Name:      "source_fetch_duration_seconds",
			Help:      "Upstream catalog fetch duration in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"source"}),
		RecordsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geoevents",
			Name:      "records_rejected_total",
			Help:      "Records dropped during normalization, by source.",
		}, []string{"source"}),
		YearsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "geoevents",
			Name:      "catalog_years_skipped_total",
			Help:      "Per-year remote catalog queries skipped after a failure.",
		}),
		ScriptOutputBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "geoevents",
			Name:      "script_output_bytes",
			Help:      "Stdout size of regional catalog script invocations.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geoevents",
			Name:      "requests_total",
			Help:      "API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
	}

	prometheus.MustRegister(
		m.SourceFetches,
		m.SourceFetchDuration,
		m.RecordsRejected,
		m.YearsSkipped,
		m.ScriptOutputBytes,
		m.Requests,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests
// can construct fresh instances without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		SourceFetches:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "geoevents", Name: "source_fetch_total"}, []string{"source", "outcome"}),
		SourceFetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "geoevents", Name: "source_fetch_duration_seconds"}, []string{"source"}),
		RecordsRejected:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "geoevents", Name: "records_rejected_total"}, []string{"source"}),
		YearsSkipped:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "geoevents", Name: "catalog_years_skipped_total"}),
		ScriptOutputBytes:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "geoevents", Name: "script_output_bytes"}),
		Requests:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "geoevents", Name: "requests_total"}, []string{"endpoint", "outcome"}),
	}
}
