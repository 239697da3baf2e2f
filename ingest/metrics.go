package ingest

import (
	"time"

	"github.com/MetaCell/sckan-explorer/source"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments ingestion runs. A nil *Metrics records nothing.
type Metrics struct {
	runs       *prometheus.CounterVec
	statements *prometheus.CounterVec
	anomalies  *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics registers the ingestion metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sckanner_ingest_runs_total",
			Help: "Ingestion runs by source and result",
		}, []string{"source", "result"}),
		statements: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sckanner_ingest_statements_total",
			Help: "Ingested statements by source and state",
		}, []string{"source", "state"}),
		anomalies: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sckanner_ingest_anomalies_total",
			Help: "Ingestion anomalies by source and severity",
		}, []string{"source", "severity"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sckanner_ingest_duration_seconds",
			Help:    "Ingestion run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		}, []string{"source"}),
	}
}

func (m *Metrics) observeRun(kind source.Kind, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.runs.WithLabelValues(string(kind), result).Inc()
	m.duration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
}

func (m *Metrics) observeResult(kind source.Kind, r *Result) {
	if m == nil || r == nil {
		return
	}
	for _, e := range r.Ingested {
		m.statements.WithLabelValues(string(kind), e.State).Inc()
	}
	for _, a := range r.Anomalies {
		m.anomalies.WithLabelValues(string(kind), string(a.Severity)).Inc()
	}
}
