// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ingestion metrics
	RecordsIngested *prometheus.CounterVec
	IngestErrors    *prometheus.CounterVec

	// Panel metrics
	RowsBuilt           prometheus.Counter
	RowsEnriched        prometheus.Counter
	FeatureRowsExported prometheus.Counter

	// Data quality warning counters
	DataQualityWarnings *prometheus.CounterVec

	// Stage metrics
	StageRunsTotal *prometheus.CounterVec
	StageDuration  *prometheus.HistogramVec

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance registered on the default
// Prometheus registry.
func NewMetrics(namespace string) *Metrics {
	return NewMetricsWithRegistry(namespace, prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates a new Metrics instance registered on reg.
func NewMetricsWithRegistry(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "atp_panel_lab"
	}
	factory := promauto.With(reg)

	return &Metrics{
		RecordsIngested: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "records_ingested_total",
			Help:      "Total number of staging records ingested by dataset",
		}, []string{"dataset"}),
		IngestErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "errors_total",
			Help:      "Total number of ingestion errors by dataset",
		}, []string{"dataset"}),

		RowsBuilt: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "panel",
			Name:      "rows_built_total",
			Help:      "Total number of player-centric panel rows built",
		}),
		RowsEnriched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "panel",
			Name:      "rows_enriched_total",
			Help:      "Total number of feature rows produced by the enrichment chain",
		}),
		FeatureRowsExported: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "panel",
			Name:      "feature_rows_exported_total",
			Help:      "Total number of feature rows written to the analytics store",
		}),

		DataQualityWarnings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "quality",
			Name:      "warnings_total",
			Help:      "Total number of data quality warnings by issue",
		}, []string{"issue"}),

		StageRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_runs_total",
			Help:      "Total number of enrichment stage runs by status",
		}, []string{"stage", "status"}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Enrichment stage duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		}, []string{"stage"}),

		LastSuccessfulRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of the last successful pipeline run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Data quality issue labels.
const (
	IssueMalformedPair   = "malformed_match_group"
	IssueUnknownSurface  = "unknown_surface"
	IssueUnknownRound    = "unknown_round"
	IssueZeroDenominator = "zero_denominator"
)

// RecordIngested adds to the ingested-records counter for one dataset.
func (m *Metrics) RecordIngested(dataset string, count int) {
	m.RecordsIngested.WithLabelValues(dataset).Add(float64(count))
}

// RecordIngestError increments the ingestion error counter for one dataset.
func (m *Metrics) RecordIngestError(dataset string) {
	m.IngestErrors.WithLabelValues(dataset).Inc()
}

// RecordDataQuality adds to the warning counter for one issue.
func (m *Metrics) RecordDataQuality(issue string, count int) {
	if count > 0 {
		m.DataQualityWarnings.WithLabelValues(issue).Add(float64(count))
	}
}

// RecordStage records one enrichment stage run.
func (m *Metrics) RecordStage(stage, status string, durationSeconds float64) {
	m.StageRunsTotal.WithLabelValues(stage, status).Inc()
	m.StageDuration.WithLabelValues(stage).Observe(durationSeconds)
}
