package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the census stages.
// Each Metrics owns its registry; a run's values are flushed to a
// node-exporter textfile rather than scraped.
type Metrics struct {
	registry *prometheus.Registry

	RowsRead         *prometheus.CounterVec   // labels: table={observations,areas,...}
	RowsWritten      *prometheus.CounterVec   // labels: table
	UnparsableFields *prometheus.CounterVec   // labels: column
	ImputedCells     *prometheus.CounterVec   // labels: source={date,overall,unresolved}
	StageDuration    *prometheus.HistogramVec // labels: stage
	StageFailures    *prometheus.CounterVec   // labels: stage
	ExportedRecords  *prometheus.CounterVec   // labels: exporter
}

// NewMetrics creates the stage metrics and registers them with a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RowsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "squirrel_census",
			Name:      "rows_read_total",
			Help:      "Rows read from input tables.",
		}, []string{"table"}),
		RowsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "squirrel_census",
			Name:      "rows_written_total",
			Help:      "Rows written to output tables.",
		}, []string{"table"}),
		UnparsableFields: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "squirrel_census",
			Name:      "unparsable_fields_total",
			Help:      "Non-empty cells no extraction rule could parse, by source column.",
		}, []string{"column"}),
		ImputedCells: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "squirrel_census",
			Name:      "imputed_weather_cells_total",
			Help:      "Missing Weather readings by how they were resolved.",
		}, []string{"source"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "squirrel_census",
			Name:      "stage_duration_seconds",
			Help:      "Duration of a complete stage run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"stage"}),
		StageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "squirrel_census",
			Name:      "stage_failures_total",
			Help:      "Stage runs that returned an error.",
		}, []string{"stage"}),
		ExportedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "squirrel_census",
			Name:      "exported_records_total",
			Help:      "Merged records written by each exporter.",
		}, []string{"exporter"}),
	}

	m.registry.MustRegister(
		m.RowsRead,
		m.RowsWritten,
		m.UnparsableFields,
		m.ImputedCells,
		m.StageDuration,
		m.StageFailures,
		m.ExportedRecords,
	)

	return m
}

// Registry exposes the registry the metrics are registered with.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// WriteTextfile writes the current values to path in the text exposition
// format read by the node-exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
