// Package observability exports pipeline run counters in the prometheus text format.
package observability

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"vacuumclean/internal/normalizer"
)

const namespace = "vacuumclean"

// Metrics holds the counters of one cleaning run.
type Metrics struct {
	registry *prometheus.Registry

	RowsRead    prometheus.Counter
	RowsWritten prometheus.Counter
	Duplicates  prometheus.Counter
	RowsDropped *prometheus.CounterVec
	FieldEvents *prometheus.CounterVec
	LastRun     prometheus.Gauge
}

// New registers the run counters on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      "Input rows read.",
		}),
		RowsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_written_total",
			Help:      "Rows written to the cleaned table.",
		}),
		Duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicates_removed_total",
			Help:      "Exact duplicate rows removed.",
		}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_dropped_total",
			Help:      "Rows excluded from the cleaned table.",
		}, []string{"reason"}),
		FieldEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "field_events_total",
			Help:      "Field overrides, corrections and rejections.",
		}, []string{"column", "kind"}),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last cleaning run.",
		}),
	}

	m.registry.MustRegister(m.RowsRead, m.RowsWritten, m.Duplicates, m.RowsDropped, m.FieldEvents, m.LastRun)

	// Both reasons are always exported, even when zero.
	m.RowsDropped.WithLabelValues(normalizer.DropMissingPrice)
	m.RowsDropped.WithLabelValues(normalizer.DropMissingName)

	return m
}

// Record adds the counts of a finished run.
func (m *Metrics) Record(stats *normalizer.Stats, now time.Time) {
	m.RowsRead.Add(float64(stats.RowsRead))
	m.RowsWritten.Add(float64(stats.RowsWritten))
	m.Duplicates.Add(float64(stats.DuplicatesRemoved))

	for _, d := range stats.Dropped {
		m.RowsDropped.WithLabelValues(d.Reason).Inc()
	}

	for _, col := range stats.ColumnNames() {
		cs := stats.Columns[col]

		for kind, n := range map[normalizer.EventKind]int{
			normalizer.EventOverride:    cs.Overrides,
			normalizer.EventCorrected:   cs.Corrected,
			normalizer.EventRejected:    cs.Rejected,
			normalizer.EventUnparseable: cs.Unparseable,
		} {
			if n > 0 {
				m.FieldEvents.WithLabelValues(col, string(kind)).Add(float64(n))
			}
		}
	}

	m.LastRun.Set(float64(now.Unix()))
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes all metrics to path for a node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}

	return nil
}
