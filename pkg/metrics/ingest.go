package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// IngestMetrics records metadata for workbook processing runs.
type IngestMetrics struct {
	duration    *prometheus.HistogramVec
	sheets      *prometheus.CounterVec
	rowsKept    *prometheus.CounterVec
	rowsDropped *prometheus.CounterVec
}

// NewIngestMetrics registers the ingest metrics on the provided registerer.
func NewIngestMetrics(reg prometheus.Registerer) *IngestMetrics {
	if reg == nil {
		return &IngestMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ingest_duration_seconds",
		Help:    "Duration of workbook aggregation runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})
	sheets := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_sheets_total",
		Help: "Sheets processed across all aggregation runs.",
	}, []string{"source"})
	rowsKept := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_rows_kept_total",
		Help: "Rows that carried a keyword and entered aggregation.",
	}, []string{"source"})
	rowsDropped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ingest_rows_dropped_total",
		Help: "Rows dropped for lacking a keyword.",
	}, []string{"source"})
	reg.MustRegister(duration, sheets, rowsKept, rowsDropped)
	return &IngestMetrics{
		duration:    duration,
		sheets:      sheets,
		rowsKept:    rowsKept,
		rowsDropped: rowsDropped,
	}
}

// ObserveDuration records how long an aggregation run took.
func (m *IngestMetrics) ObserveDuration(source string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(source)).Observe(duration.Seconds())
}

// AddSheets counts processed sheets for the named source.
func (m *IngestMetrics) AddSheets(source string, n int) {
	if m == nil || m.sheets == nil {
		return
	}
	m.sheets.WithLabelValues(normalizeLabel(source)).Add(float64(n))
}

// AddRowsKept counts rows that entered aggregation.
func (m *IngestMetrics) AddRowsKept(source string, n int) {
	if m == nil || m.rowsKept == nil {
		return
	}
	m.rowsKept.WithLabelValues(normalizeLabel(source)).Add(float64(n))
}

// AddRowsDropped counts keyword-less rows that were skipped.
func (m *IngestMetrics) AddRowsDropped(source string, n int) {
	if m == nil || m.rowsDropped == nil {
		return
	}
	m.rowsDropped.WithLabelValues(normalizeLabel(source)).Add(float64(n))
}

func normalizeLabel(source string) string {
	if source == "" {
		return "unknown"
	}
	return source
}
