package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestIngestMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewIngestMetrics(reg)
	source := "upload"
	metrics.ObserveDuration(source, 250*time.Millisecond)
	metrics.AddSheets(source, 2)
	metrics.AddRowsKept(source, 10)
	metrics.AddRowsDropped(source, 3)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "ingest_sheets_total", "source", source); err != nil {
		t.Fatalf("fetch sheets: %v", err)
	} else if got != 2 {
		t.Fatalf("expected sheets=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "ingest_rows_kept_total", "source", source); err != nil {
		t.Fatalf("fetch rows kept: %v", err)
	} else if got != 10 {
		t.Fatalf("expected rows kept=10, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "ingest_rows_dropped_total", "source", source); err != nil {
		t.Fatalf("fetch rows dropped: %v", err)
	} else if got != 3 {
		t.Fatalf("expected rows dropped=3, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "ingest_duration_seconds", "source", source); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestIngestMetricsNormalizesEmptySource(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewIngestMetrics(reg)
	metrics.AddSheets("", 1)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "ingest_sheets_total", "source", "unknown"); err != nil {
		t.Fatalf("fetch sheets: %v", err)
	} else if got != 1 {
		t.Fatalf("expected sheets=1 under unknown source, got %f", got)
	}
}

func TestIngestMetricsNilSafe(t *testing.T) {
	var metrics *IngestMetrics
	metrics.ObserveDuration("upload", time.Second)
	metrics.AddSheets("upload", 1)

	unregistered := NewIngestMetrics(nil)
	unregistered.AddRowsKept("upload", 1)
	unregistered.AddRowsDropped("upload", 1)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
