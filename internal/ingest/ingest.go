// Package ingest turns uploaded workbook bytes into the ordered sheet/row
// structure the aggregation engine consumes. The parsing library is an
// implementation detail; nothing downstream sees excelize types.
package ingest

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/multierr"

	"github.com/daniyalishaq1/data-aggregator/internal/report"
	"github.com/daniyalishaq1/data-aggregator/pkg/metrics"
)

// ValidExtension reports whether the filename looks like an Excel workbook.
func ValidExtension(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return true
	}
	return false
}

// Parse reads workbook bytes into ordered named sheets of row mappings.
// The first row of each sheet is its header; cells missing from short rows
// default to the empty string. Columns with a blank header are skipped, and
// for duplicate headers the first column wins.
func Parse(data []byte) (sheets []report.Sheet, err error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		sheets = append(sheets, report.Sheet{Name: name, Rows: sheetRows(rows)})
	}
	return sheets, nil
}

func sheetRows(rows [][]string) []report.RawRow {
	if len(rows) == 0 {
		return nil
	}

	header := rows[0]
	columns := make([]string, 0, len(header))
	indexes := make([]int, 0, len(header))
	seen := make(map[string]struct{}, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		columns = append(columns, name)
		indexes = append(indexes, i)
	}

	out := make([]report.RawRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := make(map[string]any, len(columns))
		for c, column := range columns {
			value := ""
			if idx := indexes[c]; idx < len(row) {
				value = row[idx]
			}
			cells[column] = value
		}
		out = append(out, report.RawRow{Columns: columns, Cells: cells})
	}
	return out
}

// Processor parses and aggregates workbooks while recording ingest metrics.
type Processor struct {
	metrics *metrics.IngestMetrics
}

// NewProcessor wires the ingest pipeline to the metrics registry.
func NewProcessor(m *metrics.IngestMetrics) *Processor {
	return &Processor{metrics: m}
}

// Process runs the full ingest pipeline over uploaded workbook bytes.
func (p *Processor) Process(source string, data []byte) (report.Result, []string, error) {
	sheets, err := Parse(data)
	if err != nil {
		return report.Result{}, nil, err
	}

	start := time.Now()
	result := report.Aggregate(sheets)
	p.observe(source, result, time.Since(start))

	names := make([]string, 0, len(sheets))
	for _, s := range sheets {
		names = append(names, s.Name)
	}
	return result, names, nil
}

// Reaggregate reruns aggregation over already-materialized sheets, used when
// rebuilding a dataset from persisted detail rows.
func (p *Processor) Reaggregate(source string, sheets []report.Sheet) report.Result {
	start := time.Now()
	result := report.Aggregate(sheets)
	p.observe(source, result, time.Since(start))
	return result
}

func (p *Processor) observe(source string, result report.Result, elapsed time.Duration) {
	if p == nil || p.metrics == nil {
		return
	}
	p.metrics.ObserveDuration(source, elapsed)
	p.metrics.AddSheets(source, result.SheetsProcessed)
	p.metrics.AddRowsKept(source, len(result.Details))
	p.metrics.AddRowsDropped(source, result.RowsDropped)
}
