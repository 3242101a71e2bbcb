package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func TestExportFilename(t *testing.T) {
	t.Parallel()
	at := time.Date(2026, 8, 31, 14, 30, 5, 0, time.UTC)
	got := ExportFilename(at)
	want := "Organization_Report_2026-08-31T14-30-05.xlsx"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestExportRows(t *testing.T) {
	t.Parallel()
	keywords := []AggregatedKeyword{
		{Keyword: "hats", Conversions: 2, Cost: 8.5},
		{Keyword: "scarves", Conversions: 1, Cost: 3},
	}
	rows := ExportRows(keywords)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0] != (ExportRow{Keyword: "hats", Conversions: 2, Cost: 8.5}) {
		t.Fatalf("unexpected first row %+v", rows[0])
	}
}

func TestWriteWorkbookRoundTrip(t *testing.T) {
	t.Parallel()
	rows := []ExportRow{
		{Keyword: "hats", Conversions: 2, Cost: 8.5},
		{Keyword: "scarves", Conversions: 1, Cost: 3},
	}

	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, rows); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Aggregated Report" {
		t.Fatalf("unexpected sheets %v", sheets)
	}

	got, err := f.GetRows("Aggregated Report")
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(got))
	}
	if got[0][0] != "Keyword" || got[0][1] != "Conversions" || got[0][2] != "Cost" {
		t.Fatalf("unexpected header %v", got[0])
	}
	if got[1][0] != "hats" || got[1][1] != "2" || got[1][2] != "8.5" {
		t.Fatalf("unexpected first data row %v", got[1])
	}
}
