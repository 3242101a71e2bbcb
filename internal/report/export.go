package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Aggregated Report"

// ExportRow is one spreadsheet row of the exported report.
type ExportRow struct {
	Keyword     string
	Conversions float64
	Cost        float64
}

// ExportRows flattens a keyword sequence, usually a projection's rows, into
// exportable rows.
func ExportRows(keywords []AggregatedKeyword) []ExportRow {
	rows := make([]ExportRow, 0, len(keywords))
	for _, k := range keywords {
		rows = append(rows, ExportRow{Keyword: k.Keyword, Conversions: k.Conversions, Cost: k.Cost})
	}
	return rows
}

// ExportFilename builds the timestamped download name.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("Organization_Report_%s.xlsx", now.UTC().Format("2006-01-02T15-04-05"))
}

// WriteWorkbook serializes the rows as a single-sheet workbook.
func WriteWorkbook(w io.Writer, rows []ExportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetColWidth(exportSheet, "A", "A", 40); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(exportSheet, "B", "C", 15); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.SetSheetRow(exportSheet, "A1", &[]any{"Keyword", "Conversions", "Cost"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell for row %d: %w", i, err)
		}
		if err := f.SetSheetRow(exportSheet, cell, &[]any{row.Keyword, row.Conversions, row.Cost}); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
