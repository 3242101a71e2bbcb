package datasets

import "github.com/daniyalishaq1/data-aggregator/internal/report"

// Persisted keyword summaries omit the property/campaign sets, so loading a
// snapshot re-derives the full aggregate from its detail rows. RebuildSheets
// regroups the details into one pseudo-sheet per property, in detail order,
// ready for a fresh aggregation run.
func RebuildSheets(details []report.DetailRecord) []report.Sheet {
	columns := []string{"Keyword", "Campaign", "Ad Group", "Conversions", "Cost"}

	byProperty := make(map[string]*report.Sheet)
	var sheets []*report.Sheet
	for _, d := range details {
		sheet, ok := byProperty[d.Property]
		if !ok {
			sheet = &report.Sheet{Name: d.Property}
			byProperty[d.Property] = sheet
			sheets = append(sheets, sheet)
		}
		sheet.Rows = append(sheet.Rows, report.RawRow{
			Columns: columns,
			Cells: map[string]any{
				"Keyword":     d.Keyword,
				"Campaign":    d.Campaign,
				"Ad Group":    d.AdGroup,
				"Conversions": d.Conversions,
				"Cost":        d.Cost,
			},
		})
	}

	out := make([]report.Sheet, 0, len(sheets))
	for _, s := range sheets {
		out = append(out, *s)
	}
	return out
}
