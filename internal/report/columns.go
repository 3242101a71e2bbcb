package report

import "strings"

// Header variants accepted for each field. Matching is case-insensitive
// substring containment, so "Total Conversions" satisfies "conversions".
var (
	keywordColumns     = []string{"keyword"}
	campaignColumns    = []string{"campaign"}
	adGroupColumns     = []string{"ad group", "adgroup"}
	conversionsColumns = []string{"conversions"}
	costColumns        = []string{"cost"}
)

// FindColumn returns the value of the first column whose lowercased header
// contains any of the lowercased variants, scanning headers in the row's own
// column order. The second return reports whether any column matched.
func FindColumn(row RawRow, variants ...string) (any, bool) {
	for _, column := range row.Columns {
		lowered := strings.ToLower(column)
		for _, variant := range variants {
			if strings.Contains(lowered, strings.ToLower(variant)) {
				return row.Cells[column], true
			}
		}
	}
	return nil, false
}
