package report

// RawRow is one ingested spreadsheet row. Columns preserves the sheet's
// header order because column resolution scans keys in that order; a plain
// map would not keep it.
type RawRow struct {
	Columns []string
	Cells   map[string]any
}

// Sheet is a named, ordered block of raw rows.
type Sheet struct {
	Name string
	Rows []RawRow
}

// DetailRecord is one source row that carried a keyword.
type DetailRecord struct {
	Keyword     string  `json:"keyword"`
	Property    string  `json:"property"`
	Campaign    string  `json:"campaign"`
	AdGroup     string  `json:"ad_group"`
	Conversions float64 `json:"conversions"`
	Cost        float64 `json:"cost"`
}

// BreakdownEntry holds the summed contribution of one
// (property, campaign, ad group) triple to a keyword's totals.
type BreakdownEntry struct {
	Property    string  `json:"property"`
	Campaign    string  `json:"campaign"`
	AdGroup     string  `json:"ad_group"`
	Conversions float64 `json:"conversions"`
	Cost        float64 `json:"cost"`
}

// AggregatedKeyword is the canonical per-keyword record. Totals always equal
// the sums over Breakdown, and the membership sets always equal the unions
// of the breakdown's properties and campaigns.
type AggregatedKeyword struct {
	Keyword     string
	Conversions float64
	Cost        float64
	Properties  map[string]struct{}
	Campaigns   map[string]struct{}
	Breakdown   []BreakdownEntry
}

// PropertyCount returns how many distinct sheets contributed to the keyword.
func (k AggregatedKeyword) PropertyCount() int { return len(k.Properties) }

// CampaignCount returns how many distinct campaigns contributed.
func (k AggregatedKeyword) CampaignCount() int { return len(k.Campaigns) }

// Result is one full aggregation run over a workbook.
type Result struct {
	Keywords        []AggregatedKeyword
	Details         []DetailRecord
	SheetsProcessed int
	RowsDropped     int
}

// Summary carries the headline numbers shown above the report table.
type Summary struct {
	TotalKeywords    int     `json:"total_keywords"`
	TotalConversions float64 `json:"total_conversions"`
	TotalCost        float64 `json:"total_cost"`
	SheetsProcessed  int     `json:"sheets_processed"`
}

// Summarize computes the headline numbers over the full aggregated set.
func Summarize(keywords []AggregatedKeyword, sheetsProcessed int) Summary {
	s := Summary{TotalKeywords: len(keywords), SheetsProcessed: sheetsProcessed}
	for _, k := range keywords {
		s.TotalConversions += k.Conversions
		s.TotalCost += k.Cost
	}
	return s
}
