package report

import (
	"fmt"
	"sort"
	"strings"
)

const missingDimension = "N/A"

// Aggregate folds the ordered sheets into one record per distinct keyword.
// Rows without a keyword are dropped. Contributions from the same
// (property, campaign, ad group) triple merge into a single breakdown entry.
// The returned keyword sequence is sorted by total conversions descending;
// keywords with equal totals keep their first-encounter order.
func Aggregate(sheets []Sheet) Result {
	byKeyword := make(map[string]*AggregatedKeyword)
	var order []string
	var details []DetailRecord
	dropped := 0

	for _, sheet := range sheets {
		for _, row := range sheet.Rows {
			keyword, ok := keywordFor(row)
			if !ok {
				dropped++
				continue
			}

			campaign := dimensionFor(row, campaignColumns)
			adGroup := dimensionFor(row, adGroupColumns)
			conversions := numberFor(row, conversionsColumns)
			cost := numberFor(row, costColumns)

			details = append(details, DetailRecord{
				Keyword:     keyword,
				Property:    sheet.Name,
				Campaign:    campaign,
				AdGroup:     adGroup,
				Conversions: conversions,
				Cost:        cost,
			})

			agg, exists := byKeyword[keyword]
			if !exists {
				agg = &AggregatedKeyword{
					Keyword:    keyword,
					Properties: make(map[string]struct{}),
					Campaigns:  make(map[string]struct{}),
				}
				byKeyword[keyword] = agg
				order = append(order, keyword)
			}

			agg.Conversions += conversions
			agg.Cost += cost
			agg.Properties[sheet.Name] = struct{}{}
			agg.Campaigns[campaign] = struct{}{}
			mergeBreakdown(agg, sheet.Name, campaign, adGroup, conversions, cost)
		}
	}

	keywords := make([]AggregatedKeyword, 0, len(order))
	for _, keyword := range order {
		keywords = append(keywords, *byKeyword[keyword])
	}
	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].Conversions > keywords[j].Conversions
	})

	return Result{
		Keywords:        keywords,
		Details:         details,
		SheetsProcessed: len(sheets),
		RowsDropped:     dropped,
	}
}

func keywordFor(row RawRow) (string, bool) {
	value, ok := FindColumn(row, keywordColumns...)
	if !ok || value == nil {
		return "", false
	}
	keyword := strings.TrimSpace(cellString(value))
	if keyword == "" {
		return "", false
	}
	return keyword, true
}

func dimensionFor(row RawRow, variants []string) string {
	value, ok := FindColumn(row, variants...)
	if !ok || value == nil {
		return missingDimension
	}
	trimmed := strings.TrimSpace(cellString(value))
	if trimmed == "" {
		return missingDimension
	}
	return trimmed
}

func numberFor(row RawRow, variants []string) float64 {
	value, _ := FindColumn(row, variants...)
	return ParseNumber(value)
}

func mergeBreakdown(agg *AggregatedKeyword, property, campaign, adGroup string, conversions, cost float64) {
	for i := range agg.Breakdown {
		entry := &agg.Breakdown[i]
		if entry.Property == property && entry.Campaign == campaign && entry.AdGroup == adGroup {
			entry.Conversions += conversions
			entry.Cost += cost
			return
		}
	}
	agg.Breakdown = append(agg.Breakdown, BreakdownEntry{
		Property:    property,
		Campaign:    campaign,
		AdGroup:     adGroup,
		Conversions: conversions,
		Cost:        cost,
	})
}

func cellString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
