package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Column identifies one of the report table's columns.
type Column string

const (
	ColumnKeyword     Column = "keyword"
	ColumnProperties  Column = "properties"
	ColumnCampaigns   Column = "campaigns"
	ColumnConversions Column = "conversions"
	ColumnCost        Column = "cost"
)

// BucketAll disables bucket filtering.
const BucketAll = 0

// SortDirection orders a sorted column.
type SortDirection string

const (
	SortNone SortDirection = ""
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseColumn validates a column name from user input.
func ParseColumn(value string) (Column, error) {
	switch Column(strings.ToLower(strings.TrimSpace(value))) {
	case ColumnKeyword:
		return ColumnKeyword, nil
	case ColumnProperties:
		return ColumnProperties, nil
	case ColumnCampaigns:
		return ColumnCampaigns, nil
	case ColumnConversions:
		return ColumnConversions, nil
	case ColumnCost:
		return ColumnCost, nil
	}
	return "", fmt.Errorf("unknown column %q", value)
}

// QueryState is the full interaction state a projection is computed from.
type QueryState struct {
	Search        string
	Bucket        int // BucketAll or 1..5
	ColumnFilters map[Column]map[string]struct{}
	SortColumn    Column // empty means keep canonical order
	SortDirection SortDirection
}

// View is one projection of the canonical dataset.
type View struct {
	Rows  []AggregatedKeyword
	Count int
}

// localeCollator orders text columns the way the browser table did.
var localeCollator = collate.New(language.English)

// Project applies search, bucket filter, column filters and sort, in that
// fixed order, over the full canonical sequence. It never mutates its
// inputs; absent a sort column the canonical conversions-descending order
// is preserved.
func Project(keywords []AggregatedKeyword, buckets BucketMap, state QueryState) View {
	rows := make([]AggregatedKeyword, 0, len(keywords))

	search := strings.ToLower(strings.TrimSpace(state.Search))
	for _, k := range keywords {
		if search != "" && !strings.Contains(strings.ToLower(k.Keyword), search) {
			continue
		}
		if state.Bucket != BucketAll && buckets[k.Keyword] != state.Bucket {
			continue
		}
		if !passesColumnFilters(k, state.ColumnFilters) {
			continue
		}
		rows = append(rows, k)
	}

	if state.SortColumn != "" && state.SortDirection != SortNone {
		sortRows(rows, state.SortColumn, state.SortDirection)
	}

	return View{Rows: rows, Count: len(rows)}
}

// passesColumnFilters checks the per-column allowed-value sets. An empty set
// means the column is unrestricted, not that nothing passes.
func passesColumnFilters(k AggregatedKeyword, filters map[Column]map[string]struct{}) bool {
	for column, allowed := range filters {
		if len(allowed) == 0 {
			continue
		}
		if _, ok := allowed[FilterValue(k, column)]; !ok {
			return false
		}
	}
	return true
}

// FilterValue renders the column's value the way filter sets encode it:
// keyword raw, membership columns as counts, money and conversions with two
// decimals.
func FilterValue(k AggregatedKeyword, column Column) string {
	switch column {
	case ColumnKeyword:
		return k.Keyword
	case ColumnProperties:
		return strconv.Itoa(k.PropertyCount())
	case ColumnCampaigns:
		return strconv.Itoa(k.CampaignCount())
	case ColumnConversions:
		return strconv.FormatFloat(k.Conversions, 'f', 2, 64)
	case ColumnCost:
		return strconv.FormatFloat(k.Cost, 'f', 2, 64)
	}
	return ""
}

func sortRows(rows []AggregatedKeyword, column Column, direction SortDirection) {
	var less func(a, b AggregatedKeyword) bool
	switch column {
	case ColumnKeyword:
		less = func(a, b AggregatedKeyword) bool {
			return localeCollator.CompareString(a.Keyword, b.Keyword) < 0
		}
	case ColumnProperties:
		less = func(a, b AggregatedKeyword) bool { return a.PropertyCount() < b.PropertyCount() }
	case ColumnCampaigns:
		less = func(a, b AggregatedKeyword) bool { return a.CampaignCount() < b.CampaignCount() }
	case ColumnConversions:
		less = func(a, b AggregatedKeyword) bool { return a.Conversions < b.Conversions }
	case ColumnCost:
		less = func(a, b AggregatedKeyword) bool { return a.Cost < b.Cost }
	default:
		return
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if direction == SortDesc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}

// ColumnValues lists the distinct values the column takes across the entire
// unfiltered set, for building filter choices. Keyword values sort
// lexicographically, the rest numerically.
func ColumnValues(keywords []AggregatedKeyword, column Column) []string {
	seen := make(map[string]struct{}, len(keywords))
	values := make([]string, 0, len(keywords))
	for _, k := range keywords {
		v := FilterValue(k, column)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}

	if column == ColumnKeyword {
		sort.Strings(values)
		return values
	}
	sort.Slice(values, func(i, j int) bool {
		a, _ := strconv.ParseFloat(values[i], 64)
		b, _ := strconv.ParseFloat(values[j], 64)
		return a < b
	})
	return values
}
