package report

import "testing"

func TestFindColumnSubstringMatch(t *testing.T) {
	t.Parallel()
	row := RawRow{
		Columns: []string{"Search Keyword", "Total Conversions"},
		Cells: map[string]any{
			"Search Keyword":    "hats",
			"Total Conversions": "3",
		},
	}

	value, ok := FindColumn(row, "keyword")
	if !ok || value != "hats" {
		t.Fatalf("expected substring match on header, got %v/%v", value, ok)
	}
	value, ok = FindColumn(row, "conversions")
	if !ok || value != "3" {
		t.Fatalf("expected conversions match, got %v/%v", value, ok)
	}
}

func TestFindColumnIsCaseInsensitive(t *testing.T) {
	t.Parallel()
	row := RawRow{
		Columns: []string{"KEYWORD"},
		Cells:   map[string]any{"KEYWORD": "hats"},
	}
	if value, ok := FindColumn(row, "Keyword"); !ok || value != "hats" {
		t.Fatalf("expected case-insensitive match, got %v/%v", value, ok)
	}
}

func TestFindColumnRespectsHeaderOrder(t *testing.T) {
	t.Parallel()
	row := RawRow{
		Columns: []string{"Cost Per Conversion", "Cost"},
		Cells: map[string]any{
			"Cost Per Conversion": "first",
			"Cost":                "second",
		},
	}
	if value, _ := FindColumn(row, "cost"); value != "first" {
		t.Fatalf("expected first matching header to win, got %v", value)
	}
}

func TestFindColumnNoMatch(t *testing.T) {
	t.Parallel()
	row := RawRow{
		Columns: []string{"Impressions"},
		Cells:   map[string]any{"Impressions": "100"},
	}
	if _, ok := FindColumn(row, "keyword"); ok {
		t.Fatal("expected no match")
	}
}
