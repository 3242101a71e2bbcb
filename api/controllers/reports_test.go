package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/daniyalishaq1/data-aggregator/internal/ingest"
	"github.com/daniyalishaq1/data-aggregator/internal/report"
	"github.com/daniyalishaq1/data-aggregator/internal/workspace"
	"github.com/daniyalishaq1/data-aggregator/pkg/config"
	"github.com/daniyalishaq1/data-aggregator/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func testConfig() *config.Config {
	return &config.Config{
		App:    config.AppConfig{Env: "test", Port: "0"},
		Ingest: config.IngestConfig{MaxUploadMB: 5},
	}
}

func testWorkbook(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), "January"); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	rows := [][]any{
		{"Keyword", "Campaign", "Ad Group", "Conversions", "Cost"},
		{"running shoes", "Brand", "Shoes", 5, "$20.00"},
		{"sandals", "Generic", "Summer", 2, "$6.00"},
		{"", "Generic", "Summer", 1, "$1.00"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		row := row
		if err := f.SetSheetRow("January", cell, &row); err != nil {
			t.Fatalf("write row: %v", err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatalf("serialize workbook: %v", err)
	}
	return buf.Bytes()
}

func uploadRequest(t *testing.T, filename string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func loadedWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()

	result := report.Aggregate([]report.Sheet{{
		Name: "January",
		Rows: []report.RawRow{
			{
				Columns: []string{"Keyword", "Campaign", "Conversions", "Cost"},
				Cells:   map[string]any{"Keyword": "running shoes", "Campaign": "Brand", "Conversions": "5", "Cost": "20"},
			},
			{
				Columns: []string{"Keyword", "Campaign", "Conversions", "Cost"},
				Cells:   map[string]any{"Keyword": "sandals", "Campaign": "Generic", "Conversions": "2", "Cost": "6"},
			},
		},
	}})

	ws := workspace.New()
	ws.Replace(workspace.Snapshot{
		Filename:   "seed.xlsx",
		RawBytes:   []byte("seed"),
		SheetNames: []string{"January"},
		Result:     result,
		Buckets:    report.Score(result.Keywords),
	})
	return ws
}

func TestParseQueryState(t *testing.T) {
	t.Parallel()
	state, err := parseQueryState(url.Values{
		"search":      {"shoes"},
		"bucket":      {"3"},
		"sort":        {"cost"},
		"dir":         {"desc"},
		"filter.cost": {"20.00", "6.00"},
	})
	if err != nil {
		t.Fatalf("parse query state: %v", err)
	}
	if state.Search != "shoes" || state.Bucket != 3 {
		t.Fatalf("unexpected state %+v", state)
	}
	if state.SortColumn != report.ColumnCost || state.SortDirection != report.SortDesc {
		t.Fatalf("unexpected sort %+v", state)
	}
	if len(state.ColumnFilters[report.ColumnCost]) != 2 {
		t.Fatalf("unexpected filters %+v", state.ColumnFilters)
	}
}

func TestParseQueryStateDefaults(t *testing.T) {
	t.Parallel()
	state, err := parseQueryState(url.Values{"bucket": {"all"}})
	if err != nil {
		t.Fatalf("parse query state: %v", err)
	}
	if state.Bucket != report.BucketAll {
		t.Fatalf("expected bucket all, got %d", state.Bucket)
	}
	if state.SortColumn != "" {
		t.Fatalf("expected no sort, got %v", state.SortColumn)
	}
}

func TestParseQueryStateRejectsBadInput(t *testing.T) {
	t.Parallel()
	cases := []url.Values{
		{"bucket": {"9"}},
		{"bucket": {"x"}},
		{"sort": {"cpa"}},
		{"sort": {"cost"}, "dir": {"sideways"}},
		{"filter.cpa": {"1"}},
	}
	for _, q := range cases {
		if _, err := parseQueryState(q); err == nil {
			t.Fatalf("expected error for %v", q)
		}
	}
}

func TestReportProcessSuccess(t *testing.T) {
	t.Parallel()
	ws := workspace.New()
	handler := ReportProcess(ingest.NewProcessor(nil), ws, testConfig(), testLogger())

	resp := httptest.NewRecorder()
	handler(resp, uploadRequest(t, "report.xlsx", testWorkbook(t)))

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data viewDTO `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Filename != "report.xlsx" {
		t.Fatalf("unexpected filename %q", envelope.Data.Filename)
	}
	if envelope.Data.Count != 2 || len(envelope.Data.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %+v", envelope.Data)
	}
	if envelope.Data.Rows[0].Keyword != "running shoes" {
		t.Fatalf("expected conversions-descending order, got %+v", envelope.Data.Rows)
	}

	snap, ok := ws.Current()
	if !ok || snap.Filename != "report.xlsx" {
		t.Fatalf("workspace not replaced: %+v/%v", snap, ok)
	}
	if snap.Result.RowsDropped != 1 {
		t.Fatalf("expected 1 dropped row, got %d", snap.Result.RowsDropped)
	}
}

func TestReportProcessRejectsBadExtension(t *testing.T) {
	t.Parallel()
	ws := workspace.New()
	handler := ReportProcess(ingest.NewProcessor(nil), ws, testConfig(), testLogger())

	resp := httptest.NewRecorder()
	handler(resp, uploadRequest(t, "report.csv", []byte("a,b,c")))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if _, ok := ws.Current(); ok {
		t.Fatal("rejected upload must not touch the workspace")
	}
}

func TestReportProcessKeepsPreviousDatasetOnFailure(t *testing.T) {
	t.Parallel()
	ws := loadedWorkspace(t)
	handler := ReportProcess(ingest.NewProcessor(nil), ws, testConfig(), testLogger())

	resp := httptest.NewRecorder()
	handler(resp, uploadRequest(t, "broken.xlsx", []byte("not a workbook")))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	snap, ok := ws.Current()
	if !ok || snap.Filename != "seed.xlsx" {
		t.Fatalf("previous dataset must survive a failed upload, got %+v/%v", snap, ok)
	}
}

func TestReportViewNoDataset(t *testing.T) {
	t.Parallel()
	handler := ReportView(workspace.New(), testLogger())

	resp := httptest.NewRecorder()
	handler(resp, httptest.NewRequest(http.MethodGet, "/api/v1/reports/current", nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestReportViewAppliesQuery(t *testing.T) {
	t.Parallel()
	handler := ReportView(loadedWorkspace(t), testLogger())

	resp := httptest.NewRecorder()
	handler(resp, httptest.NewRequest(http.MethodGet, "/api/v1/reports/current?search=sand", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data viewDTO `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Count != 1 || envelope.Data.Rows[0].Keyword != "sandals" {
		t.Fatalf("unexpected view %+v", envelope.Data)
	}
	// Summary always covers the full dataset, not the filtered view.
	if envelope.Data.Summary.TotalKeywords != 2 {
		t.Fatalf("summary must ignore filters, got %+v", envelope.Data.Summary)
	}
}

func TestReportViewRejectsBadQuery(t *testing.T) {
	t.Parallel()
	handler := ReportView(loadedWorkspace(t), testLogger())

	resp := httptest.NewRecorder()
	handler(resp, httptest.NewRequest(http.MethodGet, "/api/v1/reports/current?bucket=9", nil))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestReportValues(t *testing.T) {
	t.Parallel()
	handler := ReportValues(loadedWorkspace(t), testLogger())

	resp := httptest.NewRecorder()
	handler(resp, httptest.NewRequest(http.MethodGet, "/api/v1/reports/current/values?column=cost", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data struct {
			Column string   `json:"column"`
			Values []string `json:"values"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Column != "cost" {
		t.Fatalf("unexpected column %q", envelope.Data.Column)
	}
	want := []string{"6.00", "20.00"}
	if len(envelope.Data.Values) != len(want) || envelope.Data.Values[0] != want[0] || envelope.Data.Values[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, envelope.Data.Values)
	}
}

func TestReportExport(t *testing.T) {
	t.Parallel()
	handler := ReportExport(loadedWorkspace(t), testLogger())

	resp := httptest.NewRecorder()
	handler(resp, httptest.NewRequest(http.MethodGet, "/api/v1/reports/current/export", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := resp.Header().Get("Content-Disposition"); cd == "" {
		t.Fatal("expected an attachment disposition")
	}

	f, err := excelize.OpenReader(bytes.NewReader(resp.Body.Bytes()))
	if err != nil {
		t.Fatalf("reopen exported workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Aggregated Report")
	if err != nil {
		t.Fatalf("read exported rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[1][0] != "running shoes" {
		t.Fatalf("unexpected first exported keyword %q", rows[1][0])
	}
}
