package controllers

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/daniyalishaq1/data-aggregator/api/responses"
	"github.com/daniyalishaq1/data-aggregator/internal/ingest"
	"github.com/daniyalishaq1/data-aggregator/internal/report"
	"github.com/daniyalishaq1/data-aggregator/internal/workspace"
	"github.com/daniyalishaq1/data-aggregator/pkg/config"
	pkgerrors "github.com/daniyalishaq1/data-aggregator/pkg/errors"
	"github.com/daniyalishaq1/data-aggregator/pkg/logger"
)

const uploadFieldName = "file"

// filterParamPrefix marks query parameters carrying per-column allowed
// values, e.g. filter.cost=7.50&filter.cost=12.00.
const filterParamPrefix = "filter."

type keywordRowDTO struct {
	Keyword       string                  `json:"keyword"`
	Conversions   float64                 `json:"conversions"`
	Cost          float64                 `json:"cost"`
	PropertyCount int                     `json:"property_count"`
	CampaignCount int                     `json:"campaign_count"`
	Bucket        int                     `json:"bucket"`
	Breakdown     []report.BreakdownEntry `json:"breakdown"`
}

type viewDTO struct {
	Filename string          `json:"filename"`
	Summary  report.Summary  `json:"summary"`
	Count    int             `json:"count"`
	Rows     []keywordRowDTO `json:"rows"`
}

func viewResponse(snap workspace.Snapshot, state report.QueryState) viewDTO {
	view := report.Project(snap.Result.Keywords, snap.Buckets, state)
	rows := make([]keywordRowDTO, 0, len(view.Rows))
	for _, k := range view.Rows {
		rows = append(rows, keywordRowDTO{
			Keyword:       k.Keyword,
			Conversions:   k.Conversions,
			Cost:          k.Cost,
			PropertyCount: k.PropertyCount(),
			CampaignCount: k.CampaignCount(),
			Bucket:        snap.Buckets[k.Keyword],
			Breakdown:     k.Breakdown,
		})
	}
	return viewDTO{
		Filename: snap.Filename,
		Summary:  report.Summarize(snap.Result.Keywords, snap.Result.SheetsProcessed),
		Count:    view.Count,
		Rows:     rows,
	}
}

func parseQueryState(q url.Values) (report.QueryState, error) {
	state := report.QueryState{
		Search: q.Get("search"),
		Bucket: report.BucketAll,
	}

	if raw := strings.TrimSpace(q.Get("bucket")); raw != "" && !strings.EqualFold(raw, "all") {
		bucket, err := strconv.Atoi(raw)
		if err != nil || bucket < 1 || bucket > report.WorstBucket {
			return state, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid bucket %q", raw))
		}
		state.Bucket = bucket
	}

	if raw := strings.TrimSpace(q.Get("sort")); raw != "" {
		column, err := report.ParseColumn(raw)
		if err != nil {
			return state, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort column")
		}
		state.SortColumn = column
		switch dir := strings.ToLower(q.Get("dir")); dir {
		case "", "asc":
			state.SortDirection = report.SortAsc
		case "desc":
			state.SortDirection = report.SortDesc
		default:
			return state, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid sort direction %q", dir))
		}
	}

	for key, values := range q {
		if !strings.HasPrefix(key, filterParamPrefix) {
			continue
		}
		column, err := report.ParseColumn(strings.TrimPrefix(key, filterParamPrefix))
		if err != nil {
			return state, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid filter column")
		}
		if state.ColumnFilters == nil {
			state.ColumnFilters = make(map[report.Column]map[string]struct{})
		}
		allowed := state.ColumnFilters[column]
		if allowed == nil {
			allowed = make(map[string]struct{})
			state.ColumnFilters[column] = allowed
		}
		for _, v := range values {
			allowed[v] = struct{}{}
		}
	}

	return state, nil
}

// ReportProcess ingests an uploaded workbook, installs it as the canonical
// dataset and returns the default projection. The workspace is only touched
// after the whole pipeline has succeeded, so a bad upload leaves the
// previous dataset in place.
func ReportProcess(proc *ingest.Processor, ws *workspace.Workspace, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if maxBytes := cfg.Ingest.MaxUploadBytes(); maxBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		}

		file, header, err := r.FormFile(uploadFieldName)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file upload is required"))
			return
		}
		defer file.Close()

		if !ingest.ValidExtension(header.Filename) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "please upload a valid Excel file (.xlsx or .xls)"))
			return
		}

		data, err := io.ReadAll(file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading upload"))
			return
		}

		result, sheetNames, err := proc.Process("upload", data)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable workbook"))
			return
		}

		snap := workspace.Snapshot{
			Filename:   header.Filename,
			RawBytes:   data,
			SheetNames: sheetNames,
			Result:     result,
			Buckets:    report.Score(result.Keywords),
		}
		ws.Replace(snap)

		ctx := logg.WithFilename(r.Context(), header.Filename)
		ctx = logg.WithFields(ctx, map[string]any{
			"sheets":       result.SheetsProcessed,
			"keywords":     len(result.Keywords),
			"rows_dropped": result.RowsDropped,
		})
		logg.Info(ctx, "workbook processed")

		responses.WriteSuccess(w, viewResponse(snap, report.QueryState{}))
	}
}

// ReportView recomputes the projection for the requested query state.
func ReportView(ws *workspace.Workspace, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, ok := ws.Current()
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no dataset loaded"))
			return
		}

		state, err := parseQueryState(r.URL.Query())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, viewResponse(snap, state))
	}
}

// ReportValues lists the distinct filter values a column takes across the
// entire unfiltered dataset.
func ReportValues(ws *workspace.Workspace, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, ok := ws.Current()
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no dataset loaded"))
			return
		}

		column, err := report.ParseColumn(r.URL.Query().Get("column"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid column"))
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"column": column,
			"values": report.ColumnValues(snap.Result.Keywords, column),
		})
	}
}

// ReportExport streams the current projection as a workbook download.
func ReportExport(ws *workspace.Workspace, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, ok := ws.Current()
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no dataset loaded"))
			return
		}

		state, err := parseQueryState(r.URL.Query())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view := report.Project(snap.Result.Keywords, snap.Buckets, state)
		filename := report.ExportFilename(time.Now())

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		if err := report.WriteWorkbook(w, report.ExportRows(view.Rows)); err != nil {
			logg.Error(r.Context(), "export write failed", err)
		}
	}
}
