package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/daniyalishaq1/data-aggregator/api/responses"
	"github.com/daniyalishaq1/data-aggregator/api/validators"
	"github.com/daniyalishaq1/data-aggregator/internal/datasets"
	"github.com/daniyalishaq1/data-aggregator/internal/ingest"
	"github.com/daniyalishaq1/data-aggregator/internal/report"
	"github.com/daniyalishaq1/data-aggregator/internal/workspace"
	pkgerrors "github.com/daniyalishaq1/data-aggregator/pkg/errors"
	"github.com/daniyalishaq1/data-aggregator/pkg/logger"
)

func uploadIDParam(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "uploadId"))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "upload id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid upload id")
	}
	return id, nil
}

type saveRequest struct {
	Filename string `json:"filename" validate:"omitempty,min=1,max=255"`
}

// FilesSave persists the canonical dataset as a named snapshot. The body may
// override the stored filename; by default the uploaded name is kept.
func FilesSave(svc datasets.Service, ws *workspace.Workspace, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, ok := ws.Current()
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "no data to save; process a file first"))
			return
		}

		filename := snap.Filename
		if r.ContentLength > 0 {
			var body saveRequest
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if body.Filename != "" {
				filename = body.Filename
			}
		}

		id, err := svc.Save(r.Context(), datasets.SaveInput{
			Filename:   filename,
			RawBytes:   snap.RawBytes,
			SheetNames: snap.SheetNames,
			Keywords:   snap.Result.Keywords,
			Details:    snap.Result.Details,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithUploadID(r.Context(), id.String())
		logg.Info(ctx, "snapshot saved")

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"id":       id,
			"filename": filename,
		})
	}
}

// FilesList returns all saved snapshots, newest first.
func FilesList(svc datasets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summaries, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summaries)
	}
}

// FilesGet returns one snapshot with its keyword and detail rows.
func FilesGet(svc datasets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uploadIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}

// FilesLoad rebuilds a saved snapshot into the canonical dataset: the
// persisted summaries lack the property/campaign sets, so aggregation and
// scoring rerun over the stored detail rows.
func FilesLoad(svc datasets.Service, proc *ingest.Processor, ws *workspace.Workspace, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uploadIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result := proc.Reaggregate("load", datasets.RebuildSheets(snapshot.Details))
		next := workspace.Snapshot{
			Filename:   snapshot.Filename,
			RawBytes:   snapshot.RawBytes,
			SheetNames: snapshot.SheetNames,
			Result:     result,
			Buckets:    report.Score(result.Keywords),
		}
		ws.Replace(next)

		ctx := logg.WithUploadID(r.Context(), id.String())
		logg.Info(ctx, "snapshot loaded")

		responses.WriteSuccess(w, viewResponse(next, report.QueryState{}))
	}
}

// FilesDelete removes one snapshot and its rows.
func FilesDelete(svc datasets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uploadIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithUploadID(r.Context(), id.String())
		logg.Info(ctx, "snapshot deleted")

		responses.WriteSuccess(w, map[string]any{"deleted": true})
	}
}

// FilesStatistics reports aggregate numbers over one snapshot's detail rows.
func FilesStatistics(svc datasets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uploadIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.Statistics(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
