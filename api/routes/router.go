package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/daniyalishaq1/data-aggregator/api/controllers"
	"github.com/daniyalishaq1/data-aggregator/api/middleware"
	"github.com/daniyalishaq1/data-aggregator/internal/datasets"
	"github.com/daniyalishaq1/data-aggregator/internal/ingest"
	"github.com/daniyalishaq1/data-aggregator/internal/workspace"
	"github.com/daniyalishaq1/data-aggregator/pkg/config"
	"github.com/daniyalishaq1/data-aggregator/pkg/db"
	"github.com/daniyalishaq1/data-aggregator/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	gatherer prometheus.Gatherer,
	proc *ingest.Processor,
	ws *workspace.Workspace,
	datasetService datasets.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/reports", func(r chi.Router) {
			r.Post("/", controllers.ReportProcess(proc, ws, cfg, logg))
			r.Route("/current", func(r chi.Router) {
				r.Get("/", controllers.ReportView(ws, logg))
				r.Get("/values", controllers.ReportValues(ws, logg))
				r.Get("/export", controllers.ReportExport(ws, logg))
			})
		})

		r.Route("/files", func(r chi.Router) {
			r.Post("/", controllers.FilesSave(datasetService, ws, logg))
			r.Get("/", controllers.FilesList(datasetService, logg))
			r.Route("/{uploadId}", func(r chi.Router) {
				r.Get("/", controllers.FilesGet(datasetService, logg))
				r.Post("/load", controllers.FilesLoad(datasetService, proc, ws, logg))
				r.Delete("/", controllers.FilesDelete(datasetService, logg))
				r.Get("/statistics", controllers.FilesStatistics(datasetService, logg))
			})
		})
	})

	return r
}
