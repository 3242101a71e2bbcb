package controllers

import (
	"net/http"

	"github.com/daniyalishaq1/data-aggregator/api/responses"
	"github.com/daniyalishaq1/data-aggregator/pkg/config"
	"github.com/daniyalishaq1/data-aggregator/pkg/db"
	pkgerrors "github.com/daniyalishaq1/data-aggregator/pkg/errors"
	"github.com/daniyalishaq1/data-aggregator/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Aggregator-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Aggregator-Env", cfg.App.Env)
		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
