package controllers

import (
	"context"
	"net/http"

	"github.com/marlowpress/storefront-backend/api/responses"
	"github.com/marlowpress/storefront-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Healthz reports process liveness plus dependency reachability.
func Healthz(dbPinger pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok"}
		if dbPinger != nil {
			if err := dbPinger.Ping(r.Context()); err != nil {
				if logg != nil {
					logg.Error(r.Context(), "health check db ping failed", err)
				}
				status["status"] = "degraded"
				status["db"] = "unreachable"
				responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, status)
				return
			}
		}
		responses.WriteSuccess(w, status)
	}
}
