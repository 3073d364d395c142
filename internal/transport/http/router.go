// Package httptransport assembles the public HTTP surface from the
// per-domain handlers.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"civitas/internal/platform/middleware"
	"civitas/internal/platform/redis"
	"civitas/pkg/platform/httputil"
)

// Registrar is implemented by every domain handler.
type Registrar interface {
	Register(r chi.Router)
}

// Deps carries everything the router mounts.
type Deps struct {
	Logger   *slog.Logger
	Handlers []Registrar
	Redis    *redis.Client
}

// NewRouter wires all public endpoints plus the operational ones.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	for _, h := range deps.Handlers {
		h.Register(r)
	}

	r.Get("/healthz", handleHealth(deps))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

func handleHealth(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok"}
		code := http.StatusOK
		if deps.Redis != nil {
			if err := deps.Redis.Health(r.Context()); err != nil {
				status["status"] = "degraded"
				status["redis"] = err.Error()
				code = http.StatusServiceUnavailable
				if deps.Logger != nil {
					deps.Logger.WarnContext(r.Context(), "redis health check failed", "error", err.Error())
				}
			}
		}
		httputil.WriteJSON(w, code, status)
	}
}
