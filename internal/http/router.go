package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/preston-bernstein/slate-scores-service/internal/http/handlers"
	"github.com/preston-bernstein/slate-scores-service/internal/http/middleware"
	"github.com/preston-bernstein/slate-scores-service/internal/metrics"
)

// NewRouter registers HTTP routes on a chi router. admin may be nil, in which
// case no admin routes are mounted. An empty corsOrigins list disables CORS.
func NewRouter(handler *handlers.Handler, admin *handlers.AdminHandler, logger *slog.Logger, recorder *metrics.Recorder, corsOrigins []string) nethttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logging(logger, recorder))
	if len(corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsOrigins,
			AllowedMethods: []string{nethttp.MethodGet, nethttp.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", handler.Health)
	r.Get("/ready", handler.Ready)
	r.Get("/api/sports", handler.Sports)
	r.Get("/api/slate-scores", handler.SlateScores)
	r.Get("/api/slate-scores/{gameId}", handler.GameByID)
	if admin != nil {
		r.Post("/admin/cache/refresh", admin.RefreshCache)
	}
	return r
}
