package api

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brightdev/amazon-search-api/internal/config"
	"github.com/brightdev/amazon-search-api/internal/monitoring"
)

// NewRouter assembles the middleware stack and routes. The request timeout
// leaves headroom over the upstream fetch timeout so the fetch error, not the
// middleware deadline, decides the response.
func NewRouter(h *Handlers, cfg *config.Config, logger *slog.Logger, metrics *monitoring.Metrics) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(Recoverer(logger, metrics, cfg.IsProduction()))
	r.Use(middleware.Timeout(cfg.FetchTimeout + 30*time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/search", h.Search)
	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
