// Package api assembles the HTTP surface: middleware, CORS, rate limiting
// and routes over the store.
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/albapepper/courtside-data/internal/api/handler"
	"github.com/albapepper/courtside-data/internal/cache"
	"github.com/albapepper/courtside-data/internal/config"
	"github.com/albapepper/courtside-data/internal/predict"
	"github.com/albapepper/courtside-data/internal/store"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(st store.Store, appCache *cache.Cache, cfg *config.Config, p predict.Predictor, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS", "POST"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control", "X-API-Key"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	h := handler.New(st, appCache, cfg, p, logger)

	// --- Routes ---
	r.Get("/", h.Root)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))

	r.Route("/api", func(r chi.Router) {
		r.Get("/teams", h.ListTeams)
		r.Get("/teams/averages", h.GetTeamAverages)
		r.Get("/teams/{tid}/roster", h.GetTeamRoster)
		r.Get("/team/{id}", h.GetTeam)
		r.Get("/standings", h.GetStandings)

		r.Get("/players", h.ListPlayers)
		r.Get("/player/{id}", h.GetPlayer)
		r.Get("/player/{id}/gamelogs", h.GetPlayerGameLogs)

		r.Get("/games", h.ListGames)
		r.Get("/search", h.Search)
		r.Get("/news", h.GetNews)

		r.With(APIKeyMiddleware(cfg.APIKey)).Post("/predict/points", h.PredictPoints)
	})

	return r
}
