package gamehttp

import (
	"github.com/Black-And-White-Club/coinche-bot/pkg/jwt"
	"github.com/go-chi/chi/v5"
)

// RouteConfig holds the cross-cutting middleware settings of the API.
type RouteConfig struct {
	AllowedOrigins []string
	Limiter        *IPRateLimiter
	Tokens         jwt.Service
}

// RegisterRoutes mounts the API under /api. Reads are public, mutations
// need a scorer token.
func RegisterRoutes(router chi.Router, h *GameHTTPHandlers, cfg RouteConfig) {
	router.Route("/api", func(r chi.Router) {
		r.Use(CORSMiddleware(cfg.AllowedOrigins))
		if cfg.Limiter != nil {
			r.Use(RateLimitMiddleware(cfg.Limiter))
		}

		r.Get("/values", h.HandleValues)
		r.Post("/rounds/validate", h.HandleValidateRound)
		r.Post("/rounds/score", h.HandleScoreRound)

		r.Get("/games/{gameID}", h.HandleGetGame)
		r.Get("/games/{gameID}/statistics", h.HandleStatistics)
		r.Get("/games/{gameID}/chart.png", h.HandleChart)
		r.Get("/games/{gameID}/scoresheet.xlsx", h.HandleExportScoresheet)

		r.Group(func(r chi.Router) {
			r.Use(RequireRole(cfg.Tokens, jwt.RoleScorer))

			r.Post("/games", h.HandleCreateGame)
			r.Post("/games/import", h.HandleImportScoresheet)
			r.Post("/games/{gameID}/rounds", h.HandleAddRound)
			r.Delete("/games/{gameID}/rounds/last", h.HandleUndoRound)
			r.Post("/games/{gameID}/restart", h.HandleRestartGame)
			r.Put("/games/{gameID}/teams/{team}", h.HandleRenameTeam)
			r.Put("/games/{gameID}/seating", h.HandleSetSeating)
		})
	})
}
