package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/globequiz/internal/handler/health"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Sessions *Sessions
	Broker   *Broker
	Checks   map[string]health.Checker
	SPADir   string
}

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	sessions, broker := deps.Sessions, deps.Broker

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Globe Quiz API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(logger, deps.Checks).Routes())

	r.Get("/api/countries", handleCountries(sessions))
	r.Post("/api/sessions", handleCreateSession(logger, sessions))

	r.Route("/api/sessions/{id}", func(r chi.Router) {
		r.Use(sessionMiddleware)
		r.Get("/", handleGetSession(logger, sessions))
		r.Post("/start", handleStart(logger, sessions))
		r.Post("/guesses", handleGuess(logger, sessions))
		r.Post("/select", handleSelect(logger, sessions))
		r.Put("/mode", handleMode(logger, sessions))
		r.Put("/settings", handleSettings(logger, sessions))
		r.Get("/polygons", handlePolygons(logger, sessions))
		r.Get("/names", handleNames(logger, sessions))
		r.Get("/events", handleEvents(logger, sessions, broker))
		r.Get("/play", handlePlay(logger, sessions))
	})

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}
