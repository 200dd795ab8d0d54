package server

import (
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, deps Deps) {
	broker := NewBroker()

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("BridgeTime API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(deps.Logger, deps.DB, deps.Redis))
	r.Get("/ws/echo", handleWSEcho(deps.Logger))

	// Player routes. One game per process; no player auth.
	r.Route("/api/game", func(r chi.Router) {
		r.Post("/start", handleStartGame(deps.Session, broker))
		r.Get("/state", handleGameState(deps.Session))
		r.Post("/scan", handleScan(deps.Logger, deps.Session, deps.Gate, deps.Questions, broker))
		r.Post("/answer", handleAnswer(deps.Session, broker))
		r.Post("/pause", handlePause(deps.Session))
		r.Post("/resume", handleResume(deps.Session))
		r.Post("/reset", handleReset(deps.Session, broker))
		r.Get("/events", handleEvents(broker))
	})

	r.Get("/api/settings", handleGetSettings(deps.Session))
	r.Put("/api/settings", handleUpdateSettings(deps.Session))

	// Admin authoring routes: question bank CRUD behind a cookie session.
	r.Post("/api/admin/login", handleAdminLogin(deps.DB))
	r.Post("/api/admin/logout", handleAdminLogout(deps.DB))
	r.Get("/api/admin/me", handleAdminMe(deps.DB))

	r.Route("/api/admin/questions", func(r chi.Router) {
		r.Use(adminAuthMiddleware(deps.DB))
		r.Get("/", handleAdminListQuestions(deps.Bank))
		r.Post("/", handleAdminCreateQuestion(deps.Bank, deps.Questions))
		r.Get("/{id}", handleAdminGetQuestion(deps.Bank))
		r.Put("/{id}", handleAdminUpdateQuestion(deps.Bank, deps.Questions))
		r.Delete("/{id}", handleAdminDeleteQuestion(deps.Bank, deps.Questions))
	})

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			deps.Logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}
