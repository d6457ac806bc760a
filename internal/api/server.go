// Package api implements the HTTP layer. Handlers are methods on *Server.
// Each handler file is responsible for one resource group and only imports
// the dependencies it actually uses.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tailwag/dog-nutrition-backend/internal/assessment"
	"github.com/tailwag/dog-nutrition-backend/internal/auth"
	"github.com/tailwag/dog-nutrition-backend/internal/profile"
)

// Config holds values read from environment variables at startup.
type Config struct {
	// Env is "production", "staging", or "development". Production marks the
	// session cookie Secure.
	Env string

	// StaticDir, when non-empty, is served at / for the bundled frontend.
	StaticDir string
}

// ProfileWriter is the slice of the profile store the handlers use.
type ProfileWriter interface {
	Load() (profile.Collection, error)
	Upsert(profile.Record) error
}

// Assessor runs one assessment. Satisfied by *assessment.Orchestrator.
type Assessor interface {
	Assess(ctx context.Context, req assessment.Request, currentUser string) (assessment.Result, error)
}

// Server holds all shared dependencies. Each handler file attaches methods to
// this type and uses only the fields it needs.
type Server struct {
	auth     *auth.Service
	profiles ProfileWriter
	assessor Assessor
	cfg      Config
	logger   *slog.Logger
}

// NewServer constructs the Server and wires the chi router. The returned
// http.Handler is ready to pass to http.ListenAndServe.
func NewServer(
	authSvc *auth.Service,
	profiles ProfileWriter,
	assessor Assessor,
	cfg Config,
	logger *slog.Logger,
) http.Handler {
	s := &Server{
		auth:     authSvc,
		profiles: profiles,
		assessor: assessor,
		cfg:      cfg,
		logger:   logger,
	}

	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// ── Global middleware ─────────────────────────────────────────────────────
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(middleware.Recoverer)
	// Generous — the recommendations endpoint blocks on the Gemini call.
	r.Use(middleware.Timeout(2 * time.Minute))

	// ── Health ────────────────────────────────────────────────────────────────
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// ── API ───────────────────────────────────────────────────────────────────
	r.Route("/api", func(r chi.Router) {

		// No session required.
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Get("/profile-check", s.handleProfileCheck)

		// Session-scoped routes.
		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Post("/logout", s.handleLogout)
			r.Post("/profile", s.handleCreateProfile)
			r.Get("/profile/{dogID}", s.handleGetProfile)
			r.Post("/recommendations", s.handleRecommendations)
		})
	})

	// ── Frontend ──────────────────────────────────────────────────────────────
	if s.cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.cfg.StaticDir)))
	}

	return r
}
