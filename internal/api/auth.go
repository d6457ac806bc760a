package api

import (
	"errors"
	"net/http"

	"github.com/tailwag/dog-nutrition-backend/internal/auth"
)

// ─── POST /api/register ───────────────────────────────────────────────────────

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		respondErr(w, http.StatusBadRequest, "username and password required")
		return
	}

	switch err := s.auth.Register(req.Username, req.Password); {
	case errors.Is(err, auth.ErrUserExists):
		respondErr(w, http.StatusBadRequest, "user exists")
	case err != nil:
		s.respondInternalErr(w, r, err)
	default:
		respond(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ─── POST /api/login ──────────────────────────────────────────────────────────

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		respondErr(w, http.StatusBadRequest, "username and password required")
		return
	}

	token, err := s.auth.Login(req.Username, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondErr(w, http.StatusUnauthorized, "invalid credentials")
		return
	case err != nil:
		s.respondInternalErr(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.cfg.Env == "production",
	})
	respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ─── POST /api/logout ─────────────────────────────────────────────────────────

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Logout(currentToken(r))

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ─── GET /api/profile-check ───────────────────────────────────────────────────

// handleProfileCheck reports the session state without requiring one — the
// frontend calls it on page load to decide which view to show.
func (s *Server) handleProfileCheck(w http.ResponseWriter, r *http.Request) {
	if token := sessionToken(r); token != "" {
		if username, ok := s.auth.CurrentUser(token); ok {
			respond(w, http.StatusOK, map[string]any{"logged_in": true, "username": username})
			return
		}
	}
	respond(w, http.StatusOK, map[string]any{"logged_in": false})
}
