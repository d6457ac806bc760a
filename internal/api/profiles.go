package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tailwag/dog-nutrition-backend/internal/profile"
	"github.com/tailwag/dog-nutrition-backend/internal/store"
)

// ─── POST /api/profile ────────────────────────────────────────────────────────

// handleCreateProfile normalizes the raw payload into a canonical record and
// appends it to the encrypted collection. Creation never rejects on content:
// garbage fields coerce to zero values.
func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var payload profile.Payload
	if !decode(w, r, &payload) {
		return
	}

	rec := profile.New(payload, currentUser(r))
	if err := s.profiles.Upsert(rec); err != nil {
		s.respondStoreErr(w, r, err)
		return
	}

	respond(w, http.StatusOK, map[string]string{"status": "ok", "dog_id": rec.DogID})
}

// ─── GET /api/profile/{dogID} ─────────────────────────────────────────────────

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	dogID := chi.URLParam(r, "dogID")

	c, err := s.profiles.Load()
	if err != nil {
		s.respondStoreErr(w, r, err)
		return
	}

	rec, ok := c[dogID]
	if !ok {
		respondErr(w, http.StatusNotFound, "not found")
		return
	}
	if rec.Owner != currentUser(r) {
		respondErr(w, http.StatusForbidden, "forbidden")
		return
	}
	respond(w, http.StatusOK, map[string]any{"profile": rec})
}

// ─── HELPERS ─────────────────────────────────────────────────────────────────

// respondStoreErr maps profile store failures to responses. Configuration and
// corruption problems are operator errors, so the message names them instead
// of hiding behind a generic 500.
func (s *Server) respondStoreErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrKeyNotConfigured):
		s.logger.Error("profile store key not configured", "path", r.URL.Path)
		respondErr(w, http.StatusInternalServerError, "profile store key not configured")
	case errors.Is(err, store.ErrCorrupted):
		s.logger.Error("profile store corrupted", "error", err, "path", r.URL.Path)
		respondErr(w, http.StatusInternalServerError, "profile store corrupted")
	default:
		s.respondInternalErr(w, r, err)
	}
}
