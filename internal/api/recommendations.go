package api

import (
	"errors"
	"net/http"

	"github.com/tailwag/dog-nutrition-backend/internal/assessment"
)

// ─── POST /api/recommendations ────────────────────────────────────────────────

// handleRecommendations runs one assessment for the authenticated owner. The
// deterministic block always computes; refinement runs unless the request
// opts out, and its failures come back inside the response body.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req assessment.Request
	if !decode(w, r, &req) {
		return
	}

	result, err := s.assessor.Assess(r.Context(), req, currentUser(r))
	switch {
	case errors.Is(err, assessment.ErrProfileRequired):
		respondErr(w, http.StatusBadRequest, "profile required")
	case errors.Is(err, assessment.ErrNotFound):
		respondErr(w, http.StatusNotFound, "profile not found")
	case errors.Is(err, assessment.ErrForbidden):
		respondErr(w, http.StatusForbidden, "forbidden")
	case err != nil:
		s.respondStoreErr(w, r, err)
	default:
		respond(w, http.StatusOK, result)
	}
}
