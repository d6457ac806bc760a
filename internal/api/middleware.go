package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// ─── CONTEXT KEYS ─────────────────────────────────────────────────────────────

type contextKey string

const (
	ctxKeyUsername     contextKey = "username"
	ctxKeySessionToken contextKey = "session_token"
)

// sessionCookieName is the cookie carrying the session token.
const sessionCookieName = "session"

// ─── SESSION AUTH ─────────────────────────────────────────────────────────────

// requireSession is chi middleware that resolves the session cookie (or the
// X-Session-Token header, for non-browser clients) to a username. Handlers
// behind it can assume an authenticated owner; anything else gets a 401
// before the handler runs.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		if token == "" {
			respondErr(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		username, ok := s.auth.CurrentUser(token)
		if !ok {
			respondErr(w, http.StatusUnauthorized, "unauthenticated")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUsername, username)
		ctx = context.WithValue(ctx, ctxKeySessionToken, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionToken extracts the token from the cookie or header. Empty when
// neither is present.
func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return strings.TrimSpace(r.Header.Get("X-Session-Token"))
}

// currentUser returns the username stored by requireSession.
func currentUser(r *http.Request) string {
	username, _ := r.Context().Value(ctxKeyUsername).(string)
	return username
}

// currentToken returns the session token stored by requireSession.
func currentToken(r *http.Request) string {
	token, _ := r.Context().Value(ctxKeySessionToken).(string)
	return token
}

// ─── LOGGER MIDDLEWARE ────────────────────────────────────────────────────────

// loggerMiddleware logs each request with method, path, status, and duration.
func (s *Server) loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("http",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// ─── RESPONSE HELPERS ─────────────────────────────────────────────────────────

// respond writes a JSON body with the given status code.
func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// respondErr writes a standard JSON error envelope.
func respondErr(w http.ResponseWriter, status int, message string) {
	respond(w, status, map[string]string{"error": message})
}

// respondInternalErr logs an unexpected error and returns a 500 to the client
// without leaking internal details.
func (s *Server) respondInternalErr(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("internal error",
		"error", err,
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
	)
	respondErr(w, http.StatusInternalServerError, "internal server error")
}

// ─── REQUEST PARSING HELPERS ─────────────────────────────────────────────────

// decode JSON-decodes r.Body into dst. Returns false and writes 400 if the
// body is missing, malformed, or too large. Callers should return immediately
// on false.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB max
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}
