package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"
)

type session struct {
	username  string
	expiresAt time.Time
}

// SessionManager holds active session tokens in memory. Sessions do not
// survive a restart; users simply log in again. Expired entries are evicted
// lazily on lookup.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]session
	ttl      time.Duration

	// now is swappable for expiry tests.
	now func() time.Time
}

// NewSessionManager creates a manager whose sessions live for ttl.
func NewSessionManager(ttl time.Duration) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create issues a fresh random token bound to username.
func (m *SessionManager) Create(username string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	m.sessions[token] = session{username: username, expiresAt: m.now().Add(m.ttl)}
	m.mu.Unlock()
	return token, nil
}

// Lookup returns the username bound to token, or false when the token is
// unknown or expired.
func (m *SessionManager) Lookup(token string) (string, bool) {
	m.mu.RLock()
	s, ok := m.sessions[token]
	m.mu.RUnlock()
	if !ok {
		return "", false
	}
	if m.now().After(s.expiresAt) {
		m.Delete(token)
		return "", false
	}
	return s.username, true
}

// Delete removes token. Deleting an unknown token is a no-op.
func (m *SessionManager) Delete(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// SetNowForTest overrides the manager's clock so expiry can be tested
// without sleeping.
func (m *SessionManager) SetNowForTest(now func() time.Time) {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
}

// generateToken returns 32 random bytes, URL-safe base64 encoded.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("auth: generate session token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
