// Package auth handles user registration, credential verification, and
// session tokens. Credentials live bcrypt-hashed in the users file; sessions
// are in-memory tokens delivered to the browser as an HttpOnly cookie.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/tailwag/dog-nutrition-backend/internal/store"
)

var (
	// ErrInvalidCredentials indicates a wrong username or password. The two
	// cases are deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("auth: invalid username or password")

	// ErrUserExists indicates a registration attempt for a taken username.
	ErrUserExists = errors.New("auth: user already exists")
)

// Service performs registration and login against the user store and manages
// session tokens.
type Service struct {
	users    *store.UserStore
	sessions *SessionManager
}

// NewService constructs the auth service.
func NewService(users *store.UserStore, sessions *SessionManager) *Service {
	return &Service{users: users, sessions: sessions}
}

// Register creates a new user with a bcrypt-hashed password.
func (s *Service) Register(username, password string) error {
	_, exists, err := s.users.Get(username)
	if err != nil {
		return fmt.Errorf("auth: lookup user: %w", err)
	}
	if exists {
		return ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("auth: hash password: %w", err)
	}
	if err := s.users.Put(username, store.UserRecord{Password: string(hash)}); err != nil {
		return fmt.Errorf("auth: save user: %w", err)
	}
	return nil
}

// Login verifies the credentials and issues a session token.
func (s *Service) Login(username, password string) (string, error) {
	rec, exists, err := s.users.Get(username)
	if err != nil {
		return "", fmt.Errorf("auth: lookup user: %w", err)
	}
	if !exists {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.sessions.Create(username)
}

// Logout invalidates the session token.
func (s *Service) Logout(token string) {
	s.sessions.Delete(token)
}

// CurrentUser resolves a session token to its username. ok is false for
// unknown and expired tokens.
func (s *Service) CurrentUser(token string) (username string, ok bool) {
	return s.sessions.Lookup(token)
}
