package auth_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/tailwag/dog-nutrition-backend/internal/auth"
	"github.com/tailwag/dog-nutrition-backend/internal/store"
)

func newService(t *testing.T) *auth.Service {
	t.Helper()
	users := store.NewUserStore(filepath.Join(t.TempDir(), "users.json"))
	return auth.NewService(users, auth.NewSessionManager(time.Hour))
}

func TestRegisterAndLogin(t *testing.T) {
	s := newService(t)

	if err := s.Register("alice", "s3cret"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, err := s.Login("alice", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("expected a session token")
	}

	username, ok := s.CurrentUser(token)
	if !ok || username != "alice" {
		t.Errorf("CurrentUser: got %q ok=%v", username, ok)
	}
}

func TestRegister_DuplicateUser(t *testing.T) {
	s := newService(t)
	if err := s.Register("alice", "one"); err != nil {
		t.Fatal(err)
	}
	if err := s.Register("alice", "two"); !errors.Is(err, auth.ErrUserExists) {
		t.Errorf("got %v, want ErrUserExists", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	s := newService(t)
	if err := s.Register("alice", "right"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Login("alice", "wrong"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("got %v, want ErrInvalidCredentials", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	s := newService(t)
	if _, err := s.Login("nobody", "pw"); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("got %v, want ErrInvalidCredentials", err)
	}
}

func TestLogout_InvalidatesToken(t *testing.T) {
	s := newService(t)
	if err := s.Register("alice", "pw"); err != nil {
		t.Fatal(err)
	}
	token, err := s.Login("alice", "pw")
	if err != nil {
		t.Fatal(err)
	}

	s.Logout(token)
	if _, ok := s.CurrentUser(token); ok {
		t.Error("token should be invalid after logout")
	}
}

func TestCurrentUser_UnknownToken(t *testing.T) {
	s := newService(t)
	if _, ok := s.CurrentUser("never-issued"); ok {
		t.Error("unknown token should not resolve")
	}
}

func TestSessionExpiry(t *testing.T) {
	m := auth.NewSessionManager(time.Minute)
	token, err := m.Create("alice")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := m.Lookup(token); !ok {
		t.Fatal("fresh token should resolve")
	}

	m.SetNowForTest(func() time.Time { return time.Now().Add(2 * time.Minute) })
	if _, ok := m.Lookup(token); ok {
		t.Error("expired token should not resolve")
	}
}
