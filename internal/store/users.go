package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// UserRecord is one stored credential entry. Password holds the bcrypt hash,
// never plaintext.
type UserRecord struct {
	Password string `json:"password"`
}

// UserStore persists username → UserRecord as a plain JSON file. Credentials
// are individually hashed, so the file itself is not encrypted.
type UserStore struct {
	path string
	mu   sync.Mutex
}

// NewUserStore builds a store over path.
func NewUserStore(path string) *UserStore {
	return &UserStore{path: path}
}

// Ensure creates the file with an empty object when missing.
func (s *UserStore) Ensure() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("store: stat %s: %w", s.path, err)
	}
	if err := os.WriteFile(s.path, []byte("{}"), 0o600); err != nil {
		return fmt.Errorf("store: create %s: %w", s.path, err)
	}
	return nil
}

// Get returns the record for username and whether it exists.
func (s *UserStore) Get(username string) (UserRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return UserRecord{}, false, err
	}
	rec, ok := users[username]
	return rec, ok, nil
}

// Put writes or replaces the record for username, rewriting the whole file.
func (s *UserStore) Put(username string, rec UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return err
	}
	users[username] = rec
	return s.save(users)
}

func (s *UserStore) load() (map[string]UserRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && len(data) == 0) {
		return map[string]UserRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", s.path, err)
	}
	var users map[string]UserRecord
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("store: parse %s: %w", s.path, err)
	}
	if users == nil {
		users = map[string]UserRecord{}
	}
	return users, nil
}

func (s *UserStore) save(users map[string]UserRecord) error {
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("store: marshal users: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".users-*")
	if err != nil {
		return fmt.Errorf("store: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("store: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: replace users file: %w", err)
	}
	return nil
}
