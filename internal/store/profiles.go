// Package store persists the application's two files: the encrypted profile
// collection and the users credential file. The profile collection is the
// unit of encryption — it is always loaded, sealed, and replaced whole, never
// patched in place.
//
// Dependency rule: store imports profile only. It never imports api,
// assessment, ai, or analysis.
package store

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/tailwag/dog-nutrition-backend/internal/profile"
)

var (
	// ErrKeyNotConfigured is returned when the profile store key is absent and
	// an operation needs to decrypt or encrypt the blob.
	ErrKeyNotConfigured = errors.New("store: profile store key not configured")

	// ErrCorrupted is returned when the persisted blob fails authentication,
	// decryption, or parsing. The store never returns partial data: a single
	// flipped byte anywhere in the blob surfaces as this error.
	ErrCorrupted = errors.New("store: profile blob corrupted")
)

// ProfileStore reads and writes the profile collection as one
// XChaCha20-Poly1305 sealed blob. The AEAD authenticates the ciphertext, so
// tampered or truncated files are rejected rather than decoded into garbage.
//
// A mutex serializes Load and Save within this process. Writers in other
// processes still race last-write-wins; callers needing cross-process safety
// must add an advisory file lock around the read-modify-write.
type ProfileStore struct {
	path string
	key  []byte // nil when PROFILE_STORE_KEY was not set
	mu   sync.Mutex
}

// NewProfileStore builds a store over path. base64Key is the base64-encoded
// 32-byte key; empty means unconfigured, which is not an error here — Load
// and Save report ErrKeyNotConfigured at use time so the rest of the server
// keeps working.
func NewProfileStore(path, base64Key string) (*ProfileStore, error) {
	s := &ProfileStore{path: path}
	if base64Key == "" {
		return s, nil
	}
	key, err := base64.StdEncoding.DecodeString(base64Key)
	if err != nil {
		return nil, fmt.Errorf("store: decode profile store key: %w", err)
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("store: profile store key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	s.key = key
	return s, nil
}

// Ensure creates the blob file (empty) when missing, so the data directory is
// fully materialized before first use.
func (s *ProfileStore) Ensure() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("store: stat %s: %w", s.path, err)
	}
	if err := os.WriteFile(s.path, nil, 0o600); err != nil {
		return fmt.Errorf("store: create %s: %w", s.path, err)
	}
	return nil
}

// Load reads and decrypts the whole collection. An absent or empty file is an
// empty collection, even when no key is configured.
func (s *ProfileStore) Load() (profile.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *ProfileStore) load() (profile.Collection, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && len(data) == 0) {
		return profile.Collection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", s.path, err)
	}
	if s.key == nil {
		return nil, ErrKeyNotConfigured
	}

	plaintext, err := s.open(data)
	if err != nil {
		return nil, err
	}
	var c profile.Collection
	if err := json.Unmarshal(plaintext, &c); err != nil {
		return nil, fmt.Errorf("%w: parse collection: %v", ErrCorrupted, err)
	}
	return c, nil
}

// Save serializes and encrypts the whole collection, then atomically replaces
// the blob via a temp file and rename. There is no partial write: a crash
// mid-save leaves the previous blob intact.
func (s *ProfileStore) Save(c profile.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(c)
}

func (s *ProfileStore) save(c profile.Collection) error {
	if s.key == nil {
		return ErrKeyNotConfigured
	}
	plaintext, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("store: marshal collection: %w", err)
	}
	sealed, err := s.seal(plaintext)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".profiles-*")
	if err != nil {
		return fmt.Errorf("store: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(sealed); err != nil {
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
		return fmt.Errorf("store: replace blob: %w", err)
	}
	return nil
}

// Upsert loads the collection, applies the record, and writes the whole
// collection back — the read-modify-write the HTTP create-profile path uses.
func (s *ProfileStore) Upsert(rec profile.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load()
	if err != nil {
		return err
	}
	c[rec.DogID] = rec
	return s.save(c)
}

// ─── SEALING ─────────────────────────────────────────────────────────────────

// seal encrypts plaintext with a fresh random nonce, prefixed to the
// ciphertext: blob = nonce || AEAD(plaintext).
func (s *ProfileStore) seal(plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, fmt.Errorf("store: init cipher: %w", err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("store: generate nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (s *ProfileStore) open(blob []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, fmt.Errorf("store: init cipher: %w", err)
	}
	if len(blob) < aead.NonceSize() {
		return nil, fmt.Errorf("%w: blob shorter than nonce", ErrCorrupted)
	}
	nonce, ciphertext := blob[:aead.NonceSize()], blob[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	return plaintext, nil
}
