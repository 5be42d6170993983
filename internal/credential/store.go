// Package credential holds the active bearer credential and keeps the
// in-memory slot and the persisted session file in lockstep.
package credential

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
)

// Credential is the bearer token plus the identity it proves.
type Credential struct {
	Token     oauth2.Token `json:"token"`
	UserID    string       `json:"user_id"`
	UserEmail string       `json:"user_email"`
}

// AuthorizationHeader returns the value for the Authorization header.
func (c Credential) AuthorizationHeader() string {
	return c.Token.Type() + " " + c.Token.AccessToken
}

// Store is the single process-wide credential slot. At most one
// credential is active; Set and Clear keep the session file and the
// in-memory copy consistent before returning.
type Store struct {
	mu   sync.Mutex
	path string
	cur  *Credential
}

// NewStore creates a Store backed by the given session file, loading
// an existing credential if one is persisted. This is the only read
// of durable storage; Get afterward is memory-only.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var c Credential
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("invalid session file %s: %w", path, err)
	}
	s.cur = &c
	return s, nil
}

// Set replaces the active credential and persists it before returning.
func (s *Store) Set(c Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.Token.AccessToken == "" {
		return fmt.Errorf("credential has no access token")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	s.cur = &c
	return nil
}

// Get returns the active credential, or false when anonymous.
func (s *Store) Get() (Credential, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil {
		return Credential{}, false
	}
	return *s.cur, true
}

// Clear removes the credential from memory and durable storage.
// Clearing an already-empty store is a no-op.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	s.cur = nil
	return nil
}
