// Package session mirrors the web UI's session token and server URL into a
// native state file so the shell can read them without scripting the web view.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/Mavwarf/deskshell/internal/paths"
)

// State is the persisted session. JSON keys match the web UI's local
// storage keys.
type State struct {
	Token  string `json:"session_token,omitempty"`
	Server string `json:"server_url,omitempty"`
}

// Complete reports whether both token and server are present.
func (s State) Complete() bool {
	return strings.TrimSpace(s.Token) != "" && strings.TrimSpace(s.Server) != ""
}

// Store reads and writes the session state file. It is safe for
// concurrent use.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore returns a Store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Default returns a Store at DataDir()/session.json.
func Default() *Store {
	return NewStore(paths.InDataDir(paths.SessionFileName))
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// Load returns the stored state. A missing, unreadable, or corrupt file
// is treated as empty (fail-open).
func (s *Store) Load() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return load(s.path)
}

// Save replaces the stored state.
func (s *Store) Save(st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	if err := paths.AtomicWritePrivate(s.path, data); err != nil {
		return fmt.Errorf("session: write: %w", err)
	}
	return nil
}

// Clear removes the state file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: remove %s: %w", s.path, err)
	}
	return nil
}

// Session implements beacon.SessionSource.
func (s *Store) Session() (token, server string, ok bool) {
	st := s.Load()
	return st.Token, st.Server, st.Complete()
}

func load(path string) State {
	data, err := os.ReadFile(path)
	if err != nil {
		return State{}
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}
	}
	return st
}
