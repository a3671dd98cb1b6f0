// Package memory provides a process-local session store.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	webstorage "github.com/studentreg/web/internal/services/web/storage"
)

// Store keeps sessions in a map guarded by a mutex.
type Store struct {
	mu       sync.Mutex
	sessions map[string]webstorage.Session
	now      func() time.Time
}

// New builds an empty store.
func New() *Store {
	return &Store{sessions: map[string]webstorage.Session{}, now: time.Now}
}

// NewWithClock builds an empty store that reads time from now.
func NewWithClock(now func() time.Time) *Store {
	store := New()
	if now != nil {
		store.now = now
	}
	return store
}

// SaveSession inserts or replaces a session.
func (s *Store) SaveSession(_ context.Context, session webstorage.Session) error {
	session, err := session.Validate()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

// LoadSession returns the session for id unless it is missing or expired.
func (s *Store) LoadSession(_ context.Context, id string) (webstorage.Session, bool, error) {
	id = strings.TrimSpace(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return webstorage.Session{}, false, nil
	}
	if session.Expired(s.now()) {
		delete(s.sessions, id)
		return webstorage.Session{}, false, nil
	}
	return session, true, nil
}

// DeleteSession removes id. Missing ids are not an error.
func (s *Store) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, strings.TrimSpace(id))
	return nil
}

// Len returns the number of stored sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
