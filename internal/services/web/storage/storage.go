package storage

import (
	"context"
	"errors"
	"strings"
	"time"
)

// DefaultTTL bounds sessions whose token carries no expiry.
const DefaultTTL = 24 * time.Hour

// Store backends accepted by configuration.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// ErrInvalidSession reports a session that cannot be persisted.
var ErrInvalidSession = errors.New("session id and token are required")

// Session is one persisted sign-in.
type Session struct {
	ID        string
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Validate normalizes s and checks required fields.
func (s Session) Validate() (Session, error) {
	s.ID = strings.TrimSpace(s.ID)
	s.Token = strings.TrimSpace(s.Token)
	if s.ID == "" || s.Token == "" {
		return Session{}, ErrInvalidSession
	}
	return s, nil
}

// SessionStore persists sessions keyed by id. LoadSession reports expired
// rows as absent.
type SessionStore interface {
	SaveSession(ctx context.Context, session Session) error
	LoadSession(ctx context.Context, id string) (Session, bool, error)
	DeleteSession(ctx context.Context, id string) error
	Close() error
}
