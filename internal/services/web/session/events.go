package session

import (
	"context"
	"log/slog"
	"sync"
)

// EventKind names a session transition.
type EventKind string

const (
	EventSignedIn  EventKind = "signed_in"
	EventSignedOut EventKind = "signed_out"
	EventExpired   EventKind = "expired"
	EventInvalid   EventKind = "invalid"
)

// Event reports one session transition.
type Event struct {
	Kind      EventKind
	SessionID string
	UserID    string
	Role      string
	// Reason describes why a session was rejected.
	Reason string
}

// Ended reports whether the session no longer exists after e.
func (e Event) Ended() bool {
	return e.Kind != EventSignedIn
}

type subscribers struct {
	mu     sync.RWMutex
	nextID int
	fns    map[int]func(Event)
}

func (s *subscribers) add(fn func(Event)) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	if s.fns == nil {
		s.fns = map[int]func(Event){}
	}
	id := s.nextID
	s.nextID++
	s.fns[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.fns, id)
			s.mu.Unlock()
		})
	}
}

func (s *subscribers) publish(event Event) {
	s.mu.RLock()
	fns := make([]func(Event), 0, len(s.fns))
	for _, fn := range s.fns {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn(event)
	}
}

// LogEvents returns a subscriber that writes each transition to logger.
func LogEvents(logger *slog.Logger) func(Event) {
	if logger == nil {
		logger = slog.Default()
	}
	return func(e Event) {
		level := slog.LevelInfo
		if e.Kind == EventInvalid {
			level = slog.LevelWarn
		}
		attrs := []any{"event", string(e.Kind), "session_id", shortID(e.SessionID)}
		if e.UserID != "" {
			attrs = append(attrs, "user_id", e.UserID)
		}
		if e.Role != "" {
			attrs = append(attrs, "role", e.Role)
		}
		if e.Reason != "" {
			attrs = append(attrs, "reason", e.Reason)
		}
		logger.Log(context.Background(), level, "session transition", attrs...)
	}
}
