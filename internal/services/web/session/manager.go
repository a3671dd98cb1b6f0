// Package session is the web auth context: it signs users in and out and
// resolves the current user for every request from the persisted token.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studentreg/web/internal/services/web/backend"
	"github.com/studentreg/web/internal/services/web/platform/requestmeta"
	"github.com/studentreg/web/internal/services/web/platform/sessioncookie"
	"github.com/studentreg/web/internal/services/web/routepath"
	"github.com/studentreg/web/internal/services/web/storage"
)

// Fallback messages when the backend gives no reason.
const (
	LoginFailedMessage        = "Login failed"
	RegistrationFailedMessage = "Registration failed"
)

// Backend is the API surface the auth context needs.
type Backend interface {
	Register(ctx context.Context, req backend.RegisterRequest) (backend.AuthResponse, error)
	Login(ctx context.Context, creds backend.Credentials) (backend.AuthResponse, error)
	Profile(ctx context.Context) (backend.User, error)
}

// Config wires a Manager.
type Config struct {
	Store   storage.SessionStore
	Backend Backend
	Policy  requestmeta.SchemePolicy
	Logger  *slog.Logger
	Now     func() time.Time
}

// Manager is the process-wide auth context.
type Manager struct {
	store   storage.SessionStore
	backend Backend
	policy  requestmeta.SchemePolicy
	logger  *slog.Logger
	now     func() time.Time
	subs    subscribers
}

// Outcome is the result of a successful sign-in.
type Outcome struct {
	User       backend.User
	SessionID  string
	RedirectTo string
}

// AuthError is a rejected sign-in. Message is safe to show the user.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AuthError) Unwrap() error { return e.Err }

// NewManager validates cfg and builds a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Store == nil {
		return nil, errors.New("session store is required")
	}
	if cfg.Backend == nil {
		return nil, errors.New("backend client is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Manager{
		store:   cfg.Store,
		backend: cfg.Backend,
		policy:  cfg.Policy,
		logger:  cfg.Logger,
		now:     cfg.Now,
	}, nil
}

// Subscribe registers fn for session transitions. The returned func removes
// it.
func (m *Manager) Subscribe(fn func(Event)) func() {
	return m.subs.add(fn)
}

// Login exchanges creds for a token, persists it under a new session and
// routes admins to the dashboard and everyone else to their profile. On
// failure nothing is persisted.
func (m *Manager) Login(ctx context.Context, w http.ResponseWriter, r *http.Request, creds backend.Credentials) (Outcome, error) {
	resp, err := m.backend.Login(ctx, creds)
	if err != nil {
		return Outcome{}, &AuthError{Message: messageOr(err, LoginFailedMessage), Err: err}
	}
	outcome, err := m.begin(ctx, w, r, resp)
	if err != nil {
		return Outcome{}, &AuthError{Message: LoginFailedMessage, Err: err}
	}
	outcome.RedirectTo = routepath.Profile
	if outcome.User.IsAdmin() {
		outcome.RedirectTo = routepath.AdminDashboard
	}
	return outcome, nil
}

// Register creates an account, persists its token and routes to the profile.
func (m *Manager) Register(ctx context.Context, w http.ResponseWriter, r *http.Request, req backend.RegisterRequest) (Outcome, error) {
	resp, err := m.backend.Register(ctx, req)
	if err != nil {
		return Outcome{}, &AuthError{Message: messageOr(err, RegistrationFailedMessage), Err: err}
	}
	outcome, err := m.begin(ctx, w, r, resp)
	if err != nil {
		return Outcome{}, &AuthError{Message: RegistrationFailedMessage, Err: err}
	}
	outcome.RedirectTo = routepath.Profile
	return outcome, nil
}

// Logout forgets the persisted token and clears the cookie. It never calls
// the backend.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessioncookie.Read(r)
	sessioncookie.Clear(w, r, m.policy)
	if !ok {
		return
	}
	if err := m.store.DeleteSession(contextOf(r), sessionID); err != nil {
		m.logger.Warn("delete session on logout", "session_id", shortID(sessionID), "error", err)
	}
	state := StateFromRequest(r)
	event := Event{Kind: EventSignedOut, SessionID: sessionID}
	if state.User != nil {
		event.UserID = state.User.ID.String()
		event.Role = state.User.Role
	}
	m.subs.publish(event)
}

func (m *Manager) begin(ctx context.Context, w http.ResponseWriter, r *http.Request, resp backend.AuthResponse) (Outcome, error) {
	token := strings.TrimSpace(resp.Token)
	if token == "" {
		return Outcome{}, errors.New("backend returned no token")
	}
	user := resp.User
	expiresAt := m.now().Add(storage.DefaultTTL)
	if claims, err := DecodeClaims(token); err == nil {
		if exp := claims.Expiry(); !exp.IsZero() {
			expiresAt = exp
		}
		if strings.TrimSpace(user.Role) == "" {
			user.Role = claims.Role
		}
	}

	if previous, ok := sessioncookie.Read(r); ok {
		if err := m.store.DeleteSession(ctx, previous); err != nil {
			m.logger.Warn("delete replaced session", "session_id", shortID(previous), "error", err)
		}
	}
	sessionID := uuid.NewString()
	err := m.store.SaveSession(ctx, storage.Session{
		ID:        sessionID,
		Token:     token,
		CreatedAt: m.now().UTC(),
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("persist session: %w", err)
	}
	sessioncookie.Write(w, r, sessionID, expiresAt, m.policy)
	m.subs.publish(Event{Kind: EventSignedIn, SessionID: sessionID, UserID: user.ID.String(), Role: user.Role})
	return Outcome{User: user, SessionID: sessionID}, nil
}

func messageOr(err error, fallback string) string {
	if msg := backend.Message(err); msg != "" {
		return msg
	}
	return fallback
}

func contextOf(r *http.Request) context.Context {
	if r == nil {
		return context.Background()
	}
	return r.Context()
}

// shortID trims a session id for logs.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
