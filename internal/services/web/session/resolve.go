package session

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/studentreg/web/internal/services/web/backend"
	"github.com/studentreg/web/internal/services/web/module"
	"github.com/studentreg/web/internal/services/web/platform/sessioncookie"
	"github.com/studentreg/web/internal/services/web/routepath"
)

type resolutionKey struct{}

// resolution memoizes one request's auth state.
type resolution struct {
	once      sync.Once
	done      bool
	state     module.AuthState
	token     string
	sessionID string
}

// Middleware resolves the session once per request and exposes the result
// through StateFromRequest. The backend token, when valid, is attached to
// the request context for downstream API calls. Static assets skip
// resolution.
func (m *Manager) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, routepath.StaticPrefix) {
				next.ServeHTTP(w, r)
				return
			}
			res := &resolution{}
			ctx := context.WithValue(r.Context(), resolutionKey{}, res)
			r = r.WithContext(ctx)
			m.resolveOnce(w, r, res)
			if res.token != "" {
				r = r.WithContext(backend.WithToken(r.Context(), res.token))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Resolve returns the auth state for r, resolving it if the middleware has
// not already done so.
func (m *Manager) Resolve(w http.ResponseWriter, r *http.Request) module.AuthState {
	res, ok := resolutionFrom(r)
	if !ok {
		res = &resolution{}
	}
	m.resolveOnce(w, r, res)
	return res.state
}

// StateFromRequest returns the auth state resolved for r. Requests that have
// not been through resolution report Loading.
func StateFromRequest(r *http.Request) module.AuthState {
	res, ok := resolutionFrom(r)
	if !ok || !res.done {
		return module.AuthState{Loading: true}
	}
	return res.state
}

// SessionIDFromRequest returns the id of the session resolved for r.
func SessionIDFromRequest(r *http.Request) string {
	res, ok := resolutionFrom(r)
	if !ok || !res.done || res.state.User == nil {
		return ""
	}
	return res.sessionID
}

func resolutionFrom(r *http.Request) (*resolution, bool) {
	if r == nil {
		return nil, false
	}
	res, ok := r.Context().Value(resolutionKey{}).(*resolution)
	return res, ok && res != nil
}

func (m *Manager) resolveOnce(w http.ResponseWriter, r *http.Request, res *resolution) {
	res.once.Do(func() {
		res.state, res.token, res.sessionID = m.resolve(w, r)
		res.done = true
	})
}

// resolve turns the session cookie into a user. Expired tokens are dropped
// without calling the backend; any profile failure drops the token too.
func (m *Manager) resolve(w http.ResponseWriter, r *http.Request) (module.AuthState, string, string) {
	sessionID, ok := sessioncookie.Read(r)
	if !ok {
		return module.AuthState{}, "", ""
	}
	ctx := contextOf(r)
	stored, found, err := m.store.LoadSession(ctx, sessionID)
	if err != nil {
		m.logger.Error("load session", "session_id", shortID(sessionID), "error", err)
		return module.AuthState{}, "", ""
	}
	if !found {
		sessioncookie.Clear(w, r, m.policy)
		return module.AuthState{}, "", ""
	}

	claims, err := DecodeClaims(stored.Token)
	if err != nil {
		m.drop(w, r, Event{Kind: EventInvalid, SessionID: sessionID, Reason: err.Error()})
		return module.AuthState{}, "", ""
	}
	if claims.Expired(m.now()) {
		m.drop(w, r, Event{Kind: EventExpired, SessionID: sessionID, UserID: claims.Subject, Role: claims.Role})
		return module.AuthState{}, "", ""
	}

	user, err := m.backend.Profile(backend.WithToken(ctx, stored.Token))
	if err != nil {
		m.drop(w, r, Event{Kind: EventInvalid, SessionID: sessionID, UserID: claims.Subject, Role: claims.Role, Reason: err.Error()})
		return module.AuthState{}, "", ""
	}
	return module.AuthState{User: &user}, stored.Token, sessionID
}

func (m *Manager) drop(w http.ResponseWriter, r *http.Request, event Event) {
	if err := m.store.DeleteSession(contextOf(r), event.SessionID); err != nil {
		m.logger.Warn("delete rejected session", "session_id", shortID(event.SessionID), "error", err)
	}
	sessioncookie.Clear(w, r, m.policy)
	m.subs.publish(event)
}
