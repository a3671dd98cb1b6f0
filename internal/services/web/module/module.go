// Package module defines the feature contract used by web composition.
package module

import (
	"net/http"

	"github.com/studentreg/web/internal/services/web/backend"
)

// AuthState is the per-request view of the auth context.
type AuthState struct {
	// Loading is true until session resolution has finished for the request.
	Loading bool
	User    *backend.User
}

// SignedIn reports whether a user is present.
func (s AuthState) SignedIn() bool {
	return !s.Loading && s.User != nil
}

// IsAdmin reports whether the current user holds the admin role.
func (s AuthState) IsAdmin() bool {
	return s.SignedIn() && s.User.IsAdmin()
}

// ResolveAuth resolves the auth state for a request.
type ResolveAuth func(*http.Request) AuthState

// ResolveLanguage returns the effective request language.
type ResolveLanguage func(*http.Request) string

// Mount describes where a module's handler is attached.
type Mount struct {
	Prefixes []string
	Handler  http.Handler
}

// Module declares the minimum contract required by web composition.
type Module interface {
	ID() string
	Mount() (Mount, error)
}

// Resolvers carries the request-scoped resolvers shared by every module.
type Resolvers struct {
	Auth     ResolveAuth
	Language ResolveLanguage
}
