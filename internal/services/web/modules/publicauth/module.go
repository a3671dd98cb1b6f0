// Package publicauth serves sign-in, registration and sign-out.
package publicauth

import (
	"context"
	"net/http"

	"github.com/studentreg/web/internal/services/web/backend"
	"github.com/studentreg/web/internal/services/web/module"
	"github.com/studentreg/web/internal/services/web/platform/forms"
	"github.com/studentreg/web/internal/services/web/platform/modulehandler"
	"github.com/studentreg/web/internal/services/web/routepath"
	"github.com/studentreg/web/internal/services/web/session"
)

// Authenticator is the auth context used by the sign-in pages.
type Authenticator interface {
	Login(ctx context.Context, w http.ResponseWriter, r *http.Request, creds backend.Credentials) (session.Outcome, error)
	Register(ctx context.Context, w http.ResponseWriter, r *http.Request, req backend.RegisterRequest) (session.Outcome, error)
	Logout(w http.ResponseWriter, r *http.Request)
}

// Registrar creates an account without signing in.
type Registrar interface {
	Register(ctx context.Context, req backend.RegisterRequest) (backend.AuthResponse, error)
}

// Config wires the module.
type Config struct {
	Auth      Authenticator
	Registrar Registrar
	// RegisterSignsIn makes a successful registration start a session and
	// land on the profile instead of sending the visitor to sign in.
	RegisterSignsIn bool
	Validator       *forms.Validator
}

// Module provides the public auth routes.
type Module struct {
	base modulehandler.Base
	cfg  Config
}

// New returns the public auth module.
func New(base modulehandler.Base, cfg Config) Module {
	if cfg.Validator == nil {
		cfg.Validator = forms.New(nil)
	}
	return Module{base: base, cfg: cfg}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "publicauth" }

// Mount wires login, registration and logout.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(m.base, m.cfg))
	return module.Mount{
		Prefixes: []string{routepath.Login, routepath.Register, routepath.Logout},
		Handler:  mux,
	}, nil
}
