// Package admin serves the admin dashboard: the paginated user listing and
// its edit, delete and QR code dialogs.
package admin

import (
	"context"
	"net/http"

	"github.com/studentreg/web/internal/services/web/backend"
	"github.com/studentreg/web/internal/services/web/module"
	"github.com/studentreg/web/internal/services/web/platform/forms"
	"github.com/studentreg/web/internal/services/web/platform/guard"
	"github.com/studentreg/web/internal/services/web/platform/modulehandler"
	"github.com/studentreg/web/internal/services/web/routepath"
	"github.com/studentreg/web/internal/services/web/session"
)

// UserClient is the admin slice of the backend API.
type UserClient interface {
	ListUsers(ctx context.Context, page, limit int) (backend.UserPage, error)
	UpdateUser(ctx context.Context, id backend.UserID, update backend.UserUpdate) (backend.User, error)
	DeleteUser(ctx context.Context, id backend.UserID) error
}

// Config wires the module.
type Config struct {
	Client    UserClient
	Listings  *Listings
	PageSize  int
	Validator *forms.Validator
	// SessionID names the session that owns a request's listing state.
	SessionID func(*http.Request) string
}

// Module provides the admin routes.
type Module struct {
	base modulehandler.Base
	cfg  Config
}

// New returns the admin module.
func New(base modulehandler.Base, cfg Config) Module {
	if cfg.Listings == nil {
		cfg.Listings = NewListings()
	}
	if cfg.PageSize < 1 {
		cfg.PageSize = backend.DefaultPageSize
	}
	if cfg.Validator == nil {
		cfg.Validator = forms.New(nil)
	}
	if cfg.SessionID == nil {
		cfg.SessionID = session.SessionIDFromRequest
	}
	return Module{base: base, cfg: cfg}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "admin" }

// Mount wires the dashboard and the user mutation routes. The dashboard sends
// non-admins home; mutation and export routes answer them with not-found.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := newHandlers(m.base, m.cfg)
	g := guard.New(m.base)
	registerRoutes(mux, h, g.RequireAdmin(routepath.Root), g.RequireAdmin(routepath.NotFound))
	return module.Mount{Prefixes: []string{routepath.AdminPrefix}, Handler: mux}, nil
}
