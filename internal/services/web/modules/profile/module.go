// Package profile serves the signed-in user's read-only record.
package profile

import (
	"net/http"

	"github.com/studentreg/web/internal/services/web/module"
	"github.com/studentreg/web/internal/services/web/platform/modulehandler"
	"github.com/studentreg/web/internal/services/web/routepath"
)

// Module provides the profile page.
type Module struct {
	base modulehandler.Base
}

// New returns the profile module.
func New(base modulehandler.Base) Module {
	return Module{base: base}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "profile" }

// Mount wires the profile route.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := handlers{Base: m.base}
	mux.HandleFunc(http.MethodGet+" "+routepath.Profile, h.handleProfile)
	return module.Mount{Prefixes: []string{routepath.Profile}, Handler: mux}, nil
}
