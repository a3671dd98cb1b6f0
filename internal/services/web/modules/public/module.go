// Package public serves the landing page, the language toggle, the health
// probe and the not-found catch-all.
package public

import (
	"net/http"

	"github.com/studentreg/web/internal/services/web/module"
	"github.com/studentreg/web/internal/services/web/platform/modulehandler"
	"github.com/studentreg/web/internal/services/web/routepath"
)

// LanguageToggler flips and persists the visitor's language.
type LanguageToggler interface {
	Toggle(w http.ResponseWriter, r *http.Request) string
}

// Module provides the unauthenticated root routes.
type Module struct {
	base     modulehandler.Base
	language LanguageToggler
}

// New returns the public module.
func New(base modulehandler.Base, language LanguageToggler) Module {
	return Module{base: base, language: language}
}

// ID returns a stable identifier for diagnostics and startup logs.
func (Module) ID() string { return "public" }

// Mount wires the root routes. The module owns "/" so unknown paths reach its
// not-found handler.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(m.base, m.language))
	return module.Mount{Prefixes: []string{routepath.Root}, Handler: mux}, nil
}
