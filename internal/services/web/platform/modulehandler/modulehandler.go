// Package modulehandler provides a composable base for web module handlers.
//
// Modules share request-scoped auth and language resolution, page rendering
// and error handling. Handlers embed Base rather than duplicating that
// scaffold.
package modulehandler

import (
	"net/http"

	"github.com/studentreg/web/internal/services/web/module"
	webi18n "github.com/studentreg/web/internal/services/web/platform/i18n"
	"github.com/studentreg/web/internal/services/web/platform/pagerender"
	"github.com/studentreg/web/internal/services/web/platform/requestmeta"
	"github.com/studentreg/web/internal/services/web/platform/weberror"
	webtemplates "github.com/studentreg/web/internal/services/web/templates"
)

// Base carries the shared request-scoped resolvers used by module handlers.
type Base struct {
	resolveAuth     module.ResolveAuth
	resolveLanguage module.ResolveLanguage
	policy          requestmeta.SchemePolicy
}

// NewBase builds a handler base from explicit resolvers.
func NewBase(resolvers module.Resolvers, policy requestmeta.SchemePolicy) Base {
	return Base{
		resolveAuth:     resolvers.Auth,
		resolveLanguage: resolvers.Language,
		policy:          policy,
	}
}

// NewTestBase builds a base with anonymous auth and default language.
func NewTestBase() Base {
	return Base{}
}

// ResolveRequestAuth returns the auth state for r.
func (b Base) ResolveRequestAuth(r *http.Request) module.AuthState {
	if b.resolveAuth == nil || r == nil {
		return module.AuthState{}
	}
	return b.resolveAuth(r)
}

// ResolveRequestLanguage returns the effective request language.
func (b Base) ResolveRequestLanguage(r *http.Request) string {
	if b.resolveLanguage == nil {
		return webi18n.ResolveRequest(r)
	}
	return b.resolveLanguage(r)
}

// RequestSchemePolicy returns the scheme policy used for cookies.
func (b Base) RequestSchemePolicy() requestmeta.SchemePolicy {
	return b.policy
}

// PageLocalizer resolves a localizer and language code for r.
func (b Base) PageLocalizer(r *http.Request) (webtemplates.Localizer, string) {
	return webi18n.ResolveLocalizer(r, b.ResolveRequestLanguage)
}

// WriteError renders a localized module error response.
func (b Base) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	weberror.WriteModuleError(w, r, err, b)
}

// WriteNotFound renders the not-found page.
func (b Base) WriteNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteAppError(w, r, http.StatusNotFound, b)
}

// WritePage renders a full page (HTMX-aware).
func (b Base) WritePage(w http.ResponseWriter, r *http.Request, page pagerender.ModulePage) {
	if err := pagerender.WriteModulePage(w, r, b, page); err != nil {
		b.WriteError(w, r, err)
	}
}
