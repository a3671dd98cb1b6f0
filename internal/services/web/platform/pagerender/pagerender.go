// Package pagerender centralizes module page rendering behavior.
package pagerender

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/studentreg/web/internal/services/web/module"
	flashnotice "github.com/studentreg/web/internal/services/web/platform/flash"
	"github.com/studentreg/web/internal/services/web/platform/httpx"
	webi18n "github.com/studentreg/web/internal/services/web/platform/i18n"
	"github.com/studentreg/web/internal/services/web/platform/requestmeta"
	webtemplates "github.com/studentreg/web/internal/services/web/templates"
)

// Notice lifetimes for flash toasts.
const (
	SuccessDismiss = 3 * time.Second
	ErrorDismiss   = 5 * time.Second
)

// RequestResolver resolves auth and language state from a request.
// This decouples platform rendering from module wiring.
type RequestResolver interface {
	ResolveRequestAuth(r *http.Request) module.AuthState
	ResolveRequestLanguage(r *http.Request) string
	RequestSchemePolicy() requestmeta.SchemePolicy
}

// ModulePage describes a page response for both full-page and HTMX flows.
type ModulePage struct {
	Title      string
	StatusCode int
	Fragment   templ.Component
	// RefreshURL makes the browser navigate after RefreshAfter.
	RefreshURL   string
	RefreshAfter time.Duration
}

// WriteModulePage renders page inside the shared layout. HTMX requests get
// the fragment alone.
func WriteModulePage(w http.ResponseWriter, r *http.Request, resolver RequestResolver, page ModulePage) error {
	if w == nil {
		return nil
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	fragment := page.Fragment
	if fragment == nil {
		fragment = templ.NopComponent
	}

	ctx := httpx.RequestContext(r)
	var buf bytes.Buffer
	if httpx.IsHTMXRequest(r) {
		if err := fragment.Render(ctx, &buf); err != nil {
			return err
		}
		return writeHTML(w, statusCode, buf.Bytes())
	}

	var (
		resolveLanguage func(*http.Request) string
		auth            module.AuthState
		policy          requestmeta.SchemePolicy
	)
	if resolver != nil {
		resolveLanguage = resolver.ResolveRequestLanguage
		auth = resolver.ResolveRequestAuth(r)
		policy = resolver.RequestSchemePolicy()
	}
	loc, lang := webi18n.ResolveLocalizer(r, resolveLanguage)
	layout := webtemplates.Layout(webtemplates.LayoutOptions{
		Title:        page.Title,
		Lang:         lang,
		Loc:          loc,
		CurrentPath:  currentPath(r),
		Viewer:       ViewerFromAuth(auth),
		Toast:        resolveFlashToast(w, r, loc, policy),
		RefreshURL:   page.RefreshURL,
		RefreshAfter: page.RefreshAfter,
	})
	if err := layout.Render(templ.WithChildren(ctx, fragment), &buf); err != nil {
		return err
	}
	return writeHTML(w, statusCode, buf.Bytes())
}

// ViewerFromAuth converts auth state into navbar state.
func ViewerFromAuth(state module.AuthState) webtemplates.Viewer {
	if !state.SignedIn() {
		return webtemplates.Viewer{}
	}
	user := state.User
	return webtemplates.Viewer{
		SignedIn: true,
		Admin:    user.IsAdmin(),
		Name:     user.FullName(),
		Initials: user.Initials(),
		Role:     user.Role,
	}
}

func resolveFlashToast(w http.ResponseWriter, r *http.Request, loc webi18n.Localizer, policy requestmeta.SchemePolicy) *webtemplates.Toast {
	notice, ok := flashnotice.ReadAndClear(w, r, policy)
	if !ok {
		return nil
	}
	message := strings.TrimSpace(loc.Sprintf(notice.Key, notice.AnyArgs()...))
	if message == "" {
		return nil
	}
	dismiss := ErrorDismiss
	if notice.Kind == flashnotice.KindSuccess {
		dismiss = SuccessDismiss
	}
	return &webtemplates.Toast{Kind: string(notice.Kind), Message: message, DismissAfter: dismiss}
}

func currentPath(r *http.Request) string {
	if r == nil || r.URL == nil {
		return ""
	}
	return r.URL.Path
}

func writeHTML(w http.ResponseWriter, statusCode int, body []byte) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, err := w.Write(body)
	return err
}
