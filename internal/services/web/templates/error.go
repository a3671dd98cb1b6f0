package templates

import (
	"context"
	"net/http"

	"github.com/a-h/templ"

	"github.com/studentreg/web/internal/services/web/routepath"
)

// AppErrorPageTitle returns the browser page title for app error pages.
func AppErrorPageTitle(statusCode int, loc Localizer) string {
	if normalizeAppErrorStatus(statusCode) == http.StatusNotFound {
		return T(loc, "core.not_found.title")
	}
	return T(loc, "core.error.server_title")
}

// AppErrorState renders the body of a not-found or server error page.
func AppErrorState(statusCode int, loc Localizer) templ.Component {
	if normalizeAppErrorStatus(statusCode) == http.StatusNotFound {
		return NotFoundPage(loc)
	}
	return component(func(_ context.Context, hw *writer) {
		hw.open("section", "class", "error-state")
		hw.element("h1", T(loc, "core.error.server_title"))
		hw.element("p", T(loc, "core.error.server_description"))
		hw.element("a", T(loc, "core.not_found.home"), "class", "button", "href", routepath.Root)
		hw.close("section")
	})
}

// NotFoundPage renders the 404 body with a link home.
func NotFoundPage(loc Localizer) templ.Component {
	return component(func(_ context.Context, hw *writer) {
		hw.open("section", "class", "error-state not-found")
		hw.element("p", "404", "class", "error-code")
		hw.element("h1", T(loc, "core.not_found.title"))
		hw.element("p", T(loc, "core.not_found.description"))
		hw.element("a", T(loc, "core.not_found.home"), "class", "button", "href", routepath.Root)
		hw.close("section")
	})
}

// WaitingPage is shown while the session is still resolving.
func WaitingPage(loc Localizer) templ.Component {
	return component(func(_ context.Context, hw *writer) {
		hw.open("section", "class", "waiting", "aria-busy", "true")
		hw.raw(`<span class="spinner" aria-hidden="true"></span>`)
		hw.element("p", T(loc, "core.loading"))
		hw.close("section")
	})
}

func normalizeAppErrorStatus(statusCode int) int {
	if statusCode == http.StatusNotFound {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
