// Package guard gates module routes on the request's auth state.
//
// Both guards show a neutral waiting page while the session is still
// resolving and send anonymous visitors to the login page. The admin guard
// additionally redirects signed-in non-admins to a caller-chosen fallback.
package guard

import (
	"net/http"
	"time"

	"github.com/studentreg/web/internal/services/web/platform/httpx"
	"github.com/studentreg/web/internal/services/web/platform/modulehandler"
	"github.com/studentreg/web/internal/services/web/platform/pagerender"
	"github.com/studentreg/web/internal/services/web/routepath"
	webtemplates "github.com/studentreg/web/internal/services/web/templates"
)

// WaitingRefresh is how soon the waiting page retries the request.
const WaitingRefresh = time.Second

// Guard builds route guards over a handler base.
type Guard struct {
	base modulehandler.Base
}

// New builds a Guard that reads auth state through base.
func New(base modulehandler.Base) Guard {
	return Guard{base: base}
}

// RequireUser admits signed-in users.
func (g Guard) RequireUser() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := g.base.ResolveRequestAuth(r)
			switch {
			case state.Loading:
				g.writeWaiting(w, r)
			case !state.SignedIn():
				httpx.WriteRedirect(w, r, routepath.Login)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// RequireAdmin admits admins and redirects other signed-in users to
// fallback.
func (g Guard) RequireAdmin(fallback string) httpx.Middleware {
	if fallback == "" {
		fallback = routepath.Root
	}
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := g.base.ResolveRequestAuth(r)
			switch {
			case state.Loading:
				g.writeWaiting(w, r)
			case !state.SignedIn():
				httpx.WriteRedirect(w, r, routepath.Login)
			case !state.IsAdmin():
				httpx.WriteRedirect(w, r, fallback)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func (g Guard) writeWaiting(w http.ResponseWriter, r *http.Request) {
	loc, _ := g.base.PageLocalizer(r)
	page := pagerender.ModulePage{
		Title:    webtemplates.T(loc, "core.loading"),
		Fragment: webtemplates.WaitingPage(loc),
	}
	if r.Method == http.MethodGet {
		page.RefreshURL = r.URL.RequestURI()
		page.RefreshAfter = WaitingRefresh
	}
	g.base.WritePage(w, r, page)
}
