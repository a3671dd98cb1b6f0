package profile

import (
	"net/http"

	"github.com/studentreg/web/internal/services/web/platform/modulehandler"
	"github.com/studentreg/web/internal/services/web/platform/pagerender"
	webtemplates "github.com/studentreg/web/internal/services/web/templates"
)

type handlers struct {
	modulehandler.Base
}

// handleProfile renders the record fetched when the session was resolved.
// Without one the page shows its loading placeholder.
func (h handlers) handleProfile(w http.ResponseWriter, r *http.Request) {
	loc, lang := h.PageLocalizer(r)
	state := h.ResolveRequestAuth(r)
	view := webtemplates.ProfileView{Loc: loc, Lang: lang}
	if state.SignedIn() {
		view.User = state.User
	}
	h.WritePage(w, r, pagerender.ModulePage{
		Title:    webtemplates.T(loc, "core.navbar.profile"),
		Fragment: webtemplates.ProfilePage(view),
	})
}
