package public

import (
	"net/http"

	"github.com/studentreg/web/internal/services/web/platform/httpx"
	"github.com/studentreg/web/internal/services/web/platform/modulehandler"
	"github.com/studentreg/web/internal/services/web/platform/pagerender"
	"github.com/studentreg/web/internal/services/web/platform/requestmeta"
	"github.com/studentreg/web/internal/services/web/routepath"
	webtemplates "github.com/studentreg/web/internal/services/web/templates"
)

// returnField names the optional form field carrying the page to go back to
// after a language toggle.
const returnField = "return"

type handlers struct {
	modulehandler.Base
	language LanguageToggler
}

func newHandlers(base modulehandler.Base, language LanguageToggler) handlers {
	return handlers{Base: base, language: language}
}

func (h handlers) handleHome(w http.ResponseWriter, r *http.Request) {
	loc, _ := h.PageLocalizer(r)
	h.WritePage(w, r, pagerender.ModulePage{
		Title: webtemplates.T(loc, "core.navbar.home"),
		Fragment: webtemplates.HomePage(webtemplates.HomeView{
			Loc:    loc,
			Viewer: pagerender.ViewerFromAuth(h.ResolveRequestAuth(r)),
		}),
	})
}

func (h handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h handlers) handleLanguageToggle(w http.ResponseWriter, r *http.Request) {
	if h.language != nil {
		h.language.Toggle(w, r)
	}
	httpx.SeeOther(w, r, requestmeta.ReturnPath(r, r.PostFormValue(returnField), routepath.Root))
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.WriteNotFound(w, r)
}
