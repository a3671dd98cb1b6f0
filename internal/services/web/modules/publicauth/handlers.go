package publicauth

import (
	"net/http"
	"strings"
	"time"

	"github.com/studentreg/web/internal/services/web/backend"
	"github.com/studentreg/web/internal/services/web/platform/forms"
	"github.com/studentreg/web/internal/services/web/platform/httpx"
	"github.com/studentreg/web/internal/services/web/platform/modulehandler"
	"github.com/studentreg/web/internal/services/web/platform/pagerender"
	"github.com/studentreg/web/internal/services/web/routepath"
	webtemplates "github.com/studentreg/web/internal/services/web/templates"
)

// RegisteredRedirectAfter is how long the registration notice stays up
// before the browser moves on to sign in.
const RegisteredRedirectAfter = 2 * time.Second

// Registration form actions.
const (
	actionNext   = "next"
	actionBack   = "back"
	actionSubmit = "submit"
)

type handlers struct {
	modulehandler.Base
	cfg Config
}

func newHandlers(base modulehandler.Base, cfg Config) handlers {
	return handlers{Base: base, cfg: cfg}
}

func (h handlers) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	loc, _ := h.PageLocalizer(r)
	h.writeLogin(w, r, http.StatusOK, webtemplates.LoginView{Loc: loc})
}

func (h handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	loc, _ := h.PageLocalizer(r)
	form := parseLoginForm(r)
	view := webtemplates.LoginView{Loc: loc, Email: form.Email}

	failed, err := h.cfg.Validator.Check(r.Context(), &form)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	if len(failed) > 0 {
		view.Errors = failed.Messages(loc, loginMessages)
		h.writeLogin(w, r, http.StatusBadRequest, view)
		return
	}
	if h.cfg.Auth == nil {
		h.WriteError(w, r, errAuthUnavailable)
		return
	}

	outcome, err := h.cfg.Auth.Login(r.Context(), w, r, backend.Credentials{Email: form.Email, Password: form.Password})
	if err != nil {
		view.Error = backendMessageOr(err, webtemplates.T(loc, "login.errors.invalid_credentials"))
		h.writeLogin(w, r, http.StatusUnauthorized, view)
		return
	}
	httpx.SeeOther(w, r, outcome.RedirectTo)
}

func (h handlers) writeLogin(w http.ResponseWriter, r *http.Request, status int, view webtemplates.LoginView) {
	h.WritePage(w, r, pagerender.ModulePage{
		Title:      webtemplates.T(view.Loc, "login.title"),
		StatusCode: status,
		Fragment:   webtemplates.LoginPage(view),
	})
}

func (h handlers) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	loc, _ := h.PageLocalizer(r)
	h.writeRegister(w, r, http.StatusOK, webtemplates.RegisterView{Loc: loc, Step: webtemplates.RegisterStepPersonalInfo})
}

// handleRegister drives the two-step form. Step one collects personal
// details, step two the account credentials; only a valid submit reaches the
// backend.
func (h handlers) handleRegister(w http.ResponseWriter, r *http.Request) {
	loc, _ := h.PageLocalizer(r)
	form := parseRegisterForm(r)
	view := webtemplates.RegisterView{
		Loc:  loc,
		Step: webtemplates.RegisterStepPersonalInfo,
		Values: webtemplates.RegisterValues{
			FirstName:   form.FirstName,
			LastName:    form.LastName,
			DateOfBirth: form.DateOfBirth,
			Email:       form.Email,
		},
	}

	switch registerAction(r) {
	case actionBack:
		h.writeRegister(w, r, http.StatusOK, view)
	case actionNext:
		failed, err := h.cfg.Validator.Check(r.Context(), &form, personalInfoFields...)
		if err != nil {
			h.WriteError(w, r, err)
			return
		}
		if len(failed) > 0 {
			view.Errors = failed.Messages(loc, registerMessages)
			h.writeRegister(w, r, http.StatusBadRequest, view)
			return
		}
		view.Step = webtemplates.RegisterStepAccountSetup
		h.writeRegister(w, r, http.StatusOK, view)
	default:
		h.submitRegistration(w, r, form, view)
	}
}

func (h handlers) submitRegistration(w http.ResponseWriter, r *http.Request, form registerForm, view webtemplates.RegisterView) {
	loc := view.Loc
	view.Step = webtemplates.RegisterStepAccountSetup
	failed, err := h.cfg.Validator.Check(r.Context(), &form)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	if len(failed) > 0 {
		if personalInfoFailed(failed) {
			view.Step = webtemplates.RegisterStepPersonalInfo
		}
		view.Errors = failed.Messages(loc, registerMessages)
		h.writeRegister(w, r, http.StatusBadRequest, view)
		return
	}

	fallback := webtemplates.T(loc, "register.errors.registration_failed")
	if h.cfg.RegisterSignsIn {
		if h.cfg.Auth == nil {
			h.WriteError(w, r, errAuthUnavailable)
			return
		}
		outcome, err := h.cfg.Auth.Register(r.Context(), w, r, form.request())
		if err != nil {
			view.Error = backendMessageOr(err, fallback)
			h.writeRegister(w, r, http.StatusBadRequest, view)
			return
		}
		httpx.SeeOther(w, r, outcome.RedirectTo)
		return
	}

	if h.cfg.Registrar == nil {
		h.WriteError(w, r, errAuthUnavailable)
		return
	}
	if _, err := h.cfg.Registrar.Register(r.Context(), form.request()); err != nil {
		view.Error = backendMessageOr(err, fallback)
		h.writeRegister(w, r, http.StatusBadRequest, view)
		return
	}
	view.Success = webtemplates.T(loc, "register.success.registration_complete")
	h.WritePage(w, r, pagerender.ModulePage{
		Title:        webtemplates.T(loc, "register.title"),
		Fragment:     webtemplates.RegisterPage(view),
		RefreshURL:   routepath.Login,
		RefreshAfter: RegisteredRedirectAfter,
	})
}

func (h handlers) writeRegister(w http.ResponseWriter, r *http.Request, status int, view webtemplates.RegisterView) {
	h.WritePage(w, r, pagerender.ModulePage{
		Title:      webtemplates.T(view.Loc, "register.title"),
		StatusCode: status,
		Fragment:   webtemplates.RegisterPage(view),
	})
}

func (h handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if h.cfg.Auth != nil {
		h.cfg.Auth.Logout(w, r)
	}
	httpx.SeeOther(w, r, routepath.Login)
}

// registerAction reads the pressed button. Without one, a post from step two
// submits and anything else advances.
func registerAction(r *http.Request) string {
	switch action := strings.TrimSpace(r.PostFormValue("action")); action {
	case actionNext, actionBack, actionSubmit:
		return action
	}
	if strings.TrimSpace(r.PostFormValue("step")) == "account-setup" {
		return actionSubmit
	}
	return actionNext
}

func personalInfoFailed(failed forms.Errors) bool {
	for field := range failed {
		if personalInfoNames[field] {
			return true
		}
	}
	return false
}

func backendMessageOr(err error, fallback string) string {
	if msg := backend.Message(err); msg != "" {
		return msg
	}
	return fallback
}
