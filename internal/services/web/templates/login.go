package templates

import (
	"context"
	"time"

	"github.com/a-h/templ"

	"github.com/studentreg/web/internal/services/web/routepath"
)

// LoginErrorDismiss is how long a rejected sign-in message stays visible.
const LoginErrorDismiss = 5 * time.Second

// LoginView carries the sign-in form state.
type LoginView struct {
	Loc    Localizer
	Email  string
	Errors FieldErrors
	// Error is the sign-in failure shown above the form.
	Error string
}

// LoginPage renders the sign-in form.
func LoginPage(view LoginView) templ.Component {
	return component(func(ctx context.Context, hw *writer) {
		loc := view.Loc
		hw.open("section", "class", "card auth-card")
		hw.element("h1", T(loc, "login.title"))
		hw.element("p", T(loc, "login.subtitle"), "class", "subtitle")
		hw.render(ctx, Alert("error", view.Error, LoginErrorDismiss))

		hw.open("form", "method", "post", "action", routepath.Login, "novalidate", "novalidate", "data-busy", "true")
		hw.input(inputField{
			Name: "email", Type: "email", Label: T(loc, "login.form.email_label"),
			Value: view.Email, Error: view.Errors["email"], Autocomplete: "email", Required: true,
		})
		hw.input(inputField{
			Name: "password", Type: "password", Label: T(loc, "login.form.password_label"),
			Error: view.Errors["password"], Autocomplete: "current-password", Required: true,
		})
		hw.element("button", T(loc, "login.form.sign_in_button"), "type", "submit", "class", "button")
		hw.close("form")

		hw.open("p", "class", "auth-switch")
		hw.text(T(loc, "login.no_account") + " ")
		hw.element("a", T(loc, "login.register_link"), "href", routepath.Register)
		hw.close("p")
		hw.close("section")
	})
}
