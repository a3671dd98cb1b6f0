package templates

import (
	"context"
	"time"

	"github.com/a-h/templ"

	"github.com/studentreg/web/internal/services/web/routepath"
)

// Registration steps.
const (
	RegisterStepPersonalInfo = 1
	RegisterStepAccountSetup = 2
)

// RegisterErrorDismiss is how long a failed registration message stays
// visible.
const RegisterErrorDismiss = 5 * time.Second

// RegisterValues are the values echoed back into the registration form.
// Passwords are never echoed.
type RegisterValues struct {
	FirstName   string
	LastName    string
	DateOfBirth string
	Email       string
}

// RegisterView carries the two-step registration form state.
type RegisterView struct {
	Loc     Localizer
	Step    int
	Values  RegisterValues
	Errors  FieldErrors
	Error   string
	Success string
}

// RegisterPage renders the registration stepper and the current step.
func RegisterPage(view RegisterView) templ.Component {
	return component(func(ctx context.Context, hw *writer) {
		loc := view.Loc
		step := view.Step
		if step != RegisterStepAccountSetup {
			step = RegisterStepPersonalInfo
		}

		hw.open("section", "class", "card auth-card")
		hw.element("h1", T(loc, "register.title"))
		hw.element("p", T(loc, "register.subtitle"), "class", "subtitle")

		hw.open("ol", "class", "stepper")
		stepItem(hw, T(loc, "register.stepper.personal_info"), RegisterStepPersonalInfo, step)
		stepItem(hw, T(loc, "register.stepper.account_setup"), RegisterStepAccountSetup, step)
		hw.close("ol")

		if view.Success != "" {
			hw.render(ctx, Alert("success", view.Success, 0))
			hw.close("section")
			return
		}
		hw.render(ctx, Alert("error", view.Error, RegisterErrorDismiss))

		hw.open("form", "method", "post", "action", routepath.Register, "novalidate", "novalidate", "data-busy", "true")
		hw.hidden("step", stepName(step))
		values := view.Values
		if step == RegisterStepPersonalInfo {
			hw.input(inputField{Name: "firstName", Type: "text", Label: T(loc, "register.form.first_name_label"),
				Value: values.FirstName, Error: view.Errors["firstName"], Autocomplete: "given-name", Required: true})
			hw.input(inputField{Name: "lastName", Type: "text", Label: T(loc, "register.form.last_name_label"),
				Value: values.LastName, Error: view.Errors["lastName"], Autocomplete: "family-name", Required: true})
			hw.input(inputField{Name: "dateOfBirth", Type: "date", Label: T(loc, "register.form.dob_label"),
				Value: values.DateOfBirth, Error: view.Errors["dateOfBirth"], Autocomplete: "bday", Required: true})
			hw.hidden("email", values.Email)
			hw.open("div", "class", "form-actions")
			hw.element("button", T(loc, "register.buttons.next"), "type", "submit", "name", "action", "value", "next", "class", "button")
			hw.close("div")
		} else {
			hw.hidden("firstName", values.FirstName)
			hw.hidden("lastName", values.LastName)
			hw.hidden("dateOfBirth", values.DateOfBirth)
			hw.input(inputField{Name: "email", Type: "email", Label: T(loc, "register.form.email_label"),
				Value: values.Email, Error: view.Errors["email"], Autocomplete: "email", Required: true})
			hw.input(inputField{Name: "password", Type: "password", Label: T(loc, "register.form.password_label"),
				Error: view.Errors["password"], Autocomplete: "new-password", Required: true})
			hw.input(inputField{Name: "confirmPassword", Type: "password", Label: T(loc, "register.form.confirm_password_label"),
				Error: view.Errors["confirmPassword"], Autocomplete: "new-password", Required: true})
			hw.open("div", "class", "form-actions")
			hw.element("button", T(loc, "register.buttons.register"), "type", "submit", "name", "action", "value", "submit", "class", "button")
			hw.element("button", T(loc, "register.buttons.back"), "type", "submit", "name", "action", "value", "back", "class", "button button-secondary", "formnovalidate", "formnovalidate")
			hw.close("div")
		}
		hw.close("form")

		hw.open("p", "class", "auth-switch")
		hw.text(T(loc, "register.have_account") + " ")
		hw.element("a", T(loc, "register.login_link"), "href", routepath.Login)
		hw.close("p")
		hw.close("section")
	})
}

func stepName(step int) string {
	if step == RegisterStepAccountSetup {
		return "account-setup"
	}
	return "personal-info"
}

func stepItem(hw *writer, label string, index, active int) {
	class := "step"
	current := ""
	switch {
	case index == active:
		class += " step-active"
		current = "step"
	case index < active:
		class += " step-done"
	}
	hw.element("li", label, "class", class, "aria-current", current)
}
