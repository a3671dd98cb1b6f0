package publicauth

import (
	"net/http"
	"strings"

	"github.com/studentreg/web/internal/services/web/backend"
)

type loginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

var loginMessages = map[string]string{
	"email":       "login.validation.email_required",
	"email.email": "login.validation.invalid_email",
	"password":    "login.validation.password_required",
}

func parseLoginForm(r *http.Request) loginForm {
	return loginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
}

type registerForm struct {
	FirstName       string `form:"firstName" validate:"required"`
	LastName        string `form:"lastName" validate:"required"`
	DateOfBirth     string `form:"dateOfBirth" validate:"required,date,minage=10,maxage=20"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required,min=8"`
	ConfirmPassword string `form:"confirmPassword" validate:"required,eqfield=Password"`
}

// personalInfoFields are the struct fields checked before leaving step one.
var personalInfoFields = []string{"FirstName", "LastName", "DateOfBirth"}

var personalInfoNames = map[string]bool{"firstName": true, "lastName": true, "dateOfBirth": true}

var registerMessages = map[string]string{
	"firstName":               "register.validation.first_name_required",
	"lastName":                "register.validation.last_name_required",
	"dateOfBirth":             "register.validation.dob_required",
	"dateOfBirth.date":        "register.validation.dob_invalid",
	"dateOfBirth.minage":      "register.validation.min_age",
	"dateOfBirth.maxage":      "register.validation.max_age",
	"email":                   "register.validation.email_required",
	"email.email":             "register.validation.invalid_email",
	"password":                "register.validation.password_required",
	"password.min":            "register.validation.password_min_length",
	"confirmPassword":         "register.validation.confirm_password_required",
	"confirmPassword.eqfield": "register.validation.passwords_must_match",
}

func parseRegisterForm(r *http.Request) registerForm {
	return registerForm{
		FirstName:       strings.TrimSpace(r.PostFormValue("firstName")),
		LastName:        strings.TrimSpace(r.PostFormValue("lastName")),
		DateOfBirth:     strings.TrimSpace(r.PostFormValue("dateOfBirth")),
		Email:           strings.TrimSpace(r.PostFormValue("email")),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirmPassword"),
	}
}

// request drops the confirmation, which never leaves this service.
func (f registerForm) request() backend.RegisterRequest {
	return backend.RegisterRequest{
		FirstName:   f.FirstName,
		LastName:    f.LastName,
		Email:       f.Email,
		Password:    f.Password,
		DateOfBirth: f.DateOfBirth,
	}
}
