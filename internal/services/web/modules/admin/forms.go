package admin

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/studentreg/web/internal/services/web/backend"
	webtemplates "github.com/studentreg/web/internal/services/web/templates"
)

type editForm struct {
	FirstName   string `form:"firstName" validate:"required"`
	LastName    string `form:"lastName" validate:"required"`
	Email       string `form:"email" validate:"required,email"`
	DateOfBirth string `form:"dateOfBirth" validate:"required,date,minage=10,maxage=20"`
	Role        string `form:"role" validate:"required,oneof=student admin"`
}

var editMessages = map[string]string{
	"firstName":          "admin.validation.first_name_required",
	"lastName":           "admin.validation.last_name_required",
	"email":              "admin.validation.email_required",
	"email.email":        "admin.validation.invalid_email",
	"dateOfBirth":        "admin.validation.dob_required",
	"dateOfBirth.date":   "admin.validation.dob_invalid",
	"dateOfBirth.minage": "admin.validation.age_too_young",
	"dateOfBirth.maxage": "admin.validation.age_too_old",
	"role":               "admin.validation.role_required",
}

func parseEditForm(r *http.Request) editForm {
	return editForm{
		FirstName:   strings.TrimSpace(r.PostFormValue("firstName")),
		LastName:    strings.TrimSpace(r.PostFormValue("lastName")),
		Email:       strings.TrimSpace(r.PostFormValue("email")),
		DateOfBirth: strings.TrimSpace(r.PostFormValue("dateOfBirth")),
		Role:        strings.TrimSpace(r.PostFormValue("role")),
	}
}

func (f editForm) values() webtemplates.AdminEditValues {
	return webtemplates.AdminEditValues{
		FirstName:   f.FirstName,
		LastName:    f.LastName,
		Email:       f.Email,
		DateOfBirth: f.DateOfBirth,
		Role:        f.Role,
	}
}

func (f editForm) update() backend.UserUpdate {
	return backend.UserUpdate{
		FirstName:   &f.FirstName,
		LastName:    &f.LastName,
		Email:       &f.Email,
		DateOfBirth: &f.DateOfBirth,
		Role:        &f.Role,
	}
}

func editValues(user backend.User) webtemplates.AdminEditValues {
	role := user.Role
	if role == "" {
		role = backend.RoleStudent
	}
	return webtemplates.AdminEditValues{
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
		DateOfBirth: webtemplates.DateInputValue(user.DateOfBirth),
		Role:        role,
	}
}

// parsePage reads a positive page number.
func parsePage(raw string) (int, bool) {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 0, false
	}
	return page, true
}
