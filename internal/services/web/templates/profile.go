package templates

import (
	"context"
	"strings"

	"github.com/a-h/templ"

	"github.com/studentreg/web/internal/services/web/backend"
)

// ProfileView carries the signed-in user's record.
type ProfileView struct {
	Loc  Localizer
	Lang string
	User *backend.User
}

// ProfilePage renders the read-only profile. A nil user renders the loading
// placeholder.
func ProfilePage(view ProfileView) templ.Component {
	return component(func(_ context.Context, hw *writer) {
		loc := view.Loc
		if view.User == nil {
			hw.open("section", "class", "waiting", "aria-busy", "true")
			hw.element("p", T(loc, "profile.loading"))
			hw.close("section")
			return
		}
		user := *view.User

		hw.open("section", "class", "card profile")
		hw.open("header", "class", "profile-header")
		hw.element("span", user.Initials(), "class", "avatar avatar-large", "aria-hidden", "true")
		hw.element("h1", user.FullName())
		hw.element("span", profileRole(loc, user.Role), "class", "badge badge-"+user.Role)
		hw.close("header")

		hw.open("div", "class", "profile-section")
		hw.element("h2", T(loc, "profile.personal_info.title"))
		hw.raw("<dl>")
		definition(hw, T(loc, "profile.personal_info.first_name"), user.FirstName)
		definition(hw, T(loc, "profile.personal_info.last_name"), user.LastName)
		definition(hw, T(loc, "profile.personal_info.email"), user.Email)
		definition(hw, T(loc, "profile.personal_info.date_of_birth"), FormatDate(loc, view.Lang, user.DateOfBirth))
		hw.raw("</dl>")
		hw.close("div")

		hw.open("div", "class", "profile-section")
		hw.element("h2", T(loc, "profile.academic_info.title"))
		hw.raw("<dl>")
		definition(hw, T(loc, "profile.academic_info.registration_number"), user.RegistrationNumber)
		definition(hw, T(loc, "profile.academic_info.role"), profileRole(loc, user.Role))
		registered := T(loc, "profile.academic_info.not_available")
		if strings.TrimSpace(user.CreatedAt) != "" {
			registered = FormatDate(loc, view.Lang, user.CreatedAt)
		}
		definition(hw, T(loc, "profile.academic_info.registration_date"), registered)
		hw.raw("</dl>")
		hw.close("div")
		hw.close("section")
	})
}

func profileRole(loc Localizer, role string) string {
	switch role {
	case backend.RoleAdmin:
		return T(loc, "profile.roles.admin")
	case backend.RoleStudent:
		return T(loc, "profile.roles.student")
	default:
		return role
	}
}

func definition(hw *writer, term, value string) {
	hw.element("dt", term)
	hw.element("dd", value)
}
