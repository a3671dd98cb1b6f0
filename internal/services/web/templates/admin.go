package templates

import (
	"context"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/studentreg/web/internal/services/web/backend"
	"github.com/studentreg/web/internal/services/web/routepath"
)

// AdminErrorDismiss is how long a failed mutation message stays visible.
const AdminErrorDismiss = 5 * time.Second

// Admin dialog kinds, matching the dashboard query parameter names.
const (
	AdminDialogEdit   = routepath.AdminDialogEditQuery
	AdminDialogDelete = routepath.AdminDialogDeleteQuery
	AdminDialogQRCode = routepath.AdminDialogQRCodeQuery
)

// AdminEditValues are the editable fields of a user.
type AdminEditValues struct {
	FirstName   string
	LastName    string
	Email       string
	DateOfBirth string
	Role        string
}

// AdminDialog is the open row dialog, if any.
type AdminDialog struct {
	Kind   string
	User   backend.User
	Values AdminEditValues
	Errors FieldErrors
	// Error is a failed mutation message shown inside the dialog.
	Error string
}

// AdminView carries one dashboard page.
type AdminView struct {
	Loc        Localizer
	Lang       string
	Users      []backend.User
	Page       int
	TotalPages int
	// Error is a listing failure; it stays until the next successful fetch.
	Error  string
	Dialog *AdminDialog
}

// AdminDashboardPage renders the user table, pagination and any open dialog.
func AdminDashboardPage(view AdminView) templ.Component {
	return component(func(ctx context.Context, hw *writer) {
		loc := view.Loc
		page := max(view.Page, 1)
		totalPages := max(view.TotalPages, 1)

		hw.open("section", "class", "admin-dashboard")
		hw.element("h1", T(loc, "admin.dashboard.title"))
		hw.element("p", T(loc, "admin.dashboard.subtitle"), "class", "subtitle")
		hw.render(ctx, Alert("error", view.Error, 0))

		hw.open("table", "class", "table")
		hw.raw("<thead><tr>")
		for _, key := range []string{"user", "email", "registration_number", "date_of_birth", "role", "actions"} {
			hw.element("th", T(loc, "admin.table."+key), "scope", "col")
		}
		hw.raw("</tr></thead><tbody>")
		if len(view.Users) == 0 {
			hw.raw(`<tr><td colspan="6" class="empty">`)
			hw.text(T(loc, "admin.no_users_found"))
			hw.raw("</td></tr>")
		}
		for _, user := range view.Users {
			adminRow(hw, view, page, user)
		}
		hw.raw("</tbody>")
		hw.close("table")

		hw.open("nav", "class", "pagination", "aria-label", "pagination", "data-busy", "true")
		pageLink(hw, T(loc, "admin.pagination.previous"), page-1, page > 1)
		hw.element("span", T(loc, "admin.pagination.page", page, totalPages), "class", "pagination-status")
		pageLink(hw, T(loc, "admin.pagination.next"), page+1, page < totalPages)
		hw.close("nav")
		hw.close("section")

		if view.Dialog != nil {
			hw.render(ctx, adminDialog(view, page, *view.Dialog))
		}
	})
}

func adminRow(hw *writer, view AdminView, page int, user backend.User) {
	loc := view.Loc
	id := user.ID.String()
	hw.open("tr", "data-user-id", id)
	hw.raw("<td>")
	hw.element("span", user.Initials(), "class", "avatar", "aria-hidden", "true")
	hw.element("span", user.FullName(), "class", "user-name")
	hw.raw("</td>")
	hw.element("td", user.Email)
	hw.element("td", user.RegistrationNumber)
	hw.element("td", FormatDate(loc, view.Lang, user.DateOfBirth))
	hw.raw("<td>")
	hw.element("span", RoleLabel(loc, user.Role), "class", "badge badge-"+user.Role)
	hw.raw("</td>")
	hw.open("td", "class", "actions")
	hw.element("a", T(loc, "admin.tooltips.edit_user"), "class", "action action-edit",
		"href", routepath.AdminDashboardDialog(page, AdminDialogEdit, id), "title", T(loc, "admin.tooltips.edit_user"))
	hw.element("a", T(loc, "admin.tooltips.delete_user"), "class", "action action-delete",
		"href", routepath.AdminDashboardDialog(page, AdminDialogDelete, id), "title", T(loc, "admin.tooltips.delete_user"))
	hw.element("a", T(loc, "admin.tooltips.qr_code"), "class", "action action-qr",
		"href", routepath.AdminDashboardDialog(page, AdminDialogQRCode, id), "title", T(loc, "admin.tooltips.qr_code"))
	hw.close("td")
	hw.close("tr")
}

func pageLink(hw *writer, label string, page int, enabled bool) {
	if !enabled {
		hw.element("span", label, "class", "pagination-link disabled", "aria-disabled", "true")
		return
	}
	hw.element("a", label, "class", "pagination-link", "href", routepath.AdminDashboardPage(page))
}

func adminDialog(view AdminView, page int, dialog AdminDialog) templ.Component {
	return component(func(ctx context.Context, hw *writer) {
		loc := view.Loc
		closeURL := routepath.AdminDashboardPage(page)
		id := dialog.User.ID.String()

		hw.open("dialog", "open", "open", "class", "dialog dialog-"+dialog.Kind, "aria-labelledby", "dialog-title")
		switch dialog.Kind {
		case AdminDialogEdit:
			hw.element("h2", T(loc, "admin.edit_dialog.title"), "id", "dialog-title")
			hw.render(ctx, Alert("error", dialog.Error, AdminErrorDismiss))
			hw.open("form", "method", "post", "action", routepath.AdminUserEdit(id), "novalidate", "novalidate", "data-busy", "true")
			hw.hidden("page", strconv.Itoa(page))
			values := dialog.Values
			hw.input(inputField{Name: "firstName", Type: "text", Label: T(loc, "admin.edit_dialog.fields.first_name"),
				Value: values.FirstName, Error: dialog.Errors["firstName"], Required: true})
			hw.input(inputField{Name: "lastName", Type: "text", Label: T(loc, "admin.edit_dialog.fields.last_name"),
				Value: values.LastName, Error: dialog.Errors["lastName"], Required: true})
			hw.input(inputField{Name: "email", Type: "email", Label: T(loc, "admin.edit_dialog.fields.email"),
				Value: values.Email, Error: dialog.Errors["email"], Required: true})
			hw.input(inputField{Name: "dateOfBirth", Type: "date", Label: T(loc, "admin.edit_dialog.fields.date_of_birth"),
				Value: values.DateOfBirth, Error: dialog.Errors["dateOfBirth"], Required: true})
			roleSelect(hw, loc, values.Role, dialog.Errors["role"])
			hw.open("div", "class", "form-actions")
			hw.element("a", T(loc, "admin.edit_dialog.buttons.cancel"), "class", "button button-secondary", "href", closeURL)
			hw.element("button", T(loc, "admin.edit_dialog.buttons.update"), "type", "submit", "class", "button",
				"data-busy-label", T(loc, "admin.edit_dialog.buttons.updating"))
			hw.close("div")
			hw.close("form")
		case AdminDialogDelete:
			hw.element("h2", T(loc, "admin.delete_dialog.title"), "id", "dialog-title")
			hw.render(ctx, Alert("error", dialog.Error, AdminErrorDismiss))
			hw.element("p", T(loc, "admin.delete_dialog.confirm_message", dialog.User.FullName()))
			hw.open("form", "method", "post", "action", routepath.AdminUserDelete(id), "data-busy", "true")
			hw.hidden("page", strconv.Itoa(page))
			hw.open("div", "class", "form-actions")
			hw.element("a", T(loc, "admin.delete_dialog.buttons.cancel"), "class", "button button-secondary", "href", closeURL)
			hw.element("button", T(loc, "admin.delete_dialog.buttons.delete"), "type", "submit", "class", "button button-danger",
				"data-busy-label", T(loc, "admin.delete_dialog.buttons.deleting"))
			hw.close("div")
			hw.close("form")
		case AdminDialogQRCode:
			hw.element("h2", T(loc, "admin.qr_dialog.title"), "id", "dialog-title")
			hw.open("figure", "class", "qr-code")
			hw.open("img", "src", routepath.AdminUserQRCode(id), "alt", dialog.User.FullName(), "width", "256", "height", "256")
			hw.open("figcaption")
			hw.element("strong", dialog.User.FullName())
			hw.raw(" ")
			hw.element("span", dialog.User.RegistrationNumber)
			hw.close("figcaption")
			hw.close("figure")
			hw.open("div", "class", "form-actions")
			hw.element("a", T(loc, "admin.qr_dialog.close"), "class", "button button-secondary", "href", closeURL)
			hw.element("a", T(loc, "admin.qr_dialog.download"), "class", "button",
				"href", routepath.AdminUserQRCode(id), "download", QRCodeFilename(dialog.User))
			hw.close("div")
		}
		hw.close("dialog")
	})
}

func roleSelect(hw *writer, loc Localizer, current, errMsg string) {
	class := "field"
	if errMsg != "" {
		class += " field-invalid"
	}
	hw.open("div", "class", class)
	hw.element("label", T(loc, "admin.edit_dialog.fields.role"), "for", "field-role")
	hw.open("select", "id", "field-role", "name", "role")
	for _, role := range []string{backend.RoleStudent, backend.RoleAdmin} {
		hw.element("option", RoleLabel(loc, role), "value", role, "selected", when(role == current, "selected"))
	}
	hw.close("select")
	if errMsg != "" {
		hw.element("p", errMsg, "class", "field-error")
	}
	hw.close("div")
}

// QRCodeFilename is the download name of a user's QR code.
func QRCodeFilename(user backend.User) string {
	suffix := user.RegistrationNumber
	if suffix == "" {
		suffix = user.ID.String()
	}
	return "qrcode-" + suffix + ".png"
}
