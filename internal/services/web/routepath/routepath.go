// Package routepath stores canonical HTTP paths for web modules.
package routepath

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	Root           = "/"
	NotFound       = "/404"
	Health         = "/up"
	Login          = "/login"
	Register       = "/register"
	Logout         = "/logout"
	Profile        = "/profile"
	LanguageToggle = "/language/toggle"
	StaticPrefix   = "/static/"

	AdminPrefix             = "/admin/"
	AdminDashboard          = "/admin/dashboard"
	AdminUsersPrefix        = "/admin/users/"
	AdminUserEditPattern    = AdminUsersPrefix + "{userID}/edit"
	AdminUserDeletePattern  = AdminUsersPrefix + "{userID}/delete"
	AdminUserQRCodePattern  = AdminUsersPrefix + "{userID}/qr.png"
	AdminDialogEditQuery    = "edit"
	AdminDialogDeleteQuery  = "delete"
	AdminDialogQRCodeQuery  = "qr"
	AdminDashboardPageQuery = "page"
)

// AdminDashboardPage returns the dashboard route for a listing page.
func AdminDashboardPage(page int) string {
	if page <= 1 {
		return AdminDashboard
	}
	return AdminDashboard + "?" + AdminDashboardPageQuery + "=" + strconv.Itoa(page)
}

// AdminDashboardDialog returns the dashboard route with one row dialog open.
func AdminDashboardDialog(page int, dialog string, userID string) string {
	values := url.Values{}
	if page > 1 {
		values.Set(AdminDashboardPageQuery, strconv.Itoa(page))
	}
	values.Set(strings.TrimSpace(dialog), strings.TrimSpace(userID))
	return AdminDashboard + "?" + values.Encode()
}

// AdminUserEdit returns the admin user-update route.
func AdminUserEdit(userID string) string {
	return AdminUsersPrefix + escapeSegment(userID) + "/edit"
}

// AdminUserDelete returns the admin user-delete route.
func AdminUserDelete(userID string) string {
	return AdminUsersPrefix + escapeSegment(userID) + "/delete"
}

// AdminUserQRCode returns the admin QR download route.
func AdminUserQRCode(userID string) string {
	return AdminUsersPrefix + escapeSegment(userID) + "/qr.png"
}

// Static returns the URL for one embedded static asset.
func Static(name string) string {
	return StaticPrefix + strings.TrimPrefix(strings.TrimSpace(name), "/")
}

func escapeSegment(raw string) string {
	return url.PathEscape(strings.TrimSpace(raw))
}
