package templates

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/studentreg/web/internal/services/web/routepath"
)

// Viewer is the navbar view of the current visitor.
type Viewer struct {
	SignedIn bool
	Admin    bool
	Name     string
	Initials string
	Role     string
}

// Toast is a dismissible notice shown above the page content.
type Toast struct {
	Kind         string
	Message      string
	DismissAfter time.Duration
}

// LayoutOptions configures the page shell.
type LayoutOptions struct {
	Title       string
	Lang        string
	Loc         Localizer
	CurrentPath string
	Viewer      Viewer
	Toast       *Toast
	// RefreshURL, when set, navigates the browser there after RefreshAfter.
	RefreshURL   string
	RefreshAfter time.Duration
}

// Layout renders the full HTML document around the children in ctx.
func Layout(opts LayoutOptions) templ.Component {
	return component(func(ctx context.Context, hw *writer) {
		lang := strings.TrimSpace(opts.Lang)
		if lang == "" {
			lang = "en"
		}
		appName := T(opts.Loc, "core.navbar.title")
		title := appName
		if t := strings.TrimSpace(opts.Title); t != "" && t != appName {
			title = t + " | " + appName
		}

		hw.raw("<!doctype html>")
		hw.open("html", "lang", lang)
		hw.raw("<head>", `<meta charset="utf-8">`, `<meta name="viewport" content="width=device-width, initial-scale=1">`)
		hw.element("title", title)
		if opts.RefreshURL != "" {
			seconds := int(opts.RefreshAfter / time.Second)
			hw.open("meta", "http-equiv", "refresh", "content", strconv.Itoa(seconds)+";url="+opts.RefreshURL)
		}
		hw.open("link", "rel", "stylesheet", "href", routepath.Static("app.css"))
		hw.open("script", "src", routepath.Static("app.js"), "defer", "defer")
		hw.close("script")
		hw.raw("</head><body>")
		hw.render(ctx, Navbar(opts))
		if opts.Toast != nil {
			hw.render(ctx, ToastNotice(opts.Loc, *opts.Toast))
		}
		hw.open("main", "id", "main", "class", "container")
		children := templ.GetChildren(ctx)
		hw.render(templ.ClearChildren(ctx), children)
		hw.close("main")
		hw.raw("</body></html>")
	})
}

// Navbar renders the top navigation for opts.Viewer.
func Navbar(opts LayoutOptions) templ.Component {
	return component(func(_ context.Context, hw *writer) {
		loc := opts.Loc
		viewer := opts.Viewer
		hw.open("header", "class", "navbar")
		hw.element("a", T(loc, "core.navbar.title"), "class", "navbar-title", "href", routepath.Root)
		hw.open("nav", "class", "navbar-links")
		navLink(hw, opts.CurrentPath, routepath.Root, T(loc, "core.navbar.home"))
		if viewer.SignedIn {
			navLink(hw, opts.CurrentPath, routepath.Profile, T(loc, "core.navbar.profile"))
			if viewer.Admin {
				navLink(hw, opts.CurrentPath, routepath.AdminDashboard, T(loc, "core.navbar.admin_dashboard"))
			}
		} else {
			navLink(hw, opts.CurrentPath, routepath.Login, T(loc, "core.navbar.login"))
			navLink(hw, opts.CurrentPath, routepath.Register, T(loc, "core.navbar.register"))
		}
		hw.close("nav")

		hw.open("form", "method", "post", "action", routepath.LanguageToggle, "class", "language-toggle")
		hw.element("button", T(loc, "core.language.toggle"), "type", "submit", "class", "button-link")
		hw.close("form")

		if viewer.SignedIn {
			hw.open("div", "class", "navbar-user")
			hw.element("span", viewer.Initials, "class", "avatar", "aria-hidden", "true")
			hw.element("span", viewer.Name, "class", "navbar-user-name")
			hw.element("span", T(loc, "core.navbar.role")+": "+RoleLabel(loc, viewer.Role), "class", "navbar-user-role")
			hw.open("form", "method", "post", "action", routepath.Logout)
			hw.element("button", T(loc, "core.navbar.logout"), "type", "submit", "class", "button-link")
			hw.close("form")
			hw.close("div")
		}
		hw.close("header")
	})
}

func navLink(hw *writer, current, href, label string) {
	if current == href {
		hw.element("a", label, "href", href, "aria-current", "page")
		return
	}
	hw.element("a", label, "href", href)
}

// ToastNotice renders a notice that app.js removes after DismissAfter.
func ToastNotice(loc Localizer, toast Toast) templ.Component {
	return component(func(_ context.Context, hw *writer) {
		kind := strings.TrimSpace(toast.Kind)
		if kind == "" {
			kind = "info"
		}
		role := "status"
		if kind == "error" {
			role = "alert"
		}
		dismiss := ""
		if toast.DismissAfter > 0 {
			dismiss = strconv.FormatInt(toast.DismissAfter.Milliseconds(), 10)
		}
		hw.open("div", "class", "toast toast-"+kind, "role", role, "data-dismiss-after", dismiss)
		hw.element("span", toast.Message)
		hw.element("button", T(loc, "core.error.dismiss"), "type", "button", "class", "toast-close", "data-dismiss", "true")
		hw.close("div")
	})
}

// Alert renders an inline banner. A zero dismissAfter keeps it on screen.
func Alert(kind, message string, dismissAfter time.Duration) templ.Component {
	return component(func(_ context.Context, hw *writer) {
		if strings.TrimSpace(message) == "" {
			return
		}
		role := "status"
		if kind == "error" {
			role = "alert"
		}
		dismiss := ""
		if dismissAfter > 0 {
			dismiss = strconv.FormatInt(dismissAfter.Milliseconds(), 10)
		}
		hw.element("div", message, "class", "alert alert-"+kind, "role", role, "data-dismiss-after", dismiss)
	})
}
