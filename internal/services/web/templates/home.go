package templates

import (
	"context"

	"github.com/a-h/templ"

	"github.com/studentreg/web/internal/services/web/routepath"
)

// HomeView carries the landing page state.
type HomeView struct {
	Loc    Localizer
	Viewer Viewer
}

var homeFeatures = []string{"easy_registration", "secure_access", "fast_performance"}

var homeBenefits = []string{"profile_management", "admin_analytics", "support"}

// HomePage renders the landing page. Call-to-action buttons follow the
// visitor's session.
func HomePage(view HomeView) templ.Component {
	return component(func(_ context.Context, hw *writer) {
		loc := view.Loc
		hw.open("section", "class", "hero")
		hw.element("p", T(loc, "home.hero.title"), "class", "hero-eyebrow")
		hw.element("h1", T(loc, "home.hero.headline"))
		hw.element("p", T(loc, "home.hero.description"), "class", "hero-description")
		hw.open("div", "class", "hero-actions")
		if view.Viewer.SignedIn {
			hw.element("a", T(loc, "home.hero.my_profile"), "class", "button", "href", routepath.Profile)
			if view.Viewer.Admin {
				hw.element("a", T(loc, "home.hero.admin_dashboard"), "class", "button button-secondary", "href", routepath.AdminDashboard)
			}
		} else {
			hw.element("a", T(loc, "home.hero.register_now"), "class", "button", "href", routepath.Register)
			hw.element("a", T(loc, "home.hero.sign_in"), "class", "button button-secondary", "href", routepath.Login)
		}
		hw.close("div")
		hw.close("section")

		hw.open("section", "class", "features")
		for _, name := range homeFeatures {
			hw.open("article", "class", "card feature")
			hw.element("h2", T(loc, "home.features."+name+".title"))
			hw.element("p", T(loc, "home.features."+name+".description"))
			hw.close("article")
		}
		hw.close("section")

		hw.open("section", "class", "benefits")
		hw.element("h2", T(loc, "home.benefits.title"))
		hw.element("p", T(loc, "home.benefits.description"))
		hw.raw("<ul>")
		for _, name := range homeBenefits {
			hw.raw("<li>")
			hw.element("h3", T(loc, "home.benefits."+name+".title"))
			hw.element("p", T(loc, "home.benefits."+name+".description"))
			hw.raw("</li>")
		}
		hw.raw("</ul>")
		hw.close("section")

		hw.open("section", "class", "cta")
		hw.element("h2", T(loc, "home.cta.title"))
		hw.element("p", T(loc, "home.cta.description"))
		if view.Viewer.SignedIn {
			hw.element("a", T(loc, "home.cta.go_to_profile"), "class", "button", "href", routepath.Profile)
		} else {
			hw.element("a", T(loc, "home.cta.get_started"), "class", "button", "href", routepath.Register)
		}
		hw.close("section")
	})
}
