// Package modules defines web module registry helpers.
package modules

import (
	"github.com/studentreg/web/internal/services/web/module"
	"github.com/studentreg/web/internal/services/web/modules/admin"
	"github.com/studentreg/web/internal/services/web/modules/public"
	"github.com/studentreg/web/internal/services/web/modules/publicauth"
	"github.com/studentreg/web/internal/services/web/platform/forms"
	"github.com/studentreg/web/internal/services/web/platform/modulehandler"
)

// Module aliases the module interface contract.
type Module = module.Module

// Dependencies carries the collaborators required to compose the web module
// registry. Each field is typed as the narrow interface defined by the
// consuming module, so modules cannot reach collaborators they were not given.
type Dependencies struct {
	Base modulehandler.Base

	// Public module.
	Language public.LanguageToggler

	// Public auth module.
	Auth            publicauth.Authenticator
	Registrar       publicauth.Registrar
	RegisterSignsIn bool

	// Admin module.
	Users         admin.UserClient
	Listings      *admin.Listings
	AdminPageSize int

	// Validator is shared by every form-handling module.
	Validator *forms.Validator
}
