package modules

import (
	"github.com/studentreg/web/internal/services/web/modules/admin"
	"github.com/studentreg/web/internal/services/web/modules/profile"
	"github.com/studentreg/web/internal/services/web/modules/public"
	"github.com/studentreg/web/internal/services/web/modules/publicauth"
)

// DefaultPublicModules returns modules served without a signed-in user.
func DefaultPublicModules(deps Dependencies) []Module {
	return []Module{
		public.New(deps.Base, deps.Language),
		publicauth.New(deps.Base, publicauth.Config{
			Auth:            deps.Auth,
			Registrar:       deps.Registrar,
			RegisterSignsIn: deps.RegisterSignsIn,
			Validator:       deps.Validator,
		}),
	}
}

// DefaultGuardedModules returns modules that require a signed-in user.
func DefaultGuardedModules(deps Dependencies) []Module {
	return []Module{
		profile.New(deps.Base),
		admin.New(deps.Base, admin.Config{
			Client:    deps.Users,
			Listings:  deps.Listings,
			PageSize:  deps.AdminPageSize,
			Validator: deps.Validator,
		}),
	}
}
