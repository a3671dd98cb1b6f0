// Package app composes web modules into the root HTTP handler.
package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/studentreg/web/internal/services/web/module"
	"github.com/studentreg/web/internal/services/web/platform/httpx"
	"github.com/studentreg/web/internal/services/web/platform/requestmeta"
	"github.com/studentreg/web/internal/services/web/platform/sessioncookie"
	"github.com/studentreg/web/internal/services/web/routepath"
)

// ComposeInput carries module groups and the guard for the guarded group.
type ComposeInput struct {
	PublicModules  []module.Module
	GuardedModules []module.Module
	// Guard wraps every guarded module; nil mounts them unwrapped.
	Guard httpx.Middleware
}

// Compose builds a root HTTP handler from module groups. Every prefix may be
// owned by one module only, and guarded modules may not claim the root.
func Compose(input ComposeInput) (http.Handler, error) {
	root := http.NewServeMux()
	seen := make(map[string]string)

	for _, feature := range input.PublicModules {
		if feature == nil {
			return nil, fmt.Errorf("public module is nil")
		}
		if err := mountModule(root, feature, seen, false, nil); err != nil {
			return nil, err
		}
	}
	for _, feature := range input.GuardedModules {
		if feature == nil {
			return nil, fmt.Errorf("guarded module is nil")
		}
		if err := mountModule(root, feature, seen, true, input.Guard); err != nil {
			return nil, err
		}
	}
	return root, nil
}

func mountModule(root *http.ServeMux, feature module.Module, seen map[string]string, guarded bool, wrap httpx.Middleware) error {
	mount, err := feature.Mount()
	if err != nil {
		return fmt.Errorf("mount module %q: %w", feature.ID(), err)
	}
	if mount.Handler == nil {
		return fmt.Errorf("mount module %q: handler is required", feature.ID())
	}
	if len(mount.Prefixes) == 0 {
		return fmt.Errorf("mount module %q: prefix is required", feature.ID())
	}

	handler := mount.Handler
	if wrap != nil {
		handler = wrap(handler)
	}
	for _, prefix := range mount.Prefixes {
		if err := validatePrefix(prefix); err != nil {
			return fmt.Errorf("mount module %q has invalid prefix %q: %w", feature.ID(), prefix, err)
		}
		if guarded && prefix == routepath.Root {
			return fmt.Errorf("guarded module %q may not mount %q", feature.ID(), prefix)
		}
		if previous, ok := seen[prefix]; ok {
			return fmt.Errorf("module %q duplicates prefix %q owned by module %q", feature.ID(), prefix, previous)
		}
		seen[prefix] = feature.ID()
		root.Handle(prefix, handler)
	}
	return nil
}

func validatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("prefix is required")
	}
	if strings.TrimSpace(prefix) != prefix {
		return fmt.Errorf("prefix must not include surrounding whitespace")
	}
	if !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("prefix must begin with /")
	}
	if strings.Contains(prefix, "//") {
		return fmt.Errorf("prefix must not contain empty segments")
	}
	return nil
}

// RequireCookieSessionSameOrigin rejects cookie-bearing mutations that lack
// same-origin proof.
func RequireCookieSessionSameOrigin(policy requestmeta.SchemePolicy) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isMutationMethod(r) || !hasSessionCookie(r) {
				next.ServeHTTP(w, r)
				return
			}
			if !requestmeta.HasSameOriginProof(r, policy) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isMutationMethod(r *http.Request) bool {
	if r == nil {
		return false
	}
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

func hasSessionCookie(r *http.Request) bool {
	_, ok := sessioncookie.Read(r)
	return ok
}
