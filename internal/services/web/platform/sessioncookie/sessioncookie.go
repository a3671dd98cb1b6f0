// Package sessioncookie owns the opaque web session cookie. The cookie holds
// only a session id; the backend token stays in the server-side store.
package sessioncookie

import (
	"net/http"
	"strings"
	"time"

	"github.com/studentreg/web/internal/services/web/platform/requestmeta"
)

// Name is the canonical web session cookie name.
const Name = "web_session"

// Read returns the trimmed session cookie value when present.
func Read(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	cookie, err := r.Cookie(Name)
	if err != nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	return value, value != ""
}

// Write sets the session cookie. A zero expiresAt yields a browser-session
// cookie.
func Write(w http.ResponseWriter, r *http.Request, sessionID string, expiresAt time.Time, policy requestmeta.SchemePolicy) {
	if w == nil {
		return
	}
	cookie := base(r, policy)
	cookie.Value = strings.TrimSpace(sessionID)
	if !expiresAt.IsZero() {
		cookie.Expires = expiresAt.UTC()
	}
	http.SetCookie(w, cookie)
}

// Clear expires the session cookie.
func Clear(w http.ResponseWriter, r *http.Request, policy requestmeta.SchemePolicy) {
	if w == nil {
		return
	}
	cookie := base(r, policy)
	cookie.MaxAge = -1
	http.SetCookie(w, cookie)
}

func base(r *http.Request, policy requestmeta.SchemePolicy) *http.Cookie {
	return &http.Cookie{
		Name:     Name,
		Path:     "/",
		HttpOnly: true,
		Secure:   requestmeta.IsHTTPS(r, policy),
		SameSite: http.SameSiteLaxMode,
	}
}
