// Package flash carries one-shot notices across a post/redirect/get cycle.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/studentreg/web/internal/services/web/platform/requestmeta"
)

// CookieName is the cookie used for one-time web notices.
const CookieName = "web_flash"

const maxArgs = 4

// Kind classifies notice presentation.
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Notice is one localized message reference plus its format arguments.
type Notice struct {
	Kind Kind     `json:"kind"`
	Key  string   `json:"key"`
	Args []string `json:"args,omitempty"`
}

// Success builds a success notice for key.
func Success(key string, args ...string) Notice {
	return Notice{Kind: KindSuccess, Key: key, Args: args}
}

// Failure builds an error notice for key.
func Failure(key string, args ...string) Notice {
	return Notice{Kind: KindError, Key: key, Args: args}
}

// AnyArgs converts Args for use with a message printer.
func (n Notice) AnyArgs() []any {
	out := make([]any, len(n.Args))
	for i, arg := range n.Args {
		out[i] = arg
	}
	return out
}

// Write stores a notice cookie for the next page render.
func Write(w http.ResponseWriter, r *http.Request, notice Notice, policy requestmeta.SchemePolicy) {
	if w == nil {
		return
	}
	normalized, ok := normalize(notice)
	if !ok {
		return
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return
	}
	cookie := base(r, policy)
	cookie.Value = base64.RawURLEncoding.EncodeToString(payload)
	http.SetCookie(w, cookie)
}

// ReadAndClear returns the pending notice, if any, and expires its cookie.
func ReadAndClear(w http.ResponseWriter, r *http.Request, policy requestmeta.SchemePolicy) (Notice, bool) {
	if r == nil {
		return Notice{}, false
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return Notice{}, false
	}
	if w != nil {
		expired := base(r, policy)
		expired.MaxAge = -1
		http.SetCookie(w, expired)
	}
	return decode(cookie.Value)
}

func base(r *http.Request, policy requestmeta.SchemePolicy) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Path:     "/",
		HttpOnly: true,
		Secure:   requestmeta.IsHTTPS(r, policy),
		SameSite: http.SameSiteLaxMode,
	}
}

func decode(raw string) (Notice, bool) {
	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(raw))
	if err != nil || len(decoded) == 0 {
		return Notice{}, false
	}
	var notice Notice
	if err := json.Unmarshal(decoded, &notice); err != nil {
		return Notice{}, false
	}
	return normalize(notice)
}

func normalize(notice Notice) (Notice, bool) {
	notice.Key = strings.TrimSpace(notice.Key)
	if notice.Key == "" || len(notice.Args) > maxArgs {
		return Notice{}, false
	}
	notice.Kind = Kind(strings.ToLower(strings.TrimSpace(string(notice.Kind))))
	switch notice.Kind {
	case KindSuccess, KindInfo, KindWarning, KindError:
		return notice, true
	default:
		return Notice{}, false
	}
}
