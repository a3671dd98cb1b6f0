// Package i18n resolves and persists the display language for web requests.
//
// The active language is read, in order, from the "lang" query parameter, the
// language cookie, and the platform default. A valid query value is persisted
// back to the cookie so later requests keep it.
package i18n

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/message"

	platformi18n "github.com/studentreg/web/internal/platform/i18n"
	_ "github.com/studentreg/web/internal/platform/i18n/catalog"
	"github.com/studentreg/web/internal/services/web/platform/requestmeta"
)

const (
	// CookieName stores the chosen language code.
	CookieName = "language"
	// QueryParam selects a language for one request and persists it.
	QueryParam = "lang"

	cookieMaxAge = 365 * 24 * time.Hour
)

// Localizer provides translated strings for templates.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// Printer returns a message printer for a supported language code.
func Printer(code string) *message.Printer {
	return message.NewPrinter(platformi18n.Tag(code))
}

type languageKey struct{}

// WithLanguage stores code in ctx.
func WithLanguage(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, languageKey{}, platformi18n.Normalize(code))
}

// FromContext returns the language stored by Middleware, if any.
func FromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	code, ok := ctx.Value(languageKey{}).(string)
	return code, ok && code != ""
}

// ResolveLocalizer returns a printer and language code for r. resolve may be
// nil, in which case the request context and cookie are consulted directly.
func ResolveLocalizer(r *http.Request, resolve func(*http.Request) string) (Localizer, string) {
	code := ""
	if resolve != nil {
		code = resolve(r)
	}
	if strings.TrimSpace(code) == "" {
		code = ResolveRequest(r)
	}
	code = platformi18n.Normalize(code)
	return Printer(code), code
}

// ResolveRequest reads the request language without persisting anything.
func ResolveRequest(r *http.Request) string {
	if r == nil {
		return platformi18n.Default
	}
	if code, ok := FromContext(r.Context()); ok {
		return code
	}
	if r.URL != nil {
		if code, ok := platformi18n.Parse(r.URL.Query().Get(QueryParam)); ok {
			return code
		}
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		if code, ok := platformi18n.Parse(cookie.Value); ok {
			return code
		}
	}
	return platformi18n.Default
}

// LanguageEvent reports a language change.
type LanguageEvent struct {
	From string
	To   string
}

// Preferences owns the language cookie and notifies subscribers of changes.
type Preferences struct {
	policy requestmeta.SchemePolicy

	mu          sync.RWMutex
	nextID      int
	subscribers map[int]func(LanguageEvent)
}

// NewPreferences builds the process-wide language context.
func NewPreferences(policy requestmeta.SchemePolicy) *Preferences {
	return &Preferences{policy: policy, subscribers: map[int]func(LanguageEvent){}}
}

// Language returns the active code for r.
func (p *Preferences) Language(r *http.Request) string {
	return ResolveRequest(r)
}

// Set persists code and notifies subscribers when it differs from the
// current request language. Unsupported codes fall back to the default.
func (p *Preferences) Set(w http.ResponseWriter, r *http.Request, code string) string {
	from := p.cookieLanguage(r)
	code = platformi18n.Normalize(code)
	p.writeCookie(w, r, code)
	if from != code {
		p.publish(LanguageEvent{From: from, To: code})
	}
	return code
}

// Toggle flips between English and French, persists the result and returns
// it.
func (p *Preferences) Toggle(w http.ResponseWriter, r *http.Request) string {
	return p.Set(w, r, platformi18n.Toggle(p.Language(r)))
}

// Subscribe registers fn for language changes. The returned func removes it.
func (p *Preferences) Subscribe(fn func(LanguageEvent)) func() {
	if fn == nil {
		return func() {}
	}
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subscribers[id] = fn
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subscribers, id)
			p.mu.Unlock()
		})
	}
}

// Middleware stores the resolved language in the request context and
// persists a valid ?lang= selection.
func (p *Preferences) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if code, ok := platformi18n.Parse(r.URL.Query().Get(QueryParam)); ok {
				p.Set(w, r, code)
			}
			code := ResolveRequest(r)
			next.ServeHTTP(w, r.WithContext(WithLanguage(r.Context(), code)))
		})
	}
}

func (p *Preferences) cookieLanguage(r *http.Request) string {
	if r == nil {
		return platformi18n.Default
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		if code, ok := platformi18n.Parse(cookie.Value); ok {
			return code
		}
	}
	return platformi18n.Default
}

func (p *Preferences) writeCookie(w http.ResponseWriter, r *http.Request, code string) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    code,
		Path:     "/",
		MaxAge:   int(cookieMaxAge / time.Second),
		Secure:   requestmeta.IsHTTPS(r, p.policy),
		SameSite: http.SameSiteLaxMode,
	})
}

func (p *Preferences) publish(event LanguageEvent) {
	p.mu.RLock()
	subscribers := make([]func(LanguageEvent), 0, len(p.subscribers))
	for _, fn := range p.subscribers {
		subscribers = append(subscribers, fn)
	}
	p.mu.RUnlock()
	for _, fn := range subscribers {
		fn(event)
	}
}
