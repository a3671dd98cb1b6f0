package templates

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/message"

	"github.com/studentreg/web/internal/services/web/backend"
	webi18n "github.com/studentreg/web/internal/services/web/platform/i18n"
)

// Localizer provides translated strings for web components.
type Localizer = webi18n.Localizer

// T returns a translated string or a key-derived fallback.
func T(loc Localizer, key message.Reference, args ...any) string {
	if loc != nil {
		return loc.Sprintf(key, args...)
	}
	if keyString, ok := key.(string); ok {
		if len(args) > 0 {
			return fmt.Sprintf(keyString, args...)
		}
		return keyString
	}
	return ""
}

// RoleLabel returns the localized label for a backend role.
func RoleLabel(loc Localizer, role string) string {
	switch strings.TrimSpace(role) {
	case backend.RoleAdmin:
		return T(loc, "core.role.admin")
	case backend.RoleStudent:
		return T(loc, "core.role.student")
	default:
		return role
	}
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, true
	}
	if len(raw) > len(time.DateOnly) {
		if t, err := time.Parse(time.DateOnly, raw[:len(time.DateOnly)]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders raw as a long localized date ("January 2, 2006" or
// "2 janvier 2006"). Unparseable input is returned unchanged.
func FormatDate(loc Localizer, lang, raw string) string {
	t, ok := ParseDate(raw)
	if !ok {
		return strings.TrimSpace(raw)
	}
	month := T(loc, "core.date.month_"+strconv.Itoa(int(t.Month())))
	if lang == "fr" {
		return fmt.Sprintf("%d %s %d", t.Day(), month, t.Year())
	}
	return fmt.Sprintf("%s %d, %d", month, t.Day(), t.Year())
}

// DateInputValue returns raw as YYYY-MM-DD for date inputs.
func DateInputValue(raw string) string {
	t, ok := ParseDate(raw)
	if !ok {
		return strings.TrimSpace(raw)
	}
	return t.Format(time.DateOnly)
}
