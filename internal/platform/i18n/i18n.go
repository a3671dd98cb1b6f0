// Package i18n defines the languages the web service can render.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Supported language codes.
const (
	English = "en"
	French  = "fr"
)

// Default is the language used when no preference is known.
const Default = English

// SupportedTags lists supported languages in display order.
func SupportedTags() []language.Tag {
	return []language.Tag{language.English, language.French}
}

// Normalize maps raw input onto a supported code. Unknown or empty values
// fall back to Default.
func Normalize(raw string) string {
	code, ok := Parse(raw)
	if !ok {
		return Default
	}
	return code
}

// Parse resolves raw onto a supported code by its base language, so "fr-CA"
// and "FR" both resolve to French.
func Parse(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	switch base.String() {
	case English:
		return English, true
	case French:
		return French, true
	default:
		return "", false
	}
}

// Tag returns the x/text tag for a supported code.
func Tag(code string) language.Tag {
	if Normalize(code) == French {
		return language.French
	}
	return language.English
}

// Toggle returns the other supported language.
func Toggle(code string) string {
	if Normalize(code) == French {
		return English
	}
	return French
}
