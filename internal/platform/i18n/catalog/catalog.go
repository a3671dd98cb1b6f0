// Package catalog loads the embedded translation table and registers it with
// x/text so printers can resolve message keys for every supported language.
//
// Catalog files live at locales/<language>/<section>.yaml. Each file holds one
// section of the table; every key in a section starts with "<section>.".
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// BaseLanguage is the source language every other catalog must mirror.
const BaseLanguage = "en"

type catalogFile struct {
	Language string
	Section  string
	Messages map[string]string
}

// Table is the nested language -> section -> key -> text mapping.
type Table map[string]map[string]map[string]string

// Bundle holds every catalog file loaded from a filesystem.
type Bundle struct {
	table Table
}

//go:embed locales/*/*.yaml
var embeddedFS embed.FS

var defaultBundle = mustLoadAndRegister()

// Default returns the embedded bundle, already registered with x/text.
func Default() *Bundle {
	return defaultBundle
}

// LoadEmbedded parses the catalogs compiled into the binary.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedFS)
}

// LoadFromFS parses every locales/*/*.yaml file in catalogFS.
func LoadFromFS(catalogFS fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(catalogFS, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	bundle := &Bundle{table: Table{}}
	for _, p := range paths {
		data, err := fs.ReadFile(catalogFS, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		parsed, err := parseCatalogFile(data)
		if err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := bundle.add(p, parsed); err != nil {
			return nil, err
		}
	}
	if !bundle.HasLanguage(BaseLanguage) {
		return nil, fmt.Errorf("base language %s has no catalogs", BaseLanguage)
	}
	return bundle, nil
}

func (b *Bundle) add(p string, file catalogFile) error {
	langFromPath := path.Base(path.Dir(p))
	sectionFromPath := strings.TrimSuffix(path.Base(p), path.Ext(p))

	lang := strings.TrimSpace(file.Language)
	if lang != langFromPath {
		return fmt.Errorf("catalog %s: locale %q must match directory %q", p, lang, langFromPath)
	}
	section := strings.TrimSpace(file.Section)
	if section != sectionFromPath {
		return fmt.Errorf("catalog %s: namespace %q must match file name %q", p, section, sectionFromPath)
	}

	sections, ok := b.table[lang]
	if !ok {
		sections = map[string]map[string]string{}
		b.table[lang] = sections
	}
	if _, exists := sections[section]; exists {
		return fmt.Errorf("catalog %s: section %q already defined for %q", p, section, lang)
	}

	messages := make(map[string]string, len(file.Messages))
	for key, value := range file.Messages {
		key = strings.TrimSpace(key)
		if !strings.HasPrefix(key, section+".") {
			return fmt.Errorf("catalog %s: key %q must start with %q", p, key, section+".")
		}
		messages[key] = value
	}
	sections[section] = messages
	return nil
}

// Register installs every message with x/text so message.Printer lookups
// resolve for the catalog's language.
func (b *Bundle) Register() error {
	if b == nil {
		return nil
	}
	for _, lang := range b.Languages() {
		tag, err := language.Parse(lang)
		if err != nil {
			return fmt.Errorf("parse language %q: %w", lang, err)
		}
		for key, value := range b.Messages(lang) {
			if err := message.SetString(tag, key, value); err != nil {
				return fmt.Errorf("register %s/%s: %w", lang, key, err)
			}
		}
	}
	return nil
}

// HasLanguage reports whether lang has at least one section.
func (b *Bundle) HasLanguage(lang string) bool {
	if b == nil {
		return false
	}
	_, ok := b.table[strings.TrimSpace(lang)]
	return ok
}

// Languages returns the loaded language codes in sorted order.
func (b *Bundle) Languages() []string {
	if b == nil {
		return nil
	}
	out := make([]string, 0, len(b.table))
	for lang := range b.table {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// Sections returns the section names defined for lang.
func (b *Bundle) Sections(lang string) []string {
	if b == nil {
		return nil
	}
	sections := b.table[strings.TrimSpace(lang)]
	out := make([]string, 0, len(sections))
	for section := range sections {
		out = append(out, section)
	}
	sort.Strings(out)
	return out
}

// Messages flattens every section for lang into one key map.
func (b *Bundle) Messages(lang string) map[string]string {
	out := map[string]string{}
	if b == nil {
		return out
	}
	for _, messages := range b.table[strings.TrimSpace(lang)] {
		for key, value := range messages {
			out[key] = value
		}
	}
	return out
}

// Message looks up key for lang, falling back to the base language.
func (b *Bundle) Message(lang, key string) (string, bool) {
	key = strings.TrimSpace(key)
	section, _, ok := strings.Cut(key, ".")
	if b == nil || !ok {
		return "", false
	}
	if value, ok := b.table[strings.TrimSpace(lang)][section][key]; ok {
		return value, true
	}
	value, ok := b.table[BaseLanguage][section][key]
	return value, ok
}

// Table returns a deep copy of the translation table.
func (b *Bundle) Table() Table {
	out := Table{}
	if b == nil {
		return out
	}
	for lang, sections := range b.table {
		out[lang] = map[string]map[string]string{}
		for section, messages := range sections {
			out[lang][section] = copyMap(messages)
		}
	}
	return out
}

// MissingKeys lists base-language keys that lang does not define.
func (b *Bundle) MissingKeys(lang string) []string {
	have := b.Messages(lang)
	var missing []string
	for key := range b.Messages(BaseLanguage) {
		if _, ok := have[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

func copyMap(source map[string]string) map[string]string {
	out := make(map[string]string, len(source))
	for key, value := range source {
		out[key] = value
	}
	return out
}

func mustLoadAndRegister() *Bundle {
	bundle, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	if err := bundle.Register(); err != nil {
		panic(err)
	}
	return bundle
}

func parseCatalogFile(data []byte) (catalogFile, error) {
	out := catalogFile{Messages: map[string]string{}}
	inMessages := false

	for _, rawLine := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "locale:"):
			value, err := strconv.Unquote(strings.TrimSpace(strings.TrimPrefix(line, "locale:")))
			if err != nil {
				return catalogFile{}, fmt.Errorf("parse locale: %w", err)
			}
			out.Language = value
		case strings.HasPrefix(line, "namespace:"):
			value, err := strconv.Unquote(strings.TrimSpace(strings.TrimPrefix(line, "namespace:")))
			if err != nil {
				return catalogFile{}, fmt.Errorf("parse namespace: %w", err)
			}
			out.Section = value
		case line == "messages:":
			inMessages = true
		default:
			if !inMessages {
				return catalogFile{}, fmt.Errorf("unexpected line %q", line)
			}
			key, value, err := parseMessageEntry(line)
			if err != nil {
				return catalogFile{}, fmt.Errorf("parse entry %q: %w", line, err)
			}
			if _, dup := out.Messages[key]; dup {
				return catalogFile{}, fmt.Errorf("duplicate key %q", key)
			}
			out.Messages[key] = value
		}
	}

	switch {
	case out.Language == "":
		return catalogFile{}, fmt.Errorf("missing locale")
	case out.Section == "":
		return catalogFile{}, fmt.Errorf("missing namespace")
	case len(out.Messages) == 0:
		return catalogFile{}, fmt.Errorf("missing messages")
	}
	return out, nil
}

func parseMessageEntry(line string) (string, string, error) {
	keyToken, rest, err := splitQuotedToken(line)
	if err != nil {
		return "", "", err
	}
	key, err := strconv.Unquote(keyToken)
	if err != nil {
		return "", "", fmt.Errorf("unquote key: %w", err)
	}
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, ":") {
		return "", "", fmt.Errorf("missing ':' separator")
	}
	value, err := strconv.Unquote(strings.TrimSpace(strings.TrimPrefix(rest, ":")))
	if err != nil {
		return "", "", fmt.Errorf("unquote value: %w", err)
	}
	return key, value, nil
}

func splitQuotedToken(line string) (string, string, error) {
	if !strings.HasPrefix(line, "\"") {
		return "", "", fmt.Errorf("expected quoted token")
	}
	escaped := false
	for i := 1; i < len(line); i++ {
		switch {
		case escaped:
			escaped = false
		case line[i] == '\\':
			escaped = true
		case line[i] == '"':
			return line[:i+1], line[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("unterminated quoted token")
}
