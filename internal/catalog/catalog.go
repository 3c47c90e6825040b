// Package catalog holds the fixed list of languages offered to the user.
package catalog

import (
	"fmt"
	"sync"

	"golang.org/x/text/language"
)

const (
	// DefaultSourceCode is used when the source locale is not in the catalog.
	DefaultSourceCode = "es"

	// DefaultTargetCode is used when the target locale is not in the catalog.
	DefaultTargetCode = "en"

	// NotFoundName is returned by DisplayName for unknown locales.
	NotFoundName = "Idioma no encontrado"
)

// LanguageEntry maps a user-facing locale to the code the translation service expects.
type LanguageEntry struct {
	DisplayName string `json:"name"`
	LocaleCode  string `json:"code"`
	ServiceCode string `json:"translateCode"`
}

// Catalog is an immutable lookup table of languages.
type Catalog struct {
	entries []LanguageEntry
	byCode  map[string]int
}

var defaultEntries = []LanguageEntry{
	{DisplayName: "Español (Argentina)", LocaleCode: "es-AR", ServiceCode: "es"},
	{DisplayName: "Español (España)", LocaleCode: "es-ES", ServiceCode: "es"},
	{DisplayName: "Español (México)", LocaleCode: "es-MX", ServiceCode: "es"},
	{DisplayName: "Inglés (US)", LocaleCode: "en-US", ServiceCode: "en"},
	{DisplayName: "Inglés (UK)", LocaleCode: "en-GB", ServiceCode: "en"},
	{DisplayName: "Francés", LocaleCode: "fr-FR", ServiceCode: "fr"},
	{DisplayName: "Alemán", LocaleCode: "de-DE", ServiceCode: "de"},
	{DisplayName: "Portugués (Brasil)", LocaleCode: "pt-BR", ServiceCode: "pt"},
	{DisplayName: "Italiano", LocaleCode: "it-IT", ServiceCode: "it"},
	{DisplayName: "Japonés", LocaleCode: "ja-JP", ServiceCode: "ja"},
	{DisplayName: "Chino (Mandarín)", LocaleCode: "zh-CN", ServiceCode: "zh"},
	{DisplayName: "Coreano", LocaleCode: "ko-KR", ServiceCode: "ko"},
	{DisplayName: "Ruso", LocaleCode: "ru-RU", ServiceCode: "ru"},
	{DisplayName: "Hebreo", LocaleCode: "he-IL", ServiceCode: "he"},
	{DisplayName: "Armenio", LocaleCode: "hy-AM", ServiceCode: "hy"},
	{DisplayName: "Árabe", LocaleCode: "ar-SA", ServiceCode: "ar"},
	{DisplayName: "Hindi", LocaleCode: "hi-IN", ServiceCode: "hi"},
	{DisplayName: "Turco", LocaleCode: "tr-TR", ServiceCode: "tr"},
	{DisplayName: "Holandés", LocaleCode: "nl-NL", ServiceCode: "nl"},
	{DisplayName: "Sueco", LocaleCode: "sv-SE", ServiceCode: "sv"},
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := New(defaultEntries...)
	if err != nil {
		panic(fmt.Sprintf("catalog: invalid built-in entries: %v", err))
	}
	return c
})

// Default returns the built-in catalog.
func Default() *Catalog {
	return defaultCatalog()
}

// New builds a catalog from entries.
// Locale codes must be unique and well-formed BCP 47 tags.
func New(entries ...LanguageEntry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]LanguageEntry, 0, len(entries)),
		byCode:  make(map[string]int, len(entries)),
	}

	for _, e := range entries {
		if _, err := language.Parse(e.LocaleCode); err != nil {
			return nil, fmt.Errorf("locale %q is not a valid language tag: %w", e.LocaleCode, err)
		}
		if e.ServiceCode == "" {
			return nil, fmt.Errorf("locale %q has no service code", e.LocaleCode)
		}
		if _, dup := c.byCode[e.LocaleCode]; dup {
			return nil, fmt.Errorf("duplicate locale %q", e.LocaleCode)
		}
		c.byCode[e.LocaleCode] = len(c.entries)
		c.entries = append(c.entries, e)
	}

	return c, nil
}

// Lookup finds the entry whose locale code matches exactly.
func (c *Catalog) Lookup(localeCode string) (LanguageEntry, bool) {
	i, ok := c.byCode[localeCode]
	if !ok {
		return LanguageEntry{}, false
	}
	return c.entries[i], true
}

// ResolveServiceCode returns the service code for localeCode, or fallback when
// the locale is unknown. Unknown locales never block a translation.
func (c *Catalog) ResolveServiceCode(localeCode, fallback string) string {
	if e, ok := c.Lookup(localeCode); ok {
		return e.ServiceCode
	}
	return fallback
}

// SourceServiceCode resolves a source locale, defaulting to Spanish.
func (c *Catalog) SourceServiceCode(localeCode string) string {
	return c.ResolveServiceCode(localeCode, DefaultSourceCode)
}

// TargetServiceCode resolves a target locale, defaulting to English.
func (c *Catalog) TargetServiceCode(localeCode string) string {
	return c.ResolveServiceCode(localeCode, DefaultTargetCode)
}

// DisplayName returns the label for localeCode or NotFoundName.
func (c *Catalog) DisplayName(localeCode string) string {
	if e, ok := c.Lookup(localeCode); ok {
		return e.DisplayName
	}
	return NotFoundName
}

// Entries returns a copy of all entries in catalog order.
func (c *Catalog) Entries() []LanguageEntry {
	out := make([]LanguageEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}
