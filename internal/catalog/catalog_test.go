package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestDefault_Entries(t *testing.T) {
	c := Default()

	require.Equal(t, 20, c.Len())

	seen := map[string]bool{}
	for _, e := range c.Entries() {
		assert.False(t, seen[e.LocaleCode], "duplicate locale %q", e.LocaleCode)
		seen[e.LocaleCode] = true

		tag, err := language.Parse(e.LocaleCode)
		require.NoError(t, err)

		// The service code is the base language of the locale.
		base, _ := tag.Base()
		assert.Equal(t, base.String(), e.ServiceCode, "locale %q", e.LocaleCode)
	}
}

func TestResolveServiceCode(t *testing.T) {
	c := Default()

	tests := []struct {
		name   string
		locale string
		source string
		target string
	}{
		{name: "spanish spain", locale: "es-ES", source: "es", target: "es"},
		{name: "english us", locale: "en-US", source: "en", target: "en"},
		{name: "mandarin", locale: "zh-CN", source: "zh", target: "zh"},
		{name: "armenian", locale: "hy-AM", source: "hy", target: "hy"},
		{name: "unknown locale", locale: "xx-YY", source: "es", target: "en"},
		{name: "empty locale", locale: "", source: "es", target: "en"},
		{name: "case differs", locale: "en-us", source: "es", target: "en"},
		{name: "bare code", locale: "fr", source: "es", target: "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.source, c.SourceServiceCode(tt.locale))
			assert.Equal(t, tt.target, c.TargetServiceCode(tt.locale))
		})
	}
}

func TestLookup(t *testing.T) {
	c := Default()

	e, ok := c.Lookup("pt-BR")
	require.True(t, ok)
	assert.Equal(t, LanguageEntry{DisplayName: "Portugués (Brasil)", LocaleCode: "pt-BR", ServiceCode: "pt"}, e)

	_, ok = c.Lookup("pt-PT")
	assert.False(t, ok)
}

func TestDisplayName(t *testing.T) {
	c := Default()

	assert.Equal(t, "Alemán", c.DisplayName("de-DE"))
	assert.Equal(t, NotFoundName, c.DisplayName("de-AT"))
}

func TestEntries_ReturnsCopy(t *testing.T) {
	c := Default()

	entries := c.Entries()
	entries[0].ServiceCode = "zz"

	assert.Equal(t, "es", c.Entries()[0].ServiceCode)
}

func TestNew_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		entries []LanguageEntry
	}{
		{
			name: "duplicate locale",
			entries: []LanguageEntry{
				{DisplayName: "A", LocaleCode: "en-US", ServiceCode: "en"},
				{DisplayName: "B", LocaleCode: "en-US", ServiceCode: "en"},
			},
		},
		{
			name:    "malformed tag",
			entries: []LanguageEntry{{DisplayName: "A", LocaleCode: "not a tag", ServiceCode: "en"}},
		},
		{
			name:    "missing service code",
			entries: []LanguageEntry{{DisplayName: "A", LocaleCode: "en-US"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.entries...)
			assert.Error(t, err)
		})
	}
}
