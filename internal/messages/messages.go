// Package messages renders the user-facing alert texts.
package messages

import (
	"embed"
	"fmt"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

//go:embed active.*.toml
var localeFS embed.FS

// Message IDs.
const (
	EmptyInput        = "EmptyInput"
	TranslationFailed = "TranslationFailed"
	Superseded        = "Superseded"
	SpeechUnavailable = "SpeechUnavailable"
	InvalidRequest    = "InvalidRequest"
)

// Localizer is a thin wrapper around a go-i18n Bundle.
type Localizer struct {
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
}

// New builds a Localizer from the embedded message files. An unparsable
// defaultLocale falls back to Spanish.
func New(defaultLocale string) (*Localizer, error) {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.Spanish
	}

	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range []string{"active.es.toml", "active.en.toml"} {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	return &Localizer{
		bundle:          bundle,
		defaultLanguage: tag,
	}, nil
}

// Message renders id for locale (e.g. "en-US"). It falls back to the
// default language, then to the id itself.
func (l *Localizer) Message(locale, id string, data map[string]any) string {
	if id == "" {
		return ""
	}

	var langs []string
	if locale != "" {
		langs = append(langs, locale)
	}
	langs = append(langs, l.defaultLanguage.String())

	msg, err := i18n.NewLocalizer(l.bundle, langs...).Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		return id
	}
	return msg
}
