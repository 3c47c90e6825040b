// Package speech turns translated text into spoken audio.
package speech

import (
	"context"
	"errors"
)

const (
	// TranslationPitch and TranslationRate are used right after a translation.
	TranslationPitch = 1.0
	TranslationRate  = 0.8

	// DefaultPitch and DefaultRate are the synthesizer defaults, used on replay.
	DefaultPitch = 1.0
	DefaultRate  = 1.0
)

// ErrUnsupportedLanguage is returned when no voice exists for a locale.
var ErrUnsupportedLanguage = errors.New("no voice for language")

// Options controls how text is spoken.
type Options struct {
	Language string  `json:"language"`
	Pitch    float64 `json:"pitch"`
	Rate     float64 `json:"rate"`
}

// TranslationOptions returns the options used to speak a fresh translation.
func TranslationOptions(locale string) Options {
	return Options{Language: locale, Pitch: TranslationPitch, Rate: TranslationRate}
}

// ReplayOptions returns the options used when the user replays a result.
func ReplayOptions(locale string) Options {
	return Options{Language: locale, Pitch: DefaultPitch, Rate: DefaultRate}
}

// Utterance is the outcome of one Speak call.
// Audio is set when no AudioStore is configured, URL otherwise.
type Utterance struct {
	Language    string `json:"language"`
	ContentType string `json:"contentType"`
	Audio       []byte `json:"audio,omitempty"`
	URL         string `json:"url,omitempty"`
	Segments    int    `json:"segments"`
}

// Speaker speaks text.
type Speaker interface {
	Speak(ctx context.Context, text string, opts Options) (Utterance, error)
}

// AudioStore persists synthesized audio and returns a URL the client can fetch.
type AudioStore interface {
	Put(ctx context.Context, audio []byte, contentType string) (string, error)
}
