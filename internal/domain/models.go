// Package domain contains the core domain types for the voice translator.
package domain

import (
	"errors"

	"github.com/pricofy/voice-translator/internal/speech"
)

// Errors reported to the caller of a translation.
var (
	// ErrValidation means the input was empty after trimming.
	ErrValidation = errors.New("empty input")

	// ErrTranslation covers transport failures, non-2xx responses and
	// service-reported failures alike.
	ErrTranslation = errors.New("could not translate")

	// ErrSuperseded means a newer request started before this one finished.
	ErrSuperseded = errors.New("superseded by a newer request")
)

// TranslationRequest is one user submission.
type TranslationRequest struct {
	SourceText   string `json:"text"`
	SourceLocale string `json:"sourceLocale"`
	TargetLocale string `json:"targetLocale"`
}

// Result is the outcome of a successful translation.
// SpeechErr is set when the translation succeeded but could not be spoken.
type Result struct {
	RequestID      uint64            `json:"requestId"`
	TranslatedText string            `json:"translatedText"`
	TargetLocale   string            `json:"targetLocale"`
	Utterance      *speech.Utterance `json:"utterance,omitempty"`
	SpeechErr      error             `json:"-"`
}

// State is a step of the translate-then-speak cycle.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateValidationFailed
	StateLoading
	StateTranslationFailed
	StateTranslated
	StateSpeaking
	StateDone
)

var stateNames = [...]string{
	StateIdle:              "idle",
	StateValidating:        "validating",
	StateValidationFailed:  "validation_failed",
	StateLoading:           "loading",
	StateTranslationFailed: "translation_failed",
	StateTranslated:        "translated",
	StateSpeaking:          "speaking",
	StateDone:              "done",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether the cycle ends in s.
func (s State) Terminal() bool {
	switch s {
	case StateValidationFailed, StateTranslationFailed, StateDone:
		return true
	}
	return false
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
