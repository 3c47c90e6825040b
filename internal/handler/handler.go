// Package handler provides the Lambda handler for the voice translator.
package handler

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pricofy/voice-translator/internal/catalog"
	"github.com/pricofy/voice-translator/internal/domain"
	"github.com/pricofy/voice-translator/internal/messages"
	"github.com/pricofy/voice-translator/internal/speech"
)

// Actions accepted by the handler.
const (
	ActionTranslate = "translate"
	ActionReplay    = "replay"
	ActionLanguages = "languages"
)

// Error codes returned in Response.Error.
const (
	CodeValidation     = "validation"
	CodeTranslation    = "translation"
	CodeSuperseded     = "superseded"
	CodeInvalidRequest = "invalid_request"
	CodeSpeech         = "speech"
)

// Request is the input event sent by the mobile client.
type Request struct {
	Action       string `json:"action"`
	Text         string `json:"text"`
	SourceLocale string `json:"sourceLocale"`
	TargetLocale string `json:"targetLocale"`
	// Locale selects the language of Response.Message.
	Locale string `json:"locale"`
}

// Response is the output returned to the mobile client.
type Response struct {
	RequestID      uint64                  `json:"requestId,omitempty"`
	State          string                  `json:"state,omitempty"`
	TranslatedText string                  `json:"translatedText,omitempty"`
	AudioURL       string                  `json:"audioUrl,omitempty"`
	Audio          []byte                  `json:"audio,omitempty"`
	SpeechWarning  string                  `json:"speechWarning,omitempty"`
	Error          string                  `json:"error,omitempty"`
	Message        string                  `json:"message,omitempty"`
	Languages      []catalog.LanguageEntry `json:"languages,omitempty"`
}

// Service is the translate-then-speak core the handler drives.
type Service interface {
	TranslateAndSpeak(ctx context.Context, sourceText, sourceLocale, targetLocale string) (domain.Result, error)
	Replay(ctx context.Context, text, locale string) (speech.Utterance, error)
	Languages() []catalog.LanguageEntry
}

// Handler turns client events into calls on the Service.
type Handler struct {
	svc    Service
	msgs   *messages.Localizer
	logger *zap.Logger
}

// New creates a Handler.
func New(svc Service, msgs *messages.Localizer, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		svc:    svc,
		msgs:   msgs,
		logger: logger,
	}
}

// Handle processes one client event.
// Failures are reported in the response body, never as a Lambda error.
func (h *Handler) Handle(ctx context.Context, req Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		return &Response{
			Error:   CodeInvalidRequest,
			Message: h.msgs.Message(req.Locale, messages.InvalidRequest, map[string]any{"Reason": err.Error()}),
		}, nil
	}

	switch req.Action {
	case ActionReplay:
		return h.replay(ctx, req), nil
	case ActionLanguages:
		return &Response{Languages: h.svc.Languages()}, nil
	default:
		return h.translate(ctx, req), nil
	}
}

func (h *Handler) translate(ctx context.Context, req Request) *Response {
	res, err := h.svc.TranslateAndSpeak(ctx, req.Text, req.SourceLocale, req.TargetLocale)
	if err != nil {
		return h.failure(req.Locale, err)
	}

	resp := &Response{
		RequestID:      res.RequestID,
		State:          domain.StateDone.String(),
		TranslatedText: res.TranslatedText,
	}

	if res.SpeechErr != nil {
		resp.SpeechWarning = CodeSpeech
		resp.Message = h.msgs.Message(req.Locale, messages.SpeechUnavailable, nil)
	} else if res.Utterance != nil {
		resp.AudioURL = res.Utterance.URL
		resp.Audio = res.Utterance.Audio
	}

	return resp
}

func (h *Handler) replay(ctx context.Context, req Request) *Response {
	u, err := h.svc.Replay(ctx, req.Text, req.TargetLocale)
	if err != nil {
		return &Response{
			TranslatedText: req.Text,
			SpeechWarning:  CodeSpeech,
			Message:        h.msgs.Message(req.Locale, messages.SpeechUnavailable, nil),
		}
	}

	return &Response{
		TranslatedText: req.Text,
		AudioURL:       u.URL,
		Audio:          u.Audio,
	}
}

// failure maps an orchestrator error to a response.
func (h *Handler) failure(locale string, err error) *Response {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return &Response{
			State:   domain.StateValidationFailed.String(),
			Error:   CodeValidation,
			Message: h.msgs.Message(locale, messages.EmptyInput, nil),
		}
	case errors.Is(err, domain.ErrSuperseded):
		return &Response{
			Error:   CodeSuperseded,
			Message: h.msgs.Message(locale, messages.Superseded, nil),
		}
	default:
		if !errors.Is(err, domain.ErrTranslation) {
			h.logger.Error("unexpected orchestrator error", zap.Error(err))
		}
		return &Response{
			State:   domain.StateTranslationFailed.String(),
			Error:   CodeTranslation,
			Message: h.msgs.Message(locale, messages.TranslationFailed, nil),
		}
	}
}

// validateRequest checks the request is well-formed.
// Empty text is not rejected here; the orchestrator owns that rule.
func validateRequest(req Request) error {
	switch req.Action {
	case "", ActionTranslate, ActionLanguages:
		return nil
	case ActionReplay:
		if req.TargetLocale == "" {
			return fmt.Errorf("targetLocale is required")
		}
		return nil
	default:
		return fmt.Errorf("unknown action %q", req.Action)
	}
}
