// Package orchestrator runs the translate-then-speak cycle.
//
// A cycle validates the input, resolves locale codes through the catalog,
// calls the translation service and, only after a successful translation,
// speaks the result. Each cycle publishes its state transitions as
// snapshots; a newer cycle supersedes older ones, whose late outcomes are
// discarded (last request wins).
package orchestrator

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/pricofy/voice-translator/internal/catalog"
	"github.com/pricofy/voice-translator/internal/domain"
	"github.com/pricofy/voice-translator/internal/speech"
	"github.com/pricofy/voice-translator/internal/translator"
)

// Snapshot is the observable state of the latest cycle.
type Snapshot struct {
	RequestID uint64         `json:"requestId"`
	State     domain.State   `json:"state"`
	Loading   bool           `json:"loading"`
	Result    *domain.Result `json:"result,omitempty"`
	Err       error          `json:"-"`
}

// Listener receives every published snapshot, in order.
type Listener func(Snapshot)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithCatalog replaces the built-in language catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *Orchestrator) { o.catalog = c }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithListener registers a snapshot listener.
func WithListener(l Listener) Option {
	return func(o *Orchestrator) { o.listener = l }
}

// Orchestrator coordinates translation and speech for one session.
type Orchestrator struct {
	catalog    *catalog.Catalog
	translator translator.Translator
	speaker    speech.Speaker
	logger     *zap.Logger
	listener   Listener

	// publishMu serializes snapshot updates with their notification.
	publishMu sync.Mutex

	mu      sync.Mutex
	current uint64
	snap    Snapshot
}

// New creates an Orchestrator.
func New(t translator.Translator, s speech.Speaker, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		catalog:    catalog.Default(),
		translator: t,
		speaker:    s,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// TranslateAndSpeak translates sourceText and speaks the translation in
// targetLocale. It returns domain.ErrValidation for blank input,
// domain.ErrTranslation when the service fails, and domain.ErrSuperseded
// when a newer call started before the translation arrived.
// Speech failures do not fail the call; they are reported in Result.SpeechErr.
func (o *Orchestrator) TranslateAndSpeak(ctx context.Context, sourceText, sourceLocale, targetLocale string) (domain.Result, error) {
	id := o.begin()
	log := o.logger.With(
		zap.Uint64("request_id", id),
		zap.String("source_locale", sourceLocale),
		zap.String("target_locale", targetLocale),
	)

	o.publish(Snapshot{RequestID: id, State: domain.StateValidating})

	if strings.TrimSpace(sourceText) == "" {
		o.publish(Snapshot{RequestID: id, State: domain.StateValidationFailed, Err: domain.ErrValidation})
		return domain.Result{}, domain.ErrValidation
	}

	sourceCode := o.catalog.SourceServiceCode(sourceLocale)
	targetCode := o.catalog.TargetServiceCode(targetLocale)

	o.publish(Snapshot{RequestID: id, State: domain.StateLoading, Loading: true})

	translated, err := o.translator.Translate(ctx, sourceText, sourceCode, targetCode)
	if err != nil {
		log.Warn("translation failed",
			zap.String("langpair", translator.LangPair(sourceCode, targetCode)),
			zap.Int("text_len", len(sourceText)),
			zap.Error(err),
		)
		if !o.publish(Snapshot{RequestID: id, State: domain.StateTranslationFailed, Err: domain.ErrTranslation}) {
			return domain.Result{}, domain.ErrSuperseded
		}
		return domain.Result{}, domain.ErrTranslation
	}

	res := domain.Result{
		RequestID:      id,
		TranslatedText: translated,
		TargetLocale:   targetLocale,
	}

	translatedRes := res
	if !o.publish(Snapshot{RequestID: id, State: domain.StateTranslated, Result: &translatedRes}) {
		log.Info("discarding superseded translation")
		return domain.Result{}, domain.ErrSuperseded
	}

	speaking := res
	if !o.publish(Snapshot{RequestID: id, State: domain.StateSpeaking, Result: &speaking}) {
		log.Info("discarding superseded translation")
		return domain.Result{}, domain.ErrSuperseded
	}

	u, err := o.speaker.Speak(ctx, translated, speech.TranslationOptions(targetLocale))
	if err != nil {
		log.Warn("speech failed", zap.Error(err))
		res.SpeechErr = err
	} else {
		res.Utterance = &u
	}

	done := res
	if !o.publish(Snapshot{RequestID: id, State: domain.StateDone, Result: &done}) {
		log.Info("discarding superseded speech")
		return domain.Result{}, domain.ErrSuperseded
	}

	return res, nil
}

// Replay speaks text again without translating it.
func (o *Orchestrator) Replay(ctx context.Context, text, locale string) (speech.Utterance, error) {
	u, err := o.speaker.Speak(ctx, text, speech.ReplayOptions(locale))
	if err != nil {
		o.logger.Warn("replay failed", zap.String("locale", locale), zap.Error(err))
		return speech.Utterance{}, err
	}
	return u, nil
}

// Snapshot returns the state of the latest cycle.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snap
}

// Languages lists the catalog for selection widgets.
func (o *Orchestrator) Languages() []catalog.LanguageEntry {
	return o.catalog.Entries()
}

// Catalog returns the language catalog in use.
func (o *Orchestrator) Catalog() *catalog.Catalog {
	return o.catalog
}

// begin allocates a request id and makes it current.
func (o *Orchestrator) begin() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.current++
	return o.current
}

// publish stores s if its request is still current and notifies the
// listener. It reports whether the request was current.
func (o *Orchestrator) publish(s Snapshot) bool {
	o.publishMu.Lock()
	defer o.publishMu.Unlock()

	o.mu.Lock()
	if s.RequestID != o.current {
		o.mu.Unlock()
		return false
	}
	o.snap = s
	o.mu.Unlock()

	if o.listener != nil {
		o.listener(s)
	}
	return true
}
