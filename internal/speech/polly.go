package speech

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"
)

// ContentTypeMP3 is the content type of synthesized audio.
const ContentTypeMP3 = "audio/mpeg"

// SynthesizeSpeechAPI is the part of the Polly client used by the speaker.
type SynthesizeSpeechAPI interface {
	SynthesizeSpeech(ctx context.Context, params *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error)
}

// pollyVoice is the Polly language and default voice for a locale.
type pollyVoice struct {
	language types.LanguageCode
	voice    types.VoiceId
}

// Voices for catalog locales. Polly has no Argentine Spanish, Hebrew or
// Armenian voice; es-AR uses US Spanish and the other two are unsupported.
var pollyVoices = map[string]pollyVoice{
	"es-AR": {language: "es-US", voice: "Penelope"},
	"es-ES": {language: "es-ES", voice: "Lucia"},
	"es-MX": {language: "es-MX", voice: "Mia"},
	"en-US": {language: "en-US", voice: "Joanna"},
	"en-GB": {language: "en-GB", voice: "Amy"},
	"fr-FR": {language: "fr-FR", voice: "Lea"},
	"de-DE": {language: "de-DE", voice: "Vicki"},
	"pt-BR": {language: "pt-BR", voice: "Camila"},
	"it-IT": {language: "it-IT", voice: "Bianca"},
	"ja-JP": {language: "ja-JP", voice: "Mizuki"},
	"zh-CN": {language: "cmn-CN", voice: "Zhiyu"},
	"ko-KR": {language: "ko-KR", voice: "Seoyeon"},
	"ru-RU": {language: "ru-RU", voice: "Tatyana"},
	"ar-SA": {language: "arb", voice: "Zeina"},
	"hi-IN": {language: "hi-IN", voice: "Aditi"},
	"tr-TR": {language: "tr-TR", voice: "Filiz"},
	"nl-NL": {language: "nl-NL", voice: "Lotte"},
	"sv-SE": {language: "sv-SE", voice: "Astrid"},
}

// Polly speaks text with Amazon Polly.
type Polly struct {
	client   SynthesizeSpeechAPI
	engine   types.Engine
	store    AudioStore
	maxChars int
}

// NewPolly creates a Polly speaker. store may be nil, in which case the
// audio is returned inline in the Utterance.
func NewPolly(client SynthesizeSpeechAPI, engine string, store AudioStore) *Polly {
	if engine == "" {
		engine = string(types.EngineStandard)
	}
	return &Polly{
		client:   client,
		engine:   types.Engine(engine),
		store:    store,
		maxChars: DefaultMaxChars,
	}
}

// Speak synthesizes text in the voice for opts.Language.
func (p *Polly) Speak(ctx context.Context, text string, opts Options) (Utterance, error) {
	v, ok := pollyVoices[opts.Language]
	if !ok {
		return Utterance{}, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, opts.Language)
	}

	segments := SplitText(text, p.maxChars)
	if len(segments) == 0 {
		return Utterance{}, fmt.Errorf("nothing to speak")
	}

	var audio bytes.Buffer
	for i, segment := range segments {
		if err := p.synthesize(ctx, &audio, v, segment, opts); err != nil {
			return Utterance{}, fmt.Errorf("segment %d failed: %w", i+1, err)
		}
	}

	u := Utterance{
		Language:    opts.Language,
		ContentType: ContentTypeMP3,
		Segments:    len(segments),
	}

	if p.store == nil {
		u.Audio = audio.Bytes()
		return u, nil
	}

	url, err := p.store.Put(ctx, audio.Bytes(), ContentTypeMP3)
	if err != nil {
		return Utterance{}, fmt.Errorf("failed to store audio: %w", err)
	}
	u.URL = url

	return u, nil
}

// synthesize appends the MP3 for one segment to w.
// MP3 frames are self-delimiting, so segments concatenate cleanly.
func (p *Polly) synthesize(ctx context.Context, w io.Writer, v pollyVoice, text string, opts Options) error {
	out, err := p.client.SynthesizeSpeech(ctx, &polly.SynthesizeSpeechInput{
		Engine:       p.engine,
		LanguageCode: v.language,
		OutputFormat: types.OutputFormatMp3,
		Text:         aws.String(p.ssml(text, opts)),
		TextType:     types.TextTypeSsml,
		VoiceId:      v.voice,
	})
	if err != nil {
		return fmt.Errorf("failed to synthesize speech: %w", err)
	}
	defer out.AudioStream.Close()

	if _, err := io.Copy(w, out.AudioStream); err != nil {
		return fmt.Errorf("failed to read audio stream: %w", err)
	}
	return nil
}

// ssml wraps text in a prosody element carrying rate and pitch.
func (p *Polly) ssml(text string, opts Options) string {
	var b strings.Builder
	b.WriteString("<speak><prosody")

	if rate := percent(opts.Rate); rate != 100 {
		fmt.Fprintf(&b, ` rate="%d%%"`, rate)
	}

	// Neural voices ignore pitch and reject the attribute.
	if pitch := percent(opts.Pitch) - 100; pitch != 0 && p.engine == types.EngineStandard {
		fmt.Fprintf(&b, ` pitch="%+d%%"`, pitch)
	}

	b.WriteString(">")
	_ = xml.EscapeText(&b, []byte(text))
	b.WriteString("</prosody></speak>")

	return b.String()
}

// percent converts a multiplier to a whole percentage; zero means 100.
func percent(f float64) int {
	if f <= 0 {
		return 100
	}
	return int(math.Round(f * 100))
}
