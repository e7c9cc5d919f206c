// Package session owns the interactive pipeline state and orchestrates the
// capture, transcription, translation, and synthesis stages. One session
// serves one user; stages run strictly one at a time.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/voxlate/voxlate/internal/capture"
	"github.com/voxlate/voxlate/internal/catalog"
	"github.com/voxlate/voxlate/internal/playback"
	"github.com/voxlate/voxlate/internal/stt"
	"github.com/voxlate/voxlate/internal/translate"
	"github.com/voxlate/voxlate/internal/tts"
)

var (
	// ErrBusy means a stage is already in flight; triggers are serialized.
	ErrBusy = errors.New("session: another stage is in flight")
	// ErrNoAudio means the capture source had no buffer to hand over yet.
	ErrNoAudio = errors.New("session: no audio captured yet")
	// ErrNothingRecognized guards translation: speech must be recognized
	// first.
	ErrNothingRecognized = errors.New("session: recognize speech before translating")
	// ErrNothingToSpeak guards synthesis: text must be translated first.
	ErrNothingToSpeak = errors.New("session: translate text before playing audio")
)

// IsPrecondition reports whether err is a warning about triggering a stage
// before its prerequisite produced usable output, rather than a stage
// failure.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrNoAudio) ||
		errors.Is(err, ErrNothingRecognized) ||
		errors.Is(err, ErrNothingToSpeak)
}

// State holds the two most recent pipeline outputs. It lives for the
// duration of one session and resets only with a fresh run.
type State struct {
	RecognizedText string `json:"recognized_text"`
	TranslatedText string `json:"translated_text"`
}

// Pipeline wires the four stages to the session state. All mutation of the
// state flows through Listen and Translate; Speak only reads it.
type Pipeline struct {
	source      capture.Source
	transcriber stt.Transcriber
	translator  translate.Translator
	synth       tts.Synthesizer
	player      playback.Player
	locale      string
	logger      *slog.Logger

	mu    sync.Mutex
	busy  bool
	state State

	tracer        trace.Tracer
	stageCount    metric.Int64Counter
	stageDuration metric.Float64Histogram
}

func NewPipeline(
	source capture.Source,
	transcriber stt.Transcriber,
	translator translate.Translator,
	synth tts.Synthesizer,
	player playback.Player,
	locale string,
	logger *slog.Logger,
) *Pipeline {
	meter := otel.Meter("github.com/voxlate/voxlate/internal/session")
	stageCount, _ := meter.Int64Counter("voxlate.pipeline.stage.count",
		metric.WithDescription("Pipeline stage invocations by outcome"))
	stageDuration, _ := meter.Float64Histogram("voxlate.pipeline.stage.duration_ms",
		metric.WithDescription("Pipeline stage latency in milliseconds"))

	return &Pipeline{
		source:        source,
		transcriber:   transcriber,
		translator:    translator,
		synth:         synth,
		player:        player,
		locale:        locale,
		logger:        logger.With(slog.String("component", "pipeline")),
		tracer:        otel.Tracer("github.com/voxlate/voxlate/internal/session"),
		stageCount:    stageCount,
		stageDuration: stageDuration,
	}
}

// Snapshot returns a copy of the session state.
func (p *Pipeline) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Reset clears the session state back to its start-of-session defaults.
func (p *Pipeline) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = State{}
}

// Listen captures one utterance and transcribes it. On success the
// recognized text replaces the session transcript; on a transcription
// failure the transcript is cleared so a stale or error value can never flow
// into translation.
func (p *Pipeline) Listen(ctx context.Context) (string, error) {
	if err := p.begin(); err != nil {
		return "", err
	}
	defer p.end()

	ctx, span := p.tracer.Start(ctx, "pipeline.listen")
	defer span.End()

	requestID := uuid.NewString()
	log := p.logger.With(slog.String("request_id", requestID), slog.String("stage", "listen"))
	start := time.Now()

	clip, err := p.source.Capture(ctx)
	if err != nil {
		p.record(ctx, "listen", "error", start)
		log.Warn("capture failed", slog.String("error", err.Error()))
		return "", err
	}
	if clip == nil {
		p.record(ctx, "listen", "warning", start)
		return "", ErrNoAudio
	}

	result := p.transcriber.Transcribe(ctx, clip, p.locale)
	if !result.OK() {
		p.mu.Lock()
		p.state.RecognizedText = ""
		p.mu.Unlock()
		p.record(ctx, "listen", "error", start)
		log.Warn("transcription failed", slog.String("error", result.Err.Error()))
		return "", result.Err
	}

	p.mu.Lock()
	p.state.RecognizedText = result.Text
	p.mu.Unlock()
	p.record(ctx, "listen", "ok", start)
	log.Info("speech recognized",
		slog.Int("chars", len(result.Text)),
		slog.Float64("confidence", result.Confidence))
	return result.Text, nil
}

// Translate converts the recognized transcript into the selected language.
// It refuses to run while the transcript is empty.
func (p *Pipeline) Translate(ctx context.Context, group, languageName string) (string, error) {
	if err := p.begin(); err != nil {
		return "", err
	}
	defer p.end()

	ctx, span := p.tracer.Start(ctx, "pipeline.translate")
	defer span.End()

	requestID := uuid.NewString()
	log := p.logger.With(slog.String("request_id", requestID), slog.String("stage", "translate"))
	start := time.Now()

	p.mu.Lock()
	source := p.state.RecognizedText
	p.mu.Unlock()
	if source == "" {
		p.record(ctx, "translate", "warning", start)
		return "", ErrNothingRecognized
	}

	code, err := catalog.Resolve(group, languageName)
	if err != nil {
		p.record(ctx, "translate", "error", start)
		return "", err
	}

	translated, err := p.translator.Translate(ctx, source, code)
	if err != nil {
		p.record(ctx, "translate", "error", start)
		log.Warn("translation failed", slog.String("error", err.Error()))
		return "", err
	}

	p.mu.Lock()
	p.state.TranslatedText = translated
	p.mu.Unlock()
	p.record(ctx, "translate", "ok", start)
	log.Info("text translated",
		slog.String("lang", string(code)),
		slog.Int("chars", len(translated)))
	return translated, nil
}

// Speak synthesizes the translated text and hands the clip to the configured
// player. It refuses to call the synthesis backend for empty or
// whitespace-only text.
func (p *Pipeline) Speak(ctx context.Context, group, languageName string) error {
	if err := p.begin(); err != nil {
		return err
	}
	defer p.end()

	ctx, span := p.tracer.Start(ctx, "pipeline.speak")
	defer span.End()

	requestID := uuid.NewString()
	log := p.logger.With(slog.String("request_id", requestID), slog.String("stage", "speak"))
	start := time.Now()

	p.mu.Lock()
	text := p.state.TranslatedText
	p.mu.Unlock()
	if strings.TrimSpace(text) == "" {
		p.record(ctx, "speak", "warning", start)
		return ErrNothingToSpeak
	}

	code, err := catalog.Resolve(group, languageName)
	if err != nil {
		p.record(ctx, "speak", "error", start)
		return err
	}

	audio, err := p.synth.Synthesize(ctx, text, code)
	if err != nil {
		p.record(ctx, "speak", "error", start)
		log.Warn("synthesis failed", slog.String("error", err.Error()))
		return err
	}

	if err := p.player.Play(ctx, audio); err != nil {
		p.record(ctx, "speak", "error", start)
		log.Warn("playback failed", slog.String("error", err.Error()))
		return err
	}

	p.record(ctx, "speak", "ok", start)
	log.Info("speech played",
		slog.String("lang", string(code)),
		slog.Int("pcm_bytes", len(audio.PCM)))
	return nil
}

func (p *Pipeline) begin() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.busy {
		return ErrBusy
	}
	p.busy = true
	return nil
}

func (p *Pipeline) end() {
	p.mu.Lock()
	p.busy = false
	p.mu.Unlock()
}

func (p *Pipeline) record(ctx context.Context, stage, outcome string, start time.Time) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("outcome", outcome))
	attrs := metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("outcome", outcome),
	)
	p.stageCount.Add(ctx, 1, attrs)
	p.stageDuration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
}
