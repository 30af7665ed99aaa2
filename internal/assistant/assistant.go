// Package assistant runs one voice command through recognition, intent
// extraction, the action router and speech synthesis.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"aura/internal/actions"
	"aura/internal/audio"
	"aura/internal/intent"
	"aura/internal/llm"
	"aura/internal/metrics"
	"aura/internal/speech"
	"aura/internal/tts"
)

// FallbackText is spoken when the pipeline fails after recognition.
const FallbackText = "Sorry, I had trouble understanding that."

// Intent sources.
const (
	SourceRules = "rules"
	SourceLLM   = "llm"
)

// ErrNoSpeech is returned when the recording contains no recognizable words.
var ErrNoSpeech = errors.New("no speech detected")

// Result is the outcome of one command.
type Result struct {
	Transcript string
	Intent     *intent.Intent
	Source     string
	Response   string
	Audio      []byte // WAV
}

// Deps are the engines used by the pipeline. Extractor and Metrics may be nil.
type Deps struct {
	Recognizer  speech.Recognizer
	Extractor   *llm.Extractor
	Router      *actions.Router
	Synthesizer tts.Synthesizer
	Metrics     *metrics.Metrics
	Logger      *zap.Logger
	Now         func() time.Time
}

// Pipeline processes voice commands. It is safe for concurrent use when
// its engines are.
type Pipeline struct {
	recognizer speech.Recognizer
	extractor  *llm.Extractor
	router     *actions.Router
	synth      tts.Synthesizer
	metrics    *metrics.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// New creates a pipeline.
func New(d Deps) (*Pipeline, error) {
	if d.Recognizer == nil {
		return nil, errors.New("assistant: recognizer is required")
	}
	if d.Router == nil {
		return nil, errors.New("assistant: router is required")
	}
	if d.Synthesizer == nil {
		return nil, errors.New("assistant: synthesizer is required")
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}

	return &Pipeline{
		recognizer: d.Recognizer,
		extractor:  d.Extractor,
		router:     d.Router,
		synth:      d.Synthesizer,
		metrics:    d.Metrics,
		logger:     d.Logger,
		now:        d.Now,
	}, nil
}

// Transcribe decodes the upload and recognizes it. Empty text gives ErrNoSpeech.
func (p *Pipeline) Transcribe(ctx context.Context, data []byte, mediaType string) (string, error) {
	start := time.Now()
	pcm, err := audio.Decode(data, mediaType)
	p.observe(metrics.StageDecode, start)
	if err != nil {
		return "", fmt.Errorf("decode upload: %w", err)
	}

	start = time.Now()
	text, err := p.recognizer.Transcribe(ctx, pcm)
	p.observe(metrics.StageASR, start)
	if err != nil {
		return "", fmt.Errorf("%s: %w", p.recognizer.Name(), err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}

// Respond takes recognized text through intent, action and synthesis.
func (p *Pipeline) Respond(ctx context.Context, text string) (*Result, error) {
	res := &Result{Transcript: text}

	start := time.Now()
	res.Intent, res.Source = p.resolve(ctx, text)
	p.observe(metrics.StageIntent, start)
	if p.metrics != nil {
		p.metrics.RecordIntent(res.Intent.Intent, res.Source)
	}

	start = time.Now()
	res.Response = p.router.Handle(res.Intent)
	p.observe(metrics.StageAction, start)

	p.logger.Info("Command handled",
		zap.String("transcript", text),
		zap.String("intent", res.Intent.Intent),
		zap.String("source", res.Source),
		zap.String("response", res.Response))

	start = time.Now()
	wav, err := p.synth.Synthesize(ctx, res.Response)
	p.observe(metrics.StageTTS, start)
	if err != nil {
		return res, fmt.Errorf("%s: %w", p.synth.Name(), err)
	}
	res.Audio = wav
	return res, nil
}

// Process runs the whole pipeline on an uploaded recording.
func (p *Pipeline) Process(ctx context.Context, data []byte, mediaType string) (*Result, error) {
	text, err := p.Transcribe(ctx, data, mediaType)
	if err != nil {
		return nil, err
	}
	return p.Respond(ctx, text)
}

// Fallback synthesizes the apology used when processing fails.
func (p *Pipeline) Fallback(ctx context.Context) ([]byte, error) {
	if p.metrics != nil {
		p.metrics.RecordFallback()
	}
	return p.synth.Synthesize(ctx, FallbackText)
}

func (p *Pipeline) resolve(ctx context.Context, text string) (*intent.Intent, string) {
	if in := intent.Match(text); in != nil {
		return in, SourceRules
	}
	return p.extractor.Extract(ctx, text, p.now()), SourceLLM
}

func (p *Pipeline) observe(stage string, start time.Time) {
	if p.metrics != nil {
		p.metrics.ObserveStage(stage, time.Since(start).Seconds())
	}
}
