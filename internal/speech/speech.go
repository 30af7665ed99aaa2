// Package speech provides the speech recognizers used by the backend.
package speech

import (
	"context"

	"aura/internal/audio"
)

// SampleRate is the rate recognizers expect.
const SampleRate = 16000

// Engine is a recognizer type.
type Engine string

const (
	// EngineVosk runs a local Vosk model.
	EngineVosk Engine = "vosk"
	// EngineGoogle calls Google Cloud Speech.
	EngineGoogle Engine = "google"
)

// Recognizer turns speech into text.
type Recognizer interface {
	// Transcribe recognizes decoded audio. Implementations resample as needed.
	Transcribe(ctx context.Context, pcm *audio.PCM) (string, error)

	// Close releases engine resources.
	Close()

	// Name returns the engine name for logs.
	Name() string
}

// Config holds recognizer settings.
type Config struct {
	Engine Engine

	// ModelID selects a Vosk model from the registry.
	ModelID string

	// ModelsDir overrides the model cache directory.
	ModelsDir string

	// Language is the BCP-47 code used by Google.
	Language string
}
