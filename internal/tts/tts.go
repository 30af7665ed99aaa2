// Package tts synthesizes the spoken answer.
package tts

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"aura/internal/config"
)

// Synthesizer turns text into WAV audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
	Name() string
}

// New builds the synthesizer selected by cfg.
func New(cfg config.TTSConfig, logger *zap.Logger) (Synthesizer, error) {
	switch cfg.Engine {
	case config.TTSEspeak, "":
		e, err := NewEspeak(cfg.Voice)
		if err != nil {
			return nil, err
		}
		return e, nil
	case config.TTSElevenLabs:
		el := NewElevenLabsConfigFromEnv()
		el.APIKey = cfg.APIKey
		// espeak voice names are not ElevenLabs voice IDs
		if cfg.Voice != "" && cfg.Voice != "en" {
			el.VoiceID = cfg.Voice
		}
		e, err := NewElevenLabsTTS(el, logger)
		if err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown tts engine %q", cfg.Engine)
	}
}
