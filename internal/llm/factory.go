package llm

import (
	"context"
	"fmt"

	"aura/internal/config"
)

// New creates the completer selected by cfg. Provider "none" returns nil,
// which makes every Extract call answer the fallback intent.
func New(ctx context.Context, cfg config.LLMConfig) (Completer, error) {
	c := Config{
		URL:     cfg.URL,
		Model:   cfg.Model,
		APIKey:  cfg.APIKey,
		Timeout: cfg.TimeoutDuration(),
	}

	switch cfg.Provider {
	case config.LLMNone:
		return nil, nil
	case config.LLMOllama, "":
		return NewOllama(c), nil
	case config.LLMOpenAI:
		oc, err := NewOpenAI(c)
		if err != nil {
			return nil, err
		}
		return oc, nil
	case config.LLMGemini:
		gc, err := NewGemini(ctx, c)
		if err != nil {
			return nil, err
		}
		return gc, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
