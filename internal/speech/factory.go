package speech

import (
	"context"
	"fmt"

	"aura/internal/models"
)

// ModelMissingError is returned when the configured model is not downloaded.
type ModelMissingError struct {
	Model models.ModelInfo
}

func (e *ModelMissingError) Error() string {
	return fmt.Sprintf("model %s is not downloaded, run: aura models download %s", e.Model.ID, e.Model.ID)
}

// Factory creates recognizers from config.
type Factory struct {
	manager *models.Manager
}

// NewFactory creates a recognizer factory.
func NewFactory(manager *models.Manager) *Factory {
	return &Factory{manager: manager}
}

// Create creates the recognizer described by cfg.
func (f *Factory) Create(ctx context.Context, cfg Config) (Recognizer, error) {
	switch cfg.Engine {
	case EngineGoogle:
		rec, err := NewGoogle(ctx, cfg.Language)
		if err != nil {
			return nil, err
		}
		return rec, nil
	case EngineVosk, "":
		return f.createVosk(cfg.ModelID)
	default:
		return nil, fmt.Errorf("unknown engine: %s", cfg.Engine)
	}
}

func (f *Factory) createVosk(modelID string) (Recognizer, error) {
	if modelID == "" {
		modelID = models.DefaultModelID()
	}
	info, ok := models.GetModel(modelID)
	if !ok {
		return nil, fmt.Errorf("model not found: %s", modelID)
	}
	if info.Engine != models.EngineVosk {
		return nil, fmt.Errorf("model %s is not a vosk model", modelID)
	}
	if f.manager == nil || !f.manager.IsDownloaded(info) {
		return nil, &ModelMissingError{Model: info}
	}

	rec, err := NewVosk(f.manager.GetModelPath(info))
	if err != nil {
		return nil, fmt.Errorf("create recognizer: %w", err)
	}
	return rec, nil
}
