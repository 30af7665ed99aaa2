// Package models manages the local speech recognition models.
package models

// Engine is the recognizer a model belongs to.
type Engine string

const (
	EngineVosk Engine = "vosk"
)

// ModelInfo describes a downloadable model.
type ModelInfo struct {
	ID       string // "vosk-en-small"
	Engine   Engine
	Name     string // display name
	Language string
	Filename string // directory name after unpacking
	URL      string
	Size     int64 // bytes, used for progress when the server omits Content-Length
	IsZip    bool
}

// Registry lists every known model.
var Registry = []ModelInfo{
	{
		ID:       "vosk-en-small",
		Engine:   EngineVosk,
		Name:     "English Small",
		Language: "en",
		Filename: "vosk-model-small-en-us-0.15",
		URL:      "https://alphacephei.com/vosk/models/vosk-model-small-en-us-0.15.zip",
		Size:     40 * 1024 * 1024,
		IsZip:    true,
	},
	{
		ID:       "vosk-en-lgraph",
		Engine:   EngineVosk,
		Name:     "English Medium",
		Language: "en",
		Filename: "vosk-model-en-us-0.22-lgraph",
		URL:      "https://alphacephei.com/vosk/models/vosk-model-en-us-0.22-lgraph.zip",
		Size:     128 * 1024 * 1024,
		IsZip:    true,
	},
	{
		ID:       "vosk-en",
		Engine:   EngineVosk,
		Name:     "English Large",
		Language: "en",
		Filename: "vosk-model-en-us-0.22",
		URL:      "https://alphacephei.com/vosk/models/vosk-model-en-us-0.22.zip",
		Size:     1800 * 1024 * 1024,
		IsZip:    true,
	},
	{
		ID:       "vosk-ru-small",
		Engine:   EngineVosk,
		Name:     "Russian Small",
		Language: "ru",
		Filename: "vosk-model-small-ru-0.22",
		URL:      "https://alphacephei.com/vosk/models/vosk-model-small-ru-0.22.zip",
		Size:     45 * 1024 * 1024,
		IsZip:    true,
	},
}

// DefaultModelID is the model used when none is configured.
func DefaultModelID() string {
	return "vosk-en-small"
}

// GetModel returns the model with the given ID.
func GetModel(id string) (ModelInfo, bool) {
	for _, m := range Registry {
		if m.ID == id {
			return m, true
		}
	}
	return ModelInfo{}, false
}

// GetModelsByEngine returns the models of one engine.
func GetModelsByEngine(engine Engine) []ModelInfo {
	var result []ModelInfo
	for _, m := range Registry {
		if m.Engine == engine {
			result = append(result, m)
		}
	}
	return result
}

// EngineName returns a display name for the engine.
func EngineName(e Engine) string {
	switch e {
	case EngineVosk:
		return "Vosk"
	default:
		return string(e)
	}
}
