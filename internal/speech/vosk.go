package speech

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	vosk "github.com/alphacep/vosk-api/go"

	"aura/internal/audio"
)

// VoskRecognizer implements Recognizer with Vosk. The recognizer is not
// thread-safe, so calls are serialized.
type VoskRecognizer struct {
	mu         sync.Mutex
	model      *vosk.VoskModel
	recognizer *vosk.VoskRecognizer
}

// voskResult is the JSON result returned by Vosk.
type voskResult struct {
	Text string `json:"text"`
}

// NewVosk loads a Vosk model directory.
func NewVosk(modelPath string) (*VoskRecognizer, error) {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("vosk model not found: %s", modelPath)
	}

	model, err := vosk.NewModel(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load vosk model: %w", err)
	}

	rec, err := vosk.NewRecognizer(model, SampleRate)
	if err != nil {
		model.Free()
		return nil, err
	}

	return &VoskRecognizer{
		model:      model,
		recognizer: rec,
	}, nil
}

// Name returns the engine name.
func (v *VoskRecognizer) Name() string {
	return string(EngineVosk)
}

// Transcribe recognizes speech from decoded audio.
func (v *VoskRecognizer) Transcribe(ctx context.Context, pcm *audio.PCM) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data := audio.PCM16LE(pcm.MonoAt(SampleRate))

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.recognizer == nil {
		return "", fmt.Errorf("vosk recognizer is closed")
	}

	v.recognizer.AcceptWaveform(data)
	resultJSON := v.recognizer.FinalResult()

	// Reset for the next request
	v.recognizer.Reset()

	var result voskResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return "", fmt.Errorf("decode vosk result: %w", err)
	}

	return strings.TrimSpace(result.Text), nil
}

// Close releases resources.
func (v *VoskRecognizer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.recognizer != nil {
		v.recognizer.Free()
		v.recognizer = nil
	}

	if v.model != nil {
		v.model.Free()
		v.model = nil
	}
}
