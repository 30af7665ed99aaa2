package speech

import (
	"context"
	"fmt"
	"strings"

	gspeech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"

	"aura/internal/audio"
)

// GoogleRecognizer implements Recognizer with Google Cloud Speech.
// Credentials come from the environment (GOOGLE_APPLICATION_CREDENTIALS).
type GoogleRecognizer struct {
	client   *gspeech.Client
	language string
}

// NewGoogle creates a Google Cloud Speech client.
func NewGoogle(ctx context.Context, language string) (*GoogleRecognizer, error) {
	client, err := gspeech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}
	if language == "" {
		language = "en-US"
	}
	return &GoogleRecognizer{client: client, language: language}, nil
}

// Name returns the engine name.
func (g *GoogleRecognizer) Name() string {
	return string(EngineGoogle)
}

// Transcribe sends the audio as LINEAR16 and joins the best alternatives.
func (g *GoogleRecognizer) Transcribe(ctx context.Context, pcm *audio.PCM) (string, error) {
	req := &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz: SampleRate,
			LanguageCode:    g.language,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{
				Content: audio.PCM16LE(pcm.MonoAt(SampleRate)),
			},
		},
	}

	resp, err := g.client.Recognize(ctx, req)
	if err != nil {
		return "", fmt.Errorf("google recognize: %w", err)
	}

	parts := make([]string, 0, len(resp.Results))
	for _, result := range resp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		if text := strings.TrimSpace(result.Alternatives[0].Transcript); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}

// Close releases the client.
func (g *GoogleRecognizer) Close() {
	g.client.Close()
}
