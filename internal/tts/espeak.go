package tts

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// EspeakTTS runs the local espeak-ng binary, which writes WAV to stdout.
type EspeakTTS struct {
	binary string
	voice  string
}

var _ Synthesizer = (*EspeakTTS)(nil)

// NewEspeak finds espeak-ng (or espeak) in PATH.
func NewEspeak(voice string) (*EspeakTTS, error) {
	for _, name := range []string{"espeak-ng", "espeak"} {
		if path, err := exec.LookPath(name); err == nil {
			return newEspeakBinary(path, voice), nil
		}
	}
	return nil, fmt.Errorf("espeak-ng not found in PATH")
}

func newEspeakBinary(path, voice string) *EspeakTTS {
	if voice == "" {
		voice = "en"
	}
	return &EspeakTTS{binary: path, voice: voice}
}

// Name implements Synthesizer.
func (e *EspeakTTS) Name() string { return "espeak" }

// Synthesize implements Synthesizer.
func (e *EspeakTTS) Synthesize(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	var stdout, stderr bytes.Buffer
	// "--" keeps text starting with "-" from being read as a flag
	cmd := exec.CommandContext(ctx, e.binary, "--stdout", "-v", e.voice, "--", text)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("espeak: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	if !bytes.HasPrefix(stdout.Bytes(), []byte("RIFF")) {
		return nil, fmt.Errorf("espeak: output is not WAV")
	}
	return stdout.Bytes(), nil
}
