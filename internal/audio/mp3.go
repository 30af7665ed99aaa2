package audio

import (
	"bytes"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

// DecodeMP3 декодирует MP3 в моно 16-битные сэмплы.
func DecodeMP3(data []byte) (*PCM, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("mp3 decode: %w", err)
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode: %w", err)
	}
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("mp3 decode: unexpected length %d", len(raw))
	}

	// go-mp3 всегда отдаёт стерео 16-bit LE
	return &PCM{
		Samples:    downmix(bytesToInt16(raw)),
		SampleRate: dec.SampleRate(),
		Channels:   1,
	}, nil
}
