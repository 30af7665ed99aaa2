package audio

import (
	"bytes"
	"errors"
	"fmt"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"aura/internal/session"
)

const (
	// MediaTypeWAV тип загружаемой записи и ответа сервера.
	MediaTypeWAV = "audio/wav"
	// MediaTypeMP3 тип ответа, который умеет проигрывать Player.
	MediaTypeMP3 = "audio/mpeg"
	// UploadFilename имя файла в multipart форме.
	UploadFilename = "recorded.wav"
)

// ErrInvalidWAV данные не являются WAV.
var ErrInvalidWAV = errors.New("audio: invalid wav data")

// WAVEncoder склеивает чанки PCM16LE в один WAV файл.
type WAVEncoder struct {
	SampleRate int
	Channels   int
}

// NewWAVEncoder создаёт кодировщик с параметрами записи.
func NewWAVEncoder() *WAVEncoder {
	return &WAVEncoder{SampleRate: SampleRate, Channels: Channels}
}

// Encode реализует session.Encoder.
func (e *WAVEncoder) Encode(chunks [][]byte) (session.Blob, error) {
	data, err := EncodeWAV(bytesToInt16(bytes.Join(chunks, nil)), e.SampleRate, e.Channels)
	if err != nil {
		return session.Blob{}, err
	}
	return session.Blob{Data: data, MediaType: MediaTypeWAV, Filename: UploadFilename}, nil
}

// EncodeWAV кодирует 16-битные сэмплы в WAV.
func EncodeWAV(samples []int16, rate, channels int) ([]byte, error) {
	ws := &memWriteSeeker{}
	enc := wav.NewEncoder(ws, rate, 16, channels, 1)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: channels,
			SampleRate:  rate,
		},
		Data:           make([]int, len(samples)),
		SourceBitDepth: 16,
	}
	for i := range samples {
		buf.Data[i] = int(samples[i])
	}
	if err := enc.Write(buf); err != nil {
		enc.Close()
		return nil, fmt.Errorf("wav encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("wav encode: %w", err)
	}
	return ws.Bytes(), nil
}

// DecodeWAV декодирует WAV в 16-битные сэмплы.
func DecodeWAV(data []byte) (*PCM, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, ErrInvalidWAV
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav decode: %w", err)
	}

	shift := int(dec.BitDepth) - 16
	samples := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		switch {
		case dec.BitDepth == 8:
			// 8 бит хранится беззнаковым
			samples[i] = int16((v - 128) << 8)
		case shift > 0:
			samples[i] = int16(v >> shift)
		default:
			samples[i] = int16(v)
		}
	}

	return &PCM{
		Samples:    samples,
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
	}, nil
}

// Decode выбирает декодер по типу, а при неизвестном типе по сигнатуре.
func Decode(data []byte, mediaType string) (*PCM, error) {
	switch mediaType {
	case MediaTypeWAV, "audio/x-wav", "audio/wave", "audio/vnd.wave":
		return DecodeWAV(data)
	case MediaTypeMP3, "audio/mp3":
		return DecodeMP3(data)
	}

	switch {
	case bytes.HasPrefix(data, []byte("RIFF")):
		return DecodeWAV(data)
	case bytes.HasPrefix(data, []byte("ID3")), len(data) > 1 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return DecodeMP3(data)
	}
	return nil, fmt.Errorf("audio: unsupported media type %q", mediaType)
}
