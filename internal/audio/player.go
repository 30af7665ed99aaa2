package audio

import (
	"context"
	"fmt"

	"github.com/gordonklaus/portaudio"
	"go.uber.org/zap"
)

// Player воспроизводит ответ сервера на устройстве вывода по умолчанию.
type Player struct {
	logger *zap.Logger
}

// NewPlayer создаёт Player.
func NewPlayer(logger *zap.Logger) (*Player, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Player{logger: logger}, nil
}

// Play декодирует и проигрывает аудио. Блокируется до окончания или отмены ctx.
func (p *Player) Play(ctx context.Context, data []byte, mediaType string) error {
	pcm, err := Decode(data, mediaType)
	if err != nil {
		return err
	}
	if len(pcm.Samples) == 0 {
		return nil
	}

	out := make([]int16, FramesPerBuffer*pcm.Channels)
	stream, err := portaudio.OpenDefaultStream(0, pcm.Channels, float64(pcm.SampleRate), FramesPerBuffer, out)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("start output: %w", err)
	}

	p.logger.Debug("Воспроизведение",
		zap.Int("samples", len(pcm.Samples)),
		zap.Int("rate", pcm.SampleRate),
		zap.Float64("seconds", pcm.Duration()))

	for pos := 0; pos < len(pcm.Samples); pos += len(out) {
		if err := ctx.Err(); err != nil {
			stream.Abort()
			return err
		}

		n := copy(out, pcm.Samples[pos:])
		// Хвост последнего буфера заполняем тишиной
		for i := n; i < len(out); i++ {
			out[i] = 0
		}
		if err := stream.Write(); err != nil {
			stream.Abort()
			return fmt.Errorf("write output: %w", err)
		}
	}

	return stream.Stop()
}

// Close освобождает ресурсы.
func (p *Player) Close() {
	portaudio.Terminate()
}
