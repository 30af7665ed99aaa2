// Package audio предоставляет запись с микрофона, кодирование и воспроизведение.
package audio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
	"go.uber.org/zap"
)

const (
	// SampleRate - частота дискретизации записи (требование распознавателя).
	SampleRate = 16000
	// Channels - количество каналов (mono).
	Channels = 1
	// FramesPerBuffer - размер буфера, один буфер = один чанк.
	FramesPerBuffer = 1024
	// waveformWindow - сколько последних сэмплов отдаётся для визуализации (1 сек).
	waveformWindow = SampleRate
)

// Recorder записывает аудио с микрофона чанками PCM16LE.
type Recorder struct {
	mu      sync.Mutex
	logger  *zap.Logger
	stream  *portaudio.Stream
	buffer  []int16
	chunks  [][]byte
	tail    []int16 // последние сэмплы для waveform
	running bool
	done    chan struct{}
}

// New создаёт новый Recorder.
func New(logger *zap.Logger) (*Recorder, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Recorder{
		logger: logger,
		buffer: make([]int16, FramesPerBuffer*Channels),
	}, nil
}

// Start открывает устройство по умолчанию и начинает запись.
func (r *Recorder) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return nil
	}

	stream, err := portaudio.OpenDefaultStream(
		Channels,        // input channels
		0,               // output channels
		SampleRate,      // sample rate
		FramesPerBuffer, // frames per buffer
		r.buffer,        // buffer
	)
	if err != nil {
		return err
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return err
	}

	r.stream = stream
	r.chunks = make([][]byte, 0, 64)
	r.tail = r.tail[:0]
	r.done = make(chan struct{})
	r.running = true

	go r.recordLoop(stream, r.done)

	return nil
}

func (r *Recorder) recordLoop(stream *portaudio.Stream, done chan struct{}) {
	defer close(done)

	for {
		r.mu.Lock()
		running := r.running
		r.mu.Unlock()
		if !running {
			return
		}

		// Проверяем доступность данных, чтобы Read не блокировал остановку
		available, err := stream.AvailableToRead()
		if err != nil || available < FramesPerBuffer {
			time.Sleep(10 * time.Millisecond)
			continue
		}

		if err := stream.Read(); err != nil {
			r.logger.Debug("Ошибка чтения потока", zap.Error(err))
			time.Sleep(10 * time.Millisecond)
			continue
		}

		r.mu.Lock()
		r.appendBuffer()
		r.mu.Unlock()
	}
}

// appendBuffer сохраняет текущий буфер как чанк. Вызывается под блокировкой.
func (r *Recorder) appendBuffer() {
	r.chunks = append(r.chunks, int16ToBytes(r.buffer))

	r.tail = append(r.tail, r.buffer...)
	if over := len(r.tail) - waveformWindow; over > 0 {
		r.tail = append(r.tail[:0], r.tail[over:]...)
	}
}

// Stop останавливает запись и возвращает все чанки.
// Возвращается только после завершения цикла чтения и сброса буфера устройства.
func (r *Recorder) Stop() [][]byte {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = false
	stream := r.stream
	done := r.done
	r.stream = nil
	r.mu.Unlock()

	<-done

	// Дочитываем то, что осталось в буфере устройства
	r.mu.Lock()
	for {
		available, err := stream.AvailableToRead()
		if err != nil || available < FramesPerBuffer {
			break
		}
		if err := stream.Read(); err != nil {
			break
		}
		r.appendBuffer()
	}
	chunks := r.chunks
	r.chunks = nil
	r.mu.Unlock()

	if err := stream.Stop(); err != nil {
		r.logger.Debug("Ошибка остановки потока", zap.Error(err))
	}
	if err := stream.Close(); err != nil {
		r.logger.Debug("Ошибка закрытия потока", zap.Error(err))
	}

	r.logger.Debug("Запись остановлена", zap.Int("chunks", len(chunks)))
	return chunks
}

// Close освобождает ресурсы.
func (r *Recorder) Close() {
	r.Stop()
	portaudio.Terminate()
}

// IsRecording возвращает true если идёт запись.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Samples возвращает нормализованную копию последних сэмплов без остановки записи.
// Используется для визуализации.
func (r *Recorder) Samples() []float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running || len(r.tail) == 0 {
		return nil
	}
	return normalize(r.tail)
}
