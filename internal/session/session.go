// Package session содержит контроллер цикла запись → загрузка → воспроизведение.
package session

import (
	"context"
	"image/color"
)

// State представляет состояние текущей сессии.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateUploading
	StatePlaying
)

// String возвращает имя состояния (для логов).
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateUploading:
		return "uploading"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// Severity уровень важности сообщения в строке статуса.
type Severity int

const (
	SeverityNormal Severity = iota
	SeverityError
	// SeverityCritical дополнительно помечает строку расшифровки.
	SeverityCritical
)

const (
	// DimmedOpacity прозрачность статуса после однократного затемнения.
	DimmedOpacity float32 = 0.7

	// ErrorMark префикс расшифровки при критической ошибке.
	ErrorMark = "⚠ "
)

var (
	colorNormal          = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	colorStatusError     = color.NRGBA{R: 0xff, G: 0xcc, B: 0xcc, A: 255}
	colorTranscriptError = color.NRGBA{R: 0xff, G: 0x99, B: 0x99, A: 255}
)

// Status сообщение в строке статуса.
type Status struct {
	Text     string
	Severity Severity
}

// Color возвращает цвет текста статуса.
func (s Status) Color() color.NRGBA {
	if s.Severity == SeverityNormal {
		return colorNormal
	}
	return colorStatusError
}

// Opacity возвращает непрозрачность статуса.
func (s Status) Opacity() float32 {
	if s.Severity == SeverityCritical {
		return 1
	}
	return 0.9
}

// Transcript содержимое строки расшифровки.
type Transcript struct {
	Text    string
	IsError bool
}

// Color возвращает цвет текста расшифровки.
func (t Transcript) Color() color.NRGBA {
	if t.IsError {
		return colorTranscriptError
	}
	return colorNormal
}

// Control состояние кнопки записи.
type Control struct {
	Enabled   bool
	Recording bool // индикатор "идёт запись"
}

// Blob закодированное аудио для загрузки.
type Blob struct {
	Data      []byte
	MediaType string
	Filename  string
}

// Reply ответ сервера.
type Reply struct {
	Transcript string // пусто если заголовок отсутствует
	Audio      []byte
	MediaType  string
}

// Recorder захватывает аудио с микрофона.
type Recorder interface {
	// Start захватывает устройство и начинает запись. Может блокироваться.
	Start(ctx context.Context) error
	// Stop останавливает запись и возвращает все чанки после полного сброса буферов.
	Stop() [][]byte
}

// Encoder склеивает чанки в один объект с фиксированным типом.
type Encoder interface {
	Encode(chunks [][]byte) (Blob, error)
}

// Uploader отправляет запись на сервер.
type Uploader interface {
	Upload(ctx context.Context, blob Blob) (*Reply, error)
}

// Player воспроизводит ответ. Play блокируется до окончания воспроизведения.
type Player interface {
	Play(ctx context.Context, data []byte, mediaType string) error
}

// View отображает состояние сессии.
// Методы вызываются под блокировкой контроллера и не должны обращаться к нему синхронно.
type View interface {
	SetStatus(Status)
	SetTranscript(Transcript)
	SetControl(Control)
	SetState(State)
	DimStatus()
}
