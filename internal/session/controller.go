package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"aura/internal/i18n"
)

const (
	// TranscriptClearDelay задержка очистки расшифровки после ответа.
	TranscriptClearDelay = 3 * time.Second
	// StatusDimDelay задержка однократного затемнения статуса после запуска.
	StatusDimDelay = 2 * time.Second
)

// Deps зависимости контроллера.
type Deps struct {
	Recorder Recorder
	Encoder  Encoder
	Uploader Uploader
	Player   Player
	View     View
	Clock    Clock       // nil - системные таймеры
	Logger   *zap.Logger // nil - без логов

	// UploadTimeout ограничивает загрузку. 0 - без таймаута.
	UploadTimeout time.Duration
}

// Controller управляет циклом запись → загрузка → воспроизведение.
// Одновременно активна не более одной сессии.
type Controller struct {
	mu       sync.Mutex
	recorder Recorder
	encoder  Encoder
	uploader Uploader
	player   Player
	view     View
	clock    Clock
	logger   *zap.Logger
	timeout  time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	state      State
	control    Control
	transcript Transcript
	acquiring  bool   // идёт захват микрофона
	gen        uint64 // поколение сессии; устаревшие горутины не трогают UI
	stopPlay   context.CancelFunc
	stopClear  func() bool
	stopDim    func() bool
	started    bool
	closed     bool
}

// New создаёт контроллер.
func New(d Deps) (*Controller, error) {
	switch {
	case d.Recorder == nil:
		return nil, errors.New("session: recorder is required")
	case d.Encoder == nil:
		return nil, errors.New("session: encoder is required")
	case d.Uploader == nil:
		return nil, errors.New("session: uploader is required")
	case d.Player == nil:
		return nil, errors.New("session: player is required")
	case d.View == nil:
		return nil, errors.New("session: view is required")
	}

	clock := d.Clock
	if clock == nil {
		clock = realClock{}
	}
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Controller{
		recorder: d.Recorder,
		encoder:  d.Encoder,
		uploader: d.Uploader,
		player:   d.Player,
		view:     d.View,
		clock:    clock,
		logger:   logger,
		timeout:  d.UploadTimeout,
		ctx:      ctx,
		cancel:   cancel,
		control:  Control{Enabled: true},
	}, nil
}

// Start выводит начальное состояние и планирует затемнение статуса.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started || c.closed {
		return
	}
	c.started = true

	c.setStatus(Status{Text: i18n.T("status_idle")})
	c.setTranscript(Transcript{})
	c.setControl(c.control)
	c.view.SetState(c.state)

	c.stopDim = c.clock.AfterFunc(StatusDimDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.closed {
			c.view.DimStatus()
		}
	})
}

// Activate соответствует нажатию на кнопку записи.
func (c *Controller) Activate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activate()
}

// Shortcut соответствует нажатию клавиши быстрого доступа.
// Ничего не делает во время записи или когда кнопка отключена.
func (c *Controller) Shortcut() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.control.Enabled || c.state == StateRecording {
		return
	}
	c.activate()
}

// State возвращает текущее состояние.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Control возвращает состояние кнопки.
func (c *Controller) Control() Control {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.control
}

// Transcript возвращает текущую расшифровку.
func (c *Controller) Transcript() Transcript {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript
}

// Wait ждёт завершения всех фоновых операций.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close отменяет текущую сессию и освобождает микрофон.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.gen++
	recording := c.state == StateRecording
	c.state = StateIdle
	c.stopTimers()
	c.cancel()
	c.mu.Unlock()

	if recording {
		c.recorder.Stop()
	}
	c.wg.Wait()
}

func (c *Controller) activate() {
	if c.closed || !c.control.Enabled || c.acquiring {
		return
	}

	switch c.state {
	case StateRecording:
		c.finishRecording()
	case StateIdle, StatePlaying:
		c.beginRecording()
	}
}

func (c *Controller) beginRecording() {
	if c.state == StatePlaying {
		c.logger.Info("Воспроизведение прервано новой записью")
		if c.stopPlay != nil {
			c.stopPlay()
			c.stopPlay = nil
		}
		c.state = StateIdle
	}
	if c.stopClear != nil {
		c.stopClear()
		c.stopClear = nil
	}

	c.gen++
	gen := c.gen
	c.acquiring = true

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		err := c.recorder.Start(c.ctx)

		c.mu.Lock()
		c.acquiring = false
		if gen != c.gen {
			c.mu.Unlock()
			// Сессия отменена пока ждали микрофон
			if err == nil {
				c.recorder.Stop()
			}
			return
		}

		if err != nil {
			var permErr *PermissionError
			if !errors.As(err, &permErr) {
				err = &PermissionError{Err: err}
			}
			c.fail(err)
			c.mu.Unlock()
			return
		}

		c.logger.Info("Запись началась")
		c.state = StateRecording
		c.setControl(Control{Enabled: true, Recording: true})
		c.setStatus(Status{Text: i18n.T("status_listening")})
		c.setTranscript(Transcript{})
		c.view.SetState(StateRecording)
		c.mu.Unlock()
	}()
}

func (c *Controller) finishRecording() {
	gen := c.gen
	c.state = StateUploading
	c.setControl(Control{Enabled: false, Recording: false})
	c.setStatus(Status{Text: i18n.T("status_thinking")})
	c.view.SetState(StateUploading)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.process(gen)
	}()
}

// process выполняется вне блокировки: остановка записи, кодирование, загрузка.
func (c *Controller) process(gen uint64) {
	chunks := c.recorder.Stop()
	if len(chunks) == 0 {
		c.finish(gen, ErrEmptyCapture)
		return
	}

	blob, err := c.encoder.Encode(chunks)
	if err != nil {
		c.finish(gen, fmt.Errorf("encode: %w", err))
		return
	}

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.setStatus(Status{Text: i18n.T("status_processing")})
	c.setTranscript(Transcript{})
	c.mu.Unlock()

	ctx := c.ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	c.logger.Info("Отправка записи",
		zap.Int("chunks", len(chunks)),
		zap.Int("bytes", len(blob.Data)))
	start := time.Now()

	reply, err := c.uploader.Upload(ctx, blob)
	if err != nil {
		c.finish(gen, err)
		return
	}

	c.logger.Info("Ответ получен",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("audio_bytes", len(reply.Audio)),
		zap.Bool("transcript", reply.Transcript != ""))
	c.play(gen, reply)
}

func (c *Controller) play(gen uint64, reply *Reply) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}

	if reply.Transcript != "" {
		c.setTranscript(Transcript{Text: `"` + reply.Transcript + `"`})
	}

	playCtx, cancel := context.WithCancel(c.ctx)
	c.stopPlay = cancel
	c.state = StatePlaying
	c.setStatus(Status{Text: i18n.T("status_speaking")})
	c.setControl(Control{Enabled: true})
	c.view.SetState(StatePlaying)
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		defer cancel()

		err := c.player.Play(playCtx, reply.Audio, reply.MediaType)
		c.playbackDone(gen, err)
	}()
}

func (c *Controller) playbackDone(gen uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return
	}
	c.stopPlay = nil
	c.state = StateIdle

	if err != nil && !errors.Is(err, context.Canceled) {
		c.logger.Warn("Ошибка воспроизведения", zap.Error(err))
		c.setStatus(Status{Text: i18n.Tf("error_playback", err.Error()), Severity: SeverityError})
	} else {
		c.setStatus(Status{Text: i18n.T("status_ready")})
		c.stopClear = c.clock.AfterFunc(TranscriptClearDelay, func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			// Текст с "Error" остаётся на экране, даже если это ответ сервера
			if gen != c.gen || c.transcript.IsError || strings.Contains(c.transcript.Text, "Error") {
				return
			}
			c.setTranscript(Transcript{})
		})
	}

	c.setControl(Control{Enabled: true})
	c.view.SetState(StateIdle)
}

// finish завершает сессию с ошибкой или предупреждением.
func (c *Controller) finish(gen uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return
	}
	c.fail(err)
}

func (c *Controller) fail(err error) {
	if errors.Is(err, ErrEmptyCapture) {
		c.logger.Info("Пустая запись, загрузка пропущена")
	} else {
		c.logger.Error("Сессия завершилась ошибкой", zap.Error(err))
	}

	c.state = StateIdle
	c.setStatus(describe(err))
	c.setControl(Control{Enabled: true})
	c.view.SetState(StateIdle)
}

func (c *Controller) setStatus(s Status) {
	c.view.SetStatus(s)
	if s.Severity == SeverityCritical {
		c.setTranscript(Transcript{Text: ErrorMark + s.Text, IsError: true})
	}
}

func (c *Controller) setTranscript(t Transcript) {
	c.transcript = t
	c.view.SetTranscript(t)
}

func (c *Controller) setControl(ctl Control) {
	c.control = ctl
	c.view.SetControl(ctl)
}

func (c *Controller) stopTimers() {
	if c.stopPlay != nil {
		c.stopPlay()
		c.stopPlay = nil
	}
	if c.stopClear != nil {
		c.stopClear()
		c.stopClear = nil
	}
	if c.stopDim != nil {
		c.stopDim()
		c.stopDim = nil
	}
}
