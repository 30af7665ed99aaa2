package session

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

type fakeRecorder struct {
	mu         sync.Mutex
	startErr   error
	chunks     [][]byte
	startCalls int
	stopCalls  int
}

func (r *fakeRecorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.startCalls++
	return r.startErr
}

func (r *fakeRecorder) Stop() [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopCalls++
	return r.chunks
}

type concatEncoder struct{}

func (concatEncoder) Encode(chunks [][]byte) (Blob, error) {
	return Blob{Data: bytes.Join(chunks, nil), MediaType: "audio/test", Filename: "recorded.test"}, nil
}

type fakeUploader struct {
	mu      sync.Mutex
	blobs   []Blob
	reply   *Reply
	err     error
	entered chan struct{} // закрывается при первом вызове
	release chan struct{} // nil - не блокироваться
}

func (u *fakeUploader) Upload(ctx context.Context, blob Blob) (*Reply, error) {
	u.mu.Lock()
	u.blobs = append(u.blobs, blob)
	if u.entered != nil && len(u.blobs) == 1 {
		close(u.entered)
	}
	release := u.release
	u.mu.Unlock()

	if release != nil {
		<-release
	}
	return u.reply, u.err
}

func (u *fakeUploader) calls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.blobs)
}

type fakePlayer struct {
	mu      sync.Mutex
	err     error
	block   bool          // ждать отмены контекста
	playing chan struct{} // закрывается при первом вызове
	played  [][]byte
}

func (p *fakePlayer) Play(ctx context.Context, data []byte, mediaType string) error {
	p.mu.Lock()
	p.played = append(p.played, data)
	if p.playing != nil && len(p.played) == 1 {
		close(p.playing)
	}
	p.mu.Unlock()

	if p.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return p.err
}

type fakeView struct {
	mu          sync.Mutex
	statuses    []Status
	transcripts []Transcript
	controls    []Control
	states      []State
	dims        int
}

func (v *fakeView) SetStatus(s Status) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.statuses = append(v.statuses, s)
}

func (v *fakeView) SetTranscript(t Transcript) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.transcripts = append(v.transcripts, t)
}

func (v *fakeView) SetControl(c Control) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.controls = append(v.controls, c)
}

func (v *fakeView) SetState(s State) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.states = append(v.states, s)
}

func (v *fakeView) DimStatus() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.dims++
}

func (v *fakeView) lastStatus() Status {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.statuses) == 0 {
		return Status{}
	}
	return v.statuses[len(v.statuses)-1]
}

func (v *fakeView) lastTranscript() Transcript {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.transcripts) == 0 {
		return Transcript{}
	}
	return v.transcripts[len(v.transcripts)-1]
}

type pendingTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

type fakeClock struct {
	mu     sync.Mutex
	timers []*pendingTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) func() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &pendingTimer{d: d, f: f}
	c.timers = append(c.timers, t)
	return func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		was := !t.stopped
		t.stopped = true
		return was
	}
}

// fire запускает все активные таймеры с указанной задержкой.
func (c *fakeClock) fire(d time.Duration) int {
	c.mu.Lock()
	var due []*pendingTimer
	rest := c.timers[:0]
	for _, t := range c.timers {
		if t.d == d && !t.stopped {
			due = append(due, t)
			continue
		}
		rest = append(rest, t)
	}
	c.timers = rest
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
	return len(due)
}

func (c *fakeClock) pending(d time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if t.d == d && !t.stopped {
			n++
		}
	}
	return n
}

type harness struct {
	ctrl     *Controller
	recorder *fakeRecorder
	uploader *fakeUploader
	player   *fakePlayer
	view     *fakeView
	clock    *fakeClock
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		recorder: &fakeRecorder{chunks: [][]byte{[]byte("ab"), []byte("cd"), []byte("ef")}},
		uploader: &fakeUploader{reply: &Reply{Transcript: "hello", Audio: []byte("RIFF"), MediaType: "audio/wav"}},
		player:   &fakePlayer{},
		view:     &fakeView{},
		clock:    &fakeClock{},
	}

	ctrl, err := New(Deps{
		Recorder: h.recorder,
		Encoder:  concatEncoder{},
		Uploader: h.uploader,
		Player:   h.player,
		View:     h.view,
		Clock:    h.clock,
		Logger:   zaptest.NewLogger(t),
	})
	if err != nil {
		t.Fatalf("Failed to create controller: %v", err)
	}
	h.ctrl = ctrl
	ctrl.Start()
	t.Cleanup(ctrl.Close)
	return h
}

// cycle выполняет полный цикл: начать запись, остановить, дождаться ответа.
func (h *harness) cycle(t *testing.T) {
	t.Helper()
	h.ctrl.Activate()
	h.ctrl.Wait()
	if got := h.ctrl.State(); got != StateRecording {
		t.Fatalf("Expected state recording, got %s", got)
	}
	h.ctrl.Activate()
	h.ctrl.Wait()
}

func TestNewRequiresDependencies(t *testing.T) {
	if _, err := New(Deps{}); err == nil {
		t.Error("Expected error for missing dependencies")
	}
}

func TestEmptyCaptureSkipsUpload(t *testing.T) {
	h := newHarness(t)
	h.recorder.chunks = nil

	h.cycle(t)

	if h.uploader.calls() != 0 {
		t.Errorf("Expected no upload, got %d", h.uploader.calls())
	}
	if got := h.ctrl.State(); got != StateIdle {
		t.Errorf("Expected idle, got %s", got)
	}
	status := h.view.lastStatus()
	if status.Text != "No audio detected. Try again." || status.Severity != SeverityNormal {
		t.Errorf("Unexpected status %+v", status)
	}
	if h.view.lastTranscript().IsError {
		t.Error("Informational message must not annotate the transcript")
	}
	if !h.ctrl.Control().Enabled {
		t.Error("Expected control to be re-enabled")
	}
}

func TestUploadsConcatenatedChunksOncePerCycle(t *testing.T) {
	h := newHarness(t)

	h.cycle(t)

	if h.uploader.calls() != 1 {
		t.Fatalf("Expected exactly one upload, got %d", h.uploader.calls())
	}
	if got := string(h.uploader.blobs[0].Data); got != "abcdef" {
		t.Errorf("Expected concatenated chunks, got %q", got)
	}
	if got := h.ctrl.State(); got != StateIdle {
		t.Errorf("Expected idle after playback, got %s", got)
	}
	if got := h.view.lastStatus().Text; got != "Ready for your next command" {
		t.Errorf("Unexpected status %q", got)
	}
	if got := h.ctrl.Transcript().Text; got != `"hello"` {
		t.Errorf("Expected quoted transcript, got %q", got)
	}
	if len(h.player.played) != 1 || string(h.player.played[0]) != "RIFF" {
		t.Errorf("Expected reply audio to be played once, got %v", h.player.played)
	}

	// Второй цикл отправляет только новые чанки
	h.recorder.chunks = [][]byte{[]byte("xy")}
	h.cycle(t)
	if h.uploader.calls() != 2 || string(h.uploader.blobs[1].Data) != "xy" {
		t.Errorf("Expected second upload with new chunks, got %v", h.uploader.blobs)
	}
}

func TestStatusSequenceOfSuccessfulCycle(t *testing.T) {
	h := newHarness(t)

	h.cycle(t)

	want := []string{
		"Tap the mic and speak",
		"Listening...",
		"Thinking...",
		"Processing...",
		"Speaking...",
		"Ready for your next command",
	}
	h.view.mu.Lock()
	defer h.view.mu.Unlock()
	if len(h.view.statuses) != len(want) {
		t.Fatalf("Expected %d statuses, got %+v", len(want), h.view.statuses)
	}
	for i, s := range h.view.statuses {
		if s.Text != want[i] {
			t.Errorf("Status %d: expected %q, got %q", i, want[i], s.Text)
		}
		if s.Severity != SeverityNormal {
			t.Errorf("Status %d: expected normal severity", i)
		}
	}
}

func TestControlDisabledOnlyWhileUploading(t *testing.T) {
	h := newHarness(t)
	h.uploader.entered = make(chan struct{})
	h.uploader.release = make(chan struct{})

	h.ctrl.Activate()
	h.ctrl.Wait()
	if ctl := h.ctrl.Control(); !ctl.Enabled || !ctl.Recording {
		t.Errorf("Expected enabled recording control, got %+v", ctl)
	}

	h.ctrl.Activate()
	<-h.uploader.entered

	if got := h.ctrl.State(); got != StateUploading {
		t.Errorf("Expected uploading, got %s", got)
	}
	if ctl := h.ctrl.Control(); ctl.Enabled || ctl.Recording {
		t.Errorf("Expected disabled control while uploading, got %+v", ctl)
	}

	// Повторные нажатия во время загрузки игнорируются
	h.ctrl.Activate()
	h.ctrl.Shortcut()

	close(h.uploader.release)
	h.ctrl.Wait()

	if h.uploader.calls() != 1 {
		t.Errorf("Expected a single upload, got %d", h.uploader.calls())
	}
	if !h.ctrl.Control().Enabled {
		t.Error("Expected control to be enabled after the cycle")
	}

	// Кнопка отключалась ровно один раз, на время загрузки
	h.view.mu.Lock()
	defer h.view.mu.Unlock()
	disabled := 0
	for _, ctl := range h.view.controls {
		if !ctl.Enabled {
			disabled++
		}
	}
	if disabled != 1 {
		t.Errorf("Expected one disabled control update, got %d", disabled)
	}
}

func TestTranscriptWithoutHeaderStaysCleared(t *testing.T) {
	h := newHarness(t)
	h.uploader.reply = &Reply{Audio: []byte("RIFF"), MediaType: "audio/wav"}

	h.cycle(t)

	if got := h.ctrl.Transcript(); got.Text != "" || got.IsError {
		t.Errorf("Expected cleared transcript, got %+v", got)
	}
}

func TestApplicationErrorIsCritical(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "with body", body: "No speech detected", want: "Error: No speech detected"},
		{name: "without body", body: "", want: "Error: Processing failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.uploader.reply = nil
			h.uploader.err = &ApplicationError{StatusCode: 400, Body: tt.body}

			h.cycle(t)

			status := h.view.lastStatus()
			if status.Text != tt.want || status.Severity != SeverityCritical {
				t.Errorf("Unexpected status %+v", status)
			}
			if status.Opacity() != 1 {
				t.Errorf("Expected full opacity for critical status, got %v", status.Opacity())
			}
			tr := h.ctrl.Transcript()
			if !tr.IsError || tr.Text != ErrorMark+tt.want {
				t.Errorf("Expected flagged transcript, got %+v", tr)
			}
			if len(h.player.played) != 0 {
				t.Error("Expected no playback on failure")
			}
			if !h.ctrl.Control().Enabled || h.ctrl.State() != StateIdle {
				t.Error("Expected idle with enabled control")
			}
		})
	}
}

func TestTransportErrorIsCritical(t *testing.T) {
	h := newHarness(t)
	h.uploader.reply = nil
	h.uploader.err = &TransportError{Err: errors.New("connection refused")}

	h.cycle(t)

	status := h.view.lastStatus()
	if status.Text != "Network error: connection refused" || status.Severity != SeverityCritical {
		t.Errorf("Unexpected status %+v", status)
	}
	if !h.ctrl.Transcript().IsError {
		t.Error("Expected transcript to flag the error")
	}
}

func TestMicErrorDiscardsSession(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "message", err: errors.New("no default input device"), want: "Mic error: no default input device"},
		{name: "empty message", err: &PermissionError{}, want: "Mic error: Permission denied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.recorder.startErr = tt.err

			h.ctrl.Activate()
			h.ctrl.Wait()

			if got := h.ctrl.State(); got != StateIdle {
				t.Errorf("Expected idle, got %s", got)
			}
			status := h.view.lastStatus()
			if status.Text != tt.want || status.Severity != SeverityCritical {
				t.Errorf("Unexpected status %+v", status)
			}
			if ctl := h.ctrl.Control(); !ctl.Enabled || ctl.Recording {
				t.Errorf("Expected reset control, got %+v", ctl)
			}
			if h.uploader.calls() != 0 {
				t.Error("Expected no upload")
			}
		})
	}
}

func TestTranscriptClearedAfterDelay(t *testing.T) {
	h := newHarness(t)

	h.cycle(t)

	if h.clock.pending(TranscriptClearDelay) != 1 {
		t.Fatalf("Expected one pending clear timer")
	}
	if got := h.ctrl.Transcript().Text; got != `"hello"` {
		t.Fatalf("Transcript cleared too early: %q", got)
	}

	h.clock.fire(TranscriptClearDelay)

	if got := h.ctrl.Transcript().Text; got != "" {
		t.Errorf("Expected transcript to be cleared, got %q", got)
	}
}

func TestServerErrorTranscriptKeptAfterDelay(t *testing.T) {
	h := newHarness(t)
	h.uploader.reply = &Reply{Transcript: "Error processing request", Audio: []byte("RIFF"), MediaType: "audio/wav"}

	h.cycle(t)
	h.clock.fire(TranscriptClearDelay)

	got := h.ctrl.Transcript()
	if got.Text != `"Error processing request"` {
		t.Errorf("Expected server error transcript to stay, got %q", got.Text)
	}
	if got.IsError {
		t.Error("Server reply must not be flagged as a client error")
	}
}

func TestStaleClearTimerKeepsNewSession(t *testing.T) {
	h := newHarness(t)
	h.cycle(t)

	// Новая сессия отменяет таймер прошлой
	h.ctrl.Activate()
	h.ctrl.Wait()
	if h.clock.pending(TranscriptClearDelay) != 0 {
		t.Error("Expected clear timer to be stopped by a new session")
	}
}

func TestPlaybackErrorKeepsTranscript(t *testing.T) {
	h := newHarness(t)
	h.player.err = errors.New("device lost")

	h.cycle(t)

	status := h.view.lastStatus()
	if status.Text != "Playback error: device lost" || status.Severity != SeverityError {
		t.Errorf("Unexpected status %+v", status)
	}
	if status.Color() != colorStatusError {
		t.Errorf("Expected error color, got %v", status.Color())
	}
	if got := h.ctrl.Transcript().Text; got != `"hello"` {
		t.Errorf("Expected transcript to stay, got %q", got)
	}
	if h.clock.pending(TranscriptClearDelay) != 0 {
		t.Error("Expected no clear timer after playback error")
	}
}

func TestShortcutIgnoredWhileRecording(t *testing.T) {
	h := newHarness(t)

	h.ctrl.Shortcut()
	h.ctrl.Wait()
	if got := h.ctrl.State(); got != StateRecording {
		t.Fatalf("Expected shortcut to start recording, got %s", got)
	}

	h.ctrl.Shortcut()
	h.ctrl.Wait()
	if got := h.ctrl.State(); got != StateRecording {
		t.Errorf("Expected shortcut to be a no-op while recording, got %s", got)
	}
	if h.recorder.stopCalls != 0 {
		t.Errorf("Expected recorder to keep running, stop calls %d", h.recorder.stopCalls)
	}

	h.ctrl.Activate()
	h.ctrl.Wait()
	if h.uploader.calls() != 1 {
		t.Errorf("Expected click to stop and upload, got %d uploads", h.uploader.calls())
	}
}

func TestShortcutIgnoredWhileUploading(t *testing.T) {
	h := newHarness(t)
	h.uploader.entered = make(chan struct{})
	h.uploader.release = make(chan struct{})

	h.ctrl.Activate()
	h.ctrl.Wait()
	h.ctrl.Activate()
	<-h.uploader.entered

	h.recorder.mu.Lock()
	starts := h.recorder.startCalls
	h.recorder.mu.Unlock()

	h.ctrl.Shortcut()

	if got := h.ctrl.State(); got != StateUploading {
		t.Errorf("Expected state uploading, got %s", got)
	}
	h.recorder.mu.Lock()
	if h.recorder.startCalls != starts {
		t.Errorf("Expected no new recording, start calls %d -> %d", starts, h.recorder.startCalls)
	}
	h.recorder.mu.Unlock()

	close(h.uploader.release)
	h.ctrl.Wait()

	if h.uploader.calls() != 1 {
		t.Errorf("Expected a single upload, got %d", h.uploader.calls())
	}
	h.recorder.mu.Lock()
	defer h.recorder.mu.Unlock()
	if h.recorder.startCalls != starts {
		t.Errorf("Expected shortcut to be ignored, start calls %d -> %d", starts, h.recorder.startCalls)
	}
}

func TestActivateDuringPlaybackStartsNewSession(t *testing.T) {
	h := newHarness(t)
	h.player.block = true
	h.player.playing = make(chan struct{})

	h.ctrl.Activate()
	h.ctrl.Wait()
	h.ctrl.Activate()
	<-h.player.playing

	if got := h.ctrl.State(); got != StatePlaying {
		t.Fatalf("Expected playing, got %s", got)
	}
	if !h.ctrl.Control().Enabled {
		t.Fatal("Expected control enabled while playing")
	}

	h.ctrl.Activate()
	h.ctrl.Wait()

	if got := h.ctrl.State(); got != StateRecording {
		t.Errorf("Expected new recording, got %s", got)
	}
	if got := h.view.lastStatus().Text; got != "Listening..." {
		t.Errorf("Stale playback must not override status, got %q", got)
	}
}

func TestStartDimsStatusOnce(t *testing.T) {
	h := newHarness(t)

	if n := h.clock.fire(StatusDimDelay); n != 1 {
		t.Fatalf("Expected one dim timer, got %d", n)
	}
	if h.view.dims != 1 {
		t.Errorf("Expected one dim, got %d", h.view.dims)
	}

	h.ctrl.Start()
	if n := h.clock.fire(StatusDimDelay); n != 0 {
		t.Errorf("Expected dim to be scheduled once, got %d", n)
	}
}

func TestStatusPresentation(t *testing.T) {
	normal := Status{Text: "ok"}
	if normal.Opacity() != 0.9 || normal.Color() != colorNormal {
		t.Errorf("Unexpected normal presentation %v %v", normal.Opacity(), normal.Color())
	}
	crit := Status{Text: "bad", Severity: SeverityCritical}
	if crit.Opacity() != 1 || crit.Color() != colorStatusError {
		t.Errorf("Unexpected critical presentation %v %v", crit.Opacity(), crit.Color())
	}
	if (Transcript{IsError: true}).Color() != colorTranscriptError {
		t.Error("Unexpected transcript error color")
	}
}

func TestCloseStopsActiveRecording(t *testing.T) {
	h := newHarness(t)

	h.ctrl.Activate()
	h.ctrl.Wait()
	h.ctrl.Close()

	if h.recorder.stopCalls != 1 {
		t.Errorf("Expected recorder to be stopped on close, got %d", h.recorder.stopCalls)
	}

	h.ctrl.Activate()
	h.ctrl.Wait()
	if h.recorder.startCalls != 1 {
		t.Error("Expected activation after close to be ignored")
	}
}
