// Package panel provides the floating window with the record button, the
// status and transcript lines and a live waveform.
package panel

import (
	"image/color"
	"sync"
	"time"

	"gioui.org/app"
	"gioui.org/io/key"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/widget"

	"aura/internal/i18n"
	"aura/internal/session"
)

// SampleProvider provides audio samples for visualization.
type SampleProvider interface {
	Samples() []float32
}

// Config holds window configuration.
type Config struct {
	Width        int           // Window width in pixels
	Height       int           // Window height in pixels
	RefreshRate  time.Duration // Refresh interval
	BGColor      color.NRGBA   // Background color
	WaveColor    color.NRGBA   // Waveform color
	RecordColor  color.NRGBA   // Button color while recording
	IdleColor    color.NRGBA   // Button color otherwise
	TextDimColor color.NRGBA   // Hint text color
	AccentColor  color.NRGBA   // Spinner color
	PanelColor   color.NRGBA   // Waveform panel background
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		Width:        420,
		Height:       150,
		RefreshRate:  33 * time.Millisecond, // ~30fps
		BGColor:      color.NRGBA{R: 30, G: 30, B: 34, A: 245},
		WaveColor:    color.NRGBA{R: 80, G: 200, B: 120, A: 255},
		RecordColor:  color.NRGBA{R: 220, G: 50, B: 50, A: 255},
		IdleColor:    color.NRGBA{R: 88, G: 166, B: 255, A: 255},
		TextDimColor: color.NRGBA{R: 140, G: 140, B: 150, A: 255},
		AccentColor:  color.NRGBA{R: 88, G: 166, B: 255, A: 255},
		PanelColor:   color.NRGBA{R: 45, G: 45, B: 50, A: 255},
	}
}

// model is what the window renders, guarded by Window.mu.
type model struct {
	status     session.Status
	opacity    float32
	transcript session.Transcript
	control    session.Control
	state      session.State
	stateSince time.Time
}

// Window is the floating panel. It implements session.View.
type Window struct {
	mu       sync.Mutex
	provider SampleProvider
	config   Config
	model    model

	onToggle   func()
	onShortcut func()

	toggleBtn widget.Clickable

	window  *app.Window
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

var _ session.View = (*Window)(nil)

// New creates the panel. onToggle runs on button clicks, onShortcut on Space.
func New(provider SampleProvider, cfg Config, onToggle, onShortcut func()) *Window {
	status := session.Status{Text: i18n.T("status_idle")}
	return &Window{
		provider:   provider,
		config:     cfg,
		onToggle:   onToggle,
		onShortcut: onShortcut,
		model: model{
			status:     status,
			opacity:    status.Opacity(),
			control:    session.Control{Enabled: true},
			stateSince: time.Now(),
		},
	}
}

// SetStatus implements session.View.
func (w *Window) SetStatus(s session.Status) {
	w.update(func(m *model) {
		m.status = s
		m.opacity = s.Opacity()
	})
}

// DimStatus implements session.View.
func (w *Window) DimStatus() {
	w.update(func(m *model) { m.opacity = session.DimmedOpacity })
}

// SetTranscript implements session.View.
func (w *Window) SetTranscript(t session.Transcript) {
	w.update(func(m *model) { m.transcript = t })
}

// SetControl implements session.View.
func (w *Window) SetControl(c session.Control) {
	w.update(func(m *model) { m.control = c })
}

// SetState implements session.View.
func (w *Window) SetState(s session.State) {
	w.update(func(m *model) {
		if m.state != s {
			m.stateSince = time.Now()
		}
		m.state = s
	})
}

func (w *Window) update(fn func(*model)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(&w.model)
	if w.window != nil {
		w.window.Invalidate()
	}
}

// Show displays the window (non-blocking).
func (w *Window) Show() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return
	}

	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})

	go w.runEventLoop(w.stopCh, w.doneCh)
}

// Hide closes the window.
func (w *Window) Hide() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	stopCh := w.stopCh
	doneCh := w.doneCh
	w.stopCh = nil
	w.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
	case <-time.After(time.Second):
	}
}

// IsVisible returns true if window is currently shown.
func (w *Window) IsVisible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Window) runEventLoop(stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	win := new(app.Window)
	title := i18n.T("panel_title")
	win.Option(
		app.Title(title),
		app.Size(unit.Dp(w.config.Width), unit.Dp(w.config.Height)),
		app.Decorated(false),
	)

	w.mu.Lock()
	w.window = win
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		if w.window == win {
			w.window = nil
		}
		// Closed by the window manager rather than Hide
		if w.stopCh == stopCh {
			w.running = false
			w.stopCh = nil
		}
		w.mu.Unlock()
	}()

	go positionWindow(title, w.config.Width, w.config.Height)

	ticker := time.NewTicker(w.config.RefreshRate)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-stopCh:
				win.Perform(system.ActionClose)
				return
			case <-ticker.C:
				// Only animated states need periodic redraws
				w.mu.Lock()
				animated := w.model.state == session.StateRecording || w.model.state == session.StateUploading
				w.mu.Unlock()
				if animated {
					win.Invalidate()
				}
			}
		}
	}()

	var ops op.Ops
	for {
		switch e := win.Event().(type) {
		case app.DestroyEvent:
			return
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)

			w.handleInput(gtx)

			w.mu.Lock()
			m := w.model
			w.mu.Unlock()

			var samples []float32
			if m.state == session.StateRecording && w.provider != nil {
				samples = w.provider.Samples()
			}

			drawPanel(gtx, w.config, m, samples, &w.toggleBtn)
			e.Frame(gtx.Ops)
		}
	}
}

// handleInput dispatches clicks and keys. Callbacks run on their own
// goroutines so the frame is never blocked by the controller.
func (w *Window) handleInput(gtx layout.Context) {
	for {
		event, ok := gtx.Event(
			key.Filter{Name: key.NameSpace},
			key.Filter{Name: key.NameEscape},
		)
		if !ok {
			break
		}
		e, ok := event.(key.Event)
		if !ok || e.State != key.Press {
			continue
		}
		switch e.Name {
		case key.NameSpace:
			if w.onShortcut != nil {
				go w.onShortcut()
			}
		case key.NameEscape:
			go w.Hide()
		}
	}

	if w.toggleBtn.Clicked(gtx) {
		w.mu.Lock()
		enabled := w.model.control.Enabled
		w.mu.Unlock()
		if enabled && w.onToggle != nil {
			go w.onToggle()
		}
	}
}
