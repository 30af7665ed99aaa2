// Package tray предоставляет системный трей с меню.
package tray

import (
	"sync"
	"unicode/utf8"

	"github.com/atotto/clipboard"
	"github.com/getlantern/systray"
	"go.uber.org/zap"

	"aura/internal/i18n"
	"aura/internal/icons"
	"aura/internal/session"
)

// Максимальная длина текста пункта меню.
const maxItemLen = 60

// Callbacks содержит обработчики событий меню.
type Callbacks struct {
	OnToggle              func()
	OnShowPanel           func()
	OnNotificationsToggle func() bool
	OnServerClick         func()
	OnHotkeyClick         func()
	OnError               func(msg string)
	OnQuit                func()
}

// Tray управляет иконкой в системном трее и отображает состояние сессии.
type Tray struct {
	callbacks Callbacks
	logger    *zap.Logger

	mu         sync.Mutex
	ready      bool
	status     session.Status
	transcript session.Transcript
	control    session.Control
	state      session.State
	notify     bool

	statusItem     *systray.MenuItem
	transcriptItem *systray.MenuItem
	toggleBtn      *systray.MenuItem
	copyBtn        *systray.MenuItem
	showBtn        *systray.MenuItem
	notifyOn       *systray.MenuItem
	serverBtn      *systray.MenuItem
	hotkeyBtn      *systray.MenuItem
	quitBtn        *systray.MenuItem
}

var _ session.View = (*Tray)(nil)

// New создаёт новый Tray.
func New(callbacks Callbacks, notifications bool, logger *zap.Logger) *Tray {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tray{
		callbacks: callbacks,
		logger:    logger,
		notify:    notifications,
		status:    session.Status{Text: i18n.T("status_idle")},
		control:   session.Control{Enabled: true},
	}
}

// Run запускает системный трей. Блокирующая функция.
func (t *Tray) Run(onReady func()) {
	systray.Run(func() {
		t.onReady()
		if onReady != nil {
			onReady()
		}
	}, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetTitle(i18n.T("app_name"))

	t.statusItem = systray.AddMenuItem("", "")
	t.statusItem.Disable()
	t.transcriptItem = systray.AddMenuItem("", "")
	t.transcriptItem.Disable()

	systray.AddSeparator()

	t.toggleBtn = systray.AddMenuItem(i18n.T("tray_start"), i18n.T("tray_toggle_hint"))
	t.copyBtn = systray.AddMenuItem(i18n.T("tray_copy"), i18n.T("tray_copy_hint"))
	t.showBtn = systray.AddMenuItem(i18n.T("tray_show"), i18n.T("tray_show_hint"))

	systray.AddSeparator()

	t.notifyOn = systray.AddMenuItemCheckbox(i18n.T("tray_notifications"), i18n.T("tray_notifications_hint"), t.notify)
	t.serverBtn = systray.AddMenuItem(i18n.T("tray_server"), i18n.T("tray_server_hint"))
	t.hotkeyBtn = systray.AddMenuItem(i18n.T("tray_hotkey"), i18n.T("tray_hotkey_hint"))

	systray.AddSeparator()

	t.quitBtn = systray.AddMenuItem(i18n.T("tray_quit"), i18n.T("tray_quit_hint"))

	t.mu.Lock()
	t.ready = true
	t.applyLocked()
	t.mu.Unlock()

	go t.handleMenuEvents()
}

func (t *Tray) handleMenuEvents() {
	for {
		select {
		case <-t.toggleBtn.ClickedCh:
			if t.callbacks.OnToggle != nil {
				t.callbacks.OnToggle()
			}

		case <-t.copyBtn.ClickedCh:
			t.copyTranscript()

		case <-t.showBtn.ClickedCh:
			if t.callbacks.OnShowPanel != nil {
				t.callbacks.OnShowPanel()
			}

		case <-t.notifyOn.ClickedCh:
			if t.callbacks.OnNotificationsToggle != nil {
				enabled := t.callbacks.OnNotificationsToggle()
				if enabled {
					t.notifyOn.Check()
				} else {
					t.notifyOn.Uncheck()
				}
			}

		case <-t.serverBtn.ClickedCh:
			if t.callbacks.OnServerClick != nil {
				t.callbacks.OnServerClick()
			}

		case <-t.hotkeyBtn.ClickedCh:
			if t.callbacks.OnHotkeyClick != nil {
				t.callbacks.OnHotkeyClick()
			}

		case <-t.quitBtn.ClickedCh:
			if t.callbacks.OnQuit != nil {
				t.callbacks.OnQuit()
			}
			systray.Quit()
			return
		}
	}
}

func (t *Tray) copyTranscript() {
	t.mu.Lock()
	text := t.transcript.Text
	t.mu.Unlock()

	if text == "" {
		return
	}
	if err := clipboard.WriteAll(text); err != nil {
		t.logger.Warn("Ошибка копирования в буфер обмена", zap.Error(err))
		if t.callbacks.OnError != nil {
			t.callbacks.OnError(i18n.T("error_clipboard"))
		}
	}
}

// SetStatus реализует session.View.
func (t *Tray) SetStatus(s session.Status) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = s
	t.applyLocked()
}

// SetTranscript реализует session.View.
func (t *Tray) SetTranscript(tr session.Transcript) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.transcript = tr
	t.applyLocked()
}

// SetControl реализует session.View.
func (t *Tray) SetControl(c session.Control) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.control = c
	t.applyLocked()
}

// SetState реализует session.View: иконка зависит от состояния.
func (t *Tray) SetState(s session.State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = s
	t.applyLocked()
}

// DimStatus реализует session.View. В меню прозрачности нет.
func (t *Tray) DimStatus() {}

// applyLocked переносит сохранённое состояние в меню.
func (t *Tray) applyLocked() {
	if !t.ready {
		return
	}

	systray.SetIcon(icons.For(t.state))
	systray.SetTooltip(i18n.T("app_name") + " - " + t.stateTitle())

	t.statusItem.SetTitle(shorten(t.status.Text))

	if t.transcript.Text == "" {
		t.transcriptItem.SetTitle(i18n.T("tray_no_transcript"))
		t.copyBtn.Disable()
	} else {
		t.transcriptItem.SetTitle(shorten(t.transcript.Text))
		t.copyBtn.Enable()
	}

	if t.control.Recording {
		t.toggleBtn.SetTitle(i18n.T("tray_stop"))
	} else {
		t.toggleBtn.SetTitle(i18n.T("tray_start"))
	}
	if t.control.Enabled {
		t.toggleBtn.Enable()
	} else {
		t.toggleBtn.Disable()
	}
}

func (t *Tray) stateTitle() string {
	switch t.state {
	case session.StateRecording:
		return i18n.T("tray_recording")
	case session.StateUploading:
		return i18n.T("tray_uploading")
	case session.StatePlaying:
		return i18n.T("tray_playing")
	default:
		return i18n.T("tray_ready")
	}
}

func (t *Tray) onExit() {}

// Quit закрывает системный трей.
func (t *Tray) Quit() {
	systray.Quit()
}

// RefreshUI обновляет тексты меню на текущем языке.
func (t *Tray) RefreshUI() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.ready {
		return
	}

	t.copyBtn.SetTitle(i18n.T("tray_copy"))
	t.showBtn.SetTitle(i18n.T("tray_show"))
	t.notifyOn.SetTitle(i18n.T("tray_notifications"))
	t.serverBtn.SetTitle(i18n.T("tray_server"))
	t.hotkeyBtn.SetTitle(i18n.T("tray_hotkey"))
	t.quitBtn.SetTitle(i18n.T("tray_quit"))
	t.applyLocked()
}

func shorten(s string) string {
	if utf8.RuneCountInString(s) <= maxItemLen {
		return s
	}
	r := []rune(s)
	return string(r[:maxItemLen-3]) + "..."
}
