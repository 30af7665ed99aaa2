// Package notify показывает системные уведомления о критических ошибках.
package notify

import (
	"sync"

	"github.com/gen2brain/beeep"
	"go.uber.org/zap"

	"aura/internal/i18n"
	"aura/internal/session"
)

// Sender отправляет одно уведомление. По умолчанию beeep.Notify.
type Sender func(title, message, icon string) error

// Notifier реализует session.View и показывает только критические статусы.
type Notifier struct {
	mu      sync.Mutex
	enabled bool
	send    Sender
	logger  *zap.Logger
}

var _ session.View = (*Notifier)(nil)

// New создаёт новый Notifier.
func New(enabled bool, logger *zap.Logger) *Notifier {
	return NewWithSender(enabled, beeep.Notify, logger)
}

// NewWithSender создаёт Notifier с другим способом доставки.
func NewWithSender(enabled bool, send Sender, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{enabled: enabled, send: send, logger: logger}
}

// SetEnabled включает/выключает уведомления.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	n.enabled = enabled
	n.mu.Unlock()
}

// Enabled сообщает, включены ли уведомления.
func (n *Notifier) Enabled() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.enabled
}

// Ready сообщает о запуске приложения.
func (n *Notifier) Ready() {
	n.notify(i18n.T("notify_ready"), i18n.T("panel_hint"))
}

// Error показывает уведомление об ошибке.
func (n *Notifier) Error(msg string) {
	n.notify(i18n.T("notify_error"), msg)
}

// SetStatus реализует session.View.
func (n *Notifier) SetStatus(s session.Status) {
	if s.Severity == session.SeverityCritical {
		n.Error(s.Text)
	}
}

func (n *Notifier) SetTranscript(session.Transcript) {}
func (n *Notifier) SetControl(session.Control) {}
func (n *Notifier) SetState(session.State) {}
func (n *Notifier) DimStatus() {}

func (n *Notifier) notify(title, message string) {
	if !n.Enabled() {
		return
	}
	if len(message) > 100 {
		message = message[:100] + "..."
	}
	// Ошибки уведомлений не критичны
	if err := n.send(i18n.T("app_name")+": "+title, message, ""); err != nil {
		n.logger.Debug("Уведомление не отправлено", zap.Error(err))
	}
}
