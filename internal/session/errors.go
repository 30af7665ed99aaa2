package session

import (
	"errors"
	"fmt"
	"strings"

	"aura/internal/i18n"
)

// ErrEmptyCapture запись не содержит ни одного чанка.
var ErrEmptyCapture = errors.New("no audio captured")

// PermissionError микрофон недоступен или доступ запрещён.
type PermissionError struct {
	Err error
}

func (e *PermissionError) Error() string {
	if e.Err == nil {
		return "microphone unavailable"
	}
	return "microphone: " + e.Err.Error()
}

func (e *PermissionError) Unwrap() error { return e.Err }

// TransportError сетевая ошибка при загрузке.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return "transport failure"
	}
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// ApplicationError сервер ответил не-успешным статусом.
type ApplicationError struct {
	StatusCode int
	Body       string
}

func (e *ApplicationError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Body)
}

// describe превращает ошибку цикла в сообщение статуса.
func describe(err error) Status {
	var (
		permErr *PermissionError
		appErr  *ApplicationError
		netErr  *TransportError
	)

	switch {
	case errors.Is(err, ErrEmptyCapture):
		return Status{Text: i18n.T("status_no_audio"), Severity: SeverityNormal}
	case errors.As(err, &permErr):
		msg := ""
		if permErr.Err != nil {
			msg = strings.TrimSpace(permErr.Err.Error())
		}
		if msg == "" {
			msg = i18n.T("error_permission_denied")
		}
		return Status{Text: i18n.Tf("error_mic", msg), Severity: SeverityCritical}
	case errors.As(err, &appErr):
		body := strings.TrimSpace(appErr.Body)
		if body == "" {
			body = i18n.T("error_processing_failed")
		}
		return Status{Text: i18n.Tf("error_processing", body), Severity: SeverityCritical}
	case errors.As(err, &netErr):
		return Status{Text: i18n.Tf("error_network", netErr.Error()), Severity: SeverityCritical}
	default:
		return Status{Text: i18n.Tf("error_processing", err.Error()), Severity: SeverityCritical}
	}
}
