// Package i18n provides internationalization support.
package i18n

import (
	"fmt"
	"sync"
)

// Language represents a UI language.
type Language string

const (
	RU Language = "ru"
	EN Language = "en"
)

var (
	mu      sync.RWMutex
	current = EN // Default language
)

// Translations for all supported languages.
var translations = map[Language]map[string]string{
	EN: {
		// App
		"app_name":    "Aura",
		"app_tooltip": "Aura - voice assistant",

		// Session status
		"status_idle":       "Tap the mic and speak",
		"status_listening":  "Listening...",
		"status_thinking":   "Thinking...",
		"status_no_audio":   "No audio detected. Try again.",
		"status_processing": "Processing...",
		"status_speaking":   "Speaking...",
		"status_ready":      "Ready for your next command",

		// Session errors
		"error_processing":        "Error: %s",
		"error_processing_failed": "Processing failed",
		"error_network":           "Network error: %s",
		"error_mic":               "Mic error: %s",
		"error_permission_denied": "Permission denied",
		"error_playback":          "Playback error: %s",

		// Tray menu
		"tray_ready":              "Ready",
		"tray_recording":          "Listening...",
		"tray_uploading":          "Thinking...",
		"tray_playing":            "Speaking...",
		"tray_no_transcript":      "No transcript",
		"tray_start":              "Start recording",
		"tray_stop":               "Stop recording",
		"tray_toggle_hint":        "Start or stop recording",
		"tray_copy":               "Copy transcript",
		"tray_copy_hint":          "Copy the last transcript to the clipboard",
		"tray_show":               "Show panel",
		"tray_show_hint":          "Open the floating panel",
		"tray_notifications":      "Notifications",
		"tray_notifications_hint": "Show notifications",
		"tray_server":             "Server...",
		"tray_server_hint":        "Backend address",
		"tray_hotkey":             "Hotkey...",
		"tray_hotkey_hint":        "Global hotkey for recording",
		"tray_quit":               "Quit",
		"tray_quit_hint":          "Close application",

		// Notifications
		"notify_error": "Error",
		"notify_ready": "Aura is ready",

		// Panel
		"panel_title": "Aura",
		"panel_hint":  "Space to talk",

		// Dialogs
		"dialog_server_title":      "Aura - Server",
		"dialog_server_prompt":     "Backend URL:",
		"dialog_hotkey_mods":       "Select modifiers:",
		"dialog_hotkey_mods_title": "Hotkey - Modifiers",
		"dialog_hotkey_key":        "Select key:",
		"dialog_hotkey_key_title":  "Hotkey - Key",
		"dialog_hotkey_need_mod":   "select at least one modifier",

		// Errors
		"error_hotkey_register": "Could not register hotkey",
		"error_clipboard":       "Clipboard copy error",
		"error_server_url":      "Invalid server URL",
	},

	RU: {
		// App
		"app_name":    "Aura",
		"app_tooltip": "Aura - голосовой ассистент",

		// Session status
		"status_idle":       "Нажмите на микрофон и говорите",
		"status_listening":  "Слушаю...",
		"status_thinking":   "Думаю...",
		"status_no_audio":   "Звук не записан. Попробуйте ещё раз.",
		"status_processing": "Обработка...",
		"status_speaking":   "Говорю...",
		"status_ready":      "Готов к следующей команде",

		// Session errors
		"error_processing":        "Ошибка: %s",
		"error_processing_failed": "Не удалось обработать запрос",
		"error_network":           "Ошибка сети: %s",
		"error_mic":               "Ошибка микрофона: %s",
		"error_permission_denied": "Доступ запрещён",
		"error_playback":          "Ошибка воспроизведения: %s",

		// Tray menu
		"tray_ready":              "Готов к работе",
		"tray_recording":          "Слушаю...",
		"tray_uploading":          "Думаю...",
		"tray_playing":            "Говорю...",
		"tray_no_transcript":      "Нет расшифровки",
		"tray_start":              "Начать запись",
		"tray_stop":               "Остановить запись",
		"tray_toggle_hint":        "Начать или остановить запись",
		"tray_copy":               "Скопировать расшифровку",
		"tray_copy_hint":          "Скопировать последнюю расшифровку в буфер обмена",
		"tray_show":               "Показать панель",
		"tray_show_hint":          "Открыть плавающую панель",
		"tray_notifications":      "Уведомления",
		"tray_notifications_hint": "Показывать уведомления",
		"tray_server":             "Сервер...",
		"tray_server_hint":        "Адрес сервера",
		"tray_hotkey":             "Горячая клавиша...",
		"tray_hotkey_hint":        "Глобальная клавиша записи",
		"tray_quit":               "Выход",
		"tray_quit_hint":          "Закрыть приложение",

		// Notifications
		"notify_error": "Ошибка",
		"notify_ready": "Aura готова к работе",

		// Panel
		"panel_title": "Aura",
		"panel_hint":  "Пробел - говорить",

		// Dialogs
		"dialog_server_title":      "Aura - Сервер",
		"dialog_server_prompt":     "Адрес сервера:",
		"dialog_hotkey_mods":       "Выберите модификаторы:",
		"dialog_hotkey_mods_title": "Горячая клавиша - Модификаторы",
		"dialog_hotkey_key":        "Выберите клавишу:",
		"dialog_hotkey_key_title":  "Горячая клавиша - Клавиша",
		"dialog_hotkey_need_mod":   "необходимо выбрать хотя бы один модификатор",

		// Errors
		"error_hotkey_register": "Не удалось зарегистрировать горячую клавишу",
		"error_clipboard":       "Ошибка копирования в буфер обмена",
		"error_server_url":      "Неверный адрес сервера",
	},
}

// T returns the translation for the given key.
func T(key string) string {
	mu.RLock()
	defer mu.RUnlock()

	if strings, ok := translations[current]; ok {
		if s, ok := strings[key]; ok {
			return s
		}
	}
	// Fallback to English, then to the key itself
	if s, ok := translations[EN][key]; ok {
		return s
	}
	return key
}

// Tf formats the translation for the given key.
func Tf(key string, args ...any) string {
	return fmt.Sprintf(T(key), args...)
}

// SetLanguage sets the current UI language.
func SetLanguage(lang Language) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := translations[lang]; !ok {
		return
	}
	current = lang
}

// GetLanguage returns the current UI language.
func GetLanguage() Language {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// AvailableLanguages returns list of supported languages.
func AvailableLanguages() []Language {
	return []Language{EN, RU}
}

// LanguageName returns display name for a language.
func LanguageName(lang Language) string {
	switch lang {
	case RU:
		return "Русский"
	case EN:
		return "English"
	default:
		return string(lang)
	}
}
