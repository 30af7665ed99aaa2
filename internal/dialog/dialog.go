// Package dialog предоставляет GUI диалоги настройки клиента.
package dialog

import (
	"errors"
	"strings"

	"github.com/ncruces/zenity"

	"aura/internal/config"
	"aura/internal/i18n"
)

// ErrCanceled возвращается, когда пользователь закрыл диалог.
var ErrCanceled = zenity.ErrCanceled

var modifierLabels = map[config.Modifier]string{
	config.ModCtrl:  "Ctrl",
	config.ModShift: "Shift",
	config.ModAlt:   "Alt",
	config.ModSuper: "Super (Win/Cmd)",
}

// EditServerURL запрашивает адрес сервера и повторяет запрос, пока адрес неверный.
func EditServerURL(current string) (string, error) {
	value := current
	for {
		entered, err := zenity.Entry(
			i18n.T("dialog_server_prompt"),
			zenity.Title(i18n.T("dialog_server_title")),
			zenity.EntryText(value),
		)
		if err != nil {
			return current, err
		}

		entered = strings.TrimSpace(entered)
		if err := config.ValidateServerURL(entered); err == nil {
			return entered, nil
		}

		ShowError(i18n.T("dialog_server_title"), i18n.T("error_server_url"))
		value = entered
	}
}

// SelectHotkey открывает диалог выбора горячей клавиши.
// Возвращает выбранную конфигурацию или ошибку, если пользователь отменил.
func SelectHotkey(current config.HotkeyConfig) (config.HotkeyConfig, error) {
	// Шаг 1: модификаторы
	selectedMods, err := zenity.ListMultiple(
		i18n.T("dialog_hotkey_mods"),
		modifierOptions(),
		zenity.Title(i18n.T("dialog_hotkey_mods_title")),
		zenity.DefaultItems(modifierNames(current.Modifiers)...),
	)
	if err != nil {
		return current, err
	}

	mods := parseModifiers(selectedMods)
	if len(mods) == 0 {
		return current, errors.New(i18n.T("dialog_hotkey_need_mod"))
	}

	// Шаг 2: клавиша
	selectedKey, err := zenity.List(
		i18n.T("dialog_hotkey_key"),
		keyOptions(),
		zenity.Title(i18n.T("dialog_hotkey_key_title")),
		zenity.DefaultItems(keyLabel(current.Key)),
	)
	if err != nil {
		return current, err
	}

	key, ok := parseKey(selectedKey)
	if !ok {
		return current, ErrCanceled
	}

	return config.HotkeyConfig{Modifiers: mods, Key: key}, nil
}

// ShowInfo показывает информационное сообщение.
func ShowInfo(title, message string) {
	zenity.Info(message, zenity.Title(title))
}

// ShowError показывает сообщение об ошибке.
func ShowError(title, message string) {
	zenity.Error(message, zenity.Title(title))
}

func modifierOptions() []string {
	mods := config.AvailableModifiers()
	out := make([]string, len(mods))
	for i, m := range mods {
		out[i] = modifierLabels[m]
	}
	return out
}

func modifierNames(mods []config.Modifier) []string {
	out := make([]string, 0, len(mods))
	for _, m := range mods {
		if l, ok := modifierLabels[m]; ok {
			out = append(out, l)
		}
	}
	return out
}

// parseModifiers сохраняет порядок AvailableModifiers независимо от порядка выбора.
func parseModifiers(labels []string) []config.Modifier {
	chosen := make(map[string]bool, len(labels))
	for _, l := range labels {
		chosen[l] = true
	}

	var mods []config.Modifier
	for _, m := range config.AvailableModifiers() {
		if chosen[modifierLabels[m]] {
			mods = append(mods, m)
		}
	}
	return mods
}

func keyOptions() []string {
	keys := config.AvailableKeys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = keyLabel(k)
	}
	return out
}

func keyLabel(k config.Key) string {
	switch k {
	case config.KeySpace:
		return "Space"
	case config.KeyReturn:
		return "Return"
	case config.KeyTab:
		return "Tab"
	}
	return strings.ToUpper(string(k))
}

func parseKey(label string) (config.Key, bool) {
	for _, k := range config.AvailableKeys() {
		if keyLabel(k) == label {
			return k, true
		}
	}
	return "", false
}
