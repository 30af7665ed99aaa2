//go:build windows

package hotkey

import (
	"golang.design/x/hotkey"

	"aura/internal/config"
)

// modifierMap модификаторы для Windows
var modifierMap = map[config.Modifier]hotkey.Modifier{
	config.ModCtrl:  hotkey.ModCtrl,
	config.ModShift: hotkey.ModShift,
	config.ModAlt:   hotkey.ModAlt,
	config.ModSuper: hotkey.ModWin,
}
