// Package config предоставляет конфигурацию клиента с сохранением в файл
// и конфигурацию сервера обработки.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Modifier представляет модификатор клавиши.
type Modifier string

const (
	ModCtrl  Modifier = "ctrl"
	ModShift Modifier = "shift"
	ModAlt   Modifier = "alt"
	ModSuper Modifier = "super" // Win/Cmd
)

// Key представляет клавишу.
type Key string

const (
	KeySpace  Key = "space"
	KeyReturn Key = "return"
	KeyTab    Key = "tab"
	KeyA      Key = "a"
	KeyB      Key = "b"
	KeyC      Key = "c"
	KeyD      Key = "d"
	KeyE      Key = "e"
	KeyF      Key = "f"
	KeyG      Key = "g"
	KeyH      Key = "h"
	KeyI      Key = "i"
	KeyJ      Key = "j"
	KeyK      Key = "k"
	KeyL      Key = "l"
	KeyM      Key = "m"
	KeyN      Key = "n"
	KeyO      Key = "o"
	KeyP      Key = "p"
	KeyQ      Key = "q"
	KeyR      Key = "r"
	KeyS      Key = "s"
	KeyT      Key = "t"
	KeyU      Key = "u"
	KeyV      Key = "v"
	KeyW      Key = "w"
	KeyX      Key = "x"
	KeyY      Key = "y"
	KeyZ      Key = "z"
	KeyF1     Key = "f1"
	KeyF2     Key = "f2"
	KeyF3     Key = "f3"
	KeyF4     Key = "f4"
	KeyF5     Key = "f5"
	KeyF6     Key = "f6"
	KeyF7     Key = "f7"
	KeyF8     Key = "f8"
	KeyF9     Key = "f9"
	KeyF10    Key = "f10"
	KeyF11    Key = "f11"
	KeyF12    Key = "f12"
)

// HotkeyConfig хранит настройки горячей клавиши.
type HotkeyConfig struct {
	Modifiers []Modifier `json:"modifiers"`
	Key       Key        `json:"key"`
}

// String возвращает строковое представление горячей клавиши.
func (h HotkeyConfig) String() string {
	result := ""
	for _, m := range h.Modifiers {
		if result != "" {
			result += "+"
		}
		result += string(m)
	}
	if result != "" {
		result += "+"
	}
	result += string(h.Key)
	return result
}

const (
	// DefaultServerURL адрес сервера обработки по умолчанию.
	DefaultServerURL = "http://localhost:8000"
	// DefaultEndpoint путь обработки по умолчанию.
	DefaultEndpoint = "/process"
)

// configData структура для сериализации.
type configData struct {
	ServerURL      string       `json:"server_url"`
	Endpoint       string       `json:"endpoint,omitempty"`
	UILanguage     string       `json:"ui_language,omitempty"`
	Notifications  bool         `json:"notifications"`
	Hotkey         HotkeyConfig `json:"hotkey"`
	RequestTimeout int          `json:"request_timeout"` // секунды, 0 - без таймаута
	HTTP2          bool         `json:"http2"`
}

// Config хранит настройки клиента.
type Config struct {
	mu             sync.RWMutex
	serverURL      string
	endpoint       string
	uiLanguage     string
	notifications  bool
	hotkey         HotkeyConfig
	requestTimeout time.Duration
	http2          bool
	configPath     string
	onHotkeyChange func(HotkeyConfig)
}

// New создаёт конфигурацию рядом с бинарником, загружая файл если он есть.
func New() *Config {
	path := ""

	// Определяем путь к файлу конфигурации рядом с бинарником
	execPath, err := os.Executable()
	if err == nil {
		// Резолвим симлинки
		execPath, err = filepath.EvalSymlinks(execPath)
		if err == nil {
			path = filepath.Join(filepath.Dir(execPath), "config.json")
		}
	}

	return Load(path)
}

// Load создаёт конфигурацию с файлом по указанному пути. Пустой путь - без сохранения.
func Load(path string) *Config {
	c := &Config{
		serverURL:     DefaultServerURL,
		endpoint:      DefaultEndpoint,
		uiLanguage:    "en",
		notifications: true,
		hotkey: HotkeyConfig{
			Modifiers: []Modifier{ModCtrl, ModShift},
			Key:       KeySpace,
		},
		configPath: path,
	}

	c.load()

	return c
}

// Path возвращает путь к файлу конфигурации.
func (c *Config) Path() string {
	return c.configPath
}

// load загружает конфигурацию из файла.
func (c *Config) load() {
	if c.configPath == "" {
		return
	}

	data, err := os.ReadFile(c.configPath)
	if err != nil {
		return // Файл не существует, используем defaults
	}

	var cfg configData
	if err := json.Unmarshal(data, &cfg); err != nil {
		return
	}

	if cfg.ServerURL != "" && ValidateServerURL(cfg.ServerURL) == nil {
		c.serverURL = strings.TrimRight(cfg.ServerURL, "/")
	}
	if cfg.Endpoint != "" {
		c.endpoint = cfg.Endpoint
	}
	if cfg.UILanguage != "" {
		c.uiLanguage = cfg.UILanguage
	}
	c.notifications = cfg.Notifications
	if cfg.Hotkey.Key != "" {
		c.hotkey = cfg.Hotkey
	}
	if cfg.RequestTimeout > 0 {
		c.requestTimeout = time.Duration(cfg.RequestTimeout) * time.Second
	}
	c.http2 = cfg.HTTP2
}

// save сохраняет конфигурацию в файл. Вызывается под блокировкой.
func (c *Config) save() {
	if c.configPath == "" {
		return
	}

	cfg := configData{
		ServerURL:      c.serverURL,
		Endpoint:       c.endpoint,
		UILanguage:     c.uiLanguage,
		Notifications:  c.notifications,
		Hotkey:         c.hotkey,
		RequestTimeout: int(c.requestTimeout / time.Second),
		HTTP2:          c.http2,
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return
	}

	os.WriteFile(c.configPath, data, 0644)
}

// ValidateServerURL проверяет адрес сервера.
func ValidateServerURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid server url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid server url %q: missing host", raw)
	}
	return nil
}

// ServerURL возвращает адрес сервера.
func (c *Config) ServerURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.serverURL
}

// SetServerURL устанавливает адрес сервера.
func (c *Config) SetServerURL(raw string) error {
	if err := ValidateServerURL(raw); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.serverURL = strings.TrimRight(strings.TrimSpace(raw), "/")
	c.save()
	return nil
}

// Endpoint возвращает путь обработки.
func (c *Config) Endpoint() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.endpoint
}

// RequestTimeout возвращает таймаут загрузки (0 - без таймаута).
func (c *Config) RequestTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.requestTimeout
}

// HTTP2 возвращает true если загрузка идёт по HTTP/2.
func (c *Config) HTTP2() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.http2
}

// SetNotifications включает/выключает уведомления.
func (c *Config) SetNotifications(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifications = enabled
	c.save()
}

// ToggleNotifications переключает состояние уведомлений.
func (c *Config) ToggleNotifications() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifications = !c.notifications
	c.save()
	return c.notifications
}

// NotificationsEnabled возвращает true если уведомления включены.
func (c *Config) NotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.notifications
}

// Hotkey возвращает текущую горячую клавишу.
func (c *Config) Hotkey() HotkeyConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hotkey
}

// SetHotkey устанавливает горячую клавишу.
func (c *Config) SetHotkey(hk HotkeyConfig) {
	c.mu.Lock()
	c.hotkey = hk
	callback := c.onHotkeyChange
	c.save()
	c.mu.Unlock()

	if callback != nil {
		callback(hk)
	}
}

// OnHotkeyChange устанавливает callback для изменения горячей клавиши.
func (c *Config) OnHotkeyChange(fn func(HotkeyConfig)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onHotkeyChange = fn
}

// AvailableModifiers возвращает список доступных модификаторов.
func AvailableModifiers() []Modifier {
	return []Modifier{ModCtrl, ModShift, ModAlt, ModSuper}
}

// AvailableKeys возвращает список доступных клавиш.
func AvailableKeys() []Key {
	return []Key{
		KeySpace, KeyReturn, KeyTab,
		KeyA, KeyB, KeyC, KeyD, KeyE, KeyF, KeyG, KeyH, KeyI, KeyJ, KeyK, KeyL, KeyM,
		KeyN, KeyO, KeyP, KeyQ, KeyR, KeyS, KeyT, KeyU, KeyV, KeyW, KeyX, KeyY, KeyZ,
		KeyF1, KeyF2, KeyF3, KeyF4, KeyF5, KeyF6, KeyF7, KeyF8, KeyF9, KeyF10, KeyF11, KeyF12,
	}
}

// UILanguage возвращает язык интерфейса.
func (c *Config) UILanguage() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.uiLanguage
}

// SetUILanguage устанавливает язык интерфейса.
func (c *Config) SetUILanguage(lang string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.uiLanguage = lang
	c.save()
}
