// Package app связывает клиентские компоненты: запись, загрузку, воспроизведение и UI.
package app

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"aura/internal/audio"
	"aura/internal/client"
	"aura/internal/config"
	"aura/internal/dialog"
	"aura/internal/hotkey"
	"aura/internal/i18n"
	"aura/internal/notify"
	"aura/internal/panel"
	"aura/internal/session"
	"aura/internal/tray"
)

// App представляет клиентское приложение.
type App struct {
	mu       sync.Mutex
	config   *config.Config
	logger   *zap.Logger
	recorder *audio.Recorder
	player   *audio.Player
	uploader *remoteUploader
	notifier *notify.Notifier
	tray     *tray.Tray
	panel    *panel.Window
	hotkey   *hotkey.Handler
	ctrl     *session.Controller
	closed   bool
}

// New создаёт приложение.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Инициализируем язык интерфейса из конфига
	if uiLang := cfg.UILanguage(); uiLang != "" {
		i18n.SetLanguage(i18n.Language(uiLang))
	}

	uploader, err := newRemoteUploader(cfg, logger)
	if err != nil {
		return nil, err
	}

	recorder, err := audio.New(logger)
	if err != nil {
		return nil, err
	}

	player, err := audio.NewPlayer(logger)
	if err != nil {
		recorder.Close()
		return nil, err
	}

	app := &App{
		config:   cfg,
		logger:   logger,
		recorder: recorder,
		player:   player,
		uploader: uploader,
		notifier: notify.New(cfg.NotificationsEnabled(), logger),
	}

	// recorder реализует SampleProvider для волны
	app.panel = panel.New(recorder, panel.DefaultConfig(), app.activate, app.shortcut)

	app.tray = tray.New(tray.Callbacks{
		OnToggle:    app.activate,
		OnShowPanel: app.panel.Show,
		OnNotificationsToggle: func() bool {
			enabled := app.config.ToggleNotifications()
			app.notifier.SetEnabled(enabled)
			return enabled
		},
		OnServerClick: app.editServer,
		OnHotkeyClick: app.editHotkey,
		OnError:       app.notifier.Error,
		OnQuit:        app.Close,
	}, cfg.NotificationsEnabled(), logger)

	app.hotkey = hotkey.New(app.activate, logger)

	ctrl, err := session.New(session.Deps{
		Recorder:      recorder,
		Encoder:       audio.NewWAVEncoder(),
		Uploader:      uploader,
		Player:        player,
		View:          multiView{app.tray, app.panel, app.notifier},
		Logger:        logger,
		UploadTimeout: cfg.RequestTimeout(),
	})
	if err != nil {
		recorder.Close()
		player.Close()
		return nil, err
	}
	app.ctrl = ctrl

	return app, nil
}

// Run запускает приложение. Блокируется до выхода из трея.
func (a *App) Run() {
	a.tray.Run(func() {
		// Регистрируем горячую клавишу после инициализации трея
		hk := a.config.Hotkey()
		if err := a.hotkey.Register(hk); err != nil {
			a.logger.Warn("Ошибка регистрации горячей клавиши",
				zap.String("hotkey", hk.String()), zap.Error(err))
			a.notifier.Error(i18n.T("error_hotkey_register"))
		}

		a.ctrl.Start()
		a.notifier.Ready()
		a.logger.Info("Клиент запущен",
			zap.String("server", a.uploader.URL()),
			zap.String("hotkey", hk.String()))
	})
}

// Close освобождает ресурсы.
func (a *App) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	a.closed = true

	a.ctrl.Close()

	if a.hotkey != nil {
		a.hotkey.Unregister()
	}
	if a.panel != nil {
		a.panel.Hide()
	}
	if a.recorder != nil {
		a.recorder.Close()
	}
	if a.player != nil {
		a.player.Close()
	}
}

func (a *App) activate() {
	a.ctrl.Activate()
}

func (a *App) shortcut() {
	a.ctrl.Shortcut()
}

func (a *App) editServer() {
	current := a.config.ServerURL()
	entered, err := dialog.EditServerURL(current)
	if err != nil {
		if !errors.Is(err, dialog.ErrCanceled) {
			a.logger.Warn("Ошибка диалога сервера", zap.Error(err))
		}
		return
	}
	if entered == current {
		return
	}

	if err := a.config.SetServerURL(entered); err != nil {
		dialog.ShowError(i18n.T("dialog_server_title"), i18n.T("error_server_url"))
		return
	}
	if err := a.uploader.Reset(a.config); err != nil {
		a.logger.Error("Ошибка пересоздания клиента", zap.Error(err))
		a.notifier.Error(err.Error())
		return
	}
	a.logger.Info("Адрес сервера изменён", zap.String("server", a.uploader.URL()))
}

func (a *App) editHotkey() {
	current := a.config.Hotkey()
	hk, err := dialog.SelectHotkey(current)
	if err != nil {
		if !errors.Is(err, dialog.ErrCanceled) {
			dialog.ShowError(i18n.T("tray_hotkey"), err.Error())
		}
		return
	}

	if err := a.hotkey.Register(hk); err != nil {
		a.logger.Warn("Ошибка регистрации горячей клавиши",
			zap.String("hotkey", hk.String()), zap.Error(err))
		dialog.ShowError(i18n.T("tray_hotkey"), i18n.T("error_hotkey_register"))
		// Возвращаем прежнюю комбинацию
		if err := a.hotkey.Register(current); err != nil {
			a.logger.Warn("Не удалось вернуть горячую клавишу", zap.Error(err))
		}
		return
	}

	a.config.SetHotkey(hk)
	a.tray.RefreshUI()
}

// remoteUploader позволяет сменить адрес сервера без пересоздания контроллера.
type remoteUploader struct {
	mu     sync.RWMutex
	inner  *client.Uploader
	logger *zap.Logger
}

var _ session.Uploader = (*remoteUploader)(nil)

func newRemoteUploader(cfg *config.Config, logger *zap.Logger) (*remoteUploader, error) {
	u := &remoteUploader{logger: logger}
	if err := u.Reset(cfg); err != nil {
		return nil, err
	}
	return u, nil
}

// Reset пересоздаёт HTTP клиент по текущей конфигурации.
func (u *remoteUploader) Reset(cfg *config.Config) error {
	inner, err := client.New(client.Options{
		ServerURL: cfg.ServerURL(),
		Endpoint:  cfg.Endpoint(),
		HTTP2:     cfg.HTTP2(),
		Logger:    u.logger,
	})
	if err != nil {
		return err
	}

	u.mu.Lock()
	u.inner = inner
	u.mu.Unlock()
	return nil
}

// URL возвращает текущий адрес обработки.
func (u *remoteUploader) URL() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.inner.URL()
}

func (u *remoteUploader) Upload(ctx context.Context, blob session.Blob) (*session.Reply, error) {
	u.mu.RLock()
	inner := u.inner
	u.mu.RUnlock()
	return inner.Upload(ctx, blob)
}
