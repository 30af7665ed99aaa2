// Aura - голосовой ассистент: клиент в системном трее и сервер обработки.
//
// Без подкоманды запускает клиент: горячая клавиша или кнопка начинают запись,
// запись уходит на сервер, ответ проигрывается.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"aura/internal/app"
	"aura/internal/config"
	"aura/internal/hotkey"
)

// Version устанавливается при сборке через -ldflags.
var Version = "dev"

var (
	debug      bool
	configPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "aura",
		Short:        "Aura voice assistant",
		Long:         "Push-to-talk voice assistant: tray client and processing server",
		Version:      Version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClient()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(devicesCmd())
	rootCmd.AddCommand(modelsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger создаёт production логгер, или development при --debug.
func newLogger(level string) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}

	cfg := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return cfg.Build()
}

func runClient() error {
	logger, err := newLogger("")
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("Aura запускается", zap.String("version", Version))

	var runErr error
	// Запускаем в главном потоке (требование для macOS и некоторых GUI)
	hotkey.RunOnMainThread(func() {
		cfg := config.New()
		application, err := app.New(cfg, logger)
		if err != nil {
			logger.Error("Ошибка инициализации", zap.Error(err))
			runErr = err
			return
		}
		defer application.Close()

		logger.Info("Приложение запущено", zap.String("hotkey", cfg.Hotkey().String()))
		application.Run()
	})
	return runErr
}
