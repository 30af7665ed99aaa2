package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"aura/internal/actions"
	"aura/internal/assistant"
	"aura/internal/config"
	"aura/internal/llm"
	"aura/internal/metrics"
	"aura/internal/models"
	"aura/internal/server"
	"aura/internal/speech"
	"aura/internal/tts"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the processing server",
		Long:  "Accept recordings over HTTP, recognize speech, run the command and answer with synthesized audio",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the YAML server config")
	return cmd
}

func runServer(ctx context.Context) error {
	cfg, err := config.LoadServer(configPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer logger.Sync()

	manager, err := models.NewManager(cfg.ASR.ModelsDir)
	if err != nil {
		return err
	}

	recognizer, err := speech.NewFactory(manager).Create(ctx, speech.Config{
		Engine:    speech.Engine(cfg.ASR.Engine),
		ModelID:   cfg.ASR.ModelID,
		ModelsDir: cfg.ASR.ModelsDir,
		Language:  cfg.ASR.Language,
	})
	if err != nil {
		return fmt.Errorf("speech recognizer: %w", err)
	}
	defer recognizer.Close()

	completer, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if completer == nil {
		logger.Info("LLM fallback disabled")
	}

	var opener actions.Opener
	if cfg.Actions.OpenBrowser {
		opener = actions.BrowserOpener{}
	}

	synth, err := tts.New(cfg.TTS, logger)
	if err != nil {
		return fmt.Errorf("tts: %w", err)
	}

	m := metrics.NewMetrics()
	pipeline, err := assistant.New(assistant.Deps{
		Recognizer:  recognizer,
		Extractor:   llm.NewExtractor(completer, logger),
		Router:      actions.NewRouter(opener, logger),
		Synthesizer: synth,
		Metrics:     m,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	logger.Info("Starting processing server",
		zap.String("version", Version),
		zap.String("address", cfg.HTTP.Address),
		zap.String("asr", recognizer.Name()),
		zap.String("llm", cfg.LLM.Provider),
		zap.String("tts", synth.Name()))

	return server.New(cfg.HTTP, pipeline, m, logger).Run(ctx)
}
