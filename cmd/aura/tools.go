package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"aura/internal/audio"
	"aura/internal/client"
	"aura/internal/config"
	"aura/internal/models"
	"aura/internal/session"
)

var (
	serverURL string
	noPlay    bool
	modelsDir string
)

func askCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <file.wav>",
		Short: "Send a recording to the server",
		Long:  "Upload a WAV file to the processing server, print the transcript and play the reply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			logger, err := newLogger("")
			if err != nil {
				return err
			}
			defer logger.Sync()

			if serverURL == "" {
				serverURL = config.New().ServerURL()
			}
			uploader, err := client.New(client.Options{ServerURL: serverURL, Logger: logger})
			if err != nil {
				return err
			}

			reply, err := uploader.Upload(cmd.Context(), session.Blob{
				Data:      data,
				MediaType: audio.MediaTypeWAV,
				Filename:  filepath.Base(args[0]),
			})
			if err != nil {
				return err
			}

			fmt.Printf("Transcript: %s\n", reply.Transcript)
			fmt.Printf("Reply: %d bytes (%s)\n", len(reply.Audio), reply.MediaType)
			if noPlay {
				return nil
			}

			player, err := audio.NewPlayer(logger)
			if err != nil {
				return err
			}
			defer player.Close()
			return player.Play(cmd.Context(), reply.Audio, reply.MediaType)
		},
	}

	cmd.Flags().StringVarP(&serverURL, "server", "s", "", "Server URL (default from client config)")
	cmd.Flags().BoolVar(&noPlay, "no-play", false, "Do not play the reply")
	return cmd
}

func devicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List audio devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := audio.Devices()
			if err != nil {
				return err
			}

			fmt.Printf("Found %d audio devices:\n", len(devices))
			for _, d := range devices {
				mark := " "
				if d.DefaultInput || d.DefaultOutput {
					mark = "*"
				}
				fmt.Printf("%s [%d] %s (%s) in:%d out:%d %.0fHz\n",
					mark, d.ID, d.Name, d.HostAPI,
					d.MaxInputChannels, d.MaxOutputChannels, d.DefaultSampleRate)
			}
			return nil
		},
	}
}

func modelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Manage speech recognition models",
	}
	cmd.PersistentFlags().StringVar(&modelsDir, "dir", "", "Models directory (default user cache dir)")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List known models",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := models.NewManager(modelsDir)
			if err != nil {
				return err
			}

			for _, m := range models.Registry {
				state := "not downloaded"
				if mgr.IsDownloaded(m) {
					state = "downloaded"
				}
				def := ""
				if m.ID == models.DefaultModelID() {
					def = " (default)"
				}
				fmt.Printf("%-20s %-28s %-6s %5.0f MB  %s%s\n",
					m.ID, m.Name, m.Language, float64(m.Size)/(1<<20), state, def)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "download <id>",
		Short: "Download a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, ok := models.GetModel(args[0])
			if !ok {
				return fmt.Errorf("model not found: %s", args[0])
			}
			mgr, err := models.NewManager(modelsDir)
			if err != nil {
				return err
			}
			return download(cmd.Context(), mgr, info)
		},
	})

	return cmd
}

func download(ctx context.Context, mgr *models.Manager, info models.ModelInfo) error {
	progress := make(chan models.Progress, 16)
	done := make(chan struct{})

	go func() {
		defer close(done)
		last := time.Time{}
		for p := range progress {
			if p.Done || time.Since(last) > 500*time.Millisecond {
				last = time.Now()
				if p.Total > 0 {
					fmt.Printf("\r%s: %.1f%%", p.ModelID, float64(p.Downloaded)*100/float64(p.Total))
				} else {
					fmt.Printf("\r%s: %d bytes", p.ModelID, p.Downloaded)
				}
			}
		}
		fmt.Println()
	}()

	err := mgr.Download(ctx, info, progress)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	fmt.Printf("Model %s saved to %s\n", info.ID, mgr.GetModelPath(info))
	return nil
}
