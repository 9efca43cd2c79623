package main

import (
	"log"
	"os"

	"github.com/alkime/noteforge/internal/audio"
	"github.com/alkime/noteforge/internal/capture"
	"github.com/alkime/noteforge/internal/config"
	"github.com/alkime/noteforge/internal/logger"
	"github.com/alkime/noteforge/internal/pipeline"
	"github.com/alkime/noteforge/internal/provider"
	"github.com/alkime/noteforge/internal/server"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup structured logging
	slogger := logger.SetupLogger(cfg)

	slogger.Info("Starting NoteForge server",
		"env", cfg.Env,
		"port", cfg.Port,
		"summary_provider", cfg.SummaryProvider,
	)

	settings := cfg.ProviderSettings()

	summarizer, err := provider.NewSummarizer(settings)
	if err != nil {
		slogger.Error("Failed to configure summarizer", "error", err)
		os.Exit(1)
	}

	orch := pipeline.New(provider.NewTranscriber(settings), summarizer,
		pipeline.Config{Timeout: cfg.RequestTimeout}, slogger)
	defer orch.Close()

	var opts []server.Option

	// Most deployments have no audio device, so host recording is opt-in.
	if cfg.HostRecording {
		rec, err := capture.NewRecorder(func() capture.Source {
			return audio.NewDevice(nil)
		}, capture.RecorderConfig{}, slogger)
		if err != nil {
			slogger.Error("Failed to create recorder", "error", err)
			os.Exit(1)
		}

		opts = append(opts, server.WithRecorder(rec))
		slogger.Info("Host recording enabled")
	}

	srv := server.New(cfg, slogger, orch, opts...)

	if err := server.Run(srv); err != nil {
		slogger.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}
