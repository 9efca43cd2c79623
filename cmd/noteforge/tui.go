package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alkime/noteforge/internal/audio"
	"github.com/alkime/noteforge/internal/capture"
	"github.com/alkime/noteforge/internal/display"
	"github.com/alkime/noteforge/internal/logger"
	"github.com/alkime/noteforge/internal/tui"
	"github.com/alkime/noteforge/internal/workdir"
	tea "github.com/charmbracelet/bubbletea"
)

// TUICmd is the default command that runs the interactive app.
type TUICmd struct {
	NoMic bool `name:"no-mic" help:"Disable the Record tab (no microphone access)"`

	ProviderFlags `embed:""`
}

// Run executes the TUI command.
func (c *TUICmd) Run(level slog.Level) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The UI owns the terminal, so logs go to a file.
	logPath, err := workdir.LogPath()
	if err != nil {
		return err
	}

	log, closer, err := logger.SetupFileLogger(logPath, level)
	if err != nil {
		return err
	}
	defer closer.Close()

	cfg, err := c.load(log)
	if err != nil {
		return err
	}

	exportDir, err := workdir.ExportDir(cfg.ExportDir)
	if err != nil {
		return fmt.Errorf("failed to resolve export directory: %w", err)
	}

	orch, err := newPipeline(cfg, log)
	if err != nil {
		return err
	}
	defer orch.Close()

	var rec tui.Recorder
	if !c.NoMic {
		r, err := capture.NewRecorder(func() capture.Source {
			return audio.NewDevice(nil)
		}, capture.RecorderConfig{}, log)
		if err != nil {
			return fmt.Errorf("failed to create recorder: %w", err)
		}
		// always release the device when we're done
		defer r.Close(ctx)

		rec = r
	}

	app := tui.New(ctx, tui.Config{
		Pipeline:  orch,
		Recorder:  rec,
		Clipboard: display.OSC52Clipboard{Out: os.Stdout},
		ExportDir: exportDir,
	}, log)

	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to start TUI: %w", err)
	}

	fmt.Println("finished. bye!")

	return nil
}
