package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/alkime/noteforge/internal/capture"
	"github.com/alkime/noteforge/internal/config"
	"github.com/alkime/noteforge/internal/export"
	"github.com/alkime/noteforge/internal/pipeline"
	"github.com/alkime/noteforge/internal/workdir"
)

var errTranscriptionFailed = errors.New("transcription failed")

// ExportFlags select an optional export written after processing.
type ExportFlags struct {
	Export    string `optional:"" help:"Also export the notes: md, html or docx"`
	ExportDir string `name:"export-dir" help:"Export directory (default: EXPORT_DIR or ~/Documents/NoteForge/exports)"`
}

func (f ExportFlags) format() (export.Format, bool, error) {
	if f.Export == "" {
		return "", false, nil
	}

	format, err := export.ParseFormat(f.Export)
	if err != nil {
		return "", false, err
	}

	return format, true, nil
}

// save exports snap when a format was requested and there is something to
// export. It returns the written path, or "" when nothing was written.
func (f ExportFlags) save(cfg *config.Config, snap pipeline.Snapshot) (string, error) {
	format, ok, err := f.format()
	if err != nil || !ok || !snap.CanExport() {
		return "", err
	}

	override := f.ExportDir
	if override == "" {
		override = cfg.ExportDir
	}

	dir, err := workdir.ExportDir(override)
	if err != nil {
		return "", err
	}

	notes, err := export.FromSnapshot(snap, time.Now())
	if err != nil {
		return "", err
	}

	return export.Save(dir, notes, format)
}

// ProcessCmd runs the pipeline synchronously on one file.
type ProcessCmd struct {
	File string `arg:"" type:"existingfile" help:"Lecture recording to process"`

	ExportFlags   `embed:""`
	ProviderFlags `embed:""`
}

// Run executes the process command.
func (c *ProcessCmd) Run(log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// fail on a bad format before spending a provider call
	if _, _, err := c.format(); err != nil {
		return err
	}

	cfg, err := c.load(log)
	if err != nil {
		return err
	}

	payload, err := capture.FromFile(c.File)
	if err != nil {
		return err
	}

	orch, err := newPipeline(cfg, log)
	if err != nil {
		return err
	}
	defer orch.Close()

	snap, err := orch.Process(ctx, payload)
	if err != nil {
		return err
	}

	printPanels(snap)

	path, err := c.save(cfg, snap)
	if err != nil {
		return fmt.Errorf("failed to export notes: %w", err)
	}

	if path != "" {
		fmt.Printf("Exported: %s\n", path)
	}

	switch snap.State {
	case pipeline.FailedAtTranscription:
		return fmt.Errorf("%w: %s", errTranscriptionFailed, snap.TranscriptionError)
	case pipeline.FailedAtSummarization:
		log.Warn("summary unavailable", "error", snap.SummaryError)
	}

	return nil
}

func printPanels(snap pipeline.Snapshot) {
	transcription, summary := snap.Panels()

	for _, p := range []struct {
		title, body string
	}{
		{transcription.Title, transcription.Body()},
		{summary.Title, summary.Body()},
	} {
		fmt.Printf("## %s\n\n%s\n\n", p.title, p.body)
	}
}
