package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alkime/noteforge/internal/capture"
	"github.com/alkime/noteforge/internal/config"
	"github.com/alkime/noteforge/internal/pipeline"
	"golang.org/x/sync/errgroup"
)

// WatchCmd processes each recording that appears in a directory.
type WatchCmd struct {
	Dir string `arg:"" type:"existingdir" help:"Directory to watch for new recordings"`

	ExportFlags   `embed:""`
	ProviderFlags `embed:""`
}

// Run executes the watch command until interrupted.
func (c *WatchCmd) Run(log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if _, _, err := c.format(); err != nil {
		return err
	}

	cfg, err := c.load(log)
	if err != nil {
		return err
	}

	orch, err := newPipeline(cfg, log)
	if err != nil {
		return err
	}
	defer orch.Close()

	events, unsubscribe := orch.Subscribe()
	defer unsubscribe()

	watcher := capture.NewWatcher(c.Dir, func(ctx context.Context, p capture.Payload) error {
		_, err := orch.Submit(ctx, p)
		return err
	}, log)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return watcher.Run(gctx)
	})

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case ev, ok := <-events:
				if !ok {
					return nil
				}
				c.handleEvent(cfg, ev, log)
			}
		}
	})

	return g.Wait()
}

func (c *WatchCmd) handleEvent(cfg *config.Config, ev pipeline.Event, log *slog.Logger) {
	snap := ev.Snapshot

	attrs := []any{"capture_id", snap.CaptureID, "source", snap.Source, "state", snap.State}
	if ev.Notice != nil {
		log.Warn(ev.Notice.String(), attrs...)
	} else {
		log.Info("pipeline state changed", attrs...)
	}

	if !snap.State.Terminal() {
		return
	}

	path, err := c.save(cfg, snap)
	if err != nil {
		log.Error("failed to export notes", "capture_id", snap.CaptureID, "error", err)
		return
	}

	if path != "" {
		log.Info("notes exported", "capture_id", snap.CaptureID, "path", path)
	}
}
