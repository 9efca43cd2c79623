package capture

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// SubmitFunc receives each payload produced by a capture source.
type SubmitFunc func(ctx context.Context, p Payload) error

// Watcher turns audio files dropped into a directory into payloads. Every
// new file is a new capture; it supersedes whatever the previous file started.
type Watcher struct {
	dir    string
	submit SubmitFunc
	logger *slog.Logger
	// Settle is how long to wait after a file appears before reading it.
	Settle time.Duration
}

// NewWatcher creates a watcher for dir.
func NewWatcher(dir string, submit SubmitFunc, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		dir:    dir,
		submit: submit,
		logger: logger,
		Settle: 500 * time.Millisecond,
	}
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	w.logger.Info("watching for lecture recordings", "dir", w.dir)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			if !event.Has(fsnotify.Create) || !SupportedFile(event.Name) {
				continue
			}

			// give the writer a moment to finish
			select {
			case <-time.After(w.Settle):
			case <-ctx.Done():
				return nil
			}

			w.handle(ctx, event.Name)

		case err, ok := <-fw.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, path string) {
	payload, err := FromFile(path)
	if err != nil {
		w.logger.Error("failed to read recording", "path", path, "error", err)
		return
	}

	w.logger.Info("new recording detected",
		"path", path,
		"media_type", payload.MediaType(),
		"bytes", payload.Size(),
	)

	if err := w.submit(ctx, payload); err != nil {
		w.logger.Error("failed to submit recording", "path", path, "error", err)
	}
}
