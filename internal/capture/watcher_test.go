package capture_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alkime/noteforge/internal/capture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_SubmitsNewRecordings(t *testing.T) {
	dir := t.TempDir()

	var (
		mu    sync.Mutex
		names []string
	)
	submit := func(_ context.Context, p capture.Payload) error {
		mu.Lock()
		defer mu.Unlock()
		names = append(names, p.Name())
		return nil
	}

	w := capture.NewWatcher(dir, submit, quietLogger())
	w.Settle = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// let the watch register before creating files
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lecture.mp3"), []byte("lecture audio"), 0o600))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(names) == 1
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"lecture.mp3"}, names)
}

func TestWatcher_MissingDir(t *testing.T) {
	w := capture.NewWatcher(filepath.Join(t.TempDir(), "nope"), nil, quietLogger())
	err := w.Run(context.Background())
	assert.Error(t, err)
}
