package pipeline_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/alkime/noteforge/internal/capture"
	"github.com/stretchr/testify/require"
)

type transcribeFunc func(ctx context.Context, p capture.Payload) (string, error)

type fakeTranscriber struct {
	mu    sync.Mutex
	calls int
	fn    transcribeFunc
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, p capture.Payload) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.fn(ctx, p)
}

func (f *fakeTranscriber) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type summarizeFunc func(ctx context.Context, text string) (string, error)

type fakeSummarizer struct {
	mu     sync.Mutex
	calls  int
	inputs []string
	fn     summarizeFunc
}

func (f *fakeSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.inputs = append(f.inputs, text)
	f.mu.Unlock()
	return f.fn(ctx, text)
}

func (f *fakeSummarizer) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeSummarizer) Inputs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.inputs...)
}

func returns(text string, err error) transcribeFunc {
	return func(context.Context, capture.Payload) (string, error) { return text, err }
}

func summarizes(text string, err error) summarizeFunc {
	return func(context.Context, string) (string, error) { return text, err }
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func payload(t *testing.T, name string) capture.Payload {
	t.Helper()
	p, err := capture.NewPayload(name, "", []byte("audio bytes for "+name))
	require.NoError(t, err)
	return p
}
