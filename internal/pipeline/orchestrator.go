package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/alkime/noteforge/internal/capture"
	"github.com/alkime/noteforge/internal/display"
	"github.com/alkime/noteforge/internal/provider"
	"github.com/alkime/noteforge/pkg/channels"
	"github.com/google/uuid"
)

// ErrClosed is returned by Submit and Process after Close.
var ErrClosed = errors.New("pipeline closed")

// Config tunes an Orchestrator. Zero fields take defaults.
type Config struct {
	// Timeout bounds each provider call; zero means no limit.
	Timeout time.Duration
	// EventBuffer is the channel capacity handed to each subscriber.
	EventBuffer int
}

// Orchestrator runs one capture at a time through transcription then
// summarization. A new capture supersedes the one in flight: its context is
// cancelled and any result it still produces is dropped, because every
// mutation is gated on the capture ID that started it.
type Orchestrator struct {
	transcriber provider.Transcriber
	summarizer  provider.Summarizer
	cfg         Config
	logger      *slog.Logger
	events      *channels.Broadcaster[Event]

	mu     sync.Mutex
	snap   Snapshot
	cancel context.CancelFunc
	closed bool

	wg sync.WaitGroup
}

// New creates an idle orchestrator.
func New(
	transcriber provider.Transcriber,
	summarizer provider.Summarizer,
	cfg Config,
	logger *slog.Logger,
) *Orchestrator {
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = 16
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		transcriber: transcriber,
		summarizer:  summarizer,
		cfg:         cfg,
		logger:      logger,
		events:      channels.NewBroadcaster[Event](),
		snap:        Snapshot{State: Idle, UpdatedAt: time.Now()},
	}
}

// Submit starts a run for payload in the background and returns its capture ID.
func (o *Orchestrator) Submit(ctx context.Context, payload capture.Payload) (string, error) {
	// the run outlives the request that submitted it
	runCtx, id, err := o.begin(context.WithoutCancel(ctx), payload)
	if err != nil {
		return "", err
	}

	o.wg.Go(func() {
		o.run(runCtx, id, payload)
	})

	return id, nil
}

// Process runs payload to a terminal state and returns the final snapshot.
// If a newer capture supersedes it meanwhile, the newer run's current
// snapshot is returned.
func (o *Orchestrator) Process(ctx context.Context, payload capture.Payload) (Snapshot, error) {
	runCtx, id, err := o.begin(ctx, payload)
	if err != nil {
		return Snapshot{}, err
	}

	o.run(runCtx, id, payload)

	return o.Snapshot(), nil
}

// Snapshot returns a copy of the current state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.snap
}

// Subscribe returns a channel of state-change events plus a cancel func.
// Slow subscribers miss events rather than stall the pipeline.
func (o *Orchestrator) Subscribe() (<-chan Event, func()) {
	return o.events.Subscribe(o.cfg.EventBuffer)
}

// Wait blocks until every in-flight run has finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Close cancels any in-flight run, waits for it, and closes all subscriptions.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.closed = true
	if o.cancel != nil {
		o.cancel()
	}
	o.mu.Unlock()

	o.wg.Wait()
	o.events.Close()
}

// begin resets state for a new capture and supersedes the previous run.
func (o *Orchestrator) begin(ctx context.Context, payload capture.Payload) (context.Context, string, error) {
	if payload.Empty() {
		return nil, "", capture.ErrEmptyPayload
	}

	id := uuid.NewString()
	runCtx, cancel := context.WithCancel(ctx)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		cancel()
		return nil, "", ErrClosed
	}

	if o.cancel != nil {
		o.cancel()
	}
	o.cancel = cancel

	if o.snap.CaptureID != "" && !o.snap.State.Terminal() {
		o.logger.Info("superseding in-flight capture", "capture_id", o.snap.CaptureID, "state", o.snap.State)
	}

	o.snap = Snapshot{
		CaptureID: id,
		Source:    payload.Name(),
		MediaType: payload.MediaType(),
		State:     Transcribing,
		UpdatedAt: time.Now(),
	}
	o.events.Publish(Event{Snapshot: o.snap})

	o.logger.Info("capture submitted",
		"capture_id", id,
		"source", payload.Name(),
		"media_type", payload.MediaType(),
		"bytes", payload.Size(),
	)

	return runCtx, id, nil
}

func (o *Orchestrator) run(ctx context.Context, id string, payload capture.Payload) {
	text, err := o.transcribe(ctx, payload)
	if err != nil {
		if o.apply(id, noticeOf(display.NoticeTranscriptionFailed), func(s *Snapshot) {
			s.State = FailedAtTranscription
			s.Transcription = nil
			s.TranscriptionError = err.Error()
		}) {
			o.logger.Warn("transcription failed", "capture_id", id, "error", err)
		}
		return
	}

	if !o.apply(id, nil, func(s *Snapshot) {
		s.State = Summarizing
		s.Transcription = &text
	}) {
		return
	}

	summary, err := o.summarize(ctx, text)
	if err != nil {
		if o.apply(id, noticeOf(display.NoticeSummarizationFailed), func(s *Snapshot) {
			s.State = FailedAtSummarization
			s.SummaryError = err.Error()
		}) {
			o.logger.Warn("summarization failed", "capture_id", id, "error", err)
		}
		return
	}

	o.apply(id, nil, func(s *Snapshot) {
		s.State = Done
		s.Summary = &summary
	})
}

func (o *Orchestrator) transcribe(ctx context.Context, payload capture.Payload) (string, error) {
	ctx, cancel := o.withTimeout(ctx)
	defer cancel()

	return provider.CheckTranscription(o.transcriber.Transcribe(ctx, payload))
}

func (o *Orchestrator) summarize(ctx context.Context, text string) (string, error) {
	ctx, cancel := o.withTimeout(ctx)
	defer cancel()

	return provider.CheckSummary(o.summarizer.Summarize(ctx, text))
}

func (o *Orchestrator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, o.cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

// apply mutates state for capture id and publishes the result. Updates from a
// superseded capture are dropped and apply reports false.
func (o *Orchestrator) apply(id string, notice *display.Notice, fn func(*Snapshot)) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.snap.CaptureID != id {
		o.logger.Debug("discarding stale result", "capture_id", id, "current", o.snap.CaptureID)
		return false
	}

	fn(&o.snap)
	o.snap.UpdatedAt = time.Now()

	o.logger.Debug("pipeline state changed", "capture_id", id, "state", o.snap.State)
	o.events.Publish(Event{Snapshot: o.snap, Notice: notice})

	return true
}

func noticeOf(n display.Notice) *display.Notice {
	return &n
}
