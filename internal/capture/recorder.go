package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alkime/noteforge/internal/audio"
)

var (
	// ErrAcquisition means the recording device could not be acquired.
	ErrAcquisition = errors.New("could not access recording device")
	// ErrAlreadyRecording is returned by Start while a recording is active.
	ErrAlreadyRecording = errors.New("already recording")
	// ErrNotRecording is returned by Stop when no recording is active.
	ErrNotRecording = errors.New("not recording")
)

// Source is a capture device. audio.Device satisfies it.
type Source interface {
	CaptureInto(ctx context.Context, dataC chan<- audio.DataPacket) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Dealloc(ctx context.Context)
}

// SourceFactory opens a fresh device for each recording.
type SourceFactory func() Source

// RecorderState is either idle or recording.
type RecorderState int

const (
	RecorderIdle RecorderState = iota
	RecorderRecording
)

func (s RecorderState) String() string {
	if s == RecorderRecording {
		return "recording"
	}
	return "idle"
}

// RecorderConfig tunes a Recorder. Zero fields take defaults.
type RecorderConfig struct {
	SampleRate int
	// PacketBuffer is the capacity of the device packet channel.
	PacketBuffer int
	// TickInterval is how often the duration counter increments.
	TickInterval time.Duration
	// LevelWindow is how many recent samples Levels returns.
	LevelWindow int
}

func (c RecorderConfig) withDefaults() RecorderConfig {
	if c.SampleRate == 0 {
		c.SampleRate = audio.DefaultSampleRate
	}
	if c.PacketBuffer == 0 {
		c.PacketBuffer = 64
	}
	if c.TickInterval == 0 {
		c.TickInterval = time.Second
	}
	if c.LevelWindow == 0 {
		c.LevelWindow = c.SampleRate / 20 // ~50ms
	}
	return c
}

// session is the per-recording resource set. It exists only while recording.
type session struct {
	src         Source
	dataC       chan audio.DataPacket
	encoder     *audio.StreamingEncoder
	out         *bytes.Buffer
	collectDone chan struct{}
	stopTick    chan struct{}
	tickDone    chan struct{}
	startedAt   time.Time
}

// Recorder captures microphone audio into a single MP3 payload.
//
// Start acquires a device; Stop releases it and returns exactly one payload;
// Close releases the device without producing a payload. The device is
// released on every path out of the recording state.
type Recorder struct {
	newSource SourceFactory
	cfg       RecorderConfig
	logger    *slog.Logger
	levels    *audio.SampleRingBuffer

	seconds  atomic.Int64
	captured atomic.Int64

	mu    sync.Mutex
	state RecorderState
	sess  *session
}

// NewRecorder creates an idle recorder that opens devices with newSource.
func NewRecorder(newSource SourceFactory, cfg RecorderConfig, logger *slog.Logger) (*Recorder, error) {
	if newSource == nil {
		return nil, errors.New("source factory cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	cfg = cfg.withDefaults()

	return &Recorder{
		newSource: newSource,
		cfg:       cfg,
		logger:    logger,
		levels:    audio.NewSampleRingBuffer(cfg.SampleRate), // one second of history
	}, nil
}

// Start transitions idle → recording. Failing to acquire the device returns
// an error wrapping ErrAcquisition and leaves the recorder idle.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == RecorderRecording {
		return ErrAlreadyRecording
	}

	// the recording outlives the request that started it
	runCtx := context.WithoutCancel(ctx)

	src := r.newSource()
	dataC := make(chan audio.DataPacket, r.cfg.PacketBuffer)

	if err := src.CaptureInto(runCtx, dataC); err != nil {
		src.Dealloc(runCtx)
		return fmt.Errorf("%w: %w", ErrAcquisition, err)
	}

	out := &bytes.Buffer{}
	encIn := make(chan []byte, r.cfg.PacketBuffer)
	encoder, err := audio.NewStreamingEncoder(audio.EncoderConfig{SampleRate: r.cfg.SampleRate}.WithDefaults(), encIn, out)
	if err != nil {
		src.Dealloc(runCtx)
		return fmt.Errorf("failed to create encoder: %w", err)
	}
	if err := encoder.Start(runCtx); err != nil {
		src.Dealloc(runCtx)
		return fmt.Errorf("failed to start encoder: %w", err)
	}

	sess := &session{
		src:         src,
		dataC:       dataC,
		encoder:     encoder,
		out:         out,
		collectDone: make(chan struct{}),
		stopTick:    make(chan struct{}),
		tickDone:    make(chan struct{}),
		startedAt:   time.Now(),
	}

	r.levels.Reset()
	r.seconds.Store(0)
	r.captured.Store(0)

	go r.collect(sess, encIn)
	go r.tick(sess)

	if err := src.Start(runCtx); err != nil {
		r.release(runCtx, sess)
		_ = sess.encoder.Wait()
		return fmt.Errorf("%w: %w", ErrAcquisition, err)
	}

	r.sess = sess
	r.state = RecorderRecording
	r.logger.Info("recording started")

	return nil
}

// Stop transitions recording → idle, releases the device, and returns the
// assembled payload.
func (r *Recorder) Stop(ctx context.Context) (Payload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != RecorderRecording {
		return Payload{}, ErrNotRecording
	}

	sess := r.sess
	r.sess = nil
	r.state = RecorderIdle

	r.release(ctx, sess)

	if err := sess.encoder.Wait(); err != nil {
		return Payload{}, fmt.Errorf("failed to encode recording: %w", err)
	}

	r.logger.Info("recording stopped",
		"seconds", r.seconds.Load(),
		"pcm_bytes", r.captured.Load(),
		"mp3_bytes", sess.out.Len(),
	)

	if r.captured.Load() == 0 {
		return Payload{}, ErrEmptyPayload
	}

	name := "recording-" + sess.startedAt.Format("20060102-150405") + audio.MP3Ext

	return NewPayload(name, audio.MP3MediaType, sess.out.Bytes())
}

// Close releases the device if a recording is active, discarding it.
func (r *Recorder) Close(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != RecorderRecording {
		return
	}

	sess := r.sess
	r.sess = nil
	r.state = RecorderIdle

	r.release(ctx, sess)
	_ = sess.encoder.Wait()
	r.logger.Info("recording discarded")
}

// Toggle starts an idle recorder or stops an active one. stopped reports
// whether a recording ended, in which case p is its payload.
func (r *Recorder) Toggle(ctx context.Context) (p Payload, stopped bool, err error) {
	if r.IsRecording() {
		p, err = r.Stop(ctx)
		return p, true, err
	}

	return Payload{}, false, r.Start(ctx)
}

// State returns the current recorder state.
func (r *Recorder) State() RecorderState {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.state
}

// IsRecording reports whether a recording is active.
func (r *Recorder) IsRecording() bool {
	return r.State() == RecorderRecording
}

// Seconds is the display-only duration counter of the current or last recording.
func (r *Recorder) Seconds() int64 {
	return r.seconds.Load()
}

// Levels returns the most recent samples for a level meter.
func (r *Recorder) Levels() []int16 {
	return r.levels.ReadSamples(r.cfg.LevelWindow)
}

// release stops and frees the device, then drains the pipeline feeding the
// encoder. Once Dealloc returns no more callbacks fire, so closing dataC is safe.
func (r *Recorder) release(ctx context.Context, sess *session) {
	if err := sess.src.Stop(ctx); err != nil {
		r.logger.Warn("failed to stop recording device", "error", err)
	}
	sess.src.Dealloc(ctx)

	close(sess.stopTick)
	close(sess.dataC)
	<-sess.collectDone
	<-sess.tickDone
}

func (r *Recorder) collect(sess *session, encIn chan<- []byte) {
	defer close(sess.collectDone)
	defer close(encIn)

	for pkt := range sess.dataC {
		r.levels.Write(audio.BytesToInt16(pkt))
		r.captured.Add(int64(len(pkt)))
		encIn <- pkt
	}
}

func (r *Recorder) tick(sess *session) {
	defer close(sess.tickDone)

	ticker := time.NewTicker(r.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.seconds.Add(1)
		case <-sess.stopTick:
			return
		}
	}
}
