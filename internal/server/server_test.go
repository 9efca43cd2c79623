package server_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alkime/noteforge/internal/capture"
	"github.com/alkime/noteforge/internal/config"
	"github.com/alkime/noteforge/internal/pipeline"
	"github.com/alkime/noteforge/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTranscriber struct {
	text string
	err  error
}

func (s stubTranscriber) Transcribe(context.Context, capture.Payload) (string, error) {
	return s.text, s.err
}

type stubSummarizer struct {
	text string
	err  error
}

func (s stubSummarizer) Summarize(context.Context, string) (string, error) {
	return s.text, s.err
}

func testConfig() *config.Config {
	return &config.Config{
		Env:            "test",
		Port:           "8080",
		HSTSMaxAge:     31536000,
		CSPMode:        "relaxed",
		LogLevel:       "info",
		MaxUploadBytes: 1 << 20,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level:       slog.LevelError, // Only show errors during tests
		AddSource:   false,
		ReplaceAttr: nil,
	}))
}

func lecturePipeline(t *testing.T) *pipeline.Orchestrator {
	t.Helper()
	o := pipeline.New(
		stubTranscriber{text: "Today we discuss entropy."},
		stubSummarizer{text: "Lecture covers entropy."},
		pipeline.Config{},
		testLogger(),
	)
	t.Cleanup(o.Close)
	return o
}

func newTestServer(t *testing.T, opts ...server.Option) (*server.Server, *pipeline.Orchestrator) {
	t.Helper()
	o := lecturePipeline(t)
	return server.New(testConfig(), testLogger(), o, opts...), o
}

func do(srv *server.Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func dataURIRequest(t *testing.T, uri string) *http.Request {
	t.Helper()
	body, err := json.Marshal(map[string]string{"audioDataUri": uri, "name": "lecture.mp3"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/captures", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

type notesResponse struct {
	State         string  `json:"state"`
	Transcription *string `json:"transcription"`
	Summary       *string `json:"summary"`
	CanExport     bool    `json:"canExport"`
	Panels        struct {
		Transcription struct {
			Mode    string `json:"mode"`
			Body    string `json:"body"`
			CanCopy bool   `json:"canCopy"`
		} `json:"transcription"`
		Summary struct {
			Mode    string `json:"mode"`
			Body    string `json:"body"`
			CanCopy bool   `json:"canCopy"`
		} `json:"summary"`
	} `json:"panels"`
}

func getNotes(t *testing.T, srv *server.Server) notesResponse {
	t.Helper()
	w := do(srv, httptest.NewRequest(http.MethodGet, "/api/v1/notes", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var notes notesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &notes))
	return notes
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	w := do(srv, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code, "Health endpoint should return 200 OK")
	assert.Contains(t, w.Body.String(), "healthy", "Response should contain 'healthy'")
	assert.Contains(t, w.Body.String(), "noteforge", "Response should contain service name 'noteforge'")
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"), "Security middleware should be applied")
	assert.Contains(t, w.Header().Get("Permissions-Policy"), "microphone=(self)")
}

func TestCreateCapture_DataURI(t *testing.T) {
	srv, o := newTestServer(t)

	w := do(srv, dataURIRequest(t, "data:audio/mpeg;base64,bGVjdHVyZSBhdWRpbw=="))
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "captureId")

	o.Wait()

	notes := getNotes(t, srv)
	assert.Equal(t, "done", notes.State)
	require.NotNil(t, notes.Transcription)
	assert.Equal(t, "Today we discuss entropy.", *notes.Transcription)
	assert.Equal(t, "Lecture covers entropy.", *notes.Summary)
	assert.True(t, notes.CanExport)
	assert.True(t, notes.Panels.Transcription.CanCopy)
	assert.True(t, notes.Panels.Summary.CanCopy)
	assert.Equal(t, "content", notes.Panels.Summary.Mode)
}

func multipartRequest(t *testing.T, filename, mediaType string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", mediaType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/captures", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestCreateCapture_Multipart(t *testing.T) {
	srv, o := newTestServer(t)

	w := do(srv, multipartRequest(t, "recording.webm", "audio/webm;codecs=opus", []byte("webm audio bytes")))
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"mediaType":"audio/webm"`)

	o.Wait()
	assert.Equal(t, "recording.webm", o.Snapshot().Source)
	assert.Equal(t, pipeline.Done, o.Snapshot().State)
}

func TestCreateCapture_Rejections(t *testing.T) {
	t.Run("too large", func(t *testing.T) {
		cfg := testConfig()
		cfg.MaxUploadBytes = 64
		srv := server.New(cfg, testLogger(), lecturePipeline(t))

		uri := "data:audio/mpeg;base64," + strings.Repeat("QUFB", 64)
		w := do(srv, dataURIRequest(t, uri))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

		req := dataURIRequest(t, uri)
		req.ContentLength = -1
		w = do(srv, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

		// no Content-Length: the capped reader trips while decoding
		req = dataURIRequest(t, "data:audio/mpeg;base64,"+strings.Repeat("QUFB", 32<<10))
		req.ContentLength = -1
		w = do(srv, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "upload too large")
	})

	t.Run("invalid data uri", func(t *testing.T) {
		srv, _ := newTestServer(t)
		w := do(srv, dataURIRequest(t, "not-a-data-uri"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "File Read Error")
	})

	t.Run("empty payload", func(t *testing.T) {
		srv, o := newTestServer(t)
		w := do(srv, dataURIRequest(t, "data:audio/mpeg;base64,"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, pipeline.Idle, o.Snapshot().State)
	})

	t.Run("missing field", func(t *testing.T) {
		srv, _ := newTestServer(t)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/captures", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		assert.Equal(t, http.StatusBadRequest, do(srv, req).Code)
	})
}

func TestCreateCapture_DefaultUploadLimit(t *testing.T) {
	const limit = 25 << 20

	newServer := func(t *testing.T) *server.Server {
		t.Helper()
		cfg := testConfig()
		cfg.MaxUploadBytes = limit
		return server.New(cfg, testLogger(), lecturePipeline(t))
	}
	audioURI := func(n int) string {
		return "data:audio/mpeg;base64," + base64.StdEncoding.EncodeToString(make([]byte, n))
	}

	tests := []struct {
		name string
		req  func(t *testing.T) *http.Request
		want int
	}{
		{
			name: "20 MiB data uri",
			req:  func(t *testing.T) *http.Request { return dataURIRequest(t, audioURI(20<<20)) },
			want: http.StatusAccepted,
		},
		{
			name: "20 MiB multipart",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "lecture.mp3", "audio/mpeg", make([]byte, 20<<20))
			},
			want: http.StatusAccepted,
		},
		{
			name: "exactly at the limit",
			req:  func(t *testing.T) *http.Request { return dataURIRequest(t, audioURI(limit)) },
			want: http.StatusAccepted,
		},
		{
			name: "one byte over the limit",
			req:  func(t *testing.T) *http.Request { return dataURIRequest(t, audioURI(limit+1)) },
			want: http.StatusRequestEntityTooLarge,
		},
		{
			name: "one byte over the limit multipart",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "lecture.mp3", "audio/mpeg", make([]byte, limit+1))
			},
			want: http.StatusRequestEntityTooLarge,
		},
		{
			name: "26 MiB data uri",
			req:  func(t *testing.T) *http.Request { return dataURIRequest(t, audioURI(26<<20)) },
			want: http.StatusRequestEntityTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(newServer(t), tt.req(t))
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestCorruptFileScenario(t *testing.T) {
	o := pipeline.New(
		stubTranscriber{err: errors.New("unsupported format")},
		stubSummarizer{text: "never"},
		pipeline.Config{},
		testLogger(),
	)
	t.Cleanup(o.Close)
	srv := server.New(testConfig(), testLogger(), o)

	w := do(srv, dataURIRequest(t, "data:audio/mpeg;base64,Y29ycnVwdA=="))
	require.Equal(t, http.StatusAccepted, w.Code)
	o.Wait()

	notes := getNotes(t, srv)
	assert.Equal(t, "failed-at-transcription", notes.State)
	assert.Equal(t, "error", notes.Panels.Transcription.Mode)
	assert.Contains(t, notes.Panels.Transcription.Body, "unsupported format")
	assert.Equal(t, "empty", notes.Panels.Summary.Mode)
	assert.False(t, notes.CanExport)

	assert.Equal(t, http.StatusConflict, do(srv, httptest.NewRequest(http.MethodGet, "/export", nil)).Code)
}

func TestExport(t *testing.T) {
	srv, o := newTestServer(t)

	for _, path := range []string{"/export", "/export.md", "/export.docx"} {
		w := do(srv, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusConflict, w.Code, path)
	}

	require.Equal(t, http.StatusAccepted, do(srv, dataURIRequest(t, "data:audio/mpeg;base64,bGVjdHVyZQ==")).Code)
	o.Wait()

	w := do(srv, httptest.NewRequest(http.MethodGet, "/export?print=1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Lecture covers entropy.")
	assert.Contains(t, w.Body.String(), `addEventListener("load"`)

	w = do(srv, httptest.NewRequest(http.MethodGet, "/export.md", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".md")
	assert.Contains(t, w.Body.String(), "## Summary")

	w = do(srv, httptest.NewRequest(http.MethodGet, "/export.docx", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".docx")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))

	assert.Equal(t, pipeline.Done, o.Snapshot().State, "export never changes pipeline state")
}

type fakeRecorder struct {
	mu        sync.Mutex
	recording bool
	startErr  error
}

func (f *fakeRecorder) Start(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	if f.recording {
		return capture.ErrAlreadyRecording
	}
	f.recording = true
	return nil
}

func (f *fakeRecorder) Stop(context.Context) (capture.Payload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.recording {
		return capture.Payload{}, capture.ErrNotRecording
	}
	f.recording = false
	return capture.NewPayload("recording-20261015-140405.mp3", "audio/mpeg", []byte("mp3 frames"))
}

func (f *fakeRecorder) IsRecording() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recording
}

func (f *fakeRecorder) Seconds() int64 { return 5 }

func TestRecordingEndpoints(t *testing.T) {
	t.Run("no recorder", func(t *testing.T) {
		srv, _ := newTestServer(t)
		for _, req := range []*http.Request{
			httptest.NewRequest(http.MethodGet, "/api/v1/recording", nil),
			httptest.NewRequest(http.MethodPost, "/api/v1/recording/start", nil),
			httptest.NewRequest(http.MethodPost, "/api/v1/recording/stop", nil),
		} {
			assert.Equal(t, http.StatusServiceUnavailable, do(srv, req).Code, req.URL.Path)
		}
	})

	t.Run("record then stop submits", func(t *testing.T) {
		rec := &fakeRecorder{}
		srv, o := newTestServer(t, server.WithRecorder(rec))

		post := func(path string) *httptest.ResponseRecorder {
			return do(srv, httptest.NewRequest(http.MethodPost, path, nil))
		}

		assert.Equal(t, http.StatusConflict, post("/api/v1/recording/stop").Code)

		w := post("/api/v1/recording/start")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"state":"recording"`)

		assert.Equal(t, http.StatusConflict, post("/api/v1/recording/start").Code)

		w = do(srv, httptest.NewRequest(http.MethodGet, "/api/v1/recording", nil))
		assert.Contains(t, w.Body.String(), `"seconds":5`)

		w = post("/api/v1/recording/stop")
		require.Equal(t, http.StatusAccepted, w.Code)
		assert.Contains(t, w.Body.String(), `"mediaType":"audio/mpeg"`)

		o.Wait()
		assert.Equal(t, pipeline.Done, o.Snapshot().State)
	})

	t.Run("acquisition failure", func(t *testing.T) {
		rec := &fakeRecorder{startErr: fmt.Errorf("%w: permission denied", capture.ErrAcquisition)}
		srv, _ := newTestServer(t, server.WithRecorder(rec))

		w := do(srv, httptest.NewRequest(http.MethodPost, "/api/v1/recording/start", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Recording Error")
		assert.False(t, rec.IsRecording())
	})
}

func TestEmbeddedUI(t *testing.T) {
	srv, _ := newTestServer(t)

	w := do(srv, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<title>NoteForge</title>")

	w = do(srv, httptest.NewRequest(http.MethodGet, "/app.js", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "EventSource")

	w = do(srv, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEventsStream(t *testing.T) {
	srv, o := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/v1/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	lines := bufio.NewScanner(resp.Body)
	lines.Buffer(make([]byte, 0, 64*1024), 1<<20)

	readUntil := func(substr string) string {
		for lines.Scan() {
			if strings.Contains(lines.Text(), substr) {
				return lines.Text()
			}
		}
		t.Fatalf("stream ended before %q: %v", substr, lines.Err())
		return ""
	}

	assert.Contains(t, readUntil("data:"), `"state":"idle"`)

	_, err = o.Submit(context.Background(), mustPayload(t))
	require.NoError(t, err)

	line := readUntil(`"state":"done"`)
	assert.Contains(t, line, "Lecture covers entropy.")

	cancel()
	_, _ = io.Copy(io.Discard, resp.Body)
}

func mustPayload(t *testing.T) capture.Payload {
	t.Helper()
	p, err := capture.NewPayload("lecture.mp3", "audio/mpeg", []byte("lecture audio"))
	require.NoError(t, err)
	return p
}
