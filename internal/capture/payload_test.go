package capture_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alkime/noteforge/internal/capture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayload_Empty(t *testing.T) {
	_, err := capture.NewPayload("lecture.mp3", "audio/mpeg", nil)
	assert.ErrorIs(t, err, capture.ErrEmptyPayload)
}

func TestNewPayload_IsImmutable(t *testing.T) {
	data := []byte("ID3 fake mp3 data")
	p, err := capture.NewPayload("lecture.mp3", "", data)
	require.NoError(t, err)

	data[0] = 'X'
	assert.Equal(t, byte('I'), p.Bytes()[0], "payload must not alias caller data")

	b := p.Bytes()
	b[0] = 'Y'
	assert.Equal(t, byte('I'), p.Bytes()[0], "Bytes must return a copy")
}

func TestResolveMediaType(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		hint     string
		data     []byte
		expected string
	}{
		{
			name:     "browser hint with codec params",
			file:     "recording.webm",
			hint:     "audio/webm;codecs=opus",
			data:     []byte("whatever"),
			expected: "audio/webm",
		},
		{
			name:     "sniffed mp3 with id3 header",
			file:     "upload.bin",
			data:     append([]byte("ID3"), make([]byte, 64)...),
			expected: "audio/mpeg",
		},
		{
			name:     "extension fallback",
			file:     "lecture.mp3",
			hint:     "application/octet-stream",
			data:     []byte("not really audio"),
			expected: "audio/mpeg",
		},
		{
			name:     "unknown",
			file:     "notes.xyz",
			data:     []byte("plain text"),
			expected: "application/octet-stream",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, capture.ResolveMediaType(tt.file, tt.hint, tt.data))
		})
	}
}

func TestDataURIRoundTrip(t *testing.T) {
	p, err := capture.NewPayload("lecture.mp3", "audio/mpeg", []byte("lecture audio"))
	require.NoError(t, err)

	uri := p.DataURI()
	assert.True(t, strings.HasPrefix(uri, "data:audio/mpeg;base64,"))

	back, err := capture.ParseDataURI("lecture.mp3", uri)
	require.NoError(t, err)
	assert.Equal(t, p.Bytes(), back.Bytes())
	assert.Equal(t, "audio/mpeg", back.MediaType())
}

func TestParseDataURI_Invalid(t *testing.T) {
	for _, uri := range []string{
		"audio/mpeg;base64,AAAA",
		"data:audio/mpeg;base64",
		"data:audio/mpeg,plain",
		"data:audio/mpeg;base64,!!!",
	} {
		_, err := capture.ParseDataURI("x.mp3", uri)
		assert.ErrorIs(t, err, capture.ErrInvalidDataURI, uri)
	}

	_, err := capture.ParseDataURI("x.mp3", "data:audio/mpeg;base64,")
	assert.ErrorIs(t, err, capture.ErrEmptyPayload)
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lecture.mp3")
	require.NoError(t, os.WriteFile(path, []byte("fake lecture audio"), 0o600))

	p, err := capture.FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "lecture.mp3", p.Name())
	assert.Equal(t, "audio/mpeg", p.MediaType())
	assert.Equal(t, len("fake lecture audio"), p.Size())

	empty := filepath.Join(dir, "empty.mp3")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, err = capture.FromFile(empty)
	assert.ErrorIs(t, err, capture.ErrEmptyPayload)

	_, err = capture.FromFile(filepath.Join(dir, "missing.mp3"))
	assert.Error(t, err)
}

func TestFromReader(t *testing.T) {
	p, err := capture.FromReader("talk.wav", strings.NewReader("RIFFxxxx"), "audio/wav")
	require.NoError(t, err)
	assert.Equal(t, "audio/wav", p.MediaType())
	assert.False(t, p.Empty())
}

func TestSupportedFile(t *testing.T) {
	assert.True(t, capture.SupportedFile("/tmp/Lecture.MP3"))
	assert.True(t, capture.SupportedFile("talk.webm"))
	assert.False(t, capture.SupportedFile("notes.txt"))
}
