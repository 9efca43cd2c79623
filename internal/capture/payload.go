// Package capture produces audio payloads from files, data URIs, a watched
// folder, or a live microphone recording.
package capture

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	// ErrEmptyPayload means a capture produced no audio bytes.
	ErrEmptyPayload = errors.New("audio payload is empty")
	// ErrInvalidDataURI means a data URI was not of the form data:<mime>;base64,<data>.
	ErrInvalidDataURI = errors.New("invalid audio data URI")
)

const defaultMediaType = "application/octet-stream"

// extMediaTypes covers formats the transcription provider accepts. The
// platform mime tables do not reliably include audio types.
var extMediaTypes = map[string]string{
	".flac": "audio/flac",
	".m4a":  "audio/mp4",
	".mov":  "video/quicktime",
	".mp3":  "audio/mpeg",
	".mp4":  "video/mp4",
	".mpeg": "audio/mpeg",
	".mpga": "audio/mpeg",
	".oga":  "audio/ogg",
	".ogg":  "audio/ogg",
	".wav":  "audio/wav",
	".webm": "audio/webm",
}

// Payload is one captured recording: encoded bytes plus a media type tag.
// It is immutable once created.
type Payload struct {
	name      string
	mediaType string
	data      []byte
}

// NewPayload copies data into a new payload. An empty data slice yields
// ErrEmptyPayload. The media type is resolved from hint, the bytes, then
// the name's extension.
func NewPayload(name, hint string, data []byte) (Payload, error) {
	if len(data) == 0 {
		return Payload{}, ErrEmptyPayload
	}

	return Payload{
		name:      filepath.Base(name),
		mediaType: ResolveMediaType(name, hint, data),
		data:      bytes.Clone(data),
	}, nil
}

func (p Payload) Name() string      { return p.name }
func (p Payload) MediaType() string { return p.mediaType }
func (p Payload) Size() int         { return len(p.data) }
func (p Payload) Empty() bool       { return len(p.data) == 0 }

// Reader returns a fresh reader over the payload bytes.
func (p Payload) Reader() io.Reader {
	return bytes.NewReader(p.data)
}

// Bytes returns a copy of the payload bytes.
func (p Payload) Bytes() []byte {
	return bytes.Clone(p.data)
}

// DataURI encodes the payload as data:<mime>;base64,<data>.
func (p Payload) DataURI() string {
	return "data:" + p.mediaType + ";base64," + base64.StdEncoding.EncodeToString(p.data)
}

// ParseDataURI decodes a base64 data URI, as produced by a browser
// FileReader, into a payload named name.
func ParseDataURI(name, uri string) (Payload, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return Payload{}, fmt.Errorf("%w: missing data: scheme", ErrInvalidDataURI)
	}

	meta, encoded, ok := strings.Cut(rest, ",")
	if !ok {
		return Payload{}, fmt.Errorf("%w: missing data separator", ErrInvalidDataURI)
	}

	mediaType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return Payload{}, fmt.Errorf("%w: only base64 encoding is supported", ErrInvalidDataURI)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %w", ErrInvalidDataURI, err)
	}

	return NewPayload(name, mediaType, data)
}

// IsMedia reports whether mediaType is an audio or video type.
func IsMedia(mediaType string) bool {
	return strings.HasPrefix(mediaType, "audio/") || strings.HasPrefix(mediaType, "video/")
}

// SupportedFile reports whether name has an extension the pipeline accepts.
func SupportedFile(name string) bool {
	_, ok := extMediaTypes[strings.ToLower(filepath.Ext(name))]
	return ok
}

// ResolveMediaType picks the payload tag: an explicit audio/video hint wins,
// then content sniffing, then the file extension.
func ResolveMediaType(name, hint string, data []byte) string {
	if base := baseMediaType(hint); IsMedia(base) {
		return base
	}

	if detected := baseMediaType(mimetype.Detect(data).String()); IsMedia(detected) {
		return detected
	}

	if mt, ok := extMediaTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return mt
	}

	return defaultMediaType
}

func baseMediaType(mt string) string {
	if mt == "" {
		return ""
	}
	base, _, err := mime.ParseMediaType(mt)
	if err != nil {
		return ""
	}
	return base
}
