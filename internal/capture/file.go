package capture

import (
	"fmt"
	"io"
	"os"
)

// FromFile reads the whole file at path into a payload.
func FromFile(path string) (Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Payload{}, fmt.Errorf("failed to read audio file: %w", err)
	}

	p, err := NewPayload(path, "", data)
	if err != nil {
		return Payload{}, fmt.Errorf("%s: %w", path, err)
	}

	return p, nil
}

// FromReader reads r fully into a payload. hint is an optional media type,
// typically the Content-Type of an upload.
func FromReader(name string, r io.Reader, hint string) (Payload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Payload{}, fmt.Errorf("failed to read audio upload: %w", err)
	}

	return NewPayload(name, hint, data)
}
