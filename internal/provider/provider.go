// Package provider wraps the third-party transcription and summarization
// services behind two small interfaces. Every failure, including a blank
// result, surfaces as one uniform sentinel per stage. Nothing is retried.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alkime/noteforge/internal/capture"
)

var (
	// ErrTranscriptionFailed wraps every transcription failure.
	ErrTranscriptionFailed = errors.New("transcription failed")
	// ErrSummarizationFailed wraps every summarization failure.
	ErrSummarizationFailed = errors.New("summarization failed")
	// ErrEmptyResult means the provider answered with blank text.
	ErrEmptyResult = errors.New("provider returned no text")
	// ErrMissingAPIKey means a provider was used without credentials.
	ErrMissingAPIKey = errors.New("API key required")
	// ErrUnknownProvider means the configured backend name is not supported.
	ErrUnknownProvider = errors.New("unknown provider")
)

// Transcriber turns one audio payload into text with a single outbound call.
type Transcriber interface {
	Transcribe(ctx context.Context, payload capture.Payload) (string, error)
}

// Summarizer turns transcript text into a summary with a single outbound call.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// CheckTranscription normalizes a raw provider result: errors and blank text
// both become ErrTranscriptionFailed.
func CheckTranscription(text string, err error) (string, error) {
	return check(ErrTranscriptionFailed, text, err)
}

// CheckSummary normalizes a raw provider result: errors and blank text both
// become ErrSummarizationFailed.
func CheckSummary(text string, err error) (string, error) {
	return check(ErrSummarizationFailed, text, err)
}

func check(stage error, text string, err error) (string, error) {
	if err != nil {
		if errors.Is(err, stage) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", stage, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: %w", stage, ErrEmptyResult)
	}

	return text, nil
}
