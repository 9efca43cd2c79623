package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/alkime/noteforge/internal/capture"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultTranscriptionModel is OpenAI's Whisper model.
const DefaultTranscriptionModel = string(openai.AudioModelWhisper1)

// WhisperTranscriber transcribes audio with the OpenAI transcription API.
type WhisperTranscriber struct {
	apiKey string
	opts   options
}

// NewWhisperTranscriber creates a transcription client.
func NewWhisperTranscriber(apiKey string, opts ...Option) *WhisperTranscriber {
	return &WhisperTranscriber{
		apiKey: apiKey,
		opts:   buildOptions(DefaultTranscriptionModel, opts),
	}
}

// Transcribe sends the payload to Whisper and returns the transcript.
func (t *WhisperTranscriber) Transcribe(ctx context.Context, payload capture.Payload) (string, error) {
	if t.apiKey == "" {
		return CheckTranscription("", fmt.Errorf("%w: set OPENAI_API_KEY or use --openai-key", ErrMissingAPIKey))
	}
	if payload.Empty() {
		return CheckTranscription("", capture.ErrEmptyPayload)
	}

	client := openai.NewClient(t.clientOptions()...)

	params := openai.AudioTranscriptionNewParams{
		File:           openai.File(payload.Reader(), payload.Name(), payload.MediaType()),
		Model:          openai.AudioModel(t.opts.model),
		ResponseFormat: openai.AudioResponseFormatText,
	}
	if t.opts.language != "" {
		params.Language = openai.String(t.opts.language)
	}

	// text responses are a bare body, not a Transcription object
	var raw []byte
	if _, err := client.Audio.Transcriptions.New(ctx, params, option.WithResponseBodyInto(&raw)); err != nil {
		return CheckTranscription("", fmt.Errorf("failed to create transcription via Whisper API: %w", err))
	}

	return CheckTranscription(strings.TrimSpace(string(raw)), nil)
}

func (t *WhisperTranscriber) clientOptions() []option.RequestOption {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(t.apiKey),
		option.WithMaxRetries(0),
	}
	if t.opts.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(t.opts.baseURL))
	}
	if t.opts.timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{Timeout: t.opts.timeout}))
	}
	return reqOpts
}
