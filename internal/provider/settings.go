package provider

import (
	"fmt"
	"time"
)

// Summary backends.
const (
	SummaryAnthropic = "anthropic"
	SummaryGemini    = "gemini"
	SummaryOpenAI    = "openai"
)

// SummaryProviders lists the accepted SUMMARY_PROVIDER values.
var SummaryProviders = []string{SummaryAnthropic, SummaryGemini, SummaryOpenAI}

// Settings selects and configures the provider backends.
type Settings struct {
	OpenAIKey    string
	AnthropicKey string
	GeminiKey    string

	TranscriptionModel    string
	TranscriptionLanguage string

	SummaryProvider string
	SummaryModel    string
	Directives      Directives

	Timeout time.Duration
}

// NewTranscriber returns the Whisper transcriber for s.
func NewTranscriber(s Settings) Transcriber {
	return NewWhisperTranscriber(s.OpenAIKey,
		WithModel(s.TranscriptionModel),
		WithLanguage(s.TranscriptionLanguage),
		WithTimeout(s.Timeout),
	)
}

// NewSummarizer returns the summarizer backend named by s.SummaryProvider.
// An empty name selects Anthropic.
func NewSummarizer(s Settings) (Summarizer, error) {
	opts := []Option{
		WithModel(s.SummaryModel),
		WithDirectives(s.Directives),
		WithTimeout(s.Timeout),
	}

	switch s.SummaryProvider {
	case SummaryAnthropic, "":
		return NewAnthropicSummarizer(s.AnthropicKey, opts...), nil
	case SummaryGemini:
		return NewGeminiSummarizer(s.GeminiKey, opts...), nil
	case SummaryOpenAI:
		return NewOpenAIChatSummarizer(s.OpenAIKey, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, s.SummaryProvider)
	}
}
