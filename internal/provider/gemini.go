package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is the default Gemini model for summaries.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiSummarizer summarizes transcripts with the Gemini API.
type GeminiSummarizer struct {
	apiKey string
	opts   options
}

// NewGeminiSummarizer creates a Gemini-backed summarizer.
func NewGeminiSummarizer(apiKey string, opts ...Option) *GeminiSummarizer {
	return &GeminiSummarizer{
		apiKey: apiKey,
		opts:   buildOptions(DefaultGeminiModel, opts),
	}
}

// Summarize returns a lecture summary of text.
func (s *GeminiSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	if s.apiKey == "" {
		return CheckSummary("", fmt.Errorf("%w: set GEMINI_API_KEY or use --gemini-key", ErrMissingAPIKey))
	}
	if strings.TrimSpace(text) == "" {
		return CheckSummary("", errors.New("nothing to summarize"))
	}

	cfg := &genai.ClientConfig{
		APIKey:  s.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if s.opts.baseURL != "" {
		cfg.HTTPOptions.BaseURL = s.opts.baseURL
	}
	if s.opts.timeout > 0 {
		cfg.HTTPOptions.Timeout = &s.opts.timeout
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return CheckSummary("", fmt.Errorf("create client: %w", err))
	}

	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt(s.opts.directives), genai.RoleUser),
	}

	result, err := client.Models.GenerateContent(ctx, s.opts.model, genai.Text(text), genCfg)
	if err != nil {
		return CheckSummary("", fmt.Errorf("generate content: %w", err))
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return CheckSummary("", nil)
	}

	var out strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" && !part.Thought {
			out.WriteString(part.Text)
		}
	}

	return CheckSummary(out.String(), nil)
}
