package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultAnthropicModel is the default Claude model for summaries.
const DefaultAnthropicModel = string(anthropic.ModelClaudeSonnet4_5_20250929)

// AnthropicSummarizer summarizes transcripts with the Anthropic Messages API.
type AnthropicSummarizer struct {
	apiKey string
	opts   options
}

// NewAnthropicSummarizer creates a Claude-backed summarizer.
func NewAnthropicSummarizer(apiKey string, opts ...Option) *AnthropicSummarizer {
	return &AnthropicSummarizer{
		apiKey: apiKey,
		opts:   buildOptions(DefaultAnthropicModel, opts),
	}
}

// Summarize returns a lecture summary of text.
func (s *AnthropicSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	if s.apiKey == "" {
		return CheckSummary("", fmt.Errorf("%w: set ANTHROPIC_API_KEY or use --anthropic-key", ErrMissingAPIKey))
	}
	if strings.TrimSpace(text) == "" {
		return CheckSummary("", errors.New("nothing to summarize"))
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(s.apiKey),
		option.WithMaxRetries(0),
	}
	if s.opts.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(s.opts.baseURL))
	}
	if s.opts.timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{Timeout: s.opts.timeout}))
	}

	client := anthropic.NewClient(reqOpts...)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.opts.model),
		MaxTokens: 4096,
		System: []anthropic.TextBlockParam{
			{Text: SystemPrompt(s.opts.directives)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	}

	resp, err := client.Messages.New(ctx, params)
	if err != nil {
		return CheckSummary("", fmt.Errorf("failed to generate summary via Anthropic API: %w", err))
	}

	var out strings.Builder
	for _, block := range resp.Content {
		if textBlock, ok := block.AsAny().(anthropic.TextBlock); ok {
			out.WriteString(textBlock.Text)
		}
	}

	return CheckSummary(out.String(), nil)
}
