package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"
)

// DefaultOpenAIChatModel is the default chat model for summaries.
const DefaultOpenAIChatModel = goopenai.GPT4oMini

// OpenAIChatSummarizer summarizes transcripts with the OpenAI chat completions API.
type OpenAIChatSummarizer struct {
	apiKey string
	opts   options
}

// NewOpenAIChatSummarizer creates a chat-completions-backed summarizer.
func NewOpenAIChatSummarizer(apiKey string, opts ...Option) *OpenAIChatSummarizer {
	return &OpenAIChatSummarizer{
		apiKey: apiKey,
		opts:   buildOptions(DefaultOpenAIChatModel, opts),
	}
}

// Summarize returns a lecture summary of text.
func (s *OpenAIChatSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	if s.apiKey == "" {
		return CheckSummary("", fmt.Errorf("%w: set OPENAI_API_KEY or use --openai-key", ErrMissingAPIKey))
	}
	if strings.TrimSpace(text) == "" {
		return CheckSummary("", errors.New("nothing to summarize"))
	}

	cfg := goopenai.DefaultConfig(s.apiKey)
	if s.opts.baseURL != "" {
		cfg.BaseURL = s.opts.baseURL
	}
	if s.opts.timeout > 0 {
		cfg.HTTPClient = &http.Client{Timeout: s.opts.timeout}
	}
	client := goopenai.NewClientWithConfig(cfg)

	req := goopenai.ChatCompletionRequest{ //nolint:exhaustruct // Only Model and Messages required
		Model: s.opts.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: SystemPrompt(s.opts.directives)},
			{Role: goopenai.ChatMessageRoleUser, Content: text},
		},
	}

	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		return CheckSummary("", fmt.Errorf("failed to create chat completion: %w", err))
	}

	if len(resp.Choices) == 0 {
		return CheckSummary("", nil)
	}

	return CheckSummary(resp.Choices[0].Message.Content, nil)
}
