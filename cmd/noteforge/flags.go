package main

import (
	"fmt"
	"log/slog"

	"github.com/alkime/noteforge/internal/config"
	"github.com/alkime/noteforge/internal/keyring"
	"github.com/alkime/noteforge/internal/pipeline"
	"github.com/alkime/noteforge/internal/provider"
)

// ProviderFlags are the provider settings shared by every command that runs
// the pipeline. Empty flags fall back to the environment, the YAML file named
// by NOTEFORGE_CONFIG, and finally the system keychain for API keys.
type ProviderFlags struct {
	OpenAIAPIKey    string `name:"openai-key" env:"OPENAI_API_KEY" help:"OpenAI API key (transcription, openai summaries)"`
	AnthropicAPIKey string `name:"anthropic-key" env:"ANTHROPIC_API_KEY" help:"Anthropic API key for summaries"`
	GeminiAPIKey    string `name:"gemini-key" env:"GEMINI_API_KEY" help:"Gemini API key for summaries"`
	SummaryProvider string `name:"summary-provider" help:"Summary backend: anthropic, gemini or openai"`
	Style           string `help:"Summary style: bullets, prose or outline"`
	Length          string `help:"Summary length: short, medium or long"`
}

// load merges flags over the environment configuration and resolves any
// missing API keys from the keychain.
func (f ProviderFlags) load(logger *slog.Logger) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	setIf(&cfg.OpenAIAPIKey, f.OpenAIAPIKey)
	setIf(&cfg.AnthropicAPIKey, f.AnthropicAPIKey)
	setIf(&cfg.GeminiAPIKey, f.GeminiAPIKey)
	setIf(&cfg.SummaryProvider, f.SummaryProvider)
	setIf(&cfg.SummaryStyle, f.Style)
	setIf(&cfg.SummaryLength, f.Length)

	cfg.OpenAIAPIKey = keyring.Resolve(cfg.OpenAIAPIKey, keyring.OpenAI)
	cfg.AnthropicAPIKey = keyring.Resolve(cfg.AnthropicAPIKey, keyring.Anthropic)
	cfg.GeminiAPIKey = keyring.Resolve(cfg.GeminiAPIKey, keyring.Gemini)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if missing := missingKeys(cfg); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v. Set via environment variables or run 'noteforge config set-key'",
			provider.ErrMissingAPIKey, missing)
	}

	logger.Debug("configuration loaded",
		"summary_provider", cfg.SummaryProvider,
		"transcription_model", cfg.TranscriptionModel,
		"timeout", cfg.RequestTimeout,
	)

	return cfg, nil
}

// newPipeline builds the orchestrator for cfg.
func newPipeline(cfg *config.Config, logger *slog.Logger) (*pipeline.Orchestrator, error) {
	settings := cfg.ProviderSettings()

	summarizer, err := provider.NewSummarizer(settings)
	if err != nil {
		return nil, err
	}

	return pipeline.New(provider.NewTranscriber(settings), summarizer, pipeline.Config{Timeout: cfg.RequestTimeout}, logger), nil
}

// missingKeys names the services whose keys the configured backends need.
func missingKeys(cfg *config.Config) []string {
	var missing []string

	if cfg.OpenAIAPIKey == "" {
		missing = append(missing, "openai")
	}

	switch cfg.SummaryProvider {
	case provider.SummaryGemini:
		if cfg.GeminiAPIKey == "" {
			missing = append(missing, "gemini")
		}
	case provider.SummaryOpenAI:
	default:
		if cfg.AnthropicAPIKey == "" {
			missing = append(missing, "anthropic")
		}
	}

	return missing
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
