package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"slices"
	"time"

	"github.com/alkime/noteforge/internal/provider"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	// EnvProduction represents the production environment.
	EnvProduction = "production"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	Env  string `envconfig:"ENV" default:"development"`
	Port string `envconfig:"PORT" default:"8080"`

	// Security settings
	HSTSMaxAge int    `envconfig:"HSTS_MAX_AGE" default:"31536000"`
	CSPMode    string `envconfig:"CSP_MODE" default:"relaxed"`

	// Logging settings
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Provider credentials
	OpenAIAPIKey    string `envconfig:"OPENAI_API_KEY"`
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY"`
	GeminiAPIKey    string `envconfig:"GEMINI_API_KEY"`

	// Pipeline settings
	TranscriptionModel    string        `envconfig:"TRANSCRIPTION_MODEL" default:"whisper-1"`
	TranscriptionLanguage string        `envconfig:"TRANSCRIPTION_LANGUAGE"`
	SummaryProvider       string        `envconfig:"SUMMARY_PROVIDER" default:"anthropic"`
	SummaryModel          string        `envconfig:"SUMMARY_MODEL"`
	SummaryStyle          string        `envconfig:"SUMMARY_STYLE"`
	SummaryLength         string        `envconfig:"SUMMARY_LENGTH"`
	RequestTimeout        time.Duration `envconfig:"REQUEST_TIMEOUT" default:"5m"`
	MaxUploadBytes        int64         `envconfig:"MAX_UPLOAD_BYTES" default:"26214400"`

	// Export settings
	ExportDir string `envconfig:"EXPORT_DIR"`

	// HostRecording exposes the server's own microphone over the API.
	HostRecording bool `envconfig:"HOST_RECORDING" default:"false"`

	// ConfigFile is an optional YAML overlay applied after the environment.
	ConfigFile string `envconfig:"NOTEFORGE_CONFIG"`
}

// LoadConfig loads configuration from .env file and environment variables,
// then applies the YAML file named by NOTEFORGE_CONFIG, if any.
func LoadConfig() (*Config, error) {
	// Try to load .env file (optional for development)
	if err := godotenv.Load(); err != nil {
		// Not an error if file doesn't exist (expected in production)
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	// Parse environment variables into config struct
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if config.ConfigFile != "" {
		if err := config.ApplyFile(config.ConfigFile); err != nil {
			return nil, err
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// fileOverlay is the YAML layout of NOTEFORGE_CONFIG. Empty values leave the
// environment's setting in place.
type fileOverlay struct {
	Transcription struct {
		Model    string `yaml:"model"`
		Language string `yaml:"language"`
	} `yaml:"transcription"`
	Summary struct {
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"`
		Style    string `yaml:"style"`
		Length   string `yaml:"length"`
	} `yaml:"summary"`
	Export struct {
		Dir string `yaml:"dir"`
	} `yaml:"export"`
	RequestTimeout string `yaml:"request_timeout"`
}

// ApplyFile overrides pipeline settings with the YAML file at path.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var overlay fileOverlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	setIf(&c.TranscriptionModel, overlay.Transcription.Model)
	setIf(&c.TranscriptionLanguage, overlay.Transcription.Language)
	setIf(&c.SummaryProvider, overlay.Summary.Provider)
	setIf(&c.SummaryModel, overlay.Summary.Model)
	setIf(&c.SummaryStyle, overlay.Summary.Style)
	setIf(&c.SummaryLength, overlay.Summary.Length)
	setIf(&c.ExportDir, overlay.Export.Dir)

	if overlay.RequestTimeout != "" {
		timeout, err := time.ParseDuration(overlay.RequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid request_timeout in %s: %w", path, err)
		}
		c.RequestTimeout = timeout
	}

	return nil
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.SummaryProvider != "" && !slices.Contains(provider.SummaryProviders, c.SummaryProvider) {
		return fmt.Errorf("%w: SUMMARY_PROVIDER=%q (want one of %v)",
			provider.ErrUnknownProvider, c.SummaryProvider, provider.SummaryProviders)
	}

	if err := c.Directives().Validate(); err != nil {
		return err
	}

	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}

	if c.RequestTimeout < 0 {
		return errors.New("REQUEST_TIMEOUT cannot be negative")
	}

	return nil
}

// Directives returns the configured summary style and length.
func (c *Config) Directives() provider.Directives {
	return provider.Directives{
		Style:  provider.Style(c.SummaryStyle),
		Length: provider.Length(c.SummaryLength),
	}
}

// ProviderSettings maps the configuration onto provider factory settings.
func (c *Config) ProviderSettings() provider.Settings {
	return provider.Settings{
		OpenAIKey:             c.OpenAIAPIKey,
		AnthropicKey:          c.AnthropicAPIKey,
		GeminiKey:             c.GeminiAPIKey,
		TranscriptionModel:    c.TranscriptionModel,
		TranscriptionLanguage: c.TranscriptionLanguage,
		SummaryProvider:       c.SummaryProvider,
		SummaryModel:          c.SummaryModel,
		Directives:            c.Directives(),
		Timeout:               c.RequestTimeout,
	}
}

// BuildCSP constructs Content Security Policy based on mode.
func BuildCSP(mode string) string {
	if mode == "strict" {
		// Production CSP
		return "default-src 'self'; " +
			"style-src 'self' 'unsafe-inline'; " +
			"script-src 'self'; " +
			"img-src 'self' data:; " +
			"media-src 'self' blob:; " +
			"connect-src 'self'; " +
			"object-src 'none'; " +
			"base-uri 'self'; " +
			"form-action 'self'"
	}

	// Development/relaxed CSP
	return "default-src 'self'; " +
		"style-src 'self' 'unsafe-inline'; " +
		"script-src 'self' 'unsafe-inline'; " +
		"img-src 'self' data:; " +
		"media-src 'self' blob:"
}
