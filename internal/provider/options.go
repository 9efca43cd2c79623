package provider

import "time"

type options struct {
	model      string
	baseURL    string
	language   string
	directives Directives
	timeout    time.Duration
}

// Option customizes a provider client.
type Option func(*options)

// WithModel overrides the provider's default model.
func WithModel(model string) Option {
	return func(o *options) {
		if model != "" {
			o.model = model
		}
	}
}

// WithBaseURL points the client at a different API endpoint (proxies, tests).
func WithBaseURL(url string) Option {
	return func(o *options) { o.baseURL = url }
}

// WithLanguage sets the ISO-639-1 spoken language hint for transcription.
func WithLanguage(lang string) Option {
	return func(o *options) { o.language = lang }
}

// WithDirectives sets the summary style and length.
func WithDirectives(d Directives) Option {
	return func(o *options) { o.directives = d }
}

// WithTimeout bounds the HTTP client used for provider calls.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func buildOptions(defaultModel string, opts []Option) options {
	o := options{model: defaultModel}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
