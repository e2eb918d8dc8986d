package provider

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/papercomputeco/chatproxy/pkg/llm/provider/gemini"
	"github.com/papercomputeco/chatproxy/pkg/llm/provider/groq"
)

// Supported provider type constants
const (
	Gemini = "gemini"
	Groq   = "groq"
)

// SupportedProviders returns the list of all supported provider type names.
func SupportedProviders() []string {
	return []string{Gemini, Groq}
}

// Options configures a provider built by New.
type Options struct {
	// Type is one of SupportedProviders.
	Type string

	// APIKey authenticates against the upstream API. Required.
	APIKey string

	// Model is the model used when the request does not name one.
	Model string

	// BaseURL overrides the upstream API endpoint.
	BaseURL string

	// SystemPrompt is the groq fallback system prompt.
	SystemPrompt string

	// SearchTool attaches the Google Search tool to gemini turns.
	SearchTool bool

	// Timeout bounds the underlying HTTP client. Zero disables it; the
	// proxy bounds each call with its own context deadline.
	Timeout time.Duration

	Logger *slog.Logger
}

// DisplayName returns the human facing name for a provider type, or the
// type itself when it is not recognized.
func DisplayName(providerType string) string {
	switch providerType {
	case Gemini:
		return gemini.DisplayName
	case Groq:
		return groq.DisplayName
	default:
		return providerType
	}
}

// APIKeyEnv returns the environment variable holding the API key for a
// provider type.
func APIKeyEnv(providerType string) string {
	switch providerType {
	case Gemini:
		return gemini.APIKeyEnv
	case Groq:
		return groq.APIKeyEnv
	default:
		return ""
	}
}

// New creates a new Provider instance for the given options.
// Returns an error if the provider type is not recognized or the API key is
// missing.
func New(ctx context.Context, opts Options) (Provider, error) {
	switch opts.Type {
	case Gemini, Groq:
	default:
		return nil, fmt.Errorf("unknown provider type: %q (supported: %v)", opts.Type, SupportedProviders())
	}

	if opts.APIKey == "" {
		return nil, fmt.Errorf("%s: %w (set %s)", opts.Type, ErrMissingAPIKey, APIKeyEnv(opts.Type))
	}

	switch opts.Type {
	case Gemini:
		p, err := gemini.New(ctx, gemini.Config{
			APIKey:     opts.APIKey,
			Model:      opts.Model,
			BaseURL:    opts.BaseURL,
			SearchTool: opts.SearchTool,
			Timeout:    opts.Timeout,
			Logger:     opts.Logger,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		p, err := groq.New(groq.Config{
			APIKey:       opts.APIKey,
			Model:        opts.Model,
			BaseURL:      opts.BaseURL,
			SystemPrompt: opts.SystemPrompt,
			Timeout:      opts.Timeout,
			Logger:       opts.Logger,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}
