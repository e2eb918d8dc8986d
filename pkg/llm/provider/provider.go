package provider

import (
	"context"
	"errors"

	"github.com/papercomputeco/chatproxy/pkg/llm"
)

// ErrMissingAPIKey is returned by New when Options.APIKey is empty.
var ErrMissingAPIKey = errors.New("missing API key")

// Provider is an upstream LLM chat API. Implementations are configured once
// at startup and are safe for concurrent use by the proxy's handlers.
type Provider interface {
	// Name returns the canonical provider name (e.g., "gemini", "groq").
	Name() string

	// DisplayName returns the human facing provider name used in
	// responses (e.g., "Gemini", "Groq").
	DisplayName() string

	// APIKeyEnv returns the environment variable the API key is read from.
	APIKeyEnv() string

	// Chat translates the request history into the provider's message
	// format, makes one synchronous upstream call and returns the reply.
	// Errors from the upstream API are wrapped and returned unchanged.
	Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResult, error)
}
