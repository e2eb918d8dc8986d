// Package groq implements the Groq chat provider through Groq's OpenAI
// compatible chat completions API.
package groq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/papercomputeco/chatproxy/pkg/llm"
	"github.com/papercomputeco/chatproxy/pkg/logger"
)

const (
	providerName = "groq"

	// DisplayName is the provider name used in user facing messages.
	DisplayName = "Groq"

	// APIKeyEnv is the environment variable holding the Groq API key.
	APIKeyEnv = "GROQ_API_KEY"

	// DefaultBaseURL is Groq's OpenAI compatible endpoint.
	DefaultBaseURL = "https://api.groq.com/openai/v1/"

	// DefaultModel is used when neither the request nor the config name one.
	DefaultModel = "llama3-8b-8192"

	// DefaultSystemPrompt is used when neither the request nor the config
	// carry one.
	DefaultSystemPrompt = "Você é um assistente prestativo."
)

// Config configures the Groq provider.
type Config struct {
	APIKey string

	// Model defaults to DefaultModel.
	Model string

	// BaseURL defaults to DefaultBaseURL.
	BaseURL string

	// SystemPrompt defaults to DefaultSystemPrompt.
	SystemPrompt string

	// Timeout bounds each HTTP request. Zero leaves it unset.
	Timeout time.Duration

	Logger *slog.Logger
}

// Provider sends chat completion requests to Groq.
type Provider struct {
	client       openai.Client
	model        string
	systemPrompt string
	logger       *slog.Logger
}

// New creates a Groq provider. Retries are disabled so each chat request
// maps to exactly one upstream call.
func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: API key is required (set %s)", providerName, APIKeyEnv)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	systemPrompt := cfg.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	opts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &Provider{
		client:       openai.NewClient(opts...),
		model:        model,
		systemPrompt: systemPrompt,
		logger:       log,
	}, nil
}

// Name returns the canonical provider name.
func (p *Provider) Name() string {
	return providerName
}

// DisplayName returns "Groq".
func (p *Provider) DisplayName() string {
	return DisplayName
}

// APIKeyEnv returns GROQ_API_KEY.
func (p *Provider) APIKeyEnv() string {
	return APIKeyEnv
}

// Model returns the fallback model.
func (p *Provider) Model() string {
	return p.model
}

// SystemPrompt returns the fallback system prompt.
func (p *Provider) SystemPrompt() string {
	return p.systemPrompt
}

// Chat makes a single chat completions call and returns the content of the
// first choice. The request's system_prompt and model take precedence over
// the configured fallbacks.
func (p *Provider) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResult, error) {
	systemPrompt := req.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = p.systemPrompt
	}
	model := req.Model
	if model == "" {
		model = p.model
	}

	msgs := BuildMessages(systemPrompt, req.History, req.UserMessage)

	params := openai.ChatCompletionNewParams{
		Model: model,
	}
	var reqOpts []option.RequestOption
	if typed, ok := toParams(msgs); ok {
		params.Messages = typed
	} else {
		// Entries the SDK cannot type are forwarded as received.
		reqOpts = append(reqOpts, option.WithJSONSet("messages", msgs))
	}

	p.logger.Debug("sending groq chat completion",
		"model", model,
		"messages", len(msgs),
	)

	completion, err := p.client.Chat.Completions.New(ctx, params, reqOpts...)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			p.logger.Debug("groq api error",
				"status", apiErr.StatusCode,
				"type", apiErr.Type,
				"code", apiErr.Code,
			)
		}
		return nil, fmt.Errorf("groq chat completion: %w", err)
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("groq chat completion: %w", llm.ErrEmptyResponse)
	}

	return &llm.ChatResult{
		Text:  completion.Choices[0].Message.Content,
		Model: model,
		Sent:  msgs,
	}, nil
}
