// Package gemini implements the Gemini chat provider on top of the
// google.golang.org/genai SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/papercomputeco/chatproxy/pkg/llm"
	"github.com/papercomputeco/chatproxy/pkg/logger"
)

const (
	providerName = "gemini"

	// DisplayName is the provider name used in user facing messages.
	DisplayName = "Gemini"

	// APIKeyEnv is the environment variable holding the Gemini API key.
	APIKeyEnv = "GEMINI_API_KEY"

	// DefaultModel is the model used when Config.Model is empty.
	DefaultModel = "gemini-1.5-pro-latest"
)

// Config configures the Gemini provider.
type Config struct {
	APIKey string

	// Model defaults to DefaultModel.
	Model string

	// BaseURL overrides the Gemini API endpoint.
	BaseURL string

	// SearchTool attaches the Google Search tool to each turn.
	SearchTool bool

	// Timeout bounds each HTTP request made by the SDK. Zero leaves it unset.
	Timeout time.Duration

	Logger *slog.Logger
}

// sendFunc makes one generateContent call and returns the reply text.
type sendFunc func(ctx context.Context, model string, cfg *genai.GenerateContentConfig, contents []*genai.Content) (string, error)

// Provider sends chat requests to Gemini. A single genai client is shared
// across requests. Each request is one stateless turn: the prior turns and
// the live message go out together in a single generateContent call, the
// same request a chat session makes, with no turn filtered out.
type Provider struct {
	model     string
	genConfig *genai.GenerateContentConfig
	send      sendFunc
	logger    *slog.Logger
}

// New creates a Gemini provider with one underlying genai client.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: API key is required (set %s)", providerName, APIKeyEnv)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: cfg.BaseURL,
		},
	}
	if cfg.Timeout > 0 {
		timeout := cfg.Timeout
		clientConfig.HTTPOptions.Timeout = &timeout
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	p := newProvider(cfg, nil)
	p.send = func(ctx context.Context, model string, genConfig *genai.GenerateContentConfig, contents []*genai.Content) (string, error) {
		resp, err := client.Models.GenerateContent(ctx, model, contents, genConfig)
		if err != nil {
			return "", err
		}
		return resp.Text(), nil
	}
	return p, nil
}

func newProvider(cfg Config, send sendFunc) *Provider {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Provider{
		model:     model,
		genConfig: GenerateConfig(cfg.SearchTool),
		send:      send,
		logger:    log,
	}
}

// GenerateConfig builds the generation config sent with every turn: the fixed system
// instruction and, when enabled, the Google Search tool.
func GenerateConfig(searchTool bool) *genai.GenerateContentConfig {
	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
	}
	if searchTool {
		genConfig.Tools = []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		}
	}
	return genConfig
}

// Name returns the canonical provider name.
func (p *Provider) Name() string {
	return providerName
}

// DisplayName returns "Gemini".
func (p *Provider) DisplayName() string {
	return DisplayName
}

// APIKeyEnv returns GEMINI_API_KEY.
func (p *Provider) APIKeyEnv() string {
	return APIKeyEnv
}

// Model returns the model every turn is sent to.
func (p *Provider) Model() string {
	return p.model
}

// Chat sends every history turn followed by the user message as the live
// turn and returns the reply text. Model and system_prompt on the request
// are ignored.
func (p *Provider) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResult, error) {
	prior, final := SplitTurns(BuildContents(req.History.Messages(), req.UserMessage))
	contents := make([]*genai.Content, 0, len(prior)+1)
	contents = append(contents, prior...)
	contents = append(contents, final)

	p.logger.Debug("sending gemini chat turn",
		"model", p.model,
		"history_turns", len(prior),
	)

	text, err := p.send(ctx, p.model, p.genConfig, contents)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			p.logger.Debug("gemini api error",
				"code", apiErr.Code,
				"status", apiErr.Status,
			)
		}
		return nil, fmt.Errorf("gemini chat: %w", err)
	}
	if text == "" {
		return nil, fmt.Errorf("gemini chat: %w", llm.ErrEmptyResponse)
	}

	return &llm.ChatResult{
		Text:  text,
		Model: p.model,
		Sent:  encodeContents(contents),
	}, nil
}
