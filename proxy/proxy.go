// Package proxy serves the chat endpoint the bot platform posts to and
// relays each message to the configured LLM provider.
package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/papercomputeco/chatproxy/pkg/eventstream/nop"
	"github.com/papercomputeco/chatproxy/pkg/llm"
	"github.com/papercomputeco/chatproxy/pkg/llm/provider"
	"github.com/papercomputeco/chatproxy/pkg/logger"
	"github.com/papercomputeco/chatproxy/proxy/worker"
)

const (
	chatPath   = "/chat"
	healthPath = "/"
)

// Proxy is the HTTP front end between the bot platform and one LLM provider.
// The provider is injected at construction and may be nil, in which case
// chat requests fail with a configuration error while the health check
// keeps answering.
type Proxy struct {
	config      Config
	provider    provider.Provider
	displayName string
	apiKeyEnv   string
	workerPool  *worker.Pool
	logger      *slog.Logger
	server      *fiber.App
}

// New creates a new Proxy.
func New(config Config, prov provider.Provider, log *slog.Logger) (*Proxy, error) {
	if log == nil {
		log = logger.Nop()
	}

	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	displayName := provider.DisplayName(config.ProviderType)
	apiKeyEnv := provider.APIKeyEnv(config.ProviderType)
	if prov != nil {
		displayName = prov.DisplayName()
		apiKeyEnv = prov.APIKeyEnv()
		if config.ProviderType == "" {
			config.ProviderType = prov.Name()
		}
	}
	if config.ProviderType == "" {
		return nil, errors.New("provider type is required")
	}

	publisher := config.Publisher
	if publisher == nil {
		publisher = nop.NewPublisher()
	}

	wp, err := worker.NewPool(&worker.Config{
		Publisher: publisher,
		QueueSize: config.WorkerQueueSize,
		Logger:    log,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create worker pool: %w", err)
	}

	app := fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())

	p := &Proxy{
		config:      config,
		provider:    prov,
		displayName: displayName,
		apiKeyEnv:   apiKeyEnv,
		workerPool:  wp,
		logger:      log.With("provider", config.ProviderType),
		server:      app,
	}

	app.Get(healthPath, p.handleHealth)
	app.Post(chatPath, p.handleChat)

	return p, nil
}

// Run starts the proxy server on the given listening address
func (p *Proxy) Run() error {
	p.logger.Info("starting proxy server",
		"listen", p.config.ListenAddr,
		"timeout", p.config.Timeout,
	)

	return p.server.Listen(p.config.ListenAddr)
}

// RunWithListener starts the proxy server using the provided listener.
func (p *Proxy) RunWithListener(listener net.Listener) error {
	p.logger.Info("starting proxy server",
		"listen", listener.Addr().String(),
		"timeout", p.config.Timeout,
	)

	return p.server.Listener(listener)
}

// Close gracefully shuts down the proxy and waits for the worker pool to drain
func (p *Proxy) Close() error {
	err := p.server.Shutdown()
	p.workerPool.Close()
	return err
}

// App exposes the underlying fiber app.
func (p *Proxy) App() *fiber.App {
	return p.server
}

func (p *Proxy) handleHealth(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(fiber.StatusOK).SendString(healthMessage(p.displayName))
}

func (p *Proxy) handleChat(c *fiber.Ctx) error {
	started := time.Now()

	req, msg := parseChatRequest(c.Body())
	if msg != "" {
		p.logger.Debug("rejected chat request", "reason", msg)
		return p.finish(c, started, nil, nil, fiber.StatusBadRequest, msg)
	}

	if p.provider == nil {
		msg := notInitializedMessage(p.displayName, p.apiKeyEnv)
		p.logger.Error("chat request without a configured provider", "env", p.apiKeyEnv)
		return p.finish(c, started, req, nil, fiber.StatusInternalServerError, msg)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), p.config.Timeout)
	defer cancel()

	result, err := p.provider.Chat(ctx, req)
	if err != nil {
		status, msg := p.mapProviderError(ctx, err)
		p.logger.Error("provider call failed",
			"status", status,
			"history_turns", len(req.History),
			"error", err,
		)
		return p.finish(c, started, req, nil, status, msg)
	}

	p.logger.Info("chat request completed",
		"model", result.Model,
		"history_turns", len(req.History),
		"duration", time.Since(started),
	)

	return p.finish(c, started, req, result, fiber.StatusOK, "")
}

// mapProviderError converts a provider error into a status and message.
// Deadline expiry becomes 504; everything else is a 500 carrying the error.
func (p *Proxy) mapProviderError(ctx context.Context, err error) (int, string) {
	prefix := providerErrorContext(p.displayName)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fiber.StatusGatewayTimeout, fmt.Sprintf("%s: tempo limite de %s excedido", prefix, p.config.Timeout)
	}
	return fiber.StatusInternalServerError, fmt.Sprintf("%s: %v", prefix, err)
}

// finish writes the response body and enqueues the turn event.
func (p *Proxy) finish(c *fiber.Ctx, started time.Time, req *llm.ChatRequest, result *llm.ChatResult, status int, errMsg string) error {
	var model, text string
	var sent []json.RawMessage
	if result != nil {
		model, text, sent = result.Model, result.Text, result.Sent
	}

	p.workerPool.Enqueue(worker.Job{
		Provider:    p.config.ProviderType,
		Model:       model,
		Path:        c.Path(),
		RequestID:   requestID(c),
		StartedAt:   started,
		CompletedAt: time.Now(),
		HTTPStatus:  status,
		Req:         req,
		Sent:        sent,
		Response:    text,
		Err:         errMsg,
	})

	if errMsg != "" {
		return c.Status(status).JSON(llm.ErrorResponse{Error: errMsg})
	}
	return c.Status(status).JSON(llm.ChatResponse{Response: text})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string); ok {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}

// parseChatRequest validates the raw body. A non-empty message means the
// request is rejected with 400. History must be an array when present; its
// entries are kept as received and left to the provider to interpret.
func parseChatRequest(body []byte) (*llm.ChatRequest, string) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || len(fields) == 0 {
		return nil, msgInvalidBody
	}

	var userMessage string
	raw, ok := fields["user_message"]
	if !ok || json.Unmarshal(raw, &userMessage) != nil || userMessage == "" {
		return nil, msgMissingUserMessage
	}

	var req llm.ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, msgInvalidBody
	}
	return &req, ""
}

// errorHandler keeps the {"error": ...} shape for errors raised outside the
// chat handler, such as unknown routes and recovered panics.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(llm.ErrorResponse{Error: err.Error()})
}
