package servecmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/chatproxy/pkg/config"
	"github.com/papercomputeco/chatproxy/pkg/credentials"
	eventutils "github.com/papercomputeco/chatproxy/pkg/eventstream/utils"
	"github.com/papercomputeco/chatproxy/pkg/llm/provider"
	"github.com/papercomputeco/chatproxy/pkg/logger"
	"github.com/papercomputeco/chatproxy/proxy"
)

// serveCommander holds the resolved settings for one serve subcommand.
type serveCommander struct {
	providerType string

	listen  string
	timeout string

	model        string
	baseURL      string
	systemPrompt string
	searchTool   bool

	eventsProvider  string
	eventsBrokers   string
	eventsTopic     string
	eventsQueueSize uint

	logFile   string
	logSource bool
	debug     bool
	configDir string

	// getenv and stdout are swapped in tests.
	getenv func(string) string
	stdout io.Writer

	logger *slog.Logger
}

func newServeCommander(providerType string) *serveCommander {
	return &serveCommander{
		providerType: providerType,
		getenv:       os.Getenv,
		stdout:       os.Stdout,
	}
}

// sharedFlagKeys are the registry keys every serve subcommand carries.
var sharedFlagKeys = []string{
	config.FlagListen,
	config.FlagTimeout,
	config.FlagEventsProvider,
	config.FlagEventsBrokers,
	config.FlagEventsTopic,
	config.FlagEventsQueueSize,
}

func (c *serveCommander) addSharedFlags(cmd *cobra.Command) {
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagListen, &c.listen)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagTimeout, &c.timeout)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagEventsProvider, &c.eventsProvider)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagEventsBrokers, &c.eventsBrokers)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagEventsTopic, &c.eventsTopic)
	config.AddUintFlag(cmd, config.ServeFlags, config.FlagEventsQueueSize, &c.eventsQueueSize)
	cmd.Flags().StringVar(&c.logFile, "log-file", "", "Also write JSON logs to this file")
	cmd.Flags().BoolVar(&c.logSource, "log-source", false, "Add the source file:line to every log record")
}

// loadShared resolves the shared settings through viper so that
// flag > env > config.toml > default.
func (c *serveCommander) loadShared(cmd *cobra.Command, providerKeys []string) (*viper.Viper, error) {
	c.configDir, _ = cmd.Flags().GetString("config-dir")
	v, err := config.InitViper(c.configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	keys := append(append([]string{}, sharedFlagKeys...), providerKeys...)
	config.BindRegisteredFlags(v, cmd, config.ServeFlags, keys)

	c.listen = v.GetString("server.listen")
	c.timeout = v.GetString("server.timeout")
	c.eventsProvider = v.GetString("events.provider")
	c.eventsBrokers = v.GetString("events.brokers")
	c.eventsTopic = v.GetString("events.topic")
	c.eventsQueueSize = v.GetUint("events.queue_size")

	return v, nil
}

func (c *serveCommander) runE(cmd *cobra.Command, _ []string) error {
	var err error
	c.debug, err = cmd.Flags().GetBool("debug")
	if err != nil {
		return fmt.Errorf("could not get debug flag: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return c.run(ctx)
}

func (c *serveCommander) run(ctx context.Context) error {
	if err := loadDotEnv(); err != nil {
		return err
	}

	timeout, err := time.ParseDuration(c.timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout %q: %w", c.timeout, err)
	}

	log, closeLog, err := c.newLogger()
	if err != nil {
		return err
	}
	defer closeLog()
	c.logger = log

	apiKey, err := c.resolveAPIKey()
	if err != nil {
		return err
	}

	prov, err := provider.New(ctx, provider.Options{
		Type:         c.providerType,
		APIKey:       apiKey,
		Model:        c.model,
		BaseURL:      c.baseURL,
		SystemPrompt: c.systemPrompt,
		SearchTool:   c.searchTool,
		Logger:       c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating provider: %w", err)
	}

	publisher, err := eventutils.NewPublisher(eventutils.PublisherConfig{
		Provider: c.eventsProvider,
		Brokers:  c.eventsBrokers,
		Topic:    c.eventsTopic,
	}, c.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			c.logger.Error("closing event publisher", "error", err)
		}
	}()

	p, err := proxy.New(proxy.Config{
		ListenAddr:      c.listen,
		ProviderType:    c.providerType,
		Timeout:         timeout,
		Publisher:       publisher,
		WorkerQueueSize: c.eventsQueueSize,
	}, prov, c.logger)
	if err != nil {
		return fmt.Errorf("creating proxy: %w", err)
	}

	c.logger.Info("starting chatproxy",
		"provider", c.providerType,
		"listen", c.listen,
		"events", c.eventsProvider,
	)

	errChan := make(chan error, 1)
	go func() {
		errChan <- p.Run()
	}()

	select {
	case err := <-errChan:
		_ = p.Close()
		if err != nil {
			return fmt.Errorf("proxy error: %w", err)
		}
		return nil
	case <-ctx.Done():
		c.logger.Info("shutting down")
		return p.Close()
	}
}

// resolveAPIKey reads the provider's key from the environment, falling back
// to credentials.toml.
func (c *serveCommander) resolveAPIKey() (string, error) {
	store, err := credentials.Open(c.configDir)
	if err != nil {
		return "", fmt.Errorf("loading credentials: %w", err)
	}

	key, source, err := store.Resolve(c.providerType, c.getenv)
	if err != nil {
		return "", fmt.Errorf("loading credentials: %w", err)
	}
	if key != "" {
		c.logger.Debug("resolved api key", "provider", c.providerType, "source", source)
	}
	return key, nil
}

// newLogger writes pretty output to a terminal and JSON lines otherwise.
// With --log-file the records also go to that file as JSON: through the
// same handler when the console is JSON, through logger.Multi when it is
// pretty.
func (c *serveCommander) newLogger() (*slog.Logger, func(), error) {
	format := logger.FormatFor(c.stdout)
	base := []logger.Option{
		logger.WithDebug(c.debug),
		logger.WithSource(c.logSource),
	}

	if c.logFile == "" {
		return logger.New(append(base, logger.WithFormat(format), logger.WithWriter(c.stdout))...), func() {}, nil
	}

	f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	closeFile := func() { _ = f.Close() }

	if format == logger.FormatJSON {
		return logger.New(append(base, logger.WithFormat(format), logger.WithWriter(c.stdout, f))...), closeFile, nil
	}

	console := logger.New(append(base, logger.WithFormat(format), logger.WithWriter(c.stdout))...)
	file := logger.New(append(base, logger.WithFormat(logger.FormatJSON), logger.WithWriter(f))...)
	return logger.Multi(console, file), closeFile, nil
}

// loadDotEnv loads ./.env when present. Variables already in the
// environment win.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}
