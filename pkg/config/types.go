package config

import (
	"fmt"
	"strconv"
	"time"
)

// Config represents the persistent chatproxy configuration stored as
// config.toml in the .chatproxy/ directory. The TOML layout uses sections for
// logical grouping.
type Config struct {
	Version int          `toml:"version"`
	Server  ServerConfig `toml:"server"`
	Gemini  GeminiConfig `toml:"gemini"`
	Groq    GroqConfig   `toml:"groq"`
	Events  EventsConfig `toml:"events"`
	Client  ClientConfig `toml:"client"`
}

// ServerConfig holds the HTTP listener settings shared by both providers.
type ServerConfig struct {
	Listen string `toml:"listen,omitempty"`

	// Timeout bounds each upstream call, in time.ParseDuration format.
	Timeout string `toml:"timeout,omitempty"`
}

// GeminiConfig holds settings for the gemini provider.
type GeminiConfig struct {
	Model string `toml:"model,omitempty"`

	// SearchTool is a pointer so an explicit false survives the round trip
	// through omitempty and default merging.
	SearchTool *bool  `toml:"search_tool,omitempty"`
	BaseURL    string `toml:"base_url,omitempty"`
}

// SearchToolEnabled reports the effective search tool setting.
func (g GeminiConfig) SearchToolEnabled() bool {
	return g.SearchTool == nil || *g.SearchTool
}

// GroqConfig holds settings for the groq provider. The defaults apply when
// an inbound request carries no model or system_prompt of its own.
type GroqConfig struct {
	DefaultModel        string `toml:"default_model,omitempty"`
	DefaultSystemPrompt string `toml:"default_system_prompt,omitempty"`
	BaseURL             string `toml:"base_url,omitempty"`
}

// EventsConfig holds turn event publishing settings.
type EventsConfig struct {
	// Provider is "none" or "kafka".
	Provider string `toml:"provider,omitempty"`

	// Brokers is a comma separated list of Kafka broker addresses.
	Brokers string `toml:"brokers,omitempty"`
	Topic   string `toml:"topic,omitempty"`

	// QueueSize is the capacity of the in-process event queue.
	QueueSize uint `toml:"queue_size,omitempty"`
}

// ClientConfig holds settings for CLI commands that connect to a running
// proxy (e.g. chatproxy chat). Values are full URLs (scheme + host + port).
type ClientConfig struct {
	ProxyTarget string `toml:"proxy_target,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func stringKey(field func(c *Config) *string) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error { *field(c) = v; return nil },
	}
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"server.listen": stringKey(func(c *Config) *string { return &c.Server.Listen }),
	"server.timeout": {
		get: func(c *Config) string { return c.Server.Timeout },
		set: func(c *Config, v string) error {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid value for server.timeout: %w", err)
			}
			if d <= 0 {
				return fmt.Errorf("invalid value for server.timeout: must be positive, got %s", v)
			}
			c.Server.Timeout = v
			return nil
		},
	},
	"gemini.model": stringKey(func(c *Config) *string { return &c.Gemini.Model }),
	"gemini.search_tool": {
		get: func(c *Config) string { return strconv.FormatBool(c.Gemini.SearchToolEnabled()) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for gemini.search_tool: %w", err)
			}
			c.Gemini.SearchTool = &b
			return nil
		},
	},
	"gemini.base_url":            stringKey(func(c *Config) *string { return &c.Gemini.BaseURL }),
	"groq.default_model":         stringKey(func(c *Config) *string { return &c.Groq.DefaultModel }),
	"groq.default_system_prompt": stringKey(func(c *Config) *string { return &c.Groq.DefaultSystemPrompt }),
	"groq.base_url":              stringKey(func(c *Config) *string { return &c.Groq.BaseURL }),
	"events.provider": {
		get: func(c *Config) string { return c.Events.Provider },
		set: func(c *Config, v string) error {
			switch v {
			case EventsProviderNone, EventsProviderKafka:
				c.Events.Provider = v
				return nil
			default:
				return fmt.Errorf("invalid value for events.provider: %q (available: %s, %s)", v, EventsProviderNone, EventsProviderKafka)
			}
		},
	},
	"events.brokers": stringKey(func(c *Config) *string { return &c.Events.Brokers }),
	"events.topic":   stringKey(func(c *Config) *string { return &c.Events.Topic }),
	"events.queue_size": {
		get: func(c *Config) string {
			if c.Events.QueueSize == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Events.QueueSize), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for events.queue_size: %w", err)
			}
			c.Events.QueueSize = uint(n)
			return nil
		},
	},
	"client.proxy_target": stringKey(func(c *Config) *string { return &c.Client.ProxyTarget }),
}
