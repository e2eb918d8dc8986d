package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/chatproxy/pkg/dotdir"
)

// EnvPrefix prefixes every environment override, e.g. CHATPROXY_SERVER_LISTEN.
const EnvPrefix = "CHATPROXY"

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the CHATPROXY_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (CHATPROXY_SERVER_LISTEN, CHATPROXY_GROQ_DEFAULT_MODEL, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	v.SetDefault("server.listen", d.Server.Listen)
	v.SetDefault("server.timeout", d.Server.Timeout)

	v.SetDefault("gemini.model", d.Gemini.Model)
	v.SetDefault("gemini.search_tool", d.Gemini.SearchToolEnabled())
	v.SetDefault("gemini.base_url", d.Gemini.BaseURL)

	v.SetDefault("groq.default_model", d.Groq.DefaultModel)
	v.SetDefault("groq.default_system_prompt", d.Groq.DefaultSystemPrompt)
	v.SetDefault("groq.base_url", d.Groq.BaseURL)

	v.SetDefault("events.provider", d.Events.Provider)
	v.SetDefault("events.brokers", d.Events.Brokers)
	v.SetDefault("events.topic", d.Events.Topic)
	v.SetDefault("events.queue_size", d.Events.QueueSize)

	v.SetDefault("client.proxy_target", d.Client.ProxyTarget)
}
