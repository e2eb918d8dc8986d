package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/chatproxy/pkg/dotdir"
)

const (
	configFile = "config.toml"

	// v0 is the alpha version of the config
	v0 = 0

	// CurrentV is the currently supported version, points to v0
	CurrentV = v0
)

// Configer reads and writes config.toml in a resolved .chatproxy/ directory.
type Configer struct {
	ddm        *dotdir.Manager
	targetPath string
}

// NewConfiger resolves the config directory. An empty override falls back to
// ./.chatproxy and then ~/.chatproxy.
func NewConfiger(override string) (*Configer, error) {
	cfger := &Configer{}

	cfger.ddm = dotdir.NewManager()
	target, err := cfger.ddm.Target(override)
	if err != nil {
		return nil, err
	}

	// If no .chatproxy/ directory was resolved, targetPath stays empty;
	// LoadConfig will return defaults and SaveConfig will error clearly.
	if target == "" {
		return cfger, nil
	}

	path := filepath.Join(target, configFile)
	_, err = os.Stat(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Always set targetPath when the directory exists so SaveConfig
	// can create or overwrite the file.
	cfger.targetPath = path

	return cfger, nil
}

// ValidConfigKeys returns the list of all supported configuration key names
// in the order of the TOML section layout.
func ValidConfigKeys() []string {
	ordered := []string{
		"server.listen",
		"server.timeout",
		"gemini.model",
		"gemini.search_tool",
		"gemini.base_url",
		"groq.default_model",
		"groq.default_system_prompt",
		"groq.base_url",
		"events.provider",
		"events.brokers",
		"events.topic",
		"events.queue_size",
		"client.proxy_target",
	}

	result := make([]string, 0, len(configKeys))
	seen := make(map[string]bool, len(configKeys))
	for _, k := range ordered {
		if _, ok := configKeys[k]; ok {
			result = append(result, k)
			seen[k] = true
		}
	}

	// Any key missing from the ordered list goes last, sorted.
	var rest []string
	for k := range configKeys {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)

	return append(result, rest...)
}

// IsValidConfigKey returns true if the given key is a supported configuration key.
func IsValidConfigKey(key string) bool {
	_, ok := configKeys[key]
	return ok
}

// GetTarget returns the resolved config.toml path.
func (c *Configer) GetTarget() string {
	return c.targetPath
}

// LoadConfig reads config.toml and fills every unset field from
// NewDefaultConfig. A missing file yields the defaults.
func (c *Configer) LoadConfig() (*Config, error) {
	if c.targetPath == "" {
		return NewDefaultConfig(), nil
	}

	data, err := os.ReadFile(c.targetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewDefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := ParseConfigTOML(data)
	if err != nil {
		return nil, err
	}

	// Merge in defaults: fill in any zero-value fields from the loaded config
	applyDefaults(cfg)

	return cfg, nil
}

// applyDefaults fills zero-value fields in cfg with values from NewDefaultConfig().
func applyDefaults(cfg *Config) {
	defaults := NewDefaultConfig()

	if cfg.Version == 0 {
		cfg.Version = defaults.Version
	}

	if cfg.Server.Listen == "" {
		cfg.Server.Listen = defaults.Server.Listen
	}
	if cfg.Server.Timeout == "" {
		cfg.Server.Timeout = defaults.Server.Timeout
	}

	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = defaults.Gemini.Model
	}
	if cfg.Gemini.SearchTool == nil {
		cfg.Gemini.SearchTool = defaults.Gemini.SearchTool
	}

	if cfg.Groq.DefaultModel == "" {
		cfg.Groq.DefaultModel = defaults.Groq.DefaultModel
	}
	if cfg.Groq.DefaultSystemPrompt == "" {
		cfg.Groq.DefaultSystemPrompt = defaults.Groq.DefaultSystemPrompt
	}
	if cfg.Groq.BaseURL == "" {
		cfg.Groq.BaseURL = defaults.Groq.BaseURL
	}

	if cfg.Events.Provider == "" {
		cfg.Events.Provider = defaults.Events.Provider
	}
	if cfg.Events.Topic == "" {
		cfg.Events.Topic = defaults.Events.Topic
	}
	if cfg.Events.QueueSize == 0 {
		cfg.Events.QueueSize = defaults.Events.QueueSize
	}

	if cfg.Client.ProxyTarget == "" {
		cfg.Client.ProxyTarget = defaults.Client.ProxyTarget
	}
}

// SaveConfig persists the configuration to config.toml in the target .chatproxy/ directory.
func (c *Configer) SaveConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("cannot save nil config")
	}

	if c.targetPath == "" {
		return errors.New("cannot save empty target path")
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(c.targetPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// SetConfigValue loads the config, sets the given key to the given value, and saves it.
// Returns an error if the key is not a valid config key.
func (c *Configer) SetConfigValue(key string, value string) error {
	info, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return err
	}

	if err := info.set(cfg, value); err != nil {
		return err
	}

	return c.SaveConfig(cfg)
}

// GetConfigValue loads the config and returns the string representation of the given key.
// Returns an error if the key is not a valid config key.
func (c *Configer) GetConfigValue(key string) (string, error) {
	info, ok := configKeys[key]
	if !ok {
		return "", fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return "", err
	}

	return info.get(cfg), nil
}

// PresetConfig returns a Config with sane defaults for the named provider preset.
// Supported presets: "gemini", "groq", "kafka". The kafka preset enables turn
// events against a local broker.
// Returns an error if the preset name is not recognized.
func PresetConfig(name string) (*Config, error) {
	cfg := NewDefaultConfig()

	switch strings.ToLower(name) {
	case "gemini":
		cfg.Client.ProxyTarget = "http://localhost:8080"
		return cfg, nil

	case "groq":
		cfg.Server.Listen = ":8081"
		cfg.Client.ProxyTarget = "http://localhost:8081"
		return cfg, nil

	case "kafka":
		cfg.Events.Provider = EventsProviderKafka
		cfg.Events.Brokers = "localhost:9092"
		return cfg, nil

	default:
		return nil, fmt.Errorf("unknown preset: %q (available: %s)", name, strings.Join(ValidPresetNames(), ", "))
	}
}

// ValidPresetNames returns the list of recognized preset names.
func ValidPresetNames() []string {
	return []string{"gemini", "groq", "kafka"}
}

// ParseConfigTOML parses raw TOML bytes into a Config.
// Returns an error if the version field is present and not equal to CurrentConfigVersion.
func ParseConfigTOML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}

	if cfg.Version != 0 && cfg.Version != CurrentV {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentV)
	}

	return cfg, nil
}
