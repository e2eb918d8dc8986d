package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. The same flag name may map
// to different viper keys (e.g. --model on "serve gemini" and "serve groq").
type Flag struct {
	// Name is the long flag name (e.g. "listen").
	Name string

	// Shorthand is the one-letter short flag (e.g. "l"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "server.listen").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag, AddBoolFlag, AddUintFlag,
// and BindRegisteredFlags to avoid typos or drift from one command to another.
const (
	FlagListen          = "listen"
	FlagTimeout         = "timeout"
	FlagGeminiModel     = "gemini-model"
	FlagGeminiSearch    = "gemini-search-tool"
	FlagGeminiBaseURL   = "gemini-base-url"
	FlagGroqModel       = "groq-model"
	FlagGroqPrompt      = "groq-system-prompt"
	FlagGroqBaseURL     = "groq-base-url"
	FlagEventsProvider  = "events-provider"
	FlagEventsBrokers   = "events-brokers"
	FlagEventsTopic     = "events-topic"
	FlagEventsQueueSize = "events-queue-size"
	FlagProxyTarget     = "proxy-target"
)

// ServeFlags is the flag registry for the serve commands.
var ServeFlags = FlagSet{
	FlagListen: {
		Name:        "listen",
		Shorthand:   "l",
		ViperKey:    "server.listen",
		Description: "Address for the proxy to listen on",
	},
	FlagTimeout: {
		Name:        "timeout",
		ViperKey:    "server.timeout",
		Description: "Upstream call timeout (e.g. 60s, 2m)",
	},
	FlagGeminiModel: {
		Name:        "model",
		Shorthand:   "m",
		ViperKey:    "gemini.model",
		Description: "Gemini model for every chat session",
	},
	FlagGeminiSearch: {
		Name:        "search-tool",
		ViperKey:    "gemini.search_tool",
		Description: "Attach the Google Search tool to chat sessions",
	},
	FlagGeminiBaseURL: {
		Name:        "base-url",
		ViperKey:    "gemini.base_url",
		Description: "Override the Gemini API endpoint",
	},
	FlagGroqModel: {
		Name:        "model",
		Shorthand:   "m",
		ViperKey:    "groq.default_model",
		Description: "Model used when a request does not name one",
	},
	FlagGroqPrompt: {
		Name:        "system-prompt",
		ViperKey:    "groq.default_system_prompt",
		Description: "System prompt used when a request does not carry one",
	},
	FlagGroqBaseURL: {
		Name:        "base-url",
		ViperKey:    "groq.base_url",
		Description: "Groq OpenAI compatible API endpoint",
	},
	FlagEventsProvider: {
		Name:        "events-provider",
		ViperKey:    "events.provider",
		Description: "Turn event publisher (none, kafka)",
	},
	FlagEventsBrokers: {
		Name:        "events-brokers",
		ViperKey:    "events.brokers",
		Description: "Comma separated Kafka broker addresses",
	},
	FlagEventsTopic: {
		Name:        "events-topic",
		ViperKey:    "events.topic",
		Description: "Kafka topic for turn events",
	},
	FlagEventsQueueSize: {
		Name:        "events-queue-size",
		ViperKey:    "events.queue_size",
		Description: "Capacity of the in-process turn event queue",
	},
}

// ClientFlags is the flag registry for commands that talk to a running proxy.
var ClientFlags = FlagSet{
	FlagProxyTarget: {
		Name:        "proxy-target",
		Shorthand:   "p",
		ViperKey:    "client.proxy_target",
		Description: "Chatproxy server URL",
	},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaults().GetString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddBoolFlag registers a bool flag on cmd from the given FlagSet.
func AddBoolFlag(cmd *cobra.Command, fs FlagSet, key string, target *bool) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaults().GetBool(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().BoolVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().BoolVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddUintFlag registers a uint flag on cmd from the given FlagSet.
func AddUintFlag(cmd *cobra.Command, fs FlagSet, key string, target *uint) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaults().GetUint(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().UintVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().UintVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaults returns a viper instance holding only NewDefaultConfig values.
func defaults() *viper.Viper {
	v := viper.New()
	setViperDefaults(v)
	return v
}
