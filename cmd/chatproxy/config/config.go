// Package configcmder provides the config command for managing persistent
// chatproxy configuration stored in the .chatproxy/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent chatproxy configuration.

Configuration is stored as config.toml in the .chatproxy/ directory and
provides default values for command flags. CLI flags and CHATPROXY_*
environment variables always take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  server.listen, server.timeout,
  gemini.model, gemini.search_tool, gemini.base_url,
  groq.default_model, groq.default_system_prompt, groq.base_url,
  events.provider, events.brokers, events.topic, events.queue_size,
  client.proxy_target

Use subcommands to get, set, or list configuration values:
  chatproxy config set <key> <value>    Set a configuration value
  chatproxy config get <key>            Get a configuration value
  chatproxy config list                 List all configuration values

Examples:
  chatproxy config set server.timeout 90s
  chatproxy config set groq.default_model llama3-70b-8192
  chatproxy config get gemini.search_tool
  chatproxy config list`

const configShortDesc string = "Manage persistent chatproxy configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
