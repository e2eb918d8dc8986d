// Package servecmder provides the serve command with one subcommand per
// upstream LLM provider.
package servecmder

import (
	"github.com/spf13/cobra"
)

const serveLongDesc string = `Run the chatproxy server.

Each subcommand runs the proxy against a single upstream provider:
  chatproxy serve gemini    Relay chat requests to Google Gemini
  chatproxy serve groq      Relay chat requests to Groq

The API key is read from the provider's environment variable
(GEMINI_API_KEY or GROQ_API_KEY), falling back to a key stored with
"chatproxy auth". A .env file in the working directory is loaded first and
never overrides variables that are already set.`

const serveShortDesc string = "Run the chatproxy server"

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
	}

	cmd.AddCommand(NewGeminiCmd())
	cmd.AddCommand(NewGroqCmd())

	return cmd
}
