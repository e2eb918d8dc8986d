// Package chatproxycmder
package chatproxycmder

import (
	"github.com/spf13/cobra"

	authcmder "github.com/papercomputeco/chatproxy/cmd/chatproxy/auth"
	chatcmder "github.com/papercomputeco/chatproxy/cmd/chatproxy/chat"
	configcmder "github.com/papercomputeco/chatproxy/cmd/chatproxy/config"
	initcmder "github.com/papercomputeco/chatproxy/cmd/chatproxy/init"
	servecmder "github.com/papercomputeco/chatproxy/cmd/chatproxy/serve"
	versioncmder "github.com/papercomputeco/chatproxy/cmd/version"
)

const chatproxyLongDesc string = `Chatproxy relays chatbot messages to an LLM.

A bot platform posts {"user_message", "history"} to /chat and gets back
{"response"}. The proxy talks to exactly one upstream provider.

Run the proxy using:
  chatproxy serve gemini    Relay to Google Gemini
  chatproxy serve groq      Relay to Groq

Talk to a running proxy using:
  chatproxy chat

Store API keys outside the environment using:
  chatproxy auth gemini|groq`

const chatproxyShortDesc string = "Chatproxy - chatbot to LLM relay"

func NewChatproxyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "chatproxy",
		Short:        chatproxyShortDesc,
		Long:         chatproxyLongDesc,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .chatproxy/ config directory")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(authcmder.NewAuthCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
