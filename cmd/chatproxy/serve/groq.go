package servecmder

import (
	"github.com/spf13/cobra"

	"github.com/papercomputeco/chatproxy/pkg/config"
	"github.com/papercomputeco/chatproxy/pkg/llm/provider"
)

const groqLongDesc string = `Run the proxy against Groq's OpenAI compatible API.

Every POST /chat request becomes a single chat completion call. The
request's model and system_prompt fields win over the configured
defaults; history is forwarded verbatim.

Requires GROQ_API_KEY.

Examples:
  chatproxy serve groq
  chatproxy serve groq --model llama3-70b-8192
  chatproxy serve groq --events-provider kafka --events-brokers localhost:9092`

const groqShortDesc string = "Relay chat requests to Groq"

var groqFlagKeys = []string{
	config.FlagGroqModel,
	config.FlagGroqPrompt,
	config.FlagGroqBaseURL,
}

func NewGroqCmd() *cobra.Command {
	return newGroqCmd(newServeCommander(provider.Groq))
}

func newGroqCmd(cmder *serveCommander) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groq",
		Short: groqShortDesc,
		Long:  groqLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			v, err := cmder.loadShared(cmd, groqFlagKeys)
			if err != nil {
				return err
			}

			cmder.model = v.GetString("groq.default_model")
			cmder.systemPrompt = v.GetString("groq.default_system_prompt")
			cmder.baseURL = v.GetString("groq.base_url")
			return nil
		},
		RunE: cmder.runE,
	}

	cmder.addSharedFlags(cmd)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagGroqModel, &cmder.model)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagGroqPrompt, &cmder.systemPrompt)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagGroqBaseURL, &cmder.baseURL)

	return cmd
}
