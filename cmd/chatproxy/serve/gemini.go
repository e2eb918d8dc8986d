package servecmder

import (
	"github.com/spf13/cobra"

	"github.com/papercomputeco/chatproxy/pkg/config"
	"github.com/papercomputeco/chatproxy/pkg/llm/provider"
)

const geminiLongDesc string = `Run the proxy against Google Gemini.

Every POST /chat request opens a Gemini chat session seeded with the
request history, carrying the fixed code review system instruction and,
unless disabled, the Google Search tool. The request's own model and
system_prompt fields are ignored.

Requires GEMINI_API_KEY.

Examples:
  chatproxy serve gemini
  chatproxy serve gemini --listen :9000 --timeout 90s
  chatproxy serve gemini --search-tool=false`

const geminiShortDesc string = "Relay chat requests to Google Gemini"

var geminiFlagKeys = []string{
	config.FlagGeminiModel,
	config.FlagGeminiSearch,
	config.FlagGeminiBaseURL,
}

func NewGeminiCmd() *cobra.Command {
	return newGeminiCmd(newServeCommander(provider.Gemini))
}

func newGeminiCmd(cmder *serveCommander) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gemini",
		Short: geminiShortDesc,
		Long:  geminiLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			v, err := cmder.loadShared(cmd, geminiFlagKeys)
			if err != nil {
				return err
			}

			cmder.model = v.GetString("gemini.model")
			cmder.searchTool = v.GetBool("gemini.search_tool")
			cmder.baseURL = v.GetString("gemini.base_url")
			return nil
		},
		RunE: cmder.runE,
	}

	cmder.addSharedFlags(cmd)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagGeminiModel, &cmder.model)
	config.AddBoolFlag(cmd, config.ServeFlags, config.FlagGeminiSearch, &cmder.searchTool)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagGeminiBaseURL, &cmder.baseURL)

	return cmd
}
