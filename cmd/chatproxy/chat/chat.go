// Package chatcmder provides the chat command, an interactive terminal
// client for a running chatproxy server.
package chatcmder

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/chatproxy/pkg/cliui"
	"github.com/papercomputeco/chatproxy/pkg/config"
	"github.com/papercomputeco/chatproxy/pkg/llm"
	"github.com/papercomputeco/chatproxy/pkg/logger"
	"github.com/papercomputeco/chatproxy/pkg/utils"
)

var (
	userPrompt      = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	assistantPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("assistant> ")
)

// requestTimeout is generous; the proxy enforces its own upstream deadline.
const requestTimeout = 5 * time.Minute

type chatCommander struct {
	proxyTarget  string
	model        string
	systemPrompt string
	raw          bool
	debug        bool

	in         io.Reader
	out        io.Writer
	httpClient *http.Client

	logger *slog.Logger
}

const chatLongDesc string = `Start an interactive chat session through a running chatproxy server.

Each line you type is posted to the proxy's /chat endpoint together with
the conversation so far, exactly as the bot platform would send it.
Replies are rendered as markdown.

--model and --system-prompt are forwarded with every request; the groq
proxy honors them, the gemini proxy ignores them.

Examples:
  chatproxy chat
  chatproxy chat --proxy-target http://localhost:8081 --model llama3-70b-8192`

const chatShortDesc string = "Interactive chat through a chatproxy server"

func NewChatCmd() *cobra.Command {
	return newChatCmd(&chatCommander{
		in:         os.Stdin,
		out:        os.Stdout,
		httpClient: &http.Client{Timeout: requestTimeout},
	})
}

func newChatCmd(cmder *chatCommander) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.ClientFlags, []string{config.FlagProxyTarget})
			cmder.proxyTarget = v.GetString("client.proxy_target")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.ClientFlags, config.FlagProxyTarget, &cmder.proxyTarget)
	cmd.Flags().StringVarP(&cmder.model, "model", "m", "", "Model to request (groq only)")
	cmd.Flags().StringVar(&cmder.systemPrompt, "system-prompt", "", "System prompt to request (groq only)")
	cmd.Flags().BoolVar(&cmder.raw, "raw", false, "Print replies without markdown rendering")

	return cmd
}

func (c *chatCommander) run(ctx context.Context) error {
	c.logger = logger.New(logger.WithDebug(c.debug), logger.WithFormat(logger.FormatPretty), logger.WithWriter(os.Stderr))

	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "  %s %s\n",
		cliui.KeyStyle.Render("Proxy:"),
		cliui.NameStyle.Render(c.proxyTarget),
	)
	if c.model != "" {
		fmt.Fprintf(c.out, "  %s %s\n",
			cliui.KeyStyle.Render("Model:"),
			cliui.NameStyle.Render(c.model),
		)
	}
	fmt.Fprintf(c.out, "\n  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /exit or Ctrl+D to quit."))

	var history []llm.Message
	scanner := bufio.NewScanner(c.in)

	for {
		fmt.Fprint(c.out, userPrompt)
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" {
			break
		}

		var reply string
		err := cliui.Step(c.out, cliui.DimStyle.Render(utils.Truncate(input, 40)), func() error {
			var sendErr error
			reply, sendErr = c.send(ctx, input, history)
			return sendErr
		})
		if err != nil {
			fmt.Fprintf(c.out, "  %s %v\n\n", cliui.FailMark, err)
			continue
		}

		history = append(history,
			llm.NewTextMessage(llm.RoleUser.String(), input),
			llm.NewTextMessage(llm.RoleAssistant.String(), reply),
		)

		fmt.Fprintf(c.out, "%s\n%s\n", assistantPrompt, c.render(reply))
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Fprintln(c.out)
	return nil
}

func (c *chatCommander) render(reply string) string {
	if c.raw {
		return reply
	}

	rendered, err := cliui.RenderMarkdown(reply)
	if err != nil {
		c.logger.Debug("markdown rendering failed", "error", err)
	}
	return rendered
}

// send posts one turn to the proxy and returns the reply text.
func (c *chatCommander) send(ctx context.Context, input string, history []llm.Message) (string, error) {
	body, err := json.Marshal(llm.ChatRequest{
		UserMessage:  input,
		History:      llm.NewHistory(history...),
		SystemPrompt: c.systemPrompt,
		Model:        c.model,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	c.logger.Debug("sending chat request",
		"proxy_target", c.proxyTarget,
		"history_turns", len(history),
	)

	url := strings.TrimSuffix(c.proxyTarget, "/") + "/chat"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("sending request to proxy: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp llm.ErrorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return "", fmt.Errorf("proxy returned status %d: %s", resp.StatusCode, errResp.Error)
		}
		return "", fmt.Errorf("proxy returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var chatResp llm.ChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if chatResp.Response == "" {
		return "", errors.New("proxy returned an empty response")
	}

	return chatResp.Response, nil
}
