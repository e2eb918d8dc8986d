// Package authcmder provides the auth command for storing provider API keys.
package authcmder

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/chatproxy/pkg/cliui"
	"github.com/papercomputeco/chatproxy/pkg/credentials"
	"github.com/papercomputeco/chatproxy/pkg/llm/provider"
	"github.com/papercomputeco/chatproxy/pkg/logger"
)

const authLongDesc string = `Store API keys for the upstream LLM providers.

Keys are stored in credentials.toml in the .chatproxy/ directory and used
by "chatproxy serve" when the provider's environment variable
(GEMINI_API_KEY or GROQ_API_KEY) is not set. The environment, including a
.env file, always wins.

Supported providers: gemini, groq

Examples:
  chatproxy auth gemini              Prompt for the Gemini API key
  chatproxy auth --list              List stored credentials
  chatproxy auth --remove groq       Remove the stored Groq key
  echo $KEY | chatproxy auth groq    Pipe the API key from stdin`

const authShortDesc string = "Store API keys for LLM providers"

func NewAuthCmd() *cobra.Command {
	var listFlag bool
	var removeFlag string

	cmd := &cobra.Command{
		Use:   "auth [provider]",
		Short: authShortDesc,
		Long:  authLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			switch {
			case listFlag:
				return runList(cmd.OutOrStdout(), configDir)
			case removeFlag != "":
				return runRemove(cmd.OutOrStdout(), removeFlag, configDir)
			default:
				if len(args) == 0 {
					return fmt.Errorf("provider argument required\n\nSupported providers: %s",
						strings.Join(provider.SupportedProviders(), ", "))
				}
				return runAuth(cmd, args[0], configDir)
			}
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return provider.SupportedProviders(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}

	cmd.Flags().BoolVar(&listFlag, "list", false, "List stored credentials")
	cmd.Flags().StringVar(&removeFlag, "remove", "", "Remove stored credentials for a provider")

	return cmd
}

func runAuth(cmd *cobra.Command, providerName, configDir string) error {
	name, err := credentials.Normalize(providerName)
	if err != nil {
		return err
	}

	store, err := credentials.Open(configDir)
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	out := cmd.OutOrStdout()
	apiKey, err := readAPIKey(cmd.InOrStdin(), out, name)
	if err != nil {
		return err
	}

	if err := store.Set(name, apiKey); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n  %s Stored %s credentials %s\n\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(name),
		cliui.DimStyle.Render("(used when "+credentials.EnvVar(name)+" is unset)"),
	)
	return nil
}

func runList(out io.Writer, configDir string) error {
	store, err := credentials.Open(configDir)
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	entries, err := store.Entries()
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintf(out, "\n  %s No stored credentials.\n", cliui.DimStyle.Render("●"))
		fmt.Fprintf(out, "  Use 'chatproxy auth <provider>' to store credentials.\n")
		fmt.Fprintf(out, "  Supported providers: %s\n\n", strings.Join(provider.SupportedProviders(), ", "))
		return nil
	}

	fmt.Fprintf(out, "\n  %s %s\n\n", cliui.KeyStyle.Render("Stored credentials"), cliui.DimStyle.Render(store.Path()))
	for _, e := range entries {
		fmt.Fprintf(out, "  %s  %s  %s  %s\n",
			cliui.SuccessMark,
			cliui.NameStyle.Render(e.Provider),
			cliui.ValueStyle.Render(e.Masked()),
			cliui.DimStyle.Render("→ "+e.EnvVar),
		)
	}
	fmt.Fprintln(out)

	return nil
}

func runRemove(out io.Writer, providerName, configDir string) error {
	name, err := credentials.Normalize(providerName)
	if err != nil {
		return err
	}

	store, err := credentials.Open(configDir)
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	removed, err := store.Remove(name)
	if err != nil {
		return err
	}

	if !removed {
		fmt.Fprintf(out, "\n  %s No stored %s credentials.\n\n", cliui.DimStyle.Render("●"), cliui.NameStyle.Render(name))
		return nil
	}
	fmt.Fprintf(out, "\n  %s Removed %s credentials.\n\n", cliui.SuccessMark, cliui.NameStyle.Render(name))
	return nil
}

// readAPIKey prompts with hidden input on a terminal and otherwise reads the
// first line of in.
func readAPIKey(in io.Reader, out io.Writer, providerName string) (string, error) {
	if f, ok := in.(*os.File); ok && logger.IsTerminal(f) {
		fmt.Fprintf(out, "Enter API key for %s (%s): ", providerName, credentials.EnvVar(providerName))

		keyBytes, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("reading API key: %w", err)
		}
		return string(keyBytes), nil
	}

	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return "", errors.New("no input received on stdin")
}
