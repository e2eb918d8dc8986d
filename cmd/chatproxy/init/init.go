// Package initcmder provides the init command for initializing a local
// .chatproxy directory in the current working directory.
package initcmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/chatproxy/pkg/config"
	"github.com/papercomputeco/chatproxy/pkg/dotdir"
)

const fetchTimeout = 30 * time.Second

const initLongDesc string = `Initialize a new .chatproxy/ directory in the current working directory.

Creates a local .chatproxy/ directory that takes precedence over the default
~/.chatproxy/ directory, and writes a config.toml into it.

Without --preset the defaults are written, unless a config.toml already
exists. With --preset the config.toml is always (re)written from either a
named preset or a remote TOML file.

Presets:
  gemini    Gemini proxy on :8080
  groq      Groq proxy on :8081, chat client pointed at it
  kafka     Defaults plus turn events to a local Kafka broker

Examples:
  chatproxy init
  chatproxy init --preset groq
  chatproxy init --preset https://example.com/chatproxy.toml`

const initShortDesc string = "Initialize a local .chatproxy/ directory"

type initCommander struct {
	preset string
}

func NewInitCmd() *cobra.Command {
	cmder := &initCommander{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&cmder.preset, "preset", "",
		fmt.Sprintf("Preset name (%s) or http(s) URL of a config.toml", strings.Join(config.ValidPresetNames(), ", ")))

	return cmd
}

func (c *initCommander) run(ctx context.Context, out io.Writer) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	dir := filepath.Join(cwd, dotdir.DirName)
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		fmt.Fprintf(out, "Already initialized: %s\n", dir)
	} else {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating .chatproxy directory: %w", err)
		}
		fmt.Fprintf(out, "Initialized .chatproxy directory: %s\n", dir)
	}

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if c.preset == "" {
		if _, err := os.Stat(cfger.GetTarget()); err == nil {
			return nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking config: %w", err)
		}
	}

	cfg, err := c.resolveConfig(ctx)
	if err != nil {
		return err
	}

	if err := cfger.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Fprintf(out, "Wrote %s\n", cfger.GetTarget())
	return nil
}

func (c *initCommander) resolveConfig(ctx context.Context) (*config.Config, error) {
	switch {
	case c.preset == "":
		return config.NewDefaultConfig(), nil
	case strings.HasPrefix(c.preset, "http://"), strings.HasPrefix(c.preset, "https://"):
		return fetchRemoteConfig(ctx, c.preset)
	default:
		return config.PresetConfig(c.preset)
	}
}

func fetchRemoteConfig(ctx context.Context, url string) (*config.Config, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching remote config: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching remote config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching remote config: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading remote config: %w", err)
	}

	return config.ParseConfigTOML(data)
}
