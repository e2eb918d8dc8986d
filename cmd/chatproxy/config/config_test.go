package configcmder_test

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	configcmder "github.com/papercomputeco/chatproxy/cmd/chatproxy/config"
	"github.com/papercomputeco/chatproxy/pkg/config"
)

var _ = Describe("NewConfigCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := configcmder.NewConfigCmd()
		Expect(cmd.Use).To(Equal("config"))
	})

	It("has set, get, and list subcommands", func() {
		cmd := configcmder.NewConfigCmd()
		cmds := cmd.Commands()
		subcommands := make([]string, 0, len(cmds))
		for _, sub := range cmds {
			subcommands = append(subcommands, sub.Name())
		}
		Expect(subcommands).To(ContainElements("set", "get", "list"))
	})
})

var _ = Describe("Config command execution", func() {
	var (
		tmpDir  string
		origDir string
		out     *bytes.Buffer
	)

	newCmd := func(args ...string) *cobra.Command {
		cmd := configcmder.NewConfigCmd()
		cmd.SetOut(out)
		cmd.SetErr(out)
		cmd.SetArgs(args)
		return cmd
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "chatproxy-config-test-*")
		Expect(err).NotTo(HaveOccurred())

		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		// A local .chatproxy dir takes precedence over ~/.chatproxy
		err = os.MkdirAll(filepath.Join(tmpDir, ".chatproxy"), 0o755)
		Expect(err).NotTo(HaveOccurred())

		err = os.Chdir(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		out = &bytes.Buffer{}
	})

	AfterEach(func() {
		err := os.Chdir(origDir)
		Expect(err).NotTo(HaveOccurred())
		os.RemoveAll(tmpDir)
	})

	loadConfig := func() *config.Config {
		cfger, err := config.NewConfiger("")
		Expect(err).NotTo(HaveOccurred())
		cfg, err := cfger.LoadConfig()
		Expect(err).NotTo(HaveOccurred())
		return cfg
	}

	Describe("set subcommand", func() {
		It("sets a config value successfully", func() {
			Expect(newCmd("set", "groq.default_model", "llama3-70b-8192").Execute()).To(Succeed())

			_, err := os.Stat(filepath.Join(tmpDir, ".chatproxy", "config.toml"))
			Expect(err).NotTo(HaveOccurred())
			Expect(loadConfig().Groq.DefaultModel).To(Equal("llama3-70b-8192"))
		})

		It("persists an explicit false for the search tool", func() {
			Expect(newCmd("set", "gemini.search_tool", "false").Execute()).To(Succeed())
			Expect(loadConfig().Gemini.SearchToolEnabled()).To(BeFalse())
		})

		It("rejects unknown keys", func() {
			Expect(newCmd("set", "invalid_key", "value").Execute()).NotTo(Succeed())
		})

		It("requires exactly two arguments", func() {
			Expect(newCmd("set", "server.listen").Execute()).NotTo(Succeed())
		})

		It("rejects zero arguments", func() {
			Expect(newCmd("set").Execute()).NotTo(Succeed())
		})

		DescribeTable("rejects invalid values",
			func(key, value string) {
				Expect(newCmd("set", key, value).Execute()).NotTo(Succeed())
			},
			Entry("timeout", "server.timeout", "soon"),
			Entry("negative timeout", "server.timeout", "-5s"),
			Entry("search tool", "gemini.search_tool", "maybe"),
			Entry("events provider", "events.provider", "rabbitmq"),
			Entry("queue size", "events.queue_size", "many"),
		)
	})

	Describe("get subcommand", func() {
		It("gets a previously set value", func() {
			Expect(newCmd("set", "server.listen", ":9000").Execute()).To(Succeed())

			out.Reset()
			Expect(newCmd("get", "server.listen").Execute()).To(Succeed())
			Expect(out.String()).To(ContainSubstring(":9000"))
		})

		It("reports the default for an unset key", func() {
			Expect(newCmd("get", "server.timeout").Execute()).To(Succeed())
			Expect(out.String()).To(ContainSubstring("60s"))
		})

		It("marks keys without a default as not set", func() {
			Expect(newCmd("get", "events.brokers").Execute()).To(Succeed())
			Expect(out.String()).To(ContainSubstring("<not set>"))
		})

		It("rejects unknown keys", func() {
			Expect(newCmd("get", "invalid_key").Execute()).NotTo(Succeed())
		})

		It("requires exactly one argument", func() {
			Expect(newCmd("get").Execute()).NotTo(Succeed())
		})
	})

	Describe("list subcommand", func() {
		It("lists every key", func() {
			Expect(newCmd("list").Execute()).To(Succeed())
			for _, key := range config.ValidConfigKeys() {
				Expect(out.String()).To(ContainSubstring(key))
			}
		})

		It("shows values that were set", func() {
			Expect(newCmd("set", "events.topic", "bot.turns").Execute()).To(Succeed())

			out.Reset()
			Expect(newCmd("list").Execute()).To(Succeed())
			Expect(out.String()).To(ContainSubstring(`"bot.turns"`))
		})

		It("rejects any arguments", func() {
			Expect(newCmd("list", "extra").Execute()).NotTo(Succeed())
		})
	})
})
