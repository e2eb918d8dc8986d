package credentials_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/chatproxy/pkg/credentials"
)

var _ = Describe("Store", func() {
	var (
		tmpDir string
		store  *credentials.Store
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()

		var err error
		store, err = credentials.Open(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	writeFile := func(body string) {
		Expect(os.WriteFile(filepath.Join(tmpDir, "credentials.toml"), []byte(body), 0o600)).To(Succeed())
	}

	Describe("Open", func() {
		It("targets credentials.toml in the override directory", func() {
			Expect(store.Path()).To(Equal(filepath.Join(tmpDir, "credentials.toml")))
		})

		It("does not create the file", func() {
			_, err := os.Stat(store.Path())
			Expect(os.IsNotExist(err)).To(BeTrue())
		})
	})

	Describe("Set", func() {
		It("writes a versioned file readable only by the owner", func() {
			Expect(store.Set("groq", "gsk-new")).To(Succeed())

			info, err := os.Stat(store.Path())
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))

			data, err := os.ReadFile(store.Path())
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring("version = 1"))
			Expect(string(data)).To(ContainSubstring(`groq = "gsk-new"`))
		})

		It("normalizes the provider name and trims the key", func() {
			Expect(store.Set("  GEMINI ", "  AIza-test\n")).To(Succeed())

			key, err := store.Get("gemini")
			Expect(err).NotTo(HaveOccurred())
			Expect(key).To(Equal("AIza-test"))
		})

		It("overwrites an existing key and keeps the others", func() {
			Expect(store.Set("groq", "gsk-old")).To(Succeed())
			Expect(store.Set("gemini", "AIza-1")).To(Succeed())
			Expect(store.Set("groq", "gsk-new")).To(Succeed())

			Expect(store.Get("groq")).To(Equal("gsk-new"))
			Expect(store.Get("gemini")).To(Equal("AIza-1"))
		})

		DescribeTable("rejects invalid keys",
			func(key string) {
				Expect(store.Set("groq", key)).To(MatchError(credentials.ErrInvalidKey))
			},
			Entry("empty", ""),
			Entry("only whitespace", "  \t"),
			Entry("inner space", "gsk one"),
			Entry("inner newline", "gsk\none"),
		)

		It("rejects providers chatproxy does not serve", func() {
			Expect(store.Set("openai", "sk-test")).To(MatchError(credentials.ErrUnsupportedProvider))
			_, err := os.Stat(store.Path())
			Expect(os.IsNotExist(err)).To(BeTrue())
		})
	})

	Describe("Get", func() {
		It("returns empty when nothing is stored", func() {
			Expect(store.Get("groq")).To(BeEmpty())
		})

		It("reads a hand written file", func() {
			writeFile("version = 1\n\n[keys]\ngroq = \"gsk-hand\"\n")
			Expect(store.Get("groq")).To(Equal("gsk-hand"))
		})

		It("reports malformed TOML with the file path", func() {
			writeFile("not valid [[[")
			_, err := store.Get("groq")
			Expect(err).To(MatchError(ContainSubstring(store.Path())))
		})

		It("rejects unsupported providers", func() {
			_, err := store.Get("anthropic")
			Expect(err).To(MatchError(credentials.ErrUnsupportedProvider))
		})
	})

	Describe("Remove", func() {
		It("removes an existing key", func() {
			Expect(store.Set("gemini", "AIza-test")).To(Succeed())

			removed, err := store.Remove("gemini")
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(BeTrue())
			Expect(store.Get("gemini")).To(BeEmpty())
		})

		It("reports false when nothing was stored", func() {
			removed, err := store.Remove("groq")
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(BeFalse())
		})
	})

	Describe("Entries", func() {
		It("lists stored keys in provider order and skips foreign entries", func() {
			writeFile("version = 1\n\n[keys]\nopenai = \"sk-x\"\ngroq = \"gsk-1\"\ngemini = \"AIza-2\"\n")

			entries, err := store.Entries()
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(Equal([]credentials.Entry{
				{Provider: "gemini", EnvVar: "GEMINI_API_KEY", Key: "AIza-2"},
				{Provider: "groq", EnvVar: "GROQ_API_KEY", Key: "gsk-1"},
			}))
		})

		It("keeps foreign entries when saving", func() {
			writeFile("version = 1\n\n[keys]\nopenai = \"sk-x\"\n")
			Expect(store.Set("groq", "gsk-1")).To(Succeed())

			data, err := os.ReadFile(store.Path())
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring(`openai = "sk-x"`))
		})
	})

	Describe("Resolve", func() {
		env := func(values map[string]string) func(string) string {
			return func(k string) string { return values[k] }
		}

		It("prefers the environment variable", func() {
			Expect(store.Set("groq", "gsk-stored")).To(Succeed())

			key, source, err := store.Resolve("groq", env(map[string]string{"GROQ_API_KEY": "gsk-env"}))
			Expect(err).NotTo(HaveOccurred())
			Expect(key).To(Equal("gsk-env"))
			Expect(source).To(Equal(credentials.SourceEnv))
		})

		It("falls back to the stored key", func() {
			Expect(store.Set("gemini", "AIza-stored")).To(Succeed())

			key, source, err := store.Resolve("gemini", env(map[string]string{"GEMINI_API_KEY": "  "}))
			Expect(err).NotTo(HaveOccurred())
			Expect(key).To(Equal("AIza-stored"))
			Expect(source).To(Equal(credentials.SourceFile))
		})

		It("returns empty when neither is set", func() {
			key, source, err := store.Resolve("gemini", env(nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(key).To(BeEmpty())
			Expect(source).To(BeEmpty())
		})
	})
})

var _ = Describe("Entry", func() {
	It("masks all but the last four characters", func() {
		Expect(credentials.Entry{Key: "gsk-abcdef1234"}.Masked()).To(Equal("****1234"))
		Expect(credentials.Entry{Key: "abc"}.Masked()).To(Equal("****"))
	})
})

var _ = Describe("Normalize", func() {
	It("accepts gemini and groq in any case", func() {
		Expect(credentials.Normalize("Gemini")).To(Equal("gemini"))
		Expect(credentials.Normalize(" groq ")).To(Equal("groq"))
	})

	It("rejects other providers", func() {
		_, err := credentials.Normalize("openai")
		Expect(err).To(MatchError(credentials.ErrUnsupportedProvider))
		Expect(err.Error()).To(ContainSubstring("gemini, groq"))
	})
})

var _ = Describe("EnvVar", func() {
	It("maps providers to their API key variables", func() {
		Expect(credentials.EnvVar("gemini")).To(Equal("GEMINI_API_KEY"))
		Expect(credentials.EnvVar("groq")).To(Equal("GROQ_API_KEY"))
		Expect(credentials.EnvVar("unknown")).To(BeEmpty())
	})
})
