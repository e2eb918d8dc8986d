package provider_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/chatproxy/pkg/llm/provider"
)

var _ = Describe("New", func() {
	ctx := context.Background()

	It("lists the supported providers", func() {
		Expect(provider.SupportedProviders()).To(ConsistOf("gemini", "groq"))
	})

	It("builds a gemini provider", func() {
		p, err := provider.New(ctx, provider.Options{Type: provider.Gemini, APIKey: "k"})
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Name()).To(Equal("gemini"))
		Expect(p.DisplayName()).To(Equal("Gemini"))
	})

	It("builds a groq provider", func() {
		p, err := provider.New(ctx, provider.Options{Type: provider.Groq, APIKey: "k"})
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Name()).To(Equal("groq"))
		Expect(p.APIKeyEnv()).To(Equal("GROQ_API_KEY"))
	})

	It("rejects unknown provider types", func() {
		_, err := provider.New(ctx, provider.Options{Type: "claude", APIKey: "k"})
		Expect(err).To(MatchError(ContainSubstring("unknown provider type")))
	})

	DescribeTable("fails fast without an API key",
		func(providerType, env string) {
			p, err := provider.New(ctx, provider.Options{Type: providerType})
			Expect(p).To(BeNil())
			Expect(errors.Is(err, provider.ErrMissingAPIKey)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring(env))
		},
		Entry("gemini", provider.Gemini, "GEMINI_API_KEY"),
		Entry("groq", provider.Groq, "GROQ_API_KEY"),
	)
})

var _ = Describe("DisplayName", func() {
	It("maps provider types to display names", func() {
		Expect(provider.DisplayName("gemini")).To(Equal("Gemini"))
		Expect(provider.DisplayName("groq")).To(Equal("Groq"))
		Expect(provider.DisplayName("other")).To(Equal("other"))
	})

	It("maps provider types to API key variables", func() {
		Expect(provider.APIKeyEnv("gemini")).To(Equal("GEMINI_API_KEY"))
		Expect(provider.APIKeyEnv("other")).To(BeEmpty())
	})
})
