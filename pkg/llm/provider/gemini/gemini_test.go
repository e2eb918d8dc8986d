package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/chatproxy/pkg/llm"
	"github.com/papercomputeco/chatproxy/pkg/llm/provider/gemini"
)

type capturedPart struct {
	Text string `json:"text"`
}

type capturedContent struct {
	Role  string         `json:"role"`
	Parts []capturedPart `json:"parts"`
}

type capturedRequest struct {
	Path              string
	APIKey            string
	Contents          []capturedContent `json:"contents"`
	SystemInstruction *capturedContent  `json:"systemInstruction"`
	Tools             []map[string]any  `json:"tools"`
}

// fakeGeminiAPI stands in for the generateContent endpoint.
type fakeGeminiAPI struct {
	mu       sync.Mutex
	requests []capturedRequest
	status   int
	reply    string
}

func (f *fakeGeminiAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var captured capturedRequest
	_ = json.NewDecoder(r.Body).Decode(&captured)
	captured.Path = r.URL.Path
	captured.APIKey = r.Header.Get("x-goog-api-key")

	f.mu.Lock()
	f.requests = append(f.requests, captured)
	status, reply := f.status, f.reply
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != http.StatusOK {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":{"code":500,"message":"upstream exploded","status":"INTERNAL"}}`))
		return
	}

	resp := map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": reply}},
				},
				"finishReason": "STOP",
			},
		},
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (f *fakeGeminiAPI) last() capturedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

var _ = Describe("Gemini Provider", func() {
	var (
		api *fakeGeminiAPI
		srv *httptest.Server
		p   *gemini.Provider
		ctx context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		api = &fakeGeminiAPI{status: http.StatusOK, reply: "tudo certo"}
		srv = httptest.NewServer(api)

		var err error
		p, err = gemini.New(ctx, gemini.Config{
			APIKey:     "test-key",
			BaseURL:    srv.URL + "/",
			SearchTool: true,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		srv.Close()
	})

	Describe("New", func() {
		It("fails without an API key", func() {
			_, err := gemini.New(ctx, gemini.Config{})
			Expect(err).To(MatchError(ContainSubstring("API key is required")))
		})

		It("defaults the model", func() {
			Expect(p.Model()).To(Equal(gemini.DefaultModel))
		})
	})

	Describe("Name", func() {
		It("returns 'gemini'", func() {
			Expect(p.Name()).To(Equal("gemini"))
			Expect(p.DisplayName()).To(Equal("Gemini"))
			Expect(p.APIKeyEnv()).To(Equal("GEMINI_API_KEY"))
		})
	})

	Describe("Chat", func() {
		It("sends the history as prior turns followed by the user message", func() {
			result, err := p.Chat(ctx, &llm.ChatRequest{
				UserMessage: "how are you?",
				History: llm.NewHistory(
					llm.Message{Role: "user", Content: "hi"},
					llm.Message{Role: "assistant", Content: "hello"},
				),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Text).To(Equal("tudo certo"))
			Expect(result.Model).To(Equal(gemini.DefaultModel))
			Expect(result.Sent).To(HaveLen(3))
			Expect(result.Sent[1]).To(MatchJSON(`{"role":"model","parts":[{"text":"hello"}]}`))

			req := api.last()
			Expect(req.Path).To(HaveSuffix("models/gemini-1.5-pro-latest:generateContent"))
			Expect(req.APIKey).To(Equal("test-key"))
			Expect(req.Contents).To(HaveLen(3))
			Expect(req.Contents[0]).To(Equal(capturedContent{Role: "user", Parts: []capturedPart{{Text: "hi"}}}))
			Expect(req.Contents[1]).To(Equal(capturedContent{Role: "model", Parts: []capturedPart{{Text: "hello"}}}))
			Expect(req.Contents[2]).To(Equal(capturedContent{Role: "user", Parts: []capturedPart{{Text: "how are you?"}}}))
		})

		It("sends model turns with empty text instead of dropping them", func() {
			history := llm.History{
				json.RawMessage(`{"role":"user","content":"hi"}`),
				json.RawMessage(`{"role":"assistant"}`),
			}
			result, err := p.Chat(ctx, &llm.ChatRequest{UserMessage: "how are you?", History: history})
			Expect(err).NotTo(HaveOccurred())

			sent := api.last().Contents
			Expect(sent).To(HaveLen(3))
			roles := []string{}
			for _, c := range sent {
				roles = append(roles, c.Role)
			}
			Expect(roles).To(Equal([]string{"user", "model", "user"}))
			Expect(sent[0].Parts[0].Text).To(Equal("hi"))
			Expect(sent[2].Parts[0].Text).To(Equal("how are you?"))
			Expect(result.Sent).To(HaveLen(len(sent)))
		})

		It("treats malformed history entries as empty model turns", func() {
			history := llm.History{
				json.RawMessage(`{"role":"user","content":[{"type":"text","text":"x"}]}`),
				json.RawMessage(`"stray"`),
			}
			_, err := p.Chat(ctx, &llm.ChatRequest{UserMessage: "oi", History: history})
			Expect(err).NotTo(HaveOccurred())

			sent := api.last().Contents
			Expect(sent).To(HaveLen(3))
			Expect(sent[0].Role).To(Equal("user"))
			Expect(sent[1].Role).To(Equal("model"))
		})

		It("attaches the system instruction and search tool", func() {
			_, err := p.Chat(ctx, &llm.ChatRequest{UserMessage: "oi"})
			Expect(err).NotTo(HaveOccurred())

			req := api.last()
			Expect(req.SystemInstruction).NotTo(BeNil())
			Expect(req.SystemInstruction.Parts[0].Text).To(ContainSubstring("Diga na lata"))
			Expect(req.Tools).To(HaveLen(1))
			Expect(req.Tools[0]).To(HaveKey("googleSearch"))
		})

		It("ignores the request model", func() {
			result, err := p.Chat(ctx, &llm.ChatRequest{UserMessage: "oi", Model: "other-model"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Model).To(Equal(gemini.DefaultModel))
			Expect(api.last().Path).To(ContainSubstring(gemini.DefaultModel))
		})

		It("sends structurally identical calls for identical requests", func() {
			req := &llm.ChatRequest{
				UserMessage: "again",
				History:     llm.NewHistory(llm.Message{Role: "user", Content: "a"}, llm.Message{Role: "assistant", Content: "b"}),
			}
			_, err := p.Chat(ctx, req)
			Expect(err).NotTo(HaveOccurred())
			first := api.last()

			_, err = p.Chat(ctx, req)
			Expect(err).NotTo(HaveOccurred())
			Expect(api.last().Contents).To(Equal(first.Contents))
		})

		It("wraps upstream errors", func() {
			api.status = http.StatusInternalServerError

			_, err := p.Chat(ctx, &llm.ChatRequest{UserMessage: "oi"})
			Expect(err).To(HaveOccurred())
			Expect(strings.HasPrefix(err.Error(), "gemini chat:")).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("upstream exploded"))
		})

		It("returns ErrEmptyResponse for an empty reply", func() {
			api.reply = ""

			_, err := p.Chat(ctx, &llm.ChatRequest{UserMessage: "oi"})
			Expect(errors.Is(err, llm.ErrEmptyResponse)).To(BeTrue())
		})

		It("honors context cancellation", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			_, err := p.Chat(cctx, &llm.ChatRequest{UserMessage: "oi"})
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		})
	})
})
