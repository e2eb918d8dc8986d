package testutils

import (
	"context"
	"sync"

	"github.com/papercomputeco/chatproxy/pkg/llm"
)

// MockProvider is a test provider that records requests and returns a
// configurable reply.
type MockProvider struct {
	ProviderName string
	Display      string
	KeyEnv       string

	// Reply is returned as the result text.
	Reply string

	// Model is returned as the result model.
	Model string

	// Err causes Chat to return this error.
	Err error

	// Block causes Chat to wait for context cancellation.
	Block bool

	// Panic causes Chat to panic.
	Panic bool

	mu       sync.Mutex
	requests []*llm.ChatRequest
}

// NewMockProvider creates a new mock provider with a canned reply.
func NewMockProvider(name, displayName, keyEnv string) *MockProvider {
	return &MockProvider{
		ProviderName: name,
		Display:      displayName,
		KeyEnv:       keyEnv,
		Reply:        "resposta",
		Model:        "mock-model",
	}
}

func (m *MockProvider) Name() string        { return m.ProviderName }
func (m *MockProvider) DisplayName() string { return m.Display }
func (m *MockProvider) APIKeyEnv() string   { return m.KeyEnv }

func (m *MockProvider) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResult, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	reply, model, err, block, panics := m.Reply, m.Model, m.Err, m.Block, m.Panic
	m.mu.Unlock()

	if panics {
		panic("mock provider panic")
	}
	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	sent := append(llm.History{}, req.History...)
	sent = append(sent, llm.NewTextMessage(llm.RoleUser.String(), req.UserMessage).Raw())
	return &llm.ChatResult{Text: reply, Model: model, Sent: sent}, nil
}

// Calls returns the number of Chat invocations.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// LastRequest returns the most recent request, or nil.
func (m *MockProvider) LastRequest() *llm.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}
