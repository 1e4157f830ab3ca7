package testutil

import (
	"context"
	"errors"
	"sync"

	"thinkchain/model"
	"thinkchain/ollama"
)

// MockProvider implements model.Provider for testing
type MockProvider struct {
	// Configurable responses
	GenerateFunc   func(ctx context.Context, prompt string, opts model.GenerateOptions) (string, error)
	ListModelsFunc func(ctx context.Context) ([]ollama.ModelInfo, error)
	PingFunc       func(ctx context.Context) error

	// State
	currentModel string
}

// NewMockProvider creates a mock provider with default implementations
func NewMockProvider(modelName string) *MockProvider {
	mock := &MockProvider{
		currentModel: modelName,
	}
	mock.GenerateFunc = mock.defaultGenerate
	mock.ListModelsFunc = mock.defaultListModels
	mock.PingFunc = mock.defaultPing
	return mock
}

func (m *MockProvider) defaultGenerate(ctx context.Context, prompt string, opts model.GenerateOptions) (string, error) {
	// Default: a single terminal step
	return FinalStepJSON("Mock Answer", "Mock response"), nil
}

func (m *MockProvider) defaultListModels(ctx context.Context) ([]ollama.ModelInfo, error) {
	return []ollama.ModelInfo{
		{Name: "mock-model-1", Size: 1000},
		{Name: "mock-model-2", Size: 2000},
	}, nil
}

func (m *MockProvider) defaultPing(ctx context.Context) error {
	return nil
}

func (m *MockProvider) Generate(ctx context.Context, prompt string, opts model.GenerateOptions) (string, error) {
	return m.GenerateFunc(ctx, prompt, opts)
}

func (m *MockProvider) ListModels(ctx context.Context) ([]ollama.ModelInfo, error) {
	return m.ListModelsFunc(ctx)
}

func (m *MockProvider) GetModel() string {
	return m.currentModel
}

func (m *MockProvider) SetModel(model string) {
	m.currentModel = model
}

func (m *MockProvider) Ping(ctx context.Context) error {
	return m.PingFunc(ctx)
}

// ErrScriptExhausted is returned by ScriptedProvider once every reply is used.
var ErrScriptExhausted = errors.New("scripted provider has no replies left")

// Reply is one scripted outcome of a Generate call.
type Reply struct {
	Text string
	Err  error
}

// Call records the arguments of one Generate call.
type Call struct {
	Prompt string
	Opts   model.GenerateOptions
}

// ScriptedProvider answers Generate calls from an ordered script and records
// every call it receives. It is safe for concurrent use.
type ScriptedProvider struct {
	*MockProvider

	// OnGenerate, if set, runs before each reply is returned. The index is
	// zero-based over all calls.
	OnGenerate func(index int, prompt string)

	mu      sync.Mutex
	replies []Reply
	calls   []Call
}

// NewScriptedProvider creates a provider that returns replies in order.
func NewScriptedProvider(replies ...Reply) *ScriptedProvider {
	s := &ScriptedProvider{
		MockProvider: NewMockProvider("scripted-model"),
		replies:      replies,
	}
	s.GenerateFunc = s.next
	return s
}

// Texts is shorthand for a script of successful replies.
func Texts(texts ...string) []Reply {
	replies := make([]Reply, len(texts))
	for i, t := range texts {
		replies[i] = Reply{Text: t}
	}
	return replies
}

// Failures is shorthand for n failing replies.
func Failures(n int, err error) []Reply {
	replies := make([]Reply, n)
	for i := range replies {
		replies[i] = Reply{Err: err}
	}
	return replies
}

func (s *ScriptedProvider) next(ctx context.Context, prompt string, opts model.GenerateOptions) (string, error) {
	s.mu.Lock()
	index := len(s.calls)
	s.calls = append(s.calls, Call{Prompt: prompt, Opts: opts})
	var reply Reply
	ok := index < len(s.replies)
	if ok {
		reply = s.replies[index]
	}
	hook := s.OnGenerate
	s.mu.Unlock()

	if hook != nil {
		hook(index, prompt)
	}
	if !ok {
		return "", ErrScriptExhausted
	}
	return reply.Text, reply.Err
}

// Calls returns every call received so far.
func (s *ScriptedProvider) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallCount returns the number of Generate calls received.
func (s *ScriptedProvider) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}
