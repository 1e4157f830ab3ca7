package provider

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thinkchain/model"
)

const stepReply = `[{"title":"Count","content":"9 letters","next_action":"final_answer"}]`

var reasoningOpts = model.GenerateOptions{MaxTokens: 300, Temperature: 0.2, JSONMode: true}

func firstMessage(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	msgs, ok := body["messages"].([]any)
	require.True(t, ok, "messages = %v", body["messages"])
	require.Len(t, msgs, 1, "expected a single message")
	msg, ok := msgs[0].(map[string]any)
	require.True(t, ok, "unexpected message shape: %v", msgs[0])
	return msg
}

func TestOpenAIProviderGenerate(t *testing.T) {
	backend := newFakeBackend(t, stepReply)
	p, err := NewOpenAIProvider(backend.URL, "test-key", "gpt-4o-mini")
	require.NoError(t, err)

	out, err := p.Generate(context.Background(), "user: How many letters?", reasoningOpts)
	require.NoError(t, err)
	assert.Equal(t, stepReply, out)

	reqs := backend.Requests()
	require.Len(t, reqs, 1)
	req := reqs[0]
	assert.True(t, strings.HasSuffix(req.Path, "/chat/completions"), "path = %q", req.Path)
	assert.Equal(t, "Bearer test-key", req.Header.Get("Authorization"))
	assert.Equal(t, "gpt-4o-mini", req.Body["model"])
	assert.Equal(t, float64(300), req.Body["max_tokens"])
	assert.Equal(t, 0.2, req.Body["temperature"])
	format, _ := req.Body["response_format"].(map[string]any)
	assert.Equal(t, "json_object", format["type"])

	msg := firstMessage(t, req.Body)
	assert.Equal(t, "user", msg["role"])
	assert.Equal(t, "user: How many letters?", msg["content"])
}

func TestOpenAIProviderGenerateWithoutOptions(t *testing.T) {
	backend := newFakeBackend(t, "plain text")
	p, err := NewOpenAIProvider(backend.URL, "test-key", "")
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), "hi", model.GenerateOptions{})
	require.NoError(t, err)

	body := backend.Requests()[0].Body
	assert.NotContains(t, body, "max_tokens", "max_tokens should be omitted when no budget is set")
	assert.NotContains(t, body, "response_format", "response_format should be omitted without JSON mode")
	assert.Equal(t, "gpt-4o-mini", body["model"])
}

func TestOpenAIProviderDoesNotRetry(t *testing.T) {
	backend := newFakeBackend(t, "")
	backend.failWith(http.StatusInternalServerError)

	p, err := NewOpenAIProvider(backend.URL, "test-key", "gpt-4o-mini")
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), "hi", reasoningOpts)
	require.Error(t, err)
	assert.Len(t, backend.Requests(), 1)
}

func TestOpenAIProviderListModels(t *testing.T) {
	backend := newFakeBackend(t, "")
	p, err := NewOpenAIProvider(backend.URL, "test-key", "gpt-4o-mini")
	require.NoError(t, err)

	models, err := p.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "gpt-4o-mini", models[0].Name)
	assert.Equal(t, "openai", models[0].Provider)

	assert.NoError(t, p.Ping(context.Background()))
}

func TestOpenRouterProviderListModelsStripsPrefix(t *testing.T) {
	backend := newFakeBackend(t, "")
	p, err := NewOpenRouterProvider(backend.URL, "test-key", "")
	require.NoError(t, err)

	models, err := p.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "llama-3.2-90b-instruct", models[1].Name)
	assert.Equal(t, "meta-llama/llama-3.2-90b-instruct", models[1].InternalName)
}

func TestOpenRouterProviderJSONMode(t *testing.T) {
	tests := []struct {
		model      string
		wantFormat bool
	}{
		{"meta-llama/llama-3.2-90b-instruct", true},
		{"openai/gpt-4o", true},
		{"anthropic/claude-3.5-sonnet", false},
		{"perplexity/sonar", false},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			backend := newFakeBackend(t, stepReply)
			p, err := NewOpenRouterProvider(backend.URL, "test-key", tt.model)
			require.NoError(t, err)

			_, err = p.Generate(context.Background(), "hi", reasoningOpts)
			require.NoError(t, err)

			_, hasFormat := backend.Requests()[0].Body["response_format"]
			assert.Equal(t, tt.wantFormat, hasFormat, "response_format present")
		})
	}
}

func TestAzureProviderGenerate(t *testing.T) {
	backend := newFakeBackend(t, stepReply)
	p, err := NewAzureProvider(backend.URL+"/", "2024-06-01", "azure-key", "gpt-4o-deployment")
	require.NoError(t, err)

	out, err := p.Generate(context.Background(), "user: How many letters?", reasoningOpts)
	require.NoError(t, err)
	assert.Equal(t, stepReply, out)

	req := backend.Requests()[0]
	assert.True(t, strings.HasSuffix(req.Path, "/deployments/gpt-4o-deployment/chat/completions"),
		"path = %q, want deployment route", req.Path)
	assert.Equal(t, "2024-06-01", req.Query.Get("api-version"))
	assert.Equal(t, "azure-key", req.Header.Get("Api-Key"))
	assert.Equal(t, float64(300), req.Body["max_tokens"])
}

func TestAzureProviderModels(t *testing.T) {
	p, err := NewAzureProvider("https://example.openai.azure.com", "", "key", "first")
	require.NoError(t, err)

	p.SetModel("second")
	models, err := p.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "second", models[0].Name)
	assert.Equal(t, "azure", models[0].Provider)
}

func TestAnthropicProviderGenerate(t *testing.T) {
	backend := newFakeBackend(t, stepReply)
	p, err := NewAnthropicProvider(backend.URL, "ant-key", "")
	require.NoError(t, err)

	out, err := p.Generate(context.Background(), "user: How many letters?", reasoningOpts)
	require.NoError(t, err)
	assert.Equal(t, stepReply, out)

	req := backend.Requests()[0]
	assert.Equal(t, "ant-key", req.Header.Get("X-Api-Key"))
	assert.Equal(t, float64(300), req.Body["max_tokens"])
	assert.Equal(t, "claude-sonnet-4-5-20250929", req.Body["model"])
	assert.Equal(t, "user", firstMessage(t, req.Body)["role"])
}

func TestOllamaProviderGenerate(t *testing.T) {
	backend := newFakeBackend(t, stepReply)
	p, err := NewOllamaProvider(backend.URL, "llama3.1")
	require.NoError(t, err)

	out, err := p.Generate(context.Background(), "user: How many letters?", reasoningOpts)
	require.NoError(t, err)
	assert.Equal(t, stepReply, out)

	req := backend.Requests()[0]
	assert.Equal(t, "/api/chat", req.Path)
	assert.Equal(t, "json", req.Body["format"])
	assert.Equal(t, false, req.Body["stream"])
	options, _ := req.Body["options"].(map[string]any)
	assert.Equal(t, float64(300), options["num_predict"])

	models, err := p.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "llama3.1:latest", models[0].Name)
	assert.Equal(t, "ollama", models[0].Provider)
}

func TestLangChainProviderGenerate(t *testing.T) {
	backend := newFakeBackend(t, stepReply)
	p, err := NewLangChainProvider("openai", backend.URL, "", "", "local-model")
	require.NoError(t, err)

	out, err := p.Generate(context.Background(), "user: How many letters?", reasoningOpts)
	require.NoError(t, err)
	assert.Equal(t, stepReply, out)

	req := backend.Requests()[0]
	assert.True(t, strings.HasSuffix(req.Path, "/chat/completions"), "path = %q", req.Path)
	assert.Equal(t, "local-model", req.Body["model"])
}

func TestNewLangChainProviderValidation(t *testing.T) {
	tests := []struct {
		name    string
		apiType string
		baseURL string
		model   string
	}{
		{"missing model", "openai", "http://localhost:1234/v1", ""},
		{"unknown api type", "bedrock", "http://localhost:1234/v1", "m"},
		{"azure without endpoint", "azure", "", "m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLangChainProvider(tt.apiType, tt.baseURL, "", "key", tt.model)
			assert.Error(t, err)
		})
	}
}
