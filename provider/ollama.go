package provider

import (
	"context"
	"fmt"

	"thinkchain/model"
	"thinkchain/ollama"
)

// OllamaProvider wraps the existing ollama.Client to implement the Provider interface.
//
// This provider converts the prompt into Ollama api.Message values and maps
// GenerateOptions onto Ollama request options (temperature, num_predict and
// the "json" format).
type OllamaProvider struct {
	client *ollama.Client
}

// NewOllamaProvider creates a new Ollama provider instance.
//
// Parameters:
//   - baseURL: The Ollama server URL (e.g., "http://localhost:11434").
//     If empty, defaults to "http://localhost:11434".
//   - model: The model name to use (e.g., "llama3.1:latest").
//     If empty, defaults to "llama3.1:latest".
//
// Returns an error if the baseURL is invalid or the Ollama client cannot be created.
//
// Example:
//
//	provider, err := NewOllamaProvider("http://localhost:11434", "llama3.1")
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewOllamaProvider(baseURL, model string) (*OllamaProvider, error) {
	client, err := ollama.NewClient(baseURL, model)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}

	return &OllamaProvider{
		client: client,
	}, nil
}

// Generate implements Provider.Generate.
//
// The prompt is sent as a single user message in a non-streaming chat
// request. JSONMode maps to Ollama's "json" format, MaxTokens to num_predict.
//
// Example:
//
//	out, err := provider.Generate(ctx, "user: How many r's in strawberry?",
//	    model.GenerateOptions{MaxTokens: 300, Temperature: 0.2, JSONMode: true})
func (p *OllamaProvider) Generate(ctx context.Context, prompt string, opts model.GenerateOptions) (string, error) {
	messages := ConvertToOllamaMessages(PromptMessages(prompt))

	out, err := p.client.Chat(ctx, messages, ollama.ChatOptions{
		Temperature: opts.Temperature,
		NumPredict:  opts.MaxTokens,
		JSON:        opts.JSONMode,
	})
	if err != nil {
		return "", fmt.Errorf("Ollama chat error: %w", err)
	}
	return out, nil
}

// ListModels implements Provider.ListModels (direct passthrough).
//
// Returns a list of all models available on the Ollama server.
//
// Example:
//
//	models, err := provider.ListModels(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, model := range models {
//	    fmt.Printf("%s (%d bytes)\n", model.Name, model.Size)
//	}
func (p *OllamaProvider) ListModels(ctx context.Context) ([]ollama.ModelInfo, error) {
	return p.client.ListModels(ctx)
}

// GetModel implements Provider.GetModel (direct passthrough).
func (p *OllamaProvider) GetModel() string {
	return p.client.GetModel()
}

// SetModel implements Provider.SetModel (direct passthrough).
//
// Changes the active model for subsequent calls.
//
// Example:
//
//	provider.SetModel("llama3.2:latest")
//	// Future Generate calls will use llama3.2
func (p *OllamaProvider) SetModel(model string) {
	p.client.SetModel(model)
}

// Ping implements Provider.Ping (direct passthrough).
//
// Checks if the Ollama server is reachable by making a lightweight API call.
// Returns an error if the server is not reachable or times out.
func (p *OllamaProvider) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}
