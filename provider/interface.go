// Package provider implements model.Provider for the supported LLM backends.
//
// thinkchain talks to Azure OpenAI deployments, OpenAI, OpenRouter, Anthropic,
// local Ollama servers and any OpenAI-compatible endpoint reachable through
// LangChain. The reasoning core only sees model.Provider, so every backend
// exposes the same single-prompt Generate call.
//
// # Generation Contract
//
// Generate receives the whole serialized conversation as one prompt and
// returns the complete model output. Providers:
//   - send the prompt as a single user turn
//   - honor GenerateOptions.MaxTokens and Temperature
//   - request JSON output when GenerateOptions.JSONMode is set and the backend
//     supports it (Anthropic has no JSON mode and relies on the prompt)
//   - never retry on their own; retries belong to reasoning.Gateway
//
// # Usage
//
//	cfg := provider.Config{
//	    Type:       provider.ProviderTypeAzure,
//	    BaseURL:    "https://my-resource.openai.azure.com",
//	    APIVersion: "2024-06-01",
//	    Model:      "gpt-4o",
//	    APIKey:     os.Getenv("API_KEY"),
//	}
//	p, err := provider.NewProvider(cfg)
//	if err != nil {
//	    // handle error
//	}
//	out, err := p.Generate(ctx, prompt, model.GenerateOptions{MaxTokens: 300, JSONMode: true})
package provider

// Note: The Provider interface is defined in the model package
// (model/provider.go) to avoid import cycles. This package implements model.Provider.

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeAzure      ProviderType = "azure"
	ProviderTypeOllama     ProviderType = "ollama"
	ProviderTypeOpenRouter ProviderType = "openrouter"
	ProviderTypeOpenAI     ProviderType = "openai"
	ProviderTypeAnthropic  ProviderType = "anthropic"
	ProviderTypeLangChain  ProviderType = "langchain"
)

// Config holds provider-specific configuration.
type Config struct {
	Type       ProviderType
	BaseURL    string // Azure: the resource endpoint
	APIVersion string // Azure and LangChain (azure API type) only
	Model      string // Azure: the deployment name
	APIKey     string // Unused for Ollama
	APIType    string // LangChain only: "openai" or "azure"
}
