package provider

import (
	"fmt"

	"thinkchain/config"
	"thinkchain/model"
)

// NewProvider creates a provider based on configuration.
//
// This is the centralized factory function for creating any provider type.
// It dispatches to the appropriate provider constructor based on the
// Config.Type field.
//
// Returns an error if:
//   - The provider type is unknown
//   - The provider-specific constructor fails (e.g., missing API key)
//
// Example (Azure OpenAI):
//
//	cfg := provider.Config{
//	    Type:       provider.ProviderTypeAzure,
//	    BaseURL:    "https://my-resource.openai.azure.com",
//	    APIVersion: "2024-06-01",
//	    Model:      "gpt-4o",
//	    APIKey:     "...",
//	}
//	p, err := provider.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewProvider(cfg Config) (model.Provider, error) {
	switch cfg.Type {
	case ProviderTypeAzure:
		return NewAzureProvider(cfg.BaseURL, cfg.APIVersion, cfg.APIKey, cfg.Model)
	case ProviderTypeOllama:
		return NewOllamaProvider(cfg.BaseURL, cfg.Model)
	case ProviderTypeOpenRouter:
		return NewOpenRouterProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeOpenAI:
		return NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeAnthropic:
		return NewAnthropicProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeLangChain:
		return NewLangChainProvider(cfg.APIType, cfg.BaseURL, cfg.APIVersion, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// MapProviderIDToType converts config provider ID to factory ProviderType.
//
// For unknown IDs, returns the ID cast as ProviderType (factory will error).
func MapProviderIDToType(id string) ProviderType {
	switch id {
	case "azure":
		return ProviderTypeAzure
	case "ollama":
		return ProviderTypeOllama
	case "openrouter":
		return ProviderTypeOpenRouter
	case "openai":
		return ProviderTypeOpenAI
	case "anthropic":
		return ProviderTypeAnthropic
	case "langchain":
		return ProviderTypeLangChain
	default:
		// Fallback: pass ID as-is (factory will return error)
		return ProviderType(id)
	}
}

// ConfigFor builds the factory configuration of the selected provider.
func ConfigFor(cfg *config.Config) Config {
	pc := Config{
		Type:   MapProviderIDToType(cfg.Provider),
		Model:  cfg.ActiveModel(),
		APIKey: cfg.APIKey(cfg.Provider),
	}

	switch pc.Type {
	case ProviderTypeAzure:
		pc.BaseURL = cfg.Azure.Endpoint
		pc.APIVersion = cfg.Azure.APIVersion
	case ProviderTypeOpenAI:
		pc.BaseURL = cfg.OpenAI.BaseURL
	case ProviderTypeOpenRouter:
		pc.BaseURL = cfg.OpenRouter.BaseURL
	case ProviderTypeAnthropic:
		pc.BaseURL = cfg.Anthropic.BaseURL
	case ProviderTypeOllama:
		pc.BaseURL = cfg.Ollama.Host
	case ProviderTypeLangChain:
		pc.BaseURL = cfg.LangChain.BaseURL
		pc.APIVersion = cfg.LangChain.APIVersion
		pc.APIType = cfg.LangChain.APIType
	}

	return pc
}

// FromConfig creates the provider selected in the loaded configuration.
func FromConfig(cfg *config.Config) (model.Provider, error) {
	pc := ConfigFor(cfg)
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Provider] Creating %s provider (model: %s, base URL: %s)", pc.Type, pc.Model, pc.BaseURL)
	}

	p, err := NewProvider(pc)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s provider: %w", pc.Type, err)
	}
	return p, nil
}
