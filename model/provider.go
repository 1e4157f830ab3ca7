package model

import (
	"context"

	"thinkchain/ollama"
)

// Provider abstracts LLM provider implementations (Azure OpenAI, OpenAI,
// OpenRouter, Anthropic, Ollama, LangChain) behind a single text generation call.
//
// This interface is defined in the model package (not provider package) to avoid
// import cycles: provider implementations import model, and the reasoning core
// depends on the interface without importing the provider package.
type Provider interface {
	// Generate sends a single prompt and returns the complete model output.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ListModels returns available models for this provider.
	ListModels(ctx context.Context) ([]ollama.ModelInfo, error)

	// GetModel returns the currently selected model (or Azure deployment) name.
	GetModel() string

	// SetModel changes the active model.
	SetModel(model string)

	// Ping checks if the provider is reachable.
	Ping(ctx context.Context) error
}

// GenerateOptions carries per-call generation parameters.
type GenerateOptions struct {
	// MaxTokens bounds the length of the generated output. Zero leaves the
	// provider default in place.
	MaxTokens int

	// Temperature is the sampling temperature.
	Temperature float64

	// JSONMode asks the provider to constrain output to a JSON document when
	// the backend supports it.
	JSONMode bool
}
