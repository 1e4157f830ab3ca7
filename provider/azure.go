package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/azure"
	"github.com/openai/openai-go/v3/option"

	"thinkchain/config"
	"thinkchain/model"
	"thinkchain/ollama"
)

// AzureProvider implements the Provider interface against an Azure OpenAI
// deployment. Requests are addressed by deployment name, which plays the role
// of the model everywhere else.
type AzureProvider struct {
	client     openai.Client
	deployment string
	endpoint   string
	apiVersion string
}

// NewAzureProvider creates a new Azure OpenAI provider instance.
//
// Parameters:
//   - endpoint: resource endpoint, e.g. "https://my-resource.openai.azure.com" (required)
//   - apiVersion: Azure OpenAI API version (default: "2024-06-01")
//   - apiKey: resource API key (required)
//   - deployment: deployment name (required)
func NewAzureProvider(endpoint, apiVersion, apiKey, deployment string) (*AzureProvider, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("Azure OpenAI endpoint is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Azure OpenAI API key is required")
	}
	if deployment == "" {
		return nil, fmt.Errorf("Azure OpenAI deployment name is required")
	}
	if apiVersion == "" {
		apiVersion = config.DefaultAPIVersion
	}
	endpoint = strings.TrimSuffix(endpoint, "/")

	client := openai.NewClient(
		azure.WithEndpoint(endpoint, apiVersion),
		azure.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	)

	return &AzureProvider{
		client:     client,
		deployment: deployment,
		endpoint:   endpoint,
		apiVersion: apiVersion,
	}, nil
}

// Generate implements Provider.Generate.
func (p *AzureProvider) Generate(ctx context.Context, prompt string, opts model.GenerateOptions) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, chatParams(p.deployment, prompt, opts))
	if err != nil {
		return "", fmt.Errorf("Azure OpenAI completion error: %w", err)
	}
	return completionText(resp), nil
}

// ListModels implements Provider.ListModels.
// Deployments are managed in the Azure portal, so only the configured one is reported.
func (p *AzureProvider) ListModels(ctx context.Context) ([]ollama.ModelInfo, error) {
	return []ollama.ModelInfo{
		{
			Name:         p.deployment,
			InternalName: p.deployment,
			Provider:     "azure",
		},
	}, nil
}

// GetModel implements Provider.GetModel and returns the deployment name.
func (p *AzureProvider) GetModel() string {
	return p.deployment
}

// SetModel implements Provider.SetModel by switching deployments.
func (p *AzureProvider) SetModel(model string) {
	p.deployment = model
}

// Ping implements Provider.Ping with a one-token completion, since the
// deployment API has no health endpoint.
func (p *AzureProvider) Ping(ctx context.Context) error {
	_, err := p.client.Chat.Completions.New(ctx, chatParams(p.deployment, "ping", model.GenerateOptions{MaxTokens: 1}))
	if err != nil {
		return fmt.Errorf("Azure OpenAI ping failed: %w", err)
	}
	return nil
}
