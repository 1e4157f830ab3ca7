package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	llmopenai "github.com/tmc/langchaingo/llms/openai"

	"thinkchain/config"
	"thinkchain/model"
	"thinkchain/ollama"
)

// LangChainProvider implements the Provider interface through langchaingo's
// OpenAI client. It reaches OpenAI-compatible servers (LM Studio, LocalAI,
// vLLM) and Azure deployments with the "azure" API type.
type LangChainProvider struct {
	llm     llms.Model
	model   string
	apiType string
	baseURL string
	apiKey  string
	version string
}

// NewLangChainProvider creates a new LangChain provider instance.
//
// Parameters:
//   - apiType: "openai" (default) or "azure"
//   - baseURL: API base URL (required for "azure")
//   - apiVersion: Azure API version (azure only, default "2024-06-01")
//   - apiKey: API key (optional for local OpenAI-compatible servers)
//   - model: model or deployment name (required)
func NewLangChainProvider(apiType, baseURL, apiVersion, apiKey, model string) (*LangChainProvider, error) {
	if model == "" {
		return nil, fmt.Errorf("model name is required for LangChain provider")
	}
	apiType = strings.ToLower(apiType)
	if apiType == "" {
		apiType = "openai"
	}
	if apiType != "openai" && apiType != "azure" {
		return nil, fmt.Errorf("unsupported LangChain API type: %s", apiType)
	}
	if apiType == "azure" && baseURL == "" {
		return nil, fmt.Errorf("base URL is required for the azure API type")
	}
	if apiType == "azure" && apiVersion == "" {
		apiVersion = config.DefaultAPIVersion
	}

	p := &LangChainProvider{
		model:   model,
		apiType: apiType,
		baseURL: baseURL,
		apiKey:  apiKey,
		version: apiVersion,
	}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *LangChainProvider) connect() error {
	opts := []llmopenai.Option{
		llmopenai.WithModel(p.model),
	}
	if p.baseURL != "" {
		opts = append(opts, llmopenai.WithBaseURL(p.baseURL))
	}
	// langchaingo requires a token even for local servers that ignore it
	token := p.apiKey
	if token == "" {
		token = "unused"
	}
	opts = append(opts, llmopenai.WithToken(token))
	if p.apiType == "azure" {
		opts = append(opts,
			llmopenai.WithAPIType(llmopenai.APITypeAzure),
			llmopenai.WithAPIVersion(p.version),
		)
	}

	llm, err := llmopenai.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create LangChain client: %w", err)
	}
	p.llm = llm
	return nil
}

// Generate implements Provider.Generate.
func (p *LangChainProvider) Generate(ctx context.Context, prompt string, opts model.GenerateOptions) (string, error) {
	callOpts := []llms.CallOption{
		llms.WithTemperature(opts.Temperature),
	}
	if opts.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(opts.MaxTokens))
	}
	if opts.JSONMode {
		callOpts = append(callOpts, llms.WithJSONMode())
	}

	out, err := llms.GenerateFromSinglePrompt(ctx, p.llm, prompt, callOpts...)
	if err != nil {
		return "", fmt.Errorf("LangChain completion error: %w", err)
	}
	return out, nil
}

// ListModels implements Provider.ListModels.
// langchaingo has no model listing, so only the configured model is reported.
func (p *LangChainProvider) ListModels(ctx context.Context) ([]ollama.ModelInfo, error) {
	return []ollama.ModelInfo{
		{
			Name:         p.model,
			InternalName: p.model,
			Provider:     "langchain",
		},
	}, nil
}

// GetModel implements Provider.GetModel.
func (p *LangChainProvider) GetModel() string {
	return p.model
}

// SetModel implements Provider.SetModel. The langchaingo client binds its
// model at construction, so it is rebuilt.
func (p *LangChainProvider) SetModel(model string) {
	p.model = model
	if err := p.connect(); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[LangChain] Failed to switch model to %s: %v", model, err)
	}
}

// Ping implements Provider.Ping with a one-token completion.
func (p *LangChainProvider) Ping(ctx context.Context) error {
	_, err := llms.GenerateFromSinglePrompt(ctx, p.llm, "ping", llms.WithMaxTokens(1))
	if err != nil {
		return fmt.Errorf("LangChain ping failed: %w", err)
	}
	return nil
}
