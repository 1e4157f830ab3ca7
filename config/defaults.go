package config

// Defaults carried over from the reasoning-chain prototype: a low sampling
// temperature, 300 tokens per reasoning call, 200 for the closing answer, and
// three attempts one second apart.
const (
	DefaultProvider    = "azure"
	DefaultTemperature = 0.2
	DefaultStepTokens  = 300
	DefaultFinalTokens = 200
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = "1s"
	DefaultMaxSteps    = 25
	DefaultAPIVersion  = "2024-06-01"
)

func DefaultFileConfig() *FileConfig {
	return &FileConfig{
		Provider:      DefaultProvider,
		DataDirectory: "~/.local/share/thinkchain",
		Azure: AzureConfig{
			APIVersion: DefaultAPIVersion,
		},
		OpenAI: EndpointConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
		},
		OpenRouter: EndpointConfig{
			BaseURL: "https://openrouter.ai/api/v1",
			Model:   "meta-llama/llama-3.2-90b-instruct",
		},
		Anthropic: EndpointConfig{
			BaseURL: "https://api.anthropic.com",
			Model:   "claude-sonnet-4-5-20250929",
		},
		Ollama: OllamaConfig{
			Host:  "http://localhost:11434",
			Model: "llama3.1:latest",
		},
		LangChain: LangChainConfig{
			APIType:    "openai",
			BaseURL:    "https://api.openai.com/v1",
			APIVersion: DefaultAPIVersion,
			Model:      "gpt-4o-mini",
		},
		Generation: GenerationConfig{
			Temperature: DefaultTemperature,
		},
		Reasoning: ReasoningConfig{
			MaxSteps:    DefaultMaxSteps,
			StepTokens:  DefaultStepTokens,
			FinalTokens: DefaultFinalTokens,
			MaxAttempts: DefaultMaxAttempts,
			RetryDelay:  DefaultRetryDelay,
		},
	}
}

func GenerateConfigTemplate() string {
	return `# thinkchain configuration
# Location: ~/.config/thinkchain/config.toml (override with THINKCHAIN_CONFIG)
# This file uses TOML format: https://toml.io
#
# API keys are read from the environment only:
#   API_KEY (Azure, or fallback for every provider), OPENAI_API_KEY,
#   OPENROUTER_API_KEY, ANTHROPIC_API_KEY

# Provider used for reasoning: azure, openai, openrouter, anthropic, ollama, langchain
provider = "azure"

# Directory for the debug log (THINKCHAIN_DEBUG=1)
data_directory = "~/.local/share/thinkchain"

[azure]
# Overridden by BASE_URL, API_VERSION and DEPLOYMENT_NAME
endpoint = ""
api_version = "2024-06-01"
deployment = ""

[openai]
base_url = "https://api.openai.com/v1"
model = "gpt-4o-mini"

[openrouter]
base_url = "https://openrouter.ai/api/v1"
model = "meta-llama/llama-3.2-90b-instruct"

[anthropic]
base_url = "https://api.anthropic.com"
model = "claude-sonnet-4-5-20250929"

[ollama]
host = "http://localhost:11434"
model = "llama3.1:latest"

[langchain]
# "openai" or "azure"
api_type = "openai"
base_url = "https://api.openai.com/v1"
api_version = "2024-06-01"
model = "gpt-4o-mini"

[generation]
temperature = 0.2

[reasoning]
# Maximum reasoning steps before the answer is forced (0 = no limit)
max_steps = 25
# Token budget for each reasoning call and for the closing answer
step_tokens = 300
final_tokens = 200
# Attempts per model call and the fixed wait between them
max_attempts = 3
retry_delay = "1s"
`
}
