package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type AzureConfig struct {
	Endpoint   string `toml:"endpoint"`
	APIVersion string `toml:"api_version"`
	Deployment string `toml:"deployment"`
}

type EndpointConfig struct {
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
}

type OllamaConfig struct {
	Host  string `toml:"host"`
	Model string `toml:"model"`
}

type LangChainConfig struct {
	APIType    string `toml:"api_type"`
	BaseURL    string `toml:"base_url"`
	APIVersion string `toml:"api_version"`
	Model      string `toml:"model"`
}

type GenerationConfig struct {
	Temperature float64 `toml:"temperature"`
}

type ReasoningConfig struct {
	MaxSteps    int    `toml:"max_steps"`
	StepTokens  int    `toml:"step_tokens"`
	FinalTokens int    `toml:"final_tokens"`
	MaxAttempts int    `toml:"max_attempts"`
	RetryDelay  string `toml:"retry_delay"`
}

// FileConfig mirrors config.toml.
type FileConfig struct {
	Provider      string           `toml:"provider"`
	DataDirectory string           `toml:"data_directory"`
	Azure         AzureConfig      `toml:"azure"`
	OpenAI        EndpointConfig   `toml:"openai"`
	OpenRouter    EndpointConfig   `toml:"openrouter"`
	Anthropic     EndpointConfig   `toml:"anthropic"`
	Ollama        OllamaConfig     `toml:"ollama"`
	LangChain     LangChainConfig  `toml:"langchain"`
	Generation    GenerationConfig `toml:"generation"`
	Reasoning     ReasoningConfig  `toml:"reasoning"`
}

// Config is the resolved runtime configuration: the file contents with
// environment overrides applied and API keys attached.
type Config struct {
	FileConfig

	RetryDelay time.Duration
	apiKeys    map[string]string
}

var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// APIKey returns the API key for a provider, or "" if none is set.
func (c *Config) APIKey(providerID string) string {
	return c.apiKeys[providerID]
}

// SetAPIKey attaches an API key for a provider. Keys are never persisted.
func (c *Config) SetAPIKey(providerID, key string) {
	if c.apiKeys == nil {
		c.apiKeys = make(map[string]string)
	}
	c.apiKeys[providerID] = key
}

// ActiveModel returns the model (or Azure deployment) of the selected provider.
func (c *Config) ActiveModel() string {
	switch c.Provider {
	case "azure":
		return c.Azure.Deployment
	case "openai":
		return c.OpenAI.Model
	case "openrouter":
		return c.OpenRouter.Model
	case "anthropic":
		return c.Anthropic.Model
	case "ollama":
		return c.Ollama.Model
	case "langchain":
		return c.LangChain.Model
	default:
		return ""
	}
}

// SetActiveModel changes the model of the selected provider.
func (c *Config) SetActiveModel(model string) {
	switch c.Provider {
	case "azure":
		c.Azure.Deployment = model
	case "openai":
		c.OpenAI.Model = model
	case "openrouter":
		c.OpenRouter.Model = model
	case "anthropic":
		c.Anthropic.Model = model
	case "ollama":
		c.Ollama.Model = model
	case "langchain":
		c.LangChain.Model = model
	}
}

// applyEnvOverrides layers environment variables over the file values.
// BASE_URL, API_VERSION, DEPLOYMENT_NAME and API_KEY address an Azure
// deployment; API_KEY is also the fallback key for every other provider.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("BASE_URL"); v != "" {
		c.Azure.Endpoint = v
	}
	if v := os.Getenv("API_VERSION"); v != "" {
		c.Azure.APIVersion = v
	}
	if v := os.Getenv("DEPLOYMENT_NAME"); v != "" {
		c.Azure.Deployment = v
	}
	if v := os.Getenv("THINKCHAIN_PROVIDER"); v != "" {
		c.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("THINKCHAIN_MODEL"); v != "" {
		c.SetActiveModel(v)
	}
	if v := os.Getenv("THINKCHAIN_DATA_DIR"); v != "" {
		c.DataDirectory = v
	}

	fallback := os.Getenv("API_KEY")
	keyVars := map[string]string{
		"azure":      "AZURE_OPENAI_API_KEY",
		"openai":     "OPENAI_API_KEY",
		"openrouter": "OPENROUTER_API_KEY",
		"anthropic":  "ANTHROPIC_API_KEY",
		"langchain":  "OPENAI_API_KEY",
	}
	for providerID, envVar := range keyVars {
		key := fallback
		if v := os.Getenv(envVar); v != "" && (providerID != "azure" || fallback == "") {
			key = v
		}
		if key != "" {
			c.SetAPIKey(providerID, key)
		}
	}
}

// Validate checks that the selected provider has everything it needs.
func (c *Config) Validate() error {
	switch c.Provider {
	case "azure":
		if c.Azure.Endpoint == "" {
			return fmt.Errorf("azure endpoint is not set (BASE_URL or [azure] endpoint)")
		}
		if c.Azure.Deployment == "" {
			return fmt.Errorf("azure deployment is not set (DEPLOYMENT_NAME or [azure] deployment)")
		}
		if c.APIKey("azure") == "" {
			return fmt.Errorf("azure API key is not set (API_KEY)")
		}
	case "openai", "openrouter", "anthropic", "langchain":
		if c.APIKey(c.Provider) == "" {
			return fmt.Errorf("%s API key is not set", c.Provider)
		}
	case "ollama":
	default:
		return fmt.Errorf("unknown provider: %s", c.Provider)
	}

	if c.Generation.Temperature < 0 || c.Generation.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %v", c.Generation.Temperature)
	}
	if c.Reasoning.MaxSteps < 0 {
		return fmt.Errorf("max_steps must not be negative, got %d", c.Reasoning.MaxSteps)
	}
	if c.Reasoning.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1, got %d", c.Reasoning.MaxAttempts)
	}
	if c.Reasoning.StepTokens < 1 || c.Reasoning.FinalTokens < 1 {
		return fmt.Errorf("token budgets must be positive")
	}
	return nil
}

func CheckDebug() bool {
	debug := os.Getenv("THINKCHAIN_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	logPath := filepath.Join(dataDir, "debug.log")

	// Create debug log with secure permissions (0600 - prompts may contain sensitive data)
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (THINKCHAIN_DEBUG=%s) ===", os.Getenv("THINKCHAIN_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

// Load reads config.toml (creating it from the template on first run),
// applies environment overrides and prepares the data directory.
func Load() (*Config, error) {
	path := GetConfigFilePath()
	if !FileExists(path) {
		if err := CreateDefaultConfig(path); err != nil {
			return nil, fmt.Errorf("failed to create config: %w", err)
		}
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	return cfg, nil
}

// LoadFromFile resolves a Config from a specific file without touching the
// data directory. A missing file yields the defaults.
func LoadFromFile(path string) (*Config, error) {
	fileCfg, err := LoadFileConfig(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{FileConfig: *fileCfg}
	cfg.applyEnvOverrides()

	if cfg.Reasoning.RetryDelay == "" {
		cfg.Reasoning.RetryDelay = DefaultRetryDelay
	}
	delay, err := time.ParseDuration(cfg.Reasoning.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to parse retry_delay %q: %w", cfg.Reasoning.RetryDelay, err)
	}
	if delay < 0 {
		return nil, fmt.Errorf("retry_delay must not be negative, got %s", delay)
	}
	cfg.RetryDelay = delay

	return cfg, nil
}
