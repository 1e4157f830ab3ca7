package reasoning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"thinkchain/config"
	"thinkchain/model"
)

// Purpose tells the Gateway which phase a call belongs to. It selects the
// token budget and the next action of synthetic error steps.
type Purpose int

const (
	PurposeIntermediate Purpose = iota
	PurposeFinal
)

func (p Purpose) String() string {
	switch p {
	case PurposeIntermediate:
		return "intermediate"
	case PurposeFinal:
		return "final"
	default:
		return fmt.Sprintf("Purpose(%d)", int(p))
	}
}

// RetryPolicy is a fixed-delay bounded retry: MaxAttempts calls in total,
// Delay between consecutive attempts, no jitter and no growth.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: config.DefaultMaxAttempts,
		Delay:       time.Second,
	}
}

// GatewayConfig holds the generation parameters of a Gateway.
type GatewayConfig struct {
	Retry       RetryPolicy
	StepTokens  int // Budget for intermediate calls.
	FinalTokens int // Budget for the closing call.
	Temperature float64
	JSONMode    bool
}

func DefaultGatewayConfig() GatewayConfig {
	return GatewayConfig{
		Retry:       DefaultRetryPolicy(),
		StepTokens:  config.DefaultStepTokens,
		FinalTokens: config.DefaultFinalTokens,
		Temperature: config.DefaultTemperature,
		JSONMode:    true,
	}
}

// GatewayConfigFrom derives gateway settings from the loaded configuration.
func GatewayConfigFrom(cfg *config.Config) GatewayConfig {
	return GatewayConfig{
		Retry: RetryPolicy{
			MaxAttempts: cfg.Reasoning.MaxAttempts,
			Delay:       cfg.RetryDelay,
		},
		StepTokens:  cfg.Reasoning.StepTokens,
		FinalTokens: cfg.Reasoning.FinalTokens,
		Temperature: cfg.Generation.Temperature,
		JSONMode:    true,
	}
}

// Gateway is the single entry point to the model. It is safe for concurrent
// use by independent sessions: it holds no per-call state.
type Gateway struct {
	provider model.Provider
	cfg      GatewayConfig
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewGateway wraps a provider. Zero token budgets and a non-positive attempt
// count fall back to the defaults.
func NewGateway(p model.Provider, cfg GatewayConfig) *Gateway {
	defaults := DefaultGatewayConfig()
	if cfg.Retry.MaxAttempts < 1 {
		cfg.Retry.MaxAttempts = defaults.Retry.MaxAttempts
	}
	if cfg.Retry.Delay < 0 {
		cfg.Retry.Delay = 0
	}
	if cfg.StepTokens <= 0 {
		cfg.StepTokens = defaults.StepTokens
	}
	if cfg.FinalTokens <= 0 {
		cfg.FinalTokens = defaults.FinalTokens
	}

	return &Gateway{
		provider: p,
		cfg:      cfg,
		sleep:    sleepContext,
	}
}

// Provider returns the wrapped provider.
func (g *Gateway) Provider() model.Provider {
	return g.provider
}

// Config returns the effective gateway settings.
func (g *Gateway) Config() GatewayConfig {
	return g.cfg
}

func (g *Gateway) budget(purpose Purpose) int {
	if purpose == PurposeFinal {
		return g.cfg.FinalTokens
	}
	return g.cfg.StepTokens
}

// Call serializes the conversation into one prompt, generates, and parses the
// output into records. Provider failures and unparseable output are retried
// per the retry policy; once attempts run out the result is a *TransportError.
// Output that parses but is not shaped like steps returns its
// *ProtocolViolation at once.
func (g *Gateway) Call(ctx context.Context, conversation []model.Message, purpose Purpose) ([]Record, error) {
	prompt := model.FormatPrompt(conversation)
	opts := model.GenerateOptions{
		MaxTokens:   g.budget(purpose),
		Temperature: g.cfg.Temperature,
		JSONMode:    g.cfg.JSONMode,
	}

	var lastErr error
	attempts := 0
	for attempts < g.cfg.Retry.MaxAttempts {
		attempts++

		records, err := g.attempt(ctx, prompt, opts)
		if err == nil {
			return records, nil
		}
		if errors.Is(err, ErrProtocolViolation) {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Gateway] %s call returned malformed steps: %v", purpose, err)
			}
			return nil, err
		}
		lastErr = err

		if config.DebugLog != nil {
			config.DebugLog.Printf("[Gateway] %s call attempt %d/%d failed: %v",
				purpose, attempts, g.cfg.Retry.MaxAttempts, err)
		}

		if attempts == g.cfg.Retry.MaxAttempts {
			break
		}
		if err := g.sleep(ctx, g.cfg.Retry.Delay); err != nil {
			lastErr = errors.Join(lastErr, err)
			break
		}
	}

	return nil, &TransportError{Attempts: attempts, Err: lastErr}
}

func (g *Gateway) attempt(ctx context.Context, prompt string, opts model.GenerateOptions) ([]Record, error) {
	text, err := g.provider.Generate(ctx, prompt, opts)
	if err != nil {
		return nil, err
	}
	return ParseRecords(text)
}

// Steps performs a call and decodes it into a batch. It never fails: an
// exhausted transport fault or a protocol violation becomes an ErrorBatch
// shaped by purpose.
func (g *Gateway) Steps(ctx context.Context, conversation []model.Message, purpose Purpose) Batch {
	records, err := g.Call(ctx, conversation, purpose)
	if err != nil {
		return ErrorBatch(purpose, err)
	}

	batch, err := Decode(records)
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Gateway] %s call returned malformed steps: %v", purpose, err)
		}
		return ErrorBatch(purpose, err)
	}
	return batch
}

// ErrorBatch builds the single-step batch that stands in for a failed call.
// Intermediate failures carry final_answer so the thinking loop ends; final
// failures carry no next action and are terminal by definition.
func ErrorBatch(purpose Purpose, err error) Batch {
	what := "step"
	next := ActionFinalAnswer
	if purpose == PurposeFinal {
		what = "final answer"
		next = ""
	}

	var content string
	var te *TransportError
	if errors.As(err, &te) {
		content = fmt.Sprintf("Failed to generate %s after %d attempts. Error: %v", what, te.Attempts, te.Err)
	} else {
		content = fmt.Sprintf("Failed to generate %s. Error: %v", what, err)
	}

	return Batch{{Title: ErrorTitle, Content: content, NextAction: next}}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
