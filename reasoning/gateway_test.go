package reasoning

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thinkchain/config"
	"thinkchain/model"
	"thinkchain/provider/testutil"
)

var errBoom = errors.New("boom")

// newTestGateway returns a gateway with the default settings whose retry
// sleeps are recorded instead of waited out.
func newTestGateway(p model.Provider) (*Gateway, *[]time.Duration) {
	gw := NewGateway(p, DefaultGatewayConfig())
	var sleeps []time.Duration
	gw.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}
	return gw, &sleeps
}

func TestNewGatewayDefaults(t *testing.T) {
	gw := NewGateway(testutil.NewMockProvider("m"), GatewayConfig{Retry: RetryPolicy{Delay: -time.Second}})
	cfg := gw.Config()

	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, time.Duration(0), cfg.Retry.Delay)
	assert.Equal(t, 300, cfg.StepTokens)
	assert.Equal(t, 200, cfg.FinalTokens)
}

func TestGatewayConfigFrom(t *testing.T) {
	cfg := &config.Config{FileConfig: *config.DefaultFileConfig(), RetryDelay: 250 * time.Millisecond}
	cfg.Reasoning.MaxAttempts = 5
	cfg.Reasoning.StepTokens = 512

	gc := GatewayConfigFrom(cfg)
	assert.Equal(t, 5, gc.Retry.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, gc.Retry.Delay)
	assert.Equal(t, 512, gc.StepTokens)
	assert.Equal(t, config.DefaultFinalTokens, gc.FinalTokens)
	assert.InDelta(t, 0.2, gc.Temperature, 1e-9)
	assert.True(t, gc.JSONMode)
}

func TestGatewayCallSendsFormattedPrompt(t *testing.T) {
	p := testutil.NewScriptedProvider(testutil.Texts(testutil.FinalStepJSON("Done", "ok"))...)
	gw, _ := newTestGateway(p)

	conv := []model.Message{
		model.NewMessage(model.RoleSystem, "rules"),
		model.NewMessage(model.RoleUser, "question"),
	}
	_, err := gw.Call(context.Background(), conv, PurposeIntermediate)
	require.NoError(t, err)

	calls := p.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "system: rules\nuser: question", calls[0].Prompt)
}

func TestGatewayBudgetsByPurpose(t *testing.T) {
	p := testutil.NewScriptedProvider(testutil.Texts(
		testutil.FinalStepJSON("a", "b"),
		testutil.FinalStepJSON("c", "d"),
	)...)
	gw, _ := newTestGateway(p)
	conv := testutil.TestMessages()

	gw.Steps(context.Background(), conv, PurposeIntermediate)
	gw.Steps(context.Background(), conv, PurposeFinal)

	calls := p.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, 300, calls[0].Opts.MaxTokens)
	assert.Equal(t, 200, calls[1].Opts.MaxTokens)
	for _, c := range calls {
		assert.InDelta(t, 0.2, c.Opts.Temperature, 1e-9)
		assert.True(t, c.Opts.JSONMode)
	}
}

func TestGatewayRetriesTransportFaults(t *testing.T) {
	p := testutil.NewScriptedProvider(
		testutil.Reply{Err: errBoom},
		testutil.Reply{Err: errBoom},
		testutil.Reply{Text: testutil.ContinueStepJSON("Third time", "lucky")},
	)
	gw, sleeps := newTestGateway(p)

	records, err := gw.Call(context.Background(), testutil.TestMessages(), PurposeIntermediate)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Third time", records[0]["title"])
	assert.Equal(t, 3, p.CallCount())
	assert.Equal(t, []time.Duration{time.Second, time.Second}, *sleeps)
}

func TestGatewayRetriesUnparseableOutput(t *testing.T) {
	p := testutil.NewScriptedProvider(testutil.Texts(
		"I think the answer is nine.",
		`[{"title": "cut off`,
		testutil.FinalStepJSON("Answer", "9"),
	)...)
	gw, _ := newTestGateway(p)

	batch := gw.Steps(context.Background(), testutil.TestMessages(), PurposeIntermediate)
	require.Len(t, batch, 1)
	assert.Equal(t, "Answer", batch[0].Title)
	assert.Equal(t, 3, p.CallCount())
}

func TestGatewayExhaustsRetries(t *testing.T) {
	p := testutil.NewScriptedProvider(testutil.Failures(3, errBoom)...)
	gw, sleeps := newTestGateway(p)

	records, err := gw.Call(context.Background(), testutil.TestMessages(), PurposeIntermediate)
	require.Error(t, err)
	assert.Nil(t, records)
	assert.Equal(t, 3, p.CallCount())
	assert.Len(t, *sleeps, 2)

	assert.True(t, errors.Is(err, ErrTransport))
	assert.True(t, errors.Is(err, errBoom))

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 3, te.Attempts)
}

func TestGatewayStepsErrorBatch(t *testing.T) {
	tests := []struct {
		name    string
		purpose Purpose
		content string
		next    NextAction
	}{
		{
			name:    "intermediate",
			purpose: PurposeIntermediate,
			content: "Failed to generate step after 3 attempts. Error: boom",
			next:    ActionFinalAnswer,
		},
		{
			name:    "final",
			purpose: PurposeFinal,
			content: "Failed to generate final answer after 3 attempts. Error: boom",
			next:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testutil.NewScriptedProvider(testutil.Failures(3, errBoom)...)
			gw, _ := newTestGateway(p)

			batch := gw.Steps(context.Background(), testutil.TestMessages(), tt.purpose)
			require.Len(t, batch, 1)
			assert.Equal(t, ErrorTitle, batch[0].Title)
			assert.Equal(t, tt.content, batch[0].Content)
			assert.Equal(t, tt.next, batch[0].NextAction)
			assert.True(t, batch[0].Terminal())
		})
	}
}

func TestGatewayDoesNotRetryProtocolViolations(t *testing.T) {
	p := testutil.NewScriptedProvider(testutil.Texts(
		testutil.StepJSON("Next", "keep going", "continue_now"),
		testutil.FinalStepJSON("unused", "unused"),
	)...)
	gw, sleeps := newTestGateway(p)

	batch := gw.Steps(context.Background(), testutil.TestMessages(), PurposeIntermediate)
	assert.Equal(t, 1, p.CallCount())
	assert.Empty(t, *sleeps)

	require.Len(t, batch, 1)
	assert.Equal(t, ErrorTitle, batch[0].Title)
	assert.Equal(t, ActionFinalAnswer, batch[0].NextAction)
	assert.True(t, strings.HasPrefix(batch[0].Content, "Failed to generate step. Error: protocol violation"))
	assert.Contains(t, batch[0].Content, "continue_now")
}

func TestGatewayDoesNotRetryNonObjectRecords(t *testing.T) {
	p := testutil.NewScriptedProvider(testutil.Texts(
		`["first", "second"]`,
		testutil.FinalStepJSON("unused", "unused"),
	)...)
	gw, sleeps := newTestGateway(p)

	batch := gw.Steps(context.Background(), testutil.TestMessages(), PurposeIntermediate)
	assert.Equal(t, 1, p.CallCount())
	assert.Empty(t, *sleeps)

	require.Len(t, batch, 1)
	assert.Equal(t, ErrorTitle, batch[0].Title)
	assert.Equal(t, ActionFinalAnswer, batch[0].NextAction)
	assert.Equal(t, "Failed to generate step. Error: protocol violation in step 1: is not an object", batch[0].Content)
}

func TestGatewayAcceptsCodeFencesInContent(t *testing.T) {
	content := "Use this:\n```python\nprint(len('reasoning'))\n```\nIt prints 9."
	p := testutil.NewScriptedProvider(testutil.Texts(
		testutil.BatchJSON(testutil.FinalStepJSON("Write code", content)),
	)...)
	gw, sleeps := newTestGateway(p)

	batch := gw.Steps(context.Background(), testutil.TestMessages(), PurposeIntermediate)
	assert.Equal(t, 1, p.CallCount())
	assert.Empty(t, *sleeps)
	assert.Equal(t, Batch{{Title: "Write code", Content: content, NextAction: ActionFinalAnswer}}, batch)
}

func TestGatewayStopsRetryingWhenCancelled(t *testing.T) {
	p := testutil.NewScriptedProvider(testutil.Failures(3, errBoom)...)
	cfg := DefaultGatewayConfig()
	cfg.Retry.Delay = time.Hour
	gw := NewGateway(p, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gw.Call(ctx, testutil.TestMessages(), PurposeIntermediate)
	require.Error(t, err)
	assert.Equal(t, 1, p.CallCount())
	assert.True(t, errors.Is(err, context.Canceled))
	assert.True(t, errors.Is(err, errBoom))

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 1, te.Attempts)
}

func TestPurposeString(t *testing.T) {
	assert.Equal(t, "intermediate", PurposeIntermediate.String())
	assert.Equal(t, "final", PurposeFinal.String())
	assert.Equal(t, "Purpose(7)", Purpose(7).String())
}
