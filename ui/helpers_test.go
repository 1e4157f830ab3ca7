package ui

import (
	"errors"
	"regexp"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"thinkchain/model"
	"thinkchain/provider/testutil"
	"thinkchain/reasoning"
)

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plain(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

func newGateway(p model.Provider) *reasoning.Gateway {
	cfg := reasoning.DefaultGatewayConfig()
	cfg.Retry.Delay = 0
	return reasoning.NewGateway(p, cfg)
}

// steppingClock advances by step on every reading, so each call of a
// session measures exactly step.
func steppingClock(step time.Duration) func() time.Time {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

// strawberryProvider answers with two steps, then the final answer.
func strawberryProvider() *testutil.ScriptedProvider {
	return testutil.NewScriptedProvider(testutil.Texts(
		testutil.ContinueStepJSON("Spell it out", "s-t-r-a-w-b-e-r-r-y"),
		testutil.FinalStepJSON("Count", "There are 3 R's"),
		testutil.FinalStepJSON("Answer", "The word strawberry has 3 R's."),
	)...)
}

// drive feeds msg to a and then runs the resulting commands synchronously,
// feeding back the messages the view reacts to. Timer-driven messages
// (spinner, cursor blink) are dropped.
func drive(a AppView, msg tea.Msg) AppView {
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		m, cmd := a.Update(next)
		a = m.(AppView)
		queue = append(queue, collect(cmd)...)
	}
	return a
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, collect(c)...)
		}
		return out
	case snapshotMsg, markdownRenderedMsg, submitMsg, copiedMsg:
		return []tea.Msg{msg}
	default:
		return nil
	}
}

var errClipboard = errors.New("no clipboard utility available")
