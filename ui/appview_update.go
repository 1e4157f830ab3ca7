package ui

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"thinkchain/config"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		// Reserve space for title (1 line), separator (1 line), input (1 line), and status bar (1 line)
		a.viewport.Width = a.width
		a.viewport.Height = max(a.height-4, 1)
		a.input.Width = max(a.width-4, 10)

		a.ready = true
		a.updateViewportContent(false)

		// Bodies were wrapped for the old width
		return a, a.rerenderAll()

	case submitMsg:
		if a.running || strings.TrimSpace(msg.query) == "" {
			return a, nil
		}
		return a.startSession(strings.TrimSpace(msg.query))

	case snapshotMsg:
		return a.handleSnapshot(msg)

	case markdownRenderedMsg:
		if msg.gen != a.gen || msg.index >= len(a.rendered) {
			return a, nil
		}
		a.rendered[msg.index] = msg.rendered
		a.updateViewportContent(a.running)
		return a, nil

	case copiedMsg:
		if msg.err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[UI] Clipboard write failed: %v", msg.err)
			}
			a.showAcknowledgeModal = true
			a.acknowledgeModalTitle = "Copy Failed"
			a.acknowledgeModalMsg = msg.err.Error()
			return a, nil
		}
		a.statusMsg = "Copied final answer"
		return a, nil

	case spinner.TickMsg:
		if !a.running {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.Quit) {
		if a.cancel != nil {
			a.cancel()
		}
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] Quit requested (running=%v)", a.running)
		}
		return a, tea.Quit
	}

	if a.showAcknowledgeModal {
		if msg.String() == "enter" || msg.String() == "esc" {
			a.showAcknowledgeModal = false
		}
		return a, nil
	}

	if key.Matches(msg, a.keys.Help) {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		if msg.String() == "esc" {
			a.showHelp = false
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Cancel):
		if a.running && !a.cancelling {
			a.cancelling = true
			a.cancel()
			if config.DebugLog != nil {
				config.DebugLog.Printf("[UI] Cancelling session %s", a.sessionID)
			}
		}
		return a, nil

	case key.Matches(msg, a.keys.Copy):
		answer, ok := a.finalAnswer()
		if !ok {
			return a, nil
		}
		return a, func() tea.Msg {
			return copiedMsg{err: clipboard.WriteAll(answer)}
		}

	case key.Matches(msg, a.keys.Submit):
		if a.running {
			return a, nil
		}
		query := a.input.Value()
		return a, func() tea.Msg { return submitMsg{query: query} }
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	if !a.running {
		a.input, cmd = a.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

// handleSnapshot replaces the displayed state with the snapshot and pulls
// the next one unless the run is over.
func (a AppView) handleSnapshot(msg snapshotMsg) (tea.Model, tea.Cmd) {
	if msg.gen != a.gen || !a.running {
		return a, nil
	}
	if !msg.ok {
		a = a.finishRun()
		a.updateViewportContent(true)
		return a, nil
	}

	a.snapshot = msg.snapshot
	cmds := a.renderNewSteps()

	if a.snapshot.Done || a.cancelling {
		a = a.finishRun()
	} else {
		cmds = append(cmds, a.pullSnapshot())
	}

	a.updateViewportContent(true)
	return a, tea.Batch(cmds...)
}

// renderNewSteps queues markdown rendering for entries not seen before.
// Earlier entries never change between snapshots.
func (a *AppView) renderNewSteps() []tea.Cmd {
	var cmds []tea.Cmd
	for i := len(a.rendered); i < len(a.snapshot.Steps); i++ {
		a.rendered = append(a.rendered, "")
		cmds = append(cmds, renderMarkdownAsync(a.gen, i, a.snapshot.Steps[i].Content, a.contentWidth()))
	}
	return cmds
}

func (a *AppView) rerenderAll() tea.Cmd {
	var cmds []tea.Cmd
	for i, step := range a.snapshot.Steps {
		if i < len(a.rendered) {
			cmds = append(cmds, renderMarkdownAsync(a.gen, i, step.Content, a.contentWidth()))
		}
	}
	return tea.Batch(cmds...)
}
