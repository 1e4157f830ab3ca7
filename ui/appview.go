package ui

import (
	"context"
	"fmt"
	"iter"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"thinkchain/config"
	"thinkchain/reasoning"
)

// QueryPlaceholder is shown in the empty query input.
const QueryPlaceholder = "e.g., How many 'R's are in the word strawberry?"

// AppViewConfig wires an AppView to a gateway.
type AppViewConfig struct {
	Gateway        *reasoning.Gateway
	ProviderName   string
	ModelName      string
	SessionOptions []reasoning.Option
	// InitialQuery, if set, is submitted as soon as the program starts.
	InitialQuery string
}

// AppView is the interactive reporter: a query input above a live view of
// the reasoning steps of the current session.
type AppView struct {
	gateway      *reasoning.Gateway
	sessionOpts  []reasoning.Option
	providerName string
	modelName    string
	initialQuery string

	// UI Components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	keys     keyMap

	// Window state
	width  int
	height int
	ready  bool

	showHelp bool

	// Acknowledge modal (clipboard failures and similar)
	showAcknowledgeModal  bool
	acknowledgeModalTitle string
	acknowledgeModalMsg   string

	// Current run. gen increments per session so messages from a replaced
	// run can be told apart.
	gen        int
	query      string
	sessionID  string
	next       func() (reasoning.Snapshot, bool)
	stop       func()
	cancel     context.CancelFunc
	running    bool
	cancelling bool
	snapshot   reasoning.Snapshot
	rendered   []string
	statusMsg  string
}

type keyMap struct {
	Submit key.Binding
	Cancel key.Binding
	Copy   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit: key.NewBinding(key.WithKeys("enter")),
		Cancel: key.NewBinding(key.WithKeys("esc")),
		Copy:   key.NewBinding(key.WithKeys("alt+y")),
		Help:   key.NewBinding(key.WithKeys("alt+h")),
		Quit:   key.NewBinding(key.WithKeys("alt+q", "ctrl+c")),
	}
}

// scrollKeyMap leaves letters to the query input.
func scrollKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("alt+j", "alt+down")),
		HalfPageUp:   key.NewBinding(key.WithKeys("alt+k", "alt+up")),
		Down:         key.NewBinding(key.WithKeys("down")),
		Up:           key.NewBinding(key.WithKeys("up")),
	}
}

func NewAppView(cfg AppViewConfig) AppView {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = QueryPlaceholder
	ti.CharLimit = 0
	ti.Focus()

	vp := viewport.New(0, 0)
	vp.KeyMap = scrollKeyMap()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accentColor)

	return AppView{
		gateway:      cfg.Gateway,
		sessionOpts:  cfg.SessionOptions,
		providerName: cfg.ProviderName,
		modelName:    cfg.ModelName,
		initialQuery: cfg.InitialQuery,
		viewport:     vp,
		input:        ti,
		spinner:      sp,
		keys:         defaultKeyMap(),
	}
}

func (a AppView) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if a.initialQuery != "" {
		query := a.initialQuery
		cmds = append(cmds, func() tea.Msg { return submitMsg{query: query} })
	}
	return tea.Batch(cmds...)
}

// Running reports whether a session is in flight.
func (a AppView) Running() bool {
	return a.running
}

// Snapshot returns the latest snapshot of the current session.
func (a AppView) Snapshot() reasoning.Snapshot {
	return a.snapshot
}

// startSession begins a new session for query and pulls its first snapshot.
func (a AppView) startSession(query string) (AppView, tea.Cmd) {
	a.gen++
	ctx, cancel := context.WithCancel(context.Background())
	session := reasoning.NewSession(a.gateway, query, a.sessionOpts...)
	next, stop := iter.Pull(session.Run(ctx))

	a.query = query
	a.sessionID = session.ID()
	a.next = next
	a.stop = stop
	a.cancel = cancel
	a.running = true
	a.cancelling = false
	a.snapshot = reasoning.Snapshot{}
	a.rendered = nil
	a.statusMsg = ""

	a.input.Reset()
	a.input.Blur()

	if config.DebugLog != nil {
		config.DebugLog.Printf("[UI] Session %s started (gen=%d) for query: %q", a.sessionID, a.gen, query)
	}

	a.updateViewportContent(true)
	return a, tea.Batch(a.spinner.Tick, a.pullSnapshot())
}

// pullSnapshot advances the session by one snapshot off the UI goroutine.
// Only one pull is ever outstanding.
func (a AppView) pullSnapshot() tea.Cmd {
	gen, next := a.gen, a.next
	return func() tea.Msg {
		snap, ok := next()
		return snapshotMsg{gen: gen, snapshot: snap, ok: ok}
	}
}

// finishRun releases the session iterator and re-enables input.
func (a AppView) finishRun() AppView {
	if a.stop != nil {
		a.stop()
	}
	if a.cancel != nil {
		a.cancel()
	}
	a.next, a.stop, a.cancel = nil, nil, nil
	a.running = false
	a.input.Focus()

	switch {
	case a.cancelling:
		a.statusMsg = "Cancelled"
	case a.snapshot.Done:
		a.statusMsg = "Done"
	}
	a.cancelling = false

	if config.DebugLog != nil {
		config.DebugLog.Printf("[UI] Session %s finished (%s, %d entries)", a.sessionID, a.statusMsg, len(a.snapshot.Steps))
	}
	return a
}

// finalAnswer returns the content of the closing entry, if the session has one.
func (a AppView) finalAnswer() (string, bool) {
	steps := a.snapshot.Steps
	if !a.snapshot.Done || len(steps) == 0 {
		return "", false
	}
	last := steps[len(steps)-1]
	if last.Label != reasoning.FinalAnswerLabel {
		return "", false
	}
	return last.Content, true
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading thinkchain..."
	}

	if a.showAcknowledgeModal {
		return RenderAcknowledgeModal(a.acknowledgeModalTitle, a.acknowledgeModalMsg, ModalTypeError, a.width, a.height)
	}

	if a.showHelp {
		return renderHelpModal(a.width, a.height)
	}

	title := TitleStyle.Render("thinkchain") + DimStyle.Render(fmt.Sprintf(" | %s", a.providerName))
	if a.modelName != "" {
		title += DimStyle.Render(" | " + truncateLabel(a.modelName, 40))
	}
	if a.running {
		if a.cancelling {
			title += DimStyle.Render(" | cancelling ") + a.spinner.View()
		} else {
			title += DimStyle.Render(" | thinking ") + a.spinner.View()
		}
	} else if a.statusMsg != "" {
		title += DimStyle.Render(" | " + a.statusMsg)
	}

	descStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)
	statusBar := fmt.Sprintf("Alt+Q %s  Enter %s  Esc %s  Alt+Y %s  Alt+H %s",
		descStyle.Render("Quit"),
		descStyle.Render("Ask"),
		descStyle.Render("Cancel"),
		descStyle.Render("Copy answer"),
		descStyle.Render("Help"),
	)
	statusBar = StatusStyle.Render(statusBar)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		a.viewport.View(),
		a.input.View(),
		statusBar,
	)
}
