package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrorModal is a standalone program for errors that happen before the main
// UI can start, such as a missing API key or an unreachable provider.
type ErrorModal struct {
	title   string
	message string
	width   int
	height  int
}

func NewErrorModal(title, message string) ErrorModal {
	return ErrorModal{
		title:   title,
		message: message,
	}
}

func (m ErrorModal) Init() tea.Cmd {
	return nil
}

func (m ErrorModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc", "q", "ctrl+c":
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m ErrorModal) View() string {
	if m.width < 20 || m.height < 10 {
		return "Terminal too small"
	}

	modalWidth := modalWidthFor(0, m.width)
	lineStyle := lipgloss.NewStyle().Width(modalWidth).Align(lipgloss.Center)

	var lines []string
	for _, line := range strings.Split(wordWrap(m.message, modalWidth-4), "\n") {
		lines = append(lines, lineStyle.Render(line))
	}
	return RenderThreeSectionModal(m.title, lines, "Press Enter to quit", ModalTypeError, 0, m.width, m.height)
}
