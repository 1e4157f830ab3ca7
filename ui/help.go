package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func renderHelpModal(width, height int) string {
	blue := lipgloss.NewStyle().Foreground(accentColor)

	lines := []string{
		blue.Render("## Query"),
		fmt.Sprintf("• %-13s Ask the query", "Enter"),
		fmt.Sprintf("• %-13s Cancel the running session", "Esc"),
		fmt.Sprintf("• %-13s Copy the final answer", "Alt+Y"),
		"",
		blue.Render("## Navigation"),
		fmt.Sprintf("• %-13s Scroll one line", "Up/Down"),
		fmt.Sprintf("• %-13s Half page down", "Alt+J"),
		fmt.Sprintf("• %-13s Half page up", "Alt+K"),
		fmt.Sprintf("• %-13s Full page", "PgUp/PgDn"),
		"",
		fmt.Sprintf("• %-13s Toggle this help", "Alt+H"),
		fmt.Sprintf("• %-13s Quit", "Alt+Q"),
	}

	indented := lipgloss.NewStyle().PaddingLeft(6)
	for i, line := range lines {
		lines[i] = indented.Render(line)
	}

	return RenderThreeSectionModal("thinkchain - Keyboard Shortcuts", lines, FormatFooter("Esc", "Close"), ModalTypeInfo, 56, width, height)
}
