package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// ModalType determines the color and styling of a modal
type ModalType int

const (
	ModalTypeInfo ModalType = iota
	ModalTypeWarning
	ModalTypeError
)

func (t ModalType) color() lipgloss.Color {
	switch t {
	case ModalTypeWarning:
		return warningColor
	case ModalTypeError:
		return dangerColor
	default:
		return accentColor
	}
}

// RenderAcknowledgeModal renders a modal that only needs Enter to dismiss.
// The message is wrapped and centered line by line.
func RenderAcknowledgeModal(title, message string, modalType ModalType, width, height int) string {
	modalWidth := modalWidthFor(0, width)
	lineStyle := lipgloss.NewStyle().Width(modalWidth).Align(lipgloss.Center)

	var lines []string
	for _, line := range strings.Split(wordWrap(message, modalWidth-4), "\n") {
		lines = append(lines, lineStyle.Render(line))
	}
	return RenderThreeSectionModal(title, lines, "Press Enter to acknowledge", modalType, 0, width, height)
}

// RenderThreeSectionModal renders a borderless modal: Title (no border) → Message (BorderTop) → Footer (BorderTop)
// messageLines should be pre-formatted content lines; padding is added here.
// desiredWidth: preferred modal width (0 = default 60)
func RenderThreeSectionModal(title string, messageLines []string, footer string, modalType ModalType, desiredWidth, width, height int) string {
	modalWidth := modalWidthFor(desiredWidth, width)

	// Center by visual width so wide runes in titles line up
	titleWidth := runewidth.StringWidth(title)
	leftPad := max((modalWidth-titleWidth)/2, 0)
	rightPad := max(modalWidth-titleWidth-leftPad, 0)
	titleSection := lipgloss.NewStyle().
		Bold(true).
		Foreground(modalType.color()).
		Render(strings.Repeat(" ", leftPad) + title + strings.Repeat(" ", rightPad))

	blank := strings.Repeat(" ", modalWidth)
	body := append([]string{blank}, messageLines...)
	body = append(body, blank)

	sectionBorder := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Width(modalWidth)

	messageSection := sectionBorder.Render(strings.Join(body, "\n"))
	footerSection := sectionBorder.
		Foreground(dimColor).
		Align(lipgloss.Center).
		Render(footer)

	content := strings.Join([]string{titleSection, messageSection, footerSection}, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func modalWidthFor(desired, width int) int {
	modalWidth := desired
	if modalWidth == 0 {
		modalWidth = 60
	}
	if width < modalWidth+10 {
		modalWidth = width - 10
	}
	return max(modalWidth, 10)
}

// wordWrap wraps text to width, keeping existing newlines.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	paragraphs := strings.Split(text, "\n")
	for i, paragraph := range paragraphs {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			paragraphs[i] = ""
			continue
		}

		var b strings.Builder
		lineWidth := 0
		for j, word := range words {
			w := runewidth.StringWidth(word)
			switch {
			case j == 0:
			case lineWidth+1+w <= width:
				b.WriteByte(' ')
				lineWidth++
			default:
				b.WriteByte('\n')
				lineWidth = 0
			}
			b.WriteString(word)
			lineWidth += w
		}
		paragraphs[i] = b.String()
	}
	return strings.Join(paragraphs, "\n")
}
