package ui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
	"github.com/mattn/go-runewidth"

	"thinkchain/config"
	"thinkchain/reasoning"
)

// Pre-compiled regex patterns for better performance
var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	urlRegex        = regexp.MustCompile(`(https?://[^\s]+)`)
)

// codeBlockBar prefixes code block lines in go-term-markdown output.
const codeBlockBar = "┃"

// transcript is everything needed to draw one session.
type transcript struct {
	query    string
	running  bool
	snapshot reasoning.Snapshot
	rendered []string
}

func (a *AppView) updateViewportContent(gotoBottom bool) {
	a.viewport.SetContent(renderTranscript(transcript{
		query:    a.query,
		running:  a.running,
		snapshot: a.snapshot,
		rendered: a.rendered,
	}, a.width))
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

// contentWidth is the text width inside a step box.
func (a AppView) contentWidth() int {
	return max(a.width-6, 20)
}

func renderTranscript(t transcript, width int) string {
	if t.query == "" {
		return DimStyle.Render("Enter your query below, " + QueryPlaceholder)
	}

	var b strings.Builder
	b.WriteString(UserStyle.Render("> " + t.query))
	b.WriteString("\n\n")

	if t.running && len(t.snapshot.Steps) == 0 {
		b.WriteString(DimStyle.Render("Generating response..."))
		b.WriteString("\n")
	}

	for i, step := range t.snapshot.Steps {
		body := step.Content
		if i < len(t.rendered) && t.rendered[i] != "" {
			body = t.rendered[i]
		}

		if step.Label == reasoning.FinalAnswerLabel {
			b.WriteString(FinalHeadingStyle.Render(step.Label))
			b.WriteString("\n\n")
			b.WriteString(body)
			b.WriteString("\n\n")
			continue
		}
		b.WriteString(renderStepBox(step, body, width))
		b.WriteString("\n")
	}

	if t.snapshot.Done {
		b.WriteString(TotalTimeStyle.Render(FormatTotalTime(t.snapshot.TotalThinkingTime)))
		b.WriteString("\n")
	}

	return b.String()
}

// renderStepBox draws one intermediate entry as an always-expanded section.
func renderStepBox(step reasoning.StepRecord, body string, width int) string {
	boxWidth := max(width-2, 24)
	timing := formatDuration(step.Duration)

	// Keep label and timing on one line
	header := AssistantStyle.Render(truncateLabel(step.Label, boxWidth-runewidth.StringWidth(timing)-6)) +
		" " + DimStyle.Render(timing)

	style := StepBoxStyle
	if isErrorStep(step) {
		style = ErrorBoxStyle
	}
	return style.Width(boxWidth).Render(header + "\n\n" + body)
}

func isErrorStep(step reasoning.StepRecord) bool {
	return strings.HasSuffix(step.Label, ": "+reasoning.ErrorTitle)
}

// truncateLabel shortens s to at most width terminal cells.
func truncateLabel(s string, width int) string {
	if width <= 1 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// FormatTotalTime is the closing line of a finished session.
func FormatTotalTime(d time.Duration) string {
	return fmt.Sprintf("Total thinking time: %.2f seconds", d.Seconds())
}

// renderMarkdown renders step content for a terminal of the given width.
func renderMarkdown(content string, width int) string {
	// Plain URLs stay plain so terminals can detect them
	content = preprocessLinks(content)

	ext := markdown.Extensions() &^ parser.Autolink
	p := parser.NewWithExtensions(ext)
	r := markdown.NewRenderer(width, 0)
	rendered := gomarkdown.Render(p.Parse([]byte(content)), r)

	return strings.TrimRight(postProcessMarkdown(string(rendered), width), "\n")
}

func renderMarkdownAsync(gen, index int, content string, width int) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		rendered := renderMarkdown(content, width)
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] Markdown for entry %d (%d chars) rendered in %v", index, len(content), time.Since(start))
		}
		return markdownRenderedMsg{gen: gen, index: index, rendered: rendered}
	}
}

func postProcessMarkdown(rendered string, width int) string {
	// Inline code: blue background to red text
	rendered = fixInlineCode(rendered)
	rendered = colorURLs(rendered)
	return frameCodeBlocks(rendered, width)
}

// preprocessLinks turns [text](url) into url.
func preprocessLinks(content string) string {
	return mdLinkRegex.ReplaceAllString(content, "$2")
}

func fixInlineCode(s string) string {
	return inlineCodeRegex.ReplaceAllString(s, "\x1b[31m$1\x1b[0m")
}

func colorURLs(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if !strings.Contains(line, codeBlockBar) {
			lines[i] = urlRegex.ReplaceAllString(line, "\x1b[31m$1\x1b[0m")
		}
	}
	return strings.Join(lines, "\n")
}

// frameCodeBlocks replaces the bar prefix of code lines with dark gray rules
// above and below each block.
func frameCodeBlocks(s string, width int) string {
	const darkGray, reset = "\x1b[90m", "\x1b[0m"
	ruleWidth := max(width-4, 8)

	topRule := func() string {
		label := "[code]"
		left := (ruleWidth - len(label)) / 2
		right := ruleWidth - len(label) - left
		return darkGray + strings.Repeat("━", left) + reset + label + darkGray + strings.Repeat("━", right) + reset
	}
	bottomRule := darkGray + strings.Repeat("━", ruleWidth) + reset

	var out []string
	inBlock := false
	for _, line := range strings.Split(s, "\n") {
		isCode := strings.Contains(line, codeBlockBar)
		switch {
		case isCode && !inBlock:
			inBlock = true
			out = append(out, "", topRule(), "")
		case !isCode && inBlock:
			inBlock = false
			out = append(out, "", bottomRule, "")
		}
		if isCode {
			line = stripCodeBlockPrefix(line)
		}
		out = append(out, line)
	}
	if inBlock {
		out = append(out, "", bottomRule, "")
	}
	return strings.Join(out, "\n")
}

func stripCodeBlockPrefix(line string) string {
	idx := strings.Index(line, codeBlockBar)
	if idx < 0 {
		return line
	}
	rest := line[idx+len(codeBlockBar):]
	return strings.TrimPrefix(rest, " ")
}

// formatDuration formats duration for display
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	seconds := float64(d.Milliseconds()) / 1000.0
	return fmt.Sprintf("%.1fs", seconds)
}
