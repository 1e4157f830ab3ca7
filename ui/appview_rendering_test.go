package ui

import (
	"strings"
	"testing"
	"time"

	"thinkchain/reasoning"
)

func TestRenderTranscriptEmpty(t *testing.T) {
	out := plain(renderTranscript(transcript{}, 80))
	if !strings.Contains(out, QueryPlaceholder) {
		t.Errorf("expected placeholder example, got %q", out)
	}
}

func TestRenderTranscriptWaiting(t *testing.T) {
	out := plain(renderTranscript(transcript{query: "why?", running: true}, 80))
	if !strings.Contains(out, "> why?") {
		t.Errorf("query not echoed: %q", out)
	}
	if !strings.Contains(out, "Generating response...") {
		t.Errorf("expected waiting line: %q", out)
	}
}

func TestRenderTranscriptDone(t *testing.T) {
	tr := transcript{
		query: "q",
		snapshot: reasoning.Snapshot{
			Steps: []reasoning.StepRecord{
				{Label: "Step 1: Think", Content: "first line\nsecond line", Duration: 2 * time.Second},
				{Label: reasoning.FinalAnswerLabel, Content: "42", Duration: time.Second},
			},
			Done:              true,
			TotalThinkingTime: 3210 * time.Millisecond,
		},
	}

	out := plain(renderTranscript(tr, 80))

	for _, want := range []string{
		"Step 1: Think",
		"2.0s",
		"first line",
		"second line",
		"Final Answer",
		"42",
		"Total thinking time: 3.21 seconds",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("transcript missing %q:\n%s", want, out)
		}
	}

	if strings.Index(out, "Step 1: Think") > strings.Index(out, "Final Answer") {
		t.Error("entries rendered out of order")
	}
}

func TestRenderTranscriptPrefersRenderedBody(t *testing.T) {
	tr := transcript{
		query: "q",
		snapshot: reasoning.Snapshot{Steps: []reasoning.StepRecord{
			{Label: "Step 1: A", Content: "**raw**"},
		}},
		rendered: []string{"RENDERED"},
	}
	out := plain(renderTranscript(tr, 80))
	if !strings.Contains(out, "RENDERED") || strings.Contains(out, "**raw**") {
		t.Errorf("expected the rendered body:\n%s", out)
	}
}

func TestRenderTranscriptNoTotalUntilDone(t *testing.T) {
	tr := transcript{
		query:   "q",
		running: true,
		snapshot: reasoning.Snapshot{Steps: []reasoning.StepRecord{
			{Label: "Step 1: A", Content: "a"},
		}},
	}
	if strings.Contains(renderTranscript(tr, 80), "Total thinking time") {
		t.Error("total time shown while running")
	}
}

func TestIsErrorStep(t *testing.T) {
	tests := []struct {
		label string
		want  bool
	}{
		{"Step 3: Error", true},
		{"Step 3: Errors in reasoning", false},
		{"Step 1: Think", false},
		{reasoning.FinalAnswerLabel, false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := isErrorStep(reasoning.StepRecord{Label: tt.label}); got != tt.want {
				t.Errorf("isErrorStep(%q) = %v, want %v", tt.label, got, tt.want)
			}
		})
	}
}

func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "Step 1: Think", 20, "Step 1: Think"},
		{"truncated", "Step 1: Think very hard", 10, "Step 1: T…"},
		{"no room", "anything", 1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateLabel(tt.in, tt.width); got != tt.want {
				t.Errorf("truncateLabel(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

func TestFormatTotalTime(t *testing.T) {
	if got := FormatTotalTime(1234 * time.Millisecond); got != "Total thinking time: 1.23 seconds" {
		t.Errorf("FormatTotalTime() = %q", got)
	}
	if got := FormatTotalTime(0); got != "Total thinking time: 0.00 seconds" {
		t.Errorf("FormatTotalTime(0) = %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{time.Second, "1.0s"},
		{2500 * time.Millisecond, "2.5s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPreprocessLinks(t *testing.T) {
	got := preprocessLinks("see [the docs](https://example.com/docs) here")
	if got != "see https://example.com/docs here" {
		t.Errorf("preprocessLinks() = %q", got)
	}
}

func TestFixInlineCode(t *testing.T) {
	got := fixInlineCode("run \x1b[44;3mgo test\x1b[0m now")
	if got != "run \x1b[31mgo test\x1b[0m now" {
		t.Errorf("fixInlineCode() = %q", got)
	}
}

func TestFrameCodeBlocks(t *testing.T) {
	in := "before\n┃ x := 1\n┃ y := 2\nafter"
	out := plain(frameCodeBlocks(in, 30))
	lines := strings.Split(out, "\n")

	if strings.Contains(out, codeBlockBar) {
		t.Errorf("bar prefix not stripped:\n%s", out)
	}
	if lines[0] != "before" || lines[len(lines)-1] != "after" {
		t.Errorf("surrounding text moved:\n%s", out)
	}
	if !strings.Contains(out, "[code]") {
		t.Errorf("missing code label:\n%s", out)
	}

	var code []string
	for _, l := range lines {
		if strings.HasPrefix(l, "x :=") || strings.HasPrefix(l, "y :=") {
			code = append(code, l)
		}
	}
	if len(code) != 2 {
		t.Errorf("code lines = %v, want 2", code)
	}
}

func TestFrameCodeBlocksAtEnd(t *testing.T) {
	out := plain(frameCodeBlocks("┃ last", 20))
	if !strings.HasSuffix(strings.TrimRight(out, "\n"), strings.Repeat("━", 16)) {
		t.Errorf("block at end not closed:\n%s", out)
	}
}

func TestRenderMarkdown(t *testing.T) {
	out := plain(renderMarkdown("Count the **letters**:\n\n- s\n- r", 60))
	for _, want := range []string{"Count the", "letters", "s", "r"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered markdown missing %q:\n%s", want, out)
		}
	}
	if strings.HasSuffix(out, "\n") {
		t.Error("trailing newline not trimmed")
	}
}
