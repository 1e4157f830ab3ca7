package ui

import (
	"context"
	"fmt"
	"io"

	"thinkchain/reasoning"
)

// PlainReporter writes a session to a plain stream. Snapshots are full
// replacements; only entries not yet written are printed, so the output
// reads as a log of the session.
type PlainReporter struct {
	w       io.Writer
	printed int
	// Timings appends each entry's call duration to its heading.
	Timings bool
}

func NewPlainReporter(w io.Writer) *PlainReporter {
	return &PlainReporter{w: w}
}

// Report prints whatever snap adds to what was already written, and the
// total thinking time once snap is done.
func (r *PlainReporter) Report(snap reasoning.Snapshot) error {
	if len(snap.Steps) < r.printed {
		r.printed = 0
	}

	for _, step := range snap.Steps[r.printed:] {
		heading := "## " + step.Label
		if step.Label == reasoning.FinalAnswerLabel {
			heading = "### " + step.Label
		}
		if r.Timings {
			heading += fmt.Sprintf(" (%s)", formatDuration(step.Duration))
		}
		if _, err := fmt.Fprintf(r.w, "%s\n%s\n\n", heading, step.Content); err != nil {
			return fmt.Errorf("failed to write step: %w", err)
		}
		r.printed++
	}

	if snap.Done {
		if _, err := fmt.Fprintln(r.w, FormatTotalTime(snap.TotalThinkingTime)); err != nil {
			return fmt.Errorf("failed to write total time: %w", err)
		}
	}
	return nil
}

// Run drives s to completion, reporting every snapshot. A write error
// abandons the session.
func (r *PlainReporter) Run(ctx context.Context, s *reasoning.Session) error {
	r.printed = 0
	for snap := range s.Run(ctx) {
		if err := r.Report(snap); err != nil {
			return err
		}
	}
	return nil
}
