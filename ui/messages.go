package ui

import (
	"thinkchain/reasoning"
)

// snapshotMsg carries one snapshot pulled from a running session. gen ties
// it to the run that produced it so a late snapshot from a replaced run is
// ignored.
type snapshotMsg struct {
	gen      int
	snapshot reasoning.Snapshot
	ok       bool
}

// markdownRenderedMsg delivers the rendered body of step index.
type markdownRenderedMsg struct {
	gen      int
	index    int
	rendered string
}

// copiedMsg reports the outcome of a clipboard write.
type copiedMsg struct {
	err error
}

// submitMsg starts a session for query as if it had been typed.
type submitMsg struct {
	query string
}
