package reasoning

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport marks a model call that failed on every attempt.
	ErrTransport = errors.New("model call failed")

	// ErrProtocolViolation marks model output that does not follow the step protocol.
	ErrProtocolViolation = errors.New("protocol violation")
)

// TransportError is returned by Gateway.Call once the retry policy is exhausted.
// It matches both ErrTransport and the last underlying error with errors.Is.
type TransportError struct {
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("model call failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// ProtocolViolation describes model output that decodes as JSON but is not
// shaped like a batch of steps.
type ProtocolViolation struct {
	Index  int    // Position of the offending record in the batch, -1 for the batch itself.
	Field  string // Offending field, empty when the whole record is at fault.
	Reason string
}

func (e *ProtocolViolation) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("protocol violation: %s", e.Reason)
	}
	if e.Field == "" {
		return fmt.Sprintf("protocol violation in step %d: %s", e.Index+1, e.Reason)
	}
	return fmt.Sprintf("protocol violation in step %d: field %q %s", e.Index+1, e.Field, e.Reason)
}

func (e *ProtocolViolation) Unwrap() error {
	return ErrProtocolViolation
}
