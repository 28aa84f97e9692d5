package workflow

import (
	"errors"
	"fmt"
)

// ErrConcurrencyConflict is returned when the storage layer detects that two
// concurrent order intakes raced for the same daily sequence number. The
// sequence is read with a count query before the insert, so the race is a
// documented property of the design; callers retry rather than the core
// serializing all order creation.
var ErrConcurrencyConflict = errors.New("sample sequence already allocated, retry order creation")

// InvalidTransitionError reports a requested status that is not reachable
// from the current state.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %q to %q", e.From, e.To)
}

// PreconditionError reports a transition whose target-specific guard failed.
// Reason is operator-readable and must be surfaced verbatim.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string { return e.Reason }

// ParseError reports a value or reference-range expression that could not be
// interpreted. The flag engine absorbs it as an undetermined flag; it is
// never fatal to the workflow.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot interpret %q", e.Input)
}
