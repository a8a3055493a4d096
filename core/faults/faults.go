package faults

import "fmt"

// NotFoundError reports an unknown job, bid, payment or milestone id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// NotFound builds a NotFoundError for the given aggregate kind and id.
func NotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// InvalidStateError reports an operation attempted from a state that
// forbids it, such as awarding a non-pending bid or releasing a
// non-verified milestone.
type InvalidStateError struct {
	Op     string
	State  string
	Reason string
}

func (e *InvalidStateError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s not allowed in state %s: %s", e.Op, e.State, e.Reason)
	}
	return fmt.Sprintf("%s not allowed in state %s", e.Op, e.State)
}

// InvalidState builds an InvalidStateError for the given operation and state.
func InvalidState(op, state string) error {
	return &InvalidStateError{Op: op, State: state}
}

// InvalidStatef builds an InvalidStateError with an explanatory reason.
func InvalidStatef(op, state, format string, args ...any) error {
	return &InvalidStateError{Op: op, State: state, Reason: fmt.Sprintf(format, args...)}
}

// ValidationError reports malformed input: bad weights, milestone
// percentages that do not sum to 100, a forced installer that is missing
// or blacklisted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return e.Reason
}

// Validation builds a ValidationError for the given field.
func Validation(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
