package models

import "fmt"

// InvalidTransitionError reports a status change the state machine forbids.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

// NewInvalidTransitionError creates an InvalidTransitionError.
func NewInvalidTransitionError(from, to string) error {
	return &InvalidTransitionError{From: from, To: to}
}
