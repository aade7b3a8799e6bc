package gateway

import (
	"errors"
	"fmt"
)

// Sentinels matched with errors.Is against an *Error.
var (
	// ErrUnavailable means the outcome is unknown: the gateway timed out,
	// could not be reached or answered with a server error.
	ErrUnavailable = errors.New("payment gateway unavailable")
	// ErrRejected means the gateway definitively refused the request.
	ErrRejected = errors.New("payment gateway rejected the request")

	ErrOrderNotApproved   = errors.New("order not approved by buyer")
	ErrInsufficientFunds  = errors.New("insufficient platform balance")
	ErrPayeeNotConfigured = errors.New("payee not configured")
	ErrNotFound           = errors.New("gateway resource not found")
)

// Gateway error codes carried in ErrorResponse.Error.
const (
	CodeOrderNotApproved   = "ORDER_NOT_APPROVED"
	CodeInsufficientFunds  = "INSUFFICIENT_FUNDS"
	CodePayeeNotConfigured = "PAYEE_NOT_CONFIGURED"
)

// Error describes a failed gateway call. Kind is one of the sentinels above.
type Error struct {
	Kind       error
	Op         string
	Code       string
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("gateway %s: status %d: %s", e.Op, e.StatusCode, msg)
	}
	return fmt.Sprintf("gateway %s: %s", e.Op, msg)
}

// Unwrap returns the sentinel classifying the failure.
func (e *Error) Unwrap() error {
	return e.Kind
}

// IsUnavailable reports whether err leaves the outcome of the call unknown.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

func kindForCode(code string) error {
	switch code {
	case CodeOrderNotApproved:
		return ErrOrderNotApproved
	case CodeInsufficientFunds:
		return ErrInsufficientFunds
	case CodePayeeNotConfigured:
		return ErrPayeeNotConfigured
	default:
		return ErrRejected
	}
}
