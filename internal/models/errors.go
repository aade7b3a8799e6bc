package models

import "errors"

// Domain errors that can be returned by repositories
var (
	// ErrDuplicateTransaction indicates the offer already has an active transaction
	ErrDuplicateTransaction = errors.New("duplicate transaction")

	// ErrNotFound indicates the requested entity was not found
	ErrNotFound = errors.New("not found")

	// ErrStatusConflict indicates a compare-and-set update found a different
	// status (or an already-set identifier) than the caller expected
	ErrStatusConflict = errors.New("status conflict")
)
