package models

import (
	"errors"
	"fmt"
)

// Failure kinds shared by the store, the HTTP surface and the board controller.
// Callers wrap them with context and match with errors.Is.
var (
	// ErrNotFound indicates a referenced stage or deal no longer exists
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness rule would be violated
	// (duplicate label, or a reorder racing another reorder)
	ErrConflict = errors.New("conflict")

	// ErrTransactionFailed indicates a unit of work could not commit
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrUnauthorized indicates the caller lacks rights over the tenant's board
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidArgument indicates input that fails validation
	ErrInvalidArgument = errors.New("invalid argument")
)

// Validation errors
var (
	ErrEmptyLabel    = fmt.Errorf("%w: label cannot be empty", ErrInvalidArgument)
	ErrLabelTooLong  = fmt.Errorf("%w: label cannot exceed 50 characters", ErrInvalidArgument)
	ErrInvalidColor  = fmt.Errorf("%w: color must be in hex format #RRGGBB", ErrInvalidArgument)
	ErrEmptyTitle    = fmt.Errorf("%w: deal title cannot be empty", ErrInvalidArgument)
	ErrTitleTooLong  = fmt.Errorf("%w: deal title cannot exceed 255 characters", ErrInvalidArgument)
	ErrEmptyTenant   = fmt.Errorf("%w: tenant id cannot be empty", ErrInvalidArgument)
	ErrSamePositions = fmt.Errorf("%w: positions to swap must differ", ErrInvalidArgument)
)

// IsRetryable reports whether a failure may succeed if the user simply tries again.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrTransactionFailed)
}
