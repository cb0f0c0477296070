package model

import "errors"

// Common errors used across the application
var (
	// Validation errors, reported by order submission
	ErrNoItemSelected        = errors.New("no item selected")
	ErrMissingDeliveryTarget = errors.New("missing delivery target")

	// Catalog errors
	ErrItemNotFound = errors.New("catalog item not found")

	// Order errors
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrLedgerClosed      = errors.New("order ledger is closed")

	// Identity record errors
	ErrIdentityNotFound      = errors.New("identity record not found")
	ErrCorruptIdentityRecord = errors.New("identity record is malformed")
)

// IsValidationError reports whether err is one of the submission validation errors
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNoItemSelected) || errors.Is(err, ErrMissingDeliveryTarget)
}
