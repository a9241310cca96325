package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// Specific error kinds raised by the ledger engine. Each wraps one of the
// roots above so handlers can map a whole family with a single errors.Is.
var (
	// ErrBadRequest is returned when a request is missing fields required by
	// its transaction type, or carries fields the type forbids.
	ErrBadRequest = fmt.Errorf("%w: malformed or contradictory request", ErrValidation)

	ErrProductNotFound  = fmt.Errorf("%w: product", ErrNotFound)
	ErrClientNotFound   = fmt.Errorf("%w: client", ErrNotFound)
	ErrCurrencyNotFound = fmt.Errorf("%w: currency", ErrNotFound)
	ErrRateNotFound     = fmt.Errorf("%w: exchange rate", ErrNotFound)

	// ErrInvalidRate is returned when a resolved exchange rate falls outside
	// the sanity bounds for its currency.
	ErrInvalidRate = fmt.Errorf("%w: exchange rate outside sanity bounds", ErrValidation)

	// ErrInvalidQuantity is returned when a line item quantity is not a
	// positive integer.
	ErrInvalidQuantity = fmt.Errorf("%w: item quantity must be a positive integer", ErrValidation)
)

// ErrConcurrentModification indicates an atomic balance update touched zero
// rows. It is surfaced to the caller, never retried.
var ErrConcurrentModification = errors.New("balance update affected no rows")

// ErrReconciliationRequired indicates a compensating balance revert failed
// after a partially applied operation. The ledger may be inconsistent and
// needs manual reconciliation.
var ErrReconciliationRequired = errors.New("compensating balance revert failed, manual reconciliation required")
