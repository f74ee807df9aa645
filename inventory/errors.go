/*
errors.go - Centralized error types for the inventory engine

PURPOSE:
  All business failures in one place. Every operation returns success or
  its FIRST failing error - callers never inspect multiple simultaneous
  errors, and no error here is fatal: each one surfaces to the operator as
  a message and leaves the ledger untouched.

ERROR CATEGORIES:
  1. Lookup errors     - unknown medicine/batch references
  2. Movement errors   - quantity, stock, and expiry rule violations
  3. Catalog errors    - dosage-form field rule violations
  4. Identity errors   - missing session / insufficient role

USAGE:
  if errors.Is(err, inventory.ErrInsufficientQuantity) { ... }

  var verr *inventory.ValidationError
  if errors.As(err, &verr) { show(verr.Message) }
*/
package inventory

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMedicineNotFound is returned when an operation references a
	// medicine that does not exist.
	ErrMedicineNotFound = errors.New("medicine not found")

	// ErrUserNotFound is returned when an operation references an operator
	// account that does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidQuantity is returned for quantities <= 0.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")

	// ErrRxVerificationRequired is returned when dispensing an Rx medicine
	// without prescription verification while the global gate is on.
	ErrRxVerificationRequired = errors.New("prescription verification required")

	// ErrNoStockAvailable is returned when no non-expired batch with
	// positive quantity exists to dispense from.
	ErrNoStockAvailable = errors.New("no valid non-expired stock available")

	// ErrNoBatchAvailable is returned when an adjustment targets a medicine
	// that has no batches at all.
	ErrNoBatchAvailable = errors.New("no batch available")

	// ErrExpiredBatch is returned when the chosen batch turns out to be
	// expired at mutation time.
	ErrExpiredBatch = errors.New("cannot dispense from expired batch")

	// ErrInsufficientQuantity is returned when the single target batch
	// cannot cover the requested quantity. Dispensing never splits across
	// batches: it is satisfied entirely from the earliest-expiring valid
	// batch or it fails.
	ErrInsufficientQuantity = errors.New("insufficient quantity in batch")

	// ErrValidationFailed is returned for catalog field-rule violations.
	ErrValidationFailed = errors.New("validation failed")

	// ErrNotAuthenticated is returned when a mutating operation is invoked
	// without a live session.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrUnauthorized is returned when a non-admin attempts an admin-only
	// mutation (settings, user management).
	ErrUnauthorized = errors.New("unauthorized")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError carries the first failing catalog rule as a
// human-readable message.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }

// InsufficientQuantityError reports a shortage in the targeted batch.
type InsufficientQuantityError struct {
	BatchNo   string
	Unit      BaseUnit
	Available int64
	Requested int64
}

func (e *InsufficientQuantityError) Error() string {
	return fmt.Sprintf("insufficient quantity in batch %s: available %d %s, requested %d",
		e.BatchNo, e.Available, e.Unit, e.Requested)
}

func (e *InsufficientQuantityError) Unwrap() error { return ErrInsufficientQuantity }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound reports whether the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrMedicineNotFound) || errors.Is(err, ErrUserNotFound)
}

// IsClientError reports whether the error is due to invalid operator input
// or a business rule, as opposed to a storage failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrRxVerificationRequired) ||
		errors.Is(err, ErrNoStockAvailable) ||
		errors.Is(err, ErrNoBatchAvailable) ||
		errors.Is(err, ErrExpiredBatch) ||
		errors.Is(err, ErrInsufficientQuantity) ||
		errors.Is(err, ErrValidationFailed)
}
