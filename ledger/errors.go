/*
errors.go - Centralized error types for the ledger engine

PURPOSE:
  All error kinds in one place for consistency and discoverability.
  Callers match with errors.Is/errors.As; the HTTP layer maps these to
  status codes.

ERROR CATEGORIES:
  1. Validation errors - bad input shape or range
  2. Business-rule errors - insufficient stock, duplicate customer name
  3. Lookup errors - referenced id absent
  4. Storage errors - underlying persistence failures (fatal/unexpected)

USAGE:
  if errors.Is(err, ledger.ErrInsufficientStock) {
      var stockErr *ledger.InsufficientStockError
      errors.As(err, &stockErr)
      // stockErr.Available carries the sellable quantity
  }

SEE ALSO:
  - transaction.go, stock.go, debt.go: Produce these errors
  - api/handlers.go: Maps them to HTTP responses
*/
package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is returned when input fails shape or range checks
	// before any mutation begins.
	ErrValidation = errors.New("validation failed")

	// ErrInsufficientStock is returned when a sale requests more than the
	// currently available stock.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrDuplicateName is returned on a customer name collision
	// (case-insensitive) during create or rename.
	ErrDuplicateName = errors.New("duplicate customer name")

	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStorage wraps persistence failures. Treated as fatal.
	ErrStorage = errors.New("storage failure")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports which field failed validation and why.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// InsufficientStockError carries the quantity that is actually sellable so
// callers can surface it to the user.
type InsufficientStockError struct {
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: requested %s kg, available %s kg",
		e.Requested.String(), e.Available.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// DuplicateNameError reports a customer name collision.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("customer name already in use: %q", e.Name)
}

func (e *DuplicateNameError) Unwrap() error { return ErrDuplicateName }

// NotFoundError reports which record was missing.
type NotFoundError struct {
	Kind string // "customer", "stock entry", "transaction", "debt"
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// storageErr wraps a low-level store failure with the sentinel so callers
// can treat all persistence errors uniformly.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input
// or a business-rule rejection rather than a system failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrDuplicateName)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
