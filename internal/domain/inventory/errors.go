package inventory

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InsufficientStockError reports that a batch cannot cover a requested
// deduction. It carries the available and required quantities so callers
// can produce actionable messages.
type InsufficientStockError struct {
	ProductID uuid.UUID
	BatchID   uuid.UUID
	Available decimal.Decimal
	Required  decimal.Decimal
}

// NewInsufficientStockError creates a new InsufficientStockError
func NewInsufficientStockError(productID, batchID uuid.UUID, available, required decimal.Decimal) *InsufficientStockError {
	return &InsufficientStockError{
		ProductID: productID,
		BatchID:   batchID,
		Available: available,
		Required:  required,
	}
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: available %s, required %s",
		e.ProductID, e.Available.String(), e.Required.String())
}

// Unwrap allows errors.Is(err, shared.ErrInsufficientStock)
func (e *InsufficientStockError) Unwrap() error {
	return shared.ErrInsufficientStock
}

// ExceedsReturnableError reports a return request above the remaining
// returnable quantity for an (invoice, product, batch) triple.
type ExceedsReturnableError struct {
	InvoiceID     uuid.UUID
	ProductID     uuid.UUID
	BatchID       uuid.UUID
	Requested     decimal.Decimal
	MaxReturnable decimal.Decimal
}

// NewExceedsReturnableError creates a new ExceedsReturnableError
func NewExceedsReturnableError(invoiceID, productID, batchID uuid.UUID, requested, maxReturnable decimal.Decimal) *ExceedsReturnableError {
	return &ExceedsReturnableError{
		InvoiceID:     invoiceID,
		ProductID:     productID,
		BatchID:       batchID,
		Requested:     requested,
		MaxReturnable: maxReturnable,
	}
}

// Error implements the error interface
func (e *ExceedsReturnableError) Error() string {
	return fmt.Sprintf("return of %s exceeds returnable quantity %s for invoice %s",
		e.Requested.String(), e.MaxReturnable.String(), e.InvoiceID)
}

// Unwrap allows errors.Is(err, shared.ErrExceedsReturnable)
func (e *ExceedsReturnableError) Unwrap() error {
	return shared.ErrExceedsReturnable
}
