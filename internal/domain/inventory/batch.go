package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BatchLot represents a received batch/lot of a product. It holds the
// current quantity balance, the unit cost captured at receipt and an
// optional expiry date. A missing expiry means the batch never expires.
//
// Invariant: Quantity never goes negative. Deduct rejects requests that
// exceed the balance; corrections that would go below zero are clamped
// and flagged by the caller.
type BatchLot struct {
	shared.BaseAggregateRoot
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	LotNumber  string          `gorm:"type:varchar(50);not null;index"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ExpiryDate *time.Time      `gorm:"type:timestamptz;index"`
}

// TableName returns the table name for GORM
func (BatchLot) TableName() string {
	return "batch_lots"
}

// NewBatchLot creates a new batch lot
func NewBatchLot(productID uuid.UUID, lotNumber string, quantity, unitCost decimal.Decimal, expiryDate *time.Time) (*BatchLot, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if lotNumber == "" {
		return nil, shared.NewDomainError("INVALID_LOT_NUMBER", "Lot number cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	return &BatchLot{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		LotNumber:         lotNumber,
		Quantity:          quantity,
		UnitCost:          unitCost,
		ExpiryDate:        expiryDate,
	}, nil
}

// IsExpiredAt returns true if the batch has expired as of the given time
func (b *BatchLot) IsExpiredAt(asOf time.Time) bool {
	if b.ExpiryDate == nil {
		return false
	}
	return b.ExpiryDate.Before(asOf)
}

// ExpiresWithin returns true if the batch has an expiry date inside the window
func (b *BatchLot) ExpiresWithin(window time.Duration) bool {
	if b.ExpiryDate == nil {
		return false
	}
	return b.ExpiryDate.Before(time.Now().Add(window))
}

// HasStock returns true if the batch has a positive balance
func (b *BatchLot) HasStock() bool {
	return b.Quantity.GreaterThan(decimal.Zero)
}

// IsAvailableAt returns true if the batch can be sold as of the given time
func (b *BatchLot) IsAvailableAt(asOf time.Time) bool {
	return b.HasStock() && !b.IsExpiredAt(asOf)
}

// Deduct reduces the batch balance. The full requested quantity must be
// available; partial deduction is never performed.
func (b *BatchLot) Deduct(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Deduction quantity must be positive")
	}
	if quantity.GreaterThan(b.Quantity) {
		return NewInsufficientStockError(b.ProductID, b.ID, b.Quantity, quantity)
	}

	b.Quantity = b.Quantity.Sub(quantity)
	b.UpdatedAt = time.Now()
	return nil
}

// Restock increases the batch balance (returns, found stock, corrections)
func (b *BatchLot) Restock(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Restock quantity must be positive")
	}

	b.Quantity = b.Quantity.Add(quantity)
	b.UpdatedAt = time.Now()
	return nil
}

// ApplySignedDelta applies a signed correction to the balance. A negative
// delta larger than the balance clamps the balance to zero; the returned
// applied delta reflects what actually happened and clamped reports that
// the request could not be honoured in full. Callers must surface a clamp
// as a data-integrity warning.
func (b *BatchLot) ApplySignedDelta(delta decimal.Decimal) (applied decimal.Decimal, clamped bool) {
	next := b.Quantity.Add(delta)
	if next.IsNegative() {
		applied = b.Quantity.Neg()
		b.Quantity = decimal.Zero
		b.UpdatedAt = time.Now()
		b.AddDomainEvent(NewBalanceClampedEvent(b, delta, applied))
		return applied, true
	}

	b.Quantity = next
	b.UpdatedAt = time.Now()
	return delta, false
}

// StockValue returns the cost value of the remaining balance
func (b *BatchLot) StockValue() decimal.Decimal {
	return b.Quantity.Mul(b.UnitCost)
}
