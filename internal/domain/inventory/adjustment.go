package inventory

import (
	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AdjustmentType represents the kind of non-sale stock movement
type AdjustmentType string

const (
	AdjustmentTypeReturn     AdjustmentType = "RETURN"
	AdjustmentTypeDamage     AdjustmentType = "DAMAGE"
	AdjustmentTypeExpired    AdjustmentType = "EXPIRED"
	AdjustmentTypeLost       AdjustmentType = "LOST"
	AdjustmentTypeFound      AdjustmentType = "FOUND"
	AdjustmentTypeCorrection AdjustmentType = "CORRECTION"
)

// String returns the string representation of AdjustmentType
func (t AdjustmentType) String() string {
	return string(t)
}

// IsValid returns true if the adjustment type is valid
func (t AdjustmentType) IsValid() bool {
	switch t {
	case AdjustmentTypeReturn, AdjustmentTypeDamage, AdjustmentTypeExpired,
		AdjustmentTypeLost, AdjustmentTypeFound, AdjustmentTypeCorrection:
		return true
	}
	return false
}

// IsWriteOff returns true for types whose cost feeds the damage write-off
// term of the profit report
func (t AdjustmentType) IsWriteOff() bool {
	return t == AdjustmentTypeDamage || t == AdjustmentTypeExpired
}

// MovementType returns the ledger movement type recorded for this adjustment
func (t AdjustmentType) MovementType() MovementType {
	switch t {
	case AdjustmentTypeReturn:
		return MovementTypeReturn
	case AdjustmentTypeDamage:
		return MovementTypeDamage
	case AdjustmentTypeExpired:
		return MovementTypeExpired
	case AdjustmentTypeLost:
		return MovementTypeLost
	case AdjustmentTypeFound:
		return MovementTypeFound
	default:
		return MovementTypeCorrection
	}
}

// ReturnAction determines what happens to returned goods
type ReturnAction string

const (
	// ReturnActionRestock puts returned goods back into the batch
	ReturnActionRestock ReturnAction = "RESTOCK"
	// ReturnActionScrap discards returned goods; the invoice is still
	// credited but the cost stays lost
	ReturnActionScrap ReturnAction = "SCRAP"
)

// IsValid returns true if the return action is valid
func (a ReturnAction) IsValid() bool {
	return a == ReturnActionRestock || a == ReturnActionScrap
}

// StockAdjustment is an immutable record of a non-sale stock movement.
// Each AdjustmentType is a distinct variant created through its own
// constructor; RETURN is the only variant carrying InvoiceID and
// ReturnAction, and CORRECTION is the only variant whose quantity may be
// negative. Undoing an adjustment means creating a compensating one that
// references the original in its reason, never mutating or deleting.
type StockAdjustment struct {
	shared.BaseEntity
	Type         AdjustmentType  `gorm:"type:varchar(20);not null;index"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Signed only for CORRECTION
	Reason       string          `gorm:"type:varchar(255)"`
	InvoiceID    *uuid.UUID      `gorm:"type:uuid;index"`     // RETURN only
	ReturnAction *ReturnAction   `gorm:"type:varchar(20)"`    // RETURN only
	ReturnValue  decimal.Decimal `gorm:"type:decimal(18,4)"`  // RETURN only: invoice credit amount
}

// TableName returns the table name for GORM
func (StockAdjustment) TableName() string {
	return "stock_adjustments"
}

// NewReturnAdjustment creates a RETURN adjustment. ReturnValue is the
// amount credited to the originating invoice and is computed by the
// adjustment processor from the invoice line's billed price.
func NewReturnAdjustment(productID, batchID, invoiceID uuid.UUID, quantity decimal.Decimal, action ReturnAction, returnValue decimal.Decimal, reason string) (*StockAdjustment, error) {
	if err := validateAdjustmentTarget(productID, batchID); err != nil {
		return nil, err
	}
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Return adjustment requires an invoice")
	}
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_RETURN_ACTION", "Return action must be RESTOCK or SCRAP")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Return quantity must be positive")
	}
	if returnValue.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Return value cannot be negative")
	}

	adj := newAdjustment(AdjustmentTypeReturn, productID, batchID, quantity, reason)
	adj.InvoiceID = &invoiceID
	adj.ReturnAction = &action
	adj.ReturnValue = returnValue
	return adj, nil
}

// NewWriteOffAdjustment creates a DAMAGE, EXPIRED or LOST adjustment
func NewWriteOffAdjustment(adjustmentType AdjustmentType, productID, batchID uuid.UUID, quantity decimal.Decimal, reason string) (*StockAdjustment, error) {
	if adjustmentType != AdjustmentTypeDamage && adjustmentType != AdjustmentTypeExpired && adjustmentType != AdjustmentTypeLost {
		return nil, shared.NewDomainError("INVALID_ADJUSTMENT_TYPE", "Write-off adjustment must be DAMAGE, EXPIRED or LOST")
	}
	if err := validateAdjustmentTarget(productID, batchID); err != nil {
		return nil, err
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Write-off quantity must be positive")
	}

	return newAdjustment(adjustmentType, productID, batchID, quantity, reason), nil
}

// NewFoundAdjustment creates a FOUND adjustment (stock discovered outside
// the books)
func NewFoundAdjustment(productID, batchID uuid.UUID, quantity decimal.Decimal, reason string) (*StockAdjustment, error) {
	if err := validateAdjustmentTarget(productID, batchID); err != nil {
		return nil, err
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Found quantity must be positive")
	}

	return newAdjustment(AdjustmentTypeFound, productID, batchID, quantity, reason), nil
}

// NewCorrectionAdjustment creates a CORRECTION adjustment with a signed
// quantity: positive increases the balance, negative decreases it.
func NewCorrectionAdjustment(productID, batchID uuid.UUID, quantity decimal.Decimal, reason string) (*StockAdjustment, error) {
	if err := validateAdjustmentTarget(productID, batchID); err != nil {
		return nil, err
	}
	if quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Correction quantity cannot be zero")
	}

	return newAdjustment(AdjustmentTypeCorrection, productID, batchID, quantity, reason), nil
}

func newAdjustment(adjustmentType AdjustmentType, productID, batchID uuid.UUID, quantity decimal.Decimal, reason string) *StockAdjustment {
	return &StockAdjustment{
		BaseEntity: shared.NewBaseEntity(),
		Type:       adjustmentType,
		ProductID:  productID,
		BatchID:    batchID,
		Quantity:   quantity,
		Reason:     reason,
	}
}

func validateAdjustmentTarget(productID, batchID uuid.UUID) error {
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if batchID == uuid.Nil {
		return shared.NewDomainError("INVALID_BATCH", "Batch ID cannot be empty")
	}
	return nil
}

// IsRestock returns true for RETURN adjustments that put stock back
func (a *StockAdjustment) IsRestock() bool {
	return a.Type == AdjustmentTypeReturn && a.ReturnAction != nil && *a.ReturnAction == ReturnActionRestock
}

// IsScrap returns true for RETURN adjustments that discard returned goods
func (a *StockAdjustment) IsScrap() bool {
	return a.Type == AdjustmentTypeReturn && a.ReturnAction != nil && *a.ReturnAction == ReturnActionScrap
}

// AbsQuantity returns the magnitude of the adjustment quantity
func (a *StockAdjustment) AbsQuantity() decimal.Decimal {
	return a.Quantity.Abs()
}
