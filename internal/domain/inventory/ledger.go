package inventory

import (
	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MovementType tags a stock ledger entry with the reason for the movement
type MovementType string

const (
	// MovementTypeOpening records the opening balance of a batch
	MovementTypeOpening MovementType = "OPENING"
	// MovementTypePurchase records stock received from a supplier
	MovementTypePurchase MovementType = "PURCHASE"
	// MovementTypeSale records stock deducted by an invoice confirmation
	MovementTypeSale MovementType = "SALE"
	// MovementTypeReturn records stock restocked by a customer return
	MovementTypeReturn MovementType = "RETURN"
	// MovementTypeDamage records stock written off as damaged
	MovementTypeDamage MovementType = "DAMAGE"
	// MovementTypeExpired records stock written off as expired
	MovementTypeExpired MovementType = "EXPIRED"
	// MovementTypeLost records stock written off as lost
	MovementTypeLost MovementType = "LOST"
	// MovementTypeFound records stock discovered outside the books
	MovementTypeFound MovementType = "FOUND"
	// MovementTypeCorrection records a manual balance correction
	MovementTypeCorrection MovementType = "CORRECTION"
)

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeOpening,
		MovementTypePurchase,
		MovementTypeSale,
		MovementTypeReturn,
		MovementTypeDamage,
		MovementTypeExpired,
		MovementTypeLost,
		MovementTypeFound,
		MovementTypeCorrection:
		return true
	}
	return false
}

// StockLedgerEntry is an immutable record of a stock movement against a
// batch. Entries are append-only; corrections are new entries, never
// mutations. The ledger is the audit trail used to reconcile a batch's
// balance: quantity == Σ QuantityIn − Σ QuantityOut.
type StockLedgerEntry struct {
	shared.BaseEntity
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type        MovementType    `gorm:"type:varchar(20);not null;index"`
	QuantityIn  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	QuantityOut decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reference   string          `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (StockLedgerEntry) TableName() string {
	return "stock_ledger_entries"
}

// NewInboundEntry creates a ledger entry that increases the batch balance
func NewInboundEntry(productID, batchID uuid.UUID, movementType MovementType, quantity, unitCost decimal.Decimal, reference string) (*StockLedgerEntry, error) {
	return newEntry(productID, batchID, movementType, quantity, decimal.Zero, unitCost, reference)
}

// NewOutboundEntry creates a ledger entry that decreases the batch balance
func NewOutboundEntry(productID, batchID uuid.UUID, movementType MovementType, quantity, unitCost decimal.Decimal, reference string) (*StockLedgerEntry, error) {
	return newEntry(productID, batchID, movementType, decimal.Zero, quantity, unitCost, reference)
}

func newEntry(productID, batchID uuid.UUID, movementType MovementType, in, out, unitCost decimal.Decimal, reference string) (*StockLedgerEntry, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if batchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BATCH", "Batch ID cannot be empty")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Invalid movement type")
	}
	if in.IsNegative() || out.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Ledger quantities cannot be negative")
	}
	if in.IsZero() && out.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Ledger entry must move a positive quantity")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	return &StockLedgerEntry{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   productID,
		BatchID:     batchID,
		Type:        movementType,
		QuantityIn:  in,
		QuantityOut: out,
		UnitCost:    unitCost,
		Reference:   reference,
	}, nil
}

// SignedQuantity returns the net effect of the entry on the batch balance
func (e *StockLedgerEntry) SignedQuantity() decimal.Decimal {
	return e.QuantityIn.Sub(e.QuantityOut)
}

// IsInbound returns true if the entry increases the balance
func (e *StockLedgerEntry) IsInbound() bool {
	return e.QuantityIn.GreaterThan(decimal.Zero)
}

// TotalCost returns the cost value moved by this entry
func (e *StockLedgerEntry) TotalCost() decimal.Decimal {
	return e.QuantityIn.Add(e.QuantityOut).Mul(e.UnitCost)
}

// ReconcileBalance recomputes a batch balance from its ledger entries.
// The result must equal the batch's stored quantity at all times.
func ReconcileBalance(entries []StockLedgerEntry) decimal.Decimal {
	balance := decimal.Zero
	for _, entry := range entries {
		balance = balance.Add(entry.SignedQuantity())
	}
	return balance
}
