package inventory

import (
	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the inventory domain
const (
	EventTypeLowStock       = "inventory.low_stock"
	EventTypeOutOfStock     = "inventory.out_of_stock"
	EventTypeBalanceClamped = "inventory.balance_clamped"
)

// LowStockEvent is an advisory emitted after a confirmation leaves a batch
// at or below the configured threshold. It never blocks the operation.
type LowStockEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	BatchID   uuid.UUID       `json:"batch_id"`
	LotNumber string          `json:"lot_number"`
	Remaining decimal.Decimal `json:"remaining"`
	Threshold decimal.Decimal `json:"threshold"`
}

// NewLowStockEvent creates a new LowStockEvent
func NewLowStockEvent(batch *BatchLot, remaining, threshold decimal.Decimal) *LowStockEvent {
	return &LowStockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLowStock, "BatchLot", batch.ID),
		ProductID:       batch.ProductID,
		BatchID:         batch.ID,
		LotNumber:       batch.LotNumber,
		Remaining:       remaining,
		Threshold:       threshold,
	}
}

// OutOfStockEvent is an advisory emitted when a confirmation empties a batch
type OutOfStockEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	BatchID   uuid.UUID `json:"batch_id"`
	LotNumber string    `json:"lot_number"`
}

// NewOutOfStockEvent creates a new OutOfStockEvent
func NewOutOfStockEvent(batch *BatchLot) *OutOfStockEvent {
	return &OutOfStockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOutOfStock, "BatchLot", batch.ID),
		ProductID:       batch.ProductID,
		BatchID:         batch.ID,
		LotNumber:       batch.LotNumber,
	}
}

// BalanceClampedEvent flags a correction that asked for more reduction than
// the batch balance held. The balance was clamped to zero instead of going
// negative; this indicates a data-integrity problem and must be surfaced,
// not silently swallowed.
type BalanceClampedEvent struct {
	shared.BaseDomainEvent
	ProductID      uuid.UUID       `json:"product_id"`
	BatchID        uuid.UUID       `json:"batch_id"`
	RequestedDelta decimal.Decimal `json:"requested_delta"`
	AppliedDelta   decimal.Decimal `json:"applied_delta"`
}

// NewBalanceClampedEvent creates a new BalanceClampedEvent
func NewBalanceClampedEvent(batch *BatchLot, requested, applied decimal.Decimal) *BalanceClampedEvent {
	return &BalanceClampedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBalanceClamped, "BatchLot", batch.ID),
		ProductID:       batch.ProductID,
		BatchID:         batch.ID,
		RequestedDelta:  requested,
		AppliedDelta:    applied,
	}
}
