package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BatchLotRepository defines the interface for batch lot persistence
type BatchLotRepository interface {
	// FindByID finds a batch by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*BatchLot, error)

	// FindByProduct finds all batches of a product
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]BatchLot, error)

	// FindAvailableByProduct finds batches sellable as of the given time,
	// ordered by the allocation key (expiry ascending, no expiry last)
	FindAvailableByProduct(ctx context.Context, productID uuid.UUID, asOf time.Time) ([]BatchLot, error)

	// FindExpiringWithin finds batches with stock expiring inside the window
	FindExpiringWithin(ctx context.Context, window time.Duration, filter shared.Filter) ([]BatchLot, error)

	// FindAll finds all batches matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]BatchLot, error)

	// SumAvailableByProduct sums the sellable quantity of a product
	SumAvailableByProduct(ctx context.Context, productID uuid.UUID, asOf time.Time) (decimal.Decimal, error)

	// Save creates or updates a batch
	Save(ctx context.Context, batch *BatchLot) error

	// SaveWithLock saves with an optimistic version check; returns
	// shared.ErrConcurrencyConflict when the stored version has moved
	SaveWithLock(ctx context.Context, batch *BatchLot) error
}

// StockLedgerRepository defines the interface for the append-only ledger.
// Entries are never updated or deleted.
type StockLedgerRepository interface {
	// Create appends a ledger entry
	Create(ctx context.Context, entry *StockLedgerEntry) error

	// CreateBatch appends multiple ledger entries
	CreateBatch(ctx context.Context, entries []*StockLedgerEntry) error

	// FindByBatch finds all entries for a batch in creation order
	FindByBatch(ctx context.Context, batchID uuid.UUID) ([]StockLedgerEntry, error)

	// FindByProduct finds entries for a product
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]StockLedgerEntry, error)

	// FindByDateRange finds entries created within a window
	FindByDateRange(ctx context.Context, start, end time.Time, filter shared.Filter) ([]StockLedgerEntry, error)

	// SumMovements returns (Σ quantity_in, Σ quantity_out) for a batch
	SumMovements(ctx context.Context, batchID uuid.UUID) (decimal.Decimal, decimal.Decimal, error)
}

// StockAdjustmentRepository defines the interface for adjustment persistence.
// Adjustments are immutable once created.
type StockAdjustmentRepository interface {
	// Create persists a new adjustment
	Create(ctx context.Context, adjustment *StockAdjustment) error

	// FindByID finds an adjustment by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockAdjustment, error)

	// FindByInvoice finds adjustments referencing an invoice
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]StockAdjustment, error)

	// FindByDateRange finds adjustments created within a window
	FindByDateRange(ctx context.Context, start, end time.Time, filter shared.Filter) ([]StockAdjustment, error)

	// SumReturnedQuantity sums prior RETURN quantities for an
	// (invoice, product, batch) triple; feeds the returnable ceiling
	SumReturnedQuantity(ctx context.Context, invoiceID, productID, batchID uuid.UUID) (decimal.Decimal, error)
}
