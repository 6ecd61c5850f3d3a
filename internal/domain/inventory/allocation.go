package inventory

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AllocationMode defines how a batch is chosen when the caller does not
// specify one explicitly (e.g., converting a quotation into an invoice)
type AllocationMode string

const (
	// AllocationModeSingleBatch picks the single earliest-expiring batch
	// that can cover the whole requested quantity. This is the default:
	// a line is never split across batches even when the sum of several
	// batches would suffice.
	AllocationModeSingleBatch AllocationMode = "SINGLE_BATCH"
	// AllocationModeMultiBatch splits the requested quantity across
	// batches in expiry order. Opt-in extension, never the default.
	AllocationModeMultiBatch AllocationMode = "MULTI_BATCH"
)

// IsValid returns true if the allocation mode is valid
func (m AllocationMode) IsValid() bool {
	return m == AllocationModeSingleBatch || m == AllocationModeMultiBatch
}

// BatchAllocation is one slice of an allocation result
type BatchAllocation struct {
	BatchID   uuid.UUID
	LotNumber string
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
}

// SortByExpiry sorts batches for allocation: earliest expiry first,
// batches without an expiry date last (they never expire), creation time
// as the tie-breaker. The input slice is sorted in place.
func SortByExpiry(batches []BatchLot) {
	sort.SliceStable(batches, func(i, j int) bool {
		bi, bj := batches[i], batches[j]
		switch {
		case bi.ExpiryDate != nil && bj.ExpiryDate != nil:
			if !bi.ExpiryDate.Equal(*bj.ExpiryDate) {
				return bi.ExpiryDate.Before(*bj.ExpiryDate)
			}
		case bi.ExpiryDate != nil:
			return true
		case bj.ExpiryDate != nil:
			return false
		}
		return bi.CreatedAt.Before(bj.CreatedAt)
	})
}

// AvailableBatches filters batches sellable as of the given time (positive
// balance, not expired) and returns them in allocation order
func AvailableBatches(batches []BatchLot, asOf time.Time) []BatchLot {
	available := make([]BatchLot, 0, len(batches))
	for _, batch := range batches {
		if batch.IsAvailableAt(asOf) {
			available = append(available, batch)
		}
	}
	SortByExpiry(available)
	return available
}

// TotalAvailable sums the sellable quantity across batches as of the given time
func TotalAvailable(batches []BatchLot, asOf time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, batch := range batches {
		if batch.IsAvailableAt(asOf) {
			total = total.Add(batch.Quantity)
		}
	}
	return total
}

// SelectSingleBatch picks the earliest-expiring available batch whose
// balance covers the whole requested quantity. If no single batch
// suffices the selection fails with InsufficientStockError even when the
// sum across batches would cover it.
func SelectSingleBatch(productID uuid.UUID, batches []BatchLot, required decimal.Decimal, asOf time.Time) (*BatchLot, error) {
	if required.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Required quantity must be positive")
	}

	available := AvailableBatches(batches, asOf)
	for i := range available {
		if available[i].Quantity.GreaterThanOrEqual(required) {
			selected := available[i]
			return &selected, nil
		}
	}

	return nil, NewInsufficientStockError(productID, uuid.Nil, TotalAvailable(batches, asOf), required)
}

// SelectMultiBatch splits the requested quantity across available batches
// in expiry order. Fails with InsufficientStockError when the aggregate
// available quantity cannot cover the request.
func SelectMultiBatch(productID uuid.UUID, batches []BatchLot, required decimal.Decimal, asOf time.Time) ([]BatchAllocation, error) {
	if required.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Required quantity must be positive")
	}

	available := AvailableBatches(batches, asOf)
	remaining := required
	allocations := make([]BatchAllocation, 0, len(available))
	for _, batch := range available {
		if remaining.IsZero() {
			break
		}
		take := decimal.Min(remaining, batch.Quantity)
		allocations = append(allocations, BatchAllocation{
			BatchID:   batch.ID,
			LotNumber: batch.LotNumber,
			Quantity:  take,
			UnitCost:  batch.UnitCost,
		})
		remaining = remaining.Sub(take)
	}

	if remaining.GreaterThan(decimal.Zero) {
		return nil, NewInsufficientStockError(productID, uuid.Nil, TotalAvailable(batches, asOf), required)
	}
	return allocations, nil
}
