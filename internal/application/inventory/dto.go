package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// StockIntakeRequest receives stock into a new batch. Source OPENING
// records an opening balance, PURCHASE stock received from a supplier.
type StockIntakeRequest struct {
	ProductID  uuid.UUID       `json:"product_id" binding:"required"`
	LotNumber  string          `json:"lot_number" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	ExpiryDate *time.Time      `json:"expiry_date"`
	Source     string          `json:"source" binding:"required,oneof=OPENING PURCHASE"`
	Reference  string          `json:"reference"`
}

// ReturnAdjustmentRequest records a customer return against an invoice
type ReturnAdjustmentRequest struct {
	InvoiceID    uuid.UUID       `json:"invoice_id" binding:"required"`
	ProductID    uuid.UUID       `json:"product_id" binding:"required"`
	BatchID      uuid.UUID       `json:"batch_id" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
	ReturnAction string          `json:"return_action" binding:"required,oneof=RESTOCK SCRAP"`
	Reason       string          `json:"reason"`
}

// WriteOffAdjustmentRequest writes stock off as DAMAGE, EXPIRED or LOST
type WriteOffAdjustmentRequest struct {
	Type      string          `json:"type" binding:"required,oneof=DAMAGE EXPIRED LOST"`
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	BatchID   uuid.UUID       `json:"batch_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Reason    string          `json:"reason"`
}

// FoundAdjustmentRequest books stock discovered outside the records
type FoundAdjustmentRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	BatchID   uuid.UUID       `json:"batch_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Reason    string          `json:"reason"`
}

// CorrectionAdjustmentRequest applies a signed balance correction
type CorrectionAdjustmentRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	BatchID   uuid.UUID       `json:"batch_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Reason    string          `json:"reason" binding:"required"`
}

// BatchResponse is the read model of a batch lot
type BatchResponse struct {
	ID         uuid.UUID       `json:"id"`
	ProductID  uuid.UUID       `json:"product_id"`
	LotNumber  string          `json:"lot_number"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	StockValue decimal.Decimal `json:"stock_value"`
	ExpiryDate *time.Time      `json:"expiry_date,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// AdjustmentResponse is the read model of a stock adjustment. Clamped
// reports that a negative correction exceeded the balance and the
// balance was clamped to zero; this flags a data-integrity problem.
type AdjustmentResponse struct {
	ID           uuid.UUID       `json:"id"`
	Type         string          `json:"type"`
	ProductID    uuid.UUID       `json:"product_id"`
	BatchID      uuid.UUID       `json:"batch_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reason       string          `json:"reason,omitempty"`
	InvoiceID    *uuid.UUID      `json:"invoice_id,omitempty"`
	ReturnAction *string         `json:"return_action,omitempty"`
	ReturnValue  decimal.Decimal `json:"return_value"`
	Clamped      bool            `json:"clamped,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// LedgerEntryResponse is the read model of a stock ledger entry
type LedgerEntryResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	BatchID     uuid.UUID       `json:"batch_id"`
	Type        string          `json:"type"`
	QuantityIn  decimal.Decimal `json:"quantity_in"`
	QuantityOut decimal.Decimal `json:"quantity_out"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Reference   string          `json:"reference,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ReconciliationResponse compares a batch's stored balance to the
// balance recomputed from its ledger
type ReconciliationResponse struct {
	BatchID       uuid.UUID       `json:"batch_id"`
	StoredBalance decimal.Decimal `json:"stored_balance"`
	LedgerBalance decimal.Decimal `json:"ledger_balance"`
	Consistent    bool            `json:"consistent"`
}

// ToBatchResponse converts a batch lot to its response
func ToBatchResponse(batch *inventory.BatchLot) BatchResponse {
	return BatchResponse{
		ID:         batch.ID,
		ProductID:  batch.ProductID,
		LotNumber:  batch.LotNumber,
		Quantity:   batch.Quantity,
		UnitCost:   batch.UnitCost,
		StockValue: batch.StockValue(),
		ExpiryDate: batch.ExpiryDate,
		CreatedAt:  batch.CreatedAt,
		UpdatedAt:  batch.UpdatedAt,
	}
}

// ToBatchResponses converts batch lots to responses
func ToBatchResponses(batches []inventory.BatchLot) []BatchResponse {
	responses := make([]BatchResponse, 0, len(batches))
	for idx := range batches {
		responses = append(responses, ToBatchResponse(&batches[idx]))
	}
	return responses
}

// ToAdjustmentResponse converts an adjustment to its response
func ToAdjustmentResponse(adjustment *inventory.StockAdjustment, clamped bool) AdjustmentResponse {
	var action *string
	if adjustment.ReturnAction != nil {
		a := string(*adjustment.ReturnAction)
		action = &a
	}
	return AdjustmentResponse{
		ID:           adjustment.ID,
		Type:         adjustment.Type.String(),
		ProductID:    adjustment.ProductID,
		BatchID:      adjustment.BatchID,
		Quantity:     adjustment.Quantity,
		Reason:       adjustment.Reason,
		InvoiceID:    adjustment.InvoiceID,
		ReturnAction: action,
		ReturnValue:  adjustment.ReturnValue,
		Clamped:      clamped,
		CreatedAt:    adjustment.CreatedAt,
	}
}

// ToLedgerEntryResponses converts ledger entries to responses
func ToLedgerEntryResponses(entries []inventory.StockLedgerEntry) []LedgerEntryResponse {
	responses := make([]LedgerEntryResponse, 0, len(entries))
	for idx := range entries {
		entry := &entries[idx]
		responses = append(responses, LedgerEntryResponse{
			ID:          entry.ID,
			ProductID:   entry.ProductID,
			BatchID:     entry.BatchID,
			Type:        entry.Type.String(),
			QuantityIn:  entry.QuantityIn,
			QuantityOut: entry.QuantityOut,
			UnitCost:    entry.UnitCost,
			Reference:   entry.Reference,
			CreatedAt:   entry.CreatedAt,
		})
	}
	return responses
}
