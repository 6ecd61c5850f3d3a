package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/inventory"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AdjustmentService processes post-sale stock adjustments: customer
// returns, write-offs and balance corrections. Each adjustment mutates
// the batch, appends its ledger entry and (for returns) credits the
// invoice, all in one transaction. Adjustment records are immutable;
// undoing one means creating a compensating adjustment that references
// the original in its reason.
type AdjustmentService struct {
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	storeTimeout   time.Duration
}

// NewAdjustmentService creates a new AdjustmentService
func NewAdjustmentService(txScope TransactionScope, storeTimeout time.Duration) *AdjustmentService {
	return &AdjustmentService{
		txScope:      txScope,
		storeTimeout: storeTimeout,
	}
}

// SetEventPublisher sets the event publisher for advisory notifications
func (s *AdjustmentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Return processes a customer return against a confirmed invoice. The
// returnable ceiling is sold quantity minus prior returns for the same
// (invoice, product, batch); requests above it are rejected. RESTOCK
// puts the goods back into the batch, SCRAP discards them — the invoice
// is credited identically either way.
func (s *AdjustmentService) Return(ctx context.Context, req ReturnAdjustmentRequest) (*AdjustmentResponse, error) {
	ctx, cancel := s.boundStoreCall(ctx)
	defer cancel()

	action := inventory.ReturnAction(req.ReturnAction)
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_RETURN_ACTION", "Return action must be RESTOCK or SCRAP")
	}
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Return quantity must be positive")
	}

	var adjustment *inventory.StockAdjustment
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoice, err := repos.InvoiceRepo().FindByID(ctx, req.InvoiceID)
		if err != nil {
			return err
		}
		if !invoice.Status.IsSettleable() {
			return shared.NewDomainError("INVALID_STATE", "Returns require a confirmed invoice")
		}

		line := invoice.GetLineByProductBatch(req.ProductID, req.BatchID)
		if line == nil {
			return shared.NewDomainError("LINE_NOT_FOUND", "Invoice has no line for the given product and batch")
		}

		sold := line.RequiredQuantity()
		alreadyReturned, err := repos.AdjustmentRepo().SumReturnedQuantity(ctx, invoice.ID, req.ProductID, req.BatchID)
		if err != nil {
			return err
		}
		maxReturnable := sold.Sub(alreadyReturned)
		if req.Quantity.GreaterThan(maxReturnable) {
			return inventory.NewExceedsReturnableError(invoice.ID, req.ProductID, req.BatchID, req.Quantity, maxReturnable)
		}

		batch, err := repos.BatchRepo().FindByID(ctx, req.BatchID)
		if err != nil {
			return err
		}

		// Credit prorated over sold units so partial and free-unit
		// returns credit consistently
		returnValue := line.LineTotal.Mul(req.Quantity).Div(sold)

		adjustment, err = inventory.NewReturnAdjustment(req.ProductID, req.BatchID, invoice.ID, req.Quantity, action, returnValue, req.Reason)
		if err != nil {
			return err
		}

		if action == inventory.ReturnActionRestock {
			if err := batch.Restock(req.Quantity); err != nil {
				return err
			}
			entry, err := inventory.NewInboundEntry(req.ProductID, batch.ID, inventory.MovementTypeReturn, req.Quantity, batch.UnitCost, invoice.InvoiceNumber)
			if err != nil {
				return err
			}
			if err := repos.LedgerRepo().Create(ctx, entry); err != nil {
				return err
			}
			if err := repos.BatchRepo().SaveWithLock(ctx, batch); err != nil {
				return err
			}
		}

		if err := invoice.CreditReturn(returnValue); err != nil {
			return err
		}
		if err := repos.InvoiceRepo().SaveWithLock(ctx, invoice); err != nil {
			return err
		}

		return repos.AdjustmentRepo().Create(ctx, adjustment)
	})
	if err != nil {
		return nil, err
	}

	response := ToAdjustmentResponse(adjustment, false)
	return &response, nil
}

// WriteOff writes stock off as DAMAGE, EXPIRED or LOST. The batch must
// hold at least the written-off quantity.
func (s *AdjustmentService) WriteOff(ctx context.Context, req WriteOffAdjustmentRequest) (*AdjustmentResponse, error) {
	ctx, cancel := s.boundStoreCall(ctx)
	defer cancel()

	adjustmentType := inventory.AdjustmentType(req.Type)

	var adjustment *inventory.StockAdjustment
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		batch, err := repos.BatchRepo().FindByID(ctx, req.BatchID)
		if err != nil {
			return err
		}
		if batch.ProductID != req.ProductID {
			return shared.NewDomainError("BATCH_MISMATCH", "Batch does not belong to the requested product")
		}

		adjustment, err = inventory.NewWriteOffAdjustment(adjustmentType, req.ProductID, req.BatchID, req.Quantity, req.Reason)
		if err != nil {
			return err
		}

		if err := batch.Deduct(req.Quantity); err != nil {
			return err
		}
		entry, err := inventory.NewOutboundEntry(req.ProductID, batch.ID, adjustmentType.MovementType(), req.Quantity, batch.UnitCost, req.Reason)
		if err != nil {
			return err
		}
		if err := repos.LedgerRepo().Create(ctx, entry); err != nil {
			return err
		}
		if err := repos.BatchRepo().SaveWithLock(ctx, batch); err != nil {
			return err
		}

		return repos.AdjustmentRepo().Create(ctx, adjustment)
	})
	if err != nil {
		return nil, err
	}

	response := ToAdjustmentResponse(adjustment, false)
	return &response, nil
}

// Found books stock discovered outside the records into its batch
func (s *AdjustmentService) Found(ctx context.Context, req FoundAdjustmentRequest) (*AdjustmentResponse, error) {
	ctx, cancel := s.boundStoreCall(ctx)
	defer cancel()

	var adjustment *inventory.StockAdjustment
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		batch, err := repos.BatchRepo().FindByID(ctx, req.BatchID)
		if err != nil {
			return err
		}
		if batch.ProductID != req.ProductID {
			return shared.NewDomainError("BATCH_MISMATCH", "Batch does not belong to the requested product")
		}

		adjustment, err = inventory.NewFoundAdjustment(req.ProductID, req.BatchID, req.Quantity, req.Reason)
		if err != nil {
			return err
		}

		if err := batch.Restock(req.Quantity); err != nil {
			return err
		}
		entry, err := inventory.NewInboundEntry(req.ProductID, batch.ID, inventory.MovementTypeFound, req.Quantity, batch.UnitCost, req.Reason)
		if err != nil {
			return err
		}
		if err := repos.LedgerRepo().Create(ctx, entry); err != nil {
			return err
		}
		if err := repos.BatchRepo().SaveWithLock(ctx, batch); err != nil {
			return err
		}

		return repos.AdjustmentRepo().Create(ctx, adjustment)
	})
	if err != nil {
		return nil, err
	}

	response := ToAdjustmentResponse(adjustment, false)
	return &response, nil
}

// Correct applies a signed balance correction. A reduction larger than
// the balance clamps the balance to zero instead of going negative; the
// clamp is surfaced in the response and as an advisory event rather
// than silently swallowed.
func (s *AdjustmentService) Correct(ctx context.Context, req CorrectionAdjustmentRequest) (*AdjustmentResponse, error) {
	ctx, cancel := s.boundStoreCall(ctx)
	defer cancel()

	var adjustment *inventory.StockAdjustment
	var clamped bool
	var clampEvents []shared.DomainEvent
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		batch, err := repos.BatchRepo().FindByID(ctx, req.BatchID)
		if err != nil {
			return err
		}
		if batch.ProductID != req.ProductID {
			return shared.NewDomainError("BATCH_MISMATCH", "Batch does not belong to the requested product")
		}

		adjustment, err = inventory.NewCorrectionAdjustment(req.ProductID, req.BatchID, req.Quantity, req.Reason)
		if err != nil {
			return err
		}

		var applied decimal.Decimal
		applied, clamped = batch.ApplySignedDelta(req.Quantity)

		// The ledger records what actually happened, not what was asked
		if !applied.IsZero() {
			var entry *inventory.StockLedgerEntry
			if applied.IsPositive() {
				entry, err = inventory.NewInboundEntry(req.ProductID, batch.ID, inventory.MovementTypeCorrection, applied, batch.UnitCost, req.Reason)
			} else {
				entry, err = inventory.NewOutboundEntry(req.ProductID, batch.ID, inventory.MovementTypeCorrection, applied.Abs(), batch.UnitCost, req.Reason)
			}
			if err != nil {
				return err
			}
			if err := repos.LedgerRepo().Create(ctx, entry); err != nil {
				return err
			}
		}

		clampEvents = batch.GetDomainEvents()
		if err := repos.BatchRepo().SaveWithLock(ctx, batch); err != nil {
			return err
		}
		batch.ClearDomainEvents()

		return repos.AdjustmentRepo().Create(ctx, adjustment)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, clampEvents)

	response := ToAdjustmentResponse(adjustment, clamped)
	return &response, nil
}

// ListByInvoice returns the adjustments recorded against an invoice
func (s *AdjustmentService) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]AdjustmentResponse, error) {
	var adjustments []inventory.StockAdjustment
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		adjustments, err = repos.AdjustmentRepo().FindByInvoice(ctx, invoiceID)
		return err
	})
	if err != nil {
		return nil, err
	}

	responses := make([]AdjustmentResponse, 0, len(adjustments))
	for idx := range adjustments {
		responses = append(responses, ToAdjustmentResponse(&adjustments[idx], false))
	}
	return responses, nil
}

func (s *AdjustmentService) boundStoreCall(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout > 0 {
		return context.WithTimeout(ctx, s.storeTimeout)
	}
	return ctx, func() {}
}

func (s *AdjustmentService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
