package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/catalog"
	"github.com/pharmstock/backend/internal/domain/inventory"
	"github.com/pharmstock/backend/internal/domain/shared"
)

// StockService receives stock into batches and answers availability,
// expiry and reconciliation queries. Every intake writes the batch and
// its ledger entry in one transaction.
type StockService struct {
	txScope      TransactionScope
	productRepo  catalog.ProductRepository
	storeTimeout time.Duration
}

// NewStockService creates a new StockService
func NewStockService(txScope TransactionScope, productRepo catalog.ProductRepository, storeTimeout time.Duration) *StockService {
	return &StockService{
		txScope:      txScope,
		productRepo:  productRepo,
		storeTimeout: storeTimeout,
	}
}

// Intake creates a batch from received stock and appends the matching
// OPENING or PURCHASE ledger entry
func (s *StockService) Intake(ctx context.Context, req StockIntakeRequest) (*BatchResponse, error) {
	ctx, cancel := s.boundStoreCall(ctx)
	defer cancel()

	movementType := inventory.MovementType(req.Source)
	if movementType != inventory.MovementTypeOpening && movementType != inventory.MovementTypePurchase {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Intake source must be OPENING or PURCHASE")
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	var batch *inventory.BatchLot
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		unitCost := req.UnitCost
		if unitCost.IsZero() {
			unitCost = product.CostPrice
		}

		var err error
		batch, err = inventory.NewBatchLot(product.ID, req.LotNumber, req.Quantity, unitCost, req.ExpiryDate)
		if err != nil {
			return err
		}
		if err := repos.BatchRepo().Save(ctx, batch); err != nil {
			return err
		}

		entry, err := inventory.NewInboundEntry(product.ID, batch.ID, movementType, req.Quantity, unitCost, req.Reference)
		if err != nil {
			return err
		}
		return repos.LedgerRepo().Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	response := ToBatchResponse(batch)
	return &response, nil
}

// AvailableBatches returns sellable batches of a product in allocation
// order
func (s *StockService) AvailableBatches(ctx context.Context, productID uuid.UUID) ([]BatchResponse, error) {
	var batches []inventory.BatchLot
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		batches, err = repos.BatchRepo().FindAvailableByProduct(ctx, productID, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToBatchResponses(batches), nil
}

// BatchesByProduct returns all batches of a product, sellable or not
func (s *StockService) BatchesByProduct(ctx context.Context, productID uuid.UUID) ([]BatchResponse, error) {
	var batches []inventory.BatchLot
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		batches, err = repos.BatchRepo().FindByProduct(ctx, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToBatchResponses(batches), nil
}

// ExpiringBatches returns batches with stock expiring within the window
func (s *StockService) ExpiringBatches(ctx context.Context, window time.Duration) ([]BatchResponse, error) {
	var batches []inventory.BatchLot
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		batches, err = repos.BatchRepo().FindExpiringWithin(ctx, window, shared.DefaultFilter())
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToBatchResponses(batches), nil
}

// Ledger returns the movement history of a batch in creation order
func (s *StockService) Ledger(ctx context.Context, batchID uuid.UUID) ([]LedgerEntryResponse, error) {
	var entries []inventory.StockLedgerEntry
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		entries, err = repos.LedgerRepo().FindByBatch(ctx, batchID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToLedgerEntryResponses(entries), nil
}

// Reconcile recomputes a batch balance from its ledger and compares it
// to the stored balance. A mismatch means an operation bypassed the
// ledger and must be investigated.
func (s *StockService) Reconcile(ctx context.Context, batchID uuid.UUID) (*ReconciliationResponse, error) {
	var response ReconciliationResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		batch, err := repos.BatchRepo().FindByID(ctx, batchID)
		if err != nil {
			return err
		}
		entries, err := repos.LedgerRepo().FindByBatch(ctx, batchID)
		if err != nil {
			return err
		}

		ledgerBalance := inventory.ReconcileBalance(entries)
		response = ReconciliationResponse{
			BatchID:       batch.ID,
			StoredBalance: batch.Quantity,
			LedgerBalance: ledgerBalance,
			Consistent:    batch.Quantity.Equal(ledgerBalance),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (s *StockService) boundStoreCall(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout > 0 {
		return context.WithTimeout(ctx, s.storeTimeout)
	}
	return ctx, func() {}
}
