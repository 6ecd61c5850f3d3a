package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/billing"
	"github.com/pharmstock/backend/internal/domain/inventory"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// capturingPublisher records published events for assertions
type capturingPublisher struct {
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

type adjustmentFixture struct {
	service        *AdjustmentService
	batchRepo      *MockBatchLotRepository
	ledgerRepo     *MockStockLedgerRepository
	adjustmentRepo *MockStockAdjustmentRepository
	invoiceRepo    *MockInvoiceRepository
	publisher      *capturingPublisher
}

func newAdjustmentFixture() *adjustmentFixture {
	f := &adjustmentFixture{
		batchRepo:      new(MockBatchLotRepository),
		ledgerRepo:     new(MockStockLedgerRepository),
		adjustmentRepo: new(MockStockAdjustmentRepository),
		invoiceRepo:    new(MockInvoiceRepository),
		publisher:      &capturingPublisher{},
	}
	txScope := NewNoOpTransactionScope(f.batchRepo, f.ledgerRepo, f.adjustmentRepo, f.invoiceRepo)
	f.service = NewAdjustmentService(txScope, 0)
	f.service.SetEventPublisher(f.publisher)
	return f
}

func newTestBatch(productID uuid.UUID, qty int64) *inventory.BatchLot {
	expiry := time.Now().AddDate(1, 0, 0)
	batch, _ := inventory.NewBatchLot(productID, "LOT-T", decimal.NewFromInt(qty), decimal.NewFromInt(40), &expiry)
	return batch
}

// confirmedInvoice builds a settled invoice with one line: paid+free
// units sold from the batch at trade price 60
func confirmedInvoice(t *testing.T, productID uuid.UUID, batch *inventory.BatchLot, paidQty, freeQty int64) *billing.Invoice {
	t.Helper()
	invoice, err := billing.NewInvoice("INV-2026-00010", uuid.New(), "City Pharmacy", nil, "")
	require.NoError(t, err)
	_, err = invoice.AddLine(
		productID, "Paracetamol", nil, batch.ID, batch.LotNumber,
		decimal.NewFromInt(paidQty), decimal.NewFromInt(freeQty),
		decimal.NewFromInt(80), decimal.NewFromInt(60), decimal.NewFromInt(40),
		billing.DiscountTypeAmount, decimal.Zero,
	)
	require.NoError(t, err)
	require.NoError(t, invoice.Confirm())
	invoice.ClearDomainEvents()
	return invoice
}

func TestAdjustmentService_Return(t *testing.T) {
	ctx := context.Background()

	t.Run("restock puts goods back and credits the invoice", func(t *testing.T) {
		f := newAdjustmentFixture()
		productID := uuid.New()
		batch := newTestBatch(productID, 88)
		invoice := confirmedInvoice(t, productID, batch, 10, 2) // sold 12, total 600

		var savedEntry *inventory.StockLedgerEntry
		f.invoiceRepo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)
		f.adjustmentRepo.On("SumReturnedQuantity", mock.Anything, invoice.ID, productID, batch.ID).Return(decimal.Zero, nil)
		f.batchRepo.On("FindByID", mock.Anything, batch.ID).Return(batch, nil)
		f.ledgerRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			savedEntry = args.Get(1).(*inventory.StockLedgerEntry)
		}).Return(nil)
		f.batchRepo.On("SaveWithLock", mock.Anything, batch).Return(nil)
		f.invoiceRepo.On("SaveWithLock", mock.Anything, invoice).Return(nil)
		f.adjustmentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.service.Return(ctx, ReturnAdjustmentRequest{
			InvoiceID:    invoice.ID,
			ProductID:    productID,
			BatchID:      batch.ID,
			Quantity:     decimal.NewFromInt(5),
			ReturnAction: "RESTOCK",
			Reason:       "customer returned blister packs",
		})

		require.NoError(t, err)
		assert.Equal(t, "RETURN", resp.Type)
		// credit prorated over sold units: 600 x 5/12
		assert.True(t, resp.ReturnValue.Equal(decimal.NewFromInt(250)))
		assert.True(t, batch.Quantity.Equal(decimal.NewFromInt(93)))
		require.NotNil(t, savedEntry)
		assert.Equal(t, inventory.MovementTypeReturn, savedEntry.Type)
		assert.True(t, savedEntry.QuantityIn.Equal(decimal.NewFromInt(5)))
		assert.Equal(t, invoice.InvoiceNumber, savedEntry.Reference)
		// the credit lowers the invoice total and due
		assert.True(t, invoice.Total.Equal(decimal.NewFromInt(350)))
	})

	t.Run("scrap credits the invoice without touching the batch", func(t *testing.T) {
		f := newAdjustmentFixture()
		productID := uuid.New()
		batch := newTestBatch(productID, 88)
		invoice := confirmedInvoice(t, productID, batch, 10, 2)

		f.invoiceRepo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)
		f.adjustmentRepo.On("SumReturnedQuantity", mock.Anything, invoice.ID, productID, batch.ID).Return(decimal.Zero, nil)
		f.batchRepo.On("FindByID", mock.Anything, batch.ID).Return(batch, nil)
		f.invoiceRepo.On("SaveWithLock", mock.Anything, invoice).Return(nil)
		f.adjustmentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.service.Return(ctx, ReturnAdjustmentRequest{
			InvoiceID:    invoice.ID,
			ProductID:    productID,
			BatchID:      batch.ID,
			Quantity:     decimal.NewFromInt(5),
			ReturnAction: "SCRAP",
			Reason:       "returned damaged",
		})

		require.NoError(t, err)
		assert.True(t, resp.ReturnValue.Equal(decimal.NewFromInt(250)))
		assert.True(t, batch.Quantity.Equal(decimal.NewFromInt(88)))
		f.ledgerRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.batchRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("returns above the remaining ceiling are rejected", func(t *testing.T) {
		f := newAdjustmentFixture()
		productID := uuid.New()
		batch := newTestBatch(productID, 88)
		invoice := confirmedInvoice(t, productID, batch, 10, 2) // sold 12

		// everything already went back once
		f.invoiceRepo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)
		f.adjustmentRepo.On("SumReturnedQuantity", mock.Anything, invoice.ID, productID, batch.ID).Return(decimal.NewFromInt(12), nil)

		_, err := f.service.Return(ctx, ReturnAdjustmentRequest{
			InvoiceID:    invoice.ID,
			ProductID:    productID,
			BatchID:      batch.ID,
			Quantity:     decimal.NewFromInt(1),
			ReturnAction: "RESTOCK",
		})

		var returnErr *inventory.ExceedsReturnableError
		require.ErrorAs(t, err, &returnErr)
		assert.ErrorIs(t, err, shared.ErrExceedsReturnable)
		assert.True(t, returnErr.MaxReturnable.IsZero())
		f.adjustmentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("free units count toward the returnable ceiling", func(t *testing.T) {
		f := newAdjustmentFixture()
		productID := uuid.New()
		batch := newTestBatch(productID, 88)
		invoice := confirmedInvoice(t, productID, batch, 10, 2)

		f.invoiceRepo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)
		f.adjustmentRepo.On("SumReturnedQuantity", mock.Anything, invoice.ID, productID, batch.ID).Return(decimal.NewFromInt(7), nil)
		f.batchRepo.On("FindByID", mock.Anything, batch.ID).Return(batch, nil)
		f.ledgerRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.batchRepo.On("SaveWithLock", mock.Anything, batch).Return(nil)
		f.invoiceRepo.On("SaveWithLock", mock.Anything, invoice).Return(nil)
		f.adjustmentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		// 12 sold, 7 returned: exactly 5 left
		_, err := f.service.Return(ctx, ReturnAdjustmentRequest{
			InvoiceID:    invoice.ID,
			ProductID:    productID,
			BatchID:      batch.ID,
			Quantity:     decimal.NewFromInt(5),
			ReturnAction: "RESTOCK",
		})
		require.NoError(t, err)

		// the sixth is one too many
		f2 := newAdjustmentFixture()
		f2.invoiceRepo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)
		f2.adjustmentRepo.On("SumReturnedQuantity", mock.Anything, invoice.ID, productID, batch.ID).Return(decimal.NewFromInt(12), nil)

		_, err = f2.service.Return(ctx, ReturnAdjustmentRequest{
			InvoiceID:    invoice.ID,
			ProductID:    productID,
			BatchID:      batch.ID,
			Quantity:     decimal.NewFromInt(1),
			ReturnAction: "RESTOCK",
		})
		assert.ErrorIs(t, err, shared.ErrExceedsReturnable)
	})

	t.Run("returns against a draft invoice are rejected", func(t *testing.T) {
		f := newAdjustmentFixture()
		productID := uuid.New()
		batch := newTestBatch(productID, 88)
		invoice, err := billing.NewInvoice("INV-2026-00011", uuid.New(), "City Pharmacy", nil, "")
		require.NoError(t, err)

		f.invoiceRepo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)

		_, err = f.service.Return(ctx, ReturnAdjustmentRequest{
			InvoiceID:    invoice.ID,
			ProductID:    productID,
			BatchID:      batch.ID,
			Quantity:     decimal.NewFromInt(1),
			ReturnAction: "RESTOCK",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("unknown product and batch pair is rejected", func(t *testing.T) {
		f := newAdjustmentFixture()
		productID := uuid.New()
		batch := newTestBatch(productID, 88)
		invoice := confirmedInvoice(t, productID, batch, 10, 2)

		f.invoiceRepo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)

		_, err := f.service.Return(ctx, ReturnAdjustmentRequest{
			InvoiceID:    invoice.ID,
			ProductID:    uuid.New(),
			BatchID:      batch.ID,
			Quantity:     decimal.NewFromInt(1),
			ReturnAction: "RESTOCK",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "LINE_NOT_FOUND", domainErr.Code)
	})

	t.Run("validates action and quantity up front", func(t *testing.T) {
		f := newAdjustmentFixture()

		_, err := f.service.Return(ctx, ReturnAdjustmentRequest{
			InvoiceID: uuid.New(), ProductID: uuid.New(), BatchID: uuid.New(),
			Quantity: decimal.NewFromInt(1), ReturnAction: "DISCARD",
		})
		assert.Error(t, err)

		_, err = f.service.Return(ctx, ReturnAdjustmentRequest{
			InvoiceID: uuid.New(), ProductID: uuid.New(), BatchID: uuid.New(),
			Quantity: decimal.NewFromInt(-1), ReturnAction: "RESTOCK",
		})
		assert.Error(t, err)
		f.invoiceRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestAdjustmentService_WriteOff(t *testing.T) {
	ctx := context.Background()

	t.Run("damage write-off deducts and records the movement", func(t *testing.T) {
		f := newAdjustmentFixture()
		productID := uuid.New()
		batch := newTestBatch(productID, 100)

		var savedEntry *inventory.StockLedgerEntry
		f.batchRepo.On("FindByID", mock.Anything, batch.ID).Return(batch, nil)
		f.ledgerRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			savedEntry = args.Get(1).(*inventory.StockLedgerEntry)
		}).Return(nil)
		f.batchRepo.On("SaveWithLock", mock.Anything, batch).Return(nil)
		f.adjustmentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.service.WriteOff(ctx, WriteOffAdjustmentRequest{
			Type:      "DAMAGE",
			ProductID: productID,
			BatchID:   batch.ID,
			Quantity:  decimal.NewFromInt(10),
			Reason:    "water damage in storage",
		})

		require.NoError(t, err)
		assert.Equal(t, "DAMAGE", resp.Type)
		assert.True(t, batch.Quantity.Equal(decimal.NewFromInt(90)))
		require.NotNil(t, savedEntry)
		assert.Equal(t, inventory.MovementTypeDamage, savedEntry.Type)
		assert.True(t, savedEntry.QuantityOut.Equal(decimal.NewFromInt(10)))
	})

	t.Run("cannot write off more than the batch holds", func(t *testing.T) {
		f := newAdjustmentFixture()
		productID := uuid.New()
		batch := newTestBatch(productID, 3)

		f.batchRepo.On("FindByID", mock.Anything, batch.ID).Return(batch, nil)

		_, err := f.service.WriteOff(ctx, WriteOffAdjustmentRequest{
			Type:      "EXPIRED",
			ProductID: productID,
			BatchID:   batch.ID,
			Quantity:  decimal.NewFromInt(10),
		})

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.True(t, batch.Quantity.Equal(decimal.NewFromInt(3)))
		f.ledgerRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.adjustmentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("batch must belong to the product", func(t *testing.T) {
		f := newAdjustmentFixture()
		batch := newTestBatch(uuid.New(), 100)

		f.batchRepo.On("FindByID", mock.Anything, batch.ID).Return(batch, nil)

		_, err := f.service.WriteOff(ctx, WriteOffAdjustmentRequest{
			Type:      "LOST",
			ProductID: uuid.New(),
			BatchID:   batch.ID,
			Quantity:  decimal.NewFromInt(1),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "BATCH_MISMATCH", domainErr.Code)
	})
}

func TestAdjustmentService_Found(t *testing.T) {
	ctx := context.Background()

	t.Run("found stock restocks the batch", func(t *testing.T) {
		f := newAdjustmentFixture()
		productID := uuid.New()
		batch := newTestBatch(productID, 20)

		var savedEntry *inventory.StockLedgerEntry
		f.batchRepo.On("FindByID", mock.Anything, batch.ID).Return(batch, nil)
		f.ledgerRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			savedEntry = args.Get(1).(*inventory.StockLedgerEntry)
		}).Return(nil)
		f.batchRepo.On("SaveWithLock", mock.Anything, batch).Return(nil)
		f.adjustmentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.service.Found(ctx, FoundAdjustmentRequest{
			ProductID: productID,
			BatchID:   batch.ID,
			Quantity:  decimal.NewFromInt(4),
			Reason:    "found behind shelf during stocktake",
		})

		require.NoError(t, err)
		assert.Equal(t, "FOUND", resp.Type)
		assert.True(t, batch.Quantity.Equal(decimal.NewFromInt(24)))
		require.NotNil(t, savedEntry)
		assert.Equal(t, inventory.MovementTypeFound, savedEntry.Type)
	})
}

func TestAdjustmentService_Correct(t *testing.T) {
	ctx := context.Background()

	t.Run("positive correction books an inbound entry", func(t *testing.T) {
		f := newAdjustmentFixture()
		productID := uuid.New()
		batch := newTestBatch(productID, 20)

		var savedEntry *inventory.StockLedgerEntry
		f.batchRepo.On("FindByID", mock.Anything, batch.ID).Return(batch, nil)
		f.ledgerRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			savedEntry = args.Get(1).(*inventory.StockLedgerEntry)
		}).Return(nil)
		f.batchRepo.On("SaveWithLock", mock.Anything, batch).Return(nil)
		f.adjustmentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.service.Correct(ctx, CorrectionAdjustmentRequest{
			ProductID: productID,
			BatchID:   batch.ID,
			Quantity:  decimal.NewFromInt(5),
			Reason:    "recount after stocktake",
		})

		require.NoError(t, err)
		assert.False(t, resp.Clamped)
		assert.True(t, batch.Quantity.Equal(decimal.NewFromInt(25)))
		require.NotNil(t, savedEntry)
		assert.Equal(t, inventory.MovementTypeCorrection, savedEntry.Type)
		assert.True(t, savedEntry.QuantityIn.Equal(decimal.NewFromInt(5)))
	})

	t.Run("negative correction within the balance books the outbound", func(t *testing.T) {
		f := newAdjustmentFixture()
		productID := uuid.New()
		batch := newTestBatch(productID, 20)

		var savedEntry *inventory.StockLedgerEntry
		f.batchRepo.On("FindByID", mock.Anything, batch.ID).Return(batch, nil)
		f.ledgerRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			savedEntry = args.Get(1).(*inventory.StockLedgerEntry)
		}).Return(nil)
		f.batchRepo.On("SaveWithLock", mock.Anything, batch).Return(nil)
		f.adjustmentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.service.Correct(ctx, CorrectionAdjustmentRequest{
			ProductID: productID,
			BatchID:   batch.ID,
			Quantity:  decimal.NewFromInt(-5),
			Reason:    "recount after stocktake",
		})

		require.NoError(t, err)
		assert.False(t, resp.Clamped)
		assert.True(t, batch.Quantity.Equal(decimal.NewFromInt(15)))
		require.NotNil(t, savedEntry)
		assert.True(t, savedEntry.QuantityOut.Equal(decimal.NewFromInt(5)))
	})

	t.Run("over-reduction clamps at zero and surfaces the clamp", func(t *testing.T) {
		f := newAdjustmentFixture()
		productID := uuid.New()
		batch := newTestBatch(productID, 3)

		var savedEntry *inventory.StockLedgerEntry
		f.batchRepo.On("FindByID", mock.Anything, batch.ID).Return(batch, nil)
		f.ledgerRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			savedEntry = args.Get(1).(*inventory.StockLedgerEntry)
		}).Return(nil)
		f.batchRepo.On("SaveWithLock", mock.Anything, batch).Return(nil)
		f.adjustmentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.service.Correct(ctx, CorrectionAdjustmentRequest{
			ProductID: productID,
			BatchID:   batch.ID,
			Quantity:  decimal.NewFromInt(-10),
			Reason:    "recount after stocktake",
		})

		require.NoError(t, err)
		assert.True(t, resp.Clamped)
		assert.True(t, batch.Quantity.IsZero())
		// the ledger records the applied delta, not the requested one
		require.NotNil(t, savedEntry)
		assert.True(t, savedEntry.QuantityOut.Equal(decimal.NewFromInt(3)))

		var clampEvent *inventory.BalanceClampedEvent
		for _, event := range f.publisher.events {
			if e, ok := event.(*inventory.BalanceClampedEvent); ok {
				clampEvent = e
			}
		}
		require.NotNil(t, clampEvent)
		assert.True(t, clampEvent.RequestedDelta.Equal(decimal.NewFromInt(-10)))
		assert.True(t, clampEvent.AppliedDelta.Equal(decimal.NewFromInt(-3)))
	})

	t.Run("correcting an empty batch down writes no ledger entry", func(t *testing.T) {
		f := newAdjustmentFixture()
		productID := uuid.New()
		batch := newTestBatch(productID, 5)
		require.NoError(t, batch.Deduct(decimal.NewFromInt(5)))

		f.batchRepo.On("FindByID", mock.Anything, batch.ID).Return(batch, nil)
		f.batchRepo.On("SaveWithLock", mock.Anything, batch).Return(nil)
		f.adjustmentRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.service.Correct(ctx, CorrectionAdjustmentRequest{
			ProductID: productID,
			BatchID:   batch.ID,
			Quantity:  decimal.NewFromInt(-4),
			Reason:    "recount after stocktake",
		})

		require.NoError(t, err)
		assert.True(t, resp.Clamped)
		assert.True(t, batch.Quantity.IsZero())
		f.ledgerRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAdjustmentService_ListByInvoice(t *testing.T) {
	ctx := context.Background()
	f := newAdjustmentFixture()
	invoiceID := uuid.New()
	productID := uuid.New()
	batchID := uuid.New()

	adjustment, err := inventory.NewReturnAdjustment(productID, batchID, invoiceID, decimal.NewFromInt(2), inventory.ReturnActionScrap, decimal.NewFromInt(120), "")
	require.NoError(t, err)
	f.adjustmentRepo.On("FindByInvoice", mock.Anything, invoiceID).Return([]inventory.StockAdjustment{*adjustment}, nil)

	responses, err := f.service.ListByInvoice(ctx, invoiceID)

	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, "RETURN", responses[0].Type)
	require.NotNil(t, responses[0].ReturnAction)
	assert.Equal(t, "SCRAP", *responses[0].ReturnAction)
}
