package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/billing"
	"github.com/pharmstock/backend/internal/domain/catalog"
	"github.com/pharmstock/backend/internal/domain/inventory"
	"github.com/pharmstock/backend/internal/domain/partner"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ConfirmStockError aggregates per-line stock failures from a rejected
// confirmation. Confirmation is all-or-nothing: if any line fails, no
// balance moves and every offending line is reported.
type ConfirmStockError struct {
	InvoiceNumber string
	LineErrors    []*inventory.InsufficientStockError
}

// Error implements the error interface
func (e *ConfirmStockError) Error() string {
	messages := make([]string, 0, len(e.LineErrors))
	for _, lineErr := range e.LineErrors {
		messages = append(messages, lineErr.Error())
	}
	return fmt.Sprintf("cannot confirm invoice %s: %s", e.InvoiceNumber, strings.Join(messages, "; "))
}

// Unwrap allows errors.Is(err, shared.ErrInsufficientStock)
func (e *ConfirmStockError) Unwrap() error {
	return shared.ErrInsufficientStock
}

// SettlementService drives invoices through their settlement lifecycle:
// create (DRAFT), confirm (stock deduction), payments and returns-side
// credits, plus quotation conversion.
type SettlementService struct {
	txScope           TransactionScope
	productRepo       catalog.ProductRepository
	customerRepo      partner.CustomerRepository
	sellerRepo        partner.SellerRepository
	eventPublisher    shared.EventPublisher
	lowStockThreshold decimal.Decimal
	storeTimeout      time.Duration
}

// NewSettlementService creates a new SettlementService
func NewSettlementService(
	txScope TransactionScope,
	productRepo catalog.ProductRepository,
	customerRepo partner.CustomerRepository,
	sellerRepo partner.SellerRepository,
	lowStockThreshold decimal.Decimal,
	storeTimeout time.Duration,
) *SettlementService {
	return &SettlementService{
		txScope:           txScope,
		productRepo:       productRepo,
		customerRepo:      customerRepo,
		sellerRepo:        sellerRepo,
		lowStockThreshold: lowStockThreshold,
		storeTimeout:      storeTimeout,
	}
}

// SetEventPublisher sets the event publisher for advisory notifications
func (s *SettlementService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a draft invoice with price snapshots. Each line pins an
// explicit batch; the line is rejected when the product has no stock at
// all or the chosen batch cannot cover it. No balance is mutated.
func (s *SettlementService) Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	ctx, cancel := s.boundStoreCall(ctx)
	defer cancel()

	customer, err := s.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	var sellerID *uuid.UUID
	var sellerName string
	if req.SellerID != nil {
		seller, err := s.sellerRepo.FindByID(ctx, *req.SellerID)
		if err != nil {
			return nil, err
		}
		sellerID = &seller.ID
		sellerName = seller.Name
	}

	var invoice *billing.Invoice
	now := time.Now()
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoiceNumber, err := repos.InvoiceRepo().NextInvoiceNumber(ctx)
		if err != nil {
			return err
		}

		invoice, err = billing.NewInvoice(invoiceNumber, customer.ID, customer.Name, sellerID, sellerName)
		if err != nil {
			return err
		}

		for _, lineReq := range req.Lines {
			product, err := s.productRepo.FindByID(ctx, lineReq.ProductID)
			if err != nil {
				return err
			}

			// Reject products with zero aggregate stock before even
			// looking at the chosen batch
			available, err := repos.BatchRepo().SumAvailableByProduct(ctx, product.ID, now)
			if err != nil {
				return err
			}
			if available.LessThanOrEqual(decimal.Zero) {
				return inventory.NewInsufficientStockError(product.ID, uuid.Nil, decimal.Zero, lineReq.PaidQuantity.Add(lineReq.FreeQuantity))
			}

			batch, err := repos.BatchRepo().FindByID(ctx, lineReq.BatchID)
			if err != nil {
				return err
			}
			if batch.ProductID != product.ID {
				return shared.NewDomainError("BATCH_MISMATCH", "Batch does not belong to the requested product")
			}

			required := lineReq.PaidQuantity.Add(lineReq.FreeQuantity)
			if required.GreaterThan(batch.Quantity) {
				return inventory.NewInsufficientStockError(product.ID, batch.ID, batch.Quantity, required)
			}

			discountType := billing.DiscountType(lineReq.DiscountType)
			if lineReq.DiscountType == "" {
				discountType = billing.DiscountTypeAmount
			}

			_, err = invoice.AddLine(
				product.ID, product.Name, product.CategoryID,
				batch.ID, batch.LotNumber,
				lineReq.PaidQuantity, lineReq.FreeQuantity,
				product.SalesPrice, product.BillingRate(), product.CostPrice,
				discountType, lineReq.DiscountValue,
			)
			if err != nil {
				return err
			}
		}

		if req.Discount != nil {
			if err := invoice.ApplyInvoiceDiscount(*req.Discount); err != nil {
				return err
			}
		}
		if req.Remark != "" {
			invoice.SetRemark(req.Remark)
		}

		return repos.InvoiceRepo().Save(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice.GetDomainEvents())
	invoice.ClearDomainEvents()

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Confirm settles a draft invoice: every line is validated against its
// batch's current balance before any balance moves, then each batch is
// deducted and a SALE ledger entry appended, all in one transaction.
// Low-stock and out-of-stock notices are advisory and never block.
func (s *SettlementService) Confirm(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	ctx, cancel := s.boundStoreCall(ctx)
	defer cancel()

	var invoice *billing.Invoice
	var advisories []shared.DomainEvent
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		invoice, err = repos.InvoiceRepo().FindByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		if invoice.Status.IsSettleable() {
			return shared.ErrAlreadyConfirmed
		}

		// Validate all lines before mutating anything
		batches := make(map[uuid.UUID]*inventory.BatchLot, len(invoice.Lines))
		var lineErrors []*inventory.InsufficientStockError
		for idx := range invoice.Lines {
			line := &invoice.Lines[idx]
			batch, ok := batches[line.BatchID]
			if !ok {
				batch, err = repos.BatchRepo().FindByID(ctx, line.BatchID)
				if err != nil {
					return err
				}
				batches[line.BatchID] = batch
			}

			required := line.RequiredQuantity()
			if required.GreaterThan(batch.Quantity) {
				lineErrors = append(lineErrors, inventory.NewInsufficientStockError(line.ProductID, batch.ID, batch.Quantity, required))
			}
		}
		if len(lineErrors) > 0 {
			return &ConfirmStockError{InvoiceNumber: invoice.InvoiceNumber, LineErrors: lineErrors}
		}

		// Deduct and append ledger entries
		for idx := range invoice.Lines {
			line := &invoice.Lines[idx]
			batch := batches[line.BatchID]
			required := line.RequiredQuantity()
			preBalance := batch.Quantity

			if err := batch.Deduct(required); err != nil {
				return err
			}

			reference := fmt.Sprintf("%s paid=%s free=%s", invoice.InvoiceNumber, line.PaidQuantity.String(), line.FreeQuantity.String())
			entry, err := inventory.NewOutboundEntry(line.ProductID, batch.ID, inventory.MovementTypeSale, required, batch.UnitCost, reference)
			if err != nil {
				return err
			}
			if err := repos.LedgerRepo().Create(ctx, entry); err != nil {
				return err
			}

			remaining := preBalance.Sub(required)
			switch {
			case remaining.IsZero():
				advisories = append(advisories, inventory.NewOutOfStockEvent(batch))
			case remaining.LessThanOrEqual(s.lowStockThreshold):
				advisories = append(advisories, inventory.NewLowStockEvent(batch, remaining, s.lowStockThreshold))
			}
		}

		for _, batch := range batches {
			if err := repos.BatchRepo().SaveWithLock(ctx, batch); err != nil {
				return err
			}
		}

		if err := invoice.Confirm(); err != nil {
			return err
		}
		return repos.InvoiceRepo().SaveWithLock(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice.GetDomainEvents())
	s.publishEvents(ctx, advisories)
	invoice.ClearDomainEvents()

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// ApplyPayment records a payment and recomputes the settlement status
func (s *SettlementService) ApplyPayment(ctx context.Context, invoiceID uuid.UUID, req ApplyPaymentRequest) (*InvoiceResponse, error) {
	ctx, cancel := s.boundStoreCall(ctx)
	defer cancel()

	var invoice *billing.Invoice
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		invoice, err = repos.InvoiceRepo().FindByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		if err := invoice.ApplyPayment(req.Amount); err != nil {
			return err
		}
		return repos.InvoiceRepo().SaveWithLock(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice.GetDomainEvents())
	invoice.ClearDomainEvents()

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Cancel cancels a draft invoice. Confirmed invoices are corrected
// through return adjustments, never cancellation.
func (s *SettlementService) Cancel(ctx context.Context, invoiceID uuid.UUID, req CancelInvoiceRequest) (*InvoiceResponse, error) {
	ctx, cancel := s.boundStoreCall(ctx)
	defer cancel()

	var invoice *billing.Invoice
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		invoice, err = repos.InvoiceRepo().FindByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		if err := invoice.Cancel(req.Reason); err != nil {
			return err
		}
		return repos.InvoiceRepo().SaveWithLock(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice.GetDomainEvents())
	invoice.ClearDomainEvents()

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// ConvertQuotation turns an open quotation into a draft invoice. The
// single earliest-expiring batch that covers each line's whole quantity
// is selected automatically; a line is never split across batches.
func (s *SettlementService) ConvertQuotation(ctx context.Context, quotationID uuid.UUID) (*InvoiceResponse, error) {
	ctx, cancel := s.boundStoreCall(ctx)
	defer cancel()

	var invoice *billing.Invoice
	now := time.Now()
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		quotation, err := repos.QuotationRepo().FindByID(ctx, quotationID)
		if err != nil {
			return err
		}
		if !quotation.IsOpen() {
			return shared.NewDomainError("INVALID_STATE", "Quotation is not open")
		}

		invoiceNumber, err := repos.InvoiceRepo().NextInvoiceNumber(ctx)
		if err != nil {
			return err
		}
		invoice, err = billing.NewInvoice(invoiceNumber, quotation.CustomerID, quotation.CustomerName, quotation.SellerID, quotation.SellerName)
		if err != nil {
			return err
		}

		for _, quoteLine := range quotation.Lines {
			product, err := s.productRepo.FindByID(ctx, quoteLine.ProductID)
			if err != nil {
				return err
			}

			candidates, err := repos.BatchRepo().FindAvailableByProduct(ctx, product.ID, now)
			if err != nil {
				return err
			}

			required := quoteLine.PaidQuantity.Add(quoteLine.FreeQuantity)
			batch, err := inventory.SelectSingleBatch(product.ID, candidates, required, now)
			if err != nil {
				return err
			}

			_, err = invoice.AddLine(
				product.ID, product.Name, product.CategoryID,
				batch.ID, batch.LotNumber,
				quoteLine.PaidQuantity, quoteLine.FreeQuantity,
				product.SalesPrice, product.BillingRate(), product.CostPrice,
				quoteLine.DiscountType, quoteLine.DiscountValue,
			)
			if err != nil {
				return err
			}
		}

		if err := repos.InvoiceRepo().Save(ctx, invoice); err != nil {
			return err
		}
		if err := quotation.MarkConverted(invoice.ID); err != nil {
			return err
		}
		return repos.QuotationRepo().Save(ctx, quotation)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice.GetDomainEvents())
	invoice.ClearDomainEvents()

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByID retrieves an invoice by ID
func (s *SettlementService) GetByID(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	var invoice *billing.Invoice
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		invoice, err = repos.InvoiceRepo().FindByID(ctx, invoiceID)
		return err
	})
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByNumber retrieves an invoice by invoice number
func (s *SettlementService) GetByNumber(ctx context.Context, invoiceNumber string) (*InvoiceResponse, error) {
	var invoice *billing.Invoice
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		invoice, err = repos.InvoiceRepo().FindByNumber(ctx, invoiceNumber)
		return err
	})
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves invoices with filtering and pagination
func (s *SettlementService) List(ctx context.Context, filter InvoiceListFilter) ([]InvoiceListItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.SellerID != nil {
		domainFilter.Filters["seller_id"] = *filter.SellerID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = *filter.Status
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	var page *shared.Paginated[billing.Invoice]
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		page, err = repos.InvoiceRepo().FindAll(ctx, domainFilter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	return ToInvoiceListItemResponses(page.Items), page.Total, nil
}

// boundStoreCall caps the backing-store round trip when a timeout is
// configured
func (s *SettlementService) boundStoreCall(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout > 0 {
		return context.WithTimeout(ctx, s.storeTimeout)
	}
	return ctx, func() {}
}

func (s *SettlementService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range events {
		// Advisory delivery; settlement already committed
		_ = s.eventPublisher.Publish(ctx, event)
	}
}
