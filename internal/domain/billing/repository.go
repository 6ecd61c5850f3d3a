package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
)

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByID finds an invoice with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByNumber finds an invoice by its invoice number
	FindByNumber(ctx context.Context, invoiceNumber string) (*Invoice, error)

	// FindAll finds invoices matching the filter
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Invoice], error)

	// FindByCustomer finds invoices for a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Invoice, error)

	// FindSettledInWindow finds CONFIRMED/PARTIAL/PAID invoices created
	// inside the window, lines included. DRAFT and CANCELLED never appear.
	FindSettledInWindow(ctx context.Context, start, end time.Time) ([]Invoice, error)

	// Save persists the invoice and its lines
	Save(ctx context.Context, invoice *Invoice) error

	// SaveWithLock saves with an optimistic version check; returns
	// shared.ErrConcurrencyConflict when the stored version has moved
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// Count counts invoices matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// NextInvoiceNumber generates the next sequential invoice number
	NextInvoiceNumber(ctx context.Context) (string, error)
}

// QuotationRepository defines the interface for quotation persistence
type QuotationRepository interface {
	// FindByID finds a quotation with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*Quotation, error)

	// FindAll finds quotations matching the filter
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Quotation], error)

	// Save persists the quotation and its lines
	Save(ctx context.Context, quotation *Quotation) error

	// NextQuotationNumber generates the next sequential quotation number
	NextQuotationNumber(ctx context.Context) (string, error)
}
