package billing

import (
	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the billing domain
const (
	EventTypeInvoiceCreated        = "billing.invoice_created"
	EventTypeInvoiceConfirmed      = "billing.invoice_confirmed"
	EventTypeInvoicePaymentApplied = "billing.invoice_payment_applied"
	EventTypeInvoiceCredited       = "billing.invoice_credited"
	EventTypeInvoiceCancelled      = "billing.invoice_cancelled"
)

// InvoiceCreatedEvent is emitted when an invoice is created in DRAFT
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string    `json:"invoice_number"`
	CustomerID    uuid.UUID `json:"customer_id"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(invoice *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, "Invoice", invoice.ID),
		InvoiceNumber:   invoice.InvoiceNumber,
		CustomerID:      invoice.CustomerID,
	}
}

// InvoiceConfirmedEvent is emitted when an invoice settles and stock is
// deducted
type InvoiceConfirmedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Total         decimal.Decimal `json:"total"`
	LineCount     int             `json:"line_count"`
}

// NewInvoiceConfirmedEvent creates a new InvoiceConfirmedEvent
func NewInvoiceConfirmedEvent(invoice *Invoice) *InvoiceConfirmedEvent {
	return &InvoiceConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceConfirmed, "Invoice", invoice.ID),
		InvoiceNumber:   invoice.InvoiceNumber,
		CustomerID:      invoice.CustomerID,
		Total:           invoice.Total,
		LineCount:       invoice.LineCount(),
	}
}

// InvoicePaymentAppliedEvent is emitted when a payment lands on an invoice
type InvoicePaymentAppliedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
	Paid          decimal.Decimal `json:"paid"`
	Due           decimal.Decimal `json:"due"`
	Status        InvoiceStatus   `json:"status"`
}

// NewInvoicePaymentAppliedEvent creates a new InvoicePaymentAppliedEvent
func NewInvoicePaymentAppliedEvent(invoice *Invoice, amount decimal.Decimal) *InvoicePaymentAppliedEvent {
	return &InvoicePaymentAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaymentApplied, "Invoice", invoice.ID),
		InvoiceNumber:   invoice.InvoiceNumber,
		Amount:          amount,
		Paid:            invoice.Paid,
		Due:             invoice.Due,
		Status:          invoice.Status,
	}
}

// InvoiceCreditedEvent is emitted when a return credits an invoice
type InvoiceCreditedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	CreditValue   decimal.Decimal `json:"credit_value"`
	Total         decimal.Decimal `json:"total"`
	Due           decimal.Decimal `json:"due"`
}

// NewInvoiceCreditedEvent creates a new InvoiceCreditedEvent
func NewInvoiceCreditedEvent(invoice *Invoice, creditValue decimal.Decimal) *InvoiceCreditedEvent {
	return &InvoiceCreditedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCredited, "Invoice", invoice.ID),
		InvoiceNumber:   invoice.InvoiceNumber,
		CreditValue:     creditValue,
		Total:           invoice.Total,
		Due:             invoice.Due,
	}
}

// InvoiceCancelledEvent is emitted when a draft invoice is cancelled
type InvoiceCancelledEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
	Reason        string `json:"reason"`
}

// NewInvoiceCancelledEvent creates a new InvoiceCancelledEvent
func NewInvoiceCancelledEvent(invoice *Invoice) *InvoiceCancelledEvent {
	return &InvoiceCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCancelled, "Invoice", invoice.ID),
		InvoiceNumber:   invoice.InvoiceNumber,
		Reason:          invoice.CancelReason,
	}
}
