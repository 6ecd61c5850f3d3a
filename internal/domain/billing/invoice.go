package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the settlement status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusConfirmed InvoiceStatus = "CONFIRMED"
	InvoiceStatusPartial   InvoiceStatus = "PARTIAL"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusConfirmed, InvoiceStatusPartial, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft:
		return target == InvoiceStatusConfirmed || target == InvoiceStatusCancelled
	case InvoiceStatusConfirmed:
		return target == InvoiceStatusPartial || target == InvoiceStatusPaid
	case InvoiceStatusPartial:
		return target == InvoiceStatusPartial || target == InvoiceStatusPaid
	case InvoiceStatusPaid, InvoiceStatusCancelled:
		return false // Terminal states
	}
	return false
}

// IsSettleable returns true for statuses whose invoices count towards
// sales and profit (everything except DRAFT and CANCELLED)
func (s InvoiceStatus) IsSettleable() bool {
	return s == InvoiceStatusConfirmed || s == InvoiceStatusPartial || s == InvoiceStatusPaid
}

// DiscountType represents how a line discount value is interpreted
type DiscountType string

const (
	DiscountTypeAmount  DiscountType = "AMOUNT"
	DiscountTypePercent DiscountType = "PERCENT"
)

// IsValid checks if the discount type is valid
func (d DiscountType) IsValid() bool {
	return d == DiscountTypeAmount || d == DiscountTypePercent
}

// InvoiceLine is a line on an invoice. Prices are snapshots taken at
// creation time: UnitPrice is the MRP, TPRate the billed trade price and
// CostPrice the accounting cost. Later changes to the product never
// touch historical lines.
type InvoiceLine struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvoiceID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName   string          `gorm:"type:varchar(100);not null"`
	CategoryID    *uuid.UUID      `gorm:"type:uuid;index"`
	BatchID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	LotNumber     string          `gorm:"type:varchar(50);not null"`
	PaidQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	FreeQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null"` // MRP snapshot
	TPRate        decimal.Decimal `gorm:"type:decimal(18,4);not null"` // billed price snapshot
	CostPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null"` // accounting cost snapshot
	DiscountType  DiscountType    `gorm:"type:varchar(10);not null"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName returns the table name for GORM
func (InvoiceLine) TableName() string {
	return "invoice_lines"
}

// NewInvoiceLine creates a new invoice line with price snapshots
func NewInvoiceLine(invoiceID, productID uuid.UUID, productName string, categoryID *uuid.UUID, batchID uuid.UUID, lotNumber string, paidQty, freeQty, unitPrice, tpRate, costPrice decimal.Decimal, discountType DiscountType, discountValue decimal.Decimal) (*InvoiceLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if batchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BATCH", "Batch ID cannot be empty")
	}
	if paidQty.IsNegative() || freeQty.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantities cannot be negative")
	}
	if paidQty.Add(freeQty).LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Line must move a positive quantity")
	}
	if unitPrice.IsNegative() || tpRate.IsNegative() || costPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}
	if !discountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_TYPE", "Discount type must be AMOUNT or PERCENT")
	}
	if discountValue.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if discountType == DiscountTypePercent && discountValue.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Percent discount cannot exceed 100")
	}

	now := time.Now()
	line := &InvoiceLine{
		ID:            uuid.New(),
		InvoiceID:     invoiceID,
		ProductID:     productID,
		ProductName:   productName,
		CategoryID:    categoryID,
		BatchID:       batchID,
		LotNumber:     lotNumber,
		PaidQuantity:  paidQty,
		FreeQuantity:  freeQty,
		UnitPrice:     unitPrice,
		TPRate:        tpRate,
		CostPrice:     costPrice,
		DiscountType:  discountType,
		DiscountValue: discountValue,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	line.LineTotal = line.Revenue().Sub(line.Discount())
	if line.LineTotal.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed line revenue")
	}

	return line, nil
}

// RequiredQuantity is the stock deducted by this line: paid plus free units
func (l *InvoiceLine) RequiredQuantity() decimal.Decimal {
	return l.PaidQuantity.Add(l.FreeQuantity)
}

// Revenue is what the customer is billed before discounts. Free units
// earn nothing.
func (l *InvoiceLine) Revenue() decimal.Decimal {
	return l.TPRate.Mul(l.PaidQuantity)
}

// Discount resolves the line discount to an amount
func (l *InvoiceLine) Discount() decimal.Decimal {
	if l.DiscountType == DiscountTypePercent {
		return l.Revenue().Mul(l.DiscountValue).Div(decimal.NewFromInt(100))
	}
	return l.DiscountValue
}

// CostTotal is the accounting cost of the line. Free units consume cost
// even though they earn no revenue.
func (l *InvoiceLine) CostTotal() decimal.Decimal {
	return l.CostPrice.Mul(l.RequiredQuantity())
}

// FreeCost is the accounting cost of the free units alone
func (l *InvoiceLine) FreeCost() decimal.Decimal {
	return l.CostPrice.Mul(l.FreeQuantity)
}

// Invoice represents a sales invoice aggregate root. It drives settlement
// from DRAFT through CONFIRMED to PARTIAL/PAID; stock is deducted exactly
// once, at confirmation, by the application service.
//
// Invariant: Due == max(0, Total − Paid) after every mutation.
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerName  string          `gorm:"type:varchar(100);not null"`
	SellerID      *uuid.UUID      `gorm:"type:uuid;index"`
	SellerName    string          `gorm:"type:varchar(100)"`
	Lines         []InvoiceLine   `gorm:"foreignKey:InvoiceID"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Discount      decimal.Decimal `gorm:"type:decimal(18,4);not null"` // invoice-level discount
	Total         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Paid          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Due           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status        InvoiceStatus   `gorm:"type:varchar(20);not null;index"`
	Remark        string          `gorm:"type:varchar(255)"`
	ConfirmedAt   *time.Time
	CancelledAt   *time.Time
	CancelReason  string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new invoice in DRAFT status
func NewInvoice(invoiceNumber string, customerID uuid.UUID, customerName string, sellerID *uuid.UUID, sellerName string) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if len(invoiceNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot exceed 50 characters")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}

	invoice := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		CustomerID:        customerID,
		CustomerName:      customerName,
		SellerID:          sellerID,
		SellerName:        sellerName,
		Lines:             make([]InvoiceLine, 0),
		Subtotal:          decimal.Zero,
		Discount:          decimal.Zero,
		Total:             decimal.Zero,
		Paid:              decimal.Zero,
		Due:               decimal.Zero,
		Status:            InvoiceStatusDraft,
	}

	invoice.AddDomainEvent(NewInvoiceCreatedEvent(invoice))

	return invoice, nil
}

// AddLine adds a line to the invoice. Only allowed in DRAFT status; one
// line per (product, batch) pair.
func (i *Invoice) AddLine(productID uuid.UUID, productName string, categoryID *uuid.UUID, batchID uuid.UUID, lotNumber string, paidQty, freeQty, unitPrice, tpRate, costPrice decimal.Decimal, discountType DiscountType, discountValue decimal.Decimal) (*InvoiceLine, error) {
	if i.Status != InvoiceStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add lines to a non-draft invoice")
	}

	for _, line := range i.Lines {
		if line.ProductID == productID && line.BatchID == batchID {
			return nil, shared.NewDomainError("DUPLICATE_LINE", "Product and batch already on invoice, update the existing line instead")
		}
	}

	line, err := NewInvoiceLine(i.ID, productID, productName, categoryID, batchID, lotNumber, paidQty, freeQty, unitPrice, tpRate, costPrice, discountType, discountValue)
	if err != nil {
		return nil, err
	}

	i.Lines = append(i.Lines, *line)
	i.recalculateTotals()
	i.UpdatedAt = time.Now()

	return line, nil
}

// RemoveLine removes a line from the invoice. Only allowed in DRAFT status.
func (i *Invoice) RemoveLine(lineID uuid.UUID) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove lines from a non-draft invoice")
	}

	for idx, line := range i.Lines {
		if line.ID == lineID {
			i.Lines = append(i.Lines[:idx], i.Lines[idx+1:]...)
			i.recalculateTotals()
			i.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Invoice line not found")
}

// ApplyInvoiceDiscount applies an invoice-level discount on top of any
// line discounts. Only allowed in DRAFT status.
func (i *Invoice) ApplyInvoiceDiscount(discount decimal.Decimal) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot apply discount to a non-draft invoice")
	}
	if discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if discount.GreaterThan(i.Subtotal) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed subtotal")
	}

	i.Discount = discount
	i.recalculateTotals()
	i.UpdatedAt = time.Now()

	return nil
}

// SetRemark sets the invoice remark
func (i *Invoice) SetRemark(remark string) {
	i.Remark = remark
	i.UpdatedAt = time.Now()
}

// Confirm transitions the invoice from DRAFT to CONFIRMED. Stock
// validation and deduction happen in the application service around this
// call; the aggregate only guards the state machine.
func (i *Invoice) Confirm() error {
	if i.Status == InvoiceStatusConfirmed || i.Status == InvoiceStatusPartial || i.Status == InvoiceStatusPaid {
		return shared.ErrAlreadyConfirmed
	}
	if !i.Status.CanTransitionTo(InvoiceStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm invoice in %s status", i.Status))
	}
	if len(i.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot confirm invoice without lines")
	}

	now := time.Now()
	i.Status = InvoiceStatusConfirmed
	i.ConfirmedAt = &now
	i.UpdatedAt = now

	i.AddDomainEvent(NewInvoiceConfirmedEvent(i))

	return nil
}

// ApplyPayment records a payment against a settled invoice and recomputes
// the status: due 0 means PAID, anything between means PARTIAL.
func (i *Invoice) ApplyPayment(amount decimal.Decimal) error {
	if !i.Status.IsSettleable() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot apply payment to invoice in %s status", i.Status))
	}
	if i.Status == InvoiceStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already fully paid")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	i.Paid = i.Paid.Add(amount)
	i.recomputeDueAndStatus()
	i.UpdatedAt = time.Now()

	i.AddDomainEvent(NewInvoicePaymentAppliedEvent(i, amount))

	return nil
}

// CreditReturn reduces the invoice total and due by a return credit.
// Both RESTOCK and SCRAP returns credit the customer identically; the
// difference is purely on the stock side.
func (i *Invoice) CreditReturn(value decimal.Decimal) error {
	if !i.Status.IsSettleable() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot credit invoice in %s status", i.Status))
	}
	if value.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Credit value cannot be negative")
	}

	i.Total = i.Total.Sub(value)
	if i.Total.IsNegative() {
		i.Total = decimal.Zero
	}
	i.recomputeDueAndStatus()
	i.UpdatedAt = time.Now()

	i.AddDomainEvent(NewInvoiceCreditedEvent(i, value))

	return nil
}

// Cancel cancels a draft invoice. Nothing was ever deducted so there is
// no stock effect. Confirmed invoices cannot be cancelled; post-sale
// corrections go through return adjustments instead.
func (i *Invoice) Cancel(reason string) error {
	if !i.Status.CanTransitionTo(InvoiceStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel invoice in %s status", i.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	i.Status = InvoiceStatusCancelled
	i.CancelledAt = &now
	i.CancelReason = reason
	i.UpdatedAt = now

	i.AddDomainEvent(NewInvoiceCancelledEvent(i))

	return nil
}

// recalculateTotals recomputes subtotal, total and due from the lines.
// Only meaningful while the invoice is in DRAFT.
func (i *Invoice) recalculateTotals() {
	subtotal := decimal.Zero
	for _, line := range i.Lines {
		subtotal = subtotal.Add(line.LineTotal)
	}
	i.Subtotal = subtotal
	i.Total = i.Subtotal.Sub(i.Discount)
	if i.Total.IsNegative() {
		i.Discount = i.Subtotal
		i.Total = decimal.Zero
	}
	i.recomputeDueAndStatus()
}

// recomputeDueAndStatus enforces due = max(0, total − paid) and derives
// PARTIAL/PAID for settled invoices
func (i *Invoice) recomputeDueAndStatus() {
	i.Due = i.Total.Sub(i.Paid)
	if i.Due.IsNegative() {
		i.Due = decimal.Zero
	}

	if !i.Status.IsSettleable() {
		return
	}
	switch {
	case i.Due.IsZero():
		i.Status = InvoiceStatusPaid
	case i.Paid.GreaterThan(decimal.Zero):
		i.Status = InvoiceStatusPartial
	default:
		i.Status = InvoiceStatusConfirmed
	}
}

// GetLine returns a line by its ID
func (i *Invoice) GetLine(lineID uuid.UUID) *InvoiceLine {
	for idx := range i.Lines {
		if i.Lines[idx].ID == lineID {
			return &i.Lines[idx]
		}
	}
	return nil
}

// GetLineByProductBatch returns the line matching a (product, batch) pair
func (i *Invoice) GetLineByProductBatch(productID, batchID uuid.UUID) *InvoiceLine {
	for idx := range i.Lines {
		if i.Lines[idx].ProductID == productID && i.Lines[idx].BatchID == batchID {
			return &i.Lines[idx]
		}
	}
	return nil
}

// LineCount returns the number of lines on the invoice
func (i *Invoice) LineCount() int {
	return len(i.Lines)
}

// IsDraft returns true if the invoice is in draft status
func (i *Invoice) IsDraft() bool {
	return i.Status == InvoiceStatusDraft
}

// IsCancelled returns true if the invoice is cancelled
func (i *Invoice) IsCancelled() bool {
	return i.Status == InvoiceStatusCancelled
}

// CanModify returns true if lines and discounts can still change
func (i *Invoice) CanModify() bool {
	return i.IsDraft()
}
