package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// QuotationStatus represents the status of a quotation
type QuotationStatus string

const (
	QuotationStatusOpen      QuotationStatus = "OPEN"
	QuotationStatusConverted QuotationStatus = "CONVERTED"
	QuotationStatusCancelled QuotationStatus = "CANCELLED"
)

// IsValid checks if the status is a valid QuotationStatus
func (s QuotationStatus) IsValid() bool {
	switch s {
	case QuotationStatusOpen, QuotationStatusConverted, QuotationStatusCancelled:
		return true
	}
	return false
}

// QuotationLine is a quoted line. No batch is pinned; the earliest
// expiring batch that can cover the whole quantity is picked at
// conversion time.
type QuotationLine struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	QuotationID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName   string          `gorm:"type:varchar(100);not null"`
	PaidQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	FreeQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountType  DiscountType    `gorm:"type:varchar(10);not null"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName returns the table name for GORM
func (QuotationLine) TableName() string {
	return "quotation_lines"
}

// Quotation is a priced offer that can later be converted into an
// invoice. Conversion re-reads live product prices and allocates stock;
// the quotation itself never touches batch balances.
type Quotation struct {
	shared.BaseAggregateRoot
	QuotationNumber string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerName    string          `gorm:"type:varchar(100);not null"`
	SellerID        *uuid.UUID      `gorm:"type:uuid;index"`
	SellerName      string          `gorm:"type:varchar(100)"`
	Lines           []QuotationLine `gorm:"foreignKey:QuotationID"`
	Status          QuotationStatus `gorm:"type:varchar(20);not null;index"`
	InvoiceID       *uuid.UUID      `gorm:"type:uuid"` // set on conversion
	ConvertedAt     *time.Time
}

// TableName returns the table name for GORM
func (Quotation) TableName() string {
	return "quotations"
}

// NewQuotation creates a new open quotation
func NewQuotation(quotationNumber string, customerID uuid.UUID, customerName string, sellerID *uuid.UUID, sellerName string) (*Quotation, error) {
	if quotationNumber == "" {
		return nil, shared.NewDomainError("INVALID_QUOTATION_NUMBER", "Quotation number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}

	return &Quotation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		QuotationNumber:   quotationNumber,
		CustomerID:        customerID,
		CustomerName:      customerName,
		SellerID:          sellerID,
		SellerName:        sellerName,
		Lines:             make([]QuotationLine, 0),
		Status:            QuotationStatusOpen,
	}, nil
}

// AddLine adds a line to an open quotation
func (q *Quotation) AddLine(productID uuid.UUID, productName string, paidQty, freeQty decimal.Decimal, discountType DiscountType, discountValue decimal.Decimal) (*QuotationLine, error) {
	if q.Status != QuotationStatusOpen {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add lines to a closed quotation")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if paidQty.IsNegative() || freeQty.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantities cannot be negative")
	}
	if paidQty.Add(freeQty).LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Line must quote a positive quantity")
	}
	if !discountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_TYPE", "Discount type must be AMOUNT or PERCENT")
	}
	if discountValue.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}

	for _, line := range q.Lines {
		if line.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_LINE", "Product already on quotation")
		}
	}

	now := time.Now()
	line := QuotationLine{
		ID:            uuid.New(),
		QuotationID:   q.ID,
		ProductID:     productID,
		ProductName:   productName,
		PaidQuantity:  paidQty,
		FreeQuantity:  freeQty,
		DiscountType:  discountType,
		DiscountValue: discountValue,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	q.Lines = append(q.Lines, line)
	q.UpdatedAt = now

	return &q.Lines[len(q.Lines)-1], nil
}

// MarkConverted links the quotation to the invoice produced from it
func (q *Quotation) MarkConverted(invoiceID uuid.UUID) error {
	if q.Status != QuotationStatusOpen {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot convert quotation in %s status", q.Status))
	}
	if invoiceID == uuid.Nil {
		return shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}

	now := time.Now()
	q.Status = QuotationStatusConverted
	q.InvoiceID = &invoiceID
	q.ConvertedAt = &now
	q.UpdatedAt = now

	return nil
}

// Cancel closes an open quotation without converting it
func (q *Quotation) Cancel() error {
	if q.Status != QuotationStatusOpen {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel quotation in %s status", q.Status))
	}

	q.Status = QuotationStatusCancelled
	q.UpdatedAt = time.Now()

	return nil
}

// IsOpen returns true if the quotation can still be converted
func (q *Quotation) IsOpen() bool {
	return q.Status == QuotationStatusOpen
}
