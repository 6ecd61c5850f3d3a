package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// CreateInvoiceLineRequest is one line of an invoice creation request.
// The caller picks the batch explicitly; prices are snapshotted from the
// product at creation time, never taken from the request.
type CreateInvoiceLineRequest struct {
	ProductID     uuid.UUID       `json:"product_id" binding:"required"`
	BatchID       uuid.UUID       `json:"batch_id" binding:"required"`
	PaidQuantity  decimal.Decimal `json:"paid_quantity"`
	FreeQuantity  decimal.Decimal `json:"free_quantity"`
	DiscountType  string          `json:"discount_type" binding:"omitempty,oneof=AMOUNT PERCENT"`
	DiscountValue decimal.Decimal `json:"discount_value"`
}

// CreateInvoiceRequest is the request to create a draft invoice
type CreateInvoiceRequest struct {
	CustomerID uuid.UUID                  `json:"customer_id" binding:"required"`
	SellerID   *uuid.UUID                 `json:"seller_id"`
	Discount   *decimal.Decimal           `json:"discount"`
	Remark     string                     `json:"remark"`
	Lines      []CreateInvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ApplyPaymentRequest records a payment against a settled invoice
type ApplyPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// CancelInvoiceRequest cancels a draft invoice
type CancelInvoiceRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ConvertQuotationRequest converts an open quotation into a draft invoice
type ConvertQuotationRequest struct {
	QuotationID uuid.UUID `json:"quotation_id" binding:"required"`
}

// InvoiceLineResponse is the read model of an invoice line
type InvoiceLineResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	BatchID       uuid.UUID       `json:"batch_id"`
	LotNumber     string          `json:"lot_number"`
	PaidQuantity  decimal.Decimal `json:"paid_quantity"`
	FreeQuantity  decimal.Decimal `json:"free_quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TPRate        decimal.Decimal `json:"tp_rate"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	DiscountType  string          `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	LineTotal     decimal.Decimal `json:"line_total"`
}

// InvoiceResponse is the read model of an invoice
type InvoiceResponse struct {
	ID            uuid.UUID             `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	CustomerID    uuid.UUID             `json:"customer_id"`
	CustomerName  string                `json:"customer_name"`
	SellerID      *uuid.UUID            `json:"seller_id,omitempty"`
	SellerName    string                `json:"seller_name,omitempty"`
	Status        string                `json:"status"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	Discount      decimal.Decimal       `json:"discount"`
	Total         decimal.Decimal       `json:"total"`
	Paid          decimal.Decimal       `json:"paid"`
	Due           decimal.Decimal       `json:"due"`
	Remark        string                `json:"remark,omitempty"`
	Lines         []InvoiceLineResponse `json:"lines"`
	ConfirmedAt   *time.Time            `json:"confirmed_at,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// InvoiceListItemResponse is the compact read model for invoice lists
type InvoiceListItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerName  string          `json:"customer_name"`
	Status        string          `json:"status"`
	Total         decimal.Decimal `json:"total"`
	Paid          decimal.Decimal `json:"paid"`
	Due           decimal.Decimal `json:"due"`
	LineCount     int             `json:"line_count"`
	CreatedAt     time.Time       `json:"created_at"`
}

// InvoiceListFilter filters the invoice list
type InvoiceListFilter struct {
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	Search     string     `form:"search"`
	CustomerID *uuid.UUID `form:"customer_id"`
	SellerID   *uuid.UUID `form:"seller_id"`
	Status     *string    `form:"status"`
	StartDate  *time.Time `form:"start_date"`
	EndDate    *time.Time `form:"end_date"`
}

// ToInvoiceResponse converts an invoice aggregate to its response
func ToInvoiceResponse(invoice *billing.Invoice) InvoiceResponse {
	lines := make([]InvoiceLineResponse, 0, len(invoice.Lines))
	for _, line := range invoice.Lines {
		lines = append(lines, InvoiceLineResponse{
			ID:            line.ID,
			ProductID:     line.ProductID,
			ProductName:   line.ProductName,
			BatchID:       line.BatchID,
			LotNumber:     line.LotNumber,
			PaidQuantity:  line.PaidQuantity,
			FreeQuantity:  line.FreeQuantity,
			UnitPrice:     line.UnitPrice,
			TPRate:        line.TPRate,
			CostPrice:     line.CostPrice,
			DiscountType:  string(line.DiscountType),
			DiscountValue: line.DiscountValue,
			LineTotal:     line.LineTotal,
		})
	}

	return InvoiceResponse{
		ID:            invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		CustomerID:    invoice.CustomerID,
		CustomerName:  invoice.CustomerName,
		SellerID:      invoice.SellerID,
		SellerName:    invoice.SellerName,
		Status:        invoice.Status.String(),
		Subtotal:      invoice.Subtotal,
		Discount:      invoice.Discount,
		Total:         invoice.Total,
		Paid:          invoice.Paid,
		Due:           invoice.Due,
		Remark:        invoice.Remark,
		Lines:         lines,
		ConfirmedAt:   invoice.ConfirmedAt,
		CreatedAt:     invoice.CreatedAt,
		UpdatedAt:     invoice.UpdatedAt,
	}
}

// ToInvoiceListItemResponses converts invoices to list items
func ToInvoiceListItemResponses(invoices []billing.Invoice) []InvoiceListItemResponse {
	items := make([]InvoiceListItemResponse, 0, len(invoices))
	for idx := range invoices {
		invoice := &invoices[idx]
		items = append(items, InvoiceListItemResponse{
			ID:            invoice.ID,
			InvoiceNumber: invoice.InvoiceNumber,
			CustomerName:  invoice.CustomerName,
			Status:        invoice.Status.String(),
			Total:         invoice.Total,
			Paid:          invoice.Paid,
			Due:           invoice.Due,
			LineCount:     invoice.LineCount(),
			CreatedAt:     invoice.CreatedAt,
		})
	}
	return items
}
