package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WindowKind selects the reporting time window
type WindowKind string

const (
	WindowToday     WindowKind = "today"
	WindowThisWeek  WindowKind = "week"
	WindowThisMonth WindowKind = "month"
	WindowThisYear  WindowKind = "year"
	WindowAll       WindowKind = "all"
	WindowCustom    WindowKind = "custom"
)

// IsValid checks if the window kind is valid
func (k WindowKind) IsValid() bool {
	switch k {
	case WindowToday, WindowThisWeek, WindowThisMonth, WindowThisYear, WindowAll, WindowCustom:
		return true
	}
	return false
}

// Window is a resolved half-open time range [Start, End)
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the timestamp falls inside the window
func (w Window) Contains(ts time.Time) bool {
	return !ts.Before(w.Start) && ts.Before(w.End)
}

// ResolveWindow resolves a window kind to a concrete range anchored at
// the given time. Custom windows use the provided bounds.
func ResolveWindow(kind WindowKind, now time.Time, customStart, customEnd *time.Time) Window {
	switch kind {
	case WindowToday:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return Window{Start: start, End: start.AddDate(0, 0, 1)}
	case WindowThisWeek:
		// Weeks start on Monday
		offset := (int(now.Weekday()) + 6) % 7
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -offset)
		return Window{Start: start, End: start.AddDate(0, 0, 7)}
	case WindowThisMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return Window{Start: start, End: start.AddDate(0, 1, 0)}
	case WindowThisYear:
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return Window{Start: start, End: start.AddDate(1, 0, 0)}
	case WindowCustom:
		window := Window{}
		if customStart != nil {
			window.Start = *customStart
		}
		if customEnd != nil {
			window.End = *customEnd
		} else {
			window.End = now.Add(time.Second)
		}
		return window
	default: // WindowAll
		return Window{Start: time.Time{}, End: now.Add(time.Second)}
	}
}

// Filter narrows the report to a customer, seller, product or category.
// Customer and seller filters select whole invoices; product and
// category filters select matching lines and prorate invoice-level
// figures by the filtered share of the invoice total.
type Filter struct {
	CustomerID *uuid.UUID
	SellerID   *uuid.UUID
	ProductID  *uuid.UUID
	CategoryID *uuid.UUID
}

// HasLineFilter reports whether a product or category filter is active
func (f Filter) HasLineFilter() bool {
	return f.ProductID != nil || f.CategoryID != nil
}

// Metrics are the aggregate profit and loss figures for a window.
// FreeQty and FreeCost are informational: free goods are always excluded
// from revenue and always included in cost, never double-counted.
type Metrics struct {
	NetSales         decimal.Decimal `json:"net_sales"`
	CostTotal        decimal.Decimal `json:"cost_total"`
	GrossProfit      decimal.Decimal `json:"gross_profit"`
	ReturnAdjustment decimal.Decimal `json:"return_adjustment"`
	DamageWriteOff   decimal.Decimal `json:"damage_write_off"`
	NetProfit        decimal.Decimal `json:"net_profit"`
	ProfitMargin     decimal.Decimal `json:"profit_margin"` // percent; 0 when net sales is 0
	FreeQty          decimal.Decimal `json:"free_qty"`
	FreeCost         decimal.Decimal `json:"free_cost"`
	Paid             decimal.Decimal `json:"paid"`
	Due              decimal.Decimal `json:"due"`
	InvoiceCount     int             `json:"invoice_count"`
}

// InvoiceProfit is the per-invoice profit row
type InvoiceProfit struct {
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerName  string          `json:"customer_name"`
	SellerName    string          `json:"seller_name,omitempty"`
	NetSales      decimal.Decimal `json:"net_sales"`
	CostTotal     decimal.Decimal `json:"cost_total"`
	GrossProfit   decimal.Decimal `json:"gross_profit"`
	FreeQty       decimal.Decimal `json:"free_qty"`
	FreeCost      decimal.Decimal `json:"free_cost"`
	Paid          decimal.Decimal `json:"paid"`
	Due           decimal.Decimal `json:"due"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ProfitGroup is one row of a grouped breakdown (by customer, seller,
// product or category), produced by re-aggregating the identical
// per-line arithmetic
type ProfitGroup struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	NetSales    decimal.Decimal `json:"net_sales"`
	CostTotal   decimal.Decimal `json:"cost_total"`
	GrossProfit decimal.Decimal `json:"gross_profit"`
	FreeQty     decimal.Decimal `json:"free_qty"`
	FreeCost    decimal.Decimal `json:"free_cost"`
}

// ProfitLossReport is the full reporting payload
type ProfitLossReport struct {
	Window     Window          `json:"window"`
	Metrics    Metrics         `json:"metrics"`
	Invoices   []InvoiceProfit `json:"invoices"`
	ByCustomer []ProfitGroup   `json:"by_customer"`
	BySeller   []ProfitGroup   `json:"by_seller"`
	ByProduct  []ProfitGroup   `json:"by_product"`
	ByCategory []ProfitGroup   `json:"by_category"`
}

// Request is the report query as received from the caller
type Request struct {
	Window      WindowKind `json:"window" form:"window"`
	CustomStart *time.Time `json:"custom_start" form:"custom_start"`
	CustomEnd   *time.Time `json:"custom_end" form:"custom_end"`
	CustomerID  *uuid.UUID `json:"customer_id" form:"customer_id"`
	SellerID    *uuid.UUID `json:"seller_id" form:"seller_id"`
	ProductID   *uuid.UUID `json:"product_id" form:"product_id"`
	CategoryID  *uuid.UUID `json:"category_id" form:"category_id"`
}
