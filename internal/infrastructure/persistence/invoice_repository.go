package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/billing"
	"github.com/pharmstock/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GORM invoice repository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice with its lines
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	err := r.db.WithContext(ctx).Preload("Lines").First(&invoice, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByNumber finds an invoice by its invoice number
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, invoiceNumber string) (*billing.Invoice, error) {
	var invoice billing.Invoice
	err := r.db.WithContext(ctx).Preload("Lines").First(&invoice, "invoice_number = ?", invoiceNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAll finds invoices matching the filter
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[billing.Invoice], error) {
	var total int64
	countQuery := applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&billing.Invoice{}), filter, "invoice_number", "customer_name")
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, err
	}

	var invoices []billing.Invoice
	query := applyFilter(
		r.db.WithContext(ctx).Preload("Lines"), filter, "invoice_number", "customer_name")
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}

	page, pageSize := filter.Page, filter.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = len(invoices)
		if pageSize == 0 {
			pageSize = 1
		}
	}
	paginated := shared.NewPaginated(invoices, total, page, pageSize)
	return &paginated, nil
}

// FindByCustomer finds invoices for a customer
func (r *GormInvoiceRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	query := applyFilter(
		r.db.WithContext(ctx).Preload("Lines").Where("customer_id = ?", customerID),
		filter, "invoice_number")
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindSettledInWindow finds CONFIRMED/PARTIAL/PAID invoices created inside
// the window, lines included. DRAFT and CANCELLED never appear.
func (r *GormInvoiceRepository) FindSettledInWindow(ctx context.Context, start, end time.Time) ([]billing.Invoice, error) {
	settled := []billing.InvoiceStatus{
		billing.InvoiceStatusConfirmed,
		billing.InvoiceStatusPartial,
		billing.InvoiceStatusPaid,
	}

	var invoices []billing.Invoice
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("status IN ?", settled).
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at ASC").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// Save persists the invoice and its lines. Lines are replaced wholesale:
// draft edits add and remove lines freely, and the stored set must mirror
// the aggregate exactly.
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(invoice).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&billing.InvoiceLine{}).Error; err != nil {
			return err
		}
		if len(invoice.Lines) > 0 {
			if err := tx.Create(&invoice.Lines).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveWithLock saves the invoice header with an optimistic version check.
// Settlement transitions only mutate header fields; lines are frozen once
// the invoice leaves DRAFT.
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	loadedVersion := invoice.Version
	invoice.IncrementVersion()

	result := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Where("id = ? AND version = ?", invoice.ID, loadedVersion).
		Updates(map[string]interface{}{
			"subtotal":      invoice.Subtotal,
			"discount":      invoice.Discount,
			"total":         invoice.Total,
			"paid":          invoice.Paid,
			"due":           invoice.Due,
			"status":        invoice.Status,
			"remark":        invoice.Remark,
			"confirmed_at":  invoice.ConfirmedAt,
			"cancelled_at":  invoice.CancelledAt,
			"cancel_reason": invoice.CancelReason,
			"version":       invoice.Version,
			"updated_at":    invoice.UpdatedAt,
		})
	if result.Error != nil {
		invoice.Version = loadedVersion
		return result.Error
	}
	if result.RowsAffected == 0 {
		invoice.Version = loadedVersion
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Count counts invoices matching the filter
func (r *GormInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&billing.Invoice{}), filter, "invoice_number", "customer_name")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextInvoiceNumber generates the next sequential invoice number in the
// form INV-<year>-<seq>. The sequence restarts every year.
func (r *GormInvoiceRepository) NextInvoiceNumber(ctx context.Context) (string, error) {
	return nextDocumentNumber(ctx, r.db, &billing.Invoice{}, "invoice_number", "INV")
}

// nextDocumentNumber computes the next number for a yearly sequence of the
// form <prefix>-<year>-<5 digit seq> over the given column
func nextDocumentNumber(ctx context.Context, db *gorm.DB, model interface{}, column, prefix string) (string, error) {
	yearPrefix := fmt.Sprintf("%s-%d-", prefix, time.Now().Year())

	var last string
	err := db.WithContext(ctx).
		Model(model).
		Select(fmt.Sprintf("COALESCE(MAX(%s), '')", column)).
		Where(fmt.Sprintf("%s LIKE ?", column), yearPrefix+"%").
		Scan(&last).Error
	if err != nil {
		return "", err
	}

	seq := 1
	if last != "" {
		if n, err := strconv.Atoi(strings.TrimPrefix(last, yearPrefix)); err == nil {
			seq = n + 1
		}
	}

	return fmt.Sprintf("%s%05d", yearPrefix, seq), nil
}

// Ensure GormInvoiceRepository implements billing.InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
