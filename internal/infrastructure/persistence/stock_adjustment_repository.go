package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/inventory"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStockAdjustmentRepository implements inventory.StockAdjustmentRepository
// using GORM. Adjustments are immutable once created.
type GormStockAdjustmentRepository struct {
	db *gorm.DB
}

// NewGormStockAdjustmentRepository creates a new GORM stock adjustment repository
func NewGormStockAdjustmentRepository(db *gorm.DB) *GormStockAdjustmentRepository {
	return &GormStockAdjustmentRepository{db: db}
}

// Create persists a new adjustment
func (r *GormStockAdjustmentRepository) Create(ctx context.Context, adjustment *inventory.StockAdjustment) error {
	return r.db.WithContext(ctx).Create(adjustment).Error
}

// FindByID finds an adjustment by its ID
func (r *GormStockAdjustmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockAdjustment, error) {
	var adjustment inventory.StockAdjustment
	err := r.db.WithContext(ctx).First(&adjustment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &adjustment, nil
}

// FindByInvoice finds adjustments referencing an invoice
func (r *GormStockAdjustmentRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]inventory.StockAdjustment, error) {
	var adjustments []inventory.StockAdjustment
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&adjustments).Error
	if err != nil {
		return nil, err
	}
	return adjustments, nil
}

// FindByDateRange finds adjustments created within a window
func (r *GormStockAdjustmentRepository) FindByDateRange(ctx context.Context, start, end time.Time, filter shared.Filter) ([]inventory.StockAdjustment, error) {
	var adjustments []inventory.StockAdjustment
	query := r.db.WithContext(ctx).Where("created_at >= ? AND created_at < ?", start, end)
	query = applyFilter(query, filter, "reason")
	if err := query.Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}

// SumReturnedQuantity sums prior RETURN quantities for an
// (invoice, product, batch) triple; feeds the returnable ceiling
func (r *GormStockAdjustmentRepository) SumReturnedQuantity(ctx context.Context, invoiceID, productID, batchID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&inventory.StockAdjustment{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("type = ? AND invoice_id = ? AND product_id = ? AND batch_id = ?",
			inventory.AdjustmentTypeReturn, invoiceID, productID, batchID).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// Ensure GormStockAdjustmentRepository implements inventory.StockAdjustmentRepository
var _ inventory.StockAdjustmentRepository = (*GormStockAdjustmentRepository)(nil)
