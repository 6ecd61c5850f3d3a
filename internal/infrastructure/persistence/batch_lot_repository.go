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

// GormBatchLotRepository implements inventory.BatchLotRepository using GORM
type GormBatchLotRepository struct {
	db *gorm.DB
}

// NewGormBatchLotRepository creates a new GORM batch lot repository
func NewGormBatchLotRepository(db *gorm.DB) *GormBatchLotRepository {
	return &GormBatchLotRepository{db: db}
}

// FindByID finds a batch by its ID
func (r *GormBatchLotRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.BatchLot, error) {
	var batch inventory.BatchLot
	err := r.db.WithContext(ctx).First(&batch, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByProduct finds all batches of a product
func (r *GormBatchLotRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.BatchLot, error) {
	var batches []inventory.BatchLot
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&batches).Error
	if err != nil {
		return nil, err
	}
	return batches, nil
}

// FindAvailableByProduct finds batches sellable as of the given time,
// ordered by the allocation key: expiry ascending with no-expiry last,
// creation time breaking ties
func (r *GormBatchLotRepository) FindAvailableByProduct(ctx context.Context, productID uuid.UUID, asOf time.Time) ([]inventory.BatchLot, error) {
	var batches []inventory.BatchLot
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND quantity > 0", productID).
		Where("expiry_date IS NULL OR expiry_date >= ?", asOf).
		Order("expiry_date ASC NULLS LAST, created_at ASC").
		Find(&batches).Error
	if err != nil {
		return nil, err
	}
	return batches, nil
}

// FindExpiringWithin finds batches with stock expiring inside the window
func (r *GormBatchLotRepository) FindExpiringWithin(ctx context.Context, window time.Duration, filter shared.Filter) ([]inventory.BatchLot, error) {
	deadline := time.Now().Add(window)

	var batches []inventory.BatchLot
	query := r.db.WithContext(ctx).
		Where("quantity > 0 AND expiry_date IS NOT NULL AND expiry_date <= ?", deadline)
	query = applyFilter(query, filter, "lot_number")
	if filter.OrderBy == "" {
		query = query.Order("expiry_date ASC")
	}
	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindAll finds all batches matching the filter
func (r *GormBatchLotRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.BatchLot, error) {
	var batches []inventory.BatchLot
	query := applyFilter(r.db.WithContext(ctx), filter, "lot_number")
	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// SumAvailableByProduct sums the sellable quantity of a product
func (r *GormBatchLotRepository) SumAvailableByProduct(ctx context.Context, productID uuid.UUID, asOf time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&inventory.BatchLot{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("product_id = ? AND quantity > 0", productID).
		Where("expiry_date IS NULL OR expiry_date >= ?", asOf).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// Save creates or updates a batch without a version check
func (r *GormBatchLotRepository) Save(ctx context.Context, batch *inventory.BatchLot) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

// SaveWithLock saves the batch with an optimistic version check. The write
// only lands if the stored version still matches the version the batch was
// loaded at; a lost race surfaces as shared.ErrConcurrencyConflict.
func (r *GormBatchLotRepository) SaveWithLock(ctx context.Context, batch *inventory.BatchLot) error {
	loadedVersion := batch.Version
	batch.IncrementVersion()

	result := r.db.WithContext(ctx).
		Model(&inventory.BatchLot{}).
		Where("id = ? AND version = ?", batch.ID, loadedVersion).
		Updates(map[string]interface{}{
			"quantity":   batch.Quantity,
			"unit_cost":  batch.UnitCost,
			"version":    batch.Version,
			"updated_at": batch.UpdatedAt,
		})
	if result.Error != nil {
		batch.Version = loadedVersion
		return result.Error
	}
	if result.RowsAffected == 0 {
		batch.Version = loadedVersion
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Ensure GormBatchLotRepository implements inventory.BatchLotRepository
var _ inventory.BatchLotRepository = (*GormBatchLotRepository)(nil)
