package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/inventory"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStockLedgerRepository implements inventory.StockLedgerRepository
// using GORM. The ledger is append-only: there are no update or delete
// operations, matching the repository interface.
type GormStockLedgerRepository struct {
	db *gorm.DB
}

// NewGormStockLedgerRepository creates a new GORM stock ledger repository
func NewGormStockLedgerRepository(db *gorm.DB) *GormStockLedgerRepository {
	return &GormStockLedgerRepository{db: db}
}

// Create appends a ledger entry
func (r *GormStockLedgerRepository) Create(ctx context.Context, entry *inventory.StockLedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// CreateBatch appends multiple ledger entries
func (r *GormStockLedgerRepository) CreateBatch(ctx context.Context, entries []*inventory.StockLedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(entries).Error
}

// FindByBatch finds all entries for a batch in creation order
func (r *GormStockLedgerRepository) FindByBatch(ctx context.Context, batchID uuid.UUID) ([]inventory.StockLedgerEntry, error) {
	var entries []inventory.StockLedgerEntry
	err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByProduct finds entries for a product
func (r *GormStockLedgerRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]inventory.StockLedgerEntry, error) {
	var entries []inventory.StockLedgerEntry
	query := applyFilter(r.db.WithContext(ctx).Where("product_id = ?", productID), filter, "reference")
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByDateRange finds entries created within a window
func (r *GormStockLedgerRepository) FindByDateRange(ctx context.Context, start, end time.Time, filter shared.Filter) ([]inventory.StockLedgerEntry, error) {
	var entries []inventory.StockLedgerEntry
	query := r.db.WithContext(ctx).Where("created_at >= ? AND created_at < ?", start, end)
	query = applyFilter(query, filter, "reference")
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// SumMovements returns (Σ quantity_in, Σ quantity_out) for a batch
func (r *GormStockLedgerRepository) SumMovements(ctx context.Context, batchID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	var sums struct {
		TotalIn  decimal.Decimal
		TotalOut decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&inventory.StockLedgerEntry{}).
		Select("COALESCE(SUM(quantity_in), 0) AS total_in, COALESCE(SUM(quantity_out), 0) AS total_out").
		Where("batch_id = ?", batchID).
		Scan(&sums).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return sums.TotalIn, sums.TotalOut, nil
}

// Ensure GormStockLedgerRepository implements inventory.StockLedgerRepository
var _ inventory.StockLedgerRepository = (*GormStockLedgerRepository)(nil)
