package persistence

import (
	"context"

	appbilling "github.com/pharmstock/backend/internal/application/billing"
	appinventory "github.com/pharmstock/backend/internal/application/inventory"
	"github.com/pharmstock/backend/internal/domain/billing"
	"github.com/pharmstock/backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormBillingTransactionScope runs settlement work inside a single
// database transaction. All repositories handed to the callback share the
// transaction, so an invoice confirmation either deducts every batch and
// appends every ledger entry, or none of them.
type GormBillingTransactionScope struct {
	db *gorm.DB
}

// NewGormBillingTransactionScope creates a billing transaction scope
func NewGormBillingTransactionScope(db *gorm.DB) *GormBillingTransactionScope {
	return &GormBillingTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormBillingTransactionScope) Execute(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormBillingRepositories{tx: tx})
	})
}

type gormBillingRepositories struct {
	tx *gorm.DB
}

func (r *gormBillingRepositories) InvoiceRepo() billing.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

func (r *gormBillingRepositories) QuotationRepo() billing.QuotationRepository {
	return NewGormQuotationRepository(r.tx)
}

func (r *gormBillingRepositories) BatchRepo() inventory.BatchLotRepository {
	return NewGormBatchLotRepository(r.tx)
}

func (r *gormBillingRepositories) LedgerRepo() inventory.StockLedgerRepository {
	return NewGormStockLedgerRepository(r.tx)
}

// GormInventoryTransactionScope runs stock mutations inside a single
// database transaction: balance change, ledger append and (for returns)
// invoice credit commit or roll back as one unit.
type GormInventoryTransactionScope struct {
	db *gorm.DB
}

// NewGormInventoryTransactionScope creates an inventory transaction scope
func NewGormInventoryTransactionScope(db *gorm.DB) *GormInventoryTransactionScope {
	return &GormInventoryTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormInventoryTransactionScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormInventoryRepositories{tx: tx})
	})
}

type gormInventoryRepositories struct {
	tx *gorm.DB
}

func (r *gormInventoryRepositories) BatchRepo() inventory.BatchLotRepository {
	return NewGormBatchLotRepository(r.tx)
}

func (r *gormInventoryRepositories) LedgerRepo() inventory.StockLedgerRepository {
	return NewGormStockLedgerRepository(r.tx)
}

func (r *gormInventoryRepositories) AdjustmentRepo() inventory.StockAdjustmentRepository {
	return NewGormStockAdjustmentRepository(r.tx)
}

func (r *gormInventoryRepositories) InvoiceRepo() billing.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

// Ensure the scopes implement the application transaction interfaces
var _ appbilling.TransactionScope = (*GormBillingTransactionScope)(nil)
var _ appinventory.TransactionScope = (*GormInventoryTransactionScope)(nil)
