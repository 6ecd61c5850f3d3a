package billing

import (
	"context"

	"github.com/pharmstock/backend/internal/domain/billing"
	"github.com/pharmstock/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the repositories a
// settlement touches. Everything executed inside the scope commits or
// rolls back as one unit; a confirmation never half-deducts stock.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within a
// transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// InvoiceRepo returns the invoice repository scoped to the current transaction
	InvoiceRepo() billing.InvoiceRepository
	// QuotationRepo returns the quotation repository scoped to the current transaction
	QuotationRepo() billing.QuotationRepository
	// BatchRepo returns the batch lot repository scoped to the current transaction
	BatchRepo() inventory.BatchLotRepository
	// LedgerRepo returns the stock ledger repository scoped to the current transaction
	LedgerRepo() inventory.StockLedgerRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing.
type NoOpTransactionScope struct {
	invoiceRepo   billing.InvoiceRepository
	quotationRepo billing.QuotationRepository
	batchRepo     inventory.BatchLotRepository
	ledgerRepo    inventory.StockLedgerRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	invoiceRepo billing.InvoiceRepository,
	quotationRepo billing.QuotationRepository,
	batchRepo inventory.BatchLotRepository,
	ledgerRepo inventory.StockLedgerRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		invoiceRepo:   invoiceRepo,
		quotationRepo: quotationRepo,
		batchRepo:     batchRepo,
		ledgerRepo:    ledgerRepo,
	}
}

// Execute runs the function without a real transaction (for testing).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// InvoiceRepo returns the invoice repository.
func (s *NoOpTransactionScope) InvoiceRepo() billing.InvoiceRepository {
	return s.invoiceRepo
}

// QuotationRepo returns the quotation repository.
func (s *NoOpTransactionScope) QuotationRepo() billing.QuotationRepository {
	return s.quotationRepo
}

// BatchRepo returns the batch lot repository.
func (s *NoOpTransactionScope) BatchRepo() inventory.BatchLotRepository {
	return s.batchRepo
}

// LedgerRepo returns the stock ledger repository.
func (s *NoOpTransactionScope) LedgerRepo() inventory.StockLedgerRepository {
	return s.ledgerRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
