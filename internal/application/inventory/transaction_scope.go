package inventory

import (
	"context"

	"github.com/pharmapos/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to inventory repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all inventory repositories
// within a transaction. All repositories returned share the same underlying
// database transaction.
//
// Aggregate boundary notes:
//   - StockRepo: repository for the ProductStock aggregate root. All stock
//     state changes (including batches) go through this repository.
//   - BatchRepo: read-only queries across batches (FIFO listings, expiry
//     reports). Batches are child entities of ProductStock and are persisted
//     via the aggregate, never through this port.
//   - MovementRepo: append-only repository for the stock movement ledger.
type TransactionalRepositories interface {
	// StockRepo returns the product stock repository scoped to the current transaction
	StockRepo() inventory.ProductStockRepository
	// BatchRepo returns the batch query repository scoped to the current transaction
	BatchRepo() inventory.BatchRepository
	// MovementRepo returns the movement ledger repository scoped to the current transaction
	MovementRepo() inventory.StockMovementRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing.
type NoOpTransactionScope struct {
	stockRepo    inventory.ProductStockRepository
	batchRepo    inventory.BatchRepository
	movementRepo inventory.StockMovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	stockRepo inventory.ProductStockRepository,
	batchRepo inventory.BatchRepository,
	movementRepo inventory.StockMovementRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		stockRepo:    stockRepo,
		batchRepo:    batchRepo,
		movementRepo: movementRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// StockRepo returns the product stock repository.
func (s *NoOpTransactionScope) StockRepo() inventory.ProductStockRepository {
	return s.stockRepo
}

// BatchRepo returns the batch query repository.
func (s *NoOpTransactionScope) BatchRepo() inventory.BatchRepository {
	return s.batchRepo
}

// MovementRepo returns the movement ledger repository.
func (s *NoOpTransactionScope) MovementRepo() inventory.StockMovementRepository {
	return s.movementRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
