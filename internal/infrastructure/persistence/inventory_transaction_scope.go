package persistence

import (
	"context"

	"gorm.io/gorm"

	appinv "github.com/pharmapos/backend/internal/application/inventory"
	"github.com/pharmapos/backend/internal/domain/inventory"
)

// GormInventoryTransactionScope implements the inventory TransactionScope
// using GORM transactions.
type GormInventoryTransactionScope struct {
	db *gorm.DB
}

// NewGormInventoryTransactionScope creates a new GormInventoryTransactionScope
func NewGormInventoryTransactionScope(db *gorm.DB) *GormInventoryTransactionScope {
	return &GormInventoryTransactionScope{db: db}
}

// Execute runs the given function within a database transaction. An error
// from the function rolls the transaction back; success commits it.
func (s *GormInventoryTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormInventoryRepositories{tx: tx})
	})
}

// gormInventoryRepositories provides transaction-scoped repositories
type gormInventoryRepositories struct {
	tx *gorm.DB
}

// StockRepo returns the product stock repository scoped to the current transaction
func (r *gormInventoryRepositories) StockRepo() inventory.ProductStockRepository {
	return NewGormProductStockRepository(r.tx)
}

// BatchRepo returns the batch repository scoped to the current transaction
func (r *gormInventoryRepositories) BatchRepo() inventory.BatchRepository {
	return NewGormBatchRepository(r.tx)
}

// MovementRepo returns the movement repository scoped to the current transaction
func (r *gormInventoryRepositories) MovementRepo() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// Ensure the implementations satisfy the application ports
var (
	_ appinv.TransactionScope          = (*GormInventoryTransactionScope)(nil)
	_ appinv.TransactionalRepositories = (*gormInventoryRepositories)(nil)
)
