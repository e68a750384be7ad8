package persistence

import (
	"context"

	"gorm.io/gorm"

	apptrade "github.com/pharmapos/backend/internal/application/trade"
	"github.com/pharmapos/backend/internal/domain/inventory"
	"github.com/pharmapos/backend/internal/domain/trade"
)

// GormTradeTransactionScope implements the trade TransactionScope using
// GORM transactions. Reception and sale finalization write the order or
// ticket, the product stock and the movement ledger atomically through it.
type GormTradeTransactionScope struct {
	db *gorm.DB
}

// NewGormTradeTransactionScope creates a new GormTradeTransactionScope
func NewGormTradeTransactionScope(db *gorm.DB) *GormTradeTransactionScope {
	return &GormTradeTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormTradeTransactionScope) Execute(ctx context.Context, fn func(repos apptrade.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTradeRepositories{tx: tx})
	})
}

// gormTradeRepositories provides transaction-scoped repositories
type gormTradeRepositories struct {
	tx *gorm.DB
}

// OrderRepo returns the purchase order repository scoped to the current transaction
func (r *gormTradeRepositories) OrderRepo() trade.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx)
}

// SaleRepo returns the sale repository scoped to the current transaction
func (r *gormTradeRepositories) SaleRepo() trade.SaleRepository {
	return NewGormSaleRepository(r.tx)
}

// StockRepo returns the product stock repository scoped to the current transaction
func (r *gormTradeRepositories) StockRepo() inventory.ProductStockRepository {
	return NewGormProductStockRepository(r.tx)
}

// MovementRepo returns the movement repository scoped to the current transaction
func (r *gormTradeRepositories) MovementRepo() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// Ensure the implementations satisfy the application ports
var (
	_ apptrade.TransactionScope          = (*GormTradeTransactionScope)(nil)
	_ apptrade.TransactionalRepositories = (*gormTradeRepositories)(nil)
)
