package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pharmapos/backend/internal/domain/shared"
)

// ProductStockRepository persists the ProductStock aggregate with its batches
type ProductStockRepository interface {
	// FindByShopAndProduct loads a product's stock with all batches, or
	// shared.ErrNotFound when the product has never been stocked at the shop
	FindByShopAndProduct(ctx context.Context, tenantID, shopID, productID uuid.UUID) (*ProductStock, error)

	// FindByShopAndProductForUpdate loads the stock under a row lock so that
	// concurrent receipts and consumptions serialize. Must run inside a
	// transaction.
	FindByShopAndProductForUpdate(ctx context.Context, tenantID, shopID, productID uuid.UUID) (*ProductStock, error)

	// GetOrCreate loads the stock or creates an empty record when none exists
	GetOrCreate(ctx context.Context, tenantID, shopID, productID uuid.UUID) (*ProductStock, error)

	// Save persists the aggregate and its batches. The aggregate version is
	// checked against the stored one; a mismatch returns
	// shared.ErrConcurrencyConflict.
	Save(ctx context.Context, stock *ProductStock) error

	// List returns the product stocks of a shop, paginated
	List(ctx context.Context, tenantID, shopID uuid.UUID, filter shared.Filter) (shared.Paginated[ProductStock], error)
}

// BatchRepository provides read access to batches across products.
// Writes go through the ProductStock aggregate; this port only queries.
type BatchRepository interface {
	// FindByID loads a single batch
	FindByID(ctx context.Context, tenantID, batchID uuid.UUID) (*Batch, error)

	// FindByProductFIFO returns a product's stocked batches in consumption
	// order: earliest expiry first, creation time breaking ties
	FindByProductFIFO(ctx context.Context, tenantID, shopID, productID uuid.UUID) ([]Batch, error)

	// FindExpiringSoon returns batches with stock whose expiry falls on or
	// before the horizon, soonest first
	FindExpiringSoon(ctx context.Context, tenantID, shopID uuid.UUID, horizon time.Time, filter shared.Filter) (shared.Paginated[Batch], error)

	// FindExpired returns batches with stock already expired at the reference date
	FindExpired(ctx context.Context, tenantID, shopID uuid.UUID, reference time.Time) ([]Batch, error)
}

// StockMovementRepository is the append-only movement ledger
type StockMovementRepository interface {
	// Append writes one or more movements. Movements are never updated or
	// deleted afterwards.
	Append(ctx context.Context, movements ...*StockMovement) error

	// FindByProduct returns a product's movements newest first
	FindByProduct(ctx context.Context, tenantID, shopID, productID uuid.UUID, filter shared.Filter) (shared.Paginated[StockMovement], error)

	// FindByReference returns the movements recorded for one reference
	// (a sale or purchase order id)
	FindByReference(ctx context.Context, tenantID uuid.UUID, reference string) ([]StockMovement, error)
}
