package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pharmapos/backend/internal/domain/inventory"
	"github.com/pharmapos/backend/internal/domain/shared"
)

// batchConsumptionOrder sorts preloaded batches the way the domain consumes
// them: earliest expiry first, creation time breaking ties.
const batchConsumptionOrder = "expiry_date ASC, created_at ASC"

// GormProductStockRepository implements ProductStockRepository using GORM
type GormProductStockRepository struct {
	db *gorm.DB
}

// NewGormProductStockRepository creates a new GormProductStockRepository
func NewGormProductStockRepository(db *gorm.DB) *GormProductStockRepository {
	return &GormProductStockRepository{db: db}
}

// FindByShopAndProduct loads a product's stock with all batches
func (r *GormProductStockRepository) FindByShopAndProduct(ctx context.Context, tenantID, shopID, productID uuid.UUID) (*inventory.ProductStock, error) {
	return r.find(r.db.WithContext(ctx), tenantID, shopID, productID)
}

// FindByShopAndProductForUpdate loads the stock row under a FOR UPDATE lock.
// Must run inside a transaction; outside one the lock is released immediately.
func (r *GormProductStockRepository) FindByShopAndProductForUpdate(ctx context.Context, tenantID, shopID, productID uuid.UUID) (*inventory.ProductStock, error) {
	return r.find(
		r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}),
		tenantID, shopID, productID,
	)
}

func (r *GormProductStockRepository) find(query *gorm.DB, tenantID, shopID, productID uuid.UUID) (*inventory.ProductStock, error) {
	var stock inventory.ProductStock
	err := query.
		Preload("Batches", func(db *gorm.DB) *gorm.DB {
			return db.Order(batchConsumptionOrder)
		}).
		Where("tenant_id = ? AND shop_id = ? AND product_id = ?", tenantID, shopID, productID).
		First(&stock).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	stock.MarkLoaded()
	return &stock, nil
}

// GetOrCreate loads the stock or creates an empty record when none exists
func (r *GormProductStockRepository) GetOrCreate(ctx context.Context, tenantID, shopID, productID uuid.UUID) (*inventory.ProductStock, error) {
	stock, err := r.FindByShopAndProduct(ctx, tenantID, shopID, productID)
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	stock, err = inventory.NewProductStock(tenantID, shopID, productID)
	if err != nil {
		return nil, err
	}

	// ON CONFLICT covers the race where two receipts create the same
	// shop-product record concurrently
	result := r.db.WithContext(ctx).
		Omit("Batches").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "shop_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(stock)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return r.FindByShopAndProduct(ctx, tenantID, shopID, productID)
	}

	stock.MarkLoaded()
	return stock, nil
}

// Save persists the aggregate and its batches with an optimistic version
// check against the version the aggregate was loaded at.
func (r *GormProductStockRepository) Save(ctx context.Context, stock *inventory.ProductStock) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if stock.LoadedVersion() == 0 {
			if err := tx.Omit("Batches").Create(stock).Error; err != nil {
				return err
			}
		} else {
			result := tx.Model(&inventory.ProductStock{}).
				Where("id = ? AND version = ?", stock.ID, stock.LoadedVersion()).
				Updates(map[string]interface{}{
					"total_quantity": stock.TotalQuantity,
					"version":        stock.Version,
					"updated_at":     stock.UpdatedAt,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return shared.ErrConcurrencyConflict
			}
		}

		// upsert by primary key so freshly received batches insert and
		// existing ones update in the same pass
		for idx := range stock.Batches {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(&stock.Batches[idx]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	stock.MarkLoaded()
	return nil
}

// List returns the product stocks of a shop, paginated
func (r *GormProductStockRepository) List(ctx context.Context, tenantID, shopID uuid.UUID, filter shared.Filter) (shared.Paginated[inventory.ProductStock], error) {
	base := r.db.WithContext(ctx).Model(&inventory.ProductStock{}).
		Where("tenant_id = ? AND shop_id = ?", tenantID, shopID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return shared.Paginated[inventory.ProductStock]{}, err
	}

	orderBy := ValidateSortField(filter.OrderBy, ProductStockSortFields, "product_id")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var stocks []inventory.ProductStock
	query := base.
		Preload("Batches", func(db *gorm.DB) *gorm.DB {
			return db.Order(batchConsumptionOrder)
		}).
		Order(orderBy + " " + orderDir)
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Find(&stocks).Error; err != nil {
		return shared.Paginated[inventory.ProductStock]{}, err
	}

	for idx := range stocks {
		stocks[idx].MarkLoaded()
	}
	return shared.NewPaginated(stocks, total, filter.Page, filter.PageSize), nil
}

// Ensure GormProductStockRepository implements ProductStockRepository
var _ inventory.ProductStockRepository = (*GormProductStockRepository)(nil)
