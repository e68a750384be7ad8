package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pharmapos/backend/internal/domain/inventory"
	"github.com/pharmapos/backend/internal/domain/shared"
)

// GormStockMovementRepository implements the append-only movement ledger
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Append writes one or more movements. The ledger has no update or delete.
func (r *GormStockMovementRepository) Append(ctx context.Context, movements ...*inventory.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(movements).Error
}

// FindByProduct returns a product's movements newest first
func (r *GormStockMovementRepository) FindByProduct(ctx context.Context, tenantID, shopID, productID uuid.UUID, filter shared.Filter) (shared.Paginated[inventory.StockMovement], error) {
	base := r.db.WithContext(ctx).Model(&inventory.StockMovement{}).
		Where("tenant_id = ? AND shop_id = ? AND product_id = ?", tenantID, shopID, productID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return shared.Paginated[inventory.StockMovement]{}, err
	}

	orderBy := ValidateSortField(filter.OrderBy, StockMovementSortFields, "moved_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var movements []inventory.StockMovement
	query := base.Order(orderBy + " " + orderDir)
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Find(&movements).Error; err != nil {
		return shared.Paginated[inventory.StockMovement]{}, err
	}

	return shared.NewPaginated(movements, total, filter.Page, filter.PageSize), nil
}

// FindByReference returns the movements recorded for one reference
func (r *GormStockMovementRepository) FindByReference(ctx context.Context, tenantID uuid.UUID, reference string) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND reference = ?", tenantID, reference).
		Order("moved_at ASC").
		Find(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}

// Ensure GormStockMovementRepository implements StockMovementRepository
var _ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)
