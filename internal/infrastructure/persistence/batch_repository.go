package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pharmapos/backend/internal/domain/inventory"
	"github.com/pharmapos/backend/internal/domain/shared"
)

// GormBatchRepository implements BatchRepository using GORM.
// It is read-only; batch writes go through the ProductStock aggregate.
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// FindByID loads a single batch
func (r *GormBatchRepository) FindByID(ctx context.Context, tenantID, batchID uuid.UUID) (*inventory.Batch, error) {
	var batch inventory.Batch
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, batchID).
		First(&batch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByProductFIFO returns a product's stocked batches in consumption order
func (r *GormBatchRepository) FindByProductFIFO(ctx context.Context, tenantID, shopID, productID uuid.UUID) ([]inventory.Batch, error) {
	var batches []inventory.Batch
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND shop_id = ? AND product_id = ? AND quantity > 0", tenantID, shopID, productID).
		Order(batchConsumptionOrder).
		Find(&batches).Error
	if err != nil {
		return nil, err
	}
	return batches, nil
}

// FindExpiringSoon returns batches with stock whose expiry falls on or before
// the horizon, soonest first
func (r *GormBatchRepository) FindExpiringSoon(ctx context.Context, tenantID, shopID uuid.UUID, horizon time.Time, filter shared.Filter) (shared.Paginated[inventory.Batch], error) {
	base := r.db.WithContext(ctx).Model(&inventory.Batch{}).
		Where("tenant_id = ? AND shop_id = ? AND quantity > 0", tenantID, shopID).
		Where("expiry_date <= ?", horizon)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return shared.Paginated[inventory.Batch]{}, err
	}

	var batches []inventory.Batch
	query := base.Order(batchConsumptionOrder)
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Find(&batches).Error; err != nil {
		return shared.Paginated[inventory.Batch]{}, err
	}

	return shared.NewPaginated(batches, total, filter.Page, filter.PageSize), nil
}

// FindExpired returns batches with stock already expired at the reference date
func (r *GormBatchRepository) FindExpired(ctx context.Context, tenantID, shopID uuid.UUID, reference time.Time) ([]inventory.Batch, error) {
	var batches []inventory.Batch
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND shop_id = ? AND quantity > 0", tenantID, shopID).
		Where("expiry_date <= ?", reference).
		Order(batchConsumptionOrder).
		Find(&batches).Error
	if err != nil {
		return nil, err
	}
	return batches, nil
}

// Ensure GormBatchRepository implements BatchRepository
var _ inventory.BatchRepository = (*GormBatchRepository)(nil)
