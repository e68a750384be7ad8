package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pharmapos/backend/internal/domain/shared"
	"github.com/pharmapos/backend/internal/domain/trade"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID loads an order with its lines
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, tenantID, orderID uuid.UUID) (*trade.PurchaseOrder, error) {
	var order trade.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("tenant_id = ? AND id = ?", tenantID, orderID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	order.MarkLoaded()
	return &order, nil
}

// FindByOrderNumber loads an order by its human-readable number
func (r *GormPurchaseOrderRepository) FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*trade.PurchaseOrder, error) {
	var order trade.PurchaseOrder
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("tenant_id = ? AND order_number = ?", tenantID, orderNumber).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	order.MarkLoaded()
	return &order, nil
}

// Save persists the order and its lines with an optimistic version check
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *trade.PurchaseOrder) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if order.LoadedVersion() == 0 {
			if err := tx.Omit("Lines").Create(order).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return shared.ErrAlreadyExists
				}
				return err
			}
		} else {
			result := tx.Model(&trade.PurchaseOrder{}).
				Where("id = ? AND version = ?", order.ID, order.LoadedVersion()).
				Updates(map[string]interface{}{
					"total_amount":  order.TotalAmount,
					"status":        order.Status,
					"confirmed_at":  order.ConfirmedAt,
					"received_at":   order.ReceivedAt,
					"cancelled_at":  order.CancelledAt,
					"cancel_reason": order.CancelReason,
					"version":       order.Version,
					"updated_at":    order.UpdatedAt,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return shared.ErrConcurrencyConflict
			}
		}

		// lines are replaced wholesale; removed draft lines disappear here
		if err := tx.Where("order_id = ?", order.ID).Delete(&trade.PurchaseOrderLine{}).Error; err != nil {
			return err
		}
		if len(order.Lines) > 0 {
			if err := tx.Create(&order.Lines).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	order.MarkLoaded()
	return nil
}

// List returns orders matching the filter, paginated
func (r *GormPurchaseOrderRepository) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[trade.PurchaseOrder], error) {
	base := r.db.WithContext(ctx).Model(&trade.PurchaseOrder{}).
		Where("tenant_id = ?", tenantID)
	base = applyPurchaseOrderFilters(base, filter)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return shared.Paginated[trade.PurchaseOrder]{}, err
	}

	orderBy := ValidateSortField(filter.OrderBy, PurchaseOrderSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var orders []trade.PurchaseOrder
	query := base.
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Order(orderBy + " " + orderDir)
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Find(&orders).Error; err != nil {
		return shared.Paginated[trade.PurchaseOrder]{}, err
	}

	for idx := range orders {
		orders[idx].MarkLoaded()
	}
	return shared.NewPaginated(orders, total, filter.Page, filter.PageSize), nil
}

func applyPurchaseOrderFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "shop_id":
			query = query.Where("shop_id = ?", value)
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		}
	}
	return query
}

// Ensure GormPurchaseOrderRepository implements PurchaseOrderRepository
var _ trade.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
