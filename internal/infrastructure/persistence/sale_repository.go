package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pharmapos/backend/internal/domain/shared"
	"github.com/pharmapos/backend/internal/domain/trade"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID loads a ticket with its lines
func (r *GormSaleRepository) FindByID(ctx context.Context, tenantID, saleID uuid.UUID) (*trade.Sale, error) {
	var sale trade.Sale
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("tenant_id = ? AND id = ?", tenantID, saleID).
		First(&sale).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	sale.MarkLoaded()
	return &sale, nil
}

// FindByTicketNumber loads a ticket by its human-readable number
func (r *GormSaleRepository) FindByTicketNumber(ctx context.Context, tenantID uuid.UUID, ticketNumber string) (*trade.Sale, error) {
	var sale trade.Sale
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("tenant_id = ? AND ticket_number = ?", tenantID, ticketNumber).
		First(&sale).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	sale.MarkLoaded()
	return &sale, nil
}

// Save persists the ticket and its lines with an optimistic version check
func (r *GormSaleRepository) Save(ctx context.Context, sale *trade.Sale) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if sale.LoadedVersion() == 0 {
			if err := tx.Omit("Lines").Create(sale).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return shared.ErrAlreadyExists
				}
				return err
			}
		} else {
			result := tx.Model(&trade.Sale{}).
				Where("id = ? AND version = ?", sale.ID, sale.LoadedVersion()).
				Updates(map[string]interface{}{
					"customer_id":   sale.CustomerID,
					"total_amount":  sale.TotalAmount,
					"paid_amount":   sale.PaidAmount,
					"status":        sale.Status,
					"completed_at":  sale.CompletedAt,
					"cancelled_at":  sale.CancelledAt,
					"cancel_reason": sale.CancelReason,
					"version":       sale.Version,
					"updated_at":    sale.UpdatedAt,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return shared.ErrConcurrencyConflict
			}
		}

		if err := tx.Where("sale_id = ?", sale.ID).Delete(&trade.SaleLine{}).Error; err != nil {
			return err
		}
		if len(sale.Lines) > 0 {
			if err := tx.Create(&sale.Lines).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	sale.MarkLoaded()
	return nil
}

// List returns tickets matching the filter, paginated
func (r *GormSaleRepository) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[trade.Sale], error) {
	base := r.db.WithContext(ctx).Model(&trade.Sale{}).
		Where("tenant_id = ?", tenantID)
	base = applySaleFilters(base, filter)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return shared.Paginated[trade.Sale]{}, err
	}

	orderBy := ValidateSortField(filter.OrderBy, SaleSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var sales []trade.Sale
	query := base.
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Order(orderBy + " " + orderDir)
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Find(&sales).Error; err != nil {
		return shared.Paginated[trade.Sale]{}, err
	}

	for idx := range sales {
		sales[idx].MarkLoaded()
	}
	return shared.NewPaginated(sales, total, filter.Page, filter.PageSize), nil
}

func applySaleFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "shop_id":
			query = query.Where("shop_id = ?", value)
		case "cashier_id":
			query = query.Where("cashier_id = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		}
	}
	return query
}

// Ensure GormSaleRepository implements SaleRepository
var _ trade.SaleRepository = (*GormSaleRepository)(nil)
