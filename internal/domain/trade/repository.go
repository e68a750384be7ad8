package trade

import (
	"context"

	"github.com/google/uuid"

	"github.com/pharmapos/backend/internal/domain/shared"
)

// PurchaseOrderRepository persists the PurchaseOrder aggregate
type PurchaseOrderRepository interface {
	// FindByID loads an order with its lines, or shared.ErrNotFound
	FindByID(ctx context.Context, tenantID, orderID uuid.UUID) (*PurchaseOrder, error)

	// FindByOrderNumber loads an order by its human-readable number
	FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*PurchaseOrder, error)

	// Save persists the order and its lines with an optimistic version check
	Save(ctx context.Context, order *PurchaseOrder) error

	// List returns orders matching the filter, paginated
	List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[PurchaseOrder], error)
}

// SaleRepository persists the Sale aggregate
type SaleRepository interface {
	// FindByID loads a ticket with its lines, or shared.ErrNotFound
	FindByID(ctx context.Context, tenantID, saleID uuid.UUID) (*Sale, error)

	// FindByTicketNumber loads a ticket by its human-readable number
	FindByTicketNumber(ctx context.Context, tenantID uuid.UUID, ticketNumber string) (*Sale, error)

	// Save persists the ticket and its lines with an optimistic version check
	Save(ctx context.Context, sale *Sale) error

	// List returns tickets matching the filter, paginated
	List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[Sale], error)
}
