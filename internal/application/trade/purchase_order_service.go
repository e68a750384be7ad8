package trade

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pharmapos/backend/internal/domain/shared"
	"github.com/pharmapos/backend/internal/domain/shared/valueobject"
	"github.com/pharmapos/backend/internal/domain/trade"
)

// PurchaseOrderService handles the purchase order lifecycle up to
// confirmation. Reception is handled by ReceptionService because it also
// touches stock.
type PurchaseOrderService struct {
	orderRepo      trade.PurchaseOrderRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(orderRepo trade.PurchaseOrderRepository, logger *zap.Logger) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *PurchaseOrderService) publishDomainEvents(ctx context.Context, order *trade.PurchaseOrder) {
	if s.eventPublisher == nil {
		return
	}
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	order.ClearDomainEvents()
}

// Create opens a new draft order, optionally with initial lines
func (s *PurchaseOrderService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	order, err := trade.NewPurchaseOrder(tenantID, req.ShopID, req.OrderNumber, req.SupplierID, req.SupplierName)
	if err != nil {
		return nil, err
	}

	for _, lineReq := range req.Lines {
		line, err := order.AddLine(lineReq.ProductID, lineReq.ProductName, lineReq.Quantity, valueobject.NewMoneyUSD(lineReq.UnitCost))
		if err != nil {
			return nil, err
		}
		if lineReq.BatchNumber != "" || lineReq.ExpiryDate != nil {
			order.FindLine(line.ID).SetBatchInfo(lineReq.BatchNumber, lineReq.ExpiryDate)
		}
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("purchase order created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.Int("lines", len(order.Lines)))

	s.publishDomainEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// AddLine adds a line to a draft order
func (s *PurchaseOrderService) AddLine(ctx context.Context, tenantID, orderID uuid.UUID, req PurchaseOrderLineRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	line, err := order.AddLine(req.ProductID, req.ProductName, req.Quantity, valueobject.NewMoneyUSD(req.UnitCost))
	if err != nil {
		return nil, err
	}
	if req.BatchNumber != "" || req.ExpiryDate != nil {
		order.FindLine(line.ID).SetBatchInfo(req.BatchNumber, req.ExpiryDate)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Confirm transitions a draft order to confirmed
func (s *PurchaseOrderService) Confirm(ctx context.Context, tenantID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Confirm(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("purchase order confirmed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_number", order.OrderNumber))

	s.publishDomainEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Cancel cancels an order that has not received goods yet
func (s *PurchaseOrderService) Cancel(ctx context.Context, tenantID, orderID uuid.UUID, reason string) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Cancel(reason); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByID returns one order with its lines
func (s *PurchaseOrderService) GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// List returns orders matching the filter
func (s *PurchaseOrderService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[PurchaseOrderResponse], error) {
	page, err := s.orderRepo.List(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[PurchaseOrderResponse]{}, err
	}

	items := make([]PurchaseOrderResponse, 0, len(page.Items))
	for idx := range page.Items {
		items = append(items, ToPurchaseOrderResponse(&page.Items[idx]))
	}

	return shared.Paginated[PurchaseOrderResponse]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}
