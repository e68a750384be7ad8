package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pharmapos/backend/internal/domain/inventory"
	"github.com/pharmapos/backend/internal/domain/shared"
)

// BatchService handles batch-level stock operations: receiving goods into
// batches, FIFO consumption, manual adjustments and expiry reporting.
// Every mutating operation runs inside one transaction scope so the
// aggregate, its batches and the movement ledger change atomically.
type BatchService struct {
	txScope        TransactionScope
	batchRepo      inventory.BatchRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewBatchService creates a new BatchService
func NewBatchService(txScope TransactionScope, batchRepo inventory.BatchRepository, logger *zap.Logger) *BatchService {
	return &BatchService{
		txScope:   txScope,
		batchRepo: batchRepo,
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *BatchService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publishDomainEvents publishes pending events after a successful commit.
// Errors are logged by the event bus, not propagated.
func (s *BatchService) publishDomainEvents(ctx context.Context, stock *inventory.ProductStock) {
	if s.eventPublisher == nil {
		return
	}
	events := stock.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	stock.ClearDomainEvents()
}

// AddBatch registers received goods against a batch number, creating the
// batch on first receipt and merging on repeats, and appends one IN
// movement to the ledger.
func (s *BatchService) AddBatch(ctx context.Context, tenantID uuid.UUID, req AddBatchRequest) (*BatchResponse, error) {
	var stock *inventory.ProductStock
	var batch *inventory.Batch

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		stock, err = repos.StockRepo().GetOrCreate(ctx, tenantID, req.ShopID, req.ProductID)
		if err != nil {
			return err
		}

		batch, err = stock.ReceiveBatch(req.BatchNumber, req.Quantity, req.ExpiryDate, req.PurchaseOrderID, req.PurchaseOrderLineID)
		if err != nil {
			return err
		}

		movement, err := inventory.NewInboundMovement(tenantID, req.ShopID, req.ProductID, req.Quantity, req.Reference, req.ActorID)
		if err != nil {
			return err
		}
		movement.WithBatchID(batch.ID)
		if err := repos.MovementRepo().Append(ctx, movement); err != nil {
			return err
		}

		return repos.StockRepo().Save(ctx, stock)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("batch received",
		zap.String("tenant_id", tenantID.String()),
		zap.String("product_id", req.ProductID.String()),
		zap.String("batch_number", req.BatchNumber),
		zap.String("quantity", req.Quantity.String()))

	s.publishDomainEvents(ctx, stock)

	response := ToBatchResponse(batch, time.Now())
	return &response, nil
}

// DecreaseStock consumes the requested quantity across a product's batches
// in FIFO order and appends a single OUT movement covering the whole
// consumption. With BlockIfExpired set, any expired batch encountered in
// FIFO order aborts the operation.
func (s *BatchService) DecreaseStock(ctx context.Context, tenantID uuid.UUID, req DecreaseStockRequest) (*DecreaseStockResponse, error) {
	var stock *inventory.ProductStock
	var plan *inventory.ConsumptionPlan

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		stock, err = repos.StockRepo().FindByShopAndProductForUpdate(ctx, tenantID, req.ShopID, req.ProductID)
		if err != nil {
			return err
		}

		plan, err = stock.Consume(req.Quantity, req.BlockIfExpired, time.Now())
		if err != nil {
			return err
		}

		movement, err := inventory.NewOutboundMovement(tenantID, req.ShopID, req.ProductID, plan.TotalConsumed, req.Reference, req.ActorID)
		if err != nil {
			return err
		}
		if err := repos.MovementRepo().Append(ctx, movement); err != nil {
			return err
		}

		return repos.StockRepo().Save(ctx, stock)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock consumed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("product_id", req.ProductID.String()),
		zap.String("reference", req.Reference),
		zap.String("total", plan.TotalConsumed.String()),
		zap.Int("batches", len(plan.ConsumedFrom)))

	s.publishDomainEvents(ctx, stock)

	response := ToDecreaseStockResponse(stock, plan)
	return &response, nil
}

// AdjustStock corrects a batch to its counted quantity and appends an
// ADJUST movement with the mandatory reason.
func (s *BatchService) AdjustStock(ctx context.Context, tenantID uuid.UUID, req AdjustStockRequest) (*AdjustStockResponse, error) {
	var stock *inventory.ProductStock
	var response AdjustStockResponse

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		stock, err = repos.StockRepo().FindByShopAndProductForUpdate(ctx, tenantID, req.ShopID, req.ProductID)
		if err != nil {
			return err
		}

		difference, err := stock.AdjustBatch(req.BatchNumber, req.ActualQuantity, req.Reason)
		if err != nil {
			return err
		}

		// A zero difference still counts as a stock take, but there is
		// nothing to put on the ledger.
		if !difference.IsZero() {
			batch := stock.FindBatchByNumber(req.BatchNumber)
			movement, err := inventory.NewAdjustmentMovement(tenantID, req.ShopID, req.ProductID, difference.Abs(), "adjust:"+req.BatchNumber, req.Reason, req.ActorID)
			if err != nil {
				return err
			}
			movement.WithBatchID(batch.ID)
			if err := repos.MovementRepo().Append(ctx, movement); err != nil {
				return err
			}
		}

		if err := repos.StockRepo().Save(ctx, stock); err != nil {
			return err
		}

		response = AdjustStockResponse{
			BatchNumber: req.BatchNumber,
			Difference:  difference,
			NewQuantity: req.ActualQuantity,
			TotalStock:  stock.TotalQuantity,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock adjusted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("batch_number", req.BatchNumber),
		zap.String("difference", response.Difference.String()),
		zap.String("reason", req.Reason))

	s.publishDomainEvents(ctx, stock)

	return &response, nil
}

// GetStock returns a product's stock position with its stocked batches
func (s *BatchService) GetStock(ctx context.Context, tenantID, shopID, productID uuid.UUID) (*ProductStockResponse, error) {
	var stock *inventory.ProductStock
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		stock, err = repos.StockRepo().FindByShopAndProduct(ctx, tenantID, shopID, productID)
		return err
	})
	if err != nil {
		return nil, err
	}

	response := ToProductStockResponse(stock, time.Now())
	return &response, nil
}

// ListExpiring returns batches with stock expiring within the given number
// of days, soonest first, each with its expiry classification.
func (s *BatchService) ListExpiring(ctx context.Context, tenantID, shopID uuid.UUID, withinDays int, filter shared.Filter) (shared.Paginated[BatchResponse], error) {
	if withinDays < 0 {
		return shared.Paginated[BatchResponse]{}, shared.NewDomainError("INVALID_HORIZON", "Days must not be negative")
	}

	now := time.Now()
	horizon := now.AddDate(0, 0, withinDays)

	page, err := s.batchRepo.FindExpiringSoon(ctx, tenantID, shopID, horizon, filter)
	if err != nil {
		return shared.Paginated[BatchResponse]{}, err
	}

	items := make([]BatchResponse, 0, len(page.Items))
	for idx := range page.Items {
		items = append(items, ToBatchResponse(&page.Items[idx], now))
	}

	return shared.Paginated[BatchResponse]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

// ListMovements returns a product's movement ledger, newest first
func (s *BatchService) ListMovements(ctx context.Context, tenantID, shopID, productID uuid.UUID, filter shared.Filter) (shared.Paginated[MovementResponse], error) {
	var page shared.Paginated[inventory.StockMovement]
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		page, err = repos.MovementRepo().FindByProduct(ctx, tenantID, shopID, productID, filter)
		return err
	})
	if err != nil {
		return shared.Paginated[MovementResponse]{}, err
	}

	items := make([]MovementResponse, 0, len(page.Items))
	for idx := range page.Items {
		items = append(items, ToMovementResponse(&page.Items[idx]))
	}

	return shared.Paginated[MovementResponse]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}
