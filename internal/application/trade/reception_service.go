package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pharmapos/backend/internal/domain/inventory"
	"github.com/pharmapos/backend/internal/domain/shared"
	"github.com/pharmapos/backend/internal/domain/trade"
)

// ReceptionService books received goods against a purchase order. One
// reception updates the order lines, creates or merges the target batches
// and appends one IN movement per batch, all in a single transaction.
type ReceptionService struct {
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewReceptionService creates a new ReceptionService
func NewReceptionService(txScope TransactionScope, logger *zap.Logger) *ReceptionService {
	return &ReceptionService{
		txScope: txScope,
		logger:  logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ReceptionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *ReceptionService) publishDomainEvents(ctx context.Context, roots ...shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	for _, root := range roots {
		events := root.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		_ = s.eventPublisher.Publish(ctx, events...)
		root.ClearDomainEvents()
	}
}

// ReceivePurchaseOrder books the given line instructions against the order.
// An instruction with quantity zero receives the line's full remaining
// quantity; a quantity above the remaining is capped at it. The order, the
// batches and the movement ledger change atomically.
func (s *ReceptionService) ReceivePurchaseOrder(ctx context.Context, tenantID, orderID uuid.UUID, req ReceivePurchaseOrderRequest) (*ReceivePurchaseOrderResponse, error) {
	if len(req.Lines) == 0 {
		return nil, shared.NewDomainError("NO_LINES", "Reception requires at least one line instruction")
	}

	var order *trade.PurchaseOrder
	var response ReceivePurchaseOrderResponse
	stocks := make([]*inventory.ProductStock, 0, len(req.Lines))

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByID(ctx, tenantID, orderID)
		if err != nil {
			return err
		}

		received := make([]ReceivedLineResponse, 0, len(req.Lines))
		for _, instruction := range req.Lines {
			line := order.FindLine(instruction.LineID)
			if line == nil {
				return shared.NewDomainError("LINE_NOT_FOUND", "Order line not found")
			}

			quantity := instruction.Quantity
			if quantity.IsZero() {
				quantity = line.RemainingQuantity()
			}

			accepted, err := order.RecordReception(instruction.LineID, quantity)
			if err != nil {
				return err
			}

			stock, err := repos.StockRepo().GetOrCreate(ctx, tenantID, order.ShopID, line.ProductID)
			if err != nil {
				return err
			}

			batch, err := stock.ReceiveBatch(instruction.BatchNumber, accepted, instruction.ExpiryDate, &order.ID, &line.ID)
			if err != nil {
				return err
			}

			movement, err := inventory.NewInboundMovement(tenantID, order.ShopID, line.ProductID, accepted, order.OrderNumber, req.ActorID)
			if err != nil {
				return err
			}
			movement.WithBatchID(batch.ID)
			if err := repos.MovementRepo().Append(ctx, movement); err != nil {
				return err
			}

			if err := repos.StockRepo().Save(ctx, stock); err != nil {
				return err
			}
			stocks = append(stocks, stock)

			received = append(received, ReceivedLineResponse{
				LineID:      line.ID,
				ProductID:   line.ProductID,
				BatchNumber: instruction.BatchNumber,
				Received:    accepted,
				Remaining:   line.RemainingQuantity(),
			})
		}

		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}

		response = ReceivePurchaseOrderResponse{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			Status:      order.Status.String(),
			Lines:       received,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase order received",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_number", response.OrderNumber),
		zap.String("status", response.Status),
		zap.Int("lines", len(response.Lines)))

	roots := make([]shared.AggregateRoot, 0, len(stocks)+1)
	roots = append(roots, order)
	for _, stock := range stocks {
		roots = append(roots, stock)
	}
	s.publishDomainEvents(ctx, roots...)

	return &response, nil
}

// ReceiveAll receives the full remaining quantity of every open line using
// the batch info recorded on the order lines. The legacy receive-all path
// created stock without batch tracking; here every unit of stock belongs
// to a batch, so lines without planned batch info fail with
// MISSING_BATCH_INFO instead of producing untracked stock.
//
// Deprecated: use ReceivePurchaseOrder with explicit line instructions so
// the received lots and expiry dates come from the goods actually on the
// dock, not from what was planned at ordering time.
func (s *ReceptionService) ReceiveAll(ctx context.Context, tenantID, orderID uuid.UUID, actorID uuid.UUID) (*ReceivePurchaseOrderResponse, error) {
	var instructions []ReceiveLineInstruction

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, tenantID, orderID)
		if err != nil {
			return err
		}

		for _, line := range order.Lines {
			if line.IsFullyReceived() {
				continue
			}
			if line.BatchNumber == "" || line.ExpiryDate == nil {
				return shared.NewDomainError("MISSING_BATCH_INFO", "Line has no batch info recorded, receive with explicit instructions")
			}
			instructions = append(instructions, ReceiveLineInstruction{
				LineID:      line.ID,
				Quantity:    decimal.Zero, // full remaining
				BatchNumber: line.BatchNumber,
				ExpiryDate:  *line.ExpiryDate,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(instructions) == 0 {
		return nil, shared.NewDomainError("NOTHING_TO_RECEIVE", "Order has no open lines")
	}

	return s.ReceivePurchaseOrder(ctx, tenantID, orderID, ReceivePurchaseOrderRequest{
		Lines:   instructions,
		ActorID: actorID,
	})
}
