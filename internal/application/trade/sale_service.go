package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pharmapos/backend/internal/domain/inventory"
	"github.com/pharmapos/backend/internal/domain/shared"
	"github.com/pharmapos/backend/internal/domain/shared/valueobject"
	"github.com/pharmapos/backend/internal/domain/trade"
)

// SaleService handles the point-of-sale ticket lifecycle. Finalization is
// all-or-nothing: the stock of every line is consumed in FIFO order inside
// one transaction, and the ticket completes only if every consumption
// succeeds. Expired batches block finalization.
type SaleService struct {
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewSaleService creates a new SaleService
func NewSaleService(txScope TransactionScope, logger *zap.Logger) *SaleService {
	return &SaleService{
		txScope: txScope,
		logger:  logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SaleService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *SaleService) publishDomainEvents(ctx context.Context, roots ...shared.AggregateRoot) {
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

// Create opens a new draft ticket, optionally with initial lines
func (s *SaleService) Create(ctx context.Context, tenantID uuid.UUID, req CreateSaleRequest) (*SaleResponse, error) {
	sale, err := trade.NewSale(tenantID, req.ShopID, req.CashierID, req.TicketNumber)
	if err != nil {
		return nil, err
	}
	if req.CustomerID != nil {
		if err := sale.SetCustomer(*req.CustomerID); err != nil {
			return nil, err
		}
	}

	for _, lineReq := range req.Lines {
		if _, err := sale.AddLine(lineReq.ProductID, lineReq.ProductName, lineReq.Quantity, valueobject.NewMoneyUSD(lineReq.UnitPrice), lineReq.Discount); err != nil {
			return nil, err
		}
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.SaleRepo().Save(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, sale)

	response := ToSaleResponse(sale)
	return &response, nil
}

// AddLine adds a product to a draft ticket
func (s *SaleService) AddLine(ctx context.Context, tenantID, saleID uuid.UUID, req SaleLineRequest) (*SaleResponse, error) {
	var sale *trade.Sale
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sale, err = repos.SaleRepo().FindByID(ctx, tenantID, saleID)
		if err != nil {
			return err
		}
		if _, err := sale.AddLine(req.ProductID, req.ProductName, req.Quantity, valueobject.NewMoneyUSD(req.UnitPrice), req.Discount); err != nil {
			return err
		}
		return repos.SaleRepo().Save(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	response := ToSaleResponse(sale)
	return &response, nil
}

// Finalize completes a draft ticket. Stock for every line is consumed in
// FIFO order with expired batches blocking; one OUT movement is appended
// per line. If any line fails, nothing is committed and the ticket stays
// draft.
func (s *SaleService) Finalize(ctx context.Context, tenantID, saleID uuid.UUID, req FinalizeSaleRequest) (*SaleResponse, error) {
	var sale *trade.Sale
	stocks := make([]*inventory.ProductStock, 0, 4)

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sale, err = repos.SaleRepo().FindByID(ctx, tenantID, saleID)
		if err != nil {
			return err
		}

		if sale.Status != trade.SaleStatusDraft {
			return shared.NewDomainError("INVALID_STATE", "Only draft sales can be finalized")
		}
		if len(sale.Lines) == 0 {
			return shared.NewDomainError("NO_LINES", "Cannot finalize sale without lines")
		}

		now := time.Now()
		for _, line := range sale.Lines {
			stock, err := repos.StockRepo().FindByShopAndProductForUpdate(ctx, tenantID, sale.ShopID, line.ProductID)
			if err != nil {
				return err
			}

			plan, err := stock.Consume(line.Quantity, true, now)
			if err != nil {
				return err
			}

			movement, err := inventory.NewOutboundMovement(tenantID, sale.ShopID, line.ProductID, plan.TotalConsumed, sale.TicketNumber, req.ActorID)
			if err != nil {
				return err
			}
			if err := repos.MovementRepo().Append(ctx, movement); err != nil {
				return err
			}

			if err := repos.StockRepo().Save(ctx, stock); err != nil {
				return err
			}
			stocks = append(stocks, stock)
		}

		if err := sale.RecordPayment(valueobject.NewMoneyUSD(req.PaidAmount)); err != nil {
			return err
		}
		if err := sale.Complete(); err != nil {
			return err
		}

		return repos.SaleRepo().Save(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale finalized",
		zap.String("tenant_id", tenantID.String()),
		zap.String("ticket_number", sale.TicketNumber),
		zap.String("total", sale.TotalAmount.String()),
		zap.Int("lines", len(sale.Lines)))

	roots := make([]shared.AggregateRoot, 0, len(stocks)+1)
	roots = append(roots, sale)
	for _, stock := range stocks {
		roots = append(roots, stock)
	}
	s.publishDomainEvents(ctx, roots...)

	response := ToSaleResponse(sale)
	return &response, nil
}

// Cancel cancels a draft ticket
func (s *SaleService) Cancel(ctx context.Context, tenantID, saleID uuid.UUID, reason string) (*SaleResponse, error) {
	var sale *trade.Sale
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sale, err = repos.SaleRepo().FindByID(ctx, tenantID, saleID)
		if err != nil {
			return err
		}
		if err := sale.Cancel(reason); err != nil {
			return err
		}
		return repos.SaleRepo().Save(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, sale)

	response := ToSaleResponse(sale)
	return &response, nil
}

// List returns tickets matching the filter
func (s *SaleService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[SaleResponse], error) {
	var page shared.Paginated[trade.Sale]
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		page, err = repos.SaleRepo().List(ctx, tenantID, filter)
		return err
	})
	if err != nil {
		return shared.Paginated[SaleResponse]{}, err
	}

	items := make([]SaleResponse, 0, len(page.Items))
	for idx := range page.Items {
		items = append(items, ToSaleResponse(&page.Items[idx]))
	}

	return shared.Paginated[SaleResponse]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

// GetByID returns one ticket with its lines
func (s *SaleService) GetByID(ctx context.Context, tenantID, saleID uuid.UUID) (*SaleResponse, error) {
	var sale *trade.Sale
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sale, err = repos.SaleRepo().FindByID(ctx, tenantID, saleID)
		return err
	})
	if err != nil {
		return nil, err
	}

	response := ToSaleResponse(sale)
	return &response, nil
}
