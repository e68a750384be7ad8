package trade

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pharmapos/backend/internal/domain/inventory"
	"github.com/pharmapos/backend/internal/domain/shared"
	"github.com/pharmapos/backend/internal/domain/trade"
)

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{events: make([]shared.DomainEvent, 0)}
}

func (m *MockEventPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) GetEventsByType(eventType string) []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]shared.DomainEvent, 0)
	for _, e := range m.events {
		if e.EventType() == eventType {
			result = append(result, e)
		}
	}
	return result
}

// MockPurchaseOrderRepository is a mock implementation of PurchaseOrderRepository
type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) FindByID(ctx context.Context, tenantID, orderID uuid.UUID) (*trade.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*trade.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Save(ctx context.Context, order *trade.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[trade.PurchaseOrder], error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(shared.Paginated[trade.PurchaseOrder]), args.Error(1)
}

// MockSaleRepository is a mock implementation of SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByID(ctx context.Context, tenantID, saleID uuid.UUID) (*trade.Sale, error) {
	args := m.Called(ctx, tenantID, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByTicketNumber(ctx context.Context, tenantID uuid.UUID, ticketNumber string) (*trade.Sale, error) {
	args := m.Called(ctx, tenantID, ticketNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Sale), args.Error(1)
}

func (m *MockSaleRepository) Save(ctx context.Context, sale *trade.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[trade.Sale], error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(shared.Paginated[trade.Sale]), args.Error(1)
}

// MockProductStockRepository is a mock implementation of ProductStockRepository
type MockProductStockRepository struct {
	mock.Mock
}

func (m *MockProductStockRepository) FindByShopAndProduct(ctx context.Context, tenantID, shopID, productID uuid.UUID) (*inventory.ProductStock, error) {
	args := m.Called(ctx, tenantID, shopID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.ProductStock), args.Error(1)
}

func (m *MockProductStockRepository) FindByShopAndProductForUpdate(ctx context.Context, tenantID, shopID, productID uuid.UUID) (*inventory.ProductStock, error) {
	args := m.Called(ctx, tenantID, shopID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.ProductStock), args.Error(1)
}

func (m *MockProductStockRepository) GetOrCreate(ctx context.Context, tenantID, shopID, productID uuid.UUID) (*inventory.ProductStock, error) {
	args := m.Called(ctx, tenantID, shopID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.ProductStock), args.Error(1)
}

func (m *MockProductStockRepository) Save(ctx context.Context, stock *inventory.ProductStock) error {
	args := m.Called(ctx, stock)
	return args.Error(0)
}

func (m *MockProductStockRepository) List(ctx context.Context, tenantID, shopID uuid.UUID, filter shared.Filter) (shared.Paginated[inventory.ProductStock], error) {
	args := m.Called(ctx, tenantID, shopID, filter)
	return args.Get(0).(shared.Paginated[inventory.ProductStock]), args.Error(1)
}

// MockStockMovementRepository is a mock implementation of StockMovementRepository
type MockStockMovementRepository struct {
	mock.Mock
}

func (m *MockStockMovementRepository) Append(ctx context.Context, movements ...*inventory.StockMovement) error {
	args := m.Called(ctx, movements)
	return args.Error(0)
}

func (m *MockStockMovementRepository) FindByProduct(ctx context.Context, tenantID, shopID, productID uuid.UUID, filter shared.Filter) (shared.Paginated[inventory.StockMovement], error) {
	args := m.Called(ctx, tenantID, shopID, productID, filter)
	return args.Get(0).(shared.Paginated[inventory.StockMovement]), args.Error(1)
}

func (m *MockStockMovementRepository) FindByReference(ctx context.Context, tenantID uuid.UUID, reference string) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, tenantID, reference)
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

// Ensure mocks satisfy the repository ports
var _ trade.PurchaseOrderRepository = (*MockPurchaseOrderRepository)(nil)
var _ trade.SaleRepository = (*MockSaleRepository)(nil)
var _ inventory.ProductStockRepository = (*MockProductStockRepository)(nil)
var _ inventory.StockMovementRepository = (*MockStockMovementRepository)(nil)
