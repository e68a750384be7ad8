package inventory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pharmapos/backend/internal/domain/inventory"
	"github.com/pharmapos/backend/internal/domain/shared"
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

// MockBatchRepository is a mock implementation of BatchRepository
type MockBatchRepository struct {
	mock.Mock
}

func (m *MockBatchRepository) FindByID(ctx context.Context, tenantID, batchID uuid.UUID) (*inventory.Batch, error) {
	args := m.Called(ctx, tenantID, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Batch), args.Error(1)
}

func (m *MockBatchRepository) FindByProductFIFO(ctx context.Context, tenantID, shopID, productID uuid.UUID) ([]inventory.Batch, error) {
	args := m.Called(ctx, tenantID, shopID, productID)
	return args.Get(0).([]inventory.Batch), args.Error(1)
}

func (m *MockBatchRepository) FindExpiringSoon(ctx context.Context, tenantID, shopID uuid.UUID, horizon time.Time, filter shared.Filter) (shared.Paginated[inventory.Batch], error) {
	args := m.Called(ctx, tenantID, shopID, horizon, filter)
	return args.Get(0).(shared.Paginated[inventory.Batch]), args.Error(1)
}

func (m *MockBatchRepository) FindExpired(ctx context.Context, tenantID, shopID uuid.UUID, reference time.Time) ([]inventory.Batch, error) {
	args := m.Called(ctx, tenantID, shopID, reference)
	return args.Get(0).([]inventory.Batch), args.Error(1)
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
var _ inventory.ProductStockRepository = (*MockProductStockRepository)(nil)
var _ inventory.BatchRepository = (*MockBatchRepository)(nil)
var _ inventory.StockMovementRepository = (*MockStockMovementRepository)(nil)
