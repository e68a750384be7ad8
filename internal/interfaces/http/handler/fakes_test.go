package handler

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pharmapos/backend/internal/domain/inventory"
	"github.com/pharmapos/backend/internal/domain/shared"
	"github.com/pharmapos/backend/internal/domain/trade"
)

// In-memory repositories backing the handler tests. The services under
// test run against these through NoOpTransactionScope, so a request
// exercises the real use case code end to end.

type stockKey struct {
	tenantID  uuid.UUID
	shopID    uuid.UUID
	productID uuid.UUID
}

type fakeStockRepository struct {
	stocks map[stockKey]*inventory.ProductStock
}

func newFakeStockRepository() *fakeStockRepository {
	return &fakeStockRepository{stocks: make(map[stockKey]*inventory.ProductStock)}
}

func (r *fakeStockRepository) put(stock *inventory.ProductStock) {
	r.stocks[stockKey{stock.TenantID, stock.ShopID, stock.ProductID}] = stock
}

func (r *fakeStockRepository) FindByShopAndProduct(_ context.Context, tenantID, shopID, productID uuid.UUID) (*inventory.ProductStock, error) {
	if stock, ok := r.stocks[stockKey{tenantID, shopID, productID}]; ok {
		return stock, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeStockRepository) FindByShopAndProductForUpdate(ctx context.Context, tenantID, shopID, productID uuid.UUID) (*inventory.ProductStock, error) {
	return r.FindByShopAndProduct(ctx, tenantID, shopID, productID)
}

func (r *fakeStockRepository) GetOrCreate(ctx context.Context, tenantID, shopID, productID uuid.UUID) (*inventory.ProductStock, error) {
	if stock, err := r.FindByShopAndProduct(ctx, tenantID, shopID, productID); err == nil {
		return stock, nil
	}
	stock, err := inventory.NewProductStock(tenantID, shopID, productID)
	if err != nil {
		return nil, err
	}
	r.put(stock)
	return stock, nil
}

func (r *fakeStockRepository) Save(_ context.Context, stock *inventory.ProductStock) error {
	r.put(stock)
	return nil
}

func (r *fakeStockRepository) List(_ context.Context, tenantID, shopID uuid.UUID, filter shared.Filter) (shared.Paginated[inventory.ProductStock], error) {
	items := make([]inventory.ProductStock, 0)
	for _, stock := range r.stocks {
		if stock.TenantID == tenantID && stock.ShopID == shopID {
			items = append(items, *stock)
		}
	}
	return shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize), nil
}

type fakeBatchRepository struct {
	stocks *fakeStockRepository
}

func (r *fakeBatchRepository) allBatches(tenantID, shopID uuid.UUID) []inventory.Batch {
	batches := make([]inventory.Batch, 0)
	for _, stock := range r.stocks.stocks {
		if stock.TenantID != tenantID || stock.ShopID != shopID {
			continue
		}
		batches = append(batches, stock.Batches...)
	}
	return batches
}

func (r *fakeBatchRepository) FindByID(_ context.Context, tenantID, batchID uuid.UUID) (*inventory.Batch, error) {
	for _, stock := range r.stocks.stocks {
		if stock.TenantID != tenantID {
			continue
		}
		for idx := range stock.Batches {
			if stock.Batches[idx].ID == batchID {
				return &stock.Batches[idx], nil
			}
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeBatchRepository) FindByProductFIFO(_ context.Context, tenantID, shopID, productID uuid.UUID) ([]inventory.Batch, error) {
	batches := make([]inventory.Batch, 0)
	for _, b := range r.allBatches(tenantID, shopID) {
		if b.ProductID == productID && b.HasStock() {
			batches = append(batches, b)
		}
	}
	sort.Slice(batches, func(i, j int) bool {
		return batches[i].ExpiryDate.Before(batches[j].ExpiryDate)
	})
	return batches, nil
}

func (r *fakeBatchRepository) FindExpiringSoon(_ context.Context, tenantID, shopID uuid.UUID, horizon time.Time, filter shared.Filter) (shared.Paginated[inventory.Batch], error) {
	batches := make([]inventory.Batch, 0)
	for _, b := range r.allBatches(tenantID, shopID) {
		if b.HasStock() && !b.ExpiryDate.After(horizon) {
			batches = append(batches, b)
		}
	}
	sort.Slice(batches, func(i, j int) bool {
		return batches[i].ExpiryDate.Before(batches[j].ExpiryDate)
	})
	return shared.NewPaginated(batches, int64(len(batches)), filter.Page, filter.PageSize), nil
}

func (r *fakeBatchRepository) FindExpired(_ context.Context, tenantID, shopID uuid.UUID, reference time.Time) ([]inventory.Batch, error) {
	batches := make([]inventory.Batch, 0)
	for _, b := range r.allBatches(tenantID, shopID) {
		if b.HasStock() && b.ExpiryDate.Before(reference) {
			batches = append(batches, b)
		}
	}
	return batches, nil
}

type fakeMovementRepository struct {
	movements []inventory.StockMovement
}

func (r *fakeMovementRepository) Append(_ context.Context, movements ...*inventory.StockMovement) error {
	for _, m := range movements {
		r.movements = append(r.movements, *m)
	}
	return nil
}

func (r *fakeMovementRepository) FindByProduct(_ context.Context, tenantID, shopID, productID uuid.UUID, filter shared.Filter) (shared.Paginated[inventory.StockMovement], error) {
	items := make([]inventory.StockMovement, 0)
	for _, m := range r.movements {
		if m.TenantID == tenantID && m.ShopID == shopID && m.ProductID == productID {
			items = append(items, m)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].MovedAt.After(items[j].MovedAt)
	})
	return shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize), nil
}

func (r *fakeMovementRepository) FindByReference(_ context.Context, tenantID uuid.UUID, reference string) ([]inventory.StockMovement, error) {
	items := make([]inventory.StockMovement, 0)
	for _, m := range r.movements {
		if m.TenantID == tenantID && m.Reference == reference {
			items = append(items, m)
		}
	}
	return items, nil
}

type fakeOrderRepository struct {
	orders map[uuid.UUID]*trade.PurchaseOrder
}

func newFakeOrderRepository() *fakeOrderRepository {
	return &fakeOrderRepository{orders: make(map[uuid.UUID]*trade.PurchaseOrder)}
}

func (r *fakeOrderRepository) FindByID(_ context.Context, tenantID, orderID uuid.UUID) (*trade.PurchaseOrder, error) {
	if order, ok := r.orders[orderID]; ok && order.TenantID == tenantID {
		return order, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeOrderRepository) FindByOrderNumber(_ context.Context, tenantID uuid.UUID, orderNumber string) (*trade.PurchaseOrder, error) {
	for _, order := range r.orders {
		if order.TenantID == tenantID && order.OrderNumber == orderNumber {
			return order, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeOrderRepository) Save(_ context.Context, order *trade.PurchaseOrder) error {
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepository) List(_ context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[trade.PurchaseOrder], error) {
	items := make([]trade.PurchaseOrder, 0)
	for _, order := range r.orders {
		if order.TenantID != tenantID {
			continue
		}
		if status, ok := filter.Filters["status"].(string); ok && order.Status.String() != status {
			continue
		}
		items = append(items, *order)
	}
	return shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize), nil
}

type fakeSaleRepository struct {
	sales map[uuid.UUID]*trade.Sale
}

func newFakeSaleRepository() *fakeSaleRepository {
	return &fakeSaleRepository{sales: make(map[uuid.UUID]*trade.Sale)}
}

func (r *fakeSaleRepository) FindByID(_ context.Context, tenantID, saleID uuid.UUID) (*trade.Sale, error) {
	if sale, ok := r.sales[saleID]; ok && sale.TenantID == tenantID {
		return sale, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeSaleRepository) FindByTicketNumber(_ context.Context, tenantID uuid.UUID, ticketNumber string) (*trade.Sale, error) {
	for _, sale := range r.sales {
		if sale.TenantID == tenantID && sale.TicketNumber == ticketNumber {
			return sale, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeSaleRepository) Save(_ context.Context, sale *trade.Sale) error {
	r.sales[sale.ID] = sale
	return nil
}

func (r *fakeSaleRepository) List(_ context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[trade.Sale], error) {
	items := make([]trade.Sale, 0)
	for _, sale := range r.sales {
		if sale.TenantID != tenantID {
			continue
		}
		if status, ok := filter.Filters["status"].(string); ok && sale.Status.String() != status {
			continue
		}
		if cashierID, ok := filter.Filters["cashier_id"].(uuid.UUID); ok && sale.CashierID != cashierID {
			continue
		}
		items = append(items, *sale)
	}
	return shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize), nil
}

// interface conformance
var _ inventory.ProductStockRepository = (*fakeStockRepository)(nil)
var _ inventory.BatchRepository = (*fakeBatchRepository)(nil)
var _ inventory.StockMovementRepository = (*fakeMovementRepository)(nil)
var _ trade.PurchaseOrderRepository = (*fakeOrderRepository)(nil)
var _ trade.SaleRepository = (*fakeSaleRepository)(nil)
