package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmapos/backend/internal/domain/shared"
	"github.com/pharmapos/backend/internal/domain/shared/valueobject"
)

// ProductStock is the aggregate root for one product's inventory at a shop.
// It keeps the denormalized total quantity and owns the product's batches.
// The total must equal the sum of batch quantities after every operation.
type ProductStock struct {
	shared.TenantAggregateRoot
	ShopID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_product_stock_shop_product,priority:1"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_product_stock_shop_product,priority:2"`
	TotalQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	// Association - loaded with the aggregate
	Batches []Batch `gorm:"foreignKey:ShopID,ProductID;references:ShopID,ProductID"`
}

// TableName returns the table name for GORM
func (ProductStock) TableName() string {
	return "product_stocks"
}

// NewProductStock creates an empty stock record for a shop-product combination
func NewProductStock(tenantID, shopID, productID uuid.UUID) (*ProductStock, error) {
	if shopID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SHOP", "Shop ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}

	return &ProductStock{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ShopID:              shopID,
		ProductID:           productID,
		TotalQuantity:       decimal.Zero,
		Batches:             make([]Batch, 0),
	}, nil
}

// FindBatchByNumber returns the batch with the given lot number, or nil
func (s *ProductStock) FindBatchByNumber(batchNumber string) *Batch {
	for idx := range s.Batches {
		if s.Batches[idx].BatchNumber == batchNumber {
			return &s.Batches[idx]
		}
	}
	return nil
}

// ReceiveBatch creates or merges a batch for the given lot number.
// The same batch number is assumed to identify the same physical lot, so on
// merge the existing batch's expiry date is authoritative and not overwritten.
// No stock movement is written here; recording the IN movement is the
// caller's responsibility since a receipt may cover several lines.
func (s *ProductStock) ReceiveBatch(batchNumber string, quantity decimal.Decimal, expiryDate time.Time, purchaseOrderID, purchaseOrderLineID *uuid.UUID) (*Batch, error) {
	qty, err := valueobject.NewQuantity(quantity)
	if err != nil || !qty.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Receive quantity must be positive")
	}
	if batchNumber == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch number cannot be empty")
	}

	existing := s.FindBatchByNumber(batchNumber)
	if existing != nil {
		if err := existing.Increase(qty.Decimal()); err != nil {
			return nil, err
		}
		s.TotalQuantity = s.TotalQuantity.Add(qty.Decimal())
		s.UpdatedAt = time.Now()
		s.IncrementVersion()
		s.AddDomainEvent(NewBatchReplenishedEvent(s, existing, quantity))
		return existing, nil
	}

	batch, err := NewBatch(s.TenantID, s.ShopID, s.ProductID, batchNumber, qty.Decimal(), expiryDate)
	if err != nil {
		return nil, err
	}
	if purchaseOrderID != nil && purchaseOrderLineID != nil {
		batch.WithPurchaseOrderRef(*purchaseOrderID, *purchaseOrderLineID)
	}

	s.Batches = append(s.Batches, *batch)
	s.TotalQuantity = s.TotalQuantity.Add(qty.Decimal())
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	s.AddDomainEvent(NewBatchCreatedEvent(s, batch))

	return s.FindBatchByNumber(batchNumber), nil
}

// Consume allocates and deducts the requested quantity across batches in
// FIFO order (see PlanConsumption for the expiry policy). On success the
// plan describes the per-batch breakdown and the total is decremented.
func (s *ProductStock) Consume(requested decimal.Decimal, blockIfExpired bool, reference time.Time) (*ConsumptionPlan, error) {
	plan, err := PlanConsumption(s.Batches, requested, blockIfExpired, reference)
	if err != nil {
		return nil, err
	}

	ptrs := make([]*Batch, len(s.Batches))
	for idx := range s.Batches {
		ptrs[idx] = &s.Batches[idx]
	}
	if err := ApplyConsumption(ptrs, plan); err != nil {
		return nil, err
	}

	s.TotalQuantity = s.TotalQuantity.Sub(plan.TotalConsumed)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	s.AddDomainEvent(NewStockConsumedEvent(s, plan, blockIfExpired))

	return plan, nil
}

// AdjustBatch sets a batch to its counted quantity (stock taking / damage
// write-off) and returns the signed difference. A reason is mandatory.
func (s *ProductStock) AdjustBatch(batchNumber string, actualQuantity decimal.Decimal, reason string) (decimal.Decimal, error) {
	counted, err := valueobject.NewQuantity(actualQuantity)
	if err != nil {
		return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Actual quantity cannot be negative")
	}
	if reason == "" {
		return decimal.Zero, shared.NewDomainError("INVALID_REASON", "Adjustment reason is required")
	}

	batch := s.FindBatchByNumber(batchNumber)
	if batch == nil {
		return decimal.Zero, shared.NewDomainError("BATCH_NOT_FOUND", fmt.Sprintf("Batch %s not found", batchNumber))
	}

	difference := counted.Decimal().Sub(batch.Quantity)
	batch.Quantity = counted.Decimal()
	batch.UpdatedAt = time.Now()

	s.TotalQuantity = s.TotalQuantity.Add(difference)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	s.AddDomainEvent(NewStockAdjustedEvent(s, batch, difference, reason))

	return difference, nil
}

// AvailableQuantity returns the total quantity in non-expired batches
func (s *ProductStock) AvailableQuantity(reference time.Time) decimal.Decimal {
	return TotalAvailable(s.Batches, true, reference)
}

// Reconcile verifies the denormalized total against the batch sum
func (s *ProductStock) Reconcile() error {
	sum := valueobject.ZeroQuantity()
	for _, b := range s.Batches {
		q, err := valueobject.NewQuantity(b.Quantity)
		if err != nil {
			return shared.NewDomainError("NEGATIVE_BATCH", fmt.Sprintf("Batch %s has negative quantity %s", b.BatchNumber, b.Quantity))
		}
		sum = sum.Add(q)
	}
	if !sum.Decimal().Equal(s.TotalQuantity) {
		return shared.NewDomainError("STOCK_MISMATCH",
			fmt.Sprintf("Product stock total %s does not match batch sum %s", s.TotalQuantity, sum))
	}
	return nil
}
