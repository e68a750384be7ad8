package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmapos/backend/internal/domain/shared"
	"github.com/pharmapos/backend/internal/domain/shared/valueobject"
)

// Batch represents one expiration-dated lot of a product at a shop.
// A batch is created on first receipt of a lot, grows on subsequent receipts
// of the same batch number and shrinks on FIFO consumption. A batch with
// quantity zero is kept for audit, never deleted.
type Batch struct {
	shared.BaseEntity
	TenantID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	ShopID              uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_batch_shop_product_number,priority:1"`
	ProductID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_batch_shop_product_number,priority:2"`
	BatchNumber         string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_batch_shop_product_number,priority:3"`
	Quantity            decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ExpiryDate          time.Time       `gorm:"type:date;not null;index"`
	PurchaseOrderID     *uuid.UUID      `gorm:"type:uuid;index"`
	PurchaseOrderLineID *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Batch) TableName() string {
	return "stock_batches"
}

// NewBatch creates a new batch for the first receipt of a lot.
// The expiry date is validated against the current date: receiving already
// expired goods or goods dated implausibly far in the future is rejected.
func NewBatch(tenantID, shopID, productID uuid.UUID, batchNumber string, quantity decimal.Decimal, expiryDate time.Time) (*Batch, error) {
	if shopID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SHOP", "Shop ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if batchNumber == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch number cannot be empty")
	}
	qty, err := valueobject.NewQuantity(quantity)
	if err != nil || !qty.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Batch quantity must be positive")
	}
	if err := ValidateExpiryDate(expiryDate, time.Now()); err != nil {
		return nil, err
	}

	return &Batch{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		ShopID:      shopID,
		ProductID:   productID,
		BatchNumber: batchNumber,
		Quantity:    qty.Decimal(),
		ExpiryDate:  expiryDate,
	}, nil
}

// HydrateBatch rebuilds a batch from storage without re-running creation-time
// validation (a stored batch may legitimately be expired by now).
func HydrateBatch(
	id uuid.UUID,
	tenantID, shopID, productID uuid.UUID,
	batchNumber string,
	quantity decimal.Decimal,
	expiryDate time.Time,
	createdAt, updatedAt time.Time,
) *Batch {
	return &Batch{
		BaseEntity:  shared.HydrateBaseEntity(id, createdAt, updatedAt),
		TenantID:    tenantID,
		ShopID:      shopID,
		ProductID:   productID,
		BatchNumber: batchNumber,
		Quantity:    quantity,
		ExpiryDate:  expiryDate,
	}
}

// WithPurchaseOrderRef attaches the originating purchase order and line
func (b *Batch) WithPurchaseOrderRef(orderID, lineID uuid.UUID) *Batch {
	b.PurchaseOrderID = &orderID
	b.PurchaseOrderLineID = &lineID
	return b
}

// IsExpiredAt returns true if the batch's expiry date is on or before the reference date
func (b *Batch) IsExpiredAt(reference time.Time) bool {
	return !b.ExpiryDate.After(reference)
}

// HasStock returns true if the batch has remaining quantity
func (b *Batch) HasStock() bool {
	return b.Quantity.GreaterThan(decimal.Zero)
}

// Increase adds to the batch quantity on a subsequent receipt of the same lot
func (b *Batch) Increase(quantity decimal.Decimal) error {
	qty, err := valueobject.NewQuantity(quantity)
	if err != nil || !qty.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Increase quantity must be positive")
	}
	b.Quantity = valueobject.MustNewQuantity(b.Quantity).Add(qty).Decimal()
	b.UpdatedAt = time.Now()
	return nil
}

// Deduct removes up to the requested quantity from the batch and returns
// the amount actually taken. The arithmetic goes through
// valueobject.Quantity, so the batch can never go below zero; a negative
// request deducts nothing.
func (b *Batch) Deduct(quantity decimal.Decimal) decimal.Decimal {
	requested, err := valueobject.NewQuantity(quantity)
	if err != nil {
		return decimal.Zero
	}
	available := valueobject.MustNewQuantity(b.Quantity)
	taken := requested.Min(available)
	remaining, _ := available.Sub(taken) // taken is capped at available
	b.Quantity = remaining.Decimal()
	b.UpdatedAt = time.Now()
	return taken.Decimal()
}
