package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmapos/backend/internal/domain/shared"
	"github.com/pharmapos/backend/internal/domain/shared/valueobject"
)

// MovementDirection is the direction of a stock movement
type MovementDirection string

const (
	// MovementIn records stock entering the shop (reception)
	MovementIn MovementDirection = "IN"
	// MovementOut records stock leaving the shop (sale)
	MovementOut MovementDirection = "OUT"
	// MovementAdjust records a manual correction (stock taking, damage)
	MovementAdjust MovementDirection = "ADJUST"
)

// String returns the string representation
func (d MovementDirection) String() string {
	return string(d)
}

// IsValid returns true if the direction is valid
func (d MovementDirection) IsValid() bool {
	switch d {
	case MovementIn, MovementOut, MovementAdjust:
		return true
	}
	return false
}

// StockMovement is an immutable record of a quantity change. Movements are
// append-only: corrections are made with new ADJUST movements, never by
// editing history. The ledger is the audit trail used to reconcile product
// totals against batch sums.
type StockMovement struct {
	shared.BaseEntity
	TenantID  uuid.UUID         `gorm:"type:uuid;not null;index:idx_movement_tenant_time,priority:1"`
	ShopID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID         `gorm:"type:uuid;not null;index"`
	Direction MovementDirection `gorm:"type:varchar(10);not null;index"`
	Quantity  decimal.Decimal   `gorm:"type:decimal(18,4);not null"` // always positive; sign comes from Direction
	Reference string            `gorm:"type:varchar(100);not null"`  // sale id, purchase order id, manual reason tag
	Reason    string            `gorm:"type:varchar(255)"`
	ActorID   uuid.UUID         `gorm:"type:uuid;not null"`
	BatchID   *uuid.UUID        `gorm:"type:uuid;index"` // set for per-batch IN movements
	MovedAt   time.Time         `gorm:"type:timestamptz;not null;index:idx_movement_tenant_time,priority:2"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

func newStockMovement(tenantID, shopID, productID uuid.UUID, direction MovementDirection, quantity decimal.Decimal, reference string, actorID uuid.UUID) (*StockMovement, error) {
	if shopID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SHOP", "Shop ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Invalid movement direction")
	}
	qty, err := valueobject.NewQuantity(quantity)
	if err != nil || !qty.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity must be positive")
	}
	if reference == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Movement reference cannot be empty")
	}
	if actorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Actor ID cannot be empty")
	}

	return &StockMovement{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		ShopID:     shopID,
		ProductID:  productID,
		Direction:  direction,
		Quantity:   qty.Decimal(),
		Reference:  reference,
		ActorID:    actorID,
		MovedAt:    time.Now(),
	}, nil
}

// NewInboundMovement records stock entering the shop
func NewInboundMovement(tenantID, shopID, productID uuid.UUID, quantity decimal.Decimal, reference string, actorID uuid.UUID) (*StockMovement, error) {
	return newStockMovement(tenantID, shopID, productID, MovementIn, quantity, reference, actorID)
}

// NewOutboundMovement records stock leaving the shop
func NewOutboundMovement(tenantID, shopID, productID uuid.UUID, quantity decimal.Decimal, reference string, actorID uuid.UUID) (*StockMovement, error) {
	return newStockMovement(tenantID, shopID, productID, MovementOut, quantity, reference, actorID)
}

// NewAdjustmentMovement records a manual correction with its reason
func NewAdjustmentMovement(tenantID, shopID, productID uuid.UUID, quantity decimal.Decimal, reference, reason string, actorID uuid.UUID) (*StockMovement, error) {
	m, err := newStockMovement(tenantID, shopID, productID, MovementAdjust, quantity, reference, actorID)
	if err != nil {
		return nil, err
	}
	m.Reason = reason
	return m, nil
}

// WithBatchID links the movement to a specific batch
func (m *StockMovement) WithBatchID(batchID uuid.UUID) *StockMovement {
	m.BatchID = &batchID
	return m
}

// SignedQuantity returns the quantity signed by direction (OUT is negative)
func (m *StockMovement) SignedQuantity() decimal.Decimal {
	if m.Direction == MovementOut {
		return m.Quantity.Neg()
	}
	return m.Quantity
}
