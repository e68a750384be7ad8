package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmapos/backend/internal/domain/shared"
	"github.com/pharmapos/backend/internal/domain/shared/valueobject"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft             PurchaseOrderStatus = "DRAFT"
	PurchaseOrderStatusConfirmed         PurchaseOrderStatus = "CONFIRMED"
	PurchaseOrderStatusPartiallyReceived PurchaseOrderStatus = "PARTIALLY_RECEIVED"
	PurchaseOrderStatusReceived          PurchaseOrderStatus = "RECEIVED"
	PurchaseOrderStatusCancelled         PurchaseOrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusConfirmed, PurchaseOrderStatusPartiallyReceived,
		PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusDraft:
		return target == PurchaseOrderStatusConfirmed || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusConfirmed:
		return target == PurchaseOrderStatusPartiallyReceived || target == PurchaseOrderStatusReceived || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusPartiallyReceived:
		return target == PurchaseOrderStatusPartiallyReceived || target == PurchaseOrderStatusReceived
	case PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// CanReceive returns true if receiving goods is allowed in this status
func (s PurchaseOrderStatus) CanReceive() bool {
	return s == PurchaseOrderStatusConfirmed || s == PurchaseOrderStatusPartiallyReceived
}

// PurchaseOrderLine represents a line in a purchase order
type PurchaseOrderLine struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName      string          `gorm:"type:varchar(200);not null"`
	OrderedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,4);not null"` // OrderedQuantity * UnitCost
	BatchNumber      string          `gorm:"type:varchar(100)"`           // supplier's lot, if known at ordering time
	ExpiryDate       *time.Time      `gorm:"type:date"`                   // planned expiry, if known at ordering time
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderLine) TableName() string {
	return "purchase_order_lines"
}

// NewPurchaseOrderLine creates a new purchase order line
func NewPurchaseOrderLine(orderID, productID uuid.UUID, productName string, quantity decimal.Decimal, unitCost valueobject.Money) (*PurchaseOrderLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	now := time.Now()
	return &PurchaseOrderLine{
		ID:               uuid.New(),
		OrderID:          orderID,
		ProductID:        productID,
		ProductName:      productName,
		OrderedQuantity:  quantity,
		ReceivedQuantity: decimal.Zero,
		UnitCost:         unitCost.Amount(),
		Amount:           quantity.Mul(unitCost.Amount()),
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// SetBatchInfo records the supplier's lot number and expiry known at ordering time
func (l *PurchaseOrderLine) SetBatchInfo(batchNumber string, expiryDate *time.Time) {
	l.BatchNumber = batchNumber
	l.ExpiryDate = expiryDate
	l.UpdatedAt = time.Now()
}

// UpdateQuantity updates the line ordered quantity and recalculates the amount
func (l *PurchaseOrderLine) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity.LessThan(l.ReceivedQuantity) {
		return shared.NewDomainError("INVALID_QUANTITY", "Ordered quantity cannot be less than received quantity")
	}

	l.OrderedQuantity = quantity
	l.Amount = quantity.Mul(l.UnitCost)
	l.UpdatedAt = time.Now()

	return nil
}

// RemainingQuantity returns the quantity still to be received
func (l *PurchaseOrderLine) RemainingQuantity() decimal.Decimal {
	remaining := l.OrderedQuantity.Sub(l.ReceivedQuantity)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// IsFullyReceived returns true if all ordered quantity has been received
func (l *PurchaseOrderLine) IsFullyReceived() bool {
	return l.ReceivedQuantity.GreaterThanOrEqual(l.OrderedQuantity)
}

// PurchaseOrder is the aggregate root for a supplier order. It tracks the
// order from draft through confirmation to full reception. Reception is
// capped per line: over-deliveries are truncated to the remaining quantity.
type PurchaseOrder struct {
	shared.TenantAggregateRoot
	OrderNumber  string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_purchase_order_tenant_number,priority:2"`
	ShopID       uuid.UUID           `gorm:"type:uuid;not null;index"` // receiving shop
	SupplierID   uuid.UUID           `gorm:"type:uuid;not null;index"`
	SupplierName string              `gorm:"type:varchar(200);not null"`
	Lines        []PurchaseOrderLine `gorm:"foreignKey:OrderID;references:ID"`
	TotalAmount  decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Status       PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	ConfirmedAt  *time.Time          `gorm:"index"`
	ReceivedAt   *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new purchase order in draft status
func NewPurchaseOrder(tenantID, shopID uuid.UUID, orderNumber string, supplierID uuid.UUID, supplierName string) (*PurchaseOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if shopID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SHOP", "Shop ID cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}

	order := &PurchaseOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		ShopID:              shopID,
		SupplierID:          supplierID,
		SupplierName:        supplierName,
		Lines:               make([]PurchaseOrderLine, 0),
		TotalAmount:         decimal.Zero,
		Status:              PurchaseOrderStatusDraft,
	}

	order.AddDomainEvent(NewPurchaseOrderCreatedEvent(order))

	return order, nil
}

// AddLine adds a new line to the order. Only allowed in DRAFT status.
func (o *PurchaseOrder) AddLine(productID uuid.UUID, productName string, quantity decimal.Decimal, unitCost valueobject.Money) (*PurchaseOrderLine, error) {
	if o.Status != PurchaseOrderStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add lines to a non-draft order")
	}

	for _, line := range o.Lines {
		if line.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in order, update quantity instead")
		}
	}

	line, err := NewPurchaseOrderLine(o.ID, productID, productName, quantity, unitCost)
	if err != nil {
		return nil, err
	}

	o.Lines = append(o.Lines, *line)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return line, nil
}

// UpdateLineQuantity updates the ordered quantity of an existing line.
// Only allowed in DRAFT status.
func (o *PurchaseOrder) UpdateLineQuantity(lineID uuid.UUID, quantity decimal.Decimal) error {
	if o.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update lines in a non-draft order")
	}

	for idx := range o.Lines {
		if o.Lines[idx].ID == lineID {
			if err := o.Lines[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Order line not found")
}

// RemoveLine removes a line from the order. Only allowed in DRAFT status.
func (o *PurchaseOrder) RemoveLine(lineID uuid.UUID) error {
	if o.Status != PurchaseOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove lines from a non-draft order")
	}

	for idx, line := range o.Lines {
		if line.ID == lineID {
			o.Lines = append(o.Lines[:idx], o.Lines[idx+1:]...)
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Order line not found")
}

// FindLine returns the line with the given ID, or nil
func (o *PurchaseOrder) FindLine(lineID uuid.UUID) *PurchaseOrderLine {
	for idx := range o.Lines {
		if o.Lines[idx].ID == lineID {
			return &o.Lines[idx]
		}
	}
	return nil
}

// Confirm transitions the order from DRAFT to CONFIRMED.
// Requires at least one line.
func (o *PurchaseOrder) Confirm() error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm order in %s status", o.Status))
	}
	if len(o.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot confirm order without lines")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusConfirmed
	o.ConfirmedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderConfirmedEvent(o))

	return nil
}

// RecordReception records received goods against a line and returns the
// quantity actually accepted, which is capped at the line's remaining
// quantity. The order status is refreshed afterwards.
func (o *PurchaseOrder) RecordReception(lineID uuid.UUID, quantity decimal.Decimal) (decimal.Decimal, error) {
	if !o.Status.CanReceive() {
		return decimal.Zero, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot receive goods for order in %s status", o.Status))
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Receive quantity must be positive")
	}

	line := o.FindLine(lineID)
	if line == nil {
		return decimal.Zero, shared.NewDomainError("LINE_NOT_FOUND", "Order line not found")
	}

	accepted := decimal.Min(quantity, line.RemainingQuantity())
	if accepted.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, shared.NewDomainError("LINE_FULLY_RECEIVED", fmt.Sprintf("Line for product %s is already fully received", line.ProductID))
	}

	line.ReceivedQuantity = line.ReceivedQuantity.Add(accepted)
	line.UpdatedAt = time.Now()

	o.refreshReceptionStatus()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return accepted, nil
}

// Cancel cancels the order with a reason. Not allowed once goods have been
// received or the order is already terminal.
func (o *PurchaseOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	for _, line := range o.Lines {
		if line.ReceivedQuantity.GreaterThan(decimal.Zero) {
			return shared.NewDomainError("INVALID_STATE", "Cannot cancel an order with received goods")
		}
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewPurchaseOrderCancelledEvent(o, reason))

	return nil
}

// IsFullyReceived returns true if every line has been fully received
func (o *PurchaseOrder) IsFullyReceived() bool {
	if len(o.Lines) == 0 {
		return false
	}
	for _, line := range o.Lines {
		if !line.IsFullyReceived() {
			return false
		}
	}
	return true
}

func (o *PurchaseOrder) refreshReceptionStatus() {
	if o.IsFullyReceived() {
		now := time.Now()
		o.Status = PurchaseOrderStatusReceived
		o.ReceivedAt = &now
		o.AddDomainEvent(NewPurchaseOrderReceivedEvent(o))
		return
	}
	if o.Status == PurchaseOrderStatusConfirmed {
		o.Status = PurchaseOrderStatusPartiallyReceived
	}
}

func (o *PurchaseOrder) recalculateTotals() {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.Amount)
	}
	o.TotalAmount = total
}

// GetTotalMoney returns the order total as a Money value object
func (o *PurchaseOrder) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(o.TotalAmount)
}
