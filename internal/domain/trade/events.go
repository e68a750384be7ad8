package trade

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmapos/backend/internal/domain/shared"
)

// Event types for the trade domain
const (
	EventTypePurchaseOrderCreated   = "trade.purchase_order.created"
	EventTypePurchaseOrderConfirmed = "trade.purchase_order.confirmed"
	EventTypePurchaseOrderReceived  = "trade.purchase_order.received"
	EventTypePurchaseOrderCancelled = "trade.purchase_order.cancelled"
	EventTypeSaleCreated            = "trade.sale.created"
	EventTypeSaleCompleted          = "trade.sale.completed"
	EventTypeSaleCancelled          = "trade.sale.cancelled"
)

const (
	aggregateTypePurchaseOrder = "PurchaseOrder"
	aggregateTypeSale          = "Sale"
)

// PurchaseOrderCreatedEvent is raised when a purchase order is created
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	ShopID      uuid.UUID `json:"shop_id"`
	SupplierID  uuid.UUID `json:"supplier_id"`
}

// NewPurchaseOrderCreatedEvent creates a new PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(order *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, aggregateTypePurchaseOrder, order.ID, order.TenantID),
		OrderNumber:     order.OrderNumber,
		ShopID:          order.ShopID,
		SupplierID:      order.SupplierID,
	}
}

// PurchaseOrderConfirmedEvent is raised when a purchase order is confirmed
type PurchaseOrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	ShopID      uuid.UUID       `json:"shop_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	LineCount   int             `json:"line_count"`
}

// NewPurchaseOrderConfirmedEvent creates a new PurchaseOrderConfirmedEvent
func NewPurchaseOrderConfirmedEvent(order *PurchaseOrder) *PurchaseOrderConfirmedEvent {
	return &PurchaseOrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderConfirmed, aggregateTypePurchaseOrder, order.ID, order.TenantID),
		OrderNumber:     order.OrderNumber,
		ShopID:          order.ShopID,
		TotalAmount:     order.TotalAmount,
		LineCount:       len(order.Lines),
	}
}

// PurchaseOrderReceivedEvent is raised when every line has been fully received
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	ShopID      uuid.UUID `json:"shop_id"`
}

// NewPurchaseOrderReceivedEvent creates a new PurchaseOrderReceivedEvent
func NewPurchaseOrderReceivedEvent(order *PurchaseOrder) *PurchaseOrderReceivedEvent {
	return &PurchaseOrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderReceived, aggregateTypePurchaseOrder, order.ID, order.TenantID),
		OrderNumber:     order.OrderNumber,
		ShopID:          order.ShopID,
	}
}

// PurchaseOrderCancelledEvent is raised when a purchase order is cancelled
type PurchaseOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
	Reason      string `json:"reason"`
}

// NewPurchaseOrderCancelledEvent creates a new PurchaseOrderCancelledEvent
func NewPurchaseOrderCancelledEvent(order *PurchaseOrder, reason string) *PurchaseOrderCancelledEvent {
	return &PurchaseOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCancelled, aggregateTypePurchaseOrder, order.ID, order.TenantID),
		OrderNumber:     order.OrderNumber,
		Reason:          reason,
	}
}

// SaleCreatedEvent is raised when a draft ticket is opened
type SaleCreatedEvent struct {
	shared.BaseDomainEvent
	TicketNumber string    `json:"ticket_number"`
	ShopID       uuid.UUID `json:"shop_id"`
	CashierID    uuid.UUID `json:"cashier_id"`
}

// NewSaleCreatedEvent creates a new SaleCreatedEvent
func NewSaleCreatedEvent(sale *Sale) *SaleCreatedEvent {
	return &SaleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCreated, aggregateTypeSale, sale.ID, sale.TenantID),
		TicketNumber:    sale.TicketNumber,
		ShopID:          sale.ShopID,
		CashierID:       sale.CashierID,
	}
}

// SaleCompletedEvent is raised when a ticket is completed
type SaleCompletedEvent struct {
	shared.BaseDomainEvent
	TicketNumber string          `json:"ticket_number"`
	ShopID       uuid.UUID       `json:"shop_id"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	LineCount    int             `json:"line_count"`
}

// NewSaleCompletedEvent creates a new SaleCompletedEvent
func NewSaleCompletedEvent(sale *Sale) *SaleCompletedEvent {
	return &SaleCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCompleted, aggregateTypeSale, sale.ID, sale.TenantID),
		TicketNumber:    sale.TicketNumber,
		ShopID:          sale.ShopID,
		TotalAmount:     sale.TotalAmount,
		LineCount:       len(sale.Lines),
	}
}

// SaleCancelledEvent is raised when a draft ticket is cancelled
type SaleCancelledEvent struct {
	shared.BaseDomainEvent
	TicketNumber string `json:"ticket_number"`
	Reason       string `json:"reason"`
}

// NewSaleCancelledEvent creates a new SaleCancelledEvent
func NewSaleCancelledEvent(sale *Sale, reason string) *SaleCancelledEvent {
	return &SaleCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCancelled, aggregateTypeSale, sale.ID, sale.TenantID),
		TicketNumber:    sale.TicketNumber,
		Reason:          reason,
	}
}
