package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmapos/backend/internal/domain/trade"
)

// CreatePurchaseOrderRequest opens a new draft purchase order
type CreatePurchaseOrderRequest struct {
	ShopID       uuid.UUID                  `json:"shop_id" binding:"required"`
	OrderNumber  string                     `json:"order_number" binding:"required,max=50"`
	SupplierID   uuid.UUID                  `json:"supplier_id" binding:"required"`
	SupplierName string                     `json:"supplier_name" binding:"required,max=200"`
	Lines        []PurchaseOrderLineRequest `json:"lines" binding:"omitempty,dive"`
}

// PurchaseOrderLineRequest is one ordered product
type PurchaseOrderLineRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	ProductName string          `json:"product_name" binding:"required,max=200"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost    decimal.Decimal `json:"unit_cost" binding:"required"`
	BatchNumber string          `json:"batch_number,omitempty"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
}

// ReceiveLineInstruction tells the reception how to book one order line.
// Quantity zero (or omitted) means "receive the full remaining quantity".
type ReceiveLineInstruction struct {
	LineID      uuid.UUID       `json:"line_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	BatchNumber string          `json:"batch_number" binding:"required,max=100"`
	ExpiryDate  time.Time       `json:"expiry_date" binding:"required"`
}

// ReceivePurchaseOrderRequest books received goods against an order
type ReceivePurchaseOrderRequest struct {
	Lines   []ReceiveLineInstruction `json:"lines" binding:"required,min=1,dive"`
	ActorID uuid.UUID                `json:"actor_id" binding:"required"`
}

// ReceivedLineResponse reports what one instruction booked
type ReceivedLineResponse struct {
	LineID      uuid.UUID       `json:"line_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	BatchNumber string          `json:"batch_number"`
	Received    decimal.Decimal `json:"received"`
	Remaining   decimal.Decimal `json:"remaining"`
}

// ReceivePurchaseOrderResponse is the result of one reception
type ReceivePurchaseOrderResponse struct {
	OrderID     uuid.UUID              `json:"order_id"`
	OrderNumber string                 `json:"order_number"`
	Status      string                 `json:"status"`
	Lines       []ReceivedLineResponse `json:"lines"`
}

// PurchaseOrderLineResponse is the read model for an order line
type PurchaseOrderLineResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"product_id"`
	ProductName      string          `json:"product_name"`
	OrderedQuantity  decimal.Decimal `json:"ordered_quantity"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	Amount           decimal.Decimal `json:"amount"`
	BatchNumber      string          `json:"batch_number,omitempty"`
	ExpiryDate       *time.Time      `json:"expiry_date,omitempty"`
}

// PurchaseOrderResponse is the read model for a purchase order
type PurchaseOrderResponse struct {
	ID           uuid.UUID                   `json:"id"`
	OrderNumber  string                      `json:"order_number"`
	ShopID       uuid.UUID                   `json:"shop_id"`
	SupplierID   uuid.UUID                   `json:"supplier_id"`
	SupplierName string                      `json:"supplier_name"`
	Status       string                      `json:"status"`
	TotalAmount  decimal.Decimal             `json:"total_amount"`
	Lines        []PurchaseOrderLineResponse `json:"lines"`
	ConfirmedAt  *time.Time                  `json:"confirmed_at,omitempty"`
	ReceivedAt   *time.Time                  `json:"received_at,omitempty"`
	CreatedAt    time.Time                   `json:"created_at"`
}

// ToPurchaseOrderResponse converts an order to its response DTO
func ToPurchaseOrderResponse(order *trade.PurchaseOrder) PurchaseOrderResponse {
	lines := make([]PurchaseOrderLineResponse, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, PurchaseOrderLineResponse{
			ID:               line.ID,
			ProductID:        line.ProductID,
			ProductName:      line.ProductName,
			OrderedQuantity:  line.OrderedQuantity,
			ReceivedQuantity: line.ReceivedQuantity,
			UnitCost:         line.UnitCost,
			Amount:           line.Amount,
			BatchNumber:      line.BatchNumber,
			ExpiryDate:       line.ExpiryDate,
		})
	}
	return PurchaseOrderResponse{
		ID:           order.ID,
		OrderNumber:  order.OrderNumber,
		ShopID:       order.ShopID,
		SupplierID:   order.SupplierID,
		SupplierName: order.SupplierName,
		Status:       order.Status.String(),
		TotalAmount:  order.TotalAmount,
		Lines:        lines,
		ConfirmedAt:  order.ConfirmedAt,
		ReceivedAt:   order.ReceivedAt,
		CreatedAt:    order.CreatedAt,
	}
}

// CreateSaleRequest opens a new draft ticket
type CreateSaleRequest struct {
	ShopID       uuid.UUID         `json:"shop_id" binding:"required"`
	TicketNumber string            `json:"ticket_number" binding:"required,max=50"`
	CashierID    uuid.UUID         `json:"cashier_id" binding:"required"`
	CustomerID   *uuid.UUID        `json:"customer_id,omitempty"`
	Lines        []SaleLineRequest `json:"lines" binding:"omitempty,dive"`
}

// SaleLineRequest is one product position on a ticket
type SaleLineRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	ProductName string          `json:"product_name" binding:"required,max=200"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	Discount    decimal.Decimal `json:"discount"`
}

// FinalizeSaleRequest completes a draft ticket. An absent paid amount
// means nothing was collected; the remainder stays on the balance.
type FinalizeSaleRequest struct {
	PaidAmount decimal.Decimal `json:"paid_amount"`
	ActorID    uuid.UUID       `json:"actor_id" binding:"required"`
}

// SaleLineResponse is the read model for a ticket line
type SaleLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	Amount      decimal.Decimal `json:"amount"`
}

// SaleResponse is the read model for a ticket
type SaleResponse struct {
	ID           uuid.UUID          `json:"id"`
	TicketNumber string             `json:"ticket_number"`
	ShopID       uuid.UUID          `json:"shop_id"`
	CashierID    uuid.UUID          `json:"cashier_id"`
	CustomerID   *uuid.UUID         `json:"customer_id,omitempty"`
	Status       string             `json:"status"`
	TotalAmount  decimal.Decimal    `json:"total_amount"`
	PaidAmount   decimal.Decimal    `json:"paid_amount"`
	Balance      decimal.Decimal    `json:"balance"`
	Lines        []SaleLineResponse `json:"lines"`
	CompletedAt  *time.Time         `json:"completed_at,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

// ToSaleResponse converts a ticket to its response DTO
func ToSaleResponse(sale *trade.Sale) SaleResponse {
	lines := make([]SaleLineResponse, 0, len(sale.Lines))
	for _, line := range sale.Lines {
		lines = append(lines, SaleLineResponse{
			ID:          line.ID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Discount:    line.Discount,
			Amount:      line.Amount,
		})
	}
	return SaleResponse{
		ID:           sale.ID,
		TicketNumber: sale.TicketNumber,
		ShopID:       sale.ShopID,
		CashierID:    sale.CashierID,
		CustomerID:   sale.CustomerID,
		Status:       sale.Status.String(),
		TotalAmount:  sale.TotalAmount,
		PaidAmount:   sale.PaidAmount,
		Balance:      sale.Balance(),
		Lines:        lines,
		CompletedAt:  sale.CompletedAt,
		CreatedAt:    sale.CreatedAt,
	}
}
