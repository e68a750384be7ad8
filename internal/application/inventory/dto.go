package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmapos/backend/internal/domain/inventory"
)

// DecreaseStockRequest asks for a FIFO consumption of a product's stock
type DecreaseStockRequest struct {
	ShopID         uuid.UUID       `json:"shop_id" binding:"required"`
	ProductID      uuid.UUID       `json:"product_id" binding:"required"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
	BlockIfExpired bool            `json:"block_if_expired"`
	Reference      string          `json:"reference" binding:"required"`
	ActorID        uuid.UUID       `json:"actor_id" binding:"required"`
}

// ConsumedBatchResponse describes how much was taken from one batch
type ConsumedBatchResponse struct {
	BatchID     uuid.UUID       `json:"batch_id"`
	BatchNumber string          `json:"batch_number"`
	Quantity    decimal.Decimal `json:"quantity"`
	ExpiryDate  time.Time       `json:"expiry_date"`
}

// DecreaseStockResponse is the per-batch breakdown of a consumption
type DecreaseStockResponse struct {
	ProductID      uuid.UUID               `json:"product_id"`
	TotalConsumed  decimal.Decimal         `json:"total_consumed"`
	RemainingStock decimal.Decimal         `json:"remaining_stock"`
	ConsumedFrom   []ConsumedBatchResponse `json:"consumed_from"`
	SkippedBatches []uuid.UUID             `json:"skipped_batches,omitempty"`
}

// AddBatchRequest registers received goods as a batch
type AddBatchRequest struct {
	ShopID              uuid.UUID       `json:"shop_id" binding:"required"`
	ProductID           uuid.UUID       `json:"product_id" binding:"required"`
	BatchNumber         string          `json:"batch_number" binding:"required,max=100"`
	Quantity            decimal.Decimal `json:"quantity" binding:"required"`
	ExpiryDate          time.Time       `json:"expiry_date" binding:"required"`
	Reference           string          `json:"reference" binding:"required"`
	ActorID             uuid.UUID       `json:"actor_id" binding:"required"`
	PurchaseOrderID     *uuid.UUID      `json:"purchase_order_id,omitempty"`
	PurchaseOrderLineID *uuid.UUID      `json:"purchase_order_line_id,omitempty"`
}

// AdjustStockRequest corrects a batch to its counted quantity
type AdjustStockRequest struct {
	ShopID         uuid.UUID       `json:"shop_id" binding:"required"`
	ProductID      uuid.UUID       `json:"product_id" binding:"required"`
	BatchNumber    string          `json:"batch_number" binding:"required"`
	ActualQuantity decimal.Decimal `json:"actual_quantity"`
	Reason         string          `json:"reason" binding:"required,max=255"`
	ActorID        uuid.UUID       `json:"actor_id" binding:"required"`
}

// AdjustStockResponse reports the applied correction
type AdjustStockResponse struct {
	BatchNumber string          `json:"batch_number"`
	Difference  decimal.Decimal `json:"difference"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
	TotalStock  decimal.Decimal `json:"total_stock"`
}

// BatchResponse is the read model for a batch
type BatchResponse struct {
	ID              uuid.UUID       `json:"id"`
	ShopID          uuid.UUID       `json:"shop_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	BatchNumber     string          `json:"batch_number"`
	Quantity        decimal.Decimal `json:"quantity"`
	ExpiryDate      time.Time       `json:"expiry_date"`
	ExpiryStatus    string          `json:"expiry_status"`
	DaysUntilExpiry int             `json:"days_until_expiry"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ProductStockResponse is the read model for a product's stock position
type ProductStockResponse struct {
	ID            uuid.UUID       `json:"id"`
	ShopID        uuid.UUID       `json:"shop_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	Available     decimal.Decimal `json:"available"`
	Batches       []BatchResponse `json:"batches,omitempty"`
}

// MovementResponse is the read model for a ledger entry
type MovementResponse struct {
	ID        uuid.UUID       `json:"id"`
	ShopID    uuid.UUID       `json:"shop_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Direction string          `json:"direction"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reference string          `json:"reference"`
	Reason    string          `json:"reason,omitempty"`
	ActorID   uuid.UUID       `json:"actor_id"`
	BatchID   *uuid.UUID      `json:"batch_id,omitempty"`
	MovedAt   time.Time       `json:"moved_at"`
}

// ToBatchResponse converts a batch to its response DTO, classifying it
// against the reference date
func ToBatchResponse(batch *inventory.Batch, reference time.Time) BatchResponse {
	classification := inventory.ClassifyExpiry(batch, reference)
	return BatchResponse{
		ID:              batch.ID,
		ShopID:          batch.ShopID,
		ProductID:       batch.ProductID,
		BatchNumber:     batch.BatchNumber,
		Quantity:        batch.Quantity,
		ExpiryDate:      batch.ExpiryDate,
		ExpiryStatus:    classification.Status.String(),
		DaysUntilExpiry: classification.DaysUntilExpiry,
		CreatedAt:       batch.CreatedAt,
	}
}

// ToProductStockResponse converts a product stock aggregate to its response DTO
func ToProductStockResponse(stock *inventory.ProductStock, reference time.Time) ProductStockResponse {
	batches := make([]BatchResponse, 0, len(stock.Batches))
	for idx := range stock.Batches {
		if stock.Batches[idx].HasStock() {
			batches = append(batches, ToBatchResponse(&stock.Batches[idx], reference))
		}
	}
	return ProductStockResponse{
		ID:            stock.ID,
		ShopID:        stock.ShopID,
		ProductID:     stock.ProductID,
		TotalQuantity: stock.TotalQuantity,
		Available:     stock.AvailableQuantity(reference),
		Batches:       batches,
	}
}

// ToMovementResponse converts a movement to its response DTO
func ToMovementResponse(m *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:        m.ID,
		ShopID:    m.ShopID,
		ProductID: m.ProductID,
		Direction: m.Direction.String(),
		Quantity:  m.Quantity,
		Reference: m.Reference,
		Reason:    m.Reason,
		ActorID:   m.ActorID,
		BatchID:   m.BatchID,
		MovedAt:   m.MovedAt,
	}
}

// ToDecreaseStockResponse converts a consumption plan to its response DTO
func ToDecreaseStockResponse(stock *inventory.ProductStock, plan *inventory.ConsumptionPlan) DecreaseStockResponse {
	consumed := make([]ConsumedBatchResponse, 0, len(plan.ConsumedFrom))
	for _, c := range plan.ConsumedFrom {
		consumed = append(consumed, ConsumedBatchResponse{
			BatchID:     c.BatchID,
			BatchNumber: c.BatchNumber,
			Quantity:    c.Quantity,
			ExpiryDate:  c.ExpiryDate,
		})
	}
	return DecreaseStockResponse{
		ProductID:      stock.ProductID,
		TotalConsumed:  plan.TotalConsumed,
		RemainingStock: stock.TotalQuantity,
		ConsumedFrom:   consumed,
		SkippedBatches: plan.SkippedBatch,
	}
}
