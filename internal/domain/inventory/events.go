package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmapos/backend/internal/domain/shared"
)

// Event types for the inventory domain
const (
	EventTypeBatchCreated     = "inventory.batch.created"
	EventTypeBatchReplenished = "inventory.batch.replenished"
	EventTypeStockConsumed    = "inventory.stock.consumed"
	EventTypeStockAdjusted    = "inventory.stock.adjusted"
)

const aggregateTypeProductStock = "ProductStock"

// BatchCreatedEvent is raised when a new lot is received for the first time
type BatchCreatedEvent struct {
	shared.BaseDomainEvent
	ShopID      uuid.UUID       `json:"shop_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	BatchID     uuid.UUID       `json:"batch_id"`
	BatchNumber string          `json:"batch_number"`
	Quantity    decimal.Decimal `json:"quantity"`
	ExpiryDate  time.Time       `json:"expiry_date"`
}

// NewBatchCreatedEvent creates a new BatchCreatedEvent
func NewBatchCreatedEvent(stock *ProductStock, batch *Batch) *BatchCreatedEvent {
	return &BatchCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchCreated, aggregateTypeProductStock, stock.ID, stock.TenantID),
		ShopID:          stock.ShopID,
		ProductID:       stock.ProductID,
		BatchID:         batch.ID,
		BatchNumber:     batch.BatchNumber,
		Quantity:        batch.Quantity,
		ExpiryDate:      batch.ExpiryDate,
	}
}

// BatchReplenishedEvent is raised when an existing lot receives more stock
type BatchReplenishedEvent struct {
	shared.BaseDomainEvent
	ShopID      uuid.UUID       `json:"shop_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	BatchID     uuid.UUID       `json:"batch_id"`
	BatchNumber string          `json:"batch_number"`
	Added       decimal.Decimal `json:"added"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
}

// NewBatchReplenishedEvent creates a new BatchReplenishedEvent
func NewBatchReplenishedEvent(stock *ProductStock, batch *Batch, added decimal.Decimal) *BatchReplenishedEvent {
	return &BatchReplenishedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchReplenished, aggregateTypeProductStock, stock.ID, stock.TenantID),
		ShopID:          stock.ShopID,
		ProductID:       stock.ProductID,
		BatchID:         batch.ID,
		BatchNumber:     batch.BatchNumber,
		Added:           added,
		NewQuantity:     batch.Quantity,
	}
}

// StockConsumedEvent is raised when stock leaves the shop through a FIFO consumption
type StockConsumedEvent struct {
	shared.BaseDomainEvent
	ShopID         uuid.UUID       `json:"shop_id"`
	ProductID      uuid.UUID       `json:"product_id"`
	TotalConsumed  decimal.Decimal `json:"total_consumed"`
	ConsumedFrom   []ConsumedBatch `json:"consumed_from"`
	BlockedExpired bool            `json:"blocked_expired"`
}

// NewStockConsumedEvent creates a new StockConsumedEvent
func NewStockConsumedEvent(stock *ProductStock, plan *ConsumptionPlan, blockIfExpired bool) *StockConsumedEvent {
	return &StockConsumedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockConsumed, aggregateTypeProductStock, stock.ID, stock.TenantID),
		ShopID:          stock.ShopID,
		ProductID:       stock.ProductID,
		TotalConsumed:   plan.TotalConsumed,
		ConsumedFrom:    plan.ConsumedFrom,
		BlockedExpired:  blockIfExpired,
	}
}

// StockAdjustedEvent is raised when a batch is manually corrected
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	ShopID      uuid.UUID       `json:"shop_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	BatchID     uuid.UUID       `json:"batch_id"`
	BatchNumber string          `json:"batch_number"`
	Difference  decimal.Decimal `json:"difference"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
	Reason      string          `json:"reason"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(stock *ProductStock, batch *Batch, difference decimal.Decimal, reason string) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, aggregateTypeProductStock, stock.ID, stock.TenantID),
		ShopID:          stock.ShopID,
		ProductID:       stock.ProductID,
		BatchID:         batch.ID,
		BatchNumber:     batch.BatchNumber,
		Difference:      difference,
		NewQuantity:     batch.Quantity,
		Reason:          reason,
	}
}
