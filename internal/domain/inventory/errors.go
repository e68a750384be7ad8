package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InsufficientStockError is returned when a consumption request exceeds
// the available quantity. It carries both sides for caller display.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Requested decimal.Decimal
	Available decimal.Decimal
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %s, available %s",
		e.ProductID, e.Requested, e.Available)
}

// ExpiredBatchError is returned when a blocking consumption encounters an
// expired batch in FIFO order. The whole consumption aborts; expired stock
// never leaves silently when blocking is requested.
type ExpiredBatchError struct {
	BatchID     uuid.UUID
	BatchNumber string
	ExpiryDate  time.Time
}

// Error implements the error interface
func (e *ExpiredBatchError) Error() string {
	return fmt.Sprintf("batch %s expired on %s", e.BatchNumber, e.ExpiryDate.Format("2006-01-02"))
}
