package inventory

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmapos/backend/internal/domain/shared"
	"github.com/pharmapos/backend/internal/domain/shared/valueobject"
)

// ConsumedBatch describes how much was taken from a single batch
type ConsumedBatch struct {
	BatchID     uuid.UUID       `json:"batch_id"`
	BatchNumber string          `json:"batch_number"`
	Quantity    decimal.Decimal `json:"quantity"`
	ExpiryDate  time.Time       `json:"expiry_date"`
}

// ConsumptionPlan is the complete result of planning a FIFO consumption
type ConsumptionPlan struct {
	ConsumedFrom  []ConsumedBatch
	TotalConsumed decimal.Decimal
	SkippedBatch  []uuid.UUID // expired batches passed over when blocking is off
}

// PlanConsumption allocates a requested quantity across batches in
// first-expiring-first-out order: earliest expiry date first, creation
// order breaking ties. It only computes the allocation; ApplyConsumption
// mutates the batches.
//
// When blockIfExpired is true, encountering any expired batch in FIFO order
// aborts the whole plan with an ExpiredBatchError, even if fresher batches
// could satisfy the request. This is deliberate policy: an expired lot at
// the front of the queue is a hard stop until it is quarantined.
// When blockIfExpired is false, expired batches are skipped and do not
// count toward the request.
func PlanConsumption(batches []Batch, requested decimal.Decimal, blockIfExpired bool, reference time.Time) (*ConsumptionPlan, error) {
	requestedQty, err := valueobject.NewQuantity(requested)
	if err != nil || !requestedQty.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}

	stocked := make([]Batch, 0, len(batches))
	totalAvailable := decimal.Zero
	for _, b := range batches {
		if b.HasStock() {
			stocked = append(stocked, b)
			totalAvailable = totalAvailable.Add(b.Quantity)
		}
	}

	// Fail fast before touching anything when the request cannot be met
	// even counting expired stock.
	if totalAvailable.LessThan(requested) {
		return nil, &InsufficientStockError{
			ProductID: productIDOf(stocked),
			Requested: requested,
			Available: totalAvailable,
		}
	}

	sortFIFO(stocked)

	plan := &ConsumptionPlan{
		ConsumedFrom:  make([]ConsumedBatch, 0),
		TotalConsumed: decimal.Zero,
		SkippedBatch:  make([]uuid.UUID, 0),
	}
	remaining := requestedQty
	freshAvailable := decimal.Zero

	for _, b := range stocked {
		if b.IsExpiredAt(reference) {
			if blockIfExpired {
				return nil, &ExpiredBatchError{
					BatchID:     b.ID,
					BatchNumber: b.BatchNumber,
					ExpiryDate:  b.ExpiryDate,
				}
			}
			plan.SkippedBatch = append(plan.SkippedBatch, b.ID)
			continue
		}
		freshAvailable = freshAvailable.Add(b.Quantity)

		if remaining.IsZero() {
			continue
		}
		take := remaining.Min(valueobject.MustNewQuantity(b.Quantity))
		plan.ConsumedFrom = append(plan.ConsumedFrom, ConsumedBatch{
			BatchID:     b.ID,
			BatchNumber: b.BatchNumber,
			Quantity:    take.Decimal(),
			ExpiryDate:  b.ExpiryDate,
		})
		plan.TotalConsumed = plan.TotalConsumed.Add(take.Decimal())
		remaining, _ = remaining.Sub(take) // take is capped at remaining
	}

	// Expired batches were skipped and the fresh ones could not cover the request.
	if remaining.IsPositive() {
		return nil, &InsufficientStockError{
			ProductID: productIDOf(stocked),
			Requested: requested,
			Available: freshAvailable,
		}
	}

	return plan, nil
}

// ApplyConsumption executes a plan against the actual batch entities.
// The deducted amounts must match the plan exactly; a mismatch means the
// batches changed between planning and applying.
func ApplyConsumption(batches []*Batch, plan *ConsumptionPlan) error {
	if plan == nil {
		return shared.NewDomainError("INVALID_PLAN", "Consumption plan cannot be nil")
	}

	byID := make(map[uuid.UUID]*Batch, len(batches))
	for _, b := range batches {
		byID[b.ID] = b
	}

	for _, c := range plan.ConsumedFrom {
		batch, ok := byID[c.BatchID]
		if !ok {
			return shared.NewDomainError("BATCH_NOT_FOUND", "Batch not found: "+c.BatchID.String())
		}
		taken := batch.Deduct(c.Quantity)
		if !taken.Equal(c.Quantity) {
			return shared.NewDomainError("CONSUMPTION_MISMATCH", "Batch quantity changed between planning and applying")
		}
	}

	return nil
}

// TotalAvailable sums the quantity of batches with stock, optionally
// excluding batches expired at the reference date.
func TotalAvailable(batches []Batch, excludeExpired bool, reference time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, b := range batches {
		if !b.HasStock() {
			continue
		}
		if excludeExpired && b.IsExpiredAt(reference) {
			continue
		}
		total = total.Add(b.Quantity)
	}
	return total
}

// sortFIFO orders batches by expiry date ascending, creation time breaking ties
func sortFIFO(batches []Batch) {
	sort.SliceStable(batches, func(i, j int) bool {
		if !batches[i].ExpiryDate.Equal(batches[j].ExpiryDate) {
			return batches[i].ExpiryDate.Before(batches[j].ExpiryDate)
		}
		return batches[i].CreatedAt.Before(batches[j].CreatedAt)
	})
}

func productIDOf(batches []Batch) uuid.UUID {
	if len(batches) == 0 {
		return uuid.Nil
	}
	return batches[0].ProductID
}
