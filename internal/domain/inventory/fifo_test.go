package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fifoReference = time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

func fifoBatch(number string, quantity int64, expiry time.Time, createdAt time.Time) Batch {
	return *HydrateBatch(uuid.New(), uuid.New(), uuid.New(), uuid.New(), number,
		decimal.NewFromInt(quantity), expiry, createdAt, createdAt)
}

func TestPlanConsumption(t *testing.T) {
	created := fifoReference.AddDate(0, -1, 0)

	t.Run("splits across batches in expiry order", func(t *testing.T) {
		batches := []Batch{
			fifoBatch("B2", 10, fifoReference.AddDate(0, 2, 0), created),
			fifoBatch("B1", 5, fifoReference.AddDate(0, 1, 0), created),
		}

		plan, err := PlanConsumption(batches, decimal.NewFromInt(8), true, fifoReference)
		require.NoError(t, err)

		require.Len(t, plan.ConsumedFrom, 2)
		assert.Equal(t, "B1", plan.ConsumedFrom[0].BatchNumber)
		assert.True(t, plan.ConsumedFrom[0].Quantity.Equal(decimal.NewFromInt(5)))
		assert.Equal(t, "B2", plan.ConsumedFrom[1].BatchNumber)
		assert.True(t, plan.ConsumedFrom[1].Quantity.Equal(decimal.NewFromInt(3)))
		assert.True(t, plan.TotalConsumed.Equal(decimal.NewFromInt(8)))
		assert.Empty(t, plan.SkippedBatch)
	})

	t.Run("single batch covers the request", func(t *testing.T) {
		batches := []Batch{fifoBatch("B1", 20, fifoReference.AddDate(0, 1, 0), created)}

		plan, err := PlanConsumption(batches, decimal.NewFromInt(7), true, fifoReference)
		require.NoError(t, err)
		require.Len(t, plan.ConsumedFrom, 1)
		assert.True(t, plan.ConsumedFrom[0].Quantity.Equal(decimal.NewFromInt(7)))
	})

	t.Run("creation time breaks expiry ties", func(t *testing.T) {
		expiry := fifoReference.AddDate(0, 1, 0)
		batches := []Batch{
			fifoBatch("NEWER", 10, expiry, created.AddDate(0, 0, 5)),
			fifoBatch("OLDER", 10, expiry, created),
		}

		plan, err := PlanConsumption(batches, decimal.NewFromInt(12), true, fifoReference)
		require.NoError(t, err)
		require.Len(t, plan.ConsumedFrom, 2)
		assert.Equal(t, "OLDER", plan.ConsumedFrom[0].BatchNumber)
		assert.Equal(t, "NEWER", plan.ConsumedFrom[1].BatchNumber)
	})

	t.Run("empty batches are ignored", func(t *testing.T) {
		batches := []Batch{
			fifoBatch("EMPTY", 0, fifoReference.AddDate(0, 0, 5), created),
			fifoBatch("B1", 10, fifoReference.AddDate(0, 1, 0), created),
		}

		plan, err := PlanConsumption(batches, decimal.NewFromInt(4), true, fifoReference)
		require.NoError(t, err)
		require.Len(t, plan.ConsumedFrom, 1)
		assert.Equal(t, "B1", plan.ConsumedFrom[0].BatchNumber)
	})

	t.Run("insufficient stock fails with available total", func(t *testing.T) {
		batches := []Batch{
			fifoBatch("B1", 5, fifoReference.AddDate(0, 1, 0), created),
			fifoBatch("B2", 3, fifoReference.AddDate(0, 2, 0), created),
		}

		_, err := PlanConsumption(batches, decimal.NewFromInt(20), true, fifoReference)
		var insufficientErr *InsufficientStockError
		require.ErrorAs(t, err, &insufficientErr)
		assert.True(t, insufficientErr.Requested.Equal(decimal.NewFromInt(20)))
		assert.True(t, insufficientErr.Available.Equal(decimal.NewFromInt(8)))
	})

	t.Run("blocking aborts on expired batch even with fresh stock behind it", func(t *testing.T) {
		batches := []Batch{
			fifoBatch("EXPIRED", 10, fifoReference.AddDate(0, 0, -3), created),
			fifoBatch("FRESH", 50, fifoReference.AddDate(0, 3, 0), created),
		}

		_, err := PlanConsumption(batches, decimal.NewFromInt(5), true, fifoReference)
		var expiredErr *ExpiredBatchError
		require.ErrorAs(t, err, &expiredErr)
		assert.Equal(t, "EXPIRED", expiredErr.BatchNumber)
	})

	t.Run("non-blocking skips expired batches", func(t *testing.T) {
		expired := fifoBatch("EXPIRED", 10, fifoReference.AddDate(0, 0, -3), created)
		batches := []Batch{
			expired,
			fifoBatch("FRESH", 50, fifoReference.AddDate(0, 3, 0), created),
		}

		plan, err := PlanConsumption(batches, decimal.NewFromInt(5), false, fifoReference)
		require.NoError(t, err)
		require.Len(t, plan.ConsumedFrom, 1)
		assert.Equal(t, "FRESH", plan.ConsumedFrom[0].BatchNumber)
		assert.Equal(t, []uuid.UUID{expired.ID}, plan.SkippedBatch)
	})

	t.Run("non-blocking fails when only expired stock remains", func(t *testing.T) {
		batches := []Batch{
			fifoBatch("EXPIRED", 10, fifoReference.AddDate(0, 0, -3), created),
			fifoBatch("FRESH", 2, fifoReference.AddDate(0, 3, 0), created),
		}

		_, err := PlanConsumption(batches, decimal.NewFromInt(5), false, fifoReference)
		var insufficientErr *InsufficientStockError
		require.ErrorAs(t, err, &insufficientErr)
		assert.True(t, insufficientErr.Available.Equal(decimal.NewFromInt(2)))
	})

	t.Run("rejects non-positive request", func(t *testing.T) {
		batches := []Batch{fifoBatch("B1", 10, fifoReference.AddDate(0, 1, 0), created)}

		_, err := PlanConsumption(batches, decimal.Zero, true, fifoReference)
		assert.Error(t, err)
		_, err = PlanConsumption(batches, decimal.NewFromInt(-1), true, fifoReference)
		assert.Error(t, err)
	})

	t.Run("does not mutate the input batches", func(t *testing.T) {
		batches := []Batch{
			fifoBatch("B1", 5, fifoReference.AddDate(0, 1, 0), created),
			fifoBatch("B2", 10, fifoReference.AddDate(0, 2, 0), created),
		}

		_, err := PlanConsumption(batches, decimal.NewFromInt(8), true, fifoReference)
		require.NoError(t, err)
		assert.True(t, batches[0].Quantity.Equal(decimal.NewFromInt(5)))
		assert.True(t, batches[1].Quantity.Equal(decimal.NewFromInt(10)))
	})
}

func TestApplyConsumption(t *testing.T) {
	created := fifoReference.AddDate(0, -1, 0)

	t.Run("deducts the planned amounts", func(t *testing.T) {
		b1 := fifoBatch("B1", 5, fifoReference.AddDate(0, 1, 0), created)
		b2 := fifoBatch("B2", 10, fifoReference.AddDate(0, 2, 0), created)
		batches := []Batch{b1, b2}

		plan, err := PlanConsumption(batches, decimal.NewFromInt(8), true, fifoReference)
		require.NoError(t, err)

		require.NoError(t, ApplyConsumption([]*Batch{&batches[0], &batches[1]}, plan))
		assert.True(t, batches[0].Quantity.IsZero())
		assert.True(t, batches[1].Quantity.Equal(decimal.NewFromInt(7)))
	})

	t.Run("fails when a planned batch is missing", func(t *testing.T) {
		b1 := fifoBatch("B1", 5, fifoReference.AddDate(0, 1, 0), created)

		plan, err := PlanConsumption([]Batch{b1}, decimal.NewFromInt(3), true, fifoReference)
		require.NoError(t, err)

		err = ApplyConsumption([]*Batch{}, plan)
		assert.Error(t, err)
	})

	t.Run("fails when the batch changed since planning", func(t *testing.T) {
		b1 := fifoBatch("B1", 5, fifoReference.AddDate(0, 1, 0), created)

		plan, err := PlanConsumption([]Batch{b1}, decimal.NewFromInt(5), true, fifoReference)
		require.NoError(t, err)

		b1.Quantity = decimal.NewFromInt(2)
		assert.Error(t, ApplyConsumption([]*Batch{&b1}, plan))
	})

	t.Run("rejects nil plan", func(t *testing.T) {
		assert.Error(t, ApplyConsumption(nil, nil))
	})
}

func TestTotalAvailable(t *testing.T) {
	created := fifoReference.AddDate(0, -1, 0)
	batches := []Batch{
		fifoBatch("FRESH", 10, fifoReference.AddDate(0, 1, 0), created),
		fifoBatch("EXPIRED", 4, fifoReference.AddDate(0, 0, -1), created),
		fifoBatch("EMPTY", 0, fifoReference.AddDate(0, 2, 0), created),
	}

	assert.True(t, TotalAvailable(batches, true, fifoReference).Equal(decimal.NewFromInt(10)))
	assert.True(t, TotalAvailable(batches, false, fifoReference).Equal(decimal.NewFromInt(14)))
}
