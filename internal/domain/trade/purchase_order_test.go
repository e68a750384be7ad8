package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmapos/backend/internal/domain/shared/valueobject"
)

func newTestOrder(t *testing.T) *PurchaseOrder {
	t.Helper()
	order, err := NewPurchaseOrder(uuid.New(), uuid.New(), "PO-2026-001", uuid.New(), "Laboratorios Andinos")
	require.NoError(t, err)
	return order
}

func addTestLine(t *testing.T, order *PurchaseOrder, quantity int64) *PurchaseOrderLine {
	t.Helper()
	line, err := order.AddLine(uuid.New(), "Paracetamol 500mg", decimal.NewFromInt(quantity), valueobject.NewMoneyUSDFromFloat(1.20))
	require.NoError(t, err)
	return line
}

func TestNewPurchaseOrder(t *testing.T) {
	t.Run("creates draft order", func(t *testing.T) {
		order := newTestOrder(t)
		assert.Equal(t, PurchaseOrderStatusDraft, order.Status)
		assert.Empty(t, order.Lines)

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypePurchaseOrderCreated, events[0].EventType())
	})

	t.Run("rejects empty order number", func(t *testing.T) {
		_, err := NewPurchaseOrder(uuid.New(), uuid.New(), "", uuid.New(), "Supplier")
		assert.Error(t, err)
	})

	t.Run("rejects empty supplier", func(t *testing.T) {
		_, err := NewPurchaseOrder(uuid.New(), uuid.New(), "PO-001", uuid.Nil, "Supplier")
		assert.Error(t, err)
	})
}

func TestPurchaseOrderAddLine(t *testing.T) {
	t.Run("adds line and recalculates total", func(t *testing.T) {
		order := newTestOrder(t)
		addTestLine(t, order, 100)

		require.Len(t, order.Lines, 1)
		assert.True(t, order.TotalAmount.Equal(decimal.NewFromFloat(120)))
	})

	t.Run("rejects duplicate product", func(t *testing.T) {
		order := newTestOrder(t)
		productID := uuid.New()

		_, err := order.AddLine(productID, "Ibuprofeno 400mg", decimal.NewFromInt(10), valueobject.NewMoneyUSDFromFloat(2))
		require.NoError(t, err)
		_, err = order.AddLine(productID, "Ibuprofeno 400mg", decimal.NewFromInt(5), valueobject.NewMoneyUSDFromFloat(2))
		assert.Error(t, err)
	})

	t.Run("rejects lines after confirmation", func(t *testing.T) {
		order := newTestOrder(t)
		addTestLine(t, order, 10)
		require.NoError(t, order.Confirm())

		_, err := order.AddLine(uuid.New(), "Amoxicilina 250mg", decimal.NewFromInt(5), valueobject.NewMoneyUSDFromFloat(3))
		assert.Error(t, err)
	})
}

func TestPurchaseOrderConfirm(t *testing.T) {
	t.Run("confirms order with lines", func(t *testing.T) {
		order := newTestOrder(t)
		addTestLine(t, order, 10)

		require.NoError(t, order.Confirm())
		assert.Equal(t, PurchaseOrderStatusConfirmed, order.Status)
		require.NotNil(t, order.ConfirmedAt)
	})

	t.Run("rejects confirmation without lines", func(t *testing.T) {
		order := newTestOrder(t)
		assert.Error(t, order.Confirm())
	})

	t.Run("rejects double confirmation", func(t *testing.T) {
		order := newTestOrder(t)
		addTestLine(t, order, 10)
		require.NoError(t, order.Confirm())
		assert.Error(t, order.Confirm())
	})
}

func TestPurchaseOrderRecordReception(t *testing.T) {
	t.Run("partial reception moves to partially received", func(t *testing.T) {
		order := newTestOrder(t)
		line := addTestLine(t, order, 100)
		require.NoError(t, order.Confirm())

		accepted, err := order.RecordReception(line.ID, decimal.NewFromInt(40))
		require.NoError(t, err)
		assert.True(t, accepted.Equal(decimal.NewFromInt(40)))
		assert.Equal(t, PurchaseOrderStatusPartiallyReceived, order.Status)
		assert.True(t, order.FindLine(line.ID).RemainingQuantity().Equal(decimal.NewFromInt(60)))
	})

	t.Run("full reception moves to received", func(t *testing.T) {
		order := newTestOrder(t)
		line := addTestLine(t, order, 100)
		require.NoError(t, order.Confirm())

		_, err := order.RecordReception(line.ID, decimal.NewFromInt(100))
		require.NoError(t, err)
		assert.Equal(t, PurchaseOrderStatusReceived, order.Status)
		require.NotNil(t, order.ReceivedAt)

		events := order.GetDomainEvents()
		assert.Equal(t, EventTypePurchaseOrderReceived, events[len(events)-1].EventType())
	})

	t.Run("over-delivery is capped at remaining", func(t *testing.T) {
		order := newTestOrder(t)
		line := addTestLine(t, order, 100)
		require.NoError(t, order.Confirm())

		accepted, err := order.RecordReception(line.ID, decimal.NewFromInt(250))
		require.NoError(t, err)
		assert.True(t, accepted.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, PurchaseOrderStatusReceived, order.Status)
	})

	t.Run("rejects reception on draft order", func(t *testing.T) {
		order := newTestOrder(t)
		line := addTestLine(t, order, 100)

		_, err := order.RecordReception(line.ID, decimal.NewFromInt(10))
		assert.Error(t, err)
	})

	t.Run("rejects reception on fully received line", func(t *testing.T) {
		order := newTestOrder(t)
		line := addTestLine(t, order, 10)
		other := addTestLine(t, order, 20)
		require.NoError(t, order.Confirm())

		_, err := order.RecordReception(line.ID, decimal.NewFromInt(10))
		require.NoError(t, err)
		_, err = order.RecordReception(line.ID, decimal.NewFromInt(1))
		assert.Error(t, err)
		assert.Equal(t, PurchaseOrderStatusPartiallyReceived, order.Status)

		_, err = order.RecordReception(other.ID, decimal.NewFromInt(20))
		require.NoError(t, err)
		assert.Equal(t, PurchaseOrderStatusReceived, order.Status)
	})

	t.Run("rejects unknown line", func(t *testing.T) {
		order := newTestOrder(t)
		addTestLine(t, order, 10)
		require.NoError(t, order.Confirm())

		_, err := order.RecordReception(uuid.New(), decimal.NewFromInt(5))
		assert.Error(t, err)
	})
}

func TestPurchaseOrderCancel(t *testing.T) {
	t.Run("cancels draft order", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.Cancel("supplier out of stock"))
		assert.Equal(t, PurchaseOrderStatusCancelled, order.Status)
		assert.Equal(t, "supplier out of stock", order.CancelReason)
	})

	t.Run("cancels confirmed order without receptions", func(t *testing.T) {
		order := newTestOrder(t)
		addTestLine(t, order, 10)
		require.NoError(t, order.Confirm())
		assert.NoError(t, order.Cancel("duplicate order"))
	})

	t.Run("rejects cancel after goods received", func(t *testing.T) {
		order := newTestOrder(t)
		line := addTestLine(t, order, 10)
		require.NoError(t, order.Confirm())
		_, err := order.RecordReception(line.ID, decimal.NewFromInt(5))
		require.NoError(t, err)

		assert.Error(t, order.Cancel("changed our mind"))
	})

	t.Run("requires a reason", func(t *testing.T) {
		order := newTestOrder(t)
		assert.Error(t, order.Cancel(""))
	})
}

func TestPurchaseOrderStatusTransitions(t *testing.T) {
	assert.True(t, PurchaseOrderStatusDraft.CanTransitionTo(PurchaseOrderStatusConfirmed))
	assert.True(t, PurchaseOrderStatusDraft.CanTransitionTo(PurchaseOrderStatusCancelled))
	assert.False(t, PurchaseOrderStatusDraft.CanTransitionTo(PurchaseOrderStatusReceived))
	assert.True(t, PurchaseOrderStatusConfirmed.CanReceive())
	assert.True(t, PurchaseOrderStatusPartiallyReceived.CanReceive())
	assert.False(t, PurchaseOrderStatusReceived.CanTransitionTo(PurchaseOrderStatusCancelled))
	assert.False(t, PurchaseOrderStatusCancelled.CanTransitionTo(PurchaseOrderStatusConfirmed))
}
