package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmapos/backend/internal/domain/inventory"
	"github.com/pharmapos/backend/internal/domain/shared"
)

func TestGormStockMovementRepository_Append(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockMovementRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	shopID := uuid.New()
	productID := uuid.New()
	actorID := uuid.New()

	t.Run("writes multiple movements at once", func(t *testing.T) {
		in, err := inventory.NewInboundMovement(tenantID, shopID, productID, decimal.NewFromInt(10), "PO-001", actorID)
		require.NoError(t, err)
		out, err := inventory.NewOutboundMovement(tenantID, shopID, productID, decimal.NewFromInt(3), "T-0001", actorID)
		require.NoError(t, err)

		require.NoError(t, repo.Append(ctx, in, out))

		var count int64
		require.NoError(t, db.Model(&inventory.StockMovement{}).Count(&count).Error)
		assert.Equal(t, int64(2), count)
	})

	t.Run("empty append is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.Append(ctx))
	})
}

func TestGormStockMovementRepository_FindByProduct(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockMovementRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	shopID := uuid.New()
	productID := uuid.New()
	actorID := uuid.New()

	references := []string{"PO-001", "T-0001", "T-0002"}
	for idx, ref := range references {
		var m *inventory.StockMovement
		var err error
		if idx == 0 {
			m, err = inventory.NewInboundMovement(tenantID, shopID, productID, decimal.NewFromInt(10), ref, actorID)
		} else {
			m, err = inventory.NewOutboundMovement(tenantID, shopID, productID, decimal.NewFromInt(1), ref, actorID)
		}
		require.NoError(t, err)
		m.MovedAt = time.Now().Add(time.Duration(idx) * time.Minute)
		require.NoError(t, repo.Append(ctx, m))
	}

	t.Run("newest first by default", func(t *testing.T) {
		page, err := repo.FindByProduct(ctx, tenantID, shopID, productID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(3), page.Total)
		require.Len(t, page.Items, 3)
		assert.Equal(t, "T-0002", page.Items[0].Reference)
		assert.Equal(t, "PO-001", page.Items[2].Reference)
	})

	t.Run("direction filter rejected as sort field", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.OrderBy = "reference; DROP TABLE stock_movements"

		page, err := repo.FindByProduct(ctx, tenantID, shopID, productID, filter)
		require.NoError(t, err)
		// falls back to moved_at ordering
		assert.Equal(t, "T-0002", page.Items[0].Reference)
	})
}

func TestGormStockMovementRepository_FindByReference(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockMovementRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	shopID := uuid.New()
	actorID := uuid.New()

	// one ticket consuming two products leaves two OUT movements
	for i := 0; i < 2; i++ {
		m, err := inventory.NewOutboundMovement(tenantID, shopID, uuid.New(), decimal.NewFromInt(1), "T-0042", actorID)
		require.NoError(t, err)
		require.NoError(t, repo.Append(ctx, m))
	}
	other, err := inventory.NewOutboundMovement(tenantID, shopID, uuid.New(), decimal.NewFromInt(1), "T-0043", actorID)
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, other))

	movements, err := repo.FindByReference(ctx, tenantID, "T-0042")
	require.NoError(t, err)
	assert.Len(t, movements, 2)
}
