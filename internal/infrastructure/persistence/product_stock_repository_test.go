package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmapos/backend/internal/domain/shared"
)

func TestGormProductStockRepository_GetOrCreate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductStockRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	shopID := uuid.New()
	productID := uuid.New()

	t.Run("creates when missing", func(t *testing.T) {
		stock, err := repo.GetOrCreate(ctx, tenantID, shopID, productID)
		require.NoError(t, err)
		assert.Equal(t, shopID, stock.ShopID)
		assert.Equal(t, productID, stock.ProductID)
		assert.True(t, stock.TotalQuantity.IsZero())
	})

	t.Run("returns existing on second call", func(t *testing.T) {
		first, err := repo.GetOrCreate(ctx, tenantID, shopID, productID)
		require.NoError(t, err)

		second, err := repo.GetOrCreate(ctx, tenantID, shopID, productID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})
}

func TestGormProductStockRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductStockRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	shopID := uuid.New()
	productID := uuid.New()
	future := time.Now().AddDate(0, 6, 0)

	t.Run("round-trips aggregate with batches", func(t *testing.T) {
		stock, err := repo.GetOrCreate(ctx, tenantID, shopID, productID)
		require.NoError(t, err)

		_, err = stock.ReceiveBatch("LOT-B", decimal.NewFromInt(10), future.AddDate(0, 3, 0), nil, nil)
		require.NoError(t, err)
		_, err = stock.ReceiveBatch("LOT-A", decimal.NewFromInt(5), future, nil, nil)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, stock))

		loaded, err := repo.FindByShopAndProduct(ctx, tenantID, shopID, productID)
		require.NoError(t, err)
		assert.True(t, loaded.TotalQuantity.Equal(decimal.NewFromInt(15)))
		require.Len(t, loaded.Batches, 2)
		// batches come back in consumption order, earliest expiry first
		assert.Equal(t, "LOT-A", loaded.Batches[0].BatchNumber)
		assert.Equal(t, "LOT-B", loaded.Batches[1].BatchNumber)
		assert.NoError(t, loaded.Reconcile())
	})

	t.Run("persists a consumption", func(t *testing.T) {
		loaded, err := repo.FindByShopAndProduct(ctx, tenantID, shopID, productID)
		require.NoError(t, err)

		plan, err := loaded.Consume(decimal.NewFromInt(7), true, time.Now())
		require.NoError(t, err)
		assert.True(t, plan.TotalConsumed.Equal(decimal.NewFromInt(7)))
		require.NoError(t, repo.Save(ctx, loaded))

		reloaded, err := repo.FindByShopAndProduct(ctx, tenantID, shopID, productID)
		require.NoError(t, err)
		assert.True(t, reloaded.TotalQuantity.Equal(decimal.NewFromInt(8)))
		// LOT-A drained, LOT-B partially consumed
		assert.True(t, reloaded.Batches[0].Quantity.IsZero())
		assert.True(t, reloaded.Batches[1].Quantity.Equal(decimal.NewFromInt(8)))
	})

	t.Run("missing stock returns not found", func(t *testing.T) {
		_, err := repo.FindByShopAndProduct(ctx, tenantID, shopID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormProductStockRepository_VersionConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductStockRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	shopID := uuid.New()
	productID := uuid.New()

	stock, err := repo.GetOrCreate(ctx, tenantID, shopID, productID)
	require.NoError(t, err)
	_, err = stock.ReceiveBatch("LOT-1", decimal.NewFromInt(10), time.Now().AddDate(0, 6, 0), nil, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, stock))

	// two sessions load the same version
	first, err := repo.FindByShopAndProduct(ctx, tenantID, shopID, productID)
	require.NoError(t, err)
	second, err := repo.FindByShopAndProduct(ctx, tenantID, shopID, productID)
	require.NoError(t, err)

	_, err = first.Consume(decimal.NewFromInt(3), true, time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	_, err = second.Consume(decimal.NewFromInt(3), true, time.Now())
	require.NoError(t, err)
	err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

func TestGormProductStockRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductStockRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	shopID := uuid.New()

	for i := 0; i < 3; i++ {
		stock, err := repo.GetOrCreate(ctx, tenantID, shopID, uuid.New())
		require.NoError(t, err)
		_, err = stock.ReceiveBatch("LOT-1", decimal.NewFromInt(int64(i+1)), time.Now().AddDate(0, 6, 0), nil, nil)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, stock))
	}
	// a different shop must not leak into the listing
	_, err := repo.GetOrCreate(ctx, tenantID, uuid.New(), uuid.New())
	require.NoError(t, err)

	filter := shared.DefaultFilter()
	filter.PageSize = 2
	filter.OrderBy = "total_quantity"
	filter.OrderDir = "desc"

	page, err := repo.List(ctx, tenantID, shopID, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 2)
	assert.True(t, page.Items[0].TotalQuantity.Equal(decimal.NewFromInt(3)))
}
