package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-register/internal/database/dbtest"
	"github.com/fekuna/omnipos-register/internal/inventory/dto"
	"github.com/fekuna/omnipos-register/internal/inventory/repository"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func seed(t *testing.T, db *sqlx.DB) (storeID, productID string) {
	t.Helper()
	storeID, productID = uuid.New().String(), uuid.New().String()
	dbtest.MustExec(t, db, `INSERT INTO stores (id, name, created_at) VALUES (?, ?, ?)`, storeID, "Main", now)
	dbtest.MustExec(t, db, `INSERT INTO products (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`, productID, "Tea", now, now)
	return storeID, productID
}

func TestPGRepository_UpsertListing(t *testing.T) {
	db := dbtest.New(t)
	repo := repository.NewPGRepository(db)
	ctx := context.Background()
	storeID, productID := seed(t, db)

	missing, err := repo.GetByProduct(ctx, storeID, productID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	price := decimal.NewFromInt(45)
	stock := 7
	inv := &model.StoreInventory{
		ID: uuid.New().String(), StoreID: storeID, ProductID: productID,
		StorePrice: &price, Stock: &stock, IsListed: true, UpdatedAt: now,
	}
	require.NoError(t, repo.UpsertListing(ctx, inv))

	// A second upsert changes listing and price but not stock.
	other := 99
	inv.IsListed = false
	inv.StorePrice = nil
	inv.Stock = &other
	inv.UpdatedAt = now.Add(time.Hour)
	require.NoError(t, repo.UpsertListing(ctx, inv))

	got, err := repo.GetByProduct(ctx, storeID, productID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.IsListed)
	assert.Nil(t, got.StorePrice)
	require.NotNil(t, got.Stock)
	assert.Equal(t, 7, *got.Stock)

	all, err := repo.ListByStore(ctx, storeID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPGRepository_AdjustStockWithMovement(t *testing.T) {
	db := dbtest.New(t)
	repo := repository.NewPGRepository(db)
	ctx := context.Background()
	storeID, productID := seed(t, db)

	ref := "order-1"
	for i, delta := range []int{10, -3} {
		before := 0
		if i > 0 {
			before = 10
		}
		after := before + delta
		inv := &model.StoreInventory{
			ID: uuid.New().String(), StoreID: storeID, ProductID: productID,
			Stock: &after, IsListed: true, UpdatedAt: now,
		}
		movement := &model.InventoryMovement{
			ID: uuid.New().String(), StoreID: storeID, ProductID: productID,
			MovementType: model.MovementAdjustment, QuantityChange: delta,
			QuantityBefore: before, QuantityAfter: after, ReferenceID: &ref,
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.AdjustStockWithMovement(ctx, inv, movement))
	}

	got, err := repo.GetByProduct(ctx, storeID, productID)
	require.NoError(t, err)
	require.NotNil(t, got.Stock)
	assert.Equal(t, 7, *got.Stock)

	movements, total, err := repo.ListMovements(ctx, &dto.MovementFilters{StoreID: storeID, ProductID: productID})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, movements, 2)
	assert.Equal(t, -3, movements[0].QuantityChange)
	assert.Equal(t, "order-1", *movements[0].ReferenceID)

	page, total, err := repo.ListMovements(ctx, &dto.MovementFilters{StoreID: storeID, Page: 2, PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, page, 1)
	assert.Equal(t, 10, page[0].QuantityChange)

	none, total, err := repo.ListMovements(ctx, &dto.MovementFilters{MovementType: model.MovementSale})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, none)
}
