package inventory

import (
	"context"

	"github.com/fekuna/omnipos-register/internal/inventory/dto"
	"github.com/fekuna/omnipos-register/internal/model"
)

type UseCase interface {
	GetStoreInventory(ctx context.Context, storeID, productID string) (*model.StoreInventory, error)
	ListStoreInventory(ctx context.Context, storeID string) ([]model.StoreInventory, error)
	UpsertListing(ctx context.Context, input *dto.UpsertListingInput) (*model.StoreInventory, error)
	AdjustInventory(ctx context.Context, input *dto.AdjustInventoryInput) (*model.StoreInventory, error)
	AdjustStock(ctx context.Context, adj model.StockAdjustment) error
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error)
}
