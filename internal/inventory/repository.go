package inventory

import (
	"context"

	"github.com/fekuna/omnipos-register/internal/inventory/dto"
	"github.com/fekuna/omnipos-register/internal/model"
)

type Repository interface {
	GetByProduct(ctx context.Context, storeID, productID string) (*model.StoreInventory, error)
	ListByStore(ctx context.Context, storeID string) ([]model.StoreInventory, error)

	// Listing and store price; stock is left as stored.
	UpsertListing(ctx context.Context, inv *model.StoreInventory) error

	// Movements / Audit
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error)

	// Transaction support
	AdjustStockWithMovement(ctx context.Context, inv *model.StoreInventory, movement *model.InventoryMovement) error
}
