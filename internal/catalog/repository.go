package catalog

import (
	"context"

	"github.com/fekuna/omnipos-register/internal/model"
)

type Repository interface {
	ListStores(ctx context.Context) ([]model.Store, error)
	FindStoreByID(ctx context.Context, id string) (*model.Store, error)

	// Snapshot inputs
	ListProducts(ctx context.Context) ([]model.Product, error)
	ListInventory(ctx context.Context) ([]model.StoreInventory, error)
}
