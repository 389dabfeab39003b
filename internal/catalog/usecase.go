package catalog

import (
	"context"

	"github.com/fekuna/omnipos-register/internal/catalog/dto"
	"github.com/fekuna/omnipos-register/internal/model"
)

// Loader supplies register sessions with catalog snapshots.
type Loader interface {
	Snapshot(ctx context.Context, storeID string) (*Snapshot, error)
}

type UseCase interface {
	Loader
	ListStores(ctx context.Context) ([]model.Store, error)
	SearchProducts(ctx context.Context, filters *dto.SearchFilters) ([]Item, error)
	Invalidate(ctx context.Context, storeID string) error
	InvalidateAll(ctx context.Context) error
}
