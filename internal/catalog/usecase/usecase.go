package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-register/internal/catalog"
	"github.com/fekuna/omnipos-register/internal/catalog/dto"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/search"
	"go.uber.org/zap"
)

var ErrStoreNotFound = errors.New("store not found")

const snapshotKeyPrefix = "catalog:snapshot:"

// SnapshotCache is the subset of the Redis client the catalog uses.
type SnapshotCache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error
}

type ProductSearcher interface {
	Search(ctx context.Context, index string, query map[string]any) (*search.SearchResponse, error)
}

type catalogUseCase struct {
	repo   catalog.Repository
	cache  SnapshotCache
	es     ProductSearcher
	ttl    time.Duration
	logger logger.ZapLogger
	now    func() time.Time
}

// NewCatalogUseCase builds the catalog loader. cache and es are optional;
// pass nil to go straight to the database.
func NewCatalogUseCase(repo catalog.Repository, cache SnapshotCache, es ProductSearcher, ttl time.Duration, log logger.ZapLogger) catalog.UseCase {
	return &catalogUseCase{
		repo:   repo,
		cache:  cache,
		es:     es,
		ttl:    ttl,
		logger: log,
		now:    time.Now,
	}
}

func snapshotKey(storeID string) string {
	return snapshotKeyPrefix + storeID
}

func (uc *catalogUseCase) Snapshot(ctx context.Context, storeID string) (*catalog.Snapshot, error) {
	if uc.cache != nil {
		var cached catalog.Snapshot
		found, err := uc.cache.GetJSON(ctx, snapshotKey(storeID), &cached)
		if err != nil {
			uc.logger.Warn("catalog cache read failed", zap.String("store_id", storeID), zap.Error(err))
		}
		if found {
			return catalog.FromItems(cached.StoreID, cached.Items, cached.LoadedAt), nil
		}
	}

	store, err := uc.repo.FindStoreByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("%w: %s", ErrStoreNotFound, storeID)
	}

	products, err := uc.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	inventory, err := uc.repo.ListInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}

	snap := catalog.NewSnapshot(storeID, products, inventory, uc.now().UTC())

	if uc.cache != nil {
		if err := uc.cache.SetJSON(ctx, snapshotKey(storeID), snap, uc.ttl); err != nil {
			uc.logger.Warn("catalog cache write failed", zap.String("store_id", storeID), zap.Error(err))
		}
	}

	return snap, nil
}

func (uc *catalogUseCase) ListStores(ctx context.Context) ([]model.Store, error) {
	return uc.repo.ListStores(ctx)
}

// SearchProducts ranks by Elasticsearch when a query is given and falls back
// to a name substring match over the snapshot when the search cluster is
// absent or failing.
func (uc *catalogUseCase) SearchProducts(ctx context.Context, f *dto.SearchFilters) ([]catalog.Item, error) {
	snap, err := uc.Snapshot(ctx, f.StoreID)
	if err != nil {
		return nil, err
	}

	filter := catalog.Filter{
		CategoryID: f.CategoryID,
		ListedOnly: f.ListedOnly,
	}

	query := strings.TrimSpace(f.Query)
	if query != "" {
		filter.Query = query
		if uc.es != nil {
			res, err := uc.es.Search(ctx, search.ProductIndex, search.ProductQuery(query, 0))
			if err == nil {
				filter.Query = ""
				filter.ProductIDs = res.IDs()
			} else {
				uc.logger.Error("ES search failed, falling back to snapshot", zap.Error(err))
			}
		}
	}

	items := snap.Filter(filter)
	if f.Limit > 0 && len(items) > f.Limit {
		items = items[:f.Limit]
	}
	return items, nil
}

func (uc *catalogUseCase) Invalidate(ctx context.Context, storeID string) error {
	if uc.cache == nil {
		return nil
	}
	return uc.cache.Delete(ctx, snapshotKey(storeID))
}

// InvalidateAll drops every store's snapshot. Product master changes touch
// all stores at once.
func (uc *catalogUseCase) InvalidateAll(ctx context.Context) error {
	if uc.cache == nil {
		return nil
	}
	return uc.cache.DeletePattern(ctx, snapshotKeyPrefix+"*")
}
