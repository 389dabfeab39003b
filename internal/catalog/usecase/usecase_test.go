package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fekuna/omnipos-register/internal/catalog/dto"
	"github.com/fekuna/omnipos-register/internal/catalog/usecase"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/search"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	stores        []model.Store
	products      []model.Product
	inventory     []model.StoreInventory
	productsCalls int
}

func (m *mockRepository) ListStores(ctx context.Context) ([]model.Store, error) {
	return m.stores, nil
}

func (m *mockRepository) FindStoreByID(ctx context.Context, id string) (*model.Store, error) {
	for _, s := range m.stores {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, nil
}

func (m *mockRepository) ListProducts(ctx context.Context) ([]model.Product, error) {
	m.productsCalls++
	return m.products, nil
}

func (m *mockRepository) ListInventory(ctx context.Context) ([]model.StoreInventory, error) {
	return m.inventory, nil
}

type memoryCache struct {
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *memoryCache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memoryCache) DeletePattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

type mockSearcher struct {
	searchFunc func(ctx context.Context, index string, query map[string]any) (*search.SearchResponse, error)
}

func (m *mockSearcher) Search(ctx context.Context, index string, query map[string]any) (*search.SearchResponse, error) {
	return m.searchFunc(ctx, index, query)
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func fixture() *mockRepository {
	stock := 5
	return &mockRepository{
		stores: []model.Store{{ID: "s1", Name: "Main"}, {ID: "s2", Name: "Second"}},
		products: []model.Product{
			{BaseModel: model.BaseModel{ID: "p1"}, Name: "Green Tea", SuggestedPrice: price("50")},
			{BaseModel: model.BaseModel{ID: "p2"}, Name: "Black Tea", SuggestedPrice: price("45")},
			{BaseModel: model.BaseModel{ID: "p3"}, Name: "Cheesecake", SuggestedPrice: price("120")},
		},
		inventory: []model.StoreInventory{
			{StoreID: "s1", ProductID: "p1", Stock: &stock, IsListed: true},
			{StoreID: "s1", ProductID: "p2", IsListed: true},
			{StoreID: "s1", ProductID: "p3", IsListed: true},
		},
	}
}

func TestSnapshot_CachesPerStore(t *testing.T) {
	repo := fixture()
	cache := newMemoryCache()
	uc := usecase.NewCatalogUseCase(repo, cache, nil, time.Minute, logger.NewNop())
	ctx := context.Background()

	first, err := uc.Snapshot(ctx, "s1")
	require.NoError(t, err)
	second, err := uc.Snapshot(ctx, "s1")
	require.NoError(t, err)

	assert.Equal(t, 1, repo.productsCalls)
	item, ok := second.Lookup("p1")
	require.True(t, ok)
	assert.Equal(t, 5, *item.Stock)
	assert.Equal(t, len(first.Items), len(second.Items))

	require.NoError(t, uc.Invalidate(ctx, "s1"))
	_, err = uc.Snapshot(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.productsCalls)

	_, err = uc.Snapshot(ctx, "s2")
	require.NoError(t, err)
	require.NoError(t, uc.InvalidateAll(ctx))
	assert.Empty(t, cache.data)
}

func TestSnapshot_UnknownStore(t *testing.T) {
	uc := usecase.NewCatalogUseCase(fixture(), nil, nil, time.Minute, logger.NewNop())

	_, err := uc.Snapshot(context.Background(), "nope")

	assert.ErrorIs(t, err, usecase.ErrStoreNotFound)
}

func TestSearchProducts_UsesSearchRanking(t *testing.T) {
	es := &mockSearcher{searchFunc: func(ctx context.Context, index string, query map[string]any) (*search.SearchResponse, error) {
		assert.Equal(t, search.ProductIndex, index)
		var res search.SearchResponse
		err := json.Unmarshal([]byte(`{"hits":{"total":{"value":2},"hits":[{"_id":"p2"},{"_id":"p1"}]}}`), &res)
		return &res, err
	}}
	uc := usecase.NewCatalogUseCase(fixture(), nil, es, time.Minute, logger.NewNop())

	items, err := uc.SearchProducts(context.Background(), &dto.SearchFilters{StoreID: "s1", Query: "tea"})

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "p2", items[0].ProductID)
	assert.Equal(t, "p1", items[1].ProductID)
}

func TestSearchProducts_FallsBackWhenSearchFails(t *testing.T) {
	es := &mockSearcher{searchFunc: func(ctx context.Context, index string, query map[string]any) (*search.SearchResponse, error) {
		return nil, errors.New("cluster red")
	}}
	uc := usecase.NewCatalogUseCase(fixture(), nil, es, time.Minute, logger.NewNop())

	items, err := uc.SearchProducts(context.Background(), &dto.SearchFilters{StoreID: "s1", Query: "TEA", Limit: 1})

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
}

func TestSearchProducts_NoQueryListsSnapshot(t *testing.T) {
	uc := usecase.NewCatalogUseCase(fixture(), nil, nil, time.Minute, logger.NewNop())

	items, err := uc.SearchProducts(context.Background(), &dto.SearchFilters{StoreID: "s2", ListedOnly: true})

	require.NoError(t, err)
	assert.Empty(t, items)
}
