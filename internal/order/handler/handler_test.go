package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/order/dto"
	"github.com/fekuna/omnipos-register/internal/order/handler"
	"github.com/fekuna/omnipos-register/internal/order/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	findAllFunc func(ctx context.Context, f *dto.OrderFilters) ([]model.Order, error)
}

func (m *mockRepository) CreateOrder(ctx context.Context, o *model.Order) (string, error) {
	return "", nil
}

func (m *mockRepository) CreateOrderItems(ctx context.Context, orderID string, items []model.OrderItem) error {
	return nil
}

func (m *mockRepository) DeleteOrder(ctx context.Context, orderID string) error { return nil }

func (m *mockRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	if id == "o1" {
		return &model.Order{ID: "o1", PaymentMethod: "cash"}, nil
	}
	return nil, nil
}

func (m *mockRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.Order, error) {
	return m.findAllFunc(ctx, f)
}

func router(repo *mockRepository, loc *time.Location) http.Handler {
	r := chi.NewRouter()
	handler.NewOrderHandler(usecase.NewOrderUseCase(repo), loc, logger.NewNop()).Routes(r)
	return r
}

func TestOrderHandler_ListOrders_LocalDates(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*60*60)
	var got *dto.OrderFilters
	repo := &mockRepository{findAllFunc: func(ctx context.Context, f *dto.OrderFilters) ([]model.Order, error) {
		got = f
		return []model.Order{}, nil
	}}

	rec := httptest.NewRecorder()
	router(repo, loc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders?store=s1&from=2026-03-01&to=2026-03-01", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s1", got.StoreID)
	assert.True(t, got.From.Equal(time.Date(2026, 2, 28, 16, 0, 0, 0, time.UTC)))
	assert.True(t, got.To.Equal(time.Date(2026, 3, 1, 16, 0, 0, 0, time.UTC)))
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestOrderHandler_BadDate(t *testing.T) {
	repo := &mockRepository{}
	rec := httptest.NewRecorder()
	router(repo, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders?from=03/01/2026", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderHandler_GetOrder(t *testing.T) {
	repo := &mockRepository{}

	rec := httptest.NewRecorder()
	router(repo, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/o1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router(repo, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"order not found"}`, rec.Body.String())
}
