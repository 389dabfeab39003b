package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-register/internal/category"
	"github.com/fekuna/omnipos-register/internal/category/dto"
	"github.com/fekuna/omnipos-register/internal/category/handler"
	"github.com/fekuna/omnipos-register/internal/category/usecase"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockUseCase struct {
	createFunc func(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error)
	listFunc   func(ctx context.Context) ([]model.Category, error)
	updateFunc func(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error)
	deleteFunc func(ctx context.Context, id string) error
}

func (m *mockUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	return m.createFunc(ctx, input)
}

func (m *mockUseCase) ListCategories(ctx context.Context) ([]model.Category, error) {
	return m.listFunc(ctx)
}

func (m *mockUseCase) UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error) {
	return m.updateFunc(ctx, input)
}

func (m *mockUseCase) DeleteCategory(ctx context.Context, id string) error {
	return m.deleteFunc(ctx, id)
}

func router(uc category.UseCase) http.Handler {
	r := chi.NewRouter()
	handler.NewCategoryHandler(uc, logger.NewNop()).Routes(r)
	return r
}

func serve(uc category.UseCase, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	router(uc).ServeHTTP(rec, req)
	return rec
}

func TestCategoryHandler_List(t *testing.T) {
	uc := &mockUseCase{listFunc: func(ctx context.Context) ([]model.Category, error) {
		return []model.Category{{ID: "c1", Name: "Drinks", SortOrder: 1}}, nil
	}}

	rec := serve(uc, http.MethodGet, "/categories", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got []model.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Drinks", got[0].Name)
}

func TestCategoryHandler_ListFailure(t *testing.T) {
	uc := &mockUseCase{listFunc: func(ctx context.Context) ([]model.Category, error) {
		return nil, errors.New("pq: connection reset")
	}}

	rec := serve(uc, http.MethodGet, "/categories", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"failed to list categories"}`, rec.Body.String())
}

func TestCategoryHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "created",
			body:       `{"name":"Drinks","sort_order":2}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "unknown_field",
			body:       `{"name":"Drinks","colour":"blue"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"invalid request body"}`,
		},
		{
			name:       "wrong_type",
			body:       `{"name":"Drinks","sort_order":"first"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"invalid request body"}`,
		},
		{
			name:       "name_required",
			body:       `{"name":"  "}`,
			err:        usecase.ErrNameRequired,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"category name is required"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{createFunc: func(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
				if tt.err != nil {
					return nil, tt.err
				}
				return &model.Category{ID: "c1", Name: input.Name, SortOrder: input.SortOrder}, nil
			}}

			rec := serve(uc, http.MethodPost, "/categories", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestCategoryHandler_UpdateAndDelete(t *testing.T) {
	var updated *dto.UpdateCategoryInput
	uc := &mockUseCase{
		updateFunc: func(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error) {
			updated = input
			return &model.Category{ID: input.ID, Name: input.Name}, nil
		},
		deleteFunc: func(ctx context.Context, id string) error {
			return usecase.ErrCategoryNotFound
		},
	}

	rec := serve(uc, http.MethodPut, "/categories/c7", `{"name":"Food","sort_order":3}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, &dto.UpdateCategoryInput{ID: "c7", Name: "Food", SortOrder: 3}, updated)

	rec = serve(uc, http.MethodDelete, "/categories/c7", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"category not found"}`, rec.Body.String())
}
