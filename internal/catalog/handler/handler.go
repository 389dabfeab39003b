package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-register/internal/catalog"
	"github.com/fekuna/omnipos-register/internal/catalog/dto"
	"github.com/fekuna/omnipos-register/internal/catalog/usecase"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/transport/respond"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	uc     catalog.UseCase
	logger logger.ZapLogger
}

func NewCatalogHandler(uc catalog.UseCase, log logger.ZapLogger) *CatalogHandler {
	return &CatalogHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CatalogHandler) Routes(r chi.Router) {
	r.Get("/stores", h.ListStores)
	r.Get("/stores/{storeID}/products", h.ListProducts)
}

func (h *CatalogHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.uc.ListStores(r.Context())
	if err != nil {
		h.logger.Error("failed to list stores", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to list stores")
		return
	}
	respond.JSON(w, http.StatusOK, stores)
}

// ListProducts serves the register's product grid: ?category=&q=&all=1&limit=.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := &dto.SearchFilters{
		StoreID:    chi.URLParam(r, "storeID"),
		CategoryID: q.Get("category"),
		Query:      q.Get("q"),
		ListedOnly: q.Get("all") != "1",
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filters.Limit = limit
	}

	items, err := h.uc.SearchProducts(r.Context(), filters)
	if err != nil {
		if errors.Is(err, usecase.ErrStoreNotFound) {
			respond.Error(w, http.StatusNotFound, "store not found")
			return
		}
		h.logger.Error("failed to list products", zap.String("store_id", filters.StoreID), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	respond.JSON(w, http.StatusOK, items)
}
