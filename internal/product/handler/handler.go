package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/product"
	"github.com/fekuna/omnipos-register/internal/product/dto"
	"github.com/fekuna/omnipos-register/internal/product/usecase"
	"github.com/fekuna/omnipos-register/internal/transport/respond"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductHandler) Routes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Post("/", h.CreateProduct)
		r.Get("/{id}", h.GetProduct)
		r.Put("/{id}", h.UpdateProduct)
		r.Delete("/{id}", h.DeleteProduct)
	})
}

type listResponse struct {
	Products []model.Product `json:"products"`
	Total    int             `json:"total"`
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	products, count, err := h.uc.ListProducts(r.Context(), &dto.ProductFilters{
		CategoryID:  q.Get("category"),
		SearchQuery: q.Get("q"),
		Page:        page,
		PageSize:    pageSize,
	})
	if err != nil {
		h.logger.Error("failed to list products", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	respond.JSON(w, http.StatusOK, listResponse{Products: products, Total: count})
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input dto.CreateProductInput
	if err := respond.Decode(r, &input); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.uc.CreateProduct(r.Context(), &input)
	if err != nil {
		h.writeError(w, "failed to create product", err)
		return
	}
	respond.JSON(w, http.StatusCreated, p)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.uc.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, "failed to get product", err)
		return
	}
	respond.JSON(w, http.StatusOK, p)
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var input dto.UpdateProductInput
	if err := respond.Decode(r, &input); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	input.ID = chi.URLParam(r, "id")

	p, err := h.uc.UpdateProduct(r.Context(), &input)
	if err != nil {
		h.writeError(w, "failed to update product", err)
		return
	}
	respond.JSON(w, http.StatusOK, p)
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, "failed to delete product", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) writeError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, usecase.ErrProductNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, usecase.ErrNameRequired), errors.Is(err, usecase.ErrNegativePrice):
		respond.Error(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(msg, zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, msg)
	}
}
