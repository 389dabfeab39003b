package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-register/internal/inventory"
	"github.com/fekuna/omnipos-register/internal/inventory/dto"
	"github.com/fekuna/omnipos-register/internal/inventory/usecase"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/transport/respond"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) Routes(r chi.Router) {
	r.Route("/stores/{storeID}/inventory", func(r chi.Router) {
		r.Get("/", h.ListStoreInventory)
		r.Get("/{productID}", h.GetStoreInventory)
		r.Put("/{productID}", h.UpsertListing)
		r.Post("/{productID}/adjust", h.AdjustInventory)
		r.Get("/{productID}/movements", h.ListMovements)
	})
}

func (h *InventoryHandler) ListStoreInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.uc.ListStoreInventory(r.Context(), chi.URLParam(r, "storeID"))
	if err != nil {
		h.writeError(w, "failed to list inventory", err)
		return
	}
	respond.JSON(w, http.StatusOK, items)
}

func (h *InventoryHandler) GetStoreInventory(w http.ResponseWriter, r *http.Request) {
	inv, err := h.uc.GetStoreInventory(r.Context(), chi.URLParam(r, "storeID"), chi.URLParam(r, "productID"))
	if err != nil {
		h.writeError(w, "failed to get inventory", err)
		return
	}
	respond.JSON(w, http.StatusOK, inv)
}

func (h *InventoryHandler) UpsertListing(w http.ResponseWriter, r *http.Request) {
	var input dto.UpsertListingInput
	if err := respond.Decode(r, &input); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	input.StoreID = chi.URLParam(r, "storeID")
	input.ProductID = chi.URLParam(r, "productID")

	inv, err := h.uc.UpsertListing(r.Context(), &input)
	if err != nil {
		h.writeError(w, "failed to update listing", err)
		return
	}
	respond.JSON(w, http.StatusOK, inv)
}

func (h *InventoryHandler) AdjustInventory(w http.ResponseWriter, r *http.Request) {
	var input dto.AdjustInventoryInput
	if err := respond.Decode(r, &input); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	input.StoreID = chi.URLParam(r, "storeID")
	input.ProductID = chi.URLParam(r, "productID")

	inv, err := h.uc.AdjustInventory(r.Context(), &input)
	if err != nil {
		h.writeError(w, "failed to adjust inventory", err)
		return
	}
	respond.JSON(w, http.StatusOK, inv)
}

type movementsResponse struct {
	Movements []model.InventoryMovement `json:"movements"`
	Total     int                       `json:"total"`
}

func (h *InventoryHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	movements, count, err := h.uc.ListMovements(r.Context(), &dto.MovementFilters{
		StoreID:      chi.URLParam(r, "storeID"),
		ProductID:    chi.URLParam(r, "productID"),
		MovementType: q.Get("type"),
		Page:         page,
		PageSize:     pageSize,
	})
	if err != nil {
		h.writeError(w, "failed to list movements", err)
		return
	}
	respond.JSON(w, http.StatusOK, movementsResponse{Movements: movements, Total: count})
}

func (h *InventoryHandler) writeError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, usecase.ErrInsufficientStock):
		respond.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, usecase.ErrLockBusy):
		respond.Error(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, usecase.ErrNegativePrice), errors.Is(err, usecase.ErrInvalidReference):
		respond.Error(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(msg, zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, msg)
	}
}
