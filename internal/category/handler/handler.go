package handler

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-register/internal/category"
	"github.com/fekuna/omnipos-register/internal/category/dto"
	"github.com/fekuna/omnipos-register/internal/category/usecase"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/transport/respond"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CategoryHandler) Routes(r chi.Router) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Post("/", h.CreateCategory)
		r.Put("/{id}", h.UpdateCategory)
		r.Delete("/{id}", h.DeleteCategory)
	})
}

func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.uc.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("failed to list categories", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	respond.JSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var input dto.CreateCategoryInput
	if err := respond.Decode(r, &input); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cat, err := h.uc.CreateCategory(r.Context(), &input)
	if err != nil {
		h.writeError(w, "failed to create category", err)
		return
	}
	respond.JSON(w, http.StatusCreated, cat)
}

func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var input dto.UpdateCategoryInput
	if err := respond.Decode(r, &input); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	input.ID = chi.URLParam(r, "id")

	cat, err := h.uc.UpdateCategory(r.Context(), &input)
	if err != nil {
		h.writeError(w, "failed to update category", err)
		return
	}
	respond.JSON(w, http.StatusOK, cat)
}

func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, "failed to delete category", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CategoryHandler) writeError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, usecase.ErrCategoryNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, usecase.ErrNameRequired):
		respond.Error(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(msg, zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, msg)
	}
}
