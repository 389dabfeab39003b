package handler

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-register/internal/expense"
	"github.com/fekuna/omnipos-register/internal/expense/dto"
	"github.com/fekuna/omnipos-register/internal/expense/usecase"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/transport/respond"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ExpenseHandler struct {
	uc     expense.UseCase
	logger logger.ZapLogger
}

func NewExpenseHandler(uc expense.UseCase, log logger.ZapLogger) *ExpenseHandler {
	return &ExpenseHandler{
		uc:     uc,
		logger: log,
	}
}

// Routes only exposes edits; expenses are recorded through a register
// session.
func (h *ExpenseHandler) Routes(r chi.Router) {
	r.Put("/expenses/{id}", h.UpdateExpense)
}

func (h *ExpenseHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	var input dto.UpdateExpenseInput
	if err := respond.Decode(r, &input); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	input.ID = chi.URLParam(r, "id")

	e, err := h.uc.UpdateExpense(r.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrExpenseNotFound):
			respond.Error(w, http.StatusNotFound, err.Error())
		case errors.Is(err, usecase.ErrInvalidAmount):
			respond.Error(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("failed to update expense", zap.Error(err))
			respond.Error(w, http.StatusInternalServerError, "failed to update expense")
		}
		return
	}
	respond.JSON(w, http.StatusOK, e)
}
