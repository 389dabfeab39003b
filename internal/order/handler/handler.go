package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/order"
	"github.com/fekuna/omnipos-register/internal/order/dto"
	"github.com/fekuna/omnipos-register/internal/order/usecase"
	"github.com/fekuna/omnipos-register/internal/transport/respond"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type OrderHandler struct {
	uc     order.UseCase
	loc    *time.Location
	logger logger.ZapLogger
}

// NewOrderHandler serves order history. Date parameters are read as local
// dates in loc.
func NewOrderHandler(uc order.UseCase, loc *time.Location, log logger.ZapLogger) *OrderHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &OrderHandler{
		uc:     uc,
		loc:    loc,
		logger: log,
	}
}

func (h *OrderHandler) Routes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Get("/{id}", h.GetOrder)
	})
}

// ListOrders accepts ?store=&member=&from=YYYY-MM-DD&to=YYYY-MM-DD; both
// dates are inclusive.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := &dto.OrderFilters{
		StoreID:  q.Get("store"),
		MemberID: q.Get("member"),
	}

	if from := q.Get("from"); from != "" {
		d, err := time.ParseInLocation(dateLayout, from, h.loc)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid from date")
			return
		}
		filters.From = d
	}
	if to := q.Get("to"); to != "" {
		d, err := time.ParseInLocation(dateLayout, to, h.loc)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid to date")
			return
		}
		filters.To = d.AddDate(0, 0, 1)
	}

	orders, err := h.uc.ListOrders(r.Context(), filters)
	if err != nil {
		h.logger.Error("failed to list orders", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	respond.JSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.uc.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, usecase.ErrOrderNotFound) {
			respond.Error(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("failed to get order", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to get order")
		return
	}
	respond.JSON(w, http.StatusOK, o)
}
