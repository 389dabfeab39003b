package handler

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-register/internal/ledger"
	"github.com/fekuna/omnipos-register/internal/ledger/dto"
	"github.com/fekuna/omnipos-register/internal/ledger/usecase"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/transport/respond"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type LedgerHandler struct {
	uc     ledger.UseCase
	logger logger.ZapLogger
}

func NewLedgerHandler(uc ledger.UseCase, log logger.ZapLogger) *LedgerHandler {
	return &LedgerHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *LedgerHandler) Routes(r chi.Router) {
	r.Get("/ledger", h.Report)
}

// Report serves ?from=YYYY-MM-DD&to=YYYY-MM-DD&store=.
func (h *LedgerHandler) Report(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	report, err := h.uc.Report(r.Context(), &dto.ReportQuery{
		StoreID: q.Get("store"),
		From:    q.Get("from"),
		To:      q.Get("to"),
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidRange) {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to build ledger report", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to build ledger report")
		return
	}
	respond.JSON(w, http.StatusOK, report)
}
