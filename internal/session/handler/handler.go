package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-register/config"
	"github.com/fekuna/omnipos-register/internal/cart"
	"github.com/fekuna/omnipos-register/internal/catalog"
	catalogusecase "github.com/fekuna/omnipos-register/internal/catalog/usecase"
	"github.com/fekuna/omnipos-register/internal/checkout"
	"github.com/fekuna/omnipos-register/internal/logger"
	memberusecase "github.com/fekuna/omnipos-register/internal/member/usecase"
	"github.com/fekuna/omnipos-register/internal/session"
	"github.com/fekuna/omnipos-register/internal/session/dto"
	"github.com/fekuna/omnipos-register/internal/transport/respond"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Sessions is the part of session.Manager the handler drives.
type Sessions interface {
	Open(ctx context.Context, storeID string) (*session.Session, error)
	Get(id string) (*session.Session, error)
	Close(id string) error
	SwitchStore(ctx context.Context, id, storeID string) (*session.Session, error)
}

type SessionHandler struct {
	sessions Sessions
	register config.RegisterConfig
	logger   logger.ZapLogger
}

func NewSessionHandler(sessions Sessions, register config.RegisterConfig, log logger.ZapLogger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		register: register,
		logger:   log,
	}
}

func (h *SessionHandler) Routes(r chi.Router) {
	r.Get("/register/settings", h.Settings)
	r.Post("/register/drawer/open", h.OpenDrawer)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.Open)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Delete("/", h.Close)
			r.Put("/store", h.SwitchStore)
			r.Get("/products", h.Products)

			r.Post("/lines", h.AddProduct)
			r.Delete("/lines", h.ClearCart)
			r.Patch("/lines/{index}", h.EditLine)
			r.Delete("/lines/{index}", h.RemoveLine)

			r.Post("/prompt", h.OpenPrompt)
			r.Delete("/prompt", h.CancelPrompt)
			r.Put("/prompt/reason", h.SetPromptReason)
			r.Post("/prompt/resolve", h.ResolvePrompt)
			r.Post("/keys", h.PressKey)

			r.Put("/discount", h.SetDiscount)
			r.Delete("/discount", h.ResetDiscount)
			r.Put("/received", h.SetReceivedPreset)
			r.Put("/payment-method", h.SetPaymentMethod)
			r.Put("/member", h.AttachMember)
			r.Delete("/member", h.DetachMember)

			r.Post("/checkout", h.Checkout)
			r.Delete("/receipt", h.DismissReceipt)
		})
	})
}

func (h *SessionHandler) Settings(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, dto.RegisterSettings{
		PaymentMethods:       h.register.PaymentMethods,
		DefaultPaymentMethod: h.register.DefaultPaymentMethod,
		QuickAmounts:         h.register.QuickAmounts,
	})
}

// OpenDrawer is a stub for the cash drawer kick. There is no drawer
// hardware behind it yet; the request is only logged.
func (h *SessionHandler) OpenDrawer(w http.ResponseWriter, r *http.Request) {
	var input dto.DrawerInput
	if r.ContentLength != 0 {
		if err := respond.Decode(r, &input); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	h.logger.Info("cash drawer open requested",
		zap.String("store_id", input.StoreID),
		zap.String("session_id", input.SessionID),
	)
	w.WriteHeader(http.StatusAccepted)
}

func (h *SessionHandler) Open(w http.ResponseWriter, r *http.Request) {
	var input dto.OpenSessionInput
	if err := respond.Decode(r, &input); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.StoreID == "" {
		respond.Error(w, http.StatusBadRequest, "store_id is required")
		return
	}

	s, err := h.sessions.Open(r.Context(), input.StoreID)
	if err != nil {
		h.writeError(w, "failed to open session", err)
		return
	}
	respond.JSON(w, http.StatusCreated, s.View())
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, s.View())
}

func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Close(chi.URLParam(r, "id")); err != nil {
		h.writeError(w, "failed to close session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) SwitchStore(w http.ResponseWriter, r *http.Request) {
	var input dto.OpenSessionInput
	if err := respond.Decode(r, &input); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.StoreID == "" {
		respond.Error(w, http.StatusBadRequest, "store_id is required")
		return
	}

	s, err := h.sessions.SwitchStore(r.Context(), chi.URLParam(r, "id"), input.StoreID)
	if err != nil {
		h.writeError(w, "failed to switch store", err)
		return
	}
	respond.JSON(w, http.StatusOK, s.View())
}

// Products lists the session's catalog: ?category=&q=&all=1.
func (h *SessionHandler) Products(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	respond.JSON(w, http.StatusOK, s.Products(catalog.Filter{
		CategoryID: q.Get("category"),
		Query:      q.Get("q"),
		ListedOnly: q.Get("all") != "1",
	}))
}

func (h *SessionHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var input dto.AddProductInput
	if err := respond.Decode(r, &input); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := s.AddProduct(input.ProductID); err != nil {
		h.writeError(w, "failed to add product", err)
		return
	}
	respond.JSON(w, http.StatusOK, s.View())
}

func (h *SessionHandler) EditLine(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	index, ok := lineIndex(w, r)
	if !ok {
		return
	}
	var input dto.EditLineInput
	if err := respond.Decode(r, &input); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.EditLine(index, cart.LineEdit{Price: input.Price, Quantity: input.Quantity}); err != nil {
		h.writeError(w, "failed to edit line", err)
		return
	}
	respond.JSON(w, http.StatusOK, s.View())
}

func (h *SessionHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	index, ok := lineIndex(w, r)
	if !ok {
		return
	}
	if err := s.RemoveLine(index); err != nil {
		h.writeError(w, "failed to remove line", err)
		return
	}
	respond.JSON(w, http.StatusOK, s.View())
}

func (h *SessionHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "failed to clear cart", (*session.Session).ClearCart)
}

func (h *SessionHandler) OpenPrompt(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var input dto.OpenPromptInput
	if err := respond.Decode(r, &input); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := s.OpenPrompt(session.PromptKind(input.Kind), input.LineIndex); err != nil {
		h.writeError(w, "failed to open prompt", err)
		return
	}
	respond.JSON(w, http.StatusOK, s.View())
}

func (h *SessionHandler) CancelPrompt(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "failed to cancel prompt", (*session.Session).CancelPrompt)
}

func (h *SessionHandler) SetPromptReason(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var input dto.PromptReasonInput
	if err := respond.Decode(r, &input); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.SetPromptReason(input.Reason); err != nil {
		h.writeError(w, "failed to set reason", err)
		return
	}
	respond.JSON(w, http.StatusOK, s.View())
}

func (h *SessionHandler) ResolvePrompt(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.ResolvePrompt(r.Context()); err != nil {
		h.writeError(w, "failed to resolve prompt", err)
		return
	}
	respond.JSON(w, http.StatusOK, s.View())
}

func (h *SessionHandler) PressKey(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var input dto.KeyPressInput
	if err := respond.Decode(r, &input); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.PressKey(input.Field, input.Key); err != nil {
		h.writeError(w, "failed to press key", err)
		return
	}
	respond.JSON(w, http.StatusOK, s.View())
}

func (h *SessionHandler) SetDiscount(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var input dto.DiscountInput
	if err := respond.Decode(r, &input); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.UpdateDiscount(input.Flat, input.Percent); err != nil {
		h.writeError(w, "failed to set discount", err)
		return
	}
	respond.JSON(w, http.StatusOK, s.View())
}

func (h *SessionHandler) ResetDiscount(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "failed to reset discount", (*session.Session).ResetDiscount)
}

func (h *SessionHandler) SetReceivedPreset(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var input dto.ReceivedPresetInput
	if err := respond.Decode(r, &input); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.SetReceivedPreset(input.Amount); err != nil {
		h.writeError(w, "failed to set received amount", err)
		return
	}
	respond.JSON(w, http.StatusOK, s.View())
}

func (h *SessionHandler) SetPaymentMethod(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var input dto.PaymentMethodInput
	if err := respond.Decode(r, &input); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.SetPaymentMethod(input.Method); err != nil {
		h.writeError(w, "failed to set payment method", err)
		return
	}
	respond.JSON(w, http.StatusOK, s.View())
}

func (h *SessionHandler) AttachMember(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var input dto.AttachMemberInput
	if err := respond.Decode(r, &input); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := s.AttachMember(r.Context(), input.Query); err != nil {
		h.writeError(w, "failed to attach member", err)
		return
	}
	respond.JSON(w, http.StatusOK, s.View())
}

func (h *SessionHandler) DetachMember(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "failed to detach member", (*session.Session).DetachMember)
}

func (h *SessionHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	receipt, err := s.Checkout(r.Context())
	if err != nil {
		h.writeError(w, "checkout failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, receipt)
}

func (h *SessionHandler) DismissReceipt(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.DismissReceipt()
	respond.JSON(w, http.StatusOK, s.View())
}

// apply runs a body-less session action and answers with the new view.
func (h *SessionHandler) apply(w http.ResponseWriter, r *http.Request, msg string, fn func(*session.Session) error) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := fn(s); err != nil {
		h.writeError(w, msg, err)
		return
	}
	respond.JSON(w, http.StatusOK, s.View())
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, "failed to load session", err)
		return nil, false
	}
	return s, true
}

func lineIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid line index")
		return 0, false
	}
	return index, true
}

func (h *SessionHandler) writeError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, session.ErrProductNotFound),
		errors.Is(err, session.ErrLineNotFound),
		errors.Is(err, memberusecase.ErrMemberNotFound),
		errors.Is(err, catalogusecase.ErrStoreNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrCommitInProgress),
		errors.Is(err, session.ErrPromptPending):
		respond.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrCannotCheckout),
		errors.Is(err, session.ErrProductUnlisted),
		errors.Is(err, session.ErrNoPrompt),
		errors.Is(err, session.ErrFieldMismatch),
		errors.Is(err, session.ErrInvalidPrompt),
		errors.Is(err, session.ErrUnknownPaymentMethod),
		errors.Is(err, session.ErrInvalidExpense):
		respond.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrNoMemberLookup),
		errors.Is(err, session.ErrNoExpenseRecorder):
		respond.Error(w, http.StatusNotImplemented, err.Error())
	case errors.Is(err, checkout.ErrPersistence):
		// The sale stays in the session; the operator sees the cause.
		h.logger.Error(msg, zap.Error(err))
		respond.Error(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.logger.Error(msg, zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, msg)
	}
}
