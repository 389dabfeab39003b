package handler

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/member"
	"github.com/fekuna/omnipos-register/internal/member/dto"
	"github.com/fekuna/omnipos-register/internal/member/usecase"
	"github.com/fekuna/omnipos-register/internal/transport/respond"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type MemberHandler struct {
	uc     member.UseCase
	logger logger.ZapLogger
}

func NewMemberHandler(uc member.UseCase, log logger.ZapLogger) *MemberHandler {
	return &MemberHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *MemberHandler) Routes(r chi.Router) {
	r.Route("/members", func(r chi.Router) {
		r.Get("/", h.ListMembers)
		r.Post("/", h.CreateMember)
		r.Get("/{id}", h.GetMember)
		r.Put("/{id}", h.UpdateMember)
		r.Delete("/{id}", h.DeleteMember)
		r.Get("/{id}/stats", h.GetStats)
	})
}

func (h *MemberHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.uc.ListMembers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, "failed to list members", err)
		return
	}
	respond.JSON(w, http.StatusOK, members)
}

func (h *MemberHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var input dto.CreateMemberInput
	if err := respond.Decode(r, &input); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.uc.CreateMember(r.Context(), &input)
	if err != nil {
		h.writeError(w, "failed to create member", err)
		return
	}
	respond.JSON(w, http.StatusCreated, m)
}

func (h *MemberHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	m, err := h.uc.GetMember(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, "failed to get member", err)
		return
	}
	respond.JSON(w, http.StatusOK, m)
}

func (h *MemberHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	var input dto.UpdateMemberInput
	if err := respond.Decode(r, &input); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	input.ID = chi.URLParam(r, "id")

	m, err := h.uc.UpdateMember(r.Context(), &input)
	if err != nil {
		h.writeError(w, "failed to update member", err)
		return
	}
	respond.JSON(w, http.StatusOK, m)
}

func (h *MemberHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteMember(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, "failed to delete member", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MemberHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.uc.GetStats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, "failed to get member stats", err)
		return
	}
	respond.JSON(w, http.StatusOK, stats)
}

func (h *MemberHandler) writeError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, usecase.ErrMemberNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, usecase.ErrNameRequired), errors.Is(err, usecase.ErrPhoneRequired):
		respond.Error(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(msg, zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, msg)
	}
}
