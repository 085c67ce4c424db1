package handler

import (
	"context"
	"net/http"
	"strings"

	"go-blog-api/internal/middleware"
	"go-blog-api/internal/model"
	"go-blog-api/pkg/apierror"
)

type authService interface {
	Register(ctx context.Context, email string, password string, name string) (int64, error)
	Login(ctx context.Context, email string, password string) (model.TokenPair, error)
	Refresh(ctx context.Context, rawRefreshToken string) (model.TokenPair, error)
	Logout(ctx context.Context, userID int64) error
	Me(ctx context.Context, userID int64) (model.UserProfile, error)
}

type AuthHandler struct {
	service authService
}

func NewAuthHandler(service authService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload model.RegisterRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	if err := validateRegister(payload); err != nil {
		writeError(w, r, err)
		return
	}

	id, err := h.service.Register(r.Context(), payload.Email, payload.Password, strings.TrimSpace(payload.Name))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.RegisterResponse{ID: id})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	if err := validateLogin(payload); err != nil {
		writeError(w, r, err)
		return
	}

	tokens, err := h.service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokens)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var payload model.RefreshRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	if err := validateRefresh(payload); err != nil {
		writeError(w, r, err)
		return
	}

	tokens, err := h.service.Refresh(r.Context(), strings.TrimSpace(payload.RefreshToken))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokens)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, apierror.Unauthorized("authentication required"))
		return
	}

	if err := h.service.Logout(r.Context(), identity.UserID); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, apierror.Unauthorized("authentication required"))
		return
	}

	profile, err := h.service.Me(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
