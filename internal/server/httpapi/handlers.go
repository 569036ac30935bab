package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/phoneauth/internal/logging"
	"github.com/dmitrijs2005/phoneauth/internal/server/models"
)

const maxBodyBytes = 1 << 20

// AuthService is the session lifecycle the handlers expose.
type AuthService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.TokenResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error)
	Logout(ctx context.Context, token string) (*models.MessageResponse, error)
	Refresh(ctx context.Context, token string) (*models.TokenResponse, error)
	Me(ctx context.Context, token string) (*models.User, error)
}

// Handler holds auth HTTP handlers.
type Handler struct {
	svc    AuthService
	logger logging.Logger
}

func NewHandler(svc AuthService, logger logging.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.svc.Login(r.Context(), req)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := h.svc.Register(r.Context(), req)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}
	writeJSON(w, resp.Status, resp)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Logout(r.Context(), TokenFromContext(r.Context()))
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}
	writeJSON(w, resp.Status, resp)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Refresh(r.Context(), TokenFromContext(r.Context()))
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Me(r.Context(), TokenFromContext(r.Context()))
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, models.UserResponse{User: user})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decode reads a JSON body into dst. An empty body decodes as {} so missing
// fields are reported by validation; anything unparseable is a 400.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	writeError(w, http.StatusBadRequest, errBadBody)
	return false
}
