package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/hrportal/internal/common"
	"github.com/dmitrijs2005/hrportal/internal/logging"
	"github.com/dmitrijs2005/hrportal/internal/server/models"
)

// maxBodyBytes caps request bodies; auth payloads are tiny.
const maxBodyBytes = 1 << 16

// UserService is implemented by services.UserService.
type UserService interface {
	Register(ctx context.Context, email, password, name string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	CurrentActiveUser(ctx context.Context, token string) (*models.User, error)
	Refresh(ctx context.Context, user *models.User) (string, error)
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Handler struct {
	svc     UserService
	logger  logging.Logger
	appName string
	version string
}

func NewHandler(svc UserService, logger logging.Logger, appName, version string) *Handler {
	return &Handler{
		svc:     svc,
		logger:  logger.With("module", "http"),
		appName: appName,
		version: version,
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	user, err := h.svc.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	respondJSON(w, models.NewUserPublicView(user), http.StatusCreated)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, "email and password are required", http.StatusUnprocessableEntity)
		return
	}

	token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	respondJSON(w, TokenResponse{AccessToken: token, TokenType: common.TokenType}, http.StatusOK)
}

// Me requires RequireAuth upstream.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}
	respondJSON(w, models.NewUserPublicView(user), http.StatusOK)
}

// Refresh requires RequireAuth upstream.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	token, err := h.svc.Refresh(r.Context(), user)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	respondJSON(w, TokenResponse{AccessToken: token, TokenType: common.TokenType}, http.StatusOK)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "healthy", "version": h.version}, http.StatusOK)
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"message": h.appName, "version": h.version}, http.StatusOK)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, detail := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	respondError(w, detail, status)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errors.New("request body too large")
		}
		return fmt.Errorf("invalid request body: %v", err)
	}
	return nil
}
