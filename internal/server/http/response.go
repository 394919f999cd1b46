package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/hrportal/internal/common"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// TokenResponse is returned by login and refresh.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func respondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, detail string, statusCode int) {
	if statusCode == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", common.BearerScheme)
	}
	respondJSON(w, ErrorResponse{Detail: detail}, statusCode)
}

// statusFor maps an error kind to an HTTP status and a short, user-facing
// description. Unknown errors map to 500 without leaking details.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, common.ErrAlreadyExists):
		return http.StatusBadRequest, "Email already registered"
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, "Token has expired"
	case errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, "Could not validate credentials"
	case errors.Is(err, common.ErrAccountInactive):
		return http.StatusForbidden, "Account is inactive"
	case errors.Is(err, common.ErrDatabase):
		return http.StatusServiceUnavailable, "Service temporarily unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
