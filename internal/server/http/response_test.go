package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/hrportal/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: bad", common.ErrValidation), http.StatusUnprocessableEntity},
		{common.ErrAlreadyExists, http.StatusBadRequest},
		{common.ErrInvalidCredentials, http.StatusUnauthorized},
		{common.ErrInvalidToken, http.StatusUnauthorized},
		{fmt.Errorf("%w: %w", common.ErrInvalidToken, common.ErrTokenExpired), http.StatusUnauthorized},
		{common.ErrAccountInactive, http.StatusForbidden},
		{fmt.Errorf("%w: conn refused", common.ErrDatabase), http.StatusServiceUnavailable},
		{common.ErrFormat, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		got, detail := statusFor(tt.err)
		assert.Equal(t, tt.want, got, tt.err.Error())
		assert.NotEmpty(t, detail)
	}

	_, detail := statusFor(errors.New("secret internals"))
	assert.NotContains(t, detail, "secret")
}

func TestRespondError_Unauthorized(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, "nope", http.StatusUnauthorized)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"detail":"nope"}`, rec.Body.String())
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer   ", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", tt.header)
		got, ok := bearerToken(req)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.token, got, tt.header)
	}
}
