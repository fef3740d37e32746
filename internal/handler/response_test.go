package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/zphere-app/zphere/internal/domain"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"tenant required", domain.ErrTenantRequired, http.StatusBadRequest, "tenant_required"},
		{"tenant unavailable", domain.ErrTenantUnavailable, http.StatusServiceUnavailable, "tenant_unavailable"},
		{"wrapped tenant unavailable", fmt.Errorf("%w: dial failed", domain.ErrTenantUnavailable), http.StatusServiceUnavailable, "tenant_unavailable"},
		{"not found", domain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"conflict", domain.ErrConflict, http.StatusConflict, "conflict"},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"invalid input", domain.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
		{"validation error", &domain.ValidationError{Field: "email", Message: "required"}, http.StatusBadRequest, "invalid_input"},
		{"echo error", echo.NewHTTPError(http.StatusTooManyRequests, "slow down"), http.StatusTooManyRequests, "http_error"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, _ := mapError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestInternalErrorsAreOpaque(t *testing.T) {
	_, _, message := mapError(errors.New("pq: password authentication failed"))
	assert.Equal(t, "internal server error", message)
}
