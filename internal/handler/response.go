package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/zphere-app/zphere/internal/domain"
)

// Envelope is the uniform response shape for every endpoint.
type Envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

// APIError carries a machine-readable code alongside the message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Fields  []any  `json:"fields,omitempty"`
}

// OK writes a success envelope with the given status.
func OK(c echo.Context, status int, data any) error {
	return c.JSON(status, Envelope{Success: true, Data: data})
}

// Fail writes an error envelope.
func Fail(c echo.Context, status int, code, message string) error {
	return c.JSON(status, Envelope{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
	})
}

// HTTPErrorHandler maps domain errors to HTTP responses. Registered on the
// echo instance so handlers can return errors directly.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, code, message := mapError(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"error", err,
		)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = Fail(c, status, code, message)
}

func mapError(err error) (status int, code, message string) {
	var ve *domain.ValidationError
	var fieldErrs validator.ValidationErrors
	var httpErr *echo.HTTPError

	switch {
	case errors.Is(err, domain.ErrTenantRequired):
		return http.StatusBadRequest, "tenant_required", "a tenant context is required for this request"
	case errors.Is(err, domain.ErrTenantUnavailable):
		return http.StatusServiceUnavailable, "tenant_unavailable", "tenant database is unavailable, retry shortly"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found", err.Error()
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "conflict", err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized", "invalid or missing credentials"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "forbidden", "you do not have access to this resource"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input", err.Error()
	case errors.As(err, &ve):
		return http.StatusBadRequest, "invalid_input", ve.Error()
	case errors.As(err, &fieldErrs):
		return http.StatusBadRequest, "invalid_input", fieldErrs.Error()
	case errors.As(err, &httpErr):
		msg, ok := httpErr.Message.(string)
		if !ok {
			msg = http.StatusText(httpErr.Code)
		}
		return httpErr.Code, "http_error", msg
	default:
		return http.StatusInternalServerError, "internal", "internal server error"
	}
}
