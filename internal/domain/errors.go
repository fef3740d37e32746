package domain

import "errors"

var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("resource conflict")

	// ErrTenantRequired is returned when a tenant-scoped route is reached
	// without a resolvable tenant id (no header and no user organization).
	ErrTenantRequired = errors.New("tenant context required")

	// ErrTenantUnavailable is returned when the tenant database cannot be
	// provisioned or connected.
	ErrTenantUnavailable = errors.New("tenant database unavailable")
)

// ValidationError represents a field-level validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
