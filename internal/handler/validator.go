package handler

import (
	"github.com/go-playground/validator/v10"
)

// AppValidator adapts go-playground/validator to echo's Validator interface.
type AppValidator struct {
	validator *validator.Validate
}

// NewAppValidator creates a validator with struct tag validation enabled.
func NewAppValidator() *AppValidator {
	return &AppValidator{validator: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate implements echo.Validator.
func (v *AppValidator) Validate(i any) error {
	return v.validator.Struct(i)
}
