// Package validator adapts go-playground/validator to echo's Validator interface.
package validator

import (
	validatorlib "github.com/go-playground/validator/v10"

	domainerrors "robofleet/internal/domain/errors"
)

// echoValidator wraps a validator.Validate instance for echo.
type echoValidator struct {
	validate *validatorlib.Validate
}

// New creates the validator used by the echo server.
func New() *echoValidator {
	return &echoValidator{validate: validatorlib.New()}
}

// Validate implements echo.Validator. Failures surface as 400 responses
// through the central error handler.
func (v *echoValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.NewValidationError(err.Error())
	}

	return nil
}
