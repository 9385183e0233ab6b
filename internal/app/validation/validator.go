// Package validation checks bus messages against their struct tags.
package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidInput = errors.New("validation: invalid input")

// Validator wraps a go-playground validator instance.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("credit_tier", func(fl validator.FieldLevel) bool {
		switch strings.ToUpper(fl.Field().String()) {
		case "EXCELLENT", "GOOD", "FAIR", "POOR":
			return true
		}
		return false
	})
	return &Validator{v: v}
}

// Validate returns an error wrapping ErrInvalidInput when message breaks a tag
// rule. Non-struct messages pass.
func (val *Validator) Validate(_ context.Context, message any) error {
	err := val.v.Struct(message)
	if err == nil {
		return nil
	}
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		parts := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			parts = append(parts, describe(fe))
		}
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(parts, "; "))
	}
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gt", "gte", "lt", "lte", "min", "max":
		return fmt.Sprintf("%s must be %s %s", field, fe.Tag(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
