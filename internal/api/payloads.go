package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kalafo/kalafo-go/internal/core/domain"
)

var validate = validator.New()

// LoginPayload is the body of POST /login.
type LoginPayload struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterPayload is the body of POST /register.
type RegisterPayload struct {
	Email     string      `json:"email"      validate:"required,email"`
	Password  string      `json:"password"   validate:"required,min=8"`
	Role      domain.Role `json:"role"       validate:"required,oneof=admin doctor patient"`
	FirstName string      `json:"first_name" validate:"required"`
	LastName  string      `json:"last_name"  validate:"required"`
}

// Validate checks the payload before any bytes hit the wire.
func (p LoginPayload) Validate() error { return validateStruct(p) }

// Validate checks the payload before any bytes hit the wire.
func (p RegisterPayload) Validate() error { return validateStruct(p) }

func validateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return fmt.Errorf("%s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
