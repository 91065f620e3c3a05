package auth

import (
	"direct-chat/errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type SignupRequest struct {
	FullName string `validate:"required,max=100"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// ValidateSignup reports the first failing field as a domain sentinel.
func ValidateSignup(req SignupRequest) error {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	return toDomainError(validate.Struct(req))
}

func ValidateLogin(req LoginRequest) error {
	return toDomainError(validate.Struct(req))
}

func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: email", errors.ErrMissingField)
	}
	if err := validate.Var(strings.TrimSpace(email), "email"); err != nil {
		return errors.ErrInvalidEmail
	}
	return nil
}

func toDomainError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return fmt.Errorf("%w: %v", errors.ErrMissingField, err)
	}

	fe := fieldErrors[0]
	field := strings.ToLower(fe.Field())
	switch {
	case fe.Tag() == "required":
		return fmt.Errorf("%w: %s", errors.ErrMissingField, field)
	case fe.Field() == "Email":
		return errors.ErrInvalidEmail
	case fe.Field() == "Password":
		return fmt.Errorf("%w: must be between 6 and 72 characters", errors.ErrInvalidPassword)
	default:
		return fmt.Errorf("%w: %s is invalid", errors.ErrMissingField, field)
	}
}
