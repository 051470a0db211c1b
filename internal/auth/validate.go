package auth

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"todo-services/internal/apperr"
)

const minPasswordLen = 6

var validate = validator.New()

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return apperr.Validation("Email is required")
	}
	if err := validate.Var(email, "email"); err != nil {
		return apperr.Validation("Please provide a valid email address")
	}
	return nil
}

func validateRegistration(email, password string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	if password == "" {
		return apperr.Validation("Password is required")
	}
	if len([]rune(password)) < minPasswordLen {
		return apperr.Validation("Password must be at least 6 characters long")
	}
	if len(password) > maxPasswordBytes {
		return apperr.Validation("Password must be at most 72 bytes long")
	}
	return nil
}

func validateLogin(email, password string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	if password == "" {
		return apperr.Validation("Password is required")
	}
	return nil
}
