// Package service implements business logic, validation, and authorization
// between HTTP handlers and the repository layer.
package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrForbidden is returned when a non-admin actor attempts an
// administrative operation.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidCredentials is returned on failed login attempts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidationError reports a user-correctable problem with a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// isValidEmail does a basic structural check.
func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	return len(parts[0]) > 0 && strings.Contains(parts[1], ".")
}

// digitsOnly strips everything but 0-9, so formatted CPFs
// ("529.982.247-25") and phones ("(34) 99999-0000") normalize cleanly.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// contactFields is the shared shape of registration and subscription forms.
type contactFields struct {
	Name        string
	Email       string
	CPF         string
	Phone       string
	Institution string
}

// validateContact normalizes and checks the shared contact fields.
// CPF must be exactly 11 digits after stripping formatting.
func validateContact(f contactFields) (contactFields, error) {
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		return f, invalid("name", "name is required")
	}

	f.Email = strings.TrimSpace(strings.ToLower(f.Email))
	if f.Email == "" {
		return f, invalid("email", "email is required")
	}
	if !isValidEmail(f.Email) {
		return f, invalid("email", "not a valid email address")
	}

	f.CPF = digitsOnly(f.CPF)
	if len(f.CPF) != 11 {
		return f, invalid("cpf", "cpf must have 11 digits")
	}

	f.Phone = digitsOnly(f.Phone)
	f.Institution = strings.TrimSpace(f.Institution)
	return f, nil
}
