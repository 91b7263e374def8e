package service

import (
	"errors"
	"strings"
)

// AuthError is an unauthorized outcome. Message is safe to show to clients.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

var (
	ErrInvalidCredentials  = &AuthError{Message: "Email or Password wrong."}
	ErrAccountNotConfirmed = &AuthError{Message: "Account is not confirmed. Please confirm your account."}
	ErrAccountNotActive    = &AuthError{Message: "Account is not active. Please contact admin."}
	ErrEmailNotFound       = &AuthError{Message: "Specified email not found."}
	ErrAlreadyConfirmed    = &AuthError{Message: "Account already confirmed."}
	ErrOTPMismatch         = &AuthError{Message: "Otp does not match."}
	ErrUserNotFound        = &AuthError{Message: "User not found."}
)

// FieldError is one failed input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors aggregates at most one FieldError per field, in input order.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v *ValidationErrors) add(field, message string) {
	*v = append(*v, FieldError{Field: field, Message: message})
}

func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// DependencyError wraps a store, mailer or codec failure.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *DependencyError) Unwrap() error { return e.Err }

func dependency(op string, err error) error {
	return &DependencyError{Op: op, Err: err}
}

// IsValidation, IsUnauthorized and IsDependency classify workflow errors.
func IsValidation(err error) (ValidationErrors, bool) {
	var v ValidationErrors
	ok := errors.As(err, &v)
	return v, ok
}

func IsUnauthorized(err error) (*AuthError, bool) {
	var a *AuthError
	ok := errors.As(err, &a)
	return a, ok
}

func IsDependency(err error) (*DependencyError, bool) {
	var d *DependencyError
	ok := errors.As(err, &d)
	return d, ok
}
