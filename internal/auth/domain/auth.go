package domain

import (
	"context"
	"errors"
)

// Errores internos del gate. Hacia fuera todos acaban en 401, pero en logs se distinguen.
var (
	ErrNoToken              = errors.New("no token provided")
	ErrTokenRejected        = errors.New("token rejected by auth service")
	ErrValidatorUnavailable = errors.New("auth service unavailable")
)

// TokenValidator valida la cabecera Authorization tal cual llega.
type TokenValidator interface {
	Validate(ctx context.Context, authorization string) error
}

// IsAuthError indica si err pertenece a la familia de errores de autenticación.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrNoToken) ||
		errors.Is(err, ErrTokenRejected) ||
		errors.Is(err, ErrValidatorUnavailable)
}
