package utils

import (
	"context"
	"time"
)

// Retry ejecuta fn hasta attempts veces esperando delay entre intentos.
// Si stop devuelve true para un error, se corta sin reintentar (p.ej. not found).
func Retry(ctx context.Context, attempts int, delay time.Duration, stop func(error) bool, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil {
			return nil
		}
		if stop != nil && stop(err) {
			return err
		}
		if i == attempts-1 {
			break
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
