package mocks

import (
	"context"
	"sync"

	authDomain "github.com/davicafu/mstask/internal/auth/domain"
)

// FakeValidator devuelve siempre Err y recuerda las cabeceras recibidas.
type FakeValidator struct {
	mu   sync.Mutex
	Err  error
	seen []string
}

var _ authDomain.TokenValidator = (*FakeValidator)(nil)

func NewFakeValidator(err error) *FakeValidator {
	return &FakeValidator{Err: err}
}

func (f *FakeValidator) Validate(ctx context.Context, authorization string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, authorization)
	return f.Err
}

func (f *FakeValidator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.seen)
}

func (f *FakeValidator) Seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.seen...)
}
