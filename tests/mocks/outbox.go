package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	sharedDomain "github.com/davicafu/mstask/internal/shared/domain"
)

// MockOutboxRepository simula el lado de lectura del outbox.
type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) FetchPendingOutbox(ctx context.Context, limit int) ([]sharedDomain.OutboxEvent, error) {
	args := m.Called(ctx, limit)
	events, _ := args.Get(0).([]sharedDomain.OutboxEvent)
	return events, args.Error(1)
}

func (m *MockOutboxRepository) MarkOutboxProcessed(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPublisher simula un publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event interface{}) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// InMemoryOutbox guarda los eventos añadidos por los servicios.
type InMemoryOutbox struct {
	mu        sync.Mutex
	Events    []sharedDomain.OutboxEvent
	AppendErr error
}

func NewInMemoryOutbox() *InMemoryOutbox {
	return &InMemoryOutbox{}
}

func (o *InMemoryOutbox) Append(ctx context.Context, evt sharedDomain.OutboxEvent) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.AppendErr != nil {
		return o.AppendErr
	}
	o.Events = append(o.Events, evt)
	return nil
}

// Types devuelve los tipos de evento en orden de llegada.
func (o *InMemoryOutbox) Types() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	types := make([]string, 0, len(o.Events))
	for _, e := range o.Events {
		types = append(types, e.EventType)
	}
	return types
}
