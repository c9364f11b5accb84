package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	sharedBus "github.com/davicafu/mstask/internal/shared/infra/platform/bus"
)

var ErrBusClosed = errors.New("event bus closed")

// InMemoryEventBus implementa un bus de eventos para UN solo topic.
// Los suscriptores reciben el evento ya serializado, igual que desde Kafka.
type InMemoryEventBus struct {
	subscribers []chan []byte
	mu          sync.RWMutex
	closed      bool
	topic       string
}

var _ sharedBus.EventPublisher = (*InMemoryEventBus)(nil)

func NewInMemoryEventBus(topic string) *InMemoryEventBus {
	return &InMemoryEventBus{topic: topic}
}

// Topic devuelve el topic que atiende este bus.
func (b *InMemoryEventBus) Topic() string {
	return b.topic
}

// Publish entrega el evento a todos los suscriptores. Si el buffer de un
// suscriptor está lleno, el evento se descarta para ese suscriptor.
func (b *InMemoryEventBus) Publish(ctx context.Context, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}

	for _, sub := range b.subscribers {
		select {
		case sub <- payload:
		default:
		}
	}
	return nil
}

// Subscribe registra un nuevo oyente con el buffer indicado.
func (b *InMemoryEventBus) Subscribe(bufferSize int) <-chan []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := make(chan []byte, bufferSize)
	if b.closed {
		close(sub)
		return sub
	}
	b.subscribers = append(b.subscribers, sub)
	return sub
}

// Close cierra todos los canales de suscripción.
func (b *InMemoryEventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for _, sub := range b.subscribers {
		close(sub)
	}
	b.subscribers = nil
	return nil
}
