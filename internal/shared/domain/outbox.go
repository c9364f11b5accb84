package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OutboxEvent representa un evento pendiente de publicar en el broker.
type OutboxEvent struct {
	ID            uuid.UUID   `json:"id"`
	AggregateType string      `json:"aggregate_type"` // ej. "task"
	AggregateID   string      `json:"aggregate_id"`
	EventType     string      `json:"event_type"` // ej. "task.updated"
	Payload       interface{} `json:"payload"`    // JSON serializable
	CreatedAt     time.Time   `json:"created_at"`
	Processed     bool        `json:"processed"`
}

// NewOutboxEvent construye un evento listo para guardar con ID y fecha propios.
func NewOutboxEvent(aggregateType, aggregateID, eventType string, payload interface{}) OutboxEvent {
	return OutboxEvent{
		ID:            uuid.New(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     time.Now().UTC(),
	}
}

// OutboxWriter es el lado que usan los servicios: solo añaden eventos.
type OutboxWriter interface {
	Append(ctx context.Context, evt OutboxEvent) error
}

// OutboxRepository define el contrato que necesita el worker de relay.
type OutboxRepository interface {
	FetchPendingOutbox(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkOutboxProcessed(ctx context.Context, id uuid.UUID) error
}

// OutboxStore agrupa ambos lados; cada adaptador de base de datos lo implementa.
type OutboxStore interface {
	OutboxWriter
	OutboxRepository
}
