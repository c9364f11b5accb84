package events

import (
	"encoding/json"
	"reflect"
	"time"
)

// IntegrationEvent es el sobre común de todos los eventos que salen del servicio.
type IntegrationEvent struct {
	Type        string          `json:"type"`
	AggregateID string          `json:"aggregateId"`
	Timestamp   time.Time       `json:"timestamp"`
	Data        json.RawMessage `json:"data"` // contenido específico del evento
}

// PartitionKey mantiene en orden los eventos de una misma tarea.
func (e IntegrationEvent) PartitionKey() string {
	return e.AggregateID
}

// EventMetadata asocia un tipo de evento con su payload y su topic.
type EventMetadata struct {
	Type  reflect.Type
	Topic string
}
