package events

import "time"

// Estos son contratos de integración, NO entidades del dominio.
// Se definen planos para intercambio entre servicios.

type TaskSnapshot struct {
	ID          string    `json:"id"`
	User        string    `json:"user"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	State       string    `json:"state"`
	Priority    string    `json:"priority"`
	DueDate     string    `json:"dueDate"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type TaskCreated struct {
	TaskSnapshot
}

type TaskUpdated struct {
	TaskSnapshot
}

// TaskDeleted lleva la foto de la tarea justo antes de borrarse.
type TaskDeleted struct {
	TaskSnapshot
}
