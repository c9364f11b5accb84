package domain

import (
	"reflect"

	sharedEvents "github.com/davicafu/mstask/internal/shared/events"
)

const (
	TaskCreated = "task.created"
	TaskUpdated = "task.updated"
	TaskDeleted = "task.deleted"
)

const (
	TaskTopic         = "task"
	TaskAggregateType = "task"
)

func NewEventRegistry() map[string]sharedEvents.EventMetadata {
	return map[string]sharedEvents.EventMetadata{
		TaskCreated: {
			Type:  reflect.TypeOf(sharedEvents.TaskCreated{}),
			Topic: TaskTopic,
		},
		TaskUpdated: {
			Type:  reflect.TypeOf(sharedEvents.TaskUpdated{}),
			Topic: TaskTopic,
		},
		TaskDeleted: {
			Type:  reflect.TypeOf(sharedEvents.TaskDeleted{}),
			Topic: TaskTopic,
		},
	}
}

// Snapshot convierte la entidad al contrato de integración.
func (t *Task) Snapshot() sharedEvents.TaskSnapshot {
	return sharedEvents.TaskSnapshot{
		ID:          t.ID,
		User:        t.User,
		Name:        t.Name,
		Description: t.Description,
		State:       string(t.State),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
