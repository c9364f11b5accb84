package domain

import (
	"fmt"
	"strings"
	"time"
)

type TaskState string

const (
	TaskPending   TaskState = "pending"
	TaskCompleted TaskState = "completed"
)

type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

// Task es la única entidad del servicio. ID, CreatedAt y UpdatedAt los asigna el store.
type Task struct {
	ID          string       `json:"id"`
	User        string       `json:"user"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	State       TaskState    `json:"state"`
	Priority    TaskPriority `json:"priority"`
	DueDate     string       `json:"dueDate"` // opaco, no se parsea
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Validate comprueba los campos obligatorios antes de insertar.
func (t *Task) Validate() error {
	var missing []string
	if t.User == "" {
		missing = append(missing, "user")
	}
	if t.Name == "" {
		missing = append(missing, "name")
	}
	if t.State == "" {
		missing = append(missing, "state")
	}
	if t.Priority == "" {
		missing = append(missing, "priority")
	}
	if t.DueDate == "" {
		missing = append(missing, "dueDate")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrInvalidTask, strings.Join(missing, ", "))
	}
	return nil
}

// Apply mezcla el patch sobre la tarea y refresca UpdatedAt. ID y CreatedAt no cambian.
func (t *Task) Apply(p TaskPatch, now time.Time) {
	if p.User != nil {
		t.User = *p.User
	}
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.State != nil {
		t.State = *p.State
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	t.UpdatedAt = now
}

// TaskPatch es una actualización parcial: solo se tocan los campos no nulos.
type TaskPatch struct {
	User        *string       `json:"user,omitempty"`
	Name        *string       `json:"name,omitempty"`
	Description *string       `json:"description,omitempty"`
	State       *TaskState    `json:"state,omitempty"`
	Priority    *TaskPriority `json:"priority,omitempty"`
	DueDate     *string       `json:"dueDate,omitempty"`
}

// FieldUpdate es un par campo lógico/valor que cada adaptador traduce a su esquema.
type FieldUpdate struct {
	Field string
	Value interface{}
}

// Nombres lógicos de campo compartidos por criterios y updates.
const (
	FieldUser        = "user"
	FieldName        = "name"
	FieldDescription = "description"
	FieldState       = "state"
	FieldPriority    = "priority"
	FieldDueDate     = "due_date"
	FieldCreatedAt   = "created_at"
	FieldUpdatedAt   = "updated_at"
)

// Updates devuelve los campos presentes en orden estable.
func (p TaskPatch) Updates() []FieldUpdate {
	var out []FieldUpdate
	if p.User != nil {
		out = append(out, FieldUpdate{FieldUser, *p.User})
	}
	if p.Name != nil {
		out = append(out, FieldUpdate{FieldName, *p.Name})
	}
	if p.Description != nil {
		out = append(out, FieldUpdate{FieldDescription, *p.Description})
	}
	if p.State != nil {
		out = append(out, FieldUpdate{FieldState, string(*p.State)})
	}
	if p.Priority != nil {
		out = append(out, FieldUpdate{FieldPriority, string(*p.Priority)})
	}
	if p.DueDate != nil {
		out = append(out, FieldUpdate{FieldDueDate, *p.DueDate})
	}
	return out
}
