// en internal/task/domain/criteria.go
package domain

import (
	shared "github.com/davicafu/mstask/internal/shared/domain"
)

// --- Criterios Específicos para el Dominio Task ---

// UserCriteria filtra por el usuario dueño de la tarea.
type UserCriteria struct {
	User string
}

func (c UserCriteria) ToConditions() []shared.Criterion {
	return []shared.Criterion{
		{Field: FieldUser, Op: shared.OpEq, Value: c.User},
	}
}

// StateCriteria busca tareas por su estado (pending, completed).
type StateCriteria struct {
	State TaskState
}

func (c StateCriteria) ToConditions() []shared.Criterion {
	return []shared.Criterion{
		{Field: FieldState, Op: shared.OpEq, Value: string(c.State)},
	}
}

// PriorityCriteria busca tareas por prioridad.
type PriorityCriteria struct {
	Priority TaskPriority
}

func (c PriorityCriteria) ToConditions() []shared.Criterion {
	return []shared.Criterion{
		{Field: FieldPriority, Op: shared.OpEq, Value: string(c.Priority)},
	}
}

// PendingByPriority es el filtro de los listados por prioridad: solo trabajo pendiente.
func PendingByPriority(user string, p TaskPriority) shared.Criteria {
	return shared.And(
		UserCriteria{User: user},
		PriorityCriteria{Priority: p},
		StateCriteria{State: TaskPending},
	)
}

// ByState filtra las tareas de un usuario por estado.
func ByState(user string, s TaskState) shared.Criteria {
	return shared.And(
		UserCriteria{User: user},
		StateCriteria{State: s},
	)
}
