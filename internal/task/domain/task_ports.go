package domain

import (
	"context"
	"errors"
	"fmt"

	sharedDomain "github.com/davicafu/mstask/internal/shared/domain"
	sharedQuery "github.com/davicafu/mstask/internal/shared/infra/platform/query"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrInvalidTask  = errors.New("task validation failed")
)

// --- Repositorio de Tasks ---
// Los adaptadores devuelven ErrTaskNotFound para operaciones puntuales sin documento.
type TaskRepository interface {
	// Create asigna ID, CreatedAt y UpdatedAt sobre t.
	Create(ctx context.Context, t *Task) error
	GetByID(ctx context.Context, id string) (*Task, error)
	// Update devuelve la tarea tras aplicar el patch.
	Update(ctx context.Context, id string, patch TaskPatch) (*Task, error)
	// DeleteByID devuelve la tarea tal y como estaba antes de borrarla.
	DeleteByID(ctx context.Context, id string) (*Task, error)
	ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, sort sharedQuery.Sort) ([]*Task, error)
}

func TaskCacheKeyByID(id string) string {
	return fmt.Sprintf("task:id:%s", id)
}
