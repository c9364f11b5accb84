package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/mstask/internal/shared/domain"
	sharedQuery "github.com/davicafu/mstask/internal/shared/infra/platform/query"
	taskDomain "github.com/davicafu/mstask/internal/task/domain"
)

// InMemoryTaskRepo simula TaskRepository. Guarda copias para que los tests
// no puedan mutar el "store" por accidente.
type InMemoryTaskRepo struct {
	mu    sync.Mutex
	tasks map[string]*taskDomain.Task
	order []string // orden de inserción

	// Err, si no es nil, lo devuelven todas las operaciones (store caído).
	Err error
	// Now permite fijar el reloj del "store".
	Now func() time.Time
	// Calls cuenta las lecturas puntuales, útil para comprobar la caché.
	GetCalls int
}

var _ taskDomain.TaskRepository = (*InMemoryTaskRepo)(nil)

func NewInMemoryTaskRepo() *InMemoryTaskRepo {
	return &InMemoryTaskRepo{
		tasks: make(map[string]*taskDomain.Task),
		Now:   func() time.Time { return time.Now().UTC() },
	}
}

// NewSteppingClock devuelve un reloj que avanza un segundo en cada llamada.
func NewSteppingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}

func (r *InMemoryTaskRepo) Create(ctx context.Context, t *taskDomain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}

	now := r.Now()
	t.ID = uuid.NewString()
	t.CreatedAt = now
	t.UpdatedAt = now

	stored := *t
	r.tasks[t.ID] = &stored
	r.order = append(r.order, t.ID)
	return nil
}

func (r *InMemoryTaskRepo) GetByID(ctx context.Context, id string) (*taskDomain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.GetCalls++
	if r.Err != nil {
		return nil, r.Err
	}

	t, ok := r.tasks[id]
	if !ok {
		return nil, taskDomain.ErrTaskNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *InMemoryTaskRepo) Update(ctx context.Context, id string, patch taskDomain.TaskPatch) (*taskDomain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	t, ok := r.tasks[id]
	if !ok {
		return nil, taskDomain.ErrTaskNotFound
	}
	t.Apply(patch, r.Now())
	cp := *t
	return &cp, nil
}

func (r *InMemoryTaskRepo) DeleteByID(ctx context.Context, id string) (*taskDomain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	t, ok := r.tasks[id]
	if !ok {
		return nil, taskDomain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return t, nil
}

func (r *InMemoryTaskRepo) ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, s sharedQuery.Sort) ([]*taskDomain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	var conds []sharedDomain.Criterion
	if criteria != nil {
		conds = criteria.ToConditions()
	}

	var list []*taskDomain.Task
	for _, id := range r.order {
		task := r.tasks[id]
		if matchTask(task, conds) {
			cp := *task
			list = append(list, &cp)
		}
	}

	if s.Field == taskDomain.FieldCreatedAt {
		sort.SliceStable(list, func(i, j int) bool {
			if s.Desc {
				return list[i].CreatedAt.After(list[j].CreatedAt)
			}
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		})
	}
	return list, nil
}

// Len devuelve cuántas tareas hay guardadas.
func (r *InMemoryTaskRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

func matchTask(t *taskDomain.Task, conds []sharedDomain.Criterion) bool {
	for _, cond := range conds {
		want := fmt.Sprintf("%v", cond.Value)
		var got string
		switch cond.Field {
		case taskDomain.FieldUser:
			got = t.User
		case taskDomain.FieldState:
			got = string(t.State)
		case taskDomain.FieldPriority:
			got = string(t.Priority)
		default:
			return false
		}
		if got != want {
			return false
		}
	}
	return true
}
