package application

import (
	"context"
	"errors"

	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/mstask/internal/shared/domain"
	sharedCache "github.com/davicafu/mstask/internal/shared/infra/platform/cache"
	sharedQuery "github.com/davicafu/mstask/internal/shared/infra/platform/query"
	taskDomain "github.com/davicafu/mstask/internal/task/domain"
)

// Service define los casos de uso de Task que consume la capa HTTP.
type Service interface {
	CreateTask(ctx context.Context, t *taskDomain.Task) (*taskDomain.Task, error)
	GetTask(ctx context.Context, id string) (*taskDomain.Task, error)
	UpdateTask(ctx context.Context, id string, patch taskDomain.TaskPatch) (*taskDomain.Task, error)
	DeleteTask(ctx context.Context, id string) (*taskDomain.Task, error)
	ListPending(ctx context.Context, user string) ([]*taskDomain.Task, error)
	ListCompleted(ctx context.Context, user string) ([]*taskDomain.Task, error)
	ListHighPriority(ctx context.Context, user string) ([]*taskDomain.Task, error)
	ListMediumPriority(ctx context.Context, user string) ([]*taskDomain.Task, error)
	ListLowPriority(ctx context.Context, user string) ([]*taskDomain.Task, error)
}

// cachedTask es la entrada de caché; Task nil marca una tarea borrada.
type cachedTask struct {
	Task *taskDomain.Task `json:"task,omitempty"`
}

// cacheVersion ordena las escrituras en caché: una lectura lenta no puede pisar
// una versión posterior ya guardada.
func cacheVersion(t *taskDomain.Task) int64 {
	return t.UpdatedAt.UnixMicro()
}

// TaskService implementa Service sobre un repositorio, una caché opcional y el outbox.
type TaskService struct {
	repo   taskDomain.TaskRepository
	cache  sharedCache.Cache
	outbox sharedDomain.OutboxWriter
	log    *zap.Logger
}

var _ Service = (*TaskService)(nil)

// NewTaskService es el constructor para el servicio de tareas. cache y outbox pueden ser nil.
func NewTaskService(repo taskDomain.TaskRepository, cache sharedCache.Cache, outbox sharedDomain.OutboxWriter, log *zap.Logger) *TaskService {
	return &TaskService{
		repo:   repo,
		cache:  cache,
		outbox: outbox,
		log:    log,
	}
}

// CreateTask valida e inserta la tarea y encola task.created.
func (s *TaskService) CreateTask(ctx context.Context, t *taskDomain.Task) (*taskDomain.Task, error) {
	if err := t.Validate(); err != nil {
		return nil, taskDomain.WrapOp(taskDomain.OpCreate, err)
	}

	if err := s.repo.Create(ctx, t); err != nil {
		s.log.Error("Failed to create task", zap.String("user", t.User), zap.Error(err))
		return nil, taskDomain.WrapOp(taskDomain.OpCreate, err)
	}

	s.appendEvent(ctx, taskDomain.TaskCreated, t)

	return t, nil
}

// GetTask sigue el patrón cache-aside: un miss hace una única lectura del store
// y rellena la caché en segundo plano.
func (s *TaskService) GetTask(ctx context.Context, id string) (*taskDomain.Task, error) {
	key := taskDomain.TaskCacheKeyByID(id)

	if s.cache != nil {
		var cached cachedTask
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("Cache read failed", zap.String("task_id", id), zap.Error(err))
		}
		if hit && cached.Task != nil {
			return cached.Task, nil
		}
	}

	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			s.log.Warn("Task not found", zap.String("task_id", id))
			return nil, taskDomain.ErrTaskNotFound
		}
		s.log.Error("Failed to fetch task", zap.String("task_id", id), zap.Error(err))
		return nil, taskDomain.WrapOp(taskDomain.OpGet, err)
	}

	sharedCache.AsyncCacheSet(s.cache, key, cacheVersion(task), cachedTask{Task: task}, 0, s.log)
	return task, nil
}

// UpdateTask aplica el patch y devuelve la tarea resultante.
func (s *TaskService) UpdateTask(ctx context.Context, id string, patch taskDomain.TaskPatch) (*taskDomain.Task, error) {
	task, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if isNotFound(err) {
			return nil, taskDomain.ErrTaskNotFound
		}
		s.log.Error("Failed to update task", zap.String("task_id", id), zap.Error(err))
		return nil, taskDomain.WrapOp(taskDomain.OpUpdate, err)
	}

	sharedCache.Refresh(ctx, s.cache, taskDomain.TaskCacheKeyByID(id), cacheVersion(task), cachedTask{Task: task}, s.log)
	s.appendEvent(ctx, taskDomain.TaskUpdated, task)

	return task, nil
}

// DeleteTask borra la tarea y devuelve cómo estaba justo antes.
func (s *TaskService) DeleteTask(ctx context.Context, id string) (*taskDomain.Task, error) {
	task, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, taskDomain.ErrTaskNotFound
		}
		s.log.Error("Failed to delete task", zap.String("task_id", id), zap.Error(err))
		return nil, taskDomain.WrapOp(taskDomain.OpDelete, err)
	}

	// lápida: ninguna lectura en vuelo puede volver a cachear la tarea borrada
	sharedCache.Refresh(ctx, s.cache, taskDomain.TaskCacheKeyByID(id), sharedCache.TombstoneVersion, cachedTask{}, s.log)
	s.appendEvent(ctx, taskDomain.TaskDeleted, task)

	return task, nil
}

func (s *TaskService) ListPending(ctx context.Context, user string) ([]*taskDomain.Task, error) {
	return s.list(ctx, taskDomain.OpListPending, taskDomain.ByState(user, taskDomain.TaskPending))
}

func (s *TaskService) ListCompleted(ctx context.Context, user string) ([]*taskDomain.Task, error) {
	return s.list(ctx, taskDomain.OpListCompleted, taskDomain.ByState(user, taskDomain.TaskCompleted))
}

func (s *TaskService) ListHighPriority(ctx context.Context, user string) ([]*taskDomain.Task, error) {
	return s.list(ctx, taskDomain.OpListHighPriority, taskDomain.PendingByPriority(user, taskDomain.PriorityHigh))
}

func (s *TaskService) ListMediumPriority(ctx context.Context, user string) ([]*taskDomain.Task, error) {
	return s.list(ctx, taskDomain.OpListMedPriority, taskDomain.PendingByPriority(user, taskDomain.PriorityMedium))
}

func (s *TaskService) ListLowPriority(ctx context.Context, user string) ([]*taskDomain.Task, error) {
	return s.list(ctx, taskDomain.OpListLowPriority, taskDomain.PendingByPriority(user, taskDomain.PriorityLow))
}

// list ordena siempre por createdAt descendente y nunca devuelve un slice nil.
func (s *TaskService) list(ctx context.Context, op string, criteria sharedDomain.Criteria) ([]*taskDomain.Task, error) {
	tasks, err := s.repo.ListByCriteria(ctx, criteria, sharedQuery.NewestFirst)
	if err != nil {
		s.log.Error("Failed to list tasks", zap.String("op", op), zap.Error(err))
		return nil, taskDomain.WrapOp(op, err)
	}
	if tasks == nil {
		tasks = []*taskDomain.Task{}
	}
	return tasks, nil
}

// appendEvent es best-effort: un fallo del outbox no cambia el resultado de la operación.
func (s *TaskService) appendEvent(ctx context.Context, eventType string, t *taskDomain.Task) {
	if s.outbox == nil {
		return
	}

	evt := sharedDomain.NewOutboxEvent(taskDomain.TaskAggregateType, t.ID, eventType, t.Snapshot())
	if err := s.outbox.Append(ctx, evt); err != nil {
		s.log.Warn("⚠️ Outbox append failed",
			zap.String("event_type", eventType),
			zap.String("task_id", t.ID),
			zap.Error(err))
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, taskDomain.ErrTaskNotFound)
}
