package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // Driver de PostgreSQL

	// --- Importaciones del dominio y compartidas ---
	sharedDomain "github.com/davicafu/mstask/internal/shared/domain"
	sharedQuery "github.com/davicafu/mstask/internal/shared/infra/platform/query"
	sharedUtils "github.com/davicafu/mstask/internal/shared/infra/utils"
	taskDomain "github.com/davicafu/mstask/internal/task/domain"
)

const taskColumns = "id, user_id, name, description, state, priority, due_date, created_at, updated_at"

// columns traduce los nombres lógicos del dominio a columnas. "user" es palabra reservada.
var columns = map[string]string{
	taskDomain.FieldUser:        "user_id",
	taskDomain.FieldName:        "name",
	taskDomain.FieldDescription: "description",
	taskDomain.FieldState:       "state",
	taskDomain.FieldPriority:    "priority",
	taskDomain.FieldDueDate:     "due_date",
	taskDomain.FieldCreatedAt:   "created_at",
	taskDomain.FieldUpdatedAt:   "updated_at",
}

// TaskRepoPostgres implementa la interfaz TaskRepository para PostgreSQL.
type TaskRepoPostgres struct {
	db  *sql.DB
	now func() time.Time
}

// NewTaskRepoPostgres es el constructor del repositorio.
func NewTaskRepoPostgres(db *sql.DB) *TaskRepoPostgres {
	return &TaskRepoPostgres{
		db: db,
		// timestamptz guarda microsegundos
		now: func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// ------------------ Escritura ------------------

func (r *TaskRepoPostgres) Create(ctx context.Context, t *taskDomain.Task) error {
	id := uuid.New()
	now := r.now()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, t.User, t.Name, t.Description, t.State, t.Priority, t.DueDate, now, now,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	t.ID = id.String()
	t.CreatedAt = now
	t.UpdatedAt = now
	return nil
}

// Update aplica solo los campos presentes y devuelve la fila resultante.
func (r *TaskRepoPostgres) Update(ctx context.Context, id string, patch taskDomain.TaskPatch) (*taskDomain.Task, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, taskDomain.ErrTaskNotFound
	}

	var sets []string
	var args []interface{}
	for _, u := range patch.Updates() {
		args = append(args, u.Value)
		sets = append(sets, fmt.Sprintf("%s=$%d", columns[u.Field], len(args)))
	}
	args = append(args, r.now())
	sets = append(sets, fmt.Sprintf("updated_at=$%d", len(args)))
	args = append(args, uid)

	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id=$%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), taskColumns)

	return scanTask(r.db.QueryRowContext(ctx, query, args...))
}

// DeleteByID devuelve la fila borrada.
func (r *TaskRepoPostgres) DeleteByID(ctx context.Context, id string) (*taskDomain.Task, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, taskDomain.ErrTaskNotFound
	}

	return scanTask(r.db.QueryRowContext(ctx,
		`DELETE FROM tasks WHERE id=$1 RETURNING `+taskColumns, uid))
}

// ------------------ Lectura ------------------

// GetByID recupera una tarea de la base de datos por su ID.
func (r *TaskRepoPostgres) GetByID(ctx context.Context, id string) (*taskDomain.Task, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, taskDomain.ErrTaskNotFound
	}

	return scanTask(r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id=$1`, uid))
}

// applyCriteria traduce criterios a SQL para Postgres ($1, $2...).
func applyCriteria(criteria sharedDomain.Criteria) (string, []interface{}, error) {
	if criteria == nil {
		return "", nil, nil
	}
	conds := criteria.ToConditions()
	if len(conds) == 0 {
		return "", nil, nil
	}

	var clauses []string
	var args []interface{}
	for i, c := range conds {
		col, ok := columns[c.Field]
		if !ok {
			return "", nil, fmt.Errorf("unsupported filter field %q", c.Field)
		}
		clauses = append(clauses, fmt.Sprintf("%s %s $%d", col, c.Op, i+1))
		args = append(args, c.Value)
	}
	return strings.Join(clauses, " AND "), args, nil
}

// ListByCriteria recupera las tareas que cumplen los filtros, sin paginar.
func (r *TaskRepoPostgres) ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, sort sharedQuery.Sort) ([]*taskDomain.Task, error) {
	whereSQL, args, err := applyCriteria(criteria)
	if err != nil {
		return nil, err
	}

	query := "SELECT " + taskColumns + " FROM tasks"
	if whereSQL != "" {
		query += " WHERE " + whereSQL
	}
	if col, ok := columns[sort.Field]; ok {
		query += fmt.Sprintf(" ORDER BY %s %s", col, sharedUtils.Ternary(sort.Desc, "DESC", "ASC"))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []*taskDomain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row scanner) (*taskDomain.Task, error) {
	var t taskDomain.Task
	var id uuid.UUID
	err := row.Scan(&id, &t.User, &t.Name, &t.Description, &t.State, &t.Priority, &t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, taskDomain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("db scan error: %w", err)
	}
	t.ID = id.String()
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}

// ------------------ Inicialización del Esquema ------------------

// InitPostgresTaskSchema crea la tabla 'tasks' y su índice si no existen.
func InitPostgresTaskSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
    CREATE TABLE IF NOT EXISTS tasks (
        id UUID PRIMARY KEY,
        user_id TEXT NOT NULL,
        name TEXT NOT NULL,
        description TEXT NOT NULL DEFAULT '',
        state TEXT NOT NULL,
        priority TEXT NOT NULL,
        due_date TEXT NOT NULL,
        created_at TIMESTAMP WITH TIME ZONE NOT NULL,
        updated_at TIMESTAMP WITH TIME ZONE NOT NULL
    )`)
	if err != nil {
		return fmt.Errorf("failed to create tasks table: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_tasks_user_state ON tasks (user_id, state, priority, created_at DESC)`)
	if err != nil {
		return fmt.Errorf("failed to create tasks index: %w", err)
	}
	return nil
}

var _ taskDomain.TaskRepository = (*TaskRepoPostgres)(nil)
