package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	sharedDomain "github.com/davicafu/mstask/internal/shared/domain"
	sharedQuery "github.com/davicafu/mstask/internal/shared/infra/platform/query"
	sharedUtils "github.com/davicafu/mstask/internal/shared/infra/utils"
	taskDomain "github.com/davicafu/mstask/internal/task/domain"
)

const taskColumns = "id, user_id, name, description, state, priority, due_date, created_at, updated_at"

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

// TaskRepoSQLite guarda las fechas como nanosegundos unix (INTEGER) para ordenar sin ambigüedad.
type TaskRepoSQLite struct {
	db  *sql.DB
	now func() time.Time
}

func NewTaskRepoSQLite(db *sql.DB) *TaskRepoSQLite {
	return &TaskRepoSQLite{
		db:  db,
		now: func() time.Time { return time.Now().UTC().Round(0) },
	}
}

// InitSQLiteTaskSchema crea la tabla 'tasks' y su índice si no existen.
func InitSQLiteTaskSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
    CREATE TABLE IF NOT EXISTS tasks (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        name TEXT NOT NULL,
        description TEXT NOT NULL DEFAULT '',
        state TEXT NOT NULL,
        priority TEXT NOT NULL,
        due_date TEXT NOT NULL,
        created_at INTEGER NOT NULL,
        updated_at INTEGER NOT NULL
    )`)
	if err != nil {
		return fmt.Errorf("failed to create tasks table: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_tasks_user_state ON tasks (user_id, state, priority, created_at)`)
	if err != nil {
		return fmt.Errorf("failed to create tasks index: %w", err)
	}
	return nil
}

// ------------------ Métodos ------------------

func (r *TaskRepoSQLite) Create(ctx context.Context, t *taskDomain.Task) error {
	id := uuid.NewString()
	now := r.now()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?,?,?,?,?,?,?,?,?)`,
		id, t.User, t.Name, t.Description, string(t.State), string(t.Priority), t.DueDate, now.UnixNano(), now.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	t.ID = id
	t.CreatedAt = now
	t.UpdatedAt = now
	return nil
}

func (r *TaskRepoSQLite) Update(ctx context.Context, id string, patch taskDomain.TaskPatch) (*taskDomain.Task, error) {
	var sets []string
	var args []interface{}
	for _, u := range patch.Updates() {
		sets = append(sets, columns[u.Field]+" = ?")
		args = append(args, u.Value)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, r.now().UnixNano(), id)

	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = ? RETURNING %s`, strings.Join(sets, ", "), taskColumns)
	return scanTask(r.db.QueryRowContext(ctx, query, args...))
}

func (r *TaskRepoSQLite) DeleteByID(ctx context.Context, id string) (*taskDomain.Task, error) {
	return scanTask(r.db.QueryRowContext(ctx,
		`DELETE FROM tasks WHERE id = ? RETURNING `+taskColumns, id))
}

func (r *TaskRepoSQLite) GetByID(ctx context.Context, id string) (*taskDomain.Task, error) {
	return scanTask(r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
}

func (r *TaskRepoSQLite) ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, sort sharedQuery.Sort) ([]*taskDomain.Task, error) {
	whereSQL, args, err := applyCriteria(criteria)
	if err != nil {
		return nil, err
	}

	query := "SELECT " + taskColumns + " FROM tasks"
	if whereSQL != "" {
		query += " WHERE " + whereSQL
	}
	if col, ok := columns[sort.Field]; ok {
		dir := sharedUtils.Ternary(sort.Desc, "DESC", "ASC")
		// rowid desempata en orden de inserción
		query += fmt.Sprintf(" ORDER BY %s %s, rowid %s", col, dir, dir)
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

// ------------------ Helpers ------------------

func applyCriteria(criteria sharedDomain.Criteria) (string, []interface{}, error) {
	if criteria == nil {
		return "", nil, nil
	}

	var clauses []string
	var args []interface{}
	for _, c := range criteria.ToConditions() {
		col, ok := columns[c.Field]
		if !ok {
			return "", nil, fmt.Errorf("unsupported filter field %q", c.Field)
		}
		clauses = append(clauses, fmt.Sprintf("%s %s ?", col, c.Op))
		args = append(args, c.Value)
	}
	return strings.Join(clauses, " AND "), args, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row scanner) (*taskDomain.Task, error) {
	var t taskDomain.Task
	var state, priority string
	var createdAt, updatedAt int64

	err := row.Scan(&t.ID, &t.User, &t.Name, &t.Description, &state, &priority, &t.DueDate, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, taskDomain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("db scan error: %w", err)
	}

	t.State = taskDomain.TaskState(state)
	t.Priority = taskDomain.TaskPriority(priority)
	t.CreatedAt = time.Unix(0, createdAt).UTC()
	t.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return &t, nil
}

var _ taskDomain.TaskRepository = (*TaskRepoSQLite)(nil)
