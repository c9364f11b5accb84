package domain

// Descripciones de operación con las que se prefijan los errores del store.
const (
	OpCreate           = "error creating task"
	OpGet              = "error fetching task"
	OpUpdate           = "error updating task"
	OpDelete           = "error deleting task"
	OpListPending      = "error fetching pending tasks"
	OpListCompleted    = "error fetching completed tasks"
	OpListHighPriority = "error fetching pending high priority tasks"
	OpListMedPriority  = "error fetching pending medium priority tasks"
	OpListLowPriority  = "error fetching pending low priority tasks"
)

// OperationError envuelve cualquier fallo del store con la operación que lo provocó.
// Es lo único que cruza la frontera del servicio además de ErrTaskNotFound.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// WrapOp devuelve nil si err es nil.
func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return &OperationError{Op: op, Err: err}
}
