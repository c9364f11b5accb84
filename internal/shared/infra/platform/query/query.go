package query

// Sort indica campo y dirección.
// Los listados de tareas no paginan: siempre devuelven el conjunto completo.
type Sort struct {
	Field string // ej. "created_at"
	Desc  bool
}

// NewestFirst es el único orden que usan los listados de tareas.
var NewestFirst = Sort{Field: "created_at", Desc: true}
