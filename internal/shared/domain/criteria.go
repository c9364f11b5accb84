package domain

// ---------------- Operadores ----------------

type Operator string

// Los stores de tareas solo necesitan igualdad: los listados filtran por
// usuario, estado y prioridad.
const (
	OpEq Operator = "="
)

type LogicalOperator string

const (
	OpAnd LogicalOperator = "AND"
)

// ---------------- Criterion ----------------

// Criterion describe una condición neutral de filtrado.
// Field es el nombre lógico del campo (user, state, priority); cada adaptador
// lo traduce a su columna o clave de documento.
type Criterion struct {
	Field string
	Op    Operator
	Value interface{}
}

// ---------------- Criteria interface ----------------

// Criteria permite transformar filtros a condiciones neutrales
type Criteria interface {
	ToConditions() []Criterion
}

// ---------------- Composite Criteria ----------------

type CompositeCriteria struct {
	Operator  LogicalOperator
	Criterias []Criteria
}

func (c CompositeCriteria) ToConditions() []Criterion {
	var all []Criterion
	for _, crit := range c.Criterias {
		all = append(all, crit.ToConditions()...)
	}
	return all
}

// And crea un CompositeCriteria con operador AND
func And(criterias ...Criteria) CompositeCriteria {
	return CompositeCriteria{Operator: OpAnd, Criterias: criterias}
}
