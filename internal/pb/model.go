package pb

import (
	"fmt"
	"strings"
)

// Var is a boolean decision variable, numbered from 1.
type Var int

type Sense int

const (
	LessEq Sense = iota
	GreaterEq
	Equal
)

func (s Sense) String() string {
	switch s {
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	case Equal:
		return "="
	}
	return "?"
}

// Constraint is a linear (in)equality over boolean variables. A Guard of 0
// means the constraint is always active; a nonzero Guard names an assumption
// indicator and the constraint only has to hold while the indicator is true.
type Constraint struct {
	Vars   []Var
	Coeffs []int // nil means every coefficient is 1
	Sense  Sense
	RHS    int
	Guard  Var
}

// Term is one weighted variable of the (maximized) objective.
type Term struct {
	Var    Var
	Weight float64
}

// Model is a backend-neutral pseudo-boolean model: variables, linear
// constraints, a single maximized objective and an assumption registry.
// A Model is built once per generation request and is not safe for
// concurrent mutation.
type Model struct {
	vars        int
	constraints []Constraint
	objective   []Term
	registry    *AssumptionRegistry
}

func NewModel(assumptions bool) *Model {
	m := &Model{}
	m.registry = &AssumptionRegistry{model: m, enabled: assumptions}
	return m
}

func (m *Model) NewVar() Var {
	m.vars++
	return Var(m.vars)
}

func (m *Model) NumVars() int { return m.vars }

func (m *Model) Assumptions() *AssumptionRegistry { return m.registry }

func (m *Model) Add(c Constraint) {
	if c.Coeffs != nil && len(c.Coeffs) != len(c.Vars) {
		panic(fmt.Sprintf("constraint has %d coefficients for %d variables", len(c.Coeffs), len(c.Vars)))
	}
	m.constraints = append(m.constraints, c)
}

func (m *Model) Constraints() []Constraint { return m.constraints }

func (m *Model) AddObjectiveTerm(v Var, weight float64) {
	if weight == 0 {
		return
	}
	m.objective = append(m.objective, Term{Var: v, Weight: weight})
}

func (m *Model) Objective() []Term { return m.objective }

// String renders the model in an OPB-like text form. Construction order is
// deterministic, so equal inputs produce byte-identical renderings; tests use
// this as a fingerprint.
func (m *Model) String() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "* vars %d constraints %d\n", m.vars, len(m.constraints))
	for _, term := range m.objective {
		fmt.Fprintf(&builder, "max: %+g x%d\n", term.Weight, term.Var)
	}
	for _, c := range m.constraints {
		if c.Guard != 0 {
			fmt.Fprintf(&builder, "[a%d] ", c.Guard)
		}
		for i, v := range c.Vars {
			coeff := 1
			if c.Coeffs != nil {
				coeff = c.Coeffs[i]
			}
			fmt.Fprintf(&builder, "%+d x%d ", coeff, v)
		}
		fmt.Fprintf(&builder, "%s %d\n", c.Sense, c.RHS)
	}
	return builder.String()
}
