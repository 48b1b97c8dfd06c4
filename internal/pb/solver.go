package pb

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Status is the normalized solver outcome vocabulary. Every backend maps its
// native statuses onto this set.
type Status int

const (
	StatusUnknown Status = iota
	StatusOptimal
	StatusFeasible
	StatusInfeasible
	StatusModelInvalid
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusFeasible:
		return "FEASIBLE"
	case StatusInfeasible:
		return "INFEASIBLE"
	case StatusModelInvalid:
		return "MODEL_INVALID"
	}
	return "UNKNOWN"
}

// Options control a single solve call.
type Options struct {
	// TimeLimit bounds the wall-clock time of the whole call, core extraction
	// included. Zero means no limit.
	TimeLimit time.Duration
	// Progress, when non nil, is invoked synchronously from the solve call for
	// each improving incumbent.
	Progress func(message string)
}

// Result carries the normalized outcome of one solve call.
type Result struct {
	Status Status
	// Values holds variable bindings indexed by Var (index 0 unused). Nil
	// unless the status is OPTIMAL or FEASIBLE.
	Values []bool
	// Objective is the achieved value of the model's (maximized) objective.
	Objective float64
	// Core lists the assumption groups of a minimal sufficient infeasibility
	// subset. Nil unless the status is INFEASIBLE and assumptions were enabled.
	Core []AssumptionInfo
}

// Solver solves one pseudo-boolean model. Implementations must be safe to
// reuse across calls.
type Solver interface {
	Solve(m *Model, opts Options) (*Result, error)
}

var backends = map[string]func() Solver{
	"gophersat": func() Solver { return NewGophersatSolver() },
	"cpsat":     func() Solver { return NewCPSATSolver() },
}

// Backends returns the known backend identifiers in sorted order.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewSolver resolves a backend identifier. Unknown identifiers fail
// immediately, naming the valid set.
func NewSolver(name string) (Solver, error) {
	factory, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown solver backend %q (valid backends: %s)", name, strings.Join(Backends(), ", "))
	}
	return factory(), nil
}
