package pb

import "errors"

// CPSATSolver is the identifier kept for the historical CP-SAT deployment.
// The solver itself is not bundled, so every call fails explicitly rather
// than silently degrading to another backend.
type CPSATSolver struct{}

func NewCPSATSolver() *CPSATSolver {
	return &CPSATSolver{}
}

func (s *CPSATSolver) Solve(m *Model, opts Options) (*Result, error) {
	return nil, errors.New("cpsat backend is declared but not bundled in this build; use the gophersat backend")
}
