package pb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackendsAreSorted(t *testing.T) {
	assert.Equal(t, []string{"cpsat", "gophersat"}, Backends())
}

func TestNewSolverRejectsUnknownBackend(t *testing.T) {
	solver, err := NewSolver("highs")

	require.Error(t, err)
	assert.Nil(t, solver)
	assert.Contains(t, err.Error(), `"highs"`)
	assert.Contains(t, err.Error(), "cpsat, gophersat")
}

func TestCPSATBackendFailsExplicitly(t *testing.T) {
	solver, err := NewSolver("cpsat")
	require.NoError(t, err)

	result, err := solver.Solve(NewModel(false), Options{})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "not bundled")
}

func TestGophersatSolvesDecisionModel(t *testing.T) {
	// Arrange: exactly one of two variables must hold.
	m := NewModel(false)
	x := m.NewVar()
	y := m.NewVar()
	m.Add(Constraint{Vars: []Var{x, y}, Sense: Equal, RHS: 1})

	// Act
	result, err := NewGophersatSolver().Solve(m, Options{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, StatusOptimal, result.Status)
	require.Len(t, result.Values, 3)
	assert.True(t, result.Values[x] != result.Values[y])
}

func TestGophersatMaximizesObjective(t *testing.T) {
	// Arrange: three candidates, room for two, distinct rewards.
	m := NewModel(false)
	a := m.NewVar()
	b := m.NewVar()
	c := m.NewVar()
	m.Add(Constraint{Vars: []Var{a, b, c}, Sense: LessEq, RHS: 2})
	m.AddObjectiveTerm(a, 1)
	m.AddObjectiveTerm(b, 2)
	m.AddObjectiveTerm(c, 3)

	// Act
	result, err := NewGophersatSolver().Solve(m, Options{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, StatusOptimal, result.Status)
	assert.False(t, result.Values[a])
	assert.True(t, result.Values[b])
	assert.True(t, result.Values[c])
	assert.InDelta(t, 5.0, result.Objective, 1e-9)
}

func TestGophersatReportsHardInfeasibility(t *testing.T) {
	// Arrange: x = 1 and x = 0 without assumption gating.
	m := NewModel(false)
	x := m.NewVar()
	m.Add(Constraint{Vars: []Var{x}, Sense: Equal, RHS: 1})
	m.Add(Constraint{Vars: []Var{x}, Sense: Equal, RHS: 0})

	// Act
	result, err := NewGophersatSolver().Solve(m, Options{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, result.Status)
	assert.Empty(t, result.Core)
}

func TestGophersatExtractsMinimalCore(t *testing.T) {
	// Arrange: two guarded constraints conflict on x; a third guarded
	// constraint on y is satisfiable and must stay out of the core.
	m := NewModel(true)
	reg := m.Assumptions()
	x := m.NewVar()
	y := m.NewVar()

	forceOn := reg.NewLiteral(KindTeacherAvailability, "x_on", AssumptionContext{})
	m.Add(Constraint{Vars: []Var{x}, Sense: Equal, RHS: 1, Guard: forceOn})
	forceOff := reg.NewLiteral(KindStudentLimits, "x_off", AssumptionContext{})
	m.Add(Constraint{Vars: []Var{x}, Sense: Equal, RHS: 0, Guard: forceOff})
	bystander := reg.NewLiteral(KindTeacherLimits, "y_on", AssumptionContext{})
	m.Add(Constraint{Vars: []Var{y}, Sense: Equal, RHS: 1, Guard: bystander})

	require.NotEqual(t, Var(0), forceOn)
	require.NotEqual(t, Var(0), forceOff)
	require.NotEqual(t, Var(0), bystander)

	// Act
	result, err := NewGophersatSolver().Solve(m, Options{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, result.Status)
	require.Len(t, result.Core, 2)
	kinds := []AssumptionKind{result.Core[0].Kind, result.Core[1].Kind}
	assert.Contains(t, kinds, KindTeacherAvailability)
	assert.Contains(t, kinds, KindStudentLimits)
}

func TestGophersatRelaxedGuardAllowsSolution(t *testing.T) {
	// Arrange: a single guarded contradiction. The only model keeps the
	// indicator false, which must surface as infeasibility with that group
	// as the core.
	m := NewModel(true)
	reg := m.Assumptions()
	x := m.NewVar()
	m.Add(Constraint{Vars: []Var{x}, Sense: Equal, RHS: 1})
	guard := reg.NewLiteral(KindRepeatBounds, "x_off", AssumptionContext{})
	m.Add(Constraint{Vars: []Var{x}, Sense: Equal, RHS: 0, Guard: guard})

	// Act
	result, err := NewGophersatSolver().Solve(m, Options{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, result.Status)
	require.Len(t, result.Core, 1)
	assert.Equal(t, KindRepeatBounds, result.Core[0].Kind)
}

func TestGophersatExpiredTimeLimitReturnsUnknown(t *testing.T) {
	// Arrange: any constrained model; the limit is too small for even one
	// solver pass.
	m := NewModel(false)
	x := m.NewVar()
	m.Add(Constraint{Vars: []Var{x}, Sense: Equal, RHS: 1})

	// Act
	result, err := NewGophersatSolver().Solve(m, Options{TimeLimit: time.Nanosecond})

	// Assert: no claim is made either way when the clock ran out first.
	require.NoError(t, err)
	assert.Equal(t, StatusUnknown, result.Status)
	assert.Nil(t, result.Values)
	assert.Empty(t, result.Core)
}

func TestGophersatCompletedSolveWithLimitIsOptimal(t *testing.T) {
	// Arrange: a model the solver finishes long before the limit.
	m := NewModel(false)
	x := m.NewVar()
	y := m.NewVar()
	m.Add(Constraint{Vars: []Var{x, y}, Sense: Equal, RHS: 1})
	m.AddObjectiveTerm(y, 1)

	// Act
	result, err := NewGophersatSolver().Solve(m, Options{TimeLimit: time.Minute})

	// Assert: a solve that ran to completion reports optimality, not just
	// feasibility.
	require.NoError(t, err)
	assert.Equal(t, StatusOptimal, result.Status)
	assert.True(t, result.Values[y])
	assert.False(t, result.Values[x])
}

func TestGophersatHandlesVacuousGuardedConstraint(t *testing.T) {
	// Arrange: the guarded bound is at least as wide as its variable set, so
	// normalization drops the constraint and the guard reaches the solver
	// through the cost function alone.
	m := NewModel(true)
	reg := m.Assumptions()
	x := m.NewVar()
	guard := reg.NewLiteral(KindStudentLimits, "x_cap", AssumptionContext{})
	m.Add(Constraint{Vars: []Var{x}, Sense: LessEq, RHS: 1, Guard: guard})
	m.Add(Constraint{Vars: []Var{x}, Sense: Equal, RHS: 1})

	// Act
	result, err := NewGophersatSolver().Solve(m, Options{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, StatusOptimal, result.Status)
	assert.Empty(t, result.Core)
	assert.True(t, result.Values[x])
}

func TestExtractCoreRejectsSatisfiableCandidates(t *testing.T) {
	// Arrange: a single guarded constraint that holds on its own.
	m := NewModel(true)
	reg := m.Assumptions()
	x := m.NewVar()
	guard := reg.NewLiteral(KindLocation, "x_loc", AssumptionContext{})
	m.Add(Constraint{Vars: []Var{x}, Sense: Equal, RHS: 1, Guard: guard})
	require.NotEqual(t, Var(0), guard)

	// Act: seed the extraction with the group even though it is satisfiable.
	core := NewGophersatSolver().extractCore(reg, compile(m), []int{0}, time.Time{})

	// Assert: a candidate set the solver can satisfy in full is not a
	// conflict.
	assert.Empty(t, core)
}

func TestGophersatEmptyModelIsOptimal(t *testing.T) {
	m := NewModel(false)
	x := m.NewVar()
	m.AddObjectiveTerm(x, 2)

	result, err := NewGophersatSolver().Solve(m, Options{})

	require.NoError(t, err)
	assert.Equal(t, StatusOptimal, result.Status)
	assert.True(t, result.Values[x])
	assert.InDelta(t, 2.0, result.Objective, 1e-9)
}
