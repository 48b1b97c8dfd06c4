package pb

import (
	"fmt"
	"math"
	"sort"
	"time"

	gs "github.com/crillab/gophersat/solver"
)

const (
	// weightScale converts float objective weights to the integral costs
	// gophersat requires.
	weightScale = 100
	// indicatorBonusBase is the minimum reward for keeping an assumption
	// indicator true. It is raised above the total objective mass when needed
	// so the solver never trades an indicator for schedule quality.
	indicatorBonusBase = 1000 * weightScale
)

// GophersatSolver compiles the neutral model to pseudo-boolean constraints and
// solves it in process. Guarded constraints are relaxed big-M style through
// their indicator literal; infeasibility is reported as a minimal set of
// assumption groups found by a force-and-resolve growth loop followed by
// per-index deletion checks.
type GophersatSolver struct{}

func NewGophersatSolver() *GophersatSolver {
	return &GophersatSolver{}
}

// compiled is the reusable translation of one Model: the base constraints and
// the cost function. Core-extraction trials append forcing units to a copy.
// seen tracks the variables appearing in emitted constraints; the backend
// sizes its tables from constraints alone, so a cost-only variable would make
// it index out of range.
type compiled struct {
	constrs     []gs.PBConstr
	costLits    []int
	costWeights []int
	seen        map[int]bool
}

func (s *GophersatSolver) Solve(m *Model, opts Options) (*Result, error) {
	if len(m.Constraints()) == 0 {
		return trivialResult(m), nil
	}

	var deadline time.Time
	if opts.TimeLimit > 0 {
		deadline = time.Now().Add(opts.TimeLimit)
	}

	c := compile(m)
	final, timedOut := runOptimal(c, nil, deadline, opts.Progress)

	var status Status
	switch final.Status {
	case gs.Unsat:
		status = StatusInfeasible
	case gs.Sat:
		if timedOut {
			status = StatusFeasible
		} else {
			status = StatusOptimal
		}
	default:
		status = StatusUnknown
	}

	result := &Result{Status: status}

	reg := m.Assumptions()
	if reg.Enabled() && reg.Len() > 0 {
		var zeros []int
		// Zero indicators prove a conflict only at an optimum: a timed-out
		// incumbent may relax indicators the full search would keep.
		if final.Status == gs.Sat && !timedOut {
			zeros = zeroIndicators(reg, final.Model)
		}
		if status == StatusInfeasible || len(zeros) > 0 {
			core := s.extractCore(reg, c, zeros, deadline)
			if len(core) > 0 {
				result.Status = StatusInfeasible
				result.Core = core
				return result, nil
			}
		}
	}

	if result.Status == StatusOptimal || result.Status == StatusFeasible {
		values := make([]bool, m.NumVars()+1)
		// Result.Model is 0-based: variable v lives at index v-1.
		for v := 1; v <= m.NumVars(); v++ {
			if v-1 < len(final.Model) && final.Model[v-1] {
				values[v] = true
			}
		}
		objective := 0.0
		for _, term := range m.Objective() {
			if values[term.Var] {
				objective += term.Weight
			}
		}
		result.Values = values
		result.Objective = objective
	}
	return result, nil
}

// trivialResult handles a model without constraints: every variable is free,
// so the objective is maximized term by term.
func trivialResult(m *Model) *Result {
	values := make([]bool, m.NumVars()+1)
	objective := 0.0
	for _, term := range m.Objective() {
		if term.Weight > 0 {
			values[term.Var] = true
			objective += term.Weight
		}
	}
	return &Result{Status: StatusOptimal, Values: values, Objective: objective}
}

// compile translates constraints to at-least form with positive coefficients
// and assembles the minimization cost function from the maximized objective.
func compile(m *Model) *compiled {
	c := &compiled{seen: make(map[int]bool)}
	nextVar := m.NumVars()

	for _, constraint := range m.Constraints() {
		switch constraint.Sense {
		case GreaterEq:
			nextVar = c.addAtLeast(constraint.Vars, constraint.Coeffs, constraint.RHS, constraint.Guard, nextVar)
		case LessEq:
			nextVar = c.addAtMost(constraint.Vars, constraint.Coeffs, constraint.RHS, constraint.Guard, nextVar)
		case Equal:
			nextVar = c.addAtLeast(constraint.Vars, constraint.Coeffs, constraint.RHS, constraint.Guard, nextVar)
			nextVar = c.addAtMost(constraint.Vars, constraint.Coeffs, constraint.RHS, constraint.Guard, nextVar)
		}
	}

	totalAbs := 0
	for _, term := range m.Objective() {
		w := int(math.Round(term.Weight * weightScale))
		if w == 0 {
			continue
		}
		c.ensureVar(int(term.Var))
		if w > 0 {
			// Maximizing w·x means minimizing w·(1-x).
			c.costLits = append(c.costLits, -int(term.Var))
			c.costWeights = append(c.costWeights, w)
			totalAbs += w
		} else {
			c.costLits = append(c.costLits, int(term.Var))
			c.costWeights = append(c.costWeights, -w)
			totalAbs += -w
		}
	}

	reg := m.Assumptions()
	if reg.Enabled() && reg.Len() > 0 {
		bonus := indicatorBonusBase
		if bonus <= totalAbs {
			bonus = totalAbs + 1
		}
		for i := 0; i < reg.Len(); i++ {
			c.ensureVar(int(reg.Indicator(i)))
			c.costLits = append(c.costLits, -int(reg.Indicator(i)))
			c.costWeights = append(c.costWeights, bonus)
		}
	}
	return c
}

func (c *compiled) markVar(lit int) {
	if lit < 0 {
		lit = -lit
	}
	c.seen[lit] = true
}

// ensureVar registers a variable that is about to enter the cost function. A
// guard whose constraint was trivially satisfied never reached any emitted
// constraint; a tautological clause declares it to the backend without
// constraining anything.
func (c *compiled) ensureVar(v int) {
	if c.seen[v] {
		return
	}
	c.seen[v] = true
	c.constrs = append(c.constrs, gs.GtEq([]int{v, -v}, []int{1, 1}, 1))
}

func (c *compiled) addAtMost(vars []Var, coeffs []int, rhs int, guard Var, nextVar int) int {
	negated := make([]int, len(vars))
	for i := range vars {
		coeff := 1
		if coeffs != nil {
			coeff = coeffs[i]
		}
		negated[i] = -coeff
	}
	return c.addAtLeast(vars, negated, -rhs, guard, nextVar)
}

// addAtLeast normalizes sum(coeffs·vars) >= rhs to positive coefficients via
// the c·x = |c|·(1-¬x) rewrite, then relaxes it through the guard literal: the
// normalized left-hand side is at least 0, so a slack of rhs on the negated
// guard is a sufficient big-M.
func (c *compiled) addAtLeast(vars []Var, coeffs []int, rhs int, guard Var, nextVar int) int {
	lits := make([]int, 0, len(vars)+1)
	weights := make([]int, 0, len(vars)+1)
	for i, v := range vars {
		coeff := 1
		if coeffs != nil {
			coeff = coeffs[i]
		}
		switch {
		case coeff > 0:
			lits = append(lits, int(v))
			weights = append(weights, coeff)
		case coeff < 0:
			lits = append(lits, -int(v))
			weights = append(weights, -coeff)
			rhs += -coeff
		}
	}
	if rhs <= 0 {
		return nextVar
	}
	if guard != 0 {
		lits = append(lits, -int(guard))
		weights = append(weights, rhs)
	}
	if len(lits) == 0 {
		// Ungated and unsatisfiable: encode a contradiction on a fresh
		// variable so the backend reports Unsat.
		nextVar++
		c.seen[nextVar] = true
		c.constrs = append(c.constrs,
			gs.GtEq([]int{nextVar}, []int{1}, 1),
			gs.GtEq([]int{-nextVar}, []int{1}, 1))
		return nextVar
	}
	for _, lit := range lits {
		c.markVar(lit)
	}
	c.constrs = append(c.constrs, gs.GtEq(lits, weights, rhs))
	return nextVar
}

// runOptimal drives one gophersat optimization, forwarding improving
// incumbents to progress. The solver itself cannot be interrupted (Optimal
// ignores its stop parameter), so on deadline expiry the caller is released
// with the best incumbent so far while the solve drains in the background.
func runOptimal(c *compiled, forced []int, deadline time.Time, progress func(string)) (gs.Result, bool) {
	if !deadline.IsZero() && !time.Now().Before(deadline) {
		return gs.Result{Status: gs.Indet}, true
	}

	constrs := make([]gs.PBConstr, len(c.constrs), len(c.constrs)+len(forced))
	copy(constrs, c.constrs)
	for _, idx := range forced {
		constrs = append(constrs, gs.GtEq([]int{idx}, []int{1}, 1))
	}
	prob := gs.ParsePBConstrs(constrs)
	if len(c.costLits) > 0 {
		lits := make([]gs.Lit, len(c.costLits))
		for i, l := range c.costLits {
			lits[i] = gs.IntToLit(int32(l))
		}
		weights := make([]int, len(c.costWeights))
		copy(weights, c.costWeights)
		prob.SetCostFunc(lits, weights)
	}
	slv := gs.New(prob)

	results := make(chan gs.Result)
	done := make(chan gs.Result, 1)
	go func() {
		done <- slv.Optimal(results, nil)
	}()

	var timerC <-chan time.Time
	if !deadline.IsZero() {
		timer := time.NewTimer(time.Until(deadline))
		defer timer.Stop()
		timerC = timer.C
	}

	var best gs.Result
	haveBest := false
	incumbents := results
	for {
		select {
		case res, ok := <-incumbents:
			if !ok {
				incumbents = nil
				continue
			}
			best, haveBest = res, true
			if progress != nil {
				progress(fmt.Sprintf("improving solution found (cost %d)", res.Weight))
			}
		case <-timerC:
			// Release the caller now; the abandoned solve keeps draining so
			// its goroutine can finish.
			go func() {
				for range results {
				}
				<-done
			}()
			if haveBest {
				best.Status = gs.Sat
				return best, true
			}
			return gs.Result{Status: gs.Indet}, true
		case final := <-done:
			return final, false
		}
	}
}

// solveForced resolves the model with the given indicator indices forced true
// and reports which indicators came out false. Trials keep the full cost
// function so free indicators hold whenever they can.
func solveForced(reg *AssumptionRegistry, c *compiled, forced []int, deadline time.Time) (gs.Status, []int) {
	units := make([]int, len(forced))
	for i, idx := range forced {
		units[i] = int(reg.Indicator(idx))
	}
	final, _ := runOptimal(c, units, deadline, nil)
	if final.Status != gs.Sat {
		return final.Status, nil
	}
	return gs.Sat, zeroIndicators(reg, final.Model)
}

func zeroIndicators(reg *AssumptionRegistry, model []bool) []int {
	var zeros []int
	for i := 0; i < reg.Len(); i++ {
		idx := int(reg.Indicator(i)) - 1
		if idx >= len(model) || !model[idx] {
			zeros = append(zeros, i)
		}
	}
	return zeros
}

// extractCore grows the set of conflicting assumption groups by repeatedly
// forcing the current candidates true and collecting the groups the solver
// relaxes instead, then removes candidates whose deletion leaves the rest
// conflicting on their own. Hitting the deadline returns the candidate set
// found so far.
func (s *GophersatSolver) extractCore(reg *AssumptionRegistry, c *compiled, initialZeros []int, deadline time.Time) []AssumptionInfo {
	forced := make(map[int]bool, len(initialZeros))
	for _, idx := range initialZeros {
		forced[idx] = true
	}
	if len(forced) == 0 {
		status, zeros := solveForced(reg, c, nil, deadline)
		if status == gs.Unsat {
			return reg.Infos()
		}
		if status == gs.Indet {
			return nil
		}
		for _, idx := range zeros {
			forced[idx] = true
		}
	}

	abort := false
	conflict := false
	progressMade := true
	for len(forced) > 0 && progressMade {
		status, zeros := solveForced(reg, c, sortedIndices(forced), deadline)
		if status == gs.Unsat {
			conflict = true
			break
		}
		if status == gs.Indet {
			abort = true
			break
		}
		progressMade = false
		for _, idx := range zeros {
			if !forced[idx] {
				forced[idx] = true
				progressMade = true
			}
		}
	}
	if len(forced) == 0 {
		return nil
	}
	if !conflict && !abort {
		// The whole candidate set held simultaneously, so the initial zeros
		// came from an incumbent, not from a conflict.
		return nil
	}

	core := forced
	if !abort {
		for _, idx := range sortedIndices(core) {
			delete(core, idx)
			status, _ := solveForced(reg, c, sortedIndices(core), deadline)
			if status == gs.Indet {
				core[idx] = true
				break
			}
			if status == gs.Sat {
				// The remaining groups are jointly satisfiable, so this one
				// is necessary.
				core[idx] = true
			}
		}
	}

	infos := make([]AssumptionInfo, 0, len(core))
	for _, idx := range sortedIndices(core) {
		infos = append(infos, reg.Info(idx))
	}
	return infos
}

func sortedIndices(set map[int]bool) []int {
	indices := make([]int, 0, len(set))
	for idx := range set {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices
}
