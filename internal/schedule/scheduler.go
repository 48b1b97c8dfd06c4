package schedule

import (
	"fmt"

	"go.uber.org/zap"

	"lessonsolver/internal/pb"
)

// Scheduler runs one generation request: validate, build, solve, read back or
// diagnose. A Scheduler is built fresh per request from authoritative
// snapshots; it holds no cross-request state.
type Scheduler struct {
	cfg    Config
	roster *Roster
	fixed  []FixedAssignment
	logger *zap.Logger
}

// Outcome is the caller-facing result of one generation.
type Outcome struct {
	Status    pb.Status
	Lessons   []Lesson
	Objective float64
	Core      []pb.AssumptionInfo
	Summaries []Summary
	Hints     []string
	Progress  []string
}

func NewScheduler(cfg Config, roster *Roster, fixed []FixedAssignment, logger *zap.Logger) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateFixed(cfg, roster, fixed); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{cfg: cfg, roster: roster, fixed: fixed, logger: logger}, nil
}

// BuildModel constructs the pseudo-boolean model and its variable space.
// Construction is deterministic: identical inputs yield models with equal
// String renderings.
func (s *Scheduler) BuildModel() (*pb.Model, *VariableSpace) {
	m := pb.NewModel(s.cfg.Assumptions)
	space := BuildVariables(m, s.cfg, s.roster, s.fixed)
	a := assemble(m, s.cfg, s.roster, space)
	composeObjective(m, s.cfg, s.roster, space, a.adjacency, a.deviations)
	return m, space
}

// Generate builds and solves the model, returning either the active lessons
// or the infeasibility diagnostics.
func (s *Scheduler) Generate() (*Outcome, error) {
	m, space := s.BuildModel()
	s.logger.Info("model built",
		zap.Int("variables", m.NumVars()),
		zap.Int("constraints", len(m.Constraints())),
		zap.Int("assumptions", m.Assumptions().Len()))

	solver, err := pb.NewSolver(s.cfg.Backend)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{}
	result, err := solver.Solve(m, pb.Options{
		TimeLimit: s.cfg.TimeLimit,
		Progress: func(message string) {
			outcome.Progress = append(outcome.Progress, message)
			s.logger.Info("solver progress", zap.String("message", message))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("solve with backend %q: %w", s.cfg.Backend, err)
	}

	outcome.Status = result.Status
	switch result.Status {
	case pb.StatusOptimal, pb.StatusFeasible:
		outcome.Lessons = space.Lessons(result.Values)
		outcome.Objective = result.Objective
		message := fmt.Sprintf("solution found: status=%s, objective=%.2f", result.Status, result.Objective)
		outcome.Progress = append(outcome.Progress, message)
		s.logger.Info("schedule generated",
			zap.Stringer("status", result.Status),
			zap.Int("lessons", len(outcome.Lessons)),
			zap.Float64("objective", result.Objective))
	case pb.StatusInfeasible:
		outcome.Core = result.Core
		if len(result.Core) > 0 {
			outcome.Summaries = SummarizeCore(result.Core)
		} else {
			outcome.Hints = AnalyzeInfeasibility(s.cfg, s.roster, s.fixed)
		}
		s.logger.Warn("no feasible schedule",
			zap.Int("core_entries", len(result.Core)),
			zap.Int("summaries", len(outcome.Summaries)))
	default:
		// Timeout or solver indecision. Not infeasibility: heuristic hints
		// only, no core.
		outcome.Hints = AnalyzeInfeasibility(s.cfg, s.roster, s.fixed)
		s.logger.Warn("solver returned no verdict", zap.Stringer("status", result.Status))
	}
	return outcome, nil
}
