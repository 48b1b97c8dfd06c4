package pb

// AssumptionKind names a logical constraint group for diagnostics. The set is
// closed: summarization switches over it exhaustively.
type AssumptionKind int

const (
	KindTeacherAvailability AssumptionKind = iota
	KindTeacherLimits
	KindStudentLimits
	KindGroupRequirements
	KindRepeatBounds
	KindLocation
	KindFixedAssignment
)

func (k AssumptionKind) String() string {
	switch k {
	case KindTeacherAvailability:
		return "teacher_availability"
	case KindTeacherLimits:
		return "teacher_limits"
	case KindStudentLimits:
		return "student_limits"
	case KindGroupRequirements:
		return "group_requirements"
	case KindRepeatBounds:
		return "repeat_bounds"
	case KindLocation:
		return "location"
	case KindFixedAssignment:
		return "fixed_assignment"
	}
	return "unknown"
}

// AssumptionContext carries the entity references the summarizer needs to
// explain why a constraint group participated in an infeasibility. Optional
// fields are pointers; nil means "not applicable to this group".
type AssumptionContext struct {
	TeacherID   *int
	RequesterID *int
	SubjectID   *int
	LocationID  *int
	Slot        *int

	TeacherName   string
	RequesterName string
	SubjectName   string

	Group            bool
	CandidateLessons int
	Reasons          []string
	MinLessons       *int
	MaxLessons       *int
	RepeatLimit      *int
	TeacherIDs       []int
}

// AssumptionInfo describes one assumption literal. Entries of an unsat core
// reference these records.
type AssumptionInfo struct {
	Kind    AssumptionKind
	Label   string
	Context AssumptionContext
}

// AssumptionRegistry hands out one indicator variable per logically meaningful
// constraint group and keeps the metadata needed to interpret an unsat core.
// Its lifetime is a single model-build/solve cycle.
type AssumptionRegistry struct {
	model      *Model
	enabled    bool
	indicators []Var
	infos      []AssumptionInfo
}

func (r *AssumptionRegistry) Enabled() bool { return r.enabled }

// NewLiteral registers a fresh indicator for one constraint group. When the
// registry is disabled it returns 0, which Constraint.Guard treats as
// "always active".
func (r *AssumptionRegistry) NewLiteral(kind AssumptionKind, label string, ctx AssumptionContext) Var {
	if !r.enabled {
		return 0
	}
	indicator := r.model.NewVar()
	r.indicators = append(r.indicators, indicator)
	r.infos = append(r.infos, AssumptionInfo{Kind: kind, Label: label, Context: ctx})
	return indicator
}

func (r *AssumptionRegistry) Len() int { return len(r.indicators) }

func (r *AssumptionRegistry) Indicator(i int) Var { return r.indicators[i] }

func (r *AssumptionRegistry) Info(i int) AssumptionInfo { return r.infos[i] }

func (r *AssumptionRegistry) Infos() []AssumptionInfo {
	infos := make([]AssumptionInfo, len(r.infos))
	copy(infos, r.infos)
	return infos
}
