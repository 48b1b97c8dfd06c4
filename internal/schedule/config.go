package schedule

import (
	"fmt"
	"time"
)

// SubjectWeightKey addresses one per-(requester, subject) priority multiplier.
type SubjectWeightKey struct {
	RequesterID int
	SubjectID   int
}

// Config is the flat policy surface of one generation request. Per-entity
// overrides live on the entities themselves and fall back to these globals
// through resolve.
type Config struct {
	Slots int

	MinLessons        int
	MaxLessons        *int
	TeacherMinLessons int
	TeacherMaxLessons *int

	AllowRepeats      bool
	MaxRepeats        int
	AllowConsecutive  bool
	PreferConsecutive bool
	ConsecutiveWeight float64

	RequireAllSubjects bool
	SubjectWeights     map[SubjectWeightKey]float64
	LessonReward       float64
	GroupWeight        float64
	AllowMultiTeacher  bool

	BalanceTeacherLoad bool
	BalanceWeight      float64

	DisableLocations bool

	Assumptions bool
	Backend     string
	TimeLimit   time.Duration
}

func DefaultConfig() Config {
	return Config{
		Slots:              8,
		MaxRepeats:         1,
		AllowConsecutive:   true,
		ConsecutiveWeight:  1,
		RequireAllSubjects: true,
		LessonReward:       1,
		GroupWeight:        1,
		AllowMultiTeacher:  true,
		BalanceWeight:      1,
		Assumptions:        true,
		Backend:            "gophersat",
	}
}

// resolve applies the default-vs-override convention: a nil override means
// "use the global value".
func resolve[T any](override *T, global T) T {
	if override != nil {
		return *override
	}
	return global
}

func (c Config) Validate() error {
	if c.Slots < 1 {
		return &ConfigError{Field: "slots", Reason: fmt.Sprintf("must be at least 1, got %d", c.Slots)}
	}
	if c.MinLessons < 0 {
		return &ConfigError{Field: "min_lessons", Reason: fmt.Sprintf("must not be negative, got %d", c.MinLessons)}
	}
	if c.MaxLessons != nil && *c.MaxLessons < c.MinLessons {
		return &ConfigError{Field: "max_lessons", Reason: fmt.Sprintf("%d is below min_lessons %d", *c.MaxLessons, c.MinLessons)}
	}
	if c.TeacherMinLessons < 0 {
		return &ConfigError{Field: "teacher_min_lessons", Reason: fmt.Sprintf("must not be negative, got %d", c.TeacherMinLessons)}
	}
	if c.TeacherMaxLessons != nil && *c.TeacherMaxLessons < c.TeacherMinLessons {
		return &ConfigError{Field: "teacher_max_lessons", Reason: fmt.Sprintf("%d is below teacher_min_lessons %d", *c.TeacherMaxLessons, c.TeacherMinLessons)}
	}
	if c.MaxRepeats < 1 {
		return &ConfigError{Field: "max_repeats", Reason: fmt.Sprintf("must be at least 1, got %d", c.MaxRepeats)}
	}
	if c.GroupWeight < 0 {
		return &ConfigError{Field: "group_weight", Reason: fmt.Sprintf("must not be negative, got %g", c.GroupWeight)}
	}
	if c.Backend == "" {
		return &ConfigError{Field: "backend", Reason: "must name a solver backend"}
	}
	return nil
}
