package schedule

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
)

// ScenarioInput is the JSON shape of one generation request: entities, fixed
// assignments and the policy knobs, with nil meaning "use the default".
type ScenarioInput struct {
	Slots     int
	Students  []StudentInput
	Groups    []GroupInput
	Teachers  []TeacherInput
	Subjects  []SubjectInput
	Locations []LocationInput
	Fixed     []FixedInput
	Config    ConfigInput
}

type StudentInput struct {
	ID                int
	Name              string
	Subjects          []int
	MinLessons        *int  `mapstructure:"minLessons"`
	MaxLessons        *int  `mapstructure:"maxLessons"`
	AllowRepeats      *bool `mapstructure:"allowRepeats"`
	MaxRepeats        *int  `mapstructure:"maxRepeats"`
	AllowConsecutive  *bool `mapstructure:"allowConsecutive"`
	PreferConsecutive *bool `mapstructure:"preferConsecutive"`
	RepeatSubjects    []int `mapstructure:"repeatSubjects"`
	MultiTeacher      *bool `mapstructure:"multiTeacher"`
	BlockedTeachers   []int `mapstructure:"blockedTeachers"`
	UnavailableSlots  []int `mapstructure:"unavailableSlots"`
	AllowedLocations  []int `mapstructure:"allowedLocations"`
}

type GroupInput struct {
	ID       int
	Name     string
	Subjects []int
	Members  []int
}

type TeacherInput struct {
	ID               int
	Name             string
	Subjects         []int
	MinLessons       *int  `mapstructure:"minLessons"`
	MaxLessons       *int  `mapstructure:"maxLessons"`
	UnavailableSlots []int `mapstructure:"unavailableSlots"`
	AllowedLocations []int `mapstructure:"allowedLocations"`
}

type SubjectInput struct {
	ID   int
	Name string
}

type LocationInput struct {
	ID   int
	Name string
}

type FixedInput struct {
	RequesterID int `mapstructure:"requesterId"`
	TeacherID   int `mapstructure:"teacherId"`
	SubjectID   int `mapstructure:"subjectId"`
	Slot        int
	LocationID  *int `mapstructure:"locationId"`
}

type SubjectWeightInput struct {
	RequesterID int `mapstructure:"requesterId"`
	SubjectID   int `mapstructure:"subjectId"`
	Weight      float64
}

type ConfigInput struct {
	MinLessons         *int                 `mapstructure:"minLessons"`
	MaxLessons         *int                 `mapstructure:"maxLessons"`
	TeacherMinLessons  *int                 `mapstructure:"teacherMinLessons"`
	TeacherMaxLessons  *int                 `mapstructure:"teacherMaxLessons"`
	AllowRepeats       *bool                `mapstructure:"allowRepeats"`
	MaxRepeats         *int                 `mapstructure:"maxRepeats"`
	AllowConsecutive   *bool                `mapstructure:"allowConsecutive"`
	PreferConsecutive  *bool                `mapstructure:"preferConsecutive"`
	ConsecutiveWeight  *float64             `mapstructure:"consecutiveWeight"`
	RequireAllSubjects *bool                `mapstructure:"requireAllSubjects"`
	SubjectWeights     []SubjectWeightInput `mapstructure:"subjectWeights"`
	LessonReward       *float64             `mapstructure:"lessonReward"`
	GroupWeight        *float64             `mapstructure:"groupWeight"`
	AllowMultiTeacher  *bool                `mapstructure:"allowMultiTeacher"`
	BalanceTeacherLoad *bool                `mapstructure:"balanceTeacherLoad"`
	BalanceWeight      *float64             `mapstructure:"balanceWeight"`
	DisableLocations   *bool                `mapstructure:"disableLocations"`
	Assumptions        *bool
	Backend            *string
	TimeLimitSeconds   *float64 `mapstructure:"timeLimitSeconds"`
}

// InputFromJSON decodes a scenario file into the typed input.
func InputFromJSON(file string) (ScenarioInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return ScenarioInput{}, fmt.Errorf("read scenario file: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(bytes, &raw); err != nil {
		return ScenarioInput{}, fmt.Errorf("parse scenario file: %w", err)
	}
	var input ScenarioInput
	if err := mapstructure.Decode(raw, &input); err != nil {
		return ScenarioInput{}, fmt.Errorf("decode scenario: %w", err)
	}
	return input, nil
}

// Roster normalizes the decoded records into the scheduling view.
func (input ScenarioInput) Roster() *Roster {
	students := make([]Requester, 0, len(input.Students))
	for _, s := range input.Students {
		var limits *LessonLimits
		if s.MinLessons != nil || s.MaxLessons != nil {
			limits = &LessonLimits{Max: s.MaxLessons}
			if s.MinLessons != nil {
				limits.Min = *s.MinLessons
			}
		}
		var repeat *RepeatPolicy
		if s.AllowRepeats != nil || s.MaxRepeats != nil || s.AllowConsecutive != nil ||
			s.PreferConsecutive != nil || s.RepeatSubjects != nil {
			repeat = &RepeatPolicy{
				AllowRepeats:      s.AllowRepeats,
				MaxRepeats:        s.MaxRepeats,
				AllowConsecutive:  s.AllowConsecutive,
				PreferConsecutive: s.PreferConsecutive,
				RepeatSubjects:    s.RepeatSubjects,
			}
		}
		students = append(students, Requester{
			ID:               s.ID,
			Name:             s.Name,
			Subjects:         s.Subjects,
			Limits:           limits,
			Repeat:           repeat,
			MultiTeacher:     s.MultiTeacher,
			BlockedTeachers:  toSet(s.BlockedTeachers),
			UnavailableSlots: toSet(s.UnavailableSlots),
			AllowedLocations: s.AllowedLocations,
		})
	}

	groups := make([]Group, 0, len(input.Groups))
	for _, g := range input.Groups {
		groups = append(groups, Group{ID: g.ID, Name: g.Name, Subjects: g.Subjects, Members: g.Members})
	}

	teachers := make([]Teacher, 0, len(input.Teachers))
	for _, t := range input.Teachers {
		teachers = append(teachers, Teacher{
			ID:               t.ID,
			Name:             t.Name,
			Subjects:         t.Subjects,
			MinLessons:       t.MinLessons,
			MaxLessons:       t.MaxLessons,
			UnavailableSlots: toSet(t.UnavailableSlots),
			AllowedLocations: t.AllowedLocations,
		})
	}

	subjects := make([]Subject, 0, len(input.Subjects))
	for _, s := range input.Subjects {
		subjects = append(subjects, Subject{ID: s.ID, Name: s.Name})
	}
	locations := make([]Location, 0, len(input.Locations))
	for _, l := range input.Locations {
		locations = append(locations, Location{ID: l.ID, Name: l.Name})
	}
	return NewRoster(students, groups, teachers, subjects, locations)
}

// BuildConfig layers the scenario's overrides over the defaults.
func (input ScenarioInput) BuildConfig() Config {
	cfg := DefaultConfig()
	if input.Slots > 0 {
		cfg.Slots = input.Slots
	}
	c := input.Config
	cfg.MinLessons = resolve(c.MinLessons, cfg.MinLessons)
	if c.MaxLessons != nil {
		cfg.MaxLessons = c.MaxLessons
	}
	cfg.TeacherMinLessons = resolve(c.TeacherMinLessons, cfg.TeacherMinLessons)
	if c.TeacherMaxLessons != nil {
		cfg.TeacherMaxLessons = c.TeacherMaxLessons
	}
	cfg.AllowRepeats = resolve(c.AllowRepeats, cfg.AllowRepeats)
	cfg.MaxRepeats = resolve(c.MaxRepeats, cfg.MaxRepeats)
	cfg.AllowConsecutive = resolve(c.AllowConsecutive, cfg.AllowConsecutive)
	cfg.PreferConsecutive = resolve(c.PreferConsecutive, cfg.PreferConsecutive)
	cfg.ConsecutiveWeight = resolve(c.ConsecutiveWeight, cfg.ConsecutiveWeight)
	cfg.RequireAllSubjects = resolve(c.RequireAllSubjects, cfg.RequireAllSubjects)
	cfg.LessonReward = resolve(c.LessonReward, cfg.LessonReward)
	cfg.GroupWeight = resolve(c.GroupWeight, cfg.GroupWeight)
	cfg.AllowMultiTeacher = resolve(c.AllowMultiTeacher, cfg.AllowMultiTeacher)
	cfg.BalanceTeacherLoad = resolve(c.BalanceTeacherLoad, cfg.BalanceTeacherLoad)
	cfg.BalanceWeight = resolve(c.BalanceWeight, cfg.BalanceWeight)
	cfg.DisableLocations = resolve(c.DisableLocations, cfg.DisableLocations)
	cfg.Assumptions = resolve(c.Assumptions, cfg.Assumptions)
	cfg.Backend = resolve(c.Backend, cfg.Backend)
	if c.TimeLimitSeconds != nil {
		cfg.TimeLimit = time.Duration(*c.TimeLimitSeconds * float64(time.Second))
	}
	if len(c.SubjectWeights) > 0 {
		cfg.SubjectWeights = make(map[SubjectWeightKey]float64, len(c.SubjectWeights))
		for _, w := range c.SubjectWeights {
			cfg.SubjectWeights[SubjectWeightKey{RequesterID: w.RequesterID, SubjectID: w.SubjectID}] = w.Weight
		}
	}
	return cfg
}

// FixedAssignments converts the decoded pins. Group pins use the offset
// pseudo-requester id space directly.
func (input ScenarioInput) FixedAssignments() []FixedAssignment {
	fixed := make([]FixedAssignment, 0, len(input.Fixed))
	for _, f := range input.Fixed {
		fixed = append(fixed, FixedAssignment{
			RequesterID: f.RequesterID,
			TeacherID:   f.TeacherID,
			SubjectID:   f.SubjectID,
			Slot:        f.Slot,
			LocationID:  f.LocationID,
		})
	}
	return fixed
}

func toSet(values []int) map[int]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[int]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
