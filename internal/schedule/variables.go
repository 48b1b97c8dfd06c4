package schedule

import (
	"sort"

	"github.com/samber/lo"

	"lessonsolver/internal/pb"
)

// CandidateKey identifies one lesson decision variable.
type CandidateKey struct {
	RequesterID int
	TeacherID   int
	SubjectID   int
	Slot        int
}

// LocationKey identifies one location layer variable under a candidate.
type LocationKey struct {
	CandidateKey
	LocationID int
}

// Lesson is one active assignment read back from a solved model.
type Lesson struct {
	RequesterID int
	TeacherID   int
	SubjectID   int
	Slot        int
	LocationID  *int
}

// exclusion records why a tuple exists only to be forced off: the variable is
// kept so infeasibility can be attributed to the unavailability or block.
type exclusion struct {
	Unavailable bool
	Blocked     bool
}

// VariableSpace owns the enumerated decision variables of one model build.
// Keys and LocKeys preserve construction order, which is deterministic for
// identical inputs.
type VariableSpace struct {
	Keys    []CandidateKey
	LocKeys []LocationKey

	vars       map[CandidateKey]pb.Var
	locVars    map[LocationKey]pb.Var
	fixedSet   map[CandidateKey]bool
	exclusions map[CandidateKey]exclusion
	// noLocation lists candidates whose requester and teacher share no
	// permitted location.
	noLocation []CandidateKey
}

// BuildVariables enumerates every feasible (requester, teacher, subject,
// slot) tuple and creates its decision variable. Fixed assignments force
// tuple existence past every pruning rule. When assumptions are enabled,
// unavailable or blocked tuples still receive variables so the diagnosis can
// name them; otherwise they are skipped outright.
func BuildVariables(m *pb.Model, cfg Config, roster *Roster, fixed []FixedAssignment) *VariableSpace {
	space := &VariableSpace{
		vars:       make(map[CandidateKey]pb.Var),
		locVars:    make(map[LocationKey]pb.Var),
		fixedSet:   make(map[CandidateKey]bool, len(fixed)),
		exclusions: make(map[CandidateKey]exclusion),
	}
	for _, f := range fixed {
		space.fixedSet[CandidateKey{f.RequesterID, f.TeacherID, f.SubjectID, f.Slot}] = true
	}

	for ri := range roster.Requesters {
		requester := &roster.Requesters[ri]
		for ti := range roster.Teachers {
			teacher := &roster.Teachers[ti]
			for _, subjectID := range commonSubjects(requester, teacher) {
				for slot := 0; slot < cfg.Slots; slot++ {
					key := CandidateKey{requester.ID, teacher.ID, subjectID, slot}
					isFixed := space.fixedSet[key]
					if requester.UnavailableSlots[slot] && !isFixed {
						continue
					}
					unavailable := teacher.UnavailableSlots[slot]
					blocked := requester.BlockedTeachers[teacher.ID]
					if !isFixed && (unavailable || blocked) && !cfg.Assumptions {
						continue
					}
					space.Keys = append(space.Keys, key)
					space.vars[key] = m.NewVar()
					if !isFixed && (unavailable || blocked) {
						space.exclusions[key] = exclusion{Unavailable: unavailable, Blocked: blocked}
					}
				}
			}
		}
	}

	if len(roster.Locations) > 0 && !cfg.DisableLocations {
		for _, key := range space.Keys {
			requester := roster.RequesterByID(key.RequesterID)
			teacher := roster.TeacherByID(key.TeacherID)
			permitted := permittedLocations(roster, requester, teacher)
			if len(permitted) == 0 {
				space.noLocation = append(space.noLocation, key)
				continue
			}
			for _, locationID := range permitted {
				locKey := LocationKey{CandidateKey: key, LocationID: locationID}
				space.LocKeys = append(space.LocKeys, locKey)
				space.locVars[locKey] = m.NewVar()
			}
		}
	}
	return space
}

func commonSubjects(requester *Requester, teacher *Teacher) []int {
	common := lo.Intersect(requester.Subjects, teacher.Subjects)
	sort.Ints(common)
	return common
}

func permittedLocations(roster *Roster, requester *Requester, teacher *Teacher) []int {
	var permitted []int
	for _, loc := range roster.Locations {
		if requester.AllowedLocations != nil && !lo.Contains(requester.AllowedLocations, loc.ID) {
			continue
		}
		if teacher.AllowedLocations != nil && !lo.Contains(teacher.AllowedLocations, loc.ID) {
			continue
		}
		permitted = append(permitted, loc.ID)
	}
	return permitted
}

func (s *VariableSpace) Var(key CandidateKey) (pb.Var, bool) {
	v, ok := s.vars[key]
	return v, ok
}

func (s *VariableSpace) LocVar(key LocationKey) (pb.Var, bool) {
	v, ok := s.locVars[key]
	return v, ok
}

func (s *VariableSpace) Fixed(key CandidateKey) bool { return s.fixedSet[key] }

// Lessons reads the active assignments out of a solved valuation, attaching
// the active location where one exists.
func (s *VariableSpace) Lessons(values []bool) []Lesson {
	var lessons []Lesson
	locByKey := make(map[CandidateKey]*int)
	for _, locKey := range s.LocKeys {
		if values[s.locVars[locKey]] {
			id := locKey.LocationID
			locByKey[locKey.CandidateKey] = &id
		}
	}
	for _, key := range s.Keys {
		if !values[s.vars[key]] {
			continue
		}
		lessons = append(lessons, Lesson{
			RequesterID: key.RequesterID,
			TeacherID:   key.TeacherID,
			SubjectID:   key.SubjectID,
			Slot:        key.Slot,
			LocationID:  locByKey[key],
		})
	}
	return lessons
}
