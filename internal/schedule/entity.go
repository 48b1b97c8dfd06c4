package schedule

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// GroupIDOffset separates group pseudo-requester ids from student ids in the
// shared requester id space.
const GroupIDOffset = 10000

// LessonLimits bounds a requester's total lessons. Max nil means unbounded.
type LessonLimits struct {
	Min int
	Max *int
}

// RepeatPolicy overrides the global repeat configuration for one requester.
// Nil fields fall back to the global values. RepeatSubjects nil means every
// subject may repeat; non nil restricts repetition to the listed subjects.
type RepeatPolicy struct {
	AllowRepeats      *bool
	MaxRepeats        *int
	AllowConsecutive  *bool
	PreferConsecutive *bool
	RepeatSubjects    []int
}

// Requester is the subject-requiring party of a lesson: a student, or a group
// acting as a pseudo-requester on behalf of its members.
type Requester struct {
	ID               int
	Name             string
	Subjects         []int
	Group            bool
	Members          []int
	Limits           *LessonLimits
	Repeat           *RepeatPolicy
	MultiTeacher     *bool
	BlockedTeachers  map[int]bool
	UnavailableSlots map[int]bool
	AllowedLocations []int
}

type Teacher struct {
	ID               int
	Name             string
	Subjects         []int
	MinLessons       *int
	MaxLessons       *int
	UnavailableSlots map[int]bool
	AllowedLocations []int
}

type Subject struct {
	ID   int
	Name string
}

type Location struct {
	ID   int
	Name string
}

// Group is the raw group record before normalization into a pseudo-requester.
type Group struct {
	ID       int
	Name     string
	Subjects []int
	Members  []int
}

// FixedAssignment pins one lesson tuple into the solution.
type FixedAssignment struct {
	RequesterID int
	TeacherID   int
	SubjectID   int
	Slot        int
	LocationID  *int
}

// Roster is the normalized, deterministic view of one generation request.
// Requesters holds students followed by group pseudo-requesters, each list
// sorted by id.
type Roster struct {
	Requesters []Requester
	Teachers   []Teacher
	Locations  []Location

	subjects      map[int]Subject
	requesterByID map[int]*Requester
	teacherByID   map[int]*Teacher
	memberGroups  map[int][]int
	groupSubjects map[int]map[int]bool
}

// NewRoster normalizes raw records. Each group becomes a pseudo-requester
// with an offset id whose blocked-teacher set is the union of its members'
// sets.
func NewRoster(students []Requester, groups []Group, teachers []Teacher, subjects []Subject, locations []Location) *Roster {
	r := &Roster{
		subjects:      make(map[int]Subject, len(subjects)),
		requesterByID: make(map[int]*Requester),
		teacherByID:   make(map[int]*Teacher),
		memberGroups:  make(map[int][]int),
		groupSubjects: make(map[int]map[int]bool),
	}
	for _, s := range subjects {
		r.subjects[s.ID] = s
	}

	r.Requesters = make([]Requester, 0, len(students)+len(groups))
	for _, s := range students {
		s.Group = false
		r.Requesters = append(r.Requesters, s)
	}

	byID := make(map[int]Requester, len(students))
	for _, s := range students {
		byID[s.ID] = s
	}
	for _, g := range groups {
		gid := GroupIDOffset + g.ID
		blocked := make(map[int]bool)
		for _, member := range g.Members {
			for tid := range byID[member].BlockedTeachers {
				blocked[tid] = true
			}
		}
		r.Requesters = append(r.Requesters, Requester{
			ID:              gid,
			Name:            g.Name,
			Subjects:        append([]int(nil), g.Subjects...),
			Group:           true,
			Members:         append([]int(nil), g.Members...),
			BlockedTeachers: blocked,
		})
		r.groupSubjects[gid] = lo.SliceToMap(g.Subjects, func(id int) (int, bool) { return id, true })
		for _, member := range g.Members {
			r.memberGroups[member] = append(r.memberGroups[member], gid)
		}
	}

	sort.Slice(r.Requesters, func(i, j int) bool { return r.Requesters[i].ID < r.Requesters[j].ID })
	r.Teachers = append([]Teacher(nil), teachers...)
	sort.Slice(r.Teachers, func(i, j int) bool { return r.Teachers[i].ID < r.Teachers[j].ID })
	r.Locations = append([]Location(nil), locations...)
	sort.Slice(r.Locations, func(i, j int) bool { return r.Locations[i].ID < r.Locations[j].ID })

	for i := range r.Requesters {
		r.requesterByID[r.Requesters[i].ID] = &r.Requesters[i]
	}
	for i := range r.Teachers {
		r.teacherByID[r.Teachers[i].ID] = &r.Teachers[i]
	}
	for member := range r.memberGroups {
		sort.Ints(r.memberGroups[member])
	}
	return r
}

func (r *Roster) RequesterByID(id int) *Requester { return r.requesterByID[id] }

func (r *Roster) TeacherByID(id int) *Teacher { return r.teacherByID[id] }

// GroupsOf returns the group pseudo-requester ids the given student belongs
// to, in ascending order.
func (r *Roster) GroupsOf(studentID int) []int { return r.memberGroups[studentID] }

// GroupCoversSubject reports whether the group pseudo-requester requires the
// subject.
func (r *Roster) GroupCoversSubject(groupID, subjectID int) bool {
	return r.groupSubjects[groupID][subjectID]
}

func (r *Roster) RequesterName(id int) string {
	if req := r.requesterByID[id]; req != nil && req.Name != "" {
		return req.Name
	}
	return fmt.Sprintf("requester %d", id)
}

func (r *Roster) TeacherName(id int) string {
	if t := r.teacherByID[id]; t != nil && t.Name != "" {
		return t.Name
	}
	return fmt.Sprintf("teacher %d", id)
}

func (r *Roster) SubjectName(id int) string {
	if s, ok := r.subjects[id]; ok && s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("subject %d", id)
}
