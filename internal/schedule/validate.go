package schedule

import (
	"fmt"
	"slices"
)

// ConfigError reports invalid input data detected before model construction.
// Callers distinguish it from solver outcomes: a ConfigError means the
// request itself is malformed, not that no schedule exists.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ValidateFixed rejects fixed assignments that reference unknown entities,
// ineligible pairs, out-of-range slots, suppressed groups, or that collide on
// a (teacher, slot) or (requester, slot).
func ValidateFixed(cfg Config, roster *Roster, fixed []FixedAssignment) error {
	teacherSlots := make(map[[2]int]bool, len(fixed))
	requesterSlots := make(map[[2]int]bool, len(fixed))
	for _, f := range fixed {
		requester := roster.RequesterByID(f.RequesterID)
		if requester == nil {
			return &ConfigError{Field: "fixed", Reason: fmt.Sprintf("unknown requester %d", f.RequesterID)}
		}
		teacher := roster.TeacherByID(f.TeacherID)
		if teacher == nil {
			return &ConfigError{Field: "fixed", Reason: fmt.Sprintf("unknown teacher %d", f.TeacherID)}
		}
		if f.Slot < 0 || f.Slot >= cfg.Slots {
			return &ConfigError{Field: "fixed", Reason: fmt.Sprintf("slot %d is outside the grid of %d slots", f.Slot, cfg.Slots)}
		}
		if !slices.Contains(requester.Subjects, f.SubjectID) {
			return &ConfigError{Field: "fixed", Reason: fmt.Sprintf("%s does not require %s", roster.RequesterName(f.RequesterID), roster.SubjectName(f.SubjectID))}
		}
		if !slices.Contains(teacher.Subjects, f.SubjectID) {
			return &ConfigError{Field: "fixed", Reason: fmt.Sprintf("%s does not teach %s", roster.TeacherName(f.TeacherID), roster.SubjectName(f.SubjectID))}
		}
		if requester.Group && cfg.GroupWeight == 0 {
			return &ConfigError{Field: "fixed", Reason: fmt.Sprintf("group %s is suppressed by group_weight 0 and cannot be pinned", roster.RequesterName(f.RequesterID))}
		}
		if f.LocationID != nil && !cfg.DisableLocations && len(roster.Locations) > 0 {
			if !locationPermitted(roster, requester, teacher, *f.LocationID) {
				return &ConfigError{Field: "fixed", Reason: fmt.Sprintf("location %d is not permitted for %s with %s", *f.LocationID, roster.RequesterName(f.RequesterID), roster.TeacherName(f.TeacherID))}
			}
		}
		ts := [2]int{f.TeacherID, f.Slot}
		if teacherSlots[ts] {
			return &ConfigError{Field: "fixed", Reason: fmt.Sprintf("teacher %d already has a fixed lesson in slot %d", f.TeacherID, f.Slot)}
		}
		teacherSlots[ts] = true
		rs := [2]int{f.RequesterID, f.Slot}
		if requesterSlots[rs] {
			return &ConfigError{Field: "fixed", Reason: fmt.Sprintf("requester %d already has a fixed lesson in slot %d", f.RequesterID, f.Slot)}
		}
		requesterSlots[rs] = true
	}
	return nil
}

// BlockAllowed gates a new requester-teacher block before it is recorded. A
// block is rejected when the pair has a pinned fixed assignment, or when it
// would leave one of the requester's groups without any eligible teacher for
// a group subject.
func BlockAllowed(roster *Roster, fixed []FixedAssignment, requesterID, teacherID int) error {
	for _, f := range fixed {
		if f.RequesterID == requesterID && f.TeacherID == teacherID {
			return &ConfigError{Field: "block", Reason: fmt.Sprintf("%s has a fixed lesson with %s in slot %d", roster.RequesterName(requesterID), roster.TeacherName(teacherID), f.Slot)}
		}
	}
	blocked := func(memberID, tid int) bool {
		if memberID == requesterID && tid == teacherID {
			return true
		}
		member := roster.RequesterByID(memberID)
		return member != nil && member.BlockedTeachers[tid]
	}
	for _, gid := range roster.GroupsOf(requesterID) {
		group := roster.RequesterByID(gid)
		if group == nil {
			continue
		}
		for _, subjectID := range group.Subjects {
			eligible := false
			for _, teacher := range roster.Teachers {
				if !slices.Contains(teacher.Subjects, subjectID) {
					continue
				}
				free := true
				for _, member := range group.Members {
					if blocked(member, teacher.ID) {
						free = false
						break
					}
				}
				if free {
					eligible = true
					break
				}
			}
			if !eligible {
				return &ConfigError{Field: "block", Reason: fmt.Sprintf("blocking %s would leave group %s without a teacher for %s", roster.TeacherName(teacherID), roster.RequesterName(gid), roster.SubjectName(subjectID))}
			}
		}
	}
	return nil
}

func locationPermitted(roster *Roster, requester *Requester, teacher *Teacher, locationID int) bool {
	exists := false
	for _, loc := range roster.Locations {
		if loc.ID == locationID {
			exists = true
			break
		}
	}
	if !exists {
		return false
	}
	if requester.AllowedLocations != nil && !slices.Contains(requester.AllowedLocations, locationID) {
		return false
	}
	if teacher.AllowedLocations != nil && !slices.Contains(teacher.AllowedLocations, locationID) {
		return false
	}
	return true
}
