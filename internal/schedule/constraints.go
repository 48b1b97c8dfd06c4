package schedule

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"lessonsolver/internal/pb"
)

// assembler owns the model, the variable space and the per-family bookkeeping
// while the constraint families are added. It is passed through each family
// method exclusively; no family reaches for ambient state.
type assembler struct {
	m      *pb.Model
	cfg    Config
	roster *Roster
	space  *VariableSpace

	byTeacherSlot   map[[2]int][]pb.Var
	byRequesterSlot map[[2]int][]pb.Var
	byRequester     map[int][]pb.Var
	byRequesterSubj map[[2]int][]pb.Var
	byTeacher       map[int][]pb.Var
	tripleOrder     []tripleKey
	triples         map[tripleKey]map[int]pb.Var

	// memberGroupVars maps a student id to the group lesson variables that,
	// when active, occupy the student transitively.
	memberGroupVars map[int][]groupRef

	adjacency  []pb.Var
	deviations []pb.Var
}

type tripleKey struct {
	RequesterID int
	TeacherID   int
	SubjectID   int
}

type groupRef struct {
	key CandidateKey
	v   pb.Var
}

func assemble(m *pb.Model, cfg Config, roster *Roster, space *VariableSpace) *assembler {
	a := &assembler{
		m:               m,
		cfg:             cfg,
		roster:          roster,
		space:           space,
		byTeacherSlot:   make(map[[2]int][]pb.Var),
		byRequesterSlot: make(map[[2]int][]pb.Var),
		byRequester:     make(map[int][]pb.Var),
		byRequesterSubj: make(map[[2]int][]pb.Var),
		byTeacher:       make(map[int][]pb.Var),
		triples:         make(map[tripleKey]map[int]pb.Var),
		memberGroupVars: make(map[int][]groupRef),
	}
	a.index()
	a.fixedAndExclusions()
	a.locationLayer()
	a.groupExclusivity()
	a.teacherCapacity()
	a.requesterCapacity()
	a.repeatBounds()
	a.multiTeacher()
	a.teacherLoad()
	a.loadBalance()
	a.coverageAndTotals()
	a.groupSuppression()
	return a
}

func (a *assembler) index() {
	for _, key := range a.space.Keys {
		v, _ := a.space.Var(key)
		a.byTeacherSlot[[2]int{key.TeacherID, key.Slot}] = append(a.byTeacherSlot[[2]int{key.TeacherID, key.Slot}], v)
		a.byRequesterSlot[[2]int{key.RequesterID, key.Slot}] = append(a.byRequesterSlot[[2]int{key.RequesterID, key.Slot}], v)
		a.byRequester[key.RequesterID] = append(a.byRequester[key.RequesterID], v)
		a.byRequesterSubj[[2]int{key.RequesterID, key.SubjectID}] = append(a.byRequesterSubj[[2]int{key.RequesterID, key.SubjectID}], v)
		a.byTeacher[key.TeacherID] = append(a.byTeacher[key.TeacherID], v)
		triple := tripleKey{key.RequesterID, key.TeacherID, key.SubjectID}
		if _, ok := a.triples[triple]; !ok {
			a.triples[triple] = make(map[int]pb.Var)
			a.tripleOrder = append(a.tripleOrder, triple)
		}
		a.triples[triple][key.Slot] = v
	}
}

// fixedAndExclusions forces pinned tuples on and attributable exclusions off.
// Both are gated so a core can name the pin or the exclusion responsible.
func (a *assembler) fixedAndExclusions() {
	reg := a.m.Assumptions()
	for _, key := range a.space.Keys {
		v, _ := a.space.Var(key)
		switch {
		case a.space.Fixed(key):
			guard := reg.NewLiteral(pb.KindFixedAssignment,
				fmt.Sprintf("fixed_r%d_t%d_sub%d_sl%d", key.RequesterID, key.TeacherID, key.SubjectID, key.Slot),
				pb.AssumptionContext{
					RequesterID:   ptr(key.RequesterID),
					TeacherID:     ptr(key.TeacherID),
					SubjectID:     ptr(key.SubjectID),
					Slot:          ptr(key.Slot),
					RequesterName: a.roster.RequesterName(key.RequesterID),
					TeacherName:   a.roster.TeacherName(key.TeacherID),
					SubjectName:   a.roster.SubjectName(key.SubjectID),
				})
			a.m.Add(pb.Constraint{Vars: []pb.Var{v}, Sense: pb.Equal, RHS: 1, Guard: guard})
		default:
			excl, ok := a.space.exclusions[key]
			if !ok {
				continue
			}
			var reasons []string
			if excl.Unavailable {
				reasons = append(reasons, "teacher unavailable")
			}
			if excl.Blocked {
				reasons = append(reasons, "teacher blocked")
			}
			guard := reg.NewLiteral(pb.KindTeacherAvailability,
				fmt.Sprintf("block_r%d_t%d_sl%d", key.RequesterID, key.TeacherID, key.Slot),
				pb.AssumptionContext{
					RequesterID:   ptr(key.RequesterID),
					TeacherID:     ptr(key.TeacherID),
					SubjectID:     ptr(key.SubjectID),
					Slot:          ptr(key.Slot),
					RequesterName: a.roster.RequesterName(key.RequesterID),
					TeacherName:   a.roster.TeacherName(key.TeacherID),
					SubjectName:   a.roster.SubjectName(key.SubjectID),
					Reasons:       reasons,
				})
			a.m.Add(pb.Constraint{Vars: []pb.Var{v}, Sense: pb.Equal, RHS: 0, Guard: guard})
		}
	}
}

// locationLayer ties location variables under their lesson variable and
// bounds every (location, slot) to a single lesson. Candidates without any
// permitted location are gated off under a location literal.
func (a *assembler) locationLayer() {
	reg := a.m.Assumptions()
	perKey := make(map[CandidateKey][]pb.Var)
	for _, locKey := range a.space.LocKeys {
		locVar, _ := a.space.LocVar(locKey)
		lessonVar, _ := a.space.Var(locKey.CandidateKey)
		a.m.Add(pb.Constraint{
			Vars:   []pb.Var{locVar, lessonVar},
			Coeffs: []int{1, -1},
			Sense:  pb.LessEq,
			RHS:    0,
		})
		perKey[locKey.CandidateKey] = append(perKey[locKey.CandidateKey], locVar)
	}
	for _, key := range a.space.Keys {
		locs := perKey[key]
		if len(locs) == 0 {
			continue
		}
		lessonVar, _ := a.space.Var(key)
		vars := append(append([]pb.Var(nil), locs...), lessonVar)
		coeffs := make([]int, len(vars))
		for i := range locs {
			coeffs[i] = 1
		}
		coeffs[len(coeffs)-1] = -1
		a.m.Add(pb.Constraint{Vars: vars, Coeffs: coeffs, Sense: pb.Equal, RHS: 0})
	}
	for _, key := range a.space.noLocation {
		lessonVar, _ := a.space.Var(key)
		guard := reg.NewLiteral(pb.KindLocation,
			fmt.Sprintf("no_location_r%d_t%d_sub%d_sl%d", key.RequesterID, key.TeacherID, key.SubjectID, key.Slot),
			pb.AssumptionContext{
				RequesterID:   ptr(key.RequesterID),
				TeacherID:     ptr(key.TeacherID),
				SubjectID:     ptr(key.SubjectID),
				Slot:          ptr(key.Slot),
				RequesterName: a.roster.RequesterName(key.RequesterID),
				TeacherName:   a.roster.TeacherName(key.TeacherID),
				SubjectName:   a.roster.SubjectName(key.SubjectID),
			})
		a.m.Add(pb.Constraint{Vars: []pb.Var{lessonVar}, Sense: pb.Equal, RHS: 0, Guard: guard})
	}

	byLocationSlot := make(map[[2]int][]pb.Var)
	for _, locKey := range a.space.LocKeys {
		locVar, _ := a.space.LocVar(locKey)
		slotKey := [2]int{locKey.LocationID, locKey.Slot}
		byLocationSlot[slotKey] = append(byLocationSlot[slotKey], locVar)
	}
	for _, loc := range a.roster.Locations {
		for slot := 0; slot < a.cfg.Slots; slot++ {
			if vars := byLocationSlot[[2]int{loc.ID, slot}]; len(vars) > 1 {
				a.m.Add(pb.Constraint{Vars: vars, Sense: pb.LessEq, RHS: 1})
			}
		}
	}
}

// groupExclusivity records group lesson variables against each member and
// forbids a member from holding an individual lesson for the same tuple a
// group lesson covers.
func (a *assembler) groupExclusivity() {
	for _, key := range a.space.Keys {
		requester := a.roster.RequesterByID(key.RequesterID)
		if requester == nil || !requester.Group {
			continue
		}
		groupVar, _ := a.space.Var(key)
		for _, member := range requester.Members {
			a.memberGroupVars[member] = append(a.memberGroupVars[member], groupRef{key: key, v: groupVar})
			memberKey := CandidateKey{member, key.TeacherID, key.SubjectID, key.Slot}
			if memberVar, ok := a.space.Var(memberKey); ok {
				a.m.Add(pb.Constraint{Vars: []pb.Var{memberVar, groupVar}, Sense: pb.LessEq, RHS: 1})
			}
		}
	}
}

func (a *assembler) teacherCapacity() {
	reg := a.m.Assumptions()
	for _, teacher := range a.roster.Teachers {
		for slot := 0; slot < a.cfg.Slots; slot++ {
			candidates := a.byTeacherSlot[[2]int{teacher.ID, slot}]
			if len(candidates) == 0 {
				continue
			}
			guard := reg.NewLiteral(pb.KindTeacherAvailability,
				fmt.Sprintf("teacher_slot_t%d_sl%d", teacher.ID, slot),
				pb.AssumptionContext{
					TeacherID:        ptr(teacher.ID),
					TeacherName:      a.roster.TeacherName(teacher.ID),
					Slot:             ptr(slot),
					CandidateLessons: len(candidates),
				})
			a.m.Add(pb.Constraint{Vars: candidates, Sense: pb.LessEq, RHS: 1, Guard: guard})
		}
	}
}

// requesterCapacity bounds each individual requester to one lesson per slot,
// counting group lessons against their members. Slots the requester marked
// unavailable force the remaining candidates (pins, group lessons) to zero.
func (a *assembler) requesterCapacity() {
	reg := a.m.Assumptions()
	for _, requester := range a.roster.Requesters {
		if requester.Group {
			continue
		}
		for slot := 0; slot < a.cfg.Slots; slot++ {
			candidates := append([]pb.Var(nil), a.byRequesterSlot[[2]int{requester.ID, slot}]...)
			for _, ref := range a.memberGroupVars[requester.ID] {
				if ref.key.Slot == slot {
					candidates = append(candidates, ref.v)
				}
			}
			if len(candidates) == 0 {
				continue
			}
			if requester.UnavailableSlots[slot] {
				guard := reg.NewLiteral(pb.KindStudentLimits,
					fmt.Sprintf("requester_block_r%d_sl%d", requester.ID, slot),
					pb.AssumptionContext{
						RequesterID:      ptr(requester.ID),
						RequesterName:    a.roster.RequesterName(requester.ID),
						Slot:             ptr(slot),
						CandidateLessons: len(candidates),
						Reasons:          []string{"requester unavailable"},
					})
				a.m.Add(pb.Constraint{Vars: candidates, Sense: pb.Equal, RHS: 0, Guard: guard})
				continue
			}
			guard := reg.NewLiteral(pb.KindStudentLimits,
				fmt.Sprintf("requester_slot_r%d_sl%d", requester.ID, slot),
				pb.AssumptionContext{
					RequesterID:      ptr(requester.ID),
					RequesterName:    a.roster.RequesterName(requester.ID),
					Slot:             ptr(slot),
					CandidateLessons: len(candidates),
				})
			a.m.Add(pb.Constraint{Vars: candidates, Sense: pb.LessEq, RHS: 1, Guard: guard})
		}
	}
}

// repeatBounds caps every (requester, teacher, subject) triple at its repeat
// limit and adds the no-consecutive gaps and the consecutive-preference
// auxiliaries where the policy asks for them.
func (a *assembler) repeatBounds() {
	reg := a.m.Assumptions()
	for _, triple := range a.tripleOrder {
		requester := a.roster.RequesterByID(triple.RequesterID)
		allowRep := a.cfg.AllowRepeats
		maxRep := a.cfg.MaxRepeats
		allowCons := a.cfg.AllowConsecutive
		preferCons := a.cfg.PreferConsecutive
		var repeatSubjects []int
		if rp := requester.Repeat; rp != nil {
			allowRep = resolve(rp.AllowRepeats, allowRep)
			maxRep = resolve(rp.MaxRepeats, maxRep)
			allowCons = resolve(rp.AllowConsecutive, allowCons)
			preferCons = resolve(rp.PreferConsecutive, preferCons)
			repeatSubjects = rp.RepeatSubjects
		}
		limit := 1
		if allowRep {
			limit = maxRep
		}
		if repeatSubjects != nil && !lo.Contains(repeatSubjects, triple.SubjectID) {
			limit = 1
		}

		slotVars := a.triples[triple]
		vars := make([]pb.Var, 0, len(slotVars))
		for slot := 0; slot < a.cfg.Slots; slot++ {
			if v, ok := slotVars[slot]; ok {
				vars = append(vars, v)
			}
		}
		guard := reg.NewLiteral(pb.KindRepeatBounds,
			fmt.Sprintf("repeat_total_r%d_t%d_sub%d", triple.RequesterID, triple.TeacherID, triple.SubjectID),
			pb.AssumptionContext{
				RequesterID:   ptr(triple.RequesterID),
				TeacherID:     ptr(triple.TeacherID),
				SubjectID:     ptr(triple.SubjectID),
				RequesterName: a.roster.RequesterName(triple.RequesterID),
				TeacherName:   a.roster.TeacherName(triple.TeacherID),
				SubjectName:   a.roster.SubjectName(triple.SubjectID),
				RepeatLimit:   ptr(limit),
			})
		a.m.Add(pb.Constraint{Vars: vars, Sense: pb.LessEq, RHS: limit, Guard: guard})

		if !allowCons && limit > 1 {
			for slot := 0; slot < a.cfg.Slots-1; slot++ {
				v1, ok1 := slotVars[slot]
				v2, ok2 := slotVars[slot+1]
				if !ok1 || !ok2 {
					continue
				}
				gap := reg.NewLiteral(pb.KindRepeatBounds,
					fmt.Sprintf("repeat_gap_r%d_t%d_sub%d_sl%d", triple.RequesterID, triple.TeacherID, triple.SubjectID, slot),
					pb.AssumptionContext{
						RequesterID:   ptr(triple.RequesterID),
						TeacherID:     ptr(triple.TeacherID),
						SubjectID:     ptr(triple.SubjectID),
						RequesterName: a.roster.RequesterName(triple.RequesterID),
						TeacherName:   a.roster.TeacherName(triple.TeacherID),
						SubjectName:   a.roster.SubjectName(triple.SubjectID),
						Slot:          ptr(slot),
						Reasons:       []string{"no consecutive repeats"},
					})
				a.m.Add(pb.Constraint{Vars: []pb.Var{v1, v2}, Sense: pb.LessEq, RHS: 1, Guard: gap})
			}
		}

		if preferCons && allowCons && limit > 1 {
			for slot := 0; slot < a.cfg.Slots-1; slot++ {
				v1, ok1 := slotVars[slot]
				v2, ok2 := slotVars[slot+1]
				if !ok1 || !ok2 {
					continue
				}
				adj := a.m.NewVar()
				a.m.Add(pb.Constraint{Vars: []pb.Var{adj, v1}, Coeffs: []int{1, -1}, Sense: pb.LessEq, RHS: 0})
				a.m.Add(pb.Constraint{Vars: []pb.Var{adj, v2}, Coeffs: []int{1, -1}, Sense: pb.LessEq, RHS: 0})
				a.m.Add(pb.Constraint{Vars: []pb.Var{adj, v1, v2}, Coeffs: []int{1, -1, -1}, Sense: pb.GreaterEq, RHS: -1})
				a.adjacency = append(a.adjacency, adj)
			}
		}
	}
}

// multiTeacher restricts a requester to one teacher per subject through one
// activity indicator per teacher.
func (a *assembler) multiTeacher() {
	reg := a.m.Assumptions()
	type subjectKey struct {
		RequesterID int
		SubjectID   int
	}
	var order []subjectKey
	teacherOrder := make(map[subjectKey][]int)
	grouped := make(map[subjectKey]map[int][]pb.Var)
	for _, key := range a.space.Keys {
		requester := a.roster.RequesterByID(key.RequesterID)
		if resolve(requester.MultiTeacher, a.cfg.AllowMultiTeacher) {
			continue
		}
		sk := subjectKey{key.RequesterID, key.SubjectID}
		if _, ok := grouped[sk]; !ok {
			grouped[sk] = make(map[int][]pb.Var)
			order = append(order, sk)
		}
		if _, ok := grouped[sk][key.TeacherID]; !ok {
			teacherOrder[sk] = append(teacherOrder[sk], key.TeacherID)
		}
		v, _ := a.space.Var(key)
		grouped[sk][key.TeacherID] = append(grouped[sk][key.TeacherID], v)
	}
	for _, sk := range order {
		teacherIDs := teacherOrder[sk]
		if len(teacherIDs) <= 1 {
			continue
		}
		yVars := make([]pb.Var, 0, len(teacherIDs))
		for _, tid := range teacherIDs {
			y := a.m.NewVar()
			vars := grouped[sk][tid]
			for _, v := range vars {
				a.m.Add(pb.Constraint{Vars: []pb.Var{v, y}, Coeffs: []int{1, -1}, Sense: pb.LessEq, RHS: 0})
			}
			sum := append([]pb.Var{y}, vars...)
			coeffs := make([]int, len(sum))
			coeffs[0] = 1
			for i := 1; i < len(coeffs); i++ {
				coeffs[i] = -1
			}
			a.m.Add(pb.Constraint{Vars: sum, Coeffs: coeffs, Sense: pb.LessEq, RHS: 0})
			yVars = append(yVars, y)
		}
		guard := reg.NewLiteral(pb.KindRepeatBounds,
			fmt.Sprintf("multi_teacher_r%d_sub%d", sk.RequesterID, sk.SubjectID),
			pb.AssumptionContext{
				RequesterID:   ptr(sk.RequesterID),
				SubjectID:     ptr(sk.SubjectID),
				RequesterName: a.roster.RequesterName(sk.RequesterID),
				SubjectName:   a.roster.SubjectName(sk.SubjectID),
				TeacherIDs:    append([]int(nil), teacherIDs...),
			})
		a.m.Add(pb.Constraint{Vars: yVars, Sense: pb.LessEq, RHS: 1, Guard: guard})
	}
}

func (a *assembler) teacherLoad() {
	reg := a.m.Assumptions()
	for _, teacher := range a.roster.Teachers {
		vars := a.byTeacher[teacher.ID]
		min := resolve(teacher.MinLessons, a.cfg.TeacherMinLessons)
		if min > 0 {
			guard := reg.NewLiteral(pb.KindTeacherLimits,
				fmt.Sprintf("teacher_min_t%d", teacher.ID),
				pb.AssumptionContext{
					TeacherID:   ptr(teacher.ID),
					TeacherName: a.roster.TeacherName(teacher.ID),
					MinLessons:  ptr(min),
				})
			a.m.Add(pb.Constraint{Vars: vars, Sense: pb.GreaterEq, RHS: min, Guard: guard})
		}
		max := teacher.MaxLessons
		if max == nil {
			max = a.cfg.TeacherMaxLessons
		}
		if max != nil {
			guard := reg.NewLiteral(pb.KindTeacherLimits,
				fmt.Sprintf("teacher_max_t%d", teacher.ID),
				pb.AssumptionContext{
					TeacherID:   ptr(teacher.ID),
					TeacherName: a.roster.TeacherName(teacher.ID),
					MaxLessons:  ptr(*max),
				})
			a.m.Add(pb.Constraint{Vars: vars, Sense: pb.LessEq, RHS: *max, Guard: guard})
		}
	}
}

// loadBalance bounds the load difference of every ordered teacher pair by a
// shared set of unary deviation bits; the objective prices each bit with the
// balance weight.
func (a *assembler) loadBalance() {
	if !a.cfg.BalanceTeacherLoad || len(a.roster.Teachers) < 2 {
		return
	}
	bits := make([]pb.Var, a.cfg.Slots)
	for i := range bits {
		bits[i] = a.m.NewVar()
	}
	a.deviations = bits
	for i := range a.roster.Teachers {
		for j := range a.roster.Teachers {
			if i == j {
				continue
			}
			high := a.byTeacher[a.roster.Teachers[i].ID]
			low := a.byTeacher[a.roster.Teachers[j].ID]
			vars := make([]pb.Var, 0, len(high)+len(low)+len(bits))
			coeffs := make([]int, 0, cap(vars))
			for _, v := range high {
				vars = append(vars, v)
				coeffs = append(coeffs, 1)
			}
			for _, v := range low {
				vars = append(vars, v)
				coeffs = append(coeffs, -1)
			}
			for _, v := range bits {
				vars = append(vars, v)
				coeffs = append(coeffs, -1)
			}
			a.m.Add(pb.Constraint{Vars: vars, Coeffs: coeffs, Sense: pb.LessEq, RHS: 0})
		}
	}
}

// coverageAndTotals enforces subject completeness and the per-requester total
// lesson bounds, counting group lessons toward their members.
func (a *assembler) coverageAndTotals() {
	reg := a.m.Assumptions()
	for _, requester := range a.roster.Requesters {
		if requester.Group {
			continue
		}
		var totals []pb.Var
		seen := make(map[pb.Var]bool)
		addTotal := func(v pb.Var) {
			if !seen[v] {
				seen[v] = true
				totals = append(totals, v)
			}
		}
		for _, subjectID := range sortedInts(requester.Subjects) {
			candidates := append([]pb.Var(nil), a.byRequesterSubj[[2]int{requester.ID, subjectID}]...)
			for _, ref := range a.memberGroupVars[requester.ID] {
				if ref.key.SubjectID == subjectID {
					candidates = append(candidates, ref.v)
				}
			}
			if len(candidates) == 0 {
				continue
			}
			if a.cfg.RequireAllSubjects {
				guard := reg.NewLiteral(pb.KindStudentLimits,
					fmt.Sprintf("requester_subject_r%d_sub%d", requester.ID, subjectID),
					pb.AssumptionContext{
						RequesterID:      ptr(requester.ID),
						RequesterName:    a.roster.RequesterName(requester.ID),
						SubjectID:        ptr(subjectID),
						SubjectName:      a.roster.SubjectName(subjectID),
						CandidateLessons: len(candidates),
					})
				a.m.Add(pb.Constraint{Vars: candidates, Sense: pb.GreaterEq, RHS: 1, Guard: guard})
			}
			for _, v := range candidates {
				addTotal(v)
			}
		}
		for _, ref := range a.memberGroupVars[requester.ID] {
			addTotal(ref.v)
		}
		if len(totals) == 0 {
			continue
		}
		min := a.cfg.MinLessons
		max := a.cfg.MaxLessons
		if requester.Limits != nil {
			min = requester.Limits.Min
			max = requester.Limits.Max
		}
		guard := reg.NewLiteral(pb.KindStudentLimits,
			fmt.Sprintf("requester_min_r%d", requester.ID),
			pb.AssumptionContext{
				RequesterID:      ptr(requester.ID),
				RequesterName:    a.roster.RequesterName(requester.ID),
				MinLessons:       ptr(min),
				MaxLessons:       max,
				CandidateLessons: len(totals),
			})
		a.m.Add(pb.Constraint{Vars: totals, Sense: pb.GreaterEq, RHS: min, Guard: guard})
		if max != nil {
			guardMax := reg.NewLiteral(pb.KindStudentLimits,
				fmt.Sprintf("requester_max_r%d", requester.ID),
				pb.AssumptionContext{
					RequesterID:      ptr(requester.ID),
					RequesterName:    a.roster.RequesterName(requester.ID),
					MinLessons:       ptr(min),
					MaxLessons:       max,
					CandidateLessons: len(totals),
				})
			a.m.Add(pb.Constraint{Vars: totals, Sense: pb.LessEq, RHS: *max, Guard: guardMax})
		}
	}
}

// groupSuppression turns all of a group's lesson variables off when group
// scheduling is disabled by weight 0. Members keep their individual
// variables, so a schedule can still fall back to one-on-one lessons.
func (a *assembler) groupSuppression() {
	if a.cfg.GroupWeight != 0 {
		return
	}
	reg := a.m.Assumptions()
	for _, requester := range a.roster.Requesters {
		if !requester.Group {
			continue
		}
		vars := a.byRequester[requester.ID]
		if len(vars) == 0 {
			continue
		}
		guard := reg.NewLiteral(pb.KindGroupRequirements,
			fmt.Sprintf("group_suppressed_r%d", requester.ID),
			pb.AssumptionContext{
				RequesterID:   ptr(requester.ID),
				RequesterName: a.roster.RequesterName(requester.ID),
				Group:         true,
				Reasons:       []string{"group lessons disabled"},
			})
		a.m.Add(pb.Constraint{Vars: vars, Sense: pb.Equal, RHS: 0, Guard: guard})
	}
}

func ptr[T any](v T) *T { return &v }

func sortedInts(values []int) []int {
	out := append([]int(nil), values...)
	sort.Ints(out)
	return out
}
