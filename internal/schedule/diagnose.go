package schedule

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"lessonsolver/internal/pb"
)

// Summary categories. Each aggregated summary carries exactly one.
const (
	CategoryCapacity = "capacity"
	CategoryBlock    = "block"
	CategoryBounds   = "bounds"
	CategoryCoverage = "coverage"
	CategoryRepeat   = "repeat"
	CategoryLocation = "location"
	CategoryFixed    = "fixed"
)

// Summary aggregates the unsat-core entries sharing (kind, primary id) into
// one operator-facing explanation. Id fields are 0 when not applicable.
type Summary struct {
	Kind              pb.AssumptionKind
	Category          string
	Aggregated        bool
	TeacherID         int
	RequesterID       int
	SubjectID         int
	Slots             []int
	CandidatesPerSlot map[int]int
	Pairs             []string
	Reasons           []string
	MinLessons        *int
	MaxLessons        *int
	RepeatLimit       *int
	Message           string
}

// Messages flattens summaries into their rendered sentences.
func Messages(summaries []Summary) []string {
	messages := make([]string, 0, len(summaries))
	for _, s := range summaries {
		messages = append(messages, s.Message)
	}
	return messages
}

// SummarizeCore aggregates raw core entries per (kind, primary id) and
// renders one sentence per summary. The switch over kinds is exhaustive;
// adding a kind without a summary arm is a compile-time-visible omission.
func SummarizeCore(core []pb.AssumptionInfo) []Summary {
	var summaries []Summary
	summaries = append(summaries, summarizeTeacherAvailability(filterKind(core, pb.KindTeacherAvailability))...)
	summaries = append(summaries, summarizeTeacherLimits(filterKind(core, pb.KindTeacherLimits))...)
	summaries = append(summaries, summarizeRequesterLimits(filterKind(core, pb.KindStudentLimits))...)
	summaries = append(summaries, summarizeGroups(filterKind(core, pb.KindGroupRequirements))...)
	summaries = append(summaries, summarizeRepeats(filterKind(core, pb.KindRepeatBounds))...)
	summaries = append(summaries, summarizeLocations(filterKind(core, pb.KindLocation))...)
	summaries = append(summaries, summarizeFixed(filterKind(core, pb.KindFixedAssignment))...)
	return summaries
}

func filterKind(core []pb.AssumptionInfo, kind pb.AssumptionKind) []pb.AssumptionInfo {
	var filtered []pb.AssumptionInfo
	for _, info := range core {
		if info.Kind == kind {
			filtered = append(filtered, info)
		}
	}
	return filtered
}

// groupByID partitions entries by the id selected from their context while
// preserving first-appearance order.
func groupByID(entries []pb.AssumptionInfo, id func(pb.AssumptionContext) int) ([]int, map[int][]pb.AssumptionInfo) {
	var order []int
	grouped := make(map[int][]pb.AssumptionInfo)
	for _, entry := range entries {
		key := id(entry.Context)
		if _, ok := grouped[key]; !ok {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], entry)
	}
	return order, grouped
}

func summarizeTeacherAvailability(entries []pb.AssumptionInfo) []Summary {
	order, grouped := groupByID(entries, func(ctx pb.AssumptionContext) int { return derefOr(ctx.TeacherID, 0) })
	var summaries []Summary
	for _, teacherID := range order {
		group := grouped[teacherID]
		teacherName := group[0].Context.TeacherName

		slotSet := make(map[int]bool)
		counts := make(map[int]int)
		var pairs []string
		var blockParts []string
		var reasons []string
		for _, entry := range group {
			ctx := entry.Context
			if ctx.Slot != nil {
				slotSet[*ctx.Slot] = true
			}
			if ctx.RequesterID == nil {
				if ctx.Slot != nil && ctx.CandidateLessons > 0 {
					counts[*ctx.Slot] = ctx.CandidateLessons
				}
				continue
			}
			pair := fmt.Sprintf("%s (%s)", ctx.RequesterName, ctx.SubjectName)
			pairs = append(pairs, pair)
			reason := strings.Join(ctx.Reasons, ", ")
			reasons = append(reasons, ctx.Reasons...)
			blockParts = append(blockParts, fmt.Sprintf("%s in slot %d (%s)", pair, derefOr(ctx.Slot, 0), reason))
		}

		slots := sortedKeys(slotSet)
		capacity := Summary{
			Kind:              pb.KindTeacherAvailability,
			Category:          CategoryCapacity,
			Aggregated:        true,
			TeacherID:         teacherID,
			Slots:             slots,
			CandidatesPerSlot: counts,
			Pairs:             pairs,
		}
		msg := fmt.Sprintf("Teacher %s has conflicts in slots %s", teacherName, joinInts(slots))
		if len(pairs) > 0 {
			msg += fmt.Sprintf(" involving %s", strings.Join(pairs, ", "))
		}
		capacity.Message = msg + "."
		summaries = append(summaries, capacity)

		if len(blockParts) > 0 {
			summaries = append(summaries, Summary{
				Kind:       pb.KindTeacherAvailability,
				Category:   CategoryBlock,
				Aggregated: true,
				TeacherID:  teacherID,
				Slots:      slots,
				Pairs:      pairs,
				Reasons:    reasons,
				Message:    fmt.Sprintf("Teacher %s cannot teach %s.", teacherName, strings.Join(blockParts, "; ")),
			})
		}
	}
	return summaries
}

func summarizeTeacherLimits(entries []pb.AssumptionInfo) []Summary {
	order, grouped := groupByID(entries, func(ctx pb.AssumptionContext) int { return derefOr(ctx.TeacherID, 0) })
	var summaries []Summary
	for _, teacherID := range order {
		group := grouped[teacherID]
		summary := Summary{
			Kind:       pb.KindTeacherLimits,
			Category:   CategoryBounds,
			Aggregated: true,
			TeacherID:  teacherID,
		}
		var bounds []string
		for _, entry := range group {
			if entry.Context.MinLessons != nil {
				summary.MinLessons = entry.Context.MinLessons
				bounds = append(bounds, fmt.Sprintf("at least %d", *entry.Context.MinLessons))
			}
			if entry.Context.MaxLessons != nil {
				summary.MaxLessons = entry.Context.MaxLessons
				bounds = append(bounds, fmt.Sprintf("at most %d", *entry.Context.MaxLessons))
			}
		}
		summary.Message = fmt.Sprintf("Teacher %s cannot meet the lesson limits (%s).",
			group[0].Context.TeacherName, strings.Join(bounds, ", "))
		summaries = append(summaries, summary)
	}
	return summaries
}

func summarizeRequesterLimits(entries []pb.AssumptionInfo) []Summary {
	order, grouped := groupByID(entries, func(ctx pb.AssumptionContext) int { return derefOr(ctx.RequesterID, 0) })
	var summaries []Summary
	for _, requesterID := range order {
		group := grouped[requesterID]
		name := group[0].Context.RequesterName

		slotSet := make(map[int]bool)
		counts := make(map[int]int)
		var slotReasons []string
		var bound *pb.AssumptionContext
		var coverage []pb.AssumptionContext
		for i := range group {
			ctx := group[i].Context
			switch {
			case ctx.Slot != nil:
				slotSet[*ctx.Slot] = true
				if ctx.CandidateLessons > 0 {
					counts[*ctx.Slot] = ctx.CandidateLessons
				}
				slotReasons = append(slotReasons, ctx.Reasons...)
			case ctx.MinLessons != nil || ctx.MaxLessons != nil:
				bound = &group[i].Context
			case ctx.SubjectID != nil:
				coverage = append(coverage, ctx)
			}
		}

		if len(slotSet) > 0 {
			slots := sortedKeys(slotSet)
			msg := fmt.Sprintf("Student %s has conflicts in slots %s (candidates per slot: %s)",
				name, joinInts(slots), joinCounts(counts))
			if len(slotReasons) > 0 {
				msg += fmt.Sprintf("; %s", strings.Join(lo.Uniq(slotReasons), ", "))
			}
			summaries = append(summaries, Summary{
				Kind:              pb.KindStudentLimits,
				Category:          CategoryCapacity,
				Aggregated:        true,
				RequesterID:       requesterID,
				Slots:             slots,
				CandidatesPerSlot: counts,
				Reasons:           lo.Uniq(slotReasons),
				Message:           msg + ".",
			})
		}
		if bound != nil {
			var bounds []string
			if bound.MinLessons != nil {
				bounds = append(bounds, fmt.Sprintf("at least %d", *bound.MinLessons))
			}
			if bound.MaxLessons != nil {
				bounds = append(bounds, fmt.Sprintf("at most %d", *bound.MaxLessons))
			}
			summaries = append(summaries, Summary{
				Kind:        pb.KindStudentLimits,
				Category:    CategoryBounds,
				Aggregated:  true,
				RequesterID: requesterID,
				MinLessons:  bound.MinLessons,
				MaxLessons:  bound.MaxLessons,
				Message: fmt.Sprintf("Student %s cannot fit the required number of lessons (%s) with %d candidate lessons.",
					name, strings.Join(bounds, ", "), bound.CandidateLessons),
			})
		}
		for _, ctx := range coverage {
			summaries = append(summaries, Summary{
				Kind:        pb.KindStudentLimits,
				Category:    CategoryCoverage,
				Aggregated:  true,
				RequesterID: requesterID,
				SubjectID:   derefOr(ctx.SubjectID, 0),
				Message:     fmt.Sprintf("Student %s has no remaining way to receive %s.", name, ctx.SubjectName),
			})
		}
	}
	return summaries
}

func summarizeGroups(entries []pb.AssumptionInfo) []Summary {
	order, grouped := groupByID(entries, func(ctx pb.AssumptionContext) int { return derefOr(ctx.RequesterID, 0) })
	var summaries []Summary
	for _, requesterID := range order {
		group := grouped[requesterID]
		summaries = append(summaries, Summary{
			Kind:        pb.KindGroupRequirements,
			Category:    CategoryBounds,
			Aggregated:  true,
			RequesterID: requesterID,
			Reasons:     group[0].Context.Reasons,
			Message: fmt.Sprintf("Group %s cannot be scheduled: %s.",
				group[0].Context.RequesterName, strings.Join(group[0].Context.Reasons, ", ")),
		})
	}
	return summaries
}

func summarizeRepeats(entries []pb.AssumptionInfo) []Summary {
	order, grouped := groupByID(entries, func(ctx pb.AssumptionContext) int { return derefOr(ctx.RequesterID, 0) })
	var summaries []Summary
	for _, requesterID := range order {
		group := grouped[requesterID]
		summary := Summary{
			Kind:        pb.KindRepeatBounds,
			Category:    CategoryRepeat,
			Aggregated:  true,
			RequesterID: requesterID,
		}
		var parts []string
		for _, entry := range group {
			ctx := entry.Context
			switch {
			case len(ctx.TeacherIDs) > 0:
				parts = append(parts, fmt.Sprintf("%s is restricted to a single teacher (of %s)",
					ctx.SubjectName, joinInts(ctx.TeacherIDs)))
			case len(ctx.Reasons) > 0:
				parts = append(parts, fmt.Sprintf("%s with %s may not repeat in consecutive slots",
					ctx.SubjectName, ctx.TeacherName))
			default:
				summary.RepeatLimit = ctx.RepeatLimit
				parts = append(parts, fmt.Sprintf("%s with %s is capped at %d lessons",
					ctx.SubjectName, ctx.TeacherName, derefOr(ctx.RepeatLimit, 1)))
			}
		}
		summary.Message = fmt.Sprintf("Repeat restrictions for %s conflict: %s.",
			group[0].Context.RequesterName, strings.Join(lo.Uniq(parts), "; "))
		summaries = append(summaries, summary)
	}
	return summaries
}

func summarizeLocations(entries []pb.AssumptionInfo) []Summary {
	order, grouped := groupByID(entries, func(ctx pb.AssumptionContext) int { return derefOr(ctx.RequesterID, 0) })
	var summaries []Summary
	for _, requesterID := range order {
		group := grouped[requesterID]
		slotSet := make(map[int]bool)
		for _, entry := range group {
			if entry.Context.Slot != nil {
				slotSet[*entry.Context.Slot] = true
			}
		}
		slots := sortedKeys(slotSet)
		summaries = append(summaries, Summary{
			Kind:        pb.KindLocation,
			Category:    CategoryLocation,
			Aggregated:  true,
			RequesterID: requesterID,
			Slots:       slots,
			Message: fmt.Sprintf("No permitted location exists for %s with %s in slots %s.",
				group[0].Context.RequesterName, group[0].Context.TeacherName, joinInts(slots)),
		})
	}
	return summaries
}

func summarizeFixed(entries []pb.AssumptionInfo) []Summary {
	var summaries []Summary
	for _, entry := range entries {
		ctx := entry.Context
		summaries = append(summaries, Summary{
			Kind:        pb.KindFixedAssignment,
			Category:    CategoryFixed,
			Aggregated:  true,
			RequesterID: derefOr(ctx.RequesterID, 0),
			TeacherID:   derefOr(ctx.TeacherID, 0),
			SubjectID:   derefOr(ctx.SubjectID, 0),
			Slots:       []int{derefOr(ctx.Slot, 0)},
			Message: fmt.Sprintf("The fixed lesson for %s with %s (%s) in slot %d cannot be honored.",
				ctx.RequesterName, ctx.TeacherName, ctx.SubjectName, derefOr(ctx.Slot, 0)),
		})
	}
	return summaries
}

// AnalyzeInfeasibility is the heuristic fallback used when no core is
// available: it independently checks availability against minimum loads,
// fixed lessons against maximum loads, and per-subject teacher existence.
func AnalyzeInfeasibility(cfg Config, roster *Roster, fixed []FixedAssignment) []string {
	var hints []string

	fixedPerTeacher := make(map[int]int)
	for _, f := range fixed {
		fixedPerTeacher[f.TeacherID]++
	}
	for _, teacher := range roster.Teachers {
		available := cfg.Slots - len(teacher.UnavailableSlots)
		minRequired := resolve(teacher.MinLessons, cfg.TeacherMinLessons)
		if available < minRequired {
			hints = append(hints, fmt.Sprintf("Teacher %s has only %d available slots but must give at least %d lessons.",
				roster.TeacherName(teacher.ID), available, minRequired))
		}
		max := teacher.MaxLessons
		if max == nil {
			max = cfg.TeacherMaxLessons
		}
		if max != nil && fixedPerTeacher[teacher.ID] > *max {
			hints = append(hints, fmt.Sprintf("Teacher %s has %d fixed lessons but may give at most %d.",
				roster.TeacherName(teacher.ID), fixedPerTeacher[teacher.ID], *max))
		}
	}

	for _, requester := range roster.Requesters {
		if requester.Group {
			continue
		}
		for _, subjectID := range sortedInts(requester.Subjects) {
			if hasReachableTeacher(cfg, roster, &requester, subjectID) {
				continue
			}
			hints = append(hints, fmt.Sprintf("Student %s has no qualified and available teacher for %s.",
				roster.RequesterName(requester.ID), roster.SubjectName(subjectID)))
		}
	}

	if len(hints) == 0 {
		hints = append(hints, "The configuration is too restrictive; no single cause could be identified.")
	}
	return hints
}

func hasReachableTeacher(cfg Config, roster *Roster, requester *Requester, subjectID int) bool {
	for _, teacher := range roster.Teachers {
		if !lo.Contains(teacher.Subjects, subjectID) || requester.BlockedTeachers[teacher.ID] {
			continue
		}
		for slot := 0; slot < cfg.Slots; slot++ {
			if !teacher.UnavailableSlots[slot] && !requester.UnavailableSlots[slot] {
				return true
			}
		}
	}
	return false
}

func derefOr(v *int, fallback int) int {
	if v != nil {
		return *v
	}
	return fallback
}

func sortedKeys(set map[int]bool) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

func joinCounts(counts map[int]int) string {
	slots := sortedKeys(toBoolSet(counts))
	parts := make([]string, len(slots))
	for i, slot := range slots {
		parts[i] = fmt.Sprintf("%d: %d", slot, counts[slot])
	}
	return strings.Join(parts, ", ")
}

func toBoolSet(counts map[int]int) map[int]bool {
	set := make(map[int]bool, len(counts))
	for k := range counts {
		set[k] = true
	}
	return set
}
