package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lessonsolver/internal/pb"
)

func slotEntry(teacherID, slot, candidates int) pb.AssumptionInfo {
	return pb.AssumptionInfo{
		Kind:  pb.KindTeacherAvailability,
		Label: "teacher_slot",
		Context: pb.AssumptionContext{
			TeacherID:        ptr(teacherID),
			TeacherName:      "Alice",
			Slot:             ptr(slot),
			CandidateLessons: candidates,
		},
	}
}

func blockEntry(teacherID, requesterID, slot int, requester, subject, reason string) pb.AssumptionInfo {
	return pb.AssumptionInfo{
		Kind:  pb.KindTeacherAvailability,
		Label: "block",
		Context: pb.AssumptionContext{
			TeacherID:     ptr(teacherID),
			TeacherName:   "Alice",
			RequesterID:   ptr(requesterID),
			RequesterName: requester,
			SubjectName:   subject,
			Slot:          ptr(slot),
			Reasons:       []string{reason},
		},
	}
}

func TestTeacherConflictsCollapseIntoTwoSummaries(t *testing.T) {
	// Arrange: one teacher, two capacity entries and two block entries.
	core := []pb.AssumptionInfo{
		slotEntry(1, 0, 2),
		slotEntry(1, 1, 2),
		blockEntry(1, 2, 0, "Bob", "Math", "teacher unavailable"),
		blockEntry(1, 3, 1, "Carol", "English", "teacher blocked"),
	}

	// Act
	summaries := SummarizeCore(core)

	// Assert: one aggregated capacity summary plus one block summary, never
	// one message per raw core entry.
	require.Len(t, summaries, 2)
	capacity, block := summaries[0], summaries[1]

	assert.Equal(t, CategoryCapacity, capacity.Category)
	assert.True(t, capacity.Aggregated)
	assert.Equal(t, []int{0, 1}, capacity.Slots)
	assert.Contains(t, capacity.Message, "Teacher Alice")
	assert.Contains(t, capacity.Message, "has conflicts")
	assert.Contains(t, capacity.Message, "slots 0, 1")
	assert.Contains(t, capacity.Message, "Bob (Math)")
	assert.Contains(t, capacity.Message, "Carol (English)")

	assert.Equal(t, CategoryBlock, block.Category)
	assert.Contains(t, block.Message, "cannot teach")
	assert.Contains(t, block.Message, "teacher unavailable")
	assert.Contains(t, block.Message, "teacher blocked")
}

func TestStudentSlotConflictsAggregateWithCandidateCounts(t *testing.T) {
	// Arrange
	core := []pb.AssumptionInfo{
		{
			Kind: pb.KindStudentLimits,
			Context: pb.AssumptionContext{
				RequesterID:      ptr(7),
				RequesterName:    "Bob",
				Slot:             ptr(0),
				CandidateLessons: 2,
			},
		},
		{
			Kind: pb.KindStudentLimits,
			Context: pb.AssumptionContext{
				RequesterID:      ptr(7),
				RequesterName:    "Bob",
				Slot:             ptr(1),
				CandidateLessons: 3,
			},
		},
	}

	// Act
	summaries := SummarizeCore(core)

	// Assert
	require.Len(t, summaries, 1)
	s := summaries[0]
	assert.Equal(t, CategoryCapacity, s.Category)
	assert.Equal(t, 7, s.RequesterID)
	assert.Contains(t, s.Message, "Student Bob")
	assert.Contains(t, s.Message, "slots 0, 1")
	assert.Contains(t, s.Message, "0: 2")
	assert.Contains(t, s.Message, "1: 3")
}

func TestStudentBoundAndCoverageSummaries(t *testing.T) {
	core := []pb.AssumptionInfo{
		{
			Kind: pb.KindStudentLimits,
			Context: pb.AssumptionContext{
				RequesterID:      ptr(1),
				RequesterName:    "Ada",
				MinLessons:       ptr(2),
				CandidateLessons: 1,
			},
		},
		{
			Kind: pb.KindStudentLimits,
			Context: pb.AssumptionContext{
				RequesterID:   ptr(1),
				RequesterName: "Ada",
				SubjectID:     ptr(5),
				SubjectName:   "Physics",
			},
		},
	}

	// Act
	summaries := SummarizeCore(core)

	// Assert
	require.Len(t, summaries, 2)
	assert.Equal(t, CategoryBounds, summaries[0].Category)
	assert.Contains(t, summaries[0].Message, "at least 2")
	assert.Contains(t, summaries[0].Message, "1 candidate lessons")
	assert.Equal(t, CategoryCoverage, summaries[1].Category)
	assert.Equal(t, 5, summaries[1].SubjectID)
	assert.Contains(t, summaries[1].Message, "no remaining way to receive Physics")
}

func TestRepeatSummariesCoverAllThreeShapes(t *testing.T) {
	core := []pb.AssumptionInfo{
		{
			Kind: pb.KindRepeatBounds,
			Context: pb.AssumptionContext{
				RequesterID:   ptr(1),
				RequesterName: "Ada",
				SubjectName:   "Math",
				TeacherIDs:    []int{1, 2},
			},
		},
		{
			Kind: pb.KindRepeatBounds,
			Context: pb.AssumptionContext{
				RequesterID:   ptr(1),
				RequesterName: "Ada",
				TeacherName:   "Grace",
				SubjectName:   "Math",
				Reasons:       []string{"no consecutive repeats"},
			},
		},
		{
			Kind: pb.KindRepeatBounds,
			Context: pb.AssumptionContext{
				RequesterID:   ptr(1),
				RequesterName: "Ada",
				TeacherName:   "Grace",
				SubjectName:   "Math",
				RepeatLimit:   ptr(2),
			},
		},
	}

	// Act
	summaries := SummarizeCore(core)

	// Assert
	require.Len(t, summaries, 1)
	s := summaries[0]
	assert.Equal(t, CategoryRepeat, s.Category)
	assert.Contains(t, s.Message, "restricted to a single teacher")
	assert.Contains(t, s.Message, "may not repeat in consecutive slots")
	assert.Contains(t, s.Message, "capped at 2 lessons")
}

func TestFixedAndLocationSummaries(t *testing.T) {
	core := []pb.AssumptionInfo{
		{
			Kind: pb.KindFixedAssignment,
			Context: pb.AssumptionContext{
				RequesterID:   ptr(1),
				RequesterName: "Ada",
				TeacherID:     ptr(2),
				TeacherName:   "Grace",
				SubjectName:   "Math",
				Slot:          ptr(3),
			},
		},
		{
			Kind: pb.KindLocation,
			Context: pb.AssumptionContext{
				RequesterID:   ptr(1),
				RequesterName: "Ada",
				TeacherName:   "Grace",
				Slot:          ptr(0),
			},
		},
	}

	// Act
	summaries := SummarizeCore(core)

	// Assert: location summaries render before fixed ones.
	require.Len(t, summaries, 2)
	assert.Equal(t, CategoryLocation, summaries[0].Category)
	assert.Contains(t, summaries[0].Message, "No permitted location")
	assert.Equal(t, CategoryFixed, summaries[1].Category)
	assert.Contains(t, summaries[1].Message, "slot 3 cannot be honored")
}

func TestMessagesFlattenSummaries(t *testing.T) {
	summaries := []Summary{{Message: "a."}, {Message: "b."}}

	assert.Equal(t, []string{"a.", "b."}, Messages(summaries))
}

func TestAnalyzeFlagsTeacherAvailabilityBelowMinimum(t *testing.T) {
	cfg := testConfig(2)
	cfg.TeacherMinLessons = 2
	roster := mathRoster(map[int]bool{0: true})

	hints := AnalyzeInfeasibility(cfg, roster, nil)

	require.NotEmpty(t, hints)
	assert.Contains(t, hints[0], "Teacher Grace")
	assert.Contains(t, hints[0], "only 1 available slots")
	assert.Contains(t, hints[0], "at least 2")
}

func TestAnalyzeFlagsFixedLessonsAboveMaximum(t *testing.T) {
	cfg := testConfig(3)
	cfg.TeacherMaxLessons = ptr(1)
	roster := mathRoster(nil)
	fixed := []FixedAssignment{
		{RequesterID: 1, TeacherID: 1, SubjectID: 1, Slot: 0},
		{RequesterID: 1, TeacherID: 1, SubjectID: 1, Slot: 1},
	}

	hints := AnalyzeInfeasibility(cfg, roster, fixed)

	require.NotEmpty(t, hints)
	assert.Contains(t, hints[0], "2 fixed lessons")
	assert.Contains(t, hints[0], "at most 1")
}

func TestAnalyzeFlagsMissingTeacherForSubject(t *testing.T) {
	cfg := testConfig(2)
	roster := NewRoster(
		[]Requester{{ID: 1, Name: "Ada", Subjects: []int{1, 2}}},
		nil,
		[]Teacher{{ID: 1, Name: "Grace", Subjects: []int{1}}},
		[]Subject{{ID: 1, Name: "Math"}, {ID: 2, Name: "English"}},
		nil,
	)

	hints := AnalyzeInfeasibility(cfg, roster, nil)

	require.Len(t, hints, 1)
	assert.Contains(t, hints[0], "Student Ada")
	assert.Contains(t, hints[0], "English")
}

func TestAnalyzeFallsBackToGenericHint(t *testing.T) {
	cfg := testConfig(2)
	roster := mathRoster(nil)

	hints := AnalyzeInfeasibility(cfg, roster, nil)

	assert.Equal(t, []string{"The configuration is too restrictive; no single cause could be identified."}, hints)
}
