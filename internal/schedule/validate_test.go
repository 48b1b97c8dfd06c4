package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pinRoster() *Roster {
	return NewRoster(
		[]Requester{
			{ID: 1, Name: "Ada", Subjects: []int{1}},
			{ID: 2, Name: "Bob", Subjects: []int{1, 2}},
		},
		[]Group{{ID: 1, Name: "Duo", Subjects: []int{1}, Members: []int{1, 2}}},
		[]Teacher{
			{ID: 1, Name: "Grace", Subjects: []int{1}},
			{ID: 2, Name: "Edsger", Subjects: []int{2}},
		},
		[]Subject{{ID: 1, Name: "Math"}, {ID: 2, Name: "English"}},
		nil,
	)
}

func TestValidateFixedAcceptsEligiblePins(t *testing.T) {
	cfg := testConfig(2)
	fixed := []FixedAssignment{
		{RequesterID: 1, TeacherID: 1, SubjectID: 1, Slot: 0},
		{RequesterID: 2, TeacherID: 1, SubjectID: 1, Slot: 1},
	}

	assert.NoError(t, ValidateFixed(cfg, pinRoster(), fixed))
}

func TestValidateFixedRejections(t *testing.T) {
	cfg := testConfig(2)
	roster := pinRoster()

	cases := []struct {
		name   string
		fixed  []FixedAssignment
		reason string
	}{
		{
			name:   "unknown requester",
			fixed:  []FixedAssignment{{RequesterID: 99, TeacherID: 1, SubjectID: 1, Slot: 0}},
			reason: "unknown requester 99",
		},
		{
			name:   "unknown teacher",
			fixed:  []FixedAssignment{{RequesterID: 1, TeacherID: 99, SubjectID: 1, Slot: 0}},
			reason: "unknown teacher 99",
		},
		{
			name:   "slot outside grid",
			fixed:  []FixedAssignment{{RequesterID: 1, TeacherID: 1, SubjectID: 1, Slot: 2}},
			reason: "outside the grid",
		},
		{
			name:   "requester does not require subject",
			fixed:  []FixedAssignment{{RequesterID: 1, TeacherID: 2, SubjectID: 2, Slot: 0}},
			reason: "Ada does not require English",
		},
		{
			name:   "teacher does not teach subject",
			fixed:  []FixedAssignment{{RequesterID: 2, TeacherID: 1, SubjectID: 2, Slot: 0}},
			reason: "Grace does not teach English",
		},
		{
			name: "teacher double-booked",
			fixed: []FixedAssignment{
				{RequesterID: 1, TeacherID: 1, SubjectID: 1, Slot: 0},
				{RequesterID: 2, TeacherID: 1, SubjectID: 1, Slot: 0},
			},
			reason: "teacher 1 already has a fixed lesson in slot 0",
		},
		{
			name: "requester double-booked",
			fixed: []FixedAssignment{
				{RequesterID: 1, TeacherID: 1, SubjectID: 1, Slot: 0},
				{RequesterID: 1, TeacherID: 2, SubjectID: 1, Slot: 0},
			},
			reason: "requester 1 already has a fixed lesson in slot 0",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateFixed(cfg, roster, tc.fixed)

			require.Error(t, err)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, "fixed", cfgErr.Field)
			assert.Contains(t, err.Error(), tc.reason)
		})
	}
}

func TestValidateFixedRejectsSuppressedGroupPin(t *testing.T) {
	cfg := testConfig(2)
	cfg.GroupWeight = 0
	fixed := []FixedAssignment{{RequesterID: GroupIDOffset + 1, TeacherID: 1, SubjectID: 1, Slot: 0}}

	err := ValidateFixed(cfg, pinRoster(), fixed)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "suppressed")
}

func TestValidateFixedChecksPermittedLocation(t *testing.T) {
	cfg := testConfig(2)
	roster := NewRoster(
		[]Requester{{ID: 1, Name: "Ada", Subjects: []int{1}, AllowedLocations: []int{1}}},
		nil,
		[]Teacher{{ID: 1, Name: "Grace", Subjects: []int{1}}},
		[]Subject{{ID: 1, Name: "Math"}},
		[]Location{{ID: 1, Name: "Lab"}, {ID: 2, Name: "Hall"}},
	)

	// Act
	okErr := ValidateFixed(cfg, roster, []FixedAssignment{{RequesterID: 1, TeacherID: 1, SubjectID: 1, Slot: 0, LocationID: ptr(1)}})
	badErr := ValidateFixed(cfg, roster, []FixedAssignment{{RequesterID: 1, TeacherID: 1, SubjectID: 1, Slot: 0, LocationID: ptr(2)}})

	// Assert
	assert.NoError(t, okErr)
	require.Error(t, badErr)
	assert.Contains(t, badErr.Error(), "location 2 is not permitted")
}

func TestBlockAllowedRejectsPinnedPair(t *testing.T) {
	roster := pinRoster()
	fixed := []FixedAssignment{{RequesterID: 1, TeacherID: 1, SubjectID: 1, Slot: 0}}

	err := BlockAllowed(roster, fixed, 1, 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "fixed lesson")
}

func TestBlockAllowedProtectsGroupCoverage(t *testing.T) {
	// Arrange: Grace is the only Math teacher; blocking her for a Duo member
	// leaves the group subject untaught.
	roster := pinRoster()

	err := BlockAllowed(roster, nil, 1, 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "group Duo")
	assert.Contains(t, err.Error(), "Math")
}

func TestBlockAllowedAcceptsHarmlessBlock(t *testing.T) {
	// Edsger teaches no group subject; blocking him is safe.
	roster := pinRoster()

	assert.NoError(t, BlockAllowed(roster, nil, 1, 2))
}

func TestConfigValidateRejectsInconsistentBounds(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero slots", func(c *Config) { c.Slots = 0 }, "slots"},
		{"negative min lessons", func(c *Config) { c.MinLessons = -1 }, "min_lessons"},
		{"max below min", func(c *Config) { c.MinLessons = 3; c.MaxLessons = ptr(2) }, "max_lessons"},
		{"negative teacher min", func(c *Config) { c.TeacherMinLessons = -1 }, "teacher_min_lessons"},
		{"teacher max below min", func(c *Config) { c.TeacherMinLessons = 2; c.TeacherMaxLessons = ptr(1) }, "teacher_max_lessons"},
		{"zero max repeats", func(c *Config) { c.MaxRepeats = 0 }, "max_repeats"},
		{"negative group weight", func(c *Config) { c.GroupWeight = -1 }, "group_weight"},
		{"empty backend", func(c *Config) { c.Backend = "" }, "backend"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()

			require.Error(t, err)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tc.field, cfgErr.Field)
		})
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()

	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 8, cfg.Slots)
	assert.Equal(t, "gophersat", cfg.Backend)
	assert.True(t, cfg.Assumptions)
	assert.True(t, cfg.RequireAllSubjects)
}

func TestResolvePrefersOverride(t *testing.T) {
	assert.Equal(t, 3, resolve(ptr(3), 5))
	assert.Equal(t, 5, resolve(nil, 5))
	assert.True(t, resolve(ptr(true), false))
}
