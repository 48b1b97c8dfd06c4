package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lessonsolver/internal/schedule"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, int64(60*1000+1000+120), parseDuration("00:01:01.12"))
	assert.Equal(t, int64(60*60*1000+60*1000+1000+120), parseDuration("01:01:01.12"))
	assert.Equal(t, int64(60*1000+1000+120), parseDuration("1:01.12"))
	assert.Equal(t, int64(120), parseDuration("0:00.12"))
	assert.Equal(t, int64(120), parseDuration("00:00:00.12"))
}

func TestGeneratedScenariosAreDecodable(t *testing.T) {
	// Arrange
	directory := t.TempDir()

	// Act
	scenarios := generateScenarios(directory)

	// Assert: every generated file round-trips through the solver's input
	// decoder and yields a valid configuration.
	require.NotEmpty(t, scenarios)
	for _, metadata := range scenarios {
		input, err := schedule.InputFromJSON(metadata.Name)
		require.NoError(t, err, metadata.Name)
		assert.Equal(t, metadata.Slots, input.Slots)
		assert.Len(t, input.Students, metadata.Students)
		assert.Len(t, input.Teachers, metadata.Teachers)
		assert.NoError(t, input.BuildConfig().Validate())
	}
}
