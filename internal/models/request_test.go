package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	t.Run("defaults to Low when empty", func(t *testing.T) {
		p, err := ParsePriority("")
		require.NoError(t, err)
		assert.Equal(t, PriorityLow, p)
	})

	t.Run("matches case-insensitively", func(t *testing.T) {
		for input, want := range map[string]Priority{
			"Low":    PriorityLow,
			"low":    PriorityLow,
			"MEDIUM": PriorityMedium,
			"high":   PriorityHigh,
			"High":   PriorityHigh,
		} {
			p, err := ParsePriority(input)
			require.NoError(t, err, input)
			assert.Equal(t, want, p, input)
		}
	})

	t.Run("rejects unknown values", func(t *testing.T) {
		_, err := ParsePriority("urgent")
		assert.Error(t, err)
	})
}

func TestParseStatus(t *testing.T) {
	t.Run("defaults to Pending when empty", func(t *testing.T) {
		s, err := ParseStatus("")
		require.NoError(t, err)
		assert.Equal(t, StatusPending, s)
	})

	t.Run("matches case-insensitively", func(t *testing.T) {
		s, err := ParseStatus("in progress")
		require.NoError(t, err)
		assert.Equal(t, StatusInProgress, s)

		s, err = ParseStatus("COMPLETED")
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, s)
	})

	t.Run("rejects unknown values", func(t *testing.T) {
		_, err := ParseStatus("open")
		assert.Error(t, err)
	})
}
