package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeFlexible(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{"Log Date", "2024-01-01 10:00:00", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"Log Date With Micros", "2024-01-01 10:00:00.123456", time.Date(2024, 1, 1, 10, 0, 0, 123456000, time.UTC)},
		{"RFC3339", "2024-01-01T12:00:00+02:00", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{"Epoch Millis", "1704103200000", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeFlexible(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestParseTimeFlexibleInvalid(t *testing.T) {
	_, err := ParseTimeFlexible("yesterday")
	assert.Error(t, err)
}
