package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExactLevelable(t *testing.T) {
	l := ExactLevelable{}

	assert.True(t, l.Filter("ERROR", nil))
	assert.True(t, l.Filter("ERROR", []string{"ERROR", "WARNING"}))
	assert.False(t, l.Filter("INFO", []string{"ERROR", "WARNING"}))
	assert.False(t, l.Filter("error", []string{"ERROR"}))
}

func TestMinimumLevelable(t *testing.T) {
	l := MinimumLevelable{}

	tests := []struct {
		name     string
		level    string
		allowed  []string
		expected bool
	}{
		{"Empty Allowed", "DEBUG", nil, true},
		{"Same Level", "WARNING", []string{"WARNING"}, true},
		{"More Severe", "CRITICAL", []string{"WARNING"}, true},
		{"Less Severe", "INFO", []string{"WARNING"}, false},
		{"Lowest Allowed Wins", "NOTICE", []string{"ERROR", "NOTICE"}, true},
		{"Unknown Level Exact", "CUSTOM", []string{"CUSTOM"}, true},
		{"Unknown Level Rejected", "CUSTOM", []string{"DEBUG"}, false},
		{"Unknown Allowed Only", "ERROR", []string{"CUSTOM"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, l.Filter(tt.level, tt.allowed))
		})
	}
}

func TestNewLevelable(t *testing.T) {
	assert.IsType(t, ExactLevelable{}, NewLevelable(""))
	assert.IsType(t, ExactLevelable{}, NewLevelable(LevelMatchExact))
	assert.IsType(t, MinimumLevelable{}, NewLevelable("Minimum"))
}

func TestParseLevels(t *testing.T) {
	assert.Equal(t, []string{"ERROR", "WARNING"}, ParseLevels("ERROR, WARNING"))
	assert.Equal(t, []string{"ERROR"}, ParseLevels(" ERROR ,"))
	assert.Nil(t, ParseLevels(""))
	assert.Nil(t, ParseLevels("  "))
}
