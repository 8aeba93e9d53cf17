package reader

import (
	"slices"
	"strings"
)

const (
	LevelMatchExact   = "exact"
	LevelMatchMinimum = "minimum"
)

// Levelable decides whether an entry level passes the allowed set. An empty
// allowed set always passes.
type Levelable interface {
	Filter(level string, allowed []string) bool
}

// ExactLevelable passes levels that appear in the allowed set verbatim.
type ExactLevelable struct{}

func (ExactLevelable) Filter(level string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	return slices.Contains(allowed, level)
}

// Monolog severities.
var severities = map[string]int{
	"DEBUG":     100,
	"INFO":      200,
	"NOTICE":    250,
	"WARNING":   300,
	"ERROR":     400,
	"CRITICAL":  500,
	"ALERT":     550,
	"EMERGENCY": 600,
}

// MinimumLevelable treats the allowed set as a threshold: a level passes when
// it is at least as severe as the least severe allowed level. Levels it does
// not know are matched exactly.
type MinimumLevelable struct{}

func (MinimumLevelable) Filter(level string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	threshold := -1
	for _, a := range allowed {
		if sev, ok := severities[a]; ok && (threshold < 0 || sev < threshold) {
			threshold = sev
		}
	}
	sev, ok := severities[level]
	if !ok || threshold < 0 {
		return slices.Contains(allowed, level)
	}
	return sev >= threshold
}

func NewLevelable(mode string) Levelable {
	if strings.EqualFold(mode, LevelMatchMinimum) {
		return MinimumLevelable{}
	}
	return ExactLevelable{}
}

// ParseLevels turns "ERROR, WARNING" into ["ERROR", "WARNING"].
func ParseLevels(s string) []string {
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return nil
	}
	var levels []string
	for _, level := range strings.Split(s, ",") {
		if level != "" {
			levels = append(levels, level)
		}
	}
	return levels
}
