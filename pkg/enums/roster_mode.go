package enums

import "fmt"

// RosterMode selects how a roster file is applied to the salesman table.
type RosterMode string

const (
	RosterModeCreate RosterMode = "create"
	RosterModePatch  RosterMode = "patch"
	RosterModeUpsert RosterMode = "upsert"
)

var validRosterModes = []RosterMode{
	RosterModeCreate,
	RosterModePatch,
	RosterModeUpsert,
}

// String implements fmt.Stringer.
func (m RosterMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a supported roster mode.
func (m RosterMode) IsValid() bool {
	for _, candidate := range validRosterModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseRosterMode converts raw input into RosterMode.
func ParseRosterMode(value string) (RosterMode, error) {
	for _, candidate := range validRosterModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid roster mode %q", value)
}
