package model

import "fmt"

// AllocationMode selects the weight profile used when scoring installers.
type AllocationMode int

const (
	// ModeGovOptimized emphasises reliability and SLA history, used for
	// government-subsidised projects.
	ModeGovOptimized AllocationMode = iota
	// ModeEquitable emphasises available capacity to spread work across
	// the installer base.
	ModeEquitable
	// ModeUserChoice applies the platform-configured default weights.
	ModeUserChoice
)

// String returns a human-readable representation of the allocation mode.
func (m AllocationMode) String() string {
	switch m {
	case ModeGovOptimized:
		return "GOV_OPTIMIZED"
	case ModeEquitable:
		return "EQUITABLE"
	case ModeUserChoice:
		return "USER_CHOICE"
	default:
		return "unknown"
	}
}

// ParseAllocationMode converts a mode name into an AllocationMode.
func ParseAllocationMode(s string) (AllocationMode, error) {
	switch s {
	case "GOV_OPTIMIZED":
		return ModeGovOptimized, nil
	case "EQUITABLE":
		return ModeEquitable, nil
	case "USER_CHOICE":
		return ModeUserChoice, nil
	default:
		return 0, fmt.Errorf("unknown allocation mode %q", s)
	}
}
