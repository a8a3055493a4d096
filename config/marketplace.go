package config

import (
	"github.com/solgrid/fieldmatch/core/allocation"
	"github.com/solgrid/fieldmatch/core/escrow"
	"github.com/solgrid/fieldmatch/core/model"
)

// AllocationConfig tunes the allocation engine.
type AllocationConfig struct {
	// DefaultMode is used when a request does not name a mode.
	DefaultMode string `json:"default_mode"`
	// DefaultWeights backs the USER_CHOICE profile. Zero means the
	// platform default vector.
	DefaultWeights allocation.Weights `json:"default_weights"`
}

// SetDefaults applies sane defaults.
func (c *AllocationConfig) SetDefaults() {
	if c.DefaultMode == "" {
		c.DefaultMode = model.ModeGovOptimized.String()
	}
	if (c.DefaultWeights == allocation.Weights{}) {
		c.DefaultWeights = allocation.DefaultWeights()
	}
}

// Validate checks the mode name and weight vector.
func (c AllocationConfig) Validate() error {
	if _, err := model.ParseAllocationMode(c.DefaultMode); err != nil {
		return err
	}
	return c.DefaultWeights.Validate()
}

// Mode returns the parsed default allocation mode.
func (c AllocationConfig) Mode() model.AllocationMode {
	m, _ := model.ParseAllocationMode(c.DefaultMode)
	return m
}

// EscrowConfig tunes the payment milestone split.
type EscrowConfig struct {
	Split escrow.SplitConfig `json:"split"`
}

// SetDefaults applies the platform default 20/40/30/10 split.
func (c *EscrowConfig) SetDefaults() {
	if len(c.Split.Milestones) == 0 {
		c.Split = escrow.DefaultSplit()
	}
}

// Validate checks the split percentages.
func (c EscrowConfig) Validate() error {
	return c.Split.Validate()
}
