package escrow

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/solgrid/fieldmatch/core/faults"
)

// MilestoneSpec names one stage of a payment and the percentage of the
// total it carries.
type MilestoneSpec struct {
	Name    string  `json:"name"`
	Percent float64 `json:"percent"`
}

// SplitConfig defines how a payment total is divided across milestones.
// Percentages must sum to exactly 100; a config that does not is rejected
// at payment creation rather than silently renormalized.
type SplitConfig struct {
	Milestones []MilestoneSpec `json:"milestones"`
}

// DefaultSplit returns the platform default 20/40/30/10 split.
func DefaultSplit() SplitConfig {
	return SplitConfig{Milestones: []MilestoneSpec{
		{Name: "Design Approval", Percent: 20},
		{Name: "Installation Complete", Percent: 40},
		{Name: "Verification Passed", Percent: 30},
		{Name: "Post-Performance Check", Percent: 10},
	}}
}

// Validate checks that the split is usable: at least one milestone, every
// percentage positive, and a sum of exactly 100.
func (c SplitConfig) Validate() error {
	if len(c.Milestones) == 0 {
		return faults.Validation("milestones", "split must define at least one milestone")
	}
	pcts := make([]float64, 0, len(c.Milestones))
	for _, m := range c.Milestones {
		if m.Percent <= 0 {
			return faults.Validation("milestones", "percentage for %q must be positive", m.Name)
		}
		pcts = append(pcts, m.Percent)
	}
	if sum := floats.Sum(pcts); math.Abs(sum-100) > 1e-6 {
		return faults.Validation("milestones", "percentages sum to %v, want 100", sum)
	}
	return nil
}

// amounts splits the total across the milestones. Amounts are rounded to
// two decimals and the last milestone absorbs the rounding remainder so
// the amounts always sum to the total exactly.
func (c SplitConfig) amounts(total float64) []float64 {
	res := make([]float64, len(c.Milestones))
	var allocated float64
	for i, m := range c.Milestones {
		if i == len(c.Milestones)-1 {
			res[i] = round2(total - allocated)
			break
		}
		res[i] = round2(total * m.Percent / 100)
		allocated += res[i]
	}
	return res
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
