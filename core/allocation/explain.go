package allocation

import (
	"fmt"
	"strings"
)

// contributionThreshold is the weighted-points floor above which a factor
// is named in the justification.
const contributionThreshold = 5.0

// ExplainAllocation builds a short human-readable justification for the
// winning installer. Factors whose weighted contribution exceeds the
// threshold are listed in a fixed order; if none qualify a generic
// sentence is returned.
func ExplainAllocation(res *Result) string {
	if res.Forced {
		return "forced assignment"
	}
	type factor struct {
		label        string
		contribution float64
	}
	factors := []factor{
		{"available capacity", res.Breakdown.Capacity * res.Weights.Capacity},
		{"reliability record", res.Breakdown.Reliability * res.Weights.Reliability},
		{"competitive cost band", res.Breakdown.CostBand * res.Weights.CostBand},
		{"proximity to site", res.Breakdown.Distance * res.Weights.Distance},
		{"SLA history", res.Breakdown.SLAHistory * res.Weights.SLAHistory},
	}
	var parts []string
	for _, f := range factors {
		if f.contribution > contributionThreshold {
			parts = append(parts, fmt.Sprintf("%s (+%.1f)", f.label, f.contribution))
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("best composite score (%.1f) among eligible installers", res.Score)
	}
	return "selected for " + strings.Join(parts, ", ")
}
