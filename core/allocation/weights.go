package allocation

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/solgrid/fieldmatch/core/faults"
	"github.com/solgrid/fieldmatch/core/model"
)

// Weights holds the five allocation criteria weights. Weights are
// non-negative and are normalized to sum to one before scoring.
type Weights struct {
	Capacity    float64 `json:"capacity"`
	Reliability float64 `json:"reliability"`
	CostBand    float64 `json:"cost_band"`
	Distance    float64 `json:"distance"`
	SLAHistory  float64 `json:"sla_history"`
}

// DefaultWeights returns the platform default weight vector used by the
// USER_CHOICE mode when no configuration overrides it.
func DefaultWeights() Weights {
	return Weights{
		Capacity:    0.25,
		Reliability: 0.25,
		CostBand:    0.20,
		Distance:    0.15,
		SLAHistory:  0.15,
	}
}

func (w Weights) vector() []float64 {
	return []float64{w.Capacity, w.Reliability, w.CostBand, w.Distance, w.SLAHistory}
}

// Validate checks that every component is non-negative.
func (w Weights) Validate() error {
	for _, v := range w.vector() {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return faults.Validation("weights", "components must be finite and non-negative, got %+v", w)
		}
	}
	return nil
}

// Normalize scales the vector so its components sum to one. An all-zero
// vector falls back to the platform default instead of dividing by zero.
func (w Weights) Normalize() (Weights, error) {
	if err := w.Validate(); err != nil {
		return Weights{}, err
	}
	sum := floats.Sum(w.vector())
	if sum == 0 {
		return DefaultWeights(), nil
	}
	return Weights{
		Capacity:    w.Capacity / sum,
		Reliability: w.Reliability / sum,
		CostBand:    w.CostBand / sum,
		Distance:    w.Distance / sum,
		SLAHistory:  w.SLAHistory / sum,
	}, nil
}

// Policy maps allocation modes to validated weight profiles. Profiles are
// fixed at construction time; USER_CHOICE resolves to the configured
// default vector.
type Policy struct {
	profiles map[model.AllocationMode]Weights
}

// NewPolicy builds the mode table. The default vector backs the
// USER_CHOICE mode and the all-zero fallback; it is normalized once here.
func NewPolicy(defaults Weights) (*Policy, error) {
	userChoice, err := defaults.Normalize()
	if err != nil {
		return nil, err
	}
	return &Policy{profiles: map[model.AllocationMode]Weights{
		model.ModeGovOptimized: {Capacity: 0.15, Reliability: 0.35, CostBand: 0.15, Distance: 0.15, SLAHistory: 0.20},
		model.ModeEquitable:    {Capacity: 0.40, Reliability: 0.20, CostBand: 0.15, Distance: 0.15, SLAHistory: 0.10},
		model.ModeUserChoice:   userChoice,
	}}, nil
}

// Resolve returns the weight vector for the given mode. Custom weights
// take precedence over the mode profile and are normalized before use.
func (p *Policy) Resolve(mode model.AllocationMode, custom *Weights) (Weights, error) {
	if custom != nil {
		return custom.Normalize()
	}
	w, ok := p.profiles[mode]
	if !ok {
		return Weights{}, faults.Validation("mode", "no weight profile for mode %s", mode)
	}
	return w, nil
}
