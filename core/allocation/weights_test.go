package allocation

import (
	"errors"
	"math"
	"testing"

	"github.com/solgrid/fieldmatch/core/faults"
	"github.com/solgrid/fieldmatch/core/model"
)

func sumOf(w Weights) float64 {
	return w.Capacity + w.Reliability + w.CostBand + w.Distance + w.SLAHistory
}

func TestNormalize_SumsToOne(t *testing.T) {
	cases := []Weights{
		{Capacity: 40, Reliability: 30, CostBand: 20, Distance: 5, SLAHistory: 5},
		{Capacity: 1, Reliability: 1, CostBand: 1, Distance: 1, SLAHistory: 1},
		{Capacity: 0.15, Reliability: 0.35, CostBand: 0.15, Distance: 0.15, SLAHistory: 0.20},
		{Capacity: 1000},
	}
	for _, w := range cases {
		n, err := w.Normalize()
		if err != nil {
			t.Fatalf("normalize %+v: %v", w, err)
		}
		if math.Abs(sumOf(n)-1.0) > 1e-6 {
			t.Errorf("normalized %+v sums to %v", w, sumOf(n))
		}
	}
}

func TestNormalize_AllZeroFallsBack(t *testing.T) {
	n, err := Weights{}.Normalize()
	if err != nil {
		t.Fatalf("normalize zero vector: %v", err)
	}
	if n != DefaultWeights() {
		t.Fatalf("expected default weights, got %+v", n)
	}
}

func TestNormalize_RejectsNegative(t *testing.T) {
	_, err := Weights{Capacity: -1, Reliability: 2}.Normalize()
	var verr *faults.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPolicy_Profiles(t *testing.T) {
	p, err := NewPolicy(DefaultWeights())
	if err != nil {
		t.Fatalf("new policy: %v", err)
	}
	gov, err := p.Resolve(model.ModeGovOptimized, nil)
	if err != nil {
		t.Fatalf("resolve gov: %v", err)
	}
	if gov.Reliability != 0.35 || gov.SLAHistory != 0.20 {
		t.Errorf("unexpected GOV_OPTIMIZED profile %+v", gov)
	}
	eq, err := p.Resolve(model.ModeEquitable, nil)
	if err != nil {
		t.Fatalf("resolve equitable: %v", err)
	}
	if eq.Capacity != 0.40 {
		t.Errorf("unexpected EQUITABLE profile %+v", eq)
	}
}

func TestPolicy_CustomWeightsTakePrecedence(t *testing.T) {
	p, err := NewPolicy(DefaultWeights())
	if err != nil {
		t.Fatalf("new policy: %v", err)
	}
	custom := &Weights{Capacity: 50, Reliability: 50}
	w, err := p.Resolve(model.ModeGovOptimized, custom)
	if err != nil {
		t.Fatalf("resolve custom: %v", err)
	}
	if w.Capacity != 0.5 || w.Reliability != 0.5 || w.CostBand != 0 {
		t.Errorf("custom weights not normalized as expected: %+v", w)
	}
}
