package auction

import (
	"testing"

	"github.com/solgrid/fieldmatch/core/model"
)

func TestScorer_LowerPriceScoresHigher(t *testing.T) {
	s, err := NewScorer(ScorerConfig{})
	if err != nil {
		t.Fatalf("new scorer: %v", err)
	}
	job := model.Job{ID: "101", EstimatedCost: 96000}
	cheap := model.Bid{Price: 90000, TimelineDays: 20, WarrantyMonths: 12, ReliabilitySnapshot: 80}
	dear := model.Bid{Price: 102000, TimelineDays: 20, WarrantyMonths: 12, ReliabilitySnapshot: 80}
	if s.Score(cheap, job) <= s.Score(dear, job) {
		t.Fatal("cheaper bid should score higher")
	}
}

func TestScorer_PriceScoreClamped(t *testing.T) {
	s, err := NewScorer(ScorerConfig{Weights: ScoreWeights{Price: 1}})
	if err != nil {
		t.Fatalf("new scorer: %v", err)
	}
	job := model.Job{ID: "101", EstimatedCost: 1000}
	// Price at triple the estimate drives the raw score negative; it must
	// clamp at zero, not go below.
	gouge := model.Bid{Price: 3000}
	if got := s.Score(gouge, job); got != 0 {
		t.Fatalf("expected clamped zero score, got %v", got)
	}
	free := model.Bid{Price: 0}
	if got := s.Score(free, job); got != 100 {
		t.Fatalf("expected clamped 100 score, got %v", got)
	}
}

func TestScorer_WarrantySaturates(t *testing.T) {
	s, err := NewScorer(ScorerConfig{Weights: ScoreWeights{Warranty: 1}})
	if err != nil {
		t.Fatalf("new scorer: %v", err)
	}
	job := model.Job{ID: "101", EstimatedCost: 1000}
	longWarranty := model.Bid{WarrantyMonths: 60}
	if got := s.Score(longWarranty, job); got != 100 {
		t.Fatalf("warranty score should saturate at 100, got %v", got)
	}
	minWarranty := model.Bid{WarrantyMonths: 12}
	if got := s.Score(minWarranty, job); got != 50 {
		t.Fatalf("minimum warranty should score 50, got %v", got)
	}
}

func TestScorer_WeightsNormalized(t *testing.T) {
	s, err := NewScorer(ScorerConfig{Weights: ScoreWeights{Price: 35, Timeline: 20, Warranty: 15, Reliability: 30}})
	if err != nil {
		t.Fatalf("new scorer: %v", err)
	}
	sum := s.weights.Price + s.weights.Timeline + s.weights.Warranty + s.weights.Reliability
	if sum < 0.999999 || sum > 1.000001 {
		t.Fatalf("weights not normalized, sum %v", sum)
	}
}

func TestScorerConfig_RejectsNegativeWeights(t *testing.T) {
	if _, err := NewScorer(ScorerConfig{Weights: ScoreWeights{Price: -1}}); err == nil {
		t.Fatal("expected validation error for negative weight")
	}
}
