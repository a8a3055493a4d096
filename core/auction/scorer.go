package auction

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/solgrid/fieldmatch/core/faults"
	"github.com/solgrid/fieldmatch/core/model"
)

// ScoreWeights holds the four bid ranking criteria weights.
type ScoreWeights struct {
	Price       float64 `json:"price"`
	Timeline    float64 `json:"timeline"`
	Warranty    float64 `json:"warranty"`
	Reliability float64 `json:"reliability"`
}

// DefaultScoreWeights returns the platform default bid weights.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{Price: 0.35, Timeline: 0.20, Warranty: 0.15, Reliability: 0.30}
}

// ScorerConfig tunes the bid scorer. Zero values fall back to defaults.
type ScorerConfig struct {
	Weights ScoreWeights `json:"weights"`
	// MaxTimelineDays anchors the timeline score; a bid promising the
	// full window scores 50, shorter timelines score higher.
	MaxTimelineDays int `json:"max_timeline_days"`
	// MinWarrantyMonths anchors the warranty score; offering exactly the
	// minimum scores 50.
	MinWarrantyMonths int `json:"min_warranty_months"`
}

// SetDefaults fills unset fields.
func (c *ScorerConfig) SetDefaults() {
	zero := ScoreWeights{}
	if c.Weights == zero {
		c.Weights = DefaultScoreWeights()
	}
	if c.MaxTimelineDays == 0 {
		c.MaxTimelineDays = 30
	}
	if c.MinWarrantyMonths == 0 {
		c.MinWarrantyMonths = 12
	}
}

// Validate checks ranges.
func (c ScorerConfig) Validate() error {
	for _, v := range []float64{c.Weights.Price, c.Weights.Timeline, c.Weights.Warranty, c.Weights.Reliability} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return faults.Validation("bid_weights", "components must be finite and non-negative")
		}
	}
	if c.MaxTimelineDays < 0 || c.MinWarrantyMonths < 0 {
		return faults.Validation("bid_scoring", "timeline and warranty anchors must not be negative")
	}
	return nil
}

// Scorer ranks bids by a composite of price, timeline, warranty and the
// installer reliability snapshot.
type Scorer struct {
	weights           ScoreWeights
	maxTimelineDays   float64
	minWarrantyMonths float64
}

// NewScorer builds a Scorer, normalizing the weights before use. An
// all-zero weight vector falls back to the defaults.
func NewScorer(cfg ScorerConfig) (*Scorer, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w := cfg.Weights
	sum := floats.Sum([]float64{w.Price, w.Timeline, w.Warranty, w.Reliability})
	if sum == 0 {
		w = DefaultScoreWeights()
		sum = 1
	}
	return &Scorer{
		weights: ScoreWeights{
			Price:       w.Price / sum,
			Timeline:    w.Timeline / sum,
			Warranty:    w.Warranty / sum,
			Reliability: w.Reliability / sum,
		},
		maxTimelineDays:   float64(cfg.MaxTimelineDays),
		minWarrantyMonths: float64(cfg.MinWarrantyMonths),
	}, nil
}

// Score computes the composite 0-100 score of a bid against the job it
// targets. Lower prices and shorter timelines score higher; warranty
// saturates at twice the platform minimum.
func (s *Scorer) Score(bid model.Bid, job model.Job) float64 {
	priceScore := 0.0
	if job.EstimatedCost > 0 {
		priceScore = clampScore((2 - bid.Price/job.EstimatedCost) * 50)
	}
	timelineScore := 0.0
	if s.maxTimelineDays > 0 {
		timelineScore = clampScore((2 - float64(bid.TimelineDays)/s.maxTimelineDays) * 50)
	}
	warrantyScore := 0.0
	if s.minWarrantyMonths > 0 {
		warrantyScore = math.Min(100, float64(bid.WarrantyMonths)/s.minWarrantyMonths*50)
	}
	return priceScore*s.weights.Price +
		timelineScore*s.weights.Timeline +
		warrantyScore*s.weights.Warranty +
		bid.ReliabilitySnapshot*s.weights.Reliability
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
