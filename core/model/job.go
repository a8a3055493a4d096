package model

import "fmt"

// Job represents a work order submitted by a project owner. Jobs are
// created by upstream collaborators and are immutable once handed to the
// core.
type Job struct {
	ID            string  `json:"id"`
	Lat           float64 `json:"lat"`
	Lng           float64 `json:"lng"`
	EstimatedCost float64 `json:"estimated_cost"`
	// Complexity is an optional free-form tag such as "rooftop" or
	// "ground_mount".
	Complexity string `json:"complexity,omitempty"`
}

// Validate checks that the job record is usable for allocation and
// bidding. EstimatedCost must be positive and coordinates must be within
// valid ranges.
func (j Job) Validate() error {
	if j.ID == "" {
		return fmt.Errorf("job id must not be empty")
	}
	if j.EstimatedCost <= 0 {
		return fmt.Errorf("estimated cost must be positive")
	}
	if j.Lat < -90 || j.Lat > 90 {
		return fmt.Errorf("latitude out of range: %v", j.Lat)
	}
	if j.Lng < -180 || j.Lng > 180 {
		return fmt.Errorf("longitude out of range: %v", j.Lng)
	}
	return nil
}
