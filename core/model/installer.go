package model

import "fmt"

// Installer represents a service provider able to execute jobs. Records
// are owned and mutated by the external reputation system; the core reads
// them but never writes back.
type Installer struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`

	// ReliabilityIndex is a 0-100 composite of historical quality and
	// timeliness, computed externally.
	ReliabilityIndex float64 `json:"reliability_index"`

	CapacityAvailable int `json:"capacity_available"`
	CapacityMax       int `json:"capacity_max"`

	// CostFactor expresses pricing relative to market rate, 1.0 being
	// market. Lower factors score higher in the cost band.
	CostFactor float64 `json:"cost_factor"`

	SLACompliancePct float64 `json:"sla_compliance_pct"`
	Blacklisted      bool    `json:"is_blacklisted"`
}

// Validate checks that the installer record is sound.
func (i Installer) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("installer id must not be empty")
	}
	if i.ReliabilityIndex < 0 || i.ReliabilityIndex > 100 {
		return fmt.Errorf("reliability index out of range: %v", i.ReliabilityIndex)
	}
	if i.CapacityAvailable < 0 || i.CapacityMax < 0 {
		return fmt.Errorf("capacity must not be negative")
	}
	if i.CapacityAvailable > i.CapacityMax && i.CapacityMax > 0 {
		return fmt.Errorf("available capacity %d exceeds max %d", i.CapacityAvailable, i.CapacityMax)
	}
	if i.CostFactor <= 0 {
		return fmt.Errorf("cost factor must be positive")
	}
	if i.SLACompliancePct < 0 || i.SLACompliancePct > 100 {
		return fmt.Errorf("sla compliance out of range: %v", i.SLACompliancePct)
	}
	return nil
}
