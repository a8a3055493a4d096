package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/solgrid/fieldmatch/core/model"
)

type InstallerDef struct {
	ID                string  `yaml:"id"`
	Name              string  `yaml:"name"`
	Lat               float64 `yaml:"lat"`
	Lng               float64 `yaml:"lng"`
	Reliability       float64 `yaml:"reliability"`
	CapacityAvailable int     `yaml:"capacity_available"`
	CapacityMax       int     `yaml:"capacity_max"`
	CostFactor        float64 `yaml:"cost_factor"`
	SLACompliance     float64 `yaml:"sla_compliance"`
	Blacklisted       bool    `yaml:"blacklisted"`
}

func (i InstallerDef) ToModel() model.Installer {
	return model.Installer{
		ID:                i.ID,
		Name:              i.Name,
		Lat:               i.Lat,
		Lng:               i.Lng,
		ReliabilityIndex:  i.Reliability,
		CapacityAvailable: i.CapacityAvailable,
		CapacityMax:       i.CapacityMax,
		CostFactor:        i.CostFactor,
		SLACompliancePct:  i.SLACompliance,
		Blacklisted:       i.Blacklisted,
	}
}

type JobDef struct {
	ID            string  `yaml:"id"`
	Lat           float64 `yaml:"lat"`
	Lng           float64 `yaml:"lng"`
	EstimatedCost float64 `yaml:"estimated_cost"`
	Complexity    string  `yaml:"complexity,omitempty"`
}

func (j JobDef) ToModel() model.Job {
	return model.Job{
		ID:            j.ID,
		Lat:           j.Lat,
		Lng:           j.Lng,
		EstimatedCost: j.EstimatedCost,
		Complexity:    j.Complexity,
	}
}

type BidDef struct {
	Installer      string  `yaml:"installer"`
	Price          float64 `yaml:"price"`
	TimelineDays   int     `yaml:"timeline_days"`
	WarrantyMonths int     `yaml:"warranty_months"`
}

type Expected struct {
	// AllocatedTo is the installer the engine must pick.
	AllocatedTo string `yaml:"allocated_to,omitempty"`
	// Alternates is the expected number of ranked runner-ups.
	Alternates *int `yaml:"alternates,omitempty"`
	// TopBidder is the installer whose bid must rank first.
	TopBidder string `yaml:"top_bidder,omitempty"`
}

type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Job         JobDef         `yaml:"job"`
	Installers  []InstallerDef `yaml:"installers"`
	Mode        string         `yaml:"mode,omitempty"`
	Bids        []BidDef       `yaml:"bids,omitempty"`
	Expected    Expected       `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
