// Package allocation scores installers against a job using a weighted
// multi-criteria strategy and selects a winner with ranked alternates.
package allocation

import (
	"math"
	"sort"
	"time"

	"github.com/solgrid/fieldmatch/core/geo"
	"github.com/solgrid/fieldmatch/core/logger"
	"github.com/solgrid/fieldmatch/core/model"
)

// maxAlternates caps the number of ranked runner-ups kept in a result.
const maxAlternates = 4

// Breakdown holds the raw 0-100 sub-scores of one installer.
type Breakdown struct {
	Capacity    float64 `json:"capacity"`
	Reliability float64 `json:"reliability"`
	CostBand    float64 `json:"cost_band"`
	Distance    float64 `json:"distance"`
	SLAHistory  float64 `json:"sla_history"`
}

// Alternate is a ranked runner-up installer. Ranks start at 2, the winner
// holding rank 1 implicitly.
type Alternate struct {
	Rank          int     `json:"rank"`
	InstallerID   string  `json:"installer_id"`
	InstallerName string  `json:"installer_name"`
	Score         float64 `json:"score"`
}

// Result is the outcome of one allocation decision.
type Result struct {
	JobID         string      `json:"job_id"`
	InstallerID   string      `json:"installer_id"`
	InstallerName string      `json:"installer_name"`
	Score         float64     `json:"score"`
	Breakdown     Breakdown   `json:"breakdown"`
	Weights       Weights     `json:"weights"`
	Alternates    []Alternate `json:"alternates,omitempty"`
	Reason        string      `json:"reason"`
	Forced        bool        `json:"forced,omitempty"`
	Mode          string      `json:"mode"`
	DecidedAt     time.Time   `json:"decided_at"`
}

// Options tune a single allocation call.
type Options struct {
	Mode model.AllocationMode
	// CustomWeights overrides the mode profile when set.
	CustomWeights *Weights
	// ForceInstallerID bypasses scoring entirely. It is an explicit admin
	// override and is flagged on the result so it can be audited.
	ForceInstallerID string
}

// Engine allocates jobs to installers.
type Engine struct {
	policy *Policy
	log    logger.Logger
}

// NewEngine creates an allocation engine using the given weight policy.
func NewEngine(policy *Policy, log logger.Logger) *Engine {
	return &Engine{policy: policy, log: log}
}

type candidate struct {
	installer model.Installer
	score     float64
	breakdown Breakdown
}

// Allocate selects the best installer for the job. Blacklisted installers
// are filtered first; a forced installer id short-circuits scoring.
func (e *Engine) Allocate(job model.Job, installers []model.Installer, opts Options) (*Result, error) {
	eligible := make([]model.Installer, 0, len(installers))
	for _, ins := range installers {
		if ins.Blacklisted {
			continue
		}
		eligible = append(eligible, ins)
	}
	if len(eligible) == 0 {
		allocationFailures.WithLabelValues("no_eligible").Inc()
		return nil, ErrNoEligibleInstallers
	}

	if opts.ForceInstallerID != "" {
		return e.allocateForced(job, eligible, opts)
	}

	weights, err := e.policy.Resolve(opts.Mode, opts.CustomWeights)
	if err != nil {
		allocationFailures.WithLabelValues("bad_weights").Inc()
		return nil, err
	}

	list := make([]candidate, 0, len(eligible))
	for _, ins := range eligible {
		bd := e.scoreInstaller(job, ins)
		list = append(list, candidate{installer: ins, score: composite(bd, weights), breakdown: bd})
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].score != list[j].score {
			return list[i].score > list[j].score
		}
		return list[i].installer.ID < list[j].installer.ID
	})

	top := list[0]
	res := &Result{
		JobID:         job.ID,
		InstallerID:   top.installer.ID,
		InstallerName: top.installer.Name,
		Score:         top.score,
		Breakdown:     top.breakdown,
		Weights:       weights,
		Mode:          opts.Mode.String(),
		DecidedAt:     time.Now().UTC(),
	}
	for i := 1; i < len(list) && i <= maxAlternates; i++ {
		res.Alternates = append(res.Alternates, Alternate{
			Rank:          i + 1,
			InstallerID:   list[i].installer.ID,
			InstallerName: list[i].installer.Name,
			Score:         list[i].score,
		})
	}
	res.Reason = ExplainAllocation(res)

	allocationsTotal.WithLabelValues(opts.Mode.String()).Inc()
	allocationScore.Observe(top.score)
	e.log.Debugw("allocation decided", map[string]any{
		"job_id":       job.ID,
		"installer_id": top.installer.ID,
		"score":        top.score,
		"mode":         opts.Mode.String(),
		"alternates":   len(res.Alternates),
	})
	return res, nil
}

// allocateForced resolves an explicit admin override. The forced installer
// must be present and not blacklisted; scoring is bypassed entirely.
func (e *Engine) allocateForced(job model.Job, eligible []model.Installer, opts Options) (*Result, error) {
	for _, ins := range eligible {
		if ins.ID != opts.ForceInstallerID {
			continue
		}
		forcedAssignments.Inc()
		e.log.Warnf("forced assignment of job %s to installer %s", job.ID, ins.ID)
		return &Result{
			JobID:         job.ID,
			InstallerID:   ins.ID,
			InstallerName: ins.Name,
			Score:         100,
			Reason:        "forced assignment",
			Forced:        true,
			Mode:          opts.Mode.String(),
			DecidedAt:     time.Now().UTC(),
		}, nil
	}
	allocationFailures.WithLabelValues("forced_unavailable").Inc()
	return nil, ErrForcedInstallerUnavailable
}

// scoreInstaller computes the raw 0-100 sub-scores for one installer.
func (e *Engine) scoreInstaller(job model.Job, ins model.Installer) Breakdown {
	d := geo.DistanceKM(geo.Point{Lat: job.Lat, Lng: job.Lng}, geo.Point{Lat: ins.Lat, Lng: ins.Lng})
	return Breakdown{
		Capacity:    math.Min(100, float64(ins.CapacityAvailable)*10),
		Reliability: ins.ReliabilityIndex,
		CostBand:    clamp(100-(ins.CostFactor-0.8)*100, 0, 100),
		Distance:    geo.ProximityScore(d),
		SLAHistory:  ins.SLACompliancePct,
	}
}

func composite(bd Breakdown, w Weights) float64 {
	return bd.Capacity*w.Capacity +
		bd.Reliability*w.Reliability +
		bd.CostBand*w.CostBand +
		bd.Distance*w.Distance +
		bd.SLAHistory*w.SLAHistory
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
