package allocation

import (
	"errors"
	"strings"
	"testing"

	"github.com/solgrid/fieldmatch/core/model"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	p, err := NewPolicy(DefaultWeights())
	if err != nil {
		t.Fatalf("new policy: %v", err)
	}
	return NewEngine(p, nopLogger{})
}

func delhiJob() model.Job {
	return model.Job{ID: "job-1", Lat: 28.6139, Lng: 77.2090, EstimatedCost: 96000}
}

// installer near the job with tunable reliability, all other factors equal.
func testInstaller(id string, reliability float64) model.Installer {
	return model.Installer{
		ID:                id,
		Name:              "Installer " + id,
		Lat:               28.62,
		Lng:               77.21,
		ReliabilityIndex:  reliability,
		CapacityAvailable: 5,
		CapacityMax:       10,
		CostFactor:        1.0,
		SLACompliancePct:  90,
	}
}

func TestAllocate_GovOptimizedPrefersReliability(t *testing.T) {
	e := newTestEngine(t)
	installers := []model.Installer{
		testInstaller("a", 85),
		testInstaller("b", 92),
		testInstaller("c", 70),
	}
	res, err := e.Allocate(delhiJob(), installers, Options{Mode: model.ModeGovOptimized})
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if res.InstallerID != "b" {
		t.Fatalf("expected reliability 92 installer to win, got %s (score %v)", res.InstallerID, res.Score)
	}
	if len(res.Alternates) != 2 {
		t.Fatalf("expected 2 alternates, got %d", len(res.Alternates))
	}
	if res.Alternates[0].Rank != 2 || res.Alternates[1].Rank != 3 {
		t.Errorf("alternate ranks should start at 2: %+v", res.Alternates)
	}
	if res.Alternates[0].InstallerID != "a" {
		t.Errorf("expected reliability 85 installer ranked second, got %s", res.Alternates[0].InstallerID)
	}
}

func TestAllocate_FiltersBlacklisted(t *testing.T) {
	e := newTestEngine(t)
	bad := testInstaller("bad", 99)
	bad.Blacklisted = true
	installers := []model.Installer{bad, testInstaller("ok", 60)}

	res, err := e.Allocate(delhiJob(), installers, Options{Mode: model.ModeUserChoice})
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if res.InstallerID == "bad" {
		t.Fatal("blacklisted installer won the allocation")
	}
	for _, alt := range res.Alternates {
		if alt.InstallerID == "bad" {
			t.Fatal("blacklisted installer appeared as alternate")
		}
	}
}

func TestAllocate_NoEligibleInstallers(t *testing.T) {
	e := newTestEngine(t)
	bad := testInstaller("bad", 99)
	bad.Blacklisted = true

	_, err := e.Allocate(delhiJob(), []model.Installer{bad}, Options{})
	if !errors.Is(err, ErrNoEligibleInstallers) {
		t.Fatalf("expected ErrNoEligibleInstallers, got %v", err)
	}
	_, err = e.Allocate(delhiJob(), nil, Options{})
	if !errors.Is(err, ErrNoEligibleInstallers) {
		t.Fatalf("expected ErrNoEligibleInstallers for empty list, got %v", err)
	}
}

func TestAllocate_ForcedAssignment(t *testing.T) {
	e := newTestEngine(t)
	installers := []model.Installer{testInstaller("a", 95), testInstaller("b", 40)}

	res, err := e.Allocate(delhiJob(), installers, Options{ForceInstallerID: "b"})
	if err != nil {
		t.Fatalf("allocate forced: %v", err)
	}
	if res.InstallerID != "b" || res.Score != 100 || !res.Forced {
		t.Fatalf("unexpected forced result %+v", res)
	}
	if res.Reason != "forced assignment" {
		t.Errorf("unexpected reason %q", res.Reason)
	}
}

func TestAllocate_ForcedUnavailable(t *testing.T) {
	e := newTestEngine(t)
	bad := testInstaller("bad", 90)
	bad.Blacklisted = true
	installers := []model.Installer{testInstaller("a", 95), bad}

	if _, err := e.Allocate(delhiJob(), installers, Options{ForceInstallerID: "missing"}); !errors.Is(err, ErrForcedInstallerUnavailable) {
		t.Fatalf("expected ErrForcedInstallerUnavailable for missing id, got %v", err)
	}
	if _, err := e.Allocate(delhiJob(), installers, Options{ForceInstallerID: "bad"}); !errors.Is(err, ErrForcedInstallerUnavailable) {
		t.Fatalf("expected ErrForcedInstallerUnavailable for blacklisted id, got %v", err)
	}
}

func TestAllocate_EquitablePrefersCapacity(t *testing.T) {
	e := newTestEngine(t)
	small := testInstaller("small", 80)
	small.CapacityAvailable = 1
	big := testInstaller("big", 80)
	big.CapacityAvailable = 9

	res, err := e.Allocate(delhiJob(), []model.Installer{small, big}, Options{Mode: model.ModeEquitable})
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if res.InstallerID != "big" {
		t.Fatalf("expected high-capacity installer to win EQUITABLE mode, got %s", res.InstallerID)
	}
}

func TestAllocate_CostBandRewardsCheaperInstallers(t *testing.T) {
	e := newTestEngine(t)
	cheap := testInstaller("cheap", 80)
	cheap.CostFactor = 0.85
	dear := testInstaller("dear", 80)
	dear.CostFactor = 1.4

	res, err := e.Allocate(delhiJob(), []model.Installer{dear, cheap}, Options{Mode: model.ModeUserChoice})
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if res.InstallerID != "cheap" {
		t.Fatalf("expected lower cost factor to win, got %s", res.InstallerID)
	}
	if res.Breakdown.CostBand != 95 {
		t.Errorf("cost band sub-score = %v, want 95", res.Breakdown.CostBand)
	}
}

func TestAllocate_AlternatesCappedAtFour(t *testing.T) {
	e := newTestEngine(t)
	var installers []model.Installer
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		installers = append(installers, testInstaller(id, 50))
	}
	res, err := e.Allocate(delhiJob(), installers, Options{})
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if len(res.Alternates) != 4 {
		t.Fatalf("expected 4 alternates, got %d", len(res.Alternates))
	}
}

func TestExplainAllocation(t *testing.T) {
	e := newTestEngine(t)
	res, err := e.Allocate(delhiJob(), []model.Installer{testInstaller("a", 95)}, Options{Mode: model.ModeGovOptimized})
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if !strings.Contains(res.Reason, "reliability record") {
		t.Errorf("expected reliability named in reason, got %q", res.Reason)
	}
}

func TestExplainAllocation_GenericFallback(t *testing.T) {
	res := &Result{Score: 3.2, Breakdown: Breakdown{}, Weights: DefaultWeights()}
	if got := ExplainAllocation(res); !strings.Contains(got, "best composite score") {
		t.Errorf("expected generic fallback, got %q", got)
	}
}
