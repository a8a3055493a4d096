package scenarios

import (
	"context"
	"testing"

	"github.com/solgrid/fieldmatch/core/allocation"
	"github.com/solgrid/fieldmatch/core/auction"
	"github.com/solgrid/fieldmatch/core/escrow"
	"github.com/solgrid/fieldmatch/core/marketplace"
	"github.com/solgrid/fieldmatch/core/model"
	"github.com/solgrid/fieldmatch/infra/logger"
	"github.com/solgrid/fieldmatch/internal/eventbus"
)

// RunScenario replays one YAML scenario against a fresh marketplace and
// checks the expectations.
func RunScenario(t *testing.T, sc *Scenario) {
	policy, err := allocation.NewPolicy(allocation.DefaultWeights())
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	scorer, err := auction.NewScorer(auction.ScorerConfig{})
	if err != nil {
		t.Fatalf("scorer: %v", err)
	}
	bus := eventbus.New()
	mgr, err := marketplace.NewManager(
		marketplace.NewDirectory(),
		allocation.NewEngine(policy, logger.NopLogger{}),
		auction.NewLifecycle(auction.NewMemoryStore(), scorer, logger.NopLogger{}),
		escrow.NewLedger(escrow.NewMemoryStore(), logger.NopLogger{}),
		nil,
		nil,
		nil,
		bus,
		logger.NopLogger{},
	)
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	defer func() { _ = mgr.Close() }()

	ctx := context.Background()
	if err := mgr.Directory().PutJob(sc.Job.ToModel()); err != nil {
		t.Fatalf("job: %v", err)
	}
	for _, def := range sc.Installers {
		if err := mgr.Directory().PutInstaller(def.ToModel()); err != nil {
			t.Fatalf("installer %s: %v", def.ID, err)
		}
	}

	mode := model.ModeGovOptimized
	if sc.Mode != "" {
		mode, err = model.ParseAllocationMode(sc.Mode)
		if err != nil {
			t.Fatalf("mode: %v", err)
		}
	}

	if sc.Expected.AllocatedTo != "" || sc.Expected.Alternates != nil {
		res, err := mgr.Allocate(ctx, "qa", sc.Job.ID, allocation.Options{Mode: mode})
		if err != nil {
			t.Fatalf("allocate: %v", err)
		}
		if sc.Expected.AllocatedTo != "" && res.InstallerID != sc.Expected.AllocatedTo {
			t.Errorf("scenario %s expected allocation to %s, got %s", sc.Name, sc.Expected.AllocatedTo, res.InstallerID)
		}
		if sc.Expected.Alternates != nil && len(res.Alternates) != *sc.Expected.Alternates {
			t.Errorf("scenario %s expected %d alternates, got %d", sc.Name, *sc.Expected.Alternates, len(res.Alternates))
		}
	}

	if len(sc.Bids) == 0 {
		return
	}
	if _, err := mgr.OpenAuction(ctx, "qa", sc.Job.ID, 72); err != nil {
		t.Fatalf("open auction: %v", err)
	}
	for _, b := range sc.Bids {
		if _, err := mgr.SubmitBid(ctx, sc.Job.ID, b.Installer, b.Price, b.TimelineDays, b.WarrantyMonths); err != nil {
			t.Fatalf("bid from %s: %v", b.Installer, err)
		}
	}
	ranked, err := mgr.RankBids(ctx, sc.Job.ID)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if len(ranked) == 0 {
		t.Fatalf("scenario %s produced no ranked bids", sc.Name)
	}
	if sc.Expected.TopBidder != "" && ranked[0].InstallerID != sc.Expected.TopBidder {
		t.Errorf("scenario %s expected top bidder %s, got %s", sc.Name, sc.Expected.TopBidder, ranked[0].InstallerID)
	}
}
